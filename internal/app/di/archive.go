package di

import (
	archiveadapters "fuelprices_dashboard/internal/feature/archive/adapters"
	archiveusecase "fuelprices_dashboard/internal/feature/archive/usecase"
	"fuelprices_dashboard/internal/platform/config"
	infrahttp "fuelprices_dashboard/internal/platform/http"
	"fuelprices_dashboard/internal/shared/ratelimiter"

	"gorm.io/gorm"
)

// NewFetchUsecase creates the archive fetcher backed by fuelprices.gr and the gorm ledger.
func NewFetchUsecase(cfg config.ArchiveConfig, db *gorm.DB) *archiveusecase.FetchUsecase {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, "")
	return archiveusecase.NewFetchUsecase(
		archiveadapters.NewHTMLScraper(cfg.BaseURL, httpClient),
		archiveadapters.NewHTTPDownloader(httpClient),
		archiveadapters.NewLedger(db),
		ratelimiter.NewRateLimiter(cfg.RateLimit, cfg.RateInterval),
		cfg.BaseURL,
		cfg.DataDir,
	)
}
