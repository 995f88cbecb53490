// Package di provides dependency injection factories for creating application components.
package di

import (
	"fuelprices_dashboard/internal/platform/cache"
	"fuelprices_dashboard/internal/platform/config"
	"fuelprices_dashboard/internal/platform/externalapi/fuelprices"
	infrahttp "fuelprices_dashboard/internal/platform/http"

	"github.com/redis/go-redis/v9"
)

// NewFuelPricesAPI creates the upstream API client with its own HTTP client.
func NewFuelPricesAPI(cfg config.APIConfig) *fuelprices.FuelPricesAPI {
	apiCfg := fuelprices.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}
	if apiCfg.Timeout <= 0 {
		apiCfg.Timeout = fuelprices.DefaultTimeout
	}
	httpClient := infrahttp.NewHTTPClient(apiCfg.Timeout, "")
	return fuelprices.NewFuelPricesAPI(apiCfg, httpClient)
}

// NewPricesAPI wraps api with the Redis cache.
// If rdb is nil the decorator passes every call through.
func NewPricesAPI(cfg *config.Config, api *fuelprices.FuelPricesAPI, rdb *redis.Client) *cache.CachingPricesAPI {
	loc := cache.LoadRefreshLocation(cfg.Cache.RefreshLocation)
	return cache.NewCachingPricesAPI(rdb, cfg.Cache.TTL, api, "fuelprices").
		WithRefresh(loc, cfg.Cache.RefreshHour)
}
