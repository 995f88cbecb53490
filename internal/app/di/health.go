package di

import (
	"context"

	"fuelprices_dashboard/internal/feature/dashboard/usecase"
	httphandler "fuelprices_dashboard/internal/platform/http/handler"

	"github.com/redis/go-redis/v9"
)

// NewHealthChecks は /healthz で実行するチェックを組み立てます。
// api には キャッシュを通さないクライアントを渡します。rdb が nil の場合 redis のチェックは含めません。
func NewHealthChecks(api usecase.PricesAPI, rdb *redis.Client) map[string]httphandler.Check {
	checks := map[string]httphandler.Check{
		"api": func(ctx context.Context) error {
			_, err := api.DateRange(ctx, usecase.DailyCountryDataType)
			return err
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
