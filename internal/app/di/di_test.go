package di

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fuelprices_dashboard/internal/platform/config"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPricesAPI_WithoutRedisPassesThrough(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/dateRange/daily_country", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"start_date":"2023-01-01","end_date":"2024-05-10"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		API:   config.APIConfig{BaseURL: srv.URL, Timeout: time.Second},
		Cache: config.CacheConfig{TTL: time.Hour, RefreshHour: 9, RefreshLocation: "Europe/Athens"},
	}
	api := NewPricesAPI(cfg, NewFuelPricesAPI(cfg.API), nil)

	for i := 0; i < 2; i++ {
		rng, err := api.DateRange(context.Background(), "daily_country")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), rng.EndDate)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewHealthChecks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	api := NewFuelPricesAPI(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second})

	checks := NewHealthChecks(api, nil)
	require.Len(t, checks, 1)
	assert.Error(t, checks["api"](context.Background()))

	rdb, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("down"))
	checks = NewHealthChecks(api, rdb)
	require.Contains(t, checks, "redis")
	assert.Error(t, checks["redis"](context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
