// Package cache provides caching implementations for upstream API interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
	"fuelprices_dashboard/internal/feature/dashboard/usecase"
)

// DefaultTTL is used when no positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// CachingPricesAPI decorates a PricesAPI with Redis caching.
// Responses are cached until the TTL elapses or, when a refresh schedule is set,
// until the next upstream publication hour, whichever comes first.
// While cached, page loads no longer fetch fresh data from the upstream API.
type CachingPricesAPI struct {
	inner     usecase.PricesAPI
	rdb       *redis.Client
	ttl       time.Duration
	namespace string

	refreshLoc  *time.Location
	refreshHour int
}

// CachingPricesAPIがPricesAPIを実装していることをコンパイル時に検証します。
var _ usecase.PricesAPI = (*CachingPricesAPI)(nil)

// NewCachingPricesAPI decorates a PricesAPI with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "fuelprices".
// A nil rdb disables caching entirely.
func NewCachingPricesAPI(rdb *redis.Client, ttl time.Duration, inner usecase.PricesAPI, namespace string) *CachingPricesAPI {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "fuelprices"
	}
	return &CachingPricesAPI{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// WithRefresh caps every entry's lifetime at the next occurrence of hour in loc.
func (c *CachingPricesAPI) WithRefresh(loc *time.Location, hour int) *CachingPricesAPI {
	c.refreshLoc = loc
	c.refreshHour = hour
	return c
}

// DateRange returns the cached bounds for dataType or fetches them from the inner API.
func (c *CachingPricesAPI) DateRange(ctx context.Context, dataType string) (entity.DateRange, error) {
	return cached(ctx, c, c.key("date_range", dataType), func() (entity.DateRange, error) {
		return c.inner.DateRange(ctx, dataType)
	})
}

// DailyCountryData returns the cached records for the range or fetches them from the inner API.
func (c *CachingPricesAPI) DailyCountryData(ctx context.Context, startDate, endDate time.Time) ([]entity.DailyCountryRecord, error) {
	return cached(ctx, c, c.key("daily_country", dateKey(startDate), dateKey(endDate)), func() ([]entity.DailyCountryRecord, error) {
		return c.inner.DailyCountryData(ctx, startDate, endDate)
	})
}

// CountryData returns the cached snapshot for date or fetches it from the inner API.
func (c *CachingPricesAPI) CountryData(ctx context.Context, date time.Time) (entity.CountrySnapshot, error) {
	return cached(ctx, c, c.key("country", dateKey(date)), func() (entity.CountrySnapshot, error) {
		return c.inner.CountryData(ctx, date)
	})
}

// cached checks Redis first, falls back to fetch and stores the result.
// Cache failures never fail the call.
func cached[T any](ctx context.Context, c *CachingPricesAPI, key string, fetch func() (T, error)) (T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return fetch()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		slog.Warn("deleting corrupted cache entry", "key", key)
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to upstream
	out, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.expiry()).Err(); err != nil {
			slog.Debug("failed to store cache entry", "key", key, "error", err)
		}
	}
	return out, nil
}

func (c *CachingPricesAPI) expiry() time.Duration {
	if c.refreshLoc == nil {
		return c.ttl
	}
	if until := TimeUntilNextRefresh(time.Now(), c.refreshLoc, c.refreshHour); until < c.ttl {
		return until
	}
	return c.ttl
}

// key generates a cache key for a specific upstream query.
func (c *CachingPricesAPI) key(endpoint string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, c.namespace, endpoint)
	for _, p := range parts {
		escaped = append(escaped, safe(p))
	}
	return strings.Join(escaped, ":")
}

// dateKey renders an optional date for use in a key.
func dateKey(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(entity.DateLayout)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

// String describes the cache for startup logs.
func (c *CachingPricesAPI) String() string {
	if c.rdb == nil {
		return "disabled"
	}
	return fmt.Sprintf("redis namespace=%s ttl=%s", c.namespace, c.ttl)
}
