package fuelprices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
	"fuelprices_dashboard/internal/feature/dashboard/usecase"
	"fuelprices_dashboard/internal/platform/externalapi/fuelprices/dto"
)

// StatusError is returned when the backend answers with a non-success HTTP status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fuelprices http %d: %s", e.StatusCode, e.Endpoint)
}

// FuelPricesAPI is the PricesAPI implementation backed by the fuel prices HTTP API.
type FuelPricesAPI struct {
	cfg    Config
	client *http.Client
}

// FuelPricesAPIがPricesAPIを実装していることをコンパイル時に検証します。
var _ usecase.PricesAPI = (*FuelPricesAPI)(nil)

// NewFuelPricesAPI creates a client for the given configuration and HTTP client.
func NewFuelPricesAPI(cfg Config, client *http.Client) *FuelPricesAPI {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &FuelPricesAPI{cfg: cfg, client: client}
}

// DateRange fetches the valid date bounds for the named dataset.
//
// GET {API_URL}/dateRange/{dataType}
func (a *FuelPricesAPI) DateRange(ctx context.Context, dataType string) (entity.DateRange, error) {
	var body dto.DateRangeResponse
	if err := a.getJSON(ctx, "/dateRange/"+url.PathEscape(dataType), &body); err != nil {
		return entity.DateRange{}, err
	}
	return entity.DateRange{
		StartDate: body.StartDate.Time,
		EndDate:   body.EndDate.Time,
	}, nil
}

// DailyCountryData fetches the daily country aggregates. Zero dates are left out of the query.
//
// GET {API_URL}/data/daily/country?start_date=&end_date=
func (a *FuelPricesAPI) DailyCountryData(ctx context.Context, startDate, endDate time.Time) ([]entity.DailyCountryRecord, error) {
	var body []dto.DailyCountryResponse
	if err := a.getJSON(ctx, "/data/daily/country"+DailyCountryQuery(startDate, endDate), &body); err != nil {
		return nil, err
	}
	out := make([]entity.DailyCountryRecord, 0, len(body))
	for _, r := range body {
		out = append(out, entity.DailyCountryRecord{
			Date: r.Date.Time,
			Data: toFuelPrices(r.Data),
		})
	}
	return out, nil
}

// CountryData fetches the per-prefecture snapshot of a single day.
//
// GET {API_URL}/data/country/{date}
func (a *FuelPricesAPI) CountryData(ctx context.Context, date time.Time) (entity.CountrySnapshot, error) {
	var body dto.CountryResponse
	if err := a.getJSON(ctx, "/data/country/"+date.Format(entity.DateLayout), &body); err != nil {
		return entity.CountrySnapshot{}, err
	}
	snap := entity.CountrySnapshot{
		Date:        date,
		Prefectures: make([]entity.PrefectureData, 0, len(body.Prefectures)),
	}
	for _, p := range body.Prefectures {
		snap.Prefectures = append(snap.Prefectures, entity.PrefectureData{
			Prefecture: p.Prefecture,
			Data:       toFuelPrices(p.Data),
		})
	}
	return snap, nil
}

// DailyCountryQuery builds the optional query string of the daily country endpoint.
// start_date always precedes end_date; an empty string is returned when both are zero.
func DailyCountryQuery(startDate, endDate time.Time) string {
	var parts []string
	if !startDate.IsZero() {
		parts = append(parts, "start_date="+url.QueryEscape(startDate.Format(entity.DateLayout)))
	}
	if !endDate.IsZero() {
		parts = append(parts, "end_date="+url.QueryEscape(endDate.Format(entity.DateLayout)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

func (a *FuelPricesAPI) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("fuelprices %s: %w", endpoint, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func toFuelPrices(in []dto.FuelPrice) []entity.FuelPrice {
	out := make([]entity.FuelPrice, 0, len(in))
	for _, p := range in {
		out = append(out, entity.FuelPrice{FuelType: entity.FuelType(p.FuelType), Price: p.Price})
	}
	return out
}
