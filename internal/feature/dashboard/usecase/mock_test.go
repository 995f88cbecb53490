package usecase_test

import (
	"context"
	"time"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
	"fuelprices_dashboard/internal/feature/dashboard/usecase"
)

type mockPricesAPI struct {
	DateRangeFunc        func(ctx context.Context, dataType string) (entity.DateRange, error)
	DailyCountryDataFunc func(ctx context.Context, start, end time.Time) ([]entity.DailyCountryRecord, error)
	CountryDataFunc      func(ctx context.Context, date time.Time) (entity.CountrySnapshot, error)
}

var _ usecase.PricesAPI = (*mockPricesAPI)(nil)

func (m *mockPricesAPI) DateRange(ctx context.Context, dataType string) (entity.DateRange, error) {
	if m.DateRangeFunc != nil {
		return m.DateRangeFunc(ctx, dataType)
	}
	return entity.DateRange{}, nil
}

func (m *mockPricesAPI) DailyCountryData(ctx context.Context, start, end time.Time) ([]entity.DailyCountryRecord, error) {
	if m.DailyCountryDataFunc != nil {
		return m.DailyCountryDataFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *mockPricesAPI) CountryData(ctx context.Context, date time.Time) (entity.CountrySnapshot, error) {
	if m.CountryDataFunc != nil {
		return m.CountryDataFunc(ctx, date)
	}
	return entity.CountrySnapshot{Date: date}, nil
}

func bounds(start, end string) entity.DateRange {
	return entity.DateRange{StartDate: day(start), EndDate: day(end)}
}
