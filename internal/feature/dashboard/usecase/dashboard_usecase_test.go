package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
	"fuelprices_dashboard/internal/feature/dashboard/usecase"
)

func TestNewPicker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bounds    entity.DateRange
		wantStart string
	}{
		{"three months back", bounds("2012-01-01", "2024-05-10"), "2024-02-10"},
		{"clamped to month end", bounds("2012-01-01", "2024-05-31"), "2024-02-29"},
		{"clamped to lower bound", bounds("2024-04-01", "2024-05-10"), "2024-04-01"},
		{"single day", bounds("2024-05-10", "2024-05-10"), "2024-05-10"},
		{"across year boundary", bounds("2012-01-01", "2024-01-15"), "2023-10-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := usecase.NewPicker(tt.bounds)
			assert.Equal(t, tt.bounds, p.Bounds)
			assert.Equal(t, tt.wantStart, p.Selection.StartDate.Format(entity.DateLayout))
			assert.Equal(t, tt.bounds.EndDate, p.Selection.EndDate)
		})
	}
}

func TestValidateRange(t *testing.T) {
	t.Parallel()

	b := bounds("2024-01-01", "2024-05-10")

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"inside", day("2024-02-01"), day("2024-03-01"), false},
		{"same day", day("2024-03-01"), day("2024-03-01"), false},
		{"exact bounds", day("2024-01-01"), day("2024-05-10"), false},
		{"reversed", day("2024-03-01"), day("2024-02-01"), true},
		{"before lower bound", day("2023-12-31"), day("2024-02-01"), true},
		{"after upper bound", day("2024-02-01"), day("2024-05-11"), true},
		{"missing start", time.Time{}, day("2024-02-01"), true},
		{"missing end", day("2024-02-01"), time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := usecase.ValidateRange(b, tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, usecase.ErrInvalidRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := usecase.ParseDate("2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, day("2024-05-10"), d)

	d, err = usecase.ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = usecase.ParseDate("10/05/2024")
	assert.ErrorIs(t, err, usecase.ErrInvalidRange)
}

func TestDashboardUsecase_InitPicker(t *testing.T) {
	t.Parallel()

	t.Run("queries daily_country bounds", func(t *testing.T) {
		t.Parallel()

		var gotType string
		api := &mockPricesAPI{
			DateRangeFunc: func(_ context.Context, dataType string) (entity.DateRange, error) {
				gotType = dataType
				return bounds("2012-01-01", "2024-05-10"), nil
			},
		}

		p, err := usecase.NewDashboardUsecase(api).InitPicker(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "daily_country", gotType)
		assert.Equal(t, day("2024-02-10"), p.Selection.StartDate)
	})

	t.Run("propagates api error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		api := &mockPricesAPI{
			DateRangeFunc: func(context.Context, string) (entity.DateRange, error) {
				return entity.DateRange{}, boom
			},
		}

		_, err := usecase.NewDashboardUsecase(api).InitPicker(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rejects reversed bounds", func(t *testing.T) {
		t.Parallel()

		api := &mockPricesAPI{
			DateRangeFunc: func(context.Context, string) (entity.DateRange, error) {
				return bounds("2024-05-10", "2024-01-01"), nil
			},
		}

		_, err := usecase.NewDashboardUsecase(api).InitPicker(context.Background())
		assert.ErrorIs(t, err, usecase.ErrInvalidRange)
	})
}

func TestDashboardUsecase_FetchDaily(t *testing.T) {
	t.Parallel()

	var gotStart, gotEnd time.Time
	api := &mockPricesAPI{
		DailyCountryDataFunc: func(_ context.Context, start, end time.Time) ([]entity.DailyCountryRecord, error) {
			gotStart, gotEnd = start, end
			return sparseRecords(), nil
		},
	}

	chart, rows, err := usecase.NewDashboardUsecase(api).FetchDaily(context.Background(), day("2024-05-08"), day("2024-05-10"))
	require.NoError(t, err)

	assert.Equal(t, day("2024-05-08"), gotStart)
	assert.Equal(t, day("2024-05-10"), gotEnd)
	assert.Len(t, chart.Labels, 3)

	// 最新日(5/10)にある既知の燃料種別はUNLEADED_95のみ。前日には無いので前日比なし
	require.Len(t, rows, 1)
	assert.Equal(t, entity.FuelTypeUnleaded95, rows[0].FuelType)
	assert.Equal(t, "1.912€", rows[0].PriceText)
	assert.Empty(t, rows[0].Evolution)
}

func TestDashboardUsecase_FetchDaily_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	api := &mockPricesAPI{
		DailyCountryDataFunc: func(context.Context, time.Time, time.Time) ([]entity.DailyCountryRecord, error) {
			return nil, boom
		},
	}

	chart, rows, err := usecase.NewDashboardUsecase(api).FetchDaily(context.Background(), day("2024-05-08"), day("2024-05-10"))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, chart.Labels)
	assert.Nil(t, rows)
}

func TestDashboardUsecase_FetchPrefectures(t *testing.T) {
	t.Parallel()

	var gotDate time.Time
	api := &mockPricesAPI{
		CountryDataFunc: func(_ context.Context, date time.Time) (entity.CountrySnapshot, error) {
			gotDate = date
			return entity.CountrySnapshot{
				Date:        date,
				Prefectures: []entity.PrefectureData{{Prefecture: "ATTICA"}, {Prefecture: "ACHAEA"}},
			}, nil
		},
	}

	rows, err := usecase.NewDashboardUsecase(api).FetchPrefectures(context.Background(), day("2024-05-10"))
	require.NoError(t, err)
	assert.Equal(t, day("2024-05-10"), gotDate)
	require.Len(t, rows, 2)
	assert.Equal(t, "ATTICA", rows[0].Prefecture)
	assert.Equal(t, "ACHAEA", rows[1].Prefecture)
}
