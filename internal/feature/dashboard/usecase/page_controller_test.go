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

func newControllerAPI() *mockPricesAPI {
	return &mockPricesAPI{
		DateRangeFunc: func(context.Context, string) (entity.DateRange, error) {
			return bounds("2012-01-01", "2024-05-10"), nil
		},
		DailyCountryDataFunc: func(context.Context, time.Time, time.Time) ([]entity.DailyCountryRecord, error) {
			return sparseRecords(), nil
		},
		CountryDataFunc: func(_ context.Context, date time.Time) (entity.CountrySnapshot, error) {
			return entity.CountrySnapshot{
				Date:        date,
				Prefectures: []entity.PrefectureData{{Prefecture: "ATTICA"}},
			}, nil
		},
	}
}

func TestPageController_Initialize(t *testing.T) {
	t.Parallel()

	api := newControllerAPI()
	var gotStart, gotEnd, gotSnapshotDate time.Time
	api.DailyCountryDataFunc = func(_ context.Context, start, end time.Time) ([]entity.DailyCountryRecord, error) {
		gotStart, gotEnd = start, end
		return sparseRecords(), nil
	}
	api.CountryDataFunc = func(_ context.Context, date time.Time) (entity.CountrySnapshot, error) {
		gotSnapshotDate = date
		return entity.CountrySnapshot{Date: date, Prefectures: []entity.PrefectureData{{Prefecture: "ATTICA"}}}, nil
	}

	pc := usecase.NewPageController(usecase.NewDashboardUsecase(api))
	assert.False(t, pc.Initialized())

	page, err := pc.Initialize(context.Background())
	require.NoError(t, err)
	assert.True(t, pc.Initialized())

	assert.Equal(t, bounds("2012-01-01", "2024-05-10"), page.Picker.Bounds)
	assert.Equal(t, bounds("2024-02-10", "2024-05-10"), page.Picker.Selection)
	assert.Equal(t, day("2024-05-10"), page.LatestDate)

	// 初期ロードはピッカーの選択ではなくAPIの日付範囲全体を取得する
	assert.Equal(t, day("2012-01-01"), gotStart)
	assert.Equal(t, day("2024-05-10"), gotEnd)
	assert.Equal(t, day("2024-05-10"), gotSnapshotDate)

	assert.False(t, page.DailyPending)
	assert.False(t, page.SnapshotPending)
	assert.Empty(t, page.DailyError)
	assert.Empty(t, page.SnapshotError)
	assert.Len(t, page.Chart.Labels, 3)
	assert.Len(t, page.LatestPrices, 1)
	assert.Equal(t, []entity.PrefectureRow{{Prefecture: "ATTICA", Label: "Attica"}}, page.Prefectures)

	assert.Equal(t, page, pc.Snapshot())
}

func TestPageController_Initialize_DateRangeError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	api := newControllerAPI()
	api.DateRangeFunc = func(context.Context, string) (entity.DateRange, error) {
		return entity.DateRange{}, boom
	}

	pc := usecase.NewPageController(usecase.NewDashboardUsecase(api))
	_, err := pc.Initialize(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.False(t, pc.Initialized())
}

func TestPageController_SectionsFailIndependently(t *testing.T) {
	t.Parallel()

	t.Run("daily fails", func(t *testing.T) {
		t.Parallel()

		api := newControllerAPI()
		api.DailyCountryDataFunc = func(context.Context, time.Time, time.Time) ([]entity.DailyCountryRecord, error) {
			return nil, errors.New("status 500")
		}

		page, err := usecase.NewPageController(usecase.NewDashboardUsecase(api)).Initialize(context.Background())
		require.NoError(t, err)

		assert.Equal(t, usecase.LoadFailedMessage, page.DailyError)
		assert.Empty(t, page.Chart.Labels)
		assert.Empty(t, page.LatestPrices)
		assert.Empty(t, page.SnapshotError)
		assert.Len(t, page.Prefectures, 1)
	})

	t.Run("snapshot fails", func(t *testing.T) {
		t.Parallel()

		api := newControllerAPI()
		api.CountryDataFunc = func(context.Context, time.Time) (entity.CountrySnapshot, error) {
			return entity.CountrySnapshot{}, errors.New("status 500")
		}

		page, err := usecase.NewPageController(usecase.NewDashboardUsecase(api)).Initialize(context.Background())
		require.NoError(t, err)

		assert.Empty(t, page.DailyError)
		assert.Len(t, page.Chart.Labels, 3)
		assert.Equal(t, usecase.LoadFailedMessage, page.SnapshotError)
		assert.Empty(t, page.Prefectures)
	})
}

func TestPageController_SelectRange(t *testing.T) {
	t.Parallel()

	api := newControllerAPI()
	pc := usecase.NewPageController(usecase.NewDashboardUsecase(api))

	_, err := pc.SelectRange(context.Background(), day("2024-01-01"), day("2024-02-01"))
	assert.ErrorIs(t, err, usecase.ErrNotInitialized)

	first, err := pc.Initialize(context.Background())
	require.NoError(t, err)

	page, err := pc.SelectRange(context.Background(), day("2024-01-01"), day("2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, bounds("2024-01-01", "2024-02-01"), page.Picker.Selection)
	assert.Equal(t, day("2024-02-01"), page.LatestDate)
	assert.Greater(t, page.Generation, first.Generation)
	// ピッカーの上下限は変わらない
	assert.Equal(t, first.Picker.Bounds, page.Picker.Bounds)
}

func TestPageController_SelectRange_Invalid(t *testing.T) {
	t.Parallel()

	pc := usecase.NewPageController(usecase.NewDashboardUsecase(newControllerAPI()))
	before, err := pc.Initialize(context.Background())
	require.NoError(t, err)

	_, err = pc.SelectRange(context.Background(), day("2024-03-01"), day("2024-02-01"))
	assert.ErrorIs(t, err, usecase.ErrInvalidRange)

	_, err = pc.SelectRange(context.Background(), day("2011-01-01"), day("2024-02-01"))
	assert.ErrorIs(t, err, usecase.ErrInvalidRange)

	// 不正な範囲では状態を変えない
	assert.Equal(t, before, pc.Snapshot())
}

func TestPageController_PendingWhileLoading(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	api := newControllerAPI()
	pc := usecase.NewPageController(usecase.NewDashboardUsecase(api))
	_, err := pc.Initialize(context.Background())
	require.NoError(t, err)

	api.DailyCountryDataFunc = func(context.Context, time.Time, time.Time) ([]entity.DailyCountryRecord, error) {
		close(started)
		<-release
		return sparseRecords(), nil
	}

	done := make(chan entity.Page, 1)
	go func() {
		page, _ := pc.SelectRange(context.Background(), day("2024-03-01"), day("2024-04-01"))
		done <- page
	}()

	<-started
	pending := pc.Snapshot()
	// 日付ラベルはデータ到着前に更新される
	assert.Equal(t, day("2024-04-01"), pending.LatestDate)
	assert.True(t, pending.DailyPending)

	close(release)
	page := <-done
	assert.False(t, page.DailyPending)
	assert.False(t, page.SnapshotPending)
}

func TestPageController_DiscardsSupersededLoad(t *testing.T) {
	t.Parallel()

	slowStart := day("2024-01-01")
	slowStarted := make(chan struct{})

	api := newControllerAPI()
	pc := usecase.NewPageController(usecase.NewDashboardUsecase(api))
	_, err := pc.Initialize(context.Background())
	require.NoError(t, err)

	api.DailyCountryDataFunc = func(ctx context.Context, start, _ time.Time) ([]entity.DailyCountryRecord, error) {
		if start.Equal(slowStart) {
			close(slowStarted)
			// 新しい範囲が選択されるまで応答しない古いリクエスト
			<-ctx.Done()
			return []entity.DailyCountryRecord{record("2024-01-31", price(entity.FuelTypeGas, 0.9))}, ctx.Err()
		}
		return sparseRecords(), nil
	}

	type result struct {
		page entity.Page
		err  error
	}
	slow := make(chan result, 1)
	go func() {
		page, err := pc.SelectRange(context.Background(), slowStart, day("2024-01-31"))
		slow <- result{page, err}
	}()

	<-slowStarted
	fast, err := pc.SelectRange(context.Background(), day("2024-05-01"), day("2024-05-10"))
	require.NoError(t, err)

	var stale result
	select {
	case stale = <-slow:
	case <-time.After(5 * time.Second):
		t.Fatal("superseded load did not return")
	}

	assert.ErrorIs(t, stale.err, usecase.ErrSuperseded)
	// 古いロードが返す状態も最新の選択を反映している
	assert.Equal(t, bounds("2024-05-01", "2024-05-10"), stale.page.Picker.Selection)

	final := pc.Snapshot()
	assert.Equal(t, fast, final)
	assert.Equal(t, bounds("2024-05-01", "2024-05-10"), final.Picker.Selection)
	assert.Empty(t, final.DailyError)
	assert.Equal(t, []string{"2024-05-08", "2024-05-09", "2024-05-10"}, final.Chart.Labels)
}

func TestPageController_ChartNotBlockedBySlowSnapshot(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	api := newControllerAPI()
	pc := usecase.NewPageController(usecase.NewDashboardUsecase(api))
	_, err := pc.Initialize(context.Background())
	require.NoError(t, err)

	api.CountryDataFunc = func(_ context.Context, date time.Time) (entity.CountrySnapshot, error) {
		<-release
		return entity.CountrySnapshot{Date: date, Prefectures: []entity.PrefectureData{{Prefecture: "CRETE"}}}, nil
	}

	done := make(chan entity.Page, 1)
	go func() {
		page, _ := pc.SelectRange(context.Background(), day("2024-03-01"), day("2024-04-01"))
		done <- page
	}()

	// スナップショットの応答を待たずにチャートが更新される
	var partial entity.Page
	require.Eventually(t, func() bool {
		partial = pc.Snapshot()
		return partial.Picker.Selection == bounds("2024-03-01", "2024-04-01") &&
			!partial.DailyPending && partial.SnapshotPending
	}, 5*time.Second, 5*time.Millisecond)

	assert.Len(t, partial.Chart.Labels, 3)
	assert.Len(t, partial.LatestPrices, 1)
	assert.Empty(t, partial.DailyError)

	close(release)
	page := <-done
	assert.False(t, page.SnapshotPending)
	assert.Equal(t, []entity.PrefectureRow{{Prefecture: "CRETE", Label: "Crete"}}, page.Prefectures)
}
