// Package usecase はダッシュボードのデータ取得・整形・画面状態管理のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

const (
	// DailyCountryDataType は日付範囲を問い合わせるデータセット名です。
	DailyCountryDataType = "daily_country"
	// DefaultWindowMonths は初期表示する期間（月数）です。
	DefaultWindowMonths = 3
)

var (
	// ErrInvalidRange は選択された日付範囲が不正な場合に返されます。
	ErrInvalidRange = errors.New("invalid date range")
	// ErrNotInitialized は初期ロード前に範囲変更が要求された場合に返されます。
	ErrNotInitialized = errors.New("dashboard is not initialized")
	// ErrSuperseded はロード中により新しい範囲が選択され、結果が破棄された場合に返されます。
	ErrSuperseded = errors.New("load superseded by a newer range selection")
)

// PricesAPI は燃料価格バックエンドAPIを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PricesAPI interface {
	// DateRange はデータセットの有効な日付範囲を取得します。
	DateRange(ctx context.Context, dataType string) (entity.DateRange, error)
	// DailyCountryData は日次の全国平均価格を取得します。ゼロ値の日付は条件から除外されます。
	DailyCountryData(ctx context.Context, startDate, endDate time.Time) ([]entity.DailyCountryRecord, error)
	// CountryData は指定日の県別内訳を取得します。
	CountryData(ctx context.Context, date time.Time) (entity.CountrySnapshot, error)
}

// DashboardUsecase はAPIからデータを取得し、各ビュー用に整形します。状態は持ちません。
type DashboardUsecase struct {
	api PricesAPI
}

// NewDashboardUsecase はDashboardUsecaseの新しいインスタンスを生成します。
func NewDashboardUsecase(api PricesAPI) *DashboardUsecase {
	return &DashboardUsecase{api: api}
}

// InitPicker はAPIから日付範囲を取得し、日付ピッカーの初期状態を返します。
func (u *DashboardUsecase) InitPicker(ctx context.Context) (entity.Picker, error) {
	bounds, err := u.api.DateRange(ctx, DailyCountryDataType)
	if err != nil {
		return entity.Picker{}, err
	}
	if bounds.EndDate.Before(bounds.StartDate) {
		return entity.Picker{}, fmt.Errorf("%w: bounds end %s before start %s", ErrInvalidRange,
			bounds.EndDate.Format(entity.DateLayout), bounds.StartDate.Format(entity.DateLayout))
	}
	return NewPicker(bounds), nil
}

// FetchDaily は日次データを取得し、チャートデータと最新価格テーブルの行を返します。
func (u *DashboardUsecase) FetchDaily(ctx context.Context, start, end time.Time) (entity.ChartData, []entity.LatestPriceRow, error) {
	records, err := u.api.DailyCountryData(ctx, start, end)
	if err != nil {
		return entity.ChartData{}, nil, err
	}
	latest, previous := LatestPair(records)
	return BuildChartData(records), BuildLatestValues(latest, previous), nil
}

// FetchPrefectures は指定日の県別スナップショットを取得し、テーブルの行を返します。
func (u *DashboardUsecase) FetchPrefectures(ctx context.Context, date time.Time) ([]entity.PrefectureRow, error) {
	snap, err := u.api.CountryData(ctx, date)
	if err != nil {
		return nil, err
	}
	return BuildPrefectureRows(snap), nil
}

// NewPicker は上下限から日付ピッカーの状態を生成します。
// 初期選択は上限日から遡ってDefaultWindowMonthsか月分で、下限より前にはなりません。
func NewPicker(bounds entity.DateRange) entity.Picker {
	end := bounds.EndDate
	start := minusMonths(end, DefaultWindowMonths)
	if start.Before(bounds.StartDate) {
		start = bounds.StartDate
	}
	return entity.Picker{
		Bounds:    bounds,
		Selection: entity.DateRange{StartDate: start, EndDate: end},
	}
}

// ValidateRange は選択範囲が開始≦終了で、かつ上下限の内側にあることを検証します。
func ValidateRange(bounds entity.DateRange, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidRange,
			end.Format(entity.DateLayout), start.Format(entity.DateLayout))
	}
	if !bounds.Contains(start) || !bounds.Contains(end) {
		return fmt.Errorf("%w: %s..%s outside %s..%s", ErrInvalidRange,
			start.Format(entity.DateLayout), end.Format(entity.DateLayout),
			bounds.StartDate.Format(entity.DateLayout), bounds.EndDate.Format(entity.DateLayout))
	}
	return nil
}

// ParseDate はISO-8601の日付文字列をパースします。空文字はゼロ値になります。
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not an ISO date", ErrInvalidRange, s)
	}
	return t, nil
}

// minusMonths はnか月前の同日を返します。該当日が無い月は月末日に丸めます（5/31の3か月前は2/29）。
func minusMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
