package handler

import (
	"strings"
	"time"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

// indexView はダッシュボード画面テンプレートに渡す値です。
type indexView struct {
	Generation uint64

	MinDate    string
	MaxDate    string
	StartDate  string
	EndDate    string
	RangeError string

	LatestDate string

	LatestPrices []entity.LatestPriceRow
	DailyPending bool
	DailyError   string

	Prefectures     []entity.PrefectureRow
	SnapshotPending bool
	SnapshotError   string
}

func newIndexView(p entity.Page, rangeErr string) indexView {
	return indexView{
		Generation:      p.Generation,
		MinDate:         formatDate(p.Picker.Bounds.StartDate),
		MaxDate:         formatDate(p.Picker.Bounds.EndDate),
		StartDate:       formatDate(p.Picker.Selection.StartDate),
		EndDate:         formatDate(p.Picker.Selection.EndDate),
		RangeError:      rangeErr,
		LatestDate:      formatDate(p.LatestDate),
		LatestPrices:    p.LatestPrices,
		DailyPending:    p.DailyPending,
		DailyError:      p.DailyError,
		Prefectures:     p.Prefectures,
		SnapshotPending: p.SnapshotPending,
		SnapshotError:   p.SnapshotError,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(entity.DateLayout)
}

// evolutionClass は前日比の符号に応じたCSSクラスを返します。
func evolutionClass(evolution string) string {
	switch {
	case strings.HasPrefix(evolution, "+"):
		return "up"
	case strings.HasPrefix(evolution, "-"):
		return "down"
	default:
		return ""
	}
}
