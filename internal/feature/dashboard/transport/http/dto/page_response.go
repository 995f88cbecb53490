package dto

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// RangeRequest は日付範囲変更のリクエストDTOです。
type RangeRequest struct {
	StartDate string `json:"start_date" binding:"required"` // 開始日（YYYY-MM-DD）
	EndDate   string `json:"end_date" binding:"required"`   // 終了日（YYYY-MM-DD）
}

// PickerResponse は日付ピッカーの状態です。
type PickerResponse struct {
	MinDate   openapi_types.Date `json:"min_date"`
	MaxDate   openapi_types.Date `json:"max_date"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
}

// DatasetResponse はChart.jsのdataset形式の1系列です。値が無い日はnullになります。
type DatasetResponse struct {
	FuelType        string     `json:"fuel_type"`
	Label           string     `json:"label"`
	BorderColor     string     `json:"borderColor"`
	BackgroundColor string     `json:"backgroundColor"`
	Hidden          bool       `json:"hidden"`
	Data            []*float64 `json:"data"`
}

// ChartResponse はChart.jsのdata形式のチャートデータです。
type ChartResponse struct {
	Labels   []string          `json:"labels"`
	Datasets []DatasetResponse `json:"datasets"`
}

// LatestPriceResponse は最新価格テーブルの1行です。
type LatestPriceResponse struct {
	FuelType  string  `json:"fuel_type"`
	Label     string  `json:"label"`
	Price     float64 `json:"price"`
	PriceText string  `json:"price_text"`
	Evolution string  `json:"evolution,omitempty"`
}

// PrefectureResponse は県別テーブルの1行です。
type PrefectureResponse struct {
	Prefecture string `json:"prefecture"`
	Label      string `json:"label"`
}

// SectionStatus はビューごとの読み込み状態です。
type SectionStatus struct {
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`
}

// PageResponse はダッシュボード画面全体の状態のレスポンスDTOです。
type PageResponse struct {
	Generation   uint64                `json:"generation"`
	Picker       PickerResponse        `json:"picker"`
	LatestDate   openapi_types.Date    `json:"latest_date"`
	Chart        ChartResponse         `json:"chart"`
	LatestPrices []LatestPriceResponse `json:"latest_prices"`
	Daily        SectionStatus         `json:"daily"`
	Prefectures  []PrefectureResponse  `json:"prefectures"`
	Snapshot     SectionStatus         `json:"snapshot"`
}

// NewPageResponse は画面状態をレスポンスDTOに変換します。
func NewPageResponse(p entity.Page) PageResponse {
	latest := make([]LatestPriceResponse, 0, len(p.LatestPrices))
	for _, r := range p.LatestPrices {
		latest = append(latest, LatestPriceResponse{
			FuelType:  string(r.FuelType),
			Label:     r.Label,
			Price:     r.Price,
			PriceText: r.PriceText,
			Evolution: r.Evolution,
		})
	}
	prefectures := make([]PrefectureResponse, 0, len(p.Prefectures))
	for _, r := range p.Prefectures {
		prefectures = append(prefectures, PrefectureResponse{Prefecture: r.Prefecture, Label: r.Label})
	}

	return PageResponse{
		Generation: p.Generation,
		Picker: PickerResponse{
			MinDate:   date(p.Picker.Bounds.StartDate),
			MaxDate:   date(p.Picker.Bounds.EndDate),
			StartDate: date(p.Picker.Selection.StartDate),
			EndDate:   date(p.Picker.Selection.EndDate),
		},
		LatestDate:   date(p.LatestDate),
		Chart:        NewChartResponse(p.Chart),
		LatestPrices: latest,
		Daily:        SectionStatus{Pending: p.DailyPending, Error: p.DailyError},
		Prefectures:  prefectures,
		Snapshot:     SectionStatus{Pending: p.SnapshotPending, Error: p.SnapshotError},
	}
}

// NewChartResponse はチャートデータをChart.js形式に変換します。
func NewChartResponse(c entity.ChartData) ChartResponse {
	labels := c.Labels
	if labels == nil {
		labels = []string{}
	}
	datasets := make([]DatasetResponse, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		data := ds.Data
		if data == nil {
			data = []*float64{}
		}
		datasets = append(datasets, DatasetResponse{
			FuelType:        string(ds.FuelType),
			Label:           ds.Label,
			BorderColor:     ds.Color,
			BackgroundColor: ds.Color,
			Hidden:          ds.Hidden,
			Data:            data,
		})
	}
	return ChartResponse{Labels: labels, Datasets: datasets}
}

func date(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}
