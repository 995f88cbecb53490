package usecase

import (
	"github.com/shopspring/decimal"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LatestPair は日付昇順のレコード列から最新と前日のレコードを（新しい順に）返します。
// 該当するレコードが無い場合はnilです。
func LatestPair(records []entity.DailyCountryRecord) (latest, previous *entity.DailyCountryRecord) {
	n := len(records)
	if n >= 1 {
		latest = &records[n-1]
	}
	if n >= 2 {
		previous = &records[n-2]
	}
	return latest, previous
}

// BuildLatestValues は最新価格テーブルの行を燃料種別の列挙順で生成します。
// 最新レコードに含まれない燃料種別はスキップし、前日比は前日の価格がある場合にのみ設定します。
func BuildLatestValues(latest, previous *entity.DailyCountryRecord) []entity.LatestPriceRow {
	if latest == nil {
		return nil
	}

	rows := make([]entity.LatestPriceRow, 0, len(latest.Data))
	for _, ft := range entity.FuelTypes() {
		price, ok := latest.PriceOf(ft)
		if !ok {
			continue
		}
		row := entity.LatestPriceRow{
			FuelType:  ft,
			Label:     ft.Label(),
			Price:     price,
			PriceText: FormatPrice(price),
		}
		if previous != nil {
			if prev, ok := previous.PriceOf(ft); ok {
				row.Evolution, _ = FormatEvolution(price, prev)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatPrice は価格を小数点以下3桁とユーロ記号で表示します（例: "1.500€"）。
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(3) + "€"
}

// FormatEvolution は前日比を符号付きの百分率（小数点以下2桁）で返します（例: "+7.14%"）。
// 前日の価格が0の場合は計算できないためfalseを返します。
func FormatEvolution(latest, previous float64) (string, bool) {
	prev := decimal.NewFromFloat(previous)
	if prev.IsZero() {
		return "", false
	}
	pct := decimal.NewFromFloat(latest).Sub(prev).Div(prev).Mul(hundred)

	// 符号は丸める前の値で決める（わずかな上昇は "+0.00%"）
	s := pct.Abs().StringFixed(2) + "%"
	switch pct.Sign() {
	case 1:
		s = "+" + s
	case -1:
		s = "-" + s
	}
	return s, true
}
