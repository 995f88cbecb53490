package entity

import "time"

// DateLayout はAPIとの間でやり取りするISO-8601日付の書式です。
const DateLayout = "2006-01-02"

// DateRange はデータセットの有効な日付範囲（日付ピッカーの上下限）です。
type DateRange struct {
	StartDate time.Time
	EndDate   time.Time
}

// Contains は日付が範囲内（両端を含む）かどうかを返します。
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// FuelPrice はある燃料種別の価格（ユーロ/リットル）です。
type FuelPrice struct {
	FuelType FuelType
	Price    float64
}

// DailyCountryRecord は1日分の全国平均価格です。すべての燃料種別が毎日含まれるとは限りません。
type DailyCountryRecord struct {
	Date time.Time
	Data []FuelPrice
}

// PriceOf は指定した燃料種別の価格を返します。含まれない場合はfalseを返します。
func (r DailyCountryRecord) PriceOf(ft FuelType) (float64, bool) {
	for _, p := range r.Data {
		if p.FuelType == ft {
			return p.Price, true
		}
	}
	return 0, false
}

// PrefectureData は県（Νομός）単位の価格内訳です。
type PrefectureData struct {
	Prefecture string
	Data       []FuelPrice
}

// CountrySnapshot は1日分の県別内訳です。
type CountrySnapshot struct {
	Date        time.Time
	Prefectures []PrefectureData
}
