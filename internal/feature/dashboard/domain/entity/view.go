package entity

import "time"

// ChartDataset はチャートの1系列（燃料種別ひとつ分）です。
// Data はChartData.Labelsと位置で対応し、値が無い日はnilになります。
type ChartDataset struct {
	FuelType FuelType
	Label    string
	Color    string
	Hidden   bool
	Data     []*float64
}

// ChartData は折れ線チャート用に整形したデータです。すべての系列はLabelsと同じ長さを持ちます。
type ChartData struct {
	Labels   []string
	Datasets []ChartDataset
}

// LatestPriceRow は最新価格テーブルの1行です。
// Evolution は前日比（例: "+7.14%"）で、前日データが無い場合は空文字です。
type LatestPriceRow struct {
	FuelType  FuelType
	Label     string
	Price     float64
	PriceText string
	Evolution string
}

// PrefectureRow は県別テーブルの1行です。
type PrefectureRow struct {
	Prefecture string
	Label      string
}

// Picker は日付範囲ピッカーの状態です。Bounds はAPIから取得した選択可能範囲、
// Selection は現在選択されている範囲です。
type Picker struct {
	Bounds    DateRange
	Selection DateRange
}

// Page はダッシュボード画面全体の状態です。
// 日次データ（チャートと最新価格テーブル）と県別スナップショットはそれぞれ独立して更新されます。
type Page struct {
	Generation uint64
	Picker     Picker
	LatestDate time.Time

	Chart        ChartData
	LatestPrices []LatestPriceRow
	DailyPending bool
	DailyError   string

	Prefectures     []PrefectureRow
	SnapshotPending bool
	SnapshotError   string
}

// Clone はPageのディープコピーを返します。
func (p Page) Clone() Page {
	out := p
	out.Chart = p.Chart.Clone()
	if p.LatestPrices != nil {
		out.LatestPrices = append([]LatestPriceRow(nil), p.LatestPrices...)
	}
	if p.Prefectures != nil {
		out.Prefectures = append([]PrefectureRow(nil), p.Prefectures...)
	}
	return out
}

// Clone はChartDataのディープコピーを返します。
func (c ChartData) Clone() ChartData {
	out := ChartData{}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	if c.Datasets != nil {
		out.Datasets = make([]ChartDataset, len(c.Datasets))
		for i, ds := range c.Datasets {
			cp := ds
			if ds.Data != nil {
				cp.Data = make([]*float64, len(ds.Data))
				for j, v := range ds.Data {
					if v != nil {
						x := *v
						cp.Data[j] = &x
					}
				}
			}
			out.Datasets[i] = cp
		}
	}
	return out
}
