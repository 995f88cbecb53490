package usecase

import "fuelprices_dashboard/internal/feature/dashboard/domain/entity"

// BuildChartData は日次レコード列を、燃料種別ごとに日付ラベルと位置が揃った系列へ整形します。
// 各日について全系列にnilのスロットを追加し、その日に存在する燃料種別のスロットだけを価格で上書きします。
// そのため入力が疎でも、すべての系列はlen(records)の長さになります。
func BuildChartData(records []entity.DailyCountryRecord) entity.ChartData {
	fuelTypes := entity.FuelTypes()

	prices := make(map[entity.FuelType][]*float64, len(fuelTypes))
	for _, ft := range fuelTypes {
		prices[ft] = make([]*float64, 0, len(records))
	}
	labels := make([]string, 0, len(records))

	for _, r := range records {
		labels = append(labels, r.Date.Format(entity.DateLayout))
		for _, ft := range fuelTypes {
			prices[ft] = append(prices[ft], nil)
		}
		for _, p := range r.Data {
			series, ok := prices[p.FuelType]
			if !ok {
				// 未知の燃料種別は無視
				continue
			}
			v := p.Price
			series[len(series)-1] = &v
		}
	}

	datasets := make([]entity.ChartDataset, 0, len(fuelTypes))
	for _, ft := range fuelTypes {
		datasets = append(datasets, entity.ChartDataset{
			FuelType: ft,
			Label:    ft.Label(),
			Color:    ft.Color(),
			Hidden:   ft.Hidden(),
			Data:     prices[ft],
		})
	}

	return entity.ChartData{Labels: labels, Datasets: datasets}
}
