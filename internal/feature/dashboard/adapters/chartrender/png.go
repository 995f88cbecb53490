package chartrender

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vicanso/go-charts/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

// go-charts keeps themes in an unsynchronised package map. Registration takes the write lock,
// rendering (which looks the theme up) takes the read lock.
var (
	themeMu    sync.RWMutex
	themeNames = map[string]struct{}{}
)

// PNG draws the visible series of chart as a PNG image.
// Hidden series and series without any price are left out.
func (r *Renderer) PNG(chart entity.ChartData) ([]byte, error) {
	series := visibleSeries(chart)
	if len(chart.Labels) == 0 || len(series) == 0 {
		return nil, ErrNoData
	}

	values := make([][]float64, len(series))
	names := make([]string, len(series))
	colors := make([]drawing.Color, len(series))
	for i, ds := range series {
		values[i] = pngValues(ds.Data)
		names[i] = ds.Label
		colors[i] = parseRGB(ds.Color)
	}
	yMin, yMax := valueRange(series)

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	theme := themeFor(series, colors)
	themeMu.RLock()
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Fuel prices", chart.Labels[0]+" / "+chart.Labels[len(chart.Labels)-1]),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: chart.Labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 8}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(theme),
	)
	themeMu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("render png chart: %w", err)
	}
	return painter.Bytes()
}

func visibleSeries(chart entity.ChartData) []entity.ChartDataset {
	var out []entity.ChartDataset
	for _, ds := range chart.Datasets {
		if ds.Hidden {
			continue
		}
		for _, v := range ds.Data {
			if v != nil {
				out = append(out, ds)
				break
			}
		}
	}
	return out
}

// pngValues maps nil slots to the library's null marker, which the line painter skips.
func pngValues(data []*float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		if v == nil {
			out[i] = charts.GetNullValue()
			continue
		}
		out[i] = *v
	}
	return out
}

// valueRange returns the padded min and max over all non-nil values.
func valueRange(series []entity.ChartDataset) (float64, float64) {
	first := true
	var mn, mx float64
	for _, ds := range series {
		for _, v := range ds.Data {
			if v == nil {
				continue
			}
			if first || *v < mn {
				mn = *v
			}
			if first || *v > mx {
				mx = *v
			}
			first = false
		}
	}
	pad := (mx - mn) * 0.05
	if pad == 0 {
		pad = mx * 0.01
	}
	if pad == 0 {
		pad = 0.1
	}
	return mn - pad, mx + pad
}

// themeFor returns a light theme whose series palette follows the fuel type colours,
// registering it on first use. Each set of visible fuel types gets one theme.
func themeFor(series []entity.ChartDataset, colors []drawing.Color) string {
	ids := make([]string, len(series))
	for i, ds := range series {
		ids[i] = string(ds.FuelType)
	}
	name := "fuelprices:" + strings.Join(ids, ",")

	themeMu.RLock()
	_, ok := themeNames[name]
	themeMu.RUnlock()
	if ok {
		return name
	}

	themeMu.Lock()
	defer themeMu.Unlock()
	if _, ok := themeNames[name]; ok {
		return name
	}
	charts.AddTheme(name, charts.ThemeOption{
		AxisStrokeColor:    drawing.ColorFromHex("6e7079"),
		AxisSplitLineColor: drawing.ColorFromHex("e0e6f1"),
		BackgroundColor:    drawing.ColorWhite,
		TextColor:          drawing.ColorFromHex("464646"),
		SeriesColors:       colors,
	})
	themeNames[name] = struct{}{}
	return name
}

// parseRGB parses "rgb(r, g, b)". Anything else yields opaque black.
func parseRGB(s string) drawing.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
		return drawing.ColorBlack
	}
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
