// Package chartrender draws dashboard chart data as an interactive ECharts page or a PNG image.
package chartrender

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no chart data")

// Renderer renders ChartData. The zero value is ready to use.
type Renderer struct {
	Width  string
	Height string
}

// NewRenderer returns a Renderer sized for embedding in the dashboard page.
func NewRenderer() *Renderer {
	return &Renderer{Width: "100%", Height: "420px"}
}

// HTML writes a standalone ECharts page for chart to w.
// Days without a price are drawn as gaps; hidden series start deselected in the legend.
func (r *Renderer) HTML(w io.Writer, chart entity.ChartData) error {
	line := r.buildLine(chart)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render echarts: %w", err)
	}
	return nil
}

func (r *Renderer) buildLine(chart entity.ChartData) *charts.Line {
	selected := make(map[string]bool, len(chart.Datasets))
	for _, ds := range chart.Datasets {
		selected[ds.Label] = !ds.Hidden
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Fuel prices",
			Width:     r.Width,
			Height:    r.Height,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    true,
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:     true,
			Selected: selected,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: true,
		}),
	)

	line.SetXAxis(chart.Labels)
	for _, ds := range chart.Datasets {
		line.AddSeries(ds.Label, lineData(ds.Data),
			charts.WithLineStyleOpts(opts.LineStyle{Color: ds.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.Color}),
		)
	}
	return line
}

// lineData maps nil slots to null points so ECharts breaks the line there.
func lineData(values []*float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = opts.LineData{Value: nil}
			continue
		}
		out[i] = opts.LineData{Value: *v}
	}
	return out
}
