package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/spotmotion/internal/fsutil"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/banshee-data/spotmotion/internal/sweep"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTMLName is the default file name of the rendered page.
const HTMLName = "report.html"

func subtitle(res *sweep.Result) string {
	m, t := res.Params.Motion, res.Params.Timing
	return fmt.Sprintf("run=%s A=%g T=%g ε=%.4f Δt=%g layer_delay=%g",
		res.RunID, m.Amplitude, m.Period, m.Phase, t.SpotDelay, t.LayerDelay)
}

func pick(colors []string, i int) string {
	if len(colors) == 0 {
		return "#000000"
	}
	return colors[i%len(colors)]
}

func lineData(ys []float64) []opts.LineData {
	data := make([]opts.LineData, len(ys))
	for i, y := range ys {
		data[i] = opts.LineData{Value: y}
	}
	return data
}

func layerChart(res *sweep.Result, layer int, xAxis []string, colors []string) (*charts.Line, error) {
	lr := res.Layers[layer]
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Energy Layer %d", layer+1), Subtitle: fmt.Sprintf("start t=%.2fs", lr.Start)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Position", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Relative Dose"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	line.SetXAxis(xAxis).
		AddSeries("Intended", lineData(res.Intended),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Width: 2, Color: "#000000"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#000000"}),
		)
	for i, e := range lr.Entries {
		if len(e.Delivered) != len(res.Positions) {
			return nil, fmt.Errorf("layer %d order %s carries no delivered profile", layer, e.Name)
		}
		line.AddSeries(LegendLabel(e.Label, e.MSE), lineData(e.Delivered),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Color: pick(colors, i)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: pick(colors, i)}),
		)
	}
	return line, nil
}

// mseChart groups the MSE of every order by layer.
func mseChart(res *sweep.Result, colors []string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "MSE per Layer", Subtitle: subtitle(res)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "MSE"}),
	)

	x := make([]string, len(res.Layers))
	for i := range res.Layers {
		x[i] = "Layer " + strconv.Itoa(i+1)
	}
	bar.SetXAxis(x)
	for j, no := range res.Orders {
		data := make([]opts.BarData, len(res.Layers))
		for i := range res.Layers {
			mse, _ := res.MSE(i, no.Name)
			data[i] = opts.BarData{Value: mse}
		}
		bar.AddSeries(no.Label, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: pick(colors, j)}))
	}
	return bar
}

// RenderHTML writes a self-contained page with the MSE bar chart followed by
// one profile chart per layer. res must still carry its profiles.
func RenderHTML(w io.Writer, res *sweep.Result) error {
	if len(res.Positions) == 0 || len(res.Intended) != len(res.Positions) {
		return fmt.Errorf("result %s carries no profiles", res.RunID)
	}

	palette := generateColors(len(res.Orders))
	colors := make([]string, len(palette))
	for i, c := range palette {
		colors[i] = hexColor(c)
	}

	xAxis := make([]string, len(res.Positions))
	for i, pos := range res.Positions {
		xAxis[i] = strconv.FormatFloat(pos, 'f', 3, 64)
	}

	page := components.NewPage()
	page.PageTitle = "Spot Delivery Under Motion"
	page.AddCharts(mseChart(res, colors))
	for i := range res.Layers {
		line, err := layerChart(res, i, xAxis, colors)
		if err != nil {
			return err
		}
		page.AddCharts(line)
	}
	return page.Render(w)
}

// SaveHTML renders the page to path on fsys.
func SaveHTML(fsys fsutil.FileSystem, path string, res *sweep.Result) error {
	if err := fsutil.WriteFileWith(fsys, path, func(w io.Writer) error {
		return RenderHTML(w, res)
	}); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", path)
	return nil
}
