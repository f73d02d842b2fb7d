// Package report renders simulation results as charts: one PNG per energy
// layer with gonum/plot, and an interactive HTML page with go-echarts.
package report

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"

	"github.com/banshee-data/spotmotion/internal/fsutil"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/banshee-data/spotmotion/internal/sweep"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default PNG size per layer chart.
const (
	DefaultPNGWidth  = 10 * vg.Inch
	DefaultPNGHeight = 4 * vg.Inch
)

// LegendLabel is the legend text of one delivered profile.
func LegendLabel(label string, mse float64) string {
	return fmt.Sprintf("%s — MSE=%.4f", label, mse)
}

// LayerPNGName returns the file name of a layer's chart, numbered from 1.
func LayerPNGName(layer int) string {
	return fmt.Sprintf("layer_%02d.png", layer+1)
}

func profileXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

// LayerPlot builds the chart of one layer: the intended profile dashed in
// black and one line per delivery order, with each order's MSE in the legend.
func LayerPlot(res *sweep.Result, layer int) (*plot.Plot, error) {
	if layer < 0 || layer >= len(res.Layers) {
		return nil, fmt.Errorf("layer %d out of range [0, %d)", layer, len(res.Layers))
	}
	if len(res.Positions) == 0 || len(res.Intended) != len(res.Positions) {
		return nil, fmt.Errorf("result %s carries no profiles", res.RunID)
	}
	lr := res.Layers[layer]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Energy Layer %d", layer+1)
	p.X.Label.Text = "Position"
	p.Y.Label.Text = "Relative Dose"

	intended, err := plotter.NewLine(profileXYs(res.Positions, res.Intended))
	if err != nil {
		return nil, err
	}
	intended.Color = color.Black
	intended.Width = vg.Points(1.5)
	intended.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(intended)
	p.Legend.Add("Intended", intended)

	colors := generateColors(len(lr.Entries))
	for i, e := range lr.Entries {
		if len(e.Delivered) != len(res.Positions) {
			return nil, fmt.Errorf("layer %d order %s carries no delivered profile", layer, e.Name)
		}
		line, err := plotter.NewLine(profileXYs(res.Positions, e.Delivered))
		if err != nil {
			return nil, err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(LegendLabel(e.Label, e.MSE), line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	p.Add(plotter.NewGrid())
	return p, nil
}

// WriteLayerPNG renders one layer chart as PNG to w.
func WriteLayerPNG(w io.Writer, res *sweep.Result, layer int, width, height vg.Length) error {
	p, err := LayerPlot(res, layer)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render layer %d: %w", layer, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNGs writes one chart per layer into dir and returns the paths written.
func SavePNGs(fsys fsutil.FileSystem, dir string, res *sweep.Result) ([]string, error) {
	paths := make([]string, 0, len(res.Layers))
	for i := range res.Layers {
		path := filepath.Join(dir, LayerPNGName(i))
		err := fsutil.WriteFileWith(fsys, path, func(w io.Writer) error {
			return WriteLayerPNG(w, res, i, DefaultPNGWidth, DefaultPNGHeight)
		})
		if err != nil {
			return paths, err
		}
		monitoring.Logf("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}
