package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/hospiviz-cli/internal/derive"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ; column c, row r.
type corrGrid struct{ m derive.Matrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// Heatmap writes an annotated correlation heatmap of the given attributes
// (Patients and Rating by default) on a blue-white-red scale fixed to [-1, 1].
func Heatmap(w io.Writer, fs []facility.Facility, opt ChartOptions, attrs ...facility.Attribute) error {
	if len(fs) == 0 {
		return ErrNoFacilities
	}
	p, err := HeatmapPlot(derive.Correlation(fs, attrs...))
	if err != nil {
		return err
	}
	width, height := opt.size(7*vg.Inch, 6*vg.Inch)
	return writePNG(w, p, width, height)
}

// HeatmapPlot builds the heatmap for m, first attribute in the top row.
func HeatmapPlot(m derive.Matrix) (*plot.Plot, error) {
	if len(m.Columns) == 0 {
		return nil, ErrNoFacilities
	}
	p := plot.New()
	p.Title.Text = "Correlation Heatmap of Healthcare Data"

	hm := plotter.NewHeatMap(corrGrid{m}, moreland.SmoothBlueRed().Palette(255))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	n := len(m.Columns)
	labels := plotter.XYLabels{XYs: make(plotter.XYs, 0, n*n), Labels: make([]string, 0, n*n)}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", m.Values[r][c]))
		}
	}
	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = text.XCenter
		lbl.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(lbl)

	p.NominalX(m.Columns...)
	p.NominalY(m.Columns...)
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	return p, nil
}
