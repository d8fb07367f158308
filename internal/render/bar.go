package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/hospiviz-cli/internal/derive"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

// barLabelOffset lifts value labels above their bars, in data units.
const barLabelOffset = 2

// Bar writes a PNG bar chart of visits per facility, busiest first, with the
// value printed above each bar.
func Bar(w io.Writer, fs []facility.Facility, opt ChartOptions) error {
	p, err := BarPlot(fs)
	if err != nil {
		return err
	}
	width, height := opt.size(12*vg.Inch, 6*vg.Inch)
	return writePNG(w, p, width, height)
}

// BarPlot builds the bar chart without drawing it.
func BarPlot(fs []facility.Facility) (*plot.Plot, error) {
	if len(fs) == 0 {
		return nil, ErrNoFacilities
	}
	sorted := derive.SortByVisits(fs)
	values := make(plotter.Values, len(sorted))
	names := make([]string, len(sorted))
	labels := plotter.XYLabels{XYs: make(plotter.XYs, len(sorted)), Labels: make([]string, len(sorted))}
	for i, f := range sorted {
		values[i] = float64(f.Visits)
		names[i] = f.Name
		labels.XYs[i] = plotter.XY{X: float64(i), Y: float64(f.Visits) + barLabelOffset}
		labels.Labels[i] = strconv.Itoa(f.Visits)
	}

	p := plot.New()
	p.Title.Text = "Number of Patients by Hospital (Sorted)"
	p.X.Label.Text = "Hospital"
	p.Y.Label.Text = "Number of Patients"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth(len(sorted))))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = colornames.Skyblue
	bars.LineStyle.Width = 0
	p.Add(bars)

	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("bar labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = text.XCenter
		lbl.TextStyle[i].YAlign = text.YBottom
	}
	p.Add(lbl)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return p, nil
}

// barWidth narrows bars as the facility count grows.
func barWidth(n int) float64 {
	switch {
	case n <= 10:
		return 40
	case n <= 30:
		return 20
	default:
		return 8
	}
}
