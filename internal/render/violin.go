package render

import (
	"fmt"
	"io"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

const (
	violinHalfWidth = 0.4
	violinGridSize  = 100
	violinCut       = 2 // bandwidths beyond the extreme observations
)

// Group is the ratings observed for one facility name.
type Group struct {
	Name   string
	Values []float64
}

// GroupRatings pools ratings by facility name in first-appearance order.
func GroupRatings(fs []facility.Facility) []Group {
	var groups []Group
	idx := map[string]int{}
	for _, f := range fs {
		i, ok := idx[f.Name]
		if !ok {
			i = len(groups)
			idx[f.Name] = i
			groups = append(groups, Group{Name: f.Name})
		}
		groups[i].Values = append(groups[i].Values, f.Rating)
	}
	return groups
}

// Violin writes a PNG of the rating distribution per facility: a Gaussian
// kernel density outline with quartile lines.
func Violin(w io.Writer, fs []facility.Facility, opt ChartOptions) error {
	p, err := ViolinPlot(fs)
	if err != nil {
		return err
	}
	width, height := opt.size(12*vg.Inch, 6*vg.Inch)
	return writePNG(w, p, width, height)
}

// ViolinPlot builds the distribution plot without drawing it.
func ViolinPlot(fs []facility.Facility) (*plot.Plot, error) {
	groups := GroupRatings(fs)
	if len(groups) == 0 {
		return nil, ErrNoFacilities
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Pastel1", 9)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	colors := pal.Colors()

	p := plot.New()
	p.Title.Text = "Distribution of Ratings by Hospital"
	p.X.Label.Text = "Hospital"
	p.Y.Label.Text = "Rating"

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
		x := float64(i)
		outline := ViolinOutline(g.Values, x)
		if outline == nil {
			// A single distinct value has no spread to draw.
			l, err := plotter.NewLine(plotter.XYs{{X: x - violinHalfWidth, Y: g.Values[0]}, {X: x + violinHalfWidth, Y: g.Values[0]}})
			if err != nil {
				return nil, fmt.Errorf("violin %q: %w", g.Name, err)
			}
			l.LineStyle.Color = colors[i%len(colors)]
			l.LineStyle.Width = vg.Points(2)
			p.Add(l)
			continue
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return nil, fmt.Errorf("violin %q: %w", g.Name, err)
		}
		poly.Color = colors[i%len(colors)]
		p.Add(poly)

		for _, q := range Quartiles(g.Values) {
			hw := violinHalfWidth * kdeWidthAt(g.Values, q)
			l, err := plotter.NewLine(plotter.XYs{{X: x - hw, Y: q}, {X: x + hw, Y: q}})
			if err != nil {
				return nil, fmt.Errorf("violin %q: %w", g.Name, err)
			}
			l.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
			p.Add(l)
		}
	}
	p.NominalX(names...)
	return p, nil
}

// ViolinOutline returns the closed outline of a violin centred on x, or nil
// when vals has fewer than two distinct values.
func ViolinOutline(vals []float64, x float64) plotter.XYs {
	bw := ScottBandwidth(vals)
	if bw <= 0 {
		return nil
	}
	lo, hi := minMax(vals)
	lo -= violinCut * bw
	hi += violinCut * bw

	ys := make([]float64, violinGridSize)
	dens := make([]float64, violinGridSize)
	peak := 0.0
	for i := range ys {
		ys[i] = lo + (hi-lo)*float64(i)/float64(violinGridSize-1)
		dens[i] = KDE(vals, bw, ys[i])
		peak = math.Max(peak, dens[i])
	}
	out := make(plotter.XYs, 0, 2*violinGridSize)
	for i := range ys {
		out = append(out, plotter.XY{X: x - violinHalfWidth*dens[i]/peak, Y: ys[i]})
	}
	for i := len(ys) - 1; i >= 0; i-- {
		out = append(out, plotter.XY{X: x + violinHalfWidth*dens[i]/peak, Y: ys[i]})
	}
	return out
}

// kdeWidthAt is the density at y relative to the peak over the sample.
func kdeWidthAt(vals []float64, y float64) float64 {
	bw := ScottBandwidth(vals)
	if bw <= 0 {
		return 1
	}
	peak := 0.0
	for _, v := range vals {
		peak = math.Max(peak, KDE(vals, bw, v))
	}
	if peak == 0 {
		return 1
	}
	return math.Min(1, KDE(vals, bw, y)/peak)
}

// ScottBandwidth is Scott's rule: sample standard deviation times n^(-1/5).
// It is 0 when the bandwidth is undefined.
func ScottBandwidth(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(vals)
	if err != nil || sd == 0 || math.IsNaN(sd) {
		return 0
	}
	return sd * math.Pow(float64(len(vals)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate at y.
func KDE(vals []float64, bw, y float64) float64 {
	if len(vals) == 0 || bw <= 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += distuv.Normal{Mu: v, Sigma: bw}.Prob(y)
	}
	return sum / float64(len(vals))
}

// Quartiles returns the lower hinge, median and upper hinge. NaNs are dropped
// when vals is too short to have hinges.
func Quartiles(vals []float64) []float64 {
	q, err := stats.Quartile(vals)
	if err != nil {
		return nil
	}
	var out []float64
	for _, v := range []float64{q.Q1, q.Q2, q.Q3} {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func minMax(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
