// Package derive computes the values renderers need from facility records:
// marker radii, popup and tooltip text, ordering, correlations and map extent.
package derive

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/s2"
	"golang.org/x/net/html"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

// Radius scales visits linearly against max so the busiest facility gets k.
// A non-positive max yields 0.
func Radius(visits, max int, k float64) float64 {
	if max <= 0 {
		return 0
	}
	return float64(visits) / float64(max) * k
}

// Radii returns one marker radius per facility, in order.
func Radii(fs []facility.Facility, k float64) []float64 {
	max := MaxVisits(fs)
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = Radius(f.Visits, max, k)
	}
	return out
}

// MaxVisits returns the largest visit count, 0 for an empty slice.
func MaxVisits(fs []facility.Facility) int {
	max := 0
	for _, f := range fs {
		if f.Visits > max {
			max = f.Visits
		}
	}
	return max
}

// PopupOptions controls popup contents.
type PopupOptions struct {
	IncludeRating bool
}

// PopupText renders the marker popup HTML fragment.
func PopupText(f facility.Facility, opt PopupOptions) string {
	s := fmt.Sprintf("<b>%s</b><br>Patients: %d", html.EscapeString(f.Name), f.Visits)
	if opt.IncludeRating {
		s += "<br>Rating: " + dataset.NumberFormat{}.FormatFloat(f.Rating)
	}
	return s
}

// Tooltip is the hover text of a marker.
func Tooltip(f facility.Facility) string {
	return html.EscapeString(f.Name)
}

// SortByVisits returns a copy ordered by visits, highest first. Ties keep input order.
func SortByVisits(fs []facility.Facility) []facility.Facility {
	out := append([]facility.Facility(nil), fs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Visits > out[j].Visits })
	return out
}

// Matrix is a square, symmetric correlation matrix.
type Matrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// At returns the coefficient for the named pair.
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// DefaultCorrelationAttributes are the attributes correlated when none are given.
var DefaultCorrelationAttributes = []facility.Attribute{facility.Visits, facility.Rating}

// Correlation computes Pearson coefficients between the given attributes
// (Patients and Rating by default). Undefined coefficients, from fewer than
// two records or a constant attribute, are reported as 0.
func Correlation(fs []facility.Facility, attrs ...facility.Attribute) Matrix {
	if len(attrs) == 0 {
		attrs = DefaultCorrelationAttributes
	}
	n := len(attrs)
	cols := make([][]float64, n)
	m := Matrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, a := range attrs {
		m.Columns[i] = string(a)
		cols[i] = a.Values(fs)
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			r := 0.0
			if len(fs) >= 2 {
				r = stat.Correlation(cols[i], cols[j], nil)
			}
			if math.IsNaN(r) {
				r = 0
			}
			r = math.Max(-1, math.Min(1, r))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// Point is a coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Center returns the mean latitude and longitude; ok is false for no facilities.
func Center(fs []facility.Facility) (Point, bool) {
	if len(fs) == 0 {
		return Point{}, false
	}
	return Point{
		Lat: stat.Mean(facility.Latitude.Values(fs), nil),
		Lng: stat.Mean(facility.Longitude.Values(fs), nil),
	}, true
}

// Bounds is the south-west and north-east corner of the smallest
// latitude/longitude rectangle holding every facility.
type Bounds struct {
	SouthWest Point `json:"south_west"`
	NorthEast Point `json:"north_east"`
}

// Extent returns the bounding rectangle of fs; ok is false for no facilities.
func Extent(fs []facility.Facility) (Bounds, bool) {
	rect := s2.EmptyRect()
	for _, f := range fs {
		rect = rect.AddPoint(s2.LatLngFromDegrees(f.Latitude, f.Longitude))
	}
	if rect.IsEmpty() {
		return Bounds{}, false
	}
	lo, hi := rect.Lo(), rect.Hi()
	return Bounds{
		SouthWest: Point{Lat: lo.Lat.Degrees(), Lng: lo.Lng.Degrees()},
		NorthEast: Point{Lat: hi.Lat.Degrees(), Lng: hi.Lng.Degrees()},
	}, true
}
