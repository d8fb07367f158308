package pipeline

import (
	"math"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
	"github.com/KaramelBytes/hospiviz-cli/internal/logging"
)

// Ranges used when an attribute has to be synthesized.
const (
	VisitsMin    = 50
	VisitsMax    = 500 // exclusive
	RatingMin    = 1.0
	RatingMax    = 5.0
	LatitudeMin  = 25.0
	LatitudeMax  = 49.0
	LongitudeMin = -124.0
	LongitudeMax = -67.0
)

// Synthesizer fills in missing Patients, Rating and Latitude/Longitude columns.
// A fresh generator seeded with Seed is created before each attribute; the
// coordinate pair shares one generator, latitudes drawn first.
type Synthesizer struct {
	NewGenerator GeneratorFactory
	Seed         uint64
	Log          *logging.Logger
}

// Synthesize mutates ds and returns the names of the columns it generated, in order.
func (s Synthesizer) Synthesize(ds *dataset.Dataset) []string {
	newGen := s.NewGenerator
	if newGen == nil {
		newGen = NewMT19937
	}
	nf := ds.Format
	n := ds.Len()
	var out []string

	if !ds.Has(facility.ColVisits) {
		g := newGen(s.Seed)
		ds.SetColumn(facility.ColVisits, func(int) string {
			return nf.FormatInt(g.IntRange(VisitsMin, VisitsMax))
		})
		out = append(out, facility.ColVisits)
	}
	if !ds.Has(facility.ColRating) {
		g := newGen(s.Seed)
		ds.SetColumn(facility.ColRating, func(int) string {
			return nf.FormatFloat(roundTenths(g.Uniform(RatingMin, RatingMax)))
		})
		out = append(out, facility.ColRating)
	}
	if !ds.Has(facility.ColLatitude) || !ds.Has(facility.ColLongitude) {
		g := newGen(s.Seed)
		lats := make([]float64, n)
		for i := range lats {
			lats[i] = g.Uniform(LatitudeMin, LatitudeMax)
		}
		lons := make([]float64, n)
		for i := range lons {
			lons[i] = g.Uniform(LongitudeMin, LongitudeMax)
		}
		ds.SetColumn(facility.ColLatitude, func(r int) string { return nf.FormatFloat(lats[r]) })
		ds.SetColumn(facility.ColLongitude, func(r int) string { return nf.FormatFloat(lons[r]) })
		out = append(out, facility.ColLatitude, facility.ColLongitude)
	}
	for _, c := range out {
		s.Log.Infof("Added synthesized %q column (seed %d)", c, s.Seed)
	}
	return out
}

// roundTenths rounds to one decimal place, halves to even.
func roundTenths(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
