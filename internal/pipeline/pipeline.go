// Package pipeline turns a raw dataset into fully populated facility records:
// label normalization, name-column resolution, attribute synthesis and typed conversion.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
	"github.com/KaramelBytes/hospiviz-cli/internal/logging"
)

// Options controls a pipeline run.
type Options struct {
	// Seed for every synthesized attribute.
	Seed uint64
	// NameHint names the facility-name column when Hospital_Name is absent.
	NameHint string
	// NewGenerator defaults to NewMT19937.
	NewGenerator GeneratorFactory
	Log          *logging.Logger
}

// Report summarizes what a run changed. It is diagnostic only.
type Report struct {
	RunID           string   `json:"run_id"`
	Source          string   `json:"source"`
	OriginalColumns []string `json:"original_columns"`
	Columns         []string `json:"columns"`
	Renamed         []Rename `json:"renamed,omitempty"`
	NameColumn      string   `json:"name_column"`
	NameFallback    bool     `json:"name_fallback"`
	Synthesized     []string `json:"synthesized,omitempty"`
	Seed            uint64   `json:"seed"`
}

// Result is the read-only output consumed by renderers and exporters.
type Result struct {
	Dataset    *dataset.Dataset
	Facilities []facility.Facility
	Report     Report
}

// Run executes every stage on ds, which is modified in place.
func Run(ds *dataset.Dataset, opt Options) (*Result, error) {
	rep := Report{
		RunID:           uuid.NewString(),
		Source:          ds.Source,
		OriginalColumns: append([]string(nil), ds.Columns...),
		Seed:            opt.Seed,
	}
	rep.Renamed = NormalizeColumns(ds)
	for _, r := range rep.Renamed {
		opt.Log.Debugf("normalized label %q -> %q", r.From, r.To)
	}

	res, err := ResolveName(ds, opt.NameHint)
	if err != nil {
		return nil, err
	}
	rep.NameColumn = res.Column
	rep.NameFallback = res.Fallback
	if res.Column != facility.ColName {
		rep.Renamed = append(rep.Renamed, Rename{From: res.Column, To: facility.ColName})
	}
	if res.Fallback {
		opt.Log.Warnf("no %q column; using first column %q as facility names", facility.ColName, res.Column)
	}

	syn := Synthesizer{NewGenerator: opt.NewGenerator, Seed: opt.Seed, Log: opt.Log}
	rep.Synthesized = syn.Synthesize(ds)
	rep.Columns = append([]string(nil), ds.Columns...)

	fs, err := Facilities(ds)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: ds, Facilities: fs, Report: rep}, nil
}

// Facilities converts every row of a resolved dataset into a typed record.
func Facilities(ds *dataset.Dataset) ([]facility.Facility, error) {
	idx := make(map[string]int, len(facility.Columns))
	for _, c := range facility.Columns {
		i := ds.Index(c)
		if i < 0 {
			return nil, &dataset.MalformedError{Source: ds.Source, Column: c, Err: errors.New("column missing")}
		}
		idx[c] = i
	}
	nf := ds.Format
	out := make([]facility.Facility, 0, ds.Len())
	for r, row := range ds.Rows {
		bad := func(col string, err error) error {
			return &dataset.MalformedError{Source: ds.Source, Row: r + 1, Column: col, Err: err}
		}
		num := func(col string) (float64, error) {
			cell := row[idx[col]]
			v, ok := nf.Parse(cell)
			if !ok {
				return 0, bad(col, fmt.Errorf("invalid number %q", cell))
			}
			return v, nil
		}

		f := facility.Facility{Row: r + 1, Name: strings.TrimSpace(row[idx[facility.ColName]])}
		if f.Name == "" {
			return nil, bad(facility.ColName, errors.New("empty facility name"))
		}
		visits, err := num(facility.ColVisits)
		if err != nil {
			return nil, err
		}
		if visits < 0 || visits != math.Trunc(visits) || visits > math.MaxInt32 {
			return nil, bad(facility.ColVisits, fmt.Errorf("visit count must be a non-negative integer, got %v", visits))
		}
		f.Visits = int(visits)
		if f.Rating, err = num(facility.ColRating); err != nil {
			return nil, err
		}
		if f.Latitude, err = num(facility.ColLatitude); err != nil {
			return nil, err
		}
		if f.Longitude, err = num(facility.ColLongitude); err != nil {
			return nil, err
		}
		if !s2.LatLngFromDegrees(f.Latitude, f.Longitude).IsValid() {
			return nil, bad(facility.ColLatitude, fmt.Errorf("coordinate (%v, %v) out of range", f.Latitude, f.Longitude))
		}
		out = append(out, f)
	}
	return out, nil
}
