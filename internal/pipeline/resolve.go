package pipeline

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

// ErrNameColumnNotFound is returned when an explicit name-column hint does not match any column.
var ErrNameColumnNotFound = errors.New("name column not found")

// Resolution describes how the facility-name column was identified.
type Resolution struct {
	// Column is the label the name column had before resolution.
	Column   string
	Fallback bool
	Hinted   bool
}

// ResolveName guarantees a facility.ColName column. An existing one is left
// alone; otherwise a non-empty hint selects the column to rename, and without
// a hint the first column is assumed to hold the names. Expects normalized labels.
func ResolveName(ds *dataset.Dataset, hint string) (Resolution, error) {
	if len(ds.Columns) == 0 {
		return Resolution{}, &dataset.MalformedError{Source: ds.Source, Err: dataset.ErrNoColumns}
	}
	if ds.Has(facility.ColName) {
		return Resolution{Column: facility.ColName}, nil
	}
	if hint != "" {
		h := NormalizeLabel(hint)
		i := ds.Index(h)
		if i < 0 {
			return Resolution{}, fmt.Errorf("%w: %q (columns: %v)", ErrNameColumnNotFound, h, ds.Columns)
		}
		ds.Rename(i, facility.ColName)
		return Resolution{Column: h, Hinted: true}, nil
	}
	first := ds.Columns[0]
	ds.Rename(0, facility.ColName)
	return Resolution{Column: first, Fallback: true}, nil
}
