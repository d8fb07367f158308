// Package dataset holds the in-memory table that flows through the pipeline,
// along with its readers (CSV/TSV, XLSX) and the loader for local and remote sources.
package dataset

import "fmt"

// Dataset is an ordered table of text cells with a uniform schema.
// Every row has exactly len(Columns) cells.
type Dataset struct {
	Source  string
	Columns []string
	Rows    [][]string
	Format  NumberFormat
}

// New builds a Dataset from a header and records. Short records are padded with
// empty cells; a record wider than the header (ignoring trailing empty cells) is malformed.
func New(source string, header []string, records [][]string) (*Dataset, error) {
	ds := &Dataset{Source: source, Columns: append([]string(nil), header...)}
	n := len(header)
	ds.Rows = make([][]string, 0, len(records))
	for i, rec := range records {
		if len(rec) > n {
			for _, extra := range rec[n:] {
				if extra != "" {
					return nil, &MalformedError{
						Source: source,
						Row:    i + 1,
						Err:    fmt.Errorf("expected %d fields, saw %d", n, len(rec)),
					}
				}
			}
			rec = rec[:n]
		}
		row := make([]string, n)
		copy(row, rec)
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Rows) }

// Index returns the position of the named column, or -1.
func (d *Dataset) Index(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool { return d.Index(name) >= 0 }

// Column returns a copy of the named column's cells, or nil when absent.
func (d *Dataset) Column(name string) []string {
	i := d.Index(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}

// Rename relabels the column at position i.
func (d *Dataset) Rename(i int, name string) {
	d.Columns[i] = name
}

// SetColumn fills the named column from fn, overwriting it in place when it
// exists and appending it otherwise.
func (d *Dataset) SetColumn(name string, fn func(row int) string) {
	i := d.Index(name)
	if i < 0 {
		d.Columns = append(d.Columns, name)
		for r := range d.Rows {
			d.Rows[r] = append(d.Rows[r], fn(r))
		}
		return
	}
	for r := range d.Rows {
		d.Rows[r][i] = fn(r)
	}
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Source:  d.Source,
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([][]string, len(d.Rows)),
		Format:  d.Format,
	}
	for i, row := range d.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
