package dataset

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultLocation is the public facility dataset used when no input is given.
const DefaultLocation = "https://raw.githubusercontent.com/Jenithpaul/python/refs/heads/main/Book2.csv"

// Loader reads a dataset from a local path or an http(s) URL and dispatches
// on the extension: .xlsx/.xlsm through excelize, anything else as delimited text.
type Loader struct {
	Fetcher *Fetcher
	CSV     CSVOptions
	XLSX    XLSXOptions
	Format  NumberFormat
}

// Load reads location and returns the parsed dataset.
func (l *Loader) Load(ctx context.Context, location string) (*Dataset, error) {
	var (
		data []byte
		ext  string
		err  error
	)
	if IsRemote(location) {
		f := l.Fetcher
		if f == nil {
			f = NewFetcher(0, 0, 0, 0)
		}
		if data, err = f.Fetch(ctx, location); err != nil {
			return nil, err
		}
		if u, perr := url.Parse(location); perr == nil {
			ext = path.Ext(u.Path)
		}
	} else {
		if data, err = os.ReadFile(location); err != nil {
			return nil, &UnreachableError{Location: location, Err: err}
		}
		ext = filepath.Ext(location)
	}

	var ds *Dataset
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm":
		ds, err = ReadXLSX(bytes.NewReader(data), location, l.XLSX)
	default:
		ds, err = ReadCSV(bytes.NewReader(data), location, l.CSV)
	}
	if err != nil {
		return nil, err
	}
	ds.Format = l.Format
	return ds, nil
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
