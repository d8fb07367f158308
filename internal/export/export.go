// Package export writes the normalized dataset out as CSV, JSON or a SQL table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
	"github.com/KaramelBytes/hospiviz-cli/internal/utils"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSQL  Format = "sql"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatSQL:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want csv, json or sql)", s)
}

// WriteCSV writes the dataset with its normalized header, including any
// pass-through columns.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(ds.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Document is the JSON export layout.
type Document struct {
	Report     pipeline.Report     `json:"report"`
	Facilities []facility.Facility `json:"facilities"`
}

// WriteJSON writes the run report and typed facilities as indented JSON.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	b, err := utils.PrettyJSON(Document{Report: res.Report, Facilities: res.Facilities})
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
