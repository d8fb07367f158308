package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXOptions selects the worksheet to read.
type XLSXOptions struct {
	// Sheet name; empty selects the first sheet.
	Sheet string
}

// ReadXLSX reads the selected worksheet: first non-blank row is the header,
// fully blank rows are skipped.
func ReadXLSX(r io.Reader, source string, opt XLSXOptions) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &MalformedError{Source: source, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedError{Source: source, Err: fmt.Errorf("workbook has no sheets")}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &MalformedError{
				Source: source,
				Err:    fmt.Errorf("sheet %q not found; available sheets: %s", opt.Sheet, strings.Join(sheets, ", ")),
			}
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &MalformedError{Source: source, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	var header []string
	var records [][]string
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		records = append(records, row)
	}
	if header == nil {
		return &Dataset{Source: source}, nil
	}
	return New(source, header, records)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
