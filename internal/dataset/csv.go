package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVOptions controls delimited-text parsing.
type CSVOptions struct {
	// Delimiter; if 0, '\t' for .tsv sources and ',' otherwise.
	Delimiter rune
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses delimited text with a header row. Cells are kept verbatim;
// label normalization happens later in the pipeline.
func ReadCSV(r io.Reader, source string, opt CSVOptions) (*Dataset, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(source)
	}
	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Source: source}, nil
		}
		return nil, &MalformedError{Source: source, Err: fmt.Errorf("read header: %w", err)}
	}
	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &MalformedError{Source: source, Row: len(records) + 1, Err: err}
		}
		records = append(records, rec)
	}
	return New(source, header, records)
}

func sniffDelimiter(source string) rune {
	name := strings.ToLower(source)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}
