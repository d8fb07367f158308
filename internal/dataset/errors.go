package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoColumns reports a table without a header row.
var ErrNoColumns = errors.New("dataset has no columns")

// MalformedError indicates that the input could not be interpreted as a table of facilities.
// Row is the 1-based data row (0 when the problem is not tied to a row).
type MalformedError struct {
	Source string
	Row    int
	Column string
	Err    error
}

func (e *MalformedError) Error() string {
	if e == nil {
		return "malformed input"
	}
	var where []string
	if e.Source != "" {
		where = append(where, e.Source)
	}
	if e.Row > 0 {
		where = append(where, fmt.Sprintf("row %d", e.Row))
	}
	if e.Column != "" {
		where = append(where, fmt.Sprintf("column %q", e.Column))
	}
	if len(where) == 0 {
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
	return fmt.Sprintf("malformed input (%s): %v", strings.Join(where, ", "), e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// UnreachableError indicates the data location could not be read at all.
type UnreachableError struct {
	Location string
	Err      error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Location != "" {
		return fmt.Sprintf("data source unreachable at %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("data source unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// StatusError is returned for a non-2xx HTTP response.
type StatusError struct {
	Location   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("fetch %s: unexpected status %s: %s", e.Location, e.Status, e.Body)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.Location, e.Status)
}

// Retryable reports whether the status is worth another attempt (429 and 5xx).
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
