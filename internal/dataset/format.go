package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NumberFormat describes how numeric cells are written. A zero separator means
// auto-detect on parse and '.' / no grouping on format.
type NumberFormat struct {
	Decimal   rune
	Thousands rune
}

var (
	groupedComma = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+$`)
	groupedSpace = regexp.MustCompile(`^[+-]?\d{1,3}( \d{3})+([.,]\d*)?$`)
)

// Parse interprets a numeric cell. Percent signs are ignored and spaces are
// accepted only as digit grouping ("1 200"). With no thousands separator set,
// a comma or dot other than the decimal mark makes the cell invalid.
// NaN and infinities are rejected.
func (nf NumberFormat) Parse(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := nf.Decimal
	thou := nf.Thousands
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0 && groupedComma.MatchString(raw):
			// "1,200" reads as twelve hundred
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		case strings.Count(raw, ".") > 1:
			dec, thou = ',', '.'
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		// Without a thousands separator the other punctuation mark is not a number.
		for _, sep := range []rune{',', '.'} {
			if sep != dec && strings.ContainsRune(raw, sep) {
				return 0, false
			}
		}
		if groupedSpace.MatchString(raw) {
			raw = strings.ReplaceAll(raw, " ", "")
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatFloat writes v with the shortest
// round-trip digits, always with a fractional part ("4.0", "38.17").
func (nf NumberFormat) FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	if nf.Decimal != 0 && nf.Decimal != '.' {
		s = strings.Replace(s, ".", string(nf.Decimal), 1)
	}
	return s
}

// FormatInt writes n without grouping.
func (nf NumberFormat) FormatInt(n int) string {
	return strconv.Itoa(n)
}
