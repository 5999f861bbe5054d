package table

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Markers users type instead of leaving a cell empty.
var emptyMarkers = map[string]struct{}{
	"":     {},
	"-":    {},
	"—":    {},
	"–":    {},
	"нет":  {},
	"н/д":  {},
	"n/a":  {},
	"na":   {},
	"none": {},
}

var (
	currencyRe     = regexp.MustCompile(`[₽$€\s\x{00a0}\x{202f}]|руб`)
	decimalCommaRe = regexp.MustCompile(`,\d{1,2}$`)
	nonNumericRe   = regexp.MustCompile(`[^0-9.\-]`)
)

// CleanNumber converts a raw cell value into a non-negative amount.
// The second return value is false when the cell is missing: empty markers,
// unparseable garbage, and negative amounts (data-entry noise) all count as
// missing rather than errors.
//
// Examples:
//
//	"1 200 000"  -> 1200000
//	"1,200,000"  -> 1200000
//	"1200000,50" -> 1200000.5
//	"—"          -> missing
//	"1.2.3"      -> missing
func CleanNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return passNumeric(v)
	case float32:
		return passNumeric(float64(v))
	case int:
		return passNumeric(float64(v))
	case int64:
		return passNumeric(float64(v))
	case string:
		return cleanString(v)
	default:
		return 0, false
	}
}

func passNumeric(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func cleanString(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := emptyMarkers[s]; ok {
		return 0, false
	}

	s = currencyRe.ReplaceAllString(s, "")

	// Separator disambiguation: with both present the comma is a thousands
	// separator. With commas only, a comma followed by one or two trailing
	// digits is the decimal mark; otherwise it separates thousands.
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		if decimalCommaRe.MatchString(s) {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	s = nonNumericRe.ReplaceAllString(s, "")

	// Multiple decimal points mean garbage, not a number.
	if strings.Count(s, ".") > 1 {
		return 0, false
	}
	if s == "" || s == "-" {
		return 0, false
	}

	result, err := strconv.ParseFloat(s, 64)
	if err != nil || result < 0 {
		return 0, false
	}
	return result, true
}
