// Package normalize provides pure cell-value cleaning used by every
// extraction and reconciliation stage. Spreadsheet cells arrive with
// numeric-format corruption (scientific notation, trailing ".0", stray
// punctuation) and textual nulls; these functions map all of that onto
// canonical identifiers, text, and dates.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// textualNulls are cell values that mean "no value".
var textualNulls = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"nat":  true,
}

// Identifier cleans a raw cell into a digits-only identifier with leading
// zeros removed. Missing, blank and textual-null values yield the empty
// string, as does any value with no digits at all.
func Identifier(cell string) string {
	clean := strings.TrimSpace(cell)
	if clean == "" || textualNulls[strings.ToLower(clean)] {
		return ""
	}

	// Remove all internal whitespace before inspecting the shape.
	clean = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, clean)

	if clean == "" || textualNulls[strings.ToLower(clean)] {
		return ""
	}

	// Scientific-notation artifacts ("1.23E+09") come from spreadsheet
	// number formatting; resolve them back to a fixed-point integer string.
	lower := strings.ToLower(clean)
	if strings.Contains(lower, "e+") || strings.Contains(lower, "e-") {
		if f, err := strconv.ParseFloat(clean, 64); err == nil {
			clean = strconv.FormatFloat(f, 'f', 0, 64)
		}
	}

	// Truncate any trailing decimal fraction ("452.0" -> "452").
	if idx := strings.IndexByte(clean, '.'); idx >= 0 {
		clean = clean[:idx]
	}

	// Keep digits only.
	var digits strings.Builder
	for _, r := range clean {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}

	// Reparse as an integer to drop leading zeros. Identifiers can exceed
	// int64, so trim textually instead of converting.
	out := strings.TrimLeft(digits.String(), "0")
	if out == "" {
		return "0"
	}
	return out
}

// Text trims a cell, collapses internal whitespace runs to a single space,
// and maps textual nulls to the empty string.
func Text(cell string) string {
	clean := strings.Join(strings.Fields(cell), " ")
	if textualNulls[strings.ToLower(clean)] {
		return ""
	}
	return clean
}

// explicitDateLayouts are tried in order before any permissive fallback.
// Day-before-month variants come first; the list mirrors the formats seen
// in tracker exports.
var explicitDateLayouts = []string{
	"02/01/06",
	"02/01/2006",
	"01/02/06",
	"01/02/2006",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02-01-06",
	"20060102",
}

// fallbackDateLayouts form the permissive general parser, preferring
// day-before-month interpretation, then datetime shapes excel emits.
var fallbackDateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"1/2/2006",
	"1/2/06",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	time.RFC3339,
}

// Date parses a cell into a calendar date, tolerating the format drift seen
// across workbooks. The boolean result is false for blank or null-like
// values and for anything no layout accepts; parsing never panics.
func Date(cell string) (time.Time, bool) {
	clean := strings.TrimSpace(cell)
	if clean == "" || textualNulls[strings.ToLower(clean)] {
		return time.Time{}, false
	}

	for _, layout := range explicitDateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
