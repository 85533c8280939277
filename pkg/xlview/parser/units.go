// Package parser provides spreadsheet parsing utilities.
package parser

import "math"

const (
	// CharWidthPx is the number of pixels per character of a column width hint.
	CharWidthPx = 7.5
	// DefaultColWidthPx is the pixel width of a column with no width hint.
	DefaultColWidthPx = 80.0
	// excelDefaultColWidth is the width in characters excelize reports for a
	// column without a <col> definition.
	excelDefaultColWidth = 9.140625
)

// ColumnHint carries the width information a source declares for a column.
// Zero fields mean the hint is not present.
type ColumnHint struct {
	// Pixels is an explicit pixel width.
	Pixels float64
	// Chars is a width in characters.
	Chars float64
}

// ResolveColumnWidth converts a hint into a pixel width. Explicit pixels win,
// then characters times charPx, then def.
func ResolveColumnWidth(h ColumnHint, charPx, def float64) float64 {
	switch {
	case h.Pixels > 0:
		return h.Pixels
	case h.Chars > 0:
		return h.Chars * charPx
	default:
		return def
	}
}

// isDefaultWidth reports whether w equals one of the defaults, meaning the
// column declares no width of its own.
func isDefaultWidth(w float64, defaults ...float64) bool {
	if math.Abs(w-excelDefaultColWidth) < 1e-9 {
		return true
	}
	for _, d := range defaults {
		if math.Abs(w-d) < 1e-9 {
			return true
		}
	}
	return false
}
