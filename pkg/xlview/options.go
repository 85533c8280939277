// Package xlview decodes spreadsheet files into bounded, read-only grids.
package xlview

import "github.com/ukaji3/xlview-go/pkg/xlview/parser"

const (
	// DefaultMaxColumns is the column cap (A through AY).
	DefaultMaxColumns = 51
	// DefaultMaxRows is the row cap.
	DefaultMaxRows = 10001
)

// Options configures decoding.
type Options struct {
	// MaxColumns caps the decoded column count. Zero means DefaultMaxColumns.
	MaxColumns int
	// MaxRows caps the decoded row count. Zero means DefaultMaxRows.
	MaxRows int
	// DefaultColWidth is the pixel width used when a column carries no hint.
	// Zero means parser.DefaultColWidthPx.
	DefaultColWidth float64
	// CharWidth is the pixel width of one character of a width hint.
	// Zero means parser.CharWidthPx.
	CharWidth float64
}

// DefaultOptions returns default decoding options.
func DefaultOptions() Options {
	return Options{
		MaxColumns:      DefaultMaxColumns,
		MaxRows:         DefaultMaxRows,
		DefaultColWidth: parser.DefaultColWidthPx,
		CharWidth:       parser.CharWidthPx,
	}
}

// limits converts the options into parser limits, filling zero fields.
func (o Options) limits() parser.Limits {
	l := parser.Limits{
		MaxColumns:      o.MaxColumns,
		MaxRows:         o.MaxRows,
		DefaultColWidth: o.DefaultColWidth,
		CharWidth:       o.CharWidth,
	}
	if l.MaxColumns <= 0 {
		l.MaxColumns = DefaultMaxColumns
	}
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultMaxRows
	}
	if l.DefaultColWidth <= 0 {
		l.DefaultColWidth = parser.DefaultColWidthPx
	}
	if l.CharWidth <= 0 {
		l.CharWidth = parser.CharWidthPx
	}
	return l
}
