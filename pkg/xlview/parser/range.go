package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extent is the zero-based last column and row of a sheet's used range.
// The origin is always A1.
type Extent struct {
	EndCol int
	EndRow int
}

// Union returns the smallest extent covering e and o.
func (e Extent) Union(o Extent) Extent {
	return Extent{EndCol: max(e.EndCol, o.EndCol), EndRow: max(e.EndRow, o.EndRow)}
}

// parseRangeRef parses a used range like "A1:D10", "$A$1:$D$10" or "B2".
// An empty reference yields the single-cell extent A1.
func parseRangeRef(ref string) (Extent, error) {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "$", ""))
	if ref == "" {
		return Extent{}, nil
	}

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return Extent{}, fmt.Errorf("invalid range %q", ref)
	}

	var ext Extent
	for _, part := range parts {
		col, row, err := excelize.CellNameToCoordinates(part)
		if err != nil {
			return Extent{}, err
		}
		ext = ext.Union(Extent{EndCol: col - 1, EndRow: row - 1})
	}
	return ext, nil
}

// dataExtent finds the extent of non-empty cells in rows.
// ok is false when every cell is empty.
func dataExtent(rows [][]string) (ext Extent, ok bool) {
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			ok = true
			if rowIdx > ext.EndRow {
				ext.EndRow = rowIdx
			}
			if colIdx > ext.EndCol {
				ext.EndCol = colIdx
			}
		}
	}
	return ext, ok
}
