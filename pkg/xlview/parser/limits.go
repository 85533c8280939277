package parser

import (
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/xuri/excelize/v2"
)

// Limits bounds the decoded grid and controls column width resolution.
type Limits struct {
	MaxColumns      int
	MaxRows         int
	DefaultColWidth float64
	CharWidth       float64
}

// clamp returns the zero-based last column and row to decode for an extent
// whose last cell is (endCol, endRow), both zero-based.
func (l Limits) clamp(endCol, endRow int) (int, int) {
	return min(endCol, l.MaxColumns-1), min(endRow, l.MaxRows-1)
}

// ColumnHeaders returns the letter labels A, B, ... for n columns.
func ColumnHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			// only reachable beyond XFD, which the limits never allow
			name = ""
		}
		headers[i] = name
	}
	return headers
}

// defaultWidths returns n copies of the default column width.
func (l Limits) defaultWidths(n int) []float64 {
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = l.DefaultColWidth
	}
	return widths
}

// rowCollector applies the row retention rules: leading all-absent rows are
// dropped, interior ones are kept, trailing ones are stripped by finish.
type rowCollector struct {
	rows [][]models.CellValue
}

func (rc *rowCollector) add(row []models.CellValue) {
	if len(rc.rows) > 0 || !allAbsent(row) {
		rc.rows = append(rc.rows, row)
	}
}

func (rc *rowCollector) finish() [][]models.CellValue {
	n := len(rc.rows)
	for n > 0 && allAbsent(rc.rows[n-1]) {
		n--
	}
	if n == 0 {
		return [][]models.CellValue{}
	}
	return rc.rows[:n]
}

func allAbsent(row []models.CellValue) bool {
	for _, v := range row {
		if !v.IsAbsent() {
			return false
		}
	}
	return true
}
