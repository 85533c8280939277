package models

// SheetData is the normalized grid of a single sheet.
type SheetData struct {
	// Name is the sheet title. Names may repeat within a workbook.
	Name string `json:"name" yaml:"name"`
	// Headers holds the column letter labels, one per column.
	Headers []string `json:"headers" yaml:"headers"`
	// Data holds the rows. Every row has len(Headers) cells.
	Data [][]CellValue `json:"data" yaml:"data"`
	// ColWidths holds the display width in pixels, parallel to Headers.
	ColWidths []float64 `json:"colWidths" yaml:"colWidths"`
}

// Cell returns the value at row, col or an absent value when out of range.
func (s *SheetData) Cell(row, col int) CellValue {
	if row < 0 || row >= len(s.Data) {
		return Absent()
	}
	r := s.Data[row]
	if col < 0 || col >= len(r) {
		return Absent()
	}
	return r[col]
}

// Rows returns the number of rows.
func (s *SheetData) Rows() int { return len(s.Data) }

// Cols returns the number of columns.
func (s *SheetData) Cols() int { return len(s.Headers) }
