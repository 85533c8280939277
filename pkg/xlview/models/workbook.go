package models

// ParsedWorkbook represents a decoded workbook.
type ParsedWorkbook struct {
	// FileName is the workbook file name (no path).
	FileName string `json:"fileName" yaml:"fileName"`
	// Sheets holds the sheets in source order.
	Sheets []SheetData `json:"sheets" yaml:"sheets"`
}

// SheetNames returns the sheet titles in order.
func (w *ParsedWorkbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}
