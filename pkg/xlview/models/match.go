package models

// SearchMatch is a zero-based coordinate of a matching cell.
type SearchMatch struct {
	SheetIndex int `json:"sheetIndex" yaml:"sheetIndex"`
	Row        int `json:"row" yaml:"row"`
	Col        int `json:"col" yaml:"col"`
}
