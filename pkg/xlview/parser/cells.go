package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/xuri/excelize/v2"
)

// ExtractSheet decodes one sheet of an OOXML workbook into a bounded grid.
func ExtractSheet(f *excelize.File, sheetName string, lim Limits) (models.SheetData, error) {
	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return models.SheetData{}, err
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.SheetData{}, err
	}

	ext, err := usedRange(f, sheetName, raw)
	if err != nil {
		return models.SheetData{}, err
	}
	lastCol, lastRow := lim.clamp(ext.EndCol, ext.EndRow)
	nCols := lastCol + 1

	widths, err := columnWidths(f, sheetName, nCols, lim)
	if err != nil {
		return models.SheetData{}, err
	}

	var rc rowCollector
	for r := 0; r <= lastRow; r++ {
		row := make([]models.CellValue, nCols)
		for c := 0; c < nCols; c++ {
			row[c], err = extractCell(f, sheetName, c, r, formatted, raw)
			if err != nil {
				return models.SheetData{}, err
			}
		}
		rc.add(row)
	}

	return models.SheetData{
		Name:      sheetName,
		Headers:   ColumnHeaders(nCols),
		Data:      rc.finish(),
		ColWidths: widths,
	}, nil
}

// usedRange returns the declared dimension widened to cover any cells the
// dimension does not account for.
func usedRange(f *excelize.File, sheetName string, raw [][]string) (Extent, error) {
	dim, err := f.GetSheetDimension(sheetName)
	if err != nil {
		return Extent{}, err
	}
	ext, err := parseRangeRef(dim)
	if err != nil {
		ext = Extent{}
	}
	if data, ok := dataExtent(raw); ok {
		ext = ext.Union(data)
	}
	return ext, nil
}

// columnWidths resolves the pixel width of the first n columns.
func columnWidths(f *excelize.File, sheetName string, n int, lim Limits) ([]float64, error) {
	var sheetDefault []float64
	if props, err := f.GetSheetProps(sheetName); err == nil && props.DefaultColWidth != nil {
		sheetDefault = append(sheetDefault, *props.DefaultColWidth)
	}

	widths := lim.defaultWidths(n)
	for c := 0; c < n; c++ {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		w, err := f.GetColWidth(sheetName, name)
		if err != nil {
			return nil, err
		}
		var hint ColumnHint
		if !isDefaultWidth(w, sheetDefault...) {
			hint.Chars = w
		}
		widths[c] = ResolveColumnWidth(hint, lim.CharWidth, lim.DefaultColWidth)
	}
	return widths, nil
}

// extractCell resolves the value at zero-based (col, row).
func extractCell(f *excelize.File, sheetName string, col, row int, formatted, raw [][]string) (models.CellValue, error) {
	display, inFormatted := at(formatted, row, col)
	rawValue, inRaw := at(raw, row, col)
	if !inFormatted && !inRaw {
		return models.Absent(), nil
	}

	typ := excelize.CellTypeUnset
	if needsCellType(rawValue) {
		cellName, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return models.Absent(), err
		}
		if typ, err = f.GetCellType(sheetName, cellName); err != nil {
			return models.Absent(), err
		}
	}
	return resolveCell(typ, rawValue, display), nil
}

// needsCellType reports whether the stored cell type changes how raw resolves.
// Empty and non-numeric strings resolve the same way under every type; numbers
// and boolean literals may be stored as text.
func needsCellType(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false") {
		return true
	}
	_, isText := parseValue(raw).(string)
	return !isText
}

// resolveCell builds a typed value from the cell type, its raw string and its
// formatted display string.
func resolveCell(typ excelize.CellType, raw, display string) models.CellValue {
	var v models.CellValue
	switch typ {
	case excelize.CellTypeBool:
		v = models.BoolValue(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeNumber, excelize.CellTypeDate, excelize.CellTypeUnset:
		if raw == "" && display == "" {
			return models.Absent()
		}
		v = typedValue(raw)
	default:
		// shared, inline and formula strings and error values
		v = models.TextValue(raw)
	}
	if display != "" {
		v = v.WithDisplay(display)
	}
	return v
}

// typedValue parses a raw string as a number, falling back to text.
func typedValue(s string) models.CellValue {
	switch n := parseValue(s).(type) {
	case int64:
		return models.NumberValue(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return models.TextValue(s)
		}
		return models.NumberValue(n)
	default:
		return models.TextValue(s)
	}
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// at returns rows[row][col] and whether that position exists.
func at(rows [][]string, row, col int) (string, bool) {
	if row >= len(rows) || col >= len(rows[row]) {
		return "", false
	}
	return rows[row][col], true
}
