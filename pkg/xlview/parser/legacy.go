package parser

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
)

// ExtractLegacy decodes every sheet of a BIFF (.xls) workbook. BIFF cells are
// read as display strings; strings that parse as numbers are typed as numbers.
// Column widths are not exposed by the reader, so every column gets the default.
// LastCol is treated as inclusive since the reader reports it either way
// depending on whether a ROW record was present.
func ExtractLegacy(r io.ReadSeeker, lim Limits) (sheets []models.SheetData, err error) {
	// the BIFF reader indexes records without bounds checks and panics on
	// truncated input
	defer func() {
		if p := recover(); p != nil {
			sheets = nil
			err = fmt.Errorf("%w: corrupt workbook: %v", ErrInvalidFormat, p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, err
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheets = append(sheets, extractLegacySheet(ws, lim))
	}
	if sheets == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFormat)
	}
	return sheets, nil
}

func extractLegacySheet(ws *xls.WorkSheet, lim Limits) models.SheetData {
	var ext Extent
	cells := make(map[[2]int]string)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil {
			continue
		}
		for c := row.FirstCol(); c <= row.LastCol(); c++ {
			s := row.Col(c)
			if s == "" {
				continue
			}
			cells[[2]int{r, c}] = s
			ext = ext.Union(Extent{EndCol: c, EndRow: r})
		}
	}

	lastCol, lastRow := lim.clamp(ext.EndCol, ext.EndRow)
	nCols := lastCol + 1

	var rc rowCollector
	for r := 0; r <= lastRow; r++ {
		row := make([]models.CellValue, nCols)
		for c := 0; c < nCols; c++ {
			s, ok := cells[[2]int{r, c}]
			if !ok {
				continue
			}
			row[c] = typedValue(s).WithDisplay(s)
		}
		rc.add(row)
	}

	return models.SheetData{
		Name:      ws.Name,
		Headers:   ColumnHeaders(nCols),
		Data:      rc.finish(),
		ColWidths: lim.defaultWidths(nCols),
	}
}
