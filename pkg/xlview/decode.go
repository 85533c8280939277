package xlview

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/ukaji3/xlview-go/pkg/xlview/parser"
	"github.com/xuri/excelize/v2"
)

// Decode decodes spreadsheet bytes into a workbook. On failure it returns a
// *DecodeError and no workbook.
func Decode(data []byte, fileName string, opts Options) (*models.ParsedWorkbook, error) {
	lim := opts.limits()

	var (
		sheets []models.SheetData
		err    error
	)
	switch parser.DetectContainer(data) {
	case parser.ContainerOOXML:
		sheets, err = decodeOOXML(data, fileName, lim)
	case parser.ContainerLegacy:
		sheets, err = parser.ExtractLegacy(bytes.NewReader(data), lim)
	case parser.ContainerEncrypted:
		err = ErrEncrypted
	default:
		err = ErrInvalidFormat
	}
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, NewDecodeError(fileName, "", err)
	}

	return &models.ParsedWorkbook{
		FileName: fileName,
		Sheets:   sheets,
	}, nil
}

func decodeOOXML(data []byte, fileName string, lim parser.Limits) ([]models.SheetData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFormat)
	}

	sheets := make([]models.SheetData, 0, len(sheetList))
	for _, sheetName := range sheetList {
		sheet, err := parser.ExtractSheet(f, sheetName, lim)
		if err != nil {
			return nil, NewDecodeError(fileName, sheetName, err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// DecodeFile reads and decodes the file at path. Read failures are returned
// as-is (wrapping ErrFileNotFound for a missing file); only undecodable
// contents yield a *DecodeError.
func DecodeFile(path string, opts Options) (*models.ParsedWorkbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return Decode(data, filepath.Base(path), opts)
}
