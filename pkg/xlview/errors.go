package xlview

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlview-go/pkg/xlview/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a recognizable spreadsheet container.
var ErrInvalidFormat = parser.ErrInvalidFormat

// ErrEncrypted indicates the workbook is password protected.
var ErrEncrypted = parser.ErrEncrypted

// DecodeError represents a failure to decode spreadsheet bytes.
type DecodeError struct {
	FileName  string
	SheetName string // empty when the container itself could not be opened
	Err       error
}

func (e *DecodeError) Error() string {
	if e.SheetName != "" {
		return fmt.Sprintf("cannot read %q (sheet %q): %v", e.FileName, e.SheetName, e.Err)
	}
	return fmt.Sprintf("cannot read %q: %v", e.FileName, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError.
func NewDecodeError(fileName, sheetName string, err error) *DecodeError {
	return &DecodeError{
		FileName:  fileName,
		SheetName: sheetName,
		Err:       err,
	}
}

// IsDecodeError reports whether err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
