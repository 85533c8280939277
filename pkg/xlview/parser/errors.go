package parser

import "errors"

// ErrInvalidFormat indicates the bytes are not a recognizable spreadsheet container.
var ErrInvalidFormat = errors.New("not a spreadsheet file")

// ErrEncrypted indicates the workbook is password protected.
var ErrEncrypted = errors.New("workbook is password protected")
