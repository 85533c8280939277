// Package models defines data structures for decoded spreadsheets.
package models

import (
	"encoding/json"
	"strconv"
)

// CellKind identifies the type of value held by a CellValue.
type CellKind uint8

const (
	// KindAbsent marks a coordinate with no cell. It is distinct from empty text.
	KindAbsent CellKind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a numeric value (dates are stored as their serial number).
	KindNumber
	// KindBool is a boolean value.
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "absent"
	}
}

// CellValue represents one grid cell.
type CellValue struct {
	// Kind is the value type.
	Kind CellKind
	// Text holds the raw value for KindText.
	Text string
	// Number holds the raw value for KindNumber.
	Number float64
	// Bool holds the raw value for KindBool.
	Bool bool
	// Display is the pre-formatted string provided by the source, valid when Formatted is set.
	Display string
	// Formatted reports whether the source provided a display string.
	Formatted bool
}

// Absent returns the empty-cell value.
func Absent() CellValue { return CellValue{} }

// TextValue returns an unformatted text cell.
func TextValue(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

// NumberValue returns an unformatted numeric cell.
func NumberValue(v float64) CellValue { return CellValue{Kind: KindNumber, Number: v} }

// BoolValue returns an unformatted boolean cell.
func BoolValue(b bool) CellValue { return CellValue{Kind: KindBool, Bool: b} }

// WithDisplay returns a copy of c carrying the source display string.
func (c CellValue) WithDisplay(display string) CellValue {
	c.Display = display
	c.Formatted = true
	return c
}

// IsAbsent reports whether the cell is empty.
func (c CellValue) IsAbsent() bool { return c.Kind == KindAbsent }

// String returns the displayed text: the source display string when present,
// otherwise the natural form of the raw value.
func (c CellValue) String() string {
	if c.Kind == KindAbsent {
		return ""
	}
	if c.Formatted {
		return c.Display
	}
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return c.Text
	}
}

// Value returns the cell as a plain Go value: nil, string, float64 or bool.
func (c CellValue) Value() interface{} {
	switch {
	case c.Kind == KindAbsent:
		return nil
	case c.Formatted:
		return c.Display
	case c.Kind == KindNumber:
		return c.Number
	case c.Kind == KindBool:
		return c.Bool
	default:
		return c.Text
	}
}

// MarshalJSON encodes the displayed value, or null for an absent cell.
func (c CellValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// MarshalYAML encodes the displayed value, or null for an absent cell.
func (c CellValue) MarshalYAML() (interface{}, error) {
	return c.Value(), nil
}
