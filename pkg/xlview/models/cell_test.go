package models

import (
	"encoding/json"
	"testing"
)

func TestCellValueString(t *testing.T) {
	tests := []struct {
		name string
		cell CellValue
		want string
	}{
		{"absent", Absent(), ""},
		{"text", TextValue("abc"), "abc"},
		{"integer", NumberValue(42), "42"},
		{"fraction", NumberValue(0.25), "0.25"},
		{"bool", BoolValue(true), "true"},
		{"formatted number", NumberValue(0.5).WithDisplay("50%"), "50%"},
		{"formatted empty display", TextValue("x").WithDisplay(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellValueJSON(t *testing.T) {
	row := []CellValue{Absent(), TextValue("a"), NumberValue(1.5), BoolValue(false), NumberValue(3).WithDisplay("3.00")}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `[null,"a",1.5,false,"3.00"]`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[CellKind]string{
		KindAbsent: "absent",
		KindText:   "text",
		KindNumber: "number",
		KindBool:   "boolean",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}

func TestSheetCell(t *testing.T) {
	s := &SheetData{
		Headers: []string{"A", "B"},
		Data:    [][]CellValue{{TextValue("x"), Absent()}},
	}
	if got := s.Cell(0, 0).String(); got != "x" {
		t.Errorf("Cell(0,0) = %q, want x", got)
	}
	if !s.Cell(5, 0).IsAbsent() || !s.Cell(0, 9).IsAbsent() || !s.Cell(-1, 0).IsAbsent() {
		t.Error("out of range cells should be absent")
	}
	if s.Rows() != 1 || s.Cols() != 2 {
		t.Errorf("Rows/Cols = %d/%d, want 1/2", s.Rows(), s.Cols())
	}
}
