package parser

import "testing"

func TestParseRangeRef(t *testing.T) {
	tests := []struct {
		ref      string
		expected Extent
		wantErr  bool
	}{
		{"", Extent{}, false},
		{"A1", Extent{}, false},
		{"A1:D10", Extent{EndCol: 3, EndRow: 9}, false},
		{"$A$1:$D$10", Extent{EndCol: 3, EndRow: 9}, false},
		{"B2:C3", Extent{EndCol: 2, EndRow: 2}, false},
		{"AA100", Extent{EndCol: 26, EndRow: 99}, false},
		{"A1:B2:C3", Extent{}, true},
		{"nonsense", Extent{}, true},
	}

	for _, tt := range tests {
		got, err := parseRangeRef(tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRangeRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("parseRangeRef(%q) = %+v, expected %+v", tt.ref, got, tt.expected)
		}
	}
}

func TestDataExtent(t *testing.T) {
	rows := [][]string{
		{},
		{"", "x"},
		{"", "", "", ""},
		{"y"},
	}
	ext, ok := dataExtent(rows)
	if !ok {
		t.Fatal("Expected data to be found")
	}
	if ext != (Extent{EndCol: 1, EndRow: 3}) {
		t.Errorf("dataExtent = %+v", ext)
	}

	if _, ok := dataExtent([][]string{{""}, {}}); ok {
		t.Error("Expected no data in blank rows")
	}
}
