package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlview-go/pkg/xlview"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/xuri/excelize/v2"
)

func sheet(name string, rows ...[]models.CellValue) models.SheetData {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	return models.SheetData{Name: name, Headers: make([]string, width), Data: rows}
}

func row(cells ...models.CellValue) []models.CellValue { return cells }

var (
	text  = models.TextValue
	num   = models.NumberValue
	blank = models.Absent()
)

func sampleWorkbook() *models.ParsedWorkbook {
	return &models.ParsedWorkbook{
		FileName: "sample.xlsx",
		Sheets: []models.SheetData{
			sheet("First",
				row(text("Apple pie"), num(42), blank),
				row(blank, text("pineapple"), models.BoolValue(true)),
			),
			sheet("Second",
				row(text("APPLE"), num(3.5).WithDisplay("$3.50")),
			),
		},
	}
}

func TestEmptyQueries(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())

	for _, q := range []string{"", " ", "\t\n", "   "} {
		e.SetQuery(q)
		assert.Empty(t, e.Matches(), "query %q", q)
		assert.Equal(t, 0, e.Total())
		_, ok := e.Current()
		assert.False(t, ok)
		assert.False(t, e.IsCurrentMatch(0, 0, 0))
		assert.False(t, e.IsMatch(0, 0, 0))
	}
}

func TestMatchOrderAndCase(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())
	e.SetQuery("apple")

	assert.Equal(t, []models.SearchMatch{
		{SheetIndex: 0, Row: 0, Col: 0},
		{SheetIndex: 0, Row: 1, Col: 1},
		{SheetIndex: 1, Row: 0, Col: 0},
	}, e.Matches())
}

func TestQueryIsNotTrimmed(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())

	e.SetQuery("apple ")
	assert.Equal(t, []models.SearchMatch{{SheetIndex: 0, Row: 0, Col: 0}}, e.Matches())
}

func TestStringification(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())

	e.SetQuery("42")
	assert.Equal(t, []models.SearchMatch{{SheetIndex: 0, Row: 0, Col: 1}}, e.Matches())

	e.SetQuery("TRUE")
	assert.Equal(t, []models.SearchMatch{{SheetIndex: 0, Row: 1, Col: 2}}, e.Matches())

	// display string wins over the raw number
	e.SetQuery("$3.5")
	assert.Equal(t, []models.SearchMatch{{SheetIndex: 1, Row: 0, Col: 1}}, e.Matches())
	e.SetQuery("3.5")
	assert.Equal(t, []models.SearchMatch{{SheetIndex: 1, Row: 0, Col: 1}}, e.Matches())
}

func TestSoundAndComplete(t *testing.T) {
	wb := sampleWorkbook()
	for _, q := range []string{"a", "p", "APP", "e p", "4", "x"} {
		matches := Find(wb, q)
		found := make(map[models.SearchMatch]bool)
		for _, m := range matches {
			found[m] = true
			cell := wb.Sheets[m.SheetIndex].Data[m.Row][m.Col]
			require.False(t, cell.IsAbsent())
			assert.Contains(t, strings.ToLower(cell.String()), strings.ToLower(q))
		}
		for s, sh := range wb.Sheets {
			for r, cells := range sh.Data {
				for c, cell := range cells {
					want := !cell.IsAbsent() && strings.Contains(strings.ToLower(cell.String()), strings.ToLower(q))
					assert.Equal(t, want, found[models.SearchMatch{SheetIndex: s, Row: r, Col: c}],
						"query %q cell (%d,%d,%d)", q, s, r, c)
				}
			}
		}
	}
}

func TestCyclicNavigation(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())
	e.SetQuery("p")
	n := e.Total()
	require.Greater(t, n, 1)

	for start := 0; start < n; start++ {
		e.SetQuery("p")
		for i := 0; i < start; i++ {
			e.GoToNext()
		}
		require.Equal(t, start, e.CurrentIndex())

		for i := 0; i < n; i++ {
			e.GoToNext()
		}
		assert.Equal(t, start, e.CurrentIndex(), "next closure from %d", start)

		for i := 0; i < n; i++ {
			e.GoToPrev()
		}
		assert.Equal(t, start, e.CurrentIndex(), "prev closure from %d", start)
	}

	e.SetQuery("p")
	e.GoToPrev()
	assert.Equal(t, n-1, e.CurrentIndex(), "prev from first wraps to last")
}

func TestNavigationWithoutMatches(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())
	e.SetQuery("zzz")

	e.GoToNext()
	e.GoToPrev()
	assert.Equal(t, 0, e.CurrentIndex())
	assert.Equal(t, 0, e.Total())
}

func TestExactlyOneCurrentMatch(t *testing.T) {
	wb := sampleWorkbook()
	e := New()
	e.SetWorkbook(wb)
	e.SetQuery("e")
	require.NotZero(t, e.Total())

	for step := 0; step < e.Total(); step++ {
		count := 0
		for s, sh := range wb.Sheets {
			for r, cells := range sh.Data {
				for c := range cells {
					if e.IsCurrentMatch(s, r, c) {
						count++
						assert.True(t, e.IsMatch(s, r, c))
					}
				}
			}
		}
		assert.Equal(t, 1, count)
		e.GoToNext()
	}
}

func TestRecomputeResetsPointer(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())
	e.SetQuery("apple")
	e.GoToNext()
	e.GoToNext()
	require.Equal(t, 2, e.CurrentIndex())

	e.SetQuery("apple")
	assert.Equal(t, 0, e.CurrentIndex())

	e.GoToNext()
	e.SetWorkbook(sampleWorkbook())
	assert.Equal(t, 0, e.CurrentIndex())
	assert.Equal(t, "apple", e.Query())
	assert.Equal(t, 3, e.Total())

	e.SetWorkbook(nil)
	assert.Zero(t, e.Total())
}

func TestMatchesReturnsCopy(t *testing.T) {
	e := New()
	e.SetWorkbook(sampleWorkbook())
	e.SetQuery("apple")

	m := e.Matches()
	m[0].Row = 99
	assert.Equal(t, 0, e.Matches()[0].Row)
}

func TestTwoSheetScenario(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Foo"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 42))
	_, err := f.NewSheet("Sheet2")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet2", "A1", "foobar"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := xlview.Decode(buf.Bytes(), "two.xlsx", xlview.DefaultOptions())
	require.NoError(t, err)

	e := New()
	e.SetWorkbook(wb)
	e.SetQuery("foo")
	require.Equal(t, []models.SearchMatch{
		{SheetIndex: 0, Row: 0, Col: 0},
		{SheetIndex: 1, Row: 0, Col: 0},
	}, e.Matches())

	assert.True(t, e.IsCurrentMatch(0, 0, 0))
	e.GoToNext()
	assert.Equal(t, 1, e.CurrentIndex())
	cur, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, 1, cur.SheetIndex)
	e.GoToNext()
	assert.Equal(t, 0, e.CurrentIndex())
}
