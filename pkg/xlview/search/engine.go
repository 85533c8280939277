// Package search implements case-insensitive substring search over a decoded
// workbook with cyclic next/previous navigation.
package search

import (
	"strings"

	"github.com/ukaji3/xlview-go/pkg/xlview/models"
)

// Engine holds a query, the matches it produces against the active workbook,
// and a pointer to the current match. It is not safe for concurrent use.
type Engine struct {
	workbook *models.ParsedWorkbook
	query    string
	matches  []models.SearchMatch
	index    map[models.SearchMatch]struct{}
	current  int
}

// New returns an engine with no workbook and an empty query.
func New() *Engine {
	return &Engine{}
}

// SetWorkbook replaces the searched workbook and recomputes the matches.
func (e *Engine) SetWorkbook(wb *models.ParsedWorkbook) {
	e.workbook = wb
	e.recompute()
}

// SetQuery replaces the query and recomputes the matches.
func (e *Engine) SetQuery(q string) {
	e.query = q
	e.recompute()
}

// Query returns the current query.
func (e *Engine) Query() string { return e.query }

// Matches returns a copy of the match list in scan order.
func (e *Engine) Matches() []models.SearchMatch {
	out := make([]models.SearchMatch, len(e.matches))
	copy(out, e.matches)
	return out
}

// Total returns the number of matches.
func (e *Engine) Total() int { return len(e.matches) }

// CurrentIndex returns the zero-based position of the current match.
func (e *Engine) CurrentIndex() int { return e.current }

// Current returns the current match, if any.
func (e *Engine) Current() (models.SearchMatch, bool) {
	if len(e.matches) == 0 {
		return models.SearchMatch{}, false
	}
	return e.matches[e.current], true
}

// GoToNext advances to the next match, wrapping from the last to the first.
func (e *Engine) GoToNext() {
	if n := len(e.matches); n > 0 {
		e.current = (e.current + 1) % n
	}
}

// GoToPrev moves to the previous match, wrapping from the first to the last.
func (e *Engine) GoToPrev() {
	if n := len(e.matches); n > 0 {
		e.current = (e.current - 1 + n) % n
	}
}

// IsMatch reports whether the cell at (sheet, row, col) matches the query.
func (e *Engine) IsMatch(sheet, row, col int) bool {
	_, ok := e.index[models.SearchMatch{SheetIndex: sheet, Row: row, Col: col}]
	return ok
}

// IsCurrentMatch reports whether the cell at (sheet, row, col) is the current match.
func (e *Engine) IsCurrentMatch(sheet, row, col int) bool {
	cur, ok := e.Current()
	return ok && cur == models.SearchMatch{SheetIndex: sheet, Row: row, Col: col}
}

// recompute rescans the workbook and resets the pointer.
func (e *Engine) recompute() {
	e.matches = Find(e.workbook, e.query)
	e.index = make(map[models.SearchMatch]struct{}, len(e.matches))
	for _, m := range e.matches {
		e.index[m] = struct{}{}
	}
	e.current = 0
}

// Find returns every non-absent cell whose lower-cased text contains the
// lower-cased query, ordered by sheet, row, then column. A query that is empty
// after trimming matches nothing; otherwise the query is used untrimmed.
func Find(wb *models.ParsedWorkbook, query string) []models.SearchMatch {
	if wb == nil || strings.TrimSpace(query) == "" {
		return nil
	}
	term := strings.ToLower(query)

	var results []models.SearchMatch
	for s := range wb.Sheets {
		for r, row := range wb.Sheets[s].Data {
			for c, cell := range row {
				if cell.IsAbsent() {
					continue
				}
				if strings.Contains(strings.ToLower(cell.String()), term) {
					results = append(results, models.SearchMatch{SheetIndex: s, Row: r, Col: c})
				}
			}
		}
	}
	return results
}
