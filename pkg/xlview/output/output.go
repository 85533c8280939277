// Package output serializes decoded workbooks for the command line: JSON and
// YAML documents, plus table, CSV and Markdown renderings of a sheet.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"gopkg.in/yaml.v3"
)

// Format names an output rendering.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat validates a format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be one of %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ToJSON serializes a workbook. Absent cells encode as null.
func ToJSON(wb *models.ParsedWorkbook, pretty bool) ([]byte, error) {
	return marshalJSON(wb, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshalJSON(sheet, pretty)
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ToYAML serializes any workbook, sheet or match list with two-space indents.
func ToYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decorator rewrites the text of the cell at row, col before it is rendered.
type Decorator func(row, col int, text string) string

// SheetOptions tunes RenderSheet.
type SheetOptions struct {
	// MaxRows truncates the rendering; zero renders every row.
	MaxRows int
	// Decorate is applied to table cells only.
	Decorate Decorator
}

// RenderSheet writes sheet to w in the given format.
func RenderSheet(w io.Writer, sheet *models.SheetData, format Format, opts SheetOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, sheet)
	case FormatYAML:
		return writeYAML(w, sheet)
	}

	rows := sheet.Data
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}
	if len(rows) == 0 && format == FormatTable {
		_, _ = fmt.Fprintln(w, "(empty sheet)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(sheet.Headers)+1)
	header = append(header, "")
	for _, h := range sheet.Headers {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for r, row := range rows {
		out := make(table.Row, 0, len(row)+1)
		out = append(out, r+1)
		for c, cell := range row {
			text := cell.String()
			if format == FormatTable && opts.Decorate != nil {
				text = opts.Decorate(r, c, text)
			}
			out = append(out, text)
		}
		t.AppendRow(out)
	}

	switch format {
	case FormatCSV:
		t.RenderCSV()
	case FormatMarkdown:
		t.RenderMarkdown()
	default:
		t.Render()
		if len(rows) < len(sheet.Data) {
			_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", len(rows), len(sheet.Data))
		} else {
			_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
		}
	}
	return nil
}

// MatchView is a search hit with its location spelled out.
type MatchView struct {
	Sheet      string `json:"sheet" yaml:"sheet"`
	SheetIndex int    `json:"sheetIndex" yaml:"sheetIndex"`
	Row        int    `json:"row" yaml:"row"`
	Col        int    `json:"col" yaml:"col"`
	Cell       string `json:"cell" yaml:"cell"`
	Value      string `json:"value" yaml:"value"`
}

// MatchViews resolves matches against the workbook they came from.
func MatchViews(wb *models.ParsedWorkbook, matches []models.SearchMatch) []MatchView {
	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		if m.SheetIndex < 0 || m.SheetIndex >= len(wb.Sheets) {
			continue
		}
		sheet := &wb.Sheets[m.SheetIndex]
		col := ""
		if m.Col < len(sheet.Headers) {
			col = sheet.Headers[m.Col]
		}
		views = append(views, MatchView{
			Sheet:      sheet.Name,
			SheetIndex: m.SheetIndex,
			Row:        m.Row,
			Col:        m.Col,
			Cell:       fmt.Sprintf("%s%d", col, m.Row+1),
			Value:      sheet.Cell(m.Row, m.Col).String(),
		})
	}
	return views
}

// RenderMatches writes the search hits of a workbook in the given format.
func RenderMatches(w io.Writer, wb *models.ParsedWorkbook, matches []models.SearchMatch, format Format) error {
	views := MatchViews(wb, matches)
	switch format {
	case FormatJSON:
		return writeJSON(w, views)
	case FormatYAML:
		return writeYAML(w, views)
	}

	if len(views) == 0 && format == FormatTable {
		_, _ = fmt.Fprintln(w, "(0 matches)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Sheet", "Cell", "Value"})
	for i, v := range views {
		t.AppendRow(table.Row{i + 1, v.Sheet, v.Cell, v.Value})
	}

	switch format {
	case FormatCSV:
		t.RenderCSV()
	case FormatMarkdown:
		t.RenderMarkdown()
	default:
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d matches)\n", len(views))
	}
	return nil
}

// RenderFiles writes a catalog listing. sizeFn formats byte counts for the
// table, CSV and Markdown renderings.
func RenderFiles(w io.Writer, files []models.ExcelFile, format Format, sizeFn func(int64) string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, files)
	case FormatYAML:
		return writeYAML(w, files)
	}

	if len(files) == 0 && format == FormatTable {
		_, _ = fmt.Fprintln(w, "(no files)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Folder", "Name", "Size", "Path"})
	for _, f := range files {
		t.AppendRow(table.Row{f.FolderName, f.Name, sizeFn(f.Size), f.Path})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})

	switch format {
	case FormatCSV:
		t.RenderCSV()
	case FormatMarkdown:
		t.RenderMarkdown()
	default:
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d files)\n", len(files))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	data, err := ToYAML(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
