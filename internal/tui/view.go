package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/ukaji3/xlview-go/pkg/xlview/parser"
)

// View renders the screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.viewMain())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus())
}

func (m Model) viewSidebar() string {
	h := m.bodyHeight()
	inner := sidebarWidth - 1

	var lines []string
	if len(m.items) == 0 {
		lines = append(lines, placeholderStyle.Render(fit("press a to add a folder", inner)))
	}
	for i := m.top; i < len(m.items) && len(lines) < h; i++ {
		item := m.items[i]
		var line string
		switch item.kind {
		case itemFolder:
			line = folderStyle.Render(fit(itemLabel(item, m.state.Expanded), inner))
		case itemFile:
			size := catalog.FormatSize(item.file.Size)
			nameWidth := max(inner-2-lipgloss.Width(size)-1, 1)
			name := fit(item.file.Name, nameWidth)
			style := fileStyle
			if item.file.Path == m.state.SelectedPath {
				style = style.Inherit(openFileStyle)
			}
			line = style.Render(name) + " " + sizeStyle.Render(size)
		}
		if i == m.cursor && m.focus != focusGrid {
			line = cursorStyle.Render(fit(itemLabel(item, m.state.Expanded), inner))
		}
		lines = append(lines, line)
	}
	return sidebarStyle.Height(h).Render(strings.Join(lines, "\n"))
}

// itemLabel renders an item as plain text.
func itemLabel(item sidebarItem, expanded map[string]bool) string {
	if item.kind == itemFolder {
		marker := "▾"
		if e, ok := expanded[item.folder]; ok && !e {
			marker = "▸"
		}
		return fmt.Sprintf("%s %s (%d)", marker, item.folder, item.count)
	}
	return "  " + item.file.Name + " " + catalog.FormatSize(item.file.Size)
}

func (m Model) viewMain() string {
	w := m.mainWidth()
	lines := []string{m.viewTitle(w), m.viewTabs(w), m.viewSearchBar(w)}
	lines = append(lines, m.viewGrid(w, m.bodyHeight()-3)...)
	for len(lines) < m.bodyHeight() {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(w).MaxHeight(m.bodyHeight()).Render(strings.Join(lines, "\n"))
}

func (m Model) viewTitle(w int) string {
	if m.state.SelectedPath == "" {
		return placeholderStyle.Render(fit("No file selected", w))
	}
	return titleStyle.Render(fit(filepath.Base(m.state.SelectedPath), w))
}

func (m Model) viewTabs(w int) string {
	wb := m.state.Workbook
	if wb == nil {
		return ""
	}
	var tabs []string
	for i, name := range wb.SheetNames() {
		if i == m.state.ActiveSheet {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) viewSearchBar(w int) string {
	if m.state.Workbook == nil {
		return ""
	}
	bar := m.search.View()
	if m.focus == focusPrompt {
		bar = m.prompt.View()
	}
	if m.state.Query != "" && m.focus != focusPrompt {
		count := "0 matches"
		if m.state.MatchCount > 0 {
			count = fmt.Sprintf("%d/%d", m.state.CurrentMatch+1, m.state.MatchCount)
		}
		bar += "  " + statusStyle.Render(count)
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(bar)
}

func (m Model) viewGrid(w, h int) []string {
	if h <= 0 {
		return nil
	}
	switch {
	case m.focus == focusPrompt && m.state.Workbook == nil:
		return []string{m.prompt.View()}
	case m.state.Loading:
		return []string{placeholderStyle.Render("Loading...")}
	case m.state.Err != nil:
		return []string{errorStyle.Render(fit("Error: "+m.state.Err.Error(), w))}
	case m.state.Workbook == nil:
		return []string{placeholderStyle.Render("Select a file from the sidebar")}
	}

	sheet := m.state.Sheet()
	if sheet == nil || sheet.Rows() == 0 {
		return []string{placeholderStyle.Render("(empty sheet)")}
	}

	cols := visibleColumns(sheet, m.colLeft, w)
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = columnChars(sheet.ColWidths[m.colLeft+i])
	}

	header := []string{rowNumStyle.Render(fit("", rowNumWidth))}
	for i, wd := range widths {
		header = append(header, headerCellStyle.Render(fit(sheet.Headers[m.colLeft+i], wd)))
	}
	lines := []string{strings.Join(header, " ")}

	for r := m.rowTop; r < sheet.Rows() && len(lines) < h; r++ {
		cells := []string{rowNumStyle.Render(fit(fmt.Sprint(r+1), rowNumWidth))}
		for i, wd := range widths {
			c := m.colLeft + i
			text := fit(cellText(sheet.Cell(r, c)), wd)
			switch {
			case m.viewer.IsCurrentMatch(m.state.ActiveSheet, r, c):
				text = currentMatchStyle.Render(text)
			case m.viewer.IsMatch(m.state.ActiveSheet, r, c):
				text = matchStyle.Render(text)
			}
			cells = append(cells, text)
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func (m Model) viewStatus() string {
	bindings := m.keys.sidebarHelp()
	switch m.focus {
	case focusGrid:
		bindings = m.keys.gridHelp()
	case focusSearch:
		bindings = m.keys.searchHelp()
	case focusPrompt:
		bindings = m.keys.inputHelp()
	}
	line := m.help.ShortHelpView(bindings)
	if m.status != "" {
		line = statusStyle.Render(m.status) + "  " + line
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// columnChars converts a pixel width to terminal cells.
func columnChars(px float64) int {
	n := int(math.Round(px / parser.CharWidthPx))
	return min(max(n, minColWidth), maxColWidth)
}

// visibleColumns counts the columns from first that fit in width, at least one.
func visibleColumns(sheet *models.SheetData, first, width int) int {
	used := rowNumWidth
	n := 0
	for c := first; c < sheet.Cols() && c < len(sheet.ColWidths); c++ {
		used += 1 + columnChars(sheet.ColWidths[c])
		if used > width && n > 0 {
			break
		}
		n++
	}
	return n
}

func cellText(v models.CellValue) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(v.String())
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	b.WriteString("…")
	used++
	return b.String() + strings.Repeat(" ", max(w-used, 0))
}
