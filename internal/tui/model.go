// Package tui is the interactive terminal front end: a folder sidebar, sheet
// tabs, a search bar and the cell grid of the open workbook.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/ukaji3/xlview-go/pkg/xlview/viewer"
)

type focus int

const (
	focusSidebar focus = iota
	focusGrid
	focusSearch
	focusPrompt
)

// stateMsg reports a viewer change made outside Update.
type stateMsg struct{}

type refreshedMsg struct{ files int }

type fileLoadedMsg struct {
	path string
	err  error
}

type openedMsg struct {
	path string
	err  error
}

type folderMsg struct {
	path    string
	added   bool
	changed bool
}

type itemKind int

const (
	itemFolder itemKind = iota
	itemFile
)

type sidebarItem struct {
	kind   itemKind
	folder string
	// paths holds the registered folders shown under this name.
	paths []string
	count int
	file  models.ExcelFile
}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	viewer *viewer.Viewer
	keys   keyMap
	help   help.Model

	state  viewer.State
	items  []sidebarItem
	cursor int
	top    int

	rowTop  int
	colLeft int

	focus  focus
	search textinput.Model
	prompt textinput.Model

	width  int
	height int
	status string
}

// New creates the model for v. ctx bounds the work started from the UI.
func New(ctx context.Context, v *viewer.Viewer) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search..."

	prompt := textinput.New()
	prompt.Prompt = "Add folder: "
	prompt.Placeholder = "/path/to/folder"

	m := Model{
		ctx:    ctx,
		viewer: v,
		keys:   defaultKeys(),
		help:   help.New(),
		search: search,
		prompt: prompt,
	}
	m.sync()
	return m
}

// Init triggers the first catalog scan.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m Model) refreshCmd() tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		return refreshedMsg{files: len(v.Refresh(ctx))}
	}
}

func (m Model) selectCmd(f models.ExcelFile) tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		return fileLoadedMsg{path: f.Path, err: v.SelectFile(ctx, f)}
	}
}

func (m Model) openCmd(path string) tea.Cmd {
	v := m.viewer
	return func() tea.Msg {
		return openedMsg{path: path, err: v.OpenExternal(path)}
	}
}

func (m Model) addFolderCmd(path string) tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		return folderMsg{path: path, added: true, changed: v.AddFolder(ctx, path)}
	}
}

func (m Model) removeFolderCmd(paths []string) tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		changed := false
		for _, p := range paths {
			changed = v.RemoveFolder(ctx, p) || changed
		}
		return folderMsg{path: strings.Join(paths, ", "), changed: changed}
	}
}

// sync reloads the viewer state and rebuilds the sidebar.
func (m *Model) sync() {
	prevSheet := m.state.ActiveSheet
	prevPath := m.state.SelectedPath
	m.state = m.viewer.Snapshot()
	if m.search.Value() != m.state.Query {
		m.search.SetValue(m.state.Query)
	}
	m.items = buildItems(m.state)
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
	if m.state.ActiveSheet != prevSheet || m.state.SelectedPath != prevPath {
		m.rowTop, m.colLeft = 0, 0
	}
	m.clampScroll()
}

// buildItems lays out folder headers, each followed by its files when
// expanded. Registered folders without files are listed after the rest.
func buildItems(st viewer.State) []sidebarItem {
	paths := make(map[string][]string)
	for _, p := range st.Folders {
		name := catalog.FolderName(p)
		paths[name] = append(paths[name], p)
	}

	expanded := func(name string) bool {
		e, ok := st.Expanded[name]
		return !ok || e
	}

	var items []sidebarItem
	seen := make(map[string]bool)
	for _, g := range catalog.Group(st.Files) {
		seen[g.Folder] = true
		items = append(items, sidebarItem{kind: itemFolder, folder: g.Folder, paths: paths[g.Folder], count: len(g.Files)})
		if !expanded(g.Folder) {
			continue
		}
		for _, f := range g.Files {
			items = append(items, sidebarItem{kind: itemFile, folder: g.Folder, file: f})
		}
	}
	for _, p := range st.Folders {
		name := catalog.FolderName(p)
		if seen[name] {
			continue
		}
		seen[name] = true
		items = append(items, sidebarItem{kind: itemFolder, folder: name, paths: paths[name]})
	}
	return items
}

func (m Model) current() (sidebarItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return sidebarItem{}, false
	}
	return m.items[m.cursor], true
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(m.mainWidth()-20, 10)
		m.prompt.Width = max(m.mainWidth()-20, 10)
		m.clampScroll()
		return m, nil

	case stateMsg:
		m.sync()
		return m, nil

	case refreshedMsg:
		m.sync()
		m.status = fmt.Sprintf("%d files", msg.files)
		return m, nil

	case fileLoadedMsg:
		m.sync()
		if msg.path != m.state.SelectedPath {
			return m, nil
		}
		if msg.err != nil {
			m.status = "could not read " + filepath.Base(msg.path)
		} else {
			m.status = filepath.Base(msg.path)
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.status = "could not open " + filepath.Base(msg.path)
		} else {
			m.status = "opened " + filepath.Base(msg.path)
		}
		return m, nil

	case folderMsg:
		m.sync()
		switch {
		case !msg.changed && msg.added:
			m.status = "already registered: " + msg.path
		case msg.added:
			m.status = "added " + msg.path
		case msg.changed:
			m.status = "removed " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusPrompt:
			return m.updatePrompt(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search.Blur()
		m.focus = focusGrid
		return m, nil
	case "enter", "down", "ctrl+n":
		m.viewer.Next()
		m.afterSearchMove()
		return m, nil
	case "up", "ctrl+p":
		m.viewer.Prev()
		m.afterSearchMove()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.viewer.SetQuery(q)
		m.afterSearchMove()
	}
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.prompt.Blur()
		m.prompt.Reset()
		m.focus = focusSidebar
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.prompt.Value())
		m.prompt.Blur()
		m.prompt.Reset()
		m.focus = focusSidebar
		if path == "" {
			return m, nil
		}
		return m, m.addFolderCmd(path)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Focus):
		if m.focus == focusSidebar {
			m.focus = focusGrid
		} else {
			m.focus = focusSidebar
		}
		return m, nil
	case key.Matches(msg, k.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, k.AddFolder):
		m.focus = focusPrompt
		return m, m.prompt.Focus()
	case key.Matches(msg, k.Refresh):
		m.status = "refreshing..."
		return m, m.refreshCmd()
	case key.Matches(msg, k.Next):
		m.viewer.Next()
		m.afterSearchMove()
		return m, nil
	case key.Matches(msg, k.Prev):
		m.viewer.Prev()
		m.afterSearchMove()
		return m, nil
	case key.Matches(msg, k.PrevSheet):
		m.viewer.SetActiveSheet(m.state.ActiveSheet - 1)
		m.sync()
		return m, nil
	case key.Matches(msg, k.NextSheet):
		m.viewer.SetActiveSheet(m.state.ActiveSheet + 1)
		m.sync()
		return m, nil
	case key.Matches(msg, k.Open):
		path := m.state.SelectedPath
		if item, ok := m.current(); ok && m.focus == focusSidebar && item.kind == itemFile {
			path = item.file.Path
		}
		if path == "" {
			return m, nil
		}
		return m, m.openCmd(path)
	}

	if r := msg.Runes; msg.Type == tea.KeyRunes && len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
		m.viewer.SetActiveSheet(int(r[0] - '1'))
		m.sync()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.updateSidebar(msg)
	}
	return m.updateGrid(msg), nil
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Top):
		m.cursor = 0
	case key.Matches(msg, k.Bottom):
		m.cursor = max(len(m.items)-1, 0)
	case key.Matches(msg, k.Select):
		item, ok := m.current()
		if !ok {
			return m, nil
		}
		if item.kind == itemFolder {
			m.viewer.ToggleFolder(item.folder)
			m.sync()
			return m, nil
		}
		m.status = "loading " + item.file.Name
		return m, m.selectCmd(item.file)
	case key.Matches(msg, k.Remove):
		item, ok := m.current()
		if !ok || item.kind != itemFolder || len(item.paths) == 0 {
			return m, nil
		}
		return m, m.removeFolderCmd(item.paths)
	}
	m.keepCursorVisible()
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) Model {
	k := m.keys
	page := max(m.gridRows()-1, 1)
	switch {
	case key.Matches(msg, k.Up):
		m.rowTop--
	case key.Matches(msg, k.Down):
		m.rowTop++
	case key.Matches(msg, k.Left):
		m.colLeft--
	case key.Matches(msg, k.Right):
		m.colLeft++
	case key.Matches(msg, k.PageUp):
		m.rowTop -= page
	case key.Matches(msg, k.PageDown):
		m.rowTop += page
	case key.Matches(msg, k.Top):
		m.rowTop = 0
	case key.Matches(msg, k.Bottom):
		if sheet := m.state.Sheet(); sheet != nil {
			m.rowTop = sheet.Rows()
		}
	}
	m.clampScroll()
	return m
}

// afterSearchMove syncs state and scrolls the current match into view.
func (m *Model) afterSearchMove() {
	m.sync()
	match, ok := m.viewer.CurrentMatch()
	if !ok || match.SheetIndex != m.state.ActiveSheet {
		return
	}
	m.rowTop = match.Row - m.gridRows()/2
	if sheet := m.state.Sheet(); sheet != nil {
		if match.Col < m.colLeft || match.Col >= m.colLeft+visibleColumns(sheet, m.colLeft, m.mainWidth()) {
			m.colLeft = match.Col
		}
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	sheet := m.state.Sheet()
	if sheet == nil {
		m.rowTop, m.colLeft = 0, 0
		return
	}
	maxTop := max(sheet.Rows()-m.gridRows(), 0)
	m.rowTop = min(max(m.rowTop, 0), maxTop)
	m.colLeft = min(max(m.colLeft, 0), max(sheet.Cols()-1, 0))
}

func (m *Model) keepCursorVisible() {
	h := m.bodyHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
}

// Layout: one status line under a body of sidebar and main pane. The main
// pane spends three lines on title, tabs and search above the grid, and the
// grid spends one more on its header.
func (m Model) bodyHeight() int { return max(m.height-1, 0) }

func (m Model) mainWidth() int { return max(m.width-sidebarWidth-1, 0) }

func (m Model) gridRows() int { return max(m.bodyHeight()-4, 1) }
