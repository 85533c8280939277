package tui

import "github.com/charmbracelet/lipgloss"

const (
	sidebarWidth = 32
	minColWidth  = 4
	maxColWidth  = 40
	rowNumWidth  = 6
)

var (
	accent  = lipgloss.Color("39")
	muted   = lipgloss.Color("245")
	danger  = lipgloss.Color("196")
	matchBg = lipgloss.Color("228")
	curBg   = lipgloss.Color("208")

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(muted)
	folderStyle       = lipgloss.NewStyle().Bold(true)
	fileStyle         = lipgloss.NewStyle().PaddingLeft(2)
	sizeStyle         = lipgloss.NewStyle().Foreground(muted)
	cursorStyle       = lipgloss.NewStyle().Reverse(true)
	openFileStyle     = lipgloss.NewStyle().Foreground(accent)
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(accent)
	tabStyle          = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	activeTabStyle    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent)
	headerCellStyle   = lipgloss.NewStyle().Bold(true).Foreground(muted)
	rowNumStyle       = lipgloss.NewStyle().Foreground(muted)
	matchStyle        = lipgloss.NewStyle().Background(matchBg).Foreground(lipgloss.Color("0"))
	currentMatchStyle = lipgloss.NewStyle().Background(curBg).Foreground(lipgloss.Color("0")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(danger).Bold(true)
	placeholderStyle  = lipgloss.NewStyle().Foreground(muted).Italic(true)
	statusStyle       = lipgloss.NewStyle().Foreground(muted)
)
