package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Rail              *lipgloss.Style
	Pill              *lipgloss.Style
	PillHover         *lipgloss.Style
	PillActive        *lipgloss.Style
	Sub               *lipgloss.Style
	SubActive         *lipgloss.Style
	SubPreview        *lipgloss.Style
	Tab               *lipgloss.Style
	TabActive         *lipgloss.Style
	PanelBorder       *lipgloss.Style
	PanelTitle        *lipgloss.Style
	PanelBody         *lipgloss.Style
	Modal             *lipgloss.Style
	Drawer            *lipgloss.Style
	Popover           *lipgloss.Style
	Tooltip           *lipgloss.Style
	Backdrop          *lipgloss.Style
	Focused           *lipgloss.Style
	Item              *lipgloss.Style
	SelectedItem      *lipgloss.Style
	ItemDetail        *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Status            *lipgloss.Style
	Footer            *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
}

var defaultStyles = Styles{
	Rail: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Pill: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Padding(0, 1),
	),
	PillHover: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("236")).Padding(0, 1),
	),
	PillActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true).Padding(0, 1),
	),
	Sub: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Padding(0, 1),
	),
	SubActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true).Underline(true).Padding(0, 1),
	),
	SubPreview: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true).Padding(0, 1),
	),
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
	),
	TabActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("250")).Padding(0, 1),
	),
	PanelBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PanelBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Modal: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 2),
	),
	Drawer: ptr(
		lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
	),
	Popover: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("34")).Padding(0, 1),
	),
	Tooltip: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229")).Padding(0, 1),
	),
	Backdrop: ptr(
		lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("240")),
	),
	Focused: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	ItemDetail: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
