package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/navshell/internal/format/table"
	"github.com/atomicstack/navshell/internal/navigation"
	"github.com/atomicstack/navshell/internal/overlay"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Mouse zone ids. Section, sub and tab zones are suffixed with the href.
const (
	zoneRail    = "rail"
	zoneSubRow  = "subrow"
	zoneSection = "section:"
	zoneSub     = "sub:"
	zoneTab     = "tab:"
)

const (
	defaultViewWidth   = 72
	defaultPanelHeight = 8
	minPanelHeight     = 3
	// rail, sub row, tab row, spacer and status line
	chromeRows = 5
)

const footerText = "←/→ section  ↑/↓ sub-section  [ ] tab  / jump  ? help  d details  r reload  q quit"

// View implements tea.Model.
func (m *Model) View() string {
	width := m.viewWidth()
	lines := []string{
		m.renderRail(),
		m.renderSubRow(),
		m.renderTabRow(),
		"",
		m.renderFeaturePanel(width, m.panelHeight()),
		m.renderStatus(),
	}
	if m.showFooter {
		lines = append(lines, "", m.fitLine(render(styles.Footer, footerText)))
	}
	background := m.zones.Scan(strings.Join(lines, "\n"))
	height := m.height
	if height <= 0 {
		height = lipgloss.Height(background)
	}
	m.mountOverlays(width, height)
	return m.host.Render(background, width, height)
}

func (m *Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultViewWidth
}

func (m *Model) panelHeight() int {
	if m.height <= 0 {
		return defaultPanelHeight
	}
	used := chromeRows
	if m.showFooter {
		used += 2
	}
	return max(m.height-used, minPanelHeight)
}

func (m *Model) renderRail() string {
	snap := m.snap
	if len(snap.Sections) == 0 {
		return m.zones.Mark(zoneRail, m.padLine(render(styles.Info, "(no navigation)")))
	}
	m.pillOffsets = make(map[string]int, len(snap.Sections))
	var b strings.Builder
	x := 0
	for i, s := range snap.Sections {
		if i > 0 {
			b.WriteString(" ")
			x++
		}
		style := styles.Pill
		switch s.Href {
		case snap.Path.Section:
			style = styles.PillActive
		case snap.Highlight.Pill:
			style = styles.PillHover
		}
		pill := render(style, s.Text)
		m.pillOffsets[s.Href] = x
		x += lipgloss.Width(pill)
		b.WriteString(m.zones.Mark(zoneSection+s.Href, pill))
	}
	return m.zones.Mark(zoneRail, m.padLine(b.String()))
}

func (m *Model) renderSubRow() string {
	snap := m.snap
	previewing := snap.PreviewSection() != snap.Path.Section
	parts := make([]string, 0, len(snap.Preview))
	for _, s := range snap.Preview {
		style := styles.Sub
		switch {
		case s.Href == snap.Highlight.Sub:
			style = styles.SubActive
		case previewing:
			style = styles.SubPreview
		}
		parts = append(parts, m.zones.Mark(zoneSub+s.Href, render(style, s.Text)))
	}
	return m.zones.Mark(zoneSubRow, m.padLine(strings.Join(parts, " ")))
}

func (m *Model) renderTabRow() string {
	snap := m.snap
	parts := make([]string, 0, len(snap.Tabs))
	for _, t := range snap.Tabs {
		style := styles.Tab
		if t.Href == snap.Highlight.Tab {
			style = styles.TabActive
		}
		parts = append(parts, m.zones.Mark(zoneTab+t.Href, render(style, t.Text)))
	}
	return m.fitLine(strings.Join(parts, " "))
}

// renderFeaturePanel draws the routed feature view: the locked triple in a
// bordered box exactly width columns by height rows.
func (m *Model) renderFeaturePanel(width, height int) string {
	snap := m.snap
	title := breadcrumb(snap)
	right := ""
	if snap.PreviewSection() != snap.Path.Section {
		right = " previewing " + snap.PreviewSection() + " "
	}
	var body []string
	switch {
	case len(snap.Sections) == 0:
		body = []string{"No navigation available."}
		if msg := m.fetchError(); msg != "" {
			body = append(body, "", "Last fetch failed: "+msg)
		}
	default:
		body = table.Format([][]string{
			{"section", orDash(snap.Path.Section)},
			{"sub-section", orDash(snap.Path.Sub)},
			{"tab", orDash(snap.Path.Tab)},
		}, nil)
		if len(snap.Tabs) > 0 {
			body = append(body, "", fmt.Sprintf("%d tabs under %s", len(snap.Tabs), snap.Path.Sub))
		}
	}
	return renderPanel(title, right, body, width, height)
}

func renderPanel(title, right string, body []string, totalWidth, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)
	innerW := max(totalWidth-2, 1)
	innerH := max(height-2, 1)

	titleSeg := " " + title + " "
	rightSeg := right
	dashes := totalWidth - 4 - lipgloss.Width(titleSeg) - lipgloss.Width(rightSeg)
	if dashes < 0 {
		rightSeg = ""
		dashes = totalWidth - 4 - lipgloss.Width(titleSeg)
	}
	if dashes < 0 {
		titleSeg = truncate.StringWithTail(titleSeg, uint(max(totalWidth-5, 1)), "…")
		dashes = totalWidth - 4 - lipgloss.Width(titleSeg)
	}
	dashes = max(dashes, 0)
	rows := make([]string, 0, height)
	rows = append(rows, render(styles.PanelBorder, tlc+hz)+
		render(styles.PanelTitle, titleSeg)+
		render(styles.PanelBorder, strings.Repeat(hz, dashes))+
		render(styles.Status, rightSeg)+
		render(styles.PanelBorder, hz+trc))
	for i := 0; i < innerH; i++ {
		content := ""
		if i < len(body) {
			content = body[i]
		}
		content = padTo(content, innerW)
		rows = append(rows, render(styles.PanelBorder, vt)+render(styles.PanelBody, content)+render(styles.PanelBorder, vt))
	}
	rows = append(rows, render(styles.PanelBorder, blc+strings.Repeat(hz, innerW)+brc))
	return strings.Join(rows, "\n")
}

func (m *Model) renderStatus() string {
	switch {
	case m.errMsg != "":
		return m.fitLine(render(styles.Error, "Error: "+m.errMsg))
	case m.fetchError() != "":
		return m.fitLine(render(styles.Error, "Navigation unavailable: "+m.fetchError()))
	}
	if info := m.currentInfo(); info != "" {
		return m.fitLine(render(styles.Info, info))
	}
	parts := []string{}
	if at := m.shell.Trees.FetchedAt(); !at.IsZero() {
		parts = append(parts, "updated "+at.Format("15:04:05"))
	}
	if m.snap.Pending {
		parts = append(parts, "settling…")
	}
	if n := m.externalBlockers(); n > 0 {
		parts = append(parts, fmt.Sprintf("blocked by %d external overlay(s)", n))
	}
	return m.fitLine(render(styles.Status, strings.Join(parts, " · ")))
}

// mountOverlays hands the content of every visible UI overlay to the host.
func (m *Model) mountOverlays(width, height int) {
	for _, name := range overlayOrder {
		if !m.overlayVisible(name) {
			continue
		}
		var layer overlay.Layer
		switch name {
		case overlayHelp:
			layer = m.helpLayer()
		case overlayDetails:
			layer = m.detailsLayer(width, height)
		case overlayPalette:
			layer = m.paletteLayer(width)
		case overlayTooltip:
			layer = m.tooltipLayer()
		}
		m.host.Mount(m.overlays[name].ID(), layer)
	}
}

func (m *Model) helpLayer() overlay.Layer {
	rows := table.Format([][]string{
		{"←/→  h/l", "previous / next section"},
		{"↑/↓  k/j", "previous / next sub-section"},
		{"[  ]", "previous / next tab"},
		{"/", "jump to any location"},
		{"d", "details"},
		{"r", "reload navigation"},
		{"tab", "move focus inside a dialog"},
		{"esc", "close the dialog"},
		{"q", "quit"},
	}, nil)
	lines := append([]string{render(styles.PanelTitle, "Keys"), ""}, rows...)
	lines = append(lines, "", m.button(focusHelpClose, "Close"))
	return overlay.Layer{
		View:      render(styles.Modal, strings.Join(lines, "\n")),
		Placement: overlay.Placement{},
	}
}

func (m *Model) detailsLayer(width, height int) overlay.Layer {
	snap := m.snap
	counts := m.reg.Counts()
	fetched := "never"
	trees := m.shell.Trees
	if at := trees.FetchedAt(); !at.IsZero() {
		fetched = fmt.Sprintf("%s (%d fetches)", at.Format(time.RFC3339), trees.Fetches())
	}
	rows := table.Format([][]string{
		{"section", orDash(snap.Path.Section)},
		{"sub-section", orDash(snap.Path.Sub)},
		{"tab", orDash(snap.Path.Tab)},
		{"hover", orDash(snap.View.HoverSectionHref)},
		{"in sub row", fmt.Sprintf("%t", snap.View.PointerInSubRow)},
		{"grace", fmt.Sprintf("%s pending=%t", m.nav.Grace(), snap.Pending)},
		{"overlays", fmt.Sprintf("%d modal, %d drawer, %d popover, %d tooltip", counts.Modal, counts.Drawer, counts.Popover, counts.Tooltip)},
		{"bridges", orDash(strings.Join(m.shell.Bridge.Sources(), ", "))},
		{"fetched", fetched},
		{"fetch error", orDash(m.fetchError())},
	}, nil)
	lines := append([]string{render(styles.PanelTitle, "Details"), ""}, rows...)
	lines = append(lines, "", m.button(focusDetailsReload, "Reload")+" "+m.button(focusDetailsClose, "Close"))
	drawerW := min(max(width/2, 40), width)
	return overlay.Layer{
		View: render(styles.Drawer, strings.Join(lines, "\n")),
		Placement: overlay.Placement{
			Horizontal: overlay.AlignEnd,
			Vertical:   overlay.AlignStart,
			Width:      drawerW,
			Height:     height,
		},
	}
}

func (m *Model) paletteLayer(width int) overlay.Layer {
	p := m.palette
	innerW := min(60, max(width-6, 10))
	lines := []string{m.filterPrompt(), ""}
	if len(p.Items) == 0 {
		msg := "(no locations)"
		if p.Query != "" {
			msg = fmt.Sprintf("No matches for %q", p.Query)
		}
		lines = append(lines, render(styles.Info, msg))
	}
	visible, start := p.Visible(paletteMaxItems)
	for i, item := range visible {
		label := strings.Repeat("  ", item.Depth) + item.Label
		text := label + "  " + render(styles.ItemDetail, item.Detail)
		if lipgloss.Width(text) > innerW-2 {
			text = truncate.StringWithTail(text, uint(innerW-3), "…")
		}
		if start+i == p.Cursor {
			lines = append(lines, render(styles.SelectedItem, "▌ "+padTo(text, innerW-2)))
		} else {
			lines = append(lines, render(styles.Item, "  "+text))
		}
	}
	return overlay.Layer{
		View: render(styles.Popover, strings.Join(lines, "\n")),
		Placement: overlay.Placement{
			Vertical: overlay.AlignStart,
			MarginY:  2,
		},
	}
}

func (m *Model) tooltipLayer() overlay.Layer {
	return overlay.Layer{
		View: render(styles.Tooltip, m.tooltipHref),
		Placement: overlay.Placement{
			Horizontal: overlay.AlignStart,
			Vertical:   overlay.AlignStart,
			MarginX:    m.pillOffsets[m.tooltipHref],
			MarginY:    1,
		},
	}
}

func (m *Model) button(element, label string) string {
	text := "[ " + label + " ]"
	if m.host.Focused() == element {
		return render(styles.Focused, text)
	}
	return text
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.palette.EnsureCursorVisible(paletteMaxItems)
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

// fitLine truncates an already styled line to the view width.
func (m *Model) fitLine(s string) string {
	width := m.viewWidth()
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width-1), "…")
}

// padLine fits s to the view width and pads it so the whole row is a
// pointer target.
func (m *Model) padLine(s string) string {
	return padTo(m.fitLine(s), m.viewWidth())
}

func padTo(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return truncate.StringWithTail(s, uint(max(width-1, 0)), "…")
	}
	return s + strings.Repeat(" ", width-w)
}

func breadcrumb(snap navigation.Snapshot) string {
	parts := []string{}
	for _, s := range snap.Sections {
		if s.Href == snap.Path.Section {
			parts = append(parts, s.Text)
		}
	}
	for _, s := range snap.Subs {
		if s.Href == snap.Path.Sub {
			parts = append(parts, s.Text)
		}
	}
	for _, t := range snap.Tabs {
		if t.Href == snap.Path.Tab {
			parts = append(parts, t.Text)
		}
	}
	if len(parts) == 0 {
		return "navshell"
	}
	return strings.Join(parts, " › ")
}

func render(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
