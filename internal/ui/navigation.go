package ui

import (
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// pointerTarget is what sits under the pointer after a mouse event.
type pointerTarget struct {
	Rail    bool
	Section string
	SubRow  bool
	Sub     string
	Tab     string
}

type navigateResultMsg struct {
	href  string
	found bool
}

type reloadRequestedMsg struct {
	queued bool
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	m.clearInfo()
	if m.host.Locked() {
		return m.handleLockedKey(key)
	}
	if m.paletteOpen() {
		return m.handlePaletteKey(keyMsg)
	}
	events.UI.Key(key, false)
	switch key {
	case "q", "esc":
		return tea.Quit
	case "left", "h":
		m.stepSection(-1)
	case "right", "l":
		m.stepSection(1)
	case "up", "k":
		m.stepSub(-1)
	case "down", "j":
		m.stepSub(1)
	case "[":
		m.stepTab(-1)
	case "]":
		m.stepTab(1)
	case "/":
		m.openPalette()
	case "?":
		m.openOverlay(overlayHelp)
	case "d":
		m.openOverlay(overlayDetails)
	case "r":
		return m.reloadCmd()
	}
	return nil
}

// handleLockedKey serves the keys that still work while a modal or drawer
// blocks the page: focus cycling, activation and closing.
func (m *Model) handleLockedKey(key string) tea.Cmd {
	switch key {
	case "tab":
		m.host.CycleFocus(true)
		return nil
	case "shift+tab":
		m.host.CycleFocus(false)
		return nil
	case "enter", " ":
		return m.activate(m.host.Focused())
	case "esc":
		if name, ok := m.topmostBlocking(); ok {
			m.closeOverlay(name)
			return nil
		}
	case "?":
		if name, ok := m.topmostBlocking(); ok && name == overlayHelp {
			m.closeOverlay(overlayHelp)
			return nil
		}
	case "d":
		if name, ok := m.topmostBlocking(); ok && name == overlayDetails {
			m.closeOverlay(overlayDetails)
			return nil
		}
	}
	events.UI.Key(key, true)
	return nil
}

func (m *Model) activate(element string) tea.Cmd {
	switch element {
	case focusHelpClose:
		m.closeOverlay(overlayHelp)
	case focusDetailsClose:
		m.closeOverlay(overlayDetails)
	case focusDetailsReload:
		return m.reloadCmd()
	}
	return nil
}

func (m *Model) stepSection(delta int) {
	sections := m.snap.Sections
	if len(sections) == 0 {
		return
	}
	idx := 0
	for i, s := range sections {
		if s.Href == m.snap.Path.Section {
			idx = wrapIndex(i+delta, len(sections))
			break
		}
	}
	m.nav.ClickSection(sections[idx].Href)
}

func (m *Model) stepSub(delta int) {
	subs := m.snap.Subs
	if len(subs) == 0 {
		return
	}
	idx := 0
	for i, s := range subs {
		if s.Href == m.snap.Path.Sub {
			idx = wrapIndex(i+delta, len(subs))
			break
		}
	}
	m.nav.ClickSub(subs[idx].Href)
}

func (m *Model) stepTab(delta int) {
	tabs := m.snap.Tabs
	if len(tabs) == 0 {
		return
	}
	idx := 0
	for i, t := range tabs {
		if t.Href == m.snap.Path.Tab {
			idx = wrapIndex(i+delta, len(tabs))
			break
		}
	}
	m.nav.ClickTab(tabs[idx].Href)
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

func (m *Model) reloadCmd() tea.Cmd {
	w := m.backend
	return m.bus.Execute(command.Request{
		ID:    "reload",
		Label: "reload navigation",
		Handler: func() tea.Msg {
			if w == nil {
				return reloadRequestedMsg{}
			}
			w.Reload()
			return reloadRequestedMsg{queued: true}
		},
	})
}

func (m *Model) navigateCmd(href string) tea.Cmd {
	nav := m.nav
	return m.bus.Execute(command.Request{
		ID:    "navigate",
		Label: href,
		Handler: func() tea.Msg {
			return navigateResultMsg{href: href, found: nav.Navigate(href)}
		},
	})
}

func (m *Model) handleNavigateResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(navigateResultMsg)
	if !ok {
		return nil
	}
	if !res.found {
		m.setInfo("No navigation entry for " + res.href)
	}
	return nil
}

func (m *Model) handleReloadRequestedMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(reloadRequestedMsg)
	if !ok {
		return nil
	}
	if res.queued {
		m.setInfo("Reloading navigation…")
	} else {
		m.setInfo("No navigation source to reload")
	}
	return nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if ev.Button == tea.MouseButtonWheelUp || ev.Button == tea.MouseButtonWheelDown {
		m.handleWheel(ev.Button == tea.MouseButtonWheelDown)
		return nil
	}
	if m.host.Locked() {
		return nil
	}
	target := m.hitTest(ev)
	if target.Section != "" && target.Section != m.pointer.Section {
		events.UI.Pointer(zoneSection+target.Section, ev.X, ev.Y)
	}
	m.pointerMoved(target)
	if ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft {
		m.pointerClicked(target)
	}
	return nil
}

// handleWheel scrolls the palette list, or steps through the sub-sections
// of the locked section. Blocking overlays suppress it.
func (m *Model) handleWheel(down bool) {
	if m.host.ScrollSuppressed() {
		return
	}
	delta := -1
	if down {
		delta = 1
	}
	if m.paletteOpen() {
		m.palette.MoveCursor(delta)
		m.palette.EnsureCursorVisible(paletteMaxItems)
		return
	}
	m.stepSub(delta)
}

func (m *Model) hitTest(ev tea.MouseMsg) pointerTarget {
	t := pointerTarget{
		Rail:   m.zones.Get(zoneRail).InBounds(ev),
		SubRow: m.zones.Get(zoneSubRow).InBounds(ev),
	}
	if t.Rail {
		for _, s := range m.snap.Sections {
			if m.zones.Get(zoneSection + s.Href).InBounds(ev) {
				t.Section = s.Href
				break
			}
		}
	}
	if t.SubRow {
		for _, s := range m.snap.Preview {
			if m.zones.Get(zoneSub + s.Href).InBounds(ev) {
				t.Sub = s.Href
				break
			}
		}
	}
	for _, tab := range m.snap.Tabs {
		if m.zones.Get(zoneTab + tab.Href).InBounds(ev) {
			t.Tab = tab.Href
			break
		}
	}
	return t
}

// pointerMoved turns the difference between the previous and the current
// pointer target into coordinator events. Leaves go first so that moving
// from the rail straight into the sub row cancels the timer the leave armed.
func (m *Model) pointerMoved(t pointerTarget) {
	prev := m.pointer
	m.pointer = t
	if prev.SubRow && !t.SubRow {
		m.nav.PointerLeaveSubRow()
	}
	if prev.Rail && !t.Rail {
		m.nav.PointerLeaveRail()
	}
	if t.SubRow && !prev.SubRow {
		m.nav.PointerEnterSubRow()
	}
	if t.Section != "" && t.Section != prev.Section {
		m.nav.PointerEnterSection(t.Section)
	}
	m.setTooltip(t.Section)
}

func (m *Model) pointerClicked(t pointerTarget) {
	switch {
	case t.Tab != "":
		m.nav.ClickTab(t.Tab)
	case t.Sub != "":
		m.nav.ClickSub(t.Sub)
	case t.Section != "":
		m.nav.ClickSection(t.Section)
	}
}
