package ui

import (
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/overlay"
)

// Overlays owned by the UI. External surfaces reach the registry through the
// bridge instead.
const (
	overlayHelp    = "help"
	overlayDetails = "details"
	overlayPalette = "palette"
	overlayTooltip = "tooltip"
)

// Focusable elements inside the blocking overlays.
const (
	focusHelpClose     = "help:close"
	focusDetailsReload = "details:reload"
	focusDetailsClose  = "details:close"
)

// overlayOrder is the registration order, bottom to top.
var overlayOrder = []string{overlayTooltip, overlayPalette, overlayDetails, overlayHelp}

var overlayKinds = map[string]overlay.Kind{
	overlayHelp:    overlay.KindModal,
	overlayDetails: overlay.KindDrawer,
	overlayPalette: overlay.KindPopover,
	overlayTooltip: overlay.KindTooltip,
}

var overlayFocusables = map[string][]string{
	overlayHelp:    {focusHelpClose},
	overlayDetails: {focusDetailsReload, focusDetailsClose},
}

func (m *Model) attachOverlays() {
	m.overlays = make(map[string]*overlay.Handle, len(overlayKinds))
	for _, name := range overlayOrder {
		h := m.reg.Attach(overlayKinds[name], false)
		m.overlays[name] = h
		if elems := overlayFocusables[name]; len(elems) > 0 {
			m.host.SetFocusables(h.ID(), elems)
		}
	}
}

func (m *Model) overlayVisible(name string) bool {
	h, ok := m.overlays[name]
	if !ok {
		return false
	}
	entry, live := m.reg.Entry(h.ID())
	return live && entry.Visible
}

func (m *Model) openOverlay(name string) {
	h, ok := m.overlays[name]
	if !ok || m.overlayVisible(name) {
		return
	}
	h.SetVisible(true)
	events.UI.OverlayOpen(name)
}

func (m *Model) closeOverlay(name string) {
	h, ok := m.overlays[name]
	if !ok || !m.overlayVisible(name) {
		return
	}
	h.SetVisible(false)
	m.host.Unmount(h.ID())
	events.UI.OverlayClose(name)
}

func (m *Model) paletteOpen() bool {
	return m.overlayVisible(overlayPalette)
}

// topmostBlocking returns the UI-owned modal or drawer drawn above the
// others, if any.
func (m *Model) topmostBlocking() (string, bool) {
	entries := m.reg.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !entry.Visible || !entry.Kind.Blocking() {
			continue
		}
		for name, h := range m.overlays {
			if h.ID() == entry.ID {
				return name, true
			}
		}
	}
	return "", false
}

// externalBlockers counts visible blocking entries the UI did not register.
func (m *Model) externalBlockers() int {
	owned := make(map[overlay.ID]bool, len(m.overlays))
	for _, h := range m.overlays {
		owned[h.ID()] = true
	}
	n := 0
	for _, entry := range m.reg.Entries() {
		if entry.Visible && entry.Kind.Blocking() && !owned[entry.ID] {
			n++
		}
	}
	return n
}

func (m *Model) openPalette() {
	m.palette.SetItems(paletteItems(m.nav.Tree()))
	m.palette.Reset()
	if idx := m.palette.IndexOf(m.snap.Path.Tab); idx >= 0 {
		m.palette.Cursor = idx
	} else if idx := m.palette.IndexOf(m.snap.Path.Sub); idx >= 0 {
		m.palette.Cursor = idx
	}
	m.filterCursorDirty = true
	m.openOverlay(overlayPalette)
}

// setTooltip shows the href of the hovered section, or hides the tooltip
// when href is empty.
func (m *Model) setTooltip(href string) {
	if href == m.tooltipHref {
		return
	}
	m.tooltipHref = href
	if href == "" {
		m.closeOverlay(overlayTooltip)
		return
	}
	m.openOverlay(overlayTooltip)
}
