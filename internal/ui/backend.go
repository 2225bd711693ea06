package ui

import (
	"github.com/atomicstack/navshell/internal/backend"
	"github.com/atomicstack/navshell/internal/navtree"
	uistate "github.com/atomicstack/navshell/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent hands a fetched tree to the coordinator and the tree
// store through the dispatcher and refreshes everything derived from it.
func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatcher.Handle(evt)
	m.palette.SetItems(paletteItems(m.nav.Tree()))
	m.palette.EnsureCursorVisible(paletteMaxItems)
	if m.tooltipHref != "" && !m.nav.Tree().HasSection(m.tooltipHref) {
		m.setTooltip("")
	}
	if m.start != "" && res.Sections > 0 {
		start := m.start
		m.start = ""
		if !m.nav.Navigate(start) {
			m.setInfo("No navigation entry for " + start)
		}
	}
}

// fetchError is the last fetch failure from the tree store, or "".
func (m *Model) fetchError() string {
	if err := m.shell.Trees.Err(); err != nil {
		return err.Error()
	}
	return ""
}

func paletteItems(tree *navtree.Model) []uistate.Item {
	links := tree.Links()
	items := make([]uistate.Item, 0, len(links))
	for _, link := range links {
		items = append(items, uistate.Item{ID: link.Href, Label: link.Text, Detail: link.Href, Depth: link.Depth})
	}
	return items
}
