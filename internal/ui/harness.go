package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model. The filter cursor is
// made static so no command waits on a blink timer.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.filterCursor.SetMode(cursor.CursorStatic)
	}
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Key sends a key press the way Bubble Tea would deliver it.
func (h *Harness) Key(key string) {
	switch key {
	case "enter":
		h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		h.Send(tea.KeyMsg{Type: tea.KeyTab})
	case "shift+tab":
		h.Send(tea.KeyMsg{Type: tea.KeyShiftTab})
	case "up":
		h.Send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		h.Send(tea.KeyMsg{Type: tea.KeyDown})
	case "left":
		h.Send(tea.KeyMsg{Type: tea.KeyLeft})
	case "right":
		h.Send(tea.KeyMsg{Type: tea.KeyRight})
	case "backspace":
		h.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	case "ctrl+c":
		h.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	default:
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				h.processCmd(c)
			}
			return
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
		mdl, next := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		cmd = next
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
