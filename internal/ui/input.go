package ui

import (
	"unicode"

	"github.com/atomicstack/navshell/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const paletteMaxItems = 10

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(before int) {
	if before != m.palette.QueryCaret() {
		m.filterCursorDirty = true
	}
}

// handlePaletteKey owns the keyboard while the jump palette is open.
func (m *Model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	p := m.palette
	switch msg.String() {
	case "esc":
		m.closeOverlay(overlayPalette)
		return nil
	case "enter":
		item, ok := p.Current()
		m.closeOverlay(overlayPalette)
		if !ok {
			return nil
		}
		return m.navigateCmd(item.ID)
	case "up", "ctrl+p":
		p.MoveCursor(-1)
	case "down", "ctrl+n":
		p.MoveCursor(1)
	case "pgup":
		p.MoveCursorPage(-1, paletteMaxItems)
	case "pgdown":
		p.MoveCursorPage(1, paletteMaxItems)
	case "home":
		p.MoveCursorHome()
	case "end":
		p.MoveCursorEnd()
	default:
		m.handleTextInput(msg)
		return nil
	}
	p.EnsureCursorVisible(paletteMaxItems)
	events.UI.PaletteCursor(p.Cursor)
	return nil
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	p := m.palette
	before := p.QueryCaret()
	changed := false
	switch msg.String() {
	case "ctrl+u":
		if p.Query == "" {
			return false
		}
		p.SetQuery("", 0)
		m.noteFilterCursorChange(before)
		events.Filter.Cleared()
		p.EnsureCursorVisible(paletteMaxItems)
		return true
	case "ctrl+w":
		changed = p.DeleteWordBackward()
	case "ctrl+a":
		m.noteMove(p.MoveCaretHome(), before)
		return false
	case "ctrl+e":
		m.noteMove(p.MoveCaretEnd(), before)
		return false
	case "alt+b":
		m.noteMove(p.MoveCaretWord(false), before)
		return false
	case "alt+f":
		m.noteMove(p.MoveCaretWord(true), before)
		return false
	}
	if !changed {
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyCtrlH:
			changed = p.DeleteRuneBackward()
		case tea.KeyRunes:
			if msg.Alt || len(msg.Runes) == 0 {
				return false
			}
			for _, r := range msg.Runes {
				if unicode.IsControl(r) {
					return false
				}
			}
			changed = p.InsertText(string(msg.Runes))
		case tea.KeySpace:
			changed = p.InsertText(" ")
		case tea.KeyLeft:
			m.noteMove(p.MoveCaret(-1), before)
			return false
		case tea.KeyRight:
			m.noteMove(p.MoveCaret(1), before)
			return false
		}
	}
	if !changed {
		return false
	}
	m.noteFilterCursorChange(before)
	p.EnsureCursorVisible(paletteMaxItems)
	events.Filter.Changed(p.Query, len(p.Items))
	return true
}

func (m *Model) noteMove(moved bool, before int) {
	if moved {
		m.noteFilterCursorChange(before)
	}
}

func (m *Model) filterPrompt() string {
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := m.palette.Query
	if text == "" {
		placeholder := []rune("(jump to…)")
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(placeholder[0]))
		return prompt + caret + render(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	runes := []rune(text)
	pos := m.palette.QueryCaret()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
