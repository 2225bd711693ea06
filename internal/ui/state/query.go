package state

import (
	"strings"
	"unicode"
)

// SetQuery updates the query and its caret. Starting a query remembers the
// cursor; clearing it puts the cursor back.
func (l *List) SetQuery(query string, caret int) {
	trimmed := strings.TrimSpace(query)
	wasFiltering := strings.TrimSpace(l.Query) != ""
	l.Query = query
	l.QueryCursor = clampInt(caret, 0, len([]rune(query)))

	switch {
	case trimmed != "" && !wasFiltering:
		l.LastCursor = l.Cursor
		l.Cursor = 0
	case trimmed != "":
		l.Cursor = 0
	}
	l.refilter()

	if trimmed != "" {
		if idx := BestMatchIndex(l.Items, trimmed); idx >= 0 {
			l.Cursor = idx
		}
		return
	}
	if wasFiltering {
		if l.LastCursor >= 0 && l.LastCursor < len(l.Items) {
			l.Cursor = l.LastCursor
		} else {
			l.Cursor = 0
		}
		l.LastCursor = -1
	}
}

func (l *List) refilter() {
	l.Items = FilterItems(l.Full, l.Query)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clampInt(l.Cursor, 0, len(l.Items)-1)
}

// QueryCaret returns the rune offset of the caret.
func (l *List) QueryCaret() int {
	return clampInt(l.QueryCursor, 0, len([]rune(l.Query)))
}

// InsertText inserts text at the caret.
func (l *List) InsertText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(l.Query)
	pos := l.QueryCaret()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	l.SetQuery(string(updated), pos+len(insert))
	return true
}

// DeleteRuneBackward removes the rune before the caret.
func (l *List) DeleteRuneBackward() bool {
	runes := []rune(l.Query)
	pos := l.QueryCaret()
	if pos == 0 {
		return false
	}
	l.SetQuery(string(runes[:pos-1])+string(runes[pos:]), pos-1)
	return true
}

// DeleteWordBackward removes the word before the caret.
func (l *List) DeleteWordBackward() bool {
	runes := []rune(l.Query)
	pos := l.QueryCaret()
	if pos == 0 {
		return false
	}
	start := wordStart(runes, pos)
	l.SetQuery(string(runes[:start])+string(runes[pos:]), start)
	return true
}

// MoveCaret moves the caret by delta runes.
func (l *List) MoveCaret(delta int) bool {
	pos := l.QueryCaret()
	next := clampInt(pos+delta, 0, len([]rune(l.Query)))
	if next == pos {
		return false
	}
	l.QueryCursor = next
	return true
}

// MoveCaretHome moves the caret to the start of the query.
func (l *List) MoveCaretHome() bool {
	return l.MoveCaret(-l.QueryCaret())
}

// MoveCaretEnd moves the caret past the last rune.
func (l *List) MoveCaretEnd() bool {
	return l.MoveCaret(len([]rune(l.Query)) - l.QueryCaret())
}

// MoveCaretWord jumps one word backward or forward.
func (l *List) MoveCaretWord(forward bool) bool {
	runes := []rune(l.Query)
	pos := l.QueryCaret()
	var next int
	if forward {
		next = wordEnd(runes, pos)
	} else {
		next = wordStart(runes, pos)
	}
	if next == pos {
		return false
	}
	l.QueryCursor = next
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

func wordEnd(runes []rune, pos int) int {
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
