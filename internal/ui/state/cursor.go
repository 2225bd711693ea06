package state

// MoveCursor moves the cursor by delta, wrapping at either end.
func (l *List) MoveCursor(delta int) bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = ((l.Cursor+delta)%n + n) % n
	return old != l.Cursor
}

// MoveCursorHome moves the cursor to the first item.
func (l *List) MoveCursorHome() bool {
	return l.jump(0)
}

// MoveCursorEnd moves the cursor to the last item.
func (l *List) MoveCursorEnd() bool {
	return l.jump(len(l.Items) - 1)
}

// MoveCursorPage moves a page up (negative) or down without wrapping.
func (l *List) MoveCursorPage(pages, maxVisible int) bool {
	size := maxVisible
	if size <= 0 || size > len(l.Items) {
		size = len(l.Items)
	}
	return l.jump(l.Cursor + pages*size)
}

func (l *List) jump(target int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clampInt(target, 0, len(l.Items)-1)
	return old != l.Cursor
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays on
// screen.
func (l *List) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clampInt(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.ViewportOffset = clampInt(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor > l.ViewportOffset+maxVisible-1 {
		l.ViewportOffset = clampInt(l.Cursor-maxVisible+1, 0, maxOffset)
	}
}

// Visible returns the slice of items inside the viewport and the index of
// its first element.
func (l *List) Visible(maxVisible int) ([]Item, int) {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return l.Items, 0
	}
	l.EnsureCursorVisible(maxVisible)
	start := l.ViewportOffset
	return l.Items[start : start+maxVisible], start
}
