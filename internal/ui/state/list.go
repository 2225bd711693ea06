// Package state holds the filterable list behind the jump palette: the full
// item set, the visible subset, the query being typed, the cursor and the
// viewport offset.
package state

// Item is one palette entry. ID is the href it navigates to.
type Item struct {
	ID     string
	Label  string
	Detail string
	Depth  int
}

type List struct {
	Items          []Item
	Full           []Item
	Query          string
	QueryCursor    int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

func NewList(items []Item) *List {
	l := &List{LastCursor: -1}
	l.SetItems(items)
	return l
}

// SetItems replaces the full item set and re-applies the current query.
func (l *List) SetItems(items []Item) {
	l.Full = cloneItems(items)
	l.refilter()
	if l.ViewportOffset > len(l.Items)-1 || l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// IndexOf returns the visible index of id, or -1.
func (l *List) IndexOf(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Reset clears the query and moves the cursor to the top.
func (l *List) Reset() {
	l.Query = ""
	l.QueryCursor = 0
	l.LastCursor = -1
	l.Cursor = 0
	l.ViewportOffset = 0
	l.refilter()
}

func cloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
