package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestList(ids ...string) *List {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Label: id}
	}
	return NewList(items)
}

func TestSetQueryTracksCursorAndRestoresPosition(t *testing.T) {
	l := newTestList("one", "two", "three")
	l.Cursor = 2
	l.SetQuery("two", len("two"))

	if l.QueryCursor != 3 || l.Cursor != 0 {
		t.Fatalf("unexpected state caret=%d cursor=%d", l.QueryCursor, l.Cursor)
	}
	if len(l.Items) != 1 || l.Items[0].ID != "two" {
		t.Fatalf("expected only 'two', got %#v", l.Items)
	}

	l.SetQuery("", 0)
	if l.Cursor != 2 {
		t.Fatalf("expected cursor restored to 2, got %d", l.Cursor)
	}
	if l.LastCursor != -1 {
		t.Fatalf("expected last cursor reset, got %d", l.LastCursor)
	}
}

func TestQueryEditing(t *testing.T) {
	l := newTestList("alpha")

	if !l.InsertText("ab") || l.Query != "ab" || l.QueryCursor != 2 {
		t.Fatalf("unexpected query state %q/%d", l.Query, l.QueryCursor)
	}
	l.QueryCursor = 1
	l.InsertText("z")
	if l.Query != "azb" || l.QueryCursor != 2 {
		t.Fatalf("expected insert into middle, got %q/%d", l.Query, l.QueryCursor)
	}
	if !l.DeleteRuneBackward() || l.Query != "ab" || l.QueryCursor != 1 {
		t.Fatalf("unexpected state after delete %q/%d", l.Query, l.QueryCursor)
	}

	l.SetQuery("abc def", len("abc def"))
	if !l.DeleteWordBackward() || l.Query != "abc " {
		t.Fatalf("expected trailing word removed, got %q", l.Query)
	}

	l.SetQuery("abc", 0)
	if l.DeleteRuneBackward() {
		t.Fatal("expected delete at start to fail")
	}
	if l.InsertText("") {
		t.Fatal("expected empty insert to fail")
	}
}

func TestCaretNavigation(t *testing.T) {
	l := newTestList("one", "two")
	l.SetQuery("one two", len("one two"))

	if !l.MoveCaretWord(false) || l.QueryCursor != 4 {
		t.Fatalf("expected caret at 4, got %d", l.QueryCursor)
	}
	if !l.MoveCaretWord(true) || l.QueryCursor != 7 {
		t.Fatalf("expected caret at end, got %d", l.QueryCursor)
	}
	if !l.MoveCaret(-1) || l.QueryCursor != 6 {
		t.Fatalf("expected caret at 6, got %d", l.QueryCursor)
	}
	if !l.MoveCaretHome() || l.QueryCursor != 0 {
		t.Fatalf("expected caret at 0, got %d", l.QueryCursor)
	}
	if l.MoveCaret(-1) {
		t.Fatal("expected no movement before the start")
	}
	if !l.MoveCaretEnd() || l.MoveCaretEnd() {
		t.Fatal("expected a single move to the end")
	}
}

func TestFilterItemsMatchesLabelsAndHrefs(t *testing.T) {
	items := []Item{
		{ID: "/orders/list", Label: "Orders › List"},
		{ID: "/billing/invoices", Label: "Billing › Invoices"},
	}
	if got := FilterItems(items, "ordlst"); len(got) != 1 || got[0].ID != "/orders/list" {
		t.Fatalf("expected fuzzy label match, got %#v", got)
	}
	if got := FilterItems(items, "/billing/inv"); len(got) != 1 || got[0].ID != "/billing/invoices" {
		t.Fatalf("expected href match, got %#v", got)
	}
	if got := FilterItems(items, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %#v", got)
	}
	all := FilterItems(items, "  ")
	all[0].Label = "changed"
	if items[0].Label != "Orders › List" {
		t.Fatal("expected filter to copy items")
	}
}

func TestBestMatchIndex(t *testing.T) {
	items := []Item{
		{ID: "/one", Label: "First"},
		{ID: "/two", Label: "Second"},
		{ID: "/three", Label: "Third"},
	}
	cases := map[string]int{
		"Second": 1,
		"/two":   1,
		"th":     2,
		"/thr":   2,
		"zzz":    0,
	}
	for query, want := range cases {
		if got := BestMatchIndex(items, query); got != want {
			t.Fatalf("BestMatchIndex(%q): expected %d, got %d", query, want, got)
		}
	}
	if got := BestMatchIndex(nil, "x"); got != -1 {
		t.Fatalf("expected -1 for no items, got %d", got)
	}
}

func TestCursorWrapsAndPages(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	if !l.MoveCursor(-1) || l.Cursor != 4 {
		t.Fatalf("expected wrap to last, got %d", l.Cursor)
	}
	if !l.MoveCursor(1) || l.Cursor != 0 {
		t.Fatalf("expected wrap to first, got %d", l.Cursor)
	}
	if !l.MoveCursorPage(1, 2) || l.Cursor != 2 {
		t.Fatalf("expected page down to 2, got %d", l.Cursor)
	}
	l.MoveCursorPage(5, 2)
	if l.Cursor != 4 {
		t.Fatalf("expected page clamp to 4, got %d", l.Cursor)
	}
	if !l.MoveCursorHome() || l.MoveCursorHome() {
		t.Fatal("expected a single move home")
	}
	if !l.MoveCursorEnd() || l.Cursor != 4 {
		t.Fatalf("expected end at 4, got %d", l.Cursor)
	}

	empty := newTestList()
	if empty.MoveCursor(1) || empty.MoveCursorEnd() {
		t.Fatal("expected no movement on an empty list")
	}
}

func TestVisibleWindowFollowsCursor(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	l.Cursor = 4
	items, start := l.Visible(2)
	if start != 3 {
		t.Fatalf("expected window to start at 3, got %d", start)
	}
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if diff := cmp.Diff([]string{"d", "e"}, ids); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}

	l.Cursor = 0
	if _, start := l.Visible(2); start != 0 {
		t.Fatalf("expected window to scroll back, got %d", start)
	}
	if items, _ := l.Visible(0); len(items) != 5 {
		t.Fatalf("expected unbounded window, got %d", len(items))
	}
}

func TestSetItemsKeepsQuery(t *testing.T) {
	l := newTestList("alpha", "beta")
	l.SetQuery("bet", 3)
	l.SetItems([]Item{{ID: "beta", Label: "beta"}, {ID: "better", Label: "better"}, {ID: "gamma", Label: "gamma"}})
	if len(l.Items) != 2 {
		t.Fatalf("expected query re-applied, got %#v", l.Items)
	}
	l.Reset()
	if l.Query != "" || len(l.Items) != 3 || l.Cursor != 0 {
		t.Fatalf("expected reset list, got %#v", l)
	}
	if cur, ok := l.Current(); !ok || cur.ID != "beta" {
		t.Fatalf("expected first item current, got %#v", cur)
	}
}
