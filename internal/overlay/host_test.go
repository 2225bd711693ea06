package overlay

import (
	"strings"
	"sync"
	"testing"
)

func TestHostAppliesFlagsToBothAnchors(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()

	pop := reg.Register(KindPopover, true)
	if host.Locked() || host.BackdropShown() {
		t.Fatal("expected a popover not to lock the page")
	}
	drawer := reg.Register(KindDrawer, true)
	for _, name := range []string{AnchorRoot, AnchorBody} {
		if got := host.Anchor(name); !got.Locked || !got.Backdrop {
			t.Fatalf("expected %s anchor locked with backdrop, got %#v", name, got)
		}
	}
	if !host.ScrollSuppressed() {
		t.Fatal("expected scroll suppressed while locked")
	}
	reg.Unregister(drawer)
	reg.Unregister(pop)
	if host.Anchor(AnchorBody).Locked || host.Anchor(AnchorRoot).Backdrop {
		t.Fatal("expected anchors cleared")
	}
}

func TestHostIgnoresChangesOlderThanApplied(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()

	var changes []Change
	reg.Observe(func(c Change) { changes = append(changes, c) })
	modal := reg.Register(KindModal, true)
	reg.Update(modal, false)
	if len(changes) != 2 || changes[0].Seq >= changes[1].Seq {
		t.Fatalf("expected increasing sequence numbers, got %#v", changes)
	}

	// the show arrives late, after the hide was applied
	stale := changes[0]
	stale.Entry.Visible = false
	host.apply(stale)
	if host.Locked() || host.BackdropShown() {
		t.Fatal("expected a stale change to leave the anchors alone")
	}
}

func TestHostAnchorsMatchRegistryUnderConcurrency(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				kind := KindModal
				if (g+i)%2 == 0 {
					kind = KindPopover
				}
				h := reg.Attach(kind, true)
				h.SetVisible(false)
				h.SetVisible(true)
				h.Detach()
			}
		}(g)
	}
	wg.Wait()
	if host.Locked() != reg.Counts().Locked() || host.Locked() {
		t.Fatalf("expected anchors unlocked once every overlay is gone, got %#v", host.Anchor(AnchorRoot))
	}
}

func TestHostFocusTrapWrapsWithinTopmostOverlay(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()
	host.Focus("rail:/orders")

	id := reg.Register(KindModal, true)
	host.SetFocusables(id, []string{"ok", "cancel", "close"})
	if host.Focused() != "ok" {
		t.Fatalf("expected focus on first focusable, got %q", host.Focused())
	}

	if got, _ := host.CycleFocus(true); got != "cancel" {
		t.Fatalf("expected cancel, got %q", got)
	}
	host.CycleFocus(true)
	if got, _ := host.CycleFocus(true); got != "ok" {
		t.Fatalf("expected wrap to first, got %q", got)
	}
	if got, _ := host.CycleFocus(false); got != "close" {
		t.Fatalf("expected shift-wrap to last, got %q", got)
	}
	if host.Focus("rail:/billing") {
		t.Fatal("expected focus outside the trap to be refused")
	}

	reg.Unregister(id)
	if host.Focused() != "rail:/orders" {
		t.Fatalf("expected focus restored to opener, got %q", host.Focused())
	}
	if _, ok := host.CycleFocus(true); ok {
		t.Fatal("expected no trap once unlocked")
	}
}

func TestHostRestoresFocusCapturedAtOpen(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()

	host.Focus("tab:/orders/list/open")
	id := reg.Register(KindDrawer, false)
	host.SetFocusables(id, []string{"drawer:close"})
	host.Focus("tab:/orders/list/archived")

	reg.Update(id, true)
	if host.Focused() != "drawer:close" {
		t.Fatalf("expected drawer focus, got %q", host.Focused())
	}
	reg.Update(id, false)
	if host.Focused() != "tab:/orders/list/archived" {
		t.Fatalf("expected focus captured at open time, got %q", host.Focused())
	}
}

func TestHostNestedOverlaysRestoreInOrder(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()
	host.Focus("page")

	outer := reg.Register(KindModal, true)
	host.SetFocusables(outer, []string{"outer:a", "outer:b"})
	inner := reg.Register(KindModal, true)
	host.SetFocusables(inner, []string{"inner:a"})

	// closing the outer modal first must not leak focus out of the inner trap
	reg.Unregister(outer)
	if host.Focused() != "inner:a" {
		t.Fatalf("expected focus to stay in inner modal, got %q", host.Focused())
	}
	reg.Unregister(inner)
	if host.Focused() != "page" {
		t.Fatalf("expected focus back on page, got %q", host.Focused())
	}
}

func TestHostRenderDrawsVisibleLayersInOrder(t *testing.T) {
	reg := NewRegistry()
	host := NewHost(reg)
	defer host.Close()

	background := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	low := reg.Register(KindPopover, true)
	high := reg.Register(KindPopover, true)
	hidden := reg.Register(KindPopover, false)
	host.Mount(low, Layer{View: "AAAA", Placement: Placement{Horizontal: AlignStart, Vertical: AlignStart}})
	host.Mount(high, Layer{View: "BB", Placement: Placement{Horizontal: AlignStart, Vertical: AlignStart}})
	host.Mount(hidden, Layer{View: "CCCCCCCC"})
	host.Mount(99, Layer{View: "ZZ"})

	out := StripANSI(host.Render(background, 10, 5))
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[0] != "BBAA......" {
		t.Fatalf("expected stacked layers on first row, got %q", lines[0])
	}
	if strings.Contains(out, "C") || strings.Contains(out, "Z") {
		t.Fatalf("expected hidden and unknown layers skipped, got %q", out)
	}
}
