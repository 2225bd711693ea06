package shell

import (
	"testing"
	"time"

	"github.com/atomicstack/navshell/internal/backend"
	"github.com/atomicstack/navshell/internal/navtree"
	"github.com/atomicstack/navshell/internal/overlay"
	"github.com/atomicstack/navshell/internal/selection"
	"github.com/atomicstack/navshell/internal/testutil"
)

func TestShellsAreIndependent(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	defer a.Teardown()
	defer b.Teardown()

	a.Registry.Register(overlay.KindModal, true)
	if !a.Host.Locked() {
		t.Fatal("expected first shell locked")
	}
	if b.Host.Locked() {
		t.Fatal("expected second shell unaffected")
	}

	a.Dispatcher.Handle(backend.Event{Tree: testutil.Tree(t, testutil.OrdersPayload)})
	if a.Nav.Path().Section != "/orders" {
		t.Fatalf("expected first shell navigated, got %#v", a.Nav.Path())
	}
	if !b.Nav.Tree().IsEmpty() {
		t.Fatal("expected second shell without a tree")
	}
}

func TestTeardownReleasesBridgeEntriesAndTimers(t *testing.T) {
	clock := testutil.NewFakeClock(time.Unix(0, 0))
	store := selection.NewMemory()
	s := New(Options{Store: store, Clock: clock, Grace: 50 * time.Millisecond})

	s.Nav.Load(navtree.Parse([]byte(testutil.OrdersPayload)))
	s.Nav.PointerLeaveRail()
	if clock.Pending() != 1 {
		t.Fatalf("expected pending grace timer, got %d", clock.Pending())
	}
	if err := s.Bridge.Handle(overlay.MaskMessage{Type: overlay.MaskMessageType, Action: overlay.ActionShow, Source: "frame"}); err != nil {
		t.Fatalf("bridge: %v", err)
	}
	if !s.Host.BackdropShown() {
		t.Fatal("expected bridge entry to show the backdrop")
	}

	s.Teardown()
	s.Teardown()
	if clock.Pending() != 0 {
		t.Fatalf("expected timer cancelled, got %d", clock.Pending())
	}
	if n := s.Registry.Counts().Total(); n != 0 {
		t.Fatalf("expected bridge entries released, got %d", n)
	}
}
