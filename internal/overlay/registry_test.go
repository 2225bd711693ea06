package overlay

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRegistryThreeOverlays(t *testing.T) {
	reg := NewRegistry()
	modal := reg.Register(KindModal, true)
	drawer := reg.Register(KindDrawer, true)
	tip := reg.Register(KindTooltip, true)

	got := reg.Counts()
	if got != (Counts{Modal: 1, Drawer: 1, Tooltip: 1}) {
		t.Fatalf("expected one modal, one drawer, one tooltip, got %#v", got)
	}
	if !got.Locked() || !got.BackdropShown() {
		t.Fatalf("expected locked with backdrop, got %#v", got)
	}

	reg.Unregister(modal)
	got = reg.Counts()
	if got.Modal != 0 || got.Drawer != 1 || !got.Locked() {
		t.Fatalf("expected drawer to keep the lock, got %#v", got)
	}

	reg.Unregister(drawer)
	got = reg.Counts()
	if got.Locked() || got.BackdropShown() {
		t.Fatalf("expected unlocked with only a tooltip, got %#v", got)
	}
	if got.Tooltip != 1 {
		t.Fatalf("expected tooltip still counted, got %#v", got)
	}
	reg.Unregister(tip)
	if got := reg.Counts(); got != (Counts{}) {
		t.Fatalf("expected empty counts, got %#v", got)
	}
}

func TestRegistryIDsAreMonotonicAndStartAtOne(t *testing.T) {
	reg := NewRegistry()
	first := reg.Register(KindPopover, false)
	if first != 1 {
		t.Fatalf("expected first id 1, got %d", first)
	}
	reg.Unregister(first)
	second := reg.Register(KindPopover, false)
	if second != 2 {
		t.Fatalf("expected ids never reused, got %d", second)
	}
}

func TestRegistryUnknownIDsAreNoOps(t *testing.T) {
	reg := NewRegistry()
	id := reg.Register(KindModal, true)
	notified := 0
	stop := reg.Observe(func(Change) { notified++ })
	defer stop()

	reg.Update(999, false)
	reg.Unregister(999)
	reg.Unregister(0)
	if notified != 0 {
		t.Fatalf("expected no notifications for unknown ids, got %d", notified)
	}

	reg.Unregister(id)
	reg.Unregister(id)
	if notified != 1 {
		t.Fatalf("expected a single notification for a double unregister, got %d", notified)
	}
	if got := reg.Counts(); got.Total() != 0 {
		t.Fatalf("expected empty registry, got %#v", got)
	}
}

func TestRegistryHiddenEntriesDoNotCount(t *testing.T) {
	reg := NewRegistry()
	id := reg.Register(KindModal, false)
	if reg.Counts().Locked() {
		t.Fatal("expected hidden modal not to lock")
	}
	reg.Update(id, true)
	if !reg.Counts().Locked() {
		t.Fatal("expected shown modal to lock")
	}
	top, ok := reg.Topmost()
	if !ok || top.ID != id {
		t.Fatalf("expected topmost %d, got %#v (ok=%v)", id, top, ok)
	}
}

func TestHandleDetachIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	h := reg.Attach(KindDrawer, true)
	if !reg.Counts().Locked() {
		t.Fatal("expected drawer to lock")
	}
	h.Detach()
	h.Detach()
	h.SetVisible(true)
	if reg.Counts().Locked() {
		t.Fatal("expected detached handle to stay gone")
	}
	var nilHandle *Handle
	nilHandle.Detach()
	if nilHandle.ID() != 0 {
		t.Fatal("expected nil handle id 0")
	}
}

func TestObserverReceivesTransitions(t *testing.T) {
	reg := NewRegistry()
	var seen []Transition
	stop := reg.Observe(func(c Change) { seen = append(seen, c.Transition) })
	id := reg.Register(KindPopover, false)
	reg.Update(id, true)
	reg.Update(id, true)
	reg.Update(id, false)
	reg.Unregister(id)
	stop()
	reg.Register(KindPopover, true)

	want := []Transition{Registered, Shown, Hidden, Unregistered}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

// The counts must always equal a fold over a model of what is live, whatever
// order registrations, updates and unregistrations arrive in.
func TestRegistryCountsNeverDrift(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		model := map[ID]Entry{}
		var issued []ID

		t.Repeat(map[string]func(*rapid.T){
			"register": func(t *rapid.T) {
				kind := Kind(rapid.IntRange(0, 3).Draw(t, "kind"))
				visible := rapid.Bool().Draw(t, "visible")
				id := reg.Register(kind, visible)
				if _, dup := model[id]; dup {
					t.Fatalf("id %d issued twice", id)
				}
				model[id] = Entry{ID: id, Kind: kind, Visible: visible}
				issued = append(issued, id)
			},
			"update": func(t *rapid.T) {
				if len(issued) == 0 {
					t.Skip("nothing issued")
				}
				id := rapid.SampledFrom(issued).Draw(t, "id")
				visible := rapid.Bool().Draw(t, "visible")
				reg.Update(id, visible)
				if entry, ok := model[id]; ok {
					entry.Visible = visible
					model[id] = entry
				}
			},
			"unregister": func(t *rapid.T) {
				if len(issued) == 0 {
					t.Skip("nothing issued")
				}
				id := rapid.SampledFrom(issued).Draw(t, "id")
				reg.Unregister(id)
				delete(model, id)
			},
			"unknown": func(t *rapid.T) {
				id := ID(rapid.IntRange(-5, 0).Draw(t, "id"))
				reg.Update(id, true)
				reg.Unregister(id)
			},
			"": func(t *rapid.T) {
				var want Counts
				for _, entry := range model {
					if entry.Visible {
						want.add(entry.Kind)
					}
				}
				got := reg.Counts()
				if got != want {
					t.Fatalf("counts drifted: want %#v, got %#v", want, got)
				}
				if got.Locked() != (got.Modal+got.Drawer > 0) {
					t.Fatalf("locked %v disagrees with counts %#v", got.Locked(), got)
				}
				if got.BackdropShown() != got.Locked() {
					t.Fatalf("backdrop %v disagrees with locked %v", got.BackdropShown(), got.Locked())
				}
				if len(reg.Entries()) != len(model) {
					t.Fatalf("expected %d live entries, got %d", len(model), len(reg.Entries()))
				}
			},
		})
	})
}
