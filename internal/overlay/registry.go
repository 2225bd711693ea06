// Package overlay tracks stacked layered surfaces (modals, drawers, popovers,
// tooltips) and derives the shared "interaction blocked" and backdrop signals
// from the set of visible entries.
//
// Registry is the bookkeeping half: it issues identifiers, records visibility
// and folds the live entries into Counts on demand. Host is the presentation
// half: it owns the single mount surface, the backdrop, the anchor flags and
// focus handling, and it recomputes all of them on every registry mutation.
package overlay

import (
	"sort"
	"sync"

	"github.com/atomicstack/navshell/internal/logging/events"
)

// Kind classifies an overlay. Only modals and drawers block interaction.
type Kind int

const (
	KindModal Kind = iota
	KindDrawer
	KindPopover
	KindTooltip
)

func (k Kind) String() string {
	switch k {
	case KindModal:
		return "modal"
	case KindDrawer:
		return "drawer"
	case KindPopover:
		return "popover"
	case KindTooltip:
		return "tooltip"
	default:
		return "unknown"
	}
}

// Blocking reports whether a visible overlay of this kind locks the page.
func (k Kind) Blocking() bool {
	return k == KindModal || k == KindDrawer
}

// ID identifies a registered overlay. Zero is never issued.
type ID int

// Entry is one registered overlay.
type Entry struct {
	ID      ID
	Kind    Kind
	Visible bool
}

// Counts tallies visible entries per kind.
type Counts struct {
	Modal   int
	Drawer  int
	Popover int
	Tooltip int
}

// Locked is true while any modal or drawer is visible.
func (c Counts) Locked() bool {
	return c.Modal+c.Drawer > 0
}

// BackdropShown follows Locked; popovers and tooltips never raise the backdrop.
func (c Counts) BackdropShown() bool {
	return c.Modal+c.Drawer > 0
}

// Total is the number of visible overlays of any kind.
func (c Counts) Total() int {
	return c.Modal + c.Drawer + c.Popover + c.Tooltip
}

func (c *Counts) add(kind Kind) {
	switch kind {
	case KindModal:
		c.Modal++
	case KindDrawer:
		c.Drawer++
	case KindPopover:
		c.Popover++
	case KindTooltip:
		c.Tooltip++
	}
}

// Transition names what happened to an entry in a Change.
type Transition int

const (
	Registered Transition = iota
	Shown
	Hidden
	Unregistered
)

// Change is delivered to observers after every effective mutation.
type Change struct {
	Entry      Entry
	Transition Transition
	// WasVisible is the visibility before the mutation.
	WasVisible bool
	Counts     Counts
	// Seq increases with every mutation. Observers on different goroutines
	// use it to drop a change that arrives after a newer one.
	Seq uint64
}

// Registry records overlays by id. Methods are safe for concurrent use;
// observers run synchronously on the mutating goroutine, outside the lock.
type Registry struct {
	mu        sync.Mutex
	next      ID
	entries   map[ID]*Entry
	order     []ID
	observers map[int]func(Change)
	observeID int
	seq       uint64
}

// NewRegistry returns an empty registry whose first issued id is 1.
func NewRegistry() *Registry {
	return &Registry{
		entries:   make(map[ID]*Entry),
		observers: make(map[int]func(Change)),
	}
}

// Register inserts a new entry and returns its id. Ids are never reused.
func (r *Registry) Register(kind Kind, visible bool) ID {
	r.mu.Lock()
	r.next++
	id := r.next
	entry := &Entry{ID: id, Kind: kind, Visible: visible}
	r.entries[id] = entry
	r.order = append(r.order, id)
	change := Change{Entry: *entry, Transition: Registered, Counts: r.countsLocked(), Seq: r.nextSeqLocked()}
	observers := r.observersLocked()
	r.mu.Unlock()

	events.Overlay.Register(int(id), kind.String(), visible)
	notify(observers, change)
	return id
}

// Update sets the visibility of id. Unknown ids and no-change updates are
// ignored.
func (r *Registry) Update(id ID, visible bool) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if !ok || entry.Visible == visible {
		r.mu.Unlock()
		return
	}
	entry.Visible = visible
	transition := Hidden
	if visible {
		transition = Shown
	}
	change := Change{Entry: *entry, Transition: transition, WasVisible: !visible, Counts: r.countsLocked(), Seq: r.nextSeqLocked()}
	observers := r.observersLocked()
	r.mu.Unlock()

	events.Overlay.Update(int(id), visible)
	notify(observers, change)
}

// Unregister removes id. Calling it twice, or with an id this registry never
// issued, does nothing.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	change := Change{Entry: *entry, Transition: Unregistered, WasVisible: entry.Visible, Counts: r.countsLocked(), Seq: r.nextSeqLocked()}
	observers := r.observersLocked()
	r.mu.Unlock()

	events.Overlay.Unregister(int(id))
	notify(observers, change)
}

// Counts folds the live visible entries. The result is never cached.
func (r *Registry) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countsLocked()
}

// Entry returns the entry for id.
func (r *Registry) Entry(id ID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Entries lists live entries in registration order, bottom to top.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.entries[id])
	}
	return out
}

// Topmost returns the most recently registered visible entry.
func (r *Registry) Topmost() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if entry := r.entries[r.order[i]]; entry.Visible {
			return *entry, true
		}
	}
	return Entry{}, false
}

// Observe registers fn for change notifications and returns a function that
// removes it.
func (r *Registry) Observe(fn func(Change)) func() {
	if fn == nil {
		return func() {}
	}
	r.mu.Lock()
	r.observeID++
	key := r.observeID
	r.observers[key] = fn
	r.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers, key)
			r.mu.Unlock()
		})
	}
}

// state returns the counts together with the sequence of the last
// mutation they reflect.
func (r *Registry) state() (Counts, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countsLocked(), r.seq
}

func (r *Registry) nextSeqLocked() uint64 {
	r.seq++
	return r.seq
}

func (r *Registry) countsLocked() Counts {
	var c Counts
	for _, entry := range r.entries {
		if entry.Visible {
			c.add(entry.Kind)
		}
	}
	return c
}

func (r *Registry) observersLocked() []func(Change) {
	if len(r.observers) == 0 {
		return nil
	}
	keys := make([]int, 0, len(r.observers))
	for key := range r.observers {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	out := make([]func(Change), len(keys))
	for i, key := range keys {
		out[i] = r.observers[key]
	}
	return out
}

func notify(observers []func(Change), change Change) {
	for _, fn := range observers {
		fn(change)
	}
}

// Handle ties one overlay's lifetime to the component that owns it.
type Handle struct {
	reg  *Registry
	id   ID
	once sync.Once
}

// Attach registers an overlay and returns its handle.
func (r *Registry) Attach(kind Kind, visible bool) *Handle {
	return &Handle{reg: r, id: r.Register(kind, visible)}
}

// ID returns the registry id behind the handle.
func (h *Handle) ID() ID {
	if h == nil {
		return 0
	}
	return h.id
}

// SetVisible forwards to Registry.Update. It is a no-op after Detach.
func (h *Handle) SetVisible(visible bool) {
	if h == nil {
		return
	}
	h.reg.Update(h.id, visible)
}

// Detach unregisters the overlay. Repeated calls do nothing.
func (h *Handle) Detach() {
	if h == nil {
		return
	}
	h.once.Do(func() { h.reg.Unregister(h.id) })
}
