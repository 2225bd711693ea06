// Package navigation reconciles pointer hover, click locks, the persisted
// selection and reloaded navigation trees into one active
// section/sub-section/tab triple.
//
// All methods are safe for concurrent use. Clicks and tree loads apply
// synchronously. The only deferred work is the grace timer armed when the
// pointer leaves the rail or the sub row; at most one is pending at a time
// and arming always cancels the previous one.
package navigation

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/navshell/internal/logging"
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/navtree"
	"github.com/atomicstack/navshell/internal/selection"
)

// DefaultGrace is the hover grace period.
const DefaultGrace = 220 * time.Millisecond

// Path is the locked triple handed to the routed feature view.
type Path struct {
	Section string
	Sub     string
	Tab     string
}

// ViewState is transient pointer state. It is never persisted.
type ViewState struct {
	HoverSectionHref string
	PointerInSubRow  bool
}

// Highlight names the elements that carry the active marker.
type Highlight struct {
	Pill string
	Sub  string
	Tab  string
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Path      Path
	View      ViewState
	Sections  []navtree.Section
	Preview   []navtree.SubSection
	Subs      []navtree.SubSection
	Tabs      []navtree.Tab
	Highlight Highlight
	// Pending reports whether a grace timer is armed.
	Pending bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGrace overrides the grace period. Non-positive values are ignored.
func WithGrace(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.grace = d
		}
	}
}

// WithClock replaces the real clock. Tests pass a fake one.
func WithClock(clock Clock) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithStore enables persistence. A stored record seeds the lock on the first
// non-empty tree load.
func WithStore(store selection.Store) Option {
	return func(c *Coordinator) { c.store = store }
}

// Coordinator owns the locked path, the hover view state and the single
// grace timer. Methods are safe for concurrent use.
type Coordinator struct {
	mu    sync.Mutex
	clock Clock
	grace time.Duration
	store selection.Store

	tree *navtree.Model
	path Path
	view ViewState

	seed      *Path
	persisted bool

	timer Timer
	gen   uint64
	// subRowLeaving is set while a sub-row leave waits for its timer. A
	// timer armed over it still clears PointerInSubRow when it fires.
	subRowLeaving bool

	observers map[int]func(Snapshot)
	nextObs   int
	closed    bool
}

// New returns a coordinator with an empty tree. Without WithStore nothing
// is persisted.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		clock:     RealClock(),
		grace:     DefaultGrace,
		tree:      navtree.Empty(),
		observers: map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store != nil {
		if rec, ok := c.store.Load(); ok {
			c.seed = &Path{Section: rec.LockedSectionHref, Sub: rec.LockedSubHref, Tab: rec.LockedTabHref}
			c.persisted = true
		}
	}
	return c
}

// Grace returns the configured grace period.
func (c *Coordinator) Grace() time.Duration {
	return c.grace
}

// OnChange registers fn to receive a snapshot after every effective
// transition. The returned func removes it.
func (c *Coordinator) OnChange(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Close cancels any pending timer. Later events are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.cancelLocked()
	c.closed = true
	c.observers = map[int]func(Snapshot){}
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Path returns the locked triple.
func (c *Coordinator) Path() Path {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Tree returns the tree currently in use.
func (c *Coordinator) Tree() *navtree.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

func (c *Coordinator) PointerEnterSection(href string) {
	c.apply(func() bool {
		if c.view.PointerInSubRow {
			events.Nav.Ignored("enter-section", href)
			return false
		}
		if !c.tree.HasSection(href) {
			events.Nav.Ignored("enter-section", href)
			return false
		}
		pending := c.timer != nil
		c.cancelLocked()
		if c.view.HoverSectionHref == href {
			return pending
		}
		c.view.HoverSectionHref = href
		events.Nav.Hover(href)
		return true
	})
}

func (c *Coordinator) PointerLeaveRail() {
	c.apply(func() bool {
		c.armLocked("leave-rail", func() {
			if c.subRowLeaving {
				c.view.PointerInSubRow = false
			}
			if !c.view.PointerInSubRow {
				c.view.HoverSectionHref = c.path.Section
			}
		})
		return true
	})
}

func (c *Coordinator) PointerEnterSubRow() {
	c.apply(func() bool {
		pending := c.timer != nil
		c.cancelLocked()
		c.subRowLeaving = false
		if c.view.PointerInSubRow {
			return pending
		}
		c.view.PointerInSubRow = true
		return true
	})
}

func (c *Coordinator) PointerLeaveSubRow() {
	c.apply(func() bool {
		c.subRowLeaving = c.view.PointerInSubRow
		c.armLocked("leave-subrow", func() {
			c.view.PointerInSubRow = false
			c.view.HoverSectionHref = c.path.Section
		})
		return true
	})
}

// ClickSection locks href with its first sub-section and that
// sub-section's first tab.
func (c *Coordinator) ClickSection(href string) {
	c.apply(func() bool {
		if !c.tree.HasSection(href) {
			events.Nav.Ignored("click-section", href)
			return false
		}
		sub := c.tree.FirstSub(href)
		c.lockLocked(Path{Section: href, Sub: sub, Tab: c.tree.FirstTab(sub)}, "click-section")
		c.view.HoverSectionHref = href
		return true
	})
}

// ClickSub locks href and its first tab. The locked section follows the
// sub-section's owner.
func (c *Coordinator) ClickSub(href string) {
	c.apply(func() bool {
		owner, ok := c.tree.OwnerOf(href)
		if !ok {
			events.Nav.Ignored("click-sub", href)
			return false
		}
		c.lockLocked(Path{Section: owner, Sub: href, Tab: c.tree.FirstTab(href)}, "click-sub")
		return true
	})
}

// ClickTab locks href when it belongs to the locked sub-section.
func (c *Coordinator) ClickTab(href string) {
	c.apply(func() bool {
		if !c.tree.HasTab(c.path.Sub, href) {
			events.Nav.Ignored("click-tab", href)
			return false
		}
		next := c.path
		next.Tab = href
		c.lockLocked(next, "click-tab")
		return true
	})
}

// Navigate locks whatever href names, filling lower levels with their
// first children. It reports false when href is not in the tree.
func (c *Coordinator) Navigate(href string) bool {
	found := false
	c.apply(func() bool {
		loc, ok := c.tree.Locate(href)
		if !ok {
			events.Nav.Ignored("navigate", href)
			return false
		}
		found = true
		c.lockLocked(Path{Section: loc.Section, Sub: loc.Sub, Tab: loc.Tab}, "navigate")
		c.view.HoverSectionHref = loc.Section
		return true
	})
	return found
}

// Load swaps in a freshly fetched tree. View state is reset and every locked
// href missing from the new tree is reset by the click cascade.
func (c *Coordinator) Load(tree *navtree.Model) {
	if tree == nil {
		tree = navtree.Empty()
	}
	c.apply(func() bool {
		c.cancelLocked()
		c.subRowLeaving = false
		c.tree = tree
		prev := c.path

		if tree.IsEmpty() {
			// keep the previous lock around for the next usable tree
			if c.seed == nil && prev != (Path{}) {
				p := prev
				c.seed = &p
			}
			c.path = Path{}
			c.view = ViewState{}
			events.Nav.Reload(0, prev != c.path)
			return true
		}

		want := prev
		if c.seed != nil {
			want = *c.seed
			c.seed = nil
		}
		c.path = Resolve(tree, want)
		c.view = ViewState{HoverSectionHref: c.path.Section}
		changed := c.path != want
		events.Nav.Reload(len(tree.Sections()), changed || c.path != prev)
		if changed && c.persisted {
			c.persistLocked()
		}
		if c.path != prev {
			events.Nav.Lock(c.path.Section, c.path.Sub, c.path.Tab, "reload")
		}
		return true
	})
}

// Resolve validates want against tree. A missing section resets to the first
// section and cascades, a missing sub-section resets to the first
// sub-section of the section and cascades, a missing tab resets to the first
// tab of the sub-section.
func Resolve(tree *navtree.Model, want Path) Path {
	if tree.IsEmpty() {
		return Path{}
	}
	if !tree.HasSection(want.Section) {
		sec := tree.FirstSection()
		sub := tree.FirstSub(sec)
		return Path{Section: sec, Sub: sub, Tab: tree.FirstTab(sub)}
	}
	if !tree.HasSub(want.Section, want.Sub) {
		sub := tree.FirstSub(want.Section)
		return Path{Section: want.Section, Sub: sub, Tab: tree.FirstTab(sub)}
	}
	if !tree.HasTab(want.Sub, want.Tab) {
		return Path{Section: want.Section, Sub: want.Sub, Tab: tree.FirstTab(want.Sub)}
	}
	return want
}

// apply runs mutate under the lock and notifies observers when it reports a
// change.
func (c *Coordinator) apply(mutate func() bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if !mutate() {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

func (c *Coordinator) observersLocked() []func(Snapshot) {
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		out = append(out, c.observers[id])
	}
	return out
}

func (c *Coordinator) lockLocked(next Path, cause string) {
	c.path = next
	events.Nav.Lock(next.Section, next.Sub, next.Tab, cause)
	c.persistLocked()
}

func (c *Coordinator) persistLocked() {
	c.persisted = true
	if c.store == nil {
		return
	}
	rec := selection.New(c.path.Section, c.path.Sub, c.path.Tab, c.clock.Now())
	if err := c.store.Save(rec); err != nil {
		events.Store.Error(err)
		logging.Error(fmt.Errorf("persist navigation selection: %w", err))
	}
}

func (c *Coordinator) armLocked(reason string, fire func()) {
	c.cancelLocked()
	gen := c.gen
	events.Nav.GraceArmed(reason, c.grace.Milliseconds())
	c.timer = c.clock.AfterFunc(c.grace, func() {
		c.apply(func() bool {
			if gen != c.gen {
				return false
			}
			c.timer = nil
			c.gen++
			fire()
			c.subRowLeaving = false
			events.Nav.GraceFired(reason)
			return true
		})
	})
}

// cancelLocked stops the pending timer. Bumping the generation turns a
// callback already in flight into a no-op.
func (c *Coordinator) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Coordinator) snapshotLocked() Snapshot {
	hover := c.view.HoverSectionHref
	if hover == "" {
		hover = c.path.Section
	}
	snap := Snapshot{
		Path:     c.path,
		View:     c.view,
		Sections: c.tree.Sections(),
		Preview:  c.tree.Subs(hover),
		Subs:     c.tree.Subs(c.path.Section),
		Tabs:     c.tree.Tabs(c.path.Sub),
		Pending:  c.timer != nil,
		Highlight: Highlight{
			Pill: hover,
			Tab:  c.path.Tab,
		},
	}
	if hover == c.path.Section {
		snap.Highlight.Sub = c.path.Sub
	}
	return snap
}

// PreviewSection returns the section whose sub-sections are on display.
func (s Snapshot) PreviewSection() string {
	return s.Highlight.Pill
}
