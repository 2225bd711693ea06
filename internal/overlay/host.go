package overlay

import (
	"sync"

	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/charmbracelet/lipgloss"
)

// Anchor names. The host toggles the same flag pair on both.
const (
	AnchorRoot = "root"
	AnchorBody = "body"
)

// AnchorState is the flag pair carried by an anchor.
type AnchorState struct {
	Locked   bool
	Backdrop bool
}

// Layer is the rendered content of one overlay on the mount surface.
type Layer struct {
	View      string
	Placement Placement
}

// Host owns the single mount surface and backdrop for one registry. It keeps
// the anchor flags, scroll suppression and focus in step with the registry.
type Host struct {
	reg  *Registry
	stop func()

	mu         sync.Mutex
	anchors    map[string]AnchorState
	layers     map[ID]Layer
	focusables map[ID][]string
	restore    map[ID]string
	focused    string
	// seq is the registry sequence the anchors reflect.
	seq        uint64

	backdropStyle lipgloss.Style
}

// NewHost attaches a host to reg. Call Close to detach it.
func NewHost(reg *Registry) *Host {
	h := &Host{
		reg: reg,
		anchors: map[string]AnchorState{
			AnchorRoot: {},
			AnchorBody: {},
		},
		layers:        make(map[ID]Layer),
		focusables:    make(map[ID][]string),
		restore:       make(map[ID]string),
		backdropStyle: lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("240")),
	}
	h.stop = reg.Observe(h.apply)
	counts, seq := reg.state()
	h.apply(Change{Transition: -1, Counts: counts, Seq: seq})
	return h
}

// Close stops observing the registry.
func (h *Host) Close() {
	if h.stop != nil {
		h.stop()
	}
}

// SetBackdropStyle overrides how the page under a blocking layer is drawn.
func (h *Host) SetBackdropStyle(style lipgloss.Style) {
	h.mu.Lock()
	h.backdropStyle = style
	h.mu.Unlock()
}

// apply folds one registry change into the anchors and focus. Anchors only
// move forward: a change older than the one already applied leaves them
// alone, since its counts are stale.
func (h *Host) apply(change Change) {
	h.mu.Lock()
	prev := h.anchors[AnchorRoot]
	state := prev
	if change.Seq >= h.seq {
		h.seq = change.Seq
		state = AnchorState{Locked: change.Counts.Locked(), Backdrop: change.Counts.BackdropShown()}
		h.anchors = map[string]AnchorState{
			AnchorRoot: state,
			AnchorBody: state,
		}
	} else {
		events.Overlay.Stale(change.Seq, h.seq)
	}
	from := h.focused
	id := change.Entry.ID
	switch change.Transition {
	case Registered:
		if change.Entry.Visible {
			h.openLocked(id)
		}
	case Shown:
		h.openLocked(id)
	case Hidden:
		h.closeLocked(id)
	case Unregistered:
		if change.WasVisible {
			h.closeLocked(id)
		}
		delete(h.layers, id)
		delete(h.focusables, id)
		delete(h.restore, id)
	}
	to := h.focused
	h.mu.Unlock()

	if prev != state {
		events.Overlay.Anchors(state.Locked, state.Backdrop)
	}
	if from != to {
		events.Overlay.Focus(from, to)
	}
}

// openLocked captures the restore target at open time.
func (h *Host) openLocked(id ID) {
	h.restore[id] = h.focused
	if list := h.focusables[id]; len(list) > 0 {
		h.focused = list[0]
	}
}

func (h *Host) closeLocked(id ID) {
	target, ok := h.restore[id]
	if !ok {
		return
	}
	delete(h.restore, id)
	own := h.focusables[id]
	// Overlays opened above this one may hold one of its elements as their
	// restore target; hand them this overlay's target instead.
	for other, t := range h.restore {
		if contains(own, t) {
			h.restore[other] = target
		}
	}
	if len(own) == 0 {
		return
	}
	if contains(own, h.focused) {
		h.focused = target
	}
}

// Anchor returns the flags of the named anchor.
func (h *Host) Anchor(name string) AnchorState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anchors[name]
}

// Locked reports whether interaction outside the topmost layer is blocked.
func (h *Host) Locked() bool {
	return h.Anchor(AnchorRoot).Locked
}

// BackdropShown reports whether the shared backdrop is visible.
func (h *Host) BackdropShown() bool {
	return h.Anchor(AnchorRoot).Backdrop
}

// ScrollSuppressed is true while locked.
func (h *Host) ScrollSuppressed() bool {
	return h.Locked()
}

// SetFocusables declares the focusable elements of an overlay in tab order.
// If the overlay is already open and focus is outside it, focus moves to the
// first element.
func (h *Host) SetFocusables(id ID, elements []string) {
	entry, live := h.reg.Entry(id)
	if !live {
		return
	}
	h.mu.Lock()
	from := h.focused
	h.focusables[id] = append([]string(nil), elements...)
	if entry.Visible && len(elements) > 0 && !contains(elements, h.focused) {
		if _, captured := h.restore[id]; !captured {
			h.restore[id] = h.focused
		}
		h.focused = elements[0]
	}
	to := h.focused
	h.mu.Unlock()
	if from != to {
		events.Overlay.Focus(from, to)
	}
}

// Focused returns the element that currently holds focus.
func (h *Host) Focused() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Focus moves focus to element. While locked, elements outside the trapping
// overlay are refused.
func (h *Host) Focus(element string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.anchors[AnchorRoot].Locked {
		if trap := h.trapLocked(); len(trap) > 0 && !contains(trap, element) {
			return false
		}
	}
	h.focused = element
	return true
}

// CycleFocus moves focus through the topmost visible overlay that declared
// focusable elements, wrapping at both ends. It does nothing unless locked.
func (h *Host) CycleFocus(forward bool) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.anchors[AnchorRoot].Locked {
		return h.focused, false
	}
	trap := h.trapLocked()
	if len(trap) == 0 {
		return h.focused, false
	}
	idx := indexOf(trap, h.focused)
	switch {
	case idx < 0 && forward:
		idx = 0
	case idx < 0:
		idx = len(trap) - 1
	case forward:
		idx = (idx + 1) % len(trap)
	default:
		idx = (idx - 1 + len(trap)) % len(trap)
	}
	h.focused = trap[idx]
	return h.focused, true
}

func (h *Host) trapLocked() []string {
	entries := h.reg.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !entry.Visible {
			continue
		}
		if list := h.focusables[entry.ID]; len(list) > 0 {
			return list
		}
	}
	return nil
}

// Mount stores the content drawn for id on the mount surface.
func (h *Host) Mount(id ID, layer Layer) {
	if _, live := h.reg.Entry(id); !live {
		return
	}
	h.mu.Lock()
	h.layers[id] = layer
	h.mu.Unlock()
}

// Unmount drops the content for id without touching the registry.
func (h *Host) Unmount(id ID) {
	h.mu.Lock()
	delete(h.layers, id)
	h.mu.Unlock()
}

// Render composites every visible mounted layer over background, bottom to
// top, dimming the background first when the backdrop is shown.
func (h *Host) Render(background string, width, height int) string {
	entries := h.reg.Entries()
	h.mu.Lock()
	backdrop := h.anchors[AnchorRoot].Backdrop
	style := h.backdropStyle
	layers := make([]Layer, 0, len(entries))
	for _, entry := range entries {
		if !entry.Visible {
			continue
		}
		if layer, ok := h.layers[entry.ID]; ok && layer.View != "" {
			layers = append(layers, layer)
		}
	}
	h.mu.Unlock()

	view := background
	if backdrop {
		view = Dim(view, style)
	}
	if len(layers) == 0 || width <= 0 || height <= 0 {
		return view
	}
	for _, layer := range layers {
		view = Compose(view, width, height, layer.View, layer.Placement)
	}
	return view
}

func contains(list []string, value string) bool {
	return indexOf(list, value) >= 0
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
