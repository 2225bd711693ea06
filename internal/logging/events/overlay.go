package events

import "github.com/atomicstack/navshell/internal/logging"

type OverlayTracer struct{}

var Overlay = OverlayTracer{}

func (OverlayTracer) Register(id int, kind string, visible bool) {
	logging.Trace("overlay.register", map[string]interface{}{"id": id, "kind": kind, "visible": visible})
}

func (OverlayTracer) Update(id int, visible bool) {
	logging.Trace("overlay.update", map[string]interface{}{"id": id, "visible": visible})
}

func (OverlayTracer) Unregister(id int) {
	logging.Trace("overlay.unregister", map[string]interface{}{"id": id})
}

// Anchors records the flag pair applied to the root and body anchors.
func (OverlayTracer) Anchors(locked, backdrop bool) {
	logging.Trace("overlay.anchors", map[string]interface{}{"locked": locked, "backdrop": backdrop})
}

func (OverlayTracer) Focus(from, to string) {
	logging.Trace("overlay.focus", map[string]interface{}{"from": from, "to": to})
}

// Stale records a registry change dropped because a newer one was applied.
func (OverlayTracer) Stale(seq, applied uint64) {
	logging.Trace("overlay.stale", map[string]interface{}{"seq": seq, "applied": applied})
}
