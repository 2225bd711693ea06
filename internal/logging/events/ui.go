package events

import "github.com/atomicstack/navshell/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (UITracer) Key(key string, blocked bool) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "blocked": blocked})
}

func (UITracer) Pointer(zone string, x, y int) {
	logging.Trace("ui.pointer", map[string]interface{}{"zone": zone, "x": x, "y": y})
}

func (UITracer) OverlayOpen(name string) {
	logging.Trace("ui.overlay.open", map[string]interface{}{"name": name})
}

func (UITracer) OverlayClose(name string) {
	logging.Trace("ui.overlay.close", map[string]interface{}{"name": name})
}

func (UITracer) PaletteCursor(cursor int) {
	logging.Trace("ui.palette.cursor", map[string]interface{}{"cursor": cursor})
}

func (FilterTracer) Changed(query string, matches int) {
	logging.Trace("filter.change", map[string]interface{}{"query": query, "matches": matches})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
