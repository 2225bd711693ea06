package events

import "github.com/atomicstack/navshell/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Hover(section string) {
	logging.Trace("nav.hover", map[string]interface{}{"section": section})
}

func (NavTracer) GraceArmed(reason string, ms int64) {
	logging.Trace("nav.grace.arm", map[string]interface{}{"reason": reason, "ms": ms})
}

func (NavTracer) GraceFired(reason string) {
	logging.Trace("nav.grace.fire", map[string]interface{}{"reason": reason})
}

func (NavTracer) Lock(section, sub, tab, cause string) {
	logging.Trace("nav.lock", map[string]interface{}{
		"section": section,
		"sub":     sub,
		"tab":     tab,
		"cause":   cause,
	})
}

func (NavTracer) Reload(sections int, changed bool) {
	logging.Trace("nav.reload", map[string]interface{}{"sections": sections, "changed": changed})
}

func (NavTracer) Ignored(event, href string) {
	logging.Trace("nav.ignored", map[string]interface{}{"event": event, "href": href})
}
