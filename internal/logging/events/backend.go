package events

import "github.com/atomicstack/navshell/internal/logging"

type BackendTracer struct{}

type BridgeTracer struct{}

var (
	Backend = BackendTracer{}
	Bridge  = BridgeTracer{}
)

func (BackendTracer) Fetch(source string, bytes int, err error) {
	payload := map[string]interface{}{"source": source, "bytes": bytes}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.fetch", payload)
}

func (BackendTracer) Trigger(reason string) {
	logging.Trace("backend.trigger", map[string]interface{}{"reason": reason})
}

func (BridgeTracer) Message(source, action string, visible bool) {
	logging.Trace("bridge.message", map[string]interface{}{"source": source, "action": action, "visible": visible})
}

func (BridgeTracer) Rejected(reason string) {
	logging.Trace("bridge.rejected", map[string]interface{}{"reason": reason})
}
