package events

import "github.com/atomicstack/navshell/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Loaded(found bool, version int) {
	logging.Trace("store.load", map[string]interface{}{"found": found, "version": version})
}

func (StoreTracer) Saved(section, sub, tab string) {
	logging.Trace("store.save", map[string]interface{}{"section": section, "sub": sub, "tab": tab})
}

func (StoreTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("store.error", map[string]interface{}{"error": err.Error()})
}
