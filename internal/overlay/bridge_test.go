package overlay

import (
	"errors"
	"testing"
)

func TestBridgeOneEntryPerSource(t *testing.T) {
	reg := NewRegistry()
	bridge := NewBridge(reg)

	for i := 0; i < 3; i++ {
		if err := bridge.Handle(MaskMessage{Type: MaskMessageType, Action: ActionShow, Source: "reports"}); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if got := len(reg.Entries()); got != 1 {
		t.Fatalf("expected a single registry entry, got %d", got)
	}
	if !reg.Counts().Locked() {
		t.Fatal("expected bridge mask to lock the shell")
	}

	bridge.Handle(MaskMessage{Type: MaskMessageType, Action: ActionHide, Source: "reports"})
	if reg.Counts().Locked() {
		t.Fatal("expected hide to release the lock")
	}
	if got := len(reg.Entries()); got != 1 {
		t.Fatalf("expected entry kept while hidden, got %d", got)
	}

	bridge.Handle(MaskMessage{Type: MaskMessageType, Action: ActionShow, Source: "audit"})
	bridge.Close()
	if got := len(reg.Entries()); got != 0 {
		t.Fatalf("expected close to unregister everything, got %d", got)
	}
}

func TestBridgeVisibleFieldWinsOverAction(t *testing.T) {
	reg := NewRegistry()
	bridge := NewBridge(reg)
	hidden := false

	bridge.Handle(MaskMessage{Type: MaskMessageType, Action: ActionShow, Visible: &hidden})
	if len(reg.Entries()) != 0 {
		t.Fatal("expected no registration for an initially hidden mask")
	}
}

func TestBridgeDetachAndRejects(t *testing.T) {
	reg := NewRegistry()
	bridge := NewBridge(reg)
	bridge.Handle(MaskMessage{Type: MaskMessageType, Action: ActionShow})
	bridge.Handle(MaskMessage{Type: MaskMessageType, Action: ActionDetach})
	if len(bridge.Sources()) != 0 || len(reg.Entries()) != 0 {
		t.Fatal("expected detach to drop the default source")
	}

	if err := bridge.Handle(MaskMessage{Type: "open-shell-modal"}); !errors.Is(err, ErrNotMaskMessage) {
		t.Fatalf("expected ErrNotMaskMessage, got %v", err)
	}
}

func TestDecodeMaskMessage(t *testing.T) {
	msg, err := DecodeMaskMessage([]byte(`{"type":"shell-mask","action":"show","source":"frame-1","visible":true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Source != "frame-1" || !msg.wantsVisible() {
		t.Fatalf("unexpected message %#v", msg)
	}
	if _, err := DecodeMaskMessage([]byte(`{"type":"other"}`)); !errors.Is(err, ErrNotMaskMessage) {
		t.Fatalf("expected ErrNotMaskMessage, got %v", err)
	}
	if _, err := DecodeMaskMessage([]byte(`{`)); err == nil {
		t.Fatal("expected malformed JSON to fail")
	}
}
