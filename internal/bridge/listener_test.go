package bridge

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/atomicstack/navshell/internal/overlay"
)

func TestListenerFoldsMessagesIntoRegistry(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := overlay.NewRegistry()
	b := overlay.NewBridge(reg)
	defer b.Close()

	got := make(chan overlay.MaskMessage, 8)
	l, err := Listen(filepath.Join(t.TempDir(), "b.sock"), func(msg overlay.MaskMessage) {
		b.Handle(msg)
		got <- msg
	})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	conn, err := net.Dial("unix", l.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	lines := "" +
		`{"type":"shell-mask","action":"show","source":"frame-a"}` + "\n" +
		`not json` + "\n" +
		`{"type":"other","action":"show"}` + "\n" +
		`{"type":"shell-mask","action":"show","source":"frame-a"}` + "\n"
	if _, err := conn.Write([]byte(lines)); err != nil {
		t.Fatalf("write: %v", err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-got:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for bridge message")
		}
	}
	counts := reg.Counts()
	if counts.Modal != 1 || !counts.Locked() {
		t.Fatalf("expected a single modal entry for the source, got %#v", counts)
	}
}

func TestListenerCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	l, err := Listen(filepath.Join(t.TempDir(), "c.sock"), func(overlay.MaskMessage) {})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	conn, err := net.Dial("unix", l.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestListenRejectsBadArguments(t *testing.T) {
	if _, err := Listen("", func(overlay.MaskMessage) {}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Listen(filepath.Join(t.TempDir(), "d.sock"), nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
