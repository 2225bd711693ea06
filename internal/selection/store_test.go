package selection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := OpenDisk(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("expected no record in a fresh directory")
	}

	want := New("/orders", "/orders/list", "/orders/list/logs", time.UnixMilli(1700000000000))
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := store.Load()
	if !ok {
		t.Fatal("expected saved record to load")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := os.Stat(filepath.Join(store.Dir(), Key)); err != nil {
		t.Fatalf("expected record file named %s: %v", Key, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("expected cleared record to be absent")
	}
}

func TestDiskStoreOverwritesWholeRecord(t *testing.T) {
	store, err := OpenDisk(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store.Save(New("/orders", "/orders/list", "/orders/list/logs", time.Now()))
	store.Save(New("/billing", "", "", time.Now()))
	got, _ := store.Load()
	if got.LockedSubHref != "" || got.LockedTabHref != "" {
		t.Fatalf("expected full overwrite, got %#v", got)
	}
}

func TestVersionMismatchReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenDisk(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	raw := []byte(`{"schemaVersion":10,"lockedSectionHref":"/orders","lockedSubHref":"","lockedTabHref":"","timestamp":1}`)
	if err := os.WriteFile(filepath.Join(dir, Key), raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("expected foreign schema version to read as absent")
	}

	if _, err := Decode(raw); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestCorruptRecordReadsAsAbsent(t *testing.T) {
	mem := NewMemory()
	mem.SetRaw([]byte(`{"schemaVersion":`))
	if _, ok := mem.Load(); ok {
		t.Fatal("expected corrupt record to read as absent")
	}
}

func TestMemoryStoreFailure(t *testing.T) {
	mem := NewMemory()
	mem.Err = errors.New("quota exceeded")
	if err := mem.Save(New("/a", "", "", time.Now())); err == nil {
		t.Fatal("expected injected failure")
	}
	if _, ok := mem.Load(); ok {
		t.Fatal("expected nothing stored after a failed save")
	}
	if mem.Saves() != 1 {
		t.Fatalf("expected one save attempt, got %d", mem.Saves())
	}
}

func TestOpenDiskRejectsEmptyDir(t *testing.T) {
	if _, err := OpenDisk(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
