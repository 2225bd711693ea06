package selection

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps the record as a single file under a state directory.
type DiskStore struct {
	d   *diskv.Diskv
	dir string
}

// OpenDisk prepares a store rooted at dir, creating it if needed.
func OpenDisk(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("open selection store: empty state dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open selection store: %w", err)
	}
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			TempDir:      filepath.Join(dir, ".tmp"),
			CacheSizeMax: 0,
		}),
		dir: dir,
	}, nil
}

// Dir returns the state directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Load() (Selection, bool) {
	data, err := s.d.Read(Key)
	if err != nil {
		if !os.IsNotExist(err) {
			events.Store.Error(err)
		}
		events.Store.Loaded(false, 0)
		return Selection{}, false
	}
	sel, err := Decode(data)
	if err != nil {
		events.Store.Error(err)
		events.Store.Loaded(false, 0)
		return Selection{}, false
	}
	events.Store.Loaded(true, sel.SchemaVersion)
	return sel, true
}

func (s *DiskStore) Save(sel Selection) error {
	data, err := Encode(sel)
	if err != nil {
		return err
	}
	if err := s.d.Write(Key, data); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	events.Store.Saved(sel.LockedSectionHref, sel.LockedSubHref, sel.LockedTabHref)
	return nil
}

// Clear removes the record.
func (s *DiskStore) Clear() error {
	if !s.d.Has(Key) {
		return nil
	}
	return s.d.Erase(Key)
}

// MemoryStore keeps the encoded record in memory. Used for ephemeral
// sessions and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
	// Err, when set, is returned by Save instead of storing.
	Err   error
	saves int
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Selection, bool) {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()
	if data == nil {
		return Selection{}, false
	}
	sel, err := Decode(data)
	if err != nil {
		return Selection{}, false
	}
	return sel, true
}

func (s *MemoryStore) Save(sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.Err != nil {
		return s.Err
	}
	data, err := Encode(sel)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Saves counts Save calls, including failed ones.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
