// Package selection persists the locked navigation triple between runs.
package selection

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const (
	// SchemaVersion is the only record version Load accepts.
	SchemaVersion = 11
	// Key is the storage key the record lives under.
	Key = "NAV_STATE_V11"
)

// Selection is the persisted record. It is always written whole.
type Selection struct {
	SchemaVersion     int    `json:"schemaVersion"`
	LockedSectionHref string `json:"lockedSectionHref"`
	LockedSubHref     string `json:"lockedSubHref"`
	LockedTabHref     string `json:"lockedTabHref"`
	Timestamp         int64  `json:"timestamp"`
}

// New stamps a record with the current version and time.
func New(section, sub, tab string, now time.Time) Selection {
	return Selection{
		SchemaVersion:     SchemaVersion,
		LockedSectionHref: section,
		LockedSubHref:     sub,
		LockedTabHref:     tab,
		Timestamp:         now.UnixMilli(),
	}
}

// Store loads and saves the record. Load reports false for a missing,
// unreadable or foreign-version record.
type Store interface {
	Load() (Selection, bool)
	Save(Selection) error
}

var ErrVersionMismatch = errors.New("selection schema version mismatch")

// Encode serializes s.
func Encode(s Selection) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	return data, nil
}

// Decode parses a stored record and rejects other schema versions.
func Decode(data []byte) (Selection, error) {
	var s Selection
	if err := json.Unmarshal(data, &s); err != nil {
		return Selection{}, fmt.Errorf("decode selection: %w", err)
	}
	if s.SchemaVersion != SchemaVersion {
		return Selection{}, fmt.Errorf("%w: got %d", ErrVersionMismatch, s.SchemaVersion)
	}
	return s, nil
}
