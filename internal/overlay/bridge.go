package overlay

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/goccy/go-json"
)

// MaskMessageType is the only message type a Bridge accepts.
const MaskMessageType = "shell-mask"

// Bridge actions.
const (
	ActionShow   = "show"
	ActionHide   = "hide"
	ActionDetach = "detach"
)

// MaskMessage is a notification from an embedded surface that draws its own
// blocking layer and wants the shell to account for it.
type MaskMessage struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Source  string `json:"source,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

var ErrNotMaskMessage = errors.New("not a shell-mask message")

// DecodeMaskMessage parses one JSON message.
func DecodeMaskMessage(data []byte) (MaskMessage, error) {
	var msg MaskMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return MaskMessage{}, fmt.Errorf("decode mask message: %w", err)
	}
	if msg.Type != MaskMessageType {
		return MaskMessage{}, ErrNotMaskMessage
	}
	return msg, nil
}

// wantsVisible resolves the target visibility. An explicit visible field wins
// over the action.
func (m MaskMessage) wantsVisible() bool {
	if m.Visible != nil {
		return *m.Visible
	}
	return strings.EqualFold(m.Action, ActionShow)
}

// Bridge folds mask messages into a registry: one modal entry per source.
type Bridge struct {
	reg *Registry

	mu      sync.Mutex
	handles map[string]*Handle
}

// NewBridge returns a bridge registering into reg.
func NewBridge(reg *Registry) *Bridge {
	return &Bridge{reg: reg, handles: make(map[string]*Handle)}
}

// Handle applies msg. Messages of another type are rejected.
func (b *Bridge) Handle(msg MaskMessage) error {
	if msg.Type != MaskMessageType {
		events.Bridge.Rejected("type " + msg.Type)
		return ErrNotMaskMessage
	}
	source := strings.TrimSpace(msg.Source)
	if source == "" {
		source = "default"
	}
	visible := msg.wantsVisible()
	events.Bridge.Message(source, msg.Action, visible)

	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.EqualFold(msg.Action, ActionDetach) {
		if h, ok := b.handles[source]; ok {
			h.Detach()
			delete(b.handles, source)
		}
		return nil
	}
	h, ok := b.handles[source]
	if !ok {
		if !visible {
			return nil
		}
		b.handles[source] = b.reg.Attach(KindModal, true)
		return nil
	}
	h.SetVisible(visible)
	return nil
}

// Sources lists the sources that currently own a registry entry.
func (b *Bridge) Sources() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.handles))
	for source := range b.handles {
		out = append(out, source)
	}
	return out
}

// Close unregisters every entry created by the bridge.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for source, h := range b.handles {
		h.Detach()
		delete(b.handles, source)
	}
}
