// Package shell bundles the coordination core of one shell instance. Each
// Shell owns its registry, host, bridge and navigation coordinator; nothing
// is shared between instances.
package shell

import (
	"sync"
	"time"

	"github.com/atomicstack/navshell/internal/data/dispatcher"
	"github.com/atomicstack/navshell/internal/navigation"
	"github.com/atomicstack/navshell/internal/overlay"
	"github.com/atomicstack/navshell/internal/selection"
	"github.com/atomicstack/navshell/internal/state"
)

type Options struct {
	// Store persists the locked selection. Nil keeps it in memory.
	Store selection.Store
	Grace time.Duration
	Clock navigation.Clock
}

type Shell struct {
	Registry   *overlay.Registry
	Host       *overlay.Host
	Bridge     *overlay.Bridge
	Nav        *navigation.Coordinator
	Store      selection.Store
	Trees      state.TreeStore
	Dispatcher *dispatcher.Dispatcher

	once sync.Once
}

// New constructs a shell. Call Teardown when done with it.
func New(opts Options) *Shell {
	store := opts.Store
	if store == nil {
		store = selection.NewMemory()
	}
	reg := overlay.NewRegistry()
	nav := navigation.New(
		navigation.WithStore(store),
		navigation.WithGrace(opts.Grace),
		navigation.WithClock(opts.Clock),
	)
	trees := state.NewTreeStore()
	return &Shell{
		Registry:   reg,
		Host:       overlay.NewHost(reg),
		Bridge:     overlay.NewBridge(reg),
		Nav:        nav,
		Store:      store,
		Trees:      trees,
		Dispatcher: dispatcher.New(trees, nav),
	}
}

// Teardown cancels pending timers, drops bridge registrations and detaches
// the host. It is safe to call more than once.
func (s *Shell) Teardown() {
	s.once.Do(func() {
		s.Nav.Close()
		s.Bridge.Close()
		s.Host.Close()
	})
}
