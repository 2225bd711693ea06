package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/navshell/internal/backend"
	"github.com/atomicstack/navshell/internal/bridge"
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/navigation"
	"github.com/atomicstack/navshell/internal/overlay"
	"github.com/atomicstack/navshell/internal/selection"
	"github.com/atomicstack/navshell/internal/shell"
	"github.com/atomicstack/navshell/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	NavURL    string
	NavFile   string
	StateDir  string
	Ephemeral bool
	// ResetSelection erases the stored selection before the store is used.
	ResetSelection bool
	Grace          time.Duration
	Poll           time.Duration
	FetchTimeout   time.Duration
	BridgeSocket   string
	Start          string
	Width          int
	Height         int
	ShowFooter     bool
}

// Source picks the payload source named by the config.
func (c Config) Source() (backend.Source, error) {
	switch {
	case c.NavURL != "":
		return backend.HTTPSource{URL: c.NavURL}, nil
	case c.NavFile != "":
		return backend.FileSource{Path: c.NavFile}, nil
	}
	return nil, errors.New("no navigation source configured")
}

// OpenStore returns the selection store for the config.
func (c Config) OpenStore() (selection.Store, error) {
	if c.Ephemeral {
		return selection.NewMemory(), nil
	}
	store, err := selection.OpenDisk(c.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open selection store: %w", err)
	}
	if c.ResetSelection {
		if err := store.Clear(); err != nil {
			return nil, fmt.Errorf("reset selection: %w", err)
		}
	}
	return store, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	source, err := cfg.Source()
	if err != nil {
		return err
	}
	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}

	sh := shell.New(shell.Options{Store: store, Grace: cfg.Grace})
	defer sh.Teardown()

	watcher, err := backend.NewWatcher(backend.Options{
		Source:  source,
		Poll:    cfg.Poll,
		Timeout: cfg.FetchTimeout,
	})
	if err != nil {
		return fmt.Errorf("start navigation watcher: %w", err)
	}
	defer func() {
		watcher.Stop()
		watcher.Wait()
	}()

	model := ui.NewModel(ui.Options{
		Shell:      sh,
		Watcher:    watcher,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Start:      cfg.Start,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// grace timers fire outside Update; Send must not block the timer goroutine
	unsubscribe := sh.Nav.OnChange(func(navigation.Snapshot) {
		go program.Send(ui.NavChangedMsg{})
	})
	defer unsubscribe()

	if cfg.BridgeSocket != "" {
		listener, err := bridge.Listen(cfg.BridgeSocket, func(msg overlay.MaskMessage) {
			program.Send(ui.BridgeMsg{Message: msg})
		})
		if err != nil {
			return err
		}
		defer listener.Close()
	}

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}
