package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/navshell/internal/backend"
	"github.com/atomicstack/navshell/internal/data/dispatcher"
	"github.com/atomicstack/navshell/internal/navigation"
	"github.com/atomicstack/navshell/internal/overlay"
	"github.com/atomicstack/navshell/internal/shell"
	"github.com/atomicstack/navshell/internal/theme"
	"github.com/atomicstack/navshell/internal/ui/command"
	uistate "github.com/atomicstack/navshell/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// NavChangedMsg wakes the model after the coordinator changed outside of
// Update, for example when a grace timer fired.
type NavChangedMsg struct{}

// BridgeMsg carries one out-of-band overlay notification into the UI loop.
type BridgeMsg struct {
	Message overlay.MaskMessage
}

type Options struct {
	Shell      *shell.Shell
	Watcher    *backend.Watcher
	Width      int
	Height     int
	ShowFooter bool
	// Start is an href locked once the first usable tree arrives.
	Start string
}

// Model implements the Bubble Tea model for the navigation shell.
type Model struct {
	shell      *shell.Shell
	nav        *navigation.Coordinator
	host       *overlay.Host
	reg        *overlay.Registry
	dispatcher *dispatcher.Dispatcher
	backend    *backend.Watcher
	bus        *command.Bus
	zones      *zone.Manager

	snap        navigation.Snapshot
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	start       string

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	overlays     map[string]*overlay.Handle
	palette      *uistate.List
	pointer      pointerTarget
	tooltipHref  string
	pillOffsets  map[string]int
	filterCursor cursor.Model

	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the UI around an existing shell. Close releases the
// overlays it registers.
func NewModel(opts Options) *Model {
	sh := opts.Shell
	if sh == nil {
		sh = shell.New(shell.Options{})
	}
	m := &Model{
		shell:       sh,
		nav:         sh.Nav,
		host:        sh.Host,
		reg:         sh.Registry,
		dispatcher:  sh.Dispatcher,
		backend:     opts.Watcher,
		bus:         command.New(),
		zones:       zone.New(),
		showFooter:  opts.ShowFooter,
		start:       opts.Start,
		palette:     uistate.NewList(nil),
		pillOffsets: map[string]int{},
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if styles.Backdrop != nil {
		m.host.SetBackdropStyle(*styles.Backdrop)
	}
	m.attachOverlays()
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.snap = m.nav.Snapshot()
	m.palette.SetItems(paletteItems(m.nav.Tree()))
	m.registerHandlers()
	return m
}

// Close detaches the overlays owned by the model and stops zone tracking.
func (m *Model) Close() {
	for _, h := range m.overlays {
		h.Detach()
	}
	m.zones.Close()
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if m.paletteOpen() {
		if cmd := m.updateFilterCursorModel(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):       m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
		reflect.TypeOf(NavChangedMsg{}):      m.handleNavChangedMsg,
		reflect.TypeOf(BridgeMsg{}):          m.handleBridgeMsg,
		reflect.TypeOf(navigateResultMsg{}):  m.handleNavigateResultMsg,
		reflect.TypeOf(reloadRequestedMsg{}): m.handleReloadRequestedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate refreshes the snapshot every view is rendered from.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.snap = m.nav.Snapshot()
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleNavChangedMsg(tea.Msg) tea.Cmd {
	return nil
}

func (m *Model) handleBridgeMsg(msg tea.Msg) tea.Cmd {
	bm, ok := msg.(BridgeMsg)
	if !ok {
		return nil
	}
	if err := m.shell.Bridge.Handle(bm.Message); err != nil {
		m.errMsg = err.Error()
	}
	return nil
}

// Snapshot returns the coordinator state the last render used.
func (m *Model) Snapshot() navigation.Snapshot {
	return m.snap
}
