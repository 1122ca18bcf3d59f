// Package wm is the window-management core: the client registry, window
// classification, layout, focus and stacking, and the dispatch of input
// events and bound commands.
//
// A WM is not safe for concurrent use. Every method must be called from the
// goroutine that runs the session loop.
package wm

import (
	"fmt"
	"log/slog"

	"github.com/xi/xiwm/internal/hotkeys"
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// Name is advertised on the supporting-WM check window.
const Name = "xiwm"

// Spawner launches external programs without waiting for them.
type Spawner interface {
	Spawn(argv []string) error
}

// Options is the immutable startup configuration of a WM.
type Options struct {
	Desktops       int
	InitialDesktop int
	NormalColor    uint32
	FocusedColor   uint32
	SplitFactor    float64
	Rules          []Rule
	Bindings       *hotkeys.Table
	Spawner        Spawner
	Logger         *slog.Logger
}

// WM holds the session state and implements every operation on it.
type WM struct {
	backend platform.Backend
	opts    Options
	log     *slog.Logger
	reg     *Registry

	current    int
	focus      []platform.WindowID // one slot per desktop
	active     platform.WindowID   // client currently drawn as focused
	split      float64
	dockHeight int
	width      int
	height     int

	drag     *dragState
	deferred []platform.Event
	quit     bool
}

// New validates opts and returns a WM bound to backend. Nothing is sent to
// the backend until Start.
func New(backend platform.Backend, opts Options) (*WM, error) {
	if opts.Desktops < 1 {
		return nil, fmt.Errorf("desktop count must be at least 1, got %d", opts.Desktops)
	}
	if opts.InitialDesktop < 0 || opts.InitialDesktop >= opts.Desktops {
		return nil, fmt.Errorf("initial desktop %d out of range [0, %d)", opts.InitialDesktop, opts.Desktops)
	}
	if opts.SplitFactor < tiling.MinSplit || opts.SplitFactor > tiling.MaxSplit {
		return nil, fmt.Errorf("split factor %v out of range [%v, %v]", opts.SplitFactor, tiling.MinSplit, tiling.MaxSplit)
	}
	if opts.Bindings == nil {
		table, err := hotkeys.NewTable(backend, nil, nil)
		if err != nil {
			return nil, err
		}
		opts.Bindings = table
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &WM{
		backend: backend,
		opts:    opts,
		log:     logger,
		reg:     newRegistry(),
		current: opts.InitialDesktop,
		focus:   make([]platform.WindowID, opts.Desktops),
		split:   opts.SplitFactor,
	}, nil
}

// Start takes over the display: it claims the root window, installs the key
// grabs and adopts windows that are already mapped.
func (m *WM) Start() error {
	if err := m.backend.Init(Name, m.opts.Desktops); err != nil {
		return err
	}
	m.width, m.height = m.backend.ScreenSize()
	m.backend.SetCurrentDesktop(m.current)
	m.backend.SetClientList(nil)
	m.backend.GrabKeys(m.opts.Bindings.KeySpecs())

	if err := m.scan(); err != nil {
		m.log.Warn("adopting existing windows failed", "error", err)
	}
	m.log.Info("window manager started",
		"screen", fmt.Sprintf("%dx%d", m.width, m.height),
		"desktops", m.opts.Desktops,
		"clients", m.reg.Len())
	return nil
}

// scan manages already-mapped top-level windows, owners before transients.
func (m *WM) scan() error {
	windows, err := m.backend.TopLevelWindows()
	if err != nil {
		return err
	}

	adoptable := func(w platform.WindowID) (platform.WindowHints, bool) {
		attrs, err := m.backend.Attributes(w)
		if err != nil || attrs.OverrideRedirect {
			return platform.WindowHints{}, false
		}
		if !attrs.Viewable && !attrs.Iconic {
			return platform.WindowHints{}, false
		}
		return m.backend.Hints(w), true
	}

	for _, w := range windows {
		if hints, ok := adoptable(w); ok && hints.TransientFor == platform.None {
			m.manage(w)
		}
	}
	for _, w := range windows {
		if hints, ok := adoptable(w); ok && hints.TransientFor != platform.None {
			m.manage(w)
		}
	}
	return nil
}

// Shutdown releases every client and gives the display back.
func (m *WM) Shutdown() {
	if m.drag != nil {
		m.backend.UngrabPointer()
		m.drag = nil
	}
	for m.reg.Len() > 0 {
		c := m.reg.All()[0]
		m.reg.Remove(c.Window)
		m.backend.Release(c.Window)
	}
	m.backend.SetClientList(nil)
	m.backend.SetInputFocus(platform.None)
	m.backend.SetActiveWindow(platform.None)
	m.backend.Cleanup()
	m.log.Info("window manager stopped")
}

// Done reports whether a quit command was executed.
func (m *WM) Done() bool {
	return m.quit
}

// Status is a snapshot of the session state.
type Status struct {
	CurrentDesktop int
	Desktops       int
	SplitFactor    float64
	DockHeight     int
	ScreenWidth    int
	ScreenHeight   int
	Focused        platform.WindowID
	Clients        int
	Dragging       bool
}

// Status returns a snapshot of the session state.
func (m *WM) Status() Status {
	var focused platform.WindowID
	if c := m.focused(); c != nil {
		focused = c.Window
	}
	return Status{
		CurrentDesktop: m.current,
		Desktops:       m.opts.Desktops,
		SplitFactor:    m.split,
		DockHeight:     m.dockHeight,
		ScreenWidth:    m.width,
		ScreenHeight:   m.height,
		Focused:        focused,
		Clients:        m.reg.Len(),
		Dragging:       m.drag != nil,
	}
}

// ClientInfo is a snapshot of one client.
type ClientInfo struct {
	Window      platform.WindowID
	Class       string
	Instance    string
	Desktop     int
	Layout      tiling.LayoutClass
	Geometry    tiling.Rect
	Fullscreen  bool
	FixedSize   bool
	IsDock      bool
	TransientOf platform.WindowID
	Focused     bool
	Visible     bool
}

// Clients returns a snapshot of every client in list order.
func (m *WM) Clients() []ClientInfo {
	focused := m.focused()
	out := make([]ClientInfo, 0, m.reg.Len())
	for _, c := range m.reg.All() {
		out = append(out, ClientInfo{
			Window:      c.Window,
			Class:       c.WMClass,
			Instance:    c.Instance,
			Desktop:     c.Desktop,
			Layout:      c.Class,
			Geometry:    c.Geometry,
			Fullscreen:  c.Fullscreen,
			FixedSize:   c.FixedSize,
			IsDock:      c.IsDock,
			TransientOf: c.TransientOf,
			Focused:     c == focused,
			Visible:     m.visible(c),
		})
	}
	return out
}
