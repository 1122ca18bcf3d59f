// Package daemon runs a window manager session: it owns the single
// goroutine that touches window manager state, feeds it windowing-system
// events and IPC requests, and tears the session down.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/ipc"
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/wm"
)

// ErrNotRunning is returned to IPC callers when the session loop is not
// accepting requests.
var ErrNotRunning = errors.New("session is not running")

// Core is the part of the window manager the session drives.
type Core interface {
	Start() error
	Shutdown()
	HandleEvent(ev platform.Event)
	Execute(cmd command.Command)
	Done() bool
	Status() wm.Status
	Clients() []wm.ClientInfo
}

// Config wires a session together.
type Config struct {
	Backend platform.Backend
	Core    Core
	// Commands resolves spawn names for IPC EXEC requests.
	Commands map[string][]string
	// Autostart is run once after the window manager has started.
	Autostart func() error
	Logger    *slog.Logger
}

type request struct {
	fn   func()
	done chan struct{}
}

type eventResult struct {
	ev  platform.Event
	err error
}

// Session serializes all access to the window manager onto the goroutine
// running Run.
type Session struct {
	backend   platform.Backend
	core      Core
	commands  map[string][]string
	autostart func() error
	log       *slog.Logger

	requests chan request
	stopped  chan struct{}
	started  time.Time
}

var _ ipc.Handler = (*Session)(nil)

// New creates a session. Run must be called to start it.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		backend:   cfg.Backend,
		core:      cfg.Core,
		commands:  cfg.Commands,
		autostart: cfg.Autostart,
		log:       logger,
		requests:  make(chan request),
		stopped:   make(chan struct{}),
	}
}

// Run starts the window manager and processes events until a quit command,
// ctx cancellation or loss of the display connection. The window manager
// is shut down before Run returns. Connection loss is returned as an error
// wrapping platform.ErrConnectionClosed.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)

	if err := s.core.Start(); err != nil {
		return err
	}
	defer s.core.Shutdown()
	s.started = time.Now()

	if s.autostart != nil {
		if err := s.autostart(); err != nil {
			s.log.Warn("autostart failed", "error", err)
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	events := make(chan eventResult)
	go s.pump(events, stop)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session cancelled", "reason", context.Cause(ctx))
			return nil

		case res := <-events:
			if res.err != nil {
				return fmt.Errorf("event stream: %w", res.err)
			}
			s.dispatch(res.ev)

		case req := <-s.requests:
			s.call(req.fn)
			close(req.done)
		}

		if s.core.Done() {
			s.log.Info("quit requested")
			return nil
		}
	}
}

// pump forwards backend events until the stream fails or stop is closed.
func (s *Session) pump(events chan<- eventResult, stop <-chan struct{}) {
	for {
		ev, err := s.backend.NextEvent()
		select {
		case events <- eventResult{ev: ev, err: err}:
		case <-stop:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) dispatch(ev platform.Event) {
	s.call(func() { s.core.HandleEvent(ev) })
}

// call runs fn and recovers a panic so that one bad event cannot take the
// session down.
func (s *Session) call(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("handler panic recovered", "error", err, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// do runs fn on the session goroutine and waits for it.
func (s *Session) do(fn func()) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case s.requests <- req:
	case <-s.stopped:
		return ErrNotRunning
	}
	<-req.done
	return nil
}

// Status implements ipc.Handler.
func (s *Session) Status() (ipc.StatusData, error) {
	var out ipc.StatusData
	err := s.do(func() {
		st := s.core.Status()
		out = ipc.StatusData{
			CurrentDesktop: st.CurrentDesktop,
			Desktops:       st.Desktops,
			SplitFactor:    st.SplitFactor,
			DockHeight:     st.DockHeight,
			ScreenWidth:    st.ScreenWidth,
			ScreenHeight:   st.ScreenHeight,
			Focused:        uint32(st.Focused),
			ClientCount:    st.Clients,
			Dragging:       st.Dragging,
			UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		}
		monitors, err := s.backend.Monitors()
		if err != nil {
			s.log.Debug("listing monitors failed", "error", err)
			return
		}
		for _, m := range monitors {
			out.Monitors = append(out.Monitors, ipc.MonitorInfo{
				ID:      m.ID,
				Name:    m.Name,
				X:       m.Bounds.X,
				Y:       m.Bounds.Y,
				Width:   m.Bounds.Width,
				Height:  m.Bounds.Height,
				Primary: m.Primary,
			})
		}
	})
	return out, err
}

// Clients implements ipc.Handler.
func (s *Session) Clients() ([]ipc.ClientInfo, error) {
	var out []ipc.ClientInfo
	err := s.do(func() {
		for _, c := range s.core.Clients() {
			out = append(out, ipc.ClientInfo{
				Window:     uint32(c.Window),
				Class:      c.Class,
				Instance:   c.Instance,
				Desktop:    c.Desktop,
				Layout:     c.Layout.String(),
				X:          c.Geometry.X,
				Y:          c.Geometry.Y,
				Width:      c.Geometry.Width,
				Height:     c.Geometry.Height,
				Fullscreen: c.Fullscreen,
				FixedSize:  c.FixedSize,
				Dock:       c.IsDock,
				Transient:  uint32(c.TransientOf),
				Focused:    c.Focused,
				Visible:    c.Visible,
			})
		}
	})
	return out, err
}

// Exec implements ipc.Handler. The action is parsed off the session
// goroutine and executed on it.
func (s *Session) Exec(action, arg string) error {
	cmd, err := command.Parse(action, arg, s.commands)
	if err != nil {
		return err
	}
	s.log.Debug("executing IPC command", "action", cmd.Action(), "arg", arg)
	return s.do(func() { s.core.Execute(cmd) })
}
