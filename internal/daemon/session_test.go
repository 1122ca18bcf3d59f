package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/hotkeys"
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/platform/platformtest"
	"github.com/xi/xiwm/internal/wm"
)

var testGeom = platform.Rect{X: 10, Y: 10, Width: 200, Height: 100}

// chanBackend blocks in NextEvent until an event is sent or the channel is
// closed, like a live display connection.
type chanBackend struct {
	*platformtest.Backend
	events chan platform.Event
}

func (b *chanBackend) NextEvent() (platform.Event, error) {
	ev, ok := <-b.events
	if !ok {
		return nil, platform.ErrConnectionClosed
	}
	return ev, nil
}

func newCore(t *testing.T, backend platform.Backend) *wm.WM {
	t.Helper()
	table, err := hotkeys.NewTable(backend,
		[]hotkeys.Binding{{Chord: "Mod1-Shift-q", Command: command.Quit{}}},
		nil,
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	core, err := wm.New(backend, wm.Options{
		Desktops:    3,
		SplitFactor: 0.5,
		Bindings:    table,
	})
	if err != nil {
		t.Fatalf("wm.New: %v", err)
	}
	return core
}

func TestRun_ConnectionLossIsFatal(t *testing.T) {
	fake := platformtest.New(800, 600)
	fake.AddWindow(10, testGeom, platform.WindowHints{})
	fake.Push(platform.MapRequestEvent{Window: 10})

	autostarted := false
	s := New(Config{
		Backend:   fake,
		Core:      newCore(t, fake),
		Autostart: func() error { autostarted = true; return nil },
	})

	err := s.Run(context.Background())
	if !errors.Is(err, platform.ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
	if !autostarted {
		t.Fatalf("expected autostart to run")
	}
	if !fake.Initialized || !fake.CleanedUp {
		t.Fatalf("expected init and cleanup, got %v/%v", fake.Initialized, fake.CleanedUp)
	}
	if fake.Windows[10].State != platform.WMStateWithdrawn {
		t.Fatalf("expected the managed window to be released on shutdown")
	}
}

func TestRun_QuitKey(t *testing.T) {
	fake := platformtest.New(800, 600)
	fake.Push(
		platform.KeyPressEvent{Mods: hotkeys.Mod1 | hotkeys.ModShift, Keycode: 'q'},
		platform.MapRequestEvent{Window: 99},
	)

	s := New(Config{Backend: fake, Core: newCore(t, fake)})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("expected clean quit, got %v", err)
	}
	if !fake.CleanedUp {
		t.Fatalf("expected cleanup after quit")
	}
}

type panickyCore struct {
	*wm.WM
	handled int
}

func (c *panickyCore) HandleEvent(ev platform.Event) {
	c.handled++
	if _, ok := ev.(platform.ScreenChangeEvent); ok {
		panic("boom")
	}
	c.WM.HandleEvent(ev)
}

func TestRun_RecoversHandlerPanic(t *testing.T) {
	fake := platformtest.New(800, 600)
	fake.AddWindow(10, testGeom, platform.WindowHints{})
	fake.Push(
		platform.ScreenChangeEvent{Width: 1024, Height: 768},
		platform.MapRequestEvent{Window: 10},
	)

	core := &panickyCore{WM: newCore(t, fake)}
	s := New(Config{Backend: fake, Core: core})
	if err := s.Run(context.Background()); !errors.Is(err, platform.ErrConnectionClosed) {
		t.Fatalf("expected the loop to survive until the stream ends, got %v", err)
	}
	if core.handled != 2 {
		t.Fatalf("expected both events to be handled, got %d", core.handled)
	}
}

// waitForClients polls until the session manages n clients. The pump may
// hand over an event after a concurrently issued request.
func waitForClients(t *testing.T, s *Session, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		clients, err := s.Clients()
		if err != nil {
			t.Fatalf("Clients: %v", err)
		}
		if len(clients) == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d clients", n)
}

func TestSession_IPCRequests(t *testing.T) {
	backend := &chanBackend{Backend: platformtest.New(800, 600), events: make(chan platform.Event)}
	backend.AddWindow(10, testGeom, platform.WindowHints{})

	s := New(Config{
		Backend:  backend,
		Core:     newCore(t, backend),
		Commands: map[string][]string{"term": {"xterm"}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	backend.events <- platform.MapRequestEvent{Window: 10}
	waitForClients(t, s, 1)

	if err := s.Exec("view", "2"); err != nil {
		t.Fatalf("Exec view: %v", err)
	}
	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.CurrentDesktop != 2 || status.Desktops != 3 || status.ClientCount != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(status.Monitors) != 1 || status.Monitors[0].Width != 800 || !status.Monitors[0].Primary {
		t.Fatalf("unexpected monitors %+v", status.Monitors)
	}

	clients, err := s.Clients()
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	if len(clients) != 1 || clients[0].Window != 10 || clients[0].Desktop != 0 || clients[0].Visible {
		t.Fatalf("unexpected clients %+v", clients)
	}

	if err := s.Exec("fly", ""); err == nil {
		t.Fatalf("expected unknown action to fail")
	}
	if err := s.Exec("spawn", "editor"); err == nil {
		t.Fatalf("expected unknown spawn name to fail")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not stop")
	}
	close(backend.events)

	if _, err := s.Status(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after stop, got %v", err)
	}
}

func TestSession_QuitOverIPC(t *testing.T) {
	backend := &chanBackend{Backend: platformtest.New(800, 600), events: make(chan platform.Event)}
	s := New(Config{Backend: backend, Core: newCore(t, backend)})

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	if err := s.Exec("quit", ""); err != nil {
		t.Fatalf("Exec quit: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean quit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not quit")
	}
	close(backend.events)
}
