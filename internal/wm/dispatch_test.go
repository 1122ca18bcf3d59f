package wm

import (
	"reflect"
	"testing"

	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

func setLeft() command.Command  { return command.SetPosition{Class: tiling.ColumnLeft} }
func setMax() command.Command   { return command.SetPosition{Class: tiling.Maximized} }
func setFloat() command.Command { return command.SetPosition{Class: tiling.Floating} }

func viewCmd(d int) command.Command { return command.View{Desktop: d} }
func tagCmd(d int) command.Command  { return command.Tag{Desktop: d} }
func focusNext() command.Command    { return command.FocusStack{Delta: 1} }

func TestView_OutOfRangeIsNoop(t *testing.T) {
	env := newTestWM(t, func(o *Options) { o.InitialDesktop = 1 })
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	before := snapshotGeometry(env)

	env.wm.Execute(viewCmd(5))
	env.wm.Execute(command.ViewRel{Delta: 2})
	env.wm.Execute(command.ViewRel{Delta: -2})

	if env.wm.current != 1 || env.fake.CurrentDesktop != 1 {
		t.Fatalf("expected desktop 1 unchanged, got %d", env.wm.current)
	}
	if !reflect.DeepEqual(before, snapshotGeometry(env)) {
		t.Fatalf("expected no geometry change")
	}
}

func TestView_SwitchesAndRestoresFocus(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.mapWindow(2, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "B"})
	env.wm.Execute(focusNext()) // focus 1

	env.wm.Execute(command.ViewRel{Delta: 1})
	if env.wm.current != 1 || env.fake.CurrentDesktop != 1 {
		t.Fatalf("expected desktop 1")
	}
	if env.wm.focused() != nil || env.fake.Focus != platform.None {
		t.Fatalf("expected no focus on an empty desktop")
	}

	env.wm.Execute(viewCmd(0))
	if f := env.wm.focused(); f == nil || f.Window != 1 {
		t.Fatalf("expected desktop 0 focus restored to 1, got %+v", f)
	}
}

func TestTag_WithoutFocusIsNoop(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.wm.Execute(tagCmd(2))
	env.wm.Execute(viewCmd(1))

	env.wm.Execute(tagCmd(1))
	env.wm.Execute(command.TagRel{Delta: 1})

	c := env.wm.reg.Lookup(1)
	if c.Desktop != 2 || env.wm.current != 1 {
		t.Fatalf("expected state unchanged, got client desktop %d current %d", c.Desktop, env.wm.current)
	}
}

func TestTag_MovesClientAndTransientsAndFollows(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "App"})
	env.mapWindow(2, platform.Rect{Width: 200, Height: 100}, platform.WindowHints{TransientFor: 1})
	env.mapWindow(3, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "Other"})
	env.wm.setFocus(env.wm.reg.Lookup(1))

	env.wm.Execute(command.TagRel{Delta: 2})

	if env.wm.current != 2 {
		t.Fatalf("expected view to follow to desktop 2, got %d", env.wm.current)
	}
	for _, id := range []platform.WindowID{1, 2} {
		if env.wm.reg.Lookup(id).Desktop != 2 || env.fake.Windows[id].Desktop != 2 {
			t.Fatalf("expected window %d on desktop 2", id)
		}
	}
	if f := env.wm.focused(); f == nil || f.Window != 1 {
		t.Fatalf("expected moved client focused, got %+v", f)
	}
	if env.wm.focus[0] != platform.None {
		t.Fatalf("expected old desktop slot cleared")
	}

	env.wm.Execute(viewCmd(0))
	if f := env.wm.focused(); f == nil || f.Window != 3 {
		t.Fatalf("expected desktop 0 to refocus window 3, got %+v", f)
	}
}

func TestTag_FocusedDialogMovesWithOwner(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "App"})
	env.mapWindow(2, platform.Rect{Width: 200, Height: 100}, platform.WindowHints{TransientFor: 1})
	if f := env.wm.focused(); f == nil || f.Window != 2 {
		t.Fatalf("expected new dialog focused, got %+v", f)
	}

	env.wm.Execute(tagCmd(1))

	owner, dialog := env.wm.reg.Lookup(1), env.wm.reg.Lookup(2)
	if owner.Desktop != 1 || dialog.Desktop != 1 {
		t.Fatalf("expected owner and dialog on desktop 1, got %d and %d", owner.Desktop, dialog.Desktop)
	}
	if env.fake.Windows[1].Desktop != 1 || env.fake.Windows[2].Desktop != 1 {
		t.Fatalf("expected _NET_WM_DESKTOP updated for both windows")
	}
	if env.wm.current != 1 {
		t.Fatalf("expected view to follow to desktop 1, got %d", env.wm.current)
	}
	if f := env.wm.focused(); f == nil || f.Window != 2 {
		t.Fatalf("expected dialog to keep focus, got %+v", f)
	}
	if env.wm.focus[0] != platform.None {
		t.Fatalf("expected desktop 0 focus slot cleared, got %v", env.wm.focus[0])
	}
}

func TestTag_OutOfRangeIsNoop(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.wm.Execute(tagCmd(3))
	env.wm.Execute(command.TagRel{Delta: -1})
	if env.wm.reg.Lookup(1).Desktop != 0 || env.wm.current != 0 {
		t.Fatalf("expected no change")
	}
}

func TestKill_CooperativeClose(t *testing.T) {
	env := newTestWM(t)
	env.fake.AddWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"}).Protocols = []string{platform.ProtocolDeleteWindow}
	env.wm.HandleEvent(platform.MapRequestEvent{Window: 1})

	env.wm.Execute(command.Kill{})

	if !env.fake.SentTo(1, platform.ProtocolDeleteWindow) {
		t.Fatalf("expected WM_DELETE_WINDOW to be sent")
	}
	if len(env.fake.Killed) != 0 {
		t.Fatalf("expected no forced kill, got %v", env.fake.Killed)
	}
}

func TestKill_ForcedWithoutProtocol(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})

	env.wm.Execute(command.Kill{})

	if len(env.fake.Killed) != 1 || env.fake.Killed[0] != 1 {
		t.Fatalf("expected window 1 killed, got %v", env.fake.Killed)
	}
}

func TestKill_NoFocusIsNoop(t *testing.T) {
	env := newTestWM(t)
	env.wm.Execute(command.Kill{})
	if len(env.fake.Killed) != 0 || len(env.fake.Sent) != 0 {
		t.Fatalf("expected nothing sent")
	}
}

func TestSetSplit(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.wm.Execute(setLeft())

	env.wm.Execute(command.SetSplit{Delta: 0.25})
	if env.wm.split != 0.75 {
		t.Fatalf("expected split 0.75, got %v", env.wm.split)
	}
	if got := env.fake.Windows[1].Geometry.Width; got != 598 {
		t.Fatalf("expected left column width 598, got %d", got)
	}

	env.wm.Execute(command.SetSplit{Delta: 0.25})
	if env.wm.split != 0.75 {
		t.Fatalf("expected adjustment past the bound to be ignored, got %v", env.wm.split)
	}
}

func TestSpawn(t *testing.T) {
	env := newTestWM(t)
	env.wm.Execute(command.Spawn{Name: "term", Argv: []string{"xterm", "-fa", "Mono"}})
	if len(env.spawner.argv) != 1 || env.spawner.argv[0][0] != "xterm" {
		t.Fatalf("expected xterm spawned, got %v", env.spawner.argv)
	}
}

func TestSetPosition_NoFocusIsNoop(t *testing.T) {
	env := newTestWM(t)
	env.wm.Execute(setLeft())
	if len(env.fake.Windows) != 0 {
		t.Fatalf("unexpected windows")
	}
}
