package wm

import (
	"testing"

	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/platform/platformtest"
)

func TestFocus_NewClientTakesFocus(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.mapWindow(2, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "B"})

	if env.fake.Focus != 2 || env.fake.Active != 2 {
		t.Fatalf("expected window 2 focused and active, got focus=%d active=%d", env.fake.Focus, env.fake.Active)
	}
	if env.fake.Windows[2].Color != focusedColor || env.fake.Windows[1].Color != normalColor {
		t.Fatalf("unexpected border colors: 1=%#x 2=%#x", env.fake.Windows[1].Color, env.fake.Windows[2].Color)
	}
	if !env.fake.ButtonGrab[2] || env.fake.ButtonGrab[1] {
		t.Fatalf("expected only the focused client to have the focused button grab")
	}
	if env.fake.Top() != 2 {
		t.Fatalf("expected window 2 on top, got %d", env.fake.Top())
	}
}

func TestFocus_TopmostTransientGetsInput(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "App"})
	env.mapWindow(2, platform.Rect{Width: 200, Height: 100}, platform.WindowHints{TransientFor: 1})
	env.mapWindow(3, platform.Rect{Width: 100, Height: 50}, platform.WindowHints{TransientFor: 2})

	env.wm.setFocus(env.wm.reg.Lookup(1))
	env.wm.restack()

	if env.fake.Focus != 3 {
		t.Fatalf("expected input focus on the innermost transient, got %d", env.fake.Focus)
	}
	if env.fake.Active != 1 {
		t.Fatalf("expected window 1 advertised active, got %d", env.fake.Active)
	}
	order := env.fake.Order
	if len(order) < 3 || order[len(order)-3] != 1 || order[len(order)-2] != 2 || order[len(order)-1] != 3 {
		t.Fatalf("expected stacking ... 1 2 3, got %v", order)
	}
}

func TestFocus_TakeFocusProtocol(t *testing.T) {
	env := newTestWM(t)
	env.fake.AddWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"}).Protocols = []string{platform.ProtocolTakeFocus}
	env.wm.HandleEvent(platform.MapRequestEvent{Window: 1})

	if !env.fake.SentTo(1, platform.ProtocolTakeFocus) {
		t.Fatalf("expected WM_TAKE_FOCUS to be sent")
	}
}

func TestFocusStack_CyclesVisibleNonTransients(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.mapWindow(2, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "B"})
	env.mapWindow(3, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "C"})
	env.mapWindow(4, platform.Rect{Width: 50, Height: 50}, platform.WindowHints{TransientFor: 2})
	env.mapWindow(5, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "Thunderbird"}) // desktop 0 too
	env.wm.Execute(tagCmd(1))
	env.wm.Execute(viewCmd(0))

	// list order is 4 3 2 1 on desktop 0; 4 is transient
	env.wm.setFocus(env.wm.reg.Lookup(3))

	var got []platform.WindowID
	for i := 0; i < 4; i++ {
		env.wm.HandleEvent(platform.KeyPressEvent{Mods: platformtest.Mod1, Keycode: 'j'})
		got = append(got, env.wm.focused().Window)
	}
	want := []platform.WindowID{2, 1, 3, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected focus sequence %v, got %v", want, got)
		}
	}

	env.wm.HandleEvent(platform.KeyPressEvent{Mods: platformtest.Mod1, Keycode: 'k'})
	if f := env.wm.focused(); f.Window != 3 {
		t.Fatalf("expected previous to wrap back to 3, got %d", f.Window)
	}
}

func TestFocusStack_EmptyDesktop(t *testing.T) {
	env := newTestWM(t)
	env.wm.Execute(focusNext())
	if env.wm.focused() != nil {
		t.Fatalf("expected no focus")
	}
}

func TestUnmanage_FocusCascade(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.mapWindow(2, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "B"})
	env.mapWindow(3, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "C"})

	for _, gone := range []platform.WindowID{3, 1, 2} {
		env.wm.HandleEvent(platform.DestroyNotifyEvent{Window: gone})

		f := env.wm.focused()
		if env.wm.reg.Len() == 0 {
			if f != nil || env.fake.Focus != platform.None || env.fake.Active != platform.None {
				t.Fatalf("expected no focus once every client is gone")
			}
			continue
		}
		if f == nil || f.Window == gone || !env.wm.visible(f) || env.wm.reg.Parent(f) != nil {
			t.Fatalf("after destroying %d: bad focus %+v", gone, f)
		}
		if env.fake.Focus != f.Window {
			t.Fatalf("after destroying %d: input focus on %d, want %d", gone, env.fake.Focus, f.Window)
		}
	}
}

func TestUnmanage_TransientFallsBackToParent(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "App"})
	env.mapWindow(5, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "Other"})
	env.mapWindow(2, platform.Rect{Width: 200, Height: 100}, platform.WindowHints{TransientFor: 1})
	if env.wm.focused().Window != 2 {
		t.Fatalf("expected the dialog focused")
	}

	env.wm.HandleEvent(platform.UnmapNotifyEvent{Window: 2})

	if f := env.wm.focused(); f == nil || f.Window != 1 {
		t.Fatalf("expected focus to fall back to the owner, got %+v", f)
	}
	if env.fake.Windows[2].State != platform.WMStateWithdrawn {
		t.Fatalf("expected unmapped window withdrawn")
	}
}

func TestUnmanage_OwnerClearsTransientLinks(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 400, Height: 300}, platform.WindowHints{Class: "App"})
	env.mapWindow(2, platform.Rect{Width: 200, Height: 100}, platform.WindowHints{TransientFor: 1})

	env.wm.HandleEvent(platform.DestroyNotifyEvent{Window: 1})

	c := env.wm.reg.Lookup(2)
	if c == nil || c.TransientOf != platform.None {
		t.Fatalf("expected dialog kept with its owner link cleared, got %+v", c)
	}
	if f := env.wm.focused(); f != c {
		t.Fatalf("expected the former dialog focused")
	}
}

func TestUnmanage_OtherDesktopSlot(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.wm.Execute(tagCmd(1))
	env.wm.Execute(viewCmd(0))
	env.mapWindow(2, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "B"})

	env.wm.HandleEvent(platform.DestroyNotifyEvent{Window: 1})
	if env.wm.focus[1] != platform.None {
		t.Fatalf("expected desktop 1 slot cleared, got %d", env.wm.focus[1])
	}
	if env.wm.focused().Window != 2 {
		t.Fatalf("expected focus on desktop 0 unchanged")
	}
}

func TestButtonPress_FocusesAndReplays(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "A"})
	env.mapWindow(2, platform.Rect{Width: 100, Height: 100}, platform.WindowHints{Class: "B"})

	env.wm.HandleEvent(platform.ButtonPressEvent{Window: 1, Button: 1})

	if env.wm.focused().Window != 1 || env.fake.Top() != 1 {
		t.Fatalf("expected click to focus and raise window 1")
	}
	if env.fake.Replayed != 1 {
		t.Fatalf("expected the click to be replayed, got %d", env.fake.Replayed)
	}
	if env.fake.PointerGrabbed {
		t.Fatalf("plain click must not start a drag")
	}
}

func TestButtonPress_BindingsNeedAClient(t *testing.T) {
	env := newTestWM(t)
	env.mapWindow(1, platform.Rect{X: 100, Y: 100, Width: 300, Height: 200}, floatingHints())

	env.wm.HandleEvent(platform.ButtonPressEvent{Window: 500, Mods: platformtest.Mod1, Button: 1, RootX: 10, RootY: 10})

	if env.fake.PointerGrabbed || env.wm.Dragging() {
		t.Fatalf("a click outside any client must not start a drag")
	}
	if env.fake.Replayed != 1 {
		t.Fatalf("expected the click to be replayed, got %d", env.fake.Replayed)
	}

	env.wm.HandleEvent(platform.ButtonPressEvent{Window: 1, Mods: platformtest.Mod1, Button: 1, RootX: 110, RootY: 110})
	if !env.wm.Dragging() {
		t.Fatalf("expected a Mod1 click on the client to start a move")
	}
}
