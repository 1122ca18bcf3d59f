package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ConfigureIgnoreMods looks up the modifiers Num Lock and Scroll Lock are
// mapped to and installs every lock combination as xevent.IgnoreMods, so
// that grabs made through keybind and mousebind fire regardless of lock
// state. It returns the union of the lock masks, Caps Lock included.
func (c *Connection) ConfigureIgnoreMods() uint16 {
	numLock := modMaskForKeysym(c, "Num_Lock")
	scrollLock := modMaskForKeysym(c, "Scroll_Lock")

	xevent.IgnoreMods = IgnoreCombos(xproto.ModMaskLock, numLock, scrollLock)
	return xproto.ModMaskLock | numLock | scrollLock
}

func modMaskForKeysym(c *Connection, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(c.XUtil, keysym) {
		if mask := keybind.ModGet(c.XUtil, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

// IgnoreCombos returns every combination of the given lock masks, including
// the empty one, sorted and without duplicates. Zero masks are skipped.
func IgnoreCombos(masks ...uint16) []uint16 {
	var base []uint16
	for _, m := range masks {
		if m == 0 {
			continue
		}
		dup := false
		for _, b := range base {
			if b == m {
				dup = true
				break
			}
		}
		if !dup {
			base = append(base, m)
		}
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	combos := make([]uint16, 0, len(unique))
	for mask := range unique {
		combos = append(combos, mask)
	}
	sort.Slice(combos, func(i, j int) bool { return combos[i] < combos[j] })
	return combos
}

// ResolveKey parses a chord such as "Mod1-Shift-Return" against the current
// keyboard mapping.
func (c *Connection) ResolveKey(chord string) (uint16, []xproto.Keycode, error) {
	return keybind.ParseString(c.XUtil, chord)
}

// ResolveButton parses a chord such as "Mod1-1".
func (c *Connection) ResolveButton(chord string) (uint16, xproto.Button, error) {
	mods, button, err := mousebind.ParseString(c.XUtil, chord)
	if err != nil {
		return 0, 0, err
	}
	if button == 0 {
		return 0, 0, fmt.Errorf("no button in %q", chord)
	}
	return mods, button, nil
}

// UngrabAllKeys drops every key grab on the root window.
func (c *Connection) UngrabAllKeys() {
	xproto.UngrabKey(c.Conn(), xproto.GrabAny, c.Root, xproto.ModMaskAny)
}

// GrabKey grabs a key chord on the root window under every lock combination.
func (c *Connection) GrabKey(mods uint16, code xproto.Keycode) {
	keybind.Grab(c.XUtil, c.Root, mods, code)
}

// GrabAnyButton grabs every button with any modifiers in synchronous
// pointer mode, so a click on an unfocused window can focus it before the
// event is replayed.
func (c *Connection) GrabAnyButton(win xproto.Window) {
	xproto.GrabButton(c.Conn(), false, win,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
		xproto.GrabModeSync, xproto.GrabModeSync,
		0, 0, xproto.ButtonIndexAny, xproto.ModMaskAny)
}

// GrabButton grabs a bound button chord on a window.
func (c *Connection) GrabButton(win xproto.Window, mods uint16, button xproto.Button) {
	mousebind.Grab(c.XUtil, win, mods, button, false)
}

// UngrabButtons drops every button grab on a window.
func (c *Connection) UngrabButtons(win xproto.Window) {
	xproto.UngrabButton(c.Conn(), xproto.ButtonIndexAny, win, xproto.ModMaskAny)
}

// ReplayPointer releases a synchronous pointer grab and passes the frozen
// event on to the client.
func (c *Connection) ReplayPointer() {
	xproto.AllowEvents(c.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
}

// GrabPointer grabs the whole pointer on the root window for a drag.
func (c *Connection) GrabPointer() error {
	ok, err := mousebind.GrabPointer(c.XUtil, c.Root, 0, 0)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pointer grab refused")
	}
	return nil
}

// UngrabPointer releases a pointer grab.
func (c *Connection) UngrabPointer() {
	mousebind.UngrabPointer(c.XUtil)
}

// QueryPointer returns the pointer position relative to the root window.
func (c *Connection) QueryPointer() (int, int, error) {
	reply, err := xproto.QueryPointer(c.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// WarpPointer moves the pointer to (x, y) relative to win.
func (c *Connection) WarpPointer(win xproto.Window, x, y int) {
	xproto.WarpPointer(c.Conn(), 0, win, 0, 0, 0, 0, int16(x), int16(y))
}

// SetInputFocus focuses win. Window 0 reverts focus to the pointer root.
func (c *Connection) SetInputFocus(win xproto.Window) {
	if win == 0 {
		xproto.SetInputFocus(c.Conn(), xproto.InputFocusPointerRoot,
			xproto.InputFocusPointerRoot, xproto.TimeCurrentTime)
		return
	}
	xproto.SetInputFocus(c.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}
