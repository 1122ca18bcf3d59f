package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// SupportedAtoms is advertised in _NET_SUPPORTED.
var SupportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
}

// CreateCheckWindow creates the _NET_SUPPORTING_WM_CHECK window named name
// and advertises the supported atoms and desktop count on the root.
func (c *Connection) CreateCheckWindow(name string, desktops int) (xproto.Window, error) {
	win, err := xwindow.Create(c.XUtil, c.Root)
	if err != nil {
		return 0, fmt.Errorf("failed to create check window: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, win.Id); err != nil {
		return 0, err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, win.Id, win.Id); err != nil {
		return 0, err
	}
	if err := ewmh.WmNameSet(c.XUtil, win.Id, name); err != nil {
		return 0, err
	}
	if err := ewmh.SupportedSet(c.XUtil, SupportedAtoms); err != nil {
		return 0, err
	}
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(desktops)); err != nil {
		return 0, err
	}
	return win.Id, nil
}

// DestroyWindow destroys a window created by the window manager.
func (c *Connection) DestroyWindow(win xproto.Window) {
	xwindow.New(c.XUtil, win).Destroy()
}

// SetCurrentDesktop sets _NET_CURRENT_DESKTOP on the root window.
func (c *Connection) SetCurrentDesktop(desktop int) error {
	return ewmh.CurrentDesktopSet(c.XUtil, uint(desktop))
}

// SetWindowDesktop sets _NET_WM_DESKTOP on a managed window.
func (c *Connection) SetWindowDesktop(win xproto.Window, desktop int) error {
	return ewmh.WmDesktopSet(c.XUtil, win, uint(desktop))
}

// SetClientList sets _NET_CLIENT_LIST on the root window.
func (c *Connection) SetClientList(windows []xproto.Window) error {
	return ewmh.ClientListSet(c.XUtil, windows)
}

// SetActiveWindow sets _NET_ACTIVE_WINDOW, or deletes it for window 0.
func (c *Connection) SetActiveWindow(win xproto.Window) error {
	if win == 0 {
		atom, err := xprop.Atm(c.XUtil, "_NET_ACTIVE_WINDOW")
		if err != nil {
			return err
		}
		return xproto.DeletePropertyChecked(c.Conn(), c.Root, atom).Check()
	}
	return ewmh.ActiveWindowSet(c.XUtil, win)
}

// SetFullscreenState writes _NET_WM_STATE for a window.
func (c *Connection) SetFullscreenState(win xproto.Window, fullscreen bool) error {
	states := []string{}
	if fullscreen {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	}
	return ewmh.WmStateSet(c.XUtil, win, states)
}

// SetWMState writes the ICCCM WM_STATE property.
func (c *Connection) SetWMState(win xproto.Window, state uint) error {
	return icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: state})
}

// AtomName resolves an atom to its name.
func (c *Connection) AtomName(atom xproto.Atom) (string, error) {
	return xprop.AtomName(c.XUtil, atom)
}
