package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Attributes is the subset of window attributes and geometry the window
// manager needs before managing a window.
type Attributes struct {
	X, Y             int
	Width, Height    int
	OverrideRedirect bool
	Viewable         bool
	Iconic           bool
}

// Attributes fetches the attributes and geometry of a window.
func (c *Connection) Attributes(win xproto.Window) (Attributes, error) {
	attrs, err := xproto.GetWindowAttributes(c.Conn(), win).Reply()
	if err != nil {
		return Attributes{}, err
	}
	geom, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Attributes{}, err
	}

	iconic := false
	if state, err := icccm.WmStateGet(c.XUtil, win); err == nil {
		iconic = state.State == icccm.StateIconic
	}

	return Attributes{
		X:                int(geom.X),
		Y:                int(geom.Y),
		Width:            int(geom.Width),
		Height:           int(geom.Height),
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
		Iconic:           iconic,
	}, nil
}

// Hints collects the ICCCM/EWMH properties that classify a window.
type Hints struct {
	Class        string
	Instance     string
	Dialog       bool
	Dock         bool
	Fullscreen   bool
	TransientFor xproto.Window
	FixedSize    bool
}

// Hints reads WM_CLASS, WM_TRANSIENT_FOR, WM_NORMAL_HINTS,
// _NET_WM_WINDOW_TYPE and _NET_WM_STATE. Missing properties leave the
// zero value.
func (c *Connection) Hints(win xproto.Window) Hints {
	var h Hints

	if class, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		h.Class = class.Class
		h.Instance = class.Instance
	}
	if parent, err := icccm.WmTransientForGet(c.XUtil, win); err == nil {
		h.TransientFor = parent
	}
	if normal, err := icccm.WmNormalHintsGet(c.XUtil, win); err == nil {
		if normal.Flags&icccm.SizeHintPMaxSize != 0 && normal.Flags&icccm.SizeHintPMinSize != 0 &&
			normal.MaxWidth > 0 && normal.MaxHeight > 0 &&
			normal.MaxWidth == normal.MinWidth && normal.MaxHeight == normal.MinHeight {
			h.FixedSize = true
		}
	}
	if types, err := ewmh.WmWindowTypeGet(c.XUtil, win); err == nil {
		for _, t := range types {
			switch t {
			case "_NET_WM_WINDOW_TYPE_DIALOG":
				h.Dialog = true
			case "_NET_WM_WINDOW_TYPE_DOCK":
				h.Dock = true
			}
		}
	}
	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_FULLSCREEN" {
				h.Fullscreen = true
			}
		}
	}
	return h
}

// TopLevelWindows lists the children of the root window, bottom to top.
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}
	return tree.Children, nil
}

// MoveResizeWindow places a window and sets its border width.
func (c *Connection) MoveResizeWindow(win xproto.Window, x, y, width, height, border int) {
	xproto.ConfigureWindow(c.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height), uint32(border)})
}

// MoveWindow changes only the position of a window.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) {
	xproto.ConfigureWindow(c.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))})
}

// RaiseWindow puts a window on top of its siblings.
func (c *Connection) RaiseWindow(win xproto.Window) {
	xwindow.New(c.XUtil, win).Stack(xproto.StackModeAbove)
}

// MapWindow maps a window.
func (c *Connection) MapWindow(win xproto.Window) {
	xproto.MapWindow(c.Conn(), win)
}

// SetBorder sets the border pixel of a window.
func (c *Connection) SetBorder(win xproto.Window, pixel uint32) {
	xwindow.New(c.XUtil, win).Change(xproto.CwBorderPixel, pixel)
}

// SelectClientEvents subscribes to the events the window manager needs from
// a managed window.
func (c *Connection) SelectClientEvents(win xproto.Window) error {
	return xwindow.New(c.XUtil, win).Listen(
		xproto.EventMaskStructureNotify,
		xproto.EventMaskPropertyChange,
	)
}

// SendConfigureNotify tells a client its geometry without changing it.
func (c *Connection) SendConfigureNotify(win xproto.Window, x, y, width, height, border int) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     0,
		X:                int16(x),
		Y:                int16(y),
		Width:            uint16(width),
		Height:           uint16(height),
		BorderWidth:      uint16(border),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// ConfigureAsRequested forwards a configure request unchanged.
func (c *Connection) ConfigureAsRequested(ev xproto.ConfigureRequestEvent) {
	var values []uint32
	mask := ev.ValueMask
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(ev.X)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(ev.Y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(ev.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(ev.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(ev.StackMode))
	}
	xproto.ConfigureWindow(c.Conn(), ev.Window, mask, values)
}

// Protocols returns the WM_PROTOCOLS a window supports.
func (c *Connection) Protocols(win xproto.Window) []string {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err != nil {
		return nil
	}
	return protocols
}

// SendProtocol delivers a WM_PROTOCOLS client message such as
// WM_DELETE_WINDOW or WM_TAKE_FOCUS.
func (c *Connection) SendProtocol(win xproto.Window, protocol string) error {
	protocolsAtom, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	atom, err := xprop.Atm(c.XUtil, protocol)
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", protocol, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(atom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// KillClient destroys the client owning the window.
func (c *Connection) KillClient(win xproto.Window) error {
	return xproto.KillClientChecked(c.Conn(), uint32(win)).Check()
}

// ReleaseWindow hands a window back when it is no longer managed: the border
// is removed, button grabs dropped and WM_STATE set to Withdrawn.
func (c *Connection) ReleaseWindow(win xproto.Window) {
	xproto.ConfigureWindow(c.Conn(), win, xproto.ConfigWindowBorderWidth, []uint32{0})
	xproto.UngrabButton(c.Conn(), xproto.ButtonIndexAny, win, xproto.ModMaskAny)
	icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateWithdrawn})
}
