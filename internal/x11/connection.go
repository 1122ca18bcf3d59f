package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
)

// ErrRedirectRefused is returned by SelectRootEvents when another client
// already holds substructure redirection on the root window.
var ErrRedirectRefused = errors.New("substructure redirect refused")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server. An empty display
// uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Initialize keybind and mousebind (required for chord parsing and grabs)
	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Conn returns the raw protocol connection.
func (c *Connection) Conn() *xgb.Conn {
	return c.XUtil.Conn()
}

// ScreenSize returns the root window dimensions from the connection setup.
func (c *Connection) ScreenSize() (int, int) {
	s := c.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// RootGeometry queries the current root window size.
func (c *Connection) RootGeometry() (int, int, error) {
	geom, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(geom.Width), int(geom.Height), nil
}

// SelectRootEvents asks for substructure redirection on the root window,
// which makes this client the window manager.
func (c *Connection) SelectRootEvents() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskButtonPress |
				xproto.EventMaskPropertyChange,
		},
	).Check()
	if err != nil {
		var accessErr xproto.AccessError
		if errors.As(err, &accessErr) {
			return ErrRedirectRefused
		}
		return fmt.Errorf("select root events: %w", err)
	}
	return nil
}

// WaitForEvent blocks for the next event or protocol error. Both results
// are nil once the connection is closed.
func (c *Connection) WaitForEvent() (xgb.Event, xgb.Error) {
	return c.Conn().WaitForEvent()
}

// Sync waits until the server has processed every request sent so far.
func (c *Connection) Sync() {
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.Conn().Close()
}
