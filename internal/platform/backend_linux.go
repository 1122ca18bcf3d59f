//go:build linux

package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/xi/xiwm/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn    *x11.Connection
	log     *slog.Logger
	check   xproto.Window
	ignored uint16
	borders map[xproto.Window]int
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11
// connection. A nil logger discards output.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LinuxBackend{
		conn:    conn,
		log:     logger,
		ignored: conn.ConfigureIgnoreMods(),
		borders: make(map[xproto.Window]int),
	}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// Disconnect closes the underlying X11 connection. A blocked NextEvent
// returns ErrConnectionClosed afterwards.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Init claims substructure redirection and advertises the session.
func (b *LinuxBackend) Init(name string, desktops int) error {
	if err := b.conn.SelectRootEvents(); err != nil {
		if errors.Is(err, x11.ErrRedirectRefused) {
			return ErrAnotherWM
		}
		return err
	}
	check, err := b.conn.CreateCheckWindow(name, desktops)
	if err != nil {
		return err
	}
	b.check = check
	return nil
}

// Cleanup drops the key grabs, destroys the check window and hands focus
// back to the pointer root.
func (b *LinuxBackend) Cleanup() {
	b.conn.UngrabAllKeys()
	if b.check != 0 {
		b.conn.DestroyWindow(b.check)
		b.check = 0
	}
	b.conn.SetInputFocus(0)
	if err := b.conn.SetActiveWindow(0); err != nil {
		b.log.Debug("clearing active window failed", "error", err)
	}
	b.conn.Sync()
}

// NextEvent blocks for the next event the window manager acts on. Protocol
// errors are logged and skipped.
func (b *LinuxBackend) NextEvent() (Event, error) {
	for {
		ev, xerr := b.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, ErrConnectionClosed
		}
		if xerr != nil {
			b.logError(xerr)
			continue
		}
		if out, ok := b.translate(ev); ok {
			return out, nil
		}
	}
}

func (b *LinuxBackend) logError(xerr xgb.Error) {
	switch xerr.(type) {
	case xproto.WindowError, xproto.DrawableError, xproto.MatchError:
		// Requests racing a window's destruction.
		b.log.Debug("x11 request failed", "error", xerr)
	default:
		b.log.Warn("x11 request failed", "error", xerr)
	}
}

func (b *LinuxBackend) translate(ev xgb.Event) (Event, bool) {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return MapRequestEvent{Window: WindowID(e.Window)}, true
	case xproto.DestroyNotifyEvent:
		return DestroyNotifyEvent{Window: WindowID(e.Window)}, true
	case xproto.UnmapNotifyEvent:
		// The send-event bit is not exposed, so a copy reported to the root
		// rather than to the window itself is treated as an ICCCM withdraw
		// notice. The real unmap also arrives through the window's own
		// structure notify selection.
		return UnmapNotifyEvent{
			Window:    WindowID(e.Window),
			Synthetic: e.Event != e.Window,
		}, true
	case xproto.ConfigureRequestEvent:
		return ConfigureRequestEvent{
			Window:      WindowID(e.Window),
			Mask:        e.ValueMask,
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			Sibling:     WindowID(e.Sibling),
			StackMode:   e.StackMode,
		}, true
	case xproto.ConfigureNotifyEvent:
		if e.Window != b.conn.Root {
			return nil, false
		}
		return ScreenChangeEvent{Width: int(e.Width), Height: int(e.Height)}, true
	case xproto.ClientMessageEvent:
		return b.translateClientMessage(e)
	case xproto.KeyPressEvent:
		return KeyPressEvent{Mods: e.State, Keycode: byte(e.Detail)}, true
	case xproto.ButtonPressEvent:
		win := e.Event
		if e.Child != 0 && win == b.conn.Root {
			win = e.Child
		}
		return ButtonPressEvent{
			Window: WindowID(win),
			Mods:   e.State,
			Button: byte(e.Detail),
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}, true
	case xproto.ButtonReleaseEvent:
		return ButtonReleaseEvent{}, true
	case xproto.MotionNotifyEvent:
		return MotionEvent{RootX: int(e.RootX), RootY: int(e.RootY), Time: uint32(e.Time)}, true
	}
	return nil, false
}

func (b *LinuxBackend) translateClientMessage(e xproto.ClientMessageEvent) (Event, bool) {
	name, err := b.conn.AtomName(e.Type)
	if err != nil {
		return nil, false
	}
	data := e.Data.Data32

	switch name {
	case "_NET_WM_STATE":
		for _, atom := range data[1:3] {
			if atom == 0 {
				continue
			}
			prop, err := b.conn.AtomName(xproto.Atom(atom))
			if err == nil && prop == "_NET_WM_STATE_FULLSCREEN" {
				return FullscreenRequestEvent{
					Window: WindowID(e.Window),
					Action: StateAction(data[0]),
				}, true
			}
		}
	case "_NET_ACTIVE_WINDOW":
		return ActivateRequestEvent{Window: WindowID(e.Window)}, true
	}
	return nil, false
}

// ScreenSize returns the root window size.
func (b *LinuxBackend) ScreenSize() (int, int) {
	w, h, err := b.conn.RootGeometry()
	if err != nil {
		return b.conn.ScreenSize()
	}
	return w, h
}

// Monitors returns the active RandR outputs ordered by id.
func (b *LinuxBackend) Monitors() ([]Monitor, error) {
	monitors, err := b.conn.Monitors()
	if err != nil {
		return nil, err
	}

	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, monitorFromX11(m))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func monitorFromX11(m x11.Monitor) Monitor {
	return Monitor{
		ID:      m.ID,
		Name:    m.Name,
		Primary: m.Primary,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}

// TopLevelWindows lists the children of the root window.
func (b *LinuxBackend) TopLevelWindows() ([]WindowID, error) {
	children, err := b.conn.TopLevelWindows()
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, len(children))
	for i, w := range children {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

// Attributes reports geometry and map state of a window.
func (b *LinuxBackend) Attributes(w WindowID) (WindowAttributes, error) {
	attrs, err := b.conn.Attributes(xproto.Window(w))
	if err != nil {
		return WindowAttributes{}, err
	}
	return WindowAttributes{
		Geometry: Rect{
			X:      attrs.X,
			Y:      attrs.Y,
			Width:  attrs.Width,
			Height: attrs.Height,
		},
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.Viewable,
		Iconic:           attrs.Iconic,
	}, nil
}

// Hints reads the classification properties of a window.
func (b *LinuxBackend) Hints(w WindowID) WindowHints {
	h := b.conn.Hints(xproto.Window(w))

	typ := WindowTypeNormal
	switch {
	case h.Dock:
		typ = WindowTypeDock
	case h.Dialog:
		typ = WindowTypeDialog
	}
	return WindowHints{
		Class:        h.Class,
		Instance:     h.Instance,
		Type:         typ,
		Fullscreen:   h.Fullscreen,
		TransientFor: WindowID(h.TransientFor),
		FixedSize:    h.FixedSize,
	}
}

// Configure places a window and sets its border width.
func (b *LinuxBackend) Configure(w WindowID, r Rect, border int) {
	b.borders[xproto.Window(w)] = border
	b.conn.MoveResizeWindow(xproto.Window(w), r.X, r.Y, r.Width, r.Height, border)
}

// Move changes only the position of a window.
func (b *LinuxBackend) Move(w WindowID, x, y int) {
	b.conn.MoveWindow(xproto.Window(w), x, y)
}

// SendConfigureNotify reports r to the client with the last border width
// the window was configured with.
func (b *LinuxBackend) SendConfigureNotify(w WindowID, r Rect) {
	b.conn.SendConfigureNotify(xproto.Window(w), r.X, r.Y, r.Width, r.Height, b.borders[xproto.Window(w)])
}

// ConfigureUnmanaged grants a configure request from an unmanaged window.
func (b *LinuxBackend) ConfigureUnmanaged(req ConfigureRequestEvent) {
	b.conn.ConfigureAsRequested(xproto.ConfigureRequestEvent{
		Window:      xproto.Window(req.Window),
		ValueMask:   req.Mask,
		X:           int16(req.X),
		Y:           int16(req.Y),
		Width:       uint16(req.Width),
		Height:      uint16(req.Height),
		BorderWidth: uint16(req.BorderWidth),
		Sibling:     xproto.Window(req.Sibling),
		StackMode:   req.StackMode,
	})
}

func (b *LinuxBackend) Raise(w WindowID) {
	b.conn.RaiseWindow(xproto.Window(w))
}

func (b *LinuxBackend) Map(w WindowID) {
	b.conn.MapWindow(xproto.Window(w))
}

func (b *LinuxBackend) SetBorderColor(w WindowID, color uint32) {
	b.conn.SetBorder(xproto.Window(w), color)
}

func (b *LinuxBackend) SelectClientInput(w WindowID) {
	if err := b.conn.SelectClientEvents(xproto.Window(w)); err != nil {
		b.log.Debug("selecting client events failed", "window", w, "error", err)
	}
}

// Release hands a window back to the server when it stops being managed.
func (b *LinuxBackend) Release(w WindowID) {
	delete(b.borders, xproto.Window(w))
	b.conn.ReleaseWindow(xproto.Window(w))
}

func (b *LinuxBackend) SetWMState(w WindowID, state WMState) {
	if err := b.conn.SetWMState(xproto.Window(w), uint(state)); err != nil {
		b.log.Debug("setting WM_STATE failed", "window", w, "error", err)
	}
}

func (b *LinuxBackend) SetClientDesktop(w WindowID, desktop int) {
	if err := b.conn.SetWindowDesktop(xproto.Window(w), desktop); err != nil {
		b.log.Debug("setting _NET_WM_DESKTOP failed", "window", w, "error", err)
	}
}

func (b *LinuxBackend) SetFullscreenState(w WindowID, fullscreen bool) {
	if err := b.conn.SetFullscreenState(xproto.Window(w), fullscreen); err != nil {
		b.log.Debug("setting _NET_WM_STATE failed", "window", w, "error", err)
	}
}

func (b *LinuxBackend) SetCurrentDesktop(desktop int) {
	if err := b.conn.SetCurrentDesktop(desktop); err != nil {
		b.log.Warn("setting _NET_CURRENT_DESKTOP failed", "error", err)
	}
}

func (b *LinuxBackend) SetClientList(windows []WindowID) {
	ids := make([]xproto.Window, len(windows))
	for i, w := range windows {
		ids[i] = xproto.Window(w)
	}
	if err := b.conn.SetClientList(ids); err != nil {
		b.log.Warn("setting _NET_CLIENT_LIST failed", "error", err)
	}
}

func (b *LinuxBackend) SetActiveWindow(w WindowID) {
	if err := b.conn.SetActiveWindow(xproto.Window(w)); err != nil {
		b.log.Debug("setting _NET_ACTIVE_WINDOW failed", "error", err)
	}
}

// SupportsProtocol reports whether protocol is listed in WM_PROTOCOLS.
func (b *LinuxBackend) SupportsProtocol(w WindowID, protocol string) bool {
	for _, p := range b.conn.Protocols(xproto.Window(w)) {
		if p == protocol {
			return true
		}
	}
	return false
}

func (b *LinuxBackend) SendProtocol(w WindowID, protocol string) error {
	return b.conn.SendProtocol(xproto.Window(w), protocol)
}

func (b *LinuxBackend) KillClient(w WindowID) error {
	return b.conn.KillClient(xproto.Window(w))
}

func (b *LinuxBackend) SetInputFocus(w WindowID) {
	b.conn.SetInputFocus(xproto.Window(w))
}

// ResolveKey parses a key chord against the current keyboard mapping.
func (b *LinuxBackend) ResolveKey(chord string) (KeySpec, error) {
	mods, codes, err := b.conn.ResolveKey(chord)
	if err != nil {
		return KeySpec{}, err
	}
	spec := KeySpec{Mods: mods, Codes: make([]byte, len(codes))}
	for i, code := range codes {
		spec.Codes[i] = byte(code)
	}
	return spec, nil
}

// ResolveButton parses a button chord.
func (b *LinuxBackend) ResolveButton(chord string) (ButtonSpec, error) {
	mods, button, err := b.conn.ResolveButton(chord)
	if err != nil {
		return ButtonSpec{}, err
	}
	return ButtonSpec{Mods: mods, Button: byte(button)}, nil
}

// IgnoredModifiers returns the lock modifier masks found at startup.
func (b *LinuxBackend) IgnoredModifiers() uint16 {
	return b.ignored
}

// GrabKeys replaces the key grabs on the root window.
func (b *LinuxBackend) GrabKeys(keys []KeySpec) {
	b.conn.UngrabAllKeys()
	for _, k := range keys {
		for _, code := range k.Codes {
			b.conn.GrabKey(k.Mods, xproto.Keycode(code))
		}
	}
}

// GrabButtons installs click-to-focus on unfocused windows and the bound
// buttons on the focused one.
func (b *LinuxBackend) GrabButtons(w WindowID, focused bool, buttons []ButtonSpec) {
	win := xproto.Window(w)
	b.conn.UngrabButtons(win)
	if !focused {
		b.conn.GrabAnyButton(win)
		return
	}
	for _, spec := range buttons {
		b.conn.GrabButton(win, spec.Mods, xproto.Button(spec.Button))
	}
}

func (b *LinuxBackend) ReplayPointer() {
	b.conn.ReplayPointer()
}

func (b *LinuxBackend) GrabPointer() error {
	return b.conn.GrabPointer()
}

func (b *LinuxBackend) UngrabPointer() {
	b.conn.UngrabPointer()
}

func (b *LinuxBackend) QueryPointer() (int, int, error) {
	return b.conn.QueryPointer()
}

func (b *LinuxBackend) WarpPointer(w WindowID, x, y int) {
	b.conn.WarpPointer(xproto.Window(w), x, y)
}
