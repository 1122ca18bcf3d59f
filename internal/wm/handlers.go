package wm

import (
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// HandleEvent processes one windowing-system event. Events for windows that
// are not managed are ignored unless the event kind applies to any window.
func (m *WM) HandleEvent(ev platform.Event) {
	if m.drag != nil {
		switch e := ev.(type) {
		case platform.MotionEvent:
			m.dragMotion(e)
			return
		case platform.ButtonReleaseEvent:
			m.endDrag()
			return
		case platform.MapRequestEvent, platform.ConfigureRequestEvent:
			// handled below, a drag must not starve new windows
		default:
			m.deferred = append(m.deferred, ev)
			return
		}
	}

	switch e := ev.(type) {
	case platform.MapRequestEvent:
		m.onMapRequest(e)
	case platform.DestroyNotifyEvent:
		if c := m.reg.Lookup(e.Window); c != nil {
			m.unmanage(c, true)
		}
	case platform.UnmapNotifyEvent:
		m.onUnmap(e)
	case platform.ConfigureRequestEvent:
		m.onConfigureRequest(e)
	case platform.FullscreenRequestEvent:
		m.onFullscreenRequest(e)
	case platform.ActivateRequestEvent:
		m.onActivate(e)
	case platform.ScreenChangeEvent:
		m.onScreenChange(e)
	case platform.KeyPressEvent:
		if cmd, ok := m.opts.Bindings.MatchKey(e.Mods, e.Keycode); ok {
			m.Execute(cmd)
		}
	case platform.ButtonPressEvent:
		m.onButtonPress(e)
	case platform.ButtonReleaseEvent, platform.MotionEvent:
		// only meaningful during a drag
	default:
		m.log.Debug("ignoring event", "event", ev)
	}
}

func (m *WM) onMapRequest(e platform.MapRequestEvent) {
	attrs, err := m.backend.Attributes(e.Window)
	if err != nil {
		m.log.Debug("map request for unknown window", "window", e.Window, "error", err)
		return
	}
	if attrs.OverrideRedirect {
		return
	}
	if m.reg.Lookup(e.Window) != nil {
		return
	}
	m.manage(e.Window)
}

func (m *WM) onUnmap(e platform.UnmapNotifyEvent) {
	c := m.reg.Lookup(e.Window)
	if c == nil {
		return
	}
	if e.Synthetic {
		m.backend.SetWMState(c.Window, platform.WMStateWithdrawn)
		return
	}
	m.unmanage(c, false)
}

func (m *WM) onConfigureRequest(e platform.ConfigureRequestEvent) {
	c := m.reg.Lookup(e.Window)
	if c == nil {
		m.backend.ConfigureUnmanaged(e)
		return
	}

	positionOnly := e.Any(platform.ConfigX|platform.ConfigY) && !e.Any(platform.ConfigWidth|platform.ConfigHeight)
	switch {
	case c.IsDock:
		// Docks stay pinned to the top edge. A new height moves the work area.
		r := requestedGeometry(c.Geometry, e)
		r.Y = 0
		m.resize(c, r, borderNone)
		m.recomputeDockHeight()
		m.arrange()
		m.restack()
	case c.Class != tiling.Floating || c.Fullscreen:
		m.backend.SendConfigureNotify(c.Window, c.Geometry)
		return
	case m.visible(c):
		m.resize(c, requestedGeometry(c.Geometry, e), borderThin)
	default:
		m.setGeometry(c, requestedGeometry(c.Geometry, e))
	}
	if positionOnly {
		m.backend.SendConfigureNotify(c.Window, c.Geometry)
	}
}

// requestedGeometry applies the fields set in e to r. Non-positive sizes are
// ignored.
func requestedGeometry(r tiling.Rect, e platform.ConfigureRequestEvent) tiling.Rect {
	if e.Has(platform.ConfigX) {
		r.X = e.X
	}
	if e.Has(platform.ConfigY) {
		r.Y = e.Y
	}
	if e.Has(platform.ConfigWidth) && e.Width > 0 {
		r.Width = e.Width
	}
	if e.Has(platform.ConfigHeight) && e.Height > 0 {
		r.Height = e.Height
	}
	return r
}

func (m *WM) onFullscreenRequest(e platform.FullscreenRequestEvent) {
	c := m.reg.Lookup(e.Window)
	if c == nil {
		return
	}
	switch e.Action {
	case platform.StateAdd:
		m.setFullscreen(c, true)
	case platform.StateRemove:
		m.setFullscreen(c, false)
	case platform.StateToggle:
		m.setFullscreen(c, !c.Fullscreen)
	}
}

func (m *WM) onActivate(e platform.ActivateRequestEvent) {
	c := m.reg.Lookup(e.Window)
	if c == nil || c.IsDock {
		return
	}
	if c.Desktop != m.current {
		m.view(c.Desktop)
	}
	m.setFocus(c)
	m.restack()
}

func (m *WM) onScreenChange(e platform.ScreenChangeEvent) {
	if e.Width == m.width && e.Height == m.height {
		return
	}
	m.log.Info("screen geometry changed", "width", e.Width, "height", e.Height)
	m.width, m.height = e.Width, e.Height
	m.setFocus(m.focused())
	m.arrange()
	m.restack()
}

// onButtonPress focuses the clicked client and runs its button binding.
// Clicks outside a managed client are only replayed.
func (m *WM) onButtonPress(e platform.ButtonPressEvent) {
	c := m.reg.Lookup(e.Window)
	if c != nil && !c.IsDock && c != m.focused() {
		m.setFocus(c)
		m.restack()
	}
	m.backend.ReplayPointer()
	if c == nil {
		return
	}

	if cmd, ok := m.opts.Bindings.MatchButton(e.Mods, e.Button); ok {
		m.Execute(cmd)
	}
}

// manage adopts a new top-level window.
func (m *WM) manage(w platform.WindowID) {
	attrs, err := m.backend.Attributes(w)
	if err != nil {
		m.log.Debug("cannot manage window", "window", w, "error", err)
		return
	}
	hints := m.backend.Hints(w)

	class := Classify(hints, m.reg.Lookup(hints.TransientFor), m.opts.Rules, m.current, m.opts.Desktops)
	c := &Client{
		Window:      w,
		Desktop:     class.Desktop,
		Class:       class.Class,
		FixedSize:   class.FixedSize,
		IsDock:      class.IsDock,
		TransientOf: class.TransientOf,
		WMClass:     hints.Class,
		Instance:    hints.Instance,
	}

	g := attrs.Geometry
	if c.IsDock {
		g.Y = 0
	} else {
		cx, cy := tiling.Centered(m.width, m.height, g.Width, g.Height)
		if g.X == 0 {
			g.X = cx
		}
		if g.Y == 0 {
			g.Y = cy
		}
	}
	c.Geometry = g
	c.FloatGeometry = g

	m.backend.SetBorderColor(w, m.opts.NormalColor)
	m.backend.SelectClientInput(w)
	m.backend.GrabButtons(w, false, m.opts.Bindings.ButtonSpecs())
	if c.Class == tiling.Floating && !c.IsDock {
		m.backend.Raise(w)
	}

	m.reg.Add(c)
	m.backend.SetClientList(m.reg.Windows())
	m.backend.SetClientDesktop(w, c.Desktop)
	if c.IsDock {
		m.dockHeight = g.Height
	} else {
		// keep it out of sight until the layout places it
		m.backend.Move(w, g.X+2*m.width, g.Y)
	}
	m.backend.SetWMState(w, platform.WMStateNormal)
	if hints.Fullscreen {
		c.Fullscreen = true
		m.backend.SetFullscreenState(w, true)
	}

	m.log.Debug("managing window",
		"window", w,
		"class", hints.Class,
		"instance", hints.Instance,
		"desktop", c.Desktop,
		"layout", c.Class.String(),
		"dock", c.IsDock)

	m.arrange()
	m.backend.Map(w)

	switch {
	case c.IsDock:
	case m.visible(c):
		m.setFocus(c)
	default:
		m.focus[c.Desktop] = c.Window
	}
	m.restack()
}

// unmanage forgets c. destroyed is set when the window no longer exists, in
// which case nothing is sent for it.
func (m *WM) unmanage(c *Client, destroyed bool) {
	parent := m.reg.Parent(c)
	m.reg.Remove(c.Window)
	if !destroyed {
		m.backend.Release(c.Window)
	}
	if c.IsDock {
		m.recomputeDockHeight()
	}
	if m.active == c.Window {
		m.active = platform.None
	}

	for d, w := range m.focus {
		if w != c.Window {
			continue
		}
		if parent != nil && parent.Desktop == d {
			m.focus[d] = parent.Window
		} else {
			m.focus[d] = platform.None
		}
	}

	m.backend.SetClientList(m.reg.Windows())
	m.log.Debug("unmanaged window", "window", c.Window, "destroyed", destroyed)

	m.setFocus(m.reg.Lookup(m.focus[m.current]))
	m.arrange()
	m.restack()

	if m.drag != nil && m.drag.window == c.Window {
		m.endDrag()
	}
}
