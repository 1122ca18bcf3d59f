package wm

import (
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

func (m *WM) visible(c *Client) bool {
	return !c.IsDock && c.Desktop == m.current
}

// focused returns the focus target of the current desktop, if it is still
// managed and visible.
func (m *WM) focused() *Client {
	c := m.reg.Lookup(m.focus[m.current])
	if c == nil || !m.visible(c) {
		return nil
	}
	return c
}

func (m *WM) firstVisible() *Client {
	for _, c := range m.reg.All() {
		if m.visible(c) && m.reg.Parent(c) == nil {
			return c
		}
	}
	return nil
}

// setFocus makes target the focus of the current desktop. An invalid target
// falls back to the first visible client that is not transient.
func (m *WM) setFocus(target *Client) {
	if target == nil || !m.visible(target) {
		target = m.firstVisible()
	}

	if prev := m.reg.Lookup(m.active); prev != nil && prev != target {
		m.backend.SetBorderColor(prev.Window, m.opts.NormalColor)
		m.backend.GrabButtons(prev.Window, false, m.opts.Bindings.ButtonSpecs())
	}

	if target == nil {
		m.focus[m.current] = platform.None
		m.active = platform.None
		m.backend.SetInputFocus(platform.None)
		m.backend.SetActiveWindow(platform.None)
		return
	}

	m.focus[m.current] = target.Window
	m.active = target.Window
	m.backend.SetBorderColor(target.Window, m.opts.FocusedColor)
	m.backend.GrabButtons(target.Window, true, m.opts.Bindings.ButtonSpecs())

	input := m.reg.TopTransient(target)
	m.backend.SetInputFocus(input.Window)
	m.backend.SetActiveWindow(target.Window)
	if m.backend.SupportsProtocol(input.Window, platform.ProtocolTakeFocus) {
		if err := m.backend.SendProtocol(input.Window, platform.ProtocolTakeFocus); err != nil {
			m.log.Debug("WM_TAKE_FOCUS failed", "window", input.Window, "error", err)
		}
	}
}

// restack raises the column clients, then floating clients, then the
// focused client and its transient chain.
func (m *WM) restack() {
	f := m.focused()
	if f == nil {
		return
	}
	for _, c := range m.reg.All() {
		if m.visible(c) && c.Class.IsColumn() && !c.Fullscreen && c != f {
			m.backend.Raise(c.Window)
		}
	}
	for _, c := range m.reg.All() {
		if m.visible(c) && (c.Class == tiling.Floating || c.Fullscreen) && c != f {
			m.backend.Raise(c.Window)
		}
	}

	seen := map[*Client]bool{}
	for c := f; c != nil && !seen[c]; {
		seen[c] = true
		m.backend.Raise(c.Window)
		children := m.reg.Children(c)
		if len(children) == 0 {
			break
		}
		c = children[0]
	}
}

// focusStack moves focus delta steps through the visible, non-transient
// clients, wrapping around the list.
func (m *WM) focusStack(delta int) {
	all := m.reg.All()
	if len(all) == 0 || delta == 0 {
		return
	}
	eligible := func(c *Client) bool {
		return m.visible(c) && m.reg.Parent(c) == nil
	}

	start := -1
	if f := m.focused(); f != nil {
		for i, c := range all {
			if c == f {
				start = i
				break
			}
		}
	}

	step := 1
	if delta < 0 {
		step = -1
	}
	n := len(all)
	i := start
	if i < 0 && step < 0 {
		i = 0
	}
	for k := 0; k < n; k++ {
		i = ((i+step)%n + n) % n
		if eligible(all[i]) {
			m.setFocus(all[i])
			m.restack()
			return
		}
	}
}
