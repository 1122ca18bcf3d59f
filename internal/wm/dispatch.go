package wm

import (
	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// Execute runs one bound command. Commands whose precondition does not hold
// are no-ops.
func (m *WM) Execute(cmd command.Command) {
	switch c := cmd.(type) {
	case command.Spawn:
		m.spawn(c)
	case command.FocusStack:
		m.focusStack(c.Delta)
	case command.SetSplit:
		m.setSplit(c.Delta)
	case command.Kill:
		m.killFocused()
	case command.Quit:
		m.log.Info("quit requested")
		m.quit = true
	case command.View:
		m.view(c.Desktop)
	case command.ViewRel:
		m.view(m.current + c.Delta)
	case command.Tag:
		m.tag(c.Desktop)
	case command.TagRel:
		m.tag(m.current + c.Delta)
	case command.SetPosition:
		m.setPosition(c.Class)
	case command.Move:
		m.beginDrag(dragMove)
	case command.Resize:
		m.beginDrag(dragResize)
	default:
		m.log.Warn("unhandled command", "action", cmd.Action())
	}
}

func (m *WM) spawn(c command.Spawn) {
	if m.opts.Spawner == nil {
		m.log.Warn("no spawner configured", "command", c.Name)
		return
	}
	if err := m.opts.Spawner.Spawn(c.Argv); err != nil {
		m.log.Warn("spawn failed", "command", c.Name, "error", err)
	}
}

func (m *WM) setSplit(delta float64) {
	next := m.split + delta
	if next < tiling.MinSplit || next > tiling.MaxSplit {
		return
	}
	m.split = next
	m.arrange()
}

func (m *WM) killFocused() {
	c := m.focused()
	if c == nil {
		return
	}
	if m.backend.SupportsProtocol(c.Window, platform.ProtocolDeleteWindow) {
		err := m.backend.SendProtocol(c.Window, platform.ProtocolDeleteWindow)
		if err == nil {
			return
		}
		m.log.Warn("WM_DELETE_WINDOW failed, killing client", "window", c.Window, "error", err)
	}
	if err := m.backend.KillClient(c.Window); err != nil {
		m.log.Warn("kill client failed", "window", c.Window, "error", err)
	}
}

func (m *WM) validDesktop(d int) bool {
	return d >= 0 && d < m.opts.Desktops
}

func (m *WM) view(d int) {
	if !m.validDesktop(d) || d == m.current {
		return
	}
	m.current = d
	m.backend.SetCurrentDesktop(d)
	m.setFocus(m.reg.Lookup(m.focus[d]))
	m.arrange()
	m.restack()
}

// tag moves the focused client to desktop d. A transient drags its owner
// and every sibling along with it.
func (m *WM) tag(d int) {
	focused := m.focused()
	if focused == nil || !m.validDesktop(d) || d == focused.Desktop {
		return
	}
	root := m.reg.Root(focused)
	from := root.Desktop
	m.setDesktop(root, d)
	if w := m.focus[from]; w != platform.None {
		if c := m.reg.Lookup(w); c != nil && c.Desktop == d {
			m.focus[from] = platform.None
		}
	}
	m.focus[d] = focused.Window
	if d != m.current {
		m.view(d)
	}
	m.setFocus(focused)
	m.arrange()
	m.restack()
}

func (m *WM) setDesktop(c *Client, d int) {
	c.Desktop = d
	m.backend.SetClientDesktop(c.Window, d)
	for _, child := range m.reg.Descendants(c) {
		child.Desktop = d
		m.backend.SetClientDesktop(child.Window, d)
	}
}

func (m *WM) setPosition(class tiling.LayoutClass) {
	c := m.focused()
	if c == nil {
		return
	}
	c.Class = class
	m.arrange()
	m.restack()
}

func (m *WM) setFullscreen(c *Client, on bool) {
	if c.Fullscreen == on {
		return
	}
	c.Fullscreen = on
	m.backend.SetFullscreenState(c.Window, on)
	m.arrange()
	m.restack()
}
