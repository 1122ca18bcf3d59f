package wm

import (
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// Motion samples closer together than this are dropped during a drag.
const motionInterval = 1000 / 60 // ms

type dragMode int

const (
	dragMove dragMode = iota
	dragResize
)

// dragState is the pointer-drag sub-state. While it is set, the loop only
// feeds motion and release to the drag and defers everything except map and
// configure requests.
type dragState struct {
	window   platform.WindowID
	mode     dragMode
	originX  int
	originY  int
	start    tiling.Rect
	lastTime uint32
}

func (m *WM) beginDrag(mode dragMode) {
	if m.drag != nil {
		return
	}
	c := m.focused()
	if c == nil || c.Class != tiling.Floating || c.Fullscreen {
		return
	}

	m.restack()
	if err := m.backend.GrabPointer(); err != nil {
		m.log.Warn("pointer grab failed", "error", err)
		return
	}

	d := &dragState{window: c.Window, mode: mode, start: c.Geometry}
	switch mode {
	case dragMove:
		x, y, err := m.backend.QueryPointer()
		if err != nil {
			m.log.Warn("query pointer failed", "error", err)
			m.backend.UngrabPointer()
			return
		}
		d.originX, d.originY = x, y
	case dragResize:
		m.backend.WarpPointer(c.Window, c.Geometry.Width, c.Geometry.Height)
	}
	m.drag = d
}

// Dragging reports whether a pointer drag is in progress.
func (m *WM) Dragging() bool {
	return m.drag != nil
}

func (m *WM) dragMotion(ev platform.MotionEvent) {
	d := m.drag
	if ev.Time-d.lastTime <= motionInterval {
		return
	}
	d.lastTime = ev.Time

	c := m.reg.Lookup(d.window)
	if c == nil {
		m.endDrag()
		return
	}

	r := c.Geometry
	switch d.mode {
	case dragMove:
		r.X = d.start.X + (ev.RootX - d.originX)
		r.Y = d.start.Y + (ev.RootY - d.originY)
	case dragResize:
		r.Width = max(ev.RootX-d.start.X-2*borderThin+1, 1)
		r.Height = max(ev.RootY-d.start.Y-2*borderThin+1, 1)
	}
	m.resize(c, r, borderThin)
}

// endDrag releases the pointer and replays the events deferred meanwhile.
func (m *WM) endDrag() {
	d := m.drag
	if d == nil {
		return
	}
	m.drag = nil
	if c := m.reg.Lookup(d.window); c != nil && d.mode == dragResize {
		m.backend.WarpPointer(c.Window, c.Geometry.Width, c.Geometry.Height)
	}
	m.backend.UngrabPointer()

	deferred := m.deferred
	m.deferred = nil
	for _, ev := range deferred {
		m.HandleEvent(ev)
	}
}
