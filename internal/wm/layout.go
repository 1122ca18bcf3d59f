package wm

import (
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// Border widths used by the layout rules.
const (
	borderNone = 0
	borderThin = 1
)

// Placement is the target geometry of one client.
type Placement struct {
	Window platform.WindowID
	Rect   tiling.Rect
	Border int
	// Hidden placements only move the window; the client keeps its geometry.
	Hidden bool
}

// Screen is the input to Compute besides the client list.
type Screen struct {
	Width       int
	Height      int
	DockHeight  int
	SplitFactor float64
	Desktop     int
}

// Compute returns a placement for every client, in list order. It only reads
// its inputs.
func Compute(clients []*Client, s Screen) []Placement {
	area := tiling.WorkArea(s.Width, s.Height, s.DockHeight)
	leftCol, rightCol := tiling.SplitColumns(area, s.SplitFactor)

	var nLeft, nRight int
	for _, c := range clients {
		if c.IsDock || c.Desktop != s.Desktop || c.Fullscreen {
			continue
		}
		switch c.Class {
		case tiling.ColumnLeft:
			nLeft++
		case tiling.ColumnRight:
			nRight++
		}
	}
	leftSlots := tiling.ColumnSlots(nLeft, leftCol, borderThin)
	rightSlots := tiling.ColumnSlots(nRight, rightCol, borderThin)

	out := make([]Placement, 0, len(clients))
	var li, ri int
	for _, c := range clients {
		p := Placement{Window: c.Window}
		switch {
		case c.IsDock:
			p.Rect = tiling.Rect{X: c.Geometry.X, Y: 0, Width: c.Geometry.Width, Height: c.Geometry.Height}
			p.Border = borderNone
		case c.Desktop != s.Desktop:
			p.Rect = tiling.Offscreen(c.Geometry, s.Width, borderThin)
			p.Border = borderThin
			p.Hidden = true
		case c.Fullscreen:
			p.Rect = tiling.Rect{Width: s.Width, Height: s.Height}
			p.Border = borderNone
		case c.Class == tiling.Floating:
			p.Rect = c.FloatGeometry
			p.Border = borderThin
		case c.Class == tiling.Maximized:
			p.Rect = area
			p.Border = borderNone
		case c.Class == tiling.ColumnLeft:
			p.Rect = leftSlots[li]
			p.Border = borderThin
			li++
		case c.Class == tiling.ColumnRight:
			p.Rect = rightSlots[ri]
			p.Border = borderThin
			ri++
		}
		out = append(out, p)
	}
	return out
}

func (m *WM) screen() Screen {
	return Screen{
		Width:       m.width,
		Height:      m.height,
		DockHeight:  m.dockHeight,
		SplitFactor: m.split,
		Desktop:     m.current,
	}
}

// arrange recomputes the layout and pushes it to the backend.
func (m *WM) arrange() {
	for _, p := range Compute(m.reg.All(), m.screen()) {
		c := m.reg.Lookup(p.Window)
		if c == nil {
			continue
		}
		if p.Hidden {
			m.backend.Move(c.Window, p.Rect.X, p.Rect.Y)
			continue
		}
		m.resize(c, p.Rect, p.Border)
	}
}

// setGeometry records a new geometry. Floating clients that are not
// fullscreen remember it as their floating geometry.
func (m *WM) setGeometry(c *Client, r tiling.Rect) {
	c.Geometry = r
	if c.Class == tiling.Floating && !c.Fullscreen {
		c.FloatGeometry = r
	}
}

func (m *WM) resize(c *Client, r tiling.Rect, border int) {
	m.setGeometry(c, r)
	m.backend.Configure(c.Window, r, border)
}

// recomputeDockHeight takes the height of the most recently mapped dock.
func (m *WM) recomputeDockHeight() {
	m.dockHeight = 0
	for _, c := range m.reg.All() {
		if c.IsDock {
			m.dockHeight = c.Geometry.Height
			return
		}
	}
}
