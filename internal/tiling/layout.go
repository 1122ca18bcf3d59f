package tiling

import (
	"github.com/xi/xiwm/internal/platform"
)

// Rect represents a window position and size
type Rect = platform.Rect

// Split factor bounds. Adjustments that would leave this range are ignored.
const (
	MinSplit = 0.05
	MaxSplit = 0.95
)

// WorkArea returns the part of the screen below the dock strip.
func WorkArea(screenWidth, screenHeight, dockHeight int) Rect {
	if dockHeight < 0 {
		dockHeight = 0
	}
	if dockHeight > screenHeight {
		dockHeight = screenHeight
	}
	return Rect{X: 0, Y: dockHeight, Width: screenWidth, Height: screenHeight - dockHeight}
}

// SplitColumns divides the work area into the left and right tiling columns.
// The left column gets width*split pixels (truncated), the right column the
// remainder.
func SplitColumns(area Rect, split float64) (left, right Rect) {
	leftWidth := int(float64(area.Width) * split)
	if leftWidth < 0 {
		leftWidth = 0
	}
	if leftWidth > area.Width {
		leftWidth = area.Width
	}
	left = Rect{X: area.X, Y: area.Y, Width: leftWidth, Height: area.Height}
	right = Rect{X: area.X + leftWidth, Y: area.Y, Width: area.Width - leftWidth, Height: area.Height}
	return left, right
}

// ColumnSlots stacks n windows top to bottom inside column. Each slot gets an
// equal share of the remaining height, so the division remainder goes to the
// last slots and the slot heights always add up to the column height. The
// returned rects are the client sizes, i.e. the slot minus the border on
// both sides, and never smaller than 1x1.
func ColumnSlots(n int, column Rect, border int) []Rect {
	if n <= 0 {
		return nil
	}

	slots := make([]Rect, n)
	y := column.Y
	bottom := column.Y + column.Height
	for i := 0; i < n; i++ {
		h := (bottom - y) / (n - i)
		slots[i] = Rect{
			X:      column.X,
			Y:      y,
			Width:  atLeastOne(column.Width - 2*border),
			Height: atLeastOne(h - 2*border),
		}
		y += h
	}
	return slots
}

// Offscreen returns a placement for r that lies entirely left of the screen.
// Only X changes, so the window keeps its size and vertical position.
func Offscreen(r Rect, screenWidth, border int) Rect {
	x := -2 * screenWidth
	if x+r.Width+2*border > 0 {
		x = -(r.Width + 2*border)
	}
	r.X = x
	return r
}

// Intersects reports whether r (with its border) overlaps the screen.
func Intersects(r Rect, border, screenWidth, screenHeight int) bool {
	outerW := r.Width + 2*border
	outerH := r.Height + 2*border
	return r.X < screenWidth && r.X+outerW > 0 && r.Y < screenHeight && r.Y+outerH > 0
}

// Centered returns the position that centers a window of the given size on
// the screen.
func Centered(screenWidth, screenHeight, width, height int) (x, y int) {
	return (screenWidth - width) / 2, (screenHeight - height) / 2
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
