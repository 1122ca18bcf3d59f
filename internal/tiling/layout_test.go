package tiling

import "testing"

func TestColumnSlots_TwoWindowsSplitHeightEvenly(t *testing.T) {
	column := Rect{X: 0, Y: 0, Width: 400, Height: 600}

	slots := ColumnSlots(2, column, 1)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	want := []Rect{
		{X: 0, Y: 0, Width: 398, Height: 298},
		{X: 0, Y: 300, Width: 398, Height: 298},
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: expected %+v, got %+v", i, want[i], slots[i])
		}
	}
}

func TestColumnSlots_HeightsAddUpForAnyCount(t *testing.T) {
	column := Rect{X: 10, Y: 25, Width: 300, Height: 575}

	for n := 1; n <= 40; n++ {
		slots := ColumnSlots(n, column, 1)
		sum := 0
		for i, s := range slots {
			if s.Height <= 0 {
				t.Fatalf("n=%d slot %d has non-positive height %d", n, i, s.Height)
			}
			// slot height including both borders
			sum += s.Height + 2
		}
		if sum != column.Height {
			t.Fatalf("n=%d: expected slot heights to sum to %d, got %d", n, column.Height, sum)
		}
		if slots[0].Y != column.Y {
			t.Fatalf("n=%d: expected first slot at y=%d, got %d", n, column.Y, slots[0].Y)
		}
	}
}

func TestColumnSlots_NeverBelowOnePixel(t *testing.T) {
	slots := ColumnSlots(10, Rect{Width: 1, Height: 5}, 1)
	for i, s := range slots {
		if s.Width < 1 || s.Height < 1 {
			t.Fatalf("slot %d: expected at least 1x1, got %dx%d", i, s.Width, s.Height)
		}
	}
}

func TestColumnSlots_ZeroCount(t *testing.T) {
	if slots := ColumnSlots(0, Rect{Width: 100, Height: 100}, 1); slots != nil {
		t.Fatalf("expected nil, got %v", slots)
	}
}

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		name      string
		split     float64
		leftWidth int
	}{
		{"half", 0.5, 400},
		{"truncates", 0.333, 266},
		{"wide left", 0.9, 720},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := SplitColumns(Rect{Y: 20, Width: 800, Height: 580}, tt.split)
			if left.Width != tt.leftWidth {
				t.Fatalf("expected left width %d, got %d", tt.leftWidth, left.Width)
			}
			if right.X != tt.leftWidth || left.Width+right.Width != 800 {
				t.Fatalf("columns do not tile the area: left=%+v right=%+v", left, right)
			}
			if left.Y != 20 || right.Height != 580 {
				t.Fatalf("expected columns to keep the work area's vertical extent")
			}
		})
	}
}

func TestOffscreen_FullyOutside(t *testing.T) {
	tests := []Rect{
		{X: 100, Y: 100, Width: 300, Height: 200},
		{X: 0, Y: 0, Width: 5000, Height: 200},
	}
	for _, r := range tests {
		got := Offscreen(r, 800, 1)
		if Intersects(got, 1, 800, 600) {
			t.Fatalf("expected %+v to be off screen, got %+v", r, got)
		}
		if got.Y != r.Y || got.Width != r.Width || got.Height != r.Height {
			t.Fatalf("expected only X to change, got %+v", got)
		}
	}
}

func TestWorkArea_ClampsDock(t *testing.T) {
	area := WorkArea(800, 600, 700)
	if area.Height != 0 || area.Y != 600 {
		t.Fatalf("expected empty work area, got %+v", area)
	}
}
