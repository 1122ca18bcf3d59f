package wm

import (
	"testing"

	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

func TestClassify(t *testing.T) {
	rules := []Rule{
		{Class: "Thunderbird", Desktop: 0, Position: tiling.Maximized},
		{Class: "Gimp", Instance: "toolbox", Desktop: 2, Position: tiling.ColumnRight},
		{Class: "Gimp", Desktop: 2, Position: tiling.ColumnLeft},
		{Class: "Far", Desktop: 9, Position: tiling.ColumnLeft},
		{Instance: "broken", Desktop: 1, Position: tiling.Floating},
	}
	parent := &Client{Window: 42, Desktop: 2, Class: tiling.ColumnLeft}

	tests := []struct {
		name   string
		hints  platform.WindowHints
		parent *Client
		want   Classification
	}{
		{
			name:  "rule by class",
			hints: platform.WindowHints{Class: "Thunderbird", Instance: "Mail"},
			want:  Classification{Desktop: 0, Class: tiling.Maximized},
		},
		{
			name:  "substring match",
			hints: platform.WindowHints{Class: "Mozilla-Thunderbird-esr", Instance: "x"},
			want:  Classification{Desktop: 0, Class: tiling.Maximized},
		},
		{
			name:  "match is case-sensitive",
			hints: platform.WindowHints{Class: "thunderbird", Instance: "x"},
			want:  Classification{Desktop: 1, Class: tiling.Maximized},
		},
		{
			name:  "first matching rule wins",
			hints: platform.WindowHints{Class: "Gimp", Instance: "toolbox"},
			want:  Classification{Desktop: 2, Class: tiling.ColumnRight},
		},
		{
			name:  "instance must match too",
			hints: platform.WindowHints{Class: "Gimp", Instance: "image-window"},
			want:  Classification{Desktop: 2, Class: tiling.ColumnLeft},
		},
		{
			name:  "out of range desktop keeps current",
			hints: platform.WindowHints{Class: "Far", Instance: "far"},
			want:  Classification{Desktop: 1, Class: tiling.ColumnLeft},
		},
		{
			name:  "missing class matches broken",
			hints: platform.WindowHints{},
			want:  Classification{Desktop: 1, Class: tiling.Floating},
		},
		{
			name:  "unmatched defaults",
			hints: platform.WindowHints{Class: "XTerm", Instance: "xterm"},
			want:  Classification{Desktop: 1, Class: tiling.Maximized},
		},
		{
			name:   "transient inherits desktop and floats",
			hints:  platform.WindowHints{Class: "Thunderbird", Instance: "x", TransientFor: 42},
			parent: parent,
			want:   Classification{Desktop: 2, Class: tiling.Floating, TransientOf: 42},
		},
		{
			name:  "dialog floats",
			hints: platform.WindowHints{Class: "Gimp", Instance: "x", Type: platform.WindowTypeDialog},
			want:  Classification{Desktop: 2, Class: tiling.Floating},
		},
		{
			name:  "dock",
			hints: platform.WindowHints{Class: "Polybar", Instance: "polybar", Type: platform.WindowTypeDock},
			want:  Classification{Desktop: 1, Class: tiling.Maximized, IsDock: true},
		},
		{
			name:  "fixed size floats regardless of rule",
			hints: platform.WindowHints{Class: "Thunderbird", Instance: "x", FixedSize: true},
			want:  Classification{Desktop: 0, Class: tiling.Floating, FixedSize: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.hints, tt.parent, rules, 1, 3)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestManage_ThunderbirdRule(t *testing.T) {
	env := newTestWM(t, func(o *Options) { o.InitialDesktop = 2 })

	c := env.mapWindow(7, platform.Rect{Width: 640, Height: 480}, platform.WindowHints{Class: "Thunderbird", Instance: "Mail"})
	if c == nil {
		t.Fatalf("expected window to be managed")
	}
	if c.Desktop != 0 || c.Class != tiling.Maximized {
		t.Fatalf("expected desktop 0 / max, got desktop %d / %v", c.Desktop, c.Class)
	}
	if env.fake.Windows[7].Desktop != 0 {
		t.Fatalf("expected _NET_WM_DESKTOP 0, got %d", env.fake.Windows[7].Desktop)
	}
	// off the current desktop: recorded as that desktop's focus, not focused now
	if env.wm.focus[0] != 7 || env.fake.Focus == 7 {
		t.Fatalf("expected window 7 to be the focus candidate of desktop 0 only")
	}
	if tiling.Intersects(env.fake.Windows[7].Geometry, 1, 800, 600) {
		t.Fatalf("expected window on another desktop to be off screen, at %+v", env.fake.Windows[7].Geometry)
	}
}
