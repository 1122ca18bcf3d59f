package wm

import (
	"strings"

	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// brokenName stands in for a missing WM_CLASS so that rules can still match
// such windows explicitly.
const brokenName = "broken"

// Rule places windows whose class and instance contain the given substrings.
// An empty pattern matches anything.
type Rule struct {
	Class    string
	Instance string
	Desktop  int
	Position tiling.LayoutClass
}

// Matches reports whether the rule applies to the class/instance pair.
func (r Rule) Matches(class, instance string) bool {
	return strings.Contains(class, r.Class) && strings.Contains(instance, r.Instance)
}

// Classification is the initial placement decided for a new window.
type Classification struct {
	Desktop     int
	Class       tiling.LayoutClass
	IsDock      bool
	FixedSize   bool
	TransientOf platform.WindowID
}

// Classify decides a new window's desktop and layout class. parent is the
// managed transient owner, or nil.
func Classify(hints platform.WindowHints, parent *Client, rules []Rule, current, desktops int) Classification {
	out := Classification{
		Desktop:   current,
		Class:     tiling.Maximized,
		FixedSize: hints.FixedSize,
	}

	if parent != nil {
		out.Desktop = parent.Desktop
		out.Class = tiling.Floating
		out.TransientOf = parent.Window
	} else {
		class, instance := hints.Class, hints.Instance
		if class == "" {
			class = brokenName
		}
		if instance == "" {
			instance = brokenName
		}
		for _, r := range rules {
			if !r.Matches(class, instance) {
				continue
			}
			if r.Desktop >= 0 && r.Desktop < desktops {
				out.Desktop = r.Desktop
			}
			out.Class = r.Position
			break
		}
	}

	switch hints.Type {
	case platform.WindowTypeDialog:
		out.Class = tiling.Floating
	case platform.WindowTypeDock:
		out.IsDock = true
	}

	if hints.FixedSize {
		out.Class = tiling.Floating
	}
	return out
}
