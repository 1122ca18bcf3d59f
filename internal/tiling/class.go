package tiling

import (
	"fmt"
	"strings"
)

// LayoutClass is the placement policy of a client.
type LayoutClass int

const (
	Floating LayoutClass = iota
	Maximized
	ColumnLeft
	ColumnRight
)

var classNames = map[LayoutClass]string{
	Floating:    "float",
	Maximized:   "max",
	ColumnLeft:  "left",
	ColumnRight: "right",
}

func (c LayoutClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("LayoutClass(%d)", int(c))
}

// IsColumn reports whether the class is one of the tiling columns.
func (c LayoutClass) IsColumn() bool {
	return c == ColumnLeft || c == ColumnRight
}

// ParseLayoutClass parses the config/command spelling of a layout class.
func ParseLayoutClass(s string) (LayoutClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float", "floating":
		return Floating, nil
	case "max", "maximized":
		return Maximized, nil
	case "left":
		return ColumnLeft, nil
	case "right":
		return ColumnRight, nil
	default:
		return 0, fmt.Errorf("unknown position %q (expected float, max, left or right)", s)
	}
}

// LayoutClassNames returns the accepted spellings, for help text.
func LayoutClassNames() []string {
	return []string{"float", "max", "left", "right"}
}
