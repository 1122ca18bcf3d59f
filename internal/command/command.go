// Package command defines the operations a key binding, button binding or
// control request can trigger.
package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xi/xiwm/internal/tiling"
)

// Command is one bound operation together with its typed argument. The set of
// variants is closed; the window manager switches on the concrete type.
type Command interface {
	// Action returns the config/IPC name of the operation.
	Action() string
	isCommand()
}

// Spawn launches an external program detached from the session.
type Spawn struct {
	Name string
	Argv []string
}

// FocusStack moves focus to the next (+1) or previous (-1) visible client.
type FocusStack struct {
	Delta int
}

// SetSplit adjusts the left column's width fraction.
type SetSplit struct {
	Delta float64
}

// Kill closes the focused client.
type Kill struct{}

// Quit ends the session.
type Quit struct{}

// View switches to a desktop.
type View struct {
	Desktop int
}

// ViewRel switches to the desktop Delta steps away from the current one.
type ViewRel struct {
	Delta int
}

// Tag moves the focused client to a desktop.
type Tag struct {
	Desktop int
}

// TagRel moves the focused client Delta desktops away from the current one.
type TagRel struct {
	Delta int
}

// SetPosition changes the focused client's layout class.
type SetPosition struct {
	Class tiling.LayoutClass
}

// Move drags the focused floating client with the pointer.
type Move struct{}

// Resize resizes the focused floating client with the pointer.
type Resize struct{}

func (Spawn) Action() string       { return "spawn" }
func (FocusStack) Action() string  { return "focusstack" }
func (SetSplit) Action() string    { return "setsplit" }
func (Kill) Action() string        { return "kill" }
func (Quit) Action() string        { return "quit" }
func (View) Action() string        { return "view" }
func (ViewRel) Action() string     { return "viewrel" }
func (Tag) Action() string         { return "tag" }
func (TagRel) Action() string      { return "tagrel" }
func (SetPosition) Action() string { return "setposition" }
func (Move) Action() string        { return "move" }
func (Resize) Action() string      { return "resize" }

func (Spawn) isCommand()       {}
func (FocusStack) isCommand()  {}
func (SetSplit) isCommand()    {}
func (Kill) isCommand()        {}
func (Quit) isCommand()        {}
func (View) isCommand()        {}
func (ViewRel) isCommand()     {}
func (Tag) isCommand()         {}
func (TagRel) isCommand()      {}
func (SetPosition) isCommand() {}
func (Move) isCommand()        {}
func (Resize) isCommand()      {}

// Actions lists every accepted action name.
func Actions() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type parser func(arg string, commands map[string][]string) (Command, error)

var parsers = map[string]parser{
	"spawn": func(arg string, commands map[string][]string) (Command, error) {
		if arg == "" {
			return nil, fmt.Errorf("spawn needs a command name")
		}
		argv, ok := commands[arg]
		if !ok {
			return nil, fmt.Errorf("unknown command %q", arg)
		}
		if len(argv) == 0 {
			return nil, fmt.Errorf("command %q has an empty argv", arg)
		}
		return Spawn{Name: arg, Argv: append([]string(nil), argv...)}, nil
	},
	"focusstack": func(arg string, _ map[string][]string) (Command, error) {
		d, err := parseDirection(arg)
		if err != nil {
			return nil, err
		}
		return FocusStack{Delta: d}, nil
	},
	"setsplit": func(arg string, _ map[string][]string) (Command, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid split delta %q", arg)
		}
		if f <= -1 || f >= 1 {
			return nil, fmt.Errorf("split delta %v out of range (-1, 1)", f)
		}
		return SetSplit{Delta: f}, nil
	},
	"kill": noArg(Kill{}),
	"quit": noArg(Quit{}),
	"view": func(arg string, _ map[string][]string) (Command, error) {
		n, err := parseDesktop(arg)
		if err != nil {
			return nil, err
		}
		return View{Desktop: n}, nil
	},
	"viewrel": func(arg string, _ map[string][]string) (Command, error) {
		n, err := parseInt(arg)
		if err != nil {
			return nil, err
		}
		return ViewRel{Delta: n}, nil
	},
	"tag": func(arg string, _ map[string][]string) (Command, error) {
		n, err := parseDesktop(arg)
		if err != nil {
			return nil, err
		}
		return Tag{Desktop: n}, nil
	},
	"tagrel": func(arg string, _ map[string][]string) (Command, error) {
		n, err := parseInt(arg)
		if err != nil {
			return nil, err
		}
		return TagRel{Delta: n}, nil
	},
	"setposition": func(arg string, _ map[string][]string) (Command, error) {
		class, err := tiling.ParseLayoutClass(arg)
		if err != nil {
			return nil, err
		}
		return SetPosition{Class: class}, nil
	},
	"move":   noArg(Move{}),
	"resize": noArg(Resize{}),
}

func noArg(c Command) parser {
	return func(arg string, _ map[string][]string) (Command, error) {
		if strings.TrimSpace(arg) != "" {
			return nil, fmt.Errorf("%s takes no argument", c.Action())
		}
		return c, nil
	}
}

// Parse builds a Command from its action name and textual argument.
// commands resolves spawn names to argv lists.
func Parse(action, arg string, commands map[string][]string) (Command, error) {
	p, ok := parsers[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	c, err := p(arg, commands)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return c, nil
}

func parseInt(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", arg)
	}
	return n, nil
}

func parseDesktop(arg string) (int, error) {
	n, err := parseInt(arg)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("desktop %d is negative", n)
	}
	return n, nil
}

func parseDirection(arg string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "+1", "1", "next":
		return 1, nil
	case "-1", "prev", "previous":
		return -1, nil
	}
	return 0, fmt.Errorf("invalid direction %q (expected +1 or -1)", arg)
}
