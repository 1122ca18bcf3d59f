package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/hotkeys"
	"github.com/xi/xiwm/internal/tiling"
	"github.com/xi/xiwm/internal/wm"
	"gopkg.in/yaml.v3"
)

// Colors holds the border colors as #rrggbb strings.
type Colors struct {
	Normal  string `yaml:"normal"`
	Focused string `yaml:"focused"`
}

// Rule places windows whose WM_CLASS contains Class and Instance.
type Rule struct {
	Class    string `yaml:"class"`
	Instance string `yaml:"instance"`
	Desktop  int    `yaml:"desktop"`
	Position string `yaml:"position"`
}

// KeyBinding binds a key chord such as "Mod1-Control-t" to an action.
type KeyBinding struct {
	Keys   string `yaml:"keys"`
	Action string `yaml:"action"`
	Arg    string `yaml:"arg,omitempty"`
}

// ButtonBinding binds a pointer chord such as "Mod1-1" to an action.
type ButtonBinding struct {
	Button string `yaml:"button"`
	Action string `yaml:"action"`
	Arg    string `yaml:"arg,omitempty"`
}

type Config struct {
	Display        string              `yaml:"display,omitempty"`
	LogLevel       string              `yaml:"log_level"`
	Desktops       int                 `yaml:"desktops"`
	InitialDesktop int                 `yaml:"initial_desktop"`
	Colors         Colors              `yaml:"colors"`
	SplitFactor    float64             `yaml:"split_factor"`
	Autostart      string              `yaml:"autostart"`
	Commands       map[string][]string `yaml:"commands"`
	Rules          []Rule              `yaml:"rules"`
	Keys           []KeyBinding        `yaml:"keys"`
	Buttons        []ButtonBinding     `yaml:"buttons"`
}

// DefaultConfigPath returns ~/.config/xiwm/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xiwm", "config.yaml"), nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		Desktops:       3,
		InitialDesktop: 1,
		Colors: Colors{
			Normal:  "#444444",
			Focused: "#335588",
		},
		SplitFactor: 0.5,
		Autostart:   "~/.config/xiwm/autostart.sh",
		Commands: map[string][]string{
			"term": {"x-terminal-emulator"},
			"run":  {"dmenu_run"},
		},
		Rules: []Rule{
			{Class: "Thunderbird", Desktop: 0, Position: "max"},
		},
		Keys:    defaultKeys(),
		Buttons: defaultButtons(),
	}
}

func defaultKeys() []KeyBinding {
	return []KeyBinding{
		{Keys: "Mod1-Control-t", Action: "spawn", Arg: "term"},
		{Keys: "Mod4-r", Action: "spawn", Arg: "run"},
		{Keys: "Mod1-Tab", Action: "focusstack", Arg: "+1"},
		{Keys: "Mod1-Shift-Tab", Action: "focusstack", Arg: "-1"},
		{Keys: "Mod1-l", Action: "setsplit", Arg: "+0.02"},
		{Keys: "Mod1-h", Action: "setsplit", Arg: "-0.02"},
		{Keys: "Mod1-F4", Action: "kill"},
		{Keys: "Mod1-Shift-q", Action: "quit"},
		{Keys: "Mod4-F1", Action: "view", Arg: "0"},
		{Keys: "Mod4-F2", Action: "view", Arg: "1"},
		{Keys: "Mod4-F3", Action: "view", Arg: "2"},
		{Keys: "Mod1-Control-Right", Action: "viewrel", Arg: "+1"},
		{Keys: "Mod1-Control-Left", Action: "viewrel", Arg: "-1"},
		{Keys: "Mod1-Shift-Right", Action: "tagrel", Arg: "+1"},
		{Keys: "Mod1-Shift-Left", Action: "tagrel", Arg: "-1"},
		{Keys: "Mod1-Down", Action: "setposition", Arg: "float"},
		{Keys: "Mod1-Up", Action: "setposition", Arg: "max"},
		{Keys: "Mod1-Left", Action: "setposition", Arg: "left"},
		{Keys: "Mod1-Right", Action: "setposition", Arg: "right"},
	}
}

func defaultButtons() []ButtonBinding {
	return []ButtonBinding{
		{Button: "Mod1-1", Action: "move"},
		{Button: "Mod1-3", Action: "resize"},
	}
}

// Validate checks the configuration. Every error is a *ValidationError
// naming the offending path.
func (c *Config) Validate() error {
	if c.Desktops < 1 {
		return &ValidationError{Path: "desktops", Err: fmt.Errorf("desktops must be >= 1")}
	}
	if c.InitialDesktop < 0 || c.InitialDesktop >= c.Desktops {
		return &ValidationError{Path: "initial_desktop", Err: fmt.Errorf("initial_desktop must be in [0, %d)", c.Desktops)}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if _, err := ParseColor(c.Colors.Normal); err != nil {
		return &ValidationError{Path: "colors.normal", Err: err}
	}
	if _, err := ParseColor(c.Colors.Focused); err != nil {
		return &ValidationError{Path: "colors.focused", Err: err}
	}
	if c.SplitFactor < tiling.MinSplit || c.SplitFactor > tiling.MaxSplit {
		return &ValidationError{Path: "split_factor", Err: fmt.Errorf("split_factor must be in [%v, %v]", tiling.MinSplit, tiling.MaxSplit)}
	}
	for name, argv := range c.Commands {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "commands", Err: fmt.Errorf("commands contains an empty name")}
		}
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			return &ValidationError{Path: "commands." + name, Err: fmt.Errorf("command must not be empty")}
		}
	}
	for i, r := range c.Rules {
		path := fmt.Sprintf("rules[%d]", i)
		if r.Class == "" && r.Instance == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("rule needs a class or an instance")}
		}
		if r.Desktop < 0 || r.Desktop >= c.Desktops {
			return &ValidationError{Path: path + ".desktop", Err: fmt.Errorf("desktop must be in [0, %d)", c.Desktops)}
		}
		if _, err := tiling.ParseLayoutClass(r.Position); err != nil {
			return &ValidationError{Path: path + ".position", Err: err}
		}
	}
	for i, k := range c.Keys {
		path := fmt.Sprintf("keys[%d]", i)
		if strings.TrimSpace(k.Keys) == "" {
			return &ValidationError{Path: path + ".keys", Err: fmt.Errorf("key chord is required")}
		}
		if err := c.validateAction(k.Action, k.Arg); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}
	for i, b := range c.Buttons {
		path := fmt.Sprintf("buttons[%d]", i)
		if strings.TrimSpace(b.Button) == "" {
			return &ValidationError{Path: path + ".button", Err: fmt.Errorf("button chord is required")}
		}
		if err := c.validateAction(b.Action, b.Arg); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}
	return nil
}

func (c *Config) validateAction(action, arg string) error {
	cmd, err := command.Parse(action, arg, c.Commands)
	if err != nil {
		return err
	}
	if v, ok := cmd.(command.View); ok && v.Desktop >= c.Desktops {
		return fmt.Errorf("view: desktop %d out of range [0, %d)", v.Desktop, c.Desktops)
	}
	if t, ok := cmd.(command.Tag); ok && t.Desktop >= c.Desktops {
		return fmt.Errorf("tag: desktop %d out of range [0, %d)", t.Desktop, c.Desktops)
	}
	return nil
}

// ParseColor parses a hex color such as "#335588" into an X pixel value.
func ParseColor(s string) (uint32, error) {
	col, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	r, g, b := col.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// BorderPixels returns the normal and focused border pixel values.
func (c *Config) BorderPixels() (normal, focused uint32, err error) {
	if normal, err = ParseColor(c.Colors.Normal); err != nil {
		return 0, 0, err
	}
	if focused, err = ParseColor(c.Colors.Focused); err != nil {
		return 0, 0, err
	}
	return normal, focused, nil
}

// WMRules converts the rule table for the window manager core.
func (c *Config) WMRules() ([]wm.Rule, error) {
	rules := make([]wm.Rule, 0, len(c.Rules))
	for i, r := range c.Rules {
		class, err := tiling.ParseLayoutClass(r.Position)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("rules[%d].position", i), Err: err}
		}
		rules = append(rules, wm.Rule{
			Class:    r.Class,
			Instance: r.Instance,
			Desktop:  r.Desktop,
			Position: class,
		})
	}
	return rules, nil
}

// KeyBindings parses every key binding into a command.
func (c *Config) KeyBindings() ([]hotkeys.Binding, error) {
	out := make([]hotkeys.Binding, 0, len(c.Keys))
	for i, k := range c.Keys {
		cmd, err := command.Parse(k.Action, k.Arg, c.Commands)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("keys[%d]", i), Err: err}
		}
		out = append(out, hotkeys.Binding{Chord: k.Keys, Command: cmd})
	}
	return out, nil
}

// ButtonBindings parses every button binding into a command.
func (c *Config) ButtonBindings() ([]hotkeys.Binding, error) {
	out := make([]hotkeys.Binding, 0, len(c.Buttons))
	for i, b := range c.Buttons {
		cmd, err := command.Parse(b.Action, b.Arg, c.Commands)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("buttons[%d]", i), Err: err}
		}
		out = append(out, hotkeys.Binding{Chord: b.Button, Command: cmd})
	}
	return out, nil
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
