package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	log_level
//	desktops
//	initial_desktop
//	colors.normal
//	split_factor
//	autostart
//	commands.<name>
//	rules[<i>]
//	keys[<i>]
//	buttons[<i>]
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	head, index, rest, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	scalar := func(v any) (any, error) {
		if index >= 0 || rest != "" {
			return nil, fmt.Errorf("%s has no sub-paths", head)
		}
		return v, nil
	}

	switch head {
	case "display":
		return scalar(cfg.Display)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "desktops":
		return scalar(cfg.Desktops)
	case "initial_desktop":
		return scalar(cfg.InitialDesktop)
	case "split_factor":
		return scalar(cfg.SplitFactor)
	case "autostart":
		return scalar(cfg.Autostart)
	case "colors":
		switch rest {
		case "":
			return cfg.Colors, nil
		case "normal":
			return cfg.Colors.Normal, nil
		case "focused":
			return cfg.Colors.Focused, nil
		}
	case "commands":
		if rest == "" {
			return cfg.Commands, nil
		}
		if argv, ok := cfg.Commands[rest]; ok {
			return argv, nil
		}
		return nil, fmt.Errorf("unknown command %q", rest)
	case "rules":
		return indexed(cfg.Rules, index, rest, path)
	case "keys":
		return indexed(cfg.Keys, index, rest, path)
	case "buttons":
		return indexed(cfg.Buttons, index, rest, path)
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}

func indexed[T any](items []T, index int, rest, path string) (any, error) {
	if rest != "" {
		return nil, fmt.Errorf("unsupported config path %q", path)
	}
	if index < 0 {
		return items, nil
	}
	if index >= len(items) {
		return nil, fmt.Errorf("%s: index out of range (%d entries)", path, len(items))
	}
	return items[index], nil
}

// splitPath splits "keys[2]" into ("keys", 2, "") and "colors.normal" into
// ("colors", -1, "normal").
func splitPath(path string) (head string, index int, rest string, err error) {
	head, rest, _ = strings.Cut(path, ".")
	index = -1
	if open := strings.IndexByte(head, '['); open >= 0 {
		if !strings.HasSuffix(head, "]") {
			return "", 0, "", fmt.Errorf("malformed index in %q", path)
		}
		n, convErr := strconv.Atoi(head[open+1 : len(head)-1])
		if convErr != nil || n < 0 {
			return "", 0, "", fmt.Errorf("malformed index in %q", path)
		}
		head, index = head[:open], n
	}
	return head, index, rest, nil
}
