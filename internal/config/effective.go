package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Desktops != nil {
		cfg.Desktops = *raw.Desktops
	}
	if raw.InitialDesktop != nil {
		cfg.InitialDesktop = *raw.InitialDesktop
	} else if cfg.InitialDesktop >= cfg.Desktops {
		// A smaller desktop count without an explicit initial desktop
		// starts on the first one.
		cfg.InitialDesktop = 0
	}
	if raw.Colors != nil {
		if raw.Colors.Normal != nil {
			cfg.Colors.Normal = *raw.Colors.Normal
		}
		if raw.Colors.Focused != nil {
			cfg.Colors.Focused = *raw.Colors.Focused
		}
	}
	if raw.SplitFactor != nil {
		cfg.SplitFactor = *raw.SplitFactor
	}
	if raw.Autostart != nil {
		cfg.Autostart = *raw.Autostart
	}
	for name, argv := range raw.Commands {
		if argv == nil {
			delete(cfg.Commands, name)
			continue
		}
		cfg.Commands[name] = argv
	}
	if raw.Rules != nil {
		cfg.Rules = *raw.Rules
	}
	if raw.Keys != nil {
		cfg.Keys = *raw.Keys
	}
	if raw.Buttons != nil {
		cfg.Buttons = *raw.Buttons
	}

	return cfg
}
