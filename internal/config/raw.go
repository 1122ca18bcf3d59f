package config

type RawColors struct {
	Normal  *string `yaml:"normal"`
	Focused *string `yaml:"focused"`
}

// RawConfig is the configuration file as written. Unset fields are nil and
// keep their defaults.
type RawConfig struct {
	Display        *string             `yaml:"display"`
	LogLevel       *string             `yaml:"log_level"`
	Desktops       *int                `yaml:"desktops"`
	InitialDesktop *int                `yaml:"initial_desktop"`
	Colors         *RawColors          `yaml:"colors"`
	SplitFactor    *float64            `yaml:"split_factor"`
	Autostart      *string             `yaml:"autostart"`
	Commands       map[string][]string `yaml:"commands"`
	Rules          *[]Rule             `yaml:"rules"`
	Keys           *[]KeyBinding       `yaml:"keys"`
	Buttons        *[]ButtonBinding    `yaml:"buttons"`
}
