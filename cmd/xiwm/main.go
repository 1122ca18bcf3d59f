package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xi/xiwm/internal/config"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "xiwm",
		Short:         "Minimal tiling window manager for X11",
		Long:          "xiwm is a small X11 window manager with per-desktop focus, two-column tiling, floating and maximized windows.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runWM(configPath, "")
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.config/xiwm/config.yaml)")

	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newCtlCmd())
	rootCmd.AddCommand(newConfigCmd(&configPath))
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newTopCmd())
	return rootCmd
}

// loadConfigResult loads path, or the default location when path is empty.
func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
