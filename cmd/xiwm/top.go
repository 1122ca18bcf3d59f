package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/xi/xiwm/internal/ipc"
	"github.com/xi/xiwm/internal/tui"
)

func newTopCmd() *cobra.Command {
	var refresh time.Duration
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Live view of desktops and windows",
		Long: "Live view of desktops and windows, refreshed from the running window manager.\n\n" +
			"Keybindings:\n" +
			"  0-9         View desktop\n" +
			"  left/right  Browse desktops without switching\n" +
			"  r           Refresh now\n" +
			"  q, Ctrl+C   Quit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(ipc.NewClient(), refresh)
		},
	}
	cmd.Flags().DurationVar(&refresh, "refresh", tui.DefaultRefresh, "Refresh interval")
	return cmd
}
