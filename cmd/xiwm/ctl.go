package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xi/xiwm/internal/ipc"
)

func newCtlCmd() *cobra.Command {
	var asJSON bool
	ctlCmd := &cobra.Command{
		Use:   "ctl",
		Short: "Control the running window manager over IPC",
	}
	ctlCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	ctlCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show window manager status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	})

	ctlCmd.AddCommand(&cobra.Command{
		Use:   "clients",
		Short: "List managed windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := ipc.NewClient().ListClients()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), clients)
			}
			printClients(cmd.OutOrStdout(), clients)
			return nil
		},
	})

	ctlCmd.AddCommand(&cobra.Command{
		Use:   "exec <action> [arg]",
		Short: "Run one action, e.g. 'view 2' or 'spawn term'",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 2 {
				arg = args[1]
			}
			return ipc.NewClient().Exec(args[0], arg)
		},
	})

	return ctlCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "current_desktop: %d\n", status.CurrentDesktop)
	fmt.Fprintf(w, "desktops:        %d\n", status.Desktops)
	fmt.Fprintf(w, "split_factor:    %.2f\n", status.SplitFactor)
	fmt.Fprintf(w, "dock_height:     %d\n", status.DockHeight)
	fmt.Fprintf(w, "screen:          %dx%d\n", status.ScreenWidth, status.ScreenHeight)
	fmt.Fprintf(w, "focused:         0x%x\n", status.Focused)
	fmt.Fprintf(w, "client_count:    %d\n", status.ClientCount)
	fmt.Fprintf(w, "dragging:        %v\n", status.Dragging)
	fmt.Fprintf(w, "uptime_seconds:  %d\n", status.UptimeSeconds)
	for _, m := range status.Monitors {
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Fprintf(w, "monitor %d:       %s %dx%d+%d+%d%s\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y, primary)
	}
}

func printClients(w io.Writer, clients []ipc.ClientInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tDESKTOP\tLAYOUT\tCLASS\tINSTANCE\tGEOMETRY\tFLAGS")
	for _, c := range clients {
		layout := c.Layout
		if c.Dock {
			layout = "dock"
		}
		var flags string
		if c.Focused {
			flags += "*"
		}
		if c.Fullscreen {
			flags += "F"
		}
		if c.Transient != 0 {
			flags += "T"
		}
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(tw, "0x%x\t%d\t%s\t%s\t%s\t%dx%d+%d+%d\t%s\n",
			c.Window, c.Desktop, layout, c.Class, c.Instance, c.Width, c.Height, c.X, c.Y, flags)
	}
	tw.Flush()
}
