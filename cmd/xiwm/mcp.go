package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xi/xiwm/internal/ipc"
	"github.com/xi/xiwm/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	mcpCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: "Start the MCP server on stdio. It exposes get_status, list_clients and run_command,\n" +
			"forwarded to the running window manager over IPC.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			// stdout carries the protocol; logs go to stderr.
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			server := mcp.NewServer(ipc.NewClient(), logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx); err != nil {
				log.Fatalf("MCP server error: %v", err)
			}
		},
	})
	return mcpCmd
}
