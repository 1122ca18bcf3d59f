package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/ipc"
)

const (
	ServerName    = "xiwm"
	ServerVersion = "0.1.0"
)

// Controller is the part of the IPC client the MCP tools need.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	ListClients() ([]ipc.ClientInfo, error)
	Exec(action, arg string) error
}

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server exposing the running window manager.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	log       *slog.Logger
}

// NewServer creates an MCP server that forwards every tool call to ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ctl: ctl, log: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the window manager state: current desktop, desktop count, split factor, dock height, screen size, focused window and monitors.",
	}, s.handleGetStatus)
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_clients",
		Description: "List managed windows with class, instance, desktop, layout class and geometry. Optionally filter by desktop.",
	}, s.handleListClients)
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run one window manager action, as a key binding would. Actions: view, tag, viewrel, tagrel, focusstack, setsplit, setposition, spawn, kill, quit. The argument is validated by the window manager.",
	}, s.handleRunCommand)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.ctl.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{Status: *status}, nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, args ListClientsInput) (*mcpsdk.CallToolResult, ListClientsOutput, error) {
	clients, err := s.ctl.ListClients()
	if err != nil {
		return nil, ListClientsOutput{}, err
	}

	out := ListClientsOutput{Clients: make([]ipc.ClientInfo, 0, len(clients))}
	for _, c := range clients {
		if args.Desktop != nil && c.Desktop != *args.Desktop {
			continue
		}
		out.Clients = append(out.Clients, c)
	}
	s.log.Debug("mcp list_clients", "total", len(clients), "returned", len(out.Clients))
	return nil, out, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	action := strings.TrimSpace(args.Action)
	arg := strings.TrimSpace(args.Arg)

	if !knownAction(action) {
		return nil, RunCommandOutput{}, fmt.Errorf("unknown action %q (expected one of %s)", action, strings.Join(command.Actions(), ", "))
	}
	if err := s.ctl.Exec(action, arg); err != nil {
		return nil, RunCommandOutput{}, err
	}
	s.log.Info("mcp run_command", "action", action, "arg", arg)
	return nil, RunCommandOutput{Action: action, Arg: arg, OK: true}, nil
}

func knownAction(action string) bool {
	action = strings.ToLower(action)
	for _, a := range command.Actions() {
		if a == action {
			return true
		}
	}
	return false
}
