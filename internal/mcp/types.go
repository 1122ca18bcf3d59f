package mcp

import "github.com/xi/xiwm/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// ListClientsInput is the input for the list_clients tool.
type ListClientsInput struct {
	Desktop *int `json:"desktop,omitempty" jsonschema:"Only list windows on this desktop (default: all desktops)"`
}

// ListClientsOutput is the output for the list_clients tool.
type ListClientsOutput struct {
	Clients []ipc.ClientInfo `json:"clients"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Action string `json:"action" jsonschema:"required,Action name as used in key bindings (e.g. view, tag, focusstack, spawn, quit)"`
	Arg    string `json:"arg,omitempty" jsonschema:"Action argument, e.g. a desktop index for view/tag, +1/-1 for focusstack or viewrel, a command name for spawn"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
	OK     bool   `json:"ok"`
}
