package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListClients CommandType = "LIST_CLIENTS"
	CommandExec        CommandType = "EXEC"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CurrentDesktop int           `json:"current_desktop"`
	Desktops       int           `json:"desktops"`
	SplitFactor    float64       `json:"split_factor"`
	DockHeight     int           `json:"dock_height"`
	ScreenWidth    int           `json:"screen_width"`
	ScreenHeight   int           `json:"screen_height"`
	Focused        uint32        `json:"focused"`
	ClientCount    int           `json:"client_count"`
	Dragging       bool          `json:"dragging"`
	Monitors       []MonitorInfo `json:"monitors,omitempty"`
	UptimeSeconds  int64         `json:"uptime_seconds"`
}

// ClientInfo describes one managed window.
type ClientInfo struct {
	Window     uint32 `json:"window"`
	Class      string `json:"class"`
	Instance   string `json:"instance"`
	Desktop    int    `json:"desktop"`
	Layout     string `json:"layout"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen,omitempty"`
	FixedSize  bool   `json:"fixed_size,omitempty"`
	Dock       bool   `json:"dock,omitempty"`
	Transient  uint32 `json:"transient_for,omitempty"`
	Focused    bool   `json:"focused,omitempty"`
	Visible    bool   `json:"visible"`
}

// ClientsData represents the data returned by LIST_CLIENTS
type ClientsData struct {
	Clients []ClientInfo `json:"clients"`
}

// ExecPayload represents the payload for EXEC: one bound action and its
// argument, in the same syntax as the key bindings.
type ExecPayload struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
