package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload     CommandType = "RELOAD"
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandGetRows    CommandType = "GET_ROWS"
	CommandGetWindows CommandType = "GET_WINDOWS"
	CommandAction     CommandType = "ACTION"
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

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int    `json:"window_count"`
	RowCount      int    `json:"row_count"`
	ActiveRow     int    `json:"active_row"`
	FocusedWindow uint64 `json:"focused_window,omitempty"`
	Animating     bool   `json:"animating"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// RowInfo represents one populated row.
type RowInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Columns int    `json:"columns"`
	Active  bool   `json:"active"`
	Urgent  bool   `json:"urgent,omitempty"`
}

// RowsData represents the data returned by GET_ROWS
type RowsData struct {
	Rows []RowInfo `json:"rows"`
}

// WindowInfo represents one managed window and its current frame rectangle.
type WindowInfo struct {
	ID       uint64  `json:"id"`
	Row      int     `json:"row"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Focused  bool    `json:"focused,omitempty"`
	Floating bool    `json:"floating,omitempty"`
	Urgent   bool    `json:"urgent,omitempty"`
}

// WindowsData represents the data returned by GET_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// ActionPayload represents the payload for the ACTION command: a named
// engine command plus its arguments. Unused arguments are ignored.
type ActionPayload struct {
	Name      string  `json:"name"`
	Direction string  `json:"direction,omitempty"` // left, right, up, down
	Fraction  float64 `json:"fraction,omitempty"`
	Pixels    int     `json:"pixels,omitempty"`
	RowName   string  `json:"row_name,omitempty"`
	RowIndex  int     `json:"row_index,omitempty"`
	WindowID  uint64  `json:"window_id,omitempty"`
	X         float64 `json:"x,omitempty"` // pointer position or delta
	Y         float64 `json:"y,omitempty"`
}

// Dispatcher is the surface the daemon exposes to the IPC server. Every call
// is marshalled onto the daemon's event loop; the engine itself is
// single-threaded.
type Dispatcher interface {
	Status() (StatusData, error)
	Rows() (RowsData, error)
	Windows() (WindowsData, error)
	Do(action ActionPayload) error
	Reload() error
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
