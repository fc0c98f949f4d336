package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType names an IPC command.
type CommandType string

const (
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandGetWindows CommandType = "GET_WINDOWS"
	CommandFocusNext  CommandType = "FOCUS_NEXT"
	CommandFocusPrev  CommandType = "FOCUS_PREV"
	CommandRetile     CommandType = "RETILE"
	CommandReload     CommandType = "RELOAD"
)

// Request is one client-to-daemon message, sent as a single JSON line.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the daemon's reply, also a single JSON line.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by GET_STATUS.
type StatusData struct {
	DisplayName   string `json:"display_name"`
	WindowCount   int    `json:"window_count"`
	ScreenX       int    `json:"screen_x"`
	ScreenY       int    `json:"screen_y"`
	ScreenWidth   int    `json:"screen_width"`
	ScreenHeight  int    `json:"screen_height"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// WindowInfo describes one managed window in layout order.
type WindowInfo struct {
	ID    uint32 `json:"id"`
	PID   int    `json:"pid,omitempty"`
	Class string `json:"class,omitempty"`
	Title string `json:"title,omitempty"`
}

// WindowsData is returned by GET_WINDOWS.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// FocusData is returned by FOCUS_NEXT and FOCUS_PREV.
type FocusData struct {
	Activated uint32 `json:"activated"`
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data interface{}) (*Response, error) {
	var raw json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		raw = bytes
	}
	return &Response{Status: "OK", Data: raw}, nil
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// ParseRequest parses a request from JSON bytes.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
