package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowEntry describes one tiled window in layout order.
type WindowEntry struct {
	ID    uint32 `json:"id"`
	PID   int    `json:"pid,omitempty"`
	Class string `json:"class,omitempty"`
	Title string `json:"title,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowEntry `json:"windows"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	Direction string `json:"direction" jsonschema:"required,Focus direction: next or prev (layout order, wrapping at the ends)"`
}

// FocusWindowOutput is the output for the focus_window tool.
type FocusWindowOutput struct {
	Activated uint32 `json:"activated"`
}

// RetileInput is the input for the retile tool.
type RetileInput struct{}

// RetileOutput is the output for the retile tool.
type RetileOutput struct {
	Retiled bool `json:"retiled"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DisplayName   string `json:"display_name"`
	WindowCount   int    `json:"window_count"`
	ScreenWidth   int    `json:"screen_width"`
	ScreenHeight  int    `json:"screen_height"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
