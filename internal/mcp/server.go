package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bsptile/internal/ipc"
)

const (
	ServerName    = "bsptile"
	ServerVersion = "0.1.0"
)

// Server exposes the daemon's layout operations as MCP tools over stdio,
// letting assistants inspect and drive the tiling layout. All tools proxy
// to the running daemon via its IPC socket.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server that talks to the daemon through client.
// A nil client uses the standard socket path.
func NewServer(client *ipc.Client) *Server {
	if client == nil {
		client = ipc.NewClient()
	}

	s := &Server{client: client}
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

// Run serves MCP on stdio, blocking until the context ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows the tiling daemon currently manages, in layout order. Each entry includes the X11 window ID, process ID, WM_CLASS class and title.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Move input focus to the next or previous window in layout order. Wraps around at either end. Returns the ID of the window that was activated.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "retile",
		Description: "Ask the daemon for an immediate full layout pass: re-scan windows, rebuild the layout and reposition everything.",
	}, s.handleRetile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the daemon's status: active display, managed window count, usable screen size and uptime.",
	}, s.handleGetStatus)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.GetWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowEntry, 0, len(data.Windows))}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, WindowEntry{
			ID:    w.ID,
			PID:   w.PID,
			Class: w.Class,
			Title: w.Title,
		})
	}
	return nil, out, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	var id uint32
	var err error
	switch args.Direction {
	case "next":
		id, err = s.client.FocusNext()
	case "prev":
		id, err = s.client.FocusPrev()
	default:
		return nil, FocusWindowOutput{}, fmt.Errorf("direction must be \"next\" or \"prev\", got %q", args.Direction)
	}
	if err != nil {
		return nil, FocusWindowOutput{}, err
	}
	return nil, FocusWindowOutput{Activated: id}, nil
}

func (s *Server) handleRetile(_ context.Context, _ *mcpsdk.CallToolRequest, _ RetileInput) (*mcpsdk.CallToolResult, RetileOutput, error) {
	if err := s.client.Retile(); err != nil {
		return nil, RetileOutput{}, err
	}
	return nil, RetileOutput{Retiled: true}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		DisplayName:   status.DisplayName,
		WindowCount:   status.WindowCount,
		ScreenWidth:   status.ScreenWidth,
		ScreenHeight:  status.ScreenHeight,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}
