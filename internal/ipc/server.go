package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/daemon"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/runtimepath"
)

// Controller is the slice of the daemon the IPC server drives.
type Controller interface {
	Status() (daemon.Status, error)
	Windows() ([]platform.Window, error)
	FocusNext() (platform.WindowID, error)
	FocusPrev() (platform.WindowID, error)
	Sync() error
	UpdateConfig(cfg *config.Config)
}

// Server answers client requests over a unix socket, one JSON line per
// request and response.
type Server struct {
	socketPath string
	listener   net.Listener
	ctrl       Controller
	startTime  time.Time

	shutdownMu   sync.Mutex
	shuttingDown bool
}

// NewServer creates an IPC server bound to the standard socket path. Any
// stale socket from a previous run is removed.
func NewServer(ctrl Controller) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		startTime:  time.Now(),
	}, nil
}

// Start begins accepting connections in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.handleCommand(req))
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetWindows:
		return s.handleGetWindows()
	case CommandFocusNext:
		return s.handleFocus(s.ctrl.FocusNext)
	case CommandFocusPrev:
		return s.handleFocus(s.ctrl.FocusPrev)
	case CommandRetile:
		return s.handleRetile()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	st, err := s.ctrl.Status()
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(StatusData{
		DisplayName:   st.DisplayName,
		WindowCount:   st.WindowCount,
		ScreenX:       st.ScreenBounds.X,
		ScreenY:       st.ScreenBounds.Y,
		ScreenWidth:   st.ScreenBounds.Width,
		ScreenHeight:  st.ScreenBounds.Height,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetWindows() *Response {
	windows, err := s.ctrl.Windows()
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	data := WindowsData{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		data.Windows = append(data.Windows, WindowInfo{
			ID:    uint32(w.ID),
			PID:   w.PID,
			Class: w.AppID,
			Title: w.Title,
		})
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleFocus(move func() (platform.WindowID, error)) *Response {
	id, err := move()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(FocusData{Activated: uint32(id)})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleRetile() *Response {
	if err := s.ctrl.Sync(); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	cfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to load config: %v", err))
	}
	s.ctrl.UpdateConfig(cfg)

	resp, _ := NewOKResponse(nil)
	return resp
}
