//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/bsptile/internal/x11"
)

// LinuxBackend implements Backend on top of a shared X11 connection.
type LinuxBackend struct {
	conn *x11.Conn
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Conn) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection for the backend.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop until Quit (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil exposes the xgbutil connection for X11-specific callers such as
// hotkey registration.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// WatchRoot forwards root property-change notifications to onChange.
func (b *LinuxBackend) WatchRoot(onChange func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchRoot(onChange)
}

// Displays returns all active displays sorted by ID.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		bounds := Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: bounds,
			Usable: bounds,
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveDisplay returns the display the user is working on, with Usable
// clipped to the window manager's work area.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	mon, usable, err := conn.ActiveMonitor()
	if err != nil {
		return Display{}, err
	}

	return Display{
		ID:     mon.ID,
		Name:   mon.Name,
		Bounds: Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height},
		Usable: Rect{X: usable[0], Y: usable[1], Width: usable[2], Height: usable[3]},
	}, nil
}

// ActiveWindow returns the currently focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	id, err := conn.ActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(id), nil
}

// ListWindowsOnDisplay lists normal windows on the current desktop whose
// centers fall inside the display bounds, sorted by ID.
func (b *LinuxBackend) ListWindowsOnDisplay(displayID int) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}

	var target *Display
	for i := range displays {
		if displays[i].ID == displayID {
			target = &displays[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	currentDesktop, desktopErr := conn.CurrentDesktop()
	hasCurrentDesktop := desktopErr == nil

	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		if !conn.IsNormalWindow(id) {
			continue
		}
		if conn.IsHiddenOrFullscreen(id) {
			continue
		}

		if hasCurrentDesktop {
			if desktop, err := conn.Desktop(id); err == nil && desktop != -1 && desktop != currentDesktop {
				continue
			}
		}

		x, y, w, h, err := conn.Geometry(id)
		if err != nil {
			continue
		}
		if !containsPoint(target.Bounds, x+w/2, y+h/2) {
			continue
		}

		windows = append(windows, Window{
			ID:     WindowID(id),
			PID:    conn.Pid(id),
			AppID:  conn.Class(id),
			Title:  conn.Title(id),
			Bounds: Rect{X: x, Y: y, Width: w, Height: h},
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// MoveResize places a window at the given bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResize(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Activate raises and focuses a window.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Activate(xproto.Window(windowID))
}

func (b *LinuxBackend) connection() (*x11.Conn, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func containsPoint(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
