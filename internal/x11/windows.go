package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResize places a window at the given root-relative geometry. Maximized
// state is cleared first so the window manager honours the request.
func (c *Conn) MoveResize(id xproto.Window, x, y, width, height int) error {
	c.unmaximize(id)

	if err := ewmh.MoveresizeWindow(c.XUtil, id, x, y, width, height); err != nil {
		// Some window managers reject the EWMH request; configure the
		// window directly instead.
		xwindow.New(c.XUtil, id).MoveResize(x, y, width, height)
	}
	return nil
}

func (c *Conn) unmaximize(id xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, id)
	if err != nil {
		return
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, id, 0, state)
		}
	}
}

// ActiveWindow returns the window holding input focus per _NET_ACTIVE_WINDOW.
func (c *Conn) ActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// Activate raises and focuses a window. The client message is assembled by
// hand because the ewmh.ActiveWindowReq helper panics on this library
// version (uint vs int type assertion).
func (c *Conn) Activate(id xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: id,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// ClientList returns every window the window manager is managing, in the
// order the manager reports them.
func (c *Conn) ClientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// IsNormalWindow reports whether a window is an ordinary application window
// rather than a dock, desktop or popup surface.
func (c *Conn) IsNormalWindow(id xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	// Windows that declare no type at all are treated as normal.
	return len(types) == 0
}

// IsHiddenOrFullscreen reports whether a window should be left out of
// tiling because it is minimized or covering the whole screen.
func (c *Conn) IsHiddenOrFullscreen(id xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, id)
	if err != nil {
		return false
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_FULLSCREEN":
			return true
		}
	}
	return false
}

// Geometry returns a window's root-relative position and size.
func (c *Conn) Geometry(id xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// Class returns a window's WM_CLASS class name, or "" when unset.
func (c *Conn) Class(id xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, id)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// Title returns a window's name, preferring _NET_WM_NAME over WM_NAME.
func (c *Conn) Title(id xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return ""
}

// Pid returns the process id a window advertises, or 0 when unknown.
func (c *Conn) Pid(id xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, id)
	if err != nil {
		return 0
	}
	return int(pid)
}

// Desktop returns the virtual desktop a window lives on. Sticky windows
// (visible on every desktop) report -1.
func (c *Conn) Desktop(id xproto.Window) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, id)
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	if desktop == 0xFFFFFFFF {
		return -1, nil
	}
	return int(desktop), nil
}

// CurrentDesktop returns the active virtual desktop number.
func (c *Conn) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}
