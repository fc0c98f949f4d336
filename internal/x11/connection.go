package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Conn bundles the xgbutil connection with the root window of the screen
// it manages. One Conn serves all window, monitor and event operations.
type Conn struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Connect opens a connection to the X server named by DISPLAY and prepares
// the keybind machinery used for global hotkeys.
func Connect() (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	keybind.Initialize(xu)

	return &Conn{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop runs the X event dispatch loop. It blocks until Quit is called
// or the connection drops.
func (c *Conn) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit asks a running EventLoop to return.
func (c *Conn) Quit() {
	xevent.Quit(c.XUtil)
}

// Close disconnects from the X server.
func (c *Conn) Close() {
	c.XUtil.Conn().Close()
}
