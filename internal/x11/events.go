package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchRoot subscribes to root window property changes and invokes onChange
// whenever the managed client list or the focused window changes. The
// callback runs on the event loop goroutine and must not block.
func (c *Conn) WatchRoot(onChange func()) error {
	clientList, err := xprop.Atm(c.XUtil, "_NET_CLIENT_LIST")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_CLIENT_LIST: %w", err)
	}
	activeWindow, err := xprop.Atm(c.XUtil, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == clientList || ev.Atom == activeWindow {
			onChange()
		}
	}).Connect(c.XUtil, c.Root)

	return nil
}
