package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one physical display as reported by RandR.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Monitors enumerates active RandR CRTCs. Disabled outputs are skipped.
func (c *Conn) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if output, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(output.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// ActiveMonitor returns the monitor holding the focused window, falling back
// to the monitor under the pointer and then to the first monitor. Usable is
// the monitor geometry clipped to the EWMH work area so panels and docks
// stay uncovered.
func (c *Conn) ActiveMonitor() (mon Monitor, usable [4]int, err error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, usable, err
	}
	if len(monitors) == 0 {
		return Monitor{}, usable, fmt.Errorf("no monitors found")
	}

	var active *Monitor
	if focused, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && focused != 0 {
		active = c.monitorForWindow(monitors, focused)
	}
	if active == nil {
		active = c.monitorForPointer(monitors)
	}
	if active == nil {
		active = &monitors[0]
	}

	usable = c.workAreaWithin(*active)
	return *active, usable, nil
}

// workAreaWithin intersects a monitor with the current desktop's
// _NET_WORKAREA rectangle. When the property is absent or does not overlap
// the monitor, the full monitor geometry is returned.
func (c *Conn) workAreaWithin(m Monitor) [4]int {
	full := [4]int{m.X, m.Y, m.Width, m.Height}

	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return full
	}

	idx := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(areas) {
		idx = int(current)
	}
	wa := areas[idx]

	x1 := max(m.X, int(wa.X))
	y1 := max(m.Y, int(wa.Y))
	x2 := min(m.X+m.Width, int(wa.X)+int(wa.Width))
	y2 := min(m.Y+m.Height, int(wa.Y)+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return full
	}
	return [4]int{x1, y1, x2 - x1, y2 - y1}
}

func (c *Conn) monitorForWindow(monitors []Monitor, id xproto.Window) *Monitor {
	x, y, w, h, err := c.Geometry(id)
	if err != nil {
		return nil
	}
	return monitorAt(monitors, x+w/2, y+h/2)
}

func (c *Conn) monitorForPointer(monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	return monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		m := &monitors[i]
		if x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height {
			return m
		}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
