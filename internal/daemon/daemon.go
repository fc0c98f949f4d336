package daemon

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/platform"
)

// Daemon keeps the layout engine synchronized with the window system and
// applies computed frames back to the windows. One daemon manages the
// active display.
type Daemon struct {
	backend platform.Backend

	mu     sync.Mutex
	engine *bsp.Engine
	cfg    *config.Config

	// kick wakes the run loop for an immediate sync, coalescing bursts of
	// window events into one pass.
	kick chan struct{}
}

// New creates a daemon. The backend doubles as the engine's focus source.
func New(backend platform.Backend, cfg *config.Config) *Daemon {
	return &Daemon{
		backend: backend,
		engine:  bsp.NewEngine(backend, bsp.NewLogSink()),
		cfg:     cfg,
		kick:    make(chan struct{}, 1),
	}
}

// Run drives periodic and event-triggered syncs until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) {
	interval := time.Duration(d.resyncSeconds()) * time.Second
	if interval <= 0 {
		// Re-sync still has to catch missed events eventually.
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.safeSync()

	for {
		select {
		case <-ctx.Done():
			log.Println("daemon stopped")
			return
		case <-ticker.C:
			d.safeSync()
		case <-d.kick:
			d.safeSync()
		}
	}
}

// Kick requests an immediate sync. Safe to call from any goroutine,
// including X event callbacks; never blocks.
func (d *Daemon) Kick() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

func (d *Daemon) resyncSeconds() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.ResyncSeconds
}

func (d *Daemon) safeSync() {
	// A misbehaving window or a lost X race must not take the daemon down.
	defer func() {
		if err := recover(); err != nil {
			log.Printf("Error: sync panic recovered: %v", err)
		}
	}()
	if err := d.Sync(); err != nil {
		log.Printf("Warning: sync failed: %v", err)
	}
}

// Sync performs one full pass: diff the window system against the engine,
// feed it the resulting changes, and apply the new layout.
func (d *Daemon) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	display, err := d.backend.ActiveDisplay()
	if err != nil {
		return fmt.Errorf("active display: %w", err)
	}

	windows, err := d.backend.ListWindowsOnDisplay(display.ID)
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}
	windows = d.filterManaged(windows)

	current := make(map[platform.WindowID]platform.Window, len(windows))
	for _, w := range windows {
		current[w.ID] = w
	}

	// Departed windows first so stale entries never anchor insertions.
	for _, id := range d.engine.OrderedWindows() {
		if _, ok := current[id]; !ok {
			d.engine.ApplyChange(bsp.Change{Kind: bsp.ChangeRemoved, Window: platform.Window{ID: id}})
		}
	}

	// Refresh the focus anchor before adding, so new windows land next to
	// the window the user is working in.
	focused, focusErr := d.backend.ActiveWindow()
	if focusErr == nil {
		if w, ok := current[focused]; ok {
			d.engine.ApplyChange(bsp.Change{Kind: bsp.ChangeFocused, Window: w})
		}
	}

	// Add the focused window first: it is the anchor the remaining
	// arrivals insert next to.
	if focusErr == nil {
		if w, ok := current[focused]; ok && !d.engine.Managed(w.ID) {
			d.engine.ApplyChange(bsp.Change{Kind: bsp.ChangeAdded, Window: w})
		}
	}
	for _, w := range windows {
		if !d.engine.Managed(w.ID) {
			d.engine.ApplyChange(bsp.Change{Kind: bsp.ChangeAdded, Window: w})
		}
	}

	d.applyLayout(display, windows)
	return nil
}

func (d *Daemon) filterManaged(windows []platform.Window) []platform.Window {
	managed := windows[:0]
	for _, w := range windows {
		if d.cfg.ManagesClass(w.AppID) {
			managed = append(managed, w)
		}
	}
	return managed
}

func (d *Daemon) applyLayout(display platform.Display, windows []platform.Window) {
	pad := d.cfg.ScreenPadding
	screen := bsp.Rect{
		X:      display.Usable.X + pad,
		Y:      display.Usable.Y + pad,
		Width:  display.Usable.Width - 2*pad,
		Height: display.Usable.Height - 2*pad,
	}
	if screen.Width <= 0 || screen.Height <= 0 {
		log.Printf("Warning: screen padding %d leaves no usable area on display %q", pad, display.Name)
		return
	}

	for _, fa := range d.engine.FrameAssignments(windows, screen) {
		bounds := d.withMargins(fa.Window.AppID, fa.Frame)
		if err := d.backend.MoveResize(fa.Window.ID, bounds); err != nil {
			log.Printf("Warning: failed to place window %d: %v", fa.Window.ID, err)
		}
	}
}

func (d *Daemon) withMargins(class string, frame bsp.Rect) platform.Rect {
	m := d.cfg.GetMargins(class)
	return platform.Rect{
		X:      frame.X + m.Left,
		Y:      frame.Y + m.Top,
		Width:  frame.Width - m.Left - m.Right,
		Height: frame.Height - m.Top - m.Bottom,
	}
}

// FocusNext activates the window after the focused one in layout order and
// returns its ID.
func (d *Daemon) FocusNext() (platform.WindowID, error) {
	return d.focusNeighbor(true)
}

// FocusPrev activates the window before the focused one in layout order and
// returns its ID.
func (d *Daemon) FocusPrev() (platform.WindowID, error) {
	return d.focusNeighbor(false)
}

func (d *Daemon) focusNeighbor(forward bool) (platform.WindowID, error) {
	d.mu.Lock()
	var id platform.WindowID
	var ok bool
	if forward {
		id, ok = d.engine.NextClockwise()
	} else {
		id, ok = d.engine.NextCounterClockwise()
	}
	d.mu.Unlock()

	if !ok {
		return 0, fmt.Errorf("no focus target available")
	}
	if err := d.backend.Activate(id); err != nil {
		return 0, fmt.Errorf("activate window %d: %w", id, err)
	}
	return id, nil
}

// Status summarizes the daemon's view of the world.
type Status struct {
	DisplayName  string
	WindowCount  int
	ScreenBounds platform.Rect
}

// Status reports the active display and how many windows are managed.
func (d *Daemon) Status() (Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	display, err := d.backend.ActiveDisplay()
	if err != nil {
		return Status{}, err
	}
	return Status{
		DisplayName:  display.Name,
		WindowCount:  d.engine.Len(),
		ScreenBounds: display.Usable,
	}, nil
}

// Windows returns the managed windows in layout order, with metadata
// refreshed from the window system where available.
func (d *Daemon) Windows() ([]platform.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	display, err := d.backend.ActiveDisplay()
	if err != nil {
		return nil, err
	}
	listed, err := d.backend.ListWindowsOnDisplay(display.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[platform.WindowID]platform.Window, len(listed))
	for _, w := range listed {
		byID[w.ID] = w
	}

	var windows []platform.Window
	for _, id := range d.engine.OrderedWindows() {
		if w, ok := byID[id]; ok {
			windows = append(windows, w)
		} else {
			windows = append(windows, platform.Window{ID: id})
		}
	}
	return windows, nil
}

// UpdateConfig swaps the active configuration. The next sync applies it.
func (d *Daemon) UpdateConfig(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	d.Kick()
}
