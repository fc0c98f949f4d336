package bsp

import "github.com/1broseidon/bsptile/internal/platform"

// ChangeKind tags a window lifecycle notification.
type ChangeKind int

const (
	ChangeUnknown ChangeKind = iota
	ChangeAdded
	ChangeRemoved
	ChangeFocused
	ChangeSwapped
	ChangeSpace
)

// Change is one external window notification. Window carries the subject;
// Other carries the second window of a swap and is unset otherwise.
type Change struct {
	Kind   ChangeKind
	Window platform.Window
	Other  platform.Window
}

// FocusQuery answers which window currently has input focus. The engine
// only reads focus; it never decides or changes it.
type FocusQuery interface {
	ActiveWindow() (platform.WindowID, error)
}

// Engine owns one partition tree for one screen and translates change
// notifications into tree mutations. Every operation runs to completion
// before returning and holds no internal locks: the caller must invoke all
// methods from a single event-processing context.
type Engine struct {
	tree *Tree
	sink Sink

	// lastFocused anchors future insertions next to the window the user
	// was last working in. Updated only by focus notifications.
	lastFocused    platform.WindowID
	hasLastFocused bool

	focus FocusQuery
}

// NewEngine creates an engine with an empty tree. focus may be nil when
// directional navigation is not needed; sink may be nil to use the
// standard logger.
func NewEngine(focus FocusQuery, sink Sink) *Engine {
	if sink == nil {
		sink = NewLogSink()
	}
	return &Engine{
		tree:  NewTree(),
		sink:  sink,
		focus: focus,
	}
}

// ApplyChange mutates the tree according to one notification. All failure
// modes are absorbed and reported to the sink; the engine is always left
// in a usable state.
func (e *Engine) ApplyChange(ch Change) {
	switch ch.Kind {
	case ChangeAdded:
		id := ch.Window.ID
		if _, ok := e.tree.Find(id); ok {
			e.sink.Warnf("engine: window %d is already managed, ignoring add", id)
			return
		}
		if e.hasLastFocused && e.lastFocused != id {
			// A stale anchor is benign: the next sync pass re-adds the
			// window once focus state has caught up.
			if !e.tree.InsertAt(id, e.lastFocused) {
				e.sink.Infof("engine: anchor %d for window %d is gone, deferring insert", e.lastFocused, id)
			}
			return
		}
		e.tree.InsertTail(id)

	case ChangeRemoved:
		if !e.tree.Remove(ch.Window.ID) {
			e.sink.Warnf("engine: window %d is not managed, ignoring remove", ch.Window.ID)
		}

	case ChangeFocused:
		e.lastFocused = ch.Window.ID
		e.hasLastFocused = true

	case ChangeSwapped:
		if !e.tree.Swap(ch.Window.ID, ch.Other.ID) {
			e.sink.Warnf("engine: swap of %d and %d references an unmanaged window, ignoring", ch.Window.ID, ch.Other.ID)
		}

	case ChangeSpace, ChangeUnknown:
		// Deliberate no-ops.
	}
}

// NextClockwise returns the window after the focused one in traversal
// order, wrapping from the last window to the first. Reports false when
// focus is unavailable or the focused window is not managed.
func (e *Engine) NextClockwise() (platform.WindowID, bool) {
	return e.neighbor(1)
}

// NextCounterClockwise returns the window before the focused one in
// traversal order, wrapping from the first window to the last.
func (e *Engine) NextCounterClockwise() (platform.WindowID, bool) {
	return e.neighbor(-1)
}

func (e *Engine) neighbor(delta int) (platform.WindowID, bool) {
	if e.focus == nil {
		return 0, false
	}
	focused, err := e.focus.ActiveWindow()
	if err != nil {
		return 0, false
	}

	order := e.tree.OrderedWindows()
	for i, id := range order {
		if id != focused {
			continue
		}
		n := len(order)
		return order[((i+delta)%n+n)%n], true
	}
	return 0, false
}

// FrameAssignments computes one frame per managed window that appears in
// windows, tiling screen exactly. Managed identifiers with no matching
// window are skipped with a warning; callers still receive frames for
// everything that resolved.
func (e *Engine) FrameAssignments(windows []platform.Window, screen Rect) []FrameAssignment {
	byID := make(map[platform.WindowID]platform.Window, len(windows))
	for _, w := range windows {
		byID[w.ID] = w
	}
	return partition(e.tree, screen, func(id platform.WindowID) (platform.Window, bool) {
		w, ok := byID[id]
		return w, ok
	}, e.sink)
}

// OrderedWindows returns the managed windows in traversal order.
func (e *Engine) OrderedWindows() []platform.WindowID {
	return e.tree.OrderedWindows()
}

// Managed reports whether id is currently in the tree.
func (e *Engine) Managed(id platform.WindowID) bool {
	_, ok := e.tree.Find(id)
	return ok
}

// Len returns the number of managed windows.
func (e *Engine) Len() int {
	return e.tree.Len()
}
