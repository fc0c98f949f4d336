package bsp

import "github.com/1broseidon/bsptile/internal/platform"

// Rect represents a window position and size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Axis names a screen direction.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// ResizeRules describe how an assigned frame may later be resized
// interactively.
type ResizeRules struct {
	Main          bool
	Unconstrained Axis
	ScaleFactor   float64
}

// FrameAssignment pairs one window with the frame it should occupy inside
// a screen area.
type FrameAssignment struct {
	Frame       Rect
	Window      platform.Window
	ScreenFrame Rect
	Resize      ResizeRules
}

type frameWork struct {
	idx  int
	rect Rect
}

// partition walks the tree breadth-first and subdivides screen in
// proportion to tree shape: each internal node halves its rectangle along
// the longer axis, left child first. One assignment is emitted per leaf
// whose window resolves; unresolved windows and malformed nodes are
// reported to the sink and skipped so the remaining windows still lay out.
// For a fully resolvable tree the emitted frames tile screen exactly, with
// no overlap and no gap.
func partition(t *Tree, screen Rect, resolve func(platform.WindowID) (platform.Window, bool), sink Sink) []FrameAssignment {
	if t.Empty() {
		return nil
	}

	var assignments []FrameAssignment
	queue := []frameWork{{idx: t.root, rect: screen}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		n := t.nodes[item.idx]

		if n.hasWindow {
			win, ok := resolve(n.window)
			if !ok {
				sink.Warnf("layout: no window resolves identifier %d, skipping", n.window)
				continue
			}
			assignments = append(assignments, FrameAssignment{
				Frame:       item.rect,
				Window:      win,
				ScreenFrame: screen,
				Resize: ResizeRules{
					Main:          true,
					Unconstrained: Horizontal,
					ScaleFactor:   1,
				},
			})
			continue
		}

		if n.left == none || n.right == none {
			sink.Errorf("layout: invalid node %d has fewer than two children, skipping subtree", item.idx)
			continue
		}

		// Split along the longer axis. Integer halving gives the right
		// (or bottom) child the remainder so the halves always tile the
		// parent rectangle exactly.
		r := item.rect
		var first, second Rect
		if r.Width > r.Height {
			first = Rect{X: r.X, Y: r.Y, Width: r.Width / 2, Height: r.Height}
			second = Rect{X: r.X + r.Width/2, Y: r.Y, Width: r.Width - r.Width/2, Height: r.Height}
		} else {
			first = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height / 2}
			second = Rect{X: r.X, Y: r.Y + r.Height/2, Width: r.Width, Height: r.Height - r.Height/2}
		}
		queue = append(queue, frameWork{n.left, first}, frameWork{n.right, second})
	}

	return assignments
}
