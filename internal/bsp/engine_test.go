package bsp

import (
	"errors"
	"testing"

	"github.com/1broseidon/bsptile/internal/platform"
)

// fakeFocus is a FocusQuery with a settable answer.
type fakeFocus struct {
	id  platform.WindowID
	err error
}

func (f *fakeFocus) ActiveWindow() (platform.WindowID, error) {
	return f.id, f.err
}

func added(id platform.WindowID) Change {
	return Change{Kind: ChangeAdded, Window: platform.Window{ID: id}}
}

func removed(id platform.WindowID) Change {
	return Change{Kind: ChangeRemoved, Window: platform.Window{ID: id}}
}

func focused(id platform.WindowID) Change {
	return Change{Kind: ChangeFocused, Window: platform.Window{ID: id}}
}

func swapped(a, b platform.WindowID) Change {
	return Change{Kind: ChangeSwapped, Window: platform.Window{ID: a}, Other: platform.Window{ID: b}}
}

func TestEngineAddsAtTailWithoutFocusState(t *testing.T) {
	e := NewEngine(nil, Discard)
	e.ApplyChange(added(1))
	e.ApplyChange(added(2))
	e.ApplyChange(added(3))

	want := []platform.WindowID{1, 2, 3}
	if got := e.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestEngineAddsNextToLastFocused(t *testing.T) {
	e := NewEngine(nil, Discard)
	e.ApplyChange(added(1))
	e.ApplyChange(added(2))
	e.ApplyChange(added(3))
	e.ApplyChange(focused(1))
	e.ApplyChange(added(4))

	want := []platform.WindowID{1, 4, 2, 3}
	if got := e.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestEngineAddWithStaleAnchorDefersInsert(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(nil, sink)
	e.ApplyChange(added(1))
	e.ApplyChange(focused(1))
	e.ApplyChange(removed(1))

	// The anchor still points at 1, which is gone. The add must not apply
	// and must not warn; a later sync pass retries it.
	e.ApplyChange(added(2))
	if e.Managed(2) {
		t.Fatalf("window 2 was inserted despite a stale anchor")
	}
	if len(sink.warns) != 0 {
		t.Fatalf("expected no warnings, got %v", sink.warns)
	}
	if len(sink.infos) != 1 {
		t.Fatalf("expected one info about the deferred insert, got %v", sink.infos)
	}

	// Once focus catches up the retry lands.
	e.ApplyChange(focused(2))
	e.ApplyChange(added(2))
	if !e.Managed(2) {
		t.Fatalf("retried add did not apply")
	}
}

func TestEngineDuplicateAddWarnsAndIgnores(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(nil, sink)
	e.ApplyChange(added(1))
	e.ApplyChange(added(1))

	if e.Len() != 1 {
		t.Fatalf("expected 1 managed window, got %d", e.Len())
	}
	if len(sink.warns) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(sink.warns), sink.warns)
	}
}

func TestEngineRemoveOfUnmanagedWarnsOnce(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(nil, sink)
	e.ApplyChange(added(1))
	e.ApplyChange(removed(99))

	if e.Len() != 1 {
		t.Fatalf("expected 1 managed window, got %d", e.Len())
	}
	if len(sink.warns) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(sink.warns), sink.warns)
	}
}

func TestEngineSwapFailureWarnsAndLeavesOrder(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(nil, sink)
	e.ApplyChange(added(1))
	e.ApplyChange(added(2))
	before := e.OrderedWindows()

	e.ApplyChange(swapped(1, 99))
	if got := e.OrderedWindows(); !idsEqual(got, before) {
		t.Fatalf("order changed after failed swap: %v -> %v", before, got)
	}
	if len(sink.warns) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(sink.warns), sink.warns)
	}
}

func TestEngineSwapReordersWindows(t *testing.T) {
	e := NewEngine(nil, Discard)
	e.ApplyChange(added(1))
	e.ApplyChange(added(2))
	e.ApplyChange(added(3))
	e.ApplyChange(swapped(1, 3))

	want := []platform.WindowID{3, 2, 1}
	if got := e.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestEngineSpaceAndUnknownChangesAreNoOps(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(nil, sink)
	e.ApplyChange(added(1))

	e.ApplyChange(Change{Kind: ChangeSpace})
	e.ApplyChange(Change{Kind: ChangeUnknown, Window: platform.Window{ID: 5}})

	if e.Len() != 1 {
		t.Fatalf("expected 1 managed window, got %d", e.Len())
	}
	if len(sink.warns)+len(sink.errors) != 0 {
		t.Fatalf("expected no diagnostics, got warns=%v errors=%v", sink.warns, sink.errors)
	}
}

func TestEngineNavigationWrapsBothDirections(t *testing.T) {
	focus := &fakeFocus{}
	e := NewEngine(focus, Discard)
	for _, id := range []platform.WindowID{1, 2, 3} {
		e.ApplyChange(added(id))
	}

	focus.id = 3
	if next, ok := e.NextClockwise(); !ok || next != 1 {
		t.Fatalf("expected wrap to 1, got %d ok=%v", next, ok)
	}
	focus.id = 1
	if prev, ok := e.NextCounterClockwise(); !ok || prev != 3 {
		t.Fatalf("expected wrap to 3, got %d ok=%v", prev, ok)
	}

	focus.id = 2
	if next, ok := e.NextClockwise(); !ok || next != 3 {
		t.Fatalf("expected 3, got %d ok=%v", next, ok)
	}
	if prev, ok := e.NextCounterClockwise(); !ok || prev != 1 {
		t.Fatalf("expected 1, got %d ok=%v", prev, ok)
	}
}

func TestEngineNavigationSingleWindowReturnsItself(t *testing.T) {
	focus := &fakeFocus{id: 1}
	e := NewEngine(focus, Discard)
	e.ApplyChange(added(1))

	if next, ok := e.NextClockwise(); !ok || next != 1 {
		t.Fatalf("expected 1, got %d ok=%v", next, ok)
	}
	if prev, ok := e.NextCounterClockwise(); !ok || prev != 1 {
		t.Fatalf("expected 1, got %d ok=%v", prev, ok)
	}
}

func TestEngineNavigationWithoutFocusReportsFalse(t *testing.T) {
	e := NewEngine(nil, Discard)
	e.ApplyChange(added(1))
	if _, ok := e.NextClockwise(); ok {
		t.Fatalf("navigation succeeded without a focus source")
	}

	focus := &fakeFocus{err: errors.New("no active window")}
	e = NewEngine(focus, Discard)
	e.ApplyChange(added(1))
	if _, ok := e.NextClockwise(); ok {
		t.Fatalf("navigation succeeded despite focus query error")
	}

	focus = &fakeFocus{id: 42}
	e = NewEngine(focus, Discard)
	e.ApplyChange(added(1))
	if _, ok := e.NextClockwise(); ok {
		t.Fatalf("navigation succeeded for an unmanaged focused window")
	}
}

func TestEngineFrameAssignmentsSkipUnresolvedWindows(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(nil, sink)
	e.ApplyChange(added(1))
	e.ApplyChange(added(2))

	// Only window 1 is still reported by the platform.
	frames := e.FrameAssignments(
		[]platform.Window{{ID: 1, Title: "editor"}},
		Rect{Width: 1000, Height: 600},
	)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Window.ID != 1 || frames[0].Window.Title != "editor" {
		t.Fatalf("unexpected window in frame: %+v", frames[0].Window)
	}
	if len(sink.warns) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(sink.warns), sink.warns)
	}
}

func TestEngineFrameAssignmentsTileScreen(t *testing.T) {
	e := NewEngine(nil, Discard)
	var windows []platform.Window
	for id := platform.WindowID(1); id <= 6; id++ {
		e.ApplyChange(added(id))
		windows = append(windows, platform.Window{ID: id})
	}

	screen := Rect{X: 10, Y: 20, Width: 1900, Height: 1040}
	frames := e.FrameAssignments(windows, screen)
	if len(frames) != 6 {
		t.Fatalf("expected 6 frames, got %d", len(frames))
	}
	checkExactTiling(t, frames, screen)
}
