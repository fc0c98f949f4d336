package tui

import (
	"testing"

	"github.com/1broseidon/bsptile/internal/bsp"
)

func blankCanvas(w, h int) [][]rune {
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = make([]rune, w)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}
	return cells
}

func TestDrawBoxCorners(t *testing.T) {
	cells := blankCanvas(10, 6)
	drawBox(cells, bsp.Rect{X: 1, Y: 1, Width: 8, Height: 4})

	if cells[1][1] != '┌' || cells[1][8] != '┐' {
		t.Fatalf("top corners wrong: %q %q", cells[1][1], cells[1][8])
	}
	if cells[4][1] != '└' || cells[4][8] != '┘' {
		t.Fatalf("bottom corners wrong: %q %q", cells[4][1], cells[4][8])
	}
	if cells[1][4] != '─' || cells[2][1] != '│' {
		t.Fatalf("edges wrong: %q %q", cells[1][4], cells[2][1])
	}
	// Interior stays empty.
	if cells[2][4] != ' ' {
		t.Fatalf("interior was touched: %q", cells[2][4])
	}
}

func TestDrawLabelCentersAndSkipsTinyFrames(t *testing.T) {
	cells := blankCanvas(12, 5)
	drawLabel(cells, bsp.Rect{X: 0, Y: 0, Width: 12, Height: 5}, "3")
	if cells[2][5] != '3' {
		t.Fatalf("expected label at center, got %q", cells[2][5])
	}

	tiny := blankCanvas(3, 2)
	drawLabel(tiny, bsp.Rect{X: 0, Y: 0, Width: 3, Height: 2}, "10")
	for y := range tiny {
		for x := range tiny[y] {
			if tiny[y][x] != ' ' {
				t.Fatalf("tiny frame should stay unlabeled")
			}
		}
	}
}

func TestRenderCanvasCoversEveryWindow(t *testing.T) {
	lines := renderCanvas(4, 40, 12)
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}

	joined := ""
	for _, l := range lines {
		joined += l
	}
	for _, label := range []string{"1", "2", "3", "4"} {
		found := false
		for _, ch := range joined {
			if string(ch) == label {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("label %s missing from canvas", label)
		}
	}
}
