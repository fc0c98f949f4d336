package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/platform"
)

var (
	frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// model previews how a given number of windows would be partitioned,
// rendered as nested boxes on a character canvas.
type model struct {
	count  int
	width  int
	height int
}

func newModel(count int) model {
	if count < 1 {
		count = 1
	}
	return model{count: count, width: 80, height: 24}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "+", "=", "up":
			if m.count < 32 {
				m.count++
			}
		case "-", "down":
			if m.count > 1 {
				m.count--
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	canvasHeight := m.height - 2
	if m.width < 8 || canvasHeight < 4 {
		return "terminal too small"
	}

	canvas := renderCanvas(m.count, m.width, canvasHeight)

	var b strings.Builder
	for _, line := range canvas {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf(" %d windows ", m.count)))
	b.WriteString(helpStyle.Render("  +/- adjust  q quit"))
	return b.String()
}

// renderCanvas partitions a synthetic set of windows onto a rune canvas and
// draws each frame as a bordered box with its layout index centered.
func renderCanvas(count, width, height int) []string {
	engine := bsp.NewEngine(nil, bsp.Discard)
	windows := make([]platform.Window, 0, count)
	for i := 1; i <= count; i++ {
		id := platform.WindowID(i)
		engine.ApplyChange(bsp.Change{Kind: bsp.ChangeAdded, Window: platform.Window{ID: id}})
		windows = append(windows, platform.Window{ID: id})
	}

	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = make([]rune, width)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}

	frames := engine.FrameAssignments(windows, bsp.Rect{Width: width, Height: height})
	for i, fa := range frames {
		drawBox(cells, fa.Frame)
		drawLabel(cells, fa.Frame, fmt.Sprintf("%d", i+1))
	}

	lines := make([]string, height)
	for y, row := range cells {
		lines[y] = frameStyle.Render(string(row))
	}
	return lines
}

func drawBox(cells [][]rune, r bsp.Rect) {
	x2 := r.X + r.Width - 1
	y2 := r.Y + r.Height - 1

	for x := r.X; x <= x2; x++ {
		cells[r.Y][x] = '─'
		cells[y2][x] = '─'
	}
	for y := r.Y; y <= y2; y++ {
		cells[y][r.X] = '│'
		cells[y][x2] = '│'
	}
	cells[r.Y][r.X] = '┌'
	cells[r.Y][x2] = '┐'
	cells[y2][r.X] = '└'
	cells[y2][x2] = '┘'
}

func drawLabel(cells [][]rune, r bsp.Rect, label string) {
	if r.Width < len(label)+2 || r.Height < 3 {
		return
	}
	y := r.Y + r.Height/2
	x := r.X + (r.Width-len(label))/2
	for i, ch := range label {
		cells[y][x+i] = ch
	}
}

// Run shows the layout preview for the given window count. It requires an
// interactive terminal.
func Run(count int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("preview requires an interactive terminal")
	}

	_, err := tea.NewProgram(newModel(count), tea.WithAltScreen()).Run()
	return err
}
