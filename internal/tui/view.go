package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/veighnsche/scrolltile/internal/layout"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	animDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	idleDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderView composes the full simulator screen.
func renderView(sim *simulator, status string, width, height int, now time.Time) string {
	statusBar := renderStatusBar(sim, status, width, now)
	helpBar := renderHelpBar(width)

	canvasHeight := height - lipgloss.Height(statusBar) - lipgloss.Height(helpBar)
	if canvasHeight < 1 {
		canvasHeight = 1
	}

	lines := drawFrame(sim, width, canvasHeight, now)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		strings.Join(lines, "\n"),
		helpBar,
	)
}

func renderStatusBar(sim *simulator, status string, width int, now time.Time) string {
	c := sim.canvas

	rowLabel := fmt.Sprintf("row %d", c.ActiveKey())
	if name := c.ActiveRow().Name(); name != "" {
		rowLabel += " (" + name + ")"
	}

	dot := idleDotStyle.Render("●")
	if c.IsAnimating(now) {
		dot = animDotStyle.Render("●")
	}

	parts := []string{
		dot + " scrolltile sim",
		rowLabel,
		fmt.Sprintf("%d windows", len(sim.windows)),
	}
	if c.FocusFloating() {
		parts = append(parts, "floating layer")
	}
	if status != "" {
		parts = append(parts, status)
	}

	return statusBarStyle.Width(width).Render(strings.Join(parts, "  •  "))
}

func renderHelpBar(width int) string {
	help := "n/N:spawn  x:close  h/j/k/l:focus  H/J/K/L:move  c/e:consume/expel  " +
		"t:tabs  f:float  tab:layer  w/s:presets  -/+:resize  [/]:scroll  q:quit"
	return helpBarStyle.Width(width).Render(help)
}

// drawFrame renders the canvas onto a character grid. Each cell maps to a
// patch of the virtual screen; tiles are drawn as boxes carrying their window
// number, the focused tile with a double border.
func drawFrame(sim *simulator, width, height int, now time.Time) []string {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	if width >= 5 && height >= 3 {
		frame := sim.canvas.Render(now)

		// Tiled first, floating and the drag overlay on top.
		for _, rt := range frame {
			if rt.Closing || rt.Tabbed || rt.Floating || rt.Moving {
				continue
			}
			drawTile(grid, rt, width, height)
		}
		for _, rt := range frame {
			if rt.Closing || rt.Tabbed || !(rt.Floating || rt.Moving) {
				continue
			}
			drawTile(grid, rt, width, height)
		}
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

type borderSet struct {
	h, v, tl, tr, bl, br rune
}

var (
	singleBorder = borderSet{'─', '│', '┌', '┐', '└', '┘'}
	doubleBorder = borderSet{'═', '║', '╔', '╗', '╚', '╝'}
)

func drawTile(grid [][]rune, rt layout.RenderTile, width, height int) {
	area := simWorkArea

	// Map virtual-screen coordinates to grid cells.
	x := rt.Rect.X + rt.Offset.X
	y := rt.Rect.Y + rt.Offset.Y
	x1 := int(x * float64(width) / area.Width)
	y1 := int(y * float64(height) / area.Height)
	x2 := int((x + rt.Rect.Width) * float64(width) / area.Width)
	y2 := int((y + rt.Rect.Height) * float64(height) / area.Height)

	// Clamp to the grid; drop tiles scrolled fully out of view.
	if x2 < 0 || y2 < 0 || x1 >= width || y1 >= height {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 >= width {
		x2 = width - 1
	}
	if y2 >= height {
		y2 = height - 1
	}
	if x2-x1 < 2 || y2-y1 < 1 {
		return
	}

	b := singleBorder
	if rt.Focused {
		b = doubleBorder
	}

	// Clear the interior so overlapping layers read correctly.
	for yy := y1; yy <= y2; yy++ {
		for xx := x1; xx <= x2; xx++ {
			grid[yy][xx] = ' '
		}
	}

	for xx := x1; xx <= x2; xx++ {
		grid[y1][xx] = b.h
		grid[y2][xx] = b.h
	}
	for yy := y1; yy <= y2; yy++ {
		grid[yy][x1] = b.v
		grid[yy][x2] = b.v
	}
	grid[y1][x1] = b.tl
	grid[y1][x2] = b.tr
	grid[y2][x1] = b.bl
	grid[y2][x2] = b.br

	label := fmt.Sprintf("%d", rt.Window)
	switch {
	case rt.Moving:
		label += " *"
	case rt.Floating:
		label += " ~"
	case rt.Urgent:
		label += " !"
	}
	cy := (y1 + y2) / 2
	cx := (x1+x2)/2 - len(label)/2
	for i, r := range label {
		if cx+i > x1 && cx+i < x2 {
			grid[cy][cx+i] = r
		}
	}
}
