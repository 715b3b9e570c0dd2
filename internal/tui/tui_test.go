package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbletea"

	"github.com/veighnsche/scrolltile/internal/config"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Animations.Enabled = false
	return cfg
}

func TestSimulatorSpawnsAndAcksWindows(t *testing.T) {
	sim := newSimulator(testConfig())

	id1 := sim.spawn(false, t0)
	id2 := sim.spawn(false, t0)
	if id1 == id2 {
		t.Fatalf("spawn returned duplicate ids: %d", id1)
	}
	if got := sim.canvas.ActiveRow().Len(); got != 2 {
		t.Fatalf("columns = %d, want 2", got)
	}

	w := sim.windows[id1]
	if !w.hasPending {
		t.Fatal("spawn should leave a pending size request")
	}
	sim.pump()
	if w.hasPending {
		t.Fatal("pump should acknowledge the pending request")
	}
	if w.size.W <= 0 || w.size.H <= 0 {
		t.Fatalf("acked size = %+v, want positive", w.size)
	}
}

func TestSimulatorCloseFocused(t *testing.T) {
	sim := newSimulator(testConfig())
	sim.spawn(false, t0)
	id2 := sim.spawn(false, t0)

	sim.closeFocused(t0)
	if _, ok := sim.windows[id2]; ok {
		t.Fatal("closeFocused should remove the focused window")
	}
	if got := sim.canvas.ActiveRow().Len(); got != 1 {
		t.Fatalf("columns after close = %d, want 1", got)
	}
}

func TestDrawFrameShowsTiles(t *testing.T) {
	sim := newSimulator(testConfig())
	sim.spawn(false, t0)
	sim.spawn(false, t0)

	lines := drawFrame(sim, 80, 24, t0)
	if len(lines) != 24 {
		t.Fatalf("lines = %d, want 24", len(lines))
	}
	screen := strings.Join(lines, "\n")

	if !strings.Contains(screen, "┌") {
		t.Error("expected a single-border tile on screen")
	}
	if !strings.Contains(screen, "╔") {
		t.Error("expected the focused tile to use a double border")
	}
	for _, label := range []string{"1", "2"} {
		if !strings.Contains(screen, label) {
			t.Errorf("expected window label %q on screen", label)
		}
	}
}

func TestDrawFrameMarksFloatingWindows(t *testing.T) {
	sim := newSimulator(testConfig())
	sim.spawn(false, t0)
	sim.spawn(true, t0)

	screen := strings.Join(drawFrame(sim, 80, 24, t0), "\n")
	if !strings.Contains(screen, "~") {
		t.Error("expected the floating window marker on screen")
	}
}

func TestHandleKeyDrivesTheCanvas(t *testing.T) {
	m := newModel(testConfig())
	m.width, m.height = 80, 24

	key := func(r rune) tea.KeyMsg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	}

	next, _ := m.handleKey(key('n'))
	m = next.(model)
	if len(m.sim.windows) != 3 {
		t.Fatalf("windows after spawn = %d, want 3", len(m.sim.windows))
	}

	next, _ = m.handleKey(key('x'))
	m = next.(model)
	if len(m.sim.windows) != 2 {
		t.Fatalf("windows after close = %d, want 2", len(m.sim.windows))
	}

	next, _ = m.handleKey(key('J'))
	m = next.(model)
	if m.sim.canvas.ActiveKey() != 1 {
		t.Fatalf("active row = %d, want 1 after moving the column down", m.sim.canvas.ActiveKey())
	}
}
