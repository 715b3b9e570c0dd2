package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/veighnsche/scrolltile/internal/config"
	"github.com/veighnsche/scrolltile/internal/layout"
)

const tickInterval = 33 * time.Millisecond

// tickMsg advances the animation clock.
type tickMsg time.Time

// model is the root bubbletea model for the simulator.
type model struct {
	sim *simulator
	cfg *config.Config

	lastStatus string

	// Terminal dimensions
	width  int
	height int
}

// Run starts the interactive layout simulator.
func Run(cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("sim requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := newModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(cfg *config.Config) model {
	m := model{
		sim: newSimulator(cfg),
		cfg: cfg,
	}

	now := time.Now()
	for _, nr := range cfg.Rows {
		m.sim.canvas.NameRow(nr.Index, nr.Name)
	}
	// Start with a couple of windows so the first frame shows something.
	m.sim.spawn(false, now)
	m.sim.spawn(false, now)

	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sim.pump()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	c := m.sim.canvas
	m.lastStatus = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "n":
		id := m.sim.spawn(false, now)
		m.lastStatus = fmt.Sprintf("spawned window %d", id)
	case "N":
		id := m.sim.spawn(true, now)
		m.lastStatus = fmt.Sprintf("spawned floating window %d", id)
	case "x":
		m.sim.closeFocused(now)

	case "h", "left":
		c.Focus(layout.Left, m.cfg.FocusMode(), now)
	case "l", "right":
		c.Focus(layout.Right, m.cfg.FocusMode(), now)
	case "k", "up":
		c.Focus(layout.Up, layout.FocusClamp, now)
	case "j", "down":
		c.Focus(layout.Down, layout.FocusClamp, now)
	case "g":
		c.Focus(layout.Left, layout.FocusFirst, now)
	case "G":
		c.Focus(layout.Right, layout.FocusLast, now)

	case "H":
		c.MoveColumn(layout.Left, now)
	case "L":
		c.MoveColumn(layout.Right, now)
	case "K":
		c.MoveColumnToRow(layout.Up, now)
	case "J":
		c.MoveColumnToRow(layout.Down, now)

	case "c":
		c.ConsumeRight(now)
	case "e":
		c.ExpelActive(now)
	case "t":
		c.ToggleTabbed(now)
	case "f":
		c.ToggleFloating(now)
	case "tab":
		c.SwitchFocusLayer()

	case "w":
		c.CycleColumnPreset(now)
	case "s":
		c.CycleTilePreset(now)
	case "-":
		m.resizeActive(-80, now)
	case "+", "=":
		m.resizeActive(80, now)

	case "[":
		c.BeginScrollGesture(now)
		c.UpdateScrollGesture(-200, now)
		c.EndScrollGesture(now)
	case "]":
		c.BeginScrollGesture(now)
		c.UpdateScrollGesture(200, now)
		c.EndScrollGesture(now)
	}

	return m, nil
}

// resizeActive nudges the active column width through an interactive resize,
// exercising the same path a pointer drag would.
func (m *model) resizeActive(dx float64, now time.Time) {
	c := m.sim.canvas
	if !c.BeginResize(layout.EdgeRight, now) {
		return
	}
	c.UpdateResize(dx, 0, now)
	c.EndResize(now)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return renderView(m.sim, m.lastStatus, m.width, m.height, time.Now())
}
