package tui

import (
	"time"

	"github.com/veighnsche/scrolltile/internal/config"
	"github.com/veighnsche/scrolltile/internal/layout"
)

// simWindow is a synthetic client for the simulator. It acknowledges every
// size request on the next pump, like a well-behaved client would on its next
// commit.
type simWindow struct {
	id   layout.WindowID
	size layout.Size

	pendingSize   layout.Size
	pendingSerial uint32
	hasPending    bool
}

var _ layout.Window = (*simWindow)(nil)

func (w *simWindow) ID() layout.WindowID { return w.id }

func (w *simWindow) RequestSize(size layout.Size, serial uint32) {
	w.pendingSize = size
	w.pendingSerial = serial
	w.hasPending = true
}

func (w *simWindow) CurrentSize() layout.Size { return w.size }
func (w *simWindow) MinSize() layout.Size     { return layout.Size{} }
func (w *simWindow) MaxSize() layout.Size     { return layout.Size{} }
func (w *simWindow) IsFullscreen() bool       { return false }

// simulator drives a layout canvas against synthetic windows.
type simulator struct {
	canvas  *layout.Canvas
	windows map[layout.WindowID]*simWindow
	nextID  layout.WindowID
}

// simWorkArea is the virtual screen the simulator lays out against; the view
// scales it down to terminal cells.
var simWorkArea = layout.Rect{Width: 1920, Height: 1080}

func newSimulator(cfg *config.Config) *simulator {
	return &simulator{
		canvas:  layout.NewCanvas(simWorkArea, cfg.Resolve()),
		windows: make(map[layout.WindowID]*simWindow),
		nextID:  1,
	}
}

// spawn adds a synthetic window and focuses it.
func (s *simulator) spawn(floating bool, now time.Time) layout.WindowID {
	w := &simWindow{
		id:   s.nextID,
		size: layout.Size{W: 800, H: 600},
	}
	s.nextID++
	s.windows[w.id] = w
	s.canvas.AddWindow(w, layout.Target{}, floating, now)
	return w.id
}

// closeFocused removes the focused window.
func (s *simulator) closeFocused(now time.Time) {
	id, ok := s.canvas.FocusedWindow()
	if !ok {
		return
	}
	delete(s.windows, id)
	s.canvas.RemoveWindow(id, now)
}

// pump acknowledges outstanding size requests. Called once per animation
// tick so resizes land one frame after they are requested, which is enough
// to exercise the serial bookkeeping.
func (s *simulator) pump() {
	for _, w := range s.windows {
		if !w.hasPending {
			continue
		}
		w.hasPending = false
		w.size = w.pendingSize
		s.canvas.CommitWindow(w.id, w.pendingSerial, w.size)
	}
}
