package daemon

import (
	"github.com/veighnsche/scrolltile/internal/layout"
	"github.com/veighnsche/scrolltile/internal/platform"
)

// managedWindow adapts one X11 client to the engine's window surface.
//
// X clients have no configure acknowledgement protocol, so RequestSize only
// records the pending request; the frame pass treats its own MoveResize as
// the acknowledgement and commits the size back into the engine with the
// same serial.
type managedWindow struct {
	id    layout.WindowID
	appID string
	title string

	size       layout.Size
	pending    sizeRequest
	hasPending bool
}

type sizeRequest struct {
	size   layout.Size
	serial uint32
}

func newManagedWindow(w platform.Window) *managedWindow {
	return &managedWindow{
		id:    layout.WindowID(w.ID),
		appID: w.AppID,
		title: w.Title,
		size: layout.Size{
			W: float64(w.Bounds.Width),
			H: float64(w.Bounds.Height),
		},
	}
}

var _ layout.Window = (*managedWindow)(nil)

// ID returns the stable window identifier.
func (w *managedWindow) ID() layout.WindowID {
	return w.id
}

// RequestSize records the engine's size request for the next frame pass.
// Only the newest request matters; the engine discards stale serials anyway.
func (w *managedWindow) RequestSize(size layout.Size, serial uint32) {
	w.pending = sizeRequest{size: size, serial: serial}
	w.hasPending = true
}

// takeRequest pops the pending size request, if any, and adopts its size as
// the committed one.
func (w *managedWindow) takeRequest() (sizeRequest, bool) {
	if !w.hasPending {
		return sizeRequest{}, false
	}
	w.hasPending = false
	w.size = w.pending.size
	return w.pending, true
}

// CurrentSize returns the last committed size.
func (w *managedWindow) CurrentSize() layout.Size {
	return w.size
}

// MinSize returns zero: X size hints are advisory and the window manager may
// override them, so the engine's own minimums are the binding ones.
func (w *managedWindow) MinSize() layout.Size {
	return layout.Size{}
}

// MaxSize returns zero (unbounded).
func (w *managedWindow) MaxSize() layout.Size {
	return layout.Size{}
}

// IsFullscreen reports false; fullscreen windows are filtered out before
// adoption.
func (w *managedWindow) IsFullscreen() bool {
	return false
}
