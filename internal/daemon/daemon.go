package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/veighnsche/scrolltile/internal/config"
	"github.com/veighnsche/scrolltile/internal/ipc"
	"github.com/veighnsche/scrolltile/internal/layout"
	"github.com/veighnsche/scrolltile/internal/platform"
)

const (
	defaultFrameInterval  = 16 * time.Millisecond
	defaultRescanInterval = 500 * time.Millisecond
)

// Options holds configuration for the daemon.
type Options struct {
	Logger         *slog.Logger
	ConfigPath     string // re-read on RELOAD; empty uses the default path
	FrameInterval  time.Duration
	RescanInterval time.Duration
	Clock          func() time.Time
}

// Daemon owns the layout engine and the platform backend. The engine is
// single-threaded: every mutation runs on the Run loop goroutine, and IPC
// handlers marshal themselves onto it through the calls channel.
type Daemon struct {
	logger  *slog.Logger
	backend platform.Backend
	cfg     *config.Config
	cfgPath string

	canvas  *layout.Canvas
	display platform.Display
	windows map[layout.WindowID]*managedWindow
	applied map[layout.WindowID]platform.Rect
	hidden  map[layout.WindowID]bool
	focused layout.WindowID

	frameInterval  time.Duration
	rescanInterval time.Duration

	calls   chan func()
	started time.Time
	now     func() time.Time
}

// New creates a daemon around an existing backend and effective config.
func New(backend platform.Backend, cfg *config.Config, opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	frameInterval := opts.FrameInterval
	if frameInterval <= 0 {
		frameInterval = defaultFrameInterval
	}
	rescanInterval := opts.RescanInterval
	if rescanInterval <= 0 {
		rescanInterval = defaultRescanInterval
	}

	display, err := backend.ActiveDisplay()
	if err != nil {
		return nil, fmt.Errorf("failed to query active display: %w", err)
	}

	d := &Daemon{
		logger:         logger,
		backend:        backend,
		cfg:            cfg,
		cfgPath:        opts.ConfigPath,
		display:        display,
		windows:        make(map[layout.WindowID]*managedWindow),
		applied:        make(map[layout.WindowID]platform.Rect),
		hidden:         make(map[layout.WindowID]bool),
		frameInterval:  frameInterval,
		rescanInterval: rescanInterval,
		calls:          make(chan func()),
		now:            clock,
	}

	d.canvas = layout.NewCanvas(workAreaFor(display, cfg.ScreenPadding), cfg.Resolve())
	d.applyNamedRows(cfg)

	return d, nil
}

// Run starts the IPC server and the event loop. Blocks until context is
// cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	srv, err := ipc.NewServer(d, d.cfg.Socket)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	d.started = d.now()
	d.rescan()

	d.logger.Info("daemon started",
		"display", d.display.Name,
		"windows", len(d.windows))

	d.loop(ctx)

	d.logger.Info("daemon stopped")
	return nil
}

// loop is the single-threaded event loop. All engine access happens here.
func (d *Daemon) loop(ctx context.Context) {
	frame := time.NewTicker(d.frameInterval)
	defer frame.Stop()
	rescan := time.NewTicker(d.rescanInterval)
	defer rescan.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-d.calls:
			fn()
		case <-rescan.C:
			d.rescan()
		case <-frame.C:
			d.applyFrame(d.now())
		}
	}
}

// rescan performs one reconciliation pass: adopt windows that appeared,
// release windows that vanished, pick up display and focus changes.
func (d *Daemon) rescan() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error("rescan panic recovered", "error", err)
		}
	}()

	now := d.now()

	display, err := d.backend.ActiveDisplay()
	if err != nil {
		d.logger.Error("rescan: failed to query active display", "error", err)
		return
	}
	if display.Usable != d.display.Usable {
		d.logger.Info("work area changed",
			"display", display.Name,
			"width", display.Usable.Width,
			"height", display.Usable.Height)
		d.display = display
		d.canvas.SetWorkArea(workAreaFor(display, d.cfg.ScreenPadding), now)
	}

	wins, err := d.backend.ListWindowsOnDisplay(display.ID)
	if err != nil {
		d.logger.Error("rescan: failed to list windows", "error", err)
		return
	}

	seen := make(map[layout.WindowID]bool, len(wins))
	for _, w := range wins {
		id := layout.WindowID(w.ID)
		seen[id] = true
		if _, ok := d.windows[id]; ok {
			continue
		}
		d.adopt(w, now)
	}

	for id := range d.windows {
		if !seen[id] {
			d.release(id, now)
		}
	}

	d.pullFocus(now)
}

// adopt places a newly appeared window under engine management.
func (d *Daemon) adopt(w platform.Window, now time.Time) {
	mw := newManagedWindow(w)
	d.windows[mw.id] = mw
	d.canvas.AddWindow(mw, layout.Target{}, false, now)

	d.logger.Info("window adopted",
		"window_id", uint64(mw.id),
		"app_id", w.AppID,
		"title", w.Title)
}

// release drops a vanished window from the engine.
func (d *Daemon) release(id layout.WindowID, now time.Time) {
	delete(d.windows, id)
	delete(d.applied, id)
	delete(d.hidden, id)
	d.canvas.RemoveWindow(id, now)
	if d.focused == id {
		d.focused = 0
	}

	d.logger.Info("window released", "window_id", uint64(id))
}

// pullFocus follows focus changes made outside the engine, e.g. a click in
// another window. Changes the engine itself just made are pushed the other
// way by applyFrame and recorded in d.focused, so they are not pulled back.
func (d *Daemon) pullFocus(now time.Time) {
	active, err := d.backend.ActiveWindow()
	if err != nil {
		return
	}
	id := layout.WindowID(active)
	if id == d.focused {
		return
	}
	if _, ok := d.windows[id]; !ok {
		return
	}
	if d.canvas.FocusWindow(id, now) {
		d.focused = id
	}
}

// applyFrame pushes one rendered frame to the backend: acknowledge pending
// size requests, move-resize every tile whose rectangle changed, and sync
// focus and tabbed visibility.
func (d *Daemon) applyFrame(now time.Time) {
	for _, w := range d.windows {
		if req, ok := w.takeRequest(); ok {
			d.canvas.CommitWindow(w.id, req.serial, req.size)
		}
	}

	for _, rt := range d.canvas.Render(now) {
		if rt.Closing {
			continue
		}
		if rt.Tabbed {
			if !d.hidden[rt.Window] {
				if err := d.backend.Minimize(platform.WindowID(rt.Window)); err != nil {
					d.logger.Warn("failed to minimize tabbed window",
						"window_id", uint64(rt.Window), "error", err)
				}
				d.hidden[rt.Window] = true
				delete(d.applied, rt.Window)
			}
			continue
		}
		delete(d.hidden, rt.Window)

		r := platform.Rect{
			X:      roundPx(rt.Rect.X + rt.Offset.X),
			Y:      roundPx(rt.Rect.Y + rt.Offset.Y),
			Width:  roundPx(rt.Rect.Width),
			Height: roundPx(rt.Rect.Height),
		}
		if d.applied[rt.Window] == r {
			continue
		}
		if err := d.backend.MoveResize(platform.WindowID(rt.Window), r); err != nil {
			d.logger.Warn("failed to move window",
				"window_id", uint64(rt.Window), "error", err)
			continue
		}
		d.applied[rt.Window] = r
	}

	d.pushFocus()
}

// pushFocus applies the engine's focus to the backend when it changed.
func (d *Daemon) pushFocus() {
	id, ok := d.canvas.FocusedWindow()
	if !ok || id == d.focused {
		return
	}
	if err := d.backend.Activate(platform.WindowID(id)); err != nil {
		d.logger.Warn("failed to activate window",
			"window_id", uint64(id), "error", err)
		return
	}
	d.focused = id
}

// applyNamedRows pre-creates the rows named in the config.
func (d *Daemon) applyNamedRows(cfg *config.Config) {
	for _, nr := range cfg.Rows {
		if !d.canvas.NameRow(nr.Index, nr.Name) {
			d.logger.Warn("failed to name row",
				"index", nr.Index, "name", nr.Name)
		}
	}
}

// reload re-reads the config file and swaps the engine options in place. No
// window is destroyed; geometry reflows under the new options.
func (d *Daemon) reload() error {
	now := d.now()

	var (
		res *config.LoadResult
		err error
	)
	if d.cfgPath != "" {
		res, err = config.LoadFromPath(d.cfgPath)
	} else {
		res, err = config.LoadWithSources()
	}
	if err != nil {
		return err
	}

	d.cfg = res.Config
	d.canvas.SetWorkArea(workAreaFor(d.display, d.cfg.ScreenPadding), now)
	d.canvas.SetOptions(d.cfg.Resolve(), now)
	d.applyNamedRows(d.cfg)

	d.logger.Info("config reloaded", "files", len(res.Files))
	return nil
}

// workAreaFor computes the engine working area: the display's usable bounds
// inset by the configured screen padding.
func workAreaFor(display platform.Display, pad config.Margins) layout.Rect {
	u := display.Usable
	return layout.Rect{
		X:      float64(u.X + pad.Left),
		Y:      float64(u.Y + pad.Top),
		Width:  float64(u.Width - pad.Left - pad.Right),
		Height: float64(u.Height - pad.Top - pad.Bottom),
	}
}

func roundPx(v float64) int {
	return int(math.Floor(v + 0.5))
}
