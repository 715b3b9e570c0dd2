package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veighnsche/scrolltile/internal/config"
	"github.com/veighnsche/scrolltile/internal/ipc"
	"github.com/veighnsche/scrolltile/internal/layout"
	"github.com/veighnsche/scrolltile/internal/platform"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeBackend is an in-memory platform backend recording every call.
type fakeBackend struct {
	display   platform.Display
	windows   []platform.Window
	active    platform.WindowID
	moves     map[platform.WindowID]platform.Rect
	moveCount int
	activated []platform.WindowID
	minimized []platform.WindowID
	closed    []platform.WindowID
}

func newFakeBackend(windows ...platform.Window) *fakeBackend {
	return &fakeBackend{
		display: platform.Display{
			ID:     0,
			Name:   "fake-0",
			Bounds: platform.Rect{Width: 1000, Height: 600},
			Usable: platform.Rect{Width: 1000, Height: 600},
		},
		windows: windows,
		moves:   make(map[platform.WindowID]platform.Rect),
	}
}

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	return []platform.Display{b.display}, nil
}

func (b *fakeBackend) ActiveDisplay() (platform.Display, error) {
	return b.display, nil
}

func (b *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	if b.active == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return b.active, nil
}

func (b *fakeBackend) ListWindowsOnDisplay(displayID int) ([]platform.Window, error) {
	if displayID != b.display.ID {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}
	out := make([]platform.Window, len(b.windows))
	copy(out, b.windows)
	return out, nil
}

func (b *fakeBackend) MoveResize(windowID platform.WindowID, bounds platform.Rect) error {
	b.moves[windowID] = bounds
	b.moveCount++
	return nil
}

func (b *fakeBackend) Activate(windowID platform.WindowID) error {
	b.active = windowID
	b.activated = append(b.activated, windowID)
	return nil
}

func (b *fakeBackend) Minimize(windowID platform.WindowID) error {
	b.minimized = append(b.minimized, windowID)
	return nil
}

func (b *fakeBackend) Close(windowID platform.WindowID) error {
	b.closed = append(b.closed, windowID)
	return nil
}

func (b *fakeBackend) dropWindow(id platform.WindowID) {
	kept := b.windows[:0]
	for _, w := range b.windows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	b.windows = kept
}

func fakeWin(id platform.WindowID) platform.Window {
	return platform.Window{
		ID:     id,
		AppID:  "Term",
		Title:  fmt.Sprintf("win-%d", id),
		Bounds: platform.Rect{X: 100, Y: 100, Width: 400, Height: 300},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.GapX = 10
	cfg.GapY = 10
	cfg.Animations.Enabled = false
	return cfg
}

func newTestDaemon(t *testing.T, backend *fakeBackend, cfg *config.Config) *Daemon {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	d, err := New(backend, cfg, Options{Clock: func() time.Time { return t0 }})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	d.started = t0
	return d
}

func TestRescanAdoptsAndReleasesWindows(t *testing.T) {
	backend := newFakeBackend(fakeWin(1), fakeWin(2))
	d := newTestDaemon(t, backend, nil)

	d.rescan()
	if len(d.windows) != 2 {
		t.Fatalf("managed windows = %d, want 2", len(d.windows))
	}
	if got := d.rowsData().Rows[0].Columns; got != 2 {
		t.Fatalf("origin row columns = %d, want 2", got)
	}

	backend.dropWindow(1)
	d.rescan()
	if len(d.windows) != 1 {
		t.Fatalf("managed windows after close = %d, want 1", len(d.windows))
	}
	if _, ok := d.windows[2]; !ok {
		t.Fatal("window 2 should survive the rescan")
	}

	// A second identical rescan changes nothing.
	d.rescan()
	if len(d.windows) != 1 {
		t.Fatalf("managed windows after idempotent rescan = %d, want 1", len(d.windows))
	}
}

func TestApplyFramePushesSettledGeometryOnce(t *testing.T) {
	backend := newFakeBackend(fakeWin(1))
	d := newTestDaemon(t, backend, nil)

	d.rescan()
	d.applyFrame(t0)

	want := platform.Rect{X: 10, Y: 10, Width: 485, Height: 580}
	if got := backend.moves[1]; got != want {
		t.Fatalf("applied rect = %+v, want %+v", got, want)
	}

	moves := backend.moveCount
	d.applyFrame(t0.Add(time.Second))
	if backend.moveCount != moves {
		t.Fatalf("unchanged frame re-issued MoveResize: %d -> %d", moves, backend.moveCount)
	}
}

func TestFocusIsPulledFromBackendAndPushedBack(t *testing.T) {
	backend := newFakeBackend(fakeWin(1), fakeWin(2))
	d := newTestDaemon(t, backend, nil)

	d.rescan()
	d.applyFrame(t0)

	// The engine focused the last adopted window and pushed it out.
	if d.focused != 2 {
		t.Fatalf("pushed focus = %d, want 2", d.focused)
	}

	// The user clicks window 1 behind our back.
	backend.active = 1
	d.rescan()
	if id, ok := d.canvas.FocusedWindow(); !ok || id != 1 {
		t.Fatalf("pulled focus = %d (%v), want 1", id, ok)
	}

	// An engine-side focus move is pushed on the next frame.
	if err := d.dispatch(ipc.ActionPayload{Name: "focus", Direction: "right"}, t0); err != nil {
		t.Fatalf("dispatch focus: %v", err)
	}
	d.applyFrame(t0)
	if backend.active != 2 {
		t.Fatalf("backend active = %d, want 2", backend.active)
	}
}

func TestDispatchRejectsMalformedActions(t *testing.T) {
	backend := newFakeBackend(fakeWin(1))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	cases := []ipc.ActionPayload{
		{Name: "no-such-action"},
		{Name: "focus", Direction: "sideways"},
		{Name: "focus-window"},
		{Name: "set-column-width"},
		{Name: "set-column-width", Fraction: 1.5},
		{Name: "name-row"},
		{Name: "remove-named-row", RowName: "missing"},
		{Name: "begin-resize", Direction: ""},
	}
	for _, action := range cases {
		if err := d.dispatch(action, t0); err == nil {
			t.Errorf("dispatch(%q %+v) succeeded, want error", action.Name, action)
		}
	}
}

func TestDispatchColumnAndRowCommands(t *testing.T) {
	backend := newFakeBackend(fakeWin(1), fakeWin(2))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	if err := d.dispatch(ipc.ActionPayload{Name: "set-column-width", Fraction: 0.25}, t0); err != nil {
		t.Fatalf("set-column-width: %v", err)
	}
	d.applyFrame(t0)
	// 0.25 of the working area: round(0.25*(980+10)) - 10 = 238.
	if got := backend.moves[2].Width; got != 238 {
		t.Fatalf("resized column width = %d, want 238", got)
	}

	if err := d.dispatch(ipc.ActionPayload{Name: "move-column", Direction: "down"}, t0); err != nil {
		t.Fatalf("move-column down: %v", err)
	}
	if d.canvas.ActiveKey() != 1 {
		t.Fatalf("active row = %d, want 1 after moving the column down", d.canvas.ActiveKey())
	}

	if err := d.dispatch(ipc.ActionPayload{Name: "name-row", RowName: "mail"}, t0); err != nil {
		t.Fatalf("name-row: %v", err)
	}
	rows := d.rowsData().Rows
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	var named *ipc.RowInfo
	for i := range rows {
		if rows[i].Name == "mail" {
			named = &rows[i]
		}
	}
	if named == nil || named.Index != 1 || !named.Active {
		t.Fatalf("named row = %+v, want active row 1 named mail", named)
	}

	if err := d.dispatch(ipc.ActionPayload{Name: "remove-named-row", RowName: "mail"}, t0); err != nil {
		t.Fatalf("remove-named-row: %v", err)
	}
	if got := d.rowsData().Rows[0].Columns; got != 2 {
		t.Fatalf("origin row columns after fold = %d, want 2", got)
	}
}

func TestDispatchFocusRowByName(t *testing.T) {
	backend := newFakeBackend(fakeWin(1))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	if err := d.dispatch(ipc.ActionPayload{Name: "focus-row", RowName: "scratch"}, t0); err != nil {
		t.Fatalf("focus-row: %v", err)
	}
	key, row := d.canvas.RowByName("scratch")
	if row == nil {
		t.Fatal("focus-row did not create the named row")
	}
	if d.canvas.ActiveKey() != key {
		t.Fatalf("active row = %d, want %d", d.canvas.ActiveKey(), key)
	}
}

func TestDispatchMoveColumnToNamedRow(t *testing.T) {
	backend := newFakeBackend(fakeWin(1), fakeWin(2))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	if err := d.dispatch(ipc.ActionPayload{Name: "move-to-row", RowName: "mail"}, t0); err != nil {
		t.Fatalf("move-to-row: %v", err)
	}
	key, row := d.canvas.RowByName("mail")
	if row == nil {
		t.Fatal("move-to-row did not create the named row")
	}
	if row.Len() != 1 {
		t.Fatalf("named row has %d columns, want 1", row.Len())
	}
	if d.canvas.ActiveKey() != key {
		t.Fatalf("active row = %d, want %d", d.canvas.ActiveKey(), key)
	}
	// The other column stays behind on the origin row.
	if got := d.canvas.Row(0).Len(); got != 1 {
		t.Fatalf("origin row has %d columns, want 1", got)
	}
}

func TestTabbedColumnMinimizesHiddenTiles(t *testing.T) {
	backend := newFakeBackend(fakeWin(1), fakeWin(2))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	// Stack both windows into one column, then collapse it to tabs.
	if err := d.dispatch(ipc.ActionPayload{Name: "focus", Direction: "left"}, t0); err != nil {
		t.Fatalf("focus left: %v", err)
	}
	if err := d.dispatch(ipc.ActionPayload{Name: "consume"}, t0); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := d.dispatch(ipc.ActionPayload{Name: "toggle-tabbed"}, t0); err != nil {
		t.Fatalf("toggle-tabbed: %v", err)
	}
	d.applyFrame(t0)

	if len(backend.minimized) != 1 {
		t.Fatalf("minimized windows = %v, want exactly one", backend.minimized)
	}
	focused, _ := d.canvas.FocusedWindow()
	if layout.WindowID(backend.minimized[0]) == focused {
		t.Fatal("the focused tab must stay visible")
	}

	// Repeated frames do not re-minimize.
	d.applyFrame(t0.Add(time.Second))
	if len(backend.minimized) != 1 {
		t.Fatalf("minimized windows after second frame = %v, want one", backend.minimized)
	}
}

func TestCloseWindowGoesThroughBackend(t *testing.T) {
	backend := newFakeBackend(fakeWin(1))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	if err := d.dispatch(ipc.ActionPayload{Name: "close-window"}, t0); err != nil {
		t.Fatalf("close-window: %v", err)
	}
	if len(backend.closed) != 1 || backend.closed[0] != 1 {
		t.Fatalf("closed = %v, want [1]", backend.closed)
	}
	// The window stays managed until the backend reports it gone.
	if len(d.windows) != 1 {
		t.Fatalf("managed windows = %d, want 1", len(d.windows))
	}
}

func TestWorkAreaChangeReflows(t *testing.T) {
	backend := newFakeBackend(fakeWin(1))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	backend.display.Usable = platform.Rect{Width: 800, Height: 500}
	d.rescan()
	d.applyFrame(t0)

	want := platform.Rect{X: 10, Y: 10, Width: 385, Height: 480}
	if got := backend.moves[1]; got != want {
		t.Fatalf("reflowed rect = %+v, want %+v", got, want)
	}
}

func TestNamedRowsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Rows = []config.NamedRow{{Index: 1, Name: "mail"}, {Index: 2, Name: "music"}}

	backend := newFakeBackend()
	d := newTestDaemon(t, backend, cfg)

	for _, name := range []string{"mail", "music"} {
		if _, row := d.canvas.RowByName(name); row == nil {
			t.Fatalf("row %q was not pre-created", name)
		}
	}
	if got := len(d.rowsData().Rows); got != 3 {
		t.Fatalf("rows = %d, want origin plus two named", got)
	}
}

func TestReloadSwapsOptionsInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := "gap_x: 30\ngap_y: 30\nanimations:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	backend := newFakeBackend(fakeWin(1))
	d := newTestDaemon(t, backend, nil)
	d.cfgPath = path
	d.rescan()
	d.applyFrame(t0)

	if err := d.reload(); err != nil {
		t.Fatalf("reload() error: %v", err)
	}
	if d.cfg.GapX != 30 {
		t.Fatalf("reloaded gap_x = %d, want 30", d.cfg.GapX)
	}

	d.applyFrame(t0)
	if len(d.windows) != 1 {
		t.Fatal("reload must not destroy windows")
	}
	if got := backend.moves[1].X; got != 30 {
		t.Fatalf("window x after reload = %d, want 30", got)
	}
}

func TestDispatcherRunsOnLoop(t *testing.T) {
	backend := newFakeBackend(fakeWin(1), fakeWin(2))
	d := newTestDaemon(t, backend, nil)
	d.rescan()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.loop(ctx)

	status, err := d.Status()
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status.WindowCount != 2 {
		t.Fatalf("status window count = %d, want 2", status.WindowCount)
	}
	if status.FocusedWindow == 0 {
		t.Fatal("status should carry the focused window")
	}

	if err := d.Do(ipc.ActionPayload{Name: "focus", Direction: "left"}); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	windows, err := d.Windows()
	if err != nil {
		t.Fatalf("Windows() error: %v", err)
	}
	if len(windows.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(windows.Windows))
	}
}
