package layout

import (
	"testing"
	"time"
)

// t0 is the fake clock origin; tests advance it explicitly.
var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRequest struct {
	size   Size
	serial uint32
}

type fakeWindow struct {
	id       WindowID
	size     Size
	min      Size
	max      Size
	full     bool
	requests []fakeRequest
}

func (w *fakeWindow) ID() WindowID        { return w.id }
func (w *fakeWindow) CurrentSize() Size   { return w.size }
func (w *fakeWindow) MinSize() Size       { return w.min }
func (w *fakeWindow) MaxSize() Size       { return w.max }
func (w *fakeWindow) IsFullscreen() bool  { return w.full }
func (w *fakeWindow) RequestSize(s Size, serial uint32) {
	w.requests = append(w.requests, fakeRequest{size: s, serial: serial})
}

// testOptions returns options with zero-duration animations so geometry
// assertions see settled values immediately.
func testOptions() Options {
	o := DefaultOptions()
	o.GapX = 10
	o.GapY = 10
	o.DefaultColumnWidth = ColumnWidth{Kind: WidthProportion, Proportion: 0.5}
	o.Animations = Animations{}
	return o
}

// animOptions returns options with real spring durations for motion tests.
func animOptions() Options {
	o := testOptions()
	o.Animations = DefaultOptions().Animations
	return o
}

var testArea = Rect{X: 0, Y: 0, Width: 1000, Height: 600}

func newTestCanvas(o Options) *Canvas {
	return NewCanvas(testArea, o)
}

func addWindow(c *Canvas, id WindowID, now time.Time) *fakeWindow {
	w := &fakeWindow{id: id, size: Size{W: 400, H: 300}}
	c.AddWindow(w, Target{}, false, now)
	return w
}

// checkInvariants verifies the structural invariants that must hold after
// every operation.
func checkInvariants(t *testing.T, c *Canvas, now time.Time) {
	t.Helper()

	// The origin row always exists.
	if c.Row(0) == nil {
		t.Fatalf("origin row is absent")
	}
	// The active row always exists.
	if c.ActiveRow() == nil {
		t.Fatalf("active row key %d has no row", c.ActiveKey())
	}

	for key, r := range c.rows {
		// Every column holds at least one tile.
		for ci, col := range r.cols {
			if col.Len() == 0 {
				t.Fatalf("row %d column %d is empty", key, ci)
			}
			if col.active < 0 || col.active >= col.Len() {
				t.Fatalf("row %d column %d active tile index %d out of range", key, ci, col.active)
			}
		}
		if len(r.cols) > 0 && (r.active < 0 || r.active >= len(r.cols)) {
			t.Fatalf("row %d active column index %d out of range", key, r.active)
		}
		// Empty rows are only the origin, named rows, or the active row.
		if r.IsEmpty() && key != 0 && key != c.activeKey && r.name == "" {
			t.Fatalf("empty unnamed non-origin row %d survived cleanup", key)
		}
	}

	// No two visible tiles within the same row overlap.
	byRow := map[int][]Rect{}
	for _, rt := range c.Render(now) {
		if rt.Floating || rt.Moving || rt.Closing || rt.Tabbed {
			continue
		}
		byRow[rt.RowKey] = append(byRow[rt.RowKey], rt.Rect)
	}
	for key, rects := range byRow {
		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				if rects[i].Intersects(rects[j]) {
					t.Fatalf("row %d: tiles overlap: %+v and %+v", key, rects[i], rects[j])
				}
			}
		}
	}
}

func renderOf(c *Canvas, id WindowID, now time.Time) (RenderTile, bool) {
	for _, rt := range c.Render(now) {
		if rt.Window == id && !rt.Closing {
			return rt, true
		}
	}
	return RenderTile{}, false
}
