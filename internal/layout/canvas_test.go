package layout

import (
	"testing"
	"time"
)

func TestCanvas_SingleFullWidthColumn(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	c.SetColumnWidth(ColumnWidth{Kind: WidthProportion, Proportion: 1.0}, t0)

	// workArea 1000x600 minus gaps of 10 on every side.
	rt, ok := renderOf(c, 1, t0)
	if !ok {
		t.Fatalf("window 1 missing from render")
	}
	want := Rect{X: 10, Y: 10, Width: 980, Height: 580}
	if rt.Rect != want {
		t.Fatalf("expected %+v, got %+v", want, rt.Rect)
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_TwoHalfColumnsFillExactly(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	// Each 0.5 column resolves to 485; 485+10+485 = 980 fills the inner
	// area with no leftover and no scrolling.
	r1, _ := renderOf(c, 1, t0)
	r2, _ := renderOf(c, 2, t0)
	if r1.Rect.X != 10 || r1.Rect.Width != 485 {
		t.Fatalf("expected window 1 at x=10 width 485, got %+v", r1.Rect)
	}
	if r2.Rect.X != 505 || r2.Rect.Width != 485 {
		t.Fatalf("expected window 2 at x=505 width 485, got %+v", r2.Rect)
	}
	if got := c.ActiveRow().ViewOffsetTarget(); got != 0 {
		t.Fatalf("expected no scrolling, got view offset %v", got)
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_StackSplitsColumnHeight(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	w2 := &fakeWindow{id: 2, size: Size{W: 400, H: 300}}
	c.AddWindow(w2, Target{Stack: true}, false, t0)

	// innerH 580 minus one gap → 570 split into 285 each.
	r1, _ := renderOf(c, 1, t0)
	r2, _ := renderOf(c, 2, t0)
	if r1.Rect.Y != 10 || r1.Rect.Height != 285 {
		t.Fatalf("expected window 1 at y=10 height 285, got %+v", r1.Rect)
	}
	if r2.Rect.Y != 305 || r2.Rect.Height != 285 {
		t.Fatalf("expected window 2 at y=305 height 285, got %+v", r2.Rect)
	}
	if c.ActiveRow().Len() != 1 {
		t.Fatalf("expected a single column, got %d", c.ActiveRow().Len())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_MoveColumnToRowAboveFollowsCamera(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	if !c.MoveColumnToRow(Up, t0) {
		t.Fatalf("expected move to row above to succeed")
	}
	if c.ActiveKey() != -1 {
		t.Fatalf("expected active row -1, got %d", c.ActiveKey())
	}
	if c.Row(-1) == nil || c.Row(-1).Len() != 1 {
		t.Fatalf("expected one column in row -1")
	}
	if c.Row(0).Len() != 1 {
		t.Fatalf("expected window 1 left behind in the origin row")
	}
	// Zero-duration camera: already settled on the new row.
	if got := c.CameraY(t0); got != -600 {
		t.Fatalf("expected camera at -600, got %v", got)
	}
	rt, _ := renderOf(c, 2, t0)
	if rt.Rect.Y != 10 {
		t.Fatalf("expected window 2 at screen y=10, got %v", rt.Rect.Y)
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_CameraOffsetAppliesToEveryVisibleRow(t *testing.T) {
	c := newTestCanvas(animOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)
	t1 := t0.Add(time.Second)

	c.MoveColumnToRow(Up, t1)

	// Mid-flight, both rows must shift together: the vertical distance
	// between a row -1 tile and a row 0 tile stays exactly one work-area
	// height at every instant.
	readYs := func(now time.Time) (float64, float64) {
		a, _ := renderOf(c, 2, now) // row -1
		b, _ := renderOf(c, 1, now) // row 0
		return a.Rect.Y, b.Rect.Y
	}
	yA0, yB0 := readYs(t1)
	yA1, yB1 := readYs(t1.Add(150 * time.Millisecond))
	if yB0-yA0 != 600 || yB1-yA1 != 600 {
		t.Fatalf("expected constant 600px row separation, got %v then %v", yB0-yA0, yB1-yA1)
	}
	if yB1 == yB0 {
		t.Fatalf("expected the origin row to move with the camera, it stayed at %v", yB0)
	}
}

func TestCanvas_ResolveTwiceDoesNotDoubleOffsets(t *testing.T) {
	c := newTestCanvas(animOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)
	addWindow(c, 3, t0)
	t1 := t0.Add(time.Second)
	c.FocusWindow(1, t1)

	// Removing the middle column shifts window 3 from content x 990 to 495;
	// its render offset starts at exactly that delta.
	c.RemoveWindow(2, t1)
	rt, _ := renderOf(c, 3, t1)
	if rt.Offset.X != 495 {
		t.Fatalf("expected render offset 495 after neighbor removal, got %v", rt.Offset.X)
	}

	// A second resolve pass in the same instant recomputes identical
	// rectangles and must not restart or stack the spring.
	r := c.ActiveRow()
	r.resolve(t1, true, c.serial)
	rt, _ = renderOf(c, 3, t1)
	if rt.Offset.X != 495 {
		t.Fatalf("expected offset unchanged at 495 after re-resolve, got %v", rt.Offset.X)
	}
}

func TestCanvas_StaleResizeAckDiscarded(t *testing.T) {
	c := newTestCanvas(testOptions())
	w := addWindow(c, 1, t0)
	if len(w.requests) != 1 {
		t.Fatalf("expected one size request, got %d", len(w.requests))
	}
	first := w.requests[0]

	c.SetColumnWidth(ColumnWidth{Kind: WidthFixed, Fixed: 300}, t0)
	if len(w.requests) != 2 {
		t.Fatalf("expected a second size request, got %d", len(w.requests))
	}
	second := w.requests[1]

	if c.CommitWindow(1, first.serial, first.size) {
		t.Fatalf("expected ack with serial %d to be discarded", first.serial)
	}
	if !c.CommitWindow(1, second.serial, second.size) {
		t.Fatalf("expected ack with serial %d to apply", second.serial)
	}
	if c.CommitWindow(99, second.serial, second.size) {
		t.Fatalf("expected ack for unknown window to be a no-op")
	}
}

func TestCanvas_RemoveWindowIsIdempotent(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	c.RemoveWindow(2, t0)
	c.RemoveWindow(2, t0)
	c.RemoveWindow(42, t0)

	if c.ActiveRow().Len() != 1 {
		t.Fatalf("expected one column remaining, got %d", c.ActiveRow().Len())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_CloseSnapshotOutlivesWindow(t *testing.T) {
	c := newTestCanvas(animOptions())
	addWindow(c, 1, t0)
	t1 := t0.Add(time.Second)

	c.RemoveWindow(1, t1)
	var found bool
	for _, rt := range c.Render(t1) {
		if rt.Window == 1 && rt.Closing {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a closing snapshot right after removal")
	}

	// Once the close animation finishes the snapshot is pruned.
	late := t1.Add(time.Second)
	c.Render(late)
	for _, rt := range c.Render(late) {
		if rt.Window == 1 {
			t.Fatalf("expected closing snapshot pruned, still present")
		}
	}
}

func TestCanvas_VerticalFocusCreatesAndCleansRows(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)

	c.Focus(Down, FocusClamp, t0)
	if c.ActiveKey() != 1 {
		t.Fatalf("expected active row 1, got %d", c.ActiveKey())
	}
	// The freshly created empty row survives while it holds focus.
	if c.Row(1) == nil {
		t.Fatalf("expected the empty focused row to exist")
	}
	checkInvariants(t, c, t0)

	c.Focus(Up, FocusClamp, t0)
	if c.ActiveKey() != 0 {
		t.Fatalf("expected active row back at 0, got %d", c.ActiveKey())
	}
	// Leaving it empty and unfocused removes it.
	if c.Row(1) != nil {
		t.Fatalf("expected empty row 1 cleaned up")
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_CrossRowEntersNearestEdgeTile(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	w2 := &fakeWindow{id: 2, size: Size{W: 400, H: 300}}
	c.AddWindow(w2, Target{Stack: true}, false, t0)

	c.Focus(Down, FocusClamp, t0) // from bottom tile into empty row 1
	c.Focus(Up, FocusClamp, t0)   // re-enter row 0 from below

	// Coming from below lands on the bottom tile of the nearest column.
	id, ok := c.FocusedWindow()
	if !ok || id != 2 {
		t.Fatalf("expected focus on window 2, got %d (ok=%v)", id, ok)
	}
}

func TestCanvas_NamedRows(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)

	key := c.EnsureNamedRow("mail")
	if key != 1 {
		t.Fatalf("expected new named row below the bottommost, got key %d", key)
	}
	if k, r := c.RowByName("MAIL"); r == nil || k != key {
		t.Fatalf("expected case-insensitive lookup to find row %d", key)
	}
	if c.EnsureNamedRow("mail") != key {
		t.Fatalf("expected ensure to be idempotent")
	}

	// A named empty row survives cleanup even without focus.
	c.cleanup(t0)
	if c.Row(key) == nil {
		t.Fatalf("expected named row to survive cleanup")
	}

	w2 := &fakeWindow{id: 2, size: Size{W: 400, H: 300}}
	c.AddWindow(w2, Target{Kind: TargetNamedRow, Name: "mail"}, false, t0)
	if c.ActiveKey() != key {
		t.Fatalf("expected placement to focus the named row, got %d", c.ActiveKey())
	}

	// Duplicate names are rejected; renaming in place is fine.
	if c.NameRow(0, "mail") {
		t.Fatalf("expected duplicate name to be rejected")
	}
	if !c.NameRow(key, "Mail") {
		t.Fatalf("expected renaming the same row to succeed")
	}

	// Removing the named row folds its columns into the origin row.
	if !c.RemoveNamedRow("mail", t0) {
		t.Fatalf("expected removal to succeed")
	}
	if c.Row(key) != nil {
		t.Fatalf("expected named row gone after removal")
	}
	if c.Row(0).Len() != 2 {
		t.Fatalf("expected 2 columns in the origin row, got %d", c.Row(0).Len())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_RemoveNamedRowFoldsIntoEmptyOrigin(t *testing.T) {
	c := newTestCanvas(testOptions())
	w1 := &fakeWindow{id: 1, size: Size{W: 400, H: 300}}
	c.AddWindow(w1, Target{Kind: TargetNamedRow, Name: "mail"}, false, t0)

	// The origin row held nothing; folding must not skew its active index.
	if !c.RemoveNamedRow("mail", t0) {
		t.Fatalf("expected removal to succeed")
	}
	origin := c.Row(0)
	if origin.Len() != 1 {
		t.Fatalf("expected 1 column in the origin row, got %d", origin.Len())
	}
	if origin.ActiveIndex() != 0 {
		t.Fatalf("expected active column 0, got %d", origin.ActiveIndex())
	}
	if origin.ActiveColumn() == nil || origin.ActiveColumn().ActiveTile().ID() != 1 {
		t.Fatalf("expected window 1 active in the origin row")
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_FloatingWindowCenteredAndFocused(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	w2 := &fakeWindow{id: 2, size: Size{W: 400, H: 300}}
	c.AddWindow(w2, Target{}, true, t0)

	if !c.FocusFloating() {
		t.Fatalf("expected the floating layer to take focus")
	}
	rt, _ := renderOf(c, 2, t0)
	// Centered in the inner area: x = 10+(980-400)/2, y = 10+(580-300)/2.
	if rt.Rect.X != 300 || rt.Rect.Y != 150 {
		t.Fatalf("expected floating window at (300,150), got (%v,%v)", rt.Rect.X, rt.Rect.Y)
	}
	if !rt.Floating || !rt.Focused {
		t.Fatalf("expected floating focused render tile, got %+v", rt)
	}

	c.SwitchFocusLayer()
	if id, _ := c.FocusedWindow(); id != 1 {
		t.Fatalf("expected focus back on the tiled window, got %d", id)
	}
}

func TestCanvas_ToggleFloatingPreservesScreenPosition(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	before, _ := renderOf(c, 2, t0)
	if !c.ToggleFloating(t0) {
		t.Fatalf("expected toggle to float to succeed")
	}
	after, _ := renderOf(c, 2, t0)
	if !after.Floating {
		t.Fatalf("expected window 2 floating")
	}
	if after.Rect.X != before.Rect.X || after.Rect.Y != before.Rect.Y {
		t.Fatalf("expected position preserved, %+v became %+v", before.Rect, after.Rect)
	}

	if !c.ToggleFloating(t0) {
		t.Fatalf("expected toggle back to tiled to succeed")
	}
	if c.FocusFloating() {
		t.Fatalf("expected focus back in the tiled tree")
	}
	if c.ActiveRow().Len() != 2 {
		t.Fatalf("expected 2 columns after re-tiling, got %d", c.ActiveRow().Len())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_MoveStaysPutBelowThreshold(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	if !c.BeginMove(2, Point{X: 600, Y: 100}, t0) {
		t.Fatalf("expected move to begin")
	}
	c.UpdateMove(Point{X: 603, Y: 102}, t0) // under the 8px threshold
	if c.MovePhase() != "starting" {
		t.Fatalf("expected starting phase, got %s", c.MovePhase())
	}
	if c.ActiveRow().Len() != 2 {
		t.Fatalf("expected no structural change below the threshold")
	}

	c.EndMove(t0)
	if c.MovePhase() != "idle" {
		t.Fatalf("expected idle after release, got %s", c.MovePhase())
	}
	if c.ActiveRow().Len() != 2 {
		t.Fatalf("expected tree unchanged after sub-threshold release")
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_MoveDetachReinsertAtHint(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	c.BeginMove(2, Point{X: 600, Y: 100}, t0)
	c.UpdateMove(Point{X: 700, Y: 300}, t0)
	if c.MovePhase() != "moving" {
		t.Fatalf("expected moving phase, got %s", c.MovePhase())
	}
	// Detached: the tree holds only window 1, the overlay carries window 2.
	if c.ActiveRow().Len() != 1 {
		t.Fatalf("expected window 2 detached, row has %d columns", c.ActiveRow().Len())
	}
	var overlay bool
	for _, rt := range c.Render(t0) {
		if rt.Window == 2 && rt.Moving {
			overlay = true
		}
	}
	if !overlay {
		t.Fatalf("expected a moving overlay for window 2")
	}
	hint, ok := c.MoveHint()
	if !ok || hint.Stack || hint.ColIdx != 1 {
		t.Fatalf("expected new-column hint at index 1, got %+v (ok=%v)", hint, ok)
	}

	c.EndMove(t0)
	r := c.ActiveRow()
	if r.Len() != 2 || r.cols[1].ActiveTile().ID() != 2 {
		t.Fatalf("expected window 2 re-inserted as column 1")
	}
	if id, _ := c.FocusedWindow(); id != 2 {
		t.Fatalf("expected dropped window focused, got %d", id)
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_MoveDropIntoColumnStacks(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	c.BeginMove(2, Point{X: 600, Y: 100}, t0)
	// Middle band of window 1's column (screen x 10..495) stacks.
	c.UpdateMove(Point{X: 252, Y: 300}, t0)
	hint, ok := c.MoveHint()
	if !ok || !hint.Stack || hint.ColIdx != 0 {
		t.Fatalf("expected stacking hint on column 0, got %+v (ok=%v)", hint, ok)
	}

	c.EndMove(t0)
	r := c.ActiveRow()
	if r.Len() != 1 || r.cols[0].Len() != 2 {
		t.Fatalf("expected one column of two tiles after stacking drop")
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_CancelMoveRestoresOriginalPlace(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	c.BeginMove(2, Point{X: 600, Y: 100}, t0)
	c.UpdateMove(Point{X: 252, Y: 300}, t0)
	c.CancelMove(t0)

	r := c.ActiveRow()
	if r.Len() != 2 || r.cols[1].ActiveTile().ID() != 2 {
		t.Fatalf("expected window 2 restored as column 1")
	}
	if c.MovePhase() != "idle" {
		t.Fatalf("expected idle after cancel, got %s", c.MovePhase())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_MoveSurvivesDraggedWindowClosing(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	c.BeginMove(2, Point{X: 600, Y: 100}, t0)
	c.UpdateMove(Point{X: 700, Y: 300}, t0)
	c.RemoveWindow(2, t0)

	if c.MovePhase() != "idle" {
		t.Fatalf("expected drag dropped when its window vanished, got %s", c.MovePhase())
	}
	c.EndMove(t0) // must be a no-op
	if c.ActiveRow().Len() != 1 {
		t.Fatalf("expected only window 1 remaining, got %d columns", c.ActiveRow().Len())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_DraggedWindowClosingReleasesEdgeScroll(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	addWindow(c, 2, t0)

	c.BeginMove(2, Point{X: 600, Y: 100}, t0)
	c.UpdateMove(Point{X: 700, Y: 300}, t0)
	// Holding the pointer inside the left edge margin scrolls the row under
	// the drag, which puts its view offset into gesture mode.
	c.UpdateMove(Point{X: 20, Y: 300}, t0)
	if !c.Row(0).scrolling {
		t.Fatalf("expected edge scrolling on the origin row")
	}

	c.RemoveWindow(2, t0)
	if c.MovePhase() != "idle" {
		t.Fatalf("expected drag dropped when its window vanished, got %s", c.MovePhase())
	}
	// The gesture ends with the drag; the row must answer to focus-driven
	// view retargeting again.
	if c.Row(0).scrolling {
		t.Fatalf("expected edge scroll released with the drag")
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_SetOptionsKeepsEveryWindow(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	w2 := &fakeWindow{id: 2, size: Size{W: 400, H: 300}}
	c.AddWindow(w2, Target{Stack: true}, false, t0)
	addWindow(c, 3, t0)

	o := testOptions()
	o.GapX = 20
	o.GapY = 20
	c.SetOptions(o, t0)

	seen := map[WindowID]bool{}
	for _, rt := range c.Render(t0) {
		if !rt.Closing {
			seen[rt.Window] = true
		}
	}
	if !seen[1] || !seen[2] || !seen[3] {
		t.Fatalf("expected all windows to survive the reload, saw %v", seen)
	}
	// New gaps apply as a hard cut.
	r1, _ := renderOf(c, 1, t0)
	if r1.Rect.X != 20 || r1.Rect.Y != 20 {
		t.Fatalf("expected window 1 at the new inner origin (20,20), got %+v", r1.Rect)
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_SetWorkAreaReflows(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)

	c.SetWorkArea(Rect{X: 0, Y: 0, Width: 800, Height: 500}, t0)
	r1, _ := renderOf(c, 1, t0)
	// inner 780 wide: 0.5 column = 0.5*(780+10)-10 = 385.
	if r1.Rect.Width != 385 {
		t.Fatalf("expected width 385 after mode change, got %v", r1.Rect.Width)
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_OriginRowIsPermanent(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	c.RemoveWindow(1, t0)

	if c.Row(0) == nil {
		t.Fatalf("expected origin row to survive emptying")
	}
	if c.ActiveKey() != 0 {
		t.Fatalf("expected active row 0, got %d", c.ActiveKey())
	}
	checkInvariants(t, c, t0)
}

func TestCanvas_RowsIntrospection(t *testing.T) {
	c := newTestCanvas(testOptions())
	addWindow(c, 1, t0)
	c.EnsureNamedRow("scratch")
	c.SetUrgent(1, true)

	rows := c.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Index != 0 || !rows[0].Active || !rows[0].Urgent {
		t.Fatalf("expected origin row active and urgent, got %+v", rows[0])
	}
	if rows[1].Name != "scratch" || rows[1].Active {
		t.Fatalf("expected inactive named row, got %+v", rows[1])
	}
}
