package layout

import (
	"sort"
	"strings"
	"time"

	"github.com/veighnsche/scrolltile/internal/anim"
)

// Canvas is one output's whole surface: an integer-indexed, sparsely
// populated collection of rows stacked vertically, the floating layer, and
// the vertical camera. Row keys may be negative; the origin row (key 0)
// always exists.
//
// One engine instance exclusively owns its tree. External consumers only
// read computed snapshots (Render, Rows), never the live tree.
type Canvas struct {
	opts     Options
	workArea Rect
	inner    Rect

	rows      map[int]*Row
	activeKey int
	camera    anim.Scalar

	floating      FloatingLayer
	focusFloating bool

	closing []closingTile
	move    moveState

	nextRowID  uint64
	nextSerial uint32
}

// NewCanvas creates a canvas for the given working area with the origin row
// in place.
func NewCanvas(workArea Rect, opts Options) *Canvas {
	c := &Canvas{
		opts:     opts,
		workArea: workArea,
		rows:     map[int]*Row{},
	}
	c.inner = workArea.Inset(opts.GapX, opts.GapY, opts.GapX, opts.GapY)
	c.rows[0] = newRow(c.rowID(), &c.opts, c.inner)
	return c
}

func (c *Canvas) rowID() uint64 {
	c.nextRowID++
	return c.nextRowID
}

// serial returns the monotonically increasing resize-request serial source.
func (c *Canvas) serial() uint32 {
	c.nextSerial++
	return c.nextSerial
}

// Options returns the canvas's current option set.
func (c *Canvas) Options() Options {
	return c.opts
}

// WorkArea returns the working area the canvas lays out into.
func (c *Canvas) WorkArea() Rect {
	return c.workArea
}

// SetOptions swaps in a newly resolved configuration. All geometry
// re-resolves as a hard cut; no window is destroyed. In-progress gestures
// are cancelled synchronously first.
func (c *Canvas) SetOptions(opts Options, now time.Time) {
	c.CancelGestures(now)
	c.opts = opts
	c.inner = c.workArea.Inset(opts.GapX, opts.GapY, opts.GapX, opts.GapY)
	for _, r := range c.rows {
		r.setEnvironment(&c.opts, c.inner)
		r.resolve(now, false, c.serial)
		r.retargetView(now)
	}
	c.retargetCamera(now)
}

// SetWorkArea updates the working area, e.g. when the output mode changes.
func (c *Canvas) SetWorkArea(area Rect, now time.Time) {
	c.CancelGestures(now)
	c.workArea = area
	c.inner = area.Inset(c.opts.GapX, c.opts.GapY, c.opts.GapX, c.opts.GapY)
	for _, r := range c.rows {
		r.setEnvironment(&c.opts, c.inner)
		r.resolve(now, false, c.serial)
		r.retargetView(now)
	}
	c.camera.Set(c.rowY(c.activeKey))
}

// CancelGestures force-cancels any interactive resize, scroll gesture, or
// interactive move. Synchronous; every invariant holds on return.
func (c *Canvas) CancelGestures(now time.Time) {
	for _, r := range c.rows {
		r.CancelGestures(now, c.serial)
	}
	if c.move.phase != movePhaseIdle {
		c.CancelMove(now)
	}
}

// rowKeys returns the populated row keys in ascending order.
func (c *Canvas) rowKeys() []int {
	keys := make([]int, 0, len(c.rows))
	for k := range c.rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// rowY returns the settled content y of a row key. Rows are stacked at
// working-area-height intervals.
func (c *Canvas) rowY(key int) float64 {
	return float64(key) * c.workArea.Height
}

// Row returns the row at the given key, or nil.
func (c *Canvas) Row(key int) *Row {
	return c.rows[key]
}

// ActiveKey returns the key of the active row.
func (c *Canvas) ActiveKey() int {
	return c.activeKey
}

// ActiveRow returns the active row. Always non-nil.
func (c *Canvas) ActiveRow() *Row {
	return c.rows[c.activeKey]
}

// ensureRow returns the row at key, creating it if absent.
func (c *Canvas) ensureRow(key int) *Row {
	if r, ok := c.rows[key]; ok {
		return r
	}
	r := newRow(c.rowID(), &c.opts, c.inner)
	c.rows[key] = r
	return r
}

// RowByName returns the key and row carrying the given name. Names are
// case-insensitive.
func (c *Canvas) RowByName(name string) (int, *Row) {
	for k, r := range c.rows {
		if r.name != "" && strings.EqualFold(r.name, name) {
			return k, r
		}
	}
	return 0, nil
}

// EnsureNamedRow returns the key of the row with the given name, creating a
// new row below the bottommost populated row when absent.
func (c *Canvas) EnsureNamedRow(name string) int {
	if key, r := c.RowByName(name); r != nil {
		return key
	}
	keys := c.rowKeys()
	key := keys[len(keys)-1] + 1
	r := c.ensureRow(key)
	r.name = name
	return key
}

// NameRow assigns a name to the row at key, creating the row if absent.
// Naming protects the row from empty-row cleanup. Fails when the name is
// already taken by another row.
func (c *Canvas) NameRow(key int, name string) bool {
	if name == "" {
		return false
	}
	if k, other := c.RowByName(name); other != nil && k != key {
		return false
	}
	c.ensureRow(key).name = name
	return true
}

// UnnameRow clears a row's name, making it eligible for cleanup again.
func (c *Canvas) UnnameRow(key int, now time.Time) {
	if r := c.rows[key]; r != nil {
		r.name = ""
	}
	c.cleanup(now)
}

// RemoveNamedRow destroys the row with the given name. Its columns transfer
// to the origin row. The origin row itself can only be unnamed, not removed.
func (c *Canvas) RemoveNamedRow(name string, now time.Time) bool {
	key, r := c.RowByName(name)
	if r == nil {
		return false
	}
	if key == 0 {
		r.name = ""
		return true
	}
	origin := c.rows[0]
	for !r.IsEmpty() {
		col := r.removeColumn(0, now, c.serial)
		origin.insertColumn(origin.Len(), col, false, now, c.serial)
	}
	r.name = ""
	if c.activeKey == key {
		c.activeKey = 0
		c.retargetCamera(now)
	}
	c.cleanup(now)
	return true
}

// cleanup removes rows with zero columns, except the origin row, named rows,
// and the currently active row (which may legitimately be an empty row the
// user just navigated to).
func (c *Canvas) cleanup(now time.Time) {
	for k, r := range c.rows {
		if k == 0 || k == c.activeKey || r.name != "" || !r.IsEmpty() {
			continue
		}
		delete(c.rows, k)
	}
	if _, ok := c.rows[c.activeKey]; !ok {
		c.activeKey = 0
		c.retargetCamera(now)
	}
}

// retargetCamera springs the camera toward the active row.
func (c *Canvas) retargetCamera(now time.Time) {
	target := c.rowY(c.activeKey)
	if target != c.camera.Target() {
		c.camera.SpringTo(target, now, c.opts.Animations.Camera)
	}
}

// CameraY returns the instantaneous camera position.
func (c *Canvas) CameraY(now time.Time) float64 {
	return c.camera.At(now)
}

// resolveTarget maps a placement target to a row key, creating rows on
// demand.
func (c *Canvas) resolveTarget(t Target) int {
	switch t.Kind {
	case TargetNamedRow:
		return c.EnsureNamedRow(t.Name)
	case TargetRowIndex:
		c.ensureRow(t.Index)
		return t.Index
	default:
		return c.activeKey
	}
}

// placementSide decides which side of the active column a new column goes
// to. This is the product's explicit placement rule: windows on the origin's
// left side grow the row leftward, everything else grows rightward.
func (c *Canvas) placementSide(r *Row) int {
	if r.Len() == 0 {
		return 0
	}
	if r.sideLeftOfOrigin(r.active) {
		return r.active
	}
	return r.active + 1
}

// AddWindow inserts a newly appeared window. The target picks the row;
// Stack puts the tile into the active column, otherwise a new column is
// created beside it. Floating windows bypass row flow entirely.
func (c *Canvas) AddWindow(win Window, target Target, floating bool, now time.Time) {
	tile := NewTile(win)
	tile.beginOpen(now, c.opts.Animations.Open)

	if floating {
		sz := win.CurrentSize()
		pos := Point{
			X: c.inner.X + (c.inner.Width-sz.W)/2,
			Y: c.inner.Y + (c.inner.Height-sz.H)/2,
		}
		c.floating.add(tile, pos)
		c.focusFloating = true
		return
	}

	key := c.resolveTarget(target)
	r := c.rows[key]
	if target.Stack && r.ActiveColumn() != nil {
		col := r.ActiveColumn()
		col.addTile(tile, col.Len())
		r.resolve(now, true, c.serial)
		r.retargetView(now)
	} else {
		col := NewColumn(tile, c.opts.DefaultColumnWidth)
		r.insertColumn(c.placementSide(r), col, true, now, c.serial)
	}
	c.activeKey = key
	c.focusFloating = false
	c.retargetCamera(now)
	c.cleanup(now)
}

// RemoveWindow handles a disappeared window: the tile leaves the tree
// immediately, a close-animation snapshot is kept for the renderer, and
// column/row cleanup runs. Unknown windows are a no-op.
func (c *Canvas) RemoveWindow(id WindowID, now time.Time) {
	if c.move.phase != movePhaseIdle && c.move.tile != nil && c.move.tile.ID() == id {
		// The window being dragged disappeared: drop the drag first,
		// releasing any edge scroll so the source row leaves gesture mode.
		c.endEdgeScroll(now)
		c.move = moveState{}
	}

	if t := c.floating.remove(id); t != nil {
		c.snapshotClose(t, c.floatingRect(t), now)
		if c.floating.Len() == 0 {
			c.focusFloating = false
		}
		return
	}

	for key, r := range c.rows {
		ci, ti := r.columnAt(id)
		if ci < 0 {
			continue
		}
		col := r.cols[ci]
		screen := c.tileScreenRect(key, r, col.tiles[ti], now)
		tile := col.removeTile(ti)
		c.snapshotClose(tile, screen, now)
		if col.Len() == 0 {
			r.removeColumn(ci, now, c.serial)
		} else {
			r.resolve(now, true, c.serial)
			r.retargetView(now)
		}
		c.cleanup(now)
		return
	}
}

func (c *Canvas) snapshotClose(t *Tile, rect Rect, now time.Time) {
	snap := closingTile{id: t.ID(), rect: rect}
	snap.anim = anim.NewScalar(0)
	snap.anim.SpringTo(1, now, c.opts.Animations.Close)
	c.closing = append(c.closing, snap)
}

// CommitWindow applies a client's size acknowledgement. Acknowledgements
// whose serial is older than the last request issued for that window are
// silently discarded; a slow client can never corrupt a newer state.
func (c *Canvas) CommitWindow(id WindowID, serial uint32, size Size) bool {
	t, _, _ := c.findTile(id)
	if t == nil {
		return false
	}
	return t.commit(serial, size)
}

// findTile searches the active row, then all other rows, then the floating
// layer. The order matters only for worst-case cost.
func (c *Canvas) findTile(id WindowID) (t *Tile, rowKey int, floating bool) {
	if r := c.rows[c.activeKey]; r != nil {
		if ci, ti := r.columnAt(id); ci >= 0 {
			return r.cols[ci].tiles[ti], c.activeKey, false
		}
	}
	for key, r := range c.rows {
		if key == c.activeKey {
			continue
		}
		if ci, ti := r.columnAt(id); ci >= 0 {
			return r.cols[ci].tiles[ti], key, false
		}
	}
	if t := c.floating.find(id); t != nil {
		return t, 0, true
	}
	return nil, 0, false
}

// FocusedWindow returns the focused window's id: the floating layer's
// active tile when the explicit focus flag points there, else the active
// row's active tile. ok is false when nothing is focused.
func (c *Canvas) FocusedWindow() (WindowID, bool) {
	if c.focusFloating {
		if t := c.floating.ActiveTile(); t != nil {
			return t.ID(), true
		}
	}
	if col := c.ActiveRow().ActiveColumn(); col != nil {
		if t := col.ActiveTile(); t != nil {
			return t.ID(), true
		}
	}
	return 0, false
}

// FocusFloating reports whether the floating layer holds focus.
func (c *Canvas) FocusFloating() bool {
	return c.focusFloating
}

// SwitchFocusLayer toggles focus between the tiled tree and the floating
// layer. A no-op when the other layer is empty.
func (c *Canvas) SwitchFocusLayer() {
	if c.focusFloating {
		c.focusFloating = false
		return
	}
	if c.floating.Len() > 0 {
		c.focusFloating = true
	}
}

// FocusWindow moves focus to the given window wherever it lives, switching
// rows and layers as needed.
func (c *Canvas) FocusWindow(id WindowID, now time.Time) bool {
	if c.floating.activate(id) {
		c.focusFloating = true
		return true
	}
	for key, r := range c.rows {
		ci, ti := r.columnAt(id)
		if ci < 0 {
			continue
		}
		r.active = ci
		r.cols[ci].setActive(ti)
		c.activeKey = key
		c.focusFloating = false
		r.retargetView(now)
		c.retargetCamera(now)
		c.cleanup(now)
		return true
	}
	return false
}

// Focus moves focus in a physical direction. Left/right move across columns
// in the active row, clamping at the ends. Up/down move within the active
// column and, past its boundary, cross into the adjacent row: the row is
// created if absent, the column geometrically nearest the canvas-origin
// point is selected, and the camera springs to bring the row into view.
func (c *Canvas) Focus(dir Direction, mode FocusMode, now time.Time) {
	if c.focusFloating {
		return
	}
	r := c.ActiveRow()
	switch dir {
	case Left, Right:
		r.FocusColumn(dir, mode, now)
	case Up, Down:
		if r.FocusTile(dir, now) {
			return
		}
		c.crossRow(dir, now)
	}
}

// crossRow moves the active row key one step up or down.
func (c *Canvas) crossRow(dir Direction, now time.Time) {
	delta := -1
	if dir == Down {
		delta = 1
	}
	key := c.activeKey + delta
	r := c.ensureRow(key)
	if idx := r.columnNearestOrigin(); idx >= 0 {
		r.active = idx
		col := r.cols[idx]
		// Enter the column from the edge nearest the row we came from.
		if dir == Up {
			col.setActive(col.Len() - 1)
		} else {
			col.setActive(0)
		}
		r.retargetView(now)
	}
	c.activeKey = key
	c.retargetCamera(now)
	c.cleanup(now)
}

// FocusRow moves focus to the row at the given key, creating it if absent.
func (c *Canvas) FocusRow(key int, now time.Time) {
	c.focusFloating = false
	r := c.ensureRow(key)
	if r.ActiveColumn() != nil {
		r.retargetView(now)
	}
	c.activeKey = key
	c.retargetCamera(now)
	c.cleanup(now)
}

// MoveColumnToRow moves the active column into the adjacent row above or
// below, creating it if absent.
func (c *Canvas) MoveColumnToRow(dir Direction, now time.Time) bool {
	if dir != Up && dir != Down {
		return false
	}
	delta := -1
	if dir == Down {
		delta = 1
	}
	return c.MoveColumnToRowKey(c.activeKey+delta, now)
}

// MoveColumnToRowKey moves the active column into the row at the given key,
// creating it if absent. The origin row survives even when this empties it.
func (c *Canvas) MoveColumnToRowKey(key int, now time.Time) bool {
	src := c.ActiveRow()
	if src.Len() == 0 || key == c.activeKey {
		return false
	}
	dst := c.ensureRow(key)

	colX := src.colX[src.active]
	col := src.removeColumn(src.active, now, c.serial)
	if len(dst.colX) == 0 && dst.Len() > 0 {
		dst.resolve(now, false, c.serial)
	}
	dst.insertColumn(dst.insertionIndexAt(colX), col, true, now, c.serial)

	c.activeKey = key
	c.retargetCamera(now)
	c.cleanup(now)
	return true
}

// ToggleFloating moves the focused window between the tiled tree and the
// floating layer, preserving its on-screen position where possible.
func (c *Canvas) ToggleFloating(now time.Time) bool {
	id, ok := c.FocusedWindow()
	if !ok {
		return false
	}

	if c.focusFloating {
		t := c.floating.remove(id)
		if t == nil {
			return false
		}
		t.resetMotion()
		r := c.ActiveRow()
		col := NewColumn(t, c.opts.DefaultColumnWidth)
		r.insertColumn(c.placementSide(r), col, true, now, c.serial)
		c.focusFloating = false
		return true
	}

	r := c.ActiveRow()
	ci, ti := r.columnAt(id)
	if ci < 0 {
		return false
	}
	col := r.cols[ci]
	screen := c.tileScreenRect(c.activeKey, r, col.tiles[ti], now)
	tile := col.removeTile(ti)
	tile.resetMotion()
	if col.Len() == 0 {
		r.removeColumn(ci, now, c.serial)
	} else {
		r.resolve(now, true, c.serial)
		r.retargetView(now)
	}
	c.floating.add(tile, Point{X: screen.X, Y: screen.Y})
	c.focusFloating = true
	c.cleanup(now)
	return true
}

// floatingRect returns a floating tile's screen rectangle from its explicit
// position and the client's committed size.
func (c *Canvas) floatingRect(t *Tile) Rect {
	sz := t.committed
	if sz.W <= 0 || sz.H <= 0 {
		sz = t.win.CurrentSize()
	}
	if sz.W <= 0 || sz.H <= 0 {
		sz = t.requested
	}
	return Rect{X: t.floatPos.X, Y: t.floatPos.Y, Width: sz.W, Height: sz.H}
}

// tileScreenRect converts a tiled tile's settled row-local rectangle into
// screen coordinates at the given instant, applying view offset and camera.
// The camera offset applies to every row, not only the active one: more than
// one row is visible while the camera is in flight.
func (c *Canvas) tileScreenRect(key int, r *Row, t *Tile, now time.Time) Rect {
	sz := t.visualSize(now, t.target)
	return Rect{
		X:      c.inner.X + t.target.X - r.viewOffset.At(now),
		Y:      c.inner.Y + t.target.Y + c.rowY(key) - c.camera.At(now),
		Width:  sz.W,
		Height: sz.H,
	}
}
