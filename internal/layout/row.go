package layout

import (
	"math"
	"time"

	"github.com/veighnsche/scrolltile/internal/anim"
)

// Row is a horizontal, unboundedly-scrollable sequence of columns. Content
// coordinates put the canvas origin at x=0; columns inserted toward the
// origin's left acquire negative positions. The view offset is the content x
// coordinate visible at the working area's left edge.
type Row struct {
	id   uint64
	name string

	cols   []*Column
	active int

	// originX is the content x of the first column's left edge.
	originX float64
	// colX caches each column's content x, rebuilt by resolve.
	colX []float64

	viewOffset anim.Scalar

	opts  *Options
	inner Rect // working area minus gaps, set by the owning canvas

	resize    interactiveResize
	scrolling bool
}

// interactiveResize tracks an in-progress begin/update/end resize.
type interactiveResize struct {
	active     bool
	col        int
	tile       int
	edges      Edge
	startW     float64
	startH     float64
	origWidth  ColumnWidth
	origHeight TileHeight
}

func newRow(id uint64, opts *Options, inner Rect) *Row {
	return &Row{id: id, opts: opts, inner: inner}
}

// ID returns the row's stable identity token.
func (r *Row) ID() uint64 {
	return r.id
}

// Name returns the row's optional name.
func (r *Row) Name() string {
	return r.name
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.cols)
}

// IsEmpty reports whether the row holds no columns.
func (r *Row) IsEmpty() bool {
	return len(r.cols) == 0
}

// Columns returns the column slice. Callers must not mutate it.
func (r *Row) Columns() []*Column {
	return r.cols
}

// ActiveIndex returns the active column index, or -1 for an empty row.
func (r *Row) ActiveIndex() int {
	if len(r.cols) == 0 {
		return -1
	}
	return r.active
}

// ActiveColumn returns the active column, or nil for an empty row.
func (r *Row) ActiveColumn() *Column {
	if len(r.cols) == 0 {
		return nil
	}
	return r.cols[r.active]
}

// ViewOffset returns the instantaneous view offset.
func (r *Row) ViewOffset(now time.Time) float64 {
	return r.viewOffset.At(now)
}

// ViewOffsetTarget returns the settled view offset.
func (r *Row) ViewOffsetTarget() float64 {
	return r.viewOffset.Target()
}

// setEnvironment updates the option set and working area. The caller
// resolves afterward.
func (r *Row) setEnvironment(opts *Options, inner Rect) {
	r.opts = opts
	r.inner = inner
}

// resolve recomputes every column position, width, and tile height, records
// the settled rectangles on the tiles, and issues size requests. With
// animate=false the new geometry applies as a hard cut (interactive resize,
// option reload).
func (r *Row) resolve(now time.Time, animate bool, serial func() uint32) {
	o := r.opts
	r.colX = r.colX[:0]
	x := r.originX
	for _, c := range r.cols {
		r.colX = append(r.colX, x)
		w := c.resolveWidth(o, r.inner.Width)
		heights := c.resolveHeights(o, r.inner.Height)
		y := 0.0
		for i, t := range c.tiles {
			h := heights[i]
			rect := Rect{X: x, Y: y, Width: w, Height: h}
			if c.tabbed {
				if i != c.active {
					// Hidden tabs park at the active tile's rectangle so
					// switching tabs animates from a sensible place.
					rect = Rect{X: x, Y: 0, Width: w, Height: r.inner.Height}
				}
			} else {
				y += h + o.GapY
			}
			t.setTarget(rect, now, &o.Animations, animate)
			t.request(Size{W: rect.Width, H: rect.Height}, serial)
		}
		x += c.displayWidth(o, r.inner.Width) + o.GapX
	}
}

// columnAt returns the column holding the given window and its indices.
func (r *Row) columnAt(id WindowID) (colIdx, tileIdx int) {
	for ci, c := range r.cols {
		if ti := c.indexOf(id); ti >= 0 {
			return ci, ti
		}
	}
	return -1, -1
}

// sideLeftOfOrigin reports whether column idx lies left of the canvas
// origin. Used only to choose which edge is "leading" during resizes and
// which edge aligns when a column overflows the viewport.
func (r *Row) sideLeftOfOrigin(idx int) bool {
	if idx < 0 || idx >= len(r.colX) {
		return false
	}
	c := r.cols[idx]
	center := r.colX[idx] + c.displayWidth(r.opts, r.inner.Width)/2
	return center < 0
}

// insertColumn places col at idx and optionally activates it. Inserting at
// or left of the active column grows the row leftward: the origin offset
// shifts so existing columns keep their absolute positions.
func (r *Row) insertColumn(idx int, col *Column, activate bool, now time.Time, serial func() uint32) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(r.cols) {
		idx = len(r.cols)
	}
	wasEmpty := len(r.cols) == 0
	growLeft := !wasEmpty && idx <= r.active

	r.cols = append(r.cols, nil)
	copy(r.cols[idx+1:], r.cols[idx:])
	r.cols[idx] = col

	if growLeft {
		w := col.displayWidth(r.opts, r.inner.Width)
		r.originX -= w + r.opts.GapX
	}
	if activate {
		r.active = idx
	} else if !wasEmpty && idx <= r.active {
		// The active column shifted right. A previously empty row keeps
		// active at 0: there was no column to preserve.
		r.active++
	}

	r.resolve(now, true, serial)
	r.retargetView(now)
}

// removeColumn detaches and returns the column at idx. The column that takes
// its place becomes active: the right sibling when there is one, else the
// left. Subsequent column positions animate their neighbor shift.
func (r *Row) removeColumn(idx int, now time.Time, serial func() uint32) *Column {
	if idx < 0 || idx >= len(r.cols) {
		return nil
	}
	col := r.cols[idx]
	shrinkLeft := idx < r.active || (idx == r.active && r.sideLeftOfOrigin(idx))

	r.cols = append(r.cols[:idx], r.cols[idx+1:]...)
	if shrinkLeft {
		w := col.displayWidth(r.opts, r.inner.Width)
		r.originX += w + r.opts.GapX
	}
	switch {
	case len(r.cols) == 0:
		r.active = 0
		r.originX = 0
	case idx < r.active:
		r.active--
	case r.active >= len(r.cols):
		r.active = len(r.cols) - 1
	}

	r.resolve(now, true, serial)
	r.retargetView(now)
	return col
}

// MoveColumn swaps the active column with its neighbor in the given physical
// direction. The moved column stays active.
func (r *Row) MoveColumn(dir Direction, now time.Time, serial func() uint32) bool {
	if len(r.cols) < 2 {
		return false
	}
	var other int
	switch dir {
	case Left:
		other = r.active - 1
	case Right:
		other = r.active + 1
	default:
		return false
	}
	if other < 0 || other >= len(r.cols) {
		return false
	}
	r.cols[r.active], r.cols[other] = r.cols[other], r.cols[r.active]
	r.active = other
	r.resolve(now, true, serial)
	r.retargetView(now)
	return true
}

// ConsumeRight detaches the top tile of the column immediately right of the
// active column and stacks it at the bottom of the active column. Exact
// inverse of ExpelActive.
func (r *Row) ConsumeRight(now time.Time, serial func() uint32) bool {
	src := r.active + 1
	if len(r.cols) == 0 || src >= len(r.cols) {
		return false
	}
	tile := r.cols[src].removeTile(0)
	if tile == nil {
		return false
	}
	dst := r.cols[r.active]
	keep := dst.active
	dst.addTile(tile, dst.Len())
	// Consuming stacks a tile below; it does not steal tile focus. This is
	// what lets ExpelActive invert it exactly.
	dst.setActive(keep)
	if r.cols[src].Len() == 0 {
		r.removeColumnKeepActive(src, now, serial)
	} else {
		r.resolve(now, true, serial)
	}
	r.retargetView(now)
	return true
}

// ExpelActive detaches the bottom tile of the active column into a brand-new
// column immediately to its right. Exact inverse of ConsumeRight.
func (r *Row) ExpelActive(now time.Time, serial func() uint32) bool {
	if len(r.cols) == 0 {
		return false
	}
	src := r.cols[r.active]
	if src.Len() < 2 {
		return false
	}
	tile := src.removeTile(src.Len() - 1)
	col := NewColumn(tile, r.opts.DefaultColumnWidth)
	r.insertColumn(r.active+1, col, false, now, serial)
	return true
}

// removeColumnKeepActive removes a column without transferring activity to
// its successor; used when the active column itself absorbed the tiles.
func (r *Row) removeColumnKeepActive(idx int, now time.Time, serial func() uint32) {
	if idx < 0 || idx >= len(r.cols) {
		return
	}
	col := r.cols[idx]
	shrinkLeft := idx < r.active
	r.cols = append(r.cols[:idx], r.cols[idx+1:]...)
	if shrinkLeft {
		r.originX += col.displayWidth(r.opts, r.inner.Width) + r.opts.GapX
		r.active--
	}
	if r.active >= len(r.cols) && len(r.cols) > 0 {
		r.active = len(r.cols) - 1
	}
	r.resolve(now, true, serial)
}

// FocusColumn moves the active column index in a physical direction,
// clamping at the ends. FocusWrap wraps around; FocusFirst/FocusLast jump to
// the extremes. Returns false when focus did not move.
func (r *Row) FocusColumn(dir Direction, mode FocusMode, now time.Time) bool {
	if len(r.cols) == 0 {
		return false
	}
	next := r.active
	switch mode {
	case FocusFirst:
		next = 0
	case FocusLast:
		next = len(r.cols) - 1
	default:
		switch dir {
		case Left:
			next--
		case Right:
			next++
		default:
			return false
		}
		if mode == FocusWrap {
			next = (next + len(r.cols)) % len(r.cols)
		} else if next < 0 || next >= len(r.cols) {
			// Nothing in that direction: stay focused, don't wrap, don't
			// error.
			return false
		}
	}
	if next == r.active {
		return false
	}
	r.active = next
	r.retargetView(now)
	return true
}

// FocusTile moves the active tile up or down inside the active column.
// Returns false at the column boundary; the canvas then crosses rows.
func (r *Row) FocusTile(dir Direction, now time.Time) bool {
	c := r.ActiveColumn()
	if c == nil {
		return false
	}
	switch dir {
	case Up:
		if c.active == 0 {
			return false
		}
		c.active--
	case Down:
		if c.active >= c.Len()-1 {
			return false
		}
		c.active++
	default:
		return false
	}
	return true
}

// SetColumnWidth replaces the active column's width policy with an animated
// transition. Columns left of the canvas origin anchor their trailing
// (right) edge; the leading edge animates outward.
func (r *Row) SetColumnWidth(w ColumnWidth, now time.Time, serial func() uint32) {
	c := r.ActiveColumn()
	if c == nil {
		return
	}
	oldW := c.resolveWidth(r.opts, r.inner.Width)
	c.SetWidth(w)
	r.anchorResize(r.active, oldW, now, serial)
}

// CycleColumnPreset advances the active column through the preset width
// list.
func (r *Row) CycleColumnPreset(now time.Time, serial func() uint32) {
	c := r.ActiveColumn()
	if c == nil {
		return
	}
	oldW := c.resolveWidth(r.opts, r.inner.Width)
	c.CyclePreset(len(r.opts.PresetWidths))
	r.anchorResize(r.active, oldW, now, serial)
}

// CycleTilePreset advances the active tile through the preset height list.
func (r *Row) CycleTilePreset(now time.Time, serial func() uint32) {
	c := r.ActiveColumn()
	if c == nil {
		return
	}
	t := c.ActiveTile()
	if t == nil {
		return
	}
	h := t.Height()
	if h.Kind != HeightPreset {
		h = TileHeight{Kind: HeightPreset}
	} else if n := len(r.opts.PresetHeights); n > 0 {
		h.PresetIdx = (h.PresetIdx + 1) % n
	}
	t.SetHeight(h)
	r.resolve(now, true, serial)
}

// anchorResize resolves after a width-policy change, keeping the edge nearer
// the canvas origin fixed for columns left of the origin.
func (r *Row) anchorResize(idx int, oldW float64, now time.Time, serial func() uint32) {
	c := r.cols[idx]
	newW := c.resolveWidth(r.opts, r.inner.Width)
	if r.sideLeftOfOrigin(idx) {
		r.originX -= newW - oldW
	}
	r.resolve(now, true, serial)
	r.retargetView(now)
}

// viewTargetFor computes the settled view offset that brings column idx into
// view under the configured targeting policy. The drag hint bar uses the
// same function so releasing a drag never causes a visible jump.
func (r *Row) viewTargetFor(idx int) float64 {
	if idx < 0 || idx >= len(r.cols) || idx >= len(r.colX) {
		return r.viewOffset.Target()
	}
	o := r.opts
	cur := r.viewOffset.Target()
	left := r.colX[idx]
	w := r.cols[idx].displayWidth(o, r.inner.Width)
	v := r.inner.Width

	fit := func() float64 {
		if w > v {
			// Wider than the viewport: align whichever edge is nearer the
			// canvas origin.
			if r.sideLeftOfOrigin(idx) {
				return left + w - v
			}
			return left
		}
		if left < cur {
			return left
		}
		if left+w > cur+v {
			return left + w - v
		}
		return cur
	}

	switch o.CenterFocusedColumn {
	case CenterAlways:
		if w <= v {
			return round(left - (v-w)/2)
		}
		return fit()
	case CenterOnOverflow:
		if w > v {
			return fit()
		}
		if left >= cur && left+w <= cur+v {
			return cur
		}
		return round(left - (v-w)/2)
	default:
		return fit()
	}
}

// retargetView springs the view offset toward the active column's target.
// No-op while a scroll gesture holds the offset.
func (r *Row) retargetView(now time.Time) {
	if r.scrolling || len(r.cols) == 0 {
		return
	}
	target := r.viewTargetFor(r.active)
	if target != r.viewOffset.Target() {
		r.viewOffset.SpringTo(target, now, r.opts.Animations.ViewOffset)
	}
}

// BeginResize starts an interactive resize of the active column (horizontal
// edges) and/or the active tile (vertical edges).
func (r *Row) BeginResize(edges Edge, now time.Time) bool {
	c := r.ActiveColumn()
	if c == nil || r.resize.active {
		return false
	}
	t := c.ActiveTile()
	r.resize = interactiveResize{
		active:     true,
		col:        r.active,
		tile:       c.active,
		edges:      edges,
		startW:     c.resolveWidth(r.opts, r.inner.Width),
		origWidth:  c.Width(),
		origHeight: t.Height(),
	}
	heights := c.resolveHeights(r.opts, r.inner.Height)
	r.resize.startH = heights[c.active]
	return true
}

// UpdateResize applies a pointer delta, clamping to the configured bounds,
// and reflects it immediately: the user is actively dragging, so no spring.
func (r *Row) UpdateResize(dx, dy float64, now time.Time, serial func() uint32) {
	if !r.resize.active {
		return
	}
	s := &r.resize
	c := r.cols[s.col]
	if s.edges&(EdgeLeft|EdgeRight) != 0 {
		d := dx
		if s.edges&EdgeLeft != 0 {
			d = -dx
		}
		w := clamp(s.startW+d, r.opts.MinColumnWidth, r.inner.Width)
		c.SetWidth(ColumnWidth{Kind: WidthFixed, Fixed: w})
	}
	if s.edges&(EdgeTop|EdgeBottom) != 0 && c.Len() > 1 {
		d := dy
		if s.edges&EdgeTop != 0 {
			d = -dy
		}
		h := clamp(s.startH+d, r.opts.MinTileHeight, r.inner.Height)
		c.tiles[s.tile].SetHeight(TileHeight{Kind: HeightFixed, Fixed: h})
	}
	r.resolve(now, false, serial)
}

// EndResize commits the final size. This is the point at which neighbor
// columns' positions get their settling spring and the view offset
// re-targets.
func (r *Row) EndResize(now time.Time, serial func() uint32) {
	if !r.resize.active {
		return
	}
	r.resize = interactiveResize{}
	r.resolve(now, true, serial)
	r.retargetView(now)
}

// CancelResize aborts an in-progress resize without committing a partial
// size, restoring the original policies as a hard cut.
func (r *Row) CancelResize(now time.Time, serial func() uint32) {
	if !r.resize.active {
		return
	}
	s := r.resize
	r.resize = interactiveResize{}
	if s.col < len(r.cols) {
		c := r.cols[s.col]
		c.SetWidth(s.origWidth)
		if s.tile < c.Len() {
			c.tiles[s.tile].SetHeight(s.origHeight)
		}
	}
	r.resolve(now, false, serial)
}

// Resizing reports whether an interactive resize is in progress.
func (r *Row) Resizing() bool {
	return r.resize.active
}

// BeginScroll starts a live scroll gesture on the view offset.
func (r *Row) BeginScroll(now time.Time) {
	r.scrolling = true
	r.viewOffset.BeginGesture(now)
}

// UpdateScroll feeds a pointer delta into the gesture, scaled by the
// configured sensitivity.
func (r *Row) UpdateScroll(delta float64, now time.Time) {
	if !r.scrolling {
		return
	}
	r.viewOffset.UpdateGesture(delta*r.opts.GestureSensitivity, now)
}

// EndScroll releases the gesture. A deliberate pan springs to the nearest
// Fit target and focuses that column. The drag-and-drop edge-scroll variant
// (snap=true) leaves the offset exactly where it is: there scrolling is a
// side effect of dragging a window, and settling would kidnap the
// freshly-placed window's resting position.
func (r *Row) EndScroll(now time.Time, snap bool) {
	if !r.scrolling {
		return
	}
	r.scrolling = false
	if snap {
		r.viewOffset.SnapGesture()
		return
	}
	pos := r.viewOffset.At(now)
	best := r.active
	bestDist := math.Inf(1)
	for i := range r.cols {
		target := r.viewTargetForAt(i, pos)
		if d := math.Abs(target - pos); d < bestDist {
			bestDist = d
			best = i
		}
	}
	r.active = best
	r.viewOffset.EndGesture(r.viewTargetForAt(best, pos), now, r.opts.Animations.ViewOffset)
}

// viewTargetForAt is viewTargetFor evaluated against an explicit current
// offset instead of the scalar's settle target.
func (r *Row) viewTargetForAt(idx int, cur float64) float64 {
	saved := r.viewOffset
	r.viewOffset.Set(cur)
	t := r.viewTargetFor(idx)
	r.viewOffset = saved
	return t
}

// CancelGestures force-stops any interactive resize or scroll gesture, e.g.
// when the row is being destroyed or the configuration reloads. Every
// invariant holds immediately afterward.
func (r *Row) CancelGestures(now time.Time, serial func() uint32) {
	if r.resize.active {
		r.CancelResize(now, serial)
	}
	if r.scrolling {
		r.scrolling = false
		r.viewOffset.SnapGesture()
	}
}

// insertionIndexAt maps a content x coordinate to the column insertion point
// nearest that position. Shared by normal placement and the interactive-move
// hint so both agree on boundaries.
func (r *Row) insertionIndexAt(x float64) int {
	for i := range r.cols {
		w := r.cols[i].displayWidth(r.opts, r.inner.Width)
		mid := r.colX[i] + w/2
		if x < mid {
			return i
		}
	}
	return len(r.cols)
}

// columnNearestOrigin returns the index of the column geometrically nearest
// the canvas-origin point x=0, or -1 for an empty row.
func (r *Row) columnNearestOrigin() int {
	best := -1
	bestDist := math.Inf(1)
	for i := range r.cols {
		w := r.cols[i].displayWidth(r.opts, r.inner.Width)
		center := r.colX[i] + w/2
		if d := math.Abs(center); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
