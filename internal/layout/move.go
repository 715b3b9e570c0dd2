package layout

import (
	"math"
	"time"
)

// movePhase is the interactive-move state. The machine only ever advances
// Idle → Starting → Moving → Idle; it never re-enters Moving without a fresh
// Starting transition.
type movePhase int

const (
	movePhaseIdle movePhase = iota
	movePhaseStarting
	movePhaseMoving
)

// String returns the phase name for logs and introspection.
func (p movePhase) String() string {
	switch p {
	case movePhaseIdle:
		return "idle"
	case movePhaseStarting:
		return "starting"
	case movePhaseMoving:
		return "moving"
	default:
		return "unknown"
	}
}

// InsertHint is where a dragged window would land if released now.
type InsertHint struct {
	RowKey  int
	ColIdx  int  // insertion index when creating a new column
	TileIdx int  // position within the column when stacking
	Stack   bool // stack into an existing column instead of a new one
	Rect    Rect // hint-bar rectangle in screen coordinates
}

// edgeScrollMargin is the pointer distance from the viewport edge inside
// which dragging scrolls the row.
const edgeScrollMargin = 32.0

// edgeScrollStep is the per-update scroll delta while edge-scrolling.
const edgeScrollStep = 12.0

type moveState struct {
	phase movePhase
	tile  *Tile

	srcRow    int
	srcColPtr *Column
	srcColIdx int
	srcTile   int
	wasAlone  bool
	srcWidth  ColumnWidth

	start      Point
	ptr        Point
	grabOffset Point
	grabSize   Size

	hint        InsertHint
	scrollOwner *Row
}

// MovePhase returns the current interactive-move phase name.
func (c *Canvas) MovePhase() string {
	return c.move.phase.String()
}

// MoveHint returns the current insertion hint. Valid only while a move is in
// the moving phase.
func (c *Canvas) MoveHint() (InsertHint, bool) {
	if c.move.phase != movePhaseMoving {
		return InsertHint{}, false
	}
	return c.move.hint, true
}

// BeginMove starts an interactive move of a tiled window at the given
// pointer position. No structural change happens until the pointer travels
// past the movement threshold.
func (c *Canvas) BeginMove(id WindowID, ptr Point, now time.Time) bool {
	if c.move.phase != movePhaseIdle {
		return false
	}
	t, rowKey, floating := c.findTile(id)
	if t == nil || floating {
		return false
	}
	r := c.rows[rowKey]
	ci, ti := r.columnAt(id)
	screen := c.tileScreenRect(rowKey, r, t, now)
	c.move = moveState{
		phase:      movePhaseStarting,
		tile:       t,
		srcRow:     rowKey,
		srcColPtr:  r.cols[ci],
		srcColIdx:  ci,
		srcTile:    ti,
		wasAlone:   r.cols[ci].Len() == 1,
		srcWidth:   r.cols[ci].Width(),
		start:      ptr,
		ptr:        ptr,
		grabOffset: Point{X: ptr.X - screen.X, Y: ptr.Y - screen.Y},
		grabSize:   Size{W: screen.Width, H: screen.Height},
	}
	return true
}

// UpdateMove advances the move with a new pointer position. Crossing the
// threshold detaches the tile — triggering the same column/row cleanup as a
// window close — after which every update recomputes the insertion hint and
// drives edge scrolling.
func (c *Canvas) UpdateMove(ptr Point, now time.Time) {
	m := &c.move
	if m.phase == movePhaseIdle {
		return
	}
	m.ptr = ptr

	if m.phase == movePhaseStarting {
		if math.Hypot(ptr.X-m.start.X, ptr.Y-m.start.Y) < c.opts.MoveThreshold {
			return
		}
		c.detachForMove(now)
		m.phase = movePhaseMoving
	}

	c.updateEdgeScroll(ptr, now)
	m.hint = c.computeHint(ptr, now)
}

// detachForMove removes the dragged tile from its column exactly as if the
// window had closed, minus the close animation.
func (c *Canvas) detachForMove(now time.Time) {
	m := &c.move
	r := c.rows[m.srcRow]
	if r == nil {
		return
	}
	ci, ti := r.columnAt(m.tile.ID())
	if ci < 0 {
		return
	}
	col := r.cols[ci]
	col.removeTile(ti)
	if col.Len() == 0 {
		r.removeColumn(ci, now, c.serial)
	} else {
		r.resolve(now, true, c.serial)
		r.retargetView(now)
	}
	m.tile.resetMotion()
	// The source row may now be empty; it survives until the move settles so
	// a cancel can restore into it.
}

// updateEdgeScroll feeds the view offset of the row under the pointer while
// the pointer sits near a viewport edge.
func (c *Canvas) updateEdgeScroll(ptr Point, now time.Time) {
	key := c.rowKeyAt(ptr.Y, now)
	r := c.rows[key]
	if r == nil {
		return
	}
	var delta float64
	switch {
	case ptr.X < c.inner.X+edgeScrollMargin:
		delta = -edgeScrollStep
	case ptr.X > c.inner.Right()-edgeScrollMargin:
		delta = edgeScrollStep
	default:
		return
	}
	if !r.scrolling {
		r.BeginScroll(now)
		c.move.scrollOwner = r
	}
	r.UpdateScroll(delta/c.opts.GestureSensitivity, now)
}

// endEdgeScroll releases any edge-scroll gesture with the snap variant:
// scrolling here was a side effect of the drag, not a deliberate pan, so the
// offset stays exactly where the drag left it.
func (c *Canvas) endEdgeScroll(now time.Time) {
	if r := c.move.scrollOwner; r != nil {
		r.EndScroll(now, true)
		c.move.scrollOwner = nil
	}
}

// rowKeyAt maps a screen y to the row key under it at the given instant.
func (c *Canvas) rowKeyAt(y float64, now time.Time) int {
	contentY := y - c.inner.Y + c.camera.At(now)
	return int(math.Floor(contentY / c.workArea.Height))
}

// computeHint maps the pointer to an insertion hint using the same
// boundary-nearest-neighbor predicate normal placement uses.
func (c *Canvas) computeHint(ptr Point, now time.Time) InsertHint {
	key := c.rowKeyAt(ptr.Y, now)
	r := c.rows[key]
	if r == nil || r.Len() == 0 {
		return InsertHint{
			RowKey: key,
			ColIdx: 0,
			Rect: Rect{
				X:      c.inner.X,
				Y:      c.inner.Y + c.rowY(key) - c.camera.At(now),
				Width:  c.opts.GapX,
				Height: c.inner.Height,
			},
		}
	}

	x := ptr.X - c.inner.X + r.viewOffset.At(now)
	for i := range r.cols {
		w := r.cols[i].displayWidth(r.opts, r.inner.Width)
		if x < r.colX[i] || x >= r.colX[i]+w {
			continue
		}
		rel := (x - r.colX[i]) / w
		switch {
		case rel < 0.25:
			return c.boundaryHint(key, r, i, now)
		case rel > 0.75:
			return c.boundaryHint(key, r, i+1, now)
		default:
			return c.stackHint(key, r, i, ptr, now)
		}
	}
	return c.boundaryHint(key, r, r.insertionIndexAt(x), now)
}

// boundaryHint builds a new-column hint at the given insertion index. The
// hint bar's x uses the same view-target function as settled placement, so
// releasing the drag never causes a visible jump.
func (c *Canvas) boundaryHint(key int, r *Row, idx int, now time.Time) InsertHint {
	var contentX float64
	switch {
	case idx <= 0 && r.Len() > 0:
		contentX = r.colX[0] - c.opts.GapX
	case idx >= r.Len():
		last := r.Len() - 1
		contentX = r.colX[last] + r.cols[last].displayWidth(r.opts, r.inner.Width)
	default:
		contentX = r.colX[idx] - c.opts.GapX
	}
	return InsertHint{
		RowKey: key,
		ColIdx: idx,
		Rect: Rect{
			X:      c.inner.X + contentX - r.viewOffset.At(now),
			Y:      c.inner.Y + c.rowY(key) - c.camera.At(now),
			Width:  c.opts.GapX,
			Height: c.inner.Height,
		},
	}
}

// stackHint builds a stacking hint inside column i, picking the tile slot by
// the pointer's vertical position.
func (c *Canvas) stackHint(key int, r *Row, i int, ptr Point, now time.Time) InsertHint {
	col := r.cols[i]
	y := ptr.Y - c.inner.Y - c.rowY(key) + c.camera.At(now)
	idx := col.Len()
	for ti, t := range col.tiles {
		if y < t.target.Y+t.target.Height/2 {
			idx = ti
			break
		}
	}
	w := col.displayWidth(r.opts, r.inner.Width)
	return InsertHint{
		RowKey:  key,
		ColIdx:  i,
		TileIdx: idx,
		Stack:   true,
		Rect: Rect{
			X:      c.inner.X + r.colX[i] - r.viewOffset.At(now),
			Y:      ptr.Y - c.opts.GapY/2,
			Width:  w,
			Height: c.opts.GapY,
		},
	}
}

// EndMove releases the drag. In the moving phase the tile re-inserts at the
// hint location; in the starting phase nothing was detached and nothing
// changes. Either way the machine returns to idle.
func (c *Canvas) EndMove(now time.Time) {
	m := c.move
	c.endEdgeScroll(now)
	c.move = moveState{}
	if m.phase != movePhaseMoving {
		return
	}

	r := c.ensureRow(m.hint.RowKey)
	if m.hint.Stack && m.hint.ColIdx < r.Len() {
		col := r.cols[m.hint.ColIdx]
		col.addTile(m.tile, m.hint.TileIdx)
		r.active = m.hint.ColIdx
		r.resolve(now, true, c.serial)
		r.retargetView(now)
	} else {
		col := NewColumn(m.tile, c.opts.DefaultColumnWidth)
		r.insertColumn(m.hint.ColIdx, col, true, now, c.serial)
	}
	c.activeKey = m.hint.RowKey
	c.focusFloating = false
	c.retargetCamera(now)
	c.cleanup(now)
}

// CancelMove aborts the drag, restoring the tile to its original column,
// row, and index when it was already detached.
func (c *Canvas) CancelMove(now time.Time) {
	m := c.move
	c.endEdgeScroll(now)
	c.move = moveState{}
	if m.phase != movePhaseMoving {
		return
	}

	r := c.ensureRow(m.srcRow)
	restored := false
	if !m.wasAlone {
		for ci, col := range r.cols {
			if col != m.srcColPtr {
				continue
			}
			idx := m.srcTile
			if idx > col.Len() {
				idx = col.Len()
			}
			col.addTile(m.tile, idx)
			r.active = ci
			r.resolve(now, true, c.serial)
			r.retargetView(now)
			restored = true
			break
		}
	}
	if !restored {
		idx := m.srcColIdx
		if idx > r.Len() {
			idx = r.Len()
		}
		col := NewColumn(m.tile, m.srcWidth)
		r.insertColumn(idx, col, true, now, c.serial)
	}
	c.activeKey = m.srcRow
	c.focusFloating = false
	c.retargetCamera(now)
	c.cleanup(now)
}
