package layout

import "time"

// Canvas-level command surface. These are the named navigation, placement,
// and resize commands the compositor core routes into the engine; every one
// is total — out-of-range and nothing-in-that-direction conditions are
// absorbed as no-ops.

// ConsumeRight merges the top tile of the column right of the active column
// into the active column.
func (c *Canvas) ConsumeRight(now time.Time) bool {
	return c.ActiveRow().ConsumeRight(now, c.serial)
}

// ExpelActive splits the active column's bottom tile into its own column.
func (c *Canvas) ExpelActive(now time.Time) bool {
	return c.ActiveRow().ExpelActive(now, c.serial)
}

// MoveColumn swaps the active column with its left or right neighbor.
func (c *Canvas) MoveColumn(dir Direction, now time.Time) bool {
	return c.ActiveRow().MoveColumn(dir, now, c.serial)
}

// SetColumnWidth replaces the active column's width policy.
func (c *Canvas) SetColumnWidth(w ColumnWidth, now time.Time) {
	c.ActiveRow().SetColumnWidth(w, now, c.serial)
}

// CycleColumnPreset advances the active column through the preset widths.
func (c *Canvas) CycleColumnPreset(now time.Time) {
	c.ActiveRow().CycleColumnPreset(now, c.serial)
}

// CycleTilePreset advances the active tile through the preset heights.
func (c *Canvas) CycleTilePreset(now time.Time) {
	c.ActiveRow().CycleTilePreset(now, c.serial)
}

// ToggleTabbed flips the active column's tabbed display.
func (c *Canvas) ToggleTabbed(now time.Time) {
	r := c.ActiveRow()
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	col.SetTabbed(!col.Tabbed())
	r.resolve(now, true, c.serial)
	r.retargetView(now)
}

// SetTileHeight replaces the active tile's height policy.
func (c *Canvas) SetTileHeight(h TileHeight, now time.Time) {
	r := c.ActiveRow()
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	if t := col.ActiveTile(); t != nil {
		t.SetHeight(h)
		r.resolve(now, true, c.serial)
	}
}

// BeginResize starts an interactive resize on the active row.
func (c *Canvas) BeginResize(edges Edge, now time.Time) bool {
	return c.ActiveRow().BeginResize(edges, now)
}

// UpdateResize applies a pointer delta to the in-progress resize.
func (c *Canvas) UpdateResize(dx, dy float64, now time.Time) {
	c.ActiveRow().UpdateResize(dx, dy, now, c.serial)
}

// EndResize commits the in-progress resize.
func (c *Canvas) EndResize(now time.Time) {
	c.ActiveRow().EndResize(now, c.serial)
}

// CancelResize aborts the in-progress resize without committing.
func (c *Canvas) CancelResize(now time.Time) {
	c.ActiveRow().CancelResize(now, c.serial)
}

// BeginScrollGesture starts a live scroll gesture on the active row.
func (c *Canvas) BeginScrollGesture(now time.Time) {
	c.ActiveRow().BeginScroll(now)
}

// UpdateScrollGesture feeds a pointer delta into the gesture.
func (c *Canvas) UpdateScrollGesture(delta float64, now time.Time) {
	c.ActiveRow().UpdateScroll(delta, now)
}

// EndScrollGesture releases the gesture, settling on the nearest Fit target.
func (c *Canvas) EndScrollGesture(now time.Time) {
	c.ActiveRow().EndScroll(now, false)
}

// MoveFloating shifts the focused floating window by a delta.
func (c *Canvas) MoveFloating(dx, dy float64) bool {
	t := c.floating.ActiveTile()
	if !c.focusFloating || t == nil {
		return false
	}
	return c.floating.MoveBy(t.ID(), dx, dy)
}
