package layout

import "time"

// RenderTile is one window's render instruction for the current frame: the
// settled screen rectangle plus the animation-driven pixel offset. A pure
// function of (tree, clock); the renderer never touches the live tree.
type RenderTile struct {
	Window  WindowID
	Rect    Rect
	Offset  Point
	RowKey  int
	RowID   uint64
	Active  bool // active tile of its column
	Focused bool
	Urgent  bool

	Floating bool
	Moving   bool
	Tabbed   bool // hidden behind the active tab of a tabbed column

	// OpenProgress and CloseProgress run 0→1; the renderer maps them to
	// scale/alpha. Closing tiles are no longer managed windows.
	OpenProgress  float64
	Closing       bool
	CloseProgress float64
}

// RowInfo is the introspection record for one row, queried, never pushed.
type RowInfo struct {
	ID      uint64
	Index   int
	Name    string
	Active  bool
	Focused bool
	Urgent  bool
}

// Rows returns introspection records for every populated row in key order.
func (c *Canvas) Rows() []RowInfo {
	keys := c.rowKeys()
	out := make([]RowInfo, 0, len(keys))
	for _, k := range keys {
		r := c.rows[k]
		urgent := false
		for _, col := range r.cols {
			for _, t := range col.tiles {
				if t.urgent {
					urgent = true
				}
			}
		}
		active := k == c.activeKey
		out = append(out, RowInfo{
			ID:      r.id,
			Index:   k,
			Name:    r.name,
			Active:  active,
			Focused: active && !c.focusFloating,
			Urgent:  urgent,
		})
	}
	return out
}

// SetUrgent flags a window as requesting attention.
func (c *Canvas) SetUrgent(id WindowID, v bool) {
	if t, _, _ := c.findTile(id); t != nil {
		t.SetUrgent(v)
	}
}

// IsAnimating reports whether any animation is still in flight, so the
// renderer knows whether to schedule another frame.
func (c *Canvas) IsAnimating(now time.Time) bool {
	if c.camera.IsAnimating(now) {
		return true
	}
	for _, r := range c.rows {
		if r.viewOffset.IsAnimating(now) {
			return true
		}
		for _, col := range r.cols {
			for _, t := range col.tiles {
				if t.offX.IsAnimating(now) || t.offY.IsAnimating(now) ||
					t.resize.IsAnimating(now) || t.open.IsAnimating(now) {
					return true
				}
			}
		}
	}
	for i := range c.closing {
		if c.closing[i].anim.IsAnimating(now) {
			return true
		}
	}
	return false
}

// Render computes the frame snapshot: every tiled, floating, dragged, and
// closing tile with its rectangle and offsets at the given clock reading.
func (c *Canvas) Render(now time.Time) []RenderTile {
	focused, hasFocus := c.FocusedWindow()
	var out []RenderTile

	for _, key := range c.rowKeys() {
		r := c.rows[key]
		for _, col := range r.cols {
			for ti, t := range col.tiles {
				out = append(out, RenderTile{
					Window:       t.ID(),
					Rect:         c.tileScreenRect(key, r, t, now),
					Offset:       t.renderOffset(now),
					RowKey:       key,
					RowID:        r.id,
					Active:       ti == col.active,
					Focused:      hasFocus && t.ID() == focused,
					Urgent:       t.urgent,
					Tabbed:       col.tabbed && ti != col.active,
					OpenProgress: t.open.At(now),
				})
			}
		}
	}

	for _, t := range c.floating.tiles {
		out = append(out, RenderTile{
			Window:       t.ID(),
			Rect:         c.floatingRect(t),
			Offset:       t.renderOffset(now),
			RowKey:       c.activeKey,
			Active:       t == c.floating.ActiveTile(),
			Focused:      hasFocus && t.ID() == focused,
			Urgent:       t.urgent,
			Floating:     true,
			OpenProgress: t.open.At(now),
		})
	}

	if m := &c.move; m.phase == movePhaseMoving {
		out = append(out, RenderTile{
			Window: m.tile.ID(),
			Rect: Rect{
				X:      m.ptr.X - m.grabOffset.X,
				Y:      m.ptr.Y - m.grabOffset.Y,
				Width:  m.grabSize.W,
				Height: m.grabSize.H,
			},
			RowKey:       m.hint.RowKey,
			Active:       true,
			Focused:      true,
			Floating:     true,
			Moving:       true,
			OpenProgress: 1,
		})
	}

	kept := c.closing[:0]
	for i := range c.closing {
		snap := &c.closing[i]
		p := snap.anim.At(now)
		out = append(out, RenderTile{
			Window:        snap.id,
			Rect:          snap.rect,
			Closing:       true,
			CloseProgress: p,
			OpenProgress:  1,
		})
		if snap.anim.IsAnimating(now) {
			kept = append(kept, *snap)
		}
	}
	c.closing = kept

	return out
}
