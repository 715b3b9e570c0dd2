package layout

// WidthKind enumerates column width policies.
type WidthKind int

const (
	// WidthProportion is a fraction of the working-area width.
	WidthProportion WidthKind = iota
	// WidthFixed is an absolute pixel width.
	WidthFixed
	// WidthPreset indexes the configured preset width list.
	WidthPreset
)

// ColumnWidth is a column's width policy.
type ColumnWidth struct {
	Kind       WidthKind
	Proportion float64 // WidthProportion
	Fixed      float64 // WidthFixed
	PresetIdx  int     // WidthPreset
}

// Column is a vertical stack of at least one tile. The instant it would reach
// zero tiles its owning row removes it.
type Column struct {
	tiles  []*Tile
	active int
	width  ColumnWidth
	tabbed bool
}

// NewColumn creates a column holding a single tile with the given width
// policy.
func NewColumn(t *Tile, w ColumnWidth) *Column {
	return &Column{tiles: []*Tile{t}, width: w}
}

// Len returns the number of tiles.
func (c *Column) Len() int {
	return len(c.tiles)
}

// Tiles returns the tile slice. Callers must not mutate it.
func (c *Column) Tiles() []*Tile {
	return c.tiles
}

// ActiveIndex returns the index of the active tile.
func (c *Column) ActiveIndex() int {
	return c.active
}

// ActiveTile returns the active tile, or nil for an empty column (which only
// exists transiently inside a mutation).
func (c *Column) ActiveTile() *Tile {
	if c.active < 0 || c.active >= len(c.tiles) {
		return nil
	}
	return c.tiles[c.active]
}

// Width returns the column's width policy.
func (c *Column) Width() ColumnWidth {
	return c.width
}

// SetWidth replaces the width policy. The next resolve pass animates every
// affected tile.
func (c *Column) SetWidth(w ColumnWidth) {
	c.width = w
}

// Tabbed reports whether the column displays only its active tile.
func (c *Column) Tabbed() bool {
	return c.tabbed
}

// SetTabbed toggles tabbed display.
func (c *Column) SetTabbed(v bool) {
	c.tabbed = v
}

// CyclePreset advances the column to the next preset width. A column on a
// non-preset policy switches to the first preset.
func (c *Column) CyclePreset(n int) {
	if c.width.Kind != WidthPreset {
		c.width = ColumnWidth{Kind: WidthPreset}
		return
	}
	if n <= 0 {
		n = 1
	}
	c.width.PresetIdx = (c.width.PresetIdx + 1) % n
}

// setActive clamps and sets the active tile index.
func (c *Column) setActive(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(c.tiles) {
		i = len(c.tiles) - 1
	}
	c.active = i
}

// addTile appends or inserts a tile and makes it active.
func (c *Column) addTile(t *Tile, idx int) {
	if idx < 0 || idx > len(c.tiles) {
		idx = len(c.tiles)
	}
	c.tiles = append(c.tiles, nil)
	copy(c.tiles[idx+1:], c.tiles[idx:])
	c.tiles[idx] = t
	c.active = idx
}

// removeTile detaches the tile at idx and returns it. The caller is
// responsible for removing the column once it is empty.
func (c *Column) removeTile(idx int) *Tile {
	if idx < 0 || idx >= len(c.tiles) {
		return nil
	}
	t := c.tiles[idx]
	c.tiles = append(c.tiles[:idx], c.tiles[idx+1:]...)
	if c.active > idx || c.active >= len(c.tiles) {
		c.setActive(c.active - 1)
	}
	return t
}

// indexOf returns the index of the tile owning the given window, or -1.
func (c *Column) indexOf(id WindowID) int {
	for i, t := range c.tiles {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

// resolveWidth computes the column's settled pixel width inside a working
// area of innerW. Proportions and presets resolve so that columns whose
// fractions sum to 1 fill innerW exactly, gaps included:
//
//	w = p*(innerW + gap) - gap
func (c *Column) resolveWidth(o *Options, innerW float64) float64 {
	var w float64
	switch c.width.Kind {
	case WidthFixed:
		w = c.width.Fixed
	case WidthPreset:
		w = o.presetWidth(c.width.PresetIdx)*(innerW+o.GapX) - o.GapX
	default:
		w = c.width.Proportion*(innerW+o.GapX) - o.GapX
	}
	return round(clamp(w, o.MinColumnWidth, innerW))
}

// displayWidth is the horizontal footprint the column occupies in its row:
// the nominal width plus the tab strip when tabbed. The strip is added to,
// not carved out of, the nominal width.
func (c *Column) displayWidth(o *Options, innerW float64) float64 {
	w := c.resolveWidth(o, innerW)
	if c.tabbed {
		w += o.TabStripWidth
	}
	return w
}

// resolveHeights distributes innerH among the stacked tiles. Fixed and
// preset tiles take their height first; auto tiles split the remainder
// proportionally to weight. Heights are floored to whole pixels and the last
// auto tile absorbs the rounding remainder so the total always equals the
// available height exactly. In tabbed mode only the active tile is shown and
// it takes the full height.
func (c *Column) resolveHeights(o *Options, innerH float64) []float64 {
	n := len(c.tiles)
	heights := make([]float64, n)
	if n == 0 {
		return heights
	}
	if c.tabbed {
		heights[c.active] = innerH
		return heights
	}

	gaps := o.GapY * float64(n-1)
	remaining := innerH - gaps
	var weightSum float64
	lastAuto := -1
	for i, t := range c.tiles {
		switch t.height.Kind {
		case HeightFixed:
			heights[i] = round(clamp(t.height.Fixed, o.MinTileHeight, innerH))
			remaining -= heights[i]
		case HeightPreset:
			h := o.presetHeight(t.height.PresetIdx)*(innerH+o.GapY) - o.GapY
			heights[i] = round(clamp(h, o.MinTileHeight, innerH))
			remaining -= heights[i]
		default:
			weightSum += t.height.weight()
			lastAuto = i
		}
	}

	if lastAuto < 0 {
		return heights
	}
	if remaining < 0 {
		remaining = 0
	}

	assigned := 0.0
	for i, t := range c.tiles {
		if t.height.Kind != HeightAuto {
			continue
		}
		if i == lastAuto {
			heights[i] = remaining - assigned
			break
		}
		h := round(remaining * t.height.weight() / weightSum)
		heights[i] = h
		assigned += h
	}
	for i := range heights {
		if c.tiles[i].height.Kind == HeightAuto && heights[i] < o.MinTileHeight {
			heights[i] = o.MinTileHeight
		}
	}
	return heights
}
