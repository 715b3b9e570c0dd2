package layout

// FloatingLayer holds windows positioned by explicit coordinates, bypassing
// row/column flow entirely. One layer per canvas.
type FloatingLayer struct {
	tiles  []*Tile
	active int
}

// Len returns the number of floating tiles.
func (f *FloatingLayer) Len() int {
	return len(f.tiles)
}

// Tiles returns the tile slice. Callers must not mutate it.
func (f *FloatingLayer) Tiles() []*Tile {
	return f.tiles
}

// ActiveTile returns the active floating tile, or nil when the layer is
// empty.
func (f *FloatingLayer) ActiveTile() *Tile {
	if f.active < 0 || f.active >= len(f.tiles) {
		return nil
	}
	return f.tiles[f.active]
}

// add places a tile at the given position and makes it active.
func (f *FloatingLayer) add(t *Tile, pos Point) {
	t.floatPos = pos
	f.tiles = append(f.tiles, t)
	f.active = len(f.tiles) - 1
}

// remove detaches the tile owning the given window, or returns nil.
func (f *FloatingLayer) remove(id WindowID) *Tile {
	for i, t := range f.tiles {
		if t.ID() == id {
			f.tiles = append(f.tiles[:i], f.tiles[i+1:]...)
			if f.active > i || f.active >= len(f.tiles) {
				f.active--
			}
			if f.active < 0 {
				f.active = 0
			}
			return t
		}
	}
	return nil
}

// find returns the tile owning the given window, or nil.
func (f *FloatingLayer) find(id WindowID) *Tile {
	for _, t := range f.tiles {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// activate makes the tile owning the given window the layer's active tile.
func (f *FloatingLayer) activate(id WindowID) bool {
	for i, t := range f.tiles {
		if t.ID() == id {
			f.active = i
			return true
		}
	}
	return false
}

// SetPosition moves a floating tile to an explicit position.
func (f *FloatingLayer) SetPosition(id WindowID, pos Point) bool {
	t := f.find(id)
	if t == nil {
		return false
	}
	t.floatPos = pos
	return true
}

// MoveBy shifts a floating tile by a delta.
func (f *FloatingLayer) MoveBy(id WindowID, dx, dy float64) bool {
	t := f.find(id)
	if t == nil {
		return false
	}
	t.floatPos.X += dx
	t.floatPos.Y += dy
	return true
}
