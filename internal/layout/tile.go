package layout

import (
	"time"

	"github.com/veighnsche/scrolltile/internal/anim"
)

// HeightKind enumerates per-tile height policies within a column.
type HeightKind int

const (
	// HeightAuto splits the column height left over after fixed and preset
	// tiles, proportionally to Weight.
	HeightAuto HeightKind = iota
	// HeightFixed is an absolute pixel height.
	HeightFixed
	// HeightPreset indexes the configured preset height list.
	HeightPreset
)

// TileHeight is one tile's height policy.
type TileHeight struct {
	Kind      HeightKind
	Weight    float64 // HeightAuto; 0 is treated as 1
	Fixed     float64 // HeightFixed
	PresetIdx int     // HeightPreset
}

func (h TileHeight) weight() float64 {
	if h.Weight <= 0 {
		return 1
	}
	return h.Weight
}

// Tile is one managed window plus its decoration and motion state. It lives
// in exactly one Column or in the Floating layer.
type Tile struct {
	win    Window
	height TileHeight
	urgent bool

	// lastSerial is the serial of the most recent size request issued to the
	// client. Acknowledgements carrying an older serial are discarded.
	lastSerial uint32
	requested  Size
	committed  Size

	// target is the settled rectangle from the last resolve pass, used to
	// detect actual geometry changes so a spring is started at most once per
	// change.
	target    Rect
	hasTarget bool

	// offX/offY are the render offset scalars; they spring back to zero after
	// every position change.
	offX anim.Scalar
	offY anim.Scalar

	// resize interpolates the visual size from resizeFrom toward target.
	resize     anim.Scalar
	resizeFrom Size

	// open runs 0→1 once, right after insertion.
	open anim.Scalar

	// Floating position; meaningful only while the tile is in the floating
	// layer.
	floatPos Point
}

// NewTile wraps a window in a fresh tile with an auto height policy.
func NewTile(win Window) *Tile {
	t := &Tile{
		win:       win,
		height:    TileHeight{Kind: HeightAuto},
		committed: win.CurrentSize(),
	}
	t.resize = anim.NewScalar(1)
	t.open = anim.NewScalar(1)
	return t
}

// Window returns the wrapped window.
func (t *Tile) Window() Window {
	return t.win
}

// ID returns the wrapped window's identifier.
func (t *Tile) ID() WindowID {
	return t.win.ID()
}

// Height returns the tile's height policy.
func (t *Tile) Height() TileHeight {
	return t.height
}

// SetHeight replaces the height policy. The next resolve pass animates the
// transition.
func (t *Tile) SetHeight(h TileHeight) {
	t.height = h
}

// Urgent reports the tile's urgency flag.
func (t *Tile) Urgent() bool {
	return t.urgent
}

// SetUrgent sets the urgency flag surfaced through introspection.
func (t *Tile) SetUrgent(v bool) {
	t.urgent = v
}

// beginOpen starts the open animation. Called once, on insertion.
func (t *Tile) beginOpen(now time.Time, p anim.Params) {
	t.open = anim.NewScalar(0)
	t.open.SpringTo(1, now, p)
}

// request issues a size request to the client, tagged with a fresh serial.
// Requests for the size already requested are elided.
func (t *Tile) request(sz Size, serial func() uint32) {
	if sz == t.requested && t.lastSerial != 0 {
		return
	}
	t.requested = sz
	t.lastSerial = serial()
	t.win.RequestSize(sz, t.lastSerial)
}

// commit applies an acknowledged size. Returns false when the serial is
// stale; a slow client can never corrupt a newer state.
func (t *Tile) commit(serial uint32, sz Size) bool {
	if serial < t.lastSerial {
		return false
	}
	t.committed = sz
	return true
}

// setTarget records the settled rectangle computed by a resolve pass and
// starts move/resize springs for whatever actually changed. Calling it again
// with the same rectangle is a no-op, which is what prevents a "resolve new
// sizes" pass and an "apply move animation" pass from double-applying the
// same spring.
func (t *Tile) setTarget(r Rect, now time.Time, a *Animations, animate bool) {
	if !t.hasTarget {
		t.target = r
		t.hasTarget = true
		return
	}
	prev := t.target
	if prev == r {
		return
	}
	t.target = r

	if !animate {
		t.offX.Set(0)
		t.offY.Set(0)
		t.resize = anim.NewScalar(1)
		return
	}

	if dx, dy := prev.X-r.X, prev.Y-r.Y; dx != 0 || dy != 0 {
		t.offX.Set(t.offX.At(now) + dx)
		t.offX.SpringTo(0, now, a.Move)
		t.offY.Set(t.offY.At(now) + dy)
		t.offY.SpringTo(0, now, a.Move)
	}

	if prev.Width != r.Width || prev.Height != r.Height {
		t.resizeFrom = t.visualSize(now, prev)
		t.resize = anim.NewScalar(0)
		t.resize.SpringTo(1, now, a.Resize)
	}
}

// visualSize interpolates the on-screen size between the resize origin and
// the given settled rectangle.
func (t *Tile) visualSize(now time.Time, target Rect) Size {
	p := t.resize.At(now)
	if p >= 1 {
		return Size{W: target.Width, H: target.Height}
	}
	return Size{
		W: t.resizeFrom.W + (target.Width-t.resizeFrom.W)*p,
		H: t.resizeFrom.H + (target.Height-t.resizeFrom.H)*p,
	}
}

// renderOffset returns the animation-driven pixel offset at the given clock
// reading.
func (t *Tile) renderOffset(now time.Time) Point {
	return Point{X: t.offX.At(now), Y: t.offY.At(now)}
}

// resetMotion cancels all per-tile animation state. Used when a tile is
// detached for an interactive move and rendered as a floating overlay.
func (t *Tile) resetMotion() {
	t.offX.Set(0)
	t.offY.Set(0)
	t.resize = anim.NewScalar(1)
	t.hasTarget = false
}

// closingTile is the snapshot of a removed tile kept only to drive its close
// animation. The window itself is already gone from the tree.
type closingTile struct {
	id   WindowID
	rect Rect
	anim anim.Scalar
}
