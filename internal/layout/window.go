package layout

// WindowID identifies a managed window across the engine boundary.
type WindowID uint64

// Window is the capability surface the engine needs from a managed window.
// Concrete window kinds live in the protocol layer; the engine never learns
// which kind it is holding.
type Window interface {
	// ID returns the stable identifier of the window.
	ID() WindowID

	// RequestSize asks the client to resize. The serial tags the request;
	// acknowledgements arrive through Canvas.CommitWindow and stale serials
	// are discarded there.
	RequestSize(size Size, serial uint32)

	// CurrentSize returns the size the client last committed.
	CurrentSize() Size

	// MinSize returns the client's minimum size hints; zero means unbounded.
	MinSize() Size

	// MaxSize returns the client's maximum size hints; zero means unbounded.
	MaxSize() Size

	// IsFullscreen reports whether the window is in fullscreen state.
	IsFullscreen() bool
}

// Direction is a physical navigation direction: absolute left/right/up/down
// on screen, independent of which side of the canvas origin the target lies.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// String returns the command-facing name of the direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Edge identifies which edge of a column or tile an interactive resize grabs.
type Edge int

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// FocusMode modifies horizontal focus navigation. The product rule is
// "clamp, don't wrap, don't error"; wrap and first/last semantics are
// opt-in per command.
type FocusMode int

const (
	FocusClamp FocusMode = iota
	FocusWrap
	FocusFirst
	FocusLast
)

// Target selects the row a new window is routed to.
type Target struct {
	Kind  TargetKind
	Name  string // TargetNamedRow
	Index int    // TargetRowIndex
	// Stack places the window into the active column instead of a new one.
	Stack bool
}

// TargetKind enumerates window placement targets.
type TargetKind int

const (
	TargetActiveRow TargetKind = iota
	TargetNamedRow
	TargetRowIndex
)
