package layout

import (
	"time"

	"github.com/veighnsche/scrolltile/internal/anim"
)

// CenterMode gates the Centered view-offset targeting policy.
type CenterMode int

const (
	// CenterNever always uses Fit targeting.
	CenterNever CenterMode = iota
	// CenterAlways centers the active column whenever it fits.
	CenterAlways
	// CenterOnOverflow centers only when the columns overflow the viewport.
	CenterOnOverflow
)

// Animations holds the per-category animation parameters.
type Animations struct {
	Move       anim.Params
	Resize     anim.Params
	Open       anim.Params
	Close      anim.Params
	ViewOffset anim.Params
	Camera     anim.Params
}

// Options is the resolved configuration value that crosses the engine
// boundary. The config package produces it; reloading swaps it via
// Canvas.SetOptions without destroying any window.
type Options struct {
	// DefaultColumnWidth is applied to columns created without an explicit
	// policy.
	DefaultColumnWidth ColumnWidth

	// PresetWidths are viewport-width fractions cycled by the preset width
	// command. Must be non-empty.
	PresetWidths []float64

	// PresetHeights are viewport-height fractions cycled by the preset height
	// command. Must be non-empty.
	PresetHeights []float64

	// GapX and GapY are the fixed gaps between columns and between stacked
	// tiles, and double as the margins around the working area.
	GapX float64
	GapY float64

	// CenterFocusedColumn selects the view-offset targeting policy.
	CenterFocusedColumn CenterMode

	// TabStripWidth is the strip reserved beside a tabbed column for its tab
	// indicator. Added to the column's nominal width, not carved out of it.
	TabStripWidth float64

	// MinColumnWidth and MinTileHeight bound interactive resizing.
	MinColumnWidth float64
	MinTileHeight  float64

	// GestureSensitivity scales raw scroll-gesture deltas.
	GestureSensitivity float64

	// MoveThreshold is the pointer distance before an interactive move
	// detaches the window.
	MoveThreshold float64

	Animations Animations
}

// DefaultOptions returns the engine's built-in option set. The config package
// starts from this and overrides whatever the user configured.
func DefaultOptions() Options {
	spring := func(d time.Duration) anim.Params {
		return anim.Params{Curve: anim.CurveEaseOutCubic, Duration: d}
	}
	return Options{
		DefaultColumnWidth:  ColumnWidth{Kind: WidthProportion, Proportion: 0.5},
		PresetWidths:        []float64{1.0 / 3.0, 0.5, 2.0 / 3.0},
		PresetHeights:       []float64{1.0 / 3.0, 0.5, 2.0 / 3.0},
		GapX:                16,
		GapY:                16,
		CenterFocusedColumn: CenterNever,
		TabStripWidth:       24,
		MinColumnWidth:      64,
		MinTileHeight:       48,
		GestureSensitivity:  1.0,
		MoveThreshold:       8,
		Animations: Animations{
			Move:       spring(250 * time.Millisecond),
			Resize:     spring(200 * time.Millisecond),
			Open:       anim.Params{Curve: anim.CurveEaseOutExpo, Duration: 150 * time.Millisecond},
			Close:      anim.Params{Curve: anim.CurveEaseOutExpo, Duration: 150 * time.Millisecond},
			ViewOffset: spring(250 * time.Millisecond),
			Camera:     spring(300 * time.Millisecond),
		},
	}
}

// presetWidth resolves preset index i against the configured list, wrapping
// out-of-range indices instead of failing.
func (o *Options) presetWidth(i int) float64 {
	if len(o.PresetWidths) == 0 {
		return 0.5
	}
	i %= len(o.PresetWidths)
	if i < 0 {
		i += len(o.PresetWidths)
	}
	return o.PresetWidths[i]
}

func (o *Options) presetHeight(i int) float64 {
	if len(o.PresetHeights) == 0 {
		return 0.5
	}
	i %= len(o.PresetHeights)
	if i < 0 {
		i += len(o.PresetHeights)
	}
	return o.PresetHeights[i]
}
