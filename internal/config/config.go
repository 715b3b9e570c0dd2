package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/veighnsche/scrolltile/internal/anim"
	"github.com/veighnsche/scrolltile/internal/layout"
)

// Margins represents the padding between the output edge and the working area.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// CenterMode selects the view-offset targeting policy.
type CenterMode string

const (
	CenterNever      CenterMode = "never"
	CenterAlways     CenterMode = "always"
	CenterOnOverflow CenterMode = "on-overflow"
)

// WidthSpec is a column width that is either a fraction of the working area
// (0 < v <= 1) or an absolute pixel count ("640px").
type WidthSpec struct {
	Proportion float64
	Pixels     int
}

// IsPixels reports whether the spec carries an absolute width.
func (w WidthSpec) IsPixels() bool {
	return w.Pixels > 0
}

// AnimationSpec configures one animation category.
type AnimationSpec struct {
	DurationMS int    `yaml:"duration_ms"`
	Curve      string `yaml:"curve"`
}

// Animations configures the per-category animation parameters. Durations of
// zero give hard cuts for that category.
type Animations struct {
	Enabled    bool          `yaml:"enabled"`
	Move       AnimationSpec `yaml:"move"`
	Resize     AnimationSpec `yaml:"resize"`
	Open       AnimationSpec `yaml:"open"`
	Close      AnimationSpec `yaml:"close"`
	ViewOffset AnimationSpec `yaml:"view_offset"`
	Camera     AnimationSpec `yaml:"camera"`
}

// NamedRow pre-creates a named row at startup.
type NamedRow struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`
}

// Config is the effective scrolltile configuration after defaults, includes,
// and overlays are applied.
type Config struct {
	GapX          int     `yaml:"gap_x"`
	GapY          int     `yaml:"gap_y"`
	ScreenPadding Margins `yaml:"screen_padding"`

	DefaultColumnWidth WidthSpec  `yaml:"default_column_width"`
	PresetColumnWidths []float64  `yaml:"preset_column_widths"`
	PresetTileHeights  []float64  `yaml:"preset_tile_heights"`
	CenterFocused      CenterMode `yaml:"center_focused_column"`
	TabStripWidth      int        `yaml:"tab_strip_width"`

	MinColumnWidth int `yaml:"min_column_width"`
	MinTileHeight  int `yaml:"min_tile_height"`

	GestureSensitivity float64 `yaml:"gesture_sensitivity"`
	MoveThreshold      int     `yaml:"move_threshold"`
	FocusWrap          bool    `yaml:"focus_wrap"`

	Animations Animations `yaml:"animations"`

	Rows []NamedRow `yaml:"rows"`

	LogLevel string `yaml:"log_level"`
	Socket   string `yaml:"socket,omitempty"`
}

// DefaultConfig returns the built-in configuration. Every loaded file is an
// overlay on top of this.
func DefaultConfig() *Config {
	return &Config{
		GapX:               16,
		GapY:               16,
		DefaultColumnWidth: WidthSpec{Proportion: 0.5},
		PresetColumnWidths: []float64{1.0 / 3.0, 0.5, 2.0 / 3.0},
		PresetTileHeights:  []float64{1.0 / 3.0, 0.5, 2.0 / 3.0},
		CenterFocused:      CenterNever,
		TabStripWidth:      24,
		MinColumnWidth:     64,
		MinTileHeight:      48,
		GestureSensitivity: 1.0,
		MoveThreshold:      8,
		Animations: Animations{
			Enabled:    true,
			Move:       AnimationSpec{DurationMS: 250, Curve: "ease-out-cubic"},
			Resize:     AnimationSpec{DurationMS: 200, Curve: "ease-out-cubic"},
			Open:       AnimationSpec{DurationMS: 150, Curve: "ease-out-expo"},
			Close:      AnimationSpec{DurationMS: 150, Curve: "ease-out-expo"},
			ViewOffset: AnimationSpec{DurationMS: 250, Curve: "ease-out-cubic"},
			Camera:     AnimationSpec{DurationMS: 300, Curve: "ease-out-cubic"},
		},
		LogLevel: "info",
	}
}

// Validate checks the effective config and returns a *ValidationError naming
// the offending YAML path.
func (c *Config) Validate() error {
	if c.GapX < 0 {
		return &ValidationError{Path: "gap_x", Err: fmt.Errorf("gap_x must be >= 0")}
	}
	if c.GapY < 0 {
		return &ValidationError{Path: "gap_y", Err: fmt.Errorf("gap_y must be >= 0")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	if err := c.DefaultColumnWidth.validate(); err != nil {
		return &ValidationError{Path: "default_column_width", Err: err}
	}
	if len(c.PresetColumnWidths) == 0 {
		return &ValidationError{Path: "preset_column_widths", Err: fmt.Errorf("preset_column_widths must not be empty")}
	}
	for i, p := range c.PresetColumnWidths {
		if p <= 0 || p > 1 {
			return &ValidationError{Path: "preset_column_widths", Err: fmt.Errorf("entry %d: fraction must be in (0, 1], got %v", i, p)}
		}
	}
	if len(c.PresetTileHeights) == 0 {
		return &ValidationError{Path: "preset_tile_heights", Err: fmt.Errorf("preset_tile_heights must not be empty")}
	}
	for i, p := range c.PresetTileHeights {
		if p <= 0 || p > 1 {
			return &ValidationError{Path: "preset_tile_heights", Err: fmt.Errorf("entry %d: fraction must be in (0, 1], got %v", i, p)}
		}
	}
	switch c.CenterFocused {
	case CenterNever, CenterAlways, CenterOnOverflow:
	default:
		return &ValidationError{Path: "center_focused_column", Err: fmt.Errorf("center_focused_column must be one of: never, always, on-overflow")}
	}
	if c.TabStripWidth < 0 {
		return &ValidationError{Path: "tab_strip_width", Err: fmt.Errorf("tab_strip_width must be >= 0")}
	}
	if c.MinColumnWidth < 1 {
		return &ValidationError{Path: "min_column_width", Err: fmt.Errorf("min_column_width must be >= 1")}
	}
	if c.MinTileHeight < 1 {
		return &ValidationError{Path: "min_tile_height", Err: fmt.Errorf("min_tile_height must be >= 1")}
	}
	if c.GestureSensitivity <= 0 {
		return &ValidationError{Path: "gesture_sensitivity", Err: fmt.Errorf("gesture_sensitivity must be > 0")}
	}
	if c.MoveThreshold < 0 {
		return &ValidationError{Path: "move_threshold", Err: fmt.Errorf("move_threshold must be >= 0")}
	}
	if err := c.Animations.validate(); err != nil {
		return err
	}

	seen := map[string]int{}
	for i, row := range c.Rows {
		name := strings.ToLower(strings.TrimSpace(row.Name))
		if name == "" {
			return &ValidationError{Path: "rows", Err: fmt.Errorf("entry %d: name must not be empty", i)}
		}
		if prev, ok := seen[name]; ok {
			return &ValidationError{Path: "rows", Err: fmt.Errorf("entry %d: name %q already used by entry %d", i, row.Name, prev)}
		}
		seen[name] = i
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

func (w WidthSpec) validate() error {
	if w.IsPixels() {
		return nil
	}
	if w.Proportion <= 0 || w.Proportion > 1 {
		return fmt.Errorf("fraction must be in (0, 1], got %v", w.Proportion)
	}
	return nil
}

func (a Animations) validate() error {
	specs := []struct {
		path string
		spec AnimationSpec
	}{
		{"animations.move", a.Move},
		{"animations.resize", a.Resize},
		{"animations.open", a.Open},
		{"animations.close", a.Close},
		{"animations.view_offset", a.ViewOffset},
		{"animations.camera", a.Camera},
	}
	for _, s := range specs {
		if s.spec.DurationMS < 0 {
			return &ValidationError{Path: s.path, Err: fmt.Errorf("duration_ms must be >= 0")}
		}
		if _, err := parseCurve(s.spec.Curve); err != nil {
			return &ValidationError{Path: s.path, Err: err}
		}
	}
	return nil
}

func parseCurve(s string) (anim.Curve, error) {
	switch s {
	case "", "ease-out-cubic":
		return anim.CurveEaseOutCubic, nil
	case "ease-out-expo":
		return anim.CurveEaseOutExpo, nil
	case "linear":
		return anim.CurveLinear, nil
	default:
		return 0, fmt.Errorf("curve must be one of: linear, ease-out-cubic, ease-out-expo")
	}
}

// Resolve converts the validated config into the engine's option value.
func (c *Config) Resolve() layout.Options {
	o := layout.DefaultOptions()
	o.GapX = float64(c.GapX)
	o.GapY = float64(c.GapY)
	if c.DefaultColumnWidth.IsPixels() {
		o.DefaultColumnWidth = layout.ColumnWidth{Kind: layout.WidthFixed, Fixed: float64(c.DefaultColumnWidth.Pixels)}
	} else {
		o.DefaultColumnWidth = layout.ColumnWidth{Kind: layout.WidthProportion, Proportion: c.DefaultColumnWidth.Proportion}
	}
	o.PresetWidths = append([]float64(nil), c.PresetColumnWidths...)
	o.PresetHeights = append([]float64(nil), c.PresetTileHeights...)
	switch c.CenterFocused {
	case CenterAlways:
		o.CenterFocusedColumn = layout.CenterAlways
	case CenterOnOverflow:
		o.CenterFocusedColumn = layout.CenterOnOverflow
	default:
		o.CenterFocusedColumn = layout.CenterNever
	}
	o.TabStripWidth = float64(c.TabStripWidth)
	o.MinColumnWidth = float64(c.MinColumnWidth)
	o.MinTileHeight = float64(c.MinTileHeight)
	o.GestureSensitivity = c.GestureSensitivity
	o.MoveThreshold = float64(c.MoveThreshold)
	o.Animations = c.Animations.resolve()
	return o
}

// FocusMode returns the engine focus mode plain directional navigation uses.
func (c *Config) FocusMode() layout.FocusMode {
	if c.FocusWrap {
		return layout.FocusWrap
	}
	return layout.FocusClamp
}

func (a Animations) resolve() layout.Animations {
	if !a.Enabled {
		return layout.Animations{}
	}
	return layout.Animations{
		Move:       a.Move.resolve(),
		Resize:     a.Resize.resolve(),
		Open:       a.Open.resolve(),
		Close:      a.Close.resolve(),
		ViewOffset: a.ViewOffset.resolve(),
		Camera:     a.Camera.resolve(),
	}
}

func (s AnimationSpec) resolve() anim.Params {
	curve, err := parseCurve(s.Curve)
	if err != nil {
		curve = anim.CurveEaseOutCubic
	}
	return anim.Params{Curve: curve, Duration: time.Duration(s.DurationMS) * time.Millisecond}
}
