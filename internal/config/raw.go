package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// UnmarshalYAML accepts either a bare fraction:
//
//	default_column_width: 0.5
//
// or an absolute pixel width:
//
//	default_column_width: "640px"
func (w *WidthSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("width must be a fraction or a \"<n>px\" string")
	}
	switch value.Tag {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return fmt.Errorf("invalid width %q", value.Value)
		}
		*w = WidthSpec{Proportion: v}
		return nil
	case "!!str":
		s := strings.TrimSpace(value.Value)
		if !strings.HasSuffix(s, "px") {
			return fmt.Errorf("width string must end in \"px\", got %q", s)
		}
		px, err := strconv.Atoi(strings.TrimSuffix(s, "px"))
		if err != nil || px <= 0 {
			return fmt.Errorf("invalid pixel width %q", s)
		}
		*w = WidthSpec{Pixels: px}
		return nil
	default:
		return fmt.Errorf("width must be a fraction or a \"<n>px\" string")
	}
}

func (w WidthSpec) MarshalYAML() (any, error) {
	if w.IsPixels() {
		return fmt.Sprintf("%dpx", w.Pixels), nil
	}
	return w.Proportion, nil
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawAnimationSpec struct {
	DurationMS *int    `yaml:"duration_ms"`
	Curve      *string `yaml:"curve"`
}

type RawAnimations struct {
	Enabled    *bool             `yaml:"enabled"`
	Move       *RawAnimationSpec `yaml:"move"`
	Resize     *RawAnimationSpec `yaml:"resize"`
	Open       *RawAnimationSpec `yaml:"open"`
	Close      *RawAnimationSpec `yaml:"close"`
	ViewOffset *RawAnimationSpec `yaml:"view_offset"`
	Camera     *RawAnimationSpec `yaml:"camera"`
}

type RawConfig struct {
	Include IncludeList `yaml:"include"`

	GapX          *int        `yaml:"gap_x"`
	GapY          *int        `yaml:"gap_y"`
	ScreenPadding *RawMargins `yaml:"screen_padding"`

	DefaultColumnWidth *WidthSpec  `yaml:"default_column_width"`
	PresetColumnWidths []float64   `yaml:"preset_column_widths"`
	PresetTileHeights  []float64   `yaml:"preset_tile_heights"`
	CenterFocused      *CenterMode `yaml:"center_focused_column"`
	TabStripWidth      *int        `yaml:"tab_strip_width"`

	MinColumnWidth *int `yaml:"min_column_width"`
	MinTileHeight  *int `yaml:"min_tile_height"`

	GestureSensitivity *float64 `yaml:"gesture_sensitivity"`
	MoveThreshold      *int     `yaml:"move_threshold"`
	FocusWrap          *bool    `yaml:"focus_wrap"`

	Animations *RawAnimations `yaml:"animations"`

	Rows []NamedRow `yaml:"rows"`

	LogLevel *string `yaml:"log_level"`
	Socket   *string `yaml:"socket"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.GapX != nil {
		out.GapX = overlay.GapX
	}
	if overlay.GapY != nil {
		out.GapY = overlay.GapY
	}
	if overlay.ScreenPadding != nil {
		if out.ScreenPadding == nil {
			out.ScreenPadding = &RawMargins{}
		}
		merged := mergeRawMargins(*out.ScreenPadding, *overlay.ScreenPadding)
		out.ScreenPadding = &merged
	}
	if overlay.DefaultColumnWidth != nil {
		out.DefaultColumnWidth = overlay.DefaultColumnWidth
	}
	if overlay.PresetColumnWidths != nil {
		out.PresetColumnWidths = overlay.PresetColumnWidths
	}
	if overlay.PresetTileHeights != nil {
		out.PresetTileHeights = overlay.PresetTileHeights
	}
	if overlay.CenterFocused != nil {
		out.CenterFocused = overlay.CenterFocused
	}
	if overlay.TabStripWidth != nil {
		out.TabStripWidth = overlay.TabStripWidth
	}
	if overlay.MinColumnWidth != nil {
		out.MinColumnWidth = overlay.MinColumnWidth
	}
	if overlay.MinTileHeight != nil {
		out.MinTileHeight = overlay.MinTileHeight
	}
	if overlay.GestureSensitivity != nil {
		out.GestureSensitivity = overlay.GestureSensitivity
	}
	if overlay.MoveThreshold != nil {
		out.MoveThreshold = overlay.MoveThreshold
	}
	if overlay.FocusWrap != nil {
		out.FocusWrap = overlay.FocusWrap
	}
	if overlay.Animations != nil {
		if out.Animations == nil {
			out.Animations = &RawAnimations{}
		}
		merged := mergeRawAnimations(*out.Animations, *overlay.Animations)
		out.Animations = &merged
	}
	if overlay.Rows != nil {
		out.Rows = overlay.Rows
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Socket != nil {
		out.Socket = overlay.Socket
	}

	return out
}

func mergeRawMargins(base RawMargins, overlay RawMargins) RawMargins {
	out := base
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return out
}

func mergeRawAnimationSpec(base *RawAnimationSpec, overlay *RawAnimationSpec) *RawAnimationSpec {
	if overlay == nil {
		return base
	}
	if base == nil {
		base = &RawAnimationSpec{}
	}
	out := *base
	if overlay.DurationMS != nil {
		out.DurationMS = overlay.DurationMS
	}
	if overlay.Curve != nil {
		out.Curve = overlay.Curve
	}
	return &out
}

func mergeRawAnimations(base RawAnimations, overlay RawAnimations) RawAnimations {
	out := base
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	out.Move = mergeRawAnimationSpec(out.Move, overlay.Move)
	out.Resize = mergeRawAnimationSpec(out.Resize, overlay.Resize)
	out.Open = mergeRawAnimationSpec(out.Open, overlay.Open)
	out.Close = mergeRawAnimationSpec(out.Close, overlay.Close)
	out.ViewOffset = mergeRawAnimationSpec(out.ViewOffset, overlay.ViewOffset)
	out.Camera = mergeRawAnimationSpec(out.Camera, overlay.Camera)
	return out
}

// BuildEffectiveConfig applies a merged raw overlay onto the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.GapX != nil {
		cfg.GapX = *raw.GapX
	}
	if raw.GapY != nil {
		cfg.GapY = *raw.GapY
	}
	if raw.ScreenPadding != nil {
		if raw.ScreenPadding.Top != nil {
			cfg.ScreenPadding.Top = *raw.ScreenPadding.Top
		}
		if raw.ScreenPadding.Bottom != nil {
			cfg.ScreenPadding.Bottom = *raw.ScreenPadding.Bottom
		}
		if raw.ScreenPadding.Left != nil {
			cfg.ScreenPadding.Left = *raw.ScreenPadding.Left
		}
		if raw.ScreenPadding.Right != nil {
			cfg.ScreenPadding.Right = *raw.ScreenPadding.Right
		}
	}
	if raw.DefaultColumnWidth != nil {
		cfg.DefaultColumnWidth = *raw.DefaultColumnWidth
	}
	if raw.PresetColumnWidths != nil {
		cfg.PresetColumnWidths = raw.PresetColumnWidths
	}
	if raw.PresetTileHeights != nil {
		cfg.PresetTileHeights = raw.PresetTileHeights
	}
	if raw.CenterFocused != nil {
		cfg.CenterFocused = *raw.CenterFocused
	}
	if raw.TabStripWidth != nil {
		cfg.TabStripWidth = *raw.TabStripWidth
	}
	if raw.MinColumnWidth != nil {
		cfg.MinColumnWidth = *raw.MinColumnWidth
	}
	if raw.MinTileHeight != nil {
		cfg.MinTileHeight = *raw.MinTileHeight
	}
	if raw.GestureSensitivity != nil {
		cfg.GestureSensitivity = *raw.GestureSensitivity
	}
	if raw.MoveThreshold != nil {
		cfg.MoveThreshold = *raw.MoveThreshold
	}
	if raw.FocusWrap != nil {
		cfg.FocusWrap = *raw.FocusWrap
	}
	if raw.Animations != nil {
		applyRawAnimations(&cfg.Animations, raw.Animations)
	}
	if raw.Rows != nil {
		cfg.Rows = raw.Rows
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Socket != nil {
		cfg.Socket = *raw.Socket
	}

	return cfg
}

func applyRawAnimations(dst *Animations, raw *RawAnimations) {
	if raw.Enabled != nil {
		dst.Enabled = *raw.Enabled
	}
	applyRawAnimationSpec(&dst.Move, raw.Move)
	applyRawAnimationSpec(&dst.Resize, raw.Resize)
	applyRawAnimationSpec(&dst.Open, raw.Open)
	applyRawAnimationSpec(&dst.Close, raw.Close)
	applyRawAnimationSpec(&dst.ViewOffset, raw.ViewOffset)
	applyRawAnimationSpec(&dst.Camera, raw.Camera)
}

func applyRawAnimationSpec(dst *AnimationSpec, raw *RawAnimationSpec) {
	if raw == nil {
		return
	}
	if raw.DurationMS != nil {
		dst.DurationMS = *raw.DurationMS
	}
	if raw.Curve != nil {
		dst.Curve = *raw.Curve
	}
}
