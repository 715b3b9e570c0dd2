// Package anim provides the interpolated-scalar primitive that drives every
// smooth transition in the layout engine: view offsets, the vertical camera,
// and per-tile move/resize/open/close offsets.
//
// A Scalar never reads a clock of its own. Every query takes the current time
// explicitly so tests can drive deterministic fake time and the engine stays a
// pure function of (state, clock).
package anim

import (
	"math"
	"time"
)

// Curve selects the interpolation shape of a spring animation.
type Curve int

const (
	CurveLinear Curve = iota
	CurveEaseOutCubic
	CurveEaseOutExpo
)

// String returns the config-facing name of the curve.
func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveEaseOutCubic:
		return "ease-out-cubic"
	case CurveEaseOutExpo:
		return "ease-out-expo"
	default:
		return "unknown"
	}
}

// Apply maps a normalized progress t in [0,1] through the curve.
func (c Curve) Apply(t float64) float64 {
	switch c {
	case CurveEaseOutCubic:
		u := 1 - t
		return 1 - u*u*u
	case CurveEaseOutExpo:
		if t >= 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*t)
	default:
		return t
	}
}

// Params bundles the curve and duration of one animation category.
type Params struct {
	Curve    Curve
	Duration time.Duration
}

// Mode identifies how a Scalar is currently being driven.
type Mode int

const (
	// ModeResting means the value is constant.
	ModeResting Mode = iota
	// ModeSpring means the value is interpolating toward a target.
	ModeSpring
	// ModeGesture means the value is pushed directly by pointer/touch deltas.
	ModeGesture
)

type spring struct {
	from   float64
	to     float64
	start  time.Time
	params Params
}

type gesture struct {
	base  float64 // value when the gesture began
	delta float64 // accumulated pointer delta
}

// Scalar is a single animatable number. The zero value is a resting scalar
// at 0.
type Scalar struct {
	mode    Mode
	value   float64 // resting value; also the settle target mid-spring
	spring  spring
	gesture gesture
}

// NewScalar returns a resting scalar at v.
func NewScalar(v float64) Scalar {
	return Scalar{value: v}
}

// Mode reports the current drive mode.
func (s *Scalar) Mode() Mode {
	return s.mode
}

// At returns the instantaneous value at the given clock reading.
func (s *Scalar) At(now time.Time) float64 {
	switch s.mode {
	case ModeSpring:
		return s.springValue(now)
	case ModeGesture:
		return s.gesture.base + s.gesture.delta
	default:
		return s.value
	}
}

func (s *Scalar) springValue(now time.Time) float64 {
	sp := s.spring
	if sp.params.Duration <= 0 {
		return sp.to
	}
	elapsed := now.Sub(sp.start)
	if elapsed <= 0 {
		return sp.from
	}
	if elapsed >= sp.params.Duration {
		return sp.to
	}
	t := float64(elapsed) / float64(sp.params.Duration)
	return sp.from + (sp.to-sp.from)*sp.params.Curve.Apply(t)
}

// Target returns the value the scalar settles on once every animation has run
// its course. During a gesture the target is the gesture's current position,
// since nothing else is known until release.
func (s *Scalar) Target() float64 {
	if s.mode == ModeGesture {
		return s.gesture.base + s.gesture.delta
	}
	return s.value
}

// Set jumps instantly to v, cancelling any spring or gesture.
func (s *Scalar) Set(v float64) {
	s.mode = ModeResting
	s.value = v
}

// SpringTo starts a spring from the instantaneous value toward target. A
// spring started mid-spring or mid-gesture continues from wherever the value
// currently is, so there is never a visual jump.
func (s *Scalar) SpringTo(target float64, now time.Time, p Params) {
	from := s.At(now)
	s.mode = ModeSpring
	s.value = target
	s.spring = spring{from: from, to: target, start: now, params: p}
	if p.Duration <= 0 || from == target {
		s.Set(target)
	}
}

// OffsetTarget shifts the settle target by d without restarting the spring
// timeline. Used when neighbor geometry moves while an animation is already
// in flight.
func (s *Scalar) OffsetTarget(d float64) {
	s.value += d
	if s.mode == ModeSpring {
		s.spring.from += d
		s.spring.to += d
	}
}

// IsAnimating reports whether a query at a later instant could return a
// different value without further operations.
func (s *Scalar) IsAnimating(now time.Time) bool {
	switch s.mode {
	case ModeSpring:
		if now.Sub(s.spring.start) >= s.spring.params.Duration {
			// Lazily settle so repeated render queries cost nothing.
			s.Set(s.spring.to)
			return false
		}
		return true
	case ModeGesture:
		return true
	default:
		return false
	}
}

// BeginGesture switches to gesture mode, holding the instantaneous value as
// the gesture base. Any running spring is abandoned at its current position.
func (s *Scalar) BeginGesture(now time.Time) {
	base := s.At(now)
	s.mode = ModeGesture
	s.gesture = gesture{base: base}
}

// UpdateGesture accumulates a pointer delta. No spring is applied; the value
// tracks the pointer exactly.
func (s *Scalar) UpdateGesture(delta float64, now time.Time) {
	if s.mode != ModeGesture {
		return
	}
	s.gesture.delta += delta
}

// EndGesture releases the gesture into a spring that settles on target.
func (s *Scalar) EndGesture(target float64, now time.Time, p Params) {
	if s.mode != ModeGesture {
		return
	}
	pos := s.gesture.base + s.gesture.delta
	s.mode = ModeResting
	s.value = pos
	s.SpringTo(target, now, p)
}

// SnapGesture ends the gesture by freezing the value exactly where it is.
// The drag-and-drop variant uses this: the value is being held deliberately
// away from any settle position, and re-entering the normal settle logic
// would kidnap the freshly-placed window.
func (s *Scalar) SnapGesture() {
	if s.mode != ModeGesture {
		return
	}
	s.Set(s.gesture.base + s.gesture.delta)
}

// GesturePosition returns the gesture's current position, or the
// instantaneous value if no gesture is active.
func (s *Scalar) GesturePosition(now time.Time) float64 {
	return s.At(now)
}
