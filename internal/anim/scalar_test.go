package anim

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const tol = 1e-6

func TestScalar_RestingValue(t *testing.T) {
	s := NewScalar(42)
	if got := s.At(t0); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if s.Mode() != ModeResting {
		t.Fatalf("expected resting mode, got %v", s.Mode())
	}
}

func TestScalar_SpringConvergesFromResting(t *testing.T) {
	s := NewScalar(0)
	p := Params{Curve: CurveEaseOutCubic, Duration: 250 * time.Millisecond}
	s.SpringTo(100, t0, p)

	if got := s.At(t0); got != 0 {
		t.Fatalf("expected spring to start at 0, got %v", got)
	}

	mid := s.At(t0.Add(125 * time.Millisecond))
	if mid <= 0 || mid >= 100 {
		t.Fatalf("expected midpoint strictly between 0 and 100, got %v", mid)
	}

	// Sampling at start + duration + ε must equal the target.
	end := s.At(t0.Add(p.Duration + time.Millisecond))
	if math.Abs(end-100) > tol {
		t.Fatalf("expected 100 after duration, got %v", end)
	}
	if got := s.Target(); got != 100 {
		t.Fatalf("expected target 100, got %v", got)
	}
}

func TestScalar_SpringConvergesFromMidSpring(t *testing.T) {
	s := NewScalar(0)
	p := Params{Curve: CurveEaseOutExpo, Duration: 200 * time.Millisecond}
	s.SpringTo(100, t0, p)

	// Retarget halfway; the new spring continues from the interrupted value.
	t1 := t0.Add(100 * time.Millisecond)
	interrupted := s.At(t1)
	s.SpringTo(-50, t1, p)
	if got := s.At(t1); math.Abs(got-interrupted) > tol {
		t.Fatalf("retarget jumped from %v to %v", interrupted, got)
	}

	end := s.At(t1.Add(p.Duration + time.Millisecond))
	if math.Abs(end-(-50)) > tol {
		t.Fatalf("expected -50 after second spring, got %v", end)
	}
}

func TestScalar_SpringConvergesFromGesture(t *testing.T) {
	s := NewScalar(10)
	p := Params{Curve: CurveLinear, Duration: 150 * time.Millisecond}

	s.BeginGesture(t0)
	s.UpdateGesture(25, t0.Add(10*time.Millisecond))
	if got := s.At(t0.Add(10 * time.Millisecond)); got != 35 {
		t.Fatalf("expected gesture value 35, got %v", got)
	}

	t1 := t0.Add(20 * time.Millisecond)
	s.EndGesture(0, t1, p)
	if s.Mode() != ModeSpring {
		t.Fatalf("expected spring after release, got %v", s.Mode())
	}
	end := s.At(t1.Add(p.Duration + time.Millisecond))
	if math.Abs(end) > tol {
		t.Fatalf("expected 0 after release spring, got %v", end)
	}
}

func TestScalar_GestureDeltasAccumulateWithoutSpring(t *testing.T) {
	s := NewScalar(0)
	s.BeginGesture(t0)
	for i := 1; i <= 5; i++ {
		s.UpdateGesture(10, t0.Add(time.Duration(i)*time.Millisecond))
	}
	if got := s.At(t0.Add(5 * time.Millisecond)); got != 50 {
		t.Fatalf("expected 50 after five 10px deltas, got %v", got)
	}
	// Gesture values do not decay with time.
	if got := s.At(t0.Add(10 * time.Second)); got != 50 {
		t.Fatalf("expected 50 regardless of elapsed time, got %v", got)
	}
}

func TestScalar_SnapGestureFreezesValue(t *testing.T) {
	s := NewScalar(0)
	s.BeginGesture(t0)
	s.UpdateGesture(-120, t0)
	s.SnapGesture()

	if s.Mode() != ModeResting {
		t.Fatalf("expected resting after snap, got %v", s.Mode())
	}
	if got := s.At(t0.Add(time.Second)); got != -120 {
		t.Fatalf("expected snapped value -120, got %v", got)
	}
	// Snap must not re-enter settle logic: the target is the snapped value.
	if got := s.Target(); got != -120 {
		t.Fatalf("expected target -120, got %v", got)
	}
}

func TestScalar_ZeroDurationSpringIsInstant(t *testing.T) {
	s := NewScalar(5)
	s.SpringTo(9, t0, Params{})
	if s.Mode() != ModeResting {
		t.Fatalf("expected resting for zero-duration spring, got %v", s.Mode())
	}
	if got := s.At(t0); got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
}

func TestScalar_OffsetTargetShiftsWithoutRestart(t *testing.T) {
	s := NewScalar(0)
	p := Params{Curve: CurveLinear, Duration: 100 * time.Millisecond}
	s.SpringTo(100, t0, p)

	s.OffsetTarget(-40)
	if got := s.Target(); got != 60 {
		t.Fatalf("expected shifted target 60, got %v", got)
	}
	// Linear midpoint of the shifted spring: from=-40, to=60 → 10 at t=50ms.
	if got := s.At(t0.Add(50 * time.Millisecond)); math.Abs(got-10) > tol {
		t.Fatalf("expected 10 at midpoint, got %v", got)
	}
}

func TestScalar_IsAnimatingSettlesLazily(t *testing.T) {
	s := NewScalar(0)
	p := Params{Curve: CurveEaseOutCubic, Duration: 100 * time.Millisecond}
	s.SpringTo(1, t0, p)

	if !s.IsAnimating(t0.Add(50 * time.Millisecond)) {
		t.Fatalf("expected animating mid-spring")
	}
	if s.IsAnimating(t0.Add(200 * time.Millisecond)) {
		t.Fatalf("expected settled after duration")
	}
	if s.Mode() != ModeResting {
		t.Fatalf("expected resting after settle, got %v", s.Mode())
	}
}

func TestCurve_EndpointsExact(t *testing.T) {
	for _, c := range []Curve{CurveLinear, CurveEaseOutCubic, CurveEaseOutExpo} {
		if got := c.Apply(0); got != 0 {
			t.Fatalf("%v: expected Apply(0)=0, got %v", c, got)
		}
		if got := c.Apply(1); math.Abs(got-1) > tol {
			t.Fatalf("%v: expected Apply(1)=1, got %v", c, got)
		}
	}
}
