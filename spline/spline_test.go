package spline

import (
	"math"
	"testing"

	"pathplan.dev/vector2"
)

func straightWaypoints() (Waypoint, Waypoint) {
	initial := NewWaypoint(vector2.Pt(0, 0), vector2.Pt(1, 0), vector2.Pt(0, 0))
	final := NewWaypoint(vector2.Pt(5, 0), vector2.Pt(1, 0), vector2.Pt(0, 0))
	return initial, final
}

func TestFromWaypointsEndpoints(t *testing.T) {
	initial, final := straightWaypoints()
	s, err := FromWaypoints(initial, final)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	if got, want := s.Eval(0), initial.Position; got != want {
		t.Errorf("Eval(0) = %v, want %v", got, want)
	}
	if got, want := s.Eval(1), final.Position; got != want {
		t.Errorf("Eval(1) = %v, want %v", got, want)
	}
	if got, want := s.Tangent(0), initial.Velocity; got != want {
		t.Errorf("Tangent(0) = %v, want %v", got, want)
	}
	if got, want := s.Tangent(1), final.Velocity; got != want {
		t.Errorf("Tangent(1) = %v, want %v", got, want)
	}
}

func TestFromWaypointsNonFinite(t *testing.T) {
	bad := NewWaypoint(vector2.Pt(math.NaN(), 0), vector2.Pt(0, 0), vector2.Pt(0, 0))
	good := NewWaypoint(vector2.Pt(1, 1), vector2.Pt(0, 0), vector2.Pt(0, 0))
	if _, err := FromWaypoints(bad, good); err == nil {
		t.Fatal("expected error for non-finite waypoint")
	}
}

func TestStraightLineCurvatureZero(t *testing.T) {
	initial, final := straightWaypoints()
	s, err := FromWaypoints(initial, final)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if k := s.Curvature(tt); math.Abs(k) > 1e-9 {
			t.Errorf("Curvature(%v) = %v, want ~0", tt, k)
		}
		if r := s.CurvatureRadius(tt); !math.IsInf(r, 1) {
			t.Errorf("CurvatureRadius(%v) = %v, want +Inf", tt, r)
		}
	}
}

func TestStraightLineLength(t *testing.T) {
	initial, final := straightWaypoints()
	s, err := FromWaypoints(initial, final)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	if got, want := s.TotalLength(), 5.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("TotalLength = %v, want %v", got, want)
	}
}

func TestUnitTangentZeroVelocityError(t *testing.T) {
	initial := NewWaypoint(vector2.Pt(0, 0), vector2.Pt(0, 0), vector2.Pt(0, 0))
	final := NewWaypoint(vector2.Pt(0, 0), vector2.Pt(0, 0), vector2.Pt(0, 0))
	s, err := FromWaypoints(initial, final)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	if _, err := s.UnitTangent(0.5); err == nil {
		t.Fatal("expected zero-tangent error on a degenerate, stationary spline")
	}
}

func TestPlanningTimesEndsAtOne(t *testing.T) {
	initial, final := straightWaypoints()
	s, err := FromWaypoints(initial, final)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	var times []float64
	for tt := range s.PlanningTimes(0.3) {
		times = append(times, tt)
	}
	if len(times) == 0 {
		t.Fatal("PlanningTimes produced no samples")
	}
	if got := times[0]; got != 0 {
		t.Errorf("first sample = %v, want 0", got)
	}
	if got := times[len(times)-1]; got != 1 {
		t.Errorf("last sample = %v, want 1", got)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Errorf("PlanningTimes not strictly increasing at index %d: %v <= %v", i, times[i], times[i-1])
		}
	}
}

func TestPlanningTimesStopsEarly(t *testing.T) {
	initial, final := straightWaypoints()
	s, err := FromWaypoints(initial, final)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	count := 0
	for range s.PlanningTimes(0.1) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected early break to stop iteration at 2, got %d", count)
	}
}

func FuzzLengthIsMonotonic(f *testing.F) {
	f.Add(1.0, 0.0, 5.0, 0.0)
	f.Fuzz(func(t *testing.T, v0x, v0y, v1x, v1y float64) {
		initial := NewWaypoint(vector2.Pt(0, 0), vector2.Pt(v0x, v0y), vector2.Pt(0, 0))
		final := NewWaypoint(vector2.Pt(10, 0), vector2.Pt(v1x, v1y), vector2.Pt(0, 0))
		s, err := FromWaypoints(initial, final)
		if err != nil {
			t.Skip()
		}
		a, b := s.Length(0, 0.5), s.Length(0, 1)
		if a > b+1e-6 {
			t.Errorf("Length(0,0.5)=%v > Length(0,1)=%v", a, b)
		}
	})
}
