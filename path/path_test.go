package path

import (
	"math"
	"testing"

	"pathplan.dev/spline"
	"pathplan.dev/vector2"
)

func threeWaypoints() []spline.Waypoint {
	return []spline.Waypoint{
		spline.NewWaypoint(vector2.Pt(0, 0), vector2.Pt(1, 0), vector2.Pt(0, 0)),
		spline.NewWaypoint(vector2.Pt(5, 0), vector2.Pt(1, 0), vector2.Pt(0, 0)),
		spline.NewWaypoint(vector2.Pt(10, 0), vector2.Pt(1, 0), vector2.Pt(0, 0)),
	}
}

func TestFromWaypointsTooFew(t *testing.T) {
	if _, err := FromWaypoints(threeWaypoints()[:1]); err == nil {
		t.Fatal("expected error for a single waypoint")
	}
}

func TestNewEmptySegments(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for zero segments")
	}
}

func TestFromWaypointsSegmentCount(t *testing.T) {
	p, err := FromWaypoints(threeWaypoints())
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	if got, want := p.Segments(), 2; got != want {
		t.Errorf("Segments() = %d, want %d", got, want)
	}
}

func TestEvalEndpoints(t *testing.T) {
	wp := threeWaypoints()
	p, err := FromWaypoints(wp)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	if got, want := p.Eval(0), wp[0].Position; got != want {
		t.Errorf("Eval(0) = %v, want %v", got, want)
	}
	if got, want := p.Eval(1), wp[len(wp)-1].Position; got != want {
		t.Errorf("Eval(1) = %v, want %v", got, want)
	}
}

func TestPickBoundary(t *testing.T) {
	p, err := FromWaypoints(threeWaypoints())
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	// At the segment boundary (t=0.5 for 2 segments), position should
	// match the middle waypoint regardless of which segment picks it up.
	mid := p.Eval(0.5)
	want := threeWaypoints()[1].Position
	if math.Abs(mid.X-want.X) > 1e-6 || math.Abs(mid.Y-want.Y) > 1e-6 {
		t.Errorf("Eval(0.5) = %v, want %v", mid, want)
	}
}

func TestStitchUpdatesLength(t *testing.T) {
	p, err := FromWaypoints(threeWaypoints()[:2])
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	before := p.TotalLength()
	seg, err := spline.FromWaypoints(threeWaypoints()[1], threeWaypoints()[2])
	if err != nil {
		t.Fatalf("spline.FromWaypoints: %v", err)
	}
	p.Stitch(seg)
	if p.TotalLength() <= before {
		t.Errorf("TotalLength after Stitch = %v, want > %v", p.TotalLength(), before)
	}
	if got, want := p.Segments(), 2; got != want {
		t.Errorf("Segments() after Stitch = %d, want %d", got, want)
	}
}

func TestPlanningTimesEndsAtOne(t *testing.T) {
	p, err := FromWaypoints(threeWaypoints())
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	var times []float64
	for tt := range p.PlanningTimes(0.5) {
		times = append(times, tt)
	}
	if got := times[len(times)-1]; got != 1 {
		t.Errorf("last PlanningTimes sample = %v, want 1", got)
	}
}

func TestTangentScalesBySegmentCount(t *testing.T) {
	wp := threeWaypoints()
	p, err := FromWaypoints(wp)
	if err != nil {
		t.Fatalf("FromWaypoints: %v", err)
	}
	single, err := spline.FromWaypoints(wp[0], wp[1])
	if err != nil {
		t.Fatalf("spline.FromWaypoints: %v", err)
	}
	got := p.Tangent(0)
	want := single.Tangent(0).Scale(float64(p.Segments()))
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
		t.Errorf("Tangent(0) = %v, want %v", got, want)
	}
}
