// Package path stitches Splines into a single piecewise curve under a
// unified [0,1] parameter, exposing the same geometric queries as a
// single spline plus arc-length bookkeeping across segments.
package path

import (
	"errors"
	"iter"
	"math"

	"pathplan.dev/internal/numeric"
	"pathplan.dev/spline"
	"pathplan.dev/vector2"
)

// Path is an ordered sequence of Splines. Its parameter t in [0,1] is
// scaled so each segment occupies an equal share of the domain,
// independent of its arc length.
type Path struct {
	segments    []*spline.Spline
	totalLength float64
}

// New stitches the given splines into a Path. At least one spline is
// required.
func New(segments []*spline.Spline) (*Path, error) {
	if len(segments) == 0 {
		return nil, errors.New("path: degenerate input: no segments")
	}
	p := &Path{segments: append([]*spline.Spline(nil), segments...)}
	p.totalLength = p.Length(0, 1)
	return p, nil
}

// FromWaypoints builds a Path by constructing a spline segment between
// each consecutive pair of waypoints. At least two waypoints are
// required.
func FromWaypoints(waypoints []spline.Waypoint) (*Path, error) {
	if len(waypoints) < 2 {
		return nil, errors.New("path: degenerate input: need at least 2 waypoints")
	}
	segs := make([]*spline.Spline, 0, len(waypoints)-1)
	for i := 1; i < len(waypoints); i++ {
		seg, err := spline.FromWaypoints(waypoints[i-1], waypoints[i])
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return New(segs)
}

// Stitch appends a spline to the end of the path and re-derives
// TotalLength. It does not check that the new segment agrees with the
// path's current endpoint; callers (the builder) are responsible for
// that.
func (p *Path) Stitch(s *spline.Spline) {
	p.segments = append(p.segments, s)
	p.totalLength = p.Length(0, 1)
}

// Segments returns the number of spline segments in the path.
func (p *Path) Segments() int {
	return len(p.segments)
}

// TotalLength returns the cached arc length of the whole path.
func (p *Path) TotalLength() float64 {
	return p.totalLength
}

// pick maps a global path parameter to a segment index and the local
// parameter on that segment.
func (p *Path) pick(t float64) (*spline.Spline, float64) {
	n := len(p.segments)
	switch {
	case t <= 0:
		return p.segments[0], t
	case t >= 1:
		return p.segments[n-1], t*float64(n) - float64(n-1)
	default:
		scaled := t * float64(n)
		k := int(math.Floor(scaled))
		if k >= n {
			k = n - 1
		}
		u := scaled - float64(k)
		return p.segments[k], u
	}
}

// Eval returns the path's position at parameter t.
func (p *Path) Eval(t float64) vector2.Vector2 {
	s, u := p.pick(t)
	return s.Eval(u)
}

// Tangent returns the derivative of the path with respect to the
// global parameter t: N times the local segment's tangent, since each
// segment covers 1/N of the global domain.
func (p *Path) Tangent(t float64) vector2.Vector2 {
	s, u := p.pick(t)
	return s.Tangent(u).Scale(float64(len(p.segments)))
}

// UnitTangent delegates to the segment covering t.
func (p *Path) UnitTangent(t float64) (vector2.Vector2, error) {
	s, u := p.pick(t)
	return s.UnitTangent(u)
}

// UnitNormal delegates to the segment covering t.
func (p *Path) UnitNormal(t float64) (vector2.Vector2, error) {
	s, u := p.pick(t)
	return s.UnitNormal(u)
}

// Heading delegates to the segment covering t.
func (p *Path) Heading(t float64) (float64, error) {
	s, u := p.pick(t)
	return s.Heading(u)
}

// CurvatureRadius delegates to the segment covering t.
func (p *Path) CurvatureRadius(t float64) float64 {
	s, u := p.pick(t)
	return s.CurvatureRadius(u)
}

// Length returns the arc length of the path between global parameters
// a and b, by quadrature of ‖Tangent(t)‖ over the global parameter.
func (p *Path) Length(a, b float64) float64 {
	return numeric.Integrate(func(t float64) float64 {
		return p.Tangent(t).Norm()
	}, a, b)
}

// Next finds s > t such that Length(t, s) = ds, using the path's
// cached TotalLength as the bracket guard.
func (p *Path) Next(t, ds float64) float64 {
	if p.Length(0, t)+ds > p.totalLength {
		return 1
	}
	root, err := numeric.Bisect(func(x float64) float64 {
		return p.Length(t, x) - ds
	}, t, 1)
	if err != nil {
		return t
	}
	return root
}

// PlanningTimes yields parameter values ds of arc length apart,
// starting at 0 and always ending with 1.
func (p *Path) PlanningTimes(ds float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		t := 0.0
		for t < 1 {
			if !yield(t) {
				return
			}
			t = p.Next(t, ds)
		}
		yield(1)
	}
}
