// Package spline implements the quintic Bézier curve primitive that
// interpolates between two waypoints: evaluation, derivatives,
// curvature, arc length and arc-length-uniform resampling.
package spline

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"pathplan.dev/internal/numeric"
	"pathplan.dev/vector2"
)

// Spline is a degree-5 polynomial curve in 2D, stored as six monomial
// coefficients C0..C5 of c0 + c1*t + c2*t^2 + ... + c5*t^5, valid for
// t in [0,1]. A Spline is immutable once built.
type Spline struct {
	C0, C1, C2, C3, C4, C5 vector2.Vector2

	// totalLength caches the arc length over [0,1].
	totalLength float64
}

// New builds a Spline from its six monomial coefficients directly.
func New(c0, c1, c2, c3, c4, c5 vector2.Vector2) *Spline {
	s := &Spline{C0: c0, C1: c1, C2: c2, C3: c3, C4: c4, C5: c5}
	s.totalLength = s.Length(0, 1)
	return s
}

// FromWaypoints builds the unique quintic Bézier spline whose value,
// first derivative and second derivative match initial and final at
// t=0 and t=1 respectively.
func FromWaypoints(initial, final Waypoint) (*Spline, error) {
	if !initial.finite() || !final.finite() {
		return nil, errors.New("spline: non-finite waypoint data")
	}
	p0 := initial.Position
	p1 := p0.Add(initial.Velocity.Scale(1.0 / 5))
	p2 := initial.Acceleration.Scale(1.0 / 20).Add(p1.Scale(2)).Sub(p0)
	p5 := final.Position
	p4 := p5.Sub(final.Velocity.Scale(1.0 / 5))
	p3 := final.Acceleration.Scale(1.0 / 20).Add(p4.Scale(2)).Sub(p5)

	c0 := p0
	c1 := p0.Scale(-5).Add(p1.Scale(5))
	c2 := p0.Scale(10).Sub(p1.Scale(20)).Add(p2.Scale(10))
	c3 := p0.Scale(-10).Add(p1.Scale(30)).Sub(p2.Scale(30)).Add(p3.Scale(10))
	c4 := p0.Scale(5).Sub(p1.Scale(20)).Add(p2.Scale(30)).Sub(p3.Scale(20)).Add(p4.Scale(5))
	c5 := p0.Scale(-1).Add(p1.Scale(5)).Sub(p2.Scale(10)).Add(p3.Scale(10)).Sub(p4.Scale(5)).Add(p5)

	return New(c0, c1, c2, c3, c4, c5), nil
}

// coeffs returns the six coefficients as an array, constant term
// first, for the evaluation loops below.
func (s *Spline) coeffs() [6]vector2.Vector2 {
	return [6]vector2.Vector2{s.C0, s.C1, s.C2, s.C3, s.C4, s.C5}
}

// Eval returns the curve's position at parameter t.
func (s *Spline) Eval(t float64) vector2.Vector2 {
	c := s.coeffs()
	var x, y float64
	for i := 5; i >= 0; i-- {
		x = x*t + c[i].X
		y = y*t + c[i].Y
	}
	return vector2.Pt(x, y)
}

// Tangent returns the curve's first derivative at parameter t.
func (s *Spline) Tangent(t float64) vector2.Vector2 {
	c := s.coeffs()
	var x, y float64
	for i := 5; i >= 1; i-- {
		coef := float64(i)
		x += coef * c[i].X * math.Pow(t, float64(i-1))
		y += coef * c[i].Y * math.Pow(t, float64(i-1))
	}
	return vector2.Pt(x, y)
}

// secondDerivative returns the curve's second derivative at t.
func (s *Spline) secondDerivative(t float64) vector2.Vector2 {
	c := s.coeffs()
	var x, y float64
	for i := 5; i >= 2; i-- {
		coef := float64(i * (i - 1))
		x += coef * c[i].X * math.Pow(t, float64(i-2))
		y += coef * c[i].Y * math.Pow(t, float64(i-2))
	}
	return vector2.Pt(x, y)
}

// UnitTangent returns the unit-length tangent at t. It fails only when
// the tangent is the zero vector, which indicates degenerate waypoint
// data (e.g. coincident control points producing a cusp).
func (s *Spline) UnitTangent(t float64) (vector2.Vector2, error) {
	tan := s.Tangent(t)
	n := tan.Norm()
	if n == 0 {
		return vector2.Vector2{}, fmt.Errorf("spline: zero tangent at t=%g", t)
	}
	return tan.Scale(1 / n), nil
}

// UnitNormal returns the unit tangent at t rotated by -90 degrees.
func (s *Spline) UnitNormal(t float64) (vector2.Vector2, error) {
	ut, err := s.UnitTangent(t)
	if err != nil {
		return vector2.Vector2{}, err
	}
	return ut.Rotated90(), nil
}

// Heading returns the unsigned heading in [0,pi]: the angle between
// the unit tangent and the x-axis, with the sign of the y-component
// discarded.
func (s *Spline) Heading(t float64) (float64, error) {
	ut, err := s.UnitTangent(t)
	if err != nil {
		return 0, err
	}
	d := ut.Dot(vector2.Pt(1, 0))
	d = math.Max(-1, math.Min(1, d))
	return math.Acos(d), nil
}

// Curvature returns the signed curvature at t.
func (s *Spline) Curvature(t float64) float64 {
	tan := s.Tangent(t)
	dd := s.secondDerivative(t)
	num := tan.X*dd.Y - tan.Y*dd.X
	denom := math.Pow(tan.X*tan.X+tan.Y*tan.Y, 1.5)
	return num / denom
}

// CurvatureRadius returns the signed radius of curvature at t, or
// +Inf for a (locally) straight line.
func (s *Spline) CurvatureRadius(t float64) float64 {
	k := s.Curvature(t)
	if k == 0 {
		return math.Inf(1)
	}
	return 1 / k
}

// Length returns the arc length of the curve between parameters a and
// b, computed by high-order Gauss-Legendre quadrature of ‖tangent(t)‖.
func (s *Spline) Length(a, b float64) float64 {
	return numeric.Integrate(func(t float64) float64 {
		return s.Tangent(t).Norm()
	}, a, b)
}

// TotalLength returns the cached arc length over [0,1].
func (s *Spline) TotalLength() float64 {
	return s.totalLength
}

// Next finds s > t such that Length(t, s) = ds. If the remaining arc
// length from t to the curve's end is less than ds, it returns 1.
func (s *Spline) Next(t, ds float64) float64 {
	if s.Length(0, t)+ds > s.totalLength {
		return 1
	}
	root, err := numeric.Bisect(func(x float64) float64 {
		return s.Length(t, x) - ds
	}, t, 1)
	if err != nil {
		// The guard above guarantees f(t) = -ds < 0 and f(1) >= 0,
		// so a bracketing failure means ds <= 0; fall back to t.
		return t
	}
	return root
}

// PlanningTimes yields parameter values starting at 0, each ds of arc
// length apart, always ending with 1. It is a pull-based iterator so
// that callers can consume it without materializing the whole
// sequence, which can run into the tens of thousands of entries for a
// small ds.
func (s *Spline) PlanningTimes(ds float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		t := 0.0
		for t < 1 {
			if !yield(t) {
				return
			}
			t = s.Next(t, ds)
		}
		yield(1)
	}
}
