// Package numeric supplies the two numerical primitives the planning
// pipeline needs on top of a 1-dimensional scalar function: definite
// integration (arc length) and bracketed root finding (equal-arc-length
// resampling).
package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Integrate approximates the definite integral of f over [a,b] using
// fixed-order Gauss-Legendre quadrature, doubling the order until two
// successive estimates agree to within tolerance or a maximum order is
// reached. This gives machine-precision-grade accuracy for the smooth,
// polynomial-derived integrands the spline and path packages integrate
// (curve speed ‖tangent(t)‖), without the complexity of a fully
// adaptive (subdividing) quadrature scheme.
func Integrate(f func(float64) float64, a, b float64) float64 {
	if a == b {
		return 0
	}
	const (
		minOrder = 8
		maxOrder = 256
		tol      = 1e-12
	)
	prev := quad.Fixed(f, a, b, minOrder, quad.Legendre{}, 0)
	for order := minOrder * 2; order <= maxOrder; order *= 2 {
		cur := quad.Fixed(f, a, b, order, quad.Legendre{}, 0)
		if math.Abs(cur-prev) <= tol*math.Max(1, math.Abs(cur)) {
			return cur
		}
		prev = cur
	}
	return prev
}

// Bisect finds a root of f in [lo,hi], assuming f(lo) and f(hi) have
// opposite signs (or one of them is zero). It is a plain bracketed
// bisection search rather than a higher-order method such as Brent's,
// since the functions it is applied to (arc length minus a target
// offset) are monotonic and smooth, and bisection's guaranteed
// convergence from a verified bracket matters more here than a handful
// of saved iterations.
func Bisect(f func(float64) float64, lo, hi float64) (float64, error) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if (flo > 0) == (fhi > 0) {
		return 0, fmt.Errorf("numeric: root not bracketed: f(%g)=%g, f(%g)=%g", lo, flo, hi, fhi)
	}
	const (
		maxIter = 200
		tol     = 1e-12
	)
	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		fmid := f(mid)
		if fmid == 0 || (hi-lo)/2 < tol {
			return mid, nil
		}
		if (fmid > 0) == (flo > 0) {
			lo, flo = mid, fmid
		} else {
			hi, fhi = mid, fmid
		}
	}
	return (lo + hi) / 2, nil
}
