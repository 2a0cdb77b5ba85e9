// Package vector2 implements 2D point/vector arithmetic for the
// planning pipeline: addition, scaling, dot products, norms and
// rotation.
package vector2

import "math"

// Vector2 is an ordered pair of finite real numbers, used both as a
// position and as a free vector (velocity, acceleration, tangent, ...)
// depending on context.
type Vector2 struct {
	X, Y float64
}

// Pt is a quick notation for constructing a vector.
func Pt(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotated90 rotates v by -90 degrees, i.e. multiplies it by the
// matrix [[0,1],[-1,0]].
func (v Vector2) Rotated90() Vector2 {
	return Vector2{X: v.Y, Y: -v.X}
}

// IsZero reports whether v is the zero vector.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Finite reports whether both components of v are finite real numbers.
func (v Vector2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
