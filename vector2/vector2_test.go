package vector2

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	a := Pt(1, 2)
	b := Pt(3, -1)
	if got, want := a.Add(b), Pt(4, 1); got != want {
		t.Errorf("Add: got %v, want %v", got, want)
	}
	if got, want := a.Sub(b), Pt(-2, 3); got != want {
		t.Errorf("Sub: got %v, want %v", got, want)
	}
	if got, want := a.Scale(2), Pt(2, 4); got != want {
		t.Errorf("Scale: got %v, want %v", got, want)
	}
	if got, want := a.Dot(b), 1.0; got != want {
		t.Errorf("Dot: got %v, want %v", got, want)
	}
}

func TestNorm(t *testing.T) {
	v := Pt(3, 4)
	if got, want := v.Norm(), 5.0; got != want {
		t.Errorf("Norm: got %v, want %v", got, want)
	}
}

func TestRotated90(t *testing.T) {
	v := Pt(1, 0)
	r := v.Rotated90()
	if got, want := v.Dot(r), 0.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Rotated90 not perpendicular: dot=%v", got)
	}
	if got, want := r.Norm(), v.Norm(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Rotated90 changed length: got %v, want %v", got, want)
	}
}

func TestFinite(t *testing.T) {
	cases := []struct {
		v    Vector2
		want bool
	}{
		{Pt(0, 0), true},
		{Pt(1, -1), true},
		{Pt(math.NaN(), 0), false},
		{Pt(0, math.Inf(1)), false},
		{Pt(math.Inf(-1), 0), false},
	}
	for _, c := range cases {
		if got := c.v.Finite(); got != c.want {
			t.Errorf("Finite(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func FuzzRotated90Preserves(f *testing.F) {
	f.Add(1.0, 0.0)
	f.Add(3.0, -4.0)
	f.Fuzz(func(t *testing.T, x, y float64) {
		v := Pt(x, y)
		if !v.Finite() {
			t.Skip()
		}
		r := v.Rotated90()
		if math.Abs(r.Norm()-v.Norm()) > 1e-6*(1+v.Norm()) {
			t.Errorf("Rotated90(%v) changed norm: got %v, want %v", v, r.Norm(), v.Norm())
		}
	})
}
