package geom

import "github.com/chewxy/math32"

// normalizeEpsilon is the length below which a vector is treated as zero.
const normalizeEpsilon = 1e-6

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Splat returns a vector with both components set to s.
func Splat(s float32) Vec2 {
	return Vec2{X: s, Y: s}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// MulVec returns the component-wise product of two vectors.
func (v Vec2) MulVec(w Vec2) Vec2 {
	return Vec2{X: v.X * w.X, Y: v.Y * w.Y}
}

// Div returns the vector divided by a scalar.
func (v Vec2) Div(s float32) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// DivVec returns the component-wise quotient of two vectors.
// Components of w that are zero yield zero instead of Inf or NaN.
func (v Vec2) DivVec(w Vec2) Vec2 {
	var out Vec2
	if w.X != 0 {
		out.X = v.X / w.X
	}
	if w.Y != 0 {
		out.Y = v.Y / w.Y
	}
	return out
}

// Neg returns the negation of the vector.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product with z=0.
func (v Vec2) Cross(w Vec2) float32 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the euclidean length of the vector.
func (v Vec2) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points.
func (v Vec2) Distance(w Vec2) float32 {
	return w.Sub(v).Length()
}

// NormalizeOr returns the unit vector in the direction of v, or def when v
// is (nearly) zero length.
func (v Vec2) NormalizeOr(def Vec2) Vec2 {
	l := v.Length()
	if l <= normalizeEpsilon {
		return def
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Normalize returns the unit vector in the direction of v.
// A zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	return v.NormalizeOr(Vec2{})
}

// Tangent returns v rotated by 90 degrees: (y, -x).
func (v Vec2) Tangent() Vec2 {
	return Vec2{X: v.Y, Y: -v.X}
}

// Rotated returns v rotated by angle radians. Positive angles turn
// clockwise on a Y-down screen.
func (v Vec2) Rotated(angle float32) Vec2 {
	if angle == 0 {
		return v
	}
	s, c := math32.Sincos(angle)
	return Vec2{X: v.X*c + v.Y*s, Y: v.Y*c - v.X*s}
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math32.IsNaN(v.X) && !math32.IsNaN(v.Y) &&
		!math32.IsInf(v.X, 0) && !math32.IsInf(v.Y, 0)
}
