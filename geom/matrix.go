package geom

import "github.com/chewxy/math32"

// Mat2 is a 2x2 matrix in row-major order:
//
//	| A  B |
//	| C  D |
type Mat2 struct {
	A, B float32
	C, D float32
}

// M2 builds a Mat2 from its rows.
func M2(a, b, c, d float32) Mat2 {
	return Mat2{A: a, B: b, C: c, D: d}
}

// Ident2 returns the 2x2 identity matrix.
func Ident2() Mat2 {
	return Mat2{A: 1, D: 1}
}

// Apply multiplies the matrix with a column vector.
func (m Mat2) Apply(v Vec2) Vec2 {
	return Vec2{X: m.A*v.X + m.B*v.Y, Y: m.C*v.X + m.D*v.Y}
}

// Mat3 is a 3x3 matrix in row-major order used as a 2D affine transform:
//
//	| A  B  C |
//	| D  E  F |
//	| G  H  I |
//
// A point (x, y) maps to (A*x + B*y + C, D*x + E*y + F). The bottom row is
// kept for composition but no perspective divide is applied.
type Mat3 struct {
	A, B, C float32
	D, E, F float32
	G, H, I float32
}

// Identity returns the identity transform.
func Identity() Mat3 {
	return Mat3{A: 1, E: 1, I: 1}
}

// Translate returns a translation transform.
func Translate(x, y float32) Mat3 {
	return Mat3{A: 1, C: x, E: 1, F: y, I: 1}
}

// Scale returns a scaling transform.
func Scale(x, y float32) Mat3 {
	return Mat3{A: x, E: y, I: 1}
}

// Rotate returns a rotation transform that turns points the same way as
// Vec2.Rotated.
func Rotate(angle float32) Mat3 {
	s, c := math32.Sincos(angle)
	return Mat3{
		A: c, B: s,
		D: -s, E: c,
		I: 1,
	}
}

// Mul returns m * n: n is applied first, then m.
func (m Mat3) Mul(n Mat3) Mat3 {
	return Mat3{
		A: m.A*n.A + m.B*n.D + m.C*n.G,
		B: m.A*n.B + m.B*n.E + m.C*n.H,
		C: m.A*n.C + m.B*n.F + m.C*n.I,
		D: m.D*n.A + m.E*n.D + m.F*n.G,
		E: m.D*n.B + m.E*n.E + m.F*n.H,
		F: m.D*n.C + m.E*n.F + m.F*n.I,
		G: m.G*n.A + m.H*n.D + m.I*n.G,
		H: m.G*n.B + m.H*n.E + m.I*n.H,
		I: m.G*n.C + m.H*n.F + m.I*n.I,
	}
}

// Apply transforms a point.
func (m Mat3) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.B*v.Y + m.C,
		Y: m.D*v.X + m.E*v.Y + m.F,
	}
}

// ApplyVector transforms a direction, ignoring translation.
func (m Mat3) ApplyVector(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.B*v.Y,
		Y: m.D*v.X + m.E*v.Y,
	}
}

// IsIdentity reports whether m is exactly the identity transform.
func (m Mat3) IsIdentity() bool {
	return m == Identity()
}
