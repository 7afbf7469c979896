package tess

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/care/geom"
	"github.com/x448/float16"
)

// VertexStride is the size in bytes of one encoded vertex.
//
//	offset  format      field
//	0       float32x2   position
//	8       float16x2   uv
//	12      unorm8x4    color
//	16      float16x4   rounding box (uv min, uv extent)
//	24      unorm8x4    corner radii
//	28      uint32      texture slot
const VertexStride = 32

// Vertex is one corner of a tessellated triangle.
type Vertex struct {
	// Pos is the position divided by the screen size; the visible area is
	// 0..1 on both axes.
	Pos geom.Vec2
	UV  geom.Vec2
	// Color holds 8-bit RGBA.
	Color [4]uint8
	// RoundingBox is the uv rectangle the fragment stage rounds corners
	// against: min x, min y, extent x, extent y.
	RoundingBox [4]float32
	// Radii are the corner radii as 0..255 fractions of half the shorter
	// side of the rounding box.
	Radii [4]uint8
	// Tex is 0 for no texture, otherwise the 1-based slot of the draw call.
	Tex uint32
}

var unitBox = [4]float32{0, 0, 1, 1}

// AppendVertices encodes vertices in the layout described by VertexStride.
func AppendVertices(dst []byte, verts []Vertex) []byte {
	for i := range verts {
		v := &verts[i]
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Pos.X))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Pos.Y))
		dst = appendHalf(dst, v.UV.X)
		dst = appendHalf(dst, v.UV.Y)
		dst = append(dst, v.Color[:]...)
		for _, f := range v.RoundingBox {
			dst = appendHalf(dst, f)
		}
		dst = append(dst, v.Radii[:]...)
		dst = binary.LittleEndian.AppendUint32(dst, v.Tex)
	}
	return dst
}

func appendHalf(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint16(dst, float16.Fromfloat32(f).Bits())
}

// radii converts corner radius fractions to the 0..255 vertex encoding.
func radii(r [4]float32) [4]uint8 {
	var out [4]uint8
	for i, f := range r {
		v := f * 255.9
		switch {
		case v != v || v <= 0:
			out[i] = 0
		case v >= 255:
			out[i] = 255
		default:
			out[i] = uint8(v)
		}
	}
	return out
}
