package draw

// Color is a non-premultiplied RGBA color with float32 channels in 0..1.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Black = Color{A: 1}
)

// RGBA returns a color from its four channels.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Unorm8 converts the color to 8-bit channels. Each channel is scaled by
// 255.99 and truncated, so 1.0 maps to 255 and values outside 0..1 are
// clamped first.
func (c Color) Unorm8() [4]uint8 {
	return [4]uint8{unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)}
}

func unorm8(v float32) uint8 {
	switch {
	case v != v || v <= 0: // NaN or negative
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255.99)
}
