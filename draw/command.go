package draw

import "github.com/gogpu/care/geom"

// TextureRef is an image the tessellator can sample from. Implementations
// are pointer handles: two refs name the same texture only if they are the
// same handle, regardless of pixel content.
type TextureRef interface {
	Size() geom.Vec2
}

// Glyph is a shaped glyph placed on the screen.
type Glyph struct {
	// ID is the glyph index within its font.
	ID uint16
	// Pos is the pen position on the baseline, in pixels.
	Pos geom.Vec2
	// Size is the font size in pixels per em.
	Size float32
}

// Command is a single draw request. It is immutable once appended.
type Command struct {
	Transform geom.Mat3
	Color     Color
	Data      Data
}

// Data is the shape payload of a Command. It is implemented by Rect,
// Texture, TextGlyph, Triangle, Circle and Line only.
type Data interface {
	isData()
}

// Rect is an axis-aligned rectangle, rotated around the origin of the
// command transform by Rotation radians.
type Rect struct {
	Pos, Size geom.Vec2
	Rotation  float32
	// CornerRadii are fractions (0..1) of half the shorter side, in the
	// order top-left, top-right, bottom-left, bottom-right. 1 rounds the
	// shorter side into a semicircle.
	CornerRadii [4]float32
}

// Texture draws a region of a texture. The drawn size is the texture size
// multiplied by Scale.
type Texture struct {
	Texture     TextureRef
	Pos, Scale  geom.Vec2
	SourcePos   geom.Vec2
	SourceSize  geom.Vec2
	Rotation    float32
	CornerRadii [4]float32
}

// TextGlyph draws one glyph from the glyph cache. The placement is looked up
// when the frame is compiled, not when the command is issued.
type TextGlyph struct {
	Glyph  Glyph
	FontID uint32
}

// Triangle draws a flat or textured triangle. Texture is nil for a flat
// triangle, in which case UVs are ignored.
type Triangle struct {
	Verts   [3]geom.Vec2
	Texture TextureRef
	UVs     [3]geom.Vec2
}

// Circle draws a circle, or an ellipse stretched along Ellipseness by its
// length.
type Circle struct {
	Center      geom.Vec2
	Radius      float32
	Ellipseness geom.Vec2
}

// Line draws a polyline with per-point width and join style.
type Line struct {
	Points []LinePoint
	// Ends are the caps at the first and the last point.
	Ends [2]LineEndStyle
}

func (Rect) isData()      {}
func (Texture) isData()   {}
func (TextGlyph) isData() {}
func (Triangle) isData()  {}
func (Circle) isData()    {}
func (Line) isData()      {}
