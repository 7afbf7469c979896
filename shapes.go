package care

import (
	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

// Rectangle draws an axis-aligned rectangle with its top-left corner at pos.
func (c *Context) Rectangle(pos, size geom.Vec2) {
	c.RectangleRounded(pos, size, 0, [4]float32{})
}

// RectangleRot draws a rectangle rotated by rotation radians around the
// origin of the current transform.
func (c *Context) RectangleRot(pos, size geom.Vec2, rotation float32) {
	c.RectangleRounded(pos, size, rotation, [4]float32{})
}

// RectangleRounded draws a rotated rectangle with rounded corners. radii
// are fractions (0..1) of half the shorter side, ordered top-left,
// top-right, bottom-left, bottom-right.
func (c *Context) RectangleRounded(pos, size geom.Vec2, rotation float32, radii [4]float32) {
	c.push(draw.Rect{
		Pos:         pos,
		Size:        size,
		Rotation:    rotation,
		CornerRadii: radii,
	})
}

// Texture draws tex at its own size with its top-left corner at pos. The
// texture is tinted by the current color.
func (c *Context) Texture(tex *Texture, pos geom.Vec2) {
	c.TextureScale(tex, pos, geom.Splat(1))
}

// TextureScale draws tex scaled by scale.
func (c *Context) TextureScale(tex *Texture, pos, scale geom.Vec2) {
	if tex == nil {
		return
	}
	c.TextureSource(tex, pos, scale, geom.Vec2{}, tex.Size())
}

// TextureSource draws the texel region at srcPos of size srcSize. The
// drawn size is the full texture size times scale.
func (c *Context) TextureSource(tex *Texture, pos, scale, srcPos, srcSize geom.Vec2) {
	c.TextureRot(tex, pos, scale, srcPos, srcSize, 0)
}

// TextureRot is TextureSource rotated by rotation radians.
func (c *Context) TextureRot(tex *Texture, pos, scale, srcPos, srcSize geom.Vec2, rotation float32) {
	c.TextureRounded(tex, pos, scale, srcPos, srcSize, rotation, [4]float32{})
}

// TextureRounded is TextureRot with rounded corners; radii are as for
// RectangleRounded. A nil tex draws nothing.
func (c *Context) TextureRounded(tex *Texture, pos, scale, srcPos, srcSize geom.Vec2, rotation float32, radii [4]float32) {
	if tex == nil {
		return
	}
	c.push(draw.Texture{
		Texture:     tex,
		Pos:         pos,
		Scale:       scale,
		SourcePos:   srcPos,
		SourceSize:  srcSize,
		Rotation:    rotation,
		CornerRadii: radii,
	})
}

// Triangle draws a flat triangle.
func (c *Context) Triangle(p1, p2, p3 geom.Vec2) {
	c.push(draw.Triangle{Verts: [3]geom.Vec2{p1, p2, p3}})
}

// TriangleTextured draws a triangle sampling tex at uvs, given in 0..1
// texture coordinates. A nil tex draws a flat triangle.
func (c *Context) TriangleTextured(points [3]geom.Vec2, tex *Texture, uvs [3]geom.Vec2) {
	d := draw.Triangle{Verts: points}
	if tex != nil {
		d.Texture = tex
		d.UVs = uvs
	}
	c.push(d)
}

// Circle draws a filled circle.
func (c *Context) Circle(center geom.Vec2, radius float32) {
	c.Ellipse(center, radius, geom.Vec2{})
}

// Ellipse draws a circle stretched along ellipseness by its length. A zero
// ellipseness draws a circle.
func (c *Context) Ellipse(center geom.Vec2, radius float32, ellipseness geom.Vec2) {
	c.push(draw.Circle{
		Center:      center,
		Radius:      radius,
		Ellipseness: ellipseness,
	})
}

// LineSegment draws a line between two points with the current end style.
func (c *Context) LineSegment(p1, p2 geom.Vec2, width float32) {
	c.Line([]geom.Vec2{p1, p2}, width)
}

// Line draws a polyline of constant width, joined with the current join
// style and capped with the current end style at both ends.
func (c *Context) Line(points []geom.Vec2, width float32) {
	c.lock()
	defer c.mu.Unlock()
	pts := make([]draw.LinePoint, len(points))
	for i, p := range points {
		pts[i] = draw.LinePoint{Pos: p, Width: width, Join: c.join}
	}
	c.record(draw.Line{Points: pts, Ends: [2]draw.LineEndStyle{c.end, c.end}})
}

// LineVaryingStyles draws a polyline with per-point width and join style.
// start and end are the caps at the first and last point.
func (c *Context) LineVaryingStyles(points []draw.LinePoint, start, end draw.LineEndStyle) {
	c.push(draw.Line{
		Points: append([]draw.LinePoint(nil), points...),
		Ends:   [2]draw.LineEndStyle{start, end},
	})
}

// Text draws a single line of text with the default font and the current
// text size. pos is the top-left corner of the line box.
func (c *Context) Text(text string, pos geom.Vec2) {
	c.lock()
	defer c.mu.Unlock()
	c.text(c.font, c.textSize, text, pos)
}

// TextWithFont draws a single line of text with font at size pixels per
// em. A nil font uses the default font.
func (c *Context) TextWithFont(font *Font, size float32, text string, pos geom.Vec2) {
	c.lock()
	defer c.mu.Unlock()
	if font == nil {
		font = c.font
	}
	c.text(font, size, text, pos)
}

// MeasureText returns the width and line height of text in the default
// font at the current text size.
func (c *Context) MeasureText(text string) (width, height float32) {
	c.lock()
	font, size := c.font, c.textSize
	c.mu.Unlock()
	return font.Measure(text, size)
}

// text shapes text and records one glyph command per glyph, queueing the
// glyphs for the atlas. The caller holds c.mu.
func (c *Context) text(font *Font, size float32, text string, pos geom.Vec2) {
	if size <= 0 {
		return
	}
	origin := pos.Add(geom.V2(0, font.face.Metrics(size).Ascent))
	for _, g := range font.face.Shape(text, size) {
		gl := draw.Glyph{
			ID:   g.ID,
			Pos:  origin.Add(geom.V2(g.X, g.Y)),
			Size: size,
		}
		c.glyphs.Queue(font.id, font.face, gl)
		c.record(draw.TextGlyph{Glyph: gl, FontID: font.id})
	}
}
