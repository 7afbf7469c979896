package tess

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

// DefaultFlatness is the maximum distance in pixels between an arc and the
// chords that approximate it.
const DefaultFlatness = 0.25

var sqrt3 = math32.Sqrt(3)

// GlyphLocator resolves where a glyph was packed in the glyph atlas.
type GlyphLocator interface {
	// RectFor returns the atlas uv rectangle and the screen rectangle of a
	// glyph. ok is false if the glyph has not been packed yet.
	RectFor(fontID uint32, g draw.Glyph) (uv, screen geom.Rect, ok bool)
}

// DrawCall is one batch of geometry drawn with a single set of textures.
type DrawCall struct {
	Vertices []Vertex
	// Indices refer to Vertices of the same call.
	Indices  []uint32
	textures slotSet
}

// Textures returns the textures bound to slots 1..n of the call.
func (dc *DrawCall) Textures() []draw.TextureRef {
	return dc.textures.slice()
}

// Empty reports whether the call has nothing to draw.
func (dc *DrawCall) Empty() bool {
	return len(dc.Vertices) == 0 || len(dc.Indices) == 0
}

// Tessellator turns commands into draw calls.
type Tessellator struct {
	// ScreenSize divides every position. A zero component yields zero
	// positions on that axis.
	ScreenSize geom.Vec2
	// MaxTextures is the number of texture slots per draw call. It is
	// clamped to 1..gpucore.MaxTextureSlots.
	MaxTextures int
	// Glyphs and GlyphTexture are needed for TextGlyph commands only. If
	// either is nil, glyphs are skipped.
	Glyphs       GlyphLocator
	GlyphTexture draw.TextureRef
	// Flatness is the arc tolerance for rounded joins and caps, in the
	// units of the command. Zero means DefaultFlatness.
	Flatness float32
}

// Tessellate compiles cmds in order. The last draw call is always
// returned, even when it is empty.
func (t *Tessellator) Tessellate(cmds []draw.Command) []DrawCall {
	b := &builder{
		t:        t,
		flatness: t.Flatness,
	}
	if b.flatness <= 0 {
		b.flatness = DefaultFlatness
	}
	b.cur = DrawCall{textures: newSlotSet(t.MaxTextures)}
	for i := range cmds {
		b.command(&cmds[i])
	}
	b.out = append(b.out, b.cur)
	return b.out
}

// builder holds the state of one Tessellate call.
type builder struct {
	t        *Tessellator
	flatness float32
	out      []DrawCall
	cur      DrawCall

	// per command
	transform geom.Mat3
	color     [4]uint8
}

// flush moves the current call to the output and starts an empty one.
func (b *builder) flush() {
	b.out = append(b.out, b.cur)
	b.cur = DrawCall{textures: newSlotSet(b.t.MaxTextures)}
}

// useTexture returns the slot of ref in the current call, binding it first
// and flushing if every slot is taken.
func (b *builder) useTexture(ref draw.TextureRef) uint32 {
	if s := b.cur.textures.slot(ref); s != 0 {
		return s
	}
	if s := b.cur.textures.add(ref); s != 0 {
		return s
	}
	b.flush()
	return b.cur.textures.add(ref)
}

// pos maps a local point, rotated by rot, to normalized screen space.
func (b *builder) pos(v geom.Vec2, rot float32) geom.Vec2 {
	return b.transform.Apply(v.Rotated(rot)).DivVec(b.t.ScreenSize)
}

func (b *builder) base() uint32 {
	return uint32(len(b.cur.Vertices))
}

func (b *builder) push(v Vertex) {
	b.cur.Vertices = append(b.cur.Vertices, v)
}

func (b *builder) indices(idx ...uint32) {
	b.cur.Indices = append(b.cur.Indices, idx...)
}

// quad pushes the standard two-triangle index pattern for four vertices
// pushed in TL, TR, BL, BR order starting at n.
func (b *builder) quad(n uint32) {
	b.indices(n, n+1, n+2, n+2, n+1, n+3)
}

func (b *builder) command(c *draw.Command) {
	b.transform = c.Transform
	b.color = c.Color.Unorm8()
	switch d := c.Data.(type) {
	case draw.Rect:
		b.rect(d)
	case draw.Texture:
		b.texture(d)
	case draw.TextGlyph:
		b.glyph(d)
	case draw.Triangle:
		b.triangle(d)
	case draw.Circle:
		b.circle(d)
	case draw.Line:
		b.line(d)
	}
}

func (b *builder) rect(d draw.Rect) {
	uv := rectUVExtent(d.Size)
	box := [4]float32{0, 0, uv.X, uv.Y}
	r := radii(d.CornerRadii)
	n := b.base()
	corners := [4]struct{ p, uv geom.Vec2 }{
		{d.Pos, geom.V2(0, 0)},
		{geom.V2(d.Pos.X+d.Size.X, d.Pos.Y), geom.V2(uv.X, 0)},
		{geom.V2(d.Pos.X, d.Pos.Y+d.Size.Y), geom.V2(0, uv.Y)},
		{d.Pos.Add(d.Size), uv},
	}
	for _, c := range corners {
		b.push(Vertex{
			Pos:         b.pos(c.p, d.Rotation),
			UV:          c.uv,
			Color:       b.color,
			RoundingBox: box,
			Radii:       r,
		})
	}
	b.quad(n)
}

// rectUVExtent maps the longer side of size to 1 and the shorter side to
// its proportion of the longer one, so corner rounding stays circular.
func rectUVExtent(size geom.Vec2) geom.Vec2 {
	w, h := math32.Abs(size.X), math32.Abs(size.Y)
	switch {
	case w > h:
		return geom.V2(1, h/w)
	case h > 0:
		return geom.V2(w/h, 1)
	}
	return geom.V2(1, 1)
}

func (b *builder) texture(d draw.Texture) {
	if d.Texture == nil {
		return
	}
	texSize := d.Texture.Size()
	tex := b.useTexture(d.Texture)
	n := b.base()
	size := texSize.MulVec(d.Scale)
	uvBase := d.SourcePos.DivVec(texSize)
	uvSize := d.SourceSize.DivVec(texSize)
	box := [4]float32{uvBase.X, uvBase.Y, uvSize.X, uvSize.Y}
	r := radii(d.CornerRadii)
	corners := [4]struct{ p, uv geom.Vec2 }{
		{d.Pos, uvBase},
		{geom.V2(d.Pos.X+size.X, d.Pos.Y), geom.V2(uvBase.X+uvSize.X, uvBase.Y)},
		{geom.V2(d.Pos.X, d.Pos.Y+size.Y), geom.V2(uvBase.X, uvBase.Y+uvSize.Y)},
		{d.Pos.Add(size), uvBase.Add(uvSize)},
	}
	for _, c := range corners {
		b.push(Vertex{
			Pos:         b.pos(c.p, d.Rotation),
			UV:          c.uv,
			Color:       b.color,
			RoundingBox: box,
			Radii:       r,
			Tex:         tex,
		})
	}
	b.quad(n)
}

func (b *builder) glyph(d draw.TextGlyph) {
	if b.t.Glyphs == nil || b.t.GlyphTexture == nil {
		return
	}
	uv, screen, ok := b.t.Glyphs.RectFor(d.FontID, d.Glyph)
	if !ok {
		return
	}
	tex := b.useTexture(b.t.GlyphTexture)
	n := b.base()
	corners := [4]struct{ p, uv geom.Vec2 }{
		{screen.Min, uv.Min},
		{geom.V2(screen.Max.X, screen.Min.Y), geom.V2(uv.Max.X, uv.Min.Y)},
		{geom.V2(screen.Min.X, screen.Max.Y), geom.V2(uv.Min.X, uv.Max.Y)},
		{screen.Max, uv.Max},
	}
	for _, c := range corners {
		b.push(Vertex{
			Pos:         b.pos(c.p, 0),
			UV:          c.uv,
			Color:       b.color,
			RoundingBox: unitBox,
			Tex:         tex,
		})
	}
	b.quad(n)
}

func (b *builder) triangle(d draw.Triangle) {
	var tex uint32
	uvs := [3]geom.Vec2{geom.Splat(0.5), geom.Splat(0.5), geom.Splat(0.5)}
	if d.Texture != nil {
		tex = b.useTexture(d.Texture)
		uvs = d.UVs
	}
	n := b.base()
	for i, p := range d.Verts {
		b.push(Vertex{
			Pos:         b.pos(p, 0),
			UV:          uvs[i],
			Color:       b.color,
			RoundingBox: unitBox,
			Tex:         tex,
		})
	}
	b.indices(n, n+1, n+2)
}

// circle emits the one triangle circumscribing the unit circle of the
// fragment stage. Its uv coordinates place the inscribed circle at
// center (0.5, 0.5) with radius 0.5, and all four corner radii are maxed
// so the rounding mask cuts out exactly that circle.
func (b *builder) circle(d draw.Circle) {
	r := d.Radius
	left := geom.V2(-sqrt3*r, -r)
	right := geom.V2(sqrt3*r, -r)
	top := geom.V2(0, 2*r)

	eDir := d.Ellipseness.NormalizeOr(geom.V2(1, 0))
	eTan := eDir.Tangent()
	eLen := d.Ellipseness.Length() + 1
	eMat := geom.M2(eDir.X*eLen, -eTan.X, eDir.Y*eLen, -eTan.Y)

	pts := [3]struct{ p, uv geom.Vec2 }{
		{d.Center.Add(eMat.Apply(left)), geom.V2((1-sqrt3)/2, 0)},
		{d.Center.Add(eMat.Apply(top)), geom.V2(0.5, 1.5)},
		{d.Center.Add(eMat.Apply(right)), geom.V2(1+(sqrt3-1)/2, 0)},
	}
	n := b.base()
	for _, p := range pts {
		b.push(Vertex{
			Pos:         b.pos(p.p, 0),
			UV:          p.uv,
			Color:       b.color,
			RoundingBox: unitBox,
			Radii:       [4]uint8{255, 255, 255, 255},
		})
	}
	b.indices(n, n+1, n+2)
}
