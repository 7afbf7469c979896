package care

import (
	"fmt"
	"sync"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
	"github.com/gogpu/care/gpucore"
	"github.com/gogpu/care/internal/glyph"
	"github.com/gogpu/care/internal/tess"
)

// Context records drawing commands for one frame and submits them on
// Present. All drawing state (transform, color, line style, text size)
// is captured by value when a command is recorded and reset after every
// Present.
//
// A Context is meant to be driven from one goroutine. Its methods lock an
// internal mutex, so concurrent use is memory safe, but the order of
// commands from different goroutines is undefined.
//
// Calling any drawing method on a nil Context, or after Close, panics with
// ErrNotInitialized.
type Context struct {
	mu     sync.Mutex
	device gpucore.Device

	transform geom.Mat3
	stack     []geom.Mat3
	color     draw.Color
	join      draw.LineJoinStyle
	end       draw.LineEndStyle
	textSize  float32

	commands []draw.Command

	maxTextures int
	clearColor  draw.Color
	font        *Font
	glyphs      *glyph.Cache
	atlas       *Texture

	frames uint64
}

// New creates a Context drawing through device. The device stays owned by
// the caller and must outlive the Context.
func New(device gpucore.Device, opts ...Option) (*Context, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	font := o.font
	if font == nil {
		f, err := DefaultFont()
		if err != nil {
			return nil, fmt.Errorf("care: default font: %w", err)
		}
		font = f
	}

	maxTextures := gpucore.MaxTextures(device.Limits())
	if o.maxTextures > 0 && o.maxTextures < maxTextures {
		maxTextures = o.maxTextures
	}

	c := &Context{
		device:      device,
		transform:   geom.Identity(),
		color:       draw.White,
		join:        o.join,
		end:         o.end,
		textSize:    o.textSize,
		maxTextures: maxTextures,
		clearColor:  o.clearColor,
		font:        font,
		glyphs:      glyph.NewCache(o.atlasSize),
	}
	// The cache may round the requested size up; the texture must match it.
	size := c.glyphs.Size()
	atlas, err := c.newTexture("glyph atlas", size, size, make([]byte, size*size*4))
	if err != nil {
		return nil, err
	}
	c.atlas = atlas

	Logger().Info("care context created",
		"max_textures", maxTextures, "atlas_size", size)
	return c, nil
}

// lock panics with ErrNotInitialized on a nil or closed Context and
// otherwise acquires c.mu.
func (c *Context) lock() {
	if c == nil {
		panic(ErrNotInitialized)
	}
	c.mu.Lock()
	if c.device == nil {
		c.mu.Unlock()
		panic(ErrNotInitialized)
	}
}

// Close releases the glyph atlas. The device is left open. Further use of
// the Context panics.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return nil
	}
	c.atlas.Destroy()
	c.device = nil
	c.commands = nil
	return nil
}

// Device returns the device the Context draws through.
func (c *Context) Device() gpucore.Device {
	c.lock()
	defer c.mu.Unlock()
	return c.device
}

// MaxTextures returns the number of textures bound per draw call.
func (c *Context) MaxTextures() int {
	c.lock()
	defer c.mu.Unlock()
	return c.maxTextures
}

// Frames returns how many frames were submitted.
func (c *Context) Frames() uint64 {
	c.lock()
	defer c.mu.Unlock()
	return c.frames
}

// Pending returns the number of commands recorded since the last Present.
func (c *Context) Pending() int {
	c.lock()
	defer c.mu.Unlock()
	return len(c.commands)
}

// Resize changes the surface size. Positions of later frames are
// normalized by the new size.
func (c *Context) Resize(width, height int) error {
	c.lock()
	defer c.mu.Unlock()
	return c.device.Resize(width, height)
}

// Size returns the surface size in pixels.
func (c *Context) Size() (width, height int) {
	c.lock()
	defer c.mu.Unlock()
	return c.device.SurfaceSize()
}

// SetColor sets the color of subsequent commands.
func (c *Context) SetColor(col draw.Color) {
	c.lock()
	defer c.mu.Unlock()
	c.color = col
}

// SetRGBA sets the color of subsequent commands from channels in 0..1.
func (c *Context) SetRGBA(r, g, b, a float32) {
	c.SetColor(draw.RGBA(r, g, b, a))
}

// Color returns the current color.
func (c *Context) Color() draw.Color {
	c.lock()
	defer c.mu.Unlock()
	return c.color
}

// SetLineStyle sets the join and end styles used by Line and LineSegment.
func (c *Context) SetLineStyle(join draw.LineJoinStyle, end draw.LineEndStyle) {
	c.lock()
	defer c.mu.Unlock()
	c.join = join
	c.end = end
}

// LineStyle returns the current join and end styles.
func (c *Context) LineStyle() (draw.LineJoinStyle, draw.LineEndStyle) {
	c.lock()
	defer c.mu.Unlock()
	return c.join, c.end
}

// SetClearColor sets the color later frames are cleared to.
func (c *Context) SetClearColor(col draw.Color) {
	c.lock()
	defer c.mu.Unlock()
	c.clearColor = col
}

// SetTextSize sets the pixel size used by Text.
func (c *Context) SetTextSize(size float32) {
	c.lock()
	defer c.mu.Unlock()
	if size > 0 {
		c.textSize = size
	}
}

// SetTransform replaces the current transform.
func (c *Context) SetTransform(m geom.Mat3) {
	c.lock()
	defer c.mu.Unlock()
	c.transform = m
}

// Transform returns the current transform.
func (c *Context) Transform() geom.Mat3 {
	c.lock()
	defer c.mu.Unlock()
	return c.transform
}

// Push saves the current transform.
func (c *Context) Push() {
	c.lock()
	defer c.mu.Unlock()
	c.stack = append(c.stack, c.transform)
}

// Pop restores the transform saved by the matching Push. Pop on an empty
// stack does nothing.
func (c *Context) Pop() {
	c.lock()
	defer c.mu.Unlock()
	if len(c.stack) == 0 {
		return
	}
	c.transform = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Translate moves the origin of subsequent commands by (x, y).
func (c *Context) Translate(x, y float32) {
	c.apply(geom.Translate(x, y))
}

// Rotate rotates subsequent commands by angle radians around the origin.
func (c *Context) Rotate(angle float32) {
	c.apply(geom.Rotate(angle))
}

// Scale scales subsequent commands by (x, y).
func (c *Context) Scale(x, y float32) {
	c.apply(geom.Scale(x, y))
}

func (c *Context) apply(m geom.Mat3) {
	c.lock()
	defer c.mu.Unlock()
	c.transform = c.transform.Mul(m)
}

// record appends a command with the current transform and color. The
// caller holds c.mu.
func (c *Context) record(d draw.Data) {
	c.commands = append(c.commands, draw.Command{
		Transform: c.transform,
		Color:     c.color,
		Data:      d,
	})
}

func (c *Context) push(d draw.Data) {
	c.lock()
	defer c.mu.Unlock()
	c.record(d)
}

// Present compiles the recorded commands into draw calls, submits them and
// presents the frame. The recorded commands, the transform stack, the
// transform and the color are reset afterwards, also when Present fails.
//
// A frame without geometry is not submitted.
func (c *Context) Present() error {
	c.lock()
	defer c.mu.Unlock()
	defer c.reset()

	if err := c.glyphs.CacheQueued(c.uploadGlyph); err != nil {
		return fmt.Errorf("care: cache glyphs: %w", err)
	}

	w, h := c.device.SurfaceSize()
	t := tess.Tessellator{
		ScreenSize:   geom.V2(float32(w), float32(h)),
		MaxTextures:  c.maxTextures,
		Glyphs:       c.glyphs,
		GlyphTexture: c.atlas,
	}
	calls := t.Tessellate(c.commands)

	frame := &gpucore.Frame{
		Width:      w,
		Height:     h,
		ClearColor: clearColor(c.clearColor),
	}
	for i := range calls {
		dc := &calls[i]
		if dc.Empty() {
			continue
		}
		b, err := batchOf(dc)
		if err != nil {
			return err
		}
		frame.Batches = append(frame.Batches, b)
	}
	if len(frame.Batches) == 0 {
		return nil
	}

	if err := c.device.Submit(frame); err != nil {
		return fmt.Errorf("care: submit: %w", err)
	}
	if err := c.device.Present(); err != nil {
		return fmt.Errorf("care: present: %w", err)
	}
	c.frames++
	Logger().Debug("frame presented",
		"frame", c.frames,
		"commands", len(c.commands),
		"draw_calls", len(frame.Batches),
		"vertex_bytes", frame.VertexBytes(),
		"indices", frame.IndexCount())
	return nil
}

func (c *Context) uploadGlyph(x, y, w, h int, rgba []byte) error {
	res := c.atlas.resource()
	if res == nil {
		return ErrTextureDestroyed
	}
	return c.device.WriteTexture(res, x, y, w, h, rgba)
}

// reset clears the per-frame state. The caller holds c.mu.
func (c *Context) reset() {
	clear(c.commands)
	c.commands = c.commands[:0]
	c.stack = c.stack[:0]
	c.transform = geom.Identity()
	c.color = draw.White
}

func batchOf(dc *tess.DrawCall) (gpucore.Batch, error) {
	b := gpucore.Batch{
		Vertices:    tess.AppendVertices(nil, dc.Vertices),
		VertexCount: len(dc.Vertices),
		Indices:     dc.Indices,
	}
	for _, ref := range dc.Textures() {
		tex, ok := ref.(*Texture)
		if !ok {
			return gpucore.Batch{}, fmt.Errorf("care: unsupported texture %T", ref)
		}
		res := tex.resource()
		if res == nil {
			return gpucore.Batch{}, fmt.Errorf("care: %s: %w", tex.label, ErrTextureDestroyed)
		}
		b.Textures = append(b.Textures, res)
	}
	return b, nil
}

func clearColor(c draw.Color) [4]float64 {
	return [4]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
}
