package care

import (
	"fmt"
	"image"
	"io"
	"sync/atomic"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
	"github.com/gogpu/care/gpucore"
)

// Texture is an RGBA8 image on the device. Textures are handles: two
// Texture values are the same texture only if they are the same pointer.
//
// Create textures with the Context methods NewTexture, NewTextureFill,
// NewTextureFromImage, LoadTexture and DecodeTexture.
type Texture struct {
	label  string
	width  int
	height int
	device gpucore.Device
	res    atomic.Pointer[gpucore.TextureResource]
}

var _ draw.TextureRef = (*Texture)(nil)

// Size returns the texture size in texels.
func (t *Texture) Size() geom.Vec2 {
	return geom.V2(float32(t.width), float32(t.height))
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Label returns the debug label given at creation.
func (t *Texture) Label() string { return t.label }

// resource returns the device texture, or nil once destroyed.
func (t *Texture) resource() gpucore.TextureResource {
	if p := t.res.Load(); p != nil {
		return *p
	}
	return nil
}

// UploadRegion replaces a w x h region at (x, y) with tightly packed RGBA8
// pixels.
func (t *Texture) UploadRegion(x, y, w, h int, rgba []byte) error {
	res := t.resource()
	if res == nil {
		return ErrTextureDestroyed
	}
	if err := gpucore.CheckRegion(t.width, t.height, x, y, w, h, rgba); err != nil {
		return err
	}
	if err := t.device.WriteTexture(res, x, y, w, h, rgba); err != nil {
		return fmt.Errorf("care: upload %s: %w", t.label, err)
	}
	return nil
}

// UploadImage replaces the region of t at (x, y) covered by img.
func (t *Texture) UploadImage(img image.Image, x, y int) error {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	return t.UploadRegion(x, y, w, h, nrgba.Pix[:w*h*4])
}

// Destroy releases the device texture. Commands already recorded for the
// current frame make Present fail. Destroy is idempotent.
func (t *Texture) Destroy() {
	if p := t.res.Swap(nil); p != nil {
		(*p).Destroy()
	}
}

func (c *Context) newTexture(label string, w, h int, rgba []byte) (*Texture, error) {
	res, err := c.device.CreateTexture(label, w, h, rgba)
	if err != nil {
		return nil, fmt.Errorf("care: create texture %s: %w", label, err)
	}
	t := &Texture{label: label, width: w, height: h, device: c.device}
	t.res.Store(&res)
	return t, nil
}

// NewTexture creates a w x h texture from tightly packed, non-premultiplied
// RGBA8 pixels. rgba may be nil for an uninitialized texture.
func (c *Context) NewTexture(w, h int, rgba []byte) (*Texture, error) {
	c.lock()
	defer c.mu.Unlock()
	return c.newTexture("texture", w, h, rgba)
}

// NewTextureFill creates a w x h texture filled with one color.
func (c *Context) NewTextureFill(w, h int, col draw.Color) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, w, h)
	}
	px := col.Unorm8()
	rgba := make([]byte, w*h*4)
	for i := 0; i < len(rgba); i += 4 {
		copy(rgba[i:i+4], px[:])
	}
	c.lock()
	defer c.mu.Unlock()
	return c.newTexture("fill", w, h, rgba)
}

// NewTextureFromImage uploads img. Images larger than the device's maximum
// texture dimension are scaled down to fit, keeping the aspect ratio.
func (c *Context) NewTextureFromImage(img image.Image) (*Texture, error) {
	c.lock()
	defer c.mu.Unlock()
	return c.textureFromImage("image", img)
}

// LoadTexture decodes an image file (PNG, JPEG, GIF, BMP, TIFF or WebP),
// applying its EXIF orientation.
func (c *Context) LoadTexture(path string) (*Texture, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("care: load texture: %w", err)
	}
	c.lock()
	defer c.mu.Unlock()
	return c.textureFromImage(path, img)
}

// DecodeTexture is LoadTexture for an image stream.
func (c *Context) DecodeTexture(r io.Reader) (*Texture, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("care: decode texture: %w", err)
	}
	c.lock()
	defer c.mu.Unlock()
	return c.textureFromImage("decoded", img)
}

func (c *Context) textureFromImage(label string, img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidTextureSize)
	}
	var nrgba *image.NRGBA
	if maxDim := int(c.device.Limits().MaxTextureDimension2D); maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		Logger().Debug("downscaling texture", "label", label,
			"width", b.Dx(), "height", b.Dy(), "max", maxDim)
		nrgba = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	} else {
		nrgba = imaging.Clone(img)
	}
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	return c.newTexture(label, w, h, nrgba.Pix[:w*h*4])
}
