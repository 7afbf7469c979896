package glyph

import (
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

// UploadFunc writes an RGBA8 region of the atlas texture.
type UploadFunc func(x, y, width, height int, rgba []byte) error

type key struct {
	font uint32
	id   uint16
	size fixed.Int26_6
}

func keyOf(fontID uint32, g draw.Glyph) key {
	return key{font: fontID, id: g.ID, size: toFixed(g.Size)}
}

type entry struct {
	region Region
	offset geom.Vec2
	empty  bool
}

type queued struct {
	key  key
	face *Face
}

// Cache maps glyphs to atlas regions. The zero value is not usable; call
// NewCache.
//
// Cache is used from a single goroutine.
type Cache struct {
	atlas   *atlas
	entries map[key]entry

	queue  []queued
	queued map[key]struct{}
}

// NewCache creates a cache for a size x size atlas texture.
func NewCache(size int) *Cache {
	return &Cache{
		atlas:   newAtlas(size),
		entries: make(map[key]entry),
		queued:  make(map[key]struct{}),
	}
}

// Size returns the atlas width and height in pixels.
func (c *Cache) Size() int { return c.atlas.size }

// Len returns the number of cached glyphs, including empty ones.
func (c *Cache) Len() int { return len(c.entries) }

// Queue marks a glyph as needed by the current frame.
func (c *Cache) Queue(fontID uint32, face *Face, g draw.Glyph) {
	k := keyOf(fontID, g)
	if _, ok := c.queued[k]; ok {
		return
	}
	c.queued[k] = struct{}{}
	c.queue = append(c.queue, queued{key: k, face: face})
}

// CacheQueued rasterizes every queued glyph missing from the atlas and
// uploads it. If the atlas runs out of space the cache is cleared and all
// queued glyphs are packed again once; glyphs that still do not fit are
// skipped. The queue is empty afterwards.
func (c *Cache) CacheQueued(upload UploadFunc) error {
	defer c.clearQueue()

	missed, err := c.pack(upload)
	if err != nil || missed == 0 {
		return err
	}

	slogger().Debug("glyph atlas full, repacking",
		"queued", len(c.queue), "utilization", c.atlas.utilization())
	c.atlas.reset()
	clear(c.entries)

	missed, err = c.pack(upload)
	if err != nil {
		return err
	}
	if missed > 0 {
		slogger().Warn("glyph atlas too small for frame, dropping glyphs",
			"dropped", missed, "atlas_size", c.atlas.size)
	}
	return nil
}

// pack caches queued glyphs and returns how many did not fit.
func (c *Cache) pack(upload UploadFunc) (int, error) {
	missed := 0
	for _, q := range c.queue {
		if _, ok := c.entries[q.key]; ok {
			continue
		}
		bm, err := q.face.rasterize(q.key.id, fromFixed(q.key.size))
		if err != nil {
			slogger().Warn("glyph rasterization failed", "glyph", q.key.id, "err", err)
			c.entries[q.key] = entry{empty: true}
			continue
		}
		if bm.mask == nil {
			c.entries[q.key] = entry{empty: true}
			continue
		}
		b := bm.mask.Bounds()
		r := c.atlas.allocate(b.Dx(), b.Dy())
		if !r.IsValid() {
			missed++
			continue
		}
		if err := upload(r.X, r.Y, r.Width, r.Height, alphaToRGBA(bm.mask.Pix, bm.mask.Stride, r.Width, r.Height)); err != nil {
			return missed, fmt.Errorf("glyph: upload %v: %w", r, err)
		}
		c.entries[q.key] = entry{
			region: r,
			offset: geom.V2(float32(bm.offset.X), float32(bm.offset.Y)),
		}
	}
	return missed, nil
}

func (c *Cache) clearQueue() {
	c.queue = c.queue[:0]
	clear(c.queued)
}

// RectFor returns the atlas uv rectangle and the screen rectangle of a
// cached glyph. ok is false if the glyph is not in the atlas or has no
// pixels.
func (c *Cache) RectFor(fontID uint32, g draw.Glyph) (uv, screen geom.Rect, ok bool) {
	e, found := c.entries[keyOf(fontID, g)]
	if !found || e.empty {
		return geom.Rect{}, geom.Rect{}, false
	}
	size := float32(c.atlas.size)
	r := e.region
	uv = geom.Rect{
		Min: geom.V2(float32(r.X)/size, float32(r.Y)/size),
		Max: geom.V2(float32(r.X+r.Width)/size, float32(r.Y+r.Height)/size),
	}
	origin := geom.V2(math32.Round(g.Pos.X), math32.Round(g.Pos.Y)).Add(e.offset)
	screen = geom.RectFromPosSize(origin, geom.V2(float32(r.Width), float32(r.Height)))
	return uv, screen, true
}

// alphaToRGBA expands a coverage mask to white RGBA pixels with the
// coverage in the alpha channel.
func alphaToRGBA(pix []byte, stride, width, height int) []byte {
	out := make([]byte, 0, width*height*4)
	for y := range height {
		for _, a := range pix[y*stride : y*stride+width] {
			out = append(out, 255, 255, 255, a)
		}
	}
	return out
}
