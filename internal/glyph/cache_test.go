package glyph

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

func testFace(t *testing.T) *Face {
	t.Helper()
	f, err := ParseFace(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFace: %v", err)
	}
	return f
}

type upload struct {
	x, y, w, h int
	rgba       []byte
}

type recorder struct {
	uploads []upload
	err     error
}

func (r *recorder) upload(x, y, w, h int, rgba []byte) error {
	r.uploads = append(r.uploads, upload{x, y, w, h, rgba})
	return r.err
}

func TestParseFaceInvalid(t *testing.T) {
	_, err := ParseFace([]byte("not a font"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestFaceShape(t *testing.T) {
	f := testFace(t)
	glyphs := f.Shape("Hi there", 18)
	if len(glyphs) != 8 {
		t.Fatalf("glyphs = %d, want 8", len(glyphs))
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].X <= glyphs[i-1].X {
			t.Errorf("glyph %d x = %v not after %v", i, glyphs[i].X, glyphs[i-1].X)
		}
	}
	if f.Shape("", 18) != nil {
		t.Error("empty text shaped")
	}
	m := f.Metrics(18)
	if m.Ascent <= 0 || m.Ascent > 18 {
		t.Errorf("ascent = %v", m.Ascent)
	}
}

func TestCacheQueued(t *testing.T) {
	f := testFace(t)
	c := NewCache(256)
	glyphs := f.Shape("Hello", 24)

	for _, g := range glyphs {
		c.Queue(1, f, draw.Glyph{ID: g.ID, Pos: geom.V2(10+g.X, 40), Size: 24})
	}
	var rec recorder
	if err := c.CacheQueued(rec.upload); err != nil {
		t.Fatalf("CacheQueued: %v", err)
	}
	// "l" appears twice but is packed once.
	if len(rec.uploads) != 4 {
		t.Errorf("uploads = %d, want 4", len(rec.uploads))
	}
	for _, u := range rec.uploads {
		if len(u.rgba) != u.w*u.h*4 {
			t.Fatalf("upload %dx%d carries %d bytes", u.w, u.h, len(u.rgba))
		}
		covered := false
		for i := 0; i < len(u.rgba); i += 4 {
			if u.rgba[i] != 255 || u.rgba[i+1] != 255 || u.rgba[i+2] != 255 {
				t.Fatalf("pixel %d is not white: %v", i/4, u.rgba[i:i+4])
			}
			covered = covered || u.rgba[i+3] > 0
		}
		if !covered {
			t.Error("glyph upload has no coverage")
		}
	}

	g := draw.Glyph{ID: glyphs[0].ID, Pos: geom.V2(10, 40), Size: 24}
	uv, screen, ok := c.RectFor(1, g)
	if !ok {
		t.Fatal("RectFor missed a cached glyph")
	}
	if uv.Min.X < 0 || uv.Max.X > 1 || uv.Min.Y < 0 || uv.Max.Y > 1 || uv.Empty() {
		t.Errorf("uv = %v", uv)
	}
	// An "H" sits on the baseline, above the pen position.
	if screen.Max.Y > 41 || screen.Min.Y >= 40 {
		t.Errorf("screen = %v, want above baseline y=40", screen)
	}
	if _, _, ok := c.RectFor(2, g); ok {
		t.Error("RectFor hit for another font id")
	}
	if _, _, ok := c.RectFor(1, draw.Glyph{ID: g.ID, Size: 12}); ok {
		t.Error("RectFor hit for another size")
	}

	// Cached glyphs are not uploaded again.
	for _, g := range glyphs {
		c.Queue(1, f, draw.Glyph{ID: g.ID, Size: 24})
	}
	rec = recorder{}
	if err := c.CacheQueued(rec.upload); err != nil {
		t.Fatalf("CacheQueued: %v", err)
	}
	if len(rec.uploads) != 0 {
		t.Errorf("re-uploaded %d cached glyphs", len(rec.uploads))
	}
}

func TestCacheSpaceIsEmpty(t *testing.T) {
	f := testFace(t)
	c := NewCache(128)
	space := f.Shape(" ", 18)[0]
	g := draw.Glyph{ID: space.ID, Size: 18}
	c.Queue(1, f, g)
	var rec recorder
	if err := c.CacheQueued(rec.upload); err != nil {
		t.Fatal(err)
	}
	if len(rec.uploads) != 0 {
		t.Errorf("space uploaded %d regions", len(rec.uploads))
	}
	if _, _, ok := c.RectFor(1, g); ok {
		t.Error("space has a rectangle")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheRepacksWhenFull(t *testing.T) {
	f := testFace(t)
	c := NewCache(MinAtlasSize)
	var rec recorder

	// More glyphs than a 64x64 atlas holds.
	first := f.Shape("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 20)
	for _, g := range first {
		c.Queue(1, f, draw.Glyph{ID: g.ID, Size: 20})
	}
	if err := c.CacheQueued(rec.upload); err != nil {
		t.Fatal(err)
	}

	// A new frame that needs different glyphs evicts the old ones.
	second := f.Shape("wxyz", 20)
	for _, g := range second {
		c.Queue(1, f, draw.Glyph{ID: g.ID, Size: 20})
	}
	if err := c.CacheQueued(rec.upload); err != nil {
		t.Fatal(err)
	}
	for _, g := range second {
		if _, _, ok := c.RectFor(1, draw.Glyph{ID: g.ID, Size: 20}); !ok {
			t.Errorf("glyph %d of the current frame missing after repack", g.ID)
		}
	}
}

func TestCacheDropsOversizedFrame(t *testing.T) {
	f := testFace(t)
	c := NewCache(MinAtlasSize)
	for _, g := range f.Shape("MWQ@#%&", 60) {
		c.Queue(1, f, draw.Glyph{ID: g.ID, Size: 60})
	}
	var rec recorder
	if err := c.CacheQueued(rec.upload); err != nil {
		t.Fatalf("dropping glyphs is not an error: %v", err)
	}
}

func TestCacheUploadError(t *testing.T) {
	f := testFace(t)
	c := NewCache(256)
	c.Queue(1, f, draw.Glyph{ID: f.Shape("A", 20)[0].ID, Size: 20})
	rec := recorder{err: errors.New("device lost")}
	if err := c.CacheQueued(rec.upload); err == nil {
		t.Error("upload error swallowed")
	}
}
