package glyph

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/norm"
)

// ErrParse is returned when font data cannot be parsed.
var ErrParse = errors.New("glyph: invalid font data")

// Face is a parsed font usable for shaping, metrics and rasterization.
// Face is safe for concurrent use.
type Face struct {
	outlines *sfnt.Font
	shaped   *font.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

// ParseFace parses TrueType or OpenType font data.
func ParseFace(data []byte) (*Face, error) {
	outlines, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	ttf, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Face{outlines: outlines, shaped: ttf.Font}, nil
}

// Metrics holds vertical font metrics in pixels.
type Metrics struct {
	Ascent, Descent, Height float32
}

// Metrics returns the vertical metrics at size pixels per em.
func (f *Face) Metrics(size float32) Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.outlines.Metrics(&f.buf, toFixed(size), xfont.HintingNone)
	if err != nil {
		return Metrics{}
	}
	return Metrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}
}

// Positioned is a shaped glyph relative to the start of the run, y down.
type Positioned struct {
	ID      uint16
	X, Y    float32
	Advance float32
}

// Shape runs HarfBuzz shaping over text, normalized to NFC, laid out left
// to right on a single line.
func (f *Face) Shape(text string, size float32) []Positioned {
	if text == "" {
		return nil
	}
	runes := []rune(norm.NFC.String(text))
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f.shaped),
		Size:      toFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(input)

	glyphs := make([]Positioned, 0, len(out.Glyphs))
	var x float32
	for _, g := range out.Glyphs {
		adv := fromFixed(g.Advance)
		glyphs = append(glyphs, Positioned{
			ID:      uint16(g.GlyphID),
			X:       x + fromFixed(g.XOffset),
			Y:       -fromFixed(g.YOffset),
			Advance: adv,
		})
		x += adv
	}
	return glyphs
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// bitmap is a rasterized glyph coverage mask. offset is the position of
// the top-left pixel relative to the pen position on the baseline.
type bitmap struct {
	mask   *image.Alpha
	offset image.Point
}

// rasterize renders glyph id at size. A glyph without an outline, such as
// a space, yields a nil mask and no error.
func (f *Face) rasterize(id uint16, size float32) (bitmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	segs, err := f.outlines.LoadGlyph(&f.buf, sfnt.GlyphIndex(id), toFixed(size), nil)
	if err != nil {
		return bitmap{}, fmt.Errorf("glyph: load glyph %d: %w", id, err)
	}
	if len(segs) == 0 {
		return bitmap{}, nil
	}

	bounds := fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: 1 << 30, Y: 1 << 30},
		Max: fixed.Point26_6{X: -1 << 30, Y: -1 << 30},
	}
	for _, s := range segs {
		n := 1
		switch s.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, p := range s.Args[:n] {
			bounds.Min.X = min(bounds.Min.X, p.X)
			bounds.Min.Y = min(bounds.Min.Y, p.Y)
			bounds.Max.X = max(bounds.Max.X, p.X)
			bounds.Max.Y = max(bounds.Max.Y, p.Y)
		}
	}
	x0, y0 := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	w, h := bounds.Max.X.Ceil()-x0, bounds.Max.Y.Ceil()-y0
	if w <= 0 || h <= 0 {
		return bitmap{}, nil
	}

	ox, oy := float32(x0), float32(y0)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fromFixed(p.X) - ox, fromFixed(p.Y) - oy
	}
	r := vector.NewRasterizer(w, h)
	for i, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.ClosePath()
			}
			r.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return bitmap{mask: mask, offset: image.Pt(x0, y0)}, nil
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
