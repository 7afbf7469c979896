package care

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/care/internal/glyph"
)

// defaultFontID is the id of the built-in font. Loaded fonts are numbered
// from 2 upward.
const defaultFontID = 1

var nextFontID atomic.Uint32

func init() {
	nextFontID.Store(defaultFontID)
}

// Font is a parsed font. Fonts are handles: glyphs are cached per Font
// value, so parsing the same data twice caches its glyphs twice.
//
// A Font is safe for concurrent use.
type Font struct {
	id   uint32
	face *glyph.Face
}

var defaultFont = sync.OnceValues(func() (*Font, error) {
	face, err := glyph.ParseFace(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &Font{id: defaultFontID, face: face}, nil
})

// DefaultFont returns the built-in Go Regular font.
func DefaultFont() (*Font, error) {
	return defaultFont()
}

// NewFont parses TrueType or OpenType font data.
func NewFont(data []byte) (*Font, error) {
	face, err := glyph.ParseFace(data)
	if err != nil {
		return nil, err
	}
	return &Font{id: nextFontID.Add(1), face: face}, nil
}

// LoadFont reads and parses a font file.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("care: load font: %w", err)
	}
	f, err := NewFont(data)
	if err != nil {
		return nil, fmt.Errorf("care: load font %s: %w", path, err)
	}
	return f, nil
}

// ID returns the glyph cache key of the font.
func (f *Font) ID() uint32 { return f.id }

// FontMetrics holds vertical metrics in pixels.
type FontMetrics = glyph.Metrics

// Metrics returns the vertical metrics at size pixels per em.
func (f *Font) Metrics(size float32) FontMetrics {
	return f.face.Metrics(size)
}

// Measure returns the advance width and the line height of text set on a
// single line at size pixels per em.
func (f *Font) Measure(text string, size float32) (width, height float32) {
	for _, g := range f.face.Shape(text, size) {
		width += g.Advance
	}
	return width, f.face.Metrics(size).Height
}
