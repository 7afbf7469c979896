package care

import (
	"log/slog"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/internal/glyph"
)

// DefaultTextSize is the pixel size used by Text until SetTextSize.
const DefaultTextSize = 18

// Option configures a Context during creation.
//
// Example:
//
//	ctx, err := care.New(device,
//	    care.WithClearColor(draw.RGB(0.1, 0.1, 0.1)),
//	    care.WithLineStyle(draw.JoinMiter, draw.EndFlat),
//	)
type Option func(*options)

type options struct {
	maxTextures int
	textSize    float32
	font        *Font
	clearColor  draw.Color
	join        draw.LineJoinStyle
	end         draw.LineEndStyle
	atlasSize   int
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		textSize:   DefaultTextSize,
		clearColor: draw.Black,
		join:       draw.JoinRounded,
		end:        draw.EndRounded,
		atlasSize:  glyph.DefaultAtlasSize,
	}
}

// WithMaxTextures caps the number of textures bound per draw call below
// what the device supports. Values below 1 are ignored.
func WithMaxTextures(n int) Option {
	return func(o *options) {
		o.maxTextures = n
	}
}

// WithTextSize sets the initial text size in pixels per em.
func WithTextSize(size float32) Option {
	return func(o *options) {
		if size > 0 {
			o.textSize = size
		}
	}
}

// WithDefaultFont replaces the built-in Go Regular font used by Text.
func WithDefaultFont(f *Font) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithClearColor sets the color every frame is cleared to.
func WithClearColor(c draw.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithLineStyle sets the initial line join and end styles.
func WithLineStyle(join draw.LineJoinStyle, end draw.LineEndStyle) Option {
	return func(o *options) {
		o.join = join
		o.end = end
	}
}

// WithGlyphAtlasSize sets the width and height of the glyph atlas texture.
// Sizes below 64 are raised to 64.
func WithGlyphAtlasSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.atlasSize = size
		}
	}
}

// WithLogger calls SetLogger with l when the Context is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
