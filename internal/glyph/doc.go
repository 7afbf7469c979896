// Package glyph caches rasterized glyphs in a single atlas texture.
//
// Glyphs are queued while a frame is recorded and packed in one pass by
// [Cache.CacheQueued] before the frame is tessellated. Packing uses shelves:
// rows of glyphs whose height is set by the first glyph on the row. When the
// atlas cannot hold every glyph of a frame, the cache is cleared and the
// frame's glyphs are packed again from scratch; glyphs that still do not fit
// are dropped for that frame.
package glyph
