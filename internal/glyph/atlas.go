package glyph

import "fmt"

const (
	// DefaultAtlasSize is the width and height of the glyph atlas.
	DefaultAtlasSize = 1024

	// MinAtlasSize is the smallest accepted atlas dimension.
	MinAtlasSize = 64

	// shelfPadding separates glyphs so nearest sampling at a glyph edge
	// never reads its neighbour.
	shelfPadding = 1
)

// Region is a rectangle of atlas pixels.
type Region struct {
	X, Y          int
	Width, Height int
}

// IsValid reports whether the region has a positive area.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

type shelf struct {
	y      int
	height int
	nextX  int
}

// atlas packs rectangles into shelves. It only tracks allocations; the
// pixels live in a device texture owned by the caller.
type atlas struct {
	size    int
	shelves []shelf

	allocCount int
	usedArea   int
}

func newAtlas(size int) *atlas {
	return &atlas{
		size:    max(size, MinAtlasSize),
		shelves: make([]shelf, 0, 16),
	}
}

// allocate reserves a width x height region. It returns an invalid region
// when the rectangle does not fit.
func (a *atlas) allocate(width, height int) Region {
	if width <= 0 || height <= 0 {
		return Region{}
	}
	pw, ph := width+shelfPadding, height+shelfPadding
	if pw > a.size || ph > a.size {
		return Region{}
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.nextX+pw <= a.size && ph <= s.height {
			r := Region{X: s.nextX, Y: s.y, Width: width, Height: height}
			s.nextX += pw
			a.record(r)
			return r
		}
	}

	y := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		y = last.y + last.height
	}
	if y+ph > a.size {
		return Region{}
	}
	a.shelves = append(a.shelves, shelf{y: y, height: ph, nextX: pw})
	r := Region{X: 0, Y: y, Width: width, Height: height}
	a.record(r)
	return r
}

func (a *atlas) record(r Region) {
	a.allocCount++
	a.usedArea += r.Width * r.Height
}

// reset frees every allocation.
func (a *atlas) reset() {
	a.shelves = a.shelves[:0]
	a.allocCount = 0
	a.usedArea = 0
}

// utilization returns the fraction of atlas area in use.
func (a *atlas) utilization() float64 {
	return float64(a.usedArea) / float64(a.size*a.size)
}
