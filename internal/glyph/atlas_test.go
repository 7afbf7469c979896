package glyph

import "testing"

func TestAtlasAllocateShelves(t *testing.T) {
	a := newAtlas(64)

	r1 := a.allocate(10, 20)
	r2 := a.allocate(10, 10)
	if r1 != (Region{X: 0, Y: 0, Width: 10, Height: 20}) {
		t.Errorf("first = %v", r1)
	}
	if r2 != (Region{X: 11, Y: 0, Width: 10, Height: 10}) {
		t.Errorf("second = %v, want on the first shelf", r2)
	}

	// Taller than the first shelf opens a new one.
	r3 := a.allocate(10, 30)
	if r3.Y != 21 || r3.X != 0 {
		t.Errorf("third = %v, want new shelf at y=21", r3)
	}
	if a.allocCount != 3 || a.usedArea != 200+100+300 {
		t.Errorf("stats = %d allocs, %d area", a.allocCount, a.usedArea)
	}
}

func TestAtlasFull(t *testing.T) {
	a := newAtlas(64)
	if r := a.allocate(64, 10); r.IsValid() {
		t.Errorf("padded width beyond atlas allocated: %v", r)
	}
	n := 0
	for a.allocate(20, 20).IsValid() {
		n++
	}
	// 3 per shelf (21px padded), 3 shelves.
	if n != 9 {
		t.Errorf("allocated %d 20x20 regions in 64x64, want 9", n)
	}

	a.reset()
	if r := a.allocate(20, 20); r != (Region{Width: 20, Height: 20}) {
		t.Errorf("after reset = %v", r)
	}
	if a.utilization() <= 0 {
		t.Error("utilization not tracked")
	}
}

func TestAtlasMinSize(t *testing.T) {
	if a := newAtlas(8); a.size != MinAtlasSize {
		t.Errorf("size = %d, want %d", a.size, MinAtlasSize)
	}
	if r := newAtlas(64).allocate(0, 5); r.IsValid() {
		t.Error("zero width region is valid")
	}
}
