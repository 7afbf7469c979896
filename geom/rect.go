package geom

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min, Max Vec2
}

// RectFromPosSize builds a Rect from its top-left corner and size.
func RectFromPosSize(pos, size Vec2) Rect {
	return Rect{Min: pos, Max: pos.Add(size)}
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() Vec2 {
	return r.Max.Sub(r.Min)
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}
