package draw

import (
	"fmt"
	"strings"

	"github.com/gogpu/care/geom"
)

// LineJoinStyle selects how two consecutive line segments are connected.
type LineJoinStyle uint8

const (
	// JoinNone leaves segments disconnected.
	JoinNone LineJoinStyle = iota
	// JoinMerge moves both edge vertices to the average of the two segment
	// normals. Cheapest, pinches at sharp angles.
	JoinMerge
	// JoinMiter extends the outer edges to their intersection, limited to
	// twice the half width from the join point.
	JoinMiter
	// JoinMiterUnlimited is JoinMiter without the limit.
	JoinMiterUnlimited
	// JoinBevel fills the gap with a flat edge.
	JoinBevel
	// JoinRounded fills the gap with an arc.
	JoinRounded
)

var joinNames = [...]string{"none", "merge", "miter", "miter-unlimited", "bevel", "rounded"}

func (s LineJoinStyle) String() string {
	if int(s) < len(joinNames) {
		return joinNames[s]
	}
	return fmt.Sprintf("LineJoinStyle(%d)", s)
}

// ParseLineJoinStyle parses the name returned by String.
func ParseLineJoinStyle(name string) (LineJoinStyle, error) {
	for i, n := range joinNames {
		if strings.EqualFold(n, name) {
			return LineJoinStyle(i), nil
		}
	}
	return 0, fmt.Errorf("draw: unknown line join style %q", name)
}

// LineEndStyle selects the cap drawn at an end of a line.
type LineEndStyle uint8

const (
	// EndFlat stops the line at its end point.
	EndFlat LineEndStyle = iota
	// EndPoint adds a triangular tip of half the line width.
	EndPoint
	// EndRounded adds a half disc.
	EndRounded
)

var endNames = [...]string{"flat", "point", "rounded"}

func (s LineEndStyle) String() string {
	if int(s) < len(endNames) {
		return endNames[s]
	}
	return fmt.Sprintf("LineEndStyle(%d)", s)
}

// ParseLineEndStyle parses the name returned by String.
func ParseLineEndStyle(name string) (LineEndStyle, error) {
	for i, n := range endNames {
		if strings.EqualFold(n, name) {
			return LineEndStyle(i), nil
		}
	}
	return 0, fmt.Errorf("draw: unknown line end style %q", name)
}

// LinePoint is one vertex of a polyline. Width is the full stroke width at
// this point; Join applies when the point sits between two segments.
type LinePoint struct {
	Pos   geom.Vec2
	Width float32
	Join  LineJoinStyle
}
