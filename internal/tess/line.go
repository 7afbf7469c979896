package tess

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

// parallelEpsilon is the determinant below which two lines are treated as
// parallel.
const parallelEpsilon = 0.001

// maxArcSteps bounds the chords used for half a turn of arc.
const maxArcSteps = 32

const normalizeEpsilon = 1e-6

// edge is the pair of vertices on either side of a line at one point: the
// vertex offset by +normal first.
type edge struct {
	idx [2]uint32
	pos [2]geom.Vec2
}

// segmentNormal returns the normal of the segment p1->p2 scaled to half of
// width. A zero-length segment has a zero normal.
func segmentNormal(p1, p2 geom.Vec2, width float32) geom.Vec2 {
	return p2.Sub(p1).NormalizeOr(geom.Vec2{}).Tangent().Mul(width / 2)
}

// lineIntersect returns the intersection of the infinite lines through
// l1 and l2, or false if they are (nearly) parallel.
func lineIntersect(l1, l2 [2]geom.Vec2) (geom.Vec2, bool) {
	x1, y1, x2, y2 := l1[0].X, l1[0].Y, l1[1].X, l1[1].Y
	x3, y3, x4, y4 := l2[0].X, l2[0].Y, l2[1].X, l2[1].Y
	d := (x1-x2)*(y3-y4) - (x3-x4)*(y1-y2)
	if math32.Abs(d) <= parallelEpsilon {
		return geom.Vec2{}, false
	}
	a := x1*y2 - y1*x2
	c := x3*y4 - y3*x4
	return geom.V2(
		(a*(x3-x4)-(x1-x2)*c)/d,
		(a*(y3-y4)-(y1-y2)*c)/d,
	), true
}

// limitDist moves dest toward source so it is at most maxDist away.
func limitDist(source, dest geom.Vec2, maxDist float32) geom.Vec2 {
	delta := dest.Sub(source)
	if delta.Length() <= maxDist {
		return dest
	}
	return source.Add(delta.NormalizeOr(geom.Vec2{}).Mul(maxDist))
}

func (b *builder) lineVertex(p geom.Vec2) uint32 {
	n := b.base()
	b.push(Vertex{
		Pos:         b.pos(p, 0),
		Color:       b.color,
		RoundingBox: unitBox,
	})
	return n
}

// segmentEdge pushes the two edge vertices at p1 of the segment p1->p2.
// A negative width swaps the sides.
func (b *builder) segmentEdge(p1, p2 geom.Vec2, width float32) edge {
	norm := segmentNormal(p1, p2, width)
	e := edge{pos: [2]geom.Vec2{p1.Add(norm), p1.Sub(norm)}}
	e.idx[0] = b.lineVertex(e.pos[0])
	e.idx[1] = b.lineVertex(e.pos[1])
	return e
}

// mergeEdge pushes the edge vertices at p2 offset by the average of the
// normals of p1->p2 and p2->p3.
func (b *builder) mergeEdge(p1, p2, p3 geom.Vec2, width float32) edge {
	norm := segmentNormal(p1, p2, width).Add(segmentNormal(p2, p3, width)).Div(2)
	e := edge{pos: [2]geom.Vec2{p2.Add(norm), p2.Sub(norm)}}
	e.idx[0] = b.lineVertex(e.pos[0])
	e.idx[1] = b.lineVertex(e.pos[1])
	return e
}

// bridge joins the edge where a segment starts to the edge where it ends.
func (b *builder) bridge(from, to edge) {
	b.indices(from.idx[0], from.idx[1], to.idx[0], to.idx[0], from.idx[1], to.idx[1])
}

func (b *builder) line(d draw.Line) {
	pts := d.Points
	if len(pts) < 2 {
		return
	}

	cur := b.segmentEdge(pts[0].Pos, pts[1].Pos, pts[0].Width)
	b.cap(pts[0].Pos, pts[1].Pos, cur, d.Ends[0])

	for i := 0; i+2 < len(pts); i++ {
		p1, p2, p3 := pts[i], pts[i+1], pts[i+2]
		if p2.Join == draw.JoinMerge {
			next := b.mergeEdge(p1.Pos, p2.Pos, p3.Pos, p2.Width)
			b.bridge(cur, next)
			cur = next
			continue
		}
		end := b.segmentEdge(p2.Pos, p1.Pos, -p2.Width)
		b.bridge(cur, end)
		cur = b.segmentEdge(p2.Pos, p3.Pos, p2.Width)
		b.join(p1.Pos, p2.Pos, p3.Pos, p2.Width, p2.Join, end, cur)
	}

	last, prev := pts[len(pts)-1], pts[len(pts)-2]
	end := b.segmentEdge(last.Pos, prev.Pos, -last.Width)
	b.bridge(cur, end)
	b.cap(last.Pos, prev.Pos, end, d.Ends[1])
}

// join fills the gap at p2 between the end edge of p1->p2 (in) and the
// start edge of p2->p3 (out).
func (b *builder) join(p1, p2, p3 geom.Vec2, width float32, style draw.LineJoinStyle, in, out edge) {
	switch style {
	case draw.JoinMiter, draw.JoinMiterUnlimited:
		norm1 := segmentNormal(p2, p1, width)
		norm2 := segmentNormal(p2, p3, width)
		dir1 := norm1.Tangent()
		dir2 := norm2.Tangent()
		var tips [2]geom.Vec2
		for side := range tips {
			tip, ok := lineIntersect(
				[2]geom.Vec2{in.pos[side], in.pos[side].Sub(dir1)},
				[2]geom.Vec2{out.pos[side], out.pos[side].Sub(dir2)},
			)
			if !ok {
				tip = p2
			}
			if style == draw.JoinMiter {
				tip = limitDist(p2, tip, width)
			}
			tips[side] = tip
		}
		n := b.lineVertex(p2)
		b.lineVertex(tips[0])
		b.lineVertex(tips[1])
		b.indices(
			n, in.idx[0], out.idx[0],
			n+1, out.idx[0], in.idx[0],
			n, in.idx[1], out.idx[1],
			n+2, out.idx[1], in.idx[1],
		)
	case draw.JoinBevel:
		n := b.lineVertex(p2)
		b.indices(n, in.idx[0], out.idx[0], n, out.idx[1], in.idx[1])
	case draw.JoinRounded:
		n := b.lineVertex(p2)
		for side := range 2 {
			b.arcFan(p2, n, in.idx[side], in.pos[side], out.idx[side], out.pos[side])
		}
	}
	// JoinNone leaves the gap; JoinMerge never reaches here.
}

// cap closes the line at p. other is the neighbouring point, e the edge
// at p.
func (b *builder) cap(p, other geom.Vec2, e edge, style draw.LineEndStyle) {
	outward := p.Sub(other).NormalizeOr(geom.Vec2{})
	halfWidth := e.pos[0].Distance(p)
	switch style {
	case draw.EndPoint:
		tip := b.lineVertex(p.Add(outward.Mul(halfWidth)))
		b.indices(e.idx[0], e.idx[1], tip)
	case draw.EndRounded:
		if halfWidth <= normalizeEpsilon {
			return
		}
		u := e.pos[0].Sub(p)
		sweep := float32(math32.Pi)
		if u.Cross(outward) < 0 {
			sweep = -sweep
		}
		center := b.lineVertex(p)
		b.arc(p, center, e.idx[0], u, sweep, e.idx[1])
	}
}

// arcFan fills the shorter arc around center between two edge vertices.
func (b *builder) arcFan(center geom.Vec2, centerIdx, fromIdx uint32, from geom.Vec2, toIdx uint32, to geom.Vec2) {
	u := from.Sub(center)
	v := to.Sub(center)
	if u.Length() <= normalizeEpsilon || v.Length() <= normalizeEpsilon {
		return
	}
	sweep := math32.Atan2(u.Cross(v), u.Dot(v))
	b.arc(center, centerIdx, fromIdx, u, sweep, toIdx)
}

// arc emits a triangle fan around centerIdx starting at the vertex fromIdx
// (at center+u) and sweeping by sweep radians to the vertex toIdx. Only the
// intermediate vertices are pushed.
func (b *builder) arc(center geom.Vec2, centerIdx, fromIdx uint32, u geom.Vec2, sweep float32, toIdx uint32) {
	steps := arcSteps(u.Length(), sweep, b.flatness)
	prev := fromIdx
	for i := 1; i < steps; i++ {
		s, c := math32.Sincos(sweep * float32(i) / float32(steps))
		p := center.Add(geom.V2(u.X*c-u.Y*s, u.X*s+u.Y*c))
		idx := b.lineVertex(p)
		b.indices(centerIdx, prev, idx)
		prev = idx
	}
	b.indices(centerIdx, prev, toIdx)
}

// arcSteps returns how many chords approximate an arc of the given radius
// and sweep within flatness.
func arcSteps(radius, sweep, flatness float32) int {
	sweep = math32.Abs(sweep)
	if sweep <= normalizeEpsilon {
		return 1
	}
	limit := int(math32.Ceil(sweep/math32.Pi*maxArcSteps)) + 1
	if radius <= flatness {
		return 1
	}
	step := 2 * math32.Acos(1-flatness/radius)
	if step <= 0 || math32.IsNaN(step) {
		return limit
	}
	n := int(math32.Ceil(sweep / step))
	return max(1, min(n, limit))
}
