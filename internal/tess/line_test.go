package tess

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

func tessLine(l draw.Line) DrawCall {
	tess := &Tessellator{ScreenSize: geom.V2(1, 1), MaxTextures: 8}
	return tess.Tessellate([]draw.Command{cmd(l)})[0]
}

// cornerLine bends at (100, 100) by angle radians away from the +x axis.
func cornerLine(angle, width float32, join draw.LineJoinStyle) draw.Line {
	center := geom.V2(100, 100)
	return draw.Line{Points: []draw.LinePoint{
		{Pos: center.Add(geom.V2(50, 0)), Width: width, Join: join},
		{Pos: center, Width: width, Join: join},
		{Pos: center.Add(geom.V2(50*math32.Cos(angle), 50*math32.Sin(angle))), Width: width, Join: join},
	}}
}

func TestLineStraightSegment(t *testing.T) {
	dc := tessLine(draw.Line{Points: []draw.LinePoint{
		{Pos: geom.V2(0, 0), Width: 2},
		{Pos: geom.V2(10, 0), Width: 2},
	}})
	if len(dc.Vertices) != 4 || len(dc.Indices) != 6 {
		t.Fatalf("got %d vertices %d indices, want 4 and 6", len(dc.Vertices), len(dc.Indices))
	}
	want := []geom.Vec2{geom.V2(0, -1), geom.V2(0, 1), geom.V2(10, -1), geom.V2(10, 1)}
	for i, w := range want {
		if dc.Vertices[i].Pos.Distance(w) > 1e-5 {
			t.Errorf("vertex %d = %v, want %v", i, dc.Vertices[i].Pos, w)
		}
	}
}

func TestLineTooShort(t *testing.T) {
	for _, pts := range [][]draw.LinePoint{nil, {{Pos: geom.V2(1, 1), Width: 3}}} {
		dc := tessLine(draw.Line{Points: pts})
		if !dc.Empty() {
			t.Errorf("%d points produced geometry", len(pts))
		}
	}
}

func TestLineMiterClamp(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const width = 4
	center := geom.V2(100, 100)
	for range 200 {
		angle := 0.05 + float32(rng.Float64())*(math32.Pi/2-0.05)
		dc := tessLine(cornerLine(angle, width, draw.JoinMiter))
		checkCalls(t, []DrawCall{dc})
		// start edge, end edge, next start edge, then center and two tips.
		for _, i := range []int{7, 8} {
			d := dc.Vertices[i].Pos.Distance(center)
			if d > width+1e-3 {
				t.Fatalf("angle %v: miter tip %d at distance %v exceeds %v", angle, i, d, float32(width))
			}
		}
	}
}

func TestLineMiterUnlimitedExceedsClamp(t *testing.T) {
	const width = 4
	center := geom.V2(100, 100)
	dc := tessLine(cornerLine(0.2, width, draw.JoinMiterUnlimited))
	checkCalls(t, []DrawCall{dc})
	far := max(dc.Vertices[7].Pos.Distance(center), dc.Vertices[8].Pos.Distance(center))
	if far <= width {
		t.Errorf("unlimited miter tip at %v, want beyond %v", far, float32(width))
	}

	clamped := tessLine(cornerLine(0.2, width, draw.JoinMiter))
	if d := clamped.Vertices[7].Pos.Distance(center); d > width+1e-3 {
		t.Errorf("clamped tip at %v", d)
	}
}

func TestLineMiterRightAngle(t *testing.T) {
	// A right-angle miter reaches sqrt(2) half-widths, below the clamp.
	const width = 2
	center := geom.V2(100, 100)
	dc := tessLine(cornerLine(math32.Pi/2, width, draw.JoinMiter))
	want := float32(math32.Sqrt2)
	for _, i := range []int{7, 8} {
		if d := dc.Vertices[i].Pos.Distance(center); math32.Abs(d-want) > 1e-3 {
			t.Errorf("tip %d distance = %v, want %v", i, d, want)
		}
	}
}

func TestLineJoinVertexCounts(t *testing.T) {
	tests := []struct {
		join     draw.LineJoinStyle
		vertices int
		indices  int
	}{
		// 2 start + 2 end-of-first + 2 start-of-second + 2 end.
		{draw.JoinNone, 8, 12},
		{draw.JoinBevel, 9, 18},
		{draw.JoinMiter, 11, 24},
		{draw.JoinMiterUnlimited, 11, 24},
		// 2 start + 2 merged + 2 end.
		{draw.JoinMerge, 6, 12},
	}
	for _, tt := range tests {
		t.Run(tt.join.String(), func(t *testing.T) {
			dc := tessLine(cornerLine(math32.Pi/2, 4, tt.join))
			checkCalls(t, []DrawCall{dc})
			if len(dc.Vertices) != tt.vertices || len(dc.Indices) != tt.indices {
				t.Errorf("got %d vertices %d indices, want %d and %d",
					len(dc.Vertices), len(dc.Indices), tt.vertices, tt.indices)
			}
		})
	}
}

func TestLineMergeAveragesNormals(t *testing.T) {
	dc := tessLine(cornerLine(math32.Pi/2, 2, draw.JoinMerge))
	// Normals (0,1) and (1,0) average to (0.5,0.5) at the corner.
	want := []geom.Vec2{geom.V2(100.5, 100.5), geom.V2(99.5, 99.5)}
	for i, w := range want {
		if got := dc.Vertices[2+i].Pos; got.Distance(w) > 1e-4 {
			t.Errorf("merged vertex %d = %v, want %v", i, got, w)
		}
	}
}

func TestLineRoundedJoinStaysOnCircle(t *testing.T) {
	const width = 20
	center := geom.V2(100, 100)
	dc := tessLine(cornerLine(math32.Pi/3, width, draw.JoinRounded))
	checkCalls(t, []DrawCall{dc})
	if len(dc.Vertices) <= 9 {
		t.Fatalf("rounded join added no arc vertices (%d vertices)", len(dc.Vertices))
	}
	// Vertices after the join center and before the end edge lie on the arc.
	for i := 7; i < len(dc.Vertices)-2; i++ {
		if d := dc.Vertices[i].Pos.Distance(center); math32.Abs(d-width/2) > 1e-3 {
			t.Errorf("arc vertex %d at radius %v, want %v", i, d, float32(width/2))
		}
	}
}

func TestLineCaps(t *testing.T) {
	pts := []draw.LinePoint{
		{Pos: geom.V2(0, 0), Width: 4},
		{Pos: geom.V2(10, 0), Width: 4},
	}

	flat := tessLine(draw.Line{Points: pts})
	if len(flat.Vertices) != 4 {
		t.Errorf("flat: %d vertices, want 4", len(flat.Vertices))
	}

	point := tessLine(draw.Line{Points: pts, Ends: [2]draw.LineEndStyle{draw.EndPoint, draw.EndPoint}})
	checkCalls(t, []DrawCall{point})
	if len(point.Vertices) != 6 || len(point.Indices) != 12 {
		t.Fatalf("point: %d vertices %d indices", len(point.Vertices), len(point.Indices))
	}
	if got := point.Vertices[2].Pos; got.Distance(geom.V2(-2, 0)) > 1e-5 {
		t.Errorf("start tip = %v, want (-2, 0)", got)
	}
	if got := point.Vertices[5].Pos; got.Distance(geom.V2(12, 0)) > 1e-5 {
		t.Errorf("end tip = %v, want (12, 0)", got)
	}

	round := tessLine(draw.Line{Points: pts, Ends: [2]draw.LineEndStyle{draw.EndRounded, draw.EndRounded}})
	checkCalls(t, []DrawCall{round})
	minX, maxX := float32(0), float32(0)
	for _, v := range round.Vertices {
		minX = min(minX, v.Pos.X)
		maxX = max(maxX, v.Pos.X)
		if v.Pos.X < 0 || v.Pos.X > 10 {
			c := geom.V2(0, 0)
			if v.Pos.X > 10 {
				c = geom.V2(10, 0)
			}
			if d := v.Pos.Distance(c); math32.Abs(d-2) > 1e-3 {
				t.Errorf("cap vertex %v at radius %v, want 2", v.Pos, d)
			}
		}
	}
	if minX > -1.9 || maxX < 11.9 {
		t.Errorf("rounded caps span %v..%v, want about -2..12", minX, maxX)
	}
}

func TestLineDegenerateIsFinite(t *testing.T) {
	joins := []draw.LineJoinStyle{
		draw.JoinNone, draw.JoinMerge, draw.JoinMiter,
		draw.JoinMiterUnlimited, draw.JoinBevel, draw.JoinRounded,
	}
	ends := []draw.LineEndStyle{draw.EndFlat, draw.EndPoint, draw.EndRounded}
	p := geom.V2(5, 5)
	for _, j := range joins {
		for _, e := range ends {
			for _, n := range []int{2, 3, 4} {
				pts := make([]draw.LinePoint, n)
				for i := range pts {
					pts[i] = draw.LinePoint{Pos: p, Width: 3, Join: j}
				}
				dc := tessLine(draw.Line{Points: pts, Ends: [2]draw.LineEndStyle{e, e}})
				checkCalls(t, []DrawCall{dc})
			}
		}
	}

	// Zero width and a backtracking point.
	dc := tessLine(draw.Line{Points: []draw.LinePoint{
		{Pos: geom.V2(0, 0), Width: 0, Join: draw.JoinRounded},
		{Pos: geom.V2(10, 0), Width: 0, Join: draw.JoinMiter},
		{Pos: geom.V2(0, 0), Width: 0, Join: draw.JoinRounded},
	}, Ends: [2]draw.LineEndStyle{draw.EndRounded, draw.EndPoint}})
	checkCalls(t, []DrawCall{dc})
}

func TestLineIntersect(t *testing.T) {
	p, ok := lineIntersect(
		[2]geom.Vec2{geom.V2(0, 0), geom.V2(2, 2)},
		[2]geom.Vec2{geom.V2(0, 2), geom.V2(2, 0)},
	)
	if !ok || p.Distance(geom.V2(1, 1)) > 1e-6 {
		t.Errorf("intersect = %v, %v", p, ok)
	}
	if _, ok := lineIntersect(
		[2]geom.Vec2{geom.V2(0, 0), geom.V2(1, 0)},
		[2]geom.Vec2{geom.V2(0, 1), geom.V2(1, 1)},
	); ok {
		t.Error("parallel lines intersect")
	}
}

func TestLimitDist(t *testing.T) {
	if got := limitDist(geom.V2(0, 0), geom.V2(3, 4), 10); got != geom.V2(3, 4) {
		t.Errorf("within limit moved to %v", got)
	}
	if got := limitDist(geom.V2(0, 0), geom.V2(3, 4), 2.5); got.Distance(geom.V2(1.5, 2)) > 1e-6 {
		t.Errorf("limit = %v, want (1.5, 2)", got)
	}
}

func TestArcSteps(t *testing.T) {
	if got := arcSteps(0.1, math32.Pi, 0.25); got != 1 {
		t.Errorf("tiny radius = %d, want 1", got)
	}
	if got := arcSteps(10, 0, 0.25); got != 1 {
		t.Errorf("zero sweep = %d, want 1", got)
	}
	small := arcSteps(5, math32.Pi, 0.25)
	large := arcSteps(500, math32.Pi, 0.25)
	if small >= large {
		t.Errorf("steps(5) = %d, steps(500) = %d, want growth with radius", small, large)
	}
	if large > maxArcSteps+1 {
		t.Errorf("steps = %d exceeds bound", large)
	}
}
