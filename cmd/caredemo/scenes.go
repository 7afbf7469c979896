package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/care"
	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/geom"
)

// scene draws one frame. frame counts from 0.
type scene func(c *care.Context, frame int)

var scenes = map[string]scene{
	"hello":   drawHello,
	"boxes":   drawBoxes,
	"circles": drawCircles,
	"lines":   drawLines,
	"spin":    drawSpin,
}

func sceneNames() string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func drawHello(c *care.Context, _ int) {
	c.Rectangle(geom.V2(50, 50), geom.V2(100, 100))
	c.Text("Hello, World!", geom.V2(10, 10))
}

func drawBoxes(c *care.Context, _ int) {
	for range 5000 + rand.IntN(5000) {
		c.SetRGBA(rand.Float32(), rand.Float32(), rand.Float32(), 1)
		c.Rectangle(
			geom.V2(float32(rand.IntN(750)), float32(rand.IntN(550))),
			geom.V2(float32(10+rand.IntN(40)), float32(10+rand.IntN(40))),
		)
	}
}

func drawCircles(c *care.Context, _ int) {
	s2 := math32.Sqrt(2)
	c.Circle(geom.V2(100, 100), 30)
	c.Ellipse(geom.V2(400, 100), 20, geom.V2(2, 0))
	c.Ellipse(geom.V2(300+s2*50, 100+s2*50), 21, geom.V2(s2, s2))
	c.Ellipse(geom.V2(300, 200), 20, geom.V2(0, 2))
	c.RectangleRounded(geom.V2(250, 300), geom.V2(100, 50), 0, [4]float32{0.5, 0.5, 0.5, 0.5})
}

var joinColumns = []draw.LineJoinStyle{
	draw.JoinNone,
	draw.JoinMerge,
	draw.JoinMiter,
	draw.JoinBevel,
	draw.JoinRounded,
}

func drawLines(c *care.Context, _ int) {
	c.SetRGBA(0.5, 0.5, 0.5, 1)
	for i, join := range joinColumns {
		c.Text(strings.ToUpper(join.String()[:1])+join.String()[1:], geom.V2(float32(i*100+10), 5))
	}

	c.SetColor(draw.White)
	for i, join := range joinColumns {
		x := float32(i * 100)
		c.SetLineStyle(join, draw.EndFlat)
		c.Line(pts(x, 25, 50, 50, 50, 75, 50), 10)
		c.Line(pts(x, 25, 145, 50, 155, 75, 145), 10)
		c.Line(pts(x, 25, 265, 50, 265, 75, 240), 10)
		c.Line(pts(x, 25, 375, 75, 375, 75, 325), 10)
		c.Line(pts(x, 25, 425, 75, 450, 25, 475), 10)
		c.Line(pts(x, 25, 565, 75, 565, 25, 540), 10)
	}
	for i := 1; i <= 5; i++ {
		v := float32(i * 100)
		c.LineSegment(geom.V2(0, v), geom.V2(800, v), 2)
		c.LineSegment(geom.V2(v, 0), geom.V2(v, 600), 2)
	}

	c.SetRGBA(1, 0.6, 0.2, 1)
	c.LineVaryingStyles([]draw.LinePoint{
		{Pos: geom.V2(560, 60), Width: 4, Join: draw.JoinRounded},
		{Pos: geom.V2(640, 120), Width: 12, Join: draw.JoinMiter},
		{Pos: geom.V2(720, 60), Width: 20, Join: draw.JoinBevel},
		{Pos: geom.V2(760, 160), Width: 8, Join: draw.JoinRounded},
	}, draw.EndPoint, draw.EndRounded)
}

// pts offsets three points by x.
func pts(x float32, x1, y1, x2, y2, x3, y3 float32) []geom.Vec2 {
	return []geom.Vec2{geom.V2(x+x1, y1), geom.V2(x+x2, y2), geom.V2(x+x3, y3)}
}

func drawSpin(c *care.Context, frame int) {
	angle := float32(frame) * 0.02
	for i := range 8 {
		c.Push()
		c.Translate(400, 300)
		c.Rotate(angle + float32(i)*math32.Pi/4)
		c.SetRGBA(float32(i)/8, 0.5, 1-float32(i)/8, 1)
		c.RectangleRounded(geom.V2(80, -20), geom.V2(120, 40), 0, [4]float32{1, 0.2, 0.2, 1})
		c.Pop()
	}
	c.SetColor(draw.White)
	c.Text(fmt.Sprintf("frame %d", frame), geom.V2(10, 10))
}

// drawTexture draws tex at its size and scaled, rotated and rounded
// copies of it.
func drawTexture(c *care.Context, tex *care.Texture) {
	c.Texture(tex, geom.V2(50, 50))
	size := tex.Size()
	c.TextureRounded(tex, geom.V2(400, 100), geom.Splat(0.5), geom.Vec2{}, size, 0.3, [4]float32{1, 1, 1, 1})
	c.TextureSource(tex, geom.V2(400, 350), geom.Splat(0.5), size.Mul(0.25), size.Mul(0.5))
	c.TriangleTextured(
		[3]geom.Vec2{geom.V2(50, 550), geom.V2(150, 400), geom.V2(250, 550)},
		tex,
		[3]geom.Vec2{geom.V2(0, 1), geom.V2(0.5, 0), geom.V2(1, 1)},
	)
}
