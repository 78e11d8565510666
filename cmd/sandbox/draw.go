package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// debugDrawer renders Chipmunk shapes and simulation bodies as outlines.
// It implements cp.Drawer so static solids can be drawn with cp.DrawSpace.
type debugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *debugDrawer) drawSpace(space *cp.Space) {
	if space == nil {
		return
	}
	cp.DrawSpace(space, d)
}

func (d *debugDrawer) drawBody(t *component.Transform, body *component.KinematicBody, clr color.Color) {
	switch body.Shape.Kind {
	case component.ShapeCircle:
		r := body.Shape.Diameter / 2
		d.circle(t.X, t.Y, r, clr)
		// Spoke shows rotation.
		x2, y2 := d.toScreen(cp.Vector{X: t.X + math.Cos(t.Rotation)*r, Y: t.Y + math.Sin(t.Rotation)*r})
		x1, y1 := d.toScreen(cp.Vector{X: t.X, Y: t.Y})
		vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, clr, true)
	default:
		hw, hh := body.Shape.HalfExtents()
		x, y := d.toScreen(cp.Vector{X: t.X - hw, Y: t.Y - hh})
		vector.StrokeRect(d.screen, x, y, float32(hw*2*d.zoom), float32(hh*2*d.zoom), 1, clr, false)
	}
}

func (d *debugDrawer) fillRect(x, y, w, h float64, clr color.Color) {
	sx, sy := d.toScreen(cp.Vector{X: x, Y: y})
	vector.DrawFilledRect(d.screen, sx, sy, float32(w*d.zoom), float32(h*d.zoom), clr, false)
}

func (d *debugDrawer) circle(x, y, r float64, clr color.Color) {
	sx, sy := d.toScreen(cp.Vector{X: x, Y: y})
	vector.StrokeCircle(d.screen, sx, sy, float32(r*d.zoom), 1, clr, true)
}

func (d *debugDrawer) cross(x, y, size float64, clr color.Color) {
	d.line(cp.Vector{X: x - size, Y: y}, cp.Vector{X: x + size, Y: y}, clr)
	d.line(cp.Vector{X: x, Y: y - size}, cp.Vector{X: x, Y: y + size}, clr)
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.polygon(circlePoints(pos, radius), toNRGBA(outline))
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.line(pos, end, toNRGBA(outline))
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, toNRGBA(fill))
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, toNRGBA(outline))
	if radius > 0 {
		d.polygon(circlePoints(a, radius), toNRGBA(outline))
		d.polygon(circlePoints(b, radius), toNRGBA(outline))
	}
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.polygon(verts[:count], toNRGBA(outline))
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	d.cross(pos.X, pos.Y, size/2, toNRGBA(fill))
}

func (d *debugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *debugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *debugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *debugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *debugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *debugDrawer) Data() interface{} {
	return nil
}

func (d *debugDrawer) line(a, b cp.Vector, clr color.Color) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, clr, true)
}

func (d *debugDrawer) polygon(verts []cp.Vector, clr color.Color) {
	for i := range verts {
		d.line(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *debugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32((v.X - d.camX) * d.zoom), float32((v.Y - d.camY) * d.zoom)
}

func circlePoints(center cp.Vector, radius float64) []cp.Vector {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	return points
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
