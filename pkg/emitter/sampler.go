package emitter

import (
	"image"
	"math"

	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/rng"
)

// LineStep is the distance a line launcher moves per translate command.
const LineStep = 2

// Sampler picks the launch position of the next particle.
type Sampler interface {
	Sample(anchor geom.Vec2, src rng.Source) geom.Vec2
}

// Translatable samplers own geometry that can be moved.
type Translatable interface {
	Translate(dx, dy float64)
}

// Rotatable samplers own geometry that can be rotated.
type Rotatable interface {
	Rotate(deltaDeg float64)
}

// anchorFollower samplers drag the emitter anchor to every launch position.
type anchorFollower interface {
	followsLaunch() bool
}

// Point launches every particle at the emitter anchor.
type Point struct{}

// Sample returns the anchor.
func (Point) Sample(anchor geom.Vec2, _ rng.Source) geom.Vec2 {
	return anchor
}

// Circle launches inside the box spanned by one chord of a circle.
//
// The chord is drawn once, at construction, from the particle angle range;
// every launch then samples the same sub-region of the disk.
// 注意：角度值直接作为弧度传入三角函数
type Circle struct {
	center geom.Vec2
	radius int
	dims   image.Point
}

// NewCircle builds a circle sampler centered on center.
func NewCircle(center geom.Vec2, radius int, angle IntRange, src rng.Source) *Circle {
	a := float64(src.Int(angle.Min, angle.Max+1))
	return &Circle{
		center: center,
		radius: radius,
		dims: image.Pt(
			int(math.Abs(float64(radius)*math.Cos(a))),
			int(math.Abs(float64(radius)*math.Sin(a))),
		),
	}
}

// Sample draws a point within the chord box around the center.
func (c *Circle) Sample(_ geom.Vec2, src rng.Source) geom.Vec2 {
	x, y := int(c.center.X), int(c.center.Y)
	return geom.V(
		float64(src.Int(x-c.dims.X, x+c.dims.X)),
		float64(src.Int(y-c.dims.Y, y+c.dims.Y)),
	)
}

// Translate moves the circle center.
func (c *Circle) Translate(dx, dy float64) {
	c.center = c.center.Add(geom.V(dx, dy))
}

func (c *Circle) followsLaunch() bool { return true }

// Center returns the circle center.
func (c *Circle) Center() geom.Vec2 { return c.center }

// Radius returns the circle radius.
func (c *Circle) Radius() int { return c.radius }

// Chord returns the half extents of the sampled box.
func (c *Circle) Chord() image.Point { return c.dims }

// Rect launches uniformly inside a rectangle centered on its construction
// point.
type Rect struct {
	bounds image.Rectangle
}

// NewRect builds a w×h rectangle sampler centered on center.
func NewRect(center geom.Vec2, w, h int) *Rect {
	return &Rect{bounds: geom.CenteredRect(center, w, h)}
}

// Sample draws a point in [Min, Max] on both axes.
func (r *Rect) Sample(_ geom.Vec2, src rng.Source) geom.Vec2 {
	return geom.V(
		float64(src.Int(r.bounds.Min.X, r.bounds.Max.X)),
		float64(src.Int(r.bounds.Min.Y, r.bounds.Max.Y)),
	)
}

// Translate moves the rectangle by whole pixels.
func (r *Rect) Translate(dx, dy float64) {
	r.bounds = r.bounds.Add(image.Pt(int(dx), int(dy)))
}

func (r *Rect) followsLaunch() bool { return true }

// Bounds returns the launch rectangle.
func (r *Rect) Bounds() image.Rectangle { return r.bounds }

// Line launches within the bounding box of a rotatable segment. Sampling
// covers the whole box, not only the points on the segment.
type Line struct {
	p1, p2 geom.Vec2
	length int
	width  int
	angle  float64 // degrees, [0, 360)
}

// NewLine builds a horizontal segment of the given length starting at start.
// width is only used for drawing.
func NewLine(start geom.Vec2, length, width int) *Line {
	return &Line{
		p1:     start,
		p2:     start.Add(geom.V(float64(length), 0)),
		length: length,
		width:  width,
	}
}

// Sample draws a point in the bounding box of the endpoints.
func (l *Line) Sample(_ geom.Vec2, src rng.Source) geom.Vec2 {
	x1, x2 := int(l.p1.X), int(l.p2.X)
	y1, y2 := int(l.p1.Y), int(l.p2.Y)
	return geom.V(
		float64(src.Int(min(x1, x2), max(x1, x2))),
		float64(src.Int(min(y1, y2), max(y1, y2))),
	)
}

// Translate moves both endpoints.
func (l *Line) Translate(dx, dy float64) {
	d := geom.V(dx, dy)
	l.p1 = l.p1.Add(d)
	l.p2 = l.p2.Add(d)
}

// Rotate turns the segment about its first endpoint. Positive angles turn
// clockwise on screen.
func (l *Line) Rotate(deltaDeg float64) {
	l.angle = math.Mod(l.angle+deltaDeg, 360)
	if l.angle < 0 {
		l.angle += 360
	}

	rad := geom.DegToRad(l.angle)
	l.p2 = l.p1.Add(geom.V(
		float64(l.length)*math.Cos(rad),
		float64(l.length)*math.Sin(rad),
	))
}

// Endpoints returns both ends of the segment.
func (l *Line) Endpoints() (geom.Vec2, geom.Vec2) { return l.p1, l.p2 }

// Angle returns the rotation in degrees.
func (l *Line) Angle() float64 { return l.angle }

// Length returns the segment length.
func (l *Line) Length() int { return l.length }

// Width returns the drawing width.
func (l *Line) Width() int { return l.width }
