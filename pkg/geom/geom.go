// Package geom holds the small amount of 2D math shared by the engine.
//
// Positions and velocities are float vectors in screen space (y grows
// downwards). Boxes are integer image.Rectangle values so that containment
// follows the half-open pixel convention: Min inclusive, Max exclusive.
package geom

import (
	"image"
	"math"
)

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// FromAngle returns the velocity of the given speed at angleDeg degrees.
// Angles follow the math convention (0° right, 90° up), so the y component is
// negated for screen space.
func FromAngle(angleDeg, speed float64) Vec2 {
	rad := DegToRad(angleDeg)
	return Vec2{
		X: speed * math.Cos(rad),
		Y: -speed * math.Sin(rad), // Y轴取反：数学坐标系→屏幕坐标系
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// CenteredRect returns a w×h box whose top-left corner is the truncated
// position minus half the (integer) extent.
func CenteredRect(pos Vec2, w, h int) image.Rectangle {
	x := int(pos.X) - w/2
	y := int(pos.Y) - h/2
	return image.Rect(x, y, x+w, y+h)
}

// ScaledExtent scales an image extent, truncating to whole pixels.
func ScaledExtent(w, h int, scale float64) (int, int) {
	return int(float64(w) * scale), int(float64(h) * scale)
}

// Contains reports whether (x, y) lies inside r (Max exclusive).
func Contains(r image.Rectangle, x, y int) bool {
	return image.Pt(x, y).In(r)
}
