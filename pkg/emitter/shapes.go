package emitter

import (
	"fmt"
	"image/color"

	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/particle"
	"github.com/decker502/particlelab/pkg/platform"
)

// NewCircleEmitter builds an emitter launching from a circle of the given
// radius centered on p.Position.
func NewCircleEmitter(p Params, radius int, opts ...Option) (*Emitter, error) {
	e, err := New(p, opts...)
	if err != nil {
		return nil, err
	}
	e.sampler = NewCircle(p.Position, radius, p.Angle, e.src)
	return e, nil
}

// NewRectEmitter builds an emitter launching from a w×h rectangle centered on
// p.Position.
func NewRectEmitter(p Params, w, h int, opts ...Option) (*Emitter, error) {
	e, err := New(p, opts...)
	if err != nil {
		return nil, err
	}
	e.sampler = NewRect(p.Position, w, h)
	return e, nil
}

// NewLineEmitter builds an emitter launching from a horizontal segment that
// starts at p.Position.
func NewLineEmitter(p Params, length, width int, opts ...Option) (*Emitter, error) {
	e, err := New(p, opts...)
	if err != nil {
		return nil, err
	}
	e.sampler = NewLine(p.Position, length, width)
	return e, nil
}

// Drift moves a circle launcher horizontally and reverses when the emitter
// image reaches either wall. Walls are platforms 0 (left) and 1 (right).
type Drift struct {
	speed int // pixels per update
}

// NewCloud builds a drifting circle launcher. The drift speed is drawn once
// from speed.
func NewCloud(p Params, radius int, speed IntRange, opts ...Option) (*Emitter, error) {
	if speed.Min > speed.Max {
		return nil, fmt.Errorf("cloud speed [%d %d]: %w", speed.Min, speed.Max, ErrInvalidRange)
	}

	e, err := New(p, opts...)
	if err != nil {
		return nil, err
	}
	e.motion = &Drift{speed: e.src.Int(speed.Min, speed.Max)}
	e.sampler = NewCircle(p.Position, radius, p.Angle, e.src)
	return e, nil
}

// Move bounces off the walls and shifts the circle center.
func (d *Drift) Move(e *Emitter, platforms []platform.Platform) {
	c, ok := e.sampler.(*Circle)
	if !ok || len(platforms) < 2 {
		return
	}

	left := platforms[0].BoundingBox()
	right := platforms[1].BoundingBox()
	half := e.imgW / 2
	x := int(c.center.X)
	if x+half >= right.Min.X || x-half <= left.Max.X {
		d.speed = -d.speed
	}

	c.Translate(float64(d.speed), 0)
	e.anchor = c.center
}

// Speed returns the signed drift speed.
func (d *Drift) Speed() int { return d.speed }

// Explosive preset values.
var explosive = Params{
	Interval: IntRange{Min: NoTime, Max: NoTime},
	Scale:    FloatRange{Min: 0.1, Max: 0.3},
	Life:     IntRange{Min: 1500, Max: 3500},
	Angle:    IntRange{Min: 0, Max: 360},
	Speed:    FloatRange{Min: 0, Max: 850},
	Rebound:  particle.BowlingBall,
	Color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Collide:  true,
	Fade:     true,
}

// NewExplosive builds a burst emitter of n particles at pos using the fixed
// explosion preset. partW and partH are the particle image extent.
func NewExplosive(pos geom.Vec2, n, partW, partH int, opts ...Option) (*Emitter, error) {
	p := explosive
	p.Position = pos
	p.Budget = n
	p.ParticleWidth = partW
	p.ParticleHeight = partH
	p.Forces = Gravity
	return New(p, opts...)
}
