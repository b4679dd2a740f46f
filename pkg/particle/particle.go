// Package particle implements a single simulated body: launch, force
// integration, fading and rebounding against static platforms.
package particle

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/platform"
	"github.com/decker502/particlelab/pkg/timer"
)

// State is the lifecycle stage of a particle.
type State int

const (
	// Inactive particles are built but not yet positioned.
	Inactive State = iota
	// Active particles move, fade and collide.
	Active
	// Dead particles wait to be swept by their emitter.
	Dead
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Rebound presets.
const (
	RubberBall  = 0.8
	BowlingBall = 0.3
	SplatBall   = 0.1
)

// SpeedTolerance is the per-axis speed under which a particle comes to rest.
const SpeedTolerance = 0.005

// side 碰撞探测点所在的边
type side int

const (
	sideTop side = iota
	sideBottom
	sideLeft
	sideRight
)

// Options carries the randomized per-particle values drawn by an emitter.
type Options struct {
	// Width and Height are the unscaled image extent.
	Width, Height int
	Scale         float64
	// Life is the lifespan in milliseconds.
	Life    int
	Angle   int // degrees, 0° = right, 90° = up
	Speed   float64
	Forces  geom.Vec2
	Fade    bool
	Rebound float64
	Color   color.RGBA
	Collide bool
}

// Particle is one simulated body. Particles are owned by the emitter that
// created them and are only mutated inside that emitter's Update.
type Particle struct {
	state State

	pos    geom.Vec2
	vel    geom.Vec2
	forces geom.Vec2

	width, height int
	rect          image.Rectangle
	scale         float64

	life      int
	lifeTimer timer.Timer
	opacity   float64
	fade      bool

	rebound float64
	color   color.RGBA
	collide bool
}

// New builds an inactive particle. The initial velocity is derived from the
// launch angle and speed.
func New(opts Options) Particle {
	w, h := geom.ScaledExtent(opts.Width, opts.Height, opts.Scale)
	return Particle{
		state:     Inactive,
		vel:       geom.FromAngle(float64(opts.Angle), opts.Speed),
		forces:    opts.Forces,
		width:     w,
		height:    h,
		rect:      image.Rect(0, 0, w, h),
		scale:     opts.Scale,
		life:      opts.Life,
		lifeTimer: *timer.New(time.Duration(opts.Life)*time.Millisecond, false),
		opacity:   1,
		fade:      opts.Fade,
		rebound:   opts.Rebound,
		color:     opts.Color,
		collide:   opts.Collide,
	}
}

// Launch positions an inactive particle and starts its life timer. Launching
// a particle that is already active or dead has no effect.
func (p *Particle) Launch(start geom.Vec2) {
	if p.state != Inactive {
		return
	}
	p.state = Active
	p.setPosition(start)
	p.lifeTimer.Activate()
}

// Update advances an active particle by dt against the given platforms.
func (p *Particle) Update(dt time.Duration, platforms []platform.Platform) {
	if p.state != Active {
		return
	}

	p.lifeTimer.Tick(dt)

	if p.lifeTimer.IsActive() {
		if p.fade && p.life > 0 {
			p.opacity = float64(p.lifeTimer.RemainingMillis()) / float64(p.life)
		}

		// 力按帧叠加，不乘以 dt
		p.vel = p.vel.Add(p.forces)

		p.translate(p.vel.Scale(dt.Seconds()))

		if p.collide && len(platforms) > 0 {
			p.probe(p.rect.Min.X+p.width/2, p.rect.Min.Y, platforms, sideTop)
			p.probe(p.rect.Min.X+p.width/2, p.rect.Min.Y+p.height, platforms, sideBottom)
			p.probe(p.rect.Min.X, p.rect.Min.Y+p.height/2, platforms, sideLeft)
			p.probe(p.rect.Min.X+p.width, p.rect.Min.Y+p.height/2, platforms, sideRight)
		}

		if math.Abs(p.vel.X) < SpeedTolerance && math.Abs(p.vel.Y) < SpeedTolerance {
			p.vel = geom.Vec2{}
			p.forces = geom.Vec2{}
		}
	} else if p.lifeTimer.IsFinished() {
		p.state = Dead
	}
}

// probe tests one probe point against every platform. Each hit repositions
// the particle flush with the platform edge and reflects the perpendicular
// velocity component scaled by the rebound coefficient.
func (p *Particle) probe(x, y int, platforms []platform.Platform, s side) {
	for _, plat := range platforms {
		box := plat.BoundingBox()
		if !geom.Contains(box, x, y) {
			continue
		}

		switch s {
		case sideTop:
			p.pos.Y = float64(box.Max.Y + p.height/2)
			p.vel.Y *= -p.rebound
		case sideBottom:
			p.pos.Y = float64(box.Min.Y - p.height/2)
			p.vel.Y *= -p.rebound
		case sideLeft:
			p.pos.X = float64(box.Max.X + p.width/2)
			p.vel.X *= -p.rebound
		case sideRight:
			p.pos.X = float64(box.Min.X - p.width/2)
			p.vel.X *= -p.rebound
		}
		p.setPosition(p.pos)
	}
}

func (p *Particle) setPosition(pos geom.Vec2) {
	p.pos = pos
	p.rect = geom.CenteredRect(p.pos, p.width, p.height)
}

func (p *Particle) translate(delta geom.Vec2) {
	p.setPosition(p.pos.Add(delta))
}

// State returns the lifecycle stage.
func (p *Particle) State() State { return p.state }

// Position returns the center of the particle.
func (p *Particle) Position() geom.Vec2 { return p.pos }

// Velocity returns the current velocity in pixels per second.
func (p *Particle) Velocity() geom.Vec2 { return p.vel }

// Forces returns the per-tick impulse still applied to the velocity.
func (p *Particle) Forces() geom.Vec2 { return p.forces }

// Box returns the bounding box centered on the position.
func (p *Particle) Box() image.Rectangle { return p.rect }

// Opacity returns the fade level in [0, 1].
func (p *Particle) Opacity() float64 { return p.opacity }

// Fades reports whether opacity tracks the remaining life.
func (p *Particle) Fades() bool { return p.fade }

// Rebound returns the rebound coefficient.
func (p *Particle) Rebound() float64 { return p.rebound }

// Scale returns the image scale drawn at creation.
func (p *Particle) Scale() float64 { return p.scale }

// Life returns the total lifespan in milliseconds.
func (p *Particle) Life() int { return p.life }

// Color returns the base color.
func (p *Particle) Color() color.RGBA { return p.color }

// Tint returns the color scaled by the current opacity.
func (p *Particle) Tint() color.RGBA {
	return color.RGBA{
		R: uint8(float64(p.color.R) * p.opacity),
		G: uint8(float64(p.color.G) * p.opacity),
		B: uint8(float64(p.color.B) * p.opacity),
		A: uint8(float64(p.color.A) * p.opacity),
	}
}

// Visible reports whether the particle should be drawn.
func (p *Particle) Visible() bool {
	return p.state == Active && p.opacity > 0
}
