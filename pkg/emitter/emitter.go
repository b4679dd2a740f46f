// Package emitter owns particle collections and decides when, where and how
// many particles to launch.
//
// One Emitter type covers every launcher shape: the spawn policy (continuous
// or burst) is picked from the launch interval, the launch area comes from a
// pluggable Sampler and cloud drift is an optional Motion.
package emitter

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/particle"
	"github.com/decker502/particlelab/pkg/platform"
	"github.com/decker502/particlelab/pkg/rng"
	"github.com/decker502/particlelab/pkg/timer"
)

// State is the lifecycle stage of an emitter.
type State int

const (
	// Inactive emitters wait to be activated.
	Inactive State = iota
	// Active emitters launch particles.
	Active
	// Dead emitters have launched their whole budget but still own particles.
	Dead
	// Done emitters own nothing and can be discarded.
	Done
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Dead:
		return "dead"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// burstDelay is the spawn timer of a burst emitter; it expires on the first
// tick after activation.
const burstDelay = time.Millisecond

// Motion moves an emitter's launch geometry once per update.
type Motion interface {
	Move(e *Emitter, platforms []platform.Platform)
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithSource injects the random source. The process default is used otherwise.
func WithSource(src rng.Source) Option {
	return func(e *Emitter) {
		if src != nil {
			e.src = src
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Emitter) {
		e.logger = l.With().Str("component", "emitter").Logger()
	}
}

// WithSampler replaces the default Point sampler.
func WithSampler(s Sampler) Option {
	return func(e *Emitter) {
		if s != nil {
			e.sampler = s
		}
	}
}

// WithMotion attaches a motion applied before every update.
func WithMotion(m Motion) Option {
	return func(e *Emitter) {
		e.motion = m
	}
}

// Emitter owns a particle arena and a spawn policy.
type Emitter struct {
	params Params

	state    State
	running  bool
	visible  bool
	drawn    bool
	burst    bool
	finished bool
	launched int

	anchor     geom.Vec2
	imgW, imgH int

	launchTimer *timer.Timer
	particles   slots[particle.Particle]

	sampler Sampler
	motion  Motion
	src     rng.Source
	logger  zerolog.Logger
}

// New validates p and builds an emitter.
//
// Emitters with a placeholder image start Inactive and stopped, waiting for
// the caller to toggle them on. Emitters without one start Active and running.
func New(p Params, opts ...Option) (*Emitter, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid emitter params: %w", err)
	}

	e := &Emitter{
		params:  p,
		anchor:  p.Position,
		burst:   p.Burst(),
		drawn:   p.HasImage(),
		sampler: Point{},
		src:     rng.Default(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.drawn {
		e.imgW, e.imgH = geom.ScaledExtent(p.ImageWidth, p.ImageHeight, p.ImageScale)
		e.state = Inactive
		e.running = false
	} else {
		e.state = Active
		e.running = true
	}

	if e.burst {
		e.launchTimer = timer.New(burstDelay, true)
	} else {
		e.launchTimer = timer.New(e.nextInterval(), false)
	}

	return e, nil
}

// Update advances the emitter and every particle it owns by dt.
func (e *Emitter) Update(dt time.Duration, platforms []platform.Platform) {
	if e.motion != nil {
		e.motion.Move(e, platforms)
	}

	if e.state == Active {
		e.launchTimer.Tick(dt)

		if e.burst {
			e.launchAll()
		} else if e.params.Budget == Infinite || e.launched < e.params.Budget {
			e.launchOne()
		}

		if e.params.Budget != Infinite && e.launched >= e.params.Budget {
			e.setState(Dead)
		}
	}

	e.particles.each(func(p *particle.Particle) {
		if p.State() == particle.Active {
			p.Update(dt, platforms)
		}
	})
	e.particles.sweep(func(p *particle.Particle) bool {
		return p.State() == particle.Dead
	})

	if e.state == Dead && e.particles.count() == 0 {
		e.setState(Done)
	}
}

// launchOne launches a single particle once the cooldown has run out.
func (e *Emitter) launchOne() {
	if e.launchTimer.IsActive() {
		return
	}

	p := e.newParticle()
	pos := e.sampler.Sample(e.anchor, e.src)
	if f, ok := e.sampler.(anchorFollower); ok && f.followsLaunch() {
		e.anchor = pos
	}
	p.Launch(pos)
	e.particles.insert(p)
	e.launched++

	e.launchTimer.Reset(true, e.nextInterval())
}

// launchAll creates and launches the whole budget in one pass, exactly once.
func (e *Emitter) launchAll() {
	if e.finished || !e.launchTimer.IsFinished() {
		return
	}

	for e.launched < e.params.Budget {
		p := e.newParticle()
		p.Launch(e.sampler.Sample(e.anchor, e.src))
		e.particles.insert(p)
		e.launched++
	}

	e.finished = true
	e.logger.Debug().Int("particles", e.launched).Msg("burst launched")
}

// newParticle draws the randomized particle values. Scale and speed are drawn
// in hundredths.
func (e *Emitter) newParticle() particle.Particle {
	p := e.params
	return particle.New(particle.Options{
		Width:   p.ParticleWidth,
		Height:  p.ParticleHeight,
		Scale:   e.hundredths(p.Scale),
		Life:    e.src.Int(p.Life.Min, p.Life.Max),
		Angle:   e.src.Int(p.Angle.Min, p.Angle.Max),
		Speed:   e.hundredths(p.Speed),
		Forces:  p.Forces,
		Fade:    p.Fade,
		Rebound: p.Rebound,
		Color:   p.Color,
		Collide: p.Collide,
	})
}

func (e *Emitter) hundredths(r FloatRange) float64 {
	lo := int(math.Round(r.Min * 100))
	hi := int(math.Round(r.Max * 100))
	return float64(e.src.Int(lo, hi)) / 100
}

func (e *Emitter) nextInterval() time.Duration {
	ms := e.src.Int(e.params.Interval.Min, e.params.Interval.Max)
	return time.Duration(ms) * time.Millisecond
}

func (e *Emitter) setState(s State) {
	if e.state == s {
		return
	}
	e.logger.Debug().
		Stringer("from", e.state).
		Stringer("to", s).
		Int("launched", e.launched).
		Msg("emitter state changed")
	e.state = s
}

// State returns the lifecycle stage.
func (e *Emitter) State() State { return e.state }

// Running reports whether the caller should keep updating the emitter.
func (e *Emitter) Running() bool { return e.running }

// SetRunning sets the run flag.
func (e *Emitter) SetRunning(running bool) { e.running = running }

// ToggleOnOff flips the run flag.
func (e *Emitter) ToggleOnOff() { e.running = !e.running }

// Activate moves the emitter to Active from any state. A finite emitter whose
// budget is spent drops back to Dead on its next update.
func (e *Emitter) Activate() { e.setState(Active) }

// LauncherVisible reports whether the launcher outline should be drawn.
func (e *Emitter) LauncherVisible() bool { return e.visible }

// ToggleVisibility flips the launcher outline visibility.
func (e *Emitter) ToggleVisibility() { e.visible = !e.visible }

// ShowLauncher makes the launcher outline visible.
func (e *Emitter) ShowLauncher() { e.visible = true }

// SetAnchorPosition moves the anchor particles launch from.
func (e *Emitter) SetAnchorPosition(x, y float64) { e.anchor = geom.V(x, y) }

// Anchor returns the current anchor.
func (e *Emitter) Anchor() geom.Vec2 { return e.anchor }

// Translate moves the launch geometry together with the anchor, so the
// placeholder box stays on the geometry.
func (e *Emitter) Translate(dx, dy float64) {
	if t, ok := e.sampler.(Translatable); ok {
		t.Translate(dx, dy)
	}
	e.anchor = e.anchor.Add(geom.V(dx, dy))
}

// Rotate turns the launch geometry when the sampler supports it.
func (e *Emitter) Rotate(deltaDeg float64) {
	if r, ok := e.sampler.(Rotatable); ok {
		r.Rotate(deltaDeg)
	}
}

// Launched returns how many particles were launched so far.
func (e *Emitter) Launched() int { return e.launched }

// Budget returns the particle budget, possibly Infinite.
func (e *Emitter) Budget() int { return e.params.Budget }

// IsBurst reports whether the emitter launches its budget at once.
func (e *Emitter) IsBurst() bool { return e.burst }

// ParticleCount returns the number of particles still owned.
func (e *Emitter) ParticleCount() int { return e.particles.count() }

// EachParticle visits every owned particle in slot order. The pointer is only
// valid during the call.
func (e *Emitter) EachParticle(fn func(p *particle.Particle)) {
	e.particles.each(fn)
}

// Drawn reports whether the emitter has a placeholder image.
func (e *Emitter) Drawn() bool { return e.drawn }

// Box returns the placeholder image box centered on the anchor.
func (e *Emitter) Box() image.Rectangle {
	return geom.CenteredRect(e.anchor, e.imgW, e.imgH)
}

// Color returns the particle color.
func (e *Emitter) Color() color.RGBA { return e.params.Color }

// Sampler returns the launch area sampler.
func (e *Emitter) Sampler() Sampler { return e.sampler }

// Motion returns the attached motion, if any.
func (e *Emitter) Motion() Motion { return e.motion }

// Params returns the construction parameters.
func (e *Emitter) Params() Params { return e.params }
