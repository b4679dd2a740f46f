// Package scene is the per-frame driver around the emitter engine: it owns the
// platform layout, the named emitters and the explosions triggered by the
// user, and retires emitters once they are done.
package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/decker502/particlelab/pkg/ecs"
	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/platform"
	"github.com/decker502/particlelab/pkg/rng"
)

// Wall indices in the platform list. Drifting emitters bounce off these two.
const (
	LeftWall  = 0
	RightWall = 1
)

// DefaultExplosionSize is the particle count of a click explosion.
const DefaultExplosionSize = 100

var (
	ErrUnknownEmitter   = errors.New("unknown emitter")
	ErrDuplicateEmitter = errors.New("emitter name already in use")
	ErrEmptyName        = errors.New("emitter name is empty")
)

// Components stored on emitter entities.
type (
	// Named carries the lookup name of a user emitter.
	Named struct{ Name string }
	// Launcher tags emitters whose outline is toggled with the launcher view.
	Launcher struct{}
	// FollowCursor tags emitters that track the pointer.
	FollowCursor struct{}
	// Explosion tags emitters created by Explode.
	Explosion struct{}
)

// Tag marks an emitter for scene-level behavior.
type Tag int

const (
	TagLauncher Tag = iota + 1
	TagFollowCursor
)

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene logger. Emitter loggers derive from l itself, so
// they carry their own component field.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scene) {
		s.base = l
		s.logger = l.With().Str("component", "scene").Logger()
	}
}

// WithSource injects the random source used for explosions.
func WithSource(src rng.Source) Option {
	return func(s *Scene) {
		if src != nil {
			s.src = src
		}
	}
}

// WithExplosionParticle sets the unscaled particle extent of explosions.
func WithExplosionParticle(w, h int) Option {
	return func(s *Scene) {
		s.partW, s.partH = w, h
	}
}

// WithExplosionSize sets the particle count ExplosionSize reports. Values
// below 1 keep DefaultExplosionSize.
func WithExplosionSize(n int) Option {
	return func(s *Scene) {
		if n > 0 {
			s.explosionSize = n
		}
	}
}

// WithSize records the playfield size.
func WithSize(w, h int) Option {
	return func(s *Scene) {
		s.width, s.height = w, h
	}
}

// Stats is a snapshot for overlays.
type Stats struct {
	Emitters  int
	Particles int
	Launched  int
	Paused    bool
}

// Scene owns platforms and emitters and advances them once per frame.
type Scene struct {
	width, height int
	platforms     []platform.Platform

	em     *ecs.EntityManager
	byName map[string]ecs.EntityID

	paused           bool
	launchersVisible bool
	launchedTotal    int

	partW, partH  int
	explosionSize int

	src     rng.Source
	base    zerolog.Logger
	logger  zerolog.Logger
	metrics *metrics
}

// New creates a scene over the given platforms. Platforms 0 and 1 are the
// left and right walls.
func New(platforms []platform.Platform, opts ...Option) (*Scene, error) {
	s := &Scene{
		platforms:     platforms,
		em:            ecs.NewEntityManager(),
		byName:        make(map[string]ecs.EntityID),
		partW:         16,
		partH:         16,
		explosionSize: DefaultExplosionSize,
		src:           rng.Default(),
		base:          zerolog.Nop(),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := newMetrics()
	if err != nil {
		return nil, fmt.Errorf("scene metrics: %w", err)
	}
	s.metrics = m

	if len(platforms) < 2 {
		s.logger.Warn().Int("platforms", len(platforms)).Msg("fewer than two platforms, drifting emitters stay put")
	}
	return s, nil
}

// EmitterLogger returns the logger an emitter named name should use.
func (s *Scene) EmitterLogger(name string) zerolog.Logger {
	return s.base.With().Str("emitter", name).Logger()
}

// AddEmitter registers a named emitter.
func (s *Scene) AddEmitter(name string, e *emitter.Emitter, tags ...Tag) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("%q: %w", name, ErrDuplicateEmitter)
	}

	id := s.em.CreateEntity()
	s.em.AddComponent(id, e)
	s.em.AddComponent(id, &Named{Name: name})
	for _, tag := range tags {
		switch tag {
		case TagLauncher:
			s.em.AddComponent(id, &Launcher{})
			if s.launchersVisible != e.LauncherVisible() {
				e.ToggleVisibility()
			}
		case TagFollowCursor:
			s.em.AddComponent(id, &FollowCursor{})
		}
	}
	s.byName[name] = id

	s.logger.Debug().Str("emitter", name).Int("budget", e.Budget()).Msg("emitter added")
	return nil
}

// Update advances every running emitter by dt and removes the ones that are
// done. Paused scenes do not advance.
func (s *Scene) Update(dt time.Duration) {
	if s.paused {
		return
	}

	live := 0
	for _, id := range ecs.GetEntitiesWith1[*emitter.Emitter](s.em) {
		e, _ := ecs.GetComponent[*emitter.Emitter](s.em, id)
		if !e.Running() {
			live += e.ParticleCount()
			continue
		}

		before := e.Launched()
		e.Update(dt, s.platforms)
		launched := e.Launched() - before
		s.launchedTotal += launched
		s.metrics.addLaunched(s.nameOf(id), launched)

		if e.State() == emitter.Done {
			s.retire(id)
			continue
		}
		live += e.ParticleCount()
	}

	s.em.RemoveMarkedEntities()
	s.metrics.liveParticles.Store(int64(live))
}

func (s *Scene) retire(id ecs.EntityID) {
	name := s.nameOf(id)
	if n, ok := ecs.GetComponent[*Named](s.em, id); ok {
		delete(s.byName, n.Name)
	}
	s.em.DestroyEntity(id)
	s.metrics.addRetired(name)
	s.logger.Debug().Str("emitter", name).Msg("emitter retired")
}

func (s *Scene) nameOf(id ecs.EntityID) string {
	if n, ok := ecs.GetComponent[*Named](s.em, id); ok {
		return n.Name
	}
	if ecs.HasComponent[*Explosion](s.em, id) {
		return "explosion"
	}
	return "anonymous"
}

// Explode starts an explosion of n particles at (x, y). Points inside a
// platform are rejected and reported as false.
func (s *Scene) Explode(x, y float64, n int) (bool, error) {
	if platform.AnyContains(s.platforms, int(x), int(y)) {
		s.logger.Debug().Float64("x", x).Float64("y", y).Msg("explosion blocked by platform")
		return false, nil
	}

	e, err := emitter.NewExplosive(geom.V(x, y), n, s.partW, s.partH,
		emitter.WithSource(s.src),
		emitter.WithLogger(s.EmitterLogger("explosion")),
	)
	if err != nil {
		return false, fmt.Errorf("explosion at (%.0f, %.0f): %w", x, y, err)
	}

	id := s.em.CreateEntity()
	s.em.AddComponent(id, e)
	s.em.AddComponent(id, &Explosion{})
	s.metrics.addExplosion()

	s.logger.Info().Float64("x", x).Float64("y", y).Int("particles", n).Msg("explosion")
	return true, nil
}

// ExplosionSize is the particle count callers should pass to Explode for a
// user triggered explosion.
func (s *Scene) ExplosionSize() int { return s.explosionSize }

// Toggle turns a named emitter on or off and activates it. Drifting emitters
// also become visible.
func (s *Scene) Toggle(name string) error {
	e, ok := s.Emitter(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownEmitter)
	}

	e.ToggleOnOff()
	e.Activate()
	if _, drifting := e.Motion().(*emitter.Drift); drifting {
		e.ShowLauncher()
	}

	s.logger.Debug().Str("emitter", name).Bool("running", e.Running()).Msg("emitter toggled")
	return nil
}

// ToggleLaunchers flips the outline visibility of every launcher emitter.
func (s *Scene) ToggleLaunchers() bool {
	s.launchersVisible = !s.launchersVisible
	for _, id := range ecs.GetEntitiesWith2[*emitter.Emitter, *Launcher](s.em) {
		e, _ := ecs.GetComponent[*emitter.Emitter](s.em, id)
		if e.LauncherVisible() != s.launchersVisible {
			e.ToggleVisibility()
		}
	}
	return s.launchersVisible
}

// LaunchersVisible reports the launcher view flag.
func (s *Scene) LaunchersVisible() bool { return s.launchersVisible }

// TogglePause flips the paused flag and returns the new value.
func (s *Scene) TogglePause() bool {
	s.paused = !s.paused
	s.logger.Info().Bool("paused", s.paused).Msg("pause toggled")
	return s.paused
}

// Paused reports whether updates are suspended.
func (s *Scene) Paused() bool { return s.paused }

// MoveFollower moves every cursor-following emitter to (x, y).
func (s *Scene) MoveFollower(x, y float64) {
	for _, id := range ecs.GetEntitiesWith2[*emitter.Emitter, *FollowCursor](s.em) {
		e, _ := ecs.GetComponent[*emitter.Emitter](s.em, id)
		e.SetAnchorPosition(x, y)
	}
}

// Command translates and rotates the launch geometry of a named emitter.
func (s *Scene) Command(name string, dx, dy, dAngle float64) error {
	e, ok := s.Emitter(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownEmitter)
	}
	if dx != 0 || dy != 0 {
		e.Translate(dx, dy)
	}
	if dAngle != 0 {
		e.Rotate(dAngle)
	}
	return nil
}

// Emitter looks up a named emitter.
func (s *Scene) Emitter(name string) (*emitter.Emitter, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*emitter.Emitter](s.em, id)
}

// EachEmitter visits every emitter in creation order. Explosions are reported
// with the name "explosion".
func (s *Scene) EachEmitter(fn func(name string, e *emitter.Emitter)) {
	for _, id := range ecs.GetEntitiesWith1[*emitter.Emitter](s.em) {
		e, _ := ecs.GetComponent[*emitter.Emitter](s.em, id)
		fn(s.nameOf(id), e)
	}
}

// Platforms returns the static platform list.
func (s *Scene) Platforms() []platform.Platform { return s.platforms }

// Size returns the playfield size.
func (s *Scene) Size() (int, int) { return s.width, s.height }

// Stats returns counters for overlays.
func (s *Scene) Stats() Stats {
	st := Stats{Launched: s.launchedTotal, Paused: s.paused}
	s.EachEmitter(func(_ string, e *emitter.Emitter) {
		st.Emitters++
		st.Particles += e.ParticleCount()
	})
	return st
}
