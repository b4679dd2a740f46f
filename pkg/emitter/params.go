package emitter

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/decker502/particlelab/pkg/geom"
)

const (
	// Infinite is the budget of an emitter that never stops launching.
	Infinite = -1
	// MaxParticles caps finite budgets.
	MaxParticles = 5000
	// NoTime marks both launch interval bounds of a burst emitter.
	NoTime = -1
)

// Force presets. Forces can be added together to combine them.
var (
	Gravity = geom.V(0, 9.8)
	Wind    = geom.V(2, 0)
)

// Construction errors.
var (
	ErrInconsistentInterval = errors.New("launch interval mixes burst sentinel and duration")
	ErrNegativeBudget       = errors.New("negative particle budget")
	ErrBudgetTooLarge       = errors.New("particle budget exceeds maximum")
	ErrInfiniteBurst        = errors.New("burst emitter cannot have an infinite budget")
	ErrInvalidRange         = errors.New("range minimum exceeds maximum")
)

// IntRange is an inclusive integer range.
type IntRange struct {
	Min, Max int
}

// FloatRange is an inclusive range drawn at hundredth resolution.
type FloatRange struct {
	Min, Max float64
}

// Params is the full construction parameter set of an emitter.
type Params struct {
	// ImageWidth and ImageHeight are the extent of the placeholder image drawn
	// at the anchor. A zero extent or scale means the emitter has no image.
	ImageWidth, ImageHeight int
	ImageScale              float64

	Position geom.Vec2
	Budget   int
	// Interval is the launch cooldown in milliseconds. Both bounds set to
	// NoTime select burst mode.
	Interval IntRange

	// ParticleWidth and ParticleHeight are the unscaled particle image extent.
	ParticleWidth, ParticleHeight int

	Scale FloatRange
	Life  IntRange // milliseconds
	Angle IntRange // degrees
	Speed FloatRange

	Forces  geom.Vec2
	Rebound float64
	Color   color.RGBA
	Collide bool
	Fade    bool
}

// HasImage reports whether the emitter draws a placeholder at its anchor.
func (p Params) HasImage() bool {
	return p.ImageWidth > 0 && p.ImageHeight > 0 && p.ImageScale > 0
}

// Burst reports whether the interval selects burst mode.
func (p Params) Burst() bool {
	return p.Interval.Min < 0 && p.Interval.Max < 0
}

// Validate checks the parameter set and returns a wrapped sentinel error for
// the first problem found.
func (p Params) Validate() error {
	if (p.Interval.Min < 0) != (p.Interval.Max < 0) {
		return fmt.Errorf("interval [%d %d]: %w", p.Interval.Min, p.Interval.Max, ErrInconsistentInterval)
	}

	if p.Budget < 0 && p.Budget != Infinite {
		return fmt.Errorf("budget %d: %w", p.Budget, ErrNegativeBudget)
	}
	if p.Budget > MaxParticles {
		return fmt.Errorf("budget %d > %d: %w", p.Budget, MaxParticles, ErrBudgetTooLarge)
	}
	if p.Burst() && p.Budget == Infinite {
		return ErrInfiniteBurst
	}

	if !p.Burst() && p.Interval.Min > p.Interval.Max {
		return fmt.Errorf("interval [%d %d]: %w", p.Interval.Min, p.Interval.Max, ErrInvalidRange)
	}
	if p.Scale.Min > p.Scale.Max {
		return fmt.Errorf("scale [%v %v]: %w", p.Scale.Min, p.Scale.Max, ErrInvalidRange)
	}
	if p.Life.Min > p.Life.Max {
		return fmt.Errorf("life [%d %d]: %w", p.Life.Min, p.Life.Max, ErrInvalidRange)
	}
	if p.Angle.Min > p.Angle.Max {
		return fmt.Errorf("angle [%d %d]: %w", p.Angle.Min, p.Angle.Max, ErrInvalidRange)
	}
	if p.Speed.Min > p.Speed.Max {
		return fmt.Errorf("speed [%v %v]: %w", p.Speed.Min, p.Speed.Max, ErrInvalidRange)
	}

	return nil
}
