package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/platform"
	"github.com/decker502/particlelab/pkg/rng"
	"github.com/decker502/particlelab/pkg/scene"
)

// BuildPlatforms lays out the configured platforms. Aligned platforms are placed
// flush with the right or bottom screen edge.
func (c *SceneConfig) BuildPlatforms() []platform.Platform {
	platforms := make([]platform.Platform, 0, len(c.Platforms))
	for _, pc := range c.Platforms {
		x, y := pc.X, pc.Y
		if pc.AlignRight {
			x = c.Screen.Width - int(float64(c.Brick.Width)*pc.Scale)
		}
		if pc.AlignBottom {
			y = c.Screen.Height - int(float64(c.Brick.Height)*pc.Scale)
		}
		platforms = append(platforms, platform.New(c.Brick.Width, c.Brick.Height, pc.Scale, pc.Bricks, x, y, pc.Horizontal))
	}
	return platforms
}

// Build creates a scene holding every configured platform and emitter.
// Emitters draw from src and log through children of logger.
func Build(c *SceneConfig, src rng.Source, logger zerolog.Logger) (*scene.Scene, error) {
	s, err := scene.New(c.BuildPlatforms(),
		scene.WithLogger(logger),
		scene.WithSource(src),
		scene.WithSize(c.Screen.Width, c.Screen.Height),
		scene.WithExplosionParticle(c.Particle.Width, c.Particle.Height),
		scene.WithExplosionSize(c.Explosion.Particles),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	for _, ec := range c.Emitters {
		e, err := c.buildEmitter(ec, src, s.EmitterLogger(ec.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to build emitter %q: %w", ec.Name, err)
		}

		var tags []scene.Tag
		if ec.Launcher {
			tags = append(tags, scene.TagLauncher)
		}
		if ec.FollowCursor {
			tags = append(tags, scene.TagFollowCursor)
		}
		if err := s.AddEmitter(ec.Name, e, tags...); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("platforms", len(c.Platforms)).
		Int("emitters", len(c.Emitters)).
		Msg("scene built")
	return s, nil
}

func (c *SceneConfig) buildEmitter(ec EmitterConfig, src rng.Source, logger zerolog.Logger) (*emitter.Emitter, error) {
	p, err := c.EmitterParams(ec)
	if err != nil {
		return nil, err
	}
	opts := []emitter.Option{emitter.WithSource(src), emitter.WithLogger(logger)}

	switch ec.Kind {
	case KindCircle:
		return emitter.NewCircleEmitter(p, ec.Radius, opts...)
	case KindRect:
		return emitter.NewRectEmitter(p, ec.Size[0], ec.Size[1], opts...)
	case KindLine:
		return emitter.NewLineEmitter(p, ec.Length, ec.LineWidth, opts...)
	case KindCloud:
		return emitter.NewCloud(p, ec.Radius, intRange(ec.CloudSpeed), opts...)
	default:
		return emitter.New(p, opts...)
	}
}
