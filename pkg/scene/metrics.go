package scene

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/decker502/particlelab/pkg/scene"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics holds the scene instruments. The live particle gauge reads an
// atomic snapshot so exporters may collect from their own goroutine.
type metrics struct {
	launched   metric.Int64Counter
	retired    metric.Int64Counter
	explosions metric.Int64Counter
	live       metric.Int64ObservableGauge

	liveParticles atomic.Int64
}

func newMetrics() (*metrics, error) {
	// Get meter from global OTel provider (returns no-op if not configured)
	m := meter()
	s := &metrics{}

	var err error
	s.launched, err = m.Int64Counter(
		"scene.particles.launched",
		metric.WithDescription("Total particles launched"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating launched counter: %w", err)
	}

	s.retired, err = m.Int64Counter(
		"scene.emitters.retired",
		metric.WithDescription("Emitters removed after finishing"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating retired counter: %w", err)
	}

	s.explosions, err = m.Int64Counter(
		"scene.explosions",
		metric.WithDescription("Explosions triggered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating explosions counter: %w", err)
	}

	s.live, err = m.Int64ObservableGauge(
		"scene.particles.live",
		metric.WithDescription("Particles currently owned by emitters"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live particles gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(s.live, s.liveParticles.Load())
			return nil
		},
		s.live,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live particles callback: %w", err)
	}

	return s, nil
}

func (s *metrics) addLaunched(name string, n int) {
	if n <= 0 {
		return
	}
	s.launched.Add(context.Background(), int64(n),
		metric.WithAttributes(attribute.String("emitter", name)))
}

func (s *metrics) addRetired(name string) {
	s.retired.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("emitter", name)))
}

func (s *metrics) addExplosion() {
	s.explosions.Add(context.Background(), 1)
}
