// Package rng defines the random source shared by emitters and samplers.
//
// The engine only needs two draws: a uniform integer in an inclusive range and
// a uniform float in a half-open range. Tests inject a seeded Source so that a
// whole simulation run is reproducible.
package rng

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source draws uniform random numbers.
type Source interface {
	// Int returns a uniform integer in [min, max]. When max < min it returns min.
	Int(min, max int) int
	// Float returns a uniform float in [min, max). When max <= min it returns min.
	Float(min, max float64) float64
}

// PCG is a Source backed by a seeded PCG generator. It is not safe for
// concurrent use; the simulation is single-threaded.
type PCG struct {
	r *rand.Rand
}

// New creates a deterministic Source from a seed.
func New(seed uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Int returns a uniform integer in [min, max].
func (p *PCG) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.r.IntN(max-min+1)
}

// Float returns a uniform float in [min, max).
func (p *PCG) Float(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + p.r.Float64()*(max-min)
}

var (
	defaultMu  sync.Mutex
	defaultSrc Source = New(uint64(time.Now().UnixNano()))
)

// Default returns the process-wide source used when no source is injected.
func Default() Source {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSrc
}

// SetDefault replaces the process-wide source, typically with a seeded one.
func SetDefault(src Source) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSrc = src
}

// Seed replaces the process-wide source with New(seed).
func Seed(seed uint64) {
	SetDefault(New(seed))
}
