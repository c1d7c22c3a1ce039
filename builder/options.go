// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// options.go: functional options for the builder package.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand"
)

// BuilderOption customizes a constructor by mutating a builderConfig
// before the mesh is assembled.
type BuilderOption func(*builderConfig)

// WithSize sets the edge length of one grid cell (also the ring spacing of
// Cylinder). Panics if h <= 0.
func WithSize(h float64) BuilderOption {
	if h <= 0 {
		panic("builder: WithSize(h<=0)")
	}
	return func(c *builderConfig) {
		c.size = h
	}
}

// WithJitter displaces interior vertices in-plane by up to frac·size.
// Requires an RNG (WithSeed or WithRand). Panics unless 0 <= frac < 0.5,
// which keeps every triangle non-inverted.
func WithJitter(frac float64) BuilderOption {
	if frac < 0 || frac >= 0.5 {
		panic("builder: WithJitter(frac out of [0,0.5))")
	}
	return func(c *builderConfig) {
		c.jitter = frac
	}
}

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}
