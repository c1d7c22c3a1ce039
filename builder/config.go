// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • size   = 1.0  (edge length of one grid cell)
//   • jitter = 0.0  (no displacement)
//   • rng    = nil  (pure/deterministic unless seeded)

package builder

import (
	"math/rand"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors (immutable to callers).
type builderConfig struct {
	// Cell edge length; > 0.
	size float64
	// Interior displacement as a fraction of size; in [0, 0.5).
	jitter float64
	// RNG for jitter; nil means no randomness.
	rng *rand.Rand
}

const (
	defaultSize   = 1.0
	defaultJitter = 0.0
)

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order (later overrides earlier).
// Complexity: O(len(opts)) time, O(1) space.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		size:   defaultSize,
		jitter: defaultJitter,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
