// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers use errors.Is.
//   • Implementations attach context with %w and the method tag.

package builder

import (
	"errors"
	"fmt"
)

// ErrTooFewVertices indicates that a size parameter (rows, cols, n, segments,
// rings) is smaller than the constructor's minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrOddSize indicates a constructor that splits its grid in halves was
// given an odd size.
var ErrOddSize = errors.New("builder: size must be even")

// ErrNeedRandSource indicates WithJitter was used without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// builderErrorf prefixes a sentinel with the method tag, keeping %w for Is().
func builderErrorf(method, format string, sentinel error, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), sentinel)
}
