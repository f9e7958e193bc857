// Package seedclock turns string seeds into reproducible values in
// [0, 1). It exists so that allocation tie-breaking and time assignment
// stay deterministic across retries, previews, and tests.
//
// This is a reproducibility primitive, not a security primitive. It
// must never be used where unpredictability matters.
package seedclock

import "math"

const (
	hashMultiplier = 31
	sinScale       = 10000
)

// Draw maps a seed to a value in [0, 1). Equal seeds always produce
// equal output; seeds differing by one character produce
// uncorrelated-looking output.
func Draw(seed string) float64 {
	var h int32
	for _, r := range seed {
		h = h*hashMultiplier + int32(r)
	}
	v := math.Sin(float64(h)) * sinScale
	return v - math.Floor(v)
}

// DrawIndex scales Draw(seed) to an integer in [0, n). It returns 0
// when n is not positive.
func DrawIndex(seed string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(Draw(seed) * float64(n))
}
