package towers

import (
	"math"
	"math/rand"
)

// Source supplies uniform random floats in [0, 1). Injectable so layout and
// visibility behavior are deterministic under test.
type Source interface {
	// Float64 returns a uniform random value in [0, 1).
	//
	// Returns:
	//   - float64: the next random value
	Float64() float64
}

// NewSource returns a seeded Source backed by math/rand. Each Tower gets its
// own Source so the visibility tickers never share unsynchronized state.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - Source: the seeded source
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Gaussian samples a normal distribution via the Box-Muller transform.
//
// Parameters:
//   - src: the uniform source to draw from
//   - mean: the distribution mean
//   - stddev: the distribution standard deviation
//
// Returns:
//   - float64: the sampled value
func Gaussian(src Source, mean, stddev float64) float64 {
	u1 := src.Float64()
	u2 := src.Float64()
	// Box-Muller needs u1 > 0 for the log.
	for u1 == 0 {
		u1 = src.Float64()
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}
