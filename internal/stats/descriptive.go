// Package stats implements the statistical test battery used to evaluate
// pseudo-random number generator output quality.
// GLI-19 §3.2.2: Statistical Analysis of RNG output
//
// Every function is a pure transformation of one sample buffer: no state is
// held across calls, so independent buffers may be analyzed concurrently
// without synchronization.
package stats

import (
	"errors"
	"math"
)

var (
	ErrEmptySample      = errors.New("sample buffer must not be empty")
	ErrInvalidBins      = errors.New("bin count must be positive")
	ErrInvalidRange     = errors.New("domain upper bound must be positive")
	ErrInvalidBlockSize = errors.New("block size must be positive")
)

// Mean returns the arithmetic mean of the sample.
// The sum is accumulated in a uint64 so that buffers of up to 2^32 full-range
// 32-bit values cannot overflow before the floating-point division.
func Mean(data []uint32) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptySample
	}
	var sum uint64
	for _, v := range data {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(data)), nil
}

// Stdev returns the population standard deviation of the sample around the
// given mean. The mean is a parameter rather than recomputed so the caller
// controls consistency between the two statistics.
func Stdev(data []uint32, mean float64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptySample
	}
	var acc float64
	for _, v := range data {
		d := float64(v) - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(data))), nil
}

// CoeffVar returns the coefficient of variation stdev/mean.
// A zero mean yields exactly 0.0 so degenerate all-zero samples still
// produce a verdict instead of a division by zero.
func CoeffVar(mean, stdev float64) float64 {
	if mean == 0.0 {
		return 0.0
	}
	return stdev / mean
}
