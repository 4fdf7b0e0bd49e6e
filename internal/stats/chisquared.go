package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquared computes the chi-squared goodness-of-fit statistic of the sample
// against a uniform distribution over [0, maxVal), tabulated into bins
// equal-width buckets.
// GLI-19 §3.2.2: the primary distributional uniformity check.
//
// The raw statistic is returned; interpret it against bins-1 degrees of
// freedom (see ChiSquaredCritical). Small samples relative to the bin count
// inflate the statistic, which is expected and not guarded against.
func ChiSquared(data []uint32, bins int, maxVal uint64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptySample
	}
	if bins <= 0 {
		return 0, ErrInvalidBins
	}
	if maxVal == 0 {
		return 0, ErrInvalidRange
	}

	// The bin table is the only allocation in the whole battery; its
	// lifetime is exactly this call.
	freq := make([]uint64, bins)
	for _, v := range data {
		idx := int(uint64(v) * uint64(bins) / maxVal)
		if idx >= bins {
			// Values at or above maxVal clamp into the last bin.
			idx = bins - 1
		}
		freq[idx]++
	}

	expected := float64(len(data)) / float64(bins)
	var chi2 float64
	for _, count := range freq {
		diff := float64(count) - expected
		chi2 += diff * diff / expected
	}
	return chi2, nil
}

// ChiSquaredCritical returns the rejection threshold for a chi-squared
// statistic with df degrees of freedom at the given confidence level
// (e.g. 0.99). A statistic above the threshold rejects uniformity.
func ChiSquaredCritical(df int, confidence float64) (float64, error) {
	if df <= 0 {
		return 0, fmt.Errorf("degrees of freedom must be positive, got %d", df)
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("confidence must be in (0, 1), got %g", confidence)
	}
	dist := distuv.ChiSquared{K: float64(df)}
	return dist.Quantile(confidence), nil
}
