package stats

import (
	"math"
	"math/bits"
)

// SignificanceLevel is the acceptance threshold shared by the whole battery:
// a test passes iff its p-value is at least this level.
// NIST SP 800-22 convention; fixed by the suite, not per-test configurable.
const SignificanceLevel = 0.01

// minBlockCount is the smallest number of complete blocks the Block Frequency
// test will draw a conclusion from (NIST SP 800-22 §2.2 input size
// recommendation).
const minBlockCount = 20

// SuiteConfig controls a full battery run.
type SuiteConfig struct {
	// BlockSize is the Block Frequency block length M in bits.
	BlockSize int

	// IndeterminatePasses selects the verdict reported when a test cannot
	// decide (too few blocks, zero cumulative excursion). The default false
	// mirrors the historical policy of counting indeterminate as failed.
	IndeterminatePasses bool
}

// SuiteResult holds the verdicts of one battery run over one buffer.
// A true verdict means the test did not reject the randomness hypothesis.
type SuiteResult struct {
	Monobit        bool `json:"monobit"`
	BlockFrequency bool `json:"block_frequency"`
	Runs           bool `json:"runs"`
	CumulativeSums bool `json:"cumulative_sums"`
	Serial2        bool `json:"serial2"`

	// Indeterminate flags record verdicts that reflect policy rather than
	// evidence: the corresponding test could not be computed for this input.
	BlockFrequencyIndeterminate bool `json:"block_frequency_indeterminate,omitempty"`
	CumulativeSumsIndeterminate bool `json:"cumulative_sums_indeterminate,omitempty"`
}

// RunSuite applies all five bit-level tests to the buffer.
// The tests are independent and stateless; none consumes another's result.
func RunSuite(w []uint32, cfg SuiteConfig) (SuiteResult, error) {
	if len(w) == 0 {
		return SuiteResult{}, ErrEmptySample
	}
	if cfg.BlockSize <= 0 {
		return SuiteResult{}, ErrInvalidBlockSize
	}

	var res SuiteResult
	res.Monobit = monobitP(w) >= SignificanceLevel

	if p, ok := blockFrequencyP(w, cfg.BlockSize); ok {
		res.BlockFrequency = p >= SignificanceLevel
	} else {
		res.BlockFrequency = cfg.IndeterminatePasses
		res.BlockFrequencyIndeterminate = true
	}

	// A failed proportion precondition is a genuine rejection, not an
	// indeterminate outcome: the stream is demonstrably biased.
	p, ok := runsP(w)
	res.Runs = ok && p >= SignificanceLevel

	if p, ok := cumulativeSumsP(w); ok {
		res.CumulativeSums = p >= SignificanceLevel
	} else {
		res.CumulativeSums = cfg.IndeterminatePasses
		res.CumulativeSumsIndeterminate = true
	}

	res.Serial2 = serial2P(w) >= SignificanceLevel
	return res, nil
}

// Monobit reports whether the proportion of ones in the bit stream is
// consistent with randomness (NIST SP 800-22 §2.1, Frequency Test).
func Monobit(w []uint32) (bool, error) {
	if len(w) == 0 {
		return false, ErrEmptySample
	}
	return monobitP(w) >= SignificanceLevel, nil
}

func monobitP(w []uint32) float64 {
	var ones int64
	for _, v := range w {
		ones += int64(bits.OnesCount32(v))
	}
	n := bitLen(w)
	s := math.Abs(2.0*float64(ones)-float64(n)) / math.Sqrt(float64(n))
	return math.Erfc(s / math.Sqrt2)
}

// BlockFrequency reports whether the proportion of ones within blockSize-bit
// blocks is consistent with randomness (NIST SP 800-22 §2.2).
// Streams shorter than 20 complete blocks yield a false verdict without a
// statistic being computed.
func BlockFrequency(w []uint32, blockSize int) (bool, error) {
	if len(w) == 0 {
		return false, ErrEmptySample
	}
	if blockSize <= 0 {
		return false, ErrInvalidBlockSize
	}
	p, ok := blockFrequencyP(w, blockSize)
	return ok && p >= SignificanceLevel, nil
}

func blockFrequencyP(w []uint32, blockSize int) (float64, bool) {
	nBits := bitLen(w)
	nBlocks := nBits / blockSize
	if nBlocks < minBlockCount {
		return 0, false
	}

	var chi float64
	bit := 0
	for b := 0; b < nBlocks; b++ {
		ones := 0
		for i := 0; i < blockSize; i++ {
			ones += int(BitAt(w, bit))
			bit++
		}
		pi := float64(ones) / float64(blockSize)
		chi += (pi - 0.5) * (pi - 0.5)
	}
	chi *= 4.0 * float64(blockSize)

	p := math.Erfc(math.Sqrt(chi/2.0) / math.Sqrt(float64(nBlocks)/2.0))
	return p, true
}

// Runs reports whether the number of maximal runs of identical bits is
// consistent with randomness (NIST SP 800-22 §2.3).
// A one-proportion further than 2/sqrt(N) from 0.5 fails the precondition of
// the normal approximation and rejects immediately.
func Runs(w []uint32) (bool, error) {
	if len(w) == 0 {
		return false, ErrEmptySample
	}
	p, ok := runsP(w)
	return ok && p >= SignificanceLevel, nil
}

func runsP(w []uint32) (float64, bool) {
	n := bitLen(w)

	prev := BitAt(w, 0)
	ones := int64(prev)
	runCount := 1
	for i := 1; i < n; i++ {
		bit := BitAt(w, i)
		ones += int64(bit)
		if bit != prev {
			runCount++
			prev = bit
		}
	}

	pi := float64(ones) / float64(n)
	if math.Abs(pi-0.5) > 2.0/math.Sqrt(float64(n)) {
		return 0, false
	}

	expected := 2.0 * float64(n) * pi * (1.0 - pi)
	z := math.Abs(float64(runCount)-expected) / (2.0 * math.Sqrt(2.0*float64(n)) * pi * (1.0 - pi))
	return math.Erfc(z), true
}

// CumulativeSums reports whether the maximum excursion of the ±1 random walk
// over the bit stream is consistent with randomness (NIST SP 800-22 §2.13).
// A zero excursion (a stream balanced at every point) yields a false verdict
// without a statistic being computed.
func CumulativeSums(w []uint32) (bool, error) {
	if len(w) == 0 {
		return false, ErrEmptySample
	}
	p, ok := cumulativeSumsP(w)
	return ok && p >= SignificanceLevel, nil
}

func cumulativeSumsP(w []uint32) (float64, bool) {
	n := bitLen(w)

	var sum, zmax int64
	for i := 0; i < n; i++ {
		if BitAt(w, i) == 1 {
			sum++
		} else {
			sum--
		}
		if sum > zmax {
			zmax = sum
		} else if -sum > zmax {
			zmax = -sum
		}
	}

	if zmax == 0 {
		return 0, false
	}

	fn := float64(n)
	fz := float64(zmax)
	p := 1.0
	start := int((-(fn/fz) + 1.0) / 4.0)
	end := int((fn/fz - 1.0) / 4.0)
	for k := start; k <= end; k++ {
		a := (4.0*float64(k) + 1.0) * fz / math.Sqrt(2.0*fn)
		b := (4.0*float64(k) - 1.0) * fz / math.Sqrt(2.0*fn)
		p -= math.Erfc(a) - math.Erfc(b)
	}

	// The truncated series can leave p outside [0,1] for extreme excursions.
	// Clamping never flips the threshold comparison.
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return p, true
}

// Serial2 reports whether the frequencies of overlapping 2-bit patterns are
// consistent with randomness (NIST SP 800-22 §2.11, second order).
// The stream is treated as circular: the last bit pairs with the first.
func Serial2(w []uint32) (bool, error) {
	if len(w) == 0 {
		return false, ErrEmptySample
	}
	return serial2P(w) >= SignificanceLevel, nil
}

func serial2P(w []uint32) float64 {
	c1, c2 := serialCounts(w)

	dn := float64(c1[0] + c1[1])
	psi1 := float64(c1[0]*c1[0]+c1[1]*c1[1])*2.0/dn - dn

	var sq float64
	for _, c := range c2 {
		sq += float64(c * c)
	}
	psi2 := sq*4.0/dn - dn

	diff := math.Abs(psi2 - psi1)
	return math.Erfc(diff / (2.0 * math.Sqrt(2.0*dn)))
}

// serialCounts tabulates single-bit frequencies and circular overlapping
// 2-bit pattern frequencies. The pair counts always sum to the stream length.
func serialCounts(w []uint32) (c1 [2]uint64, c2 [4]uint64) {
	n := bitLen(w)
	first := BitAt(w, 0)

	prev := first
	c1[first]++
	for i := 1; i < n; i++ {
		b := BitAt(w, i)
		c1[b]++
		c2[(prev<<1)|b]++
		prev = b
	}
	c2[(prev<<1)|first]++
	return c1, c2
}
