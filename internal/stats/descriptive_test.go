package stats

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if b == 0 {
		return diff <= tol
	}
	return diff/math.Abs(b) <= tol
}

func TestMean(t *testing.T) {
	t.Run("EmptyReturnsError", func(t *testing.T) {
		if _, err := Mean(nil); !errors.Is(err, ErrEmptySample) {
			t.Errorf("Expected ErrEmptySample, got %v", err)
		}
	})

	t.Run("KnownValues", func(t *testing.T) {
		testCases := []struct {
			data []uint32
			want float64
		}{
			{[]uint32{0}, 0},
			{[]uint32{10}, 10},
			{[]uint32{1, 2, 3, 4}, 2.5},
			{[]uint32{0, math.MaxUint32}, float64(math.MaxUint32) / 2},
		}
		for _, tc := range testCases {
			got, err := Mean(tc.data)
			if err != nil {
				t.Fatalf("Mean(%v) failed: %v", tc.data, err)
			}
			if got != tc.want {
				t.Errorf("Mean(%v) = %v, want %v", tc.data, got, tc.want)
			}
		}
	})

	t.Run("PermutationInvariant", func(t *testing.T) {
		a := []uint32{5, 1, 9, 7, 3, 3, 8}
		b := []uint32{3, 8, 5, 7, 9, 1, 3}
		ma, _ := Mean(a)
		mb, _ := Mean(b)
		if ma != mb {
			t.Errorf("Mean changed under permutation: %v vs %v", ma, mb)
		}
	})

	t.Run("LargeValuesNoOverflow", func(t *testing.T) {
		// 1000 full-range values would overflow a 32-bit accumulator.
		data := make([]uint32, 1000)
		for i := range data {
			data[i] = math.MaxUint32
		}
		got, err := Mean(data)
		if err != nil {
			t.Fatalf("Mean failed: %v", err)
		}
		if got != float64(math.MaxUint32) {
			t.Errorf("Mean = %v, want %v", got, float64(math.MaxUint32))
		}
	})
}

func TestStdev(t *testing.T) {
	t.Run("EmptyReturnsError", func(t *testing.T) {
		if _, err := Stdev(nil, 0); !errors.Is(err, ErrEmptySample) {
			t.Errorf("Expected ErrEmptySample, got %v", err)
		}
	})

	t.Run("AllEqualIsZero", func(t *testing.T) {
		data := []uint32{42, 42, 42, 42, 42}
		m, _ := Mean(data)
		sd, err := Stdev(data, m)
		if err != nil {
			t.Fatalf("Stdev failed: %v", err)
		}
		if sd != 0 {
			t.Errorf("Stdev of constant sample = %v, want 0", sd)
		}
	})

	t.Run("PopulationVariance", func(t *testing.T) {
		// Population stdev of {2, 4, 4, 4, 5, 5, 7, 9} around mean 5 is 2.
		data := []uint32{2, 4, 4, 4, 5, 5, 7, 9}
		m, _ := Mean(data)
		if m != 5 {
			t.Fatalf("Mean = %v, want 5", m)
		}
		sd, err := Stdev(data, m)
		if err != nil {
			t.Fatalf("Stdev failed: %v", err)
		}
		if sd != 2 {
			t.Errorf("Stdev = %v, want 2", sd)
		}
	})

	t.Run("UsesGivenMean", func(t *testing.T) {
		// Deviations are measured from the supplied mean, not a recomputed one.
		data := []uint32{3, 3, 3}
		sd, err := Stdev(data, 0)
		if err != nil {
			t.Fatalf("Stdev failed: %v", err)
		}
		if sd != 3 {
			t.Errorf("Stdev around mean 0 = %v, want 3", sd)
		}
	})
}

func TestCoeffVar(t *testing.T) {
	t.Run("ZeroMeanIsZero", func(t *testing.T) {
		if cv := CoeffVar(0.0, 12.5); cv != 0.0 {
			t.Errorf("CoeffVar(0, 12.5) = %v, want 0", cv)
		}
	})

	t.Run("Ratio", func(t *testing.T) {
		if cv := CoeffVar(4.0, 2.0); cv != 0.5 {
			t.Errorf("CoeffVar(4, 2) = %v, want 0.5", cv)
		}
	})
}
