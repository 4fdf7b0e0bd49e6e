package stats

import (
	"errors"
	"testing"
)

func TestChiSquared(t *testing.T) {
	t.Run("InvalidParameters", func(t *testing.T) {
		testCases := []struct {
			name    string
			data    []uint32
			bins    int
			maxVal  uint64
			wantErr error
		}{
			{"EmptySample", nil, 10, 1 << 32, ErrEmptySample},
			{"ZeroBins", []uint32{1}, 0, 1 << 32, ErrInvalidBins},
			{"NegativeBins", []uint32{1}, -3, 1 << 32, ErrInvalidBins},
			{"ZeroRange", []uint32{1}, 10, 0, ErrInvalidRange},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := ChiSquared(tc.data, tc.bins, tc.maxVal); !errors.Is(err, tc.wantErr) {
					t.Errorf("Expected %v, got %v", tc.wantErr, err)
				}
			})
		}
	})

	t.Run("PerfectlyUniformIsZero", func(t *testing.T) {
		// 16 values over [0,16) with 4 bins: each bin receives exactly 4.
		data := make([]uint32, 16)
		for i := range data {
			data[i] = uint32(i)
		}
		chi2, err := ChiSquared(data, 4, 16)
		if err != nil {
			t.Fatalf("ChiSquared failed: %v", err)
		}
		if chi2 != 0 {
			t.Errorf("ChiSquared of perfect uniform = %v, want 0", chi2)
		}
	})

	t.Run("SingleBinIsZero", func(t *testing.T) {
		chi2, err := ChiSquared([]uint32{1, 5, 9}, 1, 16)
		if err != nil {
			t.Fatalf("ChiSquared failed: %v", err)
		}
		if chi2 != 0 {
			t.Errorf("ChiSquared with one bin = %v, want 0", chi2)
		}
	})

	t.Run("AllInOneBin", func(t *testing.T) {
		// 8 values in bin 0 of 4: observed (8,0,0,0), expected 2 each,
		// chi2 = 36/2 + 3*4/2 = 24.
		data := []uint32{0, 1, 2, 3, 0, 1, 2, 3}
		chi2, err := ChiSquared(data, 4, 16)
		if err != nil {
			t.Fatalf("ChiSquared failed: %v", err)
		}
		if chi2 != 24 {
			t.Errorf("ChiSquared = %v, want 24", chi2)
		}
	})

	t.Run("OutOfDomainValueClampsToLastBin", func(t *testing.T) {
		// A value at or above maxVal must land in the last bin rather than
		// index past the table.
		chi2, err := ChiSquared([]uint32{16, 17}, 4, 16)
		if err != nil {
			t.Fatalf("ChiSquared failed: %v", err)
		}
		// Both values in bin 3: (2-0.5)^2/0.5 + 3*(0.5)^2/0.5 = 4.5+1.5 = 6.
		if chi2 != 6 {
			t.Errorf("ChiSquared = %v, want 6", chi2)
		}
	})
}

func TestChiSquaredCritical(t *testing.T) {
	t.Run("KnownQuantiles", func(t *testing.T) {
		testCases := []struct {
			df         int
			confidence float64
			want       float64
		}{
			{9, 0.99, 21.666},
			{99, 0.99, 134.642},
			{999, 0.99, 1105.917},
		}
		for _, tc := range testCases {
			got, err := ChiSquaredCritical(tc.df, tc.confidence)
			if err != nil {
				t.Fatalf("ChiSquaredCritical(%d, %v) failed: %v", tc.df, tc.confidence, err)
			}
			if !almostEqual(got, tc.want, 1e-4) {
				t.Errorf("ChiSquaredCritical(%d, %v) = %v, want ~%v", tc.df, tc.confidence, got, tc.want)
			}
		}
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		if _, err := ChiSquaredCritical(0, 0.99); err == nil {
			t.Error("Expected error for zero degrees of freedom")
		}
		if _, err := ChiSquaredCritical(10, 1.5); err == nil {
			t.Error("Expected error for confidence outside (0,1)")
		}
	})
}
