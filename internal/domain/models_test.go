package domain

import (
	"errors"
	"testing"
)

func TestEvaluationRequestValidate(t *testing.T) {
	limits := Limits{MaxSampleSize: 100000, MaxTrials: 50, MaxBins: 10000}

	t.Run("ValidRequest", func(t *testing.T) {
		req := EvaluationRequest{
			Generator:   "lcg",
			Seed:        1234,
			SampleSizes: []int{1000, 10000},
			Trials:      10,
		}
		if err := req.Validate(limits); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("DefaultsSkipValidation", func(t *testing.T) {
		// Zero-valued optional fields mean "use configured default".
		req := EvaluationRequest{Generator: "xorshift32"}
		if err := req.Validate(limits); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("MissingGenerator", func(t *testing.T) {
		req := EvaluationRequest{SampleSizes: []int{1000}}
		if err := req.Validate(limits); !errors.Is(err, ErrNoGenerator) {
			t.Errorf("Expected ErrNoGenerator, got %v", err)
		}
	})

	t.Run("RejectsOverLimit", func(t *testing.T) {
		testCases := []struct {
			name string
			req  EvaluationRequest
		}{
			{"SampleSize", EvaluationRequest{Generator: "lcg", SampleSizes: []int{200000}}},
			{"Trials", EvaluationRequest{Generator: "lcg", Trials: 100}},
			{"Bins", EvaluationRequest{Generator: "lcg", Bins: 50000}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.req.Validate(limits); err == nil {
					t.Error("Expected limit violation error")
				}
			})
		}
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		req := EvaluationRequest{Generator: "lcg", SampleSizes: []int{0}}
		if err := req.Validate(limits); !errors.Is(err, ErrInvalidSampleSize) {
			t.Errorf("Expected ErrInvalidSampleSize, got %v", err)
		}

		req = EvaluationRequest{Generator: "lcg", Trials: -1}
		if err := req.Validate(limits); !errors.Is(err, ErrInvalidTrials) {
			t.Errorf("Expected ErrInvalidTrials, got %v", err)
		}
	})

	t.Run("UncappedLimitsAllowAnything", func(t *testing.T) {
		req := EvaluationRequest{Generator: "lcg", SampleSizes: []int{10000000}, Trials: 1000}
		if err := req.Validate(Limits{}); err != nil {
			t.Errorf("Unexpected error with uncapped limits: %v", err)
		}
	})
}
