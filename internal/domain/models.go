// Package domain contains core domain models for the RNG evaluation service
// Based on GLI-19 Standards for Interactive Gaming Systems V3.0
//
// Key GLI-19 References:
//   - §3.2: General RNG Requirements
//   - §3.2.2: Statistical Analysis
//   - §2.8.8: Significant Event Information
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoGenerator       = errors.New("generator name is required")
	ErrNoSampleSizes     = errors.New("at least one sample size is required")
	ErrInvalidSampleSize = errors.New("sample sizes must be positive")
	ErrInvalidTrials     = errors.New("trial count must be positive")
)

// Limits caps operator-supplied evaluation parameters so a single request
// cannot monopolize the service.
// GLI-19 §2.5.5-inspired: limits are enforced before any work starts.
type Limits struct {
	MaxSampleSize int `json:"max_sample_size"`
	MaxTrials     int `json:"max_trials"`
	MaxBins       int `json:"max_bins"`
}

// EvaluationRequest describes one on-demand evaluation run.
type EvaluationRequest struct {
	Generator   string `json:"generator"`
	Seed        uint64 `json:"seed"`
	SampleSizes []int  `json:"sample_sizes,omitempty"`
	Trials      int    `json:"trials,omitempty"`
	Bins        int    `json:"bins,omitempty"`
	BlockSize   int    `json:"block_size,omitempty"`
}

// Validate checks the request against the service limits. Zero-valued
// optional fields mean "use the configured default" and are not validated
// here.
func (r *EvaluationRequest) Validate(limits Limits) error {
	if r.Generator == "" {
		return ErrNoGenerator
	}
	for _, n := range r.SampleSizes {
		if n <= 0 {
			return ErrInvalidSampleSize
		}
		if limits.MaxSampleSize > 0 && n > limits.MaxSampleSize {
			return fmt.Errorf("sample size %d exceeds maximum %d", n, limits.MaxSampleSize)
		}
	}
	if r.Trials < 0 {
		return ErrInvalidTrials
	}
	if limits.MaxTrials > 0 && r.Trials > limits.MaxTrials {
		return fmt.Errorf("trial count %d exceeds maximum %d", r.Trials, limits.MaxTrials)
	}
	if r.Bins < 0 {
		return fmt.Errorf("bin count must not be negative")
	}
	if limits.MaxBins > 0 && r.Bins > limits.MaxBins {
		return fmt.Errorf("bin count %d exceeds maximum %d", r.Bins, limits.MaxBins)
	}
	if r.BlockSize < 0 {
		return fmt.Errorf("block size must not be negative")
	}
	return nil
}

// Row aggregates the results of all trials at one sample size.
// Continuous statistics are means over trials; NIST columns are pass rates
// in [0,1] (fraction of trials that did not reject randomness).
type Row struct {
	SampleSize int `json:"sample_size"`

	Mean       float64 `json:"mean"`
	Stdev      float64 `json:"stdev"`
	CoeffVar   float64 `json:"coeff_var"`
	ChiSquared float64 `json:"chi_squared"`

	Monobit        float64 `json:"monobit"`
	BlockFrequency float64 `json:"block_frequency"`
	Runs           float64 `json:"runs"`
	CumulativeSums float64 `json:"cumulative_sums"`
	Serial2        float64 `json:"serial2"`

	// GenerateMS is the time spent drawing values from the source across
	// all trials at this size; AnalyzeMS the time spent in the battery.
	GenerateMS float64 `json:"generate_ms"`
	AnalyzeMS  float64 `json:"analyze_ms"`
}

// Report is the outcome of evaluating one generator over a size ladder.
type Report struct {
	ID        string    `json:"id"`
	Generator string    `json:"generator"`
	Seed      uint64    `json:"seed,omitempty"`
	Trials    int       `json:"trials"`
	Bins      int       `json:"bins"`
	BlockSize int       `json:"block_size"`
	StartedAt time.Time `json:"started_at"`
	Elapsed   float64   `json:"elapsed_ms"`
	Rows      []Row     `json:"rows"`
}

// EventSeverity classifies audit events (GLI-19 §2.8.8)
type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// AuditEvent records a significant event. Data carries event metadata only;
// evaluation metric values are never persisted.
type AuditEvent struct {
	ID          string          `json:"id" db:"id"`
	Type        string          `json:"type" db:"type"`
	Severity    EventSeverity   `json:"severity" db:"severity"`
	Timestamp   time.Time       `json:"timestamp" db:"timestamp"`
	RunID       string          `json:"run_id,omitempty" db:"run_id"`
	Description string          `json:"description" db:"description"`
	Data        json.RawMessage `json:"data,omitempty" db:"data"`
	IPAddress   string          `json:"ip_address,omitempty" db:"ip_address"`
	Component   string          `json:"component" db:"component"`
}
