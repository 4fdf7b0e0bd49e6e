// Package rnglab provides a client for the rnglab evaluation service API
package rnglab

import (
	"encoding/json"
	"time"
)

// Error codes returned by the rnglab API
const (
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidParameters = "INVALID_PARAMETERS"
	ErrCodeInvalidKey        = "INVALID_KEY"
	ErrCodeAuthDisabled      = "AUTH_DISABLED"
	ErrCodeNoToken           = "NO_TOKEN"
	ErrCodeInvalidToken      = "INVALID_TOKEN"
	ErrCodeUnknownGenerator  = "UNKNOWN_GENERATOR"
	ErrCodeEvaluationFailed  = "EVALUATION_FAILED"
	ErrCodeNotFound          = "NOT_FOUND"
)

// APIError represents an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// response wraps the API response envelope with either data or error
type response[T any] struct {
	Success bool      `json:"success"`
	Data    *T        `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// TokenResult is the result of a successful token exchange
type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EvaluationRequest describes one evaluation run. Zero-valued optional
// fields fall back to the server's configured defaults.
type EvaluationRequest struct {
	Generator   string `json:"generator"`
	Seed        uint64 `json:"seed,omitempty"`
	SampleSizes []int  `json:"sample_sizes,omitempty"`
	Trials      int    `json:"trials,omitempty"`
	Bins        int    `json:"bins,omitempty"`
	BlockSize   int    `json:"block_size,omitempty"`
}

// Row aggregates the battery results for one sample size.
type Row struct {
	SampleSize     int     `json:"sample_size"`
	Mean           float64 `json:"mean"`
	Stdev          float64 `json:"stdev"`
	CoeffVar       float64 `json:"coeff_var"`
	ChiSquared     float64 `json:"chi_squared"`
	Monobit        float64 `json:"monobit"`
	BlockFrequency float64 `json:"block_frequency"`
	Runs           float64 `json:"runs"`
	CumulativeSums float64 `json:"cumulative_sums"`
	Serial2        float64 `json:"serial2"`
	GenerateMS     float64 `json:"generate_ms"`
	AnalyzeMS      float64 `json:"analyze_ms"`
}

// Report is the full result of one evaluation run.
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

// SuiteResult carries the five bit-level test verdicts.
type SuiteResult struct {
	Monobit        bool `json:"monobit"`
	BlockFrequency bool `json:"block_frequency"`
	Runs           bool `json:"runs"`
	CumulativeSums bool `json:"cumulative_sums"`
	Serial2        bool `json:"serial2"`
}

// HealthStatus is the entropy-source health check result.
type HealthStatus struct {
	Status    string `json:"status"`
	RNGStatus struct {
		Healthy         bool        `json:"healthy"`
		Timestamp       time.Time   `json:"timestamp"`
		ChiSquare       float64     `json:"chi_square"`
		ChiSquareLimit  float64     `json:"chi_square_limit"`
		ChiSquarePassed bool        `json:"chi_square_passed"`
		Suite           SuiteResult `json:"suite"`
		Error           string      `json:"error,omitempty"`
	} `json:"rng_status"`
}

// AuditEvent is one entry of the service's significant-event trail.
type AuditEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Severity    string          `json:"severity"`
	Timestamp   time.Time       `json:"timestamp"`
	RunID       string          `json:"run_id,omitempty"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
	Component   string          `json:"component"`
}

// AuditFilter narrows an audit event query. Zero values are ignored.
type AuditFilter struct {
	RunID string
	Type  string
	Limit int
}

// ServerInfo describes the service.
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}
