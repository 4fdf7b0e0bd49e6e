// Package api provides HTTP API handlers for the RNG evaluation service
// GLI-19 §3.2.2: Statistical Analysis exposed as an operator-facing API
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexbotov/rnglab/internal/audit"
	"github.com/alexbotov/rnglab/internal/auth"
	"github.com/alexbotov/rnglab/internal/bench"
	"github.com/alexbotov/rnglab/internal/config"
	"github.com/alexbotov/rnglab/internal/domain"
	"github.com/alexbotov/rnglab/internal/generator"
	"github.com/alexbotov/rnglab/internal/stats"
)

// healthSampleSize is the number of 32-bit values drawn from the entropy
// source for the health check battery.
const healthSampleSize = 1000

// healthBins is the chi-squared bin count used by the health check.
const healthBins = 100

// Handler contains all HTTP handlers
type Handler struct {
	config   *config.Config
	auth     *auth.Service
	audit    *audit.Service
	registry *generator.Registry
}

// New creates a new API handler
func New(cfg *config.Config, authSvc *auth.Service, auditSvc *audit.Service, registry *generator.Registry) *Handler {
	return &Handler{
		config:   cfg,
		auth:     authSvc,
		audit:    auditSvc,
		registry: registry,
	}
}

// Response helpers

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

// getClientIP extracts client IP from request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// === Health & Info ===

// HealthResult is the outcome of one entropy-source health check.
// GLI-19 §3.3.3: Dynamic Output Monitoring
type HealthResult struct {
	Healthy         bool              `json:"healthy"`
	Timestamp       time.Time         `json:"timestamp"`
	ChiSquare       float64           `json:"chi_square"`
	ChiSquareLimit  float64           `json:"chi_square_limit"`
	ChiSquarePassed bool              `json:"chi_square_passed"`
	Suite           stats.SuiteResult `json:"suite"`
	Error           string            `json:"error,omitempty"`
}

// HealthCheck handles GET /health
// Runs the battery over a fresh entropy sample; health is judged on the
// chi-squared uniformity check at 99% confidence. Individual NIST verdicts
// are reported but do not gate health, since each legitimately fails about
// 1% of the time by construction.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	result := h.runHealthCheck(r)

	status := http.StatusOK
	statusText := "healthy"
	if !result.Healthy {
		status = http.StatusServiceUnavailable
		statusText = "unhealthy"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":     statusText,
		"rng_status": result,
	})
}

func (h *Handler) runHealthCheck(r *http.Request) *HealthResult {
	result := &HealthResult{Timestamp: time.Now().UTC()}

	buf := make([]uint32, healthSampleSize)
	generator.Fill(generator.NewCryptoSource(), buf)

	chi2, err := stats.ChiSquared(buf, healthBins, 1<<32)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	limit, err := stats.ChiSquaredCritical(healthBins-1, h.config.Bench.Confidence)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	suite, err := stats.RunSuite(buf, stats.SuiteConfig{BlockSize: h.config.Bench.BlockSize})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.ChiSquare = chi2
	result.ChiSquareLimit = limit
	result.ChiSquarePassed = chi2 < limit
	result.Suite = suite
	result.Healthy = result.ChiSquarePassed

	severity := domain.SeverityInfo
	if !result.Healthy {
		severity = domain.SeverityCritical
	}
	h.audit.Log(r.Context(), audit.EventHealthCheck, severity,
		"Entropy source health check", map[string]interface{}{"healthy": result.Healthy},
		audit.WithIP(getClientIP(r)), audit.WithComponent("api"))

	return result
}

// ServerInfo handles GET /
func (h *Handler) ServerInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "rnglab",
		"version":     "1.0.0",
		"description": "PRNG statistical quality evaluation service",
	})
}

// === Authentication ===

// TokenRequest is the body of POST /api/v1/auth/token
type TokenRequest struct {
	OperatorKey string `json:"operator_key"`
}

// IssueToken handles POST /api/v1/auth/token
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, expiresAt, err := h.auth.IssueToken(r.Context(), req.OperatorKey, getClientIP(r))
	if err != nil {
		switch err {
		case auth.ErrAuthDisabled:
			respondError(w, http.StatusServiceUnavailable, "AUTH_DISABLED", "Operator authentication is not configured")
		default:
			respondError(w, http.StatusUnauthorized, "INVALID_KEY", "Invalid operator key")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// AuditEvents handles GET /api/v1/audit/events
// Query parameters: run_id, type, limit.
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	filter := &audit.EventFilter{
		RunID: r.URL.Query().Get("run_id"),
		Type:  r.URL.Query().Get("type"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "INVALID_PARAMETERS", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	events, err := h.audit.GetEvents(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "AUDIT_ERROR", "Failed to query audit events")
		return
	}
	if events == nil {
		events = []*domain.AuditEvent{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// === Evaluation ===

// ListGenerators handles GET /api/v1/generators
func (h *Handler) ListGenerators(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generators": h.registry.Names(),
	})
}

// paramsFor merges an evaluation request with the configured defaults.
func (h *Handler) paramsFor(req *domain.EvaluationRequest) bench.Params {
	p := bench.FromConfig(h.config.Bench)
	if len(req.SampleSizes) > 0 {
		p.SampleSizes = req.SampleSizes
	}
	if req.Trials > 0 {
		p.Trials = req.Trials
	}
	if req.Bins > 0 {
		p.Bins = req.Bins
	}
	if req.BlockSize > 0 {
		p.BlockSize = req.BlockSize
	}
	return p
}

// Evaluate handles POST /api/v1/evaluate
// Runs the full battery for one generator and returns the report. The run is
// bounded by the request context: a dropped connection cancels it.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req domain.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(h.config.Limits); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETERS", err.Error())
		return
	}

	src, err := h.registry.New(req.Generator, req.Seed)
	if err != nil {
		respondError(w, http.StatusBadRequest, "UNKNOWN_GENERATOR", err.Error())
		return
	}

	h.audit.Log(r.Context(), audit.EventEvaluationStarted, domain.SeverityInfo,
		"Evaluation started", map[string]interface{}{"generator": req.Generator},
		audit.WithIP(getClientIP(r)), audit.WithComponent("api"))

	report, err := bench.Run(r.Context(), src, req.Seed, h.paramsFor(&req), nil)
	if err != nil {
		h.audit.Log(r.Context(), audit.EventEvaluationFailed, domain.SeverityWarning,
			"Evaluation failed", map[string]interface{}{"generator": req.Generator, "error": err.Error()},
			audit.WithComponent("api"))
		respondError(w, http.StatusInternalServerError, "EVALUATION_FAILED", err.Error())
		return
	}

	h.audit.Log(r.Context(), audit.EventEvaluationCompleted, domain.SeverityInfo,
		"Evaluation completed", map[string]interface{}{
			"generator":  report.Generator,
			"elapsed_ms": report.Elapsed,
		}, audit.WithRun(report.ID), audit.WithComponent("api"))

	respondJSON(w, http.StatusOK, report)
}
