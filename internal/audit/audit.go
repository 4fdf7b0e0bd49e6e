// Package audit provides audit logging for the RNG evaluation service
// Compliant with GLI-19 §2.8.8: Significant Event Information
//
// Only event metadata is recorded: which run happened, when, with which
// parameters, and how it ended. Evaluation metric values and verdicts are
// never persisted.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexbotov/rnglab/internal/domain"
	"github.com/google/uuid"
)

// Event types per GLI-19 §2.8.8
const (
	EventEvaluationStarted   = "evaluation_started"
	EventEvaluationCompleted = "evaluation_completed"
	EventEvaluationFailed    = "evaluation_failed"
	EventHealthCheck         = "rng_health_check"
	EventTokenIssued         = "token_issued"
	EventTokenRejected       = "token_rejected"
	EventSystemError         = "system_error"
)

// Service provides audit logging functionality.
// A nil Service is a valid no-op sink, used when no database is configured.
type Service struct {
	db *sql.DB
}

// New creates a new audit service
func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// LogEvent records a significant event
func (s *Service) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if s == nil || s.db == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var runID sql.NullString
	if event.RunID != "" {
		runID = sql.NullString{String: event.RunID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, type, severity, timestamp, run_id, description, data, ip_address, component)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.ID, event.Type, event.Severity, event.Timestamp, runID,
		event.Description, string(event.Data), event.IPAddress, event.Component)

	return err
}

// Log is a convenience method for logging events
func (s *Service) Log(ctx context.Context, eventType string, severity domain.EventSeverity, description string, data interface{}, opts ...EventOption) error {
	if s == nil || s.db == nil {
		return nil
	}

	event := &domain.AuditEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Severity:    severity,
		Timestamp:   time.Now().UTC(),
		Description: description,
		Component:   "rnglab",
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err == nil {
			event.Data = jsonData
		}
	}

	for _, opt := range opts {
		opt(event)
	}

	return s.LogEvent(ctx, event)
}

// EventOption is a functional option for configuring audit events
type EventOption func(*domain.AuditEvent)

// WithRun sets the evaluation run ID for the event
func WithRun(runID string) EventOption {
	return func(e *domain.AuditEvent) {
		e.RunID = runID
	}
}

// WithIP sets the IP address for the event
func WithIP(ip string) EventOption {
	return func(e *domain.AuditEvent) {
		e.IPAddress = ip
	}
}

// WithComponent sets the component for the event
func WithComponent(component string) EventOption {
	return func(e *domain.AuditEvent) {
		e.Component = component
	}
}

// GetEvents retrieves audit events with optional filtering
func (s *Service) GetEvents(ctx context.Context, filter *EventFilter) ([]*domain.AuditEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	query := `SELECT id, type, severity, timestamp, run_id, description, data, ip_address, component
			  FROM audit_events WHERE 1=1`
	args := []interface{}{}
	paramIdx := 1

	if filter != nil {
		if filter.RunID != "" {
			query += fmt.Sprintf(" AND run_id = $%d", paramIdx)
			args = append(args, filter.RunID)
			paramIdx++
		}
		if filter.Type != "" {
			query += fmt.Sprintf(" AND type = $%d", paramIdx)
			args = append(args, filter.Type)
			paramIdx++
		}
		if !filter.From.IsZero() {
			query += fmt.Sprintf(" AND timestamp >= $%d", paramIdx)
			args = append(args, filter.From)
			paramIdx++
		}
		if !filter.To.IsZero() {
			query += fmt.Sprintf(" AND timestamp <= $%d", paramIdx)
			args = append(args, filter.To)
			paramIdx++
		}
	}

	query += " ORDER BY timestamp DESC"

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", paramIdx)
		args = append(args, filter.Limit)
	} else {
		query += " LIMIT 100"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		var runID sql.NullString
		var data string

		err := rows.Scan(&event.ID, &event.Type, &event.Severity, &event.Timestamp,
			&runID, &event.Description, &data, &event.IPAddress, &event.Component)
		if err != nil {
			return nil, err
		}

		if runID.Valid {
			event.RunID = runID.String
		}
		if data != "" {
			event.Data = json.RawMessage(data)
		}

		events = append(events, &event)
	}

	return events, nil
}

// EventFilter defines criteria for filtering audit events
type EventFilter struct {
	RunID string
	Type  string
	From  time.Time
	To    time.Time
	Limit int
}
