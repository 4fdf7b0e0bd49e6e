package rnglab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ClientConfig configures a Client
type ClientConfig struct {
	// BaseURL is the service root, e.g. "http://localhost:8080".
	BaseURL string

	// OperatorKey is exchanged for a bearer token on Authenticate.
	OperatorKey string

	Timeout time.Duration
}

// Client is an rnglab evaluation service API client
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a new rnglab API client
func NewClient(config *ClientConfig) *Client {
	if config.Timeout == 0 {
		// Evaluation runs over the full size ladder take minutes.
		config.Timeout = 5 * time.Minute
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// NewClientWithHTTPClient creates a new rnglab API client with a custom HTTP client
func NewClientWithHTTPClient(config *ClientConfig, httpClient *http.Client) *Client {
	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// Token returns the current bearer token, empty before Authenticate.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// doRequest performs an HTTP request against the API envelope
func (c *Client) doRequest(ctx context.Context, method, endpoint string, reqBody interface{}, result interface{}) error {
	var body io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	url := c.config.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// envelopeError extracts the API error from a response envelope
func envelopeError(success bool, apiErr *APIError) error {
	if apiErr != nil {
		return apiErr
	}
	if !success {
		return &APIError{Code: ErrCodeEvaluationFailed, Message: "request failed"}
	}
	return nil
}

// Authenticate exchanges the configured operator key for a bearer token.
// The token is retained and attached to subsequent requests.
func (c *Client) Authenticate(ctx context.Context) (*TokenResult, error) {
	req := map[string]string{"operator_key": c.config.OperatorKey}

	var resp response[TokenResult]
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/token", req, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Success, resp.Error); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Data.Token
	c.mu.Unlock()

	return resp.Data, nil
}

// Info retrieves the service description
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	var resp response[ServerInfo]
	if err := c.doRequest(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Success, resp.Error); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Health retrieves the entropy-source health check result. The status is
// returned even when the service reports unhealthy.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var resp response[HealthStatus]
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Data == nil {
		return nil, &APIError{Code: ErrCodeEvaluationFailed, Message: "empty health response"}
	}
	return resp.Data, nil
}

// Generators lists the available generator algorithm names
func (c *Client) Generators(ctx context.Context) ([]string, error) {
	var resp response[struct {
		Generators []string `json:"generators"`
	}]
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/generators", nil, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Success, resp.Error); err != nil {
		return nil, err
	}
	return resp.Data.Generators, nil
}

// AuditEvents queries the service's audit trail. A nil filter returns the
// most recent events.
func (c *Client) AuditEvents(ctx context.Context, filter *AuditFilter) ([]AuditEvent, error) {
	endpoint := "/api/v1/audit/events"
	if filter != nil {
		q := url.Values{}
		if filter.RunID != "" {
			q.Set("run_id", filter.RunID)
		}
		if filter.Type != "" {
			q.Set("type", filter.Type)
		}
		if filter.Limit > 0 {
			q.Set("limit", strconv.Itoa(filter.Limit))
		}
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
	}

	var resp response[struct {
		Events []AuditEvent `json:"events"`
	}]
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Success, resp.Error); err != nil {
		return nil, err
	}
	return resp.Data.Events, nil
}

// Evaluate runs the statistical battery for one generator and returns the
// full report. The call blocks until the run completes or ctx is done.
func (c *Client) Evaluate(ctx context.Context, req *EvaluationRequest) (*Report, error) {
	var resp response[Report]
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/evaluate", req, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Success, resp.Error); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
