// Package backend implements the time-report backend HTTP API client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/logger"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/repository"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
)

// Operation names used in errors, logs and metrics.
const (
	OpCreate = "create"
	OpDelete = "delete"
	OpLock   = "lock"
	OpList   = "list"
)

// maxResponseSize caps how much of a listing body is read.
const maxResponseSize = 1 << 20

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: status %d", e.Operation, e.StatusCode)
}

// Unwrap lets callers match repository.ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return repository.ErrUnexpectedStatus
}

// Client talks to the time-report backend.
// Implements repository.EventRepository.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records every backend call.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a backend client for baseURL.
// A non-empty token is sent as an OAuth2 bearer token on every request.
func NewClient(baseURL, token string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}

	var hc *http.Client
	if token != "" {
		hc = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout

	c := &Client{
		baseURL:    u,
		httpClient: hc,
		logger:     logger.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Create submits a new event.
func (c *Client) Create(ctx context.Context, event *entity.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_, err = c.do(ctx, OpCreate, http.MethodPost, c.endpoint("events", nil), body)
	return err
}

// Delete removes the user's events on date.
func (c *Client) Delete(ctx context.Context, userID, date string) error {
	_, err := c.do(ctx, OpDelete, http.MethodDelete, c.endpoint("events", userDate(userID, date)), nil)
	return err
}

// Lock locks the user's events on date.
func (c *Client) Lock(ctx context.Context, userID, date string) error {
	_, err := c.do(ctx, OpLock, http.MethodPatch, c.endpoint("events/lock", userDate(userID, date)), nil)
	return err
}

// List returns the user's events for a date, an "A:B" range or "all".
func (c *Client) List(ctx context.Context, userID, dateOrRange string) (*entity.Listing, error) {
	raw, err := c.do(ctx, OpList, http.MethodGet, c.endpoint("events", userDate(userID, dateOrRange)), nil)
	if err != nil {
		return nil, err
	}

	listing, err := entity.NewListing(bytes.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w: %v", OpList, repository.ErrInvalidResponse, err)
	}
	return listing, nil
}

// Ping checks that the backend answers at all. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrBackendUnavailable, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend ping: status %d", resp.StatusCode)
	}
	return nil
}

// do performs a single request. Non-2xx responses become *StatusError.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendRequest(ctx, op, 0, time.Since(start), false)
		c.logger.Error("backend request failed",
			"operation", op,
			"method", method,
			"error", err,
		)
		return nil, fmt.Errorf("backend %s: %w: %v", op, repository.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.metrics.RecordBackendRequest(ctx, op, resp.StatusCode, time.Since(start), success)

	if !success {
		c.logger.Error("backend returned non-success status",
			"operation", op,
			"method", method,
			"status_code", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if readErr != nil {
		return nil, fmt.Errorf("backend %s: reading response: %w", op, readErr)
	}

	c.logger.Debug("backend request completed",
		"operation", op,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return respBody, nil
}

// endpoint joins path onto the base URL and encodes query.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func userDate(userID, date string) url.Values {
	return url.Values{
		"user_id": {userID},
		"date":    {date},
	}
}
