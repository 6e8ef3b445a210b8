package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"inventory-console/config"
	"inventory-console/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenStore supplies the bearer token attached to requests and is cleared
// when the backend answers 401.
type TokenStore interface {
	Token() string
	Clear()
}

// ServerError is a response the backend produced itself: the request reached
// the server and was rejected with an error payload.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// TransportError is a request that never produced a response: DNS failure,
// refused connection, cancelled context.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("request failed: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// Client issues HTTP requests against the configured backend. The base URL
// is resolved from config on every call, not cached at construction.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	tokens     TokenStore
	logger     *zap.Logger
}

// New creates an API client. tokens may be nil for unauthenticated use.
// No timeout is set here; the client inherits the transport's policy.
func New(cfg *config.Config, tokens TokenStore) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     util.GetLogger(),
	}
}

// Get fetches path and decodes the response into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// GetRaw fetches path and returns the undecoded body. Callers that must
// tolerate malformed payloads decode it themselves.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Post sends body as JSON and decodes the response into out when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the response into out when non-nil.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE; the response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := util.StartSpan(ctx, fmt.Sprintf("APIClient.%s %s", method, path))
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	url := c.cfg.BaseURL() + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	util.APIRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		util.APITransportErrors.WithLabelValues(method, path).Inc()
		c.logger.Warn("Request failed before reaching the backend",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	util.APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		c.logger.Info("Session rejected by backend, clearing token",
			zap.String("path", path))
		c.tokens.Clear()
	}

	if resp.StatusCode >= 400 {
		serverErr := &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		c.logger.Warn("Backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", serverErr.Message))
		return serverErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorMessage pulls a human-readable message out of an error payload.
// Backends answer with {"error": ...} on CRUD routes and {"message": ...}
// on login.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// IsTransport reports whether err was a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err was a backend-produced error response.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
