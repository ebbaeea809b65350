// Package gateway talks to the marketplace REST API on behalf of the admin console.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"photojay_admin/internal/metrics"
	"photojay_admin/internal/model"
	"photojay_admin/internal/session"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Options tunes a Client. Zero values pick the defaults.
type Options struct {
	Timeout           time.Duration // per request, default 10s
	RequestsPerSecond float64       // client-side limit, <= 0 disables it
	HTTPClient        *http.Client
	Metrics           metrics.Recorder
	Logger            *log.Logger
}

// Client is the HTTP adapter for both the moderation and notification APIs.
type Client struct {
	baseURL    string
	tokens     session.TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    metrics.Recorder
	logger     *log.Logger
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, tokens session.TokenSource, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    rec,
		logger:     logger,
	}
}

// apiErrorBody is the {"error": {...}} body the API sends with non-2xx replies.
type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends one request and returns the raw 2xx body.
// op is the route template used for logs and metric labels.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	requestID := uuid.NewString()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.RecordTransportFailure(op, "rate_limit")
		return nil, &model.TransportError{Op: op, Err: err}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.metrics.RecordTransportFailure(op, "auth")
		c.logger.Printf("[Gateway] %s FAILED: request_id=%s token unavailable: %v", op, requestID, err)
		return nil, fmt.Errorf("get access token: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reason := "network"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			reason = "timeout"
		}
		c.metrics.RecordTransportFailure(op, reason)
		c.logger.Printf("[Gateway] %s FAILED: request_id=%s err=%v", op, requestID, err)
		return nil, &model.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
	if err != nil {
		c.metrics.RecordTransportFailure(op, "read_body")
		return nil, &model.TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		te := &model.TransportError{Op: op, StatusCode: resp.StatusCode}
		var apiErr apiErrorBody
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			te.Code = apiErr.Error.Code
			te.Message = apiErr.Error.Message
		} else if msg := strings.TrimSpace(string(respBody)); msg != "" {
			te.Message = msg
		} else {
			te.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Printf("[Gateway] %s FAILED: request_id=%s status=%d code=%s message=%s",
			op, requestID, resp.StatusCode, te.Code, te.Message)
		return nil, te
	}

	return respBody, nil
}

// decode unmarshals a 2xx body, mapping failures to a TransportError.
func (c *Client) decode(op string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		c.metrics.RecordTransportFailure(op, "decode")
		c.logger.Printf("[Gateway] %s FAILED: undecodable body: %v", op, err)
		return &model.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
