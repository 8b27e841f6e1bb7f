package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// maxResponseBytes bounds how much of a reply is read.
const maxResponseBytes = 64 << 10

// HTTPClient posts form-encoded actions to a single endpoint URL.
type HTTPClient struct {
	endpoint  string
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    logging.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. The client is not modified.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout bounds each request, response body included.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTPClient) { h.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) HTTPOption {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient creates a client for endpoint. The default timeout is 15s.
func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		endpoint:  endpoint,
		client:    &http.Client{},
		timeout:   15 * time.Second,
		userAgent: "leadgate",
		logger:    logging.NewSimpleLogger("remote", logging.LevelInfo, false),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoint returns the configured endpoint URL.
func (h *HTTPClient) Endpoint() string {
	return h.endpoint
}

// Perform posts fields plus action=<action> and decodes the JSON envelope.
func (h *HTTPClient) Perform(ctx context.Context, action Action, fields url.Values) (*Response, error) {
	form := url.Values{}
	for k, v := range fields {
		form[k] = v
	}
	form.Set(FieldAction, string(action))

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("remote: failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %s request failed: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("remote: failed to read %s response: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Debug("Endpoint returned non-2xx", "action", action, "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		h.logger.Debug("Endpoint returned non-JSON body", "action", action, "bytes", len(body))
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if result.Status != StatusSuccess {
		return &result, &RejectedError{Action: action, Status: result.Status, Message: result.Message}
	}

	return &result, nil
}
