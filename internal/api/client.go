// Package api is the client for the library platform REST API.
//
// Every call attaches the stored credential as "Authorization: <scheme> <token>" when a
// token is available and omits the header otherwise. Non-2xx responses are returned as
// *Error carrying the response body text.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/log"
)

const (
	// DefaultBaseURL is the backend address used when none is configured
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultAuthScheme is the Django REST framework token scheme
	DefaultAuthScheme = "Token"

	// DefaultTimeout bounds a single request
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// TokenFunc returns the credential to attach, or "" when there is none.
type TokenFunc func() string

// Client is the library platform API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	authScheme string
	userAgent  string
	logger     *log.Logger

	mu    sync.RWMutex
	token TokenFunc
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithAuthScheme sets the Authorization scheme, e.g. "Token" or "Bearer"
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(scheme); s != "" {
			c.authScheme = s
		}
	}
}

// WithTokenFunc makes the client read the credential from fn on every request
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) {
		c.token = fn
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing at debug level
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		authScheme: DefaultAuthScheme,
		userAgent:  "biblio",
		logger:     log.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping sends an unauthenticated GET to the API root. Any HTTP answer counts as
// reachable; the status code is returned as is.
func (c *Client) Ping(ctx context.Context) (int, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", nil, false)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

// SetToken pins a static credential, replacing any token function
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = func() string { return token }
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	fn := c.token
	c.mu.RUnlock()

	if fn == nil {
		return ""
	}
	return fn()
}

// payload is an encoded request body and its content type
type payload struct {
	reader      io.Reader
	contentType string
}

func jsonPayload(body interface{}) (*payload, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeAPIRequest, "failed to marshal request body", err)
	}
	return &payload{reader: bytes.NewReader(data), contentType: "application/json"}, nil
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, path string, body *payload, authenticated bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = body.reader
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeAPIRequest, "failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil && body.contentType != "" {
		req.Header.Set("Content-Type", body.contentType)
	}
	if token := c.currentToken(); authenticated && token != "" {
		req.Header.Set("Authorization", c.authScheme+" "+token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, berrors.Wrap(berrors.ErrCodeAPIUnreachable, fmt.Sprintf("%s %s failed", method, path), err).
			WithSuggestion(fmt.Sprintf("Check that the API is reachable at %s", c.baseURL))
	}

	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID)

	return resp, nil
}

// call encodes body as JSON, performs the request and decodes into target
func (c *Client) call(ctx context.Context, method, path string, body, target interface{}) error {
	p, err := jsonPayload(body)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(ctx, method, path, p, true)
	if err != nil {
		return err
	}
	return parseResponse(resp, target)
}

// parseResponse parses the response body into the target struct.
// A 204 or an empty 2xx body leaves target untouched.
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeAPIResponse, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp, body)
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 || target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return berrors.Wrap(berrors.ErrCodeAPIDecode, "failed to decode response", err)
	}

	return nil
}
