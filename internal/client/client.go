// Package client talks to the recipe catalog REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRPS     = 10.0
	defaultBurst   = 20
	userAgent      = "recipeform/1.0"
)

// TokenSource supplies the bearer token and drops it when the server rejects it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// Client is a rate-limited catalog API client.
type Client struct {
	http    *http.Client
	base    *url.URL
	limiter *rate.Limiter
	tokens  TokenSource
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit caps outgoing requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithTokenSource attaches the session used to authorize protected calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		base:    u,
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type publicRoute struct {
	method string
	prefix string
}

// Routes that never carry a token and whose 401s do not end the session.
var publicRoutes = []publicRoute{
	{http.MethodGet, "/api/recipes"},
	{http.MethodGet, "/api/categories"},
	{http.MethodPost, "/api/auth/register"},
	{http.MethodPost, "/api/auth/login"},
	{http.MethodGet, "/api/auth/check-email"},
	{http.MethodGet, "/api/auth/check-username"},
}

func isPublic(method, path string) bool {
	for _, r := range publicRoutes {
		if method == r.method && strings.HasPrefix(path, r.prefix) {
			return true
		}
	}
	return false
}

// request describes one API call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do executes req with rate limiting and returns the raw response body.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, wrapError(req.op, 0, fmt.Errorf("rate limit wait: %w", err))
	}

	u := c.base.JoinPath(req.path)
	u.RawQuery = req.query.Encode()

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, wrapError(req.op, 0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, wrapError(req.op, 0, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	public := isPublic(req.method, req.path)
	if !public && c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request",
		"op", req.op,
		"method", req.method,
		"path", req.path,
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, wrapError(req.op, 0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(req.op, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusUnauthorized:
		if !public && c.tokens != nil {
			if err := c.tokens.Clear(ctx); err != nil {
				c.logger.Warn("clearing rejected session failed", "error", err)
			}
		}
		return nil, wrapError(req.op, resp.StatusCode, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, wrapError(req.op, resp.StatusCode, ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, wrapError(req.op, resp.StatusCode, ErrBadRequest)
	case resp.StatusCode == http.StatusConflict:
		return nil, wrapError(req.op, resp.StatusCode, ErrConflict)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, wrapError(req.op, resp.StatusCode, ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, wrapError(req.op, resp.StatusCode, ErrServer)
	default:
		return nil, wrapError(req.op, resp.StatusCode,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data)))
	}
}

// doJSON executes req and decodes the response into out.
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	data, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return wrapError(req.op, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
