// Package httpjson adapts a generic JSON-over-HTTP AI backend. Any upstream
// that accepts {"operation", "content"} and answers {"content"} can be wired
// in with a key, a base URL, and optionally a bearer token.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notevault/airouter"
)

// Provider calls one HTTP backend. It enforces its own per-call deadline:
// the request's latency ceiling when set, otherwise the configured default.
type Provider struct {
	key            string
	baseURL        string
	path           string
	apiKey         string
	defaultTimeout time.Duration
	httpClient     *http.Client
}

var _ airouter.Provider = (*Provider)(nil)

// Option configures the provider.
type Option func(*Provider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithPath sets the request path (default "/v1/process").
func WithPath(path string) Option {
	return func(p *Provider) { p.path = path }
}

// WithAPIKey sets a bearer token sent with every call.
func WithAPIKey(key string) Option {
	return func(p *Provider) { p.apiKey = key }
}

// WithDefaultTimeout sets the deadline used when the request carries no
// latency ceiling.
func WithDefaultTimeout(d time.Duration) Option {
	return func(p *Provider) { p.defaultTimeout = d }
}

// New creates an adapter for the backend at baseURL.
func New(key, baseURL string, opts ...Option) *Provider {
	p := &Provider{
		key:            key,
		baseURL:        strings.TrimRight(baseURL, "/"),
		path:           "/v1/process",
		defaultTimeout: airouter.DefaultProviderTimeout,
		httpClient:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Key() string { return p.key }

type apiRequest struct {
	Operation string `json:"operation"`
	Content   string `json:"content"`
}

type apiResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

func (p *Provider) Invoke(ctx context.Context, req airouter.Request) (airouter.Response, error) {
	timeout := p.defaultTimeout
	if req.MaxResponseTime > 0 {
		timeout = req.MaxResponseTime
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(apiRequest{
		Operation: req.Operation,
		Content:   string(req.Payload),
	})
	if err != nil {
		return airouter.Response{}, &airouter.ProviderError{Key: p.key, Detail: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+p.path, bytes.NewReader(body))
	if err != nil {
		return airouter.Response{}, &airouter.ProviderError{Key: p.key, Detail: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return airouter.Response{}, airouter.ErrProviderTimeout
		}
		if errors.Is(err, context.Canceled) {
			return airouter.Response{}, err
		}
		return airouter.Response{}, fmt.Errorf("%w: %s: %v", airouter.ErrProviderUnavailable, p.key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return airouter.Response{}, airouter.ErrProviderTimeout
		}
		return airouter.Response{}, &airouter.ProviderError{Key: p.key, Detail: "read response", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return airouter.Response{}, airouter.ErrProviderTimeout
	case resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusBadGateway:
		return airouter.Response{}, fmt.Errorf("%w: %s: status %d", airouter.ErrProviderUnavailable, p.key, resp.StatusCode)
	default:
		return airouter.Response{}, &airouter.ProviderError{
			Key:    p.key,
			Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(data, 200)),
		}
	}

	var out apiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return airouter.Response{}, &airouter.ProviderError{Key: p.key, Detail: "decode response", Err: err}
	}
	if out.Error != "" {
		return airouter.Response{}, &airouter.ProviderError{Key: p.key, Detail: out.Error}
	}

	return airouter.Response{Payload: []byte(out.Content)}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
