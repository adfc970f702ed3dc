package mock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/notevault/airouter"
)

// Provider is a fake AI backend for testing. It simulates latency, timeout
// enforcement, and scripted failures, and instruments call concurrency so
// dispatch behavior can be asserted.
type Provider struct {
	key            string
	latency        time.Duration
	defaultTimeout time.Duration
	ignoreCancel   bool
	failAfter      int
	staticErr      error
	responseFunc   func(airouter.Request) (airouter.Response, error)

	callCount   atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

var _ airouter.Provider = (*Provider)(nil)

// Option configures a mock Provider.
type Option func(*Provider)

// New creates a mock provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		key:            "mock",
		defaultTimeout: airouter.DefaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithKey sets the provider key.
func WithKey(key string) Option {
	return func(p *Provider) { p.key = key }
}

// WithLatency adds simulated latency to each call.
func WithLatency(d time.Duration) Option {
	return func(p *Provider) { p.latency = d }
}

// WithDefaultTimeout sets the timeout used when the request has no latency
// ceiling.
func WithDefaultTimeout(d time.Duration) Option {
	return func(p *Provider) { p.defaultTimeout = d }
}

// WithIgnoreCancel makes the provider sleep through context cancellation,
// simulating an upstream whose calls cannot be cancelled once issued.
func WithIgnoreCancel() Option {
	return func(p *Provider) { p.ignoreCancel = true }
}

// WithFailAfter makes the provider fail after N successful calls.
func WithFailAfter(n int) Option {
	return func(p *Provider) { p.failAfter = n }
}

// WithError makes the provider always return this error.
func WithError(err error) Option {
	return func(p *Provider) { p.staticErr = err }
}

// WithResponseFunc sets a custom response function.
func WithResponseFunc(fn func(airouter.Request) (airouter.Response, error)) Option {
	return func(p *Provider) { p.responseFunc = fn }
}

func (p *Provider) Key() string { return p.key }

func (p *Provider) Invoke(ctx context.Context, req airouter.Request) (airouter.Response, error) {
	p.callCount.Add(1)
	cur := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		seen := p.maxInFlight.Load()
		if cur <= seen || p.maxInFlight.CompareAndSwap(seen, cur) {
			break
		}
	}

	timeout := p.defaultTimeout
	if req.MaxResponseTime > 0 {
		timeout = req.MaxResponseTime
	}

	if p.latency >= timeout {
		// Too slow for the deadline: burn the full timeout, then fail the
		// way a real adapter would.
		if err := p.wait(ctx, timeout); err != nil {
			return airouter.Response{}, err
		}
		return airouter.Response{}, airouter.ErrProviderTimeout
	}

	if p.latency > 0 {
		if err := p.wait(ctx, p.latency); err != nil {
			return airouter.Response{}, err
		}
	}

	if p.staticErr != nil {
		return airouter.Response{}, p.staticErr
	}
	if p.failAfter > 0 && p.callCount.Load() > int64(p.failAfter) {
		return airouter.Response{}, airouter.ErrProviderUnavailable
	}
	if p.responseFunc != nil {
		return p.responseFunc(req)
	}

	return airouter.Response{
		Payload: []byte("processed by " + p.key + ": " + req.Operation),
	}, nil
}

func (p *Provider) wait(ctx context.Context, d time.Duration) error {
	if p.ignoreCancel {
		time.Sleep(d)
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CallCount returns the number of calls made to the provider.
func (p *Provider) CallCount() int64 { return p.callCount.Load() }

// MaxInFlight returns the highest number of concurrent calls observed.
func (p *Provider) MaxInFlight() int64 { return p.maxInFlight.Load() }
