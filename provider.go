package airouter

import (
	"context"
	"time"
)

// Provider is the interface that AI backend adapters must implement.
type Provider interface {
	// Key returns the unique provider identifier (e.g. "fastai", "premium").
	Key() string

	// Invoke performs one call against the upstream backend. The adapter
	// enforces its own timeout: the request's MaxResponseTime if set,
	// otherwise the profile's default. Failures are reported as
	// ErrProviderUnavailable, ErrProviderTimeout, or a *ProviderError.
	//
	// Adapters never record performance samples; that is the Router's job.
	Invoke(ctx context.Context, req Request) (Response, error)
}

// StaticProfile is the declared, config-supplied profile of one provider.
// Dynamic state (availability, rolling latency) lives in the registry and
// the performance tracker.
type StaticProfile struct {
	// CostUnits is the static cost charged per call.
	CostUnits float64

	// DeclaredLatency is the provider's advertised average latency. Used
	// for ranking until enough real samples exist.
	DeclaredLatency time.Duration

	// QualityTier is an ordinal quality rating, 1 (lowest) to 10.
	QualityTier int

	// DefaultTimeout bounds a call when the request carries no latency
	// ceiling. Zero means DefaultProviderTimeout.
	DefaultTimeout time.Duration

	// DailyBudget caps the cost units this provider may accumulate per
	// UTC day. Zero means unlimited.
	DailyBudget float64
}

// DefaultProviderTimeout is used when neither the request nor the profile
// specifies a deadline.
const DefaultProviderTimeout = 30 * time.Second

// Timeout resolves the effective deadline for one call against this profile.
func (p StaticProfile) Timeout(req Request) time.Duration {
	if req.MaxResponseTime > 0 {
		return req.MaxResponseTime
	}
	if p.DefaultTimeout > 0 {
		return p.DefaultTimeout
	}
	return DefaultProviderTimeout
}
