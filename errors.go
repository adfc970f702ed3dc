package airouter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	ErrNoEligibleProvider  = errors.New("airouter: no eligible provider")
	ErrAllProvidersFailed  = errors.New("airouter: all providers failed")
	ErrProviderUnavailable = errors.New("airouter: provider unavailable")
	ErrProviderTimeout     = errors.New("airouter: provider timeout")
	ErrInvalidRequest      = errors.New("airouter: invalid request")
	ErrUnknownProvider     = errors.New("airouter: unknown provider")
	ErrDuplicateProvider   = errors.New("airouter: duplicate provider key")
)

// ProviderError reports an upstream failure that is neither an outage nor a
// timeout, with whatever detail the backend gave.
type ProviderError struct {
	Key    string
	Detail string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("airouter: provider %s: %s: %v", e.Key, e.Detail, e.Err)
	}
	return fmt.Sprintf("airouter: provider %s: %s", e.Key, e.Detail)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Attempt records the outcome of one provider call within a route. Err is
// nil for the winning attempt.
type Attempt struct {
	ProviderKey string
	Rank        int
	Latency     time.Duration
	Err         error
}

// RouterError wraps a routing failure with the full per-attempt history, so
// callers can see exactly which providers were tried and why each failed.
type RouterError struct {
	Err       error
	RequestID string
	Attempts  []Attempt
}

func (e *RouterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "airouter: request=%s attempts=%d: %v", e.RequestID, len(e.Attempts), e.Err)
	for _, a := range e.Attempts {
		if a.Err != nil {
			fmt.Fprintf(&b, "; %s(rank=%d, %s): %v", a.ProviderKey, a.Rank, a.Latency.Round(time.Millisecond), a.Err)
		}
	}
	return b.String()
}

func (e *RouterError) Unwrap() error { return e.Err }

// IsRetryable reports whether a per-provider failure should be recovered by
// trying the next candidate. Everything a provider can do wrong is retryable
// with a different provider; only a malformed request is not.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrInvalidRequest) {
		return false
	}
	var pe *ProviderError
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrProviderTimeout) ||
		errors.As(err, &pe)
}
