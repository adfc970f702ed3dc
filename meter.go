package airouter

import "time"

// Meter observes routing events for monitoring/logging. The router core
// never logs directly; everything observable flows through here.
type Meter interface {
	// OnRoute is called when an attempt against a provider is issued.
	OnRoute(event RouteEvent)

	// OnResult is called when an attempt settles, success or failure.
	OnResult(event ResultEvent)
}

// RouteEvent describes one issued provider attempt.
type RouteEvent struct {
	RequestID string
	Provider  string
	Operation string
	Rank      int
	Mode      DispatchMode
}

// ResultEvent describes the outcome of one provider attempt. Cancelled
// marks an attempt that never settled (a cut-off race loser or an
// abandoned request); such attempts count as neither success nor failure
// for the provider.
type ResultEvent struct {
	RequestID string
	Provider  string
	Operation string
	Success   bool
	Cancelled bool
	Duration  time.Duration
	CostUnits float64
	Error     error
}
