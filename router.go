package airouter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Router is the single entry point for AI request routing. It owns the
// provider registry, the performance tracker, the health breaker, and the
// spend tracker; ranking and dispatch read snapshots and only the router
// writes back after a call completes.
//
// Construct one Router per process (or per test) and pass it to callers —
// there is no package-level instance.
type Router struct {
	registry *Registry
	tracker  *Tracker
	policy   Policy
	meter    Meter
	health   *HealthTracker
	spend    *SpendTracker

	raceWidth int
	mode      DispatchMode
}

// Option configures a Router.
type Option func(*Router)

// WithPolicy sets the ranking policy.
func WithPolicy(p Policy) Option {
	return func(r *Router) { r.policy = p }
}

// WithMeter sets the meter.
func WithMeter(m Meter) Option {
	return func(r *Router) { r.meter = m }
}

// WithHealthTracker sets the health breaker.
func WithHealthTracker(h *HealthTracker) Option {
	return func(r *Router) { r.health = h }
}

// WithSpendTracker sets the spend tracker.
func WithSpendTracker(s *SpendTracker) Option {
	return func(r *Router) { r.spend = s }
}

// WithTracker sets the performance tracker.
func WithTracker(t *Tracker) Option {
	return func(r *Router) { r.tracker = t }
}

// WithRaceWidth sets how many providers a concurrent dispatch races.
func WithRaceWidth(width int) Option {
	return func(r *Router) { r.raceWidth = width }
}

// WithDispatchMode forces a dispatch mode instead of per-request selection.
func WithDispatchMode(mode DispatchMode) Option {
	return func(r *Router) { r.mode = mode }
}

// New creates a Router from a config and the provider adapters serving it.
// Each adapter must have a matching provider entry in the config; its static
// profile comes from there. Default components (preference ranking, noop
// meter, fresh trackers) are used unless overridden via options.
func New(cfg Config, providers []Provider, opts ...Option) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("airouter: at least one provider is required")
	}

	r := &Router{
		registry:  NewRegistry(),
		raceWidth: cfg.RaceWidth,
		mode:      cfg.DispatchMode,
	}

	for _, opt := range opts {
		opt(r)
	}

	// Apply defaults after options.
	if r.tracker == nil {
		r.tracker = NewTracker(cfg.TrackerCapacity)
	}
	if r.policy == nil {
		r.policy = preferencePolicy{}
	}
	if r.meter == nil {
		r.meter = noopMeter{}
	}
	if r.health == nil {
		r.health = NewHealthTracker()
	}
	if r.spend == nil {
		r.spend = NewSpendTracker()
	}
	if r.raceWidth <= 0 {
		r.raceWidth = DefaultRaceWidth
	}
	if r.mode == "" {
		r.mode = DispatchAuto
	}

	for _, p := range providers {
		pc, ok := cfg.provider(p.Key())
		if !ok {
			return nil, fmt.Errorf("airouter: provider %q has no config entry", p.Key())
		}
		if err := r.registry.Register(p, pc.Profile()); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RegisterProvider adds a provider at runtime with an explicit profile.
func (r *Router) RegisterProvider(p Provider, profile StaticProfile) error {
	return r.registry.Register(p, profile)
}

// SetAvailability flips a provider's availability flag, typically driven by
// an external health check.
func (r *Router) SetAvailability(key string, available bool) error {
	return r.registry.SetAvailability(key, available)
}

// ProviderStats returns the rolling performance view for one provider. The
// average falls back to the declared latency until samples exist.
func (r *Router) ProviderStats(key string) (Stats, error) {
	profile, err := r.registry.Profile(key)
	if err != nil {
		return Stats{}, err
	}
	return r.tracker.Stats(key, profile.DeclaredLatency), nil
}

// Plan returns the ranked provider keys Route would use for this request,
// without dispatching. Observability and testing hook.
func (r *Router) Plan(req Request) ([]string, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	eligible := applyCeilings(r.buildCandidates(), req)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleProvider
	}

	ranked := r.policy.Rank(req, eligible)
	keys := make([]string, len(ranked))
	for i, c := range ranked {
		keys[i] = c.Key
	}
	return keys, nil
}

// Route validates the request, ranks the eligible providers, and runs the
// chosen dispatch strategy. Callers always get either a Result or a
// *RouterError carrying the full per-attempt failure list, never a partial
// state.
func (r *Router) Route(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}

	reqID := uuid.New().String()

	eligible := applyCeilings(r.buildCandidates(), req)
	if len(eligible) == 0 {
		return Result{}, &RouterError{Err: ErrNoEligibleProvider, RequestID: reqID}
	}

	ranked := r.policy.Rank(req, eligible)

	var (
		res Result
		err error
	)
	if r.useConcurrent(req, len(ranked)) {
		res, _, err = r.dispatchConcurrent(ctx, req, ranked, r.raceWidth, reqID)
	} else {
		res, _, err = r.dispatchSequential(ctx, req, ranked, 0, reqID)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// useConcurrent decides the dispatch mode for one request. Racing is worth
// its extra cost only when the caller explicitly prioritizes latency, and
// only when there is more than one eligible provider to race.
func (r *Router) useConcurrent(req Request, eligible int) bool {
	if eligible < 2 {
		return false
	}
	switch r.mode {
	case DispatchSequential:
		return false
	case DispatchConcurrent:
		return true
	default:
		return req.Preferences.Speed == SpeedFast
	}
}

func validateRequest(req Request) error {
	if len(req.Payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidRequest)
	}
	if req.MaxResponseTime < 0 {
		return fmt.Errorf("%w: negative max response time", ErrInvalidRequest)
	}
	if req.MaxCostUnits != nil && *req.MaxCostUnits < 0 {
		return fmt.Errorf("%w: negative max cost units", ErrInvalidRequest)
	}
	return req.Preferences.validate()
}

func (p Preferences) validate() error {
	switch p.Cost {
	case "", CostLow, CostNormal, CostHigh:
	default:
		return fmt.Errorf("%w: unknown cost preference %q", ErrInvalidRequest, p.Cost)
	}
	switch p.Speed {
	case "", SpeedFast, SpeedNormal, SpeedSlow:
	default:
		return fmt.Errorf("%w: unknown speed preference %q", ErrInvalidRequest, p.Speed)
	}
	switch p.Quality {
	case "", QualityBasic, QualityGood, QualityExcellent:
	default:
		return fmt.Errorf("%w: unknown quality preference %q", ErrInvalidRequest, p.Quality)
	}
	return nil
}

// noopMeter is the default meter; it does nothing.
type noopMeter struct{}

func (noopMeter) OnRoute(RouteEvent)   {}
func (noopMeter) OnResult(ResultEvent) {}
