package airouter

import (
	"context"
	"errors"
	"time"
)

// DispatchMode selects how a ranked list is executed.
type DispatchMode string

const (
	// DispatchAuto races only when the request explicitly prioritizes
	// speed; everything else runs sequentially. Racing multiplies cost.
	DispatchAuto DispatchMode = "auto"

	// DispatchSequential tries providers strictly in ranked order, one
	// outstanding call at a time.
	DispatchSequential DispatchMode = "sequential"

	// DispatchConcurrent races the top-ranked providers and takes the
	// first success.
	DispatchConcurrent DispatchMode = "concurrent"
)

// DefaultRaceWidth is how many providers a concurrent dispatch races.
const DefaultRaceWidth = 2

// attemptCall invokes one candidate and performs all per-attempt
// bookkeeping in one place: latency measurement, tracker sample, breaker
// and spend updates, meter events. Exactly one tracker record per settled
// attempt, success or failure. A timeout is recorded at the full timeout
// value so a provider that times out is never mistaken for a fast one.
//
// A cancelled attempt never settled: losing a race (or the caller giving
// up) says nothing about the provider, so it produces no tracker sample and
// no breaker failure.
func (r *Router) attemptCall(ctx context.Context, req Request, c Candidate, rank int, reqID string, mode DispatchMode) (Result, Attempt) {
	r.meter.OnRoute(RouteEvent{
		RequestID: reqID,
		Provider:  c.Key,
		Operation: req.Operation,
		Rank:      rank,
		Mode:      mode,
	})

	start := time.Now()
	resp, err := c.Provider.Invoke(ctx, req)
	latency := time.Since(start)
	if errors.Is(err, ErrProviderTimeout) {
		latency = c.Profile.Timeout(req)
	}

	cancelled := errors.Is(err, context.Canceled)
	if !cancelled {
		r.tracker.Record(c.Key, latency)
	}

	if err != nil {
		if !cancelled {
			r.health.RecordFailure(c.Key)
		}
		r.meter.OnResult(ResultEvent{
			RequestID: reqID,
			Provider:  c.Key,
			Operation: req.Operation,
			Duration:  latency,
			Cancelled: cancelled,
			Error:     err,
		})
		return Result{}, Attempt{ProviderKey: c.Key, Rank: rank, Latency: latency, Err: err}
	}

	r.health.RecordSuccess(c.Key)
	r.spend.RecordSpend(c.Key, c.Profile.CostUnits)
	r.meter.OnResult(ResultEvent{
		RequestID: reqID,
		Provider:  c.Key,
		Operation: req.Operation,
		Success:   true,
		Duration:  latency,
		CostUnits: c.Profile.CostUnits,
	})

	return Result{
		RequestID:   reqID,
		ProviderKey: c.Key,
		Payload:     resp.Payload,
		Latency:     latency,
		CostUnits:   c.Profile.CostUnits,
		Rank:        rank,
	}, Attempt{ProviderKey: c.Key, Rank: rank, Latency: latency}
}

// dispatchSequential tries providers strictly in ranked order until one
// succeeds. Each failure moves to the next candidate; no provider is ever
// retried within one request. rankOffset carries the ranks already consumed
// by a preceding race.
func (r *Router) dispatchSequential(ctx context.Context, req Request, ranked []Candidate, rankOffset int, reqID string) (Result, []Attempt, error) {
	attempts := make([]Attempt, 0, len(ranked))

	for i, c := range ranked {
		if err := ctx.Err(); err != nil {
			return Result{}, attempts, &RouterError{Err: err, RequestID: reqID, Attempts: attempts}
		}

		rank := rankOffset + i
		res, att := r.attemptCall(ctx, req, c, rank, reqID, DispatchSequential)
		attempts = append(attempts, att)
		if att.Err == nil {
			res.Attempts = rankOffset + len(attempts)
			return res, attempts, nil
		}
	}

	return Result{}, attempts, &RouterError{Err: ErrAllProvidersFailed, RequestID: reqID, Attempts: attempts}
}

// dispatchConcurrent races the first width ranked candidates and returns the
// first success. Losers are cancelled; one that settles with a real outcome
// anyway (an upstream that cannot be cancelled) still has its latency and
// outcome recorded by its own goroutine, so a provider that loses a race
// because it was slow is penalized in its rolling average. If every racer
// fails, dispatch continues sequentially over the remainder of the ranked
// list.
func (r *Router) dispatchConcurrent(ctx context.Context, req Request, ranked []Candidate, width int, reqID string) (Result, []Attempt, error) {
	if width > len(ranked) {
		width = len(ranked)
	}
	if width < 2 {
		return r.dispatchSequential(ctx, req, ranked, 0, reqID)
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type raceOutcome struct {
		res Result
		att Attempt
	}

	// Buffered so losers never block after the winner returns.
	outcomes := make(chan raceOutcome, width)
	for i := 0; i < width; i++ {
		go func(rank int, c Candidate) {
			res, att := r.attemptCall(raceCtx, req, c, rank, reqID, DispatchConcurrent)
			outcomes <- raceOutcome{res: res, att: att}
		}(i, ranked[i])
	}

	attempts := make([]Attempt, 0, width)
	for i := 0; i < width; i++ {
		o := <-outcomes
		attempts = append(attempts, o.att)
		if o.att.Err == nil {
			cancel()
			o.res.Attempts = width
			return o.res, attempts, nil
		}
	}

	// All racers failed; do not give up before the rest of the list has
	// had its turn.
	res, tail, err := r.dispatchSequential(ctx, req, ranked[width:], width, reqID)
	attempts = append(attempts, tail...)
	if err != nil {
		var re *RouterError
		if errors.As(err, &re) {
			re.Attempts = attempts
		}
		return Result{}, attempts, err
	}
	return res, attempts, nil
}
