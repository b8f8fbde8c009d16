package decisionlog

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultDrainInterval    = 5 * time.Second
	defaultDrainMaxInterval = 2 * time.Minute
	defaultDrainBatchSize   = 100
)

// Reconciler drains the fallback queue back into the primary store in
// FIFO order. Each successful replay doubles as a breaker probe, so a
// recovered primary closes the circuit without separate health checks.
type Reconciler struct {
	log         *Log
	interval    time.Duration
	maxInterval time.Duration
	batchSize   int
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithDrainInterval sets the base delay between drain passes.
func WithDrainInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithDrainMaxInterval caps the backoff between failed drain passes.
func WithDrainMaxInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.maxInterval = d
		}
	}
}

// WithDrainBatchSize sets how many queued decisions one peek fetches.
func WithDrainBatchSize(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// NewReconciler builds a reconciler over the log's queue and primary.
func NewReconciler(log *Log, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		log:         log,
		interval:    defaultDrainInterval,
		maxInterval: defaultDrainMaxInterval,
		batchSize:   defaultDrainBatchSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run drains on a timer until ctx is cancelled. Failed passes back off
// exponentially up to the configured cap; any successful pass resets the
// delay.
func (r *Reconciler) Run(ctx context.Context) error {
	wait := r.interval
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		drained, err := r.drain(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait *= 2
			if wait > r.maxInterval {
				wait = r.maxInterval
			}
			r.log.logger.WarnContext(ctx, "fallback queue drain halted",
				"drained", drained,
				"retry_in", wait,
				"error", err,
			)
		} else {
			wait = r.interval
			if drained > 0 {
				r.log.logger.InfoContext(ctx, "fallback queue drained into primary store",
					"drained", drained,
				)
			}
		}
		timer.Reset(wait)
	}
}

// drain replays queued decisions oldest first until the queue is empty
// or the primary fails again. A primary failure leaves the failed entry
// and everything behind it queued, preserving replay order.
func (r *Reconciler) drain(ctx context.Context) (int, error) {
	drained := 0
	for {
		if err := ctx.Err(); err != nil {
			return drained, err
		}

		entries, err := r.log.queue.PeekBatch(ctx, r.batchSize)
		if err != nil {
			return drained, fmt.Errorf("peek fallback queue: %w", err)
		}
		if len(entries) == 0 {
			r.log.observeDepth(ctx)
			return drained, nil
		}

		for _, entry := range entries {
			decision, decodeErr := DecodeDecision(entry.Payload)
			if decodeErr != nil {
				// An undecodable entry can never drain; leaving it in
				// place would wedge every decision queued behind it.
				r.log.logger.ErrorContext(ctx, "dropping corrupt fallback queue entry",
					"seq", entry.Seq,
					"decision_id", entry.DecisionID,
					"error", decodeErr,
				)
				if err := r.log.queue.Delete(ctx, entry.Seq); err != nil {
					return drained, fmt.Errorf("delete corrupt entry %d: %w", entry.Seq, err)
				}
				r.log.metrics.RecordDrain("corrupt")
				continue
			}

			if err := r.log.primary.Append(ctx, decision); err != nil {
				r.log.recordFailure(ctx, err)
				r.log.metrics.RecordDrain("retry")
				r.log.observeDepth(ctx)
				return drained, fmt.Errorf("replay decision %s: %w", entry.DecisionID, err)
			}
			r.log.recordSuccess(ctx)

			if err := r.log.queue.Delete(ctx, entry.Seq); err != nil {
				return drained, fmt.Errorf("dequeue decision %s: %w", entry.DecisionID, err)
			}
			r.log.metrics.RecordDrain("drained")
			drained++
		}
	}
}
