package decisionlog

import (
	"context"
	"errors"
	"log/slog"

	"warden/internal/decisionlog/metrics"
	"warden/internal/decisionlog/queue"
	"warden/internal/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/circuit"
	"warden/pkg/requestcontext"
)

// FallbackQueue is the durable local buffer the log spills to when the
// primary store is unavailable.
type FallbackQueue interface {
	Enqueue(ctx context.Context, decisionID string, payload []byte, enqueuedAtUnixMs int64) error
	PeekBatch(ctx context.Context, limit int) ([]queue.Entry, error)
	Delete(ctx context.Context, seq int64) error
	Depth(ctx context.Context) (int, error)
}

// Log is the resilient decision sink: primary first, durable local queue
// on primary failure. A breaker trips after consecutive primary failures
// so degraded mode skips doomed round-trips; reconciler drains re-close
// it. Only a double failure (primary and queue) surfaces as an error.
type Log struct {
	primary Store
	queue   FallbackQueue
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithBreaker overrides the default primary-store breaker.
func WithBreaker(b *circuit.Breaker) LogOption {
	return func(l *Log) {
		if b != nil {
			l.breaker = b
		}
	}
}

// WithMetrics attaches decision log metrics.
func WithMetrics(m *metrics.Metrics) LogOption {
	return func(l *Log) { l.metrics = m }
}

// NewLog builds the resilient decision log over a primary store and a
// fallback queue.
func NewLog(primary Store, fallback FallbackQueue, logger *slog.Logger, opts ...LogOption) *Log {
	l := &Log{
		primary: primary,
		queue:   fallback,
		breaker: circuit.New("decision-log-primary"),
		logger:  logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Append durably persists one decision and reports where it landed.
// PersistedLocally is a success: the decision sits in the fallback queue
// awaiting reconciliation.
// Errors: CodePersistenceDegraded only when both destinations failed.
func (l *Log) Append(ctx context.Context, decision domain.AccessDecision) (domain.PersistStatus, error) {
	if l.breaker.IsOpen() {
		// Degraded mode: skip the doomed primary round-trip.
		spillErr := l.spill(ctx, decision)
		if spillErr == nil {
			l.metrics.RecordAppend("fallback")
			return domain.PersistedLocally, nil
		}
		// The queue is broken too; the primary is the only option left.
		primaryErr := l.primary.Append(ctx, decision)
		if primaryErr == nil {
			l.recordSuccess(ctx)
			l.metrics.RecordAppend("primary")
			return domain.PersistedPrimary, nil
		}
		l.recordFailure(ctx, primaryErr)
		return l.doubleFailure(ctx, decision, primaryErr, spillErr)
	}

	primaryErr := l.primary.Append(ctx, decision)
	if primaryErr == nil {
		l.recordSuccess(ctx)
		l.metrics.RecordAppend("primary")
		return domain.PersistedPrimary, nil
	}
	l.recordFailure(ctx, primaryErr)

	spillErr := l.spill(ctx, decision)
	if spillErr == nil {
		l.logger.WarnContext(ctx, "decision persisted to local fallback queue",
			"decision_id", decision.ID,
			"error", primaryErr,
		)
		l.metrics.RecordAppend("fallback")
		return domain.PersistedLocally, nil
	}
	return l.doubleFailure(ctx, decision, primaryErr, spillErr)
}

func (l *Log) spill(ctx context.Context, decision domain.AccessDecision) error {
	payload, err := EncodeDecision(decision)
	if err != nil {
		return err
	}
	err = l.queue.Enqueue(ctx, decision.ID.String(), payload, requestcontext.Now(ctx).UnixMilli())
	if err != nil {
		return err
	}
	l.observeDepth(ctx)
	return nil
}

func (l *Log) doubleFailure(ctx context.Context, decision domain.AccessDecision, primaryErr, spillErr error) (domain.PersistStatus, error) {
	l.metrics.RecordAppend("failed")
	l.logger.ErrorContext(ctx, "decision could not be persisted anywhere",
		"decision_id", decision.ID,
		"primary_error", primaryErr,
		"queue_error", spillErr,
	)
	err := dErrors.Wrap(errors.Join(primaryErr, spillErr), dErrors.CodePersistenceDegraded, "decision could not be persisted")
	return "", err
}

func (l *Log) recordSuccess(ctx context.Context) {
	if _, change := l.breaker.RecordSuccess(); change.Closed {
		l.metrics.RecordBreakerTransition("closed")
		l.logger.InfoContext(ctx, "primary decision store circuit closed")
	}
}

func (l *Log) recordFailure(ctx context.Context, err error) {
	if _, change := l.breaker.RecordFailure(); change.Opened {
		l.metrics.RecordBreakerTransition("opened")
		l.logger.ErrorContext(ctx, "primary decision store circuit opened",
			"error", err,
		)
	}
}

func (l *Log) observeDepth(ctx context.Context) {
	if depth, err := l.queue.Depth(ctx); err == nil {
		l.metrics.SetQueueDepth(depth)
	}
}
