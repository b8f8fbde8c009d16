// Package access composes the policy registry, matching engine,
// compliance scorer, and decision log into the evaluation pipeline. It
// is the only package that decides grant or deny.
package access

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"warden/internal/access/metrics"
	"warden/internal/compliance"
	"warden/internal/domain"
	"warden/internal/facematch"
	"warden/internal/policy"
	id "warden/pkg/domain"
	"warden/pkg/requestcontext"
)

// Service runs detection inputs through the evaluation pipeline.
type Service struct {
	policies PolicyResolver
	roster   RosterProvider
	sink     DecisionSink
	events   EventPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches evaluation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPublisher attaches a decision event publisher. Without one,
// decisions are persisted but not published.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// NewService builds the orchestrator over its collaborators.
func NewService(policies PolicyResolver, roster RosterProvider, sink DecisionSink, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		policies: policies,
		roster:   roster,
		sink:     sink,
		logger:   logger,
		tracer:   otel.Tracer("warden/internal/access"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs one detection input through the full pipeline: resolve
// the policy, gate on its schedule, match the embedding, score the
// detected items, decide, persist, publish. The decision is returned
// only after the append attempt completed, so a returned decision is
// always at least locally durable.
//
// Fail-closed: an unresolvable environment or roster produces a denied
// decision (ConfigurationError) that is still persisted, not an error.
// Errors: CodeInvalidInput on a malformed input (rejected before any
// decision); CodePersistenceDegraded when both the primary store and
// the fallback queue refused the append.
func (s *Service) Evaluate(ctx context.Context, input domain.DetectionInput) (domain.AccessDecision, domain.PersistStatus, error) {
	ctx, span := s.tracer.Start(ctx, "access.evaluate")
	defer span.End()

	start := time.Now()

	if err := input.Validate(); err != nil {
		s.metrics.RecordRejected()
		span.RecordError(err)
		return domain.AccessDecision{}, "", err
	}

	at := input.Timestamp
	if at.IsZero() {
		at = requestcontext.Now(ctx)
	}

	decision := s.buildDecision(ctx, input, at)

	status, err := s.sink.Append(ctx, decision)
	if err != nil {
		span.RecordError(err)
		return domain.AccessDecision{}, "", err
	}
	if s.events != nil {
		s.events.Publish(ctx, decision)
	}

	s.metrics.RecordDecision(decision.EnvironmentID.String(), decision.Granted, string(decision.DenyReason))
	s.metrics.ObserveEvaluate(decision.EnvironmentID.String(), time.Since(start))
	span.SetAttributes(
		attribute.String("decision.id", decision.ID.String()),
		attribute.String("decision.environment", decision.EnvironmentID.String()),
		attribute.Bool("decision.granted", decision.Granted),
		attribute.String("decision.deny_reason", string(decision.DenyReason)),
		attribute.String("decision.persist_status", string(status)),
	)

	s.logger.InfoContext(ctx, "access decision evaluated",
		"decision_id", decision.ID,
		"environment_id", decision.EnvironmentID,
		"source_id", decision.SourceID,
		"granted", decision.Granted,
		"deny_reason", decision.DenyReason,
		"persist_status", status,
	)

	return decision, status, nil
}

// buildDecision resolves the policy and runs the gates. Unresolvable
// configuration yields a denied record with zero-value gate results;
// the deny reason carries the explanation.
func (s *Service) buildDecision(ctx context.Context, input domain.DetectionInput, at time.Time) domain.AccessDecision {
	decision := domain.AccessDecision{
		ID:            id.NewDecisionID(),
		Timestamp:     at.UTC(),
		EnvironmentID: input.EnvironmentID,
		SourceID:      input.SourceID,
	}

	pol, err := s.resolvePolicy(input.EnvironmentID)
	if err != nil {
		s.logger.WarnContext(ctx, "environment unresolved, denying",
			"environment_id", input.EnvironmentID,
			"error", err,
		)
		decision.DenyReason = domain.DenyConfigurationError
		return decision
	}
	decision.EnvironmentID = pol.ID

	roster, err := s.roster.Snapshot(ctx, pol.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "roster snapshot failed, denying",
			"environment_id", pol.ID,
			"error", err,
		)
		decision.DenyReason = domain.DenyConfigurationError
		return decision
	}

	// Match and score always run, even when the schedule gate already
	// decided the deny, so the record carries the full audit picture.
	decision.Match = facematch.Match(input.QueryEmbedding, candidates(roster), pol.FaceMatchThreshold)
	decision.Compliance = compliance.Score(pol, input.DetectedItems)
	decision.Granted, decision.DenyReason = decide(
		pol.Schedule.Contains(at),
		decision.Match.Decision,
		decision.Compliance.Decision,
	)
	return decision
}

// resolvePolicy returns the snapshot for the input's environment, or
// the active policy when the input leaves the environment empty.
func (s *Service) resolvePolicy(environmentID id.EnvironmentID) (policy.EnvironmentPolicy, error) {
	if environmentID.IsNil() {
		return s.policies.Active()
	}
	return s.policies.Get(environmentID)
}

// candidates projects a roster snapshot into matcher candidates.
func candidates(roster []domain.Identity) []facematch.Candidate {
	out := make([]facematch.Candidate, 0, len(roster))
	for _, identity := range roster {
		out = append(out, facematch.Candidate{
			ID:          identity.ID,
			DisplayName: identity.DisplayName,
			Embedding:   identity.Embedding,
		})
	}
	return out
}
