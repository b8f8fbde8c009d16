package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"warden/internal/domain"
	"warden/internal/identity/metrics"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

// Enrollment is the input for enrolling one identity.
type Enrollment struct {
	EnvironmentID id.EnvironmentID
	DisplayName   string
	Role          string
	Embedding     domain.Embedding
}

// Service exposes roster management and the match-time snapshot read.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// Enroll validates and persists a new active identity, generating its id
// and timestamps.
// Errors: CodeInvalidInput on a malformed enrollment.
func (s *Service) Enroll(ctx context.Context, enrollment Enrollment) (*domain.Identity, error) {
	now := requestcontext.Now(ctx).UTC()
	identity := domain.Identity{
		ID:            id.NewIdentityID(),
		EnvironmentID: enrollment.EnvironmentID,
		DisplayName:   enrollment.DisplayName,
		Role:          enrollment.Role,
		Embedding:     enrollment.Embedding.Clone(),
		Active:        true,
		EnrolledAt:    now,
		UpdatedAt:     now,
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &identity); err != nil {
		return nil, storeError(err, "enroll identity")
	}

	s.logger.InfoContext(ctx, "identity enrolled",
		"identity_id", identity.ID,
		"environment_id", identity.EnvironmentID,
		"role", identity.Role,
	)
	return &identity, nil
}

// Disable soft-deletes an identity: it stops matching immediately but
// stays resolvable for past decisions.
// Errors: CodeNotFound for unknown ids.
func (s *Service) Disable(ctx context.Context, identityID id.IdentityID) error {
	err := s.store.Deactivate(ctx, identityID, requestcontext.Now(ctx).UTC())
	if err != nil {
		return storeError(err, "disable identity")
	}
	s.logger.InfoContext(ctx, "identity disabled", "identity_id", identityID)
	return nil
}

// Get returns one identity, active or not.
// Errors: CodeNotFound for unknown ids.
func (s *Service) Get(ctx context.Context, identityID id.IdentityID) (*domain.Identity, error) {
	identity, err := s.store.FindByID(ctx, identityID)
	if err != nil {
		return nil, storeError(err, "find identity")
	}
	return identity, nil
}

// Snapshot returns the active roster for an environment. The slice is
// caller-owned; mutating it cannot affect the store or other callers.
func (s *Service) Snapshot(ctx context.Context, environmentID id.EnvironmentID) ([]domain.Identity, error) {
	start := time.Now()
	roster, err := s.store.ListActiveByEnvironment(ctx, environmentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "roster snapshot")
	}
	s.metrics.ObserveSnapshot(time.Since(start), len(roster))
	return roster, nil
}

// storeError maps store sentinels onto typed domain errors.
func storeError(err error, message string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, message)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
