//go:build integration

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/domain"
	"warden/internal/identity"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
	"warden/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *identity.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = identity.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "identities"))
}

func (s *PostgresStoreSuite) newIdentity(identityID id.IdentityID) *domain.Identity {
	now := time.Date(2025, 11, 4, 8, 30, 0, 0, time.UTC)
	return &domain.Identity{
		ID:            identityID,
		EnvironmentID: "factory_floor",
		DisplayName:   "Dana Oduya",
		Role:          "operator",
		Embedding:     domain.Embedding{0.1, 0.2, 0.3, 0.4},
		Active:        true,
		EnrolledAt:    now,
		UpdatedAt:     now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindByID() {
	ctx := context.Background()
	stored := s.newIdentity(id.NewIdentityID())

	s.Require().NoError(s.store.Create(ctx, stored))

	got, err := s.store.FindByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal(stored.ID, got.ID)
	s.Equal(id.EnvironmentID("factory_floor"), got.EnvironmentID)
	s.Equal("Dana Oduya", got.DisplayName)
	s.Equal("operator", got.Role)
	s.Equal(domain.Embedding{0.1, 0.2, 0.3, 0.4}, got.Embedding)
	s.True(got.Active)
	s.True(got.EnrolledAt.Equal(stored.EnrolledAt))
	s.True(got.UpdatedAt.Equal(stored.UpdatedAt))
}

func (s *PostgresStoreSuite) TestCreateDuplicateIDConflicts() {
	ctx := context.Background()
	stored := s.newIdentity(id.NewIdentityID())

	s.Require().NoError(s.store.Create(ctx, stored))

	dup := s.newIdentity(stored.ID)
	dup.DisplayName = "Someone Else"
	s.Require().ErrorIs(s.store.Create(ctx, dup), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewIdentityID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeactivate() {
	ctx := context.Background()
	stored := s.newIdentity(id.NewIdentityID())
	s.Require().NoError(s.store.Create(ctx, stored))

	at := time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Deactivate(ctx, stored.ID, at))

	got, err := s.store.FindByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.False(got.Active)
	s.True(got.UpdatedAt.Equal(at))
}

func (s *PostgresStoreSuite) TestDeactivateUnknownIdentity() {
	err := s.store.Deactivate(context.Background(), id.NewIdentityID(), time.Now())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListActiveByEnvironment() {
	ctx := context.Background()

	// UUIDs chosen so the stable ordering is first, second.
	firstID, err := id.ParseIdentityID("11111111-1111-1111-1111-111111111111")
	s.Require().NoError(err)
	secondID, err := id.ParseIdentityID("22222222-2222-2222-2222-222222222222")
	s.Require().NoError(err)

	first := s.newIdentity(firstID)
	second := s.newIdentity(secondID)
	second.DisplayName = "Eli Ferro"

	other := s.newIdentity(id.NewIdentityID())
	other.EnvironmentID = "hospital_ward"

	retired := s.newIdentity(id.NewIdentityID())

	for _, identity := range []*domain.Identity{first, second, other, retired} {
		s.Require().NoError(s.store.Create(ctx, identity))
	}
	s.Require().NoError(s.store.Deactivate(ctx, retired.ID, time.Now()))

	roster, err := s.store.ListActiveByEnvironment(ctx, "factory_floor")
	s.Require().NoError(err)
	s.Require().Len(roster, 2)
	s.Equal(firstID, roster[0].ID)
	s.Equal(secondID, roster[1].ID)
	s.Equal("Eli Ferro", roster[1].DisplayName)
}

func (s *PostgresStoreSuite) TestListActiveByEnvironmentEmpty() {
	roster, err := s.store.ListActiveByEnvironment(context.Background(), "factory_floor")
	s.Require().NoError(err)
	s.Empty(roster)
}
