//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	pgstore "warden/internal/decisionlog/store/postgres"
	"warden/internal/domain"
	id "warden/pkg/domain"
	"warden/pkg/testutil/containers"
)

type DecisionLogStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *pgstore.Store
}

func TestDecisionLogStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DecisionLogStoreSuite))
}

func (s *DecisionLogStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = pgstore.New(s.postgres.DB)
}

func (s *DecisionLogStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "decision_log"))
}

func (s *DecisionLogStoreSuite) newDecision() domain.AccessDecision {
	return domain.AccessDecision{
		ID:            id.NewDecisionID(),
		Timestamp:     time.Date(2025, 11, 4, 8, 30, 0, 0, time.UTC),
		EnvironmentID: "factory_floor",
		SourceID:      id.NewSourceID(),
		Match: domain.MatchResult{
			IdentityID:  id.NewIdentityID(),
			DisplayName: "Dana Oduya",
			Confidence:  0.875,
			Decision:    domain.MatchMatched,
		},
		Compliance: domain.ComplianceResult{
			Score:             0.75,
			RequiredSatisfied: true,
			Decision:          domain.CompliancePass,
		},
		Granted: true,
	}
}

func (s *DecisionLogStoreSuite) count() int {
	var count int
	err := s.postgres.DB.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM decision_log`).Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *DecisionLogStoreSuite) TestAppendPersistsGrantedDecision() {
	ctx := context.Background()
	decision := s.newDecision()

	s.Require().NoError(s.store.Append(ctx, decision))

	var (
		environmentID   string
		identityID      sql.NullString
		identityName    string
		matchDecision   string
		matchConfidence float64
		granted         bool
		denyReason      string
	)
	err := s.postgres.DB.QueryRowContext(ctx, `
		SELECT environment_id, identity_id::text, identity_name, match_decision,
		       match_confidence, granted, deny_reason
		FROM decision_log WHERE id = $1
	`, uuid.UUID(decision.ID)).Scan(
		&environmentID, &identityID, &identityName, &matchDecision,
		&matchConfidence, &granted, &denyReason,
	)
	s.Require().NoError(err)

	s.Equal("factory_floor", environmentID)
	s.Require().True(identityID.Valid)
	s.Equal(decision.Match.IdentityID.String(), identityID.String)
	s.Equal("Dana Oduya", identityName)
	s.Equal("matched", matchDecision)
	s.InDelta(0.875, matchConfidence, 1e-9)
	s.True(granted)
	s.Empty(denyReason)
}

func (s *DecisionLogStoreSuite) TestAppendDeniedDecisionWithoutIdentity() {
	ctx := context.Background()
	decision := s.newDecision()
	decision.Match = domain.MatchResult{Confidence: 0.25, Decision: domain.MatchNoMatch}
	decision.Compliance = domain.ComplianceResult{
		MissingRequired: []id.ItemKind{"safety_helmet", "safety_vest"},
		Decision:        domain.ComplianceFail,
	}
	decision.Granted = false
	decision.DenyReason = domain.DenyIdentityNotRecognized

	s.Require().NoError(s.store.Append(ctx, decision))

	var (
		identityID sql.NullString
		missing    []string
		denyReason string
	)
	err := s.postgres.DB.QueryRowContext(ctx, `
		SELECT identity_id::text, missing_required, deny_reason
		FROM decision_log WHERE id = $1
	`, uuid.UUID(decision.ID)).Scan(&identityID, pq.Array(&missing), &denyReason)
	s.Require().NoError(err)

	s.False(identityID.Valid)
	s.Equal([]string{"safety_helmet", "safety_vest"}, missing)
	s.Equal("identity_not_recognized", denyReason)
}

func (s *DecisionLogStoreSuite) TestAppendIsIdempotent() {
	ctx := context.Background()
	decision := s.newDecision()

	s.Require().NoError(s.store.Append(ctx, decision))

	// A redelivered decision with drifted fields must not overwrite the
	// first write.
	redelivered := decision
	redelivered.Match.DisplayName = "Someone Else"
	s.Require().NoError(s.store.Append(ctx, redelivered))

	s.Equal(1, s.count())

	var identityName string
	err := s.postgres.DB.QueryRowContext(ctx,
		`SELECT identity_name FROM decision_log WHERE id = $1`,
		uuid.UUID(decision.ID)).Scan(&identityName)
	s.Require().NoError(err)
	s.Equal("Dana Oduya", identityName)
}

func (s *DecisionLogStoreSuite) TestConcurrentRedelivery() {
	ctx := context.Background()
	decision := s.newDecision()
	const goroutines = 20

	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.Append(ctx, decision); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load())
	s.Equal(1, s.count())
}

func (s *DecisionLogStoreSuite) TestAppendKeepsArrivalOrder() {
	ctx := context.Background()

	first := s.newDecision()
	second := s.newDecision()
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	rows, err := s.postgres.DB.QueryContext(ctx,
		`SELECT id FROM decision_log ORDER BY seq`)
	s.Require().NoError(err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var rowID uuid.UUID
		s.Require().NoError(rows.Scan(&rowID))
		got = append(got, rowID.String())
	}
	s.Require().NoError(rows.Err())
	s.Equal([]string{first.ID.String(), second.ID.String()}, got)
}
