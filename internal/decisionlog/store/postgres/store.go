// Package postgres is the primary decision log store. Rows are ordered
// by a monotonic sequence and keyed by decision id, so reconciled
// redeliveries from the fallback queue land exactly once.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"warden/internal/domain"
)

// Schema is the decision log DDL, applied by deployment tooling and the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS decision_log (
    seq bigserial,
    id uuid PRIMARY KEY,
    ts timestamptz NOT NULL,
    environment_id text NOT NULL,
    source_id uuid NOT NULL,
    identity_id uuid,
    identity_name text NOT NULL DEFAULT '',
    match_decision text NOT NULL,
    match_confidence double precision NOT NULL,
    compliance_decision text NOT NULL,
    compliance_score double precision NOT NULL,
    required_satisfied boolean NOT NULL,
    missing_required text[] NOT NULL DEFAULT '{}',
    granted boolean NOT NULL,
    deny_reason text NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS decision_log_environment_seq_idx
    ON decision_log (environment_id, seq);
`

// Store appends decisions to PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one decision. Idempotent via ON CONFLICT DO NOTHING.
func (s *Store) Append(ctx context.Context, decision domain.AccessDecision) error {
	query := `
		INSERT INTO decision_log (
			id, ts, environment_id, source_id,
			identity_id, identity_name, match_decision, match_confidence,
			compliance_decision, compliance_score, required_satisfied, missing_required,
			granted, deny_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`

	var identityID *uuid.UUID
	if !decision.Match.IdentityID.IsNil() {
		uid := uuid.UUID(decision.Match.IdentityID)
		identityID = &uid
	}

	missing := make([]string, 0, len(decision.Compliance.MissingRequired))
	for _, kind := range decision.Compliance.MissingRequired {
		missing = append(missing, kind.String())
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(decision.ID),
		decision.Timestamp,
		decision.EnvironmentID.String(),
		uuid.UUID(decision.SourceID),
		identityID,
		decision.Match.DisplayName,
		string(decision.Match.Decision),
		decision.Match.Confidence,
		string(decision.Compliance.Decision),
		decision.Compliance.Score,
		decision.Compliance.RequiredSatisfied,
		pq.Array(missing),
		decision.Granted,
		string(decision.DenyReason),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}
