package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"warden/internal/domain"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// Schema is the identities DDL, applied by deployment tooling and the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS identities (
    id uuid PRIMARY KEY,
    environment_id text NOT NULL,
    display_name text NOT NULL,
    role text NOT NULL DEFAULT '',
    embedding float8[] NOT NULL,
    active boolean NOT NULL DEFAULT true,
    enrolled_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS identities_environment_active_idx
    ON identities (environment_id, id) WHERE active;
`

// DB is the slice of pgx that the store needs. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres persists identities with the embedding stored as float8[].
type Postgres struct {
	db DB
}

func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, identity *domain.Identity) error {
	query := `
		INSERT INTO identities (id, environment_id, display_name, role, embedding, active, enrolled_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.Exec(ctx, query,
		identity.ID.String(),
		identity.EnvironmentID.String(),
		identity.DisplayName,
		identity.Role,
		[]float64(identity.Embedding),
		identity.Active,
		identity.EnrolledAt,
		identity.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *Postgres) Deactivate(ctx context.Context, identityID id.IdentityID, at time.Time) error {
	query := `UPDATE identities SET active = false, updated_at = $2 WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, identityID.String(), at)
	if err != nil {
		return fmt.Errorf("deactivate identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, identityID id.IdentityID) (*domain.Identity, error) {
	query := `
		SELECT id, environment_id, display_name, role, embedding, active, enrolled_at, updated_at
		FROM identities
		WHERE id = $1
	`
	identity, err := scanIdentity(s.db.QueryRow(ctx, query, identityID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return identity, nil
}

func (s *Postgres) ListActiveByEnvironment(ctx context.Context, environmentID id.EnvironmentID) ([]domain.Identity, error) {
	query := `
		SELECT id, environment_id, display_name, role, embedding, active, enrolled_at, updated_at
		FROM identities
		WHERE environment_id = $1 AND active
		ORDER BY id
	`
	rows, err := s.db.Query(ctx, query, environmentID.String())
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		out = append(out, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return out, nil
}

const pgerrUniqueViolation = "23505"

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var (
		identity  domain.Identity
		rawID     pgtype.UUID
		rawEnv    string
		embedding []float64
	)
	err := row.Scan(
		&rawID,
		&rawEnv,
		&identity.DisplayName,
		&identity.Role,
		&embedding,
		&identity.Active,
		&identity.EnrolledAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	identity.ID = id.IdentityID(rawID.Bytes)
	identity.EnvironmentID = id.EnvironmentID(rawEnv)
	identity.Embedding = domain.Embedding(embedding)
	return &identity, nil
}
