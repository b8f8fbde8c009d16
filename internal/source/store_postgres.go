package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// Schema is the capture sources DDL, applied by deployment tooling and
// the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS capture_sources (
    id uuid PRIMARY KEY,
    environment_id text NOT NULL,
    name text NOT NULL,
    secret_hash text NOT NULL,
    active boolean NOT NULL DEFAULT true,
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);
`

// DB is the slice of pgx that the store needs. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres persists capture sources.
type Postgres struct {
	db DB
}

func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, src *Source) error {
	query := `
		INSERT INTO capture_sources (id, environment_id, name, secret_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query,
		src.ID.String(),
		src.EnvironmentID.String(),
		src.Name,
		src.SecretHash,
		src.Active,
		src.CreatedAt,
		src.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, sourceID id.SourceID) (*Source, error) {
	query := `
		SELECT id, environment_id, name, secret_hash, active, created_at, updated_at
		FROM capture_sources
		WHERE id = $1
	`
	var (
		src    Source
		rawID  pgtype.UUID
		rawEnv string
	)
	err := s.db.QueryRow(ctx, query, sourceID.String()).Scan(
		&rawID,
		&rawEnv,
		&src.Name,
		&src.SecretHash,
		&src.Active,
		&src.CreatedAt,
		&src.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find source: %w", err)
	}
	src.ID = id.SourceID(rawID.Bytes)
	src.EnvironmentID = id.EnvironmentID(rawEnv)
	return &src, nil
}

const pgerrUniqueViolation = "23505"
