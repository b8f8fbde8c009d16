package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"warden/internal/domain"
	"warden/internal/identity/metrics"
	id "warden/pkg/domain"
)

const (
	// Redis key prefix for per-environment roster snapshots
	rosterKeyPrefix = "roster:env:"

	defaultRosterTTL = 30 * time.Second
)

// SnapshotCache is a read-through Redis cache in front of a Store. Only
// ListActiveByEnvironment is cached; writes pass through and invalidate
// the affected environment's snapshot. Cache failures degrade to the
// underlying store and are never surfaced to callers.
type SnapshotCache struct {
	store   Store
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// SnapshotCacheOption configures a SnapshotCache.
type SnapshotCacheOption func(*SnapshotCache)

// WithTTL overrides the snapshot expiry.
func WithTTL(ttl time.Duration) SnapshotCacheOption {
	return func(c *SnapshotCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMetrics attaches roster metrics.
func WithMetrics(m *metrics.Metrics) SnapshotCacheOption {
	return func(c *SnapshotCache) { c.metrics = m }
}

// NewSnapshotCache decorates store with a Redis snapshot cache.
func NewSnapshotCache(store Store, client *redis.Client, logger *slog.Logger, opts ...SnapshotCacheOption) *SnapshotCache {
	c := &SnapshotCache{
		store:  store,
		client: client,
		ttl:    defaultRosterTTL,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *SnapshotCache) Create(ctx context.Context, identity *domain.Identity) error {
	if err := c.store.Create(ctx, identity); err != nil {
		return err
	}
	c.invalidate(ctx, identity.EnvironmentID)
	return nil
}

func (c *SnapshotCache) Deactivate(ctx context.Context, identityID id.IdentityID, at time.Time) error {
	identity, err := c.store.FindByID(ctx, identityID)
	if err != nil {
		return err
	}
	if err := c.store.Deactivate(ctx, identityID, at); err != nil {
		return err
	}
	c.invalidate(ctx, identity.EnvironmentID)
	return nil
}

func (c *SnapshotCache) FindByID(ctx context.Context, identityID id.IdentityID) (*domain.Identity, error) {
	return c.store.FindByID(ctx, identityID)
}

func (c *SnapshotCache) ListActiveByEnvironment(ctx context.Context, environmentID id.EnvironmentID) ([]domain.Identity, error) {
	key := rosterKeyPrefix + environmentID.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if roster, decodeErr := decodeRoster(raw); decodeErr == nil {
			c.metrics.RecordCacheOutcome("hit")
			return roster, nil
		}
		// Undecodable entries are treated as misses and rewritten below.
		c.logger.WarnContext(ctx, "discarding undecodable roster cache entry",
			"environment_id", environmentID,
		)
	case !errors.Is(err, redis.Nil):
		c.metrics.RecordCacheOutcome("error")
		c.logger.WarnContext(ctx, "roster cache read failed",
			"environment_id", environmentID,
			"error", err,
		)
	}

	roster, err := c.store.ListActiveByEnvironment(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordCacheOutcome("miss")

	if encoded, encodeErr := encodeRoster(roster); encodeErr == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "roster cache write failed",
				"environment_id", environmentID,
				"error", setErr,
			)
		}
	}
	return roster, nil
}

func (c *SnapshotCache) invalidate(ctx context.Context, environmentID id.EnvironmentID) {
	key := rosterKeyPrefix + environmentID.String()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WarnContext(ctx, "roster cache invalidation failed",
			"environment_id", environmentID,
			"error", err,
		)
	}
}

// cachedIdentity is the cache wire shape; domain models stay free of
// serialization tags.
type cachedIdentity struct {
	ID            string    `json:"id"`
	EnvironmentID string    `json:"environment_id"`
	DisplayName   string    `json:"display_name"`
	Role          string    `json:"role"`
	Embedding     []float64 `json:"embedding"`
	Active        bool      `json:"active"`
	EnrolledAt    time.Time `json:"enrolled_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func encodeRoster(roster []domain.Identity) ([]byte, error) {
	out := make([]cachedIdentity, 0, len(roster))
	for _, identity := range roster {
		out = append(out, cachedIdentity{
			ID:            identity.ID.String(),
			EnvironmentID: identity.EnvironmentID.String(),
			DisplayName:   identity.DisplayName,
			Role:          identity.Role,
			Embedding:     identity.Embedding,
			Active:        identity.Active,
			EnrolledAt:    identity.EnrolledAt,
			UpdatedAt:     identity.UpdatedAt,
		})
	}
	return json.Marshal(out)
}

func decodeRoster(raw []byte) ([]domain.Identity, error) {
	var cached []cachedIdentity
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}
	roster := make([]domain.Identity, 0, len(cached))
	for _, entry := range cached {
		identityID, err := id.ParseIdentityID(entry.ID)
		if err != nil {
			return nil, err
		}
		roster = append(roster, domain.Identity{
			ID:            identityID,
			EnvironmentID: id.EnvironmentID(entry.EnvironmentID),
			DisplayName:   entry.DisplayName,
			Role:          entry.Role,
			Embedding:     domain.Embedding(entry.Embedding),
			Active:        entry.Active,
			EnrolledAt:    entry.EnrolledAt,
			UpdatedAt:     entry.UpdatedAt,
		})
	}
	return roster, nil
}
