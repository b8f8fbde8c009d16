package source

import (
	"context"

	id "warden/pkg/domain"
)

// Store persists registered capture sources. Implementations return
// sentinel.ErrNotFound for unknown ids and sentinel.ErrConflict for
// duplicate ids.
type Store interface {
	Create(ctx context.Context, src *Source) error
	FindByID(ctx context.Context, sourceID id.SourceID) (*Source, error)
}
