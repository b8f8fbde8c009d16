package identity

import (
	"context"
	"sort"
	"sync"
	"time"

	"warden/internal/domain"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and single-node
// development.
type InMemory struct {
	mu         sync.RWMutex
	identities map[id.IdentityID]domain.Identity
}

func NewInMemory() *InMemory {
	return &InMemory{identities: make(map[id.IdentityID]domain.Identity)}
}

func (s *InMemory) Create(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.identities[identity.ID]; exists {
		return sentinel.ErrConflict
	}
	s.identities[identity.ID] = identity.Clone()
	return nil
}

func (s *InMemory) Deactivate(_ context.Context, identityID id.IdentityID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[identityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	identity.Active = false
	identity.UpdatedAt = at
	s.identities[identityID] = identity
	return nil
}

func (s *InMemory) FindByID(_ context.Context, identityID id.IdentityID) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.identities[identityID]; ok {
		clone := identity.Clone()
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListActiveByEnvironment(_ context.Context, environmentID id.EnvironmentID) ([]domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Identity
	for _, identity := range s.identities {
		if identity.Active && identity.EnvironmentID == environmentID {
			out = append(out, identity.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}
