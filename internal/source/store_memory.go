package source

import (
	"context"
	"sync"

	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and single-node
// development.
type InMemory struct {
	mu      sync.RWMutex
	sources map[id.SourceID]Source
}

func NewInMemory() *InMemory {
	return &InMemory{sources: make(map[id.SourceID]Source)}
}

func (s *InMemory) Create(_ context.Context, src *Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sources[src.ID]; exists {
		return sentinel.ErrConflict
	}
	s.sources[src.ID] = *src
	return nil
}

func (s *InMemory) FindByID(_ context.Context, sourceID id.SourceID) (*Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if src, ok := s.sources[sourceID]; ok {
		return &src, nil
	}
	return nil, sentinel.ErrNotFound
}
