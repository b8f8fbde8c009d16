// Package memory is an in-memory decision log store for tests and
// single-node development. It mirrors the primary store's idempotency
// contract.
package memory

import (
	"context"
	"sync"

	"warden/internal/domain"
	id "warden/pkg/domain"
)

type Store struct {
	mu        sync.RWMutex
	order     []id.DecisionID
	decisions map[id.DecisionID]domain.AccessDecision
}

func New() *Store {
	return &Store{decisions: make(map[id.DecisionID]domain.AccessDecision)}
}

func (s *Store) Append(_ context.Context, decision domain.AccessDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.decisions[decision.ID]; exists {
		return nil
	}
	s.decisions[decision.ID] = decision
	s.order = append(s.order, decision.ID)
	return nil
}

// All returns appended decisions in append order.
func (s *Store) All() []domain.AccessDecision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AccessDecision, 0, len(s.order))
	for _, decisionID := range s.order {
		out = append(out, s.decisions[decisionID])
	}
	return out
}

// Len returns the number of distinct appended decisions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
