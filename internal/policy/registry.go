package policy

import (
	"sort"
	"sync"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Registry holds the registered environment policies and the active
// default. Reads return deep value snapshots; writes validate, clone, and
// swap under the lock. An in-flight evaluation holding a snapshot is never
// affected by a later Register or SetActive.
type Registry struct {
	mu       sync.RWMutex
	policies map[id.EnvironmentID]EnvironmentPolicy
	activeID id.EnvironmentID
}

// NewRegistry constructs an empty registry with no active policy.
func NewRegistry() *Registry {
	return &Registry{
		policies: make(map[id.EnvironmentID]EnvironmentPolicy),
	}
}

// Register validates and stores a policy. Re-registering an existing id
// replaces it atomically. The registry keeps its own clone, so later
// mutation of the argument has no effect on registered state.
// Errors: CodeInvalidPolicy when validation fails.
func (r *Registry) Register(p EnvironmentPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	clone := p.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[clone.ID] = clone
	return nil
}

// SetActive marks a registered policy as the evaluation default.
// Errors: CodeUnknownEnvironment when the id is not registered.
func (r *Registry) SetActive(envID id.EnvironmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[envID]; !ok {
		return dErrors.Newf(dErrors.CodeUnknownEnvironment, "policy %q is not registered", envID)
	}
	r.activeID = envID
	return nil
}

// Active returns a snapshot of the active policy.
// Errors: CodeUnknownEnvironment when no active policy is set.
func (r *Registry) Active() (EnvironmentPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeID.IsNil() {
		return EnvironmentPolicy{}, dErrors.New(dErrors.CodeUnknownEnvironment, "no active policy set")
	}
	return r.policies[r.activeID].Clone(), nil
}

// Get returns a snapshot of the policy registered under envID.
// Errors: CodeUnknownEnvironment when the id is not registered.
func (r *Registry) Get(envID id.EnvironmentID) (EnvironmentPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[envID]
	if !ok {
		return EnvironmentPolicy{}, dErrors.Newf(dErrors.CodeUnknownEnvironment, "policy %q is not registered", envID)
	}
	return p.Clone(), nil
}

// List returns snapshots of all registered policies sorted by id.
func (r *Registry) List() []EnvironmentPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EnvironmentPolicy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveID returns the active environment id, empty when unset.
func (r *Registry) ActiveID() id.EnvironmentID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}
