package policy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(validPolicy()))

	got, err := r.Get("factory")
	require.NoError(t, err)
	assert.Equal(t, "Factory", got.DisplayName)
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()

	p := validPolicy()
	p.FaceMatchThreshold = 0

	err := r.Register(p)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidPolicy))
	assert.Empty(t, r.List())
}

func TestRegistry_GetUnknownEnvironment(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("atlantis")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownEnvironment))
}

func TestRegistry_ReRegisterReplacesAtomically(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(validPolicy()))

	replacement := validPolicy()
	replacement.DisplayName = "Factory North"
	replacement.FaceMatchThreshold = 0.8
	require.NoError(t, r.Register(replacement))

	got, err := r.Get("factory")
	require.NoError(t, err)
	assert.Equal(t, "Factory North", got.DisplayName)
	assert.Equal(t, 0.8, got.FaceMatchThreshold)
	assert.Len(t, r.List(), 1)
}

func TestRegistry_SetActive(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(validPolicy()))

	t.Run("unknown id fails", func(t *testing.T) {
		err := r.SetActive("atlantis")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownEnvironment))
	})

	t.Run("no active set fails", func(t *testing.T) {
		_, err := r.Active()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownEnvironment))
	})

	t.Run("active returns the chosen policy", func(t *testing.T) {
		require.NoError(t, r.SetActive("factory"))
		got, err := r.Active()
		require.NoError(t, err)
		assert.Equal(t, id.EnvironmentID("factory"), got.ID)
		assert.Equal(t, id.EnvironmentID("factory"), r.ActiveID())
	})
}

func TestRegistry_SnapshotsAreIsolated(t *testing.T) {
	r := NewRegistry()

	// Mutating the argument after Register must not affect the registry.
	p := validPolicy()
	require.NoError(t, r.Register(p))
	p.OptionalItems["gloves"] = 99
	p.RequiredItems[0] = "mutated"

	got, err := r.Get("factory")
	require.NoError(t, err)
	assert.Equal(t, 0.3, got.OptionalItems["gloves"])
	assert.Equal(t, id.ItemKind("worker_id"), got.RequiredItems[0])

	// Mutating a returned snapshot must not affect later reads.
	got.OptionalItems["gloves"] = -5
	again, err := r.Get("factory")
	require.NoError(t, err)
	assert.Equal(t, 0.3, again.OptionalItems["gloves"])
}

func TestRegistry_ConcurrentReadersAndWriters(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(validPolicy()))
	require.NoError(t, r.SetActive("factory"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p := validPolicy()
			p.FaceMatchThreshold = 0.7
			_ = r.Register(p)
		}()
		go func() {
			defer wg.Done()
			got, err := r.Active()
			require.NoError(t, err)
			// Readers observe a complete policy, old or new, never a mix.
			assert.Equal(t, id.EnvironmentID("factory"), got.ID)
			assert.Contains(t, []float64{0.6, 0.7}, got.FaceMatchThreshold)
		}()
	}
	wg.Wait()
}

func TestRegistry_ListSortedByID(t *testing.T) {
	r := NewRegistry()

	b := validPolicy()
	b.ID = "beta"
	a := validPolicy()
	a.ID = "alpha"
	require.NoError(t, r.Register(b))
	require.NoError(t, r.Register(a))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, id.EnvironmentID("alpha"), list[0].ID)
	assert.Equal(t, id.EnvironmentID("beta"), list[1].ID)
}
