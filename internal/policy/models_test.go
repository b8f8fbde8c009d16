package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

func validPolicy() EnvironmentPolicy {
	return EnvironmentPolicy{
		ID:                   "factory",
		DisplayName:          "Factory",
		RequiresUniformCheck: true,
		FaceMatchThreshold:   0.6,
		UniformPassThreshold: 0.6,
		RequiredItems:        []id.ItemKind{"worker_id", "safety_helmet"},
		OptionalItems: map[id.ItemKind]float64{
			"safety_vest": 0.4,
			"gloves":      0.3,
		},
	}
}

func TestEnvironmentPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EnvironmentPolicy)
		valid  bool
	}{
		{"valid policy", func(p *EnvironmentPolicy) {}, true},
		{"empty id", func(p *EnvironmentPolicy) { p.ID = "" }, false},
		{"uppercase id", func(p *EnvironmentPolicy) { p.ID = "Factory" }, false},
		{"empty display name", func(p *EnvironmentPolicy) { p.DisplayName = "" }, false},
		{"zero face threshold", func(p *EnvironmentPolicy) { p.FaceMatchThreshold = 0 }, false},
		{"face threshold above one", func(p *EnvironmentPolicy) { p.FaceMatchThreshold = 1.01 }, false},
		{"face threshold exactly one", func(p *EnvironmentPolicy) { p.FaceMatchThreshold = 1 }, true},
		{"zero uniform threshold with check", func(p *EnvironmentPolicy) { p.UniformPassThreshold = 0 }, false},
		{"uniform threshold ignored without check", func(p *EnvironmentPolicy) {
			p.RequiresUniformCheck = false
			p.UniformPassThreshold = 0
		}, true},
		{"duplicate required item", func(p *EnvironmentPolicy) {
			p.RequiredItems = append(p.RequiredItems, "worker_id")
		}, false},
		{"item both required and optional", func(p *EnvironmentPolicy) {
			p.OptionalItems["worker_id"] = 0.2
		}, false},
		{"negative optional weight", func(p *EnvironmentPolicy) {
			p.OptionalItems["gloves"] = -0.1
		}, false},
		{"all optional weights zero", func(p *EnvironmentPolicy) {
			p.OptionalItems = map[id.ItemKind]float64{"gloves": 0}
		}, false},
		{"no items at all", func(p *EnvironmentPolicy) {
			p.RequiredItems = nil
			p.OptionalItems = nil
		}, true},
		{"invalid required item kind", func(p *EnvironmentPolicy) {
			p.RequiredItems = []id.ItemKind{"Safety Helmet"}
		}, false},
		{"half-open schedule", func(p *EnvironmentPolicy) {
			p.Schedule = Schedule{Start: "06:00"}
		}, false},
		{"malformed schedule time", func(p *EnvironmentPolicy) {
			p.Schedule = Schedule{Start: "6am", End: "20:00"}
		}, false},
		{"valid schedule", func(p *EnvironmentPolicy) {
			p.Schedule = Schedule{Days: []time.Weekday{time.Monday}, Start: "06:00", End: "20:00"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidPolicy), "expected invalid_policy, got %v", err)
		})
	}
}

func TestSchedule_Contains(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := func(hh, mm int) time.Time {
		return time.Date(2026, 3, 2, hh, mm, 0, 0, time.UTC)
	}
	sunday := func(hh, mm int) time.Time {
		return time.Date(2026, 3, 1, hh, mm, 0, 0, time.UTC)
	}

	weekWindow := Schedule{
		Days:  []time.Weekday{time.Monday, time.Tuesday},
		Start: "06:00",
		End:   "20:00",
	}

	t.Run("zero schedule allows everything", func(t *testing.T) {
		assert.True(t, Schedule{}.Contains(sunday(3, 0)))
	})

	t.Run("inside window", func(t *testing.T) {
		assert.True(t, weekWindow.Contains(monday(12, 0)))
	})

	t.Run("window endpoints are inclusive", func(t *testing.T) {
		assert.True(t, weekWindow.Contains(monday(6, 0)))
		assert.True(t, weekWindow.Contains(monday(20, 0)))
	})

	t.Run("outside hours", func(t *testing.T) {
		assert.False(t, weekWindow.Contains(monday(5, 59)))
		assert.False(t, weekWindow.Contains(monday(20, 1)))
	})

	t.Run("wrong day", func(t *testing.T) {
		assert.False(t, weekWindow.Contains(sunday(12, 0)))
	})

	t.Run("day restriction without hours", func(t *testing.T) {
		s := Schedule{Days: []time.Weekday{time.Sunday}}
		assert.True(t, s.Contains(sunday(23, 59)))
		assert.False(t, s.Contains(monday(12, 0)))
	})

	t.Run("overnight window wraps midnight", func(t *testing.T) {
		night := Schedule{Start: "22:00", End: "06:00"}
		assert.True(t, night.Contains(monday(23, 30)))
		assert.True(t, night.Contains(monday(2, 0)))
		assert.False(t, night.Contains(monday(12, 0)))
	})
}

func TestEnvironmentPolicy_Clone(t *testing.T) {
	p := validPolicy()
	p.Schedule = Schedule{Days: []time.Weekday{time.Monday}, Start: "06:00", End: "20:00"}
	p.UserTypes = []string{"workers"}

	clone := p.Clone()
	clone.RequiredItems[0] = "mutated"
	clone.OptionalItems["gloves"] = 99
	clone.Schedule.Days[0] = time.Sunday
	clone.UserTypes[0] = "mutated"

	assert.Equal(t, id.ItemKind("worker_id"), p.RequiredItems[0])
	assert.Equal(t, 0.3, p.OptionalItems["gloves"])
	assert.Equal(t, time.Monday, p.Schedule.Days[0])
	assert.Equal(t, "workers", p.UserTypes[0])
}
