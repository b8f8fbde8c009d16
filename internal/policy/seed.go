package policy

import (
	"time"

	id "warden/pkg/domain"
)

// Defaults returns the built-in environment policies. Deployments register
// these at startup and may replace any of them administratively; the
// values mirror the reference rule sets the system ships with.
func Defaults() []EnvironmentPolicy {
	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}
	weekdaysAndSaturday := append(append([]time.Weekday{}, weekdays...), time.Saturday)

	return []EnvironmentPolicy{
		{
			ID:                   "school_college",
			DisplayName:          "School/College",
			RequiresUniformCheck: true,
			FaceMatchThreshold:   0.6,
			UniformPassThreshold: 0.4,
			RequiredItems:        []id.ItemKind{"student_id_card", "shirt"},
			OptionalItems: map[id.ItemKind]float64{
				"trousers": 0.3,
				"shoes":    0.2,
				"tie":      0.1,
			},
			Schedule: Schedule{
				Days:  weekdaysAndSaturday,
				Start: "06:00",
				End:   "20:00",
			},
			UserTypes: []string{"students", "teachers", "staff", "visitors"},
		},
		{
			ID:                 "hotel",
			DisplayName:        "Hotel",
			FaceMatchThreshold: 0.7,
			UserTypes:          []string{"guests", "staff", "management", "visitors"},
		},
		{
			ID:                 "office",
			DisplayName:        "Office",
			FaceMatchThreshold: 0.65,
			Schedule: Schedule{
				Days:  weekdays,
				Start: "07:00",
				End:   "19:00",
			},
			UserTypes: []string{"employees", "contractors", "visitors", "management"},
		},
		{
			ID:                   "hospital",
			DisplayName:          "Hospital",
			RequiresUniformCheck: true,
			FaceMatchThreshold:   0.7,
			UniformPassThreshold: 0.5,
			RequiredItems:        []id.ItemKind{"staff_id", "medical_uniform"},
			OptionalItems: map[id.ItemKind]float64{
				"lab_coat": 0.3,
				"scrubs":   0.3,
				"shoes":    0.2,
				"cap":      0.2,
			},
			UserTypes: []string{"doctors", "nurses", "staff", "patients", "visitors"},
		},
		{
			ID:                   "factory",
			DisplayName:          "Factory/Manufacturing",
			RequiresUniformCheck: true,
			FaceMatchThreshold:   0.6,
			UniformPassThreshold: 0.6,
			RequiredItems:        []id.ItemKind{"worker_id", "safety_helmet", "safety_shoes"},
			OptionalItems: map[id.ItemKind]float64{
				"safety_vest": 0.4,
				"gloves":      0.3,
				"uniform":     0.2,
				"goggles":     0.1,
			},
			Schedule: Schedule{
				Days:  weekdaysAndSaturday,
				Start: "06:00",
				End:   "22:00",
			},
			UserTypes: []string{"workers", "supervisors", "engineers", "visitors"},
		},
	}
}

// RegisterDefaults installs every default policy into the registry and
// marks activeID as the active one when non-empty.
func RegisterDefaults(r *Registry, activeID id.EnvironmentID) error {
	for _, p := range Defaults() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	if !activeID.IsNil() {
		return r.SetActive(activeID)
	}
	return nil
}
