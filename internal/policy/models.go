// Package policy owns environment policy definitions and the registry of
// the currently registered set. Policies are pure configuration state:
// validated on the way in, handed out only as value snapshots, swapped
// atomically on update so in-flight evaluations never observe a partial
// change.
package policy

import (
	"fmt"
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Schedule is an optional access window: allowed days of week plus an
// inclusive "HH:MM"–"HH:MM" local-time range. The zero value means no
// restriction. A window whose start is later than its end wraps midnight.
type Schedule struct {
	Days  []time.Weekday
	Start string
	End   string
}

// IsZero reports whether the schedule places no restriction.
func (s Schedule) IsZero() bool {
	return len(s.Days) == 0 && s.Start == "" && s.End == ""
}

// Validate checks the window format.
// Errors: CodeInvalidPolicy on a half-open window or malformed times.
func (s Schedule) Validate() error {
	if s.Start == "" && s.End == "" {
		return nil
	}
	if s.Start == "" || s.End == "" {
		return dErrors.New(dErrors.CodeInvalidPolicy, "schedule window must set both start and end")
	}
	if _, err := parseMinutes(s.Start); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidPolicy, "invalid schedule start")
	}
	if _, err := parseMinutes(s.End); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidPolicy, "invalid schedule end")
	}
	return nil
}

// Contains reports whether t falls inside the window. Day membership uses
// t's location; an empty day list allows every day. Minute resolution,
// endpoints inclusive.
func (s Schedule) Contains(t time.Time) bool {
	if s.IsZero() {
		return true
	}
	if len(s.Days) > 0 {
		day := t.Weekday()
		found := false
		for _, d := range s.Days {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.Start == "" && s.End == "" {
		return true
	}
	start, err := parseMinutes(s.Start)
	if err != nil {
		return false
	}
	end, err := parseMinutes(s.End)
	if err != nil {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	if start <= end {
		return minute >= start && minute <= end
	}
	// Overnight window, e.g. 22:00-06:00.
	return minute >= start || minute <= end
}

// Clone returns an independent copy.
func (s Schedule) Clone() Schedule {
	out := s
	if s.Days != nil {
		out.Days = make([]time.Weekday, len(s.Days))
		copy(out.Days, s.Days)
	}
	return out
}

func parseMinutes(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", hhmm)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range time %q", hhmm)
	}
	return h*60 + m, nil
}

// EnvironmentPolicy is the full rule set governing one deployment
// environment.
type EnvironmentPolicy struct {
	ID                   id.EnvironmentID
	DisplayName          string
	RequiresUniformCheck bool

	// FaceMatchThreshold is the minimum match confidence to accept an
	// identity, in (0,1].
	FaceMatchThreshold float64

	// UniformPassThreshold is the minimum weighted compliance score to
	// pass, in (0,1]. Consulted only when RequiresUniformCheck.
	UniformPassThreshold float64

	// RequiredItems must all be detected or compliance fails outright.
	RequiredItems []id.ItemKind

	// OptionalItems contribute weighted partial credit. Weights need not
	// sum to 1; the score is normalized by their sum.
	OptionalItems map[id.ItemKind]float64

	Schedule  Schedule
	UserTypes []string
}

// Validate enforces the registration invariants: threshold ranges,
// disjoint item sets, well-formed item kinds, positive optional weight
// mass, and a valid schedule.
// Errors: CodeInvalidPolicy on any violation.
func (p EnvironmentPolicy) Validate() error {
	if _, err := id.ParseEnvironmentID(p.ID.String()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidPolicy, "invalid policy id")
	}
	if p.DisplayName == "" {
		return dErrors.New(dErrors.CodeInvalidPolicy, "display name is required")
	}
	if p.FaceMatchThreshold <= 0 || p.FaceMatchThreshold > 1 {
		return dErrors.New(dErrors.CodeInvalidPolicy, "face match threshold must be in (0,1]")
	}
	if p.RequiresUniformCheck {
		if p.UniformPassThreshold <= 0 || p.UniformPassThreshold > 1 {
			return dErrors.New(dErrors.CodeInvalidPolicy, "uniform pass threshold must be in (0,1]")
		}
	} else if p.UniformPassThreshold < 0 || p.UniformPassThreshold > 1 {
		return dErrors.New(dErrors.CodeInvalidPolicy, "uniform pass threshold must be in [0,1]")
	}

	seen := make(map[id.ItemKind]struct{}, len(p.RequiredItems))
	for _, kind := range p.RequiredItems {
		if _, err := id.ParseItemKind(kind.String()); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidPolicy, "invalid required item")
		}
		if _, dup := seen[kind]; dup {
			return dErrors.Newf(dErrors.CodeInvalidPolicy, "duplicate required item %q", kind)
		}
		seen[kind] = struct{}{}
	}

	totalWeight := 0.0
	for kind, weight := range p.OptionalItems {
		if _, err := id.ParseItemKind(kind.String()); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidPolicy, "invalid optional item")
		}
		if _, clash := seen[kind]; clash {
			return dErrors.Newf(dErrors.CodeInvalidPolicy, "item %q cannot be both required and optional", kind)
		}
		if weight < 0 {
			return dErrors.Newf(dErrors.CodeInvalidPolicy, "optional item %q has negative weight", kind)
		}
		totalWeight += weight
	}
	if len(p.OptionalItems) > 0 && totalWeight <= 0 {
		return dErrors.New(dErrors.CodeInvalidPolicy, "optional item weights must sum to a positive value")
	}

	return p.Schedule.Validate()
}

// Clone returns a deep value copy. Registry reads hand these out so
// callers can never mutate registered state.
func (p EnvironmentPolicy) Clone() EnvironmentPolicy {
	out := p
	if p.RequiredItems != nil {
		out.RequiredItems = make([]id.ItemKind, len(p.RequiredItems))
		copy(out.RequiredItems, p.RequiredItems)
	}
	if p.OptionalItems != nil {
		out.OptionalItems = make(map[id.ItemKind]float64, len(p.OptionalItems))
		for k, v := range p.OptionalItems {
			out.OptionalItems[k] = v
		}
	}
	out.Schedule = p.Schedule.Clone()
	if p.UserTypes != nil {
		out.UserTypes = make([]string, len(p.UserTypes))
		copy(out.UserTypes, p.UserTypes)
	}
	return out
}
