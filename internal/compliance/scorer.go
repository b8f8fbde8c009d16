// Package compliance scores detected uniform items against an
// environment policy. Required items are a hard gate: any miss zeroes
// the score. Optional items earn weighted partial credit normalized by
// the total optional weight. Scoring is a pure function of its inputs.
package compliance

import (
	"sort"

	"warden/internal/domain"
	"warden/internal/policy"
	id "warden/pkg/domain"
)

// DetectionConfidenceFloor is the minimum per-item detection confidence
// for a detection to count. Weaker detections are treated as absent so
// a barely-glimpsed item can neither satisfy a requirement nor earn
// optional credit.
const DetectionConfidenceFloor = 0.5

// Score evaluates detected items against p. Environments that do not
// require a uniform check always come back Skipped with a full score.
// A missing required item fails outright with Score 0 and the sorted
// missing kinds recorded; otherwise the weighted optional score decides
// pass or fail against p.UniformPassThreshold.
func Score(p policy.EnvironmentPolicy, detected map[id.ItemKind]float64) domain.ComplianceResult {
	if !p.RequiresUniformCheck {
		return domain.ComplianceResult{
			Score:             1,
			RequiredSatisfied: true,
			Decision:          domain.ComplianceSkipped,
		}
	}

	var missing []id.ItemKind
	for _, kind := range p.RequiredItems {
		if !trusted(detected, kind) {
			missing = append(missing, kind)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return domain.ComplianceResult{
			RequiredSatisfied: false,
			MissingRequired:   missing,
			Decision:          domain.ComplianceFail,
		}
	}

	score := optionalScore(p.OptionalItems, detected)
	decision := domain.ComplianceFail
	if score >= p.UniformPassThreshold {
		decision = domain.CompliancePass
	}
	return domain.ComplianceResult{
		Score:             score,
		RequiredSatisfied: true,
		Decision:          decision,
	}
}

func trusted(detected map[id.ItemKind]float64, kind id.ItemKind) bool {
	conf, ok := detected[kind]
	return ok && conf >= DetectionConfidenceFloor
}

// optionalScore is the weight-normalized credit over trusted optional
// detections. Policies with no optional items score a full 1. Summation
// runs in sorted kind order so equal inputs always produce the
// bit-identical score.
func optionalScore(weights, detected map[id.ItemKind]float64) float64 {
	if len(weights) == 0 {
		return 1
	}
	kinds := make([]id.ItemKind, 0, len(weights))
	for kind := range weights {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	total, earned := 0.0, 0.0
	for _, kind := range kinds {
		total += weights[kind]
		if trusted(detected, kind) {
			earned += weights[kind] * detected[kind]
		}
	}
	if total <= 0 {
		return 1
	}
	return clamp01(earned / total)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
