package access

import "warden/internal/domain"

// decide applies the grant rules to the gate outcomes. Pure domain
// logic, no I/O.
//
// Gate priority, first deny wins:
//  1. Schedule window. An out-of-window request denies even when the
//     later gates would pass; match and compliance still ran so the
//     record stays complete.
//  2. Identity match.
//  3. Uniform compliance. Pass and Skipped both grant; Skipped means
//     the policy does not check uniforms at all.
func decide(inSchedule bool, match domain.MatchDecision, compliance domain.ComplianceDecision) (granted bool, reason domain.DenyReason) {
	if !inSchedule {
		return false, domain.DenyOutsideSchedule
	}
	if match != domain.MatchMatched {
		return false, domain.DenyIdentityNotRecognized
	}
	if compliance == domain.ComplianceFail {
		return false, domain.DenyUniformNonCompliant
	}
	return true, domain.DenyNone
}
