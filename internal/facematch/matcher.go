// Package facematch selects the best enrolled candidate for a query
// embedding. The engine is pure: it never mutates its inputs, holds no
// state, and is safe to call concurrently against a shared roster
// snapshot.
//
// Distance is Euclidean, matching how the upstream feature extractor's
// embeddings are compared; confidence is 1 - distance clamped to [0,1],
// a monotonic decreasing mapping so a closer embedding always scores at
// least as high as a farther one.
package facematch

import (
	"math"

	"warden/internal/domain"
	id "warden/pkg/domain"
)

// Candidate is one active enrolled identity eligible for matching.
type Candidate struct {
	ID          id.IdentityID
	DisplayName string
	Embedding   domain.Embedding
}

// Match scans the roster for the candidate closest to query and applies
// the policy threshold.
//
// Rules, in order:
//   - Empty roster: NoMatch with confidence 0.
//   - Best candidate strictly below threshold: NoMatch, carrying the best
//     confidence for auditability.
//   - Ties on confidence resolve to the lowest candidate id, keeping the
//     engine reproducible across roster orderings.
//
// Candidates whose embedding length differs from the query never
// participate; rosters are validated upstream, so this only guards
// against partial snapshots.
func Match(query domain.Embedding, roster []Candidate, threshold float64) domain.MatchResult {
	best := domain.MatchResult{Decision: domain.MatchNoMatch}
	found := false

	for _, c := range roster {
		if len(c.Embedding) != len(query) {
			continue
		}
		conf := Confidence(euclideanDistance(query, c.Embedding))
		if !found || conf > best.Confidence || (conf == best.Confidence && c.ID.String() < best.IdentityID.String()) {
			best.IdentityID = c.ID
			best.DisplayName = c.DisplayName
			best.Confidence = conf
			found = true
		}
	}

	if !found || best.Confidence < threshold {
		return domain.MatchResult{
			Decision:   domain.MatchNoMatch,
			Confidence: best.Confidence,
		}
	}

	best.Decision = domain.MatchMatched
	return best
}

// Confidence converts an embedding distance to a similarity confidence in
// [0,1]. Distance 0 maps to 1; distances of 1 or more map to 0.
func Confidence(distance float64) float64 {
	conf := 1 - distance
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

func euclideanDistance(a, b domain.Embedding) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
