// Package decisionlog persists access decisions durably. The resilient
// log writes to a primary store and falls back to a local durable queue
// when the primary is unavailable; a background reconciler drains the
// queue back into the primary in FIFO order. Appends are idempotent on
// decision id, so at-least-once redelivery never duplicates a record.
package decisionlog

import (
	"context"

	"warden/internal/domain"
)

// Store is a durable append-only decision sink.
//
// Append must tolerate redelivery: appending a decision id that is
// already present succeeds without writing a duplicate.
type Store interface {
	Append(ctx context.Context, decision domain.AccessDecision) error
}
