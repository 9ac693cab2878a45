// Package ledger stores verification results as an immutable, append-only
// sequence per requester, together with a monotonic global counter.
//
// The store exposes no update or delete operation: immutability is enforced
// structurally, not by convention. The only state transition an index ever
// sees is absent -> present.
package ledger

import (
	"context"
	"time"

	"boardcheck/internal/policy"
	id "boardcheck/pkg/domain"
)

// Record is a persisted verification result. Once appended it never changes.
type Record struct {
	Requester id.RequesterID
	CanBoard  bool
	Category  policy.PassengerCategory
	Required  []policy.DocumentCode
	Optional  []policy.DocumentCode
	CreatedAt time.Time
}

// clone deep-copies the record so callers can never mutate stored state
// through shared document slices.
func (r Record) clone() Record {
	out := r
	if r.Required != nil {
		out.Required = append([]policy.DocumentCode{}, r.Required...)
	}
	if r.Optional != nil {
		out.Optional = append([]policy.DocumentCode{}, r.Optional...)
	}
	return out
}

// Store is the append-only verification ledger. Implementations must keep the
// append and the global-counter increment atomic from an external observer's
// viewpoint, and must serialize counter increments under concurrent access.
//
// Reads return sentinel.ErrOutOfRange (wrapped) for an index at or beyond the
// requester's record count; services translate that into a domain error.
type Store interface {
	// Append files the record under its requester, assigns the next 0-based
	// per-requester index, increments the global counter by exactly one, and
	// returns the assigned index.
	Append(ctx context.Context, rec Record) (int, error)

	// Count returns the current length of the requester's sequence, 0 when
	// the requester has no records.
	Count(ctx context.Context, requester id.RequesterID) (int, error)

	// Get returns the record at the given per-requester index.
	Get(ctx context.Context, requester id.RequesterID, index int) (Record, error)

	// GlobalCount returns the total number of records across all requesters.
	GlobalCount(ctx context.Context) (uint64, error)
}
