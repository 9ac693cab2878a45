// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct uuid-backed types so a requester ID can never be passed
// where another identifier is expected. Construct them via the Parse functions
// at trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "boardcheck/pkg/domain-errors"
)

// RequesterID is the caller-attributable identity under which verification
// records are filed.
type RequesterID uuid.UUID

// ParseRequesterID constructs a RequesterID from external input.
// Rejects empty, malformed, and nil UUIDs with CodeInvalidInput.
func ParseRequesterID(s string) (RequesterID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return RequesterID{}, err
	}
	return RequesterID(u), nil
}

// NewRequesterID returns a random requester identity. Tests and seeds only;
// production identities come from the authentication layer.
func NewRequesterID() RequesterID {
	return RequesterID(uuid.New())
}

// IsNil reports whether the ID is the zero UUID.
func (r RequesterID) IsNil() bool {
	return uuid.UUID(r) == uuid.Nil
}

func (r RequesterID) String() string {
	return uuid.UUID(r).String()
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}
