package handler

import (
	"boardcheck/internal/policy"
	dErrors "boardcheck/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /verification/evaluate
// and POST /verification/records. Enum fields travel as their wire ordinals.
type EvaluateRequest struct {
	Nationality          int  `json:"nationality"`
	Age                  int  `json:"age"`
	Companion            int  `json:"companion"`
	Destination          int  `json:"destination"`
	ExpressAuthorization bool `json:"express_authorization"`

	// Parsed values (populated by Validate)
	parsed policy.PassengerInput
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	nationality, err := policy.ParseNationality(r.Nationality)
	if err != nil {
		return err
	}
	companion, err := policy.ParseCompanionType(r.Companion)
	if err != nil {
		return err
	}
	destination, err := policy.ParseDestinationGroup(r.Destination)
	if err != nil {
		return err
	}

	// Age range errors carry their own code; the rules report them so the
	// boundary does not duplicate the limit.
	r.parsed = policy.PassengerInput{
		Nationality:          nationality,
		Age:                  r.Age,
		Companion:            companion,
		Destination:          destination,
		ExpressAuthorization: r.ExpressAuthorization,
	}
	return nil
}

// ParsedInput returns the validated passenger input.
func (r *EvaluateRequest) ParsedInput() policy.PassengerInput {
	return r.parsed
}
