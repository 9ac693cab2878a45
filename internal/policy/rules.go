package policy

import (
	"fmt"

	dErrors "boardcheck/pkg/domain-errors"
)

const (
	// MaxAge bounds the accepted passenger age; anything above is rejected
	// before any rule runs.
	MaxAge = 150

	// adultAge is the age at which a citizen stops being a minor.
	adultAge = 18
)

// CategoryOf derives the regulatory category from nationality and age. The
// derivation is total: foreign nationality always wins regardless of age.
func CategoryOf(nationality Nationality, age int) PassengerCategory {
	switch {
	case nationality == NationalityForeign:
		return CategoryForeignNational
	case age >= adultAge:
		return CategoryAdultCitizen
	default:
		return CategoryMinorCitizen
	}
}

// Evaluate applies the boarding rules to a passenger. It is pure: identical
// input always yields identical output.
//
// Dispatch priority (first match wins):
//  1. Foreign nationality - age, companion, and the authorization flag are
//     ignored entirely.
//  2. Citizen aged 18 or over - companion and authorization flag ignored.
//  3. Citizen under 18 - the minor rule, the only branch that reads every
//     input axis.
//
// Errors: CodeInvalidAge when age is outside 0-150.
func Evaluate(in PassengerInput) (Assessment, error) {
	if in.Age < 0 || in.Age > MaxAge {
		return Assessment{}, dErrors.New(dErrors.CodeInvalidAge,
			fmt.Sprintf("age must be between 0 and %d, got %d", MaxAge, in.Age))
	}

	switch CategoryOf(in.Nationality, in.Age) {
	case CategoryForeignNational:
		return evaluateForeignNational(in.Destination), nil
	case CategoryAdultCitizen:
		return evaluateAdultCitizen(in.Destination), nil
	default:
		return evaluateMinorCitizen(in.Age, in.Companion, in.Destination, in.ExpressAuthorization)
	}
}

// evaluateAdultCitizen applies the adult-citizen rule. Destination is the only
// input: a passport is always required, and within the extended bloc a
// regional state ID is accepted in its place.
func evaluateAdultCitizen(destination DestinationGroup) Assessment {
	a := Assessment{
		CanBoard: true,
		Category: CategoryAdultCitizen,
		Required: []DocumentCode{DocPassport},
	}
	if destination == DestinationExtendedBloc {
		a.Optional = []DocumentCode{DocRegionalStateID}
	}
	return a
}

// evaluateForeignNational applies the foreign-national rule. Like the adult
// rule it only reads the destination, but the bloc substitute is the
// traveler's own national ID card rather than a regional state ID.
func evaluateForeignNational(destination DestinationGroup) Assessment {
	a := Assessment{
		CanBoard: true,
		Category: CategoryForeignNational,
		Required: []DocumentCode{DocPassport},
	}
	if destination == DestinationExtendedBloc {
		a.Optional = []DocumentCode{DocBlocNationalID}
	}
	return a
}

// evaluateMinorCitizen applies the minor-citizen rule, the only branch that
// reads every axis. Required documents depend on the companion configuration
// and the express-authorization flag:
//
//	both guardians                    -> passport
//	one guardian, express auth        -> passport with authorization
//	one guardian, no auth             -> passport + one-parent authorization
//	authorized adult or alone, auth   -> passport with authorization
//	authorized adult or alone, no auth-> passport + both-parents authorization
//
// The optional set is additive across two independent axes, in fixed order:
// the regional state ID when the destination is in the extended bloc, then the
// electronic travel authorization when the dual-guardian requirement applies.
//
// The age bound is re-validated here: the function is a reusable unit and must
// not rely on the dispatcher for its own invariant.
func evaluateMinorCitizen(age int, companion CompanionType, destination DestinationGroup, expressAuth bool) (Assessment, error) {
	if age < 0 || age >= adultAge {
		return Assessment{}, dErrors.New(dErrors.CodeInvalidAge,
			fmt.Sprintf("minor rule requires age between 0 and %d, got %d", adultAge-1, age))
	}

	a := Assessment{
		CanBoard: true,
		Category: CategoryMinorCitizen,
	}

	needsBothParents := false
	switch {
	case companion == CompanionBothGuardians:
		a.Required = []DocumentCode{DocPassport}
	case companion == CompanionOneGuardian && expressAuth:
		a.Required = []DocumentCode{DocPassportWithAuth}
	case companion == CompanionOneGuardian:
		a.Required = []DocumentCode{DocPassport, DocOneParentAuthorization}
	case expressAuth:
		a.Required = []DocumentCode{DocPassportWithAuth}
	default:
		a.Required = []DocumentCode{DocPassport, DocBothParentsAuthorization}
		needsBothParents = true
	}

	if destination == DestinationExtendedBloc {
		a.Optional = append(a.Optional, DocRegionalStateID)
	}
	if needsBothParents {
		a.Optional = append(a.Optional, DocElectronicTravelAuthorization)
	}

	return a, nil
}
