// Package policy implements the boarding-document verification rules.
//
// The rule functions are pure domain logic - no I/O, no clock, no identity.
// Callers attach time and requester identity only when persisting a result.
package policy

import (
	"fmt"

	dErrors "boardcheck/pkg/domain-errors"
)

// Nationality distinguishes citizens from foreign nationals.
// Ordinals are part of the wire contract and must not be reordered.
type Nationality int

const (
	NationalityCitizen Nationality = iota
	NationalityForeign
)

// ParseNationality constructs a Nationality from its wire ordinal.
func ParseNationality(v int) (Nationality, error) {
	if v < int(NationalityCitizen) || v > int(NationalityForeign) {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("nationality must be 0 or 1, got %d", v))
	}
	return Nationality(v), nil
}

func (n Nationality) String() string {
	switch n {
	case NationalityCitizen:
		return "citizen"
	case NationalityForeign:
		return "foreign"
	}
	return fmt.Sprintf("nationality(%d)", int(n))
}

// CompanionType describes who accompanies a passenger. It only influences the
// outcome when the resolved category is MinorCitizen.
type CompanionType int

const (
	CompanionBothGuardians CompanionType = iota
	CompanionOneGuardian
	CompanionAuthorizedAdult
	CompanionUnaccompanied
)

// ParseCompanionType constructs a CompanionType from its wire ordinal.
func ParseCompanionType(v int) (CompanionType, error) {
	if v < int(CompanionBothGuardians) || v > int(CompanionUnaccompanied) {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("companion type must be between 0 and 3, got %d", v))
	}
	return CompanionType(v), nil
}

func (c CompanionType) String() string {
	switch c {
	case CompanionBothGuardians:
		return "both_guardians"
	case CompanionOneGuardian:
		return "one_guardian"
	case CompanionAuthorizedAdult:
		return "authorized_adult"
	case CompanionUnaccompanied:
		return "unaccompanied"
	}
	return fmt.Sprintf("companion(%d)", int(c))
}

// DestinationGroup classifies the destination country. The rules only care
// whether the destination belongs to the extended regional bloc, where a
// state-issued identity card is accepted in place of a passport.
type DestinationGroup int

const (
	DestinationExtendedBloc DestinationGroup = iota
	DestinationOther
)

// ParseDestinationGroup constructs a DestinationGroup from its wire ordinal.
func ParseDestinationGroup(v int) (DestinationGroup, error) {
	if v < int(DestinationExtendedBloc) || v > int(DestinationOther) {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("destination group must be 0 or 1, got %d", v))
	}
	return DestinationGroup(v), nil
}

func (d DestinationGroup) String() string {
	switch d {
	case DestinationExtendedBloc:
		return "extended_bloc"
	case DestinationOther:
		return "other"
	}
	return fmt.Sprintf("destination(%d)", int(d))
}

// PassengerCategory is the regulatory bucket that determines which rule set
// applies. It is derived, never caller-supplied.
type PassengerCategory int

const (
	CategoryAdultCitizen PassengerCategory = iota
	CategoryMinorCitizen
	CategoryForeignNational
)

func (c PassengerCategory) String() string {
	switch c {
	case CategoryAdultCitizen:
		return "adult_citizen"
	case CategoryMinorCitizen:
		return "minor_citizen"
	case CategoryForeignNational:
		return "foreign_national"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// DocumentCode is the closed enumeration of document kinds. The ordinals are
// the external contract consumed by off-service translators; new codes may be
// appended but existing ones must never be reordered.
type DocumentCode int

const (
	DocPassport DocumentCode = iota
	DocPassportWithAuth
	DocRegionalStateID
	DocBlocNationalID
	DocOneParentAuthorization
	DocBothParentsAuthorization
	DocElectronicTravelAuthorization
)

// ParseDocumentCode constructs a DocumentCode from its wire ordinal.
func ParseDocumentCode(v int) (DocumentCode, error) {
	if v < int(DocPassport) || v > int(DocElectronicTravelAuthorization) {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("document code must be between 0 and 6, got %d", v))
	}
	return DocumentCode(v), nil
}

func (d DocumentCode) String() string {
	switch d {
	case DocPassport:
		return "passport"
	case DocPassportWithAuth:
		return "passport_with_authorization"
	case DocRegionalStateID:
		return "regional_state_id"
	case DocBlocNationalID:
		return "bloc_national_id"
	case DocOneParentAuthorization:
		return "one_parent_authorization"
	case DocBothParentsAuthorization:
		return "both_parents_authorization"
	case DocElectronicTravelAuthorization:
		return "electronic_travel_authorization"
	}
	return fmt.Sprintf("document(%d)", int(d))
}

// PassengerInput carries the caller-supplied passenger attributes. It is
// transient and never stored as-is.
type PassengerInput struct {
	Nationality Nationality
	Age         int
	Companion   CompanionType
	Destination DestinationGroup

	// ExpressAuthorization indicates the passport already carries express
	// travel authorization. Only meaningful for the MinorCitizen category.
	ExpressAuthorization bool
}

// Assessment is the outcome of a single evaluation.
//
// Required holds the mandatory documents; it is never empty. Each entry in
// Optional is an acceptable substitute for one of the required documents,
// never an additional obligation.
type Assessment struct {
	CanBoard bool
	Category PassengerCategory
	Required []DocumentCode
	Optional []DocumentCode
}
