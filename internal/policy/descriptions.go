package policy

// Descriptive text for the numeric codes. These lookups exist for external
// collaborators (front-ends, back-office tooling); the rule functions never
// consult them.

var documentDescriptions = map[DocumentCode]string{
	DocPassport:                      "Valid passport",
	DocPassportWithAuth:              "Valid passport carrying express travel authorization",
	DocRegionalStateID:               "State-issued identity card, accepted within the extended regional bloc",
	DocBlocNationalID:                "National identity card issued by an extended-bloc member state",
	DocOneParentAuthorization:        "Notarized travel authorization signed by one parent or guardian",
	DocBothParentsAuthorization:      "Notarized travel authorization signed by both parents or guardians",
	DocElectronicTravelAuthorization: "Electronic travel authorization, substitute for the dual-guardian form",
}

// Description returns the human-readable text for a document code.
func (d DocumentCode) Description() string {
	return documentDescriptions[d]
}

var categoryDescriptions = map[PassengerCategory]string{
	CategoryAdultCitizen:    "Adult citizen (18 or older)",
	CategoryMinorCitizen:    "Minor citizen (under 18)",
	CategoryForeignNational: "Foreign national (any age)",
}

// Description returns the human-readable text for a passenger category.
func (c PassengerCategory) Description() string {
	return categoryDescriptions[c]
}

var companionDescriptions = map[CompanionType]string{
	CompanionBothGuardians:   "Traveling with both parents or guardians",
	CompanionOneGuardian:     "Traveling with one parent or guardian",
	CompanionAuthorizedAdult: "Traveling with an authorized adult",
	CompanionUnaccompanied:   "Traveling unaccompanied",
}

// Description returns the human-readable text for a companion type.
func (c CompanionType) Description() string {
	return companionDescriptions[c]
}

var destinationDescriptions = map[DestinationGroup]string{
	DestinationExtendedBloc: "Destination within the extended regional bloc (Mercosul and associated states)",
	DestinationOther:        "Destination outside the extended regional bloc",
}

// Description returns the human-readable text for a destination group.
func (d DestinationGroup) Description() string {
	return destinationDescriptions[d]
}

// mercosulCountries lists the destinations of the extended regional bloc.
// Informational only: the rules resolve destinations purely via
// DestinationGroup, never by country name.
var mercosulCountries = []string{
	"Argentina",
	"Bolivia",
	"Chile",
	"Colombia",
	"Ecuador",
	"Guyana",
	"Paraguay",
	"Peru",
	"Suriname",
	"Uruguay",
	"Venezuela",
}

// MercosulCountries returns the informational list of extended-bloc country
// names. The returned slice is a copy.
func MercosulCountries() []string {
	return append([]string{}, mercosulCountries...)
}
