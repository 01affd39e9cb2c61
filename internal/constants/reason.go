package constants

// ReasonCode is the justification type attached to a submitted absence.
type ReasonCode string

const (
	ReasonNone        ReasonCode = "0"
	ReasonMedical     ReasonCode = "1"
	ReasonCommunity   ReasonCode = "2"
	ReasonDuty        ReasonCode = "3"
	ReasonExplanatory ReasonCode = "4"
)

// ReasonCodes lists every accepted code in display order.
var ReasonCodes = []ReasonCode{
	ReasonNone,
	ReasonMedical,
	ReasonCommunity,
	ReasonDuty,
	ReasonExplanatory,
}

var reasonLabels = map[ReasonCode]string{
	ReasonNone:        "none",
	ReasonMedical:     "medical note",
	ReasonCommunity:   "community service",
	ReasonDuty:        "duty",
	ReasonExplanatory: "explanatory note",
}

// Label returns the human-readable name of the code, or "" if unknown.
func (r ReasonCode) Label() string {
	return reasonLabels[r]
}

// Valid reports whether r is one of the enumerated codes.
func (r ReasonCode) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}
