package models

// HourRecord is one schedulable class-hour as extracted from the day table.
type HourRecord struct {
	Student string `json:"student,omitempty"` // owning student, stamped by the dispatcher
	PairID  string `json:"zid"`               // portal pair identifier
	Hour    string `json:"hour"`              // hour label within the day
	UserID  string `json:"userid"`            // opaque record id required by the submit form
}

// Key returns the grouping identity of the record.
func (h HourRecord) Key() HourKey {
	return HourKey{PairID: h.PairID, Hour: h.Hour}
}

// HourKey identifies an hour within one student's day.
type HourKey struct {
	PairID string
	Hour   string
}

// PairGroup is a maximal run of consecutive hours sharing one PairID.
type PairGroup []HourRecord

// ID returns the PairID shared by every hour in the group.
func (p PairGroup) ID() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].PairID
}

// StudentSchedule is one row of the day table.
type StudentSchedule struct {
	Name  string       `json:"name"`
	Hours []HourRecord `json:"hours"`
}

// StudentPairs is a student's day after grouping.
type StudentPairs struct {
	Name  string      `json:"name"`
	Pairs []PairGroup `json:"pairs"`
}
