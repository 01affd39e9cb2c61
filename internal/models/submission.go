package models

import "github.com/julianstephens/sfh/internal/constants"

// SubmissionJob is a single hour queued for submission.
type SubmissionJob struct {
	Student string
	Record  HourRecord
	Reason  constants.ReasonCode
}

// SubmissionOutcome is the terminal result of exactly one SubmissionJob.
type SubmissionOutcome struct {
	Student string `json:"student"`
	PairID  string `json:"zid"`
	Hour    string `json:"hour"`
	OK      bool   `json:"ok"`
}
