// Package report regroups submission outcomes for the operator.
package report

import (
	"fmt"

	"github.com/julianstephens/sfh/internal/models"
)

// PairLabeler returns the operator-facing pair number for a PairID.
type PairLabeler func(pairID string) (int, bool)

// ReferenceLabeler numbers pairs by their position in one reference
// student's grouping. Other students whose schedules differ may be
// labeled with the reference's numbering. When a PairID occurs more than
// once, the later position wins.
func ReferenceLabeler(reference []models.PairGroup) PairLabeler {
	labels := make(map[string]int, len(reference))
	for i, p := range reference {
		labels[p.ID()] = i + 1
	}
	return func(pairID string) (int, bool) {
		n, ok := labels[pairID]
		return n, ok
	}
}

// HourResult is the outcome of one hour.
type HourResult struct {
	Hour string
	OK   bool
}

// PairReport groups one student's outcomes for a single PairID.
type PairReport struct {
	PairID string
	Label  int
	Hours  []HourResult
}

// Succeeded counts successful hours in the pair.
func (p PairReport) Succeeded() int {
	n := 0
	for _, h := range p.Hours {
		if h.OK {
			n++
		}
	}
	return n
}

// Status is "OK" when every hour succeeded, "ERROR" for a failed single
// hour, otherwise "K/N".
func (p PairReport) Status() string {
	ok, total := p.Succeeded(), len(p.Hours)
	switch {
	case ok == total:
		return "OK"
	case total == 1:
		return "ERROR"
	default:
		return fmt.Sprintf("%d/%d", ok, total)
	}
}

// StudentReport holds one student's pairs in first-seen order.
type StudentReport struct {
	Name  string
	Pairs []PairReport
}

// Report is the aggregated result of one batch.
type Report struct {
	Students  []StudentReport
	Succeeded int
	Attempted int
}

// Failed returns the number of unsuccessful submissions.
func (r Report) Failed() int { return r.Attempted - r.Succeeded }

// Aggregate groups outcomes by student, then by PairID, both in
// first-seen order. Completion order of the batch does not matter beyond
// that. Pairs the labeler does not know get their ordinal within the
// student.
func Aggregate(outcomes []models.SubmissionOutcome, label PairLabeler) Report {
	var r Report
	studentIdx := make(map[string]int)
	pairIdx := make(map[string]map[string]int)

	for _, o := range outcomes {
		r.Attempted++
		if o.OK {
			r.Succeeded++
		}

		si, ok := studentIdx[o.Student]
		if !ok {
			si = len(r.Students)
			studentIdx[o.Student] = si
			pairIdx[o.Student] = make(map[string]int)
			r.Students = append(r.Students, StudentReport{Name: o.Student})
		}
		student := &r.Students[si]

		pi, ok := pairIdx[o.Student][o.PairID]
		if !ok {
			pi = len(student.Pairs)
			pairIdx[o.Student][o.PairID] = pi
			n, known := 0, false
			if label != nil {
				n, known = label(o.PairID)
			}
			if !known {
				n = pi + 1
			}
			student.Pairs = append(student.Pairs, PairReport{PairID: o.PairID, Label: n})
		}
		pair := &student.Pairs[pi]
		pair.Hours = append(pair.Hours, HourResult{Hour: o.Hour, OK: o.OK})
	}
	return r
}
