// Package schedule groups a student's class-hours into pairs.
package schedule

import "github.com/julianstephens/sfh/internal/models"

// Accept reports whether rec carries the fields a submission needs.
func Accept(rec models.HourRecord) bool {
	return rec.UserID != "" && rec.PairID != "" && rec.Hour != ""
}

// GroupIntoPairs splits hours into runs of adjacent records sharing a
// PairID. Equal ids that are not adjacent form separate groups.
func GroupIntoPairs(hours []models.HourRecord) []models.PairGroup {
	var pairs []models.PairGroup
	for _, h := range hours {
		last := len(pairs) - 1
		if last < 0 || pairs[last].ID() != h.PairID {
			pairs = append(pairs, models.PairGroup{h})
			continue
		}
		pairs[last] = append(pairs[last], h)
	}
	return pairs
}

// GroupStudents groups every student's hours, keeping input order.
func GroupStudents(students []models.StudentSchedule) []models.StudentPairs {
	out := make([]models.StudentPairs, 0, len(students))
	for _, s := range students {
		out = append(out, models.StudentPairs{Name: s.Name, Pairs: GroupIntoPairs(s.Hours)})
	}
	return out
}

// HourCount returns the number of hours across pairs.
func HourCount(pairs []models.PairGroup) int {
	n := 0
	for _, p := range pairs {
		n += len(p)
	}
	return n
}
