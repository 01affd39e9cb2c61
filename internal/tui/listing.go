package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/schedule"
)

// StudentList numbers the students of a day from 1, with their pair and
// hour counts.
func StudentList(students []models.StudentPairs) string {
	var b strings.Builder
	for i, s := range students {
		fmt.Fprintf(&b, "%s %s %s\n",
			indexStyle.Render(fmt.Sprintf("%d.", i+1)),
			s.Name,
			Hint(fmt.Sprintf("(%d pairs, %d hours)", len(s.Pairs), schedule.HourCount(s.Pairs))))
	}
	return b.String()
}

// PairList numbers a student's pairs from 1 the way selections refer to
// them.
func PairList(pairs []models.PairGroup) string {
	var b strings.Builder
	for i, p := range pairs {
		hours := make([]string, len(p))
		for j, h := range p {
			hours[j] = h.Hour
		}
		fmt.Fprintf(&b, "Pair %d %s hours %s\n", i+1,
			Hint(fmt.Sprintf("(zid=%s)", p.ID())), strings.Join(hours, ", "))
	}
	return b.String()
}
