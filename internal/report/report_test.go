package report

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/julianstephens/sfh/internal/models"
)

func out(student, zid, hour string, ok bool) models.SubmissionOutcome {
	return models.SubmissionOutcome{Student: student, PairID: zid, Hour: hour, OK: ok}
}

func group(zid string, hours ...string) models.PairGroup {
	var p models.PairGroup
	for _, h := range hours {
		p = append(p, models.HourRecord{PairID: zid, Hour: h, UserID: "u"})
	}
	return p
}

func TestAggregateTwoStudentScenario(t *testing.T) {
	// A: [[h1],[h2,h3]], B: [[h4]]; selection "1-2"; all succeed.
	refPairs := []models.PairGroup{group("a1", "1"), group("a2", "2", "3")}
	outcomes := []models.SubmissionOutcome{
		out("A", "a1", "1", true),
		out("A", "a2", "2", true),
		out("A", "a2", "3", true),
		out("B", "b1", "1", true),
	}

	r := Aggregate(outcomes, ReferenceLabeler(refPairs))

	if r.Succeeded != 4 || r.Attempted != 4 {
		t.Errorf("totals = %d/%d, want 4/4", r.Succeeded, r.Attempted)
	}
	if len(r.Students) != 2 {
		t.Fatalf("got %d students, want 2", len(r.Students))
	}

	a, b := r.Students[0], r.Students[1]
	if a.Name != "A" || len(a.Pairs) != 2 {
		t.Fatalf("student A = %+v", a)
	}
	for i, p := range a.Pairs {
		if p.Label != i+1 || p.Status() != "OK" {
			t.Errorf("A pair %d: label %d status %q, want label %d status OK", i, p.Label, p.Status(), i+1)
		}
	}
	if b.Name != "B" || len(b.Pairs) != 1 || b.Pairs[0].Label != 1 || b.Pairs[0].Status() != "OK" {
		t.Errorf("student B = %+v, want one pair labeled 1 with status OK", b)
	}
}

func TestPairStatus(t *testing.T) {
	tests := []struct {
		name  string
		hours []HourResult
		want  string
	}{
		{"single ok", []HourResult{{"1", true}}, "OK"},
		{"single failed", []HourResult{{"1", false}}, "ERROR"},
		{"all ok", []HourResult{{"1", true}, {"2", true}}, "OK"},
		{"partial", []HourResult{{"1", true}, {"2", false}, {"3", true}}, "2/3"},
		{"none ok", []HourResult{{"1", false}, {"2", false}}, "0/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PairReport{Hours: tt.hours}
			if got := p.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregateSuccessCountIgnoresOrder(t *testing.T) {
	outcomes := []models.SubmissionOutcome{
		out("A", "1", "1", true),
		out("A", "1", "2", false),
		out("B", "2", "3", true),
		out("A", "3", "4", true),
		out("B", "2", "5", false),
		out("C", "4", "6", true),
	}
	want := 4

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.SubmissionOutcome(nil), outcomes...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		r := Aggregate(shuffled, nil)
		if r.Succeeded != want {
			t.Errorf("shuffle %d: Succeeded = %d, want %d", i, r.Succeeded, want)
		}
		if r.Attempted != len(outcomes) || r.Failed() != len(outcomes)-want {
			t.Errorf("shuffle %d: Attempted = %d Failed = %d", i, r.Attempted, r.Failed())
		}
	}
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	outcomes := []models.SubmissionOutcome{
		out("B", "x", "1", true),
		out("A", "y", "2", true),
		out("B", "z", "3", true),
		out("B", "x", "4", false),
	}

	r := Aggregate(outcomes, nil)
	if r.Students[0].Name != "B" || r.Students[1].Name != "A" {
		t.Fatalf("student order = %s, %s; want B, A", r.Students[0].Name, r.Students[1].Name)
	}
	pairs := r.Students[0].Pairs
	if len(pairs) != 2 || pairs[0].PairID != "x" || pairs[1].PairID != "z" {
		t.Fatalf("pairs for B = %+v", pairs)
	}
	if len(pairs[0].Hours) != 2 || pairs[0].Status() != "1/2" {
		t.Errorf("pair x = %+v, want two hours with status 1/2", pairs[0])
	}
	if pairs[0].Label != 1 || pairs[1].Label != 2 {
		t.Errorf("fallback labels = %d, %d; want 1, 2", pairs[0].Label, pairs[1].Label)
	}
}

func TestReferenceLabelerBorrowsReferenceNumbering(t *testing.T) {
	ref := []models.PairGroup{group("p1", "1"), group("p2", "2"), group("p3", "3")}
	label := ReferenceLabeler(ref)

	// Second student only has p3, which the reference numbers as 3.
	r := Aggregate([]models.SubmissionOutcome{out("B", "p3", "3", true)}, label)
	if got := r.Students[0].Pairs[0].Label; got != 3 {
		t.Errorf("label = %d, want 3 borrowed from the reference", got)
	}

	if _, ok := label("missing"); ok {
		t.Error("labeler should not know an unseen pair id")
	}
}

func TestRender(t *testing.T) {
	r := Aggregate([]models.SubmissionOutcome{
		out("Ivanov", "a", "1", true),
		out("Ivanov", "b", "2", true),
		out("Ivanov", "b", "3", false),
		out("Petrova", "c", "4", false),
	}, nil)

	var buf bytes.Buffer
	if err := Render(&buf, r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"Ivanov",
		"Pair 1 - hour 1",
		"Pair 2 - hours 2, 3",
		"1/2",
		"Petrova",
		"ERROR",
		"Succeeded: 2 of 4",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() output missing %q:\n%s", want, got)
		}
	}
}
