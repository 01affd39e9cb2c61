package tui

import (
	"strings"
	"testing"

	"github.com/julianstephens/sfh/internal/models"
)

func TestValidateDayMonth(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"day ok", ValidateDay, "6", false},
		{"day padded", ValidateDay, " 31 ", false},
		{"day zero", ValidateDay, "0", true},
		{"day too big", ValidateDay, "32", true},
		{"day text", ValidateDay, "six", true},
		{"month ok", ValidateMonth, "11", false},
		{"month too big", ValidateMonth, "13", true},
		{"month empty", ValidateMonth, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func testPairs() []models.PairGroup {
	return []models.PairGroup{
		{{PairID: "101", Hour: "1"}, {PairID: "101", Hour: "2"}},
		{{PairID: "102", Hour: "3"}},
	}
}

func TestSelectionValidator(t *testing.T) {
	validate := SelectionValidator(testPairs())
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1", false},
		{"1.2", false},
		{"all", false},
		{"", true},
		{"7", true},
		{"2.5", true},
		{"abc", true},
	}
	for _, tt := range tests {
		if err := validate(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("validate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestPairList(t *testing.T) {
	got := PairList(testPairs())
	for _, want := range []string{"Pair 1", "zid=101", "hours 1, 2", "Pair 2", "hours 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("PairList() missing %q:\n%s", want, got)
		}
	}
}

func TestStudentList(t *testing.T) {
	got := StudentList([]models.StudentPairs{
		{Name: "Ivanov Ivan", Pairs: testPairs()},
		{Name: "Petrova Anna"},
	})
	for _, want := range []string{"1.", "Ivanov Ivan", "(2 pairs, 3 hours)", "2.", "Petrova Anna", "(0 pairs, 0 hours)"} {
		if !strings.Contains(got, want) {
			t.Errorf("StudentList() missing %q:\n%s", want, got)
		}
	}
}
