package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/selection"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("aborted")

// Run runs form and maps a user abort to ErrAborted.
func Run(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// CredentialsForm prompts for a portal login id and password.
func CredentialsForm(loginID, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Login").
				Placeholder("007").
				Value(loginID).
				Validate(required("login")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	)
}

// DayForm prompts for the day of month and month number.
func DayForm(day, month *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Day").
				Placeholder("6").
				Value(day).
				Validate(ValidateDay),
			huh.NewInput().
				Title("Month").
				Placeholder("11").
				Value(month).
				Validate(ValidateMonth),
		),
	)
}

// ValidateDay accepts 1 through 31.
func ValidateDay(s string) error {
	return inRange(s, 1, 31, "day")
}

// ValidateMonth accepts 1 through 12.
func ValidateMonth(s string) error {
	return inRange(s, 1, 12, "month")
}

func inRange(s string, lo, hi int, name string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%s must be a number", name)
	}
	if n < lo || n > hi {
		return fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// StudentForm lets the operator pick one or more students. selected
// receives 0-based indices into students.
func StudentForm(students []models.StudentPairs, selected *[]int) *huh.Form {
	opts := make([]huh.Option[int], len(students))
	for i, s := range students {
		opts[i] = huh.NewOption(fmt.Sprintf("%d. %s", i+1, s.Name), i)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Students").
				Options(opts...).
				Value(selected).
				Validate(func(v []int) error {
					if len(v) == 0 {
						return errors.New("select at least one student")
					}
					return nil
				}),
		),
	)
}

// SelectionForm prompts for selection text, showing the reference
// student's pairs and rejecting input that resolves to nothing for them.
func SelectionForm(pairs []models.PairGroup, text *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Selection").
				Description(PairList(pairs)+Hint("e.g. 1, 1.2, 1-3, 0 for all")).
				Value(text).
				Validate(SelectionValidator(pairs)),
		),
	)
}

// SelectionValidator rejects text that selects no hours of pairs.
func SelectionValidator(pairs []models.PairGroup) func(string) error {
	return func(s string) error {
		if len(selection.Select(pairs, s)) == 0 {
			return errors.New("nothing selected")
		}
		return nil
	}
}

// ReasonForm prompts for the justification code.
func ReasonForm(reason *constants.ReasonCode) *huh.Form {
	opts := make([]huh.Option[constants.ReasonCode], len(constants.ReasonCodes))
	for i, c := range constants.ReasonCodes {
		opts[i] = huh.NewOption(fmt.Sprintf("%s - %s", c, c.Label()), c)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[constants.ReasonCode]().
				Title("Reason").
				Options(opts...).
				Value(reason),
		),
	)
}

// ConfirmForm asks a yes/no question.
func ConfirmForm(title, description string, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Submit").
				Negative("Cancel").
				Value(ok),
		),
	)
}
