package attendance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/logger"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/portal"
	"github.com/julianstephens/sfh/internal/schedule"
	"github.com/julianstephens/sfh/internal/tui"
)

// DayFlags selects the schedule page to work on.
type DayFlags struct {
	Day   int `help:"Day of month (1-31)." short:"d"`
	Month int `help:"Month (1-12)." short:"m"`
}

func (f *DayFlags) Validate() error {
	if f.Day != 0 {
		if err := tui.ValidateDay(strconv.Itoa(f.Day)); err != nil {
			return err
		}
	}
	if f.Month != 0 {
		if err := tui.ValidateMonth(strconv.Itoa(f.Month)); err != nil {
			return err
		}
	}
	return nil
}

// resolve fills a missing day or month from a prompt.
func (f *DayFlags) resolve(ctx *cli.Context) error {
	if f.Day != 0 && f.Month != 0 {
		return nil
	}
	if !ctx.Interactive {
		return fmt.Errorf("--day and --month are required: %w", cli.ErrNotInteractive)
	}

	var day, month string
	if f.Day != 0 {
		day = strconv.Itoa(f.Day)
	}
	if f.Month != 0 {
		month = strconv.Itoa(f.Month)
	}
	if err := tui.Run(tui.DayForm(&day, &month)); err != nil {
		return err
	}
	return f.set(day, month)
}

// set stores prompt answers, which may carry surrounding whitespace.
func (f *DayFlags) set(day, month string) error {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", day, err)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return fmt.Errorf("invalid month %q: %w", month, err)
	}
	if err := tui.ValidateDay(day); err != nil {
		return err
	}
	if err := tui.ValidateMonth(month); err != nil {
		return err
	}
	f.Day, f.Month = d, m
	return nil
}

// loadDay logs in and fetches the page, logging in again once if the
// session expired between the two.
func loadDay(runCtx context.Context, ctx *cli.Context, settings *models.Settings, f DayFlags) (*portal.Client, *portal.Day, []models.StudentPairs, error) {
	client, err := ctx.Session(runCtx, settings)
	if err != nil {
		return nil, nil, nil, err
	}

	day, err := client.FetchDay(runCtx, f.Month, f.Day)
	if errors.Is(err, portal.ErrSessionExpired) {
		logger.Info("Session expired, logging in again")
		if client, err = ctx.Session(runCtx, settings); err != nil {
			return nil, nil, nil, err
		}
		day, err = client.FetchDay(runCtx, f.Month, f.Day)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	students := schedule.GroupStudents(day.Students)
	if len(students) == 0 {
		return nil, nil, nil, fmt.Errorf("no students found for %02d.%02d", f.Day, f.Month)
	}
	return client, day, students, nil
}

type StudentsCmd struct {
	DayFlags `embed:""`
}

func (c *StudentsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if err := c.resolve(ctx); err != nil {
		return err
	}

	_, _, students, err := loadDay(context.Background(), ctx, &settings, c.DayFlags)
	if err != nil {
		return err
	}
	ctx.Printf("%s\n", tui.Title(fmt.Sprintf("Students for %02d.%02d", c.Day, c.Month)))
	ctx.Printf("%s", tui.StudentList(students))
	return nil
}
