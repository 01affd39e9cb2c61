package attendance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/dispatch"
	apperrors "github.com/julianstephens/sfh/internal/errors"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/report"
	"github.com/julianstephens/sfh/internal/tui"
)

// ExitPartialFailure is the exit code when some submissions failed.
const ExitPartialFailure = 2

type MarkCmd struct {
	DayFlags `embed:""`

	Student     []string `help:"Student by 1-based index or full name. Repeatable." short:"s"`
	Select      string   `help:"Pair/hour selection, e.g. '1, 2.1, 3-4' or 'all'."`
	Reason      string   `help:"Reason code: 0 none, 1 medical note, 2 community service, 3 duty, 4 explanatory note."`
	MaxInFlight int      `help:"Maximum concurrent submissions." env:"SFH_MAX_IN_FLIGHT"`
	Yes         bool     `help:"Submit without asking for confirmation." short:"y"`
	NoProgress  bool     `help:"Do not draw a progress bar."`
}

func (c *MarkCmd) Validate() error {
	if err := c.DayFlags.Validate(); err != nil {
		return err
	}
	if c.Reason != "" && !constants.ReasonCode(c.Reason).Valid() {
		return fmt.Errorf("invalid reason %q: must be 0-4", c.Reason)
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("--max-in-flight must not be negative")
	}
	return nil
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if err := c.resolve(ctx); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, day, students, err := loadDay(runCtx, ctx, &settings, c.DayFlags)
	if err != nil {
		return err
	}

	chosen, err := c.students(ctx, students)
	if err != nil {
		return err
	}
	reference := chosen[0]
	if len(reference.Pairs) == 0 {
		return fmt.Errorf("%s has no pairs on %02d.%02d", reference.Name, c.Day, c.Month)
	}
	for _, s := range chosen {
		ctx.Printf("\n%s\n%s", tui.Title(s.Name), tui.PairList(s.Pairs))
	}

	text, err := c.selection(ctx, reference.Pairs)
	if err != nil {
		return err
	}
	reason, err := c.reason(ctx, settings.DefaultReason)
	if err != nil {
		return err
	}

	jobs := dispatch.Plan(chosen, text, reason)
	if len(jobs) == 0 {
		ctx.Printf("Nothing selected.\n")
		return nil
	}
	summary := fmt.Sprintf("Marking %d hours for %d student(s) with reason %s (%s).",
		len(jobs), len(chosen), reason, reason.Label())
	if err := c.confirm(ctx, summary); err != nil {
		return err
	}
	ctx.Printf("\n%s\n%s\n", summary, tui.Hint("Sending to "+day.URL))

	maxInFlight := settings.MaxInFlight
	if c.MaxInFlight > 0 {
		maxInFlight = c.MaxInFlight
	}
	opts := dispatch.Options{
		MaxInFlight:    maxInFlight,
		RequestTimeout: time.Duration(settings.RequestTimeoutSec) * time.Second,
	}

	var progress *tui.Progress
	if ctx.Interactive && !c.NoProgress {
		dispatchCtx, cancel := context.WithCancel(runCtx)
		defer cancel()
		runCtx = dispatchCtx
		progress = tui.StartProgress(len(jobs), ctx.Output(), cancel)
		opts.OnOutcome = progress.Observe
	}

	outcomes, err := dispatch.New(client.Submitter(day), opts).Run(runCtx, jobs)
	if progress != nil {
		if perr := progress.Wait(); perr != nil {
			ctx.Printf("%s\n", tui.Warning("progress display failed: "+perr.Error()))
		}
	}
	if errors.Is(err, dispatch.ErrNothingToSubmit) {
		ctx.Printf("Nothing selected.\n")
		return nil
	}
	if err != nil {
		return err
	}

	rep := report.Aggregate(outcomes, report.ReferenceLabeler(reference.Pairs))
	ctx.Printf("\n")
	if err := report.Render(ctx.Output(), rep); err != nil {
		return err
	}
	if rep.Failed() > 0 {
		return apperrors.WithCode(ExitPartialFailure,
			fmt.Errorf("%d of %d submissions failed", rep.Failed(), rep.Attempted))
	}
	return nil
}

// students maps --student values to students, or prompts for them.
func (c *MarkCmd) students(ctx *cli.Context, all []models.StudentPairs) ([]models.StudentPairs, error) {
	if len(c.Student) > 0 {
		return PickStudents(all, c.Student)
	}
	if !ctx.Interactive {
		return nil, fmt.Errorf("--student is required: %w", cli.ErrNotInteractive)
	}

	var idx []int
	if err := tui.Run(tui.StudentForm(all, &idx)); err != nil {
		return nil, err
	}
	chosen := make([]models.StudentPairs, len(idx))
	for i, j := range idx {
		chosen[i] = all[j]
	}
	return chosen, nil
}

// PickStudents resolves each value as a 1-based index or, failing that,
// a case-insensitive full name. Order follows values; repeats are kept once.
func PickStudents(all []models.StudentPairs, values []string) ([]models.StudentPairs, error) {
	var chosen []models.StudentPairs
	seen := make(map[int]bool)
	for _, v := range values {
		i, err := lookupStudent(all, strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		if !seen[i] {
			seen[i] = true
			chosen = append(chosen, all[i])
		}
	}
	return chosen, nil
}

func lookupStudent(all []models.StudentPairs, v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(all) {
			return 0, fmt.Errorf("student %d out of range (1-%d)", n, len(all))
		}
		return n - 1, nil
	}
	for i, s := range all {
		if strings.EqualFold(s.Name, v) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no student named %q", v)
}

func (c *MarkCmd) selection(ctx *cli.Context, pairs []models.PairGroup) (string, error) {
	if c.Select != "" {
		return c.Select, nil
	}
	if !ctx.Interactive {
		return "", fmt.Errorf("--select is required: %w", cli.ErrNotInteractive)
	}
	var text string
	if err := tui.Run(tui.SelectionForm(pairs, &text)); err != nil {
		return "", err
	}
	return text, nil
}

func (c *MarkCmd) reason(ctx *cli.Context, def constants.ReasonCode) (constants.ReasonCode, error) {
	if c.Reason != "" {
		return constants.ReasonCode(c.Reason), nil
	}
	if !ctx.Interactive || c.Yes {
		return def, nil
	}
	reason := def
	if err := tui.Run(tui.ReasonForm(&reason)); err != nil {
		return "", err
	}
	return reason, nil
}

func (c *MarkCmd) confirm(ctx *cli.Context, summary string) error {
	if c.Yes {
		return nil
	}
	if !ctx.Interactive {
		return fmt.Errorf("--yes is required: %w", cli.ErrNotInteractive)
	}
	ok := true
	if err := tui.Run(tui.ConfirmForm("Submit?", summary, &ok)); err != nil {
		return err
	}
	if !ok {
		return tui.ErrAborted
	}
	return nil
}
