// Package dispatch fans a selection out across students and submits the
// resulting hours through a bounded admission gate.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/logger"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/selection"
)

// ErrNothingToSubmit is returned when the selection resolves to no hours
// for any student. No submission is attempted.
var ErrNothingToSubmit = errors.New("nothing to submit")

// Submitter performs one submission. Implementations report failure,
// including timeouts, as false and must honor ctx.
type Submitter interface {
	Submit(ctx context.Context, rec models.HourRecord, reason constants.ReasonCode) bool
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, rec models.HourRecord, reason constants.ReasonCode) bool

func (f SubmitFunc) Submit(ctx context.Context, rec models.HourRecord, reason constants.ReasonCode) bool {
	return f(ctx, rec, reason)
}

// Options configures a Dispatcher.
type Options struct {
	// MaxInFlight bounds concurrent submissions. Values below 1 use the default.
	MaxInFlight int
	// RequestTimeout bounds each submission through its context. Zero uses
	// the default. A Submitter that ignores ctx is not interrupted.
	RequestTimeout time.Duration
	// OnOutcome, when set, is called as each job completes. It is called
	// from multiple goroutines.
	OnOutcome func(models.SubmissionOutcome)
}

// Dispatcher submits selected hours for a batch of students.
type Dispatcher struct {
	submitter   Submitter
	maxInFlight int
	timeout     time.Duration
	onOutcome   func(models.SubmissionOutcome)
}

// New creates a Dispatcher.
func New(submitter Submitter, opts Options) *Dispatcher {
	d := &Dispatcher{
		submitter:   submitter,
		maxInFlight: opts.MaxInFlight,
		timeout:     opts.RequestTimeout,
		onOutcome:   opts.OnOutcome,
	}
	if d.maxInFlight < 1 {
		d.maxInFlight = constants.DefaultMaxInFlight
	}
	if d.timeout <= 0 {
		d.timeout = constants.DefaultRequestTimeout
	}
	return d
}

// MaxInFlight returns the effective admission limit.
func (d *Dispatcher) MaxInFlight() int { return d.maxInFlight }

// Plan resolves text independently against each student's own pairs and
// flattens the result into one job list, students in the given order.
func Plan(students []models.StudentPairs, text string, reason constants.ReasonCode) []models.SubmissionJob {
	var jobs []models.SubmissionJob
	for _, s := range students {
		for _, rec := range selection.Select(s.Pairs, text) {
			rec.Student = s.Name
			jobs = append(jobs, models.SubmissionJob{Student: s.Name, Record: rec, Reason: reason})
		}
	}
	return jobs
}

// Dispatch plans and runs a batch. See Run.
func (d *Dispatcher) Dispatch(ctx context.Context, students []models.StudentPairs, text string, reason constants.ReasonCode) ([]models.SubmissionOutcome, error) {
	return d.Run(ctx, Plan(students, text, reason))
}

// Run submits jobs with at most MaxInFlight in progress and returns one
// outcome per job, in job order. A failing job never affects the others.
// If ctx is cancelled, jobs not yet admitted are recorded as failures.
func (d *Dispatcher) Run(ctx context.Context, jobs []models.SubmissionJob) ([]models.SubmissionOutcome, error) {
	if len(jobs) == 0 {
		return nil, ErrNothingToSubmit
	}

	lg := logger.With("run", uuid.NewString())
	lg.Info("Dispatching batch", "jobs", len(jobs), "max_in_flight", d.maxInFlight)
	start := time.Now()

	gate := semaphore.NewWeighted(int64(d.maxInFlight))
	outcomes := make([]models.SubmissionOutcome, len(jobs))
	var wg sync.WaitGroup

	for i, job := range jobs {
		outcomes[i] = models.SubmissionOutcome{
			Student: job.Student,
			PairID:  job.Record.PairID,
			Hour:    job.Record.Hour,
		}

		if err := admit(ctx, gate); err != nil {
			lg.Warn("Submission not admitted", "student", job.Student, "zid", job.Record.PairID, "hour", job.Record.Hour, "error", err)
			d.emit(outcomes[i])
			continue
		}

		wg.Add(1)
		go func(i int, job models.SubmissionJob) {
			defer wg.Done()
			defer gate.Release(1)

			outcomes[i].OK = d.submit(ctx, job)
			if !outcomes[i].OK {
				lg.Warn("Submission failed", "student", job.Student, "zid", job.Record.PairID, "hour", job.Record.Hour)
			}
			d.emit(outcomes[i])
		}(i, job)
	}
	wg.Wait()

	lg.Info("Batch finished", "attempted", len(outcomes), "succeeded", countOK(outcomes), "elapsed", time.Since(start))
	return outcomes, nil
}

// admit blocks until the gate has room. A done ctx is never admitted.
func admit(ctx context.Context, gate *semaphore.Weighted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return gate.Acquire(ctx, 1)
}

func (d *Dispatcher) submit(ctx context.Context, job models.SubmissionJob) (ok bool) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if ctx.Err() != nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Submitter panicked", "zid", job.Record.PairID, "hour", job.Record.Hour, "panic", r)
			ok = false
		}
	}()
	return d.submitter.Submit(ctx, job.Record, job.Reason)
}

func (d *Dispatcher) emit(o models.SubmissionOutcome) {
	if d.onOutcome != nil {
		d.onOutcome(o)
	}
}

func countOK(outcomes []models.SubmissionOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.OK {
			n++
		}
	}
	return n
}
