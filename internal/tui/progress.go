package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sfh/internal/models"
)

// OutcomeMsg reports one finished submission to the progress model.
type OutcomeMsg models.SubmissionOutcome

// DoneMsg tells the progress model the batch is over.
type DoneMsg struct{}

// ProgressModel draws a bar that advances once per outcome.
type ProgressModel struct {
	bar         progress.Model
	total       int
	done        int
	failed      int
	last        string
	interrupted bool
}

func NewProgressModel(total int) ProgressModel {
	return ProgressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
}

func (m ProgressModel) Init() tea.Cmd { return nil }

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OutcomeMsg:
		m.done++
		if !msg.OK {
			m.failed++
		}
		m.last = fmt.Sprintf("%s: zid=%s hour %s", msg.Student, msg.PairID, msg.Hour)
		if m.done >= m.total {
			return m, tea.Quit
		}
	case DoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 10 && w < 80 {
			m.bar.Width = w
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString("\n")
	status := fmt.Sprintf("%d of %d sent", m.done, m.total)
	if m.failed > 0 {
		status += ", " + Danger(fmt.Sprintf("%d failed", m.failed))
	}
	b.WriteString(status)
	if m.last != "" {
		b.WriteString("  " + Hint(m.last))
	}
	b.WriteString("\n")
	return docStyle.Render(b.String())
}

// Percent is the completed fraction in [0, 1].
func (m ProgressModel) Percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

// Interrupted reports whether the operator pressed ctrl+c.
func (m ProgressModel) Interrupted() bool { return m.interrupted }

// Progress runs a ProgressModel in the background for one batch.
type Progress struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// StartProgress starts drawing to out. If the operator interrupts, cancel
// is called so that no further jobs are admitted.
func StartProgress(total int, out io.Writer, cancel context.CancelFunc) *Progress {
	p := &Progress{
		program: tea.NewProgram(NewProgressModel(total), tea.WithOutput(out)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		final, err := p.program.Run()
		p.err = err
		if m, ok := final.(ProgressModel); ok && m.Interrupted() && cancel != nil {
			cancel()
		}
	}()
	return p
}

// Observe forwards an outcome; it is safe to call from many goroutines.
func (p *Progress) Observe(o models.SubmissionOutcome) {
	p.program.Send(OutcomeMsg(o))
}

// Wait stops the program and waits for it to release the terminal.
func (p *Progress) Wait() error {
	p.program.Send(DoneMsg{})
	<-p.done
	return p.err
}
