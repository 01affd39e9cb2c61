package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	studentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render writes the per-student, per-pair summary followed by totals.
func Render(w io.Writer, r Report) error {
	var b strings.Builder
	for _, s := range r.Students {
		b.WriteString(studentStyle.Render(s.Name))
		b.WriteString("\n")
		for _, p := range s.Pairs {
			fmt.Fprintf(&b, "  %s %s\n", Line(p), statusStyle(p).Render(p.Status()))
		}
	}
	fmt.Fprintf(&b, "\nDone. Succeeded: %d of %d\n", r.Succeeded, r.Attempted)
	_, err := io.WriteString(w, b.String())
	return err
}

// Line describes a pair without its status, e.g. "Pair 2 - hour 3" or
// "Pair 1 - hours 1, 2 (2)".
func Line(p PairReport) string {
	if len(p.Hours) == 1 {
		return fmt.Sprintf("Pair %d - hour %s", p.Label, p.Hours[0].Hour)
	}
	hours := make([]string, len(p.Hours))
	for i, h := range p.Hours {
		hours[i] = h.Hour
	}
	return fmt.Sprintf("Pair %d - hours %s %s", p.Label, strings.Join(hours, ", "),
		dimStyle.Render(fmt.Sprintf("(%d)", len(p.Hours))))
}

func statusStyle(p PairReport) lipgloss.Style {
	switch ok := p.Succeeded(); {
	case ok == len(p.Hours):
		return okStyle
	case ok == 0:
		return errorStyle
	default:
		return partialStyle
	}
}
