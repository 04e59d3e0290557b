// Package report renders a branch-and-bound Result for terminals and files.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/milp/bnb"
)

// Styles are the lipgloss styles used by Write.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Good  lipgloss.Style
	Bad   lipgloss.Style
	Muted lipgloss.Style
	Box   lipgloss.Style
}

// DefaultStyles returns the coloured terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
		Good:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		Bad:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
		Muted: lipgloss.NewStyle().Faint(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#16858E")).
			Padding(0, 1),
	}
}

// Plain returns styles without colour or borders.
func Plain() Styles {
	s := lipgloss.NewStyle()

	return Styles{Title: s, Label: s, Good: s, Bad: s, Muted: s, Box: s}
}

type options struct {
	styles  Styles
	history bool
}

// Option configures Write.
type Option func(*options)

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(o *options) { o.styles = s }
}

// WithHistory appends the per-iteration bound table.
func WithHistory() Option {
	return func(o *options) { o.history = true }
}

// Write renders res for the model called name.
func Write(w io.Writer, name string, res bnb.Result, opts ...Option) error {
	o := options{styles: DefaultStyles()}
	for _, opt := range opts {
		opt(&o)
	}
	st := o.styles

	status := st.Bad.Render(res.Status.String())
	if res.Status == bnb.StatusOptimal {
		status = st.Good.Render(res.Status.String())
	}

	var b strings.Builder
	b.WriteString(st.Title.Render("model "+name) + "\n")
	field(&b, st, "status", status)
	if res.Solution != nil {
		field(&b, st, "objective", formatFloat(res.Objective))
		field(&b, st, "gap", formatFloat(res.GapPercent)+"%")
		field(&b, st, "bounds", fmt.Sprintf("[%s, %s]", formatFloat(res.Lower), formatFloat(res.Upper)))
		verified := st.Good.Render("yes")
		if !res.Verified {
			verified = st.Bad.Render(fmt.Sprintf("no: %v", res.Violation))
		}
		field(&b, st, "verified", verified)
	}
	s := res.Stats
	field(&b, st, "nodes", fmt.Sprintf("%d created, %d processed, %d branched", s.Created, s.Processed, s.Branched))
	field(&b, st, "pruned", fmt.Sprintf("infeasible %d, integer %d, gap %d, dominated %d",
		s.PrunedInfeasible, s.PrunedInteger, s.PrunedGap, s.PrunedDominated))
	field(&b, st, "queue", fmt.Sprintf("max %d", s.MaxQueue))
	summary := st.Box.Render(strings.TrimRight(b.String(), "\n"))

	blocks := []string{summary}
	if len(res.Solution) > 0 {
		blocks = append(blocks, solutionTable(st, res.Solution))
	}
	if o.history && len(res.History) > 0 {
		blocks = append(blocks, historyTable(st, res.History))
	}

	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, blocks...)+"\n")

	return err
}

func field(b *strings.Builder, st Styles, label, value string) {
	b.WriteString(st.Label.Render(fmt.Sprintf("%-10s", label)) + " " + value + "\n")
}

func solutionTable(st Styles, sol map[string]float64) string {
	names := make([]string, 0, len(sol))
	width := len("variable")
	for name := range sol {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(st.Title.Render(fmt.Sprintf("%-*s  %s", width, "variable", "value")) + "\n")
	for _, name := range names {
		fmt.Fprintf(&b, "%-*s  %s\n", width, name, formatFloat(sol[name]))
	}

	return strings.TrimRight(b.String(), "\n")
}

func historyTable(st Styles, history []bnb.BoundPoint) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(fmt.Sprintf("%5s  %14s  %14s  %9s", "iter", "upper", "lower", "gap%")) + "\n")
	for _, p := range history {
		gap := "-"
		if d := math.Abs(p.Upper - p.Lower); p.Upper != 0 && !math.IsInf(d, 0) {
			gap = fmt.Sprintf("%.3f", 100*d/math.Abs(p.Upper))
		}
		fmt.Fprintf(&b, "%5d  %14s  %14s  %9s\n", p.Iteration, formatFloat(p.Upper), formatFloat(p.Lower), gap)
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatFloat prints up to four decimals without trailing zeros.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		s = "0"
	}

	return s
}
