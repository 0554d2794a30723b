package runner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexdrill/internal/session"
)

// transcriptShown is how many transcript lines the view keeps on screen.
const transcriptShown = 8

var (
	colorAccent  = lipgloss.Color("#F97316")
	colorSuccess = lipgloss.Color("#22C55E")
	colorDim     = lipgloss.Color("#94A3B8")
	colorPrimary = lipgloss.Color("#8B5CF6")

	wordStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	countStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	cueStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	hintStyle  = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

func (m *model) render() string {
	var b strings.Builder

	lines := m.transcript
	if len(lines) > transcriptShown {
		lines = lines[len(lines)-transcriptShown:]
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.phase {
	case phaseIntro:
		b.WriteString(dimStyle.Render("Listen..."))
		b.WriteString("\n")
	case phaseAsk:
		b.WriteString(wordStyle.Render(m.item.Text))
		b.WriteString("\n")
		switch {
		case m.cueLive:
			b.WriteString(cueStyle.Render("now"))
			b.WriteString("\n")
		case m.countdown > 0:
			b.WriteString(countStyle.Render(fmt.Sprintf("%d...", m.countdown)))
			b.WriteString("\n")
		}
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.hint != "" {
			b.WriteString(hintStyle.Render(m.hint))
			b.WriteString("\n")
		}
	case phaseDone:
		return b.String()
	}

	if m.playing != "" {
		b.WriteString(dimStyle.Render("♪ " + m.playing))
		b.WriteString("\n")
	}

	if m.confirmQuit {
		b.WriteString("End session? y/n\n")
	} else {
		b.WriteString(hintStyle.Render(m.keyHints()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) keyHints() string {
	opts := m.r.norm.Options()
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = fmt.Sprintf("%d %s", i+1, o)
	}
	return strings.Join(keys, " · ") + " · ? don't know · esc quit"
}

// printOutcome writes the summary and recommendation after the program
// exits.
func (r *Runner) printOutcome(out *Outcome) {
	w := r.out
	if w == nil {
		w = os.Stdout
	}
	printSummary(w, out.Summary, out.Completed)
	if rec := out.Recommendation; rec != nil {
		fmt.Fprintf(w, "\n%s\n%s\n", rec.Title, rec.Message)
		fmt.Fprintf(w, "  next: %s\n", rec.Primary.Label)
		if rec.Secondary != nil {
			fmt.Fprintf(w, "  or:   %s\n", rec.Secondary.Label)
		}
	}
}

func printSummary(w io.Writer, sum *session.SessionSummary, completed bool) {
	if sum == nil {
		return
	}
	if completed {
		fmt.Fprintln(w, "Session complete.")
	} else {
		fmt.Fprintln(w, "Session stopped.")
	}
	fmt.Fprintf(w, "%d answers, %d correct (%.0f%%) in %s\n",
		sum.TotalAnswers, sum.TotalCorrect, sum.Accuracy*100, sum.Duration.Round(time.Second))
	for _, it := range sum.Items {
		mark := " "
		if it.Passed {
			mark = "✓"
		}
		tier := fmt.Sprintf("tier %d", it.TierAfter)
		if it.TierAfter != it.TierBefore {
			tier = fmt.Sprintf("tier %d -> %d", it.TierBefore, it.TierAfter)
		}
		fmt.Fprintf(w, "  %s %-20s %-14s %d/%d\n", mark, it.Text, tier, it.Answers-it.Wrong, it.Answers)
	}
}
