package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/scoring"
)

const barWidth = 20

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	out      io.Writer
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a new ConsoleFormatter. Colour is used only
// when out is a terminal.
func NewConsoleFormatter(out io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		out:      out,
		quiet:    quiet,
		verbose:  verbose,
		colorize: isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Format prints each report.
func (f *ConsoleFormatter) Format(entries []Entry) error {
	if f.quiet {
		return nil
	}
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printEntry(e)
	}
	return nil
}

func (f *ConsoleFormatter) printEntry(e Entry) {
	if e.Report == nil {
		fmt.Fprintf(f.out, "%s %s\n", f.style("9").Render("✗"), e.Source)
		f.printIssues(e.Issues)
		return
	}
	r := e.Report

	bold := lipgloss.NewStyle().Bold(true)
	dim := f.style("8")

	header := r.Archetype.Primary.Name
	if e.Source != "" {
		header = e.Source + "  " + header
	}
	fmt.Fprintln(f.out, bold.Render(header))
	fmt.Fprintf(f.out, "%s\n", dim.Render(fmt.Sprintf("%s · %s · confidence %d%% · %d data points",
		r.Metadata.ReportID, r.Metadata.Classification, r.Metadata.ConfidenceLevel, r.Metadata.DataPoints)))
	if r.Archetype.BlendProfile != "" {
		fmt.Fprintf(f.out, "%s\n", r.Archetype.BlendProfile)
	}
	fmt.Fprintln(f.out)

	f.printDimensions(r.Dimensions)

	if len(r.Patterns) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, bold.Render("Patterns"))
		for _, p := range r.Patterns {
			fmt.Fprintf(f.out, "  • %s %s\n", p.Type, dim.Render("("+p.Frequency+")"))
			if f.verbose {
				fmt.Fprintf(f.out, "    %s\n", p.Implication)
			}
		}
	}

	if len(r.Strengths) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, bold.Render("Strengths"))
		for _, s := range r.Strengths {
			fmt.Fprintf(f.out, "  • %s %s\n", s.Strength, dim.Render("("+s.Level+")"))
		}
	}

	if len(r.RiskFactors) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, bold.Render("Watch for"))
		for _, rf := range r.RiskFactors {
			fmt.Fprintf(f.out, "  %s %s: %s\n", f.style("3").Render("⚠"), rf.Factor, rf.Mitigation)
		}
	}

	if f.verbose {
		f.printRecommendations(r.Recommendations)
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "%s %s → %s (%d%%)\n", bold.Render("Growth"),
			r.GrowthTrajectory.CurrentPhase, r.GrowthTrajectory.NextPhase, r.GrowthTrajectory.CompletionPercentage)
	}

	f.printDeltas(e.Deltas)
	f.printIssues(e.Issues)
}

func (f *ConsoleFormatter) printDimensions(d scoring.Dimensions) {
	rows := dimensionRows(d)
	width := 0
	for _, row := range rows {
		width = max(width, len(row.Name))
	}
	for _, row := range rows {
		filled := row.Score * barWidth / 100
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		line := fmt.Sprintf("  %-*s %s %3d", width, row.Name, f.style(bandColor(row.Score)).Render(bar), row.Score)
		if row.Level != "" {
			line += "  " + row.Level
		}
		fmt.Fprintln(f.out, line)
	}
}

func (f *ConsoleFormatter) printRecommendations(r scoring.Recommendations) {
	groups := []struct {
		title string
		items []string
	}{
		{"Now", r.Immediate},
		{"Next weeks", r.ShortTerm},
		{"Long term", r.LongTerm},
	}
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, lipgloss.NewStyle().Bold(true).Render("Recommendations"))
	for _, g := range groups {
		for _, item := range g.items {
			fmt.Fprintf(f.out, "  %-10s %s\n", g.title, item)
		}
	}
}

func (f *ConsoleFormatter) printDeltas(deltas []baseline.Delta) {
	if len(deltas) == 0 {
		return
	}
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, lipgloss.NewStyle().Bold(true).Render("Since baseline"))

	improved := 0
	for _, d := range deltas {
		var style lipgloss.Style
		switch {
		case d.Change > 0:
			style = f.style("10")
			improved++
		case d.Change < 0:
			style = f.style("9")
		default:
			style = f.style("8")
		}
		fmt.Fprintf(f.out, "  %-26s %3d → %3d  %s\n", d.Dimension, d.Before, d.After, style.Render(signed(d.Change)))
	}

	if f.colorize && improved == len(deltas) {
		printCelebration(f.out, "Every dimension grew")
	}
}

// printIssues prints validation problems with severity styling.
func (f *ConsoleFormatter) printIssues(issues []cue.ValidationError) {
	for _, issue := range issues {
		var style lipgloss.Style
		prefix := "    "
		switch issue.Severity {
		case cue.SeverityError:
			style = f.style("9")
			prefix = "    ✘ "
		case cue.SeverityWarning:
			style = f.style("3")
			prefix = "    ⚠ "
		default:
			style = f.style("7")
		}
		loc := issue.File
		if issue.Path != "" {
			loc += ":" + issue.Path
		}
		fmt.Fprintf(f.out, "%s%s: %s\n", prefix, style.Render(loc), issue.Message)
	}
}

// style returns a foreground style, or a plain one without colour.
func (f *ConsoleFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// bandColor maps a score to a terminal colour.
func bandColor(score int) string {
	switch {
	case score >= 80:
		return "10" // green
	case score >= 65:
		return "14" // cyan
	case score >= 50:
		return "11" // yellow
	default:
		return "9" // red
	}
}
