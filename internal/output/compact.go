package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/innerscope/internal/cue"
)

// CompactFormatter prints one line per profile, suited to batch runs.
type CompactFormatter struct {
	out       io.Writer
	quiet     bool
	colorize  bool
	startTime time.Time
}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter(out io.Writer, quiet bool) *CompactFormatter {
	return &CompactFormatter{
		out:       out,
		quiet:     quiet,
		colorize:  isTerminal(out),
		startTime: time.Now(),
	}
}

// Column headings, in dimensionRows order.
var compactHeadings = []string{"SA", "EI", "CC", "RI", "AD", "CR", "RS", "AU"}

// Format prints the table and a summary line.
func (f *CompactFormatter) Format(entries []Entry) error {
	if f.quiet {
		return nil
	}

	greenStyle := f.style("10")
	redStyle := f.style("9")
	dimStyle := f.style("8")

	nameWidth := len("profile")
	archWidth := len("archetype")
	for _, e := range entries {
		nameWidth = max(nameWidth, len(e.Source))
		if e.Report != nil {
			archWidth = max(archWidth, len(e.Report.Archetype.Primary.Name))
		}
	}

	fmt.Fprintf(f.out, "  %-*s  %-*s  %-13s  %s\n", nameWidth, "profile", archWidth, "archetype", "class",
		dimStyle.Render(strings.Join(padAll(compactHeadings, 3), " ")))

	var failed, totalErrors, totalWarnings int
	for _, e := range entries {
		totalErrors += countSeverity(e.Issues, cue.SeverityError)
		totalWarnings += countSeverity(e.Issues, cue.SeverityWarning)
		if e.Report == nil {
			failed++
			fmt.Fprintf(f.out, "%s %-*s  %s\n", redStyle.Render("✗"), nameWidth, e.Source,
				redStyle.Render(fmt.Sprintf("%d %s", countSeverity(e.Issues, cue.SeverityError),
					pluralizeCount("error", countSeverity(e.Issues, cue.SeverityError)))))
			continue
		}

		r := e.Report
		scores := make([]string, 0, len(compactHeadings))
		for _, row := range dimensionRows(r.Dimensions) {
			scores = append(scores, f.style(bandColor(row.Score)).Render(fmt.Sprintf("%3d", row.Score)))
		}
		fmt.Fprintf(f.out, "%s %-*s  %-*s  %-13s  %s\n", greenStyle.Render("✓"), nameWidth, e.Source,
			archWidth, r.Archetype.Primary.Name, r.Metadata.Classification, strings.Join(scores, " "))
	}

	summary := fmt.Sprintf("%d/%d scored", len(entries)-failed, len(entries))
	if totalErrors > 0 {
		summary += fmt.Sprintf(", %d %s", totalErrors, pluralizeCount("error", totalErrors))
	}
	if totalWarnings > 0 {
		summary += fmt.Sprintf(", %d %s", totalWarnings, pluralizeCount("warning", totalWarnings))
	}
	summary += fmt.Sprintf(" (%s)", formatDuration(time.Since(f.startTime)))

	fmt.Fprintln(f.out)
	if failed > 0 {
		fmt.Fprintln(f.out, redStyle.Render(summary))
	} else {
		fmt.Fprintln(f.out, greenStyle.Render(summary))
	}
	return nil
}

func (f *CompactFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func padAll(items []string, width int) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = fmt.Sprintf("%*s", width, s)
	}
	return out
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
