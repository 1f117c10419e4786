package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/innerscope/internal/cue"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	out        io.Writer
	quiet      bool
	verbose    bool
	outputFile string
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(out io.Writer, quiet, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		out:        out,
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
	}
}

// Format writes one Markdown document covering every entry.
func (f *MarkdownFormatter) Format(entries []Entry) error {
	var b strings.Builder

	b.WriteString("# Intelligence Report\n\n")
	if len(entries) == 0 {
		b.WriteString("*No profiles found.*\n")
	}
	if len(entries) > 1 {
		b.WriteString("## Profiles\n\n")
		for _, e := range entries {
			b.WriteString(fmt.Sprintf("- [%s](#%s)\n", e.Source, createAnchor(e.Source)))
		}
		b.WriteString("\n")
	}

	for _, e := range entries {
		if len(entries) > 1 {
			b.WriteString(fmt.Sprintf("## %s\n\n", e.Source))
		}
		writeEntry(&b, e, f.verbose)
	}

	if f.quiet && f.outputFile == "" {
		return nil
	}
	return writeOutput(f.out, f.outputFile, []byte(b.String()))
}

// RenderMarkdown renders a single report with every section.
func RenderMarkdown(e Entry) string {
	var b strings.Builder
	writeEntry(&b, e, true)
	return b.String()
}

func writeEntry(b *strings.Builder, e Entry, verbose bool) {
	if e.Report == nil {
		b.WriteString("Status: ❌ not scored\n\n")
		writeIssues(b, e.Issues)
		return
	}
	r := e.Report

	b.WriteString(fmt.Sprintf("**Archetype:** %s %s (%d%% confidence)\n\n",
		r.Archetype.Primary.Details.Icon, r.Archetype.Primary.Name, r.Archetype.Primary.Confidence))
	if r.Archetype.Secondary != nil {
		b.WriteString(fmt.Sprintf("**Secondary:** %s (%d%% influence)\n\n", r.Archetype.Secondary.Name, r.Archetype.Secondary.Influence))
	}
	b.WriteString(fmt.Sprintf("%s\n\n", r.Archetype.BlendProfile))
	b.WriteString(fmt.Sprintf("**Report:** `%s` · %s · %d data points · confidence %d%%\n\n",
		r.Metadata.ReportID, r.Metadata.Classification, r.Metadata.DataPoints, r.Metadata.ConfidenceLevel))

	b.WriteString("### Dimensions\n\n")
	b.WriteString("| Dimension | Score | Level |\n")
	b.WriteString("|-----------|-------|-------|\n")
	for _, row := range dimensionRows(r.Dimensions) {
		b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", row.Name, row.Score, row.Level))
	}
	b.WriteString("\n")

	if len(r.Patterns) > 0 {
		b.WriteString("### Patterns\n\n")
		for _, p := range r.Patterns {
			b.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", p.Type, p.Frequency, p.Implication))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Cognitive Style\n\n")
	b.WriteString(fmt.Sprintf("**%s**: %s\n\n", r.CognitiveStyle.Primary, r.CognitiveStyle.Description))

	if len(r.Strengths) > 0 {
		b.WriteString("### Strengths\n\n")
		for _, s := range r.Strengths {
			b.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", s.Strength, s.Level, s.Leverage))
		}
		b.WriteString("\n")
	}

	if len(r.RiskFactors) > 0 {
		b.WriteString("### Risk Factors\n\n")
		for _, rf := range r.RiskFactors {
			b.WriteString(fmt.Sprintf("- **%s** (%s risk): %s\n", rf.Factor, rf.Risk, rf.Mitigation))
		}
		b.WriteString("\n")
	}

	if verbose {
		writeList(b, "### Immediate Steps", r.Recommendations.Immediate)
		writeList(b, "### Short Term", r.Recommendations.ShortTerm)
		writeList(b, "### Long Term", r.Recommendations.LongTerm)

		b.WriteString("### Predictions\n\n")
		b.WriteString("| Category | Prediction | Confidence | Timeframe |\n")
		b.WriteString("|----------|------------|------------|-----------|\n")
		for _, p := range r.Predictions {
			b.WriteString(fmt.Sprintf("| %s | %s | %d%% | %s |\n", p.Category, p.Prediction, p.Confidence, p.Timeframe))
		}
		b.WriteString("\n")

		b.WriteString("### Next Level\n\n")
		b.WriteString(fmt.Sprintf("**%s** (readiness %d%%, %s)\n\n", r.NextLevel.NextCapability, r.NextLevel.ReadinessScore, r.NextLevel.EstimatedTime))
	}

	if len(e.Deltas) > 0 {
		b.WriteString("### Since Baseline\n\n")
		b.WriteString("| Dimension | Before | After | Change |\n")
		b.WriteString("|-----------|--------|-------|--------|\n")
		for _, d := range e.Deltas {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n", d.Dimension, d.Before, d.After, signed(d.Change)))
		}
		b.WriteString("\n")
	}

	writeIssues(b, e.Issues)
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func writeIssues(b *strings.Builder, issues []cue.ValidationError) {
	for _, severity := range []string{cue.SeverityError, cue.SeverityWarning} {
		if countSeverity(issues, severity) == 0 {
			continue
		}
		if severity == cue.SeverityError {
			b.WriteString("#### Errors\n\n")
		} else {
			b.WriteString("#### Warnings\n\n")
		}
		for _, issue := range issues {
			if issue.Severity != severity {
				continue
			}
			b.WriteString(fmt.Sprintf("- **%s** - %s", issue.Path, issue.Message))
			if issue.Source != "" {
				b.WriteString(fmt.Sprintf(" `[%s]`", issue.Source))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}
