package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/output"
	"github.com/dotcommander/innerscope/internal/outputters"
)

var validateBaseline string

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check profile documents against the profile schema",
	Long: `The validate command checks profile documents without scoring them.

Validation checks:
- Document structure: only known top-level fields, typed values
- Stories: a non-empty id on every story
- Messages: a role and content on every message
- Counters: non-negative conversation and story totals
- Story formats and message roles outside the known catalogue (warnings)

Exits non-zero when any document has errors. Warnings recorded in a baseline
(--baseline) are not reported again.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(os.Stdout, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	addProfileFlags(validateCmd)
	validateCmd.Flags().StringVarP(&validateBaseline, "baseline", "b", "", "Baseline file whose known warnings are ignored")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var b *baseline.Baseline
	if validateBaseline != "" {
		if b, err = baseline.LoadBaseline(validateBaseline); err != nil {
			return err
		}
	}

	files, err := collectProfiles(args)
	if err != nil {
		return err
	}
	v, err := cue.NewProfileValidator()
	if err != nil {
		return fmt.Errorf("error loading profile schema: %w", err)
	}

	entries := make([]output.Entry, 0, len(files))
	for _, f := range files {
		_, issues, err := checkProfile(v, f)
		if err != nil {
			return fmt.Errorf("error validating %s: %w", f.RelPath, err)
		}
		entry := output.Entry{Source: f.RelPath, Issues: issues}
		applyBaseline(&entry, b)
		entries = append(entries, entry)
	}

	switch cfg.Format {
	case "json", "markdown":
		if err := outputters.NewOutputter(cfg).WithWriter(w).Format(entries, cfg.Format); err != nil {
			return fmt.Errorf("error formatting output: %w", err)
		}
	default:
		if !cfg.Quiet {
			printValidation(w, entries, cfg.Verbose)
		}
	}

	if hasErrors(entries) {
		return errProfilesFailed
	}
	return nil
}

// printValidation prints one status line per file followed by its issues.
func printValidation(w io.Writer, entries []output.Entry, verbose bool) {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	passed := 0
	for _, e := range entries {
		failed := cue.HasErrors(e.Issues)
		if !failed {
			passed++
		}
		if !failed && len(e.Issues) == 0 && !verbose {
			continue
		}

		status := green.Render("✓")
		if failed {
			status = red.Render("✗")
		}
		fmt.Fprintf(w, "%s %s\n", status, e.Source)
		for _, issue := range e.Issues {
			prefix, style := "    ⚠ ", yellow
			if issue.Severity == cue.SeverityError {
				prefix, style = "    ✘ ", red
			}
			loc := issue.Path
			if loc == "" {
				loc = "(document)"
			}
			fmt.Fprintf(w, "%s%s: %s\n", prefix, style.Render(loc), issue.Message)
		}
	}

	summary := fmt.Sprintf("%d/%d passed", passed, len(entries))
	if passed == len(entries) {
		fmt.Fprintln(w, green.Render(summary))
	} else {
		fmt.Fprintln(w, red.Render(summary))
	}
}
