package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/baseline"
)

// DefaultBaselinePath is where baselines are written unless --path is set.
const DefaultBaselinePath = ".innerscope-baseline.json"

var baselinePath string

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage score baselines",
	Long: `A baseline records the dimension scores of one report together with the
validation warnings of its profile. Pass it to report --baseline to see how
each dimension moved, or to validate --baseline to silence known warnings.`,
}

var baselineCreateCmd = &cobra.Command{
	Use:   "create <profile>",
	Short: "Record a baseline from a profile file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBaselineCreate(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	baselineCreateCmd.Flags().StringVarP(&baselinePath, "path", "p", DefaultBaselinePath, "Baseline file to write")
	baselineCmd.AddCommand(baselineCreateCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineCreate(profilePath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := collectProfiles([]string{profilePath})
	if err != nil {
		return err
	}
	entries, err := scoreFiles(newEngine(cfg), files, nil)
	if err != nil {
		return err
	}
	e := entries[0]
	if e.Report == nil {
		return fmt.Errorf("%s: %w", profilePath, errProfilesFailed)
	}

	b := baseline.CreateBaseline(*e.Report, e.Issues)
	if err := b.SaveBaseline(baselinePath); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	if !cfg.Quiet {
		fmt.Printf("Baseline created: %s (%d scores, %d known issues)\n", baselinePath, len(b.Scores), len(b.Fingerprints))
	}
	return nil
}

