package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/config"
	"github.com/dotcommander/innerscope/internal/output"
	"github.com/dotcommander/innerscope/internal/outputters"
	"github.com/dotcommander/innerscope/internal/source"
)

var (
	reportUser     string
	reportBaseline string
)

var errProfilesFailed = errors.New("one or more profiles failed validation")

var reportCmd = &cobra.Command{
	Use:   "report [files...]",
	Short: "Generate intelligence reports for profile files or a stored user",
	Long: `The report command scores profile documents and renders the resulting reports.

Profiles are JSON or YAML documents. With no arguments every profile under --dir
matching --pattern is reported. With --user the profile is loaded from the
configured source (file, mongo or sqlite) instead.

Examples:
  innerscope report alice.yaml
  innerscope report --dir profiles --format compact
  innerscope report --user alice --baseline .innerscope-baseline.json`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context(), args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	addProfileFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportUser, "user", "u", "", "Report on a user from the configured source")
	reportCmd.Flags().StringVarP(&reportBaseline, "baseline", "b", "", "Baseline file to compare scores against")
	rootCmd.AddCommand(reportCmd)
}

func runReport(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var b *baseline.Baseline
	if reportBaseline != "" {
		if b, err = baseline.LoadBaseline(reportBaseline); err != nil {
			return err
		}
	}

	var entries []output.Entry
	if reportUser != "" {
		if len(args) > 0 {
			return fmt.Errorf("--user cannot be combined with profile files")
		}
		entry, err := reportForUser(ctx, cfg, reportUser)
		if err != nil {
			return err
		}
		applyBaseline(&entry, b)
		entries = []output.Entry{entry}
	} else {
		files, err := collectProfiles(args)
		if err != nil {
			return err
		}
		if entries, err = scoreFiles(newEngine(cfg), files, b); err != nil {
			return err
		}
	}

	if err := outputters.NewOutputter(cfg).Format(entries, cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	if hasErrors(entries) {
		return errProfilesFailed
	}
	return nil
}

func reportForUser(ctx context.Context, cfg *config.Config, userID string) (output.Entry, error) {
	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return output.Entry{}, err
	}
	defer src.Close()

	in, err := src.Load(ctx, userID)
	if err != nil {
		return output.Entry{}, err
	}
	r := newEngine(cfg).Generate(in)
	return output.Entry{Source: userID, Report: &r}, nil
}
