package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/format"
)

var (
	fmtCheck bool
	fmtWrite bool
	fmtDiff  bool
)

var errNeedsFormatting = errors.New("one or more profiles need formatting")

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format profile documents canonically",
	Long: `Format profile documents with canonical style.

FORMATTING RULES:
  - Top-level fields in order: userId, asOf, stories, conversations,
    assessments, userStats, then any others alphabetically
  - Story, message, assessment and stats fields in their documented order
  - Two-space indentation, exactly one trailing newline
  - JSON stays JSON and YAML stays YAML

USAGE MODES:
  innerscope fmt alice.yaml          # Print formatted document to stdout
  innerscope fmt -w                  # Rewrite every profile under --dir
  innerscope fmt --diff alice.yaml   # Show what would change
  innerscope fmt --check --staged    # Exit 1 if staged profiles need formatting`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFmt(os.Stdout, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	addProfileFlags(fmtCmd)
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit 1 if files would change (for CI)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write changes in place")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Show diff of what would change")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(w io.Writer, args []string) error {
	files, err := collectProfiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to format")
	}

	var needsFormatting int
	for _, f := range files {
		content := string(f.Contents)
		formatted, err := format.NewProfileFormatter(f.Encoding).Format(content)
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", f.RelPath, err)
			}
			continue
		}

		if content == formatted {
			if verbose {
				fmt.Fprintf(w, "%s already formatted\n", f.RelPath)
			}
			continue
		}
		needsFormatting++

		switch {
		case fmtCheck:
			if !quiet {
				fmt.Fprintf(w, "%s needs formatting\n", f.RelPath)
			}
		case fmtDiff:
			fmt.Fprint(w, format.Diff(content, formatted, f.RelPath))
		case fmtWrite:
			if err := os.WriteFile(f.Path, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing %s: %w", f.Path, err)
			}
			if !quiet {
				fmt.Fprintf(w, "Formatted %s\n", f.RelPath)
			}
		default:
			fmt.Fprint(w, formatted)
		}
	}

	if fmtCheck && needsFormatting > 0 {
		return errNeedsFormatting
	}
	return nil
}
