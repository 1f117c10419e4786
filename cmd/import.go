package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/source"
)

var importDB string

var importCmd = &cobra.Command{
	Use:   "import <files...>",
	Short: "Load profile files into the SQLite profile store",
	Long: `The import command validates profile documents and stores them in the SQLite
database used by source.kind=sqlite. A profile without a userId is stored
under its file name without extension. Importing a user again replaces
everything stored for that user.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(context.Background(), args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite database path (default from source.sqlitePath)")
	rootCmd.AddCommand(importCmd)
}

func runImport(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dbPath := importDB
	if dbPath == "" {
		dbPath = cfg.Source.SQLitePath
	}

	files, err := collectProfiles(args)
	if err != nil {
		return err
	}
	v, err := cue.NewProfileValidator()
	if err != nil {
		return fmt.Errorf("error loading profile schema: %w", err)
	}

	store, err := source.OpenSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, f := range files {
		in, issues, err := checkProfile(v, f)
		if err != nil {
			return fmt.Errorf("error validating %s: %w", f.RelPath, err)
		}
		if in == nil {
			for _, issue := range issues {
				fmt.Fprintf(os.Stderr, "  %s\n", issue)
			}
			return fmt.Errorf("%s: %w", f.RelPath, errProfilesFailed)
		}
		if in.UserID == "" {
			in.UserID = strings.TrimSuffix(filepath.Base(f.RelPath), filepath.Ext(f.RelPath))
		}
		if err := store.Import(ctx, in); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Printf("Imported %s as %s\n", f.RelPath, in.UserID)
		}
	}
	return nil
}
