package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/discovery"
	"github.com/dotcommander/innerscope/internal/git"
	"github.com/dotcommander/innerscope/internal/output"
	"github.com/dotcommander/innerscope/internal/profile"
	"github.com/dotcommander/innerscope/internal/scoring"
)

var (
	profileDir     string
	profilePattern string
	followSymlinks bool
	gitStaged      bool
	gitChanged     bool
)

// collectProfiles reads the files named in args, or discovers them under
// profileDir when args is empty.
func collectProfiles(args []string) ([]discovery.File, error) {
	dir := profileDir
	if dir == "" {
		dir = "."
	}
	if len(args) == 0 && (gitStaged || gitChanged) {
		paths, err := gitProfiles(dir)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, nil
		}
		args = paths
	}
	if len(args) == 0 {
		var patterns []string
		if profilePattern != "" {
			patterns = append(patterns, profilePattern)
		}
		files, err := discovery.NewFileDiscovery(dir, followSymlinks).Discover(patterns...)
		if err != nil {
			return nil, fmt.Errorf("error discovering profiles: %w", err)
		}
		return files, nil
	}

	files := make([]discovery.File, 0, len(args))
	for _, arg := range args {
		path, err := discovery.ValidateFilePath(arg)
		if err != nil {
			return nil, err
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", arg, err)
		}
		files = append(files, discovery.File{
			Path:     path,
			RelPath:  arg,
			Size:     int64(len(contents)),
			Encoding: profile.EncodingFromPath(arg),
			Contents: contents,
		})
	}
	return files, nil
}

// gitProfiles lists the profile documents under dir that git reports as
// staged (--staged) or uncommitted (--changed), relative to dir.
func gitProfiles(dir string) ([]string, error) {
	var (
		paths []string
		err   error
	)
	if gitStaged {
		paths, err = git.GetStagedFiles(dir)
	} else {
		paths, err = git.GetChangedFiles(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing git changes: %w", err)
	}
	if wd, err := os.Getwd(); err == nil {
		for i, p := range paths {
			if rel, err := filepath.Rel(wd, p); err == nil {
				paths[i] = rel
			}
		}
	}
	return paths, nil
}

// addProfileFlags registers the flags shared by commands that read profile
// files.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&profileDir, "dir", "d", ".", "Directory to search for profiles")
	cmd.Flags().StringVar(&profilePattern, "pattern", "", "Glob pattern for profiles (default **/*.{json,yaml,yml})")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symlinks that stay inside --dir")
	cmd.Flags().BoolVar(&gitStaged, "staged", false, "Only profiles staged in git")
	cmd.Flags().BoolVar(&gitChanged, "changed", false, "Only profiles with uncommitted git changes")
	cmd.MarkFlagsMutuallyExclusive("staged", "changed")
}

// checkProfile validates a file and decodes it when it has no errors.
func checkProfile(v *cue.Validator, f discovery.File) (*profile.Input, []cue.ValidationError, error) {
	issues, err := v.ValidateFile(f.RelPath, f.Contents)
	if err != nil {
		return nil, nil, err
	}
	if cue.HasErrors(issues) {
		return nil, issues, nil
	}
	in, err := profile.Parse(f.Contents, f.Encoding)
	if err != nil {
		return nil, append(issues, cue.ValidationError{
			File:     f.RelPath,
			Message:  err.Error(),
			Severity: cue.SeverityError,
			Source:   cue.SourceSchema,
		}), nil
	}
	return in, issues, nil
}

// scoreFiles validates and scores each file. Files with schema errors are
// returned without a report.
func scoreFiles(eng scoring.Generator, files []discovery.File, b *baseline.Baseline) ([]output.Entry, error) {
	v, err := cue.NewProfileValidator()
	if err != nil {
		return nil, fmt.Errorf("error loading profile schema: %w", err)
	}

	entries := make([]output.Entry, 0, len(files))
	for _, f := range files {
		in, issues, err := checkProfile(v, f)
		if err != nil {
			return nil, fmt.Errorf("error validating %s: %w", f.RelPath, err)
		}
		entry := output.Entry{Source: f.RelPath, Issues: issues}
		if in != nil {
			r := eng.Generate(in)
			entry.Report = &r
		}
		applyBaseline(&entry, b)
		entries = append(entries, entry)
	}
	return entries, nil
}

func applyBaseline(e *output.Entry, b *baseline.Baseline) {
	if b == nil {
		return
	}
	e.Issues = b.Filter(e.Issues)
	if e.Report != nil {
		e.Deltas = b.Compare(*e.Report)
	}
}

func hasErrors(entries []output.Entry) bool {
	for _, e := range entries {
		if cue.HasErrors(e.Issues) {
			return true
		}
	}
	return false
}
