// Package git selects profile documents touched in the working tree.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/innerscope/internal/discovery"
)

// GetStagedFiles returns absolute paths of staged profile documents under
// rootPath. Returns empty slice if not in a git repository.
func GetStagedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "--staged")
	if err != nil {
		return nil, err
	}
	return filterRelevantFiles(output, rootPath)
}

// GetChangedFiles returns absolute paths of all uncommitted profile documents
// (staged and unstaged) under rootPath. Returns empty slice if not in a git
// repository.
func GetChangedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	// No commits yet: everything tracked counts as changed.
	if _, err := run(rootPath, "rev-parse", "HEAD"); err != nil {
		output, err := run(rootPath, "ls-files")
		if err != nil {
			return nil, err
		}
		return filterRelevantFiles(output, rootPath)
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "HEAD")
	if err != nil {
		return nil, err
	}
	return filterRelevantFiles(output, rootPath)
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, output)
	}
	return string(output), nil
}

// filterRelevantFiles keeps existing profile documents from git output and
// returns them as absolute paths. Deleted files and tool files are dropped.
func filterRelevantFiles(gitOutput, rootPath string) ([]string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(gitOutput, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isRelevantFile(line) {
			continue
		}

		absPath := filepath.Join(absRoot, filepath.FromSlash(line))
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			continue
		}
		files = append(files, absPath)
	}
	return files, nil
}

// isRelevantFile checks if a slash-separated path is a profile document that
// discovery would also pick up.
func isRelevantFile(relPath string) bool {
	return discovery.IsProfilePath(relPath) && !discovery.IsExcluded(relPath, discovery.DefaultExcludes)
}
