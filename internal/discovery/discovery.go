// Package discovery finds profile documents on disk for batch runs.
package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/innerscope/internal/profile"
)

// DefaultPattern matches every profile document under the root.
const DefaultPattern = "**/*.{json,yaml,yml}"

// DefaultExcludes skips tool files that share the profile extensions.
var DefaultExcludes = []string{
	".innerscoperc.*",
	"**/.innerscope-baseline.json",
	"**/node_modules/**",
	"**/.git/**",
}

// File is a discovered profile document.
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Encoding profile.Encoding
	Contents []byte
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
	excludes       []string
}

// NewFileDiscovery creates a new FileDiscovery instance
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
		excludes:       DefaultExcludes,
	}
}

// WithExcludes replaces the exclude patterns.
func (fd *FileDiscovery) WithExcludes(patterns ...string) *FileDiscovery {
	fd.excludes = patterns
	return fd
}

// Discover returns the files matching any of the patterns, sorted by
// relative path. With no patterns DefaultPattern is used.
func (fd *FileDiscovery) Discover(patterns ...string) ([]File, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	seen := make(map[string]bool)
	var files []File
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] || fd.excluded(match) {
				continue
			}
			seen[match] = true
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return files, nil
}

func (fd *FileDiscovery) excluded(relPath string) bool {
	return IsExcluded(relPath, fd.excludes)
}

// IsExcluded reports whether a slash-separated relative path matches any of
// the exclude patterns.
func IsExcluded(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// IsProfilePath reports whether path has a profile document extension.
func IsProfilePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if !fd.followSymlinks {
			return File{}, false
		}
		info, err = fd.resolveSymlink(fullPath)
		if err != nil {
			return File{}, false
		}
	}
	if info.IsDir() {
		return File{}, false
	}

	contents, err := os.ReadFile(fullPath)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:     fullPath,
		RelPath:  match,
		Size:     info.Size(),
		Encoding: profile.EncodingFromPath(match),
		Contents: contents,
	}, true
}

// resolveSymlink follows a symlink that stays inside the root.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (os.FileInfo, error) {
	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, err
	}
	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return nil, err
	}
	if rel, err := filepath.Rel(root, realPath); err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("symlink %s points outside %s", fullPath, fd.rootPath)
	}
	return os.Stat(realPath)
}

// ValidateFilePath checks that path names a readable, non-empty text file
// and returns its absolute path.
func ValidateFilePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Null bytes in the first block mean binary content.
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}
