package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotcommander/innerscope/internal/profile"
)

var fileExtensions = []string{".json", ".yaml", ".yml"}

// FileSource reads <dir>/<userID>.{json,yaml,yml}.
type FileSource struct {
	dir string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Load reads the first profile file found for userID.
func (s *FileSource) Load(ctx context.Context, userID string) (*profile.Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validUserID(userID); err != nil {
		return nil, err
	}

	for _, ext := range fileExtensions {
		path := filepath.Join(s.dir, userID+ext)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("error reading profile %s: %w", path, err)
		}
		in, err := profile.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if in.UserID == "" {
			in.UserID = userID
		}
		return in, nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
}

// Close is a no-op.
func (s *FileSource) Close() error { return nil }

// validUserID keeps user IDs from escaping the profile directory.
func validUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("empty user id")
	}
	if strings.ContainsAny(userID, `/\`) || strings.HasPrefix(userID, ".") {
		return fmt.Errorf("invalid user id %q", userID)
	}
	return nil
}
