// Package project locates the innerscope workspace a command runs in.
package project

import (
	"os"
	"path/filepath"
)

// Info describes a detected workspace.
type Info struct {
	Root       string
	ConfigFile string
	HasGit     bool
}

// FindProjectRoot climbs from startPath to the nearest directory holding one
// of configFiles or a .git entry. Returns startPath (absolute) when neither is
// found.
func FindProjectRoot(startPath string, configFiles []string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir, configFiles) {
			return currentDir, nil
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}
	return absPath, nil
}

func isProjectRoot(path string, configFiles []string) bool {
	if configIn(path, configFiles) != "" {
		return true
	}
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// configIn returns the first of configFiles present in dir.
func configIn(dir string, configFiles []string) string {
	for _, name := range configFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Detect finds the workspace containing startPath and its config file.
func Detect(startPath string, configFiles []string) (*Info, error) {
	root, err := FindProjectRoot(startPath, configFiles)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Root:       root,
		ConfigFile: configIn(root, configFiles),
	}
	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		info.HasGit = true
	}
	return info, nil
}
