package project

import (
	"os"
	"path/filepath"
	"testing"
)

var testConfigFiles = []string{".innerscoperc.json", ".innerscoperc.yaml"}

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string) (start, want string)
	}{
		{
			name: "config in start directory",
			setup: func(t *testing.T, root string) (string, string) {
				touch(t, filepath.Join(root, ".innerscoperc.json"))
				return root, root
			},
		},
		{
			name: "config in ancestor",
			setup: func(t *testing.T, root string) (string, string) {
				deep := filepath.Join(root, "profiles", "team")
				mkdirs(t, deep)
				touch(t, filepath.Join(root, ".innerscoperc.yaml"))
				return deep, root
			},
		},
		{
			name: "git directory marks root",
			setup: func(t *testing.T, root string) (string, string) {
				sub := filepath.Join(root, "sub")
				mkdirs(t, sub, filepath.Join(root, ".git"))
				return sub, root
			},
		},
		{
			name: "nearest marker wins",
			setup: func(t *testing.T, root string) (string, string) {
				inner := filepath.Join(root, "inner")
				start := filepath.Join(inner, "x")
				mkdirs(t, start, filepath.Join(root, ".git"))
				touch(t, filepath.Join(inner, ".innerscoperc.json"))
				return start, inner
			},
		},
		{
			name: "config name that is a directory is ignored",
			setup: func(t *testing.T, root string) (string, string) {
				sub := filepath.Join(root, "sub")
				mkdirs(t, filepath.Join(sub, ".innerscoperc.json"), filepath.Join(root, ".git"))
				return sub, root
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			start, want := tt.setup(t, root)

			got, err := FindProjectRoot(start, testConfigFiles)
			if err != nil {
				t.Fatalf("FindProjectRoot() error = %v", err)
			}
			if got != want {
				t.Errorf("FindProjectRoot() = %s, want %s", got, want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "profiles")
	mkdirs(t, sub, filepath.Join(root, ".git"))
	touch(t, filepath.Join(root, ".innerscoperc.yaml"))

	info, err := Detect(sub, testConfigFiles)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Root != root {
		t.Errorf("Root = %s, want %s", info.Root, root)
	}
	if info.ConfigFile != filepath.Join(root, ".innerscoperc.yaml") {
		t.Errorf("ConfigFile = %s", info.ConfigFile)
	}
	if !info.HasGit {
		t.Error("HasGit = false, want true")
	}
}

func TestDetect_GitOnly(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, ".git"))

	info, err := Detect(root, testConfigFiles)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", info.ConfigFile)
	}
	if !info.HasGit {
		t.Error("HasGit = false, want true")
	}
}
