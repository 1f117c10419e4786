package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dotcommander/innerscope/internal/profile"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestDiscover_DefaultPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.yaml", "userId: b\n")
	writeFile(t, root, "a.json", `{"userId": "a"}`)
	writeFile(t, root, "team/c.yml", "userId: c\n")
	writeFile(t, root, "notes.txt", "ignored")
	writeFile(t, root, ".innerscoperc.yaml", "format: json\n")
	writeFile(t, root, "team/.innerscope-baseline.json", "{}")
	writeFile(t, root, "node_modules/pkg/package.json", "{}")

	files, err := NewFileDiscovery(root, false).Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"a.json", "b.yaml", "team/c.yml"}
	got := relPaths(files)
	if len(got) != len(want) {
		t.Fatalf("Discover() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Discover()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if files[0].Encoding != profile.EncodingJSON || files[1].Encoding != profile.EncodingYAML {
		t.Errorf("encodings = %q, %q", files[0].Encoding, files[1].Encoding)
	}
	if string(files[0].Contents) != `{"userId": "a"}` {
		t.Errorf("Contents = %q", files[0].Contents)
	}
	if files[0].Size != int64(len(files[0].Contents)) {
		t.Errorf("Size = %d", files[0].Size)
	}
	if files[2].Path != filepath.Join(root, "team", "c.yml") {
		t.Errorf("Path = %q", files[2].Path)
	}
}

func TestDiscover_PatternsDeduplicate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x/one.json", "{}")
	writeFile(t, root, "x/two.yaml", "a: 1\n")

	files, err := NewFileDiscovery(root, false).Discover("x/*.json", "**/*.json", "x/*.yaml")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := relPaths(files); len(got) != 2 || got[0] != "x/one.json" || got[1] != "x/two.yaml" {
		t.Errorf("Discover() = %v", got)
	}
}

func TestDiscover_CustomExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.json", "{}")
	writeFile(t, root, "archive/old.json", "{}")

	files, err := NewFileDiscovery(root, false).WithExcludes("archive/**").Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := relPaths(files); len(got) != 1 || got[0] != "keep.json" {
		t.Errorf("Discover() = %v", got)
	}
}

func TestDiscover_InvalidPattern(t *testing.T) {
	if _, err := NewFileDiscovery(t.TempDir(), false).Discover("[unclosed"); err == nil {
		t.Error("Discover() expected error for invalid pattern")
	}
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	files, err := NewFileDiscovery(t.TempDir(), false).Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Discover() = %v, want none", relPaths(files))
	}
}

func TestDiscover_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, root, "real.json", "{}")
	writeFile(t, outside, "secret.json", "{}")
	if err := os.Symlink(filepath.Join(root, "real.json"), filepath.Join(root, "link.json")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.json"), filepath.Join(root, "escape.json")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		follow bool
		want   []string
	}{
		{"skip symlinks", false, []string{"real.json"}},
		{"follow symlinks inside root", true, []string{"link.json", "real.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := NewFileDiscovery(root, tt.follow).Discover("*.json")
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			got := relPaths(files)
			if len(got) != len(tt.want) {
				t.Fatalf("Discover() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Discover()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.json", "{}")
	writeFile(t, dir, "empty.json", "")
	binary := filepath.Join(dir, "bin.json")
	if err := os.WriteFile(binary, []byte{'{', 0, '}'}, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid file", filepath.Join(dir, "ok.json"), false},
		{"missing file", filepath.Join(dir, "missing.json"), true},
		{"directory", dir, true},
		{"empty file", filepath.Join(dir, "empty.json"), true},
		{"binary file", binary, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFilePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !filepath.IsAbs(got) {
				t.Errorf("ValidateFilePath() = %q, want absolute path", got)
			}
		})
	}
}

func TestIsProfilePathAndExcluded(t *testing.T) {
	tests := []struct {
		path     string
		profile  bool
		excluded bool
	}{
		{"alice.yaml", true, false},
		{"team/bob.JSON", true, false},
		{"carol.yml", true, false},
		{"notes.md", false, false},
		{".innerscoperc.yaml", true, true},
		{"team/.innerscope-baseline.json", true, true},
		{"web/node_modules/x/package.json", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsProfilePath(tt.path); got != tt.profile {
				t.Errorf("IsProfilePath(%q) = %v, want %v", tt.path, got, tt.profile)
			}
			if got := IsExcluded(tt.path, DefaultExcludes); got != tt.excluded {
				t.Errorf("IsExcluded(%q) = %v, want %v", tt.path, got, tt.excluded)
			}
		})
	}
}
