package baseline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/profile"
	"github.com/dotcommander/innerscope/internal/scoring"
)

func sampleReport(messages ...string) scoring.Report {
	in := &profile.Input{
		UserID: "u1",
		AsOf:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, m := range messages {
		in.Conversations = append(in.Conversations, profile.Message{Role: profile.RoleUser, Content: m})
	}
	return scoring.NewEngine().Generate(in)
}

func formatWarning(path, format string) cue.ValidationError {
	return cue.ValidationError{
		File:     "profiles/u1.yaml",
		Path:     path,
		Message:  `unknown story format "` + format + `"`,
		Severity: cue.SeverityWarning,
		Source:   cue.SourceFormatCatalog,
	}
}

func TestCreateBaseline(t *testing.T) {
	r := sampleReport("i feel")
	issues := []cue.ValidationError{
		formatWarning("stories.0.createdFormats.1", "haiku"),
		formatWarning("stories.1.createdFormats.0", "limerick"),
		// Duplicate issue - should be deduplicated
		formatWarning("stories.0.createdFormats.1", "haiku"),
	}

	b := CreateBaseline(r, issues)

	if b.Version != Version {
		t.Errorf("Version = %s, want %s", b.Version, Version)
	}
	if b.CreatedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("CreatedAt = %q", b.CreatedAt)
	}
	if b.ReportID != r.Metadata.ReportID {
		t.Errorf("ReportID = %q, want %q", b.ReportID, r.Metadata.ReportID)
	}
	if b.Archetype != r.Archetype.Primary.Name {
		t.Errorf("Archetype = %q", b.Archetype)
	}
	if len(b.Scores) != 8 {
		t.Errorf("Scores has %d entries, want 8", len(b.Scores))
	}
	if len(b.Fingerprints) != 2 {
		t.Errorf("Expected 2 unique fingerprints, got %d", len(b.Fingerprints))
	}
	if len(b.index) != 2 {
		t.Errorf("Expected index with 2 entries, got %d", len(b.index))
	}
}

func TestCreateBaseline_ZeroTime(t *testing.T) {
	b := CreateBaseline(scoring.NewEngine().Generate(&profile.Input{}), nil)
	if b.CreatedAt != "" {
		t.Errorf("CreatedAt = %q, want empty for a report without a clock", b.CreatedAt)
	}
	if b.Fingerprints == nil {
		t.Error("Fingerprints should encode as an empty list")
	}
}

func TestCompare(t *testing.T) {
	before := sampleReport()
	after := sampleReport("i feel", "i feel", "feel")

	b := CreateBaseline(before, nil)
	deltas := b.Compare(after)

	if len(deltas) != 8 {
		t.Fatalf("got %d deltas, want 8", len(deltas))
	}
	for i := 1; i < len(deltas); i++ {
		if deltas[i-1].Dimension >= deltas[i].Dimension {
			t.Errorf("deltas not sorted: %q before %q", deltas[i-1].Dimension, deltas[i].Dimension)
		}
	}

	byName := make(map[string]Delta)
	for _, d := range deltas {
		byName[d.Dimension] = d
		if d.Change != d.After-d.Before {
			t.Errorf("%s: Change %d != %d - %d", d.Dimension, d.Change, d.After, d.Before)
		}
	}

	// "i feel" twice: self-awareness +2*2, emotional intelligence +3*1.5
	want := map[string]Delta{
		"selfAwareness":         {Dimension: "selfAwareness", Before: 40, After: 44, Change: 4},
		"emotionalIntelligence": {Dimension: "emotionalIntelligence", Before: 45, After: 49, Change: 4},
		"resilience":            {Dimension: "resilience", Before: 50, After: 50, Change: 0},
	}
	for name, w := range want {
		if diff := cmp.Diff(w, byName[name]); diff != "" {
			t.Errorf("%s delta mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestCompare_UnknownDimension(t *testing.T) {
	b := CreateBaseline(sampleReport(), nil)
	b.Scores["legacyScore"] = 70

	deltas := b.Compare(sampleReport())
	if len(deltas) != 9 {
		t.Fatalf("got %d deltas, want 9", len(deltas))
	}
	var legacy Delta
	for _, d := range deltas {
		if d.Dimension == "legacyScore" {
			legacy = d
		}
	}
	if legacy.Before != 70 || legacy.After != 0 || legacy.Change != -70 {
		t.Errorf("legacy delta = %+v", legacy)
	}
}

func TestIsKnownAndFilter(t *testing.T) {
	known := formatWarning("stories.0.createdFormats.1", "haiku")
	other := formatWarning("stories.2.createdFormats.0", "limerick")
	schemaErr := cue.ValidationError{
		File:     "profiles/u1.yaml",
		Path:     "stories.0.id",
		Message:  "incomplete value string",
		Severity: cue.SeverityError,
		Source:   cue.SourceSchema,
	}

	b := CreateBaseline(sampleReport(), []cue.ValidationError{known, schemaErr})

	if !b.IsKnown(known) {
		t.Error("Expected known warning to be recognized")
	}
	if b.IsKnown(other) {
		t.Error("Expected other warning to be unknown")
	}

	got := b.Filter([]cue.ValidationError{known, other, schemaErr})
	if len(got) != 2 {
		t.Fatalf("Filter() kept %d issues, want 2: %v", len(got), got)
	}
	if got[0].Path != other.Path || got[1].Severity != cue.SeverityError {
		t.Errorf("Filter() = %v", got)
	}
}

func TestSaveAndLoadBaseline(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".innerscope-baseline.json")

	issue := formatWarning("stories.0.createdFormats.0", "haiku")
	original := CreateBaseline(sampleReport("i think"), []cue.ValidationError{issue})

	if err := original.SaveBaseline(path); err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Baseline file not created: %v", err)
	}

	loaded, err := LoadBaseline(path)
	if err != nil {
		t.Fatalf("Failed to load baseline: %v", err)
	}

	if diff := cmp.Diff(original, loaded, cmp.AllowUnexported(Baseline{})); diff != "" {
		t.Errorf("loaded baseline differs (-saved +loaded):\n%s", diff)
	}
	if !loaded.IsKnown(issue) {
		t.Error("Expected loaded baseline to recognize original issue")
	}
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`unknown story format "haiku"`, `unknown story format "*"`},
		{"Name 'test' doesn't match", "Name '*' doesn't match"},
		{"invalid value -1 (out of bound >=0)", "invalid value -N (out of bound >=N)"},
		{"multiple   spaces   here", "multiple spaces here"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeMessage(tt.input); got != tt.expected {
				t.Errorf("normalizeMessage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFingerprintStability(t *testing.T) {
	a := formatWarning("stories.0.createdFormats.0", "haiku")
	b := formatWarning("stories.0.createdFormats.0", "limerick")
	c := formatWarning("stories.0.createdFormats.1", "haiku")

	if fingerprint(a) != fingerprint(b) {
		t.Error("messages differing only in quoted values should share a fingerprint")
	}
	if fingerprint(a) == fingerprint(c) {
		t.Error("different paths should produce different fingerprints")
	}
}

func TestLoadBaselineErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadBaseline(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	invalid := filepath.Join(tmpDir, "invalid.json")
	if err := os.WriteFile(invalid, []byte("{invalid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBaseline(invalid); err == nil {
		t.Error("Expected error for invalid JSON")
	}

	noScores := filepath.Join(tmpDir, "noscores.json")
	if err := os.WriteFile(noScores, []byte(`{"version": "2.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBaseline(noScores); err == nil {
		t.Error("Expected error for baseline without scores")
	}
}
