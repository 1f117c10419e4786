package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/profile"
	"github.com/dotcommander/innerscope/internal/scoring"
)

func sampleEntry() Entry {
	in := &profile.Input{
		UserID: "u1",
		AsOf:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	r := scoring.NewEngine().Generate(in)
	return Entry{
		Source: "profiles/u1.yaml",
		Report: &r,
		Issues: []cue.ValidationError{{
			File:     "profiles/u1.yaml",
			Path:     "stories.0.createdFormats.0",
			Message:  `unknown story format "haiku"`,
			Severity: cue.SeverityWarning,
			Source:   cue.SourceFormatCatalog,
		}},
	}
}

func failedEntry() Entry {
	return Entry{
		Source: "profiles/bad.json",
		Issues: []cue.ValidationError{{
			File:     "profiles/bad.json",
			Path:     "stories.0.id",
			Message:  "incomplete value string",
			Severity: cue.SeverityError,
			Source:   cue.SourceSchema,
		}},
	}
}

func TestConsoleFormatter(t *testing.T) {
	e := sampleEntry()
	e.Deltas = []baseline.Delta{
		{Dimension: "resilience", Before: 50, After: 50, Change: 0},
		{Dimension: "selfAwareness", Before: 40, After: 44, Change: 4},
	}

	var buf bytes.Buffer
	if err := NewConsoleFormatter(&buf, false, true).Format([]Entry{e, failedEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		e.Report.Archetype.Primary.Name,
		e.Report.Metadata.ReportID,
		"Self-Awareness",
		"Authenticity",
		"Recommendations",
		"Since baseline",
		"+4",
		"⚠ profiles/u1.yaml:stories.0.createdFormats.0",
		"✗ profiles/bad.json",
		"✘ profiles/bad.json:stories.0.id",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q\n%s", want, out)
		}
	}
}

func TestConsoleFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsoleFormatter(&buf, true, false).Format([]Entry{sampleEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("quiet mode printed %q", buf.String())
	}
}

func TestConsoleFormatter_NonVerboseHidesRecommendations(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsoleFormatter(&buf, false, false).Format([]Entry{sampleEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "Recommendations") {
		t.Error("recommendations should only print in verbose mode")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, false, true, "").Format([]Entry{sampleEntry(), failedEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var doc JSONDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if doc.Header.Tool != Tool || doc.Header.AnalysisVersion != scoring.AnalysisVersion {
		t.Errorf("Header = %+v", doc.Header)
	}
	want := JSONSummary{TotalProfiles: 2, Reported: 1, TotalErrors: 1, TotalWarnings: 1}
	if doc.Summary != want {
		t.Errorf("Summary = %+v, want %+v", doc.Summary, want)
	}
	if doc.Results[0].Report == nil || doc.Results[1].Report != nil {
		t.Error("only the first result should carry a report")
	}
	if len(doc.Results[1].Errors) != 1 || doc.Results[1].Errors[0].Path != "stories.0.id" {
		t.Errorf("Errors = %+v", doc.Results[1].Errors)
	}
}

func TestJSONFormatter_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, true, false, path).Format([]Entry{sampleEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written to the writer when an output file is set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("output file is not valid JSON: %s", data)
	}
}

func TestJSONFormatter_BadOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	if err := NewJSONFormatter(&bytes.Buffer{}, false, true, path).Format(nil); err == nil {
		t.Error("Format() expected error for unwritable path")
	}
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, false, false, "").Format([]Entry{sampleEntry(), failedEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Intelligence Report",
		"- [profiles/u1.yaml](#profiles-u1yaml)",
		"## profiles/bad.json",
		"| Self-Awareness | 40 | Beginning |",
		"#### Warnings",
		"#### Errors",
		"`[format-catalog]`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "### Predictions") {
		t.Error("predictions should only render in verbose mode")
	}
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, false, false, "").Format(nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "*No profiles found.*") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	e := sampleEntry()
	e.Deltas = []baseline.Delta{{Dimension: "resilience", Before: 55, After: 50, Change: -5}}

	out := RenderMarkdown(e)
	for _, want := range []string{
		"**Archetype:**",
		"### Predictions",
		"### Next Level",
		"| resilience | 55 | 50 | -5 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderMarkdown() missing %q", want)
		}
	}
}

func TestCompactFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCompactFormatter(&buf, false).Format([]Entry{sampleEntry(), failedEntry()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"profile", "SA", "AU", "✓ profiles/u1.yaml", "✗ profiles/bad.json", "1/2 scored, 1 error, 1 warning"} {
		if !strings.Contains(out, want) {
			t.Errorf("compact output missing %q\n%s", want, out)
		}
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{signed(3), "+3"},
		{signed(0), "0"},
		{signed(-2), "-2"},
		{pluralizeCount("error", 1), "error"},
		{pluralizeCount("error", 2), "errors"},
		{formatDuration(1500 * time.Millisecond), "1.5s"},
		{formatDuration(20 * time.Millisecond), "20ms"},
		{createAnchor("Team A/u1.json"), "team-a-u1json"},
		{bandColor(85), "10"},
		{bandColor(49), "9"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
