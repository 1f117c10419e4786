package cue

import (
	"strings"
	"testing"
)

// TestNewValidator tests the Validator constructor
func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
	if v.ctx == nil {
		t.Error("Validator.ctx is nil")
	}
	if len(v.schemas) != 0 {
		t.Errorf("Expected empty schemas map, got %d entries", len(v.schemas))
	}
}

func TestLoadSchemas(t *testing.T) {
	v := NewValidator()
	if err := v.LoadSchemas(); err != nil {
		t.Fatalf("LoadSchemas failed: %v", err)
	}
	if _, ok := v.schemas["profile"]; !ok {
		t.Error("Expected schema \"profile\" to be loaded")
	}
}

func TestValidateProfile_UnloadedSchema(t *testing.T) {
	if _, err := NewValidator().ValidateProfile(map[string]any{}); err == nil {
		t.Error("expected error when schemas are not loaded")
	}
}

func TestValidateProfile(t *testing.T) {
	v, err := NewProfileValidator()
	if err != nil {
		t.Fatalf("NewProfileValidator() error = %v", err)
	}

	tests := []struct {
		name       string
		data       map[string]any
		wantErrors bool
		wantPath   string
	}{
		{
			name:       "empty document",
			data:       map[string]any{},
			wantErrors: false,
		},
		{
			name: "complete profile",
			data: map[string]any{
				"userId": "u1",
				"asOf":   "2025-06-01T12:00:00Z",
				"stories": []any{
					map[string]any{"id": "s1", "title": "Home", "createdFormats": []any{"poem"}},
				},
				"conversations": []any{
					map[string]any{"role": "user", "content": "hello"},
				},
				"assessments": map[string]any{
					"attachment": map[string]any{"result": "secure"},
				},
				"userStats": map[string]any{"totalConversations": 3},
			},
			wantErrors: false,
		},
		{
			name: "story without id",
			data: map[string]any{
				"stories": []any{map[string]any{"title": "No id"}},
			},
			wantErrors: true,
		},
		{
			name: "negative counter",
			data: map[string]any{
				"userStats": map[string]any{"totalConversations": -1},
			},
			wantErrors: true,
		},
		{
			name: "wrong type",
			data: map[string]any{
				"conversations": "not a list",
			},
			wantErrors: true,
		},
		{
			name: "unknown top-level field",
			data: map[string]any{
				"favouriteColour": "teal",
			},
			wantErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := v.ValidateProfile(tt.data)
			if err != nil {
				t.Fatalf("ValidateProfile() error = %v", err)
			}
			if got := HasErrors(errs); got != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v (errs: %v)", got, tt.wantErrors, errs)
			}
			for _, e := range errs {
				if e.Severity == SeverityError && e.Source != SourceSchema {
					t.Errorf("schema error with source %q", e.Source)
				}
			}
		})
	}
}

func TestValidateProfile_CatalogWarnings(t *testing.T) {
	v, err := NewProfileValidator()
	if err != nil {
		t.Fatalf("NewProfileValidator() error = %v", err)
	}

	data := map[string]any{
		"stories": []any{
			map[string]any{"id": "s1", "createdFormats": []any{"poem", "short_story", "haiku"}},
		},
		"conversations": []any{
			map[string]any{"role": "user", "content": "a"},
			map[string]any{"role": "narrator", "content": "b"},
		},
	}

	errs, err := v.ValidateProfile(data)
	if err != nil {
		t.Fatalf("ValidateProfile() error = %v", err)
	}
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(errs), errs)
	}

	if errs[0].Path != "stories.0.createdFormats.2" || errs[0].Source != SourceFormatCatalog {
		t.Errorf("first warning = %+v", errs[0])
	}
	if errs[1].Path != "conversations.1.role" || errs[1].Source != SourceConversation {
		t.Errorf("second warning = %+v", errs[1])
	}
}

func TestValidateFile(t *testing.T) {
	v, err := NewProfileValidator()
	if err != nil {
		t.Fatalf("NewProfileValidator() error = %v", err)
	}

	tests := []struct {
		name       string
		content    string
		wantErrors bool
	}{
		{"valid yaml", "userId: u1\nstories:\n  - id: s1\n", false},
		{"valid json", `{"conversations": [{"role": "user", "content": "hi"}]}`, false},
		{"unparseable", "stories: [", true},
		{"schema failure", `{"stories": [{"title": "x"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := v.ValidateFile("profile.yaml", []byte(tt.content))
			if err != nil {
				t.Fatalf("ValidateFile() error = %v", err)
			}
			if got := HasErrors(errs); got != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v (errs: %v)", got, tt.wantErrors, errs)
			}
			for _, e := range errs {
				if e.File != "profile.yaml" {
					t.Errorf("File = %q, want profile.yaml", e.File)
				}
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{File: "a.json", Path: "stories.0.id", Message: "incomplete value"}
	got := e.String()
	if !strings.HasPrefix(got, "a.json: stories.0.id: ") {
		t.Errorf("String() = %q", got)
	}
	if got := (ValidationError{Message: "m"}).String(); got != "m" {
		t.Errorf("String() = %q, want m", got)
	}
}
