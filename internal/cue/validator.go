package cue

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/dotcommander/innerscope/internal/profile"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Rule source constants
const (
	SourceSchema        = "profile-schema"   // Structural rules from schemas/profile.cue
	SourceFormatCatalog = "format-catalog"   // Known story formats
	SourceConversation  = "conversation-log" // Message role checks
)

// Severity levels
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a validation error
type ValidationError struct {
	File     string
	Path     string // dotted path inside the document, empty for document-level problems
	Message  string
	Severity string // error, warning
	Source   string
	Line     int
	Column   int
}

func (e ValidationError) String() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// HasErrors reports whether any entry has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// NewProfileValidator returns a Validator with the embedded schemas loaded.
func NewProfileValidator() (*Validator, error) {
	v := NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadSchemas loads all CUE schema files from the embedded filesystem
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		// embed.FS paths always use forward slashes
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("error reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("error compiling schema %s: %w", entry.Name(), instErr)
		}

		// profile.cue -> profile
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// ValidateProfile checks a decoded profile document against the #Profile
// definition and adds catalogue warnings for values the schema leaves open.
func (v *Validator) ValidateProfile(data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas["profile"]
	if !ok {
		return nil, fmt.Errorf("profile schema not loaded")
	}
	errs, err := v.validateAgainstSchema(schema, data, "profile")
	if err != nil {
		return nil, err
	}
	return append(errs, catalogWarnings(data)...), nil
}

// ValidateFile parses and validates one profile document.
func (v *Validator) ValidateFile(path string, content []byte) ([]ValidationError, error) {
	doc, err := profile.ParseDocument(content)
	if err != nil {
		return []ValidationError{{
			File:     path,
			Message:  err.Error(),
			Severity: SeverityError,
			Source:   SourceSchema,
		}}, nil
	}

	errs, err := v.ValidateProfile(doc)
	if err != nil {
		return nil, err
	}
	for i := range errs {
		errs[i].File = path
	}
	return errs, nil
}

func (v *Validator) validateAgainstSchema(schema cue.Value, data map[string]any, schemaType string) ([]ValidationError, error) {
	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	// profile -> #Profile
	defPath := cue.ParsePath("#" + strings.ToUpper(schemaType[:1]) + schemaType[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema %s has no %s definition", schemaType, defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err), nil
	}
	return nil, nil
}

// extractErrorsFromCUE flattens a CUE error list into one entry per problem.
func extractErrorsFromCUE(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Path:     strings.Join(e.Path(), "."),
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
			Source:   SourceSchema,
		}
		if pos := e.Position(); pos.IsValid() {
			ve.Line = pos.Line()
			ve.Column = pos.Column()
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{
			Message:  fmt.Sprintf("schema validation failed: %v", err),
			Severity: SeverityError,
			Source:   SourceSchema,
		})
	}
	return out
}

var knownRoles = map[string]bool{
	string(profile.RoleUser):      true,
	string(profile.RoleAssistant): true,
	string(profile.RoleSystem):    true,
}

func catalogWarnings(data map[string]any) []ValidationError {
	var out []ValidationError

	stories, _ := data["stories"].([]any)
	for i, s := range stories {
		story, _ := s.(map[string]any)
		formats, _ := story["createdFormats"].([]any)
		for j, f := range formats {
			name, ok := f.(string)
			if !ok || profile.IsKnownFormat(name) {
				continue
			}
			out = append(out, ValidationError{
				Path:     fmt.Sprintf("stories.%d.createdFormats.%d", i, j),
				Message:  fmt.Sprintf("unknown story format %q", name),
				Severity: SeverityWarning,
				Source:   SourceFormatCatalog,
			})
		}
	}

	messages, _ := data["conversations"].([]any)
	for i, m := range messages {
		msg, _ := m.(map[string]any)
		role, ok := msg["role"].(string)
		if !ok || role == "" || knownRoles[role] {
			continue
		}
		out = append(out, ValidationError{
			Path:     fmt.Sprintf("conversations.%d.role", i),
			Message:  fmt.Sprintf("unknown message role %q", role),
			Severity: SeverityWarning,
			Source:   SourceConversation,
		})
	}
	return out
}
