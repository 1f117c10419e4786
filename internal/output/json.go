package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/scoring"
)

// Tool is the name written into JSON headers.
const Tool = "innerscope"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	out        io.Writer
	quiet      bool
	indent     bool
	outputFile string
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(out io.Writer, quiet, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		out:        out,
		quiet:      quiet,
		indent:     indent,
		outputFile: outputFile,
	}
}

// Format writes all entries as a single JSON document.
func (f *JSONFormatter) Format(entries []Entry) error {
	doc := JSONDocument{
		Header: JSONHeader{
			Tool:            Tool,
			AnalysisVersion: scoring.AnalysisVersion,
		},
		Summary: JSONSummary{TotalProfiles: len(entries)},
		Results: make([]JSONResult, len(entries)),
	}

	for i, e := range entries {
		result := JSONResult{
			Source:   e.Source,
			Report:   e.Report,
			Deltas:   e.Deltas,
			Errors:   toJSONIssues(e.Issues, cue.SeverityError),
			Warnings: toJSONIssues(e.Issues, cue.SeverityWarning),
		}
		if e.Report != nil {
			doc.Summary.Reported++
		}
		doc.Summary.TotalErrors += len(result.Errors)
		doc.Summary.TotalWarnings += len(result.Warnings)
		doc.Results[i] = result
	}

	var (
		data []byte
		err  error
	)
	if f.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if f.quiet && f.outputFile == "" {
		return nil
	}
	return writeOutput(f.out, f.outputFile, append(data, '\n'))
}

func toJSONIssues(issues []cue.ValidationError, severity string) []JSONValidationError {
	var out []JSONValidationError
	for _, issue := range issues {
		if issue.Severity != severity {
			continue
		}
		out = append(out, JSONValidationError{
			File:     issue.File,
			Path:     issue.Path,
			Message:  issue.Message,
			Severity: issue.Severity,
			Source:   issue.Source,
			Line:     issue.Line,
			Column:   issue.Column,
		})
	}
	return out
}

// JSONDocument represents the complete JSON output
type JSONDocument struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader identifies the producer.
type JSONHeader struct {
	Tool            string `json:"tool"`
	AnalysisVersion string `json:"analysis_version"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalProfiles int `json:"total_profiles"`
	Reported      int `json:"reported"`
	TotalErrors   int `json:"total_errors"`
	TotalWarnings int `json:"total_warnings"`
}

// JSONResult is one profile's outcome.
type JSONResult struct {
	Source   string                `json:"source,omitempty"`
	Report   *scoring.Report       `json:"report,omitempty"`
	Deltas   []baseline.Delta      `json:"deltas,omitempty"`
	Errors   []JSONValidationError `json:"errors,omitempty"`
	Warnings []JSONValidationError `json:"warnings,omitempty"`
}

// JSONValidationError represents a validation error
type JSONValidationError struct {
	File     string `json:"file,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Source   string `json:"source,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}
