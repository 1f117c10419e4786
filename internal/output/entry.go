package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/innerscope/internal/baseline"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/scoring"
)

// Entry is one report and the information printed alongside it.
type Entry struct {
	Source string // file path or user id
	Report *scoring.Report
	Issues []cue.ValidationError
	Deltas []baseline.Delta
}

// Formatter renders a batch of entries.
type Formatter interface {
	Format(entries []Entry) error
}

type dimensionRow struct {
	Key   string
	Name  string
	Score int
	Level string
}

// dimensionRows lists the dimensions in display order.
func dimensionRows(d scoring.Dimensions) []dimensionRow {
	return []dimensionRow{
		{"selfAwareness", "Self-Awareness", d.SelfAwareness.Score, d.SelfAwareness.Level},
		{"emotionalIntelligence", "Emotional Intelligence", d.EmotionalIntelligence.Score, d.EmotionalIntelligence.Level},
		{"cognitiveComplexity", "Cognitive Complexity", d.CognitiveComplexity.Score, d.CognitiveComplexity.Level},
		{"relationshipIntelligence", "Relationship Intelligence", d.RelationshipIntelligence.Score, ""},
		{"adaptability", "Adaptability", d.Adaptability.Score, ""},
		{"creativityIndex", "Creativity", d.CreativityIndex.Score, d.CreativityIndex.Style},
		{"resilience", "Resilience", d.Resilience.Score, ""},
		{"authenticityScore", "Authenticity", d.AuthenticityScore.Score, ""},
	}
}

func countSeverity(issues []cue.ValidationError, severity string) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// writeOutput writes content to outputFile, or to w when no file is set.
func writeOutput(w io.Writer, outputFile string, content []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, content, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	_, err := w.Write(content)
	return err
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
