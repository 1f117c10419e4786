// Package baseline stores a snapshot of a report's dimension scores so later
// reports can be compared against it, together with fingerprints of profile
// validation warnings that have already been reviewed.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/scoring"
)

// Version of the baseline file format.
const Version = "2.0"

// Baseline is a saved report snapshot.
type Baseline struct {
	Version      string         `json:"version"`
	CreatedAt    string         `json:"created_at"`
	ReportID     string         `json:"report_id"`
	Archetype    string         `json:"archetype"`
	Scores       map[string]int `json:"scores"`
	Fingerprints []string       `json:"fingerprints"`
	index        map[string]bool
}

// Delta is the change of one dimension between a baseline and a report.
type Delta struct {
	Dimension string `json:"dimension"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	Change    int    `json:"change"`
}

// CreateBaseline snapshots a report. Issues are validation warnings that
// should be suppressed on later runs.
func CreateBaseline(r scoring.Report, issues []cue.ValidationError) *Baseline {
	fingerprints := make([]string, 0, len(issues))
	index := make(map[string]bool)

	for _, issue := range issues {
		fp := fingerprint(issue)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}
	sort.Strings(fingerprints)

	createdAt := ""
	if !r.Metadata.GeneratedAt.IsZero() {
		createdAt = r.Metadata.GeneratedAt.UTC().Format(time.RFC3339)
	}

	return &Baseline{
		Version:      Version,
		CreatedAt:    createdAt,
		ReportID:     r.Metadata.ReportID,
		Archetype:    r.Archetype.Primary.Name,
		Scores:       r.Dimensions.Scores(),
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	if b.Scores == nil {
		return nil, fmt.Errorf("baseline file %s has no scores", path)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// Compare returns one delta per dimension, sorted by dimension name.
// Dimensions missing on either side count as zero.
func (b *Baseline) Compare(r scoring.Report) []Delta {
	after := r.Dimensions.Scores()

	names := make([]string, 0, len(after))
	for name := range after {
		names = append(names, name)
	}
	for name := range b.Scores {
		if _, ok := after[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	deltas := make([]Delta, 0, len(names))
	for _, name := range names {
		before := b.Scores[name]
		deltas = append(deltas, Delta{
			Dimension: name,
			Before:    before,
			After:     after[name],
			Change:    after[name] - before,
		})
	}
	return deltas
}

// IsKnown checks if an issue is in the baseline
func (b *Baseline) IsKnown(issue cue.ValidationError) bool {
	if b.index == nil {
		return false
	}
	return b.index[fingerprint(issue)]
}

// Filter drops issues recorded in the baseline. Errors are never suppressed.
func (b *Baseline) Filter(issues []cue.ValidationError) []cue.ValidationError {
	out := make([]cue.ValidationError, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity != cue.SeverityError && b.IsKnown(issue) {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// fingerprint hashes file, path, source and the normalized message. Line
// numbers are left out as they shift between edits.
func fingerprint(issue cue.ValidationError) string {
	data := fmt.Sprintf("%s|%s|%s|%s", issue.File, issue.Path, issue.Source, normalizeMessage(issue.Message))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var (
	doubleQuoted = regexp.MustCompile(`"[^"]+"`)
	singleQuoted = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	number       = regexp.MustCompile(`\b\d+\b`)
)

// normalizeMessage replaces quoted values and numbers with placeholders so
// similar issues share a fingerprint.
func normalizeMessage(msg string) string {
	msg = doubleQuoted.ReplaceAllString(msg, `"*"`)
	msg = singleQuoted.ReplaceAllString(msg, `$1'*'$3`)
	msg = number.ReplaceAllString(msg, `N`)
	return strings.Join(strings.Fields(msg), " ")
}
