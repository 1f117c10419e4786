// Package profile defines the user data a report is computed from: stories,
// conversation messages, assessment results and usage counters.
package profile

import (
	"strings"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Assessment kinds with scoring rules attached to them.
const (
	KindAttachment         = "attachment"
	KindLoveLanguage       = "love-language"
	KindStressResponse     = "stress-response"
	KindCommunicationStyle = "communication-style"
)

// Input is everything known about one user. The zero value is a valid,
// empty profile.
type Input struct {
	UserID        string                `json:"userId,omitempty" yaml:"userId,omitempty"`
	AsOf          time.Time             `json:"asOf,omitzero" yaml:"asOf,omitempty"`
	Stories       []Story               `json:"stories" yaml:"stories"`
	Conversations []Message             `json:"conversations" yaml:"conversations"`
	Assessments   map[string]Assessment `json:"assessments" yaml:"assessments"`
	UserStats     UserStats             `json:"userStats" yaml:"userStats"`
}

// Story is a journal entry and the formats it has been transformed into.
type Story struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedFormats []string `json:"createdFormats,omitempty" yaml:"createdFormats,omitempty"`
}

// Message is a single chat turn.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Assessment is the categorical outcome of a completed questionnaire.
type Assessment struct {
	Result      string     `json:"result" yaml:"result"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// UserStats are aggregate usage counters.
type UserStats struct {
	TotalConversations int `json:"totalConversations" yaml:"totalConversations"`
	TotalStories       int `json:"totalStories,omitempty" yaml:"totalStories,omitempty"`
}

// Corpus returns every message content joined by a single space and
// lower-cased. Message order is preserved.
func (in *Input) Corpus() string {
	if in == nil || len(in.Conversations) == 0 {
		return ""
	}
	parts := make([]string, len(in.Conversations))
	for i, m := range in.Conversations {
		parts[i] = m.Content
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// DistinctFormats returns the formats across all stories in first-seen
// order. Values are compared as written.
func (in *Input) DistinctFormats() []string {
	formats := []string{}
	if in == nil {
		return formats
	}
	seen := make(map[string]bool)
	for _, story := range in.Stories {
		for _, f := range story.CreatedFormats {
			if seen[f] {
				continue
			}
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats
}

// Assessment returns the assessment of the given kind, if completed.
func (in *Input) Assessment(kind string) (Assessment, bool) {
	if in == nil || in.Assessments == nil {
		return Assessment{}, false
	}
	a, ok := in.Assessments[kind]
	return a, ok
}

// HasAssessment reports whether an assessment of the given kind exists.
func (in *Input) HasAssessment(kind string) bool {
	_, ok := in.Assessment(kind)
	return ok
}

// AssessmentResult returns the result of the given assessment kind, or "".
func (in *Input) AssessmentResult(kind string) string {
	a, _ := in.Assessment(kind)
	return a.Result
}

// DataPoints is the number of stories, messages and assessments combined.
func (in *Input) DataPoints() int {
	if in == nil {
		return 0
	}
	return len(in.Stories) + len(in.Conversations) + len(in.Assessments)
}
