// Package source loads stored user profiles from a directory of profile
// files, MongoDB or SQLite.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dotcommander/innerscope/internal/config"
	"github.com/dotcommander/innerscope/internal/profile"
)

var (
	// ErrNotFound is returned when a source holds no data for a user.
	ErrNotFound = errors.New("profile not found")
	// ErrNoSource is returned by Open when no source is configured.
	ErrNoSource = errors.New("no profile source configured")
)

// Source loads the profile of one user.
type Source interface {
	Load(ctx context.Context, userID string) (*profile.Input, error)
	Close() error
}

// Open builds the source selected by cfg.
func Open(ctx context.Context, cfg config.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return NewFileSource(cfg.Dir), nil
	case config.SourceMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.SourceSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.SourceNone, "":
		return nil, ErrNoSource
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// StoryRecord is a stored story row.
type StoryRecord struct {
	UserID         string   `bson:"userId"`
	ID             string   `bson:"id"`
	Title          string   `bson:"title,omitempty"`
	CreatedFormats []string `bson:"createdFormats,omitempty"`
	Seq            int64    `bson:"seq"`
}

// MessageRecord is a stored conversation message. Seq orders messages.
type MessageRecord struct {
	UserID  string `bson:"userId"`
	Role    string `bson:"role"`
	Content string `bson:"content"`
	Seq     int64  `bson:"seq"`
}

// AssessmentRecord is a completed assessment. One per user and kind.
type AssessmentRecord struct {
	UserID      string     `bson:"userId"`
	Kind        string     `bson:"kind"`
	Result      string     `bson:"result"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
}

// StatsRecord holds the usage counters of a user. UpdatedAt becomes the
// report clock, so unchanged data keeps producing the same report.
type StatsRecord struct {
	UserID             string    `bson:"userId"`
	TotalConversations int       `bson:"totalConversations"`
	TotalStories       int       `bson:"totalStories"`
	UpdatedAt          time.Time `bson:"updatedAt"`
}

// assemble builds an Input from stored records, already in display order.
func assemble(userID string, stories []StoryRecord, messages []MessageRecord, assessments []AssessmentRecord, stats *StatsRecord) (*profile.Input, error) {
	if len(stories) == 0 && len(messages) == 0 && len(assessments) == 0 && stats == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	in := &profile.Input{
		UserID:        userID,
		Stories:       make([]profile.Story, 0, len(stories)),
		Conversations: make([]profile.Message, 0, len(messages)),
		Assessments:   make(map[string]profile.Assessment, len(assessments)),
	}
	for _, s := range stories {
		in.Stories = append(in.Stories, profile.Story{ID: s.ID, Title: s.Title, CreatedFormats: s.CreatedFormats})
	}
	for _, m := range messages {
		in.Conversations = append(in.Conversations, profile.Message{Role: profile.Role(m.Role), Content: m.Content})
	}
	for _, a := range assessments {
		in.Assessments[a.Kind] = profile.Assessment{Result: a.Result, CompletedAt: a.CompletedAt}
	}
	if stats != nil {
		in.UserStats = profile.UserStats{TotalConversations: stats.TotalConversations, TotalStories: stats.TotalStories}
		in.AsOf = stats.UpdatedAt.UTC()
	}
	return in, nil
}
