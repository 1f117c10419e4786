package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dotcommander/innerscope/internal/profile"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteSource reads profiles from a local SQLite database.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteSource{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return s, nil
}

// Migrate creates the profile tables.
func (s *SQLiteSource) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stories (
			row_id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         TEXT    NOT NULL,
			id              TEXT    NOT NULL,
			title           TEXT    NOT NULL DEFAULT '',
			created_formats TEXT    NOT NULL DEFAULT '[]',
			seq             INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_stories_user ON stories(user_id, seq);
		CREATE TABLE IF NOT EXISTS messages (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT    NOT NULL,
			role    TEXT    NOT NULL,
			content TEXT    NOT NULL,
			seq     INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, seq);
		CREATE TABLE IF NOT EXISTS assessments (
			user_id      TEXT NOT NULL,
			kind         TEXT NOT NULL,
			result       TEXT NOT NULL,
			completed_at TEXT,
			PRIMARY KEY (user_id, kind)
		);
		CREATE TABLE IF NOT EXISTS user_stats (
			user_id             TEXT PRIMARY KEY,
			total_conversations INTEGER NOT NULL DEFAULT 0,
			total_stories       INTEGER NOT NULL DEFAULT 0,
			updated_at          TEXT    NOT NULL
		);
	`)
	return err
}

// Load reads every record of userID.
func (s *SQLiteSource) Load(ctx context.Context, userID string) (*profile.Input, error) {
	stories, err := s.loadStories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load stories: %w", err)
	}
	messages, err := s.loadMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load messages: %w", err)
	}
	assessments, err := s.loadAssessments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load assessments: %w", err)
	}
	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load user stats: %w", err)
	}
	return assemble(userID, stories, messages, assessments, stats)
}

func (s *SQLiteSource) loadStories(ctx context.Context, userID string) ([]StoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_formats, seq FROM stories WHERE user_id = ? ORDER BY seq, row_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoryRecord
	for rows.Next() {
		rec := StoryRecord{UserID: userID}
		var formats string
		if err := rows.Scan(&rec.ID, &rec.Title, &formats, &rec.Seq); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(formats), &rec.CreatedFormats); err != nil {
			return nil, fmt.Errorf("story %s: created_formats: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadMessages(ctx context.Context, userID string) ([]MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, seq FROM messages WHERE user_id = ? ORDER BY seq, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MessageRecord
	for rows.Next() {
		rec := MessageRecord{UserID: userID}
		if err := rows.Scan(&rec.Role, &rec.Content, &rec.Seq); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadAssessments(ctx context.Context, userID string) ([]AssessmentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, result, completed_at FROM assessments WHERE user_id = ? ORDER BY kind`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssessmentRecord
	for rows.Next() {
		rec := AssessmentRecord{UserID: userID}
		var completedAt sql.NullString
		if err := rows.Scan(&rec.Kind, &rec.Result, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("assessment %s: completed_at: %w", rec.Kind, err)
			}
			rec.CompletedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadStats(ctx context.Context, userID string) (*StatsRecord, error) {
	rec := StatsRecord{UserID: userID}
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT total_conversations, total_stories, updated_at FROM user_stats WHERE user_id = ?`, userID,
	).Scan(&rec.TotalConversations, &rec.TotalStories, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	return &rec, nil
}

// Import replaces everything stored for in.UserID with the contents of in.
// in.AsOf is stored as the stats update time.
func (s *SQLiteSource) Import(ctx context.Context, in *profile.Input) error {
	if in == nil || in.UserID == "" {
		return fmt.Errorf("sqlite: import: profile has no userId")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: import: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stories", "messages", "assessments", "user_stats"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, in.UserID); err != nil {
			return fmt.Errorf("sqlite: import: clear %s: %w", table, err)
		}
	}

	for i, story := range in.Stories {
		formats, err := json.Marshal(nonNil(story.CreatedFormats))
		if err != nil {
			return fmt.Errorf("sqlite: import: story %s: %w", story.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stories (user_id, id, title, created_formats, seq) VALUES (?, ?, ?, ?, ?)`,
			in.UserID, story.ID, story.Title, string(formats), i,
		); err != nil {
			return fmt.Errorf("sqlite: import: story %s: %w", story.ID, err)
		}
	}

	for i, msg := range in.Conversations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (user_id, role, content, seq) VALUES (?, ?, ?, ?)`,
			in.UserID, string(msg.Role), msg.Content, i,
		); err != nil {
			return fmt.Errorf("sqlite: import: message %d: %w", i, err)
		}
	}

	for kind, a := range in.Assessments {
		var completedAt any
		if a.CompletedAt != nil {
			completedAt = a.CompletedAt.UTC().Format(time.RFC3339Nano)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO assessments (user_id, kind, result, completed_at) VALUES (?, ?, ?, ?)`,
			in.UserID, kind, a.Result, completedAt,
		); err != nil {
			return fmt.Errorf("sqlite: import: assessment %s: %w", kind, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_stats (user_id, total_conversations, total_stories, updated_at) VALUES (?, ?, ?, ?)`,
		in.UserID, in.UserStats.TotalConversations, in.UserStats.TotalStories, in.AsOf.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("sqlite: import: user stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: import: commit: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
