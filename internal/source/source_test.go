package source

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dotcommander/innerscope/internal/config"
	"github.com/dotcommander/innerscope/internal/profile"
)

func sampleProfile() *profile.Input {
	done := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return &profile.Input{
		UserID: "u1",
		AsOf:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Stories: []profile.Story{
			{ID: "s2", Title: "Second", CreatedFormats: []string{"poem", "song"}},
			{ID: "s1", Title: "First"},
		},
		Conversations: []profile.Message{
			{Role: profile.RoleUser, Content: "I feel stuck"},
			{Role: profile.RoleAssistant, Content: "Tell me more"},
			{Role: profile.RoleUser, Content: "My friend says I overthink"},
		},
		Assessments: map[string]profile.Assessment{
			profile.KindAttachment:   {Result: "secure", CompletedAt: &done},
			profile.KindLoveLanguage: {Result: "quality time"},
		},
		UserStats: profile.UserStats{TotalConversations: 5, TotalStories: 2},
	}
}

func TestAssemble(t *testing.T) {
	updated := time.Date(2025, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))

	got, err := assemble("u1",
		[]StoryRecord{{ID: "a", CreatedFormats: []string{"poem"}}},
		[]MessageRecord{{Role: "user", Content: "hi"}},
		[]AssessmentRecord{{Kind: "attachment", Result: "anxious"}, {Kind: "attachment", Result: "secure"}},
		&StatsRecord{TotalConversations: 2, UpdatedAt: updated},
	)
	if err != nil {
		t.Fatalf("assemble() error = %v", err)
	}

	want := &profile.Input{
		UserID:        "u1",
		AsOf:          updated.UTC(),
		Stories:       []profile.Story{{ID: "a", CreatedFormats: []string{"poem"}}},
		Conversations: []profile.Message{{Role: profile.RoleUser, Content: "hi"}},
		Assessments:   map[string]profile.Assessment{"attachment": {Result: "secure"}},
		UserStats:     profile.UserStats{TotalConversations: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("assemble() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_NotFound(t *testing.T) {
	_, err := assemble("ghost", nil, nil, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("assemble() error = %v, want ErrNotFound", err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alice.yaml"), []byte("conversations:\n  - role: user\n    content: hi\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bob.json"), []byte(`{"userId": "robert"}`), 0644); err != nil {
		t.Fatal(err)
	}
	src := NewFileSource(dir)
	defer src.Close()
	ctx := context.Background()

	alice, err := src.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load(alice) error = %v", err)
	}
	if alice.UserID != "alice" || len(alice.Conversations) != 1 {
		t.Errorf("Load(alice) = %+v", alice)
	}

	bob, err := src.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("Load(bob) error = %v", err)
	}
	if bob.UserID != "robert" {
		t.Errorf("Load(bob).UserID = %q, want the id stored in the file", bob.UserID)
	}

	if _, err := src.Load(ctx, "carol"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(carol) error = %v, want ErrNotFound", err)
	}

	for _, bad := range []string{"", "../etc/passwd", `a\b`, ".hidden"} {
		if _, err := src.Load(ctx, bad); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) error = %v, want invalid id error", bad, err)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := src.Load(cancelled, "alice"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with cancelled context error = %v", err)
	}
}

func TestSQLiteSource_ImportAndLoad(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer src.Close()

	in := sampleProfile()
	if err := src.Import(ctx, in); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	got, err := src.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(in, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if _, err := src.Load(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSource_ImportReplaces(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer src.Close()

	if err := src.Import(ctx, sampleProfile()); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	smaller := &profile.Input{
		UserID:        "u1",
		Conversations: []profile.Message{{Role: profile.RoleUser, Content: "only one"}},
	}
	if err := src.Import(ctx, smaller); err != nil {
		t.Fatalf("second Import() error = %v", err)
	}

	got, err := src.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Stories) != 0 || len(got.Assessments) != 0 || len(got.Conversations) != 1 {
		t.Errorf("Load() after re-import = %+v", got)
	}
	if !got.AsOf.IsZero() {
		t.Errorf("AsOf = %v, want zero", got.AsOf)
	}
}

func TestSQLiteSource_ImportDuplicateStoryIDs(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer src.Close()

	in := &profile.Input{
		UserID: "u",
		Stories: []profile.Story{
			{ID: "s", Title: "draft", CreatedFormats: []string{"poem"}},
			{ID: "s", Title: "final", CreatedFormats: []string{"song"}},
		},
	}
	if err := src.Import(ctx, in); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	got, err := src.Load(ctx, "u")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(in.Stories, got.Stories); diff != "" {
		t.Errorf("Load() stories mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteSource_ImportRequiresUserID(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer src.Close()

	if err := src.Import(ctx, &profile.Input{}); err == nil {
		t.Error("Import() expected error for profile without userId")
	}
}

func TestSQLiteSource_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.db")
	for i := 0; i < 2; i++ {
		src, err := OpenSQLite(ctx, path)
		if err != nil {
			t.Fatalf("OpenSQLite() #%d error = %v", i, err)
		}
		if err := src.Migrate(ctx); err != nil {
			t.Errorf("Migrate() #%d error = %v", i, err)
		}
		src.Close()
	}
}

func TestOpenSQLite_OpenError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	if _, err := OpenSQLite(context.Background(), "ignored.db"); err == nil {
		t.Error("OpenSQLite() expected error")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	if _, err := Open(ctx, config.SourceConfig{Kind: config.SourceNone}); !errors.Is(err, ErrNoSource) {
		t.Errorf("Open(none) error = %v, want ErrNoSource", err)
	}
	if _, err := Open(ctx, config.SourceConfig{Kind: "s3"}); err == nil {
		t.Error("Open(s3) expected error")
	}

	src, err := Open(ctx, config.SourceConfig{Kind: config.SourceFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	if _, ok := src.(*FileSource); !ok {
		t.Errorf("Open(file) = %T", src)
	}

	sq, err := Open(ctx, config.SourceConfig{Kind: config.SourceSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	defer sq.Close()
	if _, ok := sq.(*SQLiteSource); !ok {
		t.Errorf("Open(sqlite) = %T", sq)
	}
}

func TestConnectMongo_InvalidURI(t *testing.T) {
	if _, err := ConnectMongo(context.Background(), "not-a-mongo-uri", "innerscope"); err == nil {
		t.Error("ConnectMongo() expected error for invalid URI")
	}
}
