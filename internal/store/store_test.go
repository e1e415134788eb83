package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrate_AppliesOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	calls := 0
	migrations := []Migration{
		{
			Version:     1,
			Description: "create widgets",
			Up: func(tx *sql.Tx) error {
				calls++
				_, err := tx.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY)`)
				return err
			},
		},
	}

	if err := s.Migrate(ctx, "test", migrations); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := s.Migrate(ctx, "test", migrations); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if calls != 1 {
		t.Errorf("migration ran %d times, want 1", calls)
	}

	var n int
	if err := s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM _migrations WHERE component = 'test'`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Errorf("_migrations rows = %d, want 1", n)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Migrate(ctx, "test", []Migration{{
		Version:     1,
		Description: "half applied",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE TABLE partial (id INTEGER)`); err != nil {
				return err
			}
			return boom
		},
	}})
	if !errors.Is(err, boom) {
		t.Fatalf("Migrate error = %v, want boom", err)
	}

	var name string
	err = s.DB().QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE name = 'partial'`).Scan(&name)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("partial table should have been rolled back, got %q (err %v)", name, err)
	}
}

func TestNew_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestMigrate_RejectsOutOfOrder(t *testing.T) {
	s := newTestStore(t)
	noop := func(*sql.Tx) error { return nil }

	err := s.Migrate(context.Background(), "test", []Migration{
		{Version: 2, Description: "second", Up: noop},
		{Version: 1, Description: "first", Up: noop},
	})
	if !errors.Is(err, ErrMigrationOrder) {
		t.Fatalf("Migrate error = %v, want ErrMigrationOrder", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	noop := func(*sql.Tx) error { return nil }

	v, err := s.SchemaVersion(ctx, "history")
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}

	if err := s.Migrate(ctx, "history", []Migration{
		{Version: 1, Description: "one", Up: noop},
		{Version: 3, Description: "three", Up: noop},
	}); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if v, _ = s.SchemaVersion(ctx, "history"); v != 3 {
		t.Errorf("version = %d, want 3", v)
	}
	if v, _ = s.SchemaVersion(ctx, "other"); v != 0 {
		t.Errorf("other component version = %d, want 0", v)
	}
}
