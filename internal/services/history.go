package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/strainwise/internal/store"
)

// HistoryComponent names the history tables in the migrations ledger.
const HistoryComponent = "history"

// SessionPreferences is the latest set of preferences submitted by a session.
type SessionPreferences struct {
	SessionID  string    `json:"session_id"`
	Type       string    `json:"type,omitempty"`
	Effects    []string  `json:"effects,omitempty"`
	Flavors    []string  `json:"flavors,omitempty"`
	Experience string    `json:"experience,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Recommendation is one strain shown to a session, with its rank in the
// response and an optional user rating.
type Recommendation struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	StrainName  string    `json:"strain_name"`
	Rank        int       `json:"rank"`
	Score       int       `json:"match_score"`
	Description string    `json:"description,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryRepository persists recommendation history per session.
type HistoryRepository interface {
	// Record upserts the session's preferences and stores recs, assigning IDs
	// and timestamps. It returns the stored records.
	Record(ctx context.Context, prefs SessionPreferences, recs []Recommendation) ([]Recommendation, error)

	// Preferences returns the latest preferences of a session.
	Preferences(ctx context.Context, sessionID string) (*SessionPreferences, error)

	// ListBySession returns a session's recommendations, newest first and by
	// rank within one response.
	ListBySession(ctx context.Context, sessionID string, opts ListOptions) (*ListResult[Recommendation], error)

	// Rate sets the 1..5 rating of a recommendation owned by sessionID.
	Rate(ctx context.Context, sessionID, recID string, rating int) (*Recommendation, error)
}

// Compile-time interface guard.
var _ HistoryRepository = (*SQLiteHistoryRepository)(nil)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
type SQLiteHistoryRepository struct {
	db  *sql.DB
	now func() time.Time
}

// HistoryOption configures a SQLiteHistoryRepository.
type HistoryOption func(*SQLiteHistoryRepository)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) HistoryOption {
	return func(r *SQLiteHistoryRepository) { r.now = now }
}

// NewSQLiteHistoryRepository creates a HistoryRepository and runs the history
// migrations.
func NewSQLiteHistoryRepository(ctx context.Context, s *store.SQLiteStore, opts ...HistoryOption) (*SQLiteHistoryRepository, error) {
	if err := s.Migrate(ctx, HistoryComponent, historyMigrations); err != nil {
		return nil, fmt.Errorf("history migrations: %w", err)
	}
	r := &SQLiteHistoryRepository{
		db:  s.DB(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *SQLiteHistoryRepository) Record(ctx context.Context, prefs SessionPreferences, recs []Recommendation) ([]Recommendation, error) {
	if prefs.SessionID == "" {
		return nil, fmt.Errorf("record history: empty session id")
	}
	effects, err := json.Marshal(nonNil(prefs.Effects))
	if err != nil {
		return nil, fmt.Errorf("encode effects: %w", err)
	}
	flavors, err := json.Marshal(nonNil(prefs.Flavors))
	if err != nil {
		return nil, fmt.Errorf("encode flavors: %w", err)
	}

	now := r.now()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_preferences (session_id, preferred_type, preferred_effects, preferred_flavors, experience, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			preferred_type    = excluded.preferred_type,
			preferred_effects = excluded.preferred_effects,
			preferred_flavors = excluded.preferred_flavors,
			experience        = excluded.experience,
			updated_at        = excluded.updated_at`,
		prefs.SessionID, prefs.Type, string(effects), string(flavors), prefs.Experience, now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert session preferences: %w", err)
	}

	stored := make([]Recommendation, len(recs))
	for i, rec := range recs {
		rec.ID = uuid.New().String()
		rec.SessionID = prefs.SessionID
		rec.CreatedAt = now
		rec.Rating = nil
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recommendations (id, session_id, strain_name, rank, match_score, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.SessionID, rec.StrainName, rec.Rank, rec.Score, rec.Description, now.UnixNano(),
		)
		if err != nil {
			return nil, fmt.Errorf("insert recommendation %q: %w", rec.StrainName, err)
		}
		stored[i] = rec
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit history: %w", err)
	}
	return stored, nil
}

func (r *SQLiteHistoryRepository) Preferences(ctx context.Context, sessionID string) (*SessionPreferences, error) {
	var (
		p                SessionPreferences
		effects, flavors string
		updated          int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, preferred_type, preferred_effects, preferred_flavors, experience, updated_at
		FROM session_preferences WHERE session_id = ?`, sessionID,
	).Scan(&p.SessionID, &p.Type, &effects, &flavors, &p.Experience, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session preferences %q: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(effects), &p.Effects); err != nil {
		return nil, fmt.Errorf("decode effects: %w", err)
	}
	if err := json.Unmarshal([]byte(flavors), &p.Flavors); err != nil {
		return nil, fmt.Errorf("decode flavors: %w", err)
	}
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return &p, nil
}

func (r *SQLiteHistoryRepository) ListBySession(ctx context.Context, sessionID string, opts ListOptions) (*ListResult[Recommendation], error) {
	opts = normalizeListOptions(opts)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recommendations WHERE session_id = ?`, sessionID,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count recommendations: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, strain_name, rank, match_score, description, rating, created_at
		FROM recommendations
		WHERE session_id = ?
		ORDER BY created_at DESC, rank ASC
		LIMIT ? OFFSET ?`,
		sessionID, opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	items := make([]Recommendation, 0)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return &ListResult[Recommendation]{Items: items, Total: total}, nil
}

func (r *SQLiteHistoryRepository) Rate(ctx context.Context, sessionID, recID string, rating int) (*Recommendation, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE recommendations SET rating = ? WHERE id = ? AND session_id = ?`,
		rating, recID, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("rate recommendation %q: %w", recID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rate recommendation %q: %w", recID, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, strain_name, rank, match_score, description, rating, created_at
		FROM recommendations WHERE id = ?`, recID)
	return scanRecommendation(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (*Recommendation, error) {
	var (
		rec     Recommendation
		rating  sql.NullInt64
		created int64
	)
	if err := row.Scan(&rec.ID, &rec.SessionID, &rec.StrainName, &rec.Rank, &rec.Score,
		&rec.Description, &rating, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan recommendation: %w", err)
	}
	if rating.Valid {
		v := int(rating.Int64)
		rec.Rating = &v
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var historyMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create session_preferences and recommendations tables",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE session_preferences (
					session_id        TEXT PRIMARY KEY,
					preferred_type    TEXT NOT NULL DEFAULT '',
					preferred_effects TEXT NOT NULL DEFAULT '[]',
					preferred_flavors TEXT NOT NULL DEFAULT '[]',
					experience        TEXT NOT NULL DEFAULT '',
					updated_at        INTEGER NOT NULL
				)`,
				`CREATE TABLE recommendations (
					id          TEXT PRIMARY KEY,
					session_id  TEXT NOT NULL REFERENCES session_preferences(session_id) ON DELETE CASCADE,
					strain_name TEXT NOT NULL,
					rank        INTEGER NOT NULL,
					match_score INTEGER NOT NULL DEFAULT 0,
					description TEXT NOT NULL DEFAULT '',
					rating      INTEGER CHECK (rating BETWEEN 1 AND 5),
					created_at  INTEGER NOT NULL
				)`,
				`CREATE INDEX idx_recommendations_session ON recommendations(session_id, created_at DESC)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}
