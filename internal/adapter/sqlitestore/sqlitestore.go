// Package sqlitestore is a single-file store for development boxes and
// small deployments. Counter increments are one upsert statement, so they
// stay atomic even with several processes sharing the file.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/migrations"
)

// Store implements the entitlement, counter and progress repositories.
type Store struct {
	db *sqlx.DB
}

var (
	_ domain.EntitlementRepository = (*Store)(nil)
	_ domain.CounterRepository     = (*Store)(nil)
	_ domain.ProgressRepository    = (*Store)(nil)
	_ domain.CounterPurger         = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time; readers queue behind it
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrations.Up(ctx, db.DB, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

type entitlementRow struct {
	UserID    string       `db:"user_id"`
	IsPremium bool         `db:"is_premium"`
	Plan      string       `db:"premium_plan"`
	ExpiresAt sql.NullTime `db:"premium_expires_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

func (s *Store) Get(ctx context.Context, userID string) (domain.Entitlement, error) {
	var row entitlementRow
	err := s.db.GetContext(ctx, &row, `
SELECT user_id, is_premium, premium_plan, premium_expires_at, updated_at
FROM entitlements WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entitlement{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Entitlement{}, unavailable("select entitlement", err)
	}
	e := domain.Entitlement{
		UserID:    row.UserID,
		IsPremium: row.IsPremium,
		Plan:      domain.Plan(row.Plan),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.ExpiresAt.Valid {
		t := row.ExpiresAt.Time.UTC()
		e.ExpiresAt = &t
	}
	return e, nil
}

func (s *Store) Save(ctx context.Context, e domain.Entitlement) error {
	plan := e.Plan
	if plan == "" {
		plan = domain.PlanNone
	}
	updated := e.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	var expires sql.NullTime
	if e.ExpiresAt != nil {
		expires = sql.NullTime{Time: e.ExpiresAt.UTC(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO entitlements(user_id, is_premium, premium_plan, premium_expires_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
  is_premium = excluded.is_premium,
  premium_plan = excluded.premium_plan,
  premium_expires_at = excluded.premium_expires_at,
  updated_at = excluded.updated_at`,
		e.UserID, e.IsPremium, string(plan), expires, updated.UTC())
	if err != nil {
		return unavailable("upsert entitlement", err)
	}
	return nil
}

func (s *Store) DowngradeExpired(ctx context.Context, userID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE entitlements
SET is_premium = 0, premium_plan = 'none', updated_at = ?
WHERE user_id = ? AND is_premium = 1
  AND premium_expires_at IS NOT NULL AND premium_expires_at <= ?`,
		now.UTC(), userID, now.UTC())
	if err != nil {
		return unavailable("downgrade entitlement", err)
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, key domain.CounterKey, capacity int) (int, bool, error) {
	if capacity <= 0 {
		return 0, false, nil
	}
	var count int
	err := s.db.QueryRowxContext(ctx, `
INSERT INTO usage_counters(user_id, resource_type, day, count, updated_at)
VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
ON CONFLICT (user_id, resource_type, day) DO UPDATE SET
  count = usage_counters.count + 1,
  updated_at = CURRENT_TIMESTAMP
WHERE usage_counters.count < ?
RETURNING count`,
		key.UserID, string(key.Resource), key.Day, capacity).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return capacity, false, nil
	}
	if err != nil {
		return 0, false, unavailable("increment usage counter", err)
	}
	return count, true, nil
}

func (s *Store) Count(ctx context.Context, key domain.CounterKey) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
SELECT count FROM usage_counters WHERE user_id = ? AND resource_type = ? AND day = ?`,
		key.UserID, string(key.Resource), key.Day)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("select usage counter", err)
	}
	return count, nil
}

func (s *Store) PurgeBefore(ctx context.Context, day string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM usage_counters WHERE day < ?`, day)
	if err != nil {
		return 0, unavailable("purge usage counters", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("purge usage counters", err)
	}
	return n, nil
}

type progressRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	QuizID     string    `db:"quiz_id"`
	Subject    string    `db:"subject"`
	ClassLevel int       `db:"class_level"`
	Score      int       `db:"score"`
	MaxScore   int       `db:"max_score"`
	Percentage float64   `db:"percentage"`
	Passed     bool      `db:"passed"`
	Result     []byte    `db:"result"`
	CreatedAt  time.Time `db:"created_at"`
}

func (s *Store) Insert(ctx context.Context, ev domain.ProgressEvent) error {
	result, err := json.Marshal(ev.Result)
	if err != nil {
		return fmt.Errorf("encode progress result: %w", err)
	}
	_, err = s.db.NamedExecContext(ctx, `
INSERT INTO progress_events(id, user_id, quiz_id, subject, class_level, score, max_score, percentage, passed, result, created_at)
VALUES (:id, :user_id, :quiz_id, :subject, :class_level, :score, :max_score, :percentage, :passed, :result, :created_at)`,
		progressRow{
			ID:         ev.ID,
			UserID:     ev.UserID,
			QuizID:     ev.QuizID,
			Subject:    ev.Subject,
			ClassLevel: ev.ClassLevel,
			Score:      ev.Result.Score,
			MaxScore:   ev.Result.MaxScore,
			Percentage: ev.Result.Percentage,
			Passed:     ev.Result.Passed,
			Result:     result,
			CreatedAt:  ev.CreatedAt.UTC(),
		})
	if err != nil {
		return unavailable("insert progress event", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []progressRow
	err := s.db.SelectContext(ctx, &rows, `
SELECT id, user_id, quiz_id, subject, class_level, score, max_score, percentage, passed, result, created_at
FROM progress_events WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, userID, limit)
	if err != nil {
		return nil, unavailable("list progress events", err)
	}
	out := make([]domain.ProgressEvent, 0, len(rows))
	for _, r := range rows {
		ev := domain.ProgressEvent{
			ID:         r.ID,
			UserID:     r.UserID,
			QuizID:     r.QuizID,
			Subject:    r.Subject,
			ClassLevel: r.ClassLevel,
			CreatedAt:  r.CreatedAt.UTC(),
		}
		if err := json.Unmarshal(r.Result, &ev.Result); err != nil {
			return nil, fmt.Errorf("decode progress result %s: %w", r.ID, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
