package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/infra"
	"edusaarthi/internal/sqlinline"
)

// ProgressRepositoryPG implements domain.ProgressRepository backed by PostgreSQL.
type ProgressRepositoryPG struct {
	db infra.SQLExecutor
}

// NewProgressRepository creates a new ProgressRepositoryPG.
func NewProgressRepository(db infra.SQLExecutor) *ProgressRepositoryPG {
	return &ProgressRepositoryPG{db: db}
}

var _ domain.ProgressRepository = (*ProgressRepositoryPG)(nil)

func (r *ProgressRepositoryPG) Insert(ctx context.Context, ev domain.ProgressEvent) error {
	result, err := json.Marshal(ev.Result)
	if err != nil {
		return fmt.Errorf("encode progress result: %w", err)
	}
	_, err = r.db.Exec(ctx, sqlinline.QInsertProgressEvent,
		ev.ID,
		ev.UserID,
		ev.QuizID,
		ev.Subject,
		ev.ClassLevel,
		ev.Result.Score,
		ev.Result.MaxScore,
		ev.Result.Percentage,
		ev.Result.Passed,
		result,
		ev.CreatedAt,
	)
	if err != nil {
		return unavailable("insert progress event", err)
	}
	return nil
}

func (r *ProgressRepositoryPG) List(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, sqlinline.QListProgressByUser, userID, limit)
	if err != nil {
		return nil, unavailable("list progress events", err)
	}
	defer rows.Close()

	out := make([]domain.ProgressEvent, 0)
	for rows.Next() {
		var (
			ev     domain.ProgressEvent
			result []byte
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.QuizID, &ev.Subject, &ev.ClassLevel, &result, &ev.CreatedAt); err != nil {
			return nil, unavailable("scan progress event", err)
		}
		if err := json.Unmarshal(result, &ev.Result); err != nil {
			return nil, fmt.Errorf("decode progress result %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate progress events", err)
	}
	return out, nil
}
