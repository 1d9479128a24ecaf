// Package progress records quiz submissions after they were scored.
package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edusaarthi/internal/domain"
)

const maxHistory = 100

// Recorder writes progress events. It never alters a result it is handed.
type Recorder struct {
	repo   domain.ProgressRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewRecorder builds a Recorder over repo.
func NewRecorder(repo domain.ProgressRepository, logger zerolog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger.With().Str("component", "progress").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record stores ev, filling in ID and CreatedAt when absent, and returns the
// stored event.
func (r *Recorder) Record(ctx context.Context, ev domain.ProgressEvent) (domain.ProgressEvent, error) {
	if strings.TrimSpace(ev.UserID) == "" {
		return domain.ProgressEvent{}, domain.ErrUnauthorized
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.now()
	}
	if err := r.repo.Insert(ctx, ev); err != nil {
		return domain.ProgressEvent{}, fmt.Errorf("record progress: %w", err)
	}
	r.logger.Debug().Str("user_id", ev.UserID).Str("quiz_id", ev.QuizID).Str("progress_id", ev.ID).
		Int("score", ev.Result.Score).Int("max_score", ev.Result.MaxScore).Msg("progress recorded")
	return ev, nil
}

// RecordSubmission is Record for a freshly scored quiz.
func (r *Recorder) RecordSubmission(ctx context.Context, userID string, q domain.Quiz, res domain.SubmissionResult) (domain.ProgressEvent, error) {
	return r.Record(ctx, domain.ProgressEvent{
		UserID:     userID,
		QuizID:     q.ID,
		Subject:    q.Subject,
		ClassLevel: q.ClassLevel,
		Result:     res,
	})
}

// History lists the newest events of userID. limit is clamped to [1, 100].
func (r *Recorder) History(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = 20
	}
	limit = min(limit, maxHistory)
	events, err := r.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return events, nil
}
