package quota

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"edusaarthi/internal/domain"
)

// Janitor deletes counters that fell out of the retention window. Counters of
// past days are only kept for reporting; purging them never changes a decision.
type Janitor struct {
	purger    domain.CounterPurger
	loc       *time.Location
	retention int
	logger    zerolog.Logger
	now       func() time.Time
}

// NewJanitor keeps retentionDays days of history besides today. Negative
// values are treated as zero.
func NewJanitor(purger domain.CounterPurger, loc *time.Location, retentionDays int, logger zerolog.Logger) *Janitor {
	if loc == nil {
		loc = time.UTC
	}
	return &Janitor{
		purger:    purger,
		loc:       loc,
		retention: max(retentionDays, 0),
		logger:    logger.With().Str("component", "counter_janitor").Logger(),
		now:       time.Now,
	}
}

// Cutoff is the first day that is kept.
func (j *Janitor) Cutoff(now time.Time) string {
	y, m, d := now.In(j.loc).Date()
	return time.Date(y, m, d-j.retention, 0, 0, 0, 0, j.loc).Format(domain.DayLayout)
}

// RunOnce purges every counter older than the cutoff.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	cutoff := j.Cutoff(j.now())
	n, err := j.purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	j.logger.Info().Str("cutoff", cutoff).Int64("purged", n).Msg("usage counters purged")
	return n, nil
}

// Run purges once immediately and then on every tick until ctx is done.
// Failed passes are logged and retried on the next tick.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := j.RunOnce(ctx); err != nil && ctx.Err() == nil {
			j.logger.Error().Err(err).Msg("purge usage counters")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
