package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultSwipeRetention = 90 * 24 * time.Hour

type swipePurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ledgerReaper interface {
	DropLedgers(ctx context.Context) (int, error)
}

// Job purges swipes past the retention horizon and drops undo ledgers whose
// trade session has already expired out of redis.
type Job struct {
	swipes    swipePurger
	ledgers   ledgerReaper
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(swipes swipePurger, ledgers ledgerReaper, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = defaultSwipeRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		swipes:    swipes,
		ledgers:   ledgers,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.ledgers != nil {
		dropped, err := j.ledgers.DropLedgers(ctx)
		if err != nil {
			return fmt.Errorf("drop orphaned undo ledgers: %w", err)
		}
		if dropped > 0 {
			j.logger.Info("dropped orphaned undo ledgers", zap.Int("count", dropped))
		}
	}

	if j.swipes == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	purged, err := j.swipes.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge stale swipes: %w", err)
	}
	if purged > 0 {
		j.logger.Info("purged stale swipes", zap.Int64("count", purged), zap.Time("cutoff", cutoff))
	}

	return nil
}
