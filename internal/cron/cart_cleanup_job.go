package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

const defaultCartStaleAge = 72 * time.Hour

type staleCartExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

type CartCleanupJobParams struct {
	Logger     *logger.Logger
	Repository staleCartExpirer
	StaleAge   time.Duration
}

// NewCartCleanupJob builds the sweep that marks abandoned cart quotes
// as expired once they have sat untouched past the stale age.
func NewCartCleanupJob(params CartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	staleAge := params.StaleAge
	if staleAge <= 0 {
		staleAge = defaultCartStaleAge
	}
	return &cartCleanupJob{
		logg:     params.Logger,
		repo:     params.Repository,
		staleAge: staleAge,
		now:      time.Now,
	}, nil
}

type cartCleanupJob struct {
	logg     *logger.Logger
	repo     staleCartExpirer
	staleAge time.Duration
	now      func() time.Time
}

func (j *cartCleanupJob) Name() string { return "cart-cleanup" }

func (j *cartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAge)
	expired, err := j.repo.ExpireStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cart cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"carts_expired": expired,
	})
	j.logg.Info(logCtx, "stale cart cleanup complete")
	return nil
}
