// Package maintenance hosts background cleanup that is deliberately kept
// off the request path: an expired refresh token is refused at read time,
// and its row is removed here later.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/temirkhanov/fintrack/internal/metrics"
	"github.com/temirkhanov/fintrack/internal/repository"
)

// Sweeper deletes expired refresh-token rows on a cron schedule.
type Sweeper struct {
	tokens   repository.RefreshTokenRepository
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewSweeper parses expr as a standard 5-field cron expression.
func NewSweeper(tokens repository.RefreshTokenRepository, expr string, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", expr, err)
	}

	return &Sweeper{
		tokens:   tokens,
		schedule: schedule,
		logger:   logger.With("component", "sweeper"),
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	deleted, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("sweep expired refresh tokens", "error", err)
		return
	}

	metrics.SweeperCycleDuration.Observe(time.Since(start).Seconds())
	if deleted > 0 {
		metrics.SweeperDeletedTotal.Add(float64(deleted))
		s.logger.Info("swept expired refresh tokens", "deleted", deleted)
	}
}
