package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/music-catalog/internal/observability"
	"github.com/spec-kit/music-catalog/internal/service"
)

// TokenSweeper periodically deletes refresh-token records past the retention
// horizon. It runs outside request handling and is safe to run alongside
// concurrent rotations.
type TokenSweeper struct {
	tokens   *service.TokenService
	metrics  *observability.Metrics
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
}

// NewTokenSweeper builds the sweeper with a cron schedule such as "@hourly".
func NewTokenSweeper(tokens *service.TokenService, metrics *observability.Metrics, logger *zap.Logger, schedule string) *TokenSweeper {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &TokenSweeper{
		tokens:   tokens,
		metrics:  metrics,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the scheduler.
func (w *TokenSweeper) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.sweep(ctx) }); err != nil {
		return err
	}
	c.Start()
	w.cron = c
	w.logger.Info("token sweeper started", zap.String("schedule", w.schedule))
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (w *TokenSweeper) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *TokenSweeper) sweep(ctx context.Context) {
	deleted, err := w.tokens.SweepExpired(ctx)
	if err != nil {
		w.logger.Error("token sweep failed", zap.Error(err))
		return
	}
	w.metrics.RecordTokenSweep(deleted)
	if deleted > 0 {
		w.logger.Info("swept expired refresh tokens", zap.Int64("deleted", deleted))
	}
}
