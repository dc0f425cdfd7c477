package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/config"
	"github.com/wallace-21/BirdNest/internal/repository/gormdb"
)

// Scheduler runs periodic maintenance tasks. Currently a single job
// logging catalog statistics on the configured cron schedule; failures
// are logged and never interrupt request handling.
type Scheduler struct {
	cron   *cron.Cron
	repo   *gormdb.BirdRepository
	cfg    config.StatsConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.StatsConfig, repo *gormdb.BirdRepository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.logCatalogStats); err != nil {
		s.logger.Error("failed to schedule catalog stats job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) logCatalogStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to collect catalog stats", zap.Error(err))
		return
	}

	s.logger.Info("catalog stats", zap.Int64("birds", count))
}
