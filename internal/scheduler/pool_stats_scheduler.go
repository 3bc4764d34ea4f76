package scheduler

import (
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/menuca/menuca-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// PoolStatsScheduler periodically logs connection pool statistics for every
// role-scoped pool, so saturation shows up in the logs before requests start
// timing out on acquisition.
type PoolStatsScheduler struct {
	cron     *cron.Cron
	registry *db.Registry
}

func NewPoolStatsScheduler(registry *db.Registry) *PoolStatsScheduler {
	return &PoolStatsScheduler{
		cron:     cron.New(),
		registry: registry,
	}
}

func (s *PoolStatsScheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1m", func() {
		for role, stats := range s.registry.Stats() {
			logger.Info("Pool stats", map[string]interface{}{
				"role":            role,
				"open":            stats.OpenConnections,
				"in_use":          stats.InUse,
				"idle":            stats.Idle,
				"wait_count":      stats.WaitCount,
				"wait_duration":   stats.WaitDuration.String(),
				"max_open_conns":  stats.MaxOpenConnections,
				"max_idle_closed": stats.MaxIdleClosed,
			})
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for pool stats", err)
		return err
	}

	s.cron.Start()
	logger.Info("Pool stats scheduler started (every minute)", nil)

	return nil
}

func (s *PoolStatsScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Pool stats scheduler stopped", nil)
}
