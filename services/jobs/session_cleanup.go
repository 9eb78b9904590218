package jobs

import (
	"fmt"
	"sponsorship_console/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CleanupSchedule runs the session cleanup at the top of every hour
const CleanupSchedule = "@hourly"

// SessionCleaner removes expired console sessions
type SessionCleaner interface {
	CleanupExpiredSessions() (int64, error)
}

// ListSweeper drops idle list controllers
type ListSweeper interface {
	Sweep()
	Len() int
}

// StartScheduler registers the background jobs and starts the cron runner.
// Callers stop it with Stop() on shutdown.
func StartScheduler(sessions SessionCleaner, lists ListSweeper, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(CleanupSchedule, func() {
		CleanupSessions(sessions, lists, logger)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	c.Start()
	logger.Info("background scheduler started", zap.String("session_cleanup", CleanupSchedule))
	return c, nil
}

// CleanupSessions deletes expired sessions and evicts idle list controllers
func CleanupSessions(sessions SessionCleaner, lists ListSweeper, logger *zap.Logger) {
	removed, err := sessions.CleanupExpiredSessions()
	if err != nil {
		logger.Error("session cleanup failed", zap.Error(err))
	} else if removed > 0 {
		logger.Info("expired sessions removed", services.SecurityEvent("session_cleanup"), zap.Int64("count", removed))
	}

	if lists != nil {
		lists.Sweep()
		logger.Debug("list registry swept", zap.Int("active", lists.Len()))
	}
}
