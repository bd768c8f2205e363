package cron

import (
	"context"
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher re-runs the last station fetch.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartStationRefresh schedules refresher on spec, a standard five-field cron expression.
// An empty spec disables the job and returns a nil scheduler.
func StartStationRefresh(spec string, refresher Refresher, logger *zap.Logger) (*robfig.Cron, error) {
	if spec == "" {
		logger.Info("StationRefresh: disabled")
		return nil, nil
	}

	c := robfig.New()
	if _, err := c.AddFunc(spec, refreshJob(refresher, logger)); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	c.Start()
	logger.Info("StationRefresh: scheduled", zap.String("spec", spec))
	return c, nil
}

func refreshJob(refresher Refresher, logger *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := refresher.Refresh(ctx); err != nil {
			logger.Warn("StationRefresh: refresh failed", zap.Error(err))
			return
		}
		logger.Debug("StationRefresh: stations refreshed")
	}
}
