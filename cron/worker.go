package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"stationcal/config"
	"stationcal/models"
	"stationcal/services/tasks"
)

// AuditRecorder persists processed reschedule events.
type AuditRecorder interface {
	RecordReschedule(ctx context.Context, event models.RescheduleEvent) error
}

// InitRescheduleWorker runs the booking:rescheduled consumer in the background.
// The returned server is shut down by the caller.
func InitRescheduleWorker(ctx context.Context, recorder AuditRecorder, logger *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingRescheduled, handleRescheduledTask(recorder, logger))

	go monitorRedisConnection(ctx, redisOpts, logger)

	go func() {
		logger.Info("RescheduleWorker: starting")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("RescheduleWorker: failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("RescheduleWorker: giving up, notifications will queue until restart")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

func handleRescheduledTask(recorder AuditRecorder, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseRescheduledTask(task)
		if err != nil {
			logger.Warn("RescheduleHandler: invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		logger.Info("RescheduleHandler: booking rescheduled",
			zap.String("stationID", event.StationID),
			zap.String("bookingID", event.BookingID),
			zap.String("newStartDate", event.NewStartDate),
			zap.String("newEndDate", event.NewEndDate))

		if recorder == nil {
			return nil
		}
		if err := recorder.RecordReschedule(ctx, event); err != nil {
			logger.Error("RescheduleHandler: failed to record", zap.String("bookingID", event.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue redis until ctx ends.
func monitorRedisConnection(ctx context.Context, opts asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("RescheduleWorker: redis connection lost", zap.Error(err))
			}
		}
	}
}
