package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"stationcal/models"
)

const TypeBookingRescheduled = "booking:rescheduled"

// NewRescheduledTask wraps event in a task.
func NewRescheduledTask(event models.RescheduleEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingRescheduled, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

// ParseRescheduledTask decodes the event carried by a booking:rescheduled task.
func ParseRescheduledTask(task *asynq.Task) (models.RescheduleEvent, error) {
	var e models.RescheduleEvent
	if err := json.Unmarshal(task.Payload(), &e); err != nil {
		return models.RescheduleEvent{}, err
	}
	if e.StationID == "" || e.BookingID == "" {
		return models.RescheduleEvent{}, fmt.Errorf("event without station or booking id")
	}
	return e, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier publishes reschedule events to the task queue.
type AsynqNotifier struct {
	client Enqueuer
}

func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) BookingRescheduled(ctx context.Context, event models.RescheduleEvent) error {
	task, opts, err := NewRescheduledTask(event)
	if err != nil {
		return fmt.Errorf("build rescheduled task: %w", err)
	}
	if _, err := n.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue rescheduled task: %w", err)
	}
	return nil
}
