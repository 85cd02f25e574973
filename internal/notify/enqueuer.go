package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer submits notification tasks to the asynq broker. It satisfies the
// order service's Notifier dependency.
type Enqueuer struct {
	Client *asynq.Client
	Queue  string
}

// OrderStatusChanged enqueues a status notification for the worker.
func (e *Enqueuer) OrderStatusChanged(ctx context.Context, orderID, orderNumber, clientID string, status string) error {
	if e == nil || e.Client == nil {
		return nil
	}
	task, err := NewOrderStatusTask(OrderStatusPayload{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		ClientID:    clientID,
		Status:      status,
	})
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	if _, err := e.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeOrderStatus, err)
	}
	return nil
}
