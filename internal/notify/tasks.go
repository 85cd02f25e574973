package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeOrderStatus is the asynq task type for order status notifications.
const TypeOrderStatus = "order:status_changed"

// OrderStatusPayload is the task payload for an order status notification.
type OrderStatusPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	ClientID    string `json:"client_id,omitempty"`
	Status      string `json:"status"`
}

// NewOrderStatusTask builds the asynq task for a status change.
func NewOrderStatusTask(payload OrderStatusPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order status payload: %w", err)
	}
	return asynq.NewTask(TypeOrderStatus, data), nil
}
