package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Store persists delivered notifications for the front desk feed.
type Store interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
}

// Handler processes notification tasks on the worker side.
type Handler struct {
	store  Store
	logger zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(store Store, logger zerolog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register attaches the task handlers to the asynq mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeOrderStatus, h.HandleOrderStatus)
}

// HandleOrderStatus records the status notification so operators can relay
// it to the client.
func (h *Handler) HandleOrderStatus(ctx context.Context, task *asynq.Task) error {
	var payload OrderStatusPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Malformed payloads never become valid, skip the retry cycle.
		return fmt.Errorf("unmarshal %s payload: %v: %w", TypeOrderStatus, err, asynq.SkipRetry)
	}
	n := Notification{
		OrderID:  payload.OrderID,
		ClientID: payload.ClientID,
		Status:   payload.Status,
		Message:  statusMessage(payload),
	}
	if h.store != nil {
		stored, err := h.store.Insert(ctx, n)
		if err != nil {
			return fmt.Errorf("store notification: %w", err)
		}
		n = stored
	}
	h.logger.Info().
		Str("order_id", payload.OrderID).
		Str("order_number", payload.OrderNumber).
		Str("status", payload.Status).
		Msg("order status notification")
	return nil
}

func statusMessage(p OrderStatusPayload) string {
	switch p.Status {
	case "ready":
		return fmt.Sprintf("Order %s is ready for pickup", p.OrderNumber)
	case "delivered":
		return fmt.Sprintf("Order %s has been picked up", p.OrderNumber)
	}
	return fmt.Sprintf("Order %s status changed to %s", p.OrderNumber, p.Status)
}
