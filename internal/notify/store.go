package notify

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification is one recorded client notification.
type Notification struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ClientID  string    `json:"client_id,omitempty"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) Insert(ctx context.Context, n Notification) (Notification, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO notifications (order_id, client_id, status, message)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4)
		RETURNING id, order_id, COALESCE(client_id::text, ''), status, message, created_at`,
		n.OrderID, n.ClientID, n.Status, n.Message)
	var out Notification
	if err := row.Scan(&out.ID, &out.OrderID, &out.ClientID, &out.Status, &out.Message, &out.CreatedAt); err != nil {
		return Notification{}, err
	}
	return out, nil
}
