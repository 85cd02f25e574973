package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order: not found")

// Record is the persisted shape of an order.
type Record struct {
	ID        string
	Number    string
	ClientID  *string
	Status    Status
	Lines     []Line
	Subtotal  float64
	Discount  float64
	Payable   float64
	Paid      float64
	Urgent    bool
	Comment   string
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InsertParams carries the computed order values for persistence.
type InsertParams struct {
	ClientID *string
	Status   Status
	Lines    []Line
	Subtotal float64
	Discount float64
	Payable  float64
	Paid     float64
	Urgent   bool
	Comment  string
	DueDate  *time.Time
}

// MetaParams carries the mutable metadata fields for an update. Nil pointers
// leave the stored value unchanged.
type MetaParams struct {
	Paid    *float64
	Urgent  *bool
	Comment *string
	DueDate *time.Time
}

// Store provides database accessors for orders.
type Store interface {
	Insert(ctx context.Context, params InsertParams) (Record, error)
	List(ctx context.Context, limit, offset int) ([]Record, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (Record, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Record, error)
	UpdateMeta(ctx context.Context, id string, params MetaParams) (Record, error)
	Delete(ctx context.Context, id string) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const orderColumns = `id, order_number, client_id, status, lines, subtotal, discount, payable,
paid, urgent, comment, due_date, created_at, updated_at`

func (s *pgStore) Insert(ctx context.Context, params InsertParams) (Record, error) {
	lines, err := json.Marshal(params.Lines)
	if err != nil {
		return Record{}, fmt.Errorf("marshal lines: %w", err)
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO orders (order_number, client_id, status, lines, subtotal, discount,
		                    payable, paid, urgent, comment, due_date)
		VALUES ('ORD-' || lpad(nextval('order_number_seq')::text, 6, '0'),
		        $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+orderColumns,
		params.ClientID, params.Status, lines, params.Subtotal, params.Discount,
		params.Payable, params.Paid, params.Urgent, params.Comment, params.DueDate)
	return scanRecord(row)
}

func (s *pgStore) List(ctx context.Context, limit, offset int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rowScanner{rows})
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *pgStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	return total, err
}

func (s *pgStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1`, id)
	return scanRecord(row)
}

func (s *pgStore) UpdateStatus(ctx context.Context, id string, status Status) (Record, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, status)
	return scanRecord(row)
}

func (s *pgStore) UpdateMeta(ctx context.Context, id string, params MetaParams) (Record, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders
		SET paid     = COALESCE($2, paid),
		    urgent   = COALESCE($3, urgent),
		    comment  = COALESCE($4, comment),
		    due_date = COALESCE($5, due_date),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, params.Paid, params.Urgent, params.Comment, params.DueDate)
	return scanRecord(row)
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner adapts pgx.Rows to the pgx.Row scan shape.
type rowScanner struct {
	rows pgx.Rows
}

func (r rowScanner) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var lines []byte
	err := row.Scan(&rec.ID, &rec.Number, &rec.ClientID, &rec.Status, &lines,
		&rec.Subtotal, &rec.Discount, &rec.Payable, &rec.Paid, &rec.Urgent,
		&rec.Comment, &rec.DueDate, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &rec.Lines); err != nil {
			return Record{}, fmt.Errorf("unmarshal lines: %w", err)
		}
	}
	return rec, nil
}
