package client

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested client does not exist.
var ErrNotFound = errors.New("client: not found")

// ErrPhoneExists indicates another client already uses the phone number.
var ErrPhoneExists = errors.New("client: phone already registered")

// Store provides database accessors for client records.
type Store interface {
	List(ctx context.Context, limit, offset int) ([]Client, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, term string) ([]Client, error)
	Get(ctx context.Context, id string) (Client, error)
	Insert(ctx context.Context, input Input) (Client, error)
	Update(ctx context.Context, id string, input Input) (Client, error)
	Delete(ctx context.Context, id string) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const clientColumns = `id, first_name, last_name, phone, email, address, note, discount, created_at, updated_at`

func (s *pgStore) List(ctx context.Context, limit, offset int) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClients(rows)
}

func (s *pgStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total)
	return total, err
}

func (s *pgStore) Search(ctx context.Context, term string) ([]Client, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1
		ORDER BY last_name, first_name
		LIMIT 50`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClients(rows)
}

func (s *pgStore) Get(ctx context.Context, id string) (Client, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1`, id)
	return scanClient(row)
}

func (s *pgStore) Insert(ctx context.Context, input Input) (Client, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO clients (first_name, last_name, phone, email, address, note, discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+clientColumns,
		input.FirstName, input.LastName, input.Phone, input.Email, input.Address, input.Note, input.Discount)
	c, err := scanClient(row)
	if err != nil {
		return Client{}, mapUniqueViolation(err)
	}
	return c, nil
}

func (s *pgStore) Update(ctx context.Context, id string, input Input) (Client, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE clients
		SET first_name = $2, last_name = $3, phone = $4, email = $5,
		    address = $6, note = $7, discount = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+clientColumns,
		id, input.FirstName, input.LastName, input.Phone, input.Email, input.Address, input.Note, input.Discount)
	c, err := scanClient(row)
	if err != nil {
		return Client{}, mapUniqueViolation(err)
	}
	return c, nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClients(rows pgx.Rows) ([]Client, error) {
	clients := make([]Client, 0)
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email,
			&c.Address, &c.Note, &c.Discount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email,
		&c.Address, &c.Note, &c.Discount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrPhoneExists
	}
	return err
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
