package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the price-list store dependency is not configured.
var ErrStoreUnavailable = errors.New("catalog: store unavailable")

// ErrNotFound indicates the requested price-list item does not exist.
var ErrNotFound = errors.New("catalog: item not found")

// Store provides database accessors for price-list operations.
type Store interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]Item, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
	Search(ctx context.Context, term string, limit, offset int) ([]Item, error)
	CountSearch(ctx context.Context, term string) (int64, error)
	ListByCategories(ctx context.Context, categories []string) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Insert(ctx context.Context, input ItemInput) (Item, error)
	Update(ctx context.Context, id string, input ItemInput) (Item, error)
	Delete(ctx context.Context, id string) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const itemColumns = `id, category, item_no, name, unit, standard_price, price_with_details,
price_max, black_color_price, other_color_price, coefficient, coefficient_min, coefficient_max,
created_at, updated_at`

func (s *pgStore) ListCategories(ctx context.Context) ([]string, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT category FROM price_list ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := make([]string, 0, 16)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *pgStore) ListByCategory(ctx context.Context, category string, limit, offset int) ([]Item, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM price_list
WHERE category = $1 ORDER BY item_no NULLS LAST, name LIMIT $2 OFFSET $3`, category, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *pgStore) CountByCategory(ctx context.Context, category string) (int64, error) {
	if s == nil || s.pool == nil {
		return 0, ErrStoreUnavailable
	}
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM price_list WHERE category = $1`, category).Scan(&total)
	return total, err
}

func (s *pgStore) Search(ctx context.Context, term string, limit, offset int) ([]Item, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM price_list
WHERE name ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY name LIMIT $2 OFFSET $3`,
		escapeLike(term), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *pgStore) CountSearch(ctx context.Context, term string) (int64, error) {
	if s == nil || s.pool == nil {
		return 0, ErrStoreUnavailable
	}
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM price_list
WHERE name ILIKE '%' || $1 || '%' ESCAPE '\'`, escapeLike(term)).Scan(&total)
	return total, err
}

func (s *pgStore) ListByCategories(ctx context.Context, categories []string) ([]Item, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM price_list
WHERE category = ANY($1) ORDER BY category, item_no NULLS LAST, name`, categories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *pgStore) Get(ctx context.Context, id string) (Item, error) {
	if s == nil || s.pool == nil {
		return Item{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM price_list WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

func (s *pgStore) Insert(ctx context.Context, input ItemInput) (Item, error) {
	if s == nil || s.pool == nil {
		return Item{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `INSERT INTO price_list
(category, item_no, name, unit, standard_price, price_with_details, price_max,
 black_color_price, other_color_price, coefficient, coefficient_min, coefficient_max)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING `+itemColumns,
		input.Category, input.Number, input.Name, input.Unit,
		input.StandardPrice, input.PriceWithDetails, input.PriceMax,
		input.BlackColorPrice, input.OtherColorPrice,
		input.Coefficient, input.CoefficientMin, input.CoefficientMax)
	return scanItem(row)
}

func (s *pgStore) Update(ctx context.Context, id string, input ItemInput) (Item, error) {
	if s == nil || s.pool == nil {
		return Item{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `UPDATE price_list SET
category = $2, item_no = $3, name = $4, unit = $5, standard_price = $6,
price_with_details = $7, price_max = $8, black_color_price = $9, other_color_price = $10,
coefficient = $11, coefficient_min = $12, coefficient_max = $13, updated_at = now()
WHERE id = $1
RETURNING `+itemColumns,
		id, input.Category, input.Number, input.Name, input.Unit,
		input.StandardPrice, input.PriceWithDetails, input.PriceMax,
		input.BlackColorPrice, input.OtherColorPrice,
		input.Coefficient, input.CoefficientMin, input.CoefficientMax)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM price_list WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	items := make([]Item, 0, 32)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.Category, &it.Number, &it.Name, &it.Unit,
		&it.StandardPrice, &it.PriceWithDetails, &it.PriceMax,
		&it.BlackColorPrice, &it.OtherColorPrice,
		&it.Coefficient, &it.CoefficientMin, &it.CoefficientMax,
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

// escapeLike escapes LIKE pattern metacharacters in user supplied terms.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(strings.TrimSpace(term))
}
