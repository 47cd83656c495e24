package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

type ProductRepository struct {
	DB Querier
}

func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{DB: db}
}

// productColumns casts numeric columns to text so prices scan losslessly
// into decimals.
const productColumns = `id, user_id, url, name, COALESCE(image_url, ''), current_price::text, currency, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var price string
	if err := row.Scan(&p.ID, &p.UserID, &p.URL, &p.Name, &p.ImageURL, &price, &p.Currency, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("scan current_price: %w", err)
	}
	p.CurrentPrice = d
	return &p, nil
}

// ListAll returns every tracked product across all users. Order is not
// guaranteed; the reconciler does not need one.
func (r *ProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// ListByUser returns the caller's products, newest first.
func (r *ProductRepository) ListByUser(ctx context.Context, userID string) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetByUserAndURL returns the product a user tracks at a URL, or nil when
// the pair is not tracked yet.
func (r *ProductRepository) GetByUserAndURL(ctx context.Context, userID, url string) (*model.Product, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 AND url = $2`, userID, url)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// Upsert inserts the product or, when (user_id, url) already exists,
// refreshes its name, image, price, currency and updated_at.
func (r *ProductRepository) Upsert(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products (id, user_id, url, name, image_url, current_price, currency)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6::numeric, $7)
		ON CONFLICT (user_id, url) DO UPDATE SET
			name = EXCLUDED.name,
			image_url = COALESCE(EXCLUDED.image_url, products.image_url),
			current_price = EXCLUDED.current_price,
			currency = EXCLUDED.currency,
			updated_at = now()
		RETURNING `+productColumns,
		uuid.New().String(), p.UserID, p.URL, p.Name, p.ImageURL, p.CurrentPrice.String(), p.Currency)
	return scanProduct(row)
}

// UpdatePrice persists a reconciliation result onto the product row. It
// runs even when the price is unchanged so updated_at reflects the run.
func (r *ProductRepository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal, currency, imageURL string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products SET
			current_price = $2::numeric,
			currency = $3,
			image_url = COALESCE(NULLIF($4, ''), image_url),
			updated_at = now()
		WHERE id = $1`,
		id, price.String(), currency, imageURL)
	return err
}

// Delete removes a product the caller owns.
func (r *ProductRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
