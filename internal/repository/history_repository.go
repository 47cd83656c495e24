package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

// HistoryRepository writes and reads the append-only price history. Rows
// are never updated or deleted once written.
type HistoryRepository struct {
	DB Querier
}

func NewHistoryRepository(db Querier) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, productID string, price decimal.Decimal, currency string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO price_history (id, product_id, price, currency)
		VALUES ($1, $2, $3::numeric, $4)`,
		uuid.New().String(), productID, price.String(), currency)
	return err
}

// ListByProduct returns a product's history, newest first.
func (r *HistoryRepository) ListByProduct(ctx context.Context, productID string) ([]model.PriceHistory, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, price::text, currency, recorded_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at DESC
		LIMIT 200`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PriceHistory
	for rows.Next() {
		var h model.PriceHistory
		var price string
		if err := rows.Scan(&h.ID, &h.ProductID, &price, &h.Currency, &h.RecordedAt); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		h.Price = d
		out = append(out, h)
	}
	return out, rows.Err()
}
