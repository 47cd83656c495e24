// Package track implements the price-reconciliation pipeline: the batch
// run over every tracked product and the single-item onboarding flow.
package track

import (
	"context"

	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

// The stores are the slices of the persistence boundary the pipeline
// touches. internal/repository provides the Postgres implementations;
// tests substitute fakes.

type ProductStore interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	GetByUserAndURL(ctx context.Context, userID, url string) (*model.Product, error)
	Upsert(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal, currency, imageURL string) error
}

type HistoryStore interface {
	Insert(ctx context.Context, productID string, price decimal.Decimal, currency string) error
}

type UserStore interface {
	GetEmail(ctx context.Context, userID string) (string, error)
}
