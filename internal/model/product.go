package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a (user, URL) pair whose price is monitored over time.
// (user_id, url) is unique: re-adding the same URL updates the row.
type Product struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	URL          string          `json:"url"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url,omitempty"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Currency     string          `json:"currency"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PriceHistory is an append-only record of a price the product was seen at.
type PriceHistory struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// User mirrors the identity provider at the persistence boundary. Only the
// contact address and the API token are ever read.
type User struct {
	ID       string
	Email    string
	APIToken string
}

// ExtractedProduct is the raw payload the extraction backend returns for a
// URL. ProductName and CurrentPrice are required; the price is an
// unnormalized string ("₹1,299.50").
type ExtractedProduct struct {
	ProductName     string `json:"productName"`
	CurrentPrice    string `json:"currentPrice"`
	CurrencyCode    string `json:"currencyCode,omitempty"`
	ProductImageURL string `json:"productImageUrl,omitempty"`
}

// RunReport aggregates one reconciliation pass. It lives only in the
// trigger response, never in storage.
type RunReport struct {
	Total       int `json:"total"`
	Updated     int `json:"updated"`
	Failed      int `json:"failed"`
	PriceChange int `json:"priceChange"`
	AlertSent   int `json:"alertSent"`
}
