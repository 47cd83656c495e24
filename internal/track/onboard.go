package track

import (
	"context"
	"fmt"
	"log"
	"strings"

	"priceping/internal/extractor"
	"priceping/internal/model"
	"priceping/internal/price"
)

// Onboarder runs the single-item flow used when a user registers a URL:
// one extract → normalize → upsert pass, no alerting. Unlike the batch
// run, every error here is fatal to the call and keeps its kind so the
// caller can show a specific message.
type Onboarder struct {
	Products  ProductStore
	History   HistoryStore
	Extractor extractor.Extractor

	FallbackCurrency string
}

// Onboard registers url for userID. isUpdate reports whether the user was
// already tracking this URL; in that case the existing row is refreshed
// instead of duplicated. A history entry is written for a new product or
// when the refresh changed the price.
func (o *Onboarder) Onboard(ctx context.Context, userID, url string) (product *model.Product, isUpdate bool, err error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, false, fmt.Errorf("%w: url is required", ErrValidation)
	}
	if userID == "" {
		return nil, false, fmt.Errorf("%w: not authenticated", ErrAuthorization)
	}

	rec, err := o.Extractor.Extract(ctx, url)
	if err != nil {
		return nil, false, err
	}

	newPrice, err := price.Normalize(rec.CurrentPrice)
	if err != nil {
		return nil, false, err
	}
	currency := price.ResolveCurrency(rec.CurrencyCode, rec.CurrentPrice, o.FallbackCurrency)

	existing, err := o.Products.GetByUserAndURL(ctx, userID, url)
	if err != nil {
		return nil, false, fmt.Errorf("%w: lookup product: %v", ErrPersistence, err)
	}
	isUpdate = existing != nil

	product, err = o.Products.Upsert(ctx, &model.Product{
		UserID:       userID,
		URL:          url,
		Name:         rec.ProductName,
		ImageURL:     rec.ProductImageURL,
		CurrentPrice: newPrice,
		Currency:     currency,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: upsert product: %v", ErrPersistence, err)
	}

	// Same history rule as the batch run: new product, or the price moved.
	if !isUpdate || !existing.CurrentPrice.Equal(newPrice) {
		if err := o.History.Insert(ctx, product.ID, newPrice, currency); err != nil {
			return nil, false, fmt.Errorf("%w: insert history: %v", ErrPersistence, err)
		}
	}

	log.Printf("[onboard] user %s tracks %s (update=%v, price=%s %s)",
		userID, url, isUpdate, newPrice, currency)
	return product, isUpdate, nil
}
