// Package extractor wraps the external scraping backends behind one
// interface: given a URL, return the structured product record or fail.
// This is the only network boundary in the pipeline besides persistence
// and notification, so everything here is swappable in tests.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"priceping/internal/model"
)

// ErrExtract marks any extraction failure: the backend call itself, an
// empty payload, or a payload missing a required field.
var ErrExtract = errors.New("extraction failed")

type Extractor interface {
	Extract(ctx context.Context, url string) (*model.ExtractedProduct, error)
}

// checkRequired rejects payloads lacking productName or currentPrice
// before any normalization is attempted.
func checkRequired(rec *model.ExtractedProduct) error {
	if rec == nil {
		return fmt.Errorf("%w: no data extracted", ErrExtract)
	}
	if rec.ProductName == "" {
		return fmt.Errorf("%w: missing productName", ErrExtract)
	}
	if rec.CurrentPrice == "" {
		return fmt.Errorf("%w: missing currentPrice", ErrExtract)
	}
	return nil
}
