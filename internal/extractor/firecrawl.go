package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"priceping/internal/model"
)

// productSchema is the fixed extraction schema sent to Firecrawl.
// productName and currentPrice are required at the schema level.
var productSchema = map[string]any{
	"type":     "object",
	"required": []string{"productName", "currentPrice"},
	"properties": map[string]any{
		"productName": map[string]any{
			"type":        "string",
			"description": "The name or title of the product",
		},
		"currentPrice": map[string]any{
			"type":        "string",
			"description": "The current selling price of the product (numeric value with currency symbol)",
		},
		"currencyCode": map[string]any{
			"type":        "string",
			"description": "The currency code like USD, INR, EUR, etc.",
		},
		"productImageUrl": map[string]any{
			"type":        "string",
			"description": "The main product image URL",
		},
	},
}

// Firecrawl extracts product data through the Firecrawl scrape API.
type Firecrawl struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewFirecrawl(apiURL, apiKey string) *Firecrawl {
	return &Firecrawl{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type scrapeRequest struct {
	URL     string        `json:"url"`
	Formats []string      `json:"formats"`
	Extract scrapeExtract `json:"extract"`
}

type scrapeExtract struct {
	Schema map[string]any `json:"schema"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Extract *model.ExtractedProduct `json:"extract"`
	} `json:"data"`
}

func (f *Firecrawl) Extract(ctx context.Context, url string) (*model.ExtractedProduct, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:     url,
		Formats: []string{"extract"},
		Extract: scrapeExtract{Schema: productSchema},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrExtract, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: firecrawl status %d", ErrExtract, resp.StatusCode)
	}

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExtract, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: firecrawl: %s", ErrExtract, result.Error)
	}
	if err := checkRequired(result.Data.Extract); err != nil {
		return nil, err
	}
	return result.Data.Extract, nil
}
