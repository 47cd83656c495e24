// Package notifier delivers price-drop emails through the Resend HTTP API.
// Delivery is best-effort: errors are reported to the caller but never
// escalate past the alerting boundary.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

type Notifier interface {
	SendPriceDropAlert(ctx context.Context, to string, product *model.Product, oldPrice, newPrice decimal.Decimal) error
}

// Resend sends email through api.resend.com.
type Resend struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewResend(apiKey, from string) *Resend {
	return &Resend{
		apiURL:     "https://api.resend.com",
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (r *Resend) SendPriceDropAlert(ctx context.Context, to string, product *model.Product, oldPrice, newPrice decimal.Decimal) error {
	subject := fmt.Sprintf("Price drop: %s is now %s %s", product.Name, newPrice.StringFixed(2), product.Currency)
	html := fmt.Sprintf(
		`<p>The price of <strong>%s</strong> dropped from %s %s to <strong>%s %s</strong>.</p>`+
			`<p><a href="%s">View the product</a></p>`,
		product.Name,
		oldPrice.StringFixed(2), product.Currency,
		newPrice.StringFixed(2), product.Currency,
		product.URL,
	)

	body, err := json.Marshal(sendRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal alert email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("resend status %d", resp.StatusCode)
	}
	return nil
}
