package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

func TestResendSendPriceDropAlert(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer re-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"id": "email_1"}`))
	}))
	defer srv.Close()

	n := NewResend("re-test", "alerts@priceping.dev")
	n.apiURL = srv.URL

	product := &model.Product{
		Name:     "Mechanical Keyboard",
		URL:      "https://shop.example/p/1",
		Currency: "INR",
	}
	oldPrice := decimal.RequireFromString("100.00")
	newPrice := decimal.RequireFromString("80")

	if err := n.SendPriceDropAlert(context.Background(), "user@example.com", product, oldPrice, newPrice); err != nil {
		t.Fatalf("SendPriceDropAlert() error: %v", err)
	}

	if len(got.To) != 1 || got.To[0] != "user@example.com" {
		t.Errorf("To = %v", got.To)
	}
	if got.From != "alerts@priceping.dev" {
		t.Errorf("From = %q", got.From)
	}
	if !strings.Contains(got.Subject, "Mechanical Keyboard") {
		t.Errorf("Subject = %q", got.Subject)
	}
	for _, want := range []string{"100.00", "80.00", "https://shop.example/p/1"} {
		if !strings.Contains(got.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestResendSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewResend("bad-key", "alerts@priceping.dev")
	n.apiURL = srv.URL

	err := n.SendPriceDropAlert(context.Background(), "user@example.com",
		&model.Product{Name: "X", Currency: "INR"},
		decimal.RequireFromString("2"), decimal.RequireFromString("1"))
	if err == nil {
		t.Fatal("SendPriceDropAlert() expected error, got nil")
	}
}
