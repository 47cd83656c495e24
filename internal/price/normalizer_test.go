package price

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"₹1,299.50", "1299.5"},
		{"$1,299.50", "1299.5"},
		{"€1.299,50", "1299.5"},
		{"₹80", "80"},
		{"$ 49.99", "49.99"},
		{"1 299,50", "1299.5"},
		{"£3,500", "3500"},
		{"Rs. 2,499", "2499"},
		{"USD 99", "99"},
		{"1.299.000", "1299000"},
		{"99,5", "99.5"},
		{"0.01", "0.01"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw)
		if err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Normalize(%q) = %s; want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, raw := range []string{"", "free", "N/A", "₹", "0", "0.00", "-10", "$-5.00", "..."} {
		_, err := Normalize(raw)
		if err == nil {
			t.Errorf("Normalize(%q) expected error, got nil", raw)
			continue
		}
		if !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("Normalize(%q) error = %v; want ErrInvalidPrice", raw, err)
		}
	}
}

func TestResolveCurrency(t *testing.T) {
	tests := []struct {
		code, raw, fallback, want string
	}{
		{"USD", "₹1,299", "INR", "USD"},
		{"usd", "", "INR", "USD"},
		{"", "₹1,299.50", "USD", "INR"},
		{"", "€49,90", "INR", "EUR"},
		{"", "1299", "INR", "INR"},
		{"  ", "1299", "inr", "INR"},
	}
	for _, tt := range tests {
		if got := ResolveCurrency(tt.code, tt.raw, tt.fallback); got != tt.want {
			t.Errorf("ResolveCurrency(%q, %q, %q) = %q; want %q", tt.code, tt.raw, tt.fallback, got, tt.want)
		}
	}
}
