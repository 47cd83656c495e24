// Package price holds the pure price logic: turning raw scraped price
// strings into canonical decimals and classifying transitions. No I/O
// happens here.
package price

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice marks a raw price that did not parse to a positive number.
var ErrInvalidPrice = errors.New("invalid price")

// symbolCurrencies maps currency glyphs seen in scraped price strings to
// their ISO-4217 codes.
var symbolCurrencies = map[rune]string{
	'₹': "INR", '$': "USD", '€': "EUR", '£': "GBP", '¥': "JPY",
	'₩': "KRW", '₽': "RUB", '₫': "VND", '฿': "THB", '₴': "UAH", '₺': "TRY",
}

// Normalize converts a raw extracted price string into a decimal amount.
// It drops currency glyphs, letters and whitespace, resolves thousands vs
// decimal separators ("1,299.50", "1.299,50", "3,500" all work), and fails
// with ErrInvalidPrice when the remainder is not a positive number.
func Normalize(raw string) (decimal.Decimal, error) {
	// Keep digits, a sign, and separators that follow a digit; everything
	// else (currency glyphs, letters, whitespace, the dot in "Rs.") is
	// stripped.
	var b strings.Builder
	prevDigit := false
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			prevDigit = true
		case (r == '.' || r == ',') && prevDigit:
			b.WriteRune(r)
			prevDigit = false
		case r == '-':
			b.WriteRune(r)
			prevDigit = false
		}
	}
	cleaned := strings.TrimRight(b.String(), ".,")

	cleaned = resolveSeparators(cleaned)
	if !strings.ContainsFunc(cleaned, unicode.IsDigit) {
		return decimal.Zero, fmt.Errorf("%w: no digits in %q", ErrInvalidPrice, raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive %q", ErrInvalidPrice, raw)
	}
	return d, nil
}

// resolveSeparators rewrites s so that '.' is the only decimal separator
// and thousands separators are gone.
func resolveSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// European style: dots group thousands, comma is decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// A single comma followed by at most two digits is a decimal
		// comma; anything else groups thousands.
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		// "1.299.000" — all dots group thousands.
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// ResolveCurrency picks the currency for a normalized price: the extracted
// code when present, else a code implied by a glyph in the raw price string,
// else the configured fallback. Codes are upper-cased ISO-4217 style.
func ResolveCurrency(code, rawPrice, fallback string) string {
	if code = strings.TrimSpace(code); code != "" {
		return strings.ToUpper(code)
	}
	for _, r := range rawPrice {
		if iso, ok := symbolCurrencies[r]; ok {
			return iso
		}
	}
	return strings.ToUpper(fallback)
}
