package price

import "github.com/shopspring/decimal"

// Change classifies a price transition against the previously stored price.
type Change int

const (
	// Created means there was no prior stored price.
	Created Change = iota
	Unchanged
	Increased
	Decreased
)

func (c Change) String() string {
	switch c {
	case Created:
		return "created"
	case Unchanged:
		return "unchanged"
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	}
	return "unknown"
}

// Classify compares a newly normalized price against the last stored one.
// Comparison is decimal-exact. Classification has no side effects: callers
// decide whether to write history (any non-Unchanged result) and whether
// to alert (Decreased only).
func Classify(old *decimal.Decimal, new decimal.Decimal) Change {
	if old == nil {
		return Created
	}
	switch old.Cmp(new) {
	case 0:
		return Unchanged
	case -1:
		return Increased
	default:
		return Decreased
	}
}
