package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider fetches daily exchange rates from an external FX source.
type RateProvider interface {
	// FetchRates returns units of each symbol per one unit of base for the given day.
	// Symbols the provider does not know are omitted from the result.
	FetchRates(ctx context.Context, base string, symbols []string, day time.Time) (map[string]decimal.Decimal, error)

	// Name identifies the provider in logs and refresh results.
	Name() string
}
