package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
// Lookups return an error matching apperrors.ErrNotFound when no row qualifies.
type ExchangeRateReader interface {
	// FindRateAsOf retrieves the stored rate for the pair with the most recent valid_date on or before asOf.
	FindRateAsOf(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error)

	// FindLatestRate retrieves the stored rate for the pair with the most recent valid_date, whatever the date.
	FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves stored rates matching the filter, newest first.
	ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts the rate or replaces the row with the same (from, to, valid_date).
	// It returns the number of rows written; callers treat zero as a failed write.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (int64, error)
}

// ServiceRateWriter is an ExchangeRateWriter backed by the elevated service credential.
// End-user credentials cannot write the rate store.
type ServiceRateWriter interface {
	ExchangeRateWriter

	// CredentialScope reports which credential the writer was built from.
	CredentialScope() domain.CredentialScope
}

// RefreshRunRecorder persists and reads back the outcome of rate refresh runs.
type RefreshRunRecorder interface {
	// SaveRefreshRun stores the result of a finished run.
	SaveRefreshRun(ctx context.Context, result domain.RefreshResult) error

	// FindLastRefreshRun retrieves the most recently started run.
	FindLastRefreshRun(ctx context.Context) (*domain.RefreshResult, error)
}
