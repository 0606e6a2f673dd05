package services

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/shopspring/decimal"
)

// RateResolverSvc resolves and applies exchange rates. All methods are read-only.
type RateResolverSvc interface {
	// ResolveRate returns the rate for the pair as of date: identity, direct, inverse,
	// then triangulated through the anchor currency. Errors match apperrors.ErrRateNotFound
	// when nothing qualifies.
	ResolveRate(ctx context.Context, from, to string, date time.Time) (*domain.ResolvedRate, error)

	// ResolveLatestRate is ResolveRate without the date bound: the newest rate on any date.
	ResolveLatestRate(ctx context.Context, from, to string) (*domain.ResolvedRate, error)

	// Convert resolves the rate as of date and applies it, rounding to two decimal places.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (*domain.ConversionResult, error)
}

// ExchangeRateAdminSvc manages the stored rates themselves.
type ExchangeRateAdminSvc interface {
	// CreateManualRate records a manual override for one pair and day.
	CreateManualRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// ListExchangeRates lists stored rates.
	ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate service interfaces
type ExchangeRateSvcFacade interface {
	RateResolverSvc
	ExchangeRateAdminSvc
}

// RateRefreshSvc runs the out-of-band job that pulls today's rates from the FX provider.
type RateRefreshSvc interface {
	// RefreshAll fetches and stores today's rate for every active instrument currency.
	// The presented secret must match the scheduler secret, otherwise the call fails
	// with apperrors.ErrUnauthorizedRefresh and nothing is fetched.
	RefreshAll(ctx context.Context, presentedSecret string) (*domain.RefreshResult, error)

	// LastRun returns the most recent recorded run, under the same secret.
	LastRun(ctx context.Context, presentedSecret string) (*domain.RefreshResult, error)
}
