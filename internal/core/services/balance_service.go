package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultRateCacheTTL is how long a resolved rate counts as fresh when none is configured.
const DefaultRateCacheTTL = 24 * time.Hour

// BalanceServiceOption is a function that configures a balanceService
type BalanceServiceOption func(*balanceService)

// WithRateTTL sets the freshness window of rates used for balances.
func WithRateTTL(ttl time.Duration) BalanceServiceOption {
	return func(s *balanceService) {
		s.rateTTL = ttl
	}
}

// WithBalanceUserReader lets an empty reporting currency fall back to the owner's profile.
func WithBalanceUserReader(userRepo portsrepo.UserReader) BalanceServiceOption {
	return func(s *balanceService) {
		s.userRepo = userRepo
	}
}

// WithBalanceClock overrides the clock that decides "today".
func WithBalanceClock(clock Clock) BalanceServiceOption {
	return func(s *balanceService) {
		s.SetClock(clock)
	}
}

// balanceService implements the portssvc.BalanceSvc interface
type balanceService struct {
	BaseService
	rates          portssvc.RateResolverSvc
	instrumentRepo portsrepo.PaymentInstrumentReader
	txnRepo        portsrepo.TransactionReader
	userRepo       portsrepo.UserReader
	rateTTL        time.Duration
}

// NewBalanceService creates a new balance aggregator.
func NewBalanceService(
	rates portssvc.RateResolverSvc,
	instrumentRepo portsrepo.PaymentInstrumentReader,
	txnRepo portsrepo.TransactionReader,
	options ...BalanceServiceOption,
) portssvc.BalanceSvc {
	svc := &balanceService{
		rates:          rates,
		instrumentRepo: instrumentRepo,
		txnRepo:        txnRepo,
		rateTTL:        DefaultRateCacheTTL,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// TotalBalance converts every active instrument's native balance into reportingCurrency.
func (s *balanceService) TotalBalance(ctx context.Context, ownerID, reportingCurrency string) (*domain.BalanceReport, error) {
	currency, err := s.reportingCurrency(ctx, ownerID, reportingCurrency)
	if err != nil {
		return nil, err
	}

	instruments, err := s.instrumentRepo.ListPaymentInstrumentsByOwner(ctx, ownerID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment instruments", "owner_id", ownerID)
		return nil, fmt.Errorf("failed to list payment instruments: %w", err)
	}
	balances, err := s.txnRepo.SumNativeBalancesByInstrument(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum instrument balances", "owner_id", ownerID)
		return nil, fmt.Errorf("failed to sum instrument balances: %w", err)
	}

	now := s.Now()
	report := &domain.BalanceReport{
		OwnerID:           ownerID,
		ReportingCurrency: currency,
		AsOf:              domain.DateOf(now),
		Total:             decimal.Zero,
		Instruments:       make([]domain.InstrumentBalance, 0, len(instruments)),
	}

	for _, pi := range instruments {
		native, ok := balances[pi.PaymentInstrumentID]
		if !ok {
			native = decimal.Zero
		}
		item := domain.InstrumentBalance{
			PaymentInstrumentID: pi.PaymentInstrumentID,
			Name:                pi.Name,
			CurrencyCode:        pi.CurrencyCode,
			NativeBalance:       native,
		}

		rate, stale, err := s.rateFor(ctx, pi.CurrencyCode, currency, now)
		switch {
		case errors.Is(err, apperrors.ErrRateNotFound):
			s.LogWarn(ctx, "No exchange rate for instrument balance",
				"instrument_id", pi.PaymentInstrumentID, "from", pi.CurrencyCode, "to", currency)
			item.ConversionUnavailable = true
			report.UnavailableCount++
		case err != nil:
			return nil, err
		default:
			converted := domain.ApplyRate(native, rate.Rate)
			item.ConvertedBalance = &converted
			item.Rate = rate
			item.Stale = stale
			report.Total = report.Total.Add(converted)
			report.HasStaleRates = report.HasStaleRates || stale
		}
		report.Instruments = append(report.Instruments, item)
	}

	return report, nil
}

// rateFor resolves today's rate, falling back to the newest rate on any date. Fallback rates are stale.
func (s *balanceService) rateFor(ctx context.Context, from, to string, now time.Time) (*domain.ResolvedRate, bool, error) {
	rate, err := s.rates.ResolveRate(ctx, from, to, now)
	if err == nil {
		return rate, rate.IsStale(now, s.rateTTL), nil
	}
	if !errors.Is(err, apperrors.ErrRateNotFound) {
		return nil, false, err
	}

	rate, err = s.rates.ResolveLatestRate(ctx, from, to)
	if err != nil {
		return nil, false, err
	}
	return rate, true, nil
}

func (s *balanceService) reportingCurrency(ctx context.Context, ownerID, requested string) (string, error) {
	if requested = strings.ToUpper(strings.TrimSpace(requested)); requested != "" {
		return requested, nil
	}
	if s.userRepo == nil {
		return "", apperrors.NewValidationError("reporting currency is required")
	}
	user, err := s.userRepo.FindUserByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return user.ReportingCurrency, nil
}
