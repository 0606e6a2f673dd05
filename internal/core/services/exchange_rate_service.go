package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/shopspring/decimal"
)

// DefaultAnchorCurrency is used for triangulation when none is configured.
const DefaultAnchorCurrency = "USD"

// ExchangeRateServiceOption is a function that configures an exchangeRateService
type ExchangeRateServiceOption func(*exchangeRateService)

// WithAnchorCurrency sets the currency used to triangulate pairs with no stored rate.
func WithAnchorCurrency(code string) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			s.anchorCurrency = code
		}
	}
}

// WithManualRateWriter enables manual overrides through the service-scoped writer.
func WithManualRateWriter(writer portsrepo.ServiceRateWriter) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.rateWriter = writer
	}
}

// WithRateClock overrides the clock used for "today" and recorded_at.
func WithRateClock(clock Clock) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.SetClock(clock)
	}
}

// exchangeRateService implements the portssvc.ExchangeRateSvcFacade interface
type exchangeRateService struct {
	BaseService
	rateRepo       portsrepo.ExchangeRateReader
	rateWriter     portsrepo.ServiceRateWriter
	anchorCurrency string
}

// NewExchangeRateService creates a new exchange rate service with the given options
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateReader, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo:       rateRepo,
		anchorCurrency: DefaultAnchorCurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// rateFinder looks up one stored row for a pair; it is FindRateAsOf bound to a date, or FindLatestRate.
type rateFinder func(ctx context.Context, from, to string) (*domain.ExchangeRate, error)

func (s *exchangeRateService) asOf(date time.Time) rateFinder {
	return func(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
		return s.rateRepo.FindRateAsOf(ctx, from, to, date)
	}
}

func (s *exchangeRateService) latest(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindLatestRate(ctx, from, to)
}

// ResolveRate returns the rate for from->to as of date.
func (s *exchangeRateService) ResolveRate(ctx context.Context, from, to string, date time.Time) (*domain.ResolvedRate, error) {
	if date.IsZero() {
		date = s.Now()
	}
	date = domain.DateOf(date)
	return s.resolve(ctx, from, to, date, s.asOf(date))
}

// ResolveLatestRate returns the newest rate for from->to on any date.
func (s *exchangeRateService) ResolveLatestRate(ctx context.Context, from, to string) (*domain.ResolvedRate, error) {
	return s.resolve(ctx, from, to, time.Time{}, s.latest)
}

func (s *exchangeRateService) resolve(ctx context.Context, from, to string, date time.Time, find rateFinder) (*domain.ResolvedRate, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if !domain.IsCurrencyCode(from) || !domain.IsCurrencyCode(to) {
		return nil, apperrors.NewValidationError("currency codes must be three letters")
	}

	if from == to {
		identity := domain.IdentityRate(from, s.dateOrToday(date))
		return &identity, nil
	}

	rate, err := s.resolvePair(ctx, from, to, find)
	if err != nil {
		return nil, err
	}
	if rate != nil {
		return rate, nil
	}

	anchor := s.anchorCurrency
	if anchor != "" && from != anchor && to != anchor {
		first, err := s.resolvePair(ctx, from, anchor, find)
		if err != nil {
			return nil, err
		}
		if first != nil {
			second, err := s.resolvePair(ctx, anchor, to, find)
			if err != nil {
				return nil, err
			}
			if second != nil {
				triangulated := domain.Triangulate(*first, *second)
				s.LogDebug(ctx, "Resolved rate through anchor", "from", from, "to", to, "via", anchor)
				return &triangulated, nil
			}
		}
	}

	return nil, apperrors.NewRateNotFoundError(from, to, date)
}

// resolvePair tries the stored row for from->to, then the reciprocal of to->from.
// It returns nil, nil when neither exists.
func (s *exchangeRateService) resolvePair(ctx context.Context, from, to string, find rateFinder) (*domain.ResolvedRate, error) {
	direct, err := find(ctx, from, to)
	switch {
	case err == nil:
		rate := domain.DirectRate(*direct)
		return &rate, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up exchange rate", "from", from, "to", to)
		return nil, fmt.Errorf("failed to look up rate %s to %s: %w", from, to, err)
	}

	inverse, err := find(ctx, to, from)
	switch {
	case err == nil:
		rate := domain.InverseRate(*inverse)
		return &rate, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up inverse exchange rate", "from", to, "to", from)
		return nil, fmt.Errorf("failed to look up rate %s to %s: %w", to, from, err)
	}
	return nil, nil
}

func (s *exchangeRateService) dateOrToday(date time.Time) time.Time {
	if date.IsZero() {
		return domain.DateOf(s.Now())
	}
	return date
}

// Convert resolves the rate as of date and applies it to amount.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (*domain.ConversionResult, error) {
	rate, err := s.ResolveRate(ctx, from, to, date)
	if err != nil {
		return nil, err
	}
	return &domain.ConversionResult{
		Amount:          amount,
		ConvertedAmount: domain.ApplyRate(amount, rate.Rate),
		Rate:            *rate,
	}, nil
}

// CreateManualRate records a manual override, which later fetched rates for the same day do not replace.
func (s *exchangeRateService) CreateManualRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	if s.rateWriter == nil {
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "manual rates are disabled: no service credential configured", nil)
	}
	if req.Rate == nil {
		return nil, apperrors.NewValidationError("rate is required")
	}
	validDate, err := domain.ParseDate(req.ValidDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	rate := domain.ExchangeRate{
		FromCurrencyCode: strings.ToUpper(req.FromCurrencyCode),
		ToCurrencyCode:   strings.ToUpper(req.ToCurrencyCode),
		Rate:             req.Rate.Round(domain.RateScale),
		ValidDate:        validDate,
		Source:           domain.RateSourceManual,
		RecordedAt:       s.Now(),
		RecordedBy:       userID,
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.rateWriter.UpsertExchangeRate(ctx, rate)
	if err != nil {
		s.LogError(ctx, err, "Failed to store manual exchange rate",
			"from", rate.FromCurrencyCode, "to", rate.ToCurrencyCode, "valid_date", req.ValidDate)
		return nil, fmt.Errorf("failed to store manual rate: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "manual rate was not written", nil)
	}

	s.LogInfo(ctx, "Manual exchange rate recorded",
		"from", rate.FromCurrencyCode, "to", rate.ToCurrencyCode, "rate", rate.Rate.String(), "valid_date", req.ValidDate)
	return &rate, nil
}

// ListExchangeRates lists stored rates.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	rates, err := s.rateRepo.ListExchangeRates(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}
