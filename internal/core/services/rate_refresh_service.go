package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/core/ports"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRateFetchTimeout bounds a single provider call when none is configured.
const DefaultRateFetchTimeout = 5 * time.Second

// RefreshListener is notified after every finished refresh run.
type RefreshListener func(result domain.RefreshResult)

// RateRefreshServiceOption is a function that configures a rateRefreshService
type RateRefreshServiceOption func(*rateRefreshService)

// WithRefreshAnchor sets the anchor currency rates are fetched against.
func WithRefreshAnchor(code string) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			s.anchorCurrency = code
		}
	}
}

// WithFetchTimeout sets the per-currency provider timeout.
func WithFetchTimeout(timeout time.Duration) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithRunRecorder persists every run.
func WithRunRecorder(recorder portsrepo.RefreshRunRecorder) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.runRecorder = recorder
	}
}

// WithRefreshListener registers a callback for finished runs.
func WithRefreshListener(listener RefreshListener) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.listeners = append(s.listeners, listener)
	}
}

// WithRefreshClock overrides the clock that decides "today".
func WithRefreshClock(clock Clock) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.SetClock(clock)
	}
}

// rateRefreshService implements the portssvc.RateRefreshSvc interface
type rateRefreshService struct {
	BaseService
	provider       ports.RateProvider
	writer         portsrepo.ServiceRateWriter
	instrumentRepo portsrepo.PaymentInstrumentReader
	authorizer     RefreshAuthorizer
	runRecorder    portsrepo.RefreshRunRecorder
	listeners      []RefreshListener
	anchorCurrency string
	fetchTimeout   time.Duration
}

// NewRateRefreshService creates the refresh job. The writer must carry the service credential scope.
func NewRateRefreshService(
	provider ports.RateProvider,
	writer portsrepo.ServiceRateWriter,
	instrumentRepo portsrepo.PaymentInstrumentReader,
	authorizer RefreshAuthorizer,
	options ...RateRefreshServiceOption,
) (portssvc.RateRefreshSvc, error) {
	if provider == nil {
		return nil, errors.New("rate refresh requires an FX provider")
	}
	if writer == nil {
		return nil, errors.New("rate refresh requires a service rate writer")
	}
	if scope := writer.CredentialScope(); scope != domain.CredentialScopeService {
		return nil, fmt.Errorf("rate refresh requires the service credential, got %q", scope)
	}
	if instrumentRepo == nil || authorizer == nil {
		return nil, errors.New("rate refresh requires an instrument reader and an authorizer")
	}

	svc := &rateRefreshService{
		provider:       provider,
		writer:         writer,
		instrumentRepo: instrumentRepo,
		authorizer:     authorizer,
		anchorCurrency: DefaultAnchorCurrency,
		fetchTimeout:   DefaultRateFetchTimeout,
	}
	for _, option := range options {
		option(svc)
	}
	return svc, nil
}

var _ portssvc.RateRefreshSvc = (*rateRefreshService)(nil)

// RefreshAll fetches anchor->X for every active currency X and stores both directions for today.
func (s *rateRefreshService) RefreshAll(ctx context.Context, presentedSecret string) (*domain.RefreshResult, error) {
	if err := s.authorizer.Authorize(presentedSecret); err != nil {
		s.LogWarn(ctx, "Rejected rate refresh", "reason", err.Error())
		return nil, err
	}

	currencies, err := s.targetCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active currencies")
		return nil, fmt.Errorf("failed to list active currencies: %w", err)
	}

	startedAt := s.Now()
	result := &domain.RefreshResult{
		RunID:          uuid.NewString(),
		AnchorCurrency: s.anchorCurrency,
		ValidDate:      domain.DateOf(startedAt),
		StartedAt:      startedAt,
		Failed:         []string{},
	}
	logger := s.GetLogger(ctx).With("run_id", result.RunID, "provider", s.provider.Name())

	for _, code := range currencies {
		pair := s.refreshCurrency(ctx, code, result.ValidDate, startedAt)
		if pair.OK() {
			logger.Info("Refreshed exchange rate", "anchor", s.anchorCurrency, "currency", code, "rate", pair.Rate.String())
		} else {
			logger.Warn("Exchange rate refresh failed", "anchor", s.anchorCurrency, "currency", code, "error", pair.Error)
		}
		result.Record(pair)
	}
	result.Finish(s.Now())

	summary := []any{
		"status", string(result.Status),
		"valid_date", result.ValidDate.Format(domain.DateLayout),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	}
	if err := result.Err(); err != nil {
		logger.Warn("Rate refresh finished with failures", append(summary, "error", err.Error())...)
	} else {
		logger.Info("Rate refresh finished", summary...)
	}

	if s.runRecorder != nil {
		if err := s.runRecorder.SaveRefreshRun(ctx, *result); err != nil {
			s.LogError(ctx, err, "Failed to record refresh run", "run_id", result.RunID)
		}
	}
	for _, listener := range s.listeners {
		listener(*result)
	}
	return result, nil
}

// targetCurrencies returns the distinct active instrument currencies, sorted, without the anchor.
func (s *rateRefreshService) targetCurrencies(ctx context.Context) ([]string, error) {
	codes, err := s.instrumentRepo.ListActiveCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || code == s.anchorCurrency {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out, nil
}

func (s *rateRefreshService) refreshCurrency(ctx context.Context, code string, day, recordedAt time.Time) domain.PairRefresh {
	pair := domain.PairRefresh{CurrencyCode: code}

	rate, err := s.fetch(ctx, code, day)
	if err != nil {
		pair.Error = err.Error()
		return pair
	}

	forward := rate.Round(domain.RateScale)
	reverse := domain.Reciprocal(rate).Round(domain.RateScale)
	if !forward.IsPositive() || !reverse.IsPositive() {
		pair.Error = fmt.Sprintf("rate %s does not survive rounding to %d places", rate, domain.RateScale)
		return pair
	}

	rows := []domain.ExchangeRate{
		{FromCurrencyCode: s.anchorCurrency, ToCurrencyCode: code, Rate: forward},
		{FromCurrencyCode: code, ToCurrencyCode: s.anchorCurrency, Rate: reverse},
	}
	for _, row := range rows {
		row.ValidDate = day
		row.Source = domain.RateSourceFetched
		row.RecordedAt = recordedAt
		row.RecordedBy = s.provider.Name()
		if err := s.write(ctx, row); err != nil {
			pair.Error = err.Error()
			return pair
		}
	}
	pair.Rate = forward
	return pair
}

func (s *rateRefreshService) fetch(ctx context.Context, code string, day time.Time) (decimal.Decimal, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rates, err := s.provider.FetchRates(fetchCtx, s.anchorCurrency, []string{code}, day)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return decimal.Zero, fmt.Errorf("fetch timed out after %s", s.fetchTimeout)
		}
		return decimal.Zero, fmt.Errorf("fetch failed: %w", err)
	}
	rate, ok := rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("provider returned no rate for %s", code)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("provider returned non-positive rate %s", rate)
	}
	return rate, nil
}

func (s *rateRefreshService) write(ctx context.Context, row domain.ExchangeRate) error {
	if err := row.Validate(); err != nil {
		return err
	}
	n, err := s.writer.UpsertExchangeRate(ctx, row)
	if err != nil {
		return fmt.Errorf("write %s->%s failed: %w", row.FromCurrencyCode, row.ToCurrencyCode, err)
	}
	if n == 0 {
		return fmt.Errorf("write %s->%s affected no rows", row.FromCurrencyCode, row.ToCurrencyCode)
	}
	return nil
}

// LastRun returns the most recent recorded run.
func (s *rateRefreshService) LastRun(ctx context.Context, presentedSecret string) (*domain.RefreshResult, error) {
	if err := s.authorizer.Authorize(presentedSecret); err != nil {
		return nil, err
	}
	if s.runRecorder == nil {
		return nil, apperrors.NewNotFoundError("refresh runs are not recorded")
	}
	run, err := s.runRecorder.FindLastRefreshRun(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load last refresh run")
		}
		return nil, err
	}
	return run, nil
}
