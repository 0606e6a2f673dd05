package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func stringPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// --- fakeRateStore ---

type rateKey struct {
	from, to string
	date     time.Time
}

// fakeRateStore is an in-memory rate store acting as both the user-scoped reader
// and the service-scoped writer.
type fakeRateStore struct {
	mu    sync.Mutex
	rows  map[rateKey]domain.ExchangeRate
	scope domain.CredentialScope
	// rowsAffected, when set, is returned instead of 1
	rowsAffected *int64
	writes       int
}

func newFakeRateStore(rates ...domain.ExchangeRate) *fakeRateStore {
	s := &fakeRateStore{rows: map[rateKey]domain.ExchangeRate{}, scope: domain.CredentialScopeService}
	for _, r := range rates {
		s.rows[rateKey{r.FromCurrencyCode, r.ToCurrencyCode, r.ValidDate}] = r
	}
	return s
}

func storedRate(from, to, rate string, validDate time.Time, recordedAt time.Time) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             dec(rate),
		ValidDate:        validDate,
		Source:           domain.RateSourceSeed,
		RecordedAt:       recordedAt,
	}
}

func (s *fakeRateStore) find(from, to string, accept func(time.Time) bool) (*domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *domain.ExchangeRate
	for k, r := range s.rows {
		if k.from != from || k.to != to || !accept(k.date) {
			continue
		}
		if best == nil || r.ValidDate.After(best.ValidDate) {
			r := r
			best = &r
		}
	}
	if best == nil {
		return nil, apperrors.NewNotFoundError("exchange rate not found")
	}
	return best, nil
}

func (s *fakeRateStore) FindRateAsOf(_ context.Context, from, to string, asOf time.Time) (*domain.ExchangeRate, error) {
	return s.find(from, to, func(d time.Time) bool { return !d.After(asOf) })
}

func (s *fakeRateStore) FindLatestRate(_ context.Context, from, to string) (*domain.ExchangeRate, error) {
	return s.find(from, to, func(time.Time) bool { return true })
}

func (s *fakeRateStore) ListExchangeRates(_ context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ExchangeRate{}
	for _, r := range s.rows {
		if filter.FromCurrencyCode != nil && r.FromCurrencyCode != *filter.FromCurrencyCode {
			continue
		}
		if filter.ToCurrencyCode != nil && r.ToCurrencyCode != *filter.ToCurrencyCode {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ValidDate.After(out[j].ValidDate) })
	return out, nil
}

func (s *fakeRateStore) UpsertExchangeRate(_ context.Context, rate domain.ExchangeRate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.rowsAffected != nil {
		if *s.rowsAffected == 0 {
			return 0, nil
		}
	}
	s.rows[rateKey{rate.FromCurrencyCode, rate.ToCurrencyCode, rate.ValidDate}] = rate
	return 1, nil
}

func (s *fakeRateStore) CredentialScope() domain.CredentialScope { return s.scope }

func (s *fakeRateStore) get(from, to string, date time.Time) (domain.ExchangeRate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[rateKey{from, to, date}]
	return r, ok
}

func (s *fakeRateStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// --- fakeProvider ---

type fakeProvider struct {
	mu     sync.Mutex
	rates  map[string]decimal.Decimal
	errs   map[string]error
	block  map[string]bool // wait for ctx cancellation
	calls  []string
	bases  []string
	dayArg time.Time
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchRates(ctx context.Context, base string, symbols []string, day time.Time) (map[string]decimal.Decimal, error) {
	p.mu.Lock()
	p.calls = append(p.calls, symbols...)
	p.bases = append(p.bases, base)
	p.dayArg = day
	p.mu.Unlock()

	out := map[string]decimal.Decimal{}
	for _, sym := range symbols {
		if p.block[sym] {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		if err := p.errs[sym]; err != nil {
			return nil, err
		}
		if r, ok := p.rates[sym]; ok {
			out[sym] = r
		}
	}
	return out, nil
}

// --- MockUserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- MockPaymentInstrumentRepository ---

type MockPaymentInstrumentRepository struct {
	mock.Mock
}

func (m *MockPaymentInstrumentRepository) FindPaymentInstrumentByID(ctx context.Context, instrumentID string) (*domain.PaymentInstrument, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentInstrument), args.Error(1)
}

func (m *MockPaymentInstrumentRepository) ListPaymentInstrumentsByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.PaymentInstrument, error) {
	args := m.Called(ctx, ownerID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentInstrument), args.Error(1)
}

func (m *MockPaymentInstrumentRepository) ListActiveCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPaymentInstrumentRepository) SavePaymentInstrument(ctx context.Context, instrument domain.PaymentInstrument) error {
	args := m.Called(ctx, instrument)
	return args.Error(0)
}

func (m *MockPaymentInstrumentRepository) UpdatePaymentInstrument(ctx context.Context, instrument domain.PaymentInstrument) error {
	args := m.Called(ctx, instrument)
	return args.Error(0)
}

func (m *MockPaymentInstrumentRepository) SetDefaultPaymentInstrument(ctx context.Context, ownerID, instrumentID, userID string, now time.Time) error {
	args := m.Called(ctx, ownerID, instrumentID, userID, now)
	return args.Error(0)
}

// --- MockTransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) SumNativeBalancesByInstrument(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) ListBudgetTransactions(ctx context.Context, budget domain.Budget) ([]domain.Transaction, error) {
	args := m.Called(ctx, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// --- MockBudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByOwner(ctx context.Context, ownerID string, year int, month time.Month) ([]domain.Budget, error) {
	args := m.Called(ctx, ownerID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

// --- MockRefreshRunRecorder ---

type MockRefreshRunRecorder struct {
	mock.Mock
}

func (m *MockRefreshRunRecorder) SaveRefreshRun(ctx context.Context, result domain.RefreshResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockRefreshRunRecorder) FindLastRefreshRun(ctx context.Context) (*domain.RefreshResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshResult), args.Error(1)
}
