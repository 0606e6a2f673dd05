package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/handlers"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/SscSPs/multicurrency_tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "user-1"

var march15 = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

type HandlersTestSuite struct {
	suite.Suite
	router      *gin.Engine
	cfg         *config.Config
	rates       *MockExchangeRateService
	txns        *MockTransactionService
	budgets     *MockBudgetService
	balances    *MockBalanceService
	refresh     *MockRateRefreshService
	jwtSecret   string
	bearerToken string
}

// generateTestToken creates a signed JWT for the given subject.
func (suite *HandlersTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fx-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.cfg = &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}

	suite.rates = new(MockExchangeRateService)
	suite.txns = new(MockTransactionService)
	suite.budgets = new(MockBudgetService)
	suite.balances = new(MockBalanceService)
	suite.refresh = new(MockRateRefreshService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		ExchangeRate: suite.rates,
		Transaction:  suite.txns,
		Budget:       suite.budgets,
		Balance:      suite.balances,
		RateRefresh:  suite.refresh,
	}, handlers.RouteDeps{})
	suite.bearerToken = suite.generateTestToken(testUserID)
}

func (suite *HandlersTestSuite) do(method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) authed(method, url string, body any) *httptest.ResponseRecorder {
	return suite.do(method, url, body, map[string]string{"Authorization": "Bearer " + suite.bearerToken})
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestRequiresBearerToken() {
	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/resolve?from=EUR&to=USD", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.rates.AssertNotCalled(suite.T(), "ResolveRate")
}

func (suite *HandlersTestSuite) TestConvert_Success() {
	res := &domain.ConversionResult{
		Amount:          decimal.NewFromInt(100),
		ConvertedAmount: decimal.RequireFromString("108.70"),
		Rate: domain.ResolvedRate{
			FromCurrencyCode: "EUR", ToCurrencyCode: "USD",
			Rate:          decimal.RequireFromString("1.0869565217391304"),
			EffectiveDate: march15, Source: domain.RateSourceFetched, Method: domain.ResolutionInverse,
		},
	}
	suite.rates.On("Convert", mock.Anything,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
		"EUR", "USD",
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(march15) }),
	).Return(res, nil).Once()

	w := suite.authed(http.MethodGet, "/api/v1/exchange-rates/convert?amount=100&from=EUR&to=USD&date=2024-03-15", nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("108.7", body["convertedAmount"])
	rate := body["rate"].(map[string]any)
	suite.Equal("inverse", rate["method"])
	suite.Equal("2024-03-15", rate["effectiveDate"])
	suite.rates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestResolve_RateNotFoundIs422() {
	suite.rates.On("ResolveRate", mock.Anything, "EUR", "JPY", mock.Anything).
		Return(nil, apperrors.NewRateNotFoundError("EUR", "JPY", march15)).Once()

	w := suite.authed(http.MethodGet, "/api/v1/exchange-rates/resolve?from=EUR&to=JPY&date=2024-03-15", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	body := suite.decode(w)
	suite.Equal("EUR", body["from"])
	suite.Equal("JPY", body["to"])
	suite.Equal("2024-03-15", body["date"])
}

func (suite *HandlersTestSuite) TestResolve_RejectsUnknownCurrency() {
	w := suite.authed(http.MethodGet, "/api/v1/exchange-rates/resolve?from=eur&to=USD", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.rates.AssertNotCalled(suite.T(), "ResolveRate")
}

func (suite *HandlersTestSuite) TestCreateManualRate_PassesUser() {
	rate := decimal.RequireFromString("0.93")
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: rate,
		ValidDate: march15, Source: domain.RateSourceManual, RecordedAt: march15,
	}
	suite.rates.On("CreateManualRate", mock.Anything,
		mock.MatchedBy(func(r dto.CreateExchangeRateRequest) bool {
			return r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "EUR" && r.Rate.Equal(rate) && r.ValidDate == "2024-03-15"
		}), testUserID).Return(stored, nil).Once()

	w := suite.authed(http.MethodPost, "/api/v1/exchange-rates", map[string]any{
		"fromCurrencyCode": "USD", "toCurrencyCode": "EUR", "rate": "0.93", "validDate": "2024-03-15",
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("manual", suite.decode(w)["source"])
	suite.rates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCreateManualRate_SamePairRejected() {
	w := suite.authed(http.MethodPost, "/api/v1/exchange-rates", map[string]any{
		"fromCurrencyCode": "USD", "toCurrencyCode": "USD", "rate": "1", "validDate": "2024-03-15",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.rates.AssertNotCalled(suite.T(), "CreateManualRate")
}

func (suite *HandlersTestSuite) TestCreateTransaction_NoRateIs422() {
	suite.txns.On("CreateTransaction", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewRateNotFoundError("JPY", "USD", march15)).Once()

	w := suite.authed(http.MethodPost, "/api/v1/transactions", map[string]any{
		"paymentInstrumentID": "pi-jpy", "type": "EXPENSE", "nativeAmount": "1000", "transactionDate": "2024-03-15",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTransaction_InvalidScopeIs400() {
	suite.txns.On("CreateTransaction", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewInvalidScopeError("amount is derived for instrument transactions")).Once()

	w := suite.authed(http.MethodPost, "/api/v1/transactions", map[string]any{
		"paymentInstrumentID": "pi-jpy", "type": "EXPENSE", "amount": "5", "nativeAmount": "1000", "transactionDate": "2024-03-15",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTransaction_Created() {
	pi := "pi-jpy"
	txn := &domain.Transaction{
		TransactionID: "txn-1", OwnerID: testUserID, PaymentInstrumentID: &pi, Type: domain.Expense,
		Amount: decimal.RequireFromString("6.69"),
		Conversion: &domain.ConversionDetails{
			NativeAmount:            decimal.NewFromInt(1000),
			ExchangeRateUsed:        decimal.RequireFromString("0.006689"),
			ReportingCurrencyAtTime: "USD",
		},
		TransactionDate: march15,
	}
	suite.txns.On("CreateTransaction", mock.Anything,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return r.PaymentInstrumentID != nil && *r.PaymentInstrumentID == pi && r.NativeAmount.Equal(decimal.NewFromInt(1000))
		}), testUserID).Return(txn, nil).Once()

	w := suite.authed(http.MethodPost, "/api/v1/transactions", map[string]any{
		"paymentInstrumentID": pi, "type": "EXPENSE", "nativeAmount": "1000", "transactionDate": "2024-03-15",
	})

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.Equal("6.69", body["amount"])
	conv := body["conversion"].(map[string]any)
	suite.Equal("0.006689", conv["exchangeRateUsed"])
	suite.Equal("USD", conv["reportingCurrencyAtTime"])
}

func (suite *HandlersTestSuite) TestGetTransaction_ForbiddenIs403() {
	suite.txns.On("GetTransaction", mock.Anything, "txn-9", testUserID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.authed(http.MethodGet, "/api/v1/transactions/txn-9", nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestBudgetBreakdown() {
	p1, p2 := "pi-1", "pi-2"
	breakdown := &domain.BudgetBreakdown{
		Budget:          domain.Budget{BudgetID: "b-1", Name: "Groceries", PeriodYear: 2024, PeriodMonth: time.March, LimitAmount: decimal.NewFromInt(500), CurrencyCode: "USD"},
		TotalSpent:      decimal.NewFromInt(450),
		TotalPercentage: decimal.NewFromInt(90),
		Remaining:       decimal.NewFromInt(50),
		Items: []domain.BudgetBreakdownItem{
			{PaymentInstrumentID: &p1, InstrumentName: "Card", AmountSpent: decimal.NewFromInt(300), TransactionCount: 2, Percentage: decimal.NewFromInt(60)},
			{InstrumentName: domain.LegacyBucketName, IsLegacy: true, AmountSpent: decimal.NewFromInt(150), TransactionCount: 1, Percentage: decimal.NewFromInt(30)},
			{PaymentInstrumentID: &p2, InstrumentName: "Cash", AmountSpent: decimal.Zero, Percentage: decimal.Zero},
		},
	}
	suite.budgets.On("Breakdown", mock.Anything, "b-1", testUserID).Return(breakdown, nil).Once()

	w := suite.authed(http.MethodGet, "/api/v1/budgets/b-1/breakdown", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BudgetBreakdownResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res.Items, 3)
	suite.Equal("pi-1", *res.Items[0].PaymentInstrumentID)
	suite.True(res.Items[1].IsLegacy)
	suite.True(res.Items[1].Percentage.Equal(decimal.NewFromInt(30)))
	suite.True(res.TotalPercentage.Equal(decimal.NewFromInt(90)))
}

func (suite *HandlersTestSuite) TestCreateBudget_DuplicateIs409() {
	suite.budgets.On("CreateBudget", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "budget exists", apperrors.ErrDuplicate)).Once()

	w := suite.authed(http.MethodPost, "/api/v1/budgets", map[string]any{
		"name": "Groceries", "categoryID": "cat-food", "periodYear": 2024, "periodMonth": 3, "limitAmount": "500",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestBalance_PropagatesFlags() {
	converted := decimal.RequireFromString("108.70")
	report := &domain.BalanceReport{
		OwnerID: testUserID, ReportingCurrency: "USD", AsOf: march15, Total: converted,
		HasStaleRates: true, UnavailableCount: 1,
		Instruments: []domain.InstrumentBalance{
			{PaymentInstrumentID: "pi-eur", Name: "EUR card", CurrencyCode: "EUR", NativeBalance: decimal.NewFromInt(100), ConvertedBalance: &converted, Stale: true},
			{PaymentInstrumentID: "pi-chf", Name: "CHF cash", CurrencyCode: "CHF", NativeBalance: decimal.NewFromInt(50), ConversionUnavailable: true},
		},
	}
	suite.balances.On("TotalBalance", mock.Anything, testUserID, "").Return(report, nil).Once()

	w := suite.authed(http.MethodGet, "/api/v1/balances", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.HasStaleRates)
	suite.Equal(1, res.UnavailableCount)
	suite.Require().Len(res.Instruments, 2)
	suite.True(res.Instruments[0].Stale)
	suite.True(res.Instruments[1].ConversionUnavailable)
	suite.Nil(res.Instruments[1].ConvertedBalance)
}

func (suite *HandlersTestSuite) TestRefreshRates_WrongSecretIs401() {
	suite.refresh.On("RefreshAll", mock.Anything, "nope").Return(nil, apperrors.ErrUnauthorizedRefresh).Once()

	w := suite.do(http.MethodPost, "/internal/jobs/refresh-rates", nil, map[string]string{middleware.SchedulerSecretHeader: "nope"})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestRefreshRates_PartialIs200() {
	result := &domain.RefreshResult{RunID: "run-1", Status: domain.RefreshPartial, AnchorCurrency: "USD", ValidDate: march15, Succeeded: 2, Failed: []string{"JPY"}}
	suite.refresh.On("RefreshAll", mock.Anything, "s3cret").Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/internal/jobs/refresh-rates", nil, map[string]string{middleware.SchedulerSecretHeader: "s3cret"})

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("PARTIAL", body["status"])
	suite.Equal([]any{"JPY"}, body["failed"])
}

func (suite *HandlersTestSuite) TestRefreshRates_AllFailedIs502() {
	result := &domain.RefreshResult{RunID: "run-2", Status: domain.RefreshFailed, AnchorCurrency: "USD", ValidDate: march15, Failed: []string{"EUR", "JPY"}}
	suite.refresh.On("RefreshAll", mock.Anything, "s3cret").Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/internal/jobs/refresh-rates", nil, map[string]string{middleware.SchedulerSecretHeader: "s3cret"})

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *HandlersTestSuite) TestRefreshRates_NotConfiguredIs503() {
	r := gin.New()
	handlers.RegisterRoutes(r, suite.cfg, &portssvc.ServiceContainer{}, handlers.RouteDeps{})

	req, _ := http.NewRequest(http.MethodPost, "/internal/jobs/refresh-rates", nil)
	req.Header.Set(middleware.SchedulerSecretHeader, "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
