package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// mdOutline is what a markdown document contains, as seen by a GFM parser.
type mdOutline struct {
	headings  []string
	tableRows []int // body rows per table
}

func outline(t *testing.T, md string) mdOutline {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(src))

	var o mdOutline
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			o.headings = append(o.headings, plainText(n, src))
			return ast.WalkSkipChildren, nil
		case *east.Table:
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableRow); ok {
					rows++
				}
			}
			o.tableRows = append(o.tableRows, rows)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return o
}

func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRenderBreakdown(t *testing.T) {
	cardID := "pi-card"
	res := &dto.BudgetBreakdownResponse{
		Budget: dto.BudgetResponse{
			Name: "Groceries", PeriodYear: 2024, PeriodMonth: 3,
			LimitAmount: d("500"), CurrencyCode: "USD",
		},
		TotalSpent:      d("160"),
		TotalPercentage: d("32"),
		Remaining:       d("340"),
		Items: []dto.BudgetBreakdownItemResponse{
			{PaymentInstrumentID: &cardID, InstrumentName: "Card | EUR", AmountSpent: d("100"), TransactionCount: 2, Percentage: d("20")},
			{InstrumentName: "Unspecified", IsLegacy: true, AmountSpent: d("60"), TransactionCount: 1, Percentage: d("12")},
		},
	}

	var b strings.Builder
	RenderBreakdown(&b, res)

	o := outline(t, b.String())
	assert.Equal(t, []string{"Groceries (2024-03)"}, o.headings)
	assert.Equal(t, []int{2}, o.tableRows)
	assert.Contains(t, b.String(), "$160.00")
	assert.Contains(t, b.String(), `Card \| EUR`)
	assert.Contains(t, b.String(), "_Unspecified_")
}

func TestRenderBreakdownEmpty(t *testing.T) {
	var b strings.Builder
	RenderBreakdown(&b, &dto.BudgetBreakdownResponse{
		Budget: dto.BudgetResponse{Name: "Travel", PeriodYear: 2024, PeriodMonth: 7, LimitAmount: d("100"), CurrencyCode: "EUR"},
	})
	o := outline(t, b.String())
	assert.Empty(t, o.tableRows)
	assert.Contains(t, b.String(), "No spending recorded.")
}

func TestRenderBalance(t *testing.T) {
	converted := d("108.70")
	res := &dto.BalanceResponse{
		ReportingCurrency: "USD",
		AsOf:              "2024-01-02",
		Total:             d("108.70"),
		HasStaleRates:     true,
		UnavailableCount:  1,
		Instruments: []dto.InstrumentBalanceResponse{
			{Name: "Wallet", CurrencyCode: "EUR", NativeBalance: d("100"), ConvertedBalance: &converted,
				Rate: &dto.ResolvedRateResponse{Rate: d("1.087"), EffectiveDate: "2024-01-01"}, Stale: true},
			{Name: "Savings", CurrencyCode: "XAU", NativeBalance: d("2"), ConversionUnavailable: true},
		},
	}

	var b strings.Builder
	RenderBalance(&b, "owner-1", res)

	o := outline(t, b.String())
	assert.Equal(t, []string{"Balance of owner-1"}, o.headings)
	assert.Equal(t, []int{2}, o.tableRows)
	assert.Contains(t, b.String(), "1.087 (2024-01-01) stale")
	assert.Contains(t, b.String(), "| n/a | unavailable |")
	assert.Contains(t, b.String(), "1 instrument(s) could not be converted")
}

func TestRenderRatesAndRefresh(t *testing.T) {
	var b strings.Builder
	RenderRates(&b, &dto.ListExchangeRatesResponse{Rates: []dto.ExchangeRateResponse{
		{FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: d("0.92"), ValidDate: "2024-01-01", Source: "seed"},
		{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: d("1.087"), ValidDate: "2024-01-01", Source: "seed"},
	}})
	assert.Equal(t, []int{2}, outline(t, b.String()).tableRows)

	b.Reset()
	start := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	RenderRefresh(&b, &dto.RefreshRunResponse{
		RunID: "run-1", Status: "PARTIAL", AnchorCurrency: "USD", ValidDate: "2024-01-02",
		Succeeded: 3, Failed: []string{"JPY"}, StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
	})
	o := outline(t, b.String())
	assert.Equal(t, []string{"Rate refresh PARTIAL"}, o.headings)
	assert.Contains(t, b.String(), "- Failed: JPY")
	assert.Contains(t, b.String(), "- Took: 1.5s")
}

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	client  *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.handler = func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s.handler(w, r) }))
	s.client = NewClient(s.server.URL+"/", 5*time.Second)
	s.client.SchedulerSecret = "job-secret"
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestConvertSendsQueryAndToken() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/v1/exchange-rates/convert", r.URL.Path)
		s.Equal("Bearer tok", r.Header.Get("Authorization"))
		s.Equal("100", r.URL.Query().Get("amount"))
		s.Equal("EUR", r.URL.Query().Get("from"))
		s.Equal("USD", r.URL.Query().Get("to"))
		s.Equal("2024-01-01", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":"100","convertedAmount":"108.7","rate":{"fromCurrencyCode":"EUR","toCurrencyCode":"USD","rate":"1.087","effectiveDate":"2024-01-01","source":"seed","method":"DIRECT"}}`))
	}

	res, err := s.client.Convert(context.Background(), "tok", "100", "EUR", "USD", "2024-01-01")
	s.Require().NoError(err)
	s.True(d("108.7").Equal(res.ConvertedAmount))
	s.Equal("DIRECT", res.Rate.Method)
}

func (s *ClientTestSuite) TestErrorBodyBecomesAPIError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"no exchange rate from EUR to XAU","from":"EUR","to":"XAU","date":"2024-01-01"}`))
	}

	_, err := s.client.Convert(context.Background(), "tok", "1", "EUR", "XAU", "")
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusUnprocessableEntity, apiErr.Status)
	s.Equal("no exchange rate from EUR to XAU", apiErr.Message)
}

func (s *ClientTestSuite) TestFailedRefreshStillReturnsRun() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/internal/jobs/refresh-rates", r.URL.Path)
		s.Equal("job-secret", r.Header.Get(middleware.SchedulerSecretHeader))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"runID":"run-9","status":"FAILED","anchorCurrency":"USD","failed":["EUR","GBP"]}`))
	}

	res, err := s.client.Refresh(context.Background())
	s.Require().Error(err)
	s.Require().NotNil(res)
	s.Equal("FAILED", res.Status)
	s.Equal([]string{"EUR", "GBP"}, res.Failed)
}

func (s *ClientTestSuite) TestBreakdownEscapesID() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/v1/budgets/a%2Fb/breakdown", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"budget":{"name":"x","currencyCode":"USD","limitAmount":"1"},"items":[]}`))
	}

	res, err := s.client.Breakdown(context.Background(), "tok", "a/b")
	s.Require().NoError(err)
	s.Equal("x", res.Budget.Name)
}

func (s *ClientTestSuite) TestFetchBalancesKeepsOwnerOrder() {
	const secret = "jwt-secret"
	var calls atomic.Int32
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
		s.NoError(err)
		s.Equal("EUR", r.URL.Query().Get("currency"))
		if claims.Subject == "bob" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		_, _ = w.Write([]byte(`{"reportingCurrency":"EUR","asOf":"2024-01-01","total":"1","instruments":[]}`))
	}
	token := func(owner string) (string, error) {
		return MintToken(secret, "", owner, time.Minute)
	}

	results := fetchBalances(context.Background(), s.client, []string{"alice", "bob", "carol"}, token, "EUR")

	s.Require().Len(results, 3)
	s.Equal(int32(3), calls.Load())
	s.Equal("alice", results[0].owner)
	s.NoError(results[0].err)
	s.Equal("bob", results[1].owner)
	s.Error(results[1].err)
	s.Equal("carol", results[2].owner)
	s.Require().NoError(results[2].err)
	s.Equal("EUR", results[2].res.ReportingCurrency)
}

func (s *ClientTestSuite) TestFetchBalancesTokenError() {
	results := fetchBalances(context.Background(), s.client, []string{"x"}, func(string) (string, error) {
		return "", errors.New("no secret")
	}, "")
	s.EqualError(results[0].err, "no secret")
}

func TestMintTokenClaims(t *testing.T) {
	raw, err := MintToken("s", "fx-api", "owner-1", time.Minute)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return []byte("s"), nil },
		jwt.WithIssuer("fx-api"))
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.Subject)
}

func TestCompletionTreeCoversCommands(t *testing.T) {
	tree := completionTree()
	for _, name := range []string{"convert", "rates", "refresh", "balance", "breakdown", "completion"} {
		assert.Contains(t, tree.Sub, name)
	}
	assert.Contains(t, tree.Sub["rates"].Flags, "from")
}
