// Package cli implements fxctl, a command line client for the tracker API.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// Client talks to a running fx_backend.
type Client struct {
	BaseURL         string
	HTTP            *http.Client
	SchedulerSecret string
}

// NewClient returns a client for baseURL with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// MintToken signs a short-lived token for subject. Only for operators holding the API's JWT secret.
func MintToken(secret, issuer, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(body))
		}
		// a failed refresh still carries the run; hand it back with the error
		if out != nil && resp.StatusCode == http.StatusBadGateway {
			_ = json.NewDecoder(bytes.NewReader(body)).Decode(out)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// Refresh triggers the rate refresh job.
func (c *Client) Refresh(ctx context.Context) (*dto.RefreshRunResponse, error) {
	var res dto.RefreshRunResponse
	err := c.do(ctx, http.MethodPost, "/internal/jobs/refresh-rates", nil,
		map[string]string{middleware.SchedulerSecretHeader: c.SchedulerSecret}, &res)
	if err != nil {
		if res.RunID != "" {
			return &res, err
		}
		return nil, err
	}
	return &res, nil
}

// LastRefresh reads the most recent refresh run.
func (c *Client) LastRefresh(ctx context.Context) (*dto.RefreshRunResponse, error) {
	var res dto.RefreshRunResponse
	if err := c.do(ctx, http.MethodGet, "/internal/jobs/refresh-rates/last", nil,
		map[string]string{middleware.SchedulerSecretHeader: c.SchedulerSecret}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Convert converts amount between currencies as of date (empty means today).
func (c *Client) Convert(ctx context.Context, token, amount, from, to, date string) (*dto.ConversionResponse, error) {
	q := url.Values{"amount": {amount}, "from": {from}, "to": {to}}
	if date != "" {
		q.Set("date", date)
	}
	var res dto.ConversionResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/exchange-rates/convert", q, bearer(token), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Rates lists stored rates, optionally filtered.
func (c *Client) Rates(ctx context.Context, token, from, to string, limit int) (*dto.ListExchangeRatesResponse, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var res dto.ListExchangeRatesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/exchange-rates", q, bearer(token), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Balance reads the total balance of the token's owner.
func (c *Client) Balance(ctx context.Context, token, currency string) (*dto.BalanceResponse, error) {
	q := url.Values{}
	if currency != "" {
		q.Set("currency", currency)
	}
	var res dto.BalanceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/balances", q, bearer(token), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Breakdown reads a budget's per-instrument breakdown.
func (c *Client) Breakdown(ctx context.Context, token, budgetID string) (*dto.BudgetBreakdownResponse, error) {
	var res dto.BudgetBreakdownResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/budgets/"+url.PathEscape(budgetID)+"/breakdown", nil, bearer(token), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
