// Package fxprovider fetches daily exchange rates from an HTTP JSON API.
package fxprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/SscSPs/multicurrency_tracker/internal/core/ports"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultRatesPath = "$.rates"
	apiKeyHeader     = "X-Api-Key"
	dateLayout       = "2006-01-02"
)

// Config describes how to reach the provider. TokenURL, ClientID and ClientSecret switch on
// OAuth2 client credentials; APIKey is sent as a header when set.
type Config struct {
	BaseURL      string
	APIKey       string
	RatesPath    string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Name         string
}

// HTTPProvider calls GET {BaseURL}?base=USD&symbols=EUR,JPY&date=2024-03-15 and reads the
// symbol -> rate object found at RatesPath in the response.
type HTTPProvider struct {
	cfg    Config
	client *http.Client
}

var _ ports.RateProvider = (*HTTPProvider)(nil)

// NewHTTPProvider builds a provider. A nil client means http.DefaultClient; with OAuth2
// configured the client is wrapped by the token source.
func NewHTTPProvider(ctx context.Context, cfg Config, client *http.Client) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("fx provider base URL cannot be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid fx provider base URL: %w", err)
	}
	if cfg.RatesPath == "" {
		cfg.RatesPath = DefaultRatesPath
	}
	if cfg.Name == "" {
		cfg.Name = "http:" + hostOf(cfg.BaseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		client = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, client))
	}
	return &HTTPProvider{cfg: cfg, client: client}, nil
}

func (p *HTTPProvider) Name() string {
	return p.cfg.Name
}

// FetchRates returns units of each symbol per one unit of base on day.
func (p *HTTPProvider) FetchRates(ctx context.Context, base string, symbols []string, day time.Time) (map[string]decimal.Decimal, error) {
	payload, err := p.get(ctx, base, symbols, day)
	if err != nil {
		return nil, err
	}

	found, err := jsonpath.Get(p.cfg.RatesPath, payload)
	if err != nil {
		return nil, fmt.Errorf("fx provider response has no %q: %w", p.cfg.RatesPath, err)
	}
	// a filter expression yields a list; keep its first match
	if list, ok := found.([]any); ok && len(list) > 0 {
		found = list[0]
	}
	raw, ok := found.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("fx provider value at %q is %T, not an object", p.cfg.RatesPath, found)
	}

	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[strings.ToUpper(s)] = true
	}

	rates := make(map[string]decimal.Decimal, len(symbols))
	for code, v := range raw {
		code = strings.ToUpper(code)
		if len(wanted) > 0 && !wanted[code] {
			continue
		}
		rate, err := toDecimal(v)
		if err != nil {
			return nil, fmt.Errorf("fx provider rate for %s: %w", code, err)
		}
		rates[code] = rate
	}
	return rates, nil
}

func (p *HTTPProvider) get(ctx context.Context, base string, symbols []string, day time.Time) (any, error) {
	u, _ := url.Parse(p.cfg.BaseURL)
	q := u.Query()
	q.Set("base", strings.ToUpper(base))
	if len(symbols) > 0 {
		q.Set("symbols", strings.ToUpper(strings.Join(symbols, ",")))
	}
	if !day.IsZero() {
		q.Set("date", day.UTC().Format(dateLayout))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("cannot http GET %v%v: %v", u.Host, u.Path, resp.Status)
	}

	// UseNumber keeps the provider's digits instead of routing them through float64.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("cannot decode fx provider response: %w", err)
	}
	return payload, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case json.Number:
		return decimal.NewFromString(val.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(val))
	case float64:
		return decimal.NewFromFloat(val), nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
