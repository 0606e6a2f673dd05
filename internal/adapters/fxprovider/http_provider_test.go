package fxprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march15 = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestHTTPProvider_FetchRates(t *testing.T) {
	var gotQuery map[string]string
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"base":    r.URL.Query().Get("base"),
			"symbols": r.URL.Query().Get("symbols"),
			"date":    r.URL.Query().Get("date"),
		}
		gotKey = r.Header.Get(apiKeyHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","date":"2024-03-15","rates":{"EUR":0.920001,"JPY":"149.5","GBP":0.79}}`))
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(context.Background(), Config{BaseURL: srv.URL + "/latest", APIKey: "k-1"}, srv.Client())
	require.NoError(t, err)

	rates, err := p.FetchRates(context.Background(), "usd", []string{"EUR", "JPY"}, march15)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"base": "USD", "symbols": "EUR,JPY", "date": "2024-03-15"}, gotQuery)
	assert.Equal(t, "k-1", gotKey)
	require.Len(t, rates, 2, "symbols that were not asked for are dropped")
	assert.Equal(t, "0.920001", rates["EUR"].String())
	assert.Equal(t, "149.5", rates["JPY"].String())
}

func TestHTTPProvider_CustomRatesPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"quotes":{"INR":83.2}}}`))
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(context.Background(), Config{BaseURL: srv.URL, RatesPath: "$.data.quotes"}, srv.Client())
	require.NoError(t, err)

	rates, err := p.FetchRates(context.Background(), "USD", []string{"INR", "CHF"}, march15)
	require.NoError(t, err)
	assert.Equal(t, "83.2", rates["INR"].String())
	_, hasCHF := rates["CHF"]
	assert.False(t, hasCHF)
}

func TestHTTPProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non 200", status: http.StatusBadGateway, body: `{}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
		{name: "missing rates", status: http.StatusOK, body: `{"base":"USD"}`},
		{name: "rates not an object", status: http.StatusOK, body: `{"rates":[1,2]}`},
		{name: "bad number", status: http.StatusOK, body: `{"rates":{"EUR":"n/a"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := NewHTTPProvider(context.Background(), Config{BaseURL: srv.URL}, srv.Client())
			require.NoError(t, err)

			_, err = p.FetchRates(context.Background(), "USD", []string{"EUR"}, march15)
			assert.Error(t, err)
		})
	}
}

func TestHTTPProvider_ClientCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	})
	var gotAuth string
	mux.HandleFunc("/rates", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := NewHTTPProvider(context.Background(), Config{
		BaseURL:      srv.URL + "/rates",
		TokenURL:     srv.URL + "/token",
		ClientID:     "fx",
		ClientSecret: "shh",
	}, srv.Client())
	require.NoError(t, err)

	_, err = p.FetchRates(context.Background(), "USD", []string{"EUR"}, march15)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNewHTTPProvider_Defaults(t *testing.T) {
	_, err := NewHTTPProvider(context.Background(), Config{}, nil)
	assert.Error(t, err)

	p, err := NewHTTPProvider(context.Background(), Config{BaseURL: "https://rates.example.com/v1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http:rates.example.com", p.Name())
	assert.Equal(t, DefaultRatesPath, p.cfg.RatesPath)
}
