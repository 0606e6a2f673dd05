package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyRate_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{name: "exact", amount: "100", rate: "0.92", want: "92"},
		{name: "half rounds up", amount: "1", rate: "0.125", want: "0.13"},
		{name: "below half rounds down", amount: "1", rate: "0.1249", want: "0.12"},
		{name: "negative half rounds away from zero", amount: "-1", rate: "0.125", want: "-0.13"},
		{name: "jpy", amount: "2500", rate: "0.006689", want: "16.72"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ApplyRate(dec(tt.amount), dec(tt.rate))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestReciprocal(t *testing.T) {
	assert.Equal(t, "0.5", domain.Reciprocal(dec("2")).String())
	assert.Equal(t, "1.0869565217391304", domain.Reciprocal(dec("0.92")).String())
}

func TestInverseRate(t *testing.T) {
	recorded := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	row := domain.ExchangeRate{
		FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: dec("0.8"),
		ValidDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Source: domain.RateSourceFetched, RecordedAt: recorded,
	}
	inv := domain.InverseRate(row)
	assert.Equal(t, "EUR", inv.FromCurrencyCode)
	assert.Equal(t, "USD", inv.ToCurrencyCode)
	assert.True(t, inv.Rate.Equal(dec("1.25")))
	assert.Equal(t, domain.ResolutionInverse, inv.Method)
	assert.Equal(t, row.ValidDate, inv.EffectiveDate)
	assert.Equal(t, recorded, inv.RecordedAt)
}

func TestTriangulate_UsesOlderLeg(t *testing.T) {
	older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)
	first := domain.ResolvedRate{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: dec("1.1"), EffectiveDate: newer, RecordedAt: newer, Source: domain.RateSourceFetched}
	second := domain.ResolvedRate{FromCurrencyCode: "USD", ToCurrencyCode: "JPY", Rate: dec("150"), EffectiveDate: older, RecordedAt: older, Source: domain.RateSourceSeed}

	got := domain.Triangulate(first, second)
	assert.Equal(t, "EUR", got.FromCurrencyCode)
	assert.Equal(t, "JPY", got.ToCurrencyCode)
	assert.Equal(t, "USD", got.Via)
	assert.True(t, got.Rate.Equal(dec("165")))
	assert.Equal(t, older, got.EffectiveDate)
	assert.Equal(t, older, got.RecordedAt)
	assert.Equal(t, domain.RateSourceSeed, got.Source)
	assert.Equal(t, domain.ResolutionTriangulated, got.Method)
}

func TestResolvedRate_IsStale(t *testing.T) {
	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	fresh := domain.ResolvedRate{RecordedAt: now.Add(-23 * time.Hour), Method: domain.ResolutionDirect}
	old := domain.ResolvedRate{RecordedAt: now.Add(-25 * time.Hour), Method: domain.ResolutionDirect}
	identity := domain.IdentityRate("USD", now.Add(-100*time.Hour))

	assert.False(t, fresh.IsStale(now, 24*time.Hour))
	assert.True(t, old.IsStale(now, 24*time.Hour))
	assert.False(t, identity.IsStale(now, 24*time.Hour))
	assert.False(t, old.IsStale(now, 0), "a zero ttl disables staleness")
}

func TestExchangeRate_Validate(t *testing.T) {
	valid := domain.ExchangeRate{
		FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: dec("0.9"),
		ValidDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Source: domain.RateSourceManual,
	}
	assert.NoError(t, valid.Validate())

	cases := map[string]func(r *domain.ExchangeRate){
		"same currency":   func(r *domain.ExchangeRate) { r.ToCurrencyCode = "USD" },
		"lowercase code":  func(r *domain.ExchangeRate) { r.FromCurrencyCode = "usd" },
		"zero rate":       func(r *domain.ExchangeRate) { r.Rate = decimal.Zero },
		"negative rate":   func(r *domain.ExchangeRate) { r.Rate = dec("-1") },
		"missing date":    func(r *domain.ExchangeRate) { r.ValidDate = time.Time{} },
		"identity source": func(r *domain.ExchangeRate) { r.Source = domain.RateSourceIdentity },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			err := r.Validate()
			assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}
}

func TestIsCurrencyCode(t *testing.T) {
	assert.True(t, domain.IsCurrencyCode("JPY"))
	assert.False(t, domain.IsCurrencyCode("JP"))
	assert.False(t, domain.IsCurrencyCode("Jpy"))
	assert.False(t, domain.IsCurrencyCode("JP1"))
}
