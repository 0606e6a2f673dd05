package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	// RateScale is the number of fractional digits stored for exchange rates.
	RateScale int32 = 6
	// ReciprocalScale is the precision kept for derived inverse rates until they are applied.
	ReciprocalScale int32 = 16
	// AmountScale is the number of fractional digits of every converted amount.
	AmountScale int32 = 2
)

// RateSource records where a rate came from.
type RateSource string

const (
	RateSourceSeed     RateSource = "seed"
	RateSourceManual   RateSource = "manual"
	RateSourceFetched  RateSource = "fetched"
	RateSourceIdentity RateSource = "identity" // never stored
)

// IsStored reports whether the source may appear on a persisted rate.
func (s RateSource) IsStored() bool {
	switch s {
	case RateSourceSeed, RateSourceManual, RateSourceFetched:
		return true
	}
	return false
}

// ExchangeRate is one stored row of the rate store: units of To per one unit of From, valid on ValidDate.
type ExchangeRate struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	ValidDate        time.Time       `json:"validDate"`
	Source           RateSource      `json:"source"`
	RecordedAt       time.Time       `json:"recordedAt"`
	RecordedBy       string          `json:"recordedBy,omitempty"`
}

// Validate checks the row-level invariants of a rate before it is written.
func (r ExchangeRate) Validate() error {
	if !IsCurrencyCode(r.FromCurrencyCode) || !IsCurrencyCode(r.ToCurrencyCode) {
		return fmt.Errorf("%w: currency codes must be three uppercase letters", apperrors.ErrValidation)
	}
	if r.FromCurrencyCode == r.ToCurrencyCode {
		return fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !r.Rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if r.ValidDate.IsZero() {
		return fmt.Errorf("%w: valid date is required", apperrors.ErrValidation)
	}
	if !r.Source.IsStored() {
		return fmt.Errorf("%w: unknown rate source %q", apperrors.ErrValidation, r.Source)
	}
	return nil
}

// ExchangeRateFilter narrows a rate listing. Nil fields are not filtered on.
type ExchangeRateFilter struct {
	FromCurrencyCode *string
	ToCurrencyCode   *string
	AsOf             *time.Time
	Limit            int
}

// ResolutionMethod describes how a rate was obtained from the store.
type ResolutionMethod string

const (
	ResolutionIdentity     ResolutionMethod = "identity"
	ResolutionDirect       ResolutionMethod = "direct"
	ResolutionInverse      ResolutionMethod = "inverse"
	ResolutionTriangulated ResolutionMethod = "triangulated"
)

// ResolvedRate is the answer of a rate lookup, which may be derived from one or two stored rows.
type ResolvedRate struct {
	FromCurrencyCode string           `json:"fromCurrencyCode"`
	ToCurrencyCode   string           `json:"toCurrencyCode"`
	Rate             decimal.Decimal  `json:"rate"`
	EffectiveDate    time.Time        `json:"effectiveDate"`
	Source           RateSource       `json:"source"`
	RecordedAt       time.Time        `json:"recordedAt"`
	Method           ResolutionMethod `json:"method"`
	Via              string           `json:"via,omitempty"` // anchor currency for triangulated rates
}

// IdentityRate returns the 1:1 rate of a currency to itself.
func IdentityRate(code string, date time.Time) ResolvedRate {
	return ResolvedRate{
		FromCurrencyCode: code,
		ToCurrencyCode:   code,
		Rate:             decimal.NewFromInt(1),
		EffectiveDate:    DateOf(date),
		Source:           RateSourceIdentity,
		RecordedAt:       date,
		Method:           ResolutionIdentity,
	}
}

// DirectRate wraps a stored row as a resolved rate.
func DirectRate(r ExchangeRate) ResolvedRate {
	return ResolvedRate{
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		EffectiveDate:    r.ValidDate,
		Source:           r.Source,
		RecordedAt:       r.RecordedAt,
		Method:           ResolutionDirect,
	}
}

// InverseRate derives To->From from a stored From->To row.
func InverseRate(r ExchangeRate) ResolvedRate {
	return ResolvedRate{
		FromCurrencyCode: r.ToCurrencyCode,
		ToCurrencyCode:   r.FromCurrencyCode,
		Rate:             Reciprocal(r.Rate),
		EffectiveDate:    r.ValidDate,
		Source:           r.Source,
		RecordedAt:       r.RecordedAt,
		Method:           ResolutionInverse,
	}
}

// Triangulate chains from->anchor and anchor->to. Dates and provenance follow the older leg.
func Triangulate(first, second ResolvedRate) ResolvedRate {
	older := first
	if second.RecordedAt.Before(first.RecordedAt) {
		older = second
	}
	effective := first.EffectiveDate
	if second.EffectiveDate.Before(effective) {
		effective = second.EffectiveDate
	}
	return ResolvedRate{
		FromCurrencyCode: first.FromCurrencyCode,
		ToCurrencyCode:   second.ToCurrencyCode,
		Rate:             first.Rate.Mul(second.Rate).Round(ReciprocalScale),
		EffectiveDate:    effective,
		Source:           older.Source,
		RecordedAt:       older.RecordedAt,
		Method:           ResolutionTriangulated,
		Via:              first.ToCurrencyCode,
	}
}

// IsStale reports whether the rate was recorded longer than ttl before now.
// Identity rates never go stale.
func (r ResolvedRate) IsStale(now time.Time, ttl time.Duration) bool {
	if r.Method == ResolutionIdentity || ttl <= 0 {
		return false
	}
	return now.Sub(r.RecordedAt) > ttl
}

// ConversionResult is an amount converted with a resolved rate.
type ConversionResult struct {
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            ResolvedRate    `json:"rate"`
}

// Reciprocal returns 1/rate at ReciprocalScale precision.
func Reciprocal(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(rate, ReciprocalScale)
}

// ApplyRate multiplies amount by rate and rounds half away from zero to two decimal places.
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(AmountScale)
}

// IsCurrencyCode reports whether code looks like an ISO 4217 alphabetic code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
