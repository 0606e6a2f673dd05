package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for recording a manual rate override.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string           `json:"fromCurrencyCode" binding:"required,currency"`
	ToCurrencyCode   string           `json:"toCurrencyCode" binding:"required,currency,nefield=FromCurrencyCode"`
	Rate             *decimal.Decimal `json:"rate" binding:"required"`
	ValidDate        string           `json:"validDate" binding:"required,datetime=2006-01-02"`
}

// ExchangeRateResponse defines the structure for API responses containing a stored rate.
type ExchangeRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	ValidDate        string          `json:"validDate"`
	Source           string          `json:"source"`
	RecordedAt       time.Time       `json:"recordedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		ValidDate:        rate.ValidDate.Format(domain.DateLayout),
		Source:           string(rate.Source),
		RecordedAt:       rate.RecordedAt,
	}
}

// ListExchangeRatesParams defines query parameters for listing stored rates.
type ListExchangeRatesParams struct {
	From  string `form:"from" binding:"omitempty,currency"`
	To    string `form:"to" binding:"omitempty,currency"`
	AsOf  string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
	Limit int    `form:"limit,default=50" binding:"min=1,max=500"`
}

// ListExchangeRatesResponse wraps the list of stored rates.
type ListExchangeRatesResponse struct {
	Rates []ExchangeRateResponse `json:"rates"`
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to ListExchangeRatesResponse.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) ListExchangeRatesResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return ListExchangeRatesResponse{Rates: responses}
}

// ResolveRateParams defines query parameters for resolving a rate.
type ResolveRateParams struct {
	From string `form:"from" binding:"required,currency"`
	To   string `form:"to" binding:"required,currency"`
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"` // defaults to today
}

// ConvertParams defines query parameters for converting an amount.
type ConvertParams struct {
	Amount string `form:"amount" binding:"required,number"`
	From   string `form:"from" binding:"required,currency"`
	To     string `form:"to" binding:"required,currency"`
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ResolvedRateResponse describes a resolved rate and how it was derived.
type ResolvedRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveDate    string          `json:"effectiveDate"`
	Source           string          `json:"source"`
	Method           string          `json:"method"`
	Via              string          `json:"via,omitempty"`
	RecordedAt       time.Time       `json:"recordedAt"`
}

// ToResolvedRateResponse converts a domain.ResolvedRate to its DTO.
func ToResolvedRateResponse(rate *domain.ResolvedRate) ResolvedRateResponse {
	return ResolvedRateResponse{
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		EffectiveDate:    rate.EffectiveDate.Format(domain.DateLayout),
		Source:           string(rate.Source),
		Method:           string(rate.Method),
		Via:              rate.Via,
		RecordedAt:       rate.RecordedAt,
	}
}

// ConversionResponse is the result of converting an amount.
type ConversionResponse struct {
	Amount          decimal.Decimal      `json:"amount"`
	ConvertedAmount decimal.Decimal      `json:"convertedAmount"`
	Rate            ResolvedRateResponse `json:"rate"`
}

// ToConversionResponse converts a domain.ConversionResult to its DTO.
func ToConversionResponse(res *domain.ConversionResult) ConversionResponse {
	return ConversionResponse{
		Amount:          res.Amount,
		ConvertedAmount: res.ConvertedAmount,
		Rate:            ToResolvedRateResponse(&res.Rate),
	}
}
