package dto

import (
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceParams defines query parameters for the total balance. An empty currency
// means the user's reporting currency.
type BalanceParams struct {
	Currency string `form:"currency" binding:"omitempty,currency"`
}

// InstrumentBalanceResponse is one instrument's line of the balance report.
type InstrumentBalanceResponse struct {
	PaymentInstrumentID   string                `json:"paymentInstrumentID"`
	Name                  string                `json:"name"`
	CurrencyCode          string                `json:"currencyCode"`
	NativeBalance         decimal.Decimal       `json:"nativeBalance"`
	ConvertedBalance      *decimal.Decimal      `json:"convertedBalance,omitempty"`
	Rate                  *ResolvedRateResponse `json:"rate,omitempty"`
	Stale                 bool                  `json:"stale"`
	ConversionUnavailable bool                  `json:"conversionUnavailable"`
}

// BalanceResponse defines the data returned for a total balance query.
type BalanceResponse struct {
	ReportingCurrency string                      `json:"reportingCurrency"`
	AsOf              string                      `json:"asOf"`
	Total             decimal.Decimal             `json:"total"`
	HasStaleRates     bool                        `json:"hasStaleRates"`
	UnavailableCount  int                         `json:"unavailableCount"`
	Instruments       []InstrumentBalanceResponse `json:"instruments"`
}

// ToBalanceResponse converts a domain.BalanceReport to its DTO.
func ToBalanceResponse(r *domain.BalanceReport) BalanceResponse {
	items := make([]InstrumentBalanceResponse, len(r.Instruments))
	for i, ib := range r.Instruments {
		item := InstrumentBalanceResponse{
			PaymentInstrumentID:   ib.PaymentInstrumentID,
			Name:                  ib.Name,
			CurrencyCode:          ib.CurrencyCode,
			NativeBalance:         ib.NativeBalance,
			ConvertedBalance:      ib.ConvertedBalance,
			Stale:                 ib.Stale,
			ConversionUnavailable: ib.ConversionUnavailable,
		}
		if ib.Rate != nil {
			rate := ToResolvedRateResponse(ib.Rate)
			item.Rate = &rate
		}
		items[i] = item
	}
	return BalanceResponse{
		ReportingCurrency: r.ReportingCurrency,
		AsOf:              r.AsOf.Format(domain.DateLayout),
		Total:             r.Total,
		HasStaleRates:     r.HasStaleRates,
		UnavailableCount:  r.UnavailableCount,
		Instruments:       items,
	}
}
