package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentBalance is one instrument's native balance and its reporting-currency value.
// ConvertedBalance and Rate are nil when ConversionUnavailable is set.
type InstrumentBalance struct {
	PaymentInstrumentID   string           `json:"paymentInstrumentID"`
	Name                  string           `json:"name"`
	CurrencyCode          string           `json:"currencyCode"`
	NativeBalance         decimal.Decimal  `json:"nativeBalance"`
	ConvertedBalance      *decimal.Decimal `json:"convertedBalance,omitempty"`
	Rate                  *ResolvedRate    `json:"rate,omitempty"`
	Stale                 bool             `json:"stale"`
	ConversionUnavailable bool             `json:"conversionUnavailable"`
}

// BalanceReport totals an owner's active instruments in one reporting currency.
// Instruments without any usable rate are listed but left out of Total.
type BalanceReport struct {
	OwnerID           string              `json:"ownerID"`
	ReportingCurrency string              `json:"reportingCurrency"`
	AsOf              time.Time           `json:"asOf"`
	Total             decimal.Decimal     `json:"total"`
	Instruments       []InstrumentBalance `json:"instruments"`
	HasStaleRates     bool                `json:"hasStaleRates"`
	UnavailableCount  int                 `json:"unavailableCount"`
}
