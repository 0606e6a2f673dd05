package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table plus its tags.
// NativeAmount, ExchangeRateUsed and ReportingCurrencyAtTime are all NULL for legacy rows.
type Transaction struct {
	TransactionID           string           `db:"transaction_id"`
	OwnerID                 string           `db:"owner_id"`
	PaymentInstrumentID     *string          `db:"payment_instrument_id"`
	TransactionType         string           `db:"transaction_type"`
	Amount                  decimal.Decimal  `db:"amount"`
	NativeAmount            *decimal.Decimal `db:"native_amount"`
	ExchangeRateUsed        *decimal.Decimal `db:"exchange_rate_used"`
	ReportingCurrencyAtTime *string          `db:"reporting_currency_at_time"`
	CategoryID              *string          `db:"category_id"`
	TransactionDate         time.Time        `db:"transaction_date"`
	Description             string           `db:"description"`
	AuditFields
	TagIDs []string // transaction_tags
}
