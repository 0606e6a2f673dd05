package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table, keyed by (from, to, valid_date).
type ExchangeRate struct {
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"` // NUMERIC(20,6)
	ValidDate        time.Time       `db:"valid_date"`
	Source           string          `db:"source"`
	RecordedAt       time.Time       `db:"recorded_at"`
	RecordedBy       *string         `db:"recorded_by"`
}
