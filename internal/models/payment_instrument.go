package models

// PaymentInstrument is a row of the payment_instruments table.
type PaymentInstrument struct {
	PaymentInstrumentID string `db:"payment_instrument_id"`
	OwnerID             string `db:"owner_id"`
	Name                string `db:"name"`
	InstrumentType      string `db:"instrument_type"`
	CurrencyCode        string `db:"currency_code"`
	IsActive            bool   `db:"is_active"`
	IsDefault           bool   `db:"is_default"`
	AuditFields
}
