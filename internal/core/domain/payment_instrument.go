package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
)

// InstrumentType classifies a payment instrument.
type InstrumentType string

const (
	InstrumentCash          InstrumentType = "CASH"
	InstrumentBankAccount   InstrumentType = "BANK_ACCOUNT"
	InstrumentCreditCard    InstrumentType = "CREDIT_CARD"
	InstrumentDigitalWallet InstrumentType = "DIGITAL_WALLET"
)

// IsValid reports whether t is one of the known instrument types.
func (t InstrumentType) IsValid() bool {
	switch t {
	case InstrumentCash, InstrumentBankAccount, InstrumentCreditCard, InstrumentDigitalWallet:
		return true
	}
	return false
}

// PaymentInstrument is a wallet, card or account denominated in a single currency.
// CurrencyCode never changes after creation.
type PaymentInstrument struct {
	PaymentInstrumentID string         `json:"paymentInstrumentID"`
	OwnerID             string         `json:"ownerID"`
	Name                string         `json:"name"`
	InstrumentType      InstrumentType `json:"instrumentType"`
	CurrencyCode        string         `json:"currencyCode"`
	IsActive            bool           `json:"isActive"`
	IsDefault           bool           `json:"isDefault"`
	AuditFields
}

// Validate checks the fields required on creation.
func (p PaymentInstrument) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: instrument name is required", apperrors.ErrValidation)
	}
	if !p.InstrumentType.IsValid() {
		return fmt.Errorf("%w: unknown instrument type %q", apperrors.ErrValidation, p.InstrumentType)
	}
	if !IsCurrencyCode(p.CurrencyCode) {
		return fmt.Errorf("%w: currency code must be three uppercase letters", apperrors.ErrValidation)
	}
	if p.IsDefault && !p.IsActive {
		return fmt.Errorf("%w: an inactive instrument cannot be the default", apperrors.ErrValidation)
	}
	return nil
}
