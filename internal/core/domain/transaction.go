package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// IsValid reports whether t is INCOME or EXPENSE.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// ConversionDetails records how a transaction's native amount was turned into the reporting amount.
type ConversionDetails struct {
	NativeAmount            decimal.Decimal `json:"nativeAmount"`     // in the instrument's currency
	ExchangeRateUsed        decimal.Decimal `json:"exchangeRateUsed"` // instrument currency -> reporting currency
	ReportingCurrencyAtTime string          `json:"reportingCurrencyAtTime"`
}

// Transaction is an income or expense. Legacy transactions predate payment instruments:
// they have neither a PaymentInstrumentID nor Conversion details.
type Transaction struct {
	TransactionID       string             `json:"transactionID"`
	OwnerID             string             `json:"ownerID"`
	PaymentInstrumentID *string            `json:"paymentInstrumentID,omitempty"`
	Type                TransactionType    `json:"type"`
	Amount              decimal.Decimal    `json:"amount"` // reporting currency, fixed at recording time
	Conversion          *ConversionDetails `json:"conversion,omitempty"`
	CategoryID          *string            `json:"categoryID,omitempty"`
	TagIDs              []string           `json:"tagIDs"`
	TransactionDate     time.Time          `json:"transactionDate"`
	Description         string             `json:"description"`
	AuditFields
}

// IsLegacy reports whether the transaction was recorded without a payment instrument.
func (t Transaction) IsLegacy() bool {
	return t.PaymentInstrumentID == nil
}

// SignedAmount returns Amount positive for income and negative for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// HasTag reports whether the transaction is tagged with tagID.
func (t Transaction) HasTag(tagID string) bool {
	for _, id := range t.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Validate enforces the legacy/converted variant rules and the amount invariant.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", apperrors.ErrValidation)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("%w: transaction date is required", apperrors.ErrValidation)
	}
	if t.PaymentInstrumentID == nil {
		if t.Conversion != nil {
			return fmt.Errorf("%w: conversion details require a payment instrument", apperrors.ErrInvalidScope)
		}
		if !t.Amount.IsPositive() {
			return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		return nil
	}

	if t.Conversion == nil {
		return fmt.Errorf("%w: a payment instrument transaction must carry conversion details", apperrors.ErrInvalidScope)
	}
	c := t.Conversion
	if !c.NativeAmount.IsPositive() {
		return fmt.Errorf("%w: native amount must be positive", apperrors.ErrValidation)
	}
	if !c.ExchangeRateUsed.IsPositive() {
		return fmt.Errorf("%w: exchange rate used must be positive", apperrors.ErrValidation)
	}
	if !IsCurrencyCode(c.ReportingCurrencyAtTime) {
		return fmt.Errorf("%w: reporting currency must be three uppercase letters", apperrors.ErrValidation)
	}
	if want := ApplyRate(c.NativeAmount, c.ExchangeRateUsed); !t.Amount.Equal(want) {
		return fmt.Errorf("%w: amount %s does not match native amount %s at rate %s (expected %s)",
			apperrors.ErrValidation, t.Amount, c.NativeAmount, c.ExchangeRateUsed, want)
	}
	return nil
}
