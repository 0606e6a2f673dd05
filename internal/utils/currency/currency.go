// Package currency wraps ISO 4217 metadata for code validation and display.
package currency

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsKnown reports whether code is a currency known to go-money.
func IsKnown(code string) bool {
	return money.GetCurrency(Normalize(code)) != nil
}

// Validate normalizes code and returns it, or an ErrValidation error when it is not a known currency.
func Validate(code string) (string, error) {
	normalized := Normalize(code)
	if len(normalized) != 3 || !IsKnown(normalized) {
		return "", fmt.Errorf("%w: unknown currency code %q", apperrors.ErrValidation, code)
	}
	return normalized, nil
}

// Fraction returns the number of minor-unit digits of code, 2 if unknown.
func Fraction(code string) int {
	if cur := money.GetCurrency(Normalize(code)); cur != nil {
		return cur.Fraction
	}
	return 2
}

// Format renders amount with the currency's symbol, separators and minor-unit precision.
func Format(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(Normalize(code))
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
