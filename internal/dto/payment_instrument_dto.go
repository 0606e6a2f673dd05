package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// CreatePaymentInstrumentRequest defines the structure for creating an instrument.
type CreatePaymentInstrumentRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	InstrumentType string `json:"instrumentType" binding:"required,oneof=CASH BANK_ACCOUNT CREDIT_CARD DIGITAL_WALLET"`
	CurrencyCode   string `json:"currencyCode" binding:"required,currency"`
	IsDefault      bool   `json:"isDefault"`
}

// UpdatePaymentInstrumentRequest defines the updatable fields. The currency is deliberately absent.
type UpdatePaymentInstrumentRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=100"`
	InstrumentType *string `json:"instrumentType" binding:"omitempty,oneof=CASH BANK_ACCOUNT CREDIT_CARD DIGITAL_WALLET"`
	IsActive       *bool   `json:"isActive"`
}

// PaymentInstrumentResponse defines the data returned for an instrument.
type PaymentInstrumentResponse struct {
	PaymentInstrumentID string    `json:"paymentInstrumentID"`
	Name                string    `json:"name"`
	InstrumentType      string    `json:"instrumentType"`
	CurrencyCode        string    `json:"currencyCode"`
	IsActive            bool      `json:"isActive"`
	IsDefault           bool      `json:"isDefault"`
	CreatedAt           time.Time `json:"createdAt"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
}

// ToPaymentInstrumentResponse converts a domain.PaymentInstrument to its DTO.
func ToPaymentInstrumentResponse(pi *domain.PaymentInstrument) PaymentInstrumentResponse {
	return PaymentInstrumentResponse{
		PaymentInstrumentID: pi.PaymentInstrumentID,
		Name:                pi.Name,
		InstrumentType:      string(pi.InstrumentType),
		CurrencyCode:        pi.CurrencyCode,
		IsActive:            pi.IsActive,
		IsDefault:           pi.IsDefault,
		CreatedAt:           pi.CreatedAt,
		LastUpdatedAt:       pi.LastUpdatedAt,
	}
}

// ListPaymentInstrumentsParams defines query parameters for listing instruments.
type ListPaymentInstrumentsParams struct {
	ActiveOnly bool `form:"activeOnly,default=false"`
}

// ListPaymentInstrumentsResponse wraps the list of instruments.
type ListPaymentInstrumentsResponse struct {
	PaymentInstruments []PaymentInstrumentResponse `json:"paymentInstruments"`
}

// ToListPaymentInstrumentsResponse converts a slice of instruments to its DTO.
func ToListPaymentInstrumentsResponse(pis []domain.PaymentInstrument) ListPaymentInstrumentsResponse {
	res := make([]PaymentInstrumentResponse, len(pis))
	for i := range pis {
		res[i] = ToPaymentInstrumentResponse(&pis[i])
	}
	return ListPaymentInstrumentsResponse{PaymentInstruments: res}
}
