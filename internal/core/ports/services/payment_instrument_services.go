package services

import (
	"context"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
)

// PaymentInstrumentReaderSvc defines read operations for payment instruments
type PaymentInstrumentReaderSvc interface {
	GetPaymentInstrument(ctx context.Context, instrumentID, userID string) (*domain.PaymentInstrument, error)
	ListPaymentInstruments(ctx context.Context, userID string, activeOnly bool) ([]domain.PaymentInstrument, error)
}

// PaymentInstrumentWriterSvc defines write operations for payment instruments
type PaymentInstrumentWriterSvc interface {
	CreatePaymentInstrument(ctx context.Context, req dto.CreatePaymentInstrumentRequest, userID string) (*domain.PaymentInstrument, error)
	UpdatePaymentInstrument(ctx context.Context, instrumentID string, req dto.UpdatePaymentInstrumentRequest, userID string) (*domain.PaymentInstrument, error)
	SetDefaultPaymentInstrument(ctx context.Context, instrumentID, userID string) (*domain.PaymentInstrument, error)
}

// PaymentInstrumentSvcFacade combines all payment instrument service interfaces
type PaymentInstrumentSvcFacade interface {
	PaymentInstrumentReaderSvc
	PaymentInstrumentWriterSvc
}
