package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// PaymentInstrumentReader defines read operations for payment instruments
type PaymentInstrumentReader interface {
	// FindPaymentInstrumentByID retrieves a specific instrument by its unique identifier.
	FindPaymentInstrumentByID(ctx context.Context, instrumentID string) (*domain.PaymentInstrument, error)

	// ListPaymentInstrumentsByOwner retrieves an owner's instruments in creation order.
	ListPaymentInstrumentsByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.PaymentInstrument, error)

	// ListActiveCurrencies retrieves the distinct currencies of all active instruments, across owners.
	ListActiveCurrencies(ctx context.Context) ([]string, error)
}

// PaymentInstrumentWriter defines write operations for payment instruments.
// None of them change an instrument's currency.
type PaymentInstrumentWriter interface {
	// SavePaymentInstrument persists a new instrument, clearing the owner's previous default if it is the default.
	SavePaymentInstrument(ctx context.Context, instrument domain.PaymentInstrument) error

	// UpdatePaymentInstrument updates name, type and active flag.
	UpdatePaymentInstrument(ctx context.Context, instrument domain.PaymentInstrument) error

	// SetDefaultPaymentInstrument makes the instrument the owner's only default.
	SetDefaultPaymentInstrument(ctx context.Context, ownerID, instrumentID, userID string, now time.Time) error
}

// PaymentInstrumentRepositoryFacade combines all payment instrument repository interfaces
type PaymentInstrumentRepositoryFacade interface {
	PaymentInstrumentReader
	PaymentInstrumentWriter
}
