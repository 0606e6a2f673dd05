package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/google/uuid"
)

// paymentInstrumentService implements the portssvc.PaymentInstrumentSvcFacade interface
type paymentInstrumentService struct {
	BaseService
	instrumentRepo portsrepo.PaymentInstrumentRepositoryFacade
}

// NewPaymentInstrumentService creates a new payment instrument service.
func NewPaymentInstrumentService(instrumentRepo portsrepo.PaymentInstrumentRepositoryFacade) portssvc.PaymentInstrumentSvcFacade {
	return &paymentInstrumentService{instrumentRepo: instrumentRepo}
}

var _ portssvc.PaymentInstrumentSvcFacade = (*paymentInstrumentService)(nil)

// CreatePaymentInstrument creates an instrument. An owner's first instrument becomes the default.
func (s *paymentInstrumentService) CreatePaymentInstrument(ctx context.Context, req dto.CreatePaymentInstrumentRequest, userID string) (*domain.PaymentInstrument, error) {
	existing, err := s.instrumentRepo.ListPaymentInstrumentsByOwner(ctx, userID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment instruments", "owner_id", userID)
		return nil, fmt.Errorf("failed to list payment instruments: %w", err)
	}

	instrument := domain.PaymentInstrument{
		PaymentInstrumentID: uuid.NewString(),
		OwnerID:             userID,
		Name:                strings.TrimSpace(req.Name),
		InstrumentType:      domain.InstrumentType(req.InstrumentType),
		CurrencyCode:        strings.ToUpper(req.CurrencyCode),
		IsActive:            true,
		IsDefault:           req.IsDefault || len(existing) == 0,
		AuditFields:         domain.NewAuditFields(userID, s.Now()),
	}
	if err := instrument.Validate(); err != nil {
		return nil, err
	}

	if err := s.instrumentRepo.SavePaymentInstrument(ctx, instrument); err != nil {
		s.LogError(ctx, err, "Failed to save payment instrument", "owner_id", userID)
		return nil, fmt.Errorf("failed to save payment instrument: %w", err)
	}
	s.LogInfo(ctx, "Payment instrument created", "instrument_id", instrument.PaymentInstrumentID,
		"currency", instrument.CurrencyCode, "default", instrument.IsDefault)
	return &instrument, nil
}

// GetPaymentInstrument retrieves an instrument owned by userID.
func (s *paymentInstrumentService) GetPaymentInstrument(ctx context.Context, instrumentID, userID string) (*domain.PaymentInstrument, error) {
	instrument, err := s.instrumentRepo.FindPaymentInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	if instrument.OwnerID != userID {
		return nil, fmt.Errorf("%w: payment instrument %s belongs to another user", apperrors.ErrForbidden, instrumentID)
	}
	return instrument, nil
}

func (s *paymentInstrumentService) ListPaymentInstruments(ctx context.Context, userID string, activeOnly bool) ([]domain.PaymentInstrument, error) {
	instruments, err := s.instrumentRepo.ListPaymentInstrumentsByOwner(ctx, userID, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment instruments", "owner_id", userID)
		return nil, fmt.Errorf("failed to list payment instruments: %w", err)
	}
	return instruments, nil
}

// UpdatePaymentInstrument changes name, type or active flag. The currency cannot change.
func (s *paymentInstrumentService) UpdatePaymentInstrument(ctx context.Context, instrumentID string, req dto.UpdatePaymentInstrumentRequest, userID string) (*domain.PaymentInstrument, error) {
	instrument, err := s.GetPaymentInstrument(ctx, instrumentID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		instrument.Name = strings.TrimSpace(*req.Name)
	}
	if req.InstrumentType != nil {
		instrument.InstrumentType = domain.InstrumentType(*req.InstrumentType)
	}
	if req.IsActive != nil {
		if !*req.IsActive && instrument.IsDefault {
			return nil, apperrors.NewValidationError("the default payment instrument cannot be deactivated, choose another default first")
		}
		instrument.IsActive = *req.IsActive
	}
	instrument.LastUpdatedAt = s.Now()
	instrument.LastUpdatedBy = userID
	if err := instrument.Validate(); err != nil {
		return nil, err
	}

	if err := s.instrumentRepo.UpdatePaymentInstrument(ctx, *instrument); err != nil {
		s.LogError(ctx, err, "Failed to update payment instrument", "instrument_id", instrumentID)
		return nil, fmt.Errorf("failed to update payment instrument: %w", err)
	}
	return instrument, nil
}

// SetDefaultPaymentInstrument makes the instrument the owner's only default.
func (s *paymentInstrumentService) SetDefaultPaymentInstrument(ctx context.Context, instrumentID, userID string) (*domain.PaymentInstrument, error) {
	instrument, err := s.GetPaymentInstrument(ctx, instrumentID, userID)
	if err != nil {
		return nil, err
	}
	if !instrument.IsActive {
		return nil, apperrors.NewValidationError("an inactive payment instrument cannot be the default")
	}
	if instrument.IsDefault {
		return instrument, nil
	}

	now := s.Now()
	if err := s.instrumentRepo.SetDefaultPaymentInstrument(ctx, userID, instrumentID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to set default payment instrument", "instrument_id", instrumentID)
		return nil, fmt.Errorf("failed to set default payment instrument: %w", err)
	}
	instrument.IsDefault = true
	instrument.LastUpdatedAt = now
	instrument.LastUpdatedBy = userID
	return instrument, nil
}
