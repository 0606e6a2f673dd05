package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nativeAmountScale matches the precision of the native_amount column.
const nativeAmountScale int32 = 4

// transactionService implements the portssvc.TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txnRepo        portsrepo.TransactionRepositoryFacade
	instrumentRepo portsrepo.PaymentInstrumentReader
	userRepo       portsrepo.UserReader
	rates          portssvc.RateResolverSvc
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	instrumentRepo portsrepo.PaymentInstrumentReader,
	userRepo portsrepo.UserReader,
	rates portssvc.RateResolverSvc,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:        txnRepo,
		instrumentRepo: instrumentRepo,
		userRepo:       userRepo,
		rates:          rates,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a legacy or an instrument-bound transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	date, err := domain.ParseDate(req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction owner: %w", err)
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		OwnerID:         userID,
		Type:            domain.TransactionType(strings.ToUpper(req.Type)),
		CategoryID:      req.CategoryID,
		TagIDs:          dedupe(req.TagIDs),
		TransactionDate: date,
		Description:     req.Description,
		AuditFields:     domain.NewAuditFields(userID, s.Now()),
	}

	if req.PaymentInstrumentID == nil {
		if req.NativeAmount != nil || req.ManualRate != nil {
			return nil, apperrors.NewInvalidScopeError("native amount and manual rate require a payment instrument")
		}
		if req.Amount == nil {
			return nil, apperrors.NewValidationError("amount is required without a payment instrument")
		}
		txn.Amount = req.Amount.Round(domain.AmountScale)
	} else {
		if req.Amount != nil {
			return nil, apperrors.NewInvalidScopeError("amount is derived for payment instrument transactions, send nativeAmount")
		}
		if req.NativeAmount == nil {
			return nil, apperrors.NewValidationError("native amount is required with a payment instrument")
		}
		conversion, err := s.convertForInstrument(ctx, *req.PaymentInstrumentID, userID, *req.NativeAmount, req.ManualRate, user.ReportingCurrency, txn)
		if err != nil {
			return nil, err
		}
		instrumentID := *req.PaymentInstrumentID
		txn.PaymentInstrumentID = &instrumentID
		txn.Conversion = conversion
		txn.Amount = domain.ApplyRate(conversion.NativeAmount, conversion.ExchangeRateUsed)
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", "owner_id", userID)
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.LogInfo(ctx, "Transaction recorded", "transaction_id", txn.TransactionID, "legacy", txn.IsLegacy(), "amount", txn.Amount.String())
	return &txn, nil
}

// convertForInstrument fixes the rate used by the transaction: the manual override, else 1 for
// same-currency instruments, else the store's rate as of the transaction date.
func (s *transactionService) convertForInstrument(
	ctx context.Context,
	instrumentID, userID string,
	nativeAmount decimal.Decimal,
	manualRate *decimal.Decimal,
	reportingCurrency string,
	txn domain.Transaction,
) (*domain.ConversionDetails, error) {
	instrument, err := s.instrumentRepo.FindPaymentInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	if instrument.OwnerID != userID {
		return nil, fmt.Errorf("%w: payment instrument %s belongs to another user", apperrors.ErrForbidden, instrumentID)
	}
	if !instrument.IsActive {
		return nil, apperrors.NewValidationError("payment instrument is inactive")
	}

	var rate decimal.Decimal
	switch {
	case manualRate != nil:
		rate = manualRate.Round(domain.RateScale)
	case instrument.CurrencyCode == reportingCurrency:
		rate = decimal.NewFromInt(1)
	default:
		resolved, err := s.rates.ResolveRate(ctx, instrument.CurrencyCode, reportingCurrency, txn.TransactionDate)
		if err != nil {
			if errors.Is(err, apperrors.ErrRateNotFound) {
				s.LogWarn(ctx, "No rate for transaction and no manual override",
					"from", instrument.CurrencyCode, "to", reportingCurrency, "date", txn.TransactionDate.Format(domain.DateLayout))
			}
			return nil, err
		}
		rate = resolved.Rate.Round(domain.RateScale)
	}

	return &domain.ConversionDetails{
		NativeAmount:            nativeAmount.Round(nativeAmountScale),
		ExchangeRateUsed:        rate,
		ReportingCurrencyAtTime: reportingCurrency,
	}, nil
}

// GetTransaction retrieves a transaction owned by userID.
func (s *transactionService) GetTransaction(ctx context.Context, transactionID, userID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.OwnerID != userID {
		return nil, fmt.Errorf("%w: transaction %s belongs to another user", apperrors.ErrForbidden, transactionID)
	}
	return txn, nil
}

// ListTransactions lists a page of the user's transactions, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, next, err := s.txnRepo.ListTransactionsByOwner(ctx, userID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", "owner_id", userID)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	res := dto.ToListTransactionsResponse(txns, next)
	return &res, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
