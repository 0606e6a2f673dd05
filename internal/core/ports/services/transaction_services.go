package services

import (
	"context"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID, userID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction records a legacy or instrument-bound transaction. For instrument-bound
	// transactions the rate comes from the manual override, else from the rate store; with
	// neither it fails with apperrors.ErrRateNotFound.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
