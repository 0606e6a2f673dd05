package repositories

import (
	"context"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for income and expense transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction with its tags.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByOwner retrieves a page of an owner's transactions, newest first.
	// A nil next token means there are no more pages.
	ListTransactionsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumNativeBalancesByInstrument returns income minus expense of native amounts per instrument ID.
	// Legacy transactions are not included.
	SumNativeBalancesByInstrument(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error)

	// ListBudgetTransactions retrieves the owner's expenses in the budget month that match its category or tag.
	ListBudgetTransactions(ctx context.Context, budget domain.Budget) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transactions. Recorded amounts are never rewritten.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and its tags atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
