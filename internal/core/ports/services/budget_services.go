package services

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
)

// BudgetReaderSvc defines read operations for budgets
type BudgetReaderSvc interface {
	GetBudget(ctx context.Context, budgetID, userID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, userID string, year int, month time.Month) ([]domain.Budget, error)

	// Breakdown attributes the budget's spend to payment instruments and the legacy bucket.
	Breakdown(ctx context.Context, budgetID, ownerID string) (*domain.BudgetBreakdown, error)
}

// BudgetWriterSvc defines write operations for budgets
type BudgetWriterSvc interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)
}

// BudgetSvcFacade combines all budget service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
}
