package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// BudgetReader defines read operations for budgets
type BudgetReader interface {
	// FindBudgetByID retrieves a specific budget.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgetsByOwner retrieves the owner's budgets for one month.
	ListBudgetsByOwner(ctx context.Context, ownerID string, year int, month time.Month) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budgets
type BudgetWriter interface {
	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error
}

// BudgetRepositoryFacade combines all budget repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
