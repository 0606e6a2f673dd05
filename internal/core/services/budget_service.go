package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/google/uuid"
)

// budgetService implements the portssvc.BudgetSvcFacade interface
type budgetService struct {
	BaseService
	budgetRepo     portsrepo.BudgetRepositoryFacade
	txnRepo        portsrepo.TransactionReader
	instrumentRepo portsrepo.PaymentInstrumentReader
	userRepo       portsrepo.UserReader
}

// NewBudgetService creates a new budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	instrumentRepo portsrepo.PaymentInstrumentReader,
	userRepo portsrepo.UserReader,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:     budgetRepo,
		txnRepo:        txnRepo,
		instrumentRepo: instrumentRepo,
		userRepo:       userRepo,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget stores a monthly budget in the owner's reporting currency.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	if req.LimitAmount == nil {
		return nil, apperrors.NewValidationError("limit amount is required")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget owner: %w", err)
	}

	budget := domain.Budget{
		BudgetID:     uuid.NewString(),
		OwnerID:      userID,
		Name:         strings.TrimSpace(req.Name),
		CategoryID:   req.CategoryID,
		TagID:        req.TagID,
		PeriodYear:   req.PeriodYear,
		PeriodMonth:  time.Month(req.PeriodMonth),
		LimitAmount:  req.LimitAmount.Round(domain.AmountScale),
		CurrencyCode: user.ReportingCurrency,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", "owner_id", userID)
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	s.LogInfo(ctx, "Budget created", "budget_id", budget.BudgetID, "owner_id", userID)
	return &budget, nil
}

// GetBudget retrieves a budget owned by userID.
func (s *budgetService) GetBudget(ctx context.Context, budgetID, userID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.OwnerID != userID {
		return nil, fmt.Errorf("%w: budget %s belongs to another user", apperrors.ErrForbidden, budgetID)
	}
	return budget, nil
}

// ListBudgets lists the user's budgets for one month.
func (s *budgetService) ListBudgets(ctx context.Context, userID string, year int, month time.Month) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgetsByOwner(ctx, userID, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", "owner_id", userID)
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// Breakdown attributes the budget month's matching expenses to payment instruments.
// Amounts are already in the reporting currency, so no rate is looked up.
func (s *budgetService) Breakdown(ctx context.Context, budgetID, ownerID string) (*domain.BudgetBreakdown, error) {
	budget, err := s.GetBudget(ctx, budgetID, ownerID)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListBudgetTransactions(ctx, *budget)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budget transactions", "budget_id", budgetID)
		return nil, fmt.Errorf("failed to list budget transactions: %w", err)
	}
	// inactive instruments still carry history
	instruments, err := s.instrumentRepo.ListPaymentInstrumentsByOwner(ctx, ownerID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment instruments", "owner_id", ownerID)
		return nil, fmt.Errorf("failed to list payment instruments: %w", err)
	}

	breakdown := domain.BuildBudgetBreakdown(*budget, txns, instruments)
	return &breakdown, nil
}
