package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the structure for creating a monthly budget.
// Exactly one of CategoryID and TagID must be set.
type CreateBudgetRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=100"`
	CategoryID  *string          `json:"categoryID"`
	TagID       *string          `json:"tagID"`
	PeriodYear  int              `json:"periodYear" binding:"required,min=1970,max=9999"`
	PeriodMonth int              `json:"periodMonth" binding:"required,min=1,max=12"`
	LimitAmount *decimal.Decimal `json:"limitAmount" binding:"required"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID     string          `json:"budgetID"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"categoryID,omitempty"`
	TagID        *string         `json:"tagID,omitempty"`
	PeriodYear   int             `json:"periodYear"`
	PeriodMonth  int             `json:"periodMonth"`
	LimitAmount  decimal.Decimal `json:"limitAmount"`
	CurrencyCode string          `json:"currencyCode"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToBudgetResponse converts a domain.Budget to its DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:     b.BudgetID,
		Name:         b.Name,
		CategoryID:   b.CategoryID,
		TagID:        b.TagID,
		PeriodYear:   b.PeriodYear,
		PeriodMonth:  int(b.PeriodMonth),
		LimitAmount:  b.LimitAmount,
		CurrencyCode: b.CurrencyCode,
		CreatedAt:    b.CreatedAt,
	}
}

// ListBudgetsParams defines query parameters for listing budgets of one month.
type ListBudgetsParams struct {
	Year  int `form:"year" binding:"required,min=1970,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// ListBudgetsResponse wraps a list of budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToListBudgetsResponse converts a slice of budgets to its DTO.
func ToListBudgetsResponse(budgets []domain.Budget) ListBudgetsResponse {
	res := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = ToBudgetResponse(&budgets[i])
	}
	return ListBudgetsResponse{Budgets: res}
}

// BudgetBreakdownItemResponse is one row of a breakdown.
type BudgetBreakdownItemResponse struct {
	PaymentInstrumentID *string         `json:"paymentInstrumentID,omitempty"`
	InstrumentName      string          `json:"instrumentName"`
	IsLegacy            bool            `json:"isLegacy"`
	AmountSpent         decimal.Decimal `json:"amountSpent"`
	TransactionCount    int             `json:"transactionCount"`
	Percentage          decimal.Decimal `json:"percentage"`
}

// BudgetBreakdownResponse defines the data returned for a budget breakdown.
type BudgetBreakdownResponse struct {
	Budget          BudgetResponse                `json:"budget"`
	TotalSpent      decimal.Decimal               `json:"totalSpent"`
	TotalPercentage decimal.Decimal               `json:"totalPercentage"`
	Remaining       decimal.Decimal               `json:"remaining"`
	Items           []BudgetBreakdownItemResponse `json:"items"`
}

// ToBudgetBreakdownResponse converts a domain.BudgetBreakdown to its DTO.
func ToBudgetBreakdownResponse(b *domain.BudgetBreakdown) BudgetBreakdownResponse {
	items := make([]BudgetBreakdownItemResponse, len(b.Items))
	for i, it := range b.Items {
		items[i] = BudgetBreakdownItemResponse{
			PaymentInstrumentID: it.PaymentInstrumentID,
			InstrumentName:      it.InstrumentName,
			IsLegacy:            it.IsLegacy,
			AmountSpent:         it.AmountSpent,
			TransactionCount:    it.TransactionCount,
			Percentage:          it.Percentage,
		}
	}
	return BudgetBreakdownResponse{
		Budget:          ToBudgetResponse(&b.Budget),
		TotalSpent:      b.TotalSpent,
		TotalPercentage: b.TotalPercentage,
		Remaining:       b.Remaining,
		Items:           items,
	}
}
