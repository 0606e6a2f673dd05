package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LegacyBucketName labels spend from transactions recorded without a payment instrument.
const LegacyBucketName = "Unspecified"

// Budget is a monthly spending limit scoped to exactly one category or one tag.
type Budget struct {
	BudgetID     string          `json:"budgetID"`
	OwnerID      string          `json:"ownerID"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"categoryID,omitempty"`
	TagID        *string         `json:"tagID,omitempty"`
	PeriodYear   int             `json:"periodYear"`
	PeriodMonth  time.Month      `json:"periodMonth"`
	LimitAmount  decimal.Decimal `json:"limitAmount"` // reporting currency
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}

// Validate checks the scope exclusivity, period and limit.
func (b Budget) Validate() error {
	hasCategory := b.CategoryID != nil && strings.TrimSpace(*b.CategoryID) != ""
	hasTag := b.TagID != nil && strings.TrimSpace(*b.TagID) != ""
	if hasCategory == hasTag {
		return apperrors.NewInvalidScopeError("a budget must be scoped to exactly one of category or tag")
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: budget name is required", apperrors.ErrValidation)
	}
	if b.PeriodMonth < time.January || b.PeriodMonth > time.December {
		return fmt.Errorf("%w: period month must be between 1 and 12", apperrors.ErrValidation)
	}
	if b.PeriodYear < 1970 || b.PeriodYear > 9999 {
		return fmt.Errorf("%w: period year %d is out of range", apperrors.ErrValidation, b.PeriodYear)
	}
	if !b.LimitAmount.IsPositive() {
		return fmt.Errorf("%w: limit amount must be positive", apperrors.ErrValidation)
	}
	return nil
}

// Period returns the half-open date range [start, end) of the budget month.
func (b Budget) Period() (time.Time, time.Time) {
	return MonthRange(b.PeriodYear, b.PeriodMonth)
}

// Matches reports whether txn counts against the budget: an expense inside the month
// carrying the budget's category or tag.
func (b Budget) Matches(txn Transaction) bool {
	if txn.Type != Expense {
		return false
	}
	start, end := b.Period()
	date := DateOf(txn.TransactionDate)
	if date.Before(start) || !date.Before(end) {
		return false
	}
	if b.CategoryID != nil {
		return txn.CategoryID != nil && *txn.CategoryID == *b.CategoryID
	}
	return b.TagID != nil && txn.HasTag(*b.TagID)
}

// BudgetBreakdownItem is the spend attributed to one instrument, or to the legacy bucket.
type BudgetBreakdownItem struct {
	PaymentInstrumentID *string         `json:"paymentInstrumentID,omitempty"`
	InstrumentName      string          `json:"instrumentName"`
	IsLegacy            bool            `json:"isLegacy"`
	AmountSpent         decimal.Decimal `json:"amountSpent"`
	TransactionCount    int             `json:"transactionCount"`
	Percentage          decimal.Decimal `json:"percentage"`
}

// BudgetBreakdown is the per-instrument attribution of a budget's spend.
type BudgetBreakdown struct {
	Budget          Budget                `json:"budget"`
	TotalSpent      decimal.Decimal       `json:"totalSpent"`
	TotalPercentage decimal.Decimal       `json:"totalPercentage"`
	Remaining       decimal.Decimal       `json:"remaining"`
	Items           []BudgetBreakdownItem `json:"items"`
}

// Percentage returns spent/limit*100 rounded to two decimal places. It may exceed 100.
func Percentage(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(decimal.NewFromInt(100)).Div(limit).Round(AmountScale)
}

// BuildBudgetBreakdown groups the matching transactions by instrument. instruments supplies
// names and creation order; they are expected in creation order.
func BuildBudgetBreakdown(budget Budget, txns []Transaction, instruments []PaymentInstrument) BudgetBreakdown {
	type bucket struct {
		item  BudgetBreakdownItem
		order int
	}

	order := make(map[string]int, len(instruments))
	names := make(map[string]string, len(instruments))
	for i, pi := range instruments {
		order[pi.PaymentInstrumentID] = i
		names[pi.PaymentInstrumentID] = pi.Name
	}

	buckets := map[string]*bucket{}
	var legacy *bucket
	total := decimal.Zero

	for _, txn := range txns {
		if !budget.Matches(txn) {
			continue
		}
		total = total.Add(txn.Amount)

		var b *bucket
		if txn.IsLegacy() {
			if legacy == nil {
				legacy = &bucket{item: BudgetBreakdownItem{InstrumentName: LegacyBucketName, IsLegacy: true, AmountSpent: decimal.Zero}}
			}
			b = legacy
		} else {
			id := *txn.PaymentInstrumentID
			b = buckets[id]
			if b == nil {
				idx, known := order[id]
				if !known {
					idx = len(instruments)
				}
				name := names[id]
				if name == "" {
					name = id
				}
				b = &bucket{
					item:  BudgetBreakdownItem{PaymentInstrumentID: &id, InstrumentName: name, AmountSpent: decimal.Zero},
					order: idx,
				}
				buckets[id] = b
			}
		}
		b.item.AmountSpent = b.item.AmountSpent.Add(txn.Amount)
		b.item.TransactionCount++
	}

	all := make([]*bucket, 0, len(buckets)+1)
	for _, b := range buckets {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if c := all[i].item.AmountSpent.Cmp(all[j].item.AmountSpent); c != 0 {
			return c > 0
		}
		if all[i].order != all[j].order {
			return all[i].order < all[j].order
		}
		return *all[i].item.PaymentInstrumentID < *all[j].item.PaymentInstrumentID
	})
	if legacy != nil {
		// legacy loses ties, so it goes right after the last instrument spending at least as much
		pos := len(all)
		for i, b := range all {
			if b.item.AmountSpent.LessThan(legacy.item.AmountSpent) {
				pos = i
				break
			}
		}
		all = append(all, nil)
		copy(all[pos+1:], all[pos:])
		all[pos] = legacy
	}

	items := make([]BudgetBreakdownItem, len(all))
	for i, b := range all {
		b.item.Percentage = Percentage(b.item.AmountSpent, budget.LimitAmount)
		items[i] = b.item
	}

	return BudgetBreakdown{
		Budget:          budget,
		TotalSpent:      total,
		TotalPercentage: Percentage(total, budget.LimitAmount),
		Remaining:       budget.LimitAmount.Sub(total),
		Items:           items,
	}
}
