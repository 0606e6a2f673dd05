package models

import "github.com/shopspring/decimal"

// Budget is a row of the budgets table.
type Budget struct {
	BudgetID     string          `db:"budget_id"`
	OwnerID      string          `db:"owner_id"`
	Name         string          `db:"name"`
	CategoryID   *string         `db:"category_id"`
	TagID        *string         `db:"tag_id"`
	PeriodYear   int             `db:"period_year"`
	PeriodMonth  int             `db:"period_month"`
	LimitAmount  decimal.Decimal `db:"limit_amount"`
	CurrencyCode string          `db:"currency_code"`
	AuditFields
}
