package mapping

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:     d.BudgetID,
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		CategoryID:   d.CategoryID,
		TagID:        d.TagID,
		PeriodYear:   d.PeriodYear,
		PeriodMonth:  int(d.PeriodMonth),
		LimitAmount:  d.LimitAmount,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:     m.BudgetID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		CategoryID:   m.CategoryID,
		TagID:        m.TagID,
		PeriodYear:   m.PeriodYear,
		PeriodMonth:  time.Month(m.PeriodMonth),
		LimitAmount:  m.LimitAmount,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
