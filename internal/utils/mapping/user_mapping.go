package mapping

import (
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:            d.UserID,
		Name:              d.Name,
		ReportingCurrency: d.ReportingCurrency,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:            m.UserID,
		Name:              m.Name,
		ReportingCurrency: m.ReportingCurrency,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
