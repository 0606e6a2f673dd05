package mapping

import (
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
)

// ToModelPaymentInstrument converts a domain PaymentInstrument to a model PaymentInstrument
func ToModelPaymentInstrument(d domain.PaymentInstrument) models.PaymentInstrument {
	return models.PaymentInstrument{
		PaymentInstrumentID: d.PaymentInstrumentID,
		OwnerID:             d.OwnerID,
		Name:                d.Name,
		InstrumentType:      string(d.InstrumentType),
		CurrencyCode:        d.CurrencyCode,
		IsActive:            d.IsActive,
		IsDefault:           d.IsDefault,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentInstrument converts a model PaymentInstrument to a domain PaymentInstrument
func ToDomainPaymentInstrument(m models.PaymentInstrument) domain.PaymentInstrument {
	return domain.PaymentInstrument{
		PaymentInstrumentID: m.PaymentInstrumentID,
		OwnerID:             m.OwnerID,
		Name:                m.Name,
		InstrumentType:      domain.InstrumentType(m.InstrumentType),
		CurrencyCode:        m.CurrencyCode,
		IsActive:            m.IsActive,
		IsDefault:           m.IsDefault,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentInstrumentSlice converts a slice of model instruments to domain instruments
func ToDomainPaymentInstrumentSlice(ms []models.PaymentInstrument) []domain.PaymentInstrument {
	ds := make([]domain.PaymentInstrument, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentInstrument(m)
	}
	return ds
}
