package mapping

import (
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Legacy transactions leave the three conversion columns NULL.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:       d.TransactionID,
		OwnerID:             d.OwnerID,
		PaymentInstrumentID: d.PaymentInstrumentID,
		TransactionType:     string(d.Type),
		Amount:              d.Amount,
		CategoryID:          d.CategoryID,
		TransactionDate:     domain.DateOf(d.TransactionDate),
		Description:         d.Description,
		AuditFields:         ToModelAuditFields(d.AuditFields),
		TagIDs:              d.TagIDs,
	}
	if c := d.Conversion; c != nil {
		native, rate, currency := c.NativeAmount, c.ExchangeRateUsed, c.ReportingCurrencyAtTime
		m.NativeAmount = &native
		m.ExchangeRateUsed = &rate
		m.ReportingCurrencyAtTime = &currency
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// Conversion is set only when all three conversion columns are present.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:       m.TransactionID,
		OwnerID:             m.OwnerID,
		PaymentInstrumentID: m.PaymentInstrumentID,
		Type:                domain.TransactionType(m.TransactionType),
		Amount:              m.Amount,
		CategoryID:          m.CategoryID,
		TagIDs:              m.TagIDs,
		TransactionDate:     domain.DateOf(m.TransactionDate),
		Description:         m.Description,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	if d.TagIDs == nil {
		d.TagIDs = []string{}
	}
	if m.NativeAmount != nil && m.ExchangeRateUsed != nil && m.ReportingCurrencyAtTime != nil {
		d.Conversion = &domain.ConversionDetails{
			NativeAmount:            *m.NativeAmount,
			ExchangeRateUsed:        *m.ExchangeRateUsed,
			ReportingCurrencyAtTime: *m.ReportingCurrencyAtTime,
		}
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
