package mapping

import (
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	m := models.ExchangeRate{
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		ValidDate:        domain.DateOf(d.ValidDate),
		Source:           string(d.Source),
		RecordedAt:       d.RecordedAt,
	}
	if d.RecordedBy != "" {
		by := d.RecordedBy
		m.RecordedBy = &by
	}
	return m
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	d := domain.ExchangeRate{
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		ValidDate:        domain.DateOf(m.ValidDate),
		Source:           domain.RateSource(m.Source),
		RecordedAt:       m.RecordedAt,
	}
	if m.RecordedBy != nil {
		d.RecordedBy = *m.RecordedBy
	}
	return d
}

// ToDomainExchangeRateSlice converts a slice of model ExchangeRates to domain ExchangeRates
func ToDomainExchangeRateSlice(ms []models.ExchangeRate) []domain.ExchangeRate {
	ds := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRate(m)
	}
	return ds
}
