package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionMapping_LegacyHasNoConversionColumns(t *testing.T) {
	legacy := domain.Transaction{
		TransactionID:   "t1",
		Type:            domain.Expense,
		Amount:          decimal.RequireFromString("12.50"),
		TransactionDate: time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC),
	}

	m := mapping.ToModelTransaction(legacy)
	assert.Nil(t, m.PaymentInstrumentID)
	assert.Nil(t, m.NativeAmount)
	assert.Nil(t, m.ExchangeRateUsed)
	assert.Nil(t, m.ReportingCurrencyAtTime)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m.TransactionDate)

	back := mapping.ToDomainTransaction(m)
	assert.True(t, back.IsLegacy())
	assert.Nil(t, back.Conversion)
	assert.NotNil(t, back.TagIDs)
}

func TestTransactionMapping_ConvertedKeepsDetails(t *testing.T) {
	instrumentID := "pi-1"
	native := decimal.RequireFromString("1000")
	rate := decimal.RequireFromString("0.006689")
	currency := "USD"

	d := mapping.ToDomainTransaction(models.Transaction{
		TransactionID:           "t2",
		PaymentInstrumentID:     &instrumentID,
		TransactionType:         "EXPENSE",
		Amount:                  decimal.RequireFromString("6.69"),
		NativeAmount:            &native,
		ExchangeRateUsed:        &rate,
		ReportingCurrencyAtTime: &currency,
		TransactionDate:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		TagIDs:                  []string{"food"},
	})
	require.NotNil(t, d.Conversion)
	assert.Equal(t, "USD", d.Conversion.ReportingCurrencyAtTime)
	assert.NoError(t, d.Validate())

	m := mapping.ToModelTransaction(d)
	require.NotNil(t, m.ExchangeRateUsed)
	assert.True(t, m.ExchangeRateUsed.Equal(rate))
}
