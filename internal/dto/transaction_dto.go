package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the structure for recording an income or expense.
// Without a payment instrument, Amount is the reporting-currency value (legacy shape).
// With one, NativeAmount is in the instrument's currency and ManualRate optionally
// overrides the looked-up rate.
type CreateTransactionRequest struct {
	PaymentInstrumentID *string          `json:"paymentInstrumentID"`
	Type                string           `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount              *decimal.Decimal `json:"amount"`
	NativeAmount        *decimal.Decimal `json:"nativeAmount"`
	ManualRate          *decimal.Decimal `json:"manualRate"`
	CategoryID          *string          `json:"categoryID"`
	TagIDs              []string         `json:"tagIDs" binding:"omitempty,dive,required,max=64"`
	TransactionDate     string           `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Description         string           `json:"description" binding:"max=500"`
}

// TransactionConversionResponse carries the native side of a converted transaction.
type TransactionConversionResponse struct {
	NativeAmount            decimal.Decimal `json:"nativeAmount"`
	ExchangeRateUsed        decimal.Decimal `json:"exchangeRateUsed"`
	ReportingCurrencyAtTime string          `json:"reportingCurrencyAtTime"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID       string                         `json:"transactionID"`
	PaymentInstrumentID *string                        `json:"paymentInstrumentID,omitempty"`
	Type                string                         `json:"type"`
	Amount              decimal.Decimal                `json:"amount"`
	Conversion          *TransactionConversionResponse `json:"conversion,omitempty"`
	CategoryID          *string                        `json:"categoryID,omitempty"`
	TagIDs              []string                       `json:"tagIDs"`
	TransactionDate     string                         `json:"transactionDate"`
	Description         string                         `json:"description"`
	CreatedAt           time.Time                      `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	res := TransactionResponse{
		TransactionID:       txn.TransactionID,
		PaymentInstrumentID: txn.PaymentInstrumentID,
		Type:                string(txn.Type),
		Amount:              txn.Amount,
		CategoryID:          txn.CategoryID,
		TagIDs:              txn.TagIDs,
		TransactionDate:     txn.TransactionDate.Format(domain.DateLayout),
		Description:         txn.Description,
		CreatedAt:           txn.CreatedAt,
	}
	if res.TagIDs == nil {
		res.TagIDs = []string{}
	}
	if c := txn.Conversion; c != nil {
		res.Conversion = &TransactionConversionResponse{
			NativeAmount:            c.NativeAmount,
			ExchangeRateUsed:        c.ExchangeRateUsed,
			ReportingCurrencyAtTime: c.ReportingCurrencyAtTime,
		}
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of domain transactions to its DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
