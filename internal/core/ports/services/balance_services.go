package services

import (
	"context"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// BalanceSvc aggregates instrument balances into one reporting currency.
type BalanceSvc interface {
	// TotalBalance converts each active instrument's native balance at today's rate.
	// Stale rates are flagged; instruments with no rate at all are flagged and left out of the total.
	TotalBalance(ctx context.Context, ownerID, reportingCurrency string) (*domain.BalanceReport, error)
}
