package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RefreshStatus summarises a rate refresh run.
type RefreshStatus string

const (
	RefreshSucceeded RefreshStatus = "SUCCEEDED"
	RefreshPartial   RefreshStatus = "PARTIAL"
	RefreshFailed    RefreshStatus = "FAILED"
	RefreshNoop      RefreshStatus = "NOOP"
)

// PairRefresh is the outcome for one currency of a run.
type PairRefresh struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate,omitempty"` // anchor -> currency
	Error        string          `json:"error,omitempty"`
}

// OK reports whether both directions of the pair were written.
func (p PairRefresh) OK() bool {
	return p.Error == ""
}

// RefreshResult is the outcome of one run of the rate refresh job.
type RefreshResult struct {
	RunID          string        `json:"runID"`
	AnchorCurrency string        `json:"anchorCurrency"`
	ValidDate      time.Time     `json:"validDate"`
	Succeeded      int           `json:"succeeded"`
	Failed         []string      `json:"failed"`
	Pairs          []PairRefresh `json:"pairs,omitempty"`
	Status         RefreshStatus `json:"status"`
	StartedAt      time.Time     `json:"startedAt"`
	FinishedAt     time.Time     `json:"finishedAt"`
}

// Record adds a pair outcome to the result counters.
func (r *RefreshResult) Record(p PairRefresh) {
	r.Pairs = append(r.Pairs, p)
	if p.OK() {
		r.Succeeded++
		return
	}
	r.Failed = append(r.Failed, p.CurrencyCode)
}

// Finish stamps the end time and derives Status from the counters.
func (r *RefreshResult) Finish(now time.Time) {
	r.FinishedAt = now
	switch {
	case r.Succeeded == 0 && len(r.Failed) == 0:
		r.Status = RefreshNoop
	case len(r.Failed) == 0:
		r.Status = RefreshSucceeded
	case r.Succeeded > 0:
		r.Status = RefreshPartial
	default:
		r.Status = RefreshFailed
	}
}

// OK reports whether the run counts as successful overall.
func (r RefreshResult) OK() bool {
	return r.Status != RefreshFailed
}

// Err returns an error matching ErrPartialRefresh when any currency failed, nil otherwise.
func (r RefreshResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d currencies failed: %v",
		apperrors.ErrPartialRefresh, len(r.Failed), len(r.Failed)+r.Succeeded, r.Failed)
}
