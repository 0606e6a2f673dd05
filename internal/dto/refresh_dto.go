package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// RefreshRunResponse defines the data returned after a rate refresh run.
type RefreshRunResponse struct {
	RunID          string    `json:"runID"`
	Status         string    `json:"status"`
	AnchorCurrency string    `json:"anchorCurrency"`
	ValidDate      string    `json:"validDate"`
	Succeeded      int       `json:"succeeded"`
	Failed         []string  `json:"failed"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// ToRefreshRunResponse converts a domain.RefreshResult to its DTO.
func ToRefreshRunResponse(r *domain.RefreshResult) RefreshRunResponse {
	failed := r.Failed
	if failed == nil {
		failed = []string{}
	}
	return RefreshRunResponse{
		RunID:          r.RunID,
		Status:         string(r.Status),
		AnchorCurrency: r.AnchorCurrency,
		ValidDate:      r.ValidDate.Format(domain.DateLayout),
		Succeeded:      r.Succeeded,
		Failed:         failed,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}
