package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
)

// ToModelRefreshRun converts a domain RefreshResult to a model RefreshRun
func ToModelRefreshRun(d domain.RefreshResult) (models.RefreshRun, error) {
	pairs, err := json.Marshal(d.Pairs)
	if err != nil {
		return models.RefreshRun{}, fmt.Errorf("failed to encode refresh pairs: %w", err)
	}
	failed := d.Failed
	if failed == nil {
		failed = []string{}
	}
	return models.RefreshRun{
		RunID:          d.RunID,
		AnchorCurrency: d.AnchorCurrency,
		ValidDate:      domain.DateOf(d.ValidDate),
		Status:         string(d.Status),
		Succeeded:      d.Succeeded,
		Failed:         failed,
		Pairs:          pairs,
		StartedAt:      d.StartedAt,
		FinishedAt:     d.FinishedAt,
	}, nil
}

// ToDomainRefreshRun converts a model RefreshRun to a domain RefreshResult
func ToDomainRefreshRun(m models.RefreshRun) (domain.RefreshResult, error) {
	d := domain.RefreshResult{
		RunID:          m.RunID,
		AnchorCurrency: m.AnchorCurrency,
		ValidDate:      domain.DateOf(m.ValidDate),
		Status:         domain.RefreshStatus(m.Status),
		Succeeded:      m.Succeeded,
		Failed:         m.Failed,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
	}
	if len(m.Pairs) > 0 {
		if err := json.Unmarshal(m.Pairs, &d.Pairs); err != nil {
			return domain.RefreshResult{}, fmt.Errorf("failed to decode refresh pairs: %w", err)
		}
	}
	return d, nil
}
