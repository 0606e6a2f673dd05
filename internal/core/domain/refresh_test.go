package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestRefreshResult_Status(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		pairs []domain.PairRefresh
		want  domain.RefreshStatus
		ok    bool
	}{
		{name: "nothing to do", want: domain.RefreshNoop, ok: true},
		{name: "all good", pairs: []domain.PairRefresh{{CurrencyCode: "EUR"}}, want: domain.RefreshSucceeded, ok: true},
		{name: "partial", pairs: []domain.PairRefresh{{CurrencyCode: "EUR"}, {CurrencyCode: "GBP", Error: "timeout"}}, want: domain.RefreshPartial, ok: true},
		{name: "all failed", pairs: []domain.PairRefresh{{CurrencyCode: "GBP", Error: "timeout"}}, want: domain.RefreshFailed, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r domain.RefreshResult
			for _, p := range tt.pairs {
				r.Record(p)
			}
			r.Finish(now)
			assert.Equal(t, tt.want, r.Status)
			assert.Equal(t, tt.ok, r.OK())
			assert.Equal(t, now, r.FinishedAt)
			assert.Equal(t, len(r.Failed) > 0, errors.Is(r.Err(), apperrors.ErrPartialRefresh))
		})
	}
}
