package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRefreshRunRepository stores the refresh job's run log through the service pool.
type PgxRefreshRunRepository struct {
	BaseRepository
}

func newPgxRefreshRunRepository(servicePool *pgxpool.Pool) portsrepo.RefreshRunRecorder {
	return &PgxRefreshRunRepository{BaseRepository: BaseRepository{Pool: servicePool}}
}

var _ portsrepo.RefreshRunRecorder = (*PgxRefreshRunRepository)(nil)

func (r *PgxRefreshRunRepository) SaveRefreshRun(ctx context.Context, result domain.RefreshResult) error {
	m, err := mapping.ToModelRefreshRun(result)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode refresh run", err)
	}
	query := `
		INSERT INTO rate_refresh_runs (
			run_id, anchor_currency, valid_date, status, succeeded, failed, pairs, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RunID, m.AnchorCurrency, m.ValidDate, m.Status, m.Succeeded, m.Failed, m.Pairs, m.StartedAt, m.FinishedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save refresh run", err)
	}
	return nil
}

func (r *PgxRefreshRunRepository) FindLastRefreshRun(ctx context.Context) (*domain.RefreshResult, error) {
	query := `
		SELECT run_id, anchor_currency, valid_date, status, succeeded, failed, pairs, started_at, finished_at
		FROM rate_refresh_runs
		ORDER BY started_at DESC
		LIMIT 1;
	`
	var m models.RefreshRun
	err := r.Pool.QueryRow(ctx, query).Scan(
		&m.RunID, &m.AnchorCurrency, &m.ValidDate, &m.Status, &m.Succeeded, &m.Failed, &m.Pairs, &m.StartedAt, &m.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no refresh run recorded yet")
		}
		return nil, apperrors.NewAppError(500, "failed to find last refresh run", err)
	}
	run, err := mapping.ToDomainRefreshRun(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode refresh run", err)
	}
	return &run, nil
}
