package pgsql

import (
	"context"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// A fetched rate never replaces a manual override for the same pair and day.
// The row is still touched, so the statement reports one affected row.
const upsertExchangeRateQuery = `
	INSERT INTO exchange_rates (` + exchangeRateColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (from_currency_code, to_currency_code, valid_date) DO UPDATE SET
		rate = CASE WHEN exchange_rates.source = 'manual' AND EXCLUDED.source = 'fetched'
			THEN exchange_rates.rate ELSE EXCLUDED.rate END,
		recorded_at = CASE WHEN exchange_rates.source = 'manual' AND EXCLUDED.source = 'fetched'
			THEN exchange_rates.recorded_at ELSE EXCLUDED.recorded_at END,
		recorded_by = CASE WHEN exchange_rates.source = 'manual' AND EXCLUDED.source = 'fetched'
			THEN exchange_rates.recorded_by ELSE EXCLUDED.recorded_by END,
		source = CASE WHEN exchange_rates.source = 'manual' AND EXCLUDED.source = 'fetched'
			THEN exchange_rates.source ELSE EXCLUDED.source END;
`

// PgxServiceRateWriter writes the rate store through the elevated service pool.
type PgxServiceRateWriter struct {
	BaseRepository
}

// NewServiceRateWriter creates the only rate writer. servicePool must be opened with the
// service credential; the user credential has no write grant on exchange_rates.
func NewServiceRateWriter(servicePool *pgxpool.Pool) portsrepo.ServiceRateWriter {
	return &PgxServiceRateWriter{
		BaseRepository: BaseRepository{Pool: servicePool},
	}
}

var _ portsrepo.ServiceRateWriter = (*PgxServiceRateWriter)(nil)

// CredentialScope reports the service scope.
func (w *PgxServiceRateWriter) CredentialScope() domain.CredentialScope {
	return domain.CredentialScopeService
}

// UpsertExchangeRate inserts or updates the row for (from, to, valid_date).
func (w *PgxServiceRateWriter) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (int64, error) {
	m := mapping.ToModelExchangeRate(rate)
	tag, err := w.Pool.Exec(ctx, upsertExchangeRateQuery,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Rate,
		m.ValidDate,
		m.Source,
		m.RecordedAt,
		m.RecordedBy,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to upsert exchange rate", err)
	}
	return tag.RowsAffected(), nil
}
