package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `from_currency_code, to_currency_code, rate, valid_date, source, recorded_at, recorded_by`

// PgxExchangeRateRepository reads the rate store with the end-user credential. It never writes.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new read-only exchange rate repository.
func newPgxExchangeRateRepository(db *pgxpool.Pool) portsrepo.ExchangeRateReader {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateReader = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row rowScanner) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.FromCurrencyCode, &m.ToCurrencyCode, &m.Rate, &m.ValidDate,
		&m.Source, &m.RecordedAt, &m.RecordedBy,
	)
	return m, err
}

// FindRateAsOf retrieves the rate with the most recent valid_date on or before asOf.
func (r *PgxExchangeRateRepository) FindRateAsOf(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND valid_date <= $3
		ORDER BY valid_date DESC
		LIMIT 1;
	`
	return r.findOne(ctx, query, fromCurrencyCode, toCurrencyCode, domain.DateOf(asOf))
}

// FindLatestRate retrieves the rate with the most recent valid_date.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY valid_date DESC
		LIMIT 1;
	`
	return r.findOne(ctx, query, fromCurrencyCode, toCurrencyCode)
}

func (r *PgxExchangeRateRepository) findOne(ctx context.Context, query string, args ...any) (*domain.ExchangeRate, error) {
	m, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// ListExchangeRates retrieves stored rates, newest first, with optional filtering.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates WHERE 1=1`
	args := []any{}

	if filter.FromCurrencyCode != nil {
		args = append(args, strings.ToUpper(*filter.FromCurrencyCode))
		query += fmt.Sprintf(" AND from_currency_code = $%d", len(args))
	}
	if filter.ToCurrencyCode != nil {
		args = append(args, strings.ToUpper(*filter.ToCurrencyCode))
		query += fmt.Sprintf(" AND to_currency_code = $%d", len(args))
	}
	if filter.AsOf != nil {
		args = append(args, domain.DateOf(*filter.AsOf))
		query += fmt.Sprintf(" AND valid_date <= $%d", len(args))
	}
	query += " ORDER BY valid_date DESC, from_currency_code, to_currency_code"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		m, err := scanExchangeRate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}
	return rates, nil
}
