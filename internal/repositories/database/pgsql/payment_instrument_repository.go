package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentInstrumentColumns = `payment_instrument_id, owner_id, name, instrument_type, currency_code, is_active, is_default,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxPaymentInstrumentRepository implements portsrepo.PaymentInstrumentRepositoryFacade.
type PgxPaymentInstrumentRepository struct {
	BaseRepository
}

func newPgxPaymentInstrumentRepository(db *pgxpool.Pool) portsrepo.PaymentInstrumentRepositoryFacade {
	return &PgxPaymentInstrumentRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.PaymentInstrumentRepositoryFacade = (*PgxPaymentInstrumentRepository)(nil)

func scanPaymentInstrument(row rowScanner) (models.PaymentInstrument, error) {
	var m models.PaymentInstrument
	err := row.Scan(
		&m.PaymentInstrumentID, &m.OwnerID, &m.Name, &m.InstrumentType, &m.CurrencyCode, &m.IsActive, &m.IsDefault,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

const clearDefaultQuery = `
	UPDATE payment_instruments
	SET is_default = FALSE, last_updated_at = $2, last_updated_by = $3
	WHERE owner_id = $1 AND is_default;
`

// SavePaymentInstrument inserts an instrument, clearing the previous default in the same transaction.
func (r *PgxPaymentInstrumentRepository) SavePaymentInstrument(ctx context.Context, instrument domain.PaymentInstrument) error {
	m := mapping.ToModelPaymentInstrument(instrument)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if m.IsDefault {
		if _, err := tx.Exec(ctx, clearDefaultQuery, m.OwnerID, m.CreatedAt, m.CreatedBy); err != nil {
			return apperrors.NewAppError(500, "failed to clear previous default instrument", err)
		}
	}

	query := `
		INSERT INTO payment_instruments (` + paymentInstrumentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		m.PaymentInstrumentID, m.OwnerID, m.Name, m.InstrumentType, m.CurrencyCode, m.IsActive, m.IsDefault,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "payment instrument already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save payment instrument", err)
	}
	return r.Commit(ctx, tx)
}

// UpdatePaymentInstrument updates name, type and active flag. currency_code is not touched.
func (r *PgxPaymentInstrumentRepository) UpdatePaymentInstrument(ctx context.Context, instrument domain.PaymentInstrument) error {
	m := mapping.ToModelPaymentInstrument(instrument)
	query := `
		UPDATE payment_instruments
		SET name = $2, instrument_type = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE payment_instrument_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.PaymentInstrumentID, m.Name, m.InstrumentType, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment instrument", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment instrument " + m.PaymentInstrumentID + " not found")
	}
	return nil
}

// SetDefaultPaymentInstrument clears the owner's default and sets the new one atomically.
func (r *PgxPaymentInstrumentRepository) SetDefaultPaymentInstrument(ctx context.Context, ownerID, instrumentID, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, clearDefaultQuery, ownerID, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to clear previous default instrument", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE payment_instruments
		SET is_default = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE payment_instrument_id = $1 AND owner_id = $2 AND is_active;
	`, instrumentID, ownerID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set default instrument", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("active payment instrument " + instrumentID + " not found")
	}
	return r.Commit(ctx, tx)
}

func (r *PgxPaymentInstrumentRepository) FindPaymentInstrumentByID(ctx context.Context, instrumentID string) (*domain.PaymentInstrument, error) {
	query := `SELECT ` + paymentInstrumentColumns + ` FROM payment_instruments WHERE payment_instrument_id = $1;`
	m, err := scanPaymentInstrument(r.Pool.QueryRow(ctx, query, instrumentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment instrument " + instrumentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find payment instrument", err)
	}
	pi := mapping.ToDomainPaymentInstrument(m)
	return &pi, nil
}

// ListPaymentInstrumentsByOwner lists instruments in creation order.
func (r *PgxPaymentInstrumentRepository) ListPaymentInstrumentsByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.PaymentInstrument, error) {
	query := `
		SELECT ` + paymentInstrumentColumns + `
		FROM payment_instruments
		WHERE owner_id = $1 AND (is_active OR NOT $2)
		ORDER BY created_at, payment_instrument_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, activeOnly)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payment instruments", err)
	}
	defer rows.Close()

	var ms []models.PaymentInstrument
	for rows.Next() {
		m, err := scanPaymentInstrument(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment instrument", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment instruments", err)
	}
	return mapping.ToDomainPaymentInstrumentSlice(ms), nil
}

// ListActiveCurrencies returns the distinct currencies of active instruments across all owners.
func (r *PgxPaymentInstrumentRepository) ListActiveCurrencies(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT currency_code FROM payment_instruments WHERE is_active ORDER BY currency_code;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list active currencies", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan active currencies", err)
	}
	return codes, nil
}
