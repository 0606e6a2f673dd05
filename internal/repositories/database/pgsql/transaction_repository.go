package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_tracker/internal/models"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/mapping"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionSelect = `
	SELECT t.transaction_id, t.owner_id, t.payment_instrument_id, t.transaction_type, t.amount,
	       t.native_amount, t.exchange_rate_used, t.reporting_currency_at_time,
	       t.category_id, t.transaction_date, t.description,
	       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
	       COALESCE((SELECT array_agg(tt.tag_id ORDER BY tt.tag_id)
	                 FROM transaction_tags tt WHERE tt.transaction_id = t.transaction_id), '{}') AS tag_ids
	FROM transactions t
`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.OwnerID, &m.PaymentInstrumentID, &m.TransactionType, &m.Amount,
		&m.NativeAmount, &m.ExchangeRateUsed, &m.ReportingCurrencyAtTime,
		&m.CategoryID, &m.TransactionDate, &m.Description,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&m.TagIDs,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transactions", err)
	}
	return ms, nil
}

// SaveTransaction inserts the transaction and its tags in one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO transactions (
			transaction_id, owner_id, payment_instrument_id, transaction_type, amount,
			native_amount, exchange_rate_used, reporting_currency_at_time,
			category_id, transaction_date, description,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID, m.OwnerID, m.PaymentInstrumentID, m.TransactionType, m.Amount,
		m.NativeAmount, m.ExchangeRateUsed, m.ReportingCurrencyAtTime,
		m.CategoryID, m.TransactionDate, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction", err)
	}

	if len(m.TagIDs) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO transaction_tags (transaction_id, tag_id) SELECT $1, unnest($2::text[]);`,
			m.TransactionID, m.TagIDs,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert transaction tags", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	m, err := scanTransaction(r.Pool.QueryRow(ctx, transactionSelect+` WHERE t.transaction_id = $1;`, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction", err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByOwner pages through the owner's transactions ordered by
// (transaction_date, created_at, transaction_id) descending.
func (r *PgxTransactionRepository) ListTransactionsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// one extra row tells whether another page exists
	fetchLimit := limit + 1

	query := transactionSelect + ` WHERE t.owner_id = $1`
	args := []any{ownerID}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", apperrors.ErrValidation)
		}
		query += ` AND (t.transaction_date, t.created_at, t.transaction_id) < ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for owner "+ownerID, err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainTransactionSlice(ms), next, nil
}

// SumNativeBalancesByInstrument returns income minus expense of native amounts per instrument.
func (r *PgxTransactionRepository) SumNativeBalancesByInstrument(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT payment_instrument_id,
		       SUM(CASE WHEN transaction_type = 'INCOME' THEN native_amount ELSE -native_amount END)
		FROM transactions
		WHERE owner_id = $1 AND payment_instrument_id IS NOT NULL
		GROUP BY payment_instrument_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum instrument balances", err)
	}
	defer rows.Close()

	balances := map[string]decimal.Decimal{}
	for rows.Next() {
		var id string
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan instrument balance", err)
		}
		balances[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating instrument balances", err)
	}
	return balances, nil
}

// ListBudgetTransactions retrieves the owner's expenses in the budget month matching its category or tag.
func (r *PgxTransactionRepository) ListBudgetTransactions(ctx context.Context, budget domain.Budget) ([]domain.Transaction, error) {
	start, end := budget.Period()
	query := transactionSelect + `
		WHERE t.owner_id = $1
		  AND t.transaction_type = 'EXPENSE'
		  AND t.transaction_date >= $2 AND t.transaction_date < $3
	`
	args := []any{budget.OwnerID, start, end}
	switch {
	case budget.CategoryID != nil:
		query += ` AND t.category_id = $4`
		args = append(args, *budget.CategoryID)
	case budget.TagID != nil:
		query += ` AND EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = t.transaction_id AND tt.tag_id = $4)`
		args = append(args, *budget.TagID)
	default:
		return nil, apperrors.NewInvalidScopeError("budget has neither category nor tag")
	}
	query += ` ORDER BY t.transaction_date, t.created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budget transactions", err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
