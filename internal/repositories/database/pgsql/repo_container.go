package pgsql

import (
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository. userPool carries the end-user credential;
// servicePool carries the elevated one and may be nil, in which case nothing can write rates.
func NewRepositoryProvider(userPool, servicePool *pgxpool.Pool) portsrepo.RepositoryProvider {
	provider := portsrepo.RepositoryProvider{
		ExchangeRateRepo:      newPgxExchangeRateRepository(userPool),
		PaymentInstrumentRepo: newPgxPaymentInstrumentRepository(userPool),
		TransactionRepo:       newPgxTransactionRepository(userPool),
		BudgetRepo:            newPgxBudgetRepository(userPool),
		UserRepo:              newPgxUserRepository(userPool),
	}
	if servicePool != nil {
		provider.ServiceRateWriter = NewServiceRateWriter(servicePool)
		provider.RefreshRunRepo = newPgxRefreshRunRepository(servicePool)
	}
	return provider
}
