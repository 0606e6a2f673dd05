package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ExchangeRateRepo      ExchangeRateReader
	ServiceRateWriter     ServiceRateWriter  // elevated credential, nil when not configured
	RefreshRunRepo        RefreshRunRecorder // elevated credential, nil when not configured
	PaymentInstrumentRepo PaymentInstrumentRepositoryFacade
	TransactionRepo       TransactionRepositoryFacade
	BudgetRepo            BudgetRepositoryFacade
	UserRepo              UserRepositoryFacade
}
