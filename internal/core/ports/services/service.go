package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	ExchangeRate      ExchangeRateSvcFacade
	RateRefresh       RateRefreshSvc // nil when no service credential or provider is configured
	Balance           BalanceSvc
	Budget            BudgetSvcFacade
	Transaction       TransactionSvcFacade
	PaymentInstrument PaymentInstrumentSvcFacade
	User              UserSvcFacade
}
