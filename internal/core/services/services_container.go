package services

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/multicurrency_tracker/internal/core/ports"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/platform/config"
)

// ContainerOption is a function that configures the service container wiring
type ContainerOption func(*containerOptions)

type containerOptions struct {
	refreshListeners []RefreshListener
	clock            Clock
}

// WithContainerRefreshListener forwards finished refresh runs to listener.
func WithContainerRefreshListener(listener RefreshListener) ContainerOption {
	return func(o *containerOptions) {
		o.refreshListeners = append(o.refreshListeners, listener)
	}
}

// WithContainerClock pins the clock of every service.
func WithContainerClock(clock Clock) ContainerOption {
	return func(o *containerOptions) {
		o.clock = clock
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// RateRefresh stays nil when there is no FX provider or no service-scoped rate writer.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider ports.RateProvider, opts ...ContainerOption) (*portssvc.ServiceContainer, error) {
	o := &containerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	container := &portssvc.ServiceContainer{}

	rateOpts := []ExchangeRateServiceOption{WithAnchorCurrency(cfg.AnchorCurrency)}
	if repos.ServiceRateWriter != nil {
		rateOpts = append(rateOpts, WithManualRateWriter(repos.ServiceRateWriter))
	}
	if o.clock != nil {
		rateOpts = append(rateOpts, WithRateClock(o.clock))
	}
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, rateOpts...)

	balanceOpts := []BalanceServiceOption{
		WithRateTTL(cfg.RateCacheTTL),
		WithBalanceUserReader(repos.UserRepo),
	}
	if o.clock != nil {
		balanceOpts = append(balanceOpts, WithBalanceClock(o.clock))
	}
	container.Balance = NewBalanceService(container.ExchangeRate, repos.PaymentInstrumentRepo, repos.TransactionRepo, balanceOpts...)

	container.User = NewUserService(repos.UserRepo)
	container.PaymentInstrument = NewPaymentInstrumentService(repos.PaymentInstrumentRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.PaymentInstrumentRepo, repos.UserRepo, container.ExchangeRate)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.TransactionRepo, repos.PaymentInstrumentRepo, repos.UserRepo)

	if provider == nil || repos.ServiceRateWriter == nil {
		slog.Warn("Rate refresh disabled: FX provider or service database credential not configured")
		return container, nil
	}

	refreshOpts := []RateRefreshServiceOption{
		WithRefreshAnchor(cfg.AnchorCurrency),
		WithFetchTimeout(cfg.RateFetchTimeout),
	}
	if repos.RefreshRunRepo != nil {
		refreshOpts = append(refreshOpts, WithRunRecorder(repos.RefreshRunRepo))
	}
	for _, l := range o.refreshListeners {
		refreshOpts = append(refreshOpts, WithRefreshListener(l))
	}
	if o.clock != nil {
		refreshOpts = append(refreshOpts, WithRefreshClock(o.clock))
	}
	refresh, err := NewRateRefreshService(
		provider,
		repos.ServiceRateWriter,
		repos.PaymentInstrumentRepo,
		NewSecretAuthorizer(cfg.SchedulerSecret, cfg.SchedulerSecretHash),
		refreshOpts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate refresh service: %w", err)
	}
	container.RateRefresh = refresh

	return container, nil
}
