package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/adapters/fxprovider"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	"github.com/SscSPs/multicurrency_tracker/internal/core/ports"
	"github.com/SscSPs/multicurrency_tracker/internal/core/services"
	"github.com/SscSPs/multicurrency_tracker/internal/handlers"
	"github.com/SscSPs/multicurrency_tracker/internal/jobs"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/SscSPs/multicurrency_tracker/internal/platform/config"
	"github.com/SscSPs/multicurrency_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/multicurrency_tracker/internal/utils"
	"github.com/SscSPs/multicurrency_tracker/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/idtoken"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// jobRateLimit caps how often the scheduler endpoints can be hit from one address.
const jobRateLimit = "10-M"

// @title Multi-currency Tracker API
// @version 1.0
// @description Track transactions across payment instruments in many currencies and report balances and budgets in one reporting currency.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userPool, err := database.NewPgxPool(ctx, "user", cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool("user", userPool)
	logger.Info("Database connection pool established.")

	var servicePool *pgxpool.Pool
	if cfg.ServiceDatabaseURL != "" {
		servicePool, err = database.NewPgxPool(ctx, "service", cfg.ServiceDatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize service database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool("service", servicePool)
		logger.Info("Service database connection pool established.")
	}

	// The user credential has no DDL rights, so migrations run with the service one when present.
	migrationURL := cfg.ServiceDatabaseURL
	if migrationURL == "" {
		migrationURL = cfg.DatabaseURL
	}
	if err := runMigrations(logger, migrationURL, cfg.MigrationsPath); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	provider, err := newRateProvider(ctx, cfg)
	if err != nil {
		logger.Error("Failed to configure FX provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	repos := pgsql.NewRepositoryProvider(userPool, servicePool)
	container, err := services.NewServiceContainer(cfg, repos, provider,
		services.WithContainerRefreshListener(func(r domain.RefreshResult) { posthogClient.TrackRefresh(r) }),
	)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps, err := newRouteDeps(ctx, cfg, posthogClient)
	if err != nil {
		logger.Error("Failed to configure middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, deps)

	jobs.NewRefreshScheduler(container.RateRefresh, cfg.SchedulerSecret, cfg.RateRefreshInterval, logger).Start(ctx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

func runMigrations(logger *slog.Logger, databaseURL, migrationsPath string) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRateProvider returns a nil interface when no provider URL is configured.
func newRateProvider(ctx context.Context, cfg *config.Config) (ports.RateProvider, error) {
	if cfg.FXProviderURL == "" {
		return nil, nil
	}
	p, err := fxprovider.NewHTTPProvider(ctx, fxprovider.Config{
		BaseURL:      cfg.FXProviderURL,
		APIKey:       cfg.FXProviderAPIKey,
		RatesPath:    cfg.FXProviderRatesPath,
		TokenURL:     cfg.FXProviderTokenURL,
		ClientID:     cfg.FXProviderClientID,
		ClientSecret: cfg.FXProviderClientSecret,
	}, &http.Client{Timeout: cfg.RateFetchTimeout})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newRouteDeps(ctx context.Context, cfg *config.Config, posthogClient *utils.PosthogClientWrapper) (handlers.RouteDeps, error) {
	deps := handlers.RouteDeps{Posthog: posthogClient}

	apiLimiter, err := middleware.NewMemoryRateLimiter(cfg.RateLimit)
	if err != nil {
		return deps, err
	}
	deps.APILimiter = apiLimiter

	jobLimiter, err := middleware.NewMemoryRateLimiter(jobRateLimit)
	if err != nil {
		return deps, err
	}
	deps.JobLimiter = jobLimiter

	if cfg.SchedulerOIDCAudience != "" {
		validator, err := idtoken.NewValidator(ctx)
		if err != nil {
			return deps, err
		}
		deps.OIDCValidator = validator
	}
	return deps, nil
}
