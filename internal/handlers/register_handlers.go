package handlers

import (
	"net/http"

	"github.com/SscSPs/multicurrency_tracker/cmd/docs"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/SscSPs/multicurrency_tracker/internal/platform/config"
	"github.com/SscSPs/multicurrency_tracker/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the optional middleware collaborators built in main. Nil fields switch
// the corresponding middleware off.
type RouteDeps struct {
	APILimiter    *limiter.Limiter
	JobLimiter    *limiter.Limiter
	OIDCValidator middleware.IDTokenValidator
	Posthog       *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	RegisterValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, deps)
	setupInternalRoutes(r, cfg, services, deps)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, deps RouteDeps) {
	v1 := r.Group("/api/v1",
		middleware.RateLimit(deps.APILimiter),
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.PosthogMiddleware(deps.Posthog),
	)

	registerUserRoutes(v1, services.User)
	registerExchangeRateRoutes(v1, services.ExchangeRate)
	registerPaymentInstrumentRoutes(v1, services.PaymentInstrument)
	registerTransactionRoutes(v1, services.Transaction)
	registerBudgetRoutes(v1, services.Budget)
	registerBalanceRoutes(v1, services.Balance)
}

// setupInternalRoutes exposes scheduler-only endpoints. They sit outside the user JWT and
// are guarded by the scheduler secret, plus a Google OIDC token when an audience is configured.
func setupInternalRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, deps RouteDeps) {
	internal := r.Group("/internal",
		middleware.RateLimit(deps.JobLimiter),
		middleware.SchedulerOIDCAuth(deps.OIDCValidator, cfg.SchedulerOIDCAudience),
	)
	registerJobRoutes(internal, services.RateRefresh)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
