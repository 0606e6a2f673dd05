package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// SchedulerSecretHeader carries the shared secret presented by the scheduler.
const SchedulerSecretHeader = "X-Scheduler-Secret"

// IDTokenValidator validates Google-signed OIDC tokens; *idtoken.Validator satisfies it.
type IDTokenValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// SchedulerOIDCAuth requires a Google-signed bearer token for the given audience, as sent by
// Cloud Scheduler. With a nil validator or empty audience it lets requests through and the
// shared secret alone guards the job.
func SchedulerOIDCAuth(validator IDTokenValidator, audience string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validator == nil || audience == "" {
			c.Next()
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			logger.Warn("Scheduler request without OIDC bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "OIDC bearer token required"})
			return
		}

		payload, err := validator.Validate(c.Request.Context(), token, audience)
		if err != nil {
			logger.Warn("Scheduler OIDC token rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid OIDC token"})
			return
		}

		enriched := logger.With(slog.String("scheduler_subject", payload.Subject))
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), enriched))
		c.Next()
	}
}
