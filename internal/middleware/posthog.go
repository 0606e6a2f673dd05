package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/multicurrency_tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

// currency query parameters copied onto events, so conversions can be grouped by pair
var trackedQueryParams = []string{"from", "to", "currency"}

// PosthogMiddleware reports each successful authenticated API call as an event named after
// its route, e.g. GET /api/v1/exchange-rates/convert becomes "exchange-rates_convert".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if posthogClient == nil || !posthogClient.IsInitialized() {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		route := strings.TrimPrefix(c.FullPath(), "/api/v1/")
		if route == "" || route == c.FullPath() {
			return
		}
		event := strings.ReplaceAll(strings.ReplaceAll(route, "/:", "_by_"), "/", "_")

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		for _, key := range trackedQueryParams {
			if v := c.Query(key); v != "" {
				props[key] = strings.ToUpper(v)
			}
		}
		posthogClient.Enqueue(userID, event, props)
	}
}
