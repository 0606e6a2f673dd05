package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// jobsHandler exposes the out-of-band jobs to an external scheduler.
type jobsHandler struct {
	refreshService portssvc.RateRefreshSvc
}

func registerJobRoutes(rg *gin.RouterGroup, refreshService portssvc.RateRefreshSvc) {
	h := &jobsHandler{refreshService: refreshService}

	jobs := rg.Group("/jobs")
	{
		jobs.POST("/refresh-rates", h.refreshRates)
		jobs.GET("/refresh-rates/last", h.lastRefresh)
	}
}

func (h *jobsHandler) available(c *gin.Context) bool {
	if h.refreshService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate refresh is not configured"})
		return false
	}
	return true
}

// refreshRates godoc
// @Summary Refresh exchange rates
// @Description Fetches today's anchor rate for every active instrument currency and stores both directions. Requires the scheduler secret header. Partial failures still return 200 with the failed currencies listed.
// @Tags jobs
// @Produce  json
// @Param   X-Scheduler-Secret header string true "Shared scheduler secret"
// @Success 200 {object} dto.RefreshRunResponse
// @Failure 401 {object} map[string]string "Missing or wrong secret"
// @Failure 502 {object} dto.RefreshRunResponse "Every currency failed"
// @Failure 503 {object} map[string]string "Refresh not configured"
// @Router /internal/jobs/refresh-rates [post]
func (h *jobsHandler) refreshRates(c *gin.Context) {
	if !h.available(c) {
		return
	}
	result, err := h.refreshService.RefreshAll(c.Request.Context(), c.GetHeader(middleware.SchedulerSecretHeader))
	if err != nil {
		respondWithError(c, err, "Failed to refresh exchange rates")
		return
	}

	status := http.StatusOK
	if result.Status == domain.RefreshFailed {
		status = http.StatusBadGateway
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Rate refresh triggered over HTTP",
		slog.String("run_id", result.RunID), slog.String("status", string(result.Status)))
	c.JSON(status, dto.ToRefreshRunResponse(result))
}

// lastRefresh godoc
// @Summary Last rate refresh run
// @Tags jobs
// @Produce  json
// @Param   X-Scheduler-Secret header string true "Shared scheduler secret"
// @Success 200 {object} dto.RefreshRunResponse
// @Failure 401 {object} map[string]string "Missing or wrong secret"
// @Failure 404 {object} map[string]string "No run recorded yet"
// @Router /internal/jobs/refresh-rates/last [get]
func (h *jobsHandler) lastRefresh(c *gin.Context) {
	if !h.available(c) {
		return
	}
	result, err := h.refreshService.LastRun(c.Request.Context(), c.GetHeader(middleware.SchedulerSecretHeader))
	if err != nil {
		respondWithError(c, err, "Failed to read last refresh run")
		return
	}
	c.JSON(http.StatusOK, dto.ToRefreshRunResponse(result))
}
