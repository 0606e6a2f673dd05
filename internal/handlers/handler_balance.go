package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := &balanceHandler{balanceService: balanceService}
	rg.GET("/balances", h.totalBalance)
}

// totalBalance godoc
// @Summary Total balance in the reporting currency
// @Description Converts every active instrument's balance at today's rate. Instruments converted with an old rate are flagged stale; instruments with no rate at all are flagged conversionUnavailable and left out of the total.
// @Tags balances
// @Produce  json
// @Param   currency query string false "Reporting currency, defaults to the user's"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid currency"
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) totalBalance(c *gin.Context) {
	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "balance query")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.balanceService.TotalBalance(c.Request.Context(), userID, params.Currency)
	if err != nil {
		respondWithError(c, err, "Failed to compute total balance")
		return
	}
	if report.HasStaleRates || report.UnavailableCount > 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Balance served with degraded rates",
			slog.Bool("stale", report.HasStaleRates), slog.Int("unavailable", report.UnavailableCount))
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(report))
}
