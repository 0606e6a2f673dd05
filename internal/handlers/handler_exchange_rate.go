package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createManualRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/resolve", h.resolveRate)
		exchangeRates.GET("/convert", h.convert)
	}
}

// dateOrToday parses an optional YYYY-MM-DD query value; empty means today (UTC).
func dateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return domain.DateOf(time.Now().UTC()), nil
	}
	return domain.ParseDate(raw)
}

// createManualRate godoc
// @Summary Record a manual exchange rate
// @Description Stores a manual override for one currency pair and day. A later fetched rate for the same day does not replace it.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Rate writes are not configured"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createManualRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "create exchange rate request")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to record manual exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("valid_date", req.ValidDate),
	)

	rate, err := h.exchangeRateService.CreateManualRate(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List stored exchange rates
// @Description Lists stored rates, newest first, optionally filtered by pair and as-of date
// @Tags exchange rates
// @Produce  json
// @Param   from  query string false "From currency code"
// @Param   to    query string false "To currency code"
// @Param   asOf  query string false "Only rates valid on or before this date (YYYY-MM-DD)"
// @Param   limit query int    false "Maximum number of rates" default(50)
// @Success 200 {object} dto.ListExchangeRatesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "list exchange rates query")
		return
	}

	filter := domain.ExchangeRateFilter{Limit: params.Limit}
	if params.From != "" {
		filter.FromCurrencyCode = &params.From
	}
	if params.To != "" {
		filter.ToCurrencyCode = &params.To
	}
	if params.AsOf != "" {
		asOf, err := domain.ParseDate(params.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.AsOf = &asOf
	}

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// resolveRate godoc
// @Summary Resolve an exchange rate
// @Description Resolves the rate for a pair as of a date: identity, direct, inverse, then triangulated through the anchor currency
// @Tags exchange rates
// @Produce  json
// @Param   from query string true  "From currency code"
// @Param   to   query string true  "To currency code"
// @Param   date query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ResolvedRateResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 422 {object} map[string]string "No rate for the pair"
// @Security BearerAuth
// @Router /exchange-rates/resolve [get]
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	var params dto.ResolveRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "resolve rate query")
		return
	}
	date, err := dateOrToday(params.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate, err := h.exchangeRateService.ResolveRate(c.Request.Context(), params.From, params.To, date)
	if err != nil {
		respondWithError(c, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToResolvedRateResponse(rate))
}

// convert godoc
// @Summary Convert an amount
// @Description Converts an amount between currencies at the rate resolved for the date, rounded to two decimals
// @Tags exchange rates
// @Produce  json
// @Param   amount query string true  "Amount to convert"
// @Param   from   query string true  "From currency code"
// @Param   to     query string true  "To currency code"
// @Param   date   query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 422 {object} map[string]string "No rate for the pair"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "convert query")
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + err.Error()})
		return
	}
	date, err := dateOrToday(params.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.exchangeRateService.Convert(c.Request.Context(), amount, params.From, params.To, date)
	if err != nil {
		respondWithError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dto.ToConversionResponse(res))
}
