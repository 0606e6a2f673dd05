package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

type paymentInstrumentHandler struct {
	instrumentService portssvc.PaymentInstrumentSvcFacade
}

func newPaymentInstrumentHandler(ps portssvc.PaymentInstrumentSvcFacade) *paymentInstrumentHandler {
	return &paymentInstrumentHandler{instrumentService: ps}
}

func registerPaymentInstrumentRoutes(rg *gin.RouterGroup, instrumentService portssvc.PaymentInstrumentSvcFacade) {
	h := newPaymentInstrumentHandler(instrumentService)

	instruments := rg.Group("/payment-instruments")
	{
		instruments.POST("", h.createPaymentInstrument)
		instruments.GET("", h.listPaymentInstruments)
		instruments.GET("/:instrumentID", h.getPaymentInstrument)
		instruments.PATCH("/:instrumentID", h.updatePaymentInstrument)
		instruments.POST("/:instrumentID/default", h.setDefaultPaymentInstrument)
	}
}

// createPaymentInstrument godoc
// @Summary Create a payment instrument
// @Description Creates a wallet, card or account in one currency. The currency can never change afterwards.
// @Tags payment instruments
// @Accept  json
// @Produce  json
// @Param   instrument body dto.CreatePaymentInstrumentRequest true "Instrument details"
// @Success 201 {object} dto.PaymentInstrumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /payment-instruments [post]
func (h *paymentInstrumentHandler) createPaymentInstrument(c *gin.Context) {
	var req dto.CreatePaymentInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "create payment instrument request")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pi, err := h.instrumentService.CreatePaymentInstrument(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create payment instrument")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment instrument created",
		slog.String("payment_instrument_id", pi.PaymentInstrumentID), slog.String("currency", pi.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToPaymentInstrumentResponse(pi))
}

// listPaymentInstruments godoc
// @Summary List payment instruments
// @Tags payment instruments
// @Produce  json
// @Param   activeOnly query bool false "Only active instruments"
// @Success 200 {object} dto.ListPaymentInstrumentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /payment-instruments [get]
func (h *paymentInstrumentHandler) listPaymentInstruments(c *gin.Context) {
	var params dto.ListPaymentInstrumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "list payment instruments query")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pis, err := h.instrumentService.ListPaymentInstruments(c.Request.Context(), userID, params.ActiveOnly)
	if err != nil {
		respondWithError(c, err, "Failed to list payment instruments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentInstrumentsResponse(pis))
}

// getPaymentInstrument godoc
// @Summary Get a payment instrument
// @Tags payment instruments
// @Produce  json
// @Param   instrumentID path string true "Payment instrument ID"
// @Success 200 {object} dto.PaymentInstrumentResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /payment-instruments/{instrumentID} [get]
func (h *paymentInstrumentHandler) getPaymentInstrument(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pi, err := h.instrumentService.GetPaymentInstrument(c.Request.Context(), c.Param("instrumentID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve payment instrument")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentInstrumentResponse(pi))
}

// updatePaymentInstrument godoc
// @Summary Update a payment instrument
// @Description Renames, retypes or (de)activates an instrument. The currency is not updatable.
// @Tags payment instruments
// @Accept  json
// @Produce  json
// @Param   instrumentID path string true "Payment instrument ID"
// @Param   instrument body dto.UpdatePaymentInstrumentRequest true "Fields to update"
// @Success 200 {object} dto.PaymentInstrumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /payment-instruments/{instrumentID} [patch]
func (h *paymentInstrumentHandler) updatePaymentInstrument(c *gin.Context) {
	var req dto.UpdatePaymentInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "update payment instrument request")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pi, err := h.instrumentService.UpdatePaymentInstrument(c.Request.Context(), c.Param("instrumentID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update payment instrument")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentInstrumentResponse(pi))
}

// setDefaultPaymentInstrument godoc
// @Summary Make a payment instrument the default
// @Tags payment instruments
// @Produce  json
// @Param   instrumentID path string true "Payment instrument ID"
// @Success 200 {object} dto.PaymentInstrumentResponse
// @Failure 400 {object} map[string]string "Instrument is inactive"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /payment-instruments/{instrumentID}/default [post]
func (h *paymentInstrumentHandler) setDefaultPaymentInstrument(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pi, err := h.instrumentService.SetDefaultPaymentInstrument(c.Request.Context(), c.Param("instrumentID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to set default payment instrument")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentInstrumentResponse(pi))
}
