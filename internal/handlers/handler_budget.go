package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.GET("/:budgetID/breakdown", h.getBreakdown)
	}
}

// createBudget godoc
// @Summary Create a monthly budget
// @Description Creates a budget for one month scoped to exactly one category or one tag, in the caller's reporting currency
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input or scope"
// @Failure 409 {object} map[string]string "A budget already exists for this scope and month"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "create budget request")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets of a month
// @Tags budgets
// @Produce  json
// @Param   year  query int true "Year"
// @Param   month query int true "Month (1-12)"
// @Success 200 {object} dto.ListBudgetsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "list budgets query")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID, params.Year, time.Month(params.Month))
	if err != nil {
		respondWithError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets))
}

// getBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	budget, err := h.budgetService.GetBudget(c.Request.Context(), c.Param("budgetID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// getBreakdown godoc
// @Summary Budget breakdown by payment instrument
// @Description Attributes the month's matching expenses to payment instruments, with transactions recorded without an instrument grouped in one legacy bucket. Sorted by amount spent.
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetBreakdownResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /budgets/{budgetID}/breakdown [get]
func (h *budgetHandler) getBreakdown(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	breakdown, err := h.budgetService.Breakdown(c.Request.Context(), c.Param("budgetID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to compute budget breakdown")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetBreakdownResponse(breakdown))
}
