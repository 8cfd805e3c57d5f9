package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/dto"
	"github.com/corebooks/ledger_backend/internal/middleware"
)

// budgetHandler handles HTTP requests related to budgets, cost centers and
// cost allocations.
type budgetHandler struct {
	budgetService portssvc.BudgetService
}

func newBudgetHandler(bs portssvc.BudgetService) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

// registerBudgetRoutes registers routes related to budgets and allocations.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetService) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("/:id/variance", h.getBudgetVariance)
	}

	costCenters := rg.Group("/cost-centers")
	{
		costCenters.POST("", h.createCostCenter)
	}

	rg.POST("/journal-lines/:lineID/allocations", h.allocateCosts)
}

// createBudget godoc
// @Summary Create a budget
// @Description Registers a budgeted amount for an account and period
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} domain.Budget
// @Failure 400 {object} map[string]string "Invalid input format or period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal year or account not found"
// @Failure 500 {object} map[string]string "Failed to create budget"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating budget", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create budget", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		}
		return
	}
	c.JSON(http.StatusCreated, budget)
}

// getBudgetVariance godoc
// @Summary Analyze budget variance
// @Description Compares posted ledger activity against the budgeted amount
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.BudgetVariance
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to analyze budget variance"
// @Security BearerAuth
// @Router /budgets/{id}/variance [get]
func (h *budgetHandler) getBudgetVariance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	variance, err := h.budgetService.AnalyzeBudgetVariance(c.Request.Context(), budgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to analyze budget variance", slog.String("budget_id", budgetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze budget variance"})
		}
		return
	}
	c.JSON(http.StatusOK, variance)
}

// createCostCenter godoc
// @Summary Create a cost center
// @Description Registers a new cost allocation target
// @Tags cost-centers
// @Accept json
// @Produce json
// @Param costCenter body dto.CreateCostCenterRequest true "Cost center details"
// @Success 201 {object} domain.CostCenter
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Cost center code already exists"
// @Failure 500 {object} map[string]string "Failed to create cost center"
// @Security BearerAuth
// @Router /cost-centers [post]
func (h *budgetHandler) createCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCostCenter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cc, err := h.budgetService.CreateCostCenter(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate cost center code", slog.String("code", req.Code))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create cost center", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cost center"})
		}
		return
	}
	c.JSON(http.StatusCreated, cc)
}

// allocateCosts godoc
// @Summary Allocate a journal line across cost centers
// @Description Apportions the line's net amount across cost centers by ratio; ratios must sum to 1.0
// @Tags cost-centers
// @Accept json
// @Produce json
// @Param lineID path string true "Journal line ID"
// @Param allocations body dto.AllocateCostsRequest true "Allocation targets"
// @Success 201 {array} dto.CostAllocationResponse
// @Failure 400 {object} map[string]string "Invalid ratios"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal line or cost center not found"
// @Failure 500 {object} map[string]string "Failed to allocate costs"
// @Security BearerAuth
// @Router /journal-lines/{lineID}/allocations [post]
func (h *budgetHandler) allocateCosts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("lineID")

	var req dto.AllocateCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateCosts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allocations, err := h.budgetService.AllocateCosts(c.Request.Context(), lineID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error allocating costs", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to allocate costs", slog.String("line_id", lineID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate costs"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToCostAllocationResponses(allocations))
}
