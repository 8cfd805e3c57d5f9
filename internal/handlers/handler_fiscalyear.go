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

// fiscalYearHandler handles HTTP requests related to fiscal years and their
// derived statements.
type fiscalYearHandler struct {
	fiscalYearService portssvc.FiscalYearService
	statementService  portssvc.StatementService
}

func newFiscalYearHandler(fys portssvc.FiscalYearService, ss portssvc.StatementService) *fiscalYearHandler {
	return &fiscalYearHandler{
		fiscalYearService: fys,
		statementService:  ss,
	}
}

// registerFiscalYearRoutes registers routes related to fiscal years.
func registerFiscalYearRoutes(rg *gin.RouterGroup, fiscalYearService portssvc.FiscalYearService, statementService portssvc.StatementService) {
	h := newFiscalYearHandler(fiscalYearService, statementService)

	years := rg.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("/:id", h.getFiscalYear)
		years.POST("/:id/close", h.closeFiscalYear)
		years.GET("/:id/statements", h.getStatements)
		years.GET("/:id/trial-balance", h.getTrialBalance)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates the calendar-year period for the given year
// @Tags fiscal-years
// @Accept json
// @Produce json
// @Param fiscalYear body dto.CreateFiscalYearRequest true "Year"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Fiscal year already exists"
// @Failure 500 {object} map[string]string "Failed to create fiscal year"
// @Security BearerAuth
// @Router /fiscal-years [post]
func (h *fiscalYearHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fy, err := h.fiscalYearService.CreateFiscalYear(c.Request.Context(), req.Year, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate fiscal year", slog.Int("year", req.Year))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fiscal year", slog.Int("year", req.Year), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal year"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(fy))
}

// getFiscalYear godoc
// @Summary Get a fiscal year
// @Description Retrieves a fiscal year record
// @Tags fiscal-years
// @Produce json
// @Param id path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to get fiscal year"
// @Security BearerAuth
// @Router /fiscal-years/{id} [get]
func (h *fiscalYearHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("id")

	fy, err := h.fiscalYearService.GetFiscalYearByID(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get fiscal year", slog.String("fiscal_year_id", fiscalYearID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get fiscal year"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fy))
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Books net income into retained earnings, marks the year closed and generates the year-end statements
// @Tags fiscal-years
// @Produce json
// @Param id path string true "Fiscal year ID"
// @Success 200 {object} dto.CloseFiscalYearResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Fiscal year already closed"
// @Failure 500 {object} map[string]string "Failed to close fiscal year"
// @Security BearerAuth
// @Router /fiscal-years/{id}/close [post]
func (h *fiscalYearHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("id")

	closedBy, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fy, err := h.fiscalYearService.CloseFiscalYear(c.Request.Context(), fiscalYearID, closedBy)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Fiscal year already closed", slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close fiscal year", slog.String("fiscal_year_id", fiscalYearID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close fiscal year"})
		}
		return
	}

	statements, err := h.statementService.GenerateStatements(c.Request.Context(), fiscalYearID)
	if err != nil {
		logger.Error("Failed to generate statements after close", slog.String("fiscal_year_id", fiscalYearID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fiscal year closed but statement generation failed"})
		return
	}

	c.JSON(http.StatusOK, dto.CloseFiscalYearResponse{
		FiscalYear: dto.ToFiscalYearResponse(fy),
		Statements: *statements,
	})
}

// getStatements godoc
// @Summary Generate financial statements
// @Description Aggregates the year's posted activity into balance sheet and income statement snapshots
// @Tags fiscal-years
// @Produce json
// @Param id path string true "Fiscal year ID"
// @Success 200 {object} domain.StatementSet
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to generate statements"
// @Security BearerAuth
// @Router /fiscal-years/{id}/statements [get]
func (h *fiscalYearHandler) getStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("id")

	statements, err := h.statementService.GenerateStatements(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate statements", slog.String("fiscal_year_id", fiscalYearID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate statements"})
		}
		return
	}
	c.JSON(http.StatusOK, statements)
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns per-account debit and credit totals for the year
// @Tags fiscal-years
// @Produce json
// @Param id path string true "Fiscal year ID"
// @Success 200 {array} domain.AccountBalance
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to compute trial balance"
// @Security BearerAuth
// @Router /fiscal-years/{id}/trial-balance [get]
func (h *fiscalYearHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("id")

	balances, err := h.statementService.TrialBalance(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute trial balance", slog.String("fiscal_year_id", fiscalYearID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trial balance"})
		}
		return
	}
	c.JSON(http.StatusOK, balances)
}
