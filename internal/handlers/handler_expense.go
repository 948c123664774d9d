package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{
		expenseService: es,
	}
}

// registerExpenseRoutes registers all expense-related routes.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.PUT("/shares/:shareID", h.setSharePaid)
	}
}

// createExpense godoc
// @Summary Create an expense
// @Description Records an expense paid by the authenticated user. A split expense is divided equally
// @Description between the user and the participants; leftover cents go one each to the user, then the participants.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create expense request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.Int("shares", len(expense.Shares)))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Lists expenses the authenticated user created or participates in, newest first.
// @Tags expenses
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind list expense query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	expenses, nextToken, err := h.expenseService.ListExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses, nextToken))
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve expense"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	expenseID := c.Param("id")

	expense, err := h.expenseService.GetExpense(c.Request.Context(), userID, expenseID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("expense_id", expenseID)), err, "Failed to retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Update an expense
// @Description Only the creator may update an expense. Changing the amount re-splits the shares and
// @Description is refused once any share has been paid.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the creator"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Failure 409 {object} ErrorResponse "A share is already paid"
// @Failure 500 {object} ErrorResponse "Failed to update expense"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	expenseID := c.Param("id")
	logger = logger.With(slog.String("expense_id", expenseID))

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update expense request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), userID, expenseID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update expense")
		return
	}

	logger.Info("Expense updated")
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Deletes the expense and all its shares. Only the creator may delete it.
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204 "Expense deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the creator"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Failure 500 {object} ErrorResponse "Failed to delete expense"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	expenseID := c.Param("id")
	logger = logger.With(slog.String("expense_id", expenseID))

	if err := h.expenseService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		respondWithError(c, logger, err, "Failed to delete expense")
		return
	}

	logger.Info("Expense deleted")
	c.Status(http.StatusNoContent)
}

// setSharePaid godoc
// @Summary Mark an expense share paid
// @Description Marks one share paid. Paying is final, so isPaid must be true.
// @Description Paying an already paid share succeeds with outcome ALREADY_DONE.
// @Tags expenses
// @Accept json
// @Produce json
// @Param shareID path string true "Expense share ID"
// @Param request body dto.SetSharePaidRequest true "Paid flag"
// @Success 200 {object} dto.BulkItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a party to the share"
// @Failure 404 {object} ErrorResponse "Share not found"
// @Failure 500 {object} ErrorResponse "Failed to update share"
// @Security BearerAuth
// @Router /expenses/shares/{shareID} [put]
func (h *expenseHandler) setSharePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	shareID := c.Param("shareID")
	logger = logger.With(slog.String("share_id", shareID))

	var req dto.SetSharePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for set share paid request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.expenseService.SetSharePaid(c.Request.Context(), userID, shareID, *req.IsPaid)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update share")
		return
	}

	logger.Info("Expense share paid", slog.String("outcome", string(result.Outcome)))
	c.JSON(http.StatusOK, dto.ToBulkItemResponse(*result))
}
