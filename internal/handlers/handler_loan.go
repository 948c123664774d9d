package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// loanHandler handles HTTP requests related to loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.GET("", h.listLoans)
		loans.POST("", h.createLoan)
		loans.GET("/:id", h.getLoan)
		loans.PUT("/:id", h.updateLoan)
		loans.DELETE("/:id", h.deleteLoan)
		loans.PUT("/shares/:shareID", h.settleShare)
	}
}

// createLoan godoc
// @Summary Create a loan
// @Description Records money the authenticated user borrowed from (BORROW) or lent to (LEND) each participant.
// @Description Every participant owes or is owed the full amount.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan details"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create loan"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create loan request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create loan")
		return
	}

	logger.Info("Loan created", slog.String("loan_id", loan.LoanID), slog.String("direction", string(loan.Direction)))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Tags loans
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list loans"
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	loans, nextToken, err := h.loanService.ListLoans(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans, nextToken))
}

// getLoan godoc
// @Summary Get a loan
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve loan"
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	loanID := c.Param("id")

	loan, err := h.loanService.GetLoan(c.Request.Context(), userID, loanID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("loan_id", loanID)), err, "Failed to retrieve loan")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// updateLoan godoc
// @Summary Update a loan
// @Description Only the creator may update a loan. Amount and direction are frozen once a share is settled.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param loan body dto.UpdateLoanRequest true "Fields to update"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the creator"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 409 {object} ErrorResponse "A share is already settled"
// @Failure 500 {object} ErrorResponse "Failed to update loan"
// @Security BearerAuth
// @Router /loans/{id} [put]
func (h *loanHandler) updateLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	loanID := c.Param("id")
	logger = logger.With(slog.String("loan_id", loanID))

	var req dto.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update loan request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.UpdateLoan(c.Request.Context(), userID, loanID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update loan")
		return
	}

	logger.Info("Loan updated")
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// deleteLoan godoc
// @Summary Delete a loan
// @Tags loans
// @Param id path string true "Loan ID"
// @Success 204 "Loan deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the creator"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse "Failed to delete loan"
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *loanHandler) deleteLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	loanID := c.Param("id")
	logger = logger.With(slog.String("loan_id", loanID))

	if err := h.loanService.DeleteLoan(c.Request.Context(), userID, loanID); err != nil {
		respondWithError(c, logger, err, "Failed to delete loan")
		return
	}

	logger.Info("Loan deleted")
	c.Status(http.StatusNoContent)
}

// settleShare godoc
// @Summary Settle a loan share
// @Description Marks one loan share settled. Settling an already settled share reports ALREADY_DONE.
// @Tags loans
// @Produce json
// @Param shareID path string true "Loan share ID"
// @Success 200 {object} dto.BulkItemResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a party to the share"
// @Failure 404 {object} ErrorResponse "Share not found"
// @Failure 500 {object} ErrorResponse "Failed to settle share"
// @Security BearerAuth
// @Router /loans/shares/{shareID} [put]
func (h *loanHandler) settleShare(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	shareID := c.Param("shareID")
	logger = logger.With(slog.String("share_id", shareID))

	result, err := h.loanService.SettleShare(c.Request.Context(), userID, shareID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to settle share")
		return
	}

	logger.Info("Loan share settled", slog.String("outcome", string(result.Outcome)))
	c.JSON(http.StatusOK, dto.ToBulkItemResponse(*result))
}
