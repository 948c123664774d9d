package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settlementHandler handles bulk settle and bulk delete requests.
type settlementHandler struct {
	settlementService portssvc.SettlementSvc
}

func newSettlementHandler(ss portssvc.SettlementSvc) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvc) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("/settle", h.settleShares)
		settlements.POST("/delete", h.deleteSources)
	}
}

// settleShares godoc
// @Summary Settle shares in bulk
// @Description Marks every listed expense share paid and every listed loan share settled in one transaction.
// @Description Items that were already settled, do not exist or do not belong to the user are reported per item.
// @Tags settlements
// @Accept json
// @Produce json
// @Param request body dto.SettleSharesRequest true "Shares to settle"
// @Success 200 {object} dto.BulkResultResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 503 {object} ErrorResponse "Record store unavailable"
// @Failure 500 {object} ErrorResponse "Failed to settle shares"
// @Security BearerAuth
// @Router /settlements/settle [post]
func (h *settlementHandler) settleShares(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.SettleSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settle request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.settlementService.SettleShares(c.Request.Context(), userID, req.ToShareRefs())
	if err != nil {
		respondWithError(c, logger, err, "Failed to settle shares")
		return
	}

	resp := dto.ToBulkResultResponse(*result)
	logger.Info("Bulk settle processed", slog.Int("items", len(resp.Items)), slog.Int("applied", resp.Applied))
	c.JSON(http.StatusOK, resp)
}

// deleteSources godoc
// @Summary Delete expenses and loans in bulk
// @Description Deletes every listed expense or loan created by the user, together with its shares, in one transaction.
// @Tags settlements
// @Accept json
// @Produce json
// @Param request body dto.DeleteSourcesRequest true "Records to delete"
// @Success 200 {object} dto.BulkResultResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 503 {object} ErrorResponse "Record store unavailable"
// @Failure 500 {object} ErrorResponse "Failed to delete records"
// @Security BearerAuth
// @Router /settlements/delete [post]
func (h *settlementHandler) deleteSources(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.DeleteSourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for delete request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.settlementService.DeleteSources(c.Request.Context(), userID, req.ToSourceRefs())
	if err != nil {
		respondWithError(c, logger, err, "Failed to delete records")
		return
	}

	resp := dto.ToBulkResultResponse(*result)
	logger.Info("Bulk delete processed", slog.Int("items", len(resp.Items)), slog.Int("applied", resp.Applied))
	c.JSON(http.StatusOK, resp)
}
