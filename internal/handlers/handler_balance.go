package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler serves the viewer's aggregated balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

func newBalanceHandler(bs portssvc.BalanceSvc) *balanceHandler {
	return &balanceHandler{balanceService: bs}
}

func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := newBalanceHandler(balanceService)
	rg.GET("/balances", h.getBalances)
}

// getBalances godoc
// @Summary Get balances
// @Description Returns what the authenticated user owes and is owed across unsettled expense shares and loans,
// @Description grouped by counterparty. With net=true each counterparty also gets owedToMe minus iOwe.
// @Tags balances
// @Produce json
// @Param net query bool false "Include per-counterparty net amounts"
// @Success 200 {object} dto.BalanceSummaryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 503 {object} ErrorResponse "Record store unavailable"
// @Failure 500 {object} ErrorResponse "Failed to compute balances"
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind balance query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	if params.Net {
		summary, net, err := h.balanceService.ComputeNetBalances(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, logger, err, "Failed to compute balances")
			return
		}
		c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(summary, net))
		return
	}

	summary, err := h.balanceService.ComputeBalances(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute balances")
		return
	}

	logger.Debug("Balances computed",
		slog.Int("owe_groups", len(summary.OweGroups)),
		slog.Int("owed_groups", len(summary.OwedGroups)),
	)
	c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(summary, nil))
}
