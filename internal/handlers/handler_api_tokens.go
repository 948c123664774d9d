package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APITokenHandler handles HTTP requests for API token operations
type APITokenHandler struct {
	tokenSvc services.APITokenSvc
}

// NewAPITokenHandler creates a new APITokenHandler
func NewAPITokenHandler(tokenSvc services.APITokenSvc) *APITokenHandler {
	return &APITokenHandler{
		tokenSvc: tokenSvc,
	}
}

// RegisterAPITokenRoutes registers the API token routes
func RegisterAPITokenRoutes(router *gin.RouterGroup, tokenSvc services.APITokenSvc) {
	handler := NewAPITokenHandler(tokenSvc)

	tokensGroup := router.Group("/api-tokens")
	{
		tokensGroup.POST("", handler.CreateToken)
		tokensGroup.GET("", handler.ListTokens)
		tokensGroup.DELETE("/:id", handler.RevokeToken)
	}
}

// CreateToken handles the creation of a new API token
// @Summary Create a new API token
// @Description Creates a new API token for the authenticated user. The token will be shown only once upon creation.
// @Description Send it in the x-api-key header instead of a bearer JWT.
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAPITokenRequest true "Token creation details"
// @Success 201 {object} dto.CreateAPITokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api-tokens [post]
func (h *APITokenHandler) CreateToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tokenStr, token, err := h.tokenSvc.CreateToken(c.Request.Context(), userID, req.Name, req.ExpiresInDuration())
	if err != nil {
		respondWithError(c, logger, err, "Failed to create token")
		return
	}

	logger.Info("API token created", slog.String("token_id", token.ID))
	c.JSON(http.StatusCreated, dto.CreateAPITokenResponse{
		Token:    tokenStr,
		APIToken: dto.ToAPITokenResponse(token),
	})
}

// ListTokens handles listing all API tokens for the authenticated user
// @Summary List all API tokens
// @Description Lists all API tokens for the authenticated user. Only returns token metadata, not the actual token values.
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.APITokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api-tokens [get]
func (h *APITokenHandler) ListTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	tokens, err := h.tokenSvc.ListTokens(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list tokens")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAPITokenResponse(tokens))
}

// RevokeToken handles revoking a specific API token
// @Summary Revoke an API token
// @Description Revokes a specific API token by ID. The token will be immediately invalidated.
// @Description Only the token owner can revoke their own tokens.
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Token ID (UUID format)" format(uuid)
// @Success 204 "Token revoked successfully"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api-tokens/{id} [delete]
func (h *APITokenHandler) RevokeToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	tokenID := c.Param("id")
	if _, err := uuid.Parse(tokenID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid token ID"})
		return
	}

	if err := h.tokenSvc.RevokeToken(c.Request.Context(), userID, tokenID); err != nil {
		respondWithError(c, logger.With(slog.String("token_id", tokenID)), err, "Failed to revoke token")
		return
	}

	c.Status(http.StatusNoContent)
}
