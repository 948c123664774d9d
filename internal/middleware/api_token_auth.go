package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// APITokenHeader carries a personal API token as an alternative to a bearer JWT.
const APITokenHeader = "x-api-key"

// APITokenAuth is a middleware that authenticates requests using API tokens.
// Requests without the header are left for AuthMiddleware; a present but invalid token is rejected.
func APITokenAuth(tokenSvc services.APITokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := c.GetHeader(APITokenHeader)
		if rawToken == "" {
			c.Next()
			return
		}

		user, err := tokenSvc.ValidateToken(c.Request.Context(), rawToken)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("API token rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API token"})
			return
		}

		setAuthenticatedUser(c, user.UserID, AuthMethodAPIToken)
		c.Next()
	}
}
