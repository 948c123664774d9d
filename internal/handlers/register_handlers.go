package handlers

import (
	"fmt"
	"time"

	"github.com/SscSPs/expense_split_app/cmd/docs"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/SscSPs/expense_split_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return fmt.Errorf("failed to register request validators: %w", err)
		}
	}

	r.Use(cors.New(corsConfig(cfg)))

	apiLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	authLimiter, err := middleware.NewMemoryLimiter(cfg.AuthRateLimit)
	if err != nil {
		return err
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes, rate limited separately
	auth := r.Group("/api/v1/auth", middleware.RateLimit(authLimiter))
	registerGoogleOAuthRoutes(auth, services)

	setupAPIV1Routes(r, cfg, services, middleware.RateLimit(apiLimiter))

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	rateLimit gin.HandlerFunc,
) {
	// An x-api-key header authenticates first; otherwise a bearer JWT is required
	v1 := r.Group("/api/v1",
		rateLimit,
		middleware.APITokenAuth(service.APIToken),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	registerBalanceRoutes(v1, service.Balance)
	registerSettlementRoutes(v1, service.Settlement)
	registerExpenseRoutes(v1, service.Expense)
	registerLoanRoutes(v1, service.Loan)
	registerContactRoutes(v1, service.Contact)
	registerCategoryRoutes(v1, service.Category)
	registerUserRoutes(v1, service.User)
	RegisterAPITokenRoutes(v1, service.APIToken)
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		cc.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		cc.AllowAllOrigins = true
	}
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", middleware.APITokenHeader)
	cc.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	cc.MaxAge = 12 * time.Hour
	return cc
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
