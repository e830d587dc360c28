package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/job-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/job-tracker/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimit      middleware.RateLimiterConfig
	// HSTS is enabled outside local development.
	HSTS bool
}

func NewRouter(
	logger *slog.Logger,
	cfg RouterConfig,
	tokens middleware.TokenVerifier,
	authHandler *handler.AuthHandler,
	applicationHandler *handler.ApplicationHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(cfg.HSTS))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens)
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server is running!"})
	})

	auth := api.Group("/auth")
	auth.POST("/register", limiter.Middleware(), authHandler.Register)
	auth.POST("/login", limiter.Middleware(), authHandler.Login)
	auth.GET("/me", authMW, authHandler.Me)

	applications := api.Group("/applications", authMW)
	applications.GET("", applicationHandler.List)
	applications.POST("", applicationHandler.Create)
	applications.GET("/stats", applicationHandler.Stats)
	applications.GET("/:id", applicationHandler.GetByID)
	applications.PUT("/:id", applicationHandler.Update)
	applications.DELETE("/:id", applicationHandler.Delete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return r
}
