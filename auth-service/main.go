package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saasgrid-backend/auth-service/handlers"
	"saasgrid-backend/auth-service/middleware"
	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(database.GetDB())

	// Initialize rate limiter
	cfg := config.GetConfig()
	rateLimiter := middleware.NewRateLimiter(30 * time.Minute)

	generalConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}

	loginConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetLoginRateLimitMaxAttempts(),
		TimeWindow:    time.Duration(cfg.GetLoginRateLimitWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetLoginRateLimitBlockMinutes()) * time.Minute,
	}

	router := gin.Default()

	// Auth endpoints
	router.POST("/api/auth/login", rateLimiter.LoginRateLimitMiddleware(loginConfig), authHandler.Login)
	router.POST("/api/auth/logout", middleware.AuthMiddleware(), authHandler.Logout)
	router.POST("/api/auth/refresh", rateLimiter.RateLimitMiddleware(generalConfig), authHandler.Refresh)
	router.POST("/api/auth/validate", rateLimiter.RateLimitMiddleware(generalConfig), authHandler.Validate)
	router.GET("/api/auth/me", middleware.AuthMiddleware(), authHandler.Me)

	// Session management endpoints
	router.GET("/api/auth/sessions", middleware.AuthMiddleware(), authHandler.ListSessions)
	router.DELETE("/api/auth/sessions/:id", middleware.AuthMiddleware(), authHandler.TerminateSession)
	router.POST("/api/auth/sessions/terminate-all", middleware.AuthMiddleware(), authHandler.TerminateAllSessions)
	router.GET("/api/auth/login-history", middleware.AuthMiddleware(), authHandler.GetLoginHistory)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "auth",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(cfg.AuthServiceURL, ":")[2]
	log.Printf("Auth Service starting on port %s...", port)
	router.Run(":" + port)
}
