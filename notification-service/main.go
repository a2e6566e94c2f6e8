package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saasgrid-backend/notification-service/handlers"
	"saasgrid-backend/notification-service/services"
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

	// Start the WebSocket manager before accepting connections
	services.GetWebSocketManager()

	emailHandler := handlers.NewEmailHandler(config.GetConfig())

	router := gin.Default()

	// Notification routes
	router.GET("/api/notifications", handlers.GetNotifications)
	router.GET("/api/notifications/:id", handlers.GetNotification)
	router.POST("/api/notifications", handlers.CreateNotification)
	router.PUT("/api/notifications/:id/read", handlers.MarkAsRead)
	router.PUT("/api/notifications/user/:user_id/read-all", handlers.MarkAllAsRead)
	router.DELETE("/api/notifications/:id", handlers.DeleteNotification)

	// Email routes
	router.POST("/api/notifications/email/send", emailHandler.SendEmail)
	router.POST("/api/notifications/email/welcome", emailHandler.SendWelcomeEmail)
	router.POST("/api/notifications/email/lifecycle", emailHandler.SendLifecycleEmail)

	// WebSocket routes
	router.GET("/ws/notifications", handlers.HandleWebSocket)
	router.POST("/ws/send", handlers.SendWebSocketMessage)
	router.GET("/ws/stats", handlers.GetWebSocketStats)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"service":     "notification",
			"connections": services.GetWebSocketManager().GetConnectionCount(),
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(config.GetConfig().NotificationServiceURL, ":")[2]
	log.Printf("Notification Service starting on port %s...", port)
	router.Run(":" + port)
}
