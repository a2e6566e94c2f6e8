package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/tenant-service/handlers"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	router := gin.Default()

	// Tenant routes
	router.GET("/api/tenants", handlers.GetTenants)
	router.GET("/api/tenants/:id", handlers.GetTenant)
	router.POST("/api/tenants", handlers.CreateTenant)
	router.PUT("/api/tenants/:id", handlers.UpdateTenant)
	router.DELETE("/api/tenants/:id", handlers.DeleteTenant)

	// Lifecycle routes
	router.POST("/api/tenants/:id/activate", handlers.ActivateTenant)
	router.POST("/api/tenants/:id/suspend", handlers.SuspendTenant)
	router.POST("/api/tenants/:id/archive", handlers.ArchiveTenant)

	// Quota and settings routes
	router.GET("/api/tenants/:id/quota", handlers.GetTenantQuota)
	router.GET("/api/tenants/:id/settings", handlers.GetTenantSettings)
	router.PUT("/api/tenants/:id/settings", handlers.UpdateTenantSettings)

	// Export routes
	router.POST("/api/tenants/:id/export", handlers.ExportTenant)
	router.GET("/api/tenants/:id/exports", handlers.ListTenantExports)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "tenant",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(config.GetConfig().TenantServiceURL, ":")[2]
	log.Printf("Tenant Service starting on port %s...", port)
	router.Run(":" + port)
}
