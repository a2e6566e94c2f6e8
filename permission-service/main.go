package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saasgrid-backend/permission-service/handlers"
	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Initialize Redis Cache Manager. Checks fall back to the database
	// when redis is unreachable.
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️  Warning: Redis cache not available: %v", err)
		log.Println("🔄 Service will continue without caching...")
	} else {
		cacheManager := cache.GetCacheManager()
		if cacheManager != nil {
			if err := cacheManager.TestConnection(); err != nil {
				log.Printf("⚠️  Warning: Redis connection test failed: %v", err)
			}
		}
	}

	router := gin.Default()

	// Permission check routes
	router.POST("/api/permissions/check", handlers.CheckPermission)
	router.POST("/api/permissions/batch-check", handlers.BatchCheckPermissions)

	// Permission CRUD routes
	router.GET("/api/permissions", handlers.GetPermissions)
	router.GET("/api/permissions/:id", handlers.GetPermission)
	router.POST("/api/permissions", handlers.CreatePermission)
	router.PUT("/api/permissions/:id", handlers.UpdatePermission)
	router.DELETE("/api/permissions/:id", handlers.DeletePermission)

	// Resource routes
	router.GET("/api/resources", handlers.GetResources)
	router.GET("/api/resources/:id", handlers.GetResource)
	router.POST("/api/resources", handlers.CreateResource)
	router.PUT("/api/resources/:id", handlers.UpdateResource)
	router.DELETE("/api/resources/:id", handlers.DeleteResource)

	// Action routes
	router.GET("/api/actions", handlers.GetActions)
	router.GET("/api/actions/:id", handlers.GetAction)
	router.POST("/api/actions", handlers.CreateAction)
	router.PUT("/api/actions/:id", handlers.UpdateAction)
	router.DELETE("/api/actions/:id", handlers.DeleteAction)

	// Cache management routes
	router.GET("/api/permissions/cache/stats", handlers.GetCacheStats)
	router.POST("/api/permissions/cache/invalidate/all", handlers.InvalidateAllPermissions)
	router.POST("/api/permissions/cache/invalidate/role/:role_id", handlers.InvalidateRolePermissions)
	router.POST("/api/permissions/cache/invalidate/org/:org_id", handlers.InvalidateOrgPermissions)
	router.POST("/api/permissions/cache/invalidate/:user_id", handlers.InvalidateUserPermissions)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "permission",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(config.GetConfig().PermissionServiceURL, ":")[2]
	log.Printf("Permission Service starting on port %s...", port)
	router.Run(":" + port)
}
