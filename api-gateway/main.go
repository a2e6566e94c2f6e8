package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saasgrid-backend/api-gateway/middleware"
	"saasgrid-backend/api-gateway/routes"
	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/utils/permission"

	_ "saasgrid-backend/docs/swagger"
)

// @title SaasGrid API
// @version 1.0
// @description Complete API documentation for the SaasGrid multi-tenant platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@saasgrid.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name auth
// @tag.description Authentication operations

// @tag.name tenants
// @tag.description Tenant lifecycle and quota operations

// @tag.name organizations
// @tag.description Organization management operations

// @tag.name departments
// @tag.description Department tree operations

// @tag.name users
// @tag.description User management operations

// @tag.name roles
// @tag.description Role management operations

// @tag.name permissions
// @tag.description Permission management operations

// @tag.name resources
// @tag.description Resource management operations

// @tag.name actions
// @tag.description Action management operations

// @tag.name notifications
// @tag.description Notification operations

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize permission client with config-based URL
	permission.InitPermissionClient(cfg.PermissionServiceURL)

	// Initialize global rate limiter
	rateLimiter := middleware.NewRateLimiter(5 * time.Minute)
	globalRateConfig := middleware.NewRateLimitConfig()

	router := gin.Default()

	// CORS
	router.Use(cors.Default())

	// Global rate limiter middleware
	router.Use(rateLimiter.GlobalRateLimitMiddleware(globalRateConfig))

	// Unified response middleware (transforms all service responses)
	router.Use(middleware.UnifiedResponseMiddleware())

	// Health check endpoint
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "API Gateway is running"})
	})

	// Auth routes (no permission required, the auth service rate limits itself)
	router.Any("/api/auth/*path",
		routes.ProxyToService("auth"))

	// Tenant routes
	router.GET("/api/tenants",
		middleware.RequirePermission("tenants", "read"),
		routes.ProxyToService("tenant"))
	router.POST("/api/tenants",
		middleware.RequirePermission("tenants", "create"),
		routes.ProxyToService("tenant"))
	router.GET("/api/tenants/:id",
		middleware.RequirePermission("tenants", "read"),
		routes.ProxyToService("tenant"))
	router.PUT("/api/tenants/:id",
		middleware.RequirePermission("tenants", "update"),
		routes.ProxyToService("tenant"))
	router.DELETE("/api/tenants/:id",
		middleware.RequirePermission("tenants", "delete"),
		routes.ProxyToService("tenant"))

	// Tenant lifecycle routes (admin level)
	router.POST("/api/tenants/:id/activate",
		middleware.RequirePermission("tenants", "manage"),
		routes.ProxyToService("tenant"))
	router.POST("/api/tenants/:id/suspend",
		middleware.RequirePermission("tenants", "manage"),
		routes.ProxyToService("tenant"))
	router.POST("/api/tenants/:id/archive",
		middleware.RequirePermission("tenants", "manage"),
		routes.ProxyToService("tenant"))

	// Tenant quota, settings and export routes
	router.GET("/api/tenants/:id/quota",
		middleware.RequirePermission("tenants", "read"),
		routes.ProxyToService("tenant"))
	router.GET("/api/tenants/:id/settings",
		middleware.RequirePermission("tenants", "read"),
		routes.ProxyToService("tenant"))
	router.PUT("/api/tenants/:id/settings",
		middleware.RequirePermission("tenants", "update"),
		routes.ProxyToService("tenant"))
	router.POST("/api/tenants/:id/export",
		middleware.RequirePermission("tenants", "manage"),
		routes.ProxyToService("tenant"))
	router.GET("/api/tenants/:id/exports",
		middleware.RequirePermission("tenants", "read"),
		routes.ProxyToService("tenant"))

	// Organization routes
	router.GET("/api/organizations",
		middleware.RequirePermission("organizations", "read"),
		routes.ProxyToService("core"))
	router.POST("/api/organizations",
		middleware.RequirePermission("organizations", "create"),
		routes.ProxyToService("core"))
	router.GET("/api/organizations/:id",
		middleware.RequirePermission("organizations", "read"),
		routes.ProxyToService("core"))
	router.PUT("/api/organizations/:id",
		middleware.RequirePermission("organizations", "update"),
		routes.ProxyToService("core"))
	router.DELETE("/api/organizations/:id",
		middleware.RequirePermission("organizations", "delete"),
		routes.ProxyToService("core"))

	// Department routes
	router.GET("/api/departments",
		middleware.RequirePermission("departments", "read"),
		routes.ProxyToService("core"))
	router.GET("/api/departments/tree",
		middleware.RequirePermission("departments", "read"),
		routes.ProxyToService("core"))
	router.POST("/api/departments",
		middleware.RequirePermission("departments", "create"),
		routes.ProxyToService("core"))
	router.GET("/api/departments/:id",
		middleware.RequirePermission("departments", "read"),
		routes.ProxyToService("core"))
	router.PUT("/api/departments/:id",
		middleware.RequirePermission("departments", "update"),
		routes.ProxyToService("core"))
	router.DELETE("/api/departments/:id",
		middleware.RequirePermission("departments", "delete"),
		routes.ProxyToService("core"))

	// User routes
	router.GET("/api/users",
		middleware.RequirePermission("users", "read"),
		routes.ProxyToService("core"))
	router.POST("/api/users",
		middleware.RequirePermission("users", "create"),
		routes.ProxyToService("core"))
	router.GET("/api/users/:id",
		middleware.RequirePermission("users", "read"),
		routes.ProxyToService("core"))
	router.PUT("/api/users/:id",
		middleware.RequirePermission("users", "update"),
		routes.ProxyToService("core"))
	router.DELETE("/api/users/:id",
		middleware.RequirePermission("users", "delete"),
		routes.ProxyToService("core"))

	// Role routes
	router.GET("/api/roles",
		middleware.RequirePermission("roles", "read"),
		routes.ProxyToService("core"))
	router.POST("/api/roles",
		middleware.RequirePermission("roles", "create"),
		routes.ProxyToService("core"))
	router.GET("/api/roles/:id",
		middleware.RequirePermission("roles", "read"),
		routes.ProxyToService("core"))
	router.PUT("/api/roles/:id",
		middleware.RequirePermission("roles", "update"),
		routes.ProxyToService("core"))
	router.DELETE("/api/roles/:id",
		middleware.RequirePermission("roles", "delete"),
		routes.ProxyToService("core"))

	// Permission management routes
	router.GET("/api/permissions",
		middleware.RequirePermission("permissions", "read"),
		routes.ProxyToService("permissions"))
	router.POST("/api/permissions",
		middleware.RequirePermission("permissions", "create"),
		routes.ProxyToService("permissions"))
	router.GET("/api/permissions/:id",
		middleware.RequirePermission("permissions", "read"),
		routes.ProxyToService("permissions"))
	router.PUT("/api/permissions/:id",
		middleware.RequirePermission("permissions", "update"),
		routes.ProxyToService("permissions"))
	router.DELETE("/api/permissions/:id",
		middleware.RequirePermission("permissions", "delete"),
		routes.ProxyToService("permissions"))

	// Resource routes
	router.GET("/api/resources",
		middleware.RequirePermission("resources", "read"),
		routes.ProxyToService("permissions"))
	router.POST("/api/resources",
		middleware.RequirePermission("resources", "create"),
		routes.ProxyToService("permissions"))
	router.GET("/api/resources/:id",
		middleware.RequirePermission("resources", "read"),
		routes.ProxyToService("permissions"))
	router.PUT("/api/resources/:id",
		middleware.RequirePermission("resources", "update"),
		routes.ProxyToService("permissions"))
	router.DELETE("/api/resources/:id",
		middleware.RequirePermission("resources", "delete"),
		routes.ProxyToService("permissions"))

	// Action routes
	router.GET("/api/actions",
		middleware.RequirePermission("actions", "read"),
		routes.ProxyToService("permissions"))
	router.POST("/api/actions",
		middleware.RequirePermission("actions", "create"),
		routes.ProxyToService("permissions"))
	router.GET("/api/actions/:id",
		middleware.RequirePermission("actions", "read"),
		routes.ProxyToService("permissions"))
	router.PUT("/api/actions/:id",
		middleware.RequirePermission("actions", "update"),
		routes.ProxyToService("permissions"))
	router.DELETE("/api/actions/:id",
		middleware.RequirePermission("actions", "delete"),
		routes.ProxyToService("permissions"))

	// Cache operations (admin only)
	router.Any("/api/permissions/cache/*path",
		middleware.RequirePermission("permissions", "manage"),
		routes.ProxyToService("permissions"))

	// Notification routes
	router.GET("/api/notifications",
		middleware.RequirePermission("notifications", "read"),
		routes.ProxyToService("notification"))
	router.POST("/api/notifications",
		middleware.RequirePermission("notifications", "create"),
		routes.ProxyToService("notification"))
	router.GET("/api/notifications/:id",
		middleware.RequirePermission("notifications", "read"),
		routes.ProxyToService("notification"))
	router.PUT("/api/notifications/:id/read",
		middleware.RequireAuthentication(),
		routes.ProxyToService("notification"))
	router.PUT("/api/notifications/user/:user_id/read-all",
		middleware.RequireAuthentication(),
		routes.ProxyToService("notification"))
	router.DELETE("/api/notifications/:id",
		middleware.RequirePermission("notifications", "delete"),
		routes.ProxyToService("notification"))

	// Email routes
	// Only admins can send arbitrary emails, lifecycle mails are internal
	router.POST("/api/notifications/email/send",
		middleware.RequirePermission("notifications", "create"),
		routes.ProxyToService("notification"))
	router.POST("/api/notifications/email/welcome",
		routes.ProxyToService("notification"))
	router.POST("/api/notifications/email/lifecycle",
		routes.ProxyToService("notification"))

	// WebSocket routes (token travels as a query parameter)
	router.GET("/ws/notifications",
		routes.ProxyToService("notification"))

	// Swagger documentation UI, development only
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	// Server start
	port := strings.Split(config.GetConfig().APIGatewayURL, ":")[2]
	log.Printf("API Gateway is running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
