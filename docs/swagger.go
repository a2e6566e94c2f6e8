// Package docs SaasGrid API documentation
package docs

// Swagger documentation info
// @title SaasGrid API
// @version 1.0
// @description Central API documentation - For all SaasGrid microservices
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@saasgrid.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Auth Service Endpoints
// @tag.name auth
// @tag.description Authentication and user session management

// Tenant Service Endpoints
// @tag.name tenants
// @tag.description Tenant lifecycle, quota and export management

// Core Service Endpoints
// @tag.name organizations
// @tag.description Organization management
// @tag.name departments
// @tag.description Department tree management
// @tag.name users
// @tag.description User management
// @tag.name roles
// @tag.description Role management

// Permission Service Endpoints
// @tag.name permissions
// @tag.description Permission management
// @tag.name resources
// @tag.description Resource management
// @tag.name actions
// @tag.description Action management

// Notification Service Endpoints
// @tag.name notifications
// @tag.description Notifications, emails and WebSocket push
