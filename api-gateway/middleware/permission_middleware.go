package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	utils "saasgrid-backend/shared/utils/auth"
	"saasgrid-backend/shared/utils/permission"
)

// RequirePermission creates a middleware that checks if the caller holds a
// specific permission before the request is proxied
func RequirePermission(resourceSlug, actionSlug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or missing token",
				"code":    "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		allowed, err := permission.CheckPermission(claims.UserID, resourceSlug, actionSlug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to check permissions",
				"code":    "PERMISSION_CHECK_FAILED",
			})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Insufficient permissions",
				"code":    "PERMISSION_DENIED",
				"details": gin.H{
					"required_resource": resourceSlug,
					"required_action":   actionSlug,
				},
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("resource", resourceSlug)
		c.Set("action", actionSlug)
		c.Set("permission_checked", true)

		c.Next()
	}
}

// RequireAnyPermission checks if the caller holds ANY of the provided permissions
func RequireAnyPermission(permissions []struct{ Resource, Action string }) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or missing token",
				"code":    "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		var checks []permission.ResourceActionCheck
		for _, perm := range permissions {
			checks = append(checks, permission.ResourceActionCheck{
				ResourceSlug: perm.Resource,
				ActionSlug:   perm.Action,
			})
		}

		results, err := permission.BatchCheckPermissions(claims.UserID, checks)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to check permissions",
				"code":    "PERMISSION_CHECK_FAILED",
			})
			c.Abort()
			return
		}

		hasAnyPermission := false
		for _, result := range results {
			if result {
				hasAnyPermission = true
				break
			}
		}

		if !hasAnyPermission {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Insufficient permissions",
				"code":    "PERMISSION_DENIED",
				"details": gin.H{
					"required_any_of": permissions,
				},
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("permission_checked", true)
		c.Next()
	}
}

// RequireAuthentication only verifies the token, no permission check
func RequireAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or missing token",
				"code":    "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Next()
	}
}

// claimsFromRequest validates the bearer token and returns its claims
func claimsFromRequest(c *gin.Context) (*utils.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errors.New("bearer token required")
	}

	return utils.ValidateJWT(tokenString)
}
