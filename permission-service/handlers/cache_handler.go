package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/cache"
)

// GetCacheStats returns cache statistics
// @Summary Get cache statistics
// @Description Get statistics about the permission cache
// @Tags cache
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Cache statistics"
// @Failure 503 {object} map[string]interface{} "Cache manager not available"
// @Failure 500 {object} map[string]interface{} "Failed to get cache stats"
// @Router /permissions/cache/stats [get]
func GetCacheStats(c *gin.Context) {
	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Cache manager not available",
		})
		return
	}

	stats, err := cacheManager.GetCacheStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get cache stats",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"cache_stats": stats,
		"service":     "permission",
	})
}

// InvalidateUserPermissions invalidates all cached permissions for a user
// @Summary Invalidate user permissions cache
// @Description Invalidate all cached permissions for a specific user
// @Tags cache
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]interface{} "Invalid user ID"
// @Failure 500 {object} map[string]interface{} "Failed to invalidate cache"
// @Failure 503 {object} map[string]interface{} "Cache manager not available"
// @Router /permissions/cache/invalidate/{user_id} [post]
func InvalidateUserPermissions(c *gin.Context) {
	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Cache manager not available",
		})
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid user ID",
			"message": "User ID must be a valid UUID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := cacheManager.InvalidateUserPermissions(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to invalidate user permissions",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User permissions cache invalidated successfully",
		"user_id": userID,
	})
}

// InvalidateRolePermissions invalidates cached permissions for every user
// attached to a role
// @Summary Invalidate role permissions cache
// @Description Invalidate cached permissions for all users holding a specific role
// @Tags cache
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role_id path string true "Role ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]interface{} "Invalid role ID"
// @Failure 500 {object} map[string]interface{} "Failed to invalidate cache"
// @Failure 503 {object} map[string]interface{} "Cache manager not available"
// @Router /permissions/cache/invalidate/role/{role_id} [post]
func InvalidateRolePermissions(c *gin.Context) {
	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Cache manager not available",
		})
		return
	}

	roleID, err := uuid.Parse(c.Param("role_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid role ID",
			"message": "Role ID must be a valid UUID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	// The cache is keyed per user, so fan out over the role's members
	var userIDs []uuid.UUID
	database.GetDB().Model(&models.User{}).
		Where("role_id = ? AND deleted_at IS NULL", roleID).
		Pluck("id", &userIDs)

	for _, userID := range userIDs {
		if err := cacheManager.InvalidateUserPermissions(userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to invalidate role permissions",
				"message": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Role permissions cache invalidated successfully",
		"role_id":        roleID,
		"users_affected": len(userIDs),
	})
}

// InvalidateOrgPermissions invalidates cached permissions for every user in
// an organization
// @Summary Invalidate organization permissions cache
// @Description Invalidate cached permissions for all users in a specific organization
// @Tags cache
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Organization ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]interface{} "Invalid organization ID"
// @Failure 500 {object} map[string]interface{} "Failed to invalidate cache"
// @Failure 503 {object} map[string]interface{} "Cache manager not available"
// @Router /permissions/cache/invalidate/org/{org_id} [post]
func InvalidateOrgPermissions(c *gin.Context) {
	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Cache manager not available",
		})
		return
	}

	orgID, err := uuid.Parse(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid organization ID",
			"message": "Organization ID must be a valid UUID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var userIDs []uuid.UUID
	database.GetDB().Model(&models.User{}).
		Where("organization_id = ? AND deleted_at IS NULL", orgID).
		Pluck("id", &userIDs)

	for _, userID := range userIDs {
		if err := cacheManager.InvalidateUserPermissions(userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to invalidate organization permissions",
				"message": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Organization permissions cache invalidated successfully",
		"org_id":         orgID,
		"users_affected": len(userIDs),
	})
}

// InvalidateAllPermissions invalidates all permission caches
// @Summary Invalidate all permissions cache
// @Description Invalidate all cached permissions across the system
// @Tags cache
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 500 {object} map[string]interface{} "Failed to invalidate cache"
// @Failure 503 {object} map[string]interface{} "Cache manager not available"
// @Router /permissions/cache/invalidate/all [post]
func InvalidateAllPermissions(c *gin.Context) {
	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Cache manager not available",
		})
		return
	}

	if err := cacheManager.InvalidateAllPermissions(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to invalidate all permissions",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All permissions cache invalidated successfully",
	})
}
