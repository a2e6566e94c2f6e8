package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/cache"
)

// PermissionCheckRequest represents a single permission check request
type PermissionCheckRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	ResourceSlug string `json:"resource_slug" binding:"required"`
	ActionSlug   string `json:"action_slug" binding:"required"`
}

// PermissionCheckResponse represents the response from permission check
type PermissionCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// BatchPermissionCheckRequest represents batch permission check request
type BatchPermissionCheckRequest struct {
	UserID string                `json:"user_id" binding:"required"`
	Checks []ResourceActionCheck `json:"checks" binding:"required,min=1"`
}

type ResourceActionCheck struct {
	ResourceSlug string `json:"resource_slug" binding:"required"`
	ActionSlug   string `json:"action_slug" binding:"required"`
}

// BatchPermissionCheckResponse represents batch permission check response
type BatchPermissionCheckResponse struct {
	Results map[string]bool `json:"results"`
}

// CheckPermission checks if user has permission for specific resource and action
// @Summary Check single permission
// @Description Check if a user has permission for a specific resource and action
// @Tags permission-checks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param check body PermissionCheckRequest true "Permission check request"
// @Success 200 {object} PermissionCheckResponse "Permission check result"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Router /permissions/check [post]
func CheckPermission(c *gin.Context) {
	var req PermissionCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid user ID",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	allowed, reason := checkPermissionHierarchy(userID, req.ResourceSlug, req.ActionSlug)

	c.JSON(http.StatusOK, PermissionCheckResponse{
		Allowed: allowed,
		Reason:  reason,
	})
}

// BatchCheckPermissions checks multiple permissions at once
// @Summary Check multiple permissions
// @Description Check multiple resource-action permissions for a user in a single request
// @Tags permission-checks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batch body BatchPermissionCheckRequest true "Batch permission check request"
// @Success 200 {object} BatchPermissionCheckResponse "Batch permission check results"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Router /permissions/batch-check [post]
func BatchCheckPermissions(c *gin.Context) {
	var req BatchPermissionCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid user ID",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	results := make(map[string]bool)
	for _, check := range req.Checks {
		key := check.ResourceSlug + ":" + check.ActionSlug
		allowed, _ := checkPermissionHierarchy(userID, check.ResourceSlug, check.ActionSlug)
		results[key] = allowed
	}

	c.JSON(http.StatusOK, BatchPermissionCheckResponse{Results: results})
}

// checkPermissionHierarchy resolves a check through the 3-level hierarchy
// with a redis cache in front. Priority: cache, then user grants, then role
// grants, then organization grants. The cache TTL depends on which level
// answered.
func checkPermissionHierarchy(userID uuid.UUID, resourceSlug, actionSlug string) (bool, string) {
	cacheManager := cache.GetCacheManager()
	if cacheManager != nil {
		if cacheData, found := cacheManager.GetPermissionCache(userID, resourceSlug, actionSlug); found {
			return cacheData.HasPermission, "cached_" + cacheData.FoundAt
		}
	}

	db := database.GetDB()
	var allowed bool
	var foundAt string

	if hasDirectUserPermission(db, userID, resourceSlug, actionSlug) {
		allowed = true
		foundAt = "user"
	} else if hasRolePermission(db, userID, resourceSlug, actionSlug) {
		allowed = true
		foundAt = "role"
	} else if hasOrganizationPermission(db, userID, resourceSlug, actionSlug) {
		allowed = true
		foundAt = "organization"
	} else {
		allowed = false
		foundAt = "none"
	}

	if cacheManager != nil {
		cacheData := &cache.PermissionCacheData{
			HasPermission: allowed,
			UserID:        userID,
			Resource:      resourceSlug,
			Action:        actionSlug,
			FoundAt:       foundAt,
		}
		cacheManager.SetPermissionCache(userID, resourceSlug, actionSlug, cacheData)
	}

	if allowed {
		return true, foundAt + "_permission"
	}
	return false, "no_permission"
}

// hasDirectUserPermission checks grants targeted at the user directly
func hasDirectUserPermission(db *gorm.DB, userID uuid.UUID, resourceSlug, actionSlug string) bool {
	var count int64

	// Specific resource or the ALL wildcard
	err := db.Table("permissions p").
		Joins("JOIN resources r ON p.resource_id = r.id").
		Joins("JOIN permission_actions pa ON p.id = pa.permission_id").
		Joins("JOIN actions a ON pa.action_id = a.id").
		Where("p.target = ? AND p.user_id = ? AND (r.slug = ? OR r.slug = ?) AND a.slug = ?",
			models.PermissionTargetUser, userID, resourceSlug, "ALL", actionSlug).
		Count(&count).Error

	if err != nil {
		return false
	}

	return count > 0
}

// hasRolePermission checks grants targeted at the user's role
func hasRolePermission(db *gorm.DB, userID uuid.UUID, resourceSlug, actionSlug string) bool {
	var count int64

	err := db.Table("permissions p").
		Joins("JOIN resources r ON p.resource_id = r.id").
		Joins("JOIN permission_actions pa ON p.id = pa.permission_id").
		Joins("JOIN actions a ON pa.action_id = a.id").
		Joins("JOIN users u ON p.role_id = u.role_id").
		Where("p.target = ? AND u.id = ? AND u.deleted_at IS NULL AND (r.slug = ? OR r.slug = ?) AND a.slug = ?",
			models.PermissionTargetRole, userID, resourceSlug, "ALL", actionSlug).
		Count(&count).Error

	if err != nil {
		return false
	}

	return count > 0
}

// hasOrganizationPermission checks grants targeted at the user's organization
func hasOrganizationPermission(db *gorm.DB, userID uuid.UUID, resourceSlug, actionSlug string) bool {
	var user models.User
	if err := db.First(&user, "id = ? AND deleted_at IS NULL", userID).Error; err != nil {
		return false
	}

	if user.OrganizationID == nil {
		return false
	}

	var count int64
	err := db.Table("permissions p").
		Joins("JOIN resources r ON p.resource_id = r.id").
		Joins("JOIN permission_actions pa ON p.id = pa.permission_id").
		Joins("JOIN actions a ON pa.action_id = a.id").
		Where("p.target = ? AND p.organization_id = ? AND (r.slug = ? OR r.slug = ?) AND a.slug = ?",
			models.PermissionTargetOrganization, *user.OrganizationID, resourceSlug, "ALL", actionSlug).
		Count(&count).Error

	if err != nil {
		return false
	}

	return count > 0
}
