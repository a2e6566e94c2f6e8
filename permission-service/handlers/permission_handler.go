package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/cache"
	"saasgrid-backend/shared/utils/query"
)

// CreatePermissionRequest represents the request body for creating a permission
type CreatePermissionRequest struct {
	ResourceID     uuid.UUID   `json:"resource_id" binding:"required"`
	Target         string      `json:"target" binding:"required,oneof=USER ROLE ORGANIZATION"`
	UserID         *uuid.UUID  `json:"user_id,omitempty"`
	RoleID         *uuid.UUID  `json:"role_id,omitempty"`
	OrganizationID *uuid.UUID  `json:"organization_id,omitempty"`
	ActionIDs      []uuid.UUID `json:"action_ids" binding:"required,min=1"`
}

// UpdatePermissionRequest represents the request body for updating a permission
type UpdatePermissionRequest struct {
	ResourceID     *uuid.UUID  `json:"resource_id,omitempty"`
	Target         *string     `json:"target,omitempty"`
	UserID         *uuid.UUID  `json:"user_id,omitempty"`
	RoleID         *uuid.UUID  `json:"role_id,omitempty"`
	OrganizationID *uuid.UUID  `json:"organization_id,omitempty"`
	ActionIDs      []uuid.UUID `json:"action_ids,omitempty"`
}

// PermissionResponse represents the response structure with actions included
type PermissionResponse struct {
	models.Permission
	Actions []models.Action `json:"actions"`
}

// PaginationResponse represents pagination information
type PaginationResponse struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// CreatePermission creates a new permission with associated actions
// @Summary Create a new permission
// @Description Create a new permission grant with associated actions
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param permission body CreatePermissionRequest true "Permission data"
// @Success 201 {object} handlers.PermissionResponse "Created permission"
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 404 {object} map[string]interface{} "Resource or action not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /permissions [post]
func CreatePermission(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := validatePermissionTarget(req.Target, req.UserID, req.RoleID, req.OrganizationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid target configuration",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.GetDB()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var resource models.Resource
	if err := tx.First(&resource, "id = ?", req.ResourceID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Resource not found",
				"code":    "NOT_FOUND",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		}
		return
	}

	var actions []models.Action
	if err := tx.Find(&actions, "id IN ?", req.ActionIDs).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	if len(actions) != len(req.ActionIDs) {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "One or more actions not found",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	permission := models.Permission{
		TenantID:       grantTenantID(c),
		ResourceID:     req.ResourceID,
		Target:         req.Target,
		UserID:         req.UserID,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
	}

	if err := tx.Create(&permission).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create permission",
			"message": err.Error(),
		})
		return
	}

	for _, actionID := range req.ActionIDs {
		permissionAction := models.PermissionAction{
			PermissionID: permission.ID,
			ActionID:     actionID,
		}
		if err := tx.Create(&permissionAction).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to create permission actions",
				"message": err.Error(),
			})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to commit transaction"})
		return
	}

	invalidateGrantCache(db, &permission)

	var createdPermission models.Permission
	db.Preload("Resource").
		Preload("User").
		Preload("Role").
		Preload("Organization").
		First(&createdPermission, "id = ?", permission.ID)

	var permissionActions []models.PermissionAction
	db.Preload("Action").Find(&permissionActions, "permission_id = ?", permission.ID)

	var responseActions []models.Action
	for _, pa := range permissionActions {
		responseActions = append(responseActions, pa.Action)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": PermissionResponse{
			Permission: createdPermission,
			Actions:    responseActions,
		},
	})
}

// GetPermissions retrieves all permissions with optional filtering
// @Summary Get all permissions
// @Description Get all permissions with pagination, filtering, sorting, and search
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Results per page (default: 10)"
// @Param filters[target] query string false "Filter by target (USER, ROLE, ORGANIZATION)"
// @Param filters[resource_id] query string false "Filter by resource ID"
// @Param filters[user_id] query string false "Filter by user ID"
// @Param filters[role_id] query string false "Filter by role ID"
// @Param filters[organization_id] query string false "Filter by organization ID"
// @Param sort[field] query string false "Sort field (target, created_at, updated_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Success 200 {object} map[string]interface{} "List of permissions"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /permissions [get]
func GetPermissions(c *gin.Context) {
	db := database.GetDB()

	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"target":          "target",
		"resource_id":     "resource_id",
		"user_id":         "user_id",
		"role_id":         "role_id",
		"organization_id": "organization_id",
		"tenant_id":       "tenant_id",
	}

	allowedSortFields := map[string]string{
		"target":     "target",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}

	searchFields := []string{"target"}

	baseQuery := db.Model(&models.Permission{}).
		Preload("Resource").
		Preload("User").
		Preload("Role").
		Preload("Organization")

	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, searchFields)

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var permissions []models.Permission
	if err := finalQuery.Find(&permissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	var responses []PermissionResponse
	for _, permission := range permissions {
		var permissionActions []models.PermissionAction
		db.Preload("Action").Find(&permissionActions, "permission_id = ?", permission.ID)

		var actions []models.Action
		for _, pa := range permissionActions {
			actions = append(actions, pa.Action)
		}

		responses = append(responses, PermissionResponse{
			Permission: permission,
			Actions:    actions,
		})
	}

	pagination := query.BuildPaginationResponse(params.Page, params.Limit, total)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      responses,
			"pagination": pagination,
		},
	})
}

// GetPermission retrieves a single permission by ID
// @Summary Get a permission by ID
// @Description Get detailed information about a specific permission
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Permission ID" format(uuid)
// @Success 200 {object} handlers.PermissionResponse "Permission details"
// @Failure 400 {object} map[string]interface{} "Invalid permission ID"
// @Failure 404 {object} map[string]interface{} "Permission not found"
// @Router /permissions/{id} [get]
func GetPermission(c *gin.Context) {
	permissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid permission ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.GetDB()

	var permission models.Permission
	if err := db.Preload("Resource").
		Preload("User").
		Preload("Role").
		Preload("Organization").
		First(&permission, "id = ?", permissionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Permission not found",
				"code":    "NOT_FOUND",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		}
		return
	}

	var permissionActions []models.PermissionAction
	db.Preload("Action").Find(&permissionActions, "permission_id = ?", permission.ID)

	var actions []models.Action
	for _, pa := range permissionActions {
		actions = append(actions, pa.Action)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": PermissionResponse{
			Permission: permission,
			Actions:    actions,
		},
	})
}

// UpdatePermission updates a permission by ID
// @Summary Update a permission
// @Description Update an existing permission and its action set
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Permission ID" format(uuid)
// @Param permission body UpdatePermissionRequest true "Updated permission data"
// @Success 200 {object} handlers.PermissionResponse "Updated permission"
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 404 {object} map[string]interface{} "Permission, resource, or action not found"
// @Router /permissions/{id} [put]
func UpdatePermission(c *gin.Context) {
	permissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid permission ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.GetDB()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var permission models.Permission
	if err := tx.First(&permission, "id = ?", permissionID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Permission not found",
				"code":    "NOT_FOUND",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		}
		return
	}

	// Invalidate the grant as it was before the update. A ROLE grant moved
	// to another role must drop cached answers for the old role's users too.
	previousGrant := permission

	updates := make(map[string]interface{})

	if req.ResourceID != nil {
		var resource models.Resource
		if err := tx.First(&resource, "id = ?", *req.ResourceID).Error; err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error":   "Resource not found",
					"code":    "NOT_FOUND",
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
			}
			return
		}
		updates["resource_id"] = *req.ResourceID
	}

	if req.Target != nil {
		targetUserID := req.UserID
		targetRoleID := req.RoleID
		targetOrgID := req.OrganizationID

		if targetUserID == nil {
			targetUserID = permission.UserID
		}
		if targetRoleID == nil {
			targetRoleID = permission.RoleID
		}
		if targetOrgID == nil {
			targetOrgID = permission.OrganizationID
		}

		if err := validatePermissionTarget(*req.Target, targetUserID, targetRoleID, targetOrgID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid target configuration",
				"message": err.Error(),
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		updates["target"] = *req.Target
	}

	if req.UserID != nil {
		updates["user_id"] = *req.UserID
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.OrganizationID != nil {
		updates["organization_id"] = *req.OrganizationID
	}

	if len(updates) > 0 {
		if err := tx.Model(&permission).Updates(updates).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update permission",
				"message": err.Error(),
			})
			return
		}
	}

	if len(req.ActionIDs) > 0 {
		var actions []models.Action
		if err := tx.Find(&actions, "id IN ?", req.ActionIDs).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
			return
		}

		if len(actions) != len(req.ActionIDs) {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "One or more actions not found",
				"code":    "VALIDATION_ERROR",
			})
			return
		}

		if err := tx.Delete(&models.PermissionAction{}, "permission_id = ?", permissionID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update permission actions"})
			return
		}

		for _, actionID := range req.ActionIDs {
			permissionAction := models.PermissionAction{
				PermissionID: permissionID,
				ActionID:     actionID,
			}
			if err := tx.Create(&permissionAction).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Failed to create permission actions",
					"message": err.Error(),
				})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to commit transaction"})
		return
	}

	var updatedPermission models.Permission
	db.Preload("Resource").
		Preload("User").
		Preload("Role").
		Preload("Organization").
		First(&updatedPermission, "id = ?", permissionID)

	invalidateGrantCache(db, &previousGrant)
	invalidateGrantCache(db, &updatedPermission)

	var permissionActions []models.PermissionAction
	db.Preload("Action").Find(&permissionActions, "permission_id = ?", permissionID)

	var responseActions []models.Action
	for _, pa := range permissionActions {
		responseActions = append(responseActions, pa.Action)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": PermissionResponse{
			Permission: updatedPermission,
			Actions:    responseActions,
		},
	})
}

// DeletePermission deletes a permission and its associated actions
// @Summary Delete a permission
// @Description Delete a permission and its associated actions
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Permission ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]interface{} "Invalid permission ID"
// @Failure 404 {object} map[string]interface{} "Permission not found"
// @Router /permissions/{id} [delete]
func DeletePermission(c *gin.Context) {
	permissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid permission ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.GetDB()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var permission models.Permission
	if err := tx.First(&permission, "id = ?", permissionID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Permission not found",
				"code":    "NOT_FOUND",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		}
		return
	}

	if err := tx.Delete(&models.PermissionAction{}, "permission_id = ?", permissionID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete permission actions"})
		return
	}

	if err := tx.Delete(&permission).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete permission"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to commit transaction"})
		return
	}

	invalidateGrantCache(db, &permission)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Permission deleted successfully",
	})
}

// grantTenantID reads the optional tenant scope header. Platform level
// grants carry no tenant.
func grantTenantID(c *gin.Context) *uuid.UUID {
	header := c.GetHeader("X-Tenant-ID")
	if header == "" {
		return nil
	}
	id, err := uuid.Parse(header)
	if err != nil {
		return nil
	}
	return &id
}

// invalidateGrantCache drops cached check answers for every user a grant
// can affect. USER grants touch one user, ROLE and ORGANIZATION grants
// fan out to the users currently attached to them.
func invalidateGrantCache(db *gorm.DB, permission *models.Permission) {
	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		return
	}

	var userIDs []uuid.UUID

	switch permission.Target {
	case models.PermissionTargetUser:
		if permission.UserID != nil {
			userIDs = append(userIDs, *permission.UserID)
		}
	case models.PermissionTargetRole:
		if permission.RoleID != nil {
			db.Model(&models.User{}).
				Where("role_id = ? AND deleted_at IS NULL", *permission.RoleID).
				Pluck("id", &userIDs)
		}
	case models.PermissionTargetOrganization:
		if permission.OrganizationID != nil {
			db.Model(&models.User{}).
				Where("organization_id = ? AND deleted_at IS NULL", *permission.OrganizationID).
				Pluck("id", &userIDs)
		}
	}

	for _, userID := range userIDs {
		if err := cacheManager.InvalidateUserPermissions(userID); err != nil {
			log.Printf("⚠️ Failed to invalidate permission cache for user %s: %v", userID, err)
		}
	}
}

// validatePermissionTarget checks that exactly the ID matching the target
// type is set.
func validatePermissionTarget(target string, userID, roleID, organizationID *uuid.UUID) error {
	switch target {
	case models.PermissionTargetUser:
		if userID == nil {
			return &ValidationError{Field: "user_id", Message: "user_id is required for USER target"}
		}
		if roleID != nil || organizationID != nil {
			return &ValidationError{Field: "target", Message: "only user_id should be set for USER target"}
		}
	case models.PermissionTargetRole:
		if roleID == nil {
			return &ValidationError{Field: "role_id", Message: "role_id is required for ROLE target"}
		}
		if userID != nil || organizationID != nil {
			return &ValidationError{Field: "target", Message: "only role_id should be set for ROLE target"}
		}
	case models.PermissionTargetOrganization:
		if organizationID == nil {
			return &ValidationError{Field: "organization_id", Message: "organization_id is required for ORGANIZATION target"}
		}
		if userID != nil || roleID != nil {
			return &ValidationError{Field: "target", Message: "only organization_id should be set for ORGANIZATION target"}
		}
	default:
		return &ValidationError{Field: "target", Message: "target must be USER, ROLE, or ORGANIZATION"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
