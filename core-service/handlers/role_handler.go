package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/query"
)

// RoleResponse represents role data for API responses
type RoleResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	IsDefault      bool       `json:"is_default"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	Version        int64      `json:"version"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// CreateRoleRequest represents request body for creating a role
type CreateRoleRequest struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	IsDefault      bool       `json:"is_default"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

// UpdateRoleRequest represents request body for updating a role
type UpdateRoleRequest struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	IsDefault      *bool      `json:"is_default"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

func toRoleResponse(role models.Role) RoleResponse {
	return RoleResponse{
		ID:             role.ID,
		TenantID:       role.TenantID,
		Name:           role.Name,
		Description:    role.Description,
		IsDefault:      role.IsDefault,
		OrganizationID: role.OrganizationID,
		Version:        role.Version,
		CreatedAt:      role.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      role.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GetRoles retrieves tenant roles with pagination and filtering
// @Summary Get all roles
// @Description Get tenant roles with pagination, filtering, sorting and search
// @Tags roles
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and description"
// @Param filters[organization_id] query string false "Filter by organization ID"
// @Param filters[is_default] query string false "Filter by default flag"
// @Param sort[field] query string false "Sort field (name, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Role list"
// @Failure 500 {object} map[string]string "Server error"
// @Router /roles [get]
func GetRoles(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	db := database.DB
	params := query.ParseQueryParams(ctx)

	opts := query.Options{
		AllowedFilters: map[string]string{
			"organization_id": "organization_id",
			"is_default":      "is_default",
		},
		AllowedSortFields: map[string]string{
			"name":       "name",
			"created_at": "created_at",
			"updated_at": "updated_at",
		},
		SearchFields: []string{"name", "description"},
	}

	dbQuery := query.ApplyTenantScope(db.Model(&models.Role{}), tenant)
	dbQuery = query.Apply(dbQuery, params, opts)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to count roles",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var roles []models.Role
	if err := dbQuery.Find(&roles).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve roles",
			"message": err.Error(),
		})
		return
	}

	var items []RoleResponse
	for _, role := range roles {
		items = append(items, toRoleResponse(role))
	}

	pagination := query.BuildPaginationResponse(params.Page, params.Limit, total)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": pagination,
		},
	})
}

// GetRole retrieves a single role by ID
// @Summary Get role by ID
// @Tags roles
// @Param id path string true "Role ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Role data"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /roles/{id} [get]
func GetRole(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	roleUUID, ok := parseIDParam(ctx, "role")
	if !ok {
		return
	}

	var role models.Role
	if err := database.DB.
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", roleUUID, tenant).
		First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Role not found",
				"message": "Role with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve role",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toRoleResponse(role),
	})
}

// CreateRole creates a new role
// @Summary Create a new role
// @Tags roles
// @Param role body CreateRoleRequest true "Role information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created role"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Role name already exists"
// @Router /roles [post]
func CreateRole(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	var req CreateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	if req.OrganizationID != nil {
		var org models.Organization
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.OrganizationID, tenant).
			First(&org).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "The specified organization does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	// Role name is unique within its scope (tenant + organization)
	nameQuery := db.Model(&models.Role{}).
		Where("tenant_id = ? AND name = ? AND deleted_at IS NULL", tenant, req.Name)
	if req.OrganizationID != nil {
		nameQuery = nameQuery.Where("organization_id = ?", *req.OrganizationID)
	} else {
		nameQuery = nameQuery.Where("organization_id IS NULL")
	}
	var nameCount int64
	nameQuery.Count(&nameCount)
	if nameCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Role name already exists",
			"message": "A role with this name already exists in this scope",
			"code":    "DUPLICATE",
		})
		return
	}

	role := models.Role{
		TenantID:       tenant,
		Name:           req.Name,
		Description:    req.Description,
		IsDefault:      req.IsDefault,
		OrganizationID: req.OrganizationID,
		Info:           newAuditInfo(ctx),
	}

	if err := db.Create(&role).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create role",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Role created successfully",
		"data":    toRoleResponse(role),
	})
}

// UpdateRole updates an existing role
// @Summary Update a role
// @Tags roles
// @Param id path string true "Role ID" format(uuid)
// @Param role body UpdateRoleRequest true "Updated role information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated role"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /roles/{id} [put]
func UpdateRole(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	roleUUID, ok := parseIDParam(ctx, "role")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	var role models.Role
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", roleUUID, tenant).
		First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Role not found",
				"message": "Role with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve role",
			"message": err.Error(),
		})
		return
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if req.IsDefault != nil {
		role.IsDefault = *req.IsDefault
	}
	if req.OrganizationID != nil {
		var org models.Organization
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.OrganizationID, tenant).
			First(&org).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "The specified organization does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		role.OrganizationID = req.OrganizationID
	}
	role.Touch(actorID(ctx))

	if err := db.Save(&role).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update role",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role updated successfully",
		"data":    toRoleResponse(role),
	})
}

// DeleteRole soft deletes a role
// @Summary Delete a role
// @Description Soft delete a role; blocked while users still reference it
// @Tags roles
// @Param id path string true "Role ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 404 {object} map[string]string "Role not found"
// @Failure 409 {object} map[string]string "Role has users"
// @Router /roles/{id} [delete]
func DeleteRole(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	roleUUID, ok := parseIDParam(ctx, "role")
	if !ok {
		return
	}

	db := database.DB

	var role models.Role
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", roleUUID, tenant).
		First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Role not found",
				"message": "Role with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve role",
			"message": err.Error(),
		})
		return
	}

	var userCount int64
	db.Model(&models.User{}).
		Where("role_id = ? AND deleted_at IS NULL", roleUUID).Count(&userCount)
	if userCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Role has users",
			"message": "Cannot delete role while users still reference it",
		})
		return
	}

	role.MarkDeleted(actorID(ctx))

	if err := db.Save(&role).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete role",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role deleted successfully",
	})
}
