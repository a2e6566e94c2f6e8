package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	utils "saasgrid-backend/shared/utils/auth"
	"saasgrid-backend/shared/utils/query"
)

// OrganizationResponse represents organization data for API responses
type OrganizationResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Status    string     `json:"status"`
	OwnerID   *uuid.UUID `json:"owner_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Version   int64      `json:"version"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// CreateOrganizationRequest represents request body for creating organization
type CreateOrganizationRequest struct {
	Name     string     `json:"name" binding:"required"`
	Slug     string     `json:"slug" binding:"required"`
	Status   string     `json:"status"`
	OwnerID  *uuid.UUID `json:"owner_id"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// UpdateOrganizationRequest represents request body for updating organization
type UpdateOrganizationRequest struct {
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Status   string     `json:"status"`
	OwnerID  *uuid.UUID `json:"owner_id"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func toOrganizationResponse(org models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		TenantID:  org.TenantID,
		Name:      org.Name,
		Slug:      org.Slug,
		Status:    org.Status,
		OwnerID:   org.OwnerID,
		ParentID:  org.ParentID,
		Version:   org.Version,
		CreatedAt: org.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: org.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GetOrganizations retrieves tenant organizations with pagination and filtering
// @Summary Get all organizations
// @Description Get tenant organizations with pagination, filtering, sorting and search
// @Tags organizations
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and slug"
// @Param filters[status] query string false "Filter by status (ACTIVE, INACTIVE)"
// @Param filters[parent_id] query string false "Filter by parent organization ID"
// @Param sort[field] query string false "Sort field (name, slug, status, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Organization list"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations [get]
func GetOrganizations(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	db := database.DB
	params := query.ParseQueryParams(ctx)

	opts := query.Options{
		AllowedFilters: map[string]string{
			"status":    "status",
			"owner_id":  "owner_id",
			"parent_id": "parent_id",
		},
		AllowedSortFields: map[string]string{
			"name":       "name",
			"slug":       "slug",
			"status":     "status",
			"created_at": "created_at",
			"updated_at": "updated_at",
		},
		SearchFields: []string{"name", "slug"},
	}

	dbQuery := query.ApplyTenantScope(db.Model(&models.Organization{}), tenant)
	dbQuery = query.Apply(dbQuery, params, opts)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to count organizations",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var organizations []models.Organization
	if err := dbQuery.Find(&organizations).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve organizations",
			"message": err.Error(),
		})
		return
	}

	var items []OrganizationResponse
	for _, org := range organizations {
		items = append(items, toOrganizationResponse(org))
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

// GetOrganization retrieves a single organization by ID
// @Summary Get organization by ID
// @Tags organizations
// @Param id path string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Organization data"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{id} [get]
func GetOrganization(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	orgUUID, ok := parseIDParam(ctx, "organization")
	if !ok {
		return
	}

	var org models.Organization
	if err := database.DB.
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", orgUUID, tenant).
		First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "Organization with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve organization",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toOrganizationResponse(org),
	})
}

// CreateOrganization creates a new organization
// @Summary Create a new organization
// @Tags organizations
// @Param organization body CreateOrganizationRequest true "Organization information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created organization"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /organizations [post]
func CreateOrganization(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	var req CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := utils.ValidateSlug(req.Slug); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid slug",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	// Check if owner exists within the tenant
	if req.OwnerID != nil {
		var owner models.User
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.OwnerID, tenant).
			First(&owner).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Owner not found",
				"message": "The specified owner does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	// Check if parent organization exists within the tenant
	if req.ParentID != nil {
		var parentOrg models.Organization
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.ParentID, tenant).
			First(&parentOrg).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Parent organization not found",
				"message": "The specified parent organization does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	// Slug is unique per tenant
	var existingOrg models.Organization
	if err := db.Where("tenant_id = ? AND slug = ? AND deleted_at IS NULL", tenant, req.Slug).
		First(&existingOrg).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Slug already exists",
			"message": "An organization with this slug already exists in this tenant",
			"code":    "DUPLICATE",
		})
		return
	}

	if req.Status == "" {
		req.Status = models.OrganizationStatusActive
	}

	org := models.Organization{
		TenantID: tenant,
		Name:     req.Name,
		Slug:     req.Slug,
		Status:   req.Status,
		OwnerID:  req.OwnerID,
		ParentID: req.ParentID,
		Info:     newAuditInfo(ctx),
	}

	if err := db.Create(&org).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create organization",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Organization created successfully",
		"data":    toOrganizationResponse(org),
	})
}

// UpdateOrganization updates an existing organization
// @Summary Update an organization
// @Tags organizations
// @Param id path string true "Organization ID" format(uuid)
// @Param organization body UpdateOrganizationRequest true "Updated organization information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated organization"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /organizations/{id} [put]
func UpdateOrganization(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	orgUUID, ok := parseIDParam(ctx, "organization")
	if !ok {
		return
	}

	var req UpdateOrganizationRequest
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

	var org models.Organization
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", orgUUID, tenant).
		First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "Organization with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve organization",
			"message": err.Error(),
		})
		return
	}

	if req.Slug != "" {
		if err := utils.ValidateSlug(req.Slug); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid slug",
				"message": err.Error(),
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	if req.OwnerID != nil {
		var owner models.User
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.OwnerID, tenant).
			First(&owner).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Owner not found",
				"message": "The specified owner does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	if req.ParentID != nil {
		if *req.ParentID == org.ID {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Organization cannot be its own parent",
				"message": "Pick a different parent organization",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		var parentOrg models.Organization
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.ParentID, tenant).
			First(&parentOrg).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Parent organization not found",
				"message": "The specified parent organization does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	if req.Slug != "" && req.Slug != org.Slug {
		var existingOrg models.Organization
		if err := db.Where("tenant_id = ? AND slug = ? AND id != ? AND deleted_at IS NULL", tenant, req.Slug, orgUUID).
			First(&existingOrg).Error; err == nil {
			ctx.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Slug already exists",
				"message": "An organization with this slug already exists in this tenant",
				"code":    "DUPLICATE",
			})
			return
		}
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Slug != "" {
		org.Slug = req.Slug
	}
	if req.Status != "" {
		org.Status = req.Status
	}
	if req.OwnerID != nil {
		org.OwnerID = req.OwnerID
	}
	if req.ParentID != nil {
		org.ParentID = req.ParentID
	}
	org.Touch(actorID(ctx))

	if err := db.Save(&org).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update organization",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Organization updated successfully",
		"data":    toOrganizationResponse(org),
	})
}

// DeleteOrganization soft deletes an organization
// @Summary Delete an organization
// @Description Soft delete an organization if it has no child organizations, departments, users, or roles
// @Tags organizations
// @Param id path string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 409 {object} map[string]string "Organization has dependencies"
// @Router /organizations/{id} [delete]
func DeleteOrganization(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	orgUUID, ok := parseIDParam(ctx, "organization")
	if !ok {
		return
	}

	db := database.DB

	var org models.Organization
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", orgUUID, tenant).
		First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "Organization with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve organization",
			"message": err.Error(),
		})
		return
	}

	var childCount int64
	db.Model(&models.Organization{}).
		Where("parent_id = ? AND deleted_at IS NULL", orgUUID).Count(&childCount)
	if childCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Organization has child organizations",
			"message": "Cannot delete organization that has child organizations",
		})
		return
	}

	var departmentCount int64
	db.Model(&models.Department{}).
		Where("organization_id = ? AND deleted_at IS NULL", orgUUID).Count(&departmentCount)
	if departmentCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Organization has departments",
			"message": "Cannot delete organization that has departments",
		})
		return
	}

	var userCount int64
	db.Model(&models.User{}).
		Where("organization_id = ? AND deleted_at IS NULL", orgUUID).Count(&userCount)
	if userCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Organization has users",
			"message": "Cannot delete organization that has users",
		})
		return
	}

	var roleCount int64
	db.Model(&models.Role{}).
		Where("organization_id = ? AND deleted_at IS NULL", orgUUID).Count(&roleCount)
	if roleCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Organization has roles",
			"message": "Cannot delete organization that has roles",
		})
		return
	}

	org.MarkDeleted(actorID(ctx))
	org.Status = models.OrganizationStatusDeleted

	if err := db.Save(&org).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete organization",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Organization deleted successfully",
	})
}
