package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	utils "saasgrid-backend/shared/utils/auth"
	"saasgrid-backend/shared/utils/query"
)

// DepartmentResponse represents department data for API responses
type DepartmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	ParentID       *uuid.UUID `json:"parent_id"`
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Path           string     `json:"path"`
	Level          int        `json:"level"`
	Status         string     `json:"status"`
	Version        int64      `json:"version"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// CreateDepartmentRequest represents request body for creating a department
type CreateDepartmentRequest struct {
	OrganizationID uuid.UUID  `json:"organization_id" binding:"required"`
	ParentID       *uuid.UUID `json:"parent_id"`
	Name           string     `json:"name" binding:"required"`
	Code           string     `json:"code" binding:"required"`
}

// UpdateDepartmentRequest represents request body for updating a department.
// Changing ParentID re-parents the whole subtree.
type UpdateDepartmentRequest struct {
	Name     string     `json:"name"`
	Code     string     `json:"code"`
	Status   string     `json:"status"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func toDepartmentResponse(dept models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:             dept.ID,
		TenantID:       dept.TenantID,
		OrganizationID: dept.OrganizationID,
		ParentID:       dept.ParentID,
		Name:           dept.Name,
		Code:           dept.Code,
		Path:           dept.Path,
		Level:          dept.Level,
		Status:         dept.Status,
		Version:        dept.Version,
		CreatedAt:      dept.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      dept.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// childPath builds the materialized path of a node under parentPath. Roots
// pass "" and get "/<code>".
func childPath(parentPath, code string) string {
	return parentPath + "/" + code
}

// isDescendantPath reports whether path lies strictly below ancestorPath.
func isDescendantPath(ancestorPath, path string) bool {
	return strings.HasPrefix(path, ancestorPath+"/")
}

// GetDepartments retrieves tenant departments with pagination and filtering
// @Summary Get all departments
// @Description Get tenant departments with pagination, filtering, sorting and search
// @Tags departments
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and code"
// @Param filters[status] query string false "Filter by status"
// @Param filters[organization_id] query string false "Filter by organization ID"
// @Param filters[parent_id] query string false "Filter by parent department ID"
// @Param sort[field] query string false "Sort field (name, code, level, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Department list"
// @Failure 500 {object} map[string]string "Server error"
// @Router /departments [get]
func GetDepartments(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	db := database.DB
	params := query.ParseQueryParams(ctx)

	opts := query.Options{
		AllowedFilters: map[string]string{
			"status":          "status",
			"organization_id": "organization_id",
			"parent_id":       "parent_id",
		},
		AllowedSortFields: map[string]string{
			"name":       "name",
			"code":       "code",
			"level":      "level",
			"path":       "path",
			"created_at": "created_at",
			"updated_at": "updated_at",
		},
		SearchFields: []string{"name", "code"},
	}

	dbQuery := query.ApplyTenantScope(db.Model(&models.Department{}), tenant)
	dbQuery = query.Apply(dbQuery, params, opts)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to count departments",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var departments []models.Department
	if err := dbQuery.Find(&departments).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve departments",
			"message": err.Error(),
		})
		return
	}

	var items []DepartmentResponse
	for _, dept := range departments {
		items = append(items, toDepartmentResponse(dept))
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

// GetDepartment retrieves a single department by ID
// @Summary Get department by ID
// @Tags departments
// @Param id path string true "Department ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Department data"
// @Failure 404 {object} map[string]string "Department not found"
// @Router /departments/{id} [get]
func GetDepartment(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	deptUUID, ok := parseIDParam(ctx, "department")
	if !ok {
		return
	}

	var dept models.Department
	if err := database.DB.
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", deptUUID, tenant).
		First(&dept).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Department not found",
				"message": "Department with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve department",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toDepartmentResponse(dept),
	})
}

// CreateDepartment creates a new department node
// @Summary Create a new department
// @Description Create a department under an organization, optionally below a parent department
// @Tags departments
// @Param department body CreateDepartmentRequest true "Department information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created department"
// @Failure 400 {object} map[string]string "Invalid request data or tree depth exceeded"
// @Failure 409 {object} map[string]string "Code already exists in parent scope"
// @Router /departments [post]
func CreateDepartment(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	var req CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := utils.ValidateCode(req.Code); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid code",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	var org models.Organization
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", req.OrganizationID, tenant).
		First(&org).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Organization not found",
			"message": "The specified organization does not exist in this tenant",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	parentPath := ""
	level := 1
	if req.ParentID != nil {
		var parent models.Department
		if err := db.Where("id = ? AND tenant_id = ? AND organization_id = ? AND deleted_at IS NULL",
			*req.ParentID, tenant, req.OrganizationID).First(&parent).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Parent department not found",
				"message": "The specified parent department does not exist in this organization",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		parentPath = parent.Path
		level = parent.Level + 1
	}

	maxDepth := config.GetConfig().GetDepartmentMaxDepth()
	if level > maxDepth {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Department tree too deep",
			"message": "Departments cannot be nested deeper than the configured maximum",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	// Code must be unique among siblings
	siblingQuery := db.Model(&models.Department{}).
		Where("organization_id = ? AND code = ? AND deleted_at IS NULL", req.OrganizationID, req.Code)
	if req.ParentID != nil {
		siblingQuery = siblingQuery.Where("parent_id = ?", *req.ParentID)
	} else {
		siblingQuery = siblingQuery.Where("parent_id IS NULL")
	}
	var siblingCount int64
	siblingQuery.Count(&siblingCount)
	if siblingCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Code already exists",
			"message": "A sibling department with this code already exists",
			"code":    "DUPLICATE",
		})
		return
	}

	dept := models.Department{
		TenantID:       tenant,
		OrganizationID: req.OrganizationID,
		ParentID:       req.ParentID,
		Name:           req.Name,
		Code:           req.Code,
		Path:           childPath(parentPath, req.Code),
		Level:          level,
		Status:         models.DepartmentStatusActive,
		Info:           newAuditInfo(ctx),
	}

	if err := db.Create(&dept).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create department",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Department created successfully",
		"data":    toDepartmentResponse(dept),
	})
}

// UpdateDepartment updates a department, re-parenting its subtree if needed
// @Summary Update a department
// @Description Update department fields; changing parent or code rewrites the subtree paths
// @Tags departments
// @Param id path string true "Department ID" format(uuid)
// @Param department body UpdateDepartmentRequest true "Updated department information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated department"
// @Failure 400 {object} map[string]string "Invalid request data or cycle detected"
// @Failure 404 {object} map[string]string "Department not found"
// @Failure 409 {object} map[string]string "Code already exists in parent scope"
// @Router /departments/{id} [put]
func UpdateDepartment(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	deptUUID, ok := parseIDParam(ctx, "department")
	if !ok {
		return
	}

	var req UpdateDepartmentRequest
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

	var dept models.Department
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", deptUUID, tenant).
		First(&dept).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Department not found",
				"message": "Department with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve department",
			"message": err.Error(),
		})
		return
	}

	newCode := dept.Code
	if req.Code != "" && req.Code != dept.Code {
		if err := utils.ValidateCode(req.Code); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid code",
				"message": err.Error(),
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		newCode = req.Code
	}

	// Resolve the target parent: nil request keeps the current parent
	newParentID := dept.ParentID
	newParentPath := ""
	newLevel := 1
	reparent := req.ParentID != nil && (dept.ParentID == nil || *req.ParentID != *dept.ParentID)
	if reparent {
		if *req.ParentID == dept.ID {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Department cannot be its own parent",
				"message": "Pick a different parent department",
				"code":    "VALIDATION_ERROR",
			})
			return
		}

		var parent models.Department
		if err := db.Where("id = ? AND tenant_id = ? AND organization_id = ? AND deleted_at IS NULL",
			*req.ParentID, tenant, dept.OrganizationID).First(&parent).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Parent department not found",
				"message": "The specified parent department does not exist in this organization",
				"code":    "VALIDATION_ERROR",
			})
			return
		}

		// Re-parenting below the own subtree would create a cycle
		if parent.Path == dept.Path || isDescendantPath(dept.Path, parent.Path) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Cannot move department below itself",
				"message": "The target parent is inside this department's subtree",
				"code":    "VALIDATION_ERROR",
			})
			return
		}

		newParentID = req.ParentID
		newParentPath = parent.Path
		newLevel = parent.Level + 1
	} else if dept.ParentID != nil {
		var parent models.Department
		if err := db.Where("id = ?", *dept.ParentID).First(&parent).Error; err == nil {
			newParentPath = parent.Path
			newLevel = parent.Level + 1
		}
	}

	newPath := childPath(newParentPath, newCode)
	pathChanged := newPath != dept.Path

	if pathChanged {
		// Depth check covers the whole moved subtree
		var maxSubtreeLevel int
		db.Model(&models.Department{}).
			Where("tenant_id = ? AND (path = ? OR path LIKE ?) AND deleted_at IS NULL",
				tenant, dept.Path, dept.Path+"/%").
			Select("COALESCE(MAX(level), 0)").Scan(&maxSubtreeLevel)

		levelDelta := newLevel - dept.Level
		if maxSubtreeLevel+levelDelta > config.GetConfig().GetDepartmentMaxDepth() {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Department tree too deep",
				"message": "Moving this subtree would exceed the configured maximum depth",
				"code":    "VALIDATION_ERROR",
			})
			return
		}

		// Code must stay unique among the target siblings
		siblingQuery := db.Model(&models.Department{}).
			Where("organization_id = ? AND code = ? AND id != ? AND deleted_at IS NULL",
				dept.OrganizationID, newCode, dept.ID)
		if newParentID != nil {
			siblingQuery = siblingQuery.Where("parent_id = ?", *newParentID)
		} else {
			siblingQuery = siblingQuery.Where("parent_id IS NULL")
		}
		var siblingCount int64
		siblingQuery.Count(&siblingCount)
		if siblingCount > 0 {
			ctx.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Code already exists",
				"message": "A sibling department with this code already exists",
				"code":    "DUPLICATE",
			})
			return
		}

		levelDeltaExpr := gorm.Expr("level + ?", levelDelta)
		err := db.Transaction(func(tx *gorm.DB) error {
			// Rewrite descendant paths first, then the node itself
			if err := tx.Model(&models.Department{}).
				Where("tenant_id = ? AND path LIKE ? AND deleted_at IS NULL", tenant, dept.Path+"/%").
				Updates(map[string]interface{}{
					"path":  gorm.Expr("replace(path, ?, ?)", dept.Path+"/", newPath+"/"),
					"level": levelDeltaExpr,
				}).Error; err != nil {
				return err
			}

			dept.ParentID = newParentID
			dept.Code = newCode
			dept.Path = newPath
			dept.Level = newLevel
			if req.Name != "" {
				dept.Name = req.Name
			}
			if req.Status != "" {
				dept.Status = req.Status
			}
			dept.Touch(actorID(ctx))
			return tx.Save(&dept).Error
		})
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update department",
				"message": err.Error(),
			})
			return
		}
	} else {
		if req.Name != "" {
			dept.Name = req.Name
		}
		if req.Status != "" {
			dept.Status = req.Status
		}
		dept.Touch(actorID(ctx))
		if err := db.Save(&dept).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update department",
				"message": err.Error(),
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Department updated successfully",
		"data":    toDepartmentResponse(dept),
	})
}

// DeleteDepartment soft deletes a department
// @Summary Delete a department
// @Description Soft delete a department when it has no child departments and no assigned users
// @Tags departments
// @Param id path string true "Department ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 404 {object} map[string]string "Department not found"
// @Failure 409 {object} map[string]string "Department has dependencies"
// @Router /departments/{id} [delete]
func DeleteDepartment(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	deptUUID, ok := parseIDParam(ctx, "department")
	if !ok {
		return
	}

	db := database.DB

	var dept models.Department
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", deptUUID, tenant).
		First(&dept).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Department not found",
				"message": "Department with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve department",
			"message": err.Error(),
		})
		return
	}

	var childCount int64
	db.Model(&models.Department{}).
		Where("parent_id = ? AND deleted_at IS NULL", deptUUID).Count(&childCount)
	if childCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Department has child departments",
			"message": "Cannot delete department that has child departments",
		})
		return
	}

	var userCount int64
	db.Model(&models.User{}).
		Where("department_id = ? AND deleted_at IS NULL", deptUUID).Count(&userCount)
	if userCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Department has users",
			"message": "Cannot delete department that has assigned users",
		})
		return
	}

	dept.MarkDeleted(actorID(ctx))
	dept.Status = models.DepartmentStatusDeleted

	if err := db.Save(&dept).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete department",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Department deleted successfully",
	})
}

// GetDepartmentTree returns the department tree of an organization
// @Summary Get department tree
// @Description Get the full department tree of an organization ordered by path
// @Tags departments
// @Param organization_id query string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Department tree"
// @Failure 400 {object} map[string]string "Missing organization ID"
// @Router /departments/tree [get]
func GetDepartmentTree(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	orgUUID, err := uuid.Parse(ctx.Query("organization_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid organization ID format",
			"message": "organization_id query parameter is required",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var departments []models.Department
	if err := database.DB.
		Where("tenant_id = ? AND organization_id = ? AND deleted_at IS NULL", tenant, orgUUID).
		Order("path ASC").
		Find(&departments).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve departments",
			"message": err.Error(),
		})
		return
	}

	var items []DepartmentResponse
	for _, dept := range departments {
		items = append(items, toDepartmentResponse(dept))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
		},
	})
}
