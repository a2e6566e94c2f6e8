package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/query"
)

// CreateResourceRequest represents the request body for creating a resource
type CreateResourceRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// UpdateResourceRequest represents the request body for updating a resource
type UpdateResourceRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// GetResources returns a list of all resources with pagination
// @Summary Get all resources
// @Description Get all resources with pagination, filtering, sorting, and search
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Results per page (default: 10)"
// @Param filters[name] query string false "Filter by name"
// @Param filters[slug] query string false "Filter by slug"
// @Param sort[field] query string false "Sort field (name, slug, created_at, updated_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Param search query string false "Search term"
// @Success 200 {object} map[string]interface{} "List of resources"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /resources [get]
func GetResources(c *gin.Context) {
	db := database.GetDB()

	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"name": "name",
		"slug": "slug",
	}

	allowedSortFields := map[string]string{
		"name":       "name",
		"slug":       "slug",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}

	searchFields := []string{"name", "slug", "description"}

	baseQuery := db.Model(&models.Resource{})
	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, searchFields)

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var resources []models.Resource
	if err := finalQuery.Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch resources",
			"message": err.Error(),
		})
		return
	}

	pagination := query.BuildPaginationResponse(params.Page, params.Limit, total)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      resources,
			"pagination": pagination,
		},
	})
}

// GetResource returns a single resource by ID
// @Summary Get a resource by ID
// @Description Get detailed information about a specific resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Resource details"
// @Failure 400 {object} map[string]interface{} "Invalid resource ID format"
// @Failure 404 {object} map[string]interface{} "Resource not found"
// @Router /resources/{id} [get]
func GetResource(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid resource ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var resource models.Resource
	if err := database.GetDB().First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Resource not found",
			"message": "No resource exists with the given ID",
			"code":    "NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resource,
	})
}

// CreateResource creates a new resource
// @Summary Create a new resource
// @Description Create a new resource for permission grants
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource body CreateResourceRequest true "Resource data"
// @Success 201 {object} map[string]interface{} "Created resource"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Failure 409 {object} map[string]interface{} "Resource with this slug already exists"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /resources [post]
func CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if req.Slug == "" {
		req.Slug = generateSlug(req.Name)
	}

	var existingResource models.Resource
	if err := database.GetDB().Where("slug = ?", req.Slug).First(&existingResource).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Resource with this slug already exists",
			"message": "Slug must be unique",
			"code":    "DUPLICATE",
		})
		return
	}

	resource := models.Resource{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := database.GetDB().Create(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create resource",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Resource created successfully",
		"data":    resource,
	})
}

// UpdateResource updates an existing resource
// @Summary Update a resource
// @Description Update an existing resource's details
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID" format(uuid)
// @Param resource body UpdateResourceRequest true "Updated resource data"
// @Success 200 {object} map[string]interface{} "Updated resource"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Failure 403 {object} map[string]interface{} "System resource protected"
// @Failure 404 {object} map[string]interface{} "Resource not found"
// @Failure 409 {object} map[string]interface{} "Resource with this slug already exists"
// @Router /resources/{id} [put]
func UpdateResource(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid resource ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var resource models.Resource
	if err := database.GetDB().First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Resource not found",
			"message": "No resource exists with the given ID",
			"code":    "NOT_FOUND",
		})
		return
	}

	// System resources can only have their description updated
	if resource.IsSystem && (req.Name != "" || req.Slug != "") {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Cannot modify system resource",
			"message": "System resource name and slug cannot be modified",
			"code":    "PERMISSION_DENIED",
		})
		return
	}

	if req.Name != "" {
		resource.Name = req.Name
	}
	if req.Slug != "" {
		var existingResource models.Resource
		if err := database.GetDB().Where("slug = ? AND id != ?", req.Slug, resourceID).First(&existingResource).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Resource with this slug already exists",
				"message": "Slug must be unique",
				"code":    "DUPLICATE",
			})
			return
		}
		resource.Slug = req.Slug
	}
	if req.Description != "" {
		resource.Description = req.Description
	}

	if err := database.GetDB().Save(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update resource",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resource updated successfully",
		"data":    resource,
	})
}

// DeleteResource deletes a resource by ID
// @Summary Delete a resource
// @Description Delete a resource if it's not referenced by any permission
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]interface{} "Invalid resource ID format"
// @Failure 403 {object} map[string]interface{} "System resource protected"
// @Failure 404 {object} map[string]interface{} "Resource not found"
// @Failure 409 {object} map[string]interface{} "Resource is referenced by permissions"
// @Router /resources/{id} [delete]
func DeleteResource(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid resource ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var resource models.Resource
	if err := database.GetDB().First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Resource not found",
			"message": "No resource exists with the given ID",
			"code":    "NOT_FOUND",
		})
		return
	}

	if resource.IsSystem {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Cannot delete system resource",
			"message": "System resources are protected and cannot be deleted",
			"code":    "PERMISSION_DENIED",
		})
		return
	}

	var permissionCount int64
	database.GetDB().Model(&models.Permission{}).Where("resource_id = ?", resourceID).Count(&permissionCount)
	if permissionCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Cannot delete resource",
			"message": "Resource is referenced by existing permissions",
			"count":   permissionCount,
		})
		return
	}

	if err := database.GetDB().Delete(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete resource",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resource deleted successfully",
	})
}

// generateSlug creates a URL-friendly slug from a name
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	return slug
}
