package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/query"
)

// CreateActionRequest represents the request body for creating an action
type CreateActionRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// UpdateActionRequest represents the request body for updating an action
type UpdateActionRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// GetActions returns a list of all actions with pagination
// @Summary Get all actions
// @Description Get all actions with pagination, filtering, sorting, and search
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Results per page (default: 10)"
// @Param filters[name] query string false "Filter by name"
// @Param filters[slug] query string false "Filter by slug"
// @Param search query string false "Search term"
// @Success 200 {object} map[string]interface{} "List of actions"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /actions [get]
func GetActions(c *gin.Context) {
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

	baseQuery := db.Model(&models.Action{})
	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, searchFields)

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var actions []models.Action
	if err := finalQuery.Find(&actions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch actions",
			"message": err.Error(),
		})
		return
	}

	pagination := query.BuildPaginationResponse(params.Page, params.Limit, total)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      actions,
			"pagination": pagination,
		},
	})
}

// GetAction returns a single action by ID
// @Summary Get an action by ID
// @Description Get detailed information about a specific action
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Action details"
// @Failure 400 {object} map[string]interface{} "Invalid action ID format"
// @Failure 404 {object} map[string]interface{} "Action not found"
// @Router /actions/{id} [get]
func GetAction(c *gin.Context) {
	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid action ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var action models.Action
	if err := database.GetDB().First(&action, "id = ?", actionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Action not found",
			"message": "No action exists with the given ID",
			"code":    "NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    action,
	})
}

// CreateAction creates a new action
// @Summary Create a new action
// @Description Create a new action for permission grants
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param action body CreateActionRequest true "Action data"
// @Success 201 {object} map[string]interface{} "Created action"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Failure 409 {object} map[string]interface{} "Action with this slug already exists"
// @Router /actions [post]
func CreateAction(c *gin.Context) {
	var req CreateActionRequest
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

	var existingAction models.Action
	if err := database.GetDB().Where("slug = ?", req.Slug).First(&existingAction).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Action with this slug already exists",
			"message": "Slug must be unique",
			"code":    "DUPLICATE",
		})
		return
	}

	action := models.Action{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := database.GetDB().Create(&action).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create action",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Action created successfully",
		"data":    action,
	})
}

// UpdateAction updates an existing action
// @Summary Update an action
// @Description Update an existing action's details
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action ID" format(uuid)
// @Param action body UpdateActionRequest true "Updated action data"
// @Success 200 {object} map[string]interface{} "Updated action"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Failure 403 {object} map[string]interface{} "System action protected"
// @Failure 404 {object} map[string]interface{} "Action not found"
// @Failure 409 {object} map[string]interface{} "Action with this slug already exists"
// @Router /actions/{id} [put]
func UpdateAction(c *gin.Context) {
	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid action ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var action models.Action
	if err := database.GetDB().First(&action, "id = ?", actionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Action not found",
			"message": "No action exists with the given ID",
			"code":    "NOT_FOUND",
		})
		return
	}

	if action.IsSystem && (req.Name != "" || req.Slug != "") {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Cannot modify system action",
			"message": "System action name and slug cannot be modified",
			"code":    "PERMISSION_DENIED",
		})
		return
	}

	if req.Name != "" {
		action.Name = req.Name
	}
	if req.Slug != "" {
		var existingAction models.Action
		if err := database.GetDB().Where("slug = ? AND id != ?", req.Slug, actionID).First(&existingAction).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Action with this slug already exists",
				"message": "Slug must be unique",
				"code":    "DUPLICATE",
			})
			return
		}
		action.Slug = req.Slug
	}
	if req.Description != "" {
		action.Description = req.Description
	}

	if err := database.GetDB().Save(&action).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update action",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Action updated successfully",
		"data":    action,
	})
}

// DeleteAction deletes an action by ID
// @Summary Delete an action
// @Description Delete an action if it's not referenced by any permission
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]interface{} "Invalid action ID format"
// @Failure 403 {object} map[string]interface{} "System action protected"
// @Failure 404 {object} map[string]interface{} "Action not found"
// @Failure 409 {object} map[string]interface{} "Action is referenced by permissions"
// @Router /actions/{id} [delete]
func DeleteAction(c *gin.Context) {
	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid action ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var action models.Action
	if err := database.GetDB().First(&action, "id = ?", actionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Action not found",
			"message": "No action exists with the given ID",
			"code":    "NOT_FOUND",
		})
		return
	}

	if action.IsSystem {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Cannot delete system action",
			"message": "System actions are protected and cannot be deleted",
			"code":    "PERMISSION_DENIED",
		})
		return
	}

	var usageCount int64
	database.GetDB().Model(&models.PermissionAction{}).Where("action_id = ?", actionID).Count(&usageCount)
	if usageCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Cannot delete action",
			"message": "Action is referenced by existing permissions",
			"count":   usageCount,
		})
		return
	}

	if err := database.GetDB().Delete(&action).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete action",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Action deleted successfully",
	})
}
