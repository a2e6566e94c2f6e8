package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
)

// UpdateTenantSettingsRequest represents request body for tenant settings
type UpdateTenantSettingsRequest struct {
	MaxUsers          *int        `json:"max_users"`
	MaxStorageMB      *int64      `json:"max_storage_mb"`
	MaxAPICallsPerDay *int64      `json:"max_api_calls_per_day"`
	Features          interface{} `json:"features"`
	Locale            string      `json:"locale"`
	Timezone          string      `json:"timezone"`
}

// GetTenantSettings retrieves settings for a tenant
// @Summary Get tenant settings
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Tenant settings"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{id}/settings [get]
func GetTenantSettings(ctx *gin.Context) {
	tenantUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid tenant ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	if err := requireTenant(ctx, db, tenantUUID); err != nil {
		return
	}

	var settings models.TenantSettings
	if err := db.Where("tenant_id = ?", tenantUUID).First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// No overrides saved yet, return defaults
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": models.TenantSettings{
					TenantID: tenantUUID,
					Locale:   "en-US",
					Timezone: "UTC",
				},
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve tenant settings",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UpdateTenantSettings creates or updates settings for a tenant
// @Summary Update tenant settings
// @Description Upsert feature flags, CUSTOM quota overrides and locale defaults
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Param settings body UpdateTenantSettingsRequest true "Settings"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated settings"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{id}/settings [put]
func UpdateTenantSettings(ctx *gin.Context) {
	tenantUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid tenant ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req UpdateTenantSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if (req.MaxUsers != nil && *req.MaxUsers < 0) ||
		(req.MaxStorageMB != nil && *req.MaxStorageMB < 0) ||
		(req.MaxAPICallsPerDay != nil && *req.MaxAPICallsPerDay < 0) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid quota override",
			"message": "Quota overrides must not be negative",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	if err := requireTenant(ctx, db, tenantUUID); err != nil {
		return
	}

	var settings models.TenantSettings
	err = db.Where("tenant_id = ?", tenantUUID).First(&settings).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve tenant settings",
			"message": err.Error(),
		})
		return
	}

	settings.TenantID = tenantUUID
	if req.MaxUsers != nil {
		settings.MaxUsers = req.MaxUsers
	}
	if req.MaxStorageMB != nil {
		settings.MaxStorageMB = req.MaxStorageMB
	}
	if req.MaxAPICallsPerDay != nil {
		settings.MaxAPICallsPerDay = req.MaxAPICallsPerDay
	}
	if req.Features != nil {
		settings.Features = req.Features
	}
	if req.Locale != "" {
		settings.Locale = req.Locale
	}
	if req.Timezone != "" {
		settings.Timezone = req.Timezone
	}

	if err := db.Save(&settings).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to save tenant settings",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant settings updated successfully",
		"data":    settings,
	})
}

// requireTenant loads the tenant or writes the error response. Returns a
// non-nil error when the response was already written.
func requireTenant(ctx *gin.Context, db *gorm.DB, tenantUUID uuid.UUID) error {
	var tenant models.Tenant
	if err := db.Where("id = ? AND deleted_at IS NULL", tenantUUID).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Tenant not found",
				"message": "Tenant with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return err
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve tenant",
			"message": err.Error(),
		})
		return err
	}
	return nil
}
