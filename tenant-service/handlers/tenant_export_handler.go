package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/events"
	"saasgrid-backend/shared/utils/export"
)

// BuildTenantSnapshot collects a tenant's aggregate data into an export
// snapshot. Soft-deleted rows are excluded. Shared with cmd/export.
func BuildTenantSnapshot(db *gorm.DB, tenant models.Tenant) (export.Snapshot, error) {
	var organizations []models.Organization
	if err := db.Where("tenant_id = ? AND deleted_at IS NULL", tenant.ID).Find(&organizations).Error; err != nil {
		return export.Snapshot{}, err
	}

	var departments []models.Department
	if err := db.Where("tenant_id = ? AND deleted_at IS NULL", tenant.ID).Find(&departments).Error; err != nil {
		return export.Snapshot{}, err
	}

	var users []models.User
	if err := db.Where("tenant_id = ? AND deleted_at IS NULL", tenant.ID).Find(&users).Error; err != nil {
		return export.Snapshot{}, err
	}

	var roles []models.Role
	if err := db.Where("tenant_id = ? AND deleted_at IS NULL", tenant.ID).Find(&roles).Error; err != nil {
		return export.Snapshot{}, err
	}

	var settings *models.TenantSettings
	var loaded models.TenantSettings
	if err := db.Where("tenant_id = ?", tenant.ID).First(&loaded).Error; err == nil {
		settings = &loaded
	}

	return export.Snapshot{
		TenantID:    tenant.ID.String(),
		TenantSlug:  tenant.Slug,
		GeneratedAt: time.Now().UTC(),
		Sections: map[string]interface{}{
			"tenant":        tenant,
			"settings":      settings,
			"organizations": organizations,
			"departments":   departments,
			"users":         users,
			"roles":         roles,
		},
	}, nil
}

// ExportTenant snapshots a tenant's data to object storage
// @Summary Export tenant data
// @Description Snapshot tenant aggregate data to object storage and return the object key
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Export object key"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Export failed"
// @Router /tenants/{id}/export [post]
func ExportTenant(ctx *gin.Context) {
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

	var tenant models.Tenant
	if err := db.Where("id = ? AND deleted_at IS NULL", tenantUUID).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Tenant not found",
				"message": "Tenant with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve tenant",
			"message": err.Error(),
		})
		return
	}

	snapshot, err := BuildTenantSnapshot(db, tenant)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to collect tenant data",
			"message": err.Error(),
		})
		return
	}

	archiver, err := export.NewArchiver()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Export storage unavailable",
			"message": err.Error(),
		})
		return
	}

	key, err := archiver.WriteSnapshot(ctx.Request.Context(), snapshot)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to write export",
			"message": err.Error(),
		})
		return
	}

	eventStore().AppendAsync("tenant", events.StreamID("tenant", tenant.ID), &tenant.ID, events.Event{
		Type: "TenantExported",
		Payload: gin.H{
			"object_key": key,
		},
	})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant export written",
		"data": gin.H{
			"object_key": key,
		},
	})
}

// ListTenantExports lists export objects for a tenant with download URLs
// @Summary List tenant exports
// @Description List export object keys with presigned download URLs
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Export list"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{id}/exports [get]
func ListTenantExports(ctx *gin.Context) {
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

	var tenant models.Tenant
	if err := db.Where("id = ? AND deleted_at IS NULL", tenantUUID).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Tenant not found",
				"message": "Tenant with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve tenant",
			"message": err.Error(),
		})
		return
	}

	archiver, err := export.NewArchiver()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Export storage unavailable",
			"message": err.Error(),
		})
		return
	}

	keys, err := archiver.ListExports(ctx.Request.Context(), tenant.Slug)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to list exports",
			"message": err.Error(),
		})
		return
	}

	type exportItem struct {
		Key         string `json:"key"`
		DownloadURL string `json:"download_url"`
	}

	var items []exportItem
	for _, key := range keys {
		url, err := archiver.PresignDownload(ctx.Request.Context(), key, 15*time.Minute)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to presign export download",
				"message": err.Error(),
			})
			return
		}
		items = append(items, exportItem{Key: key, DownloadURL: url})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
		},
	})
}
