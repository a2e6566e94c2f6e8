package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/clients"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/database/models/notification"
	auditinfo "saasgrid-backend/shared/utils/audit"
	utils "saasgrid-backend/shared/utils/auth"
	"saasgrid-backend/shared/utils/events"
	"saasgrid-backend/shared/utils/query"
	"saasgrid-backend/shared/utils/status"
	tenantutil "saasgrid-backend/shared/utils/tenant"
)

// TenantResponse represents tenant data for API responses
type TenantResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	ContactEmail string    `json:"contact_email"`
	Version      int64     `json:"version"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

// CreateTenantRequest represents request body for creating a tenant
type CreateTenantRequest struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Type         string `json:"type"`
	ContactEmail string `json:"contact_email"`
}

// UpdateTenantRequest represents request body for updating a tenant. Version
// is the caller's last-seen record version; updates against a stale version
// are rejected.
type UpdateTenantRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	ContactEmail string `json:"contact_email"`
	Version      *int64 `json:"version" binding:"required"`
}

// TenantQuotaResponse represents resolved limits plus current usage
type TenantQuotaResponse struct {
	Plan      string           `json:"plan"`
	Limits    tenantutil.Quota `json:"limits"`
	UserCount int64            `json:"user_count"`
}

func toTenantResponse(t models.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		Type:         t.Type,
		Status:       t.Status,
		ContactEmail: t.ContactEmail,
		Version:      t.Version,
		CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// actorID resolves the acting user from the X-User-ID header set by the
// gateway. Nil when the header is missing or malformed.
func actorID(ctx *gin.Context) *uuid.UUID {
	raw := ctx.GetHeader("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func eventStore() *events.Store {
	return events.NewStore(database.DB)
}

// notifyLifecycleChange emails the tenant contact and pushes an in-app
// notification. Best effort, failures are logged by the client.
func notifyLifecycleChange(tenant models.Tenant, fromStatus, toStatus string) {
	nc := clients.NewNotificationClient()

	if tenant.ContactEmail != "" {
		go func() {
			if err := nc.SendLifecycleEmail(clients.LifecycleEmailRequest{
				Email:      tenant.ContactEmail,
				TenantName: tenant.Name,
				FromStatus: fromStatus,
				ToStatus:   toStatus,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
			}); err != nil {
				log.Printf("❌ Failed to send lifecycle email for tenant %s: %v", tenant.Slug, err)
			}
		}()
	}

	tenantID := tenant.ID
	nc.NotifyAsync(clients.NotifyRequest{
		TenantID: &tenantID,
		Type:     "tenant_lifecycle",
		Level:    notification.NotificationLevelWarning,
		Title:    "Workspace status changed",
		Message:  tenant.Name + " moved from " + fromStatus + " to " + toStatus,
		Action:   "status_change",
		EntityID: &tenantID,
		Entity:   "tenant",
	})
}

// GetTenants retrieves all tenants with pagination and filtering
// @Summary Get all tenants
// @Description Get all tenants with pagination, filtering, sorting and search
// @Tags tenants
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and slug"
// @Param filters[status] query string false "Filter by status"
// @Param filters[type] query string false "Filter by plan type"
// @Param sort[field] query string false "Sort field (name, slug, status, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Tenant list"
// @Failure 500 {object} map[string]string "Server error"
// @Router /tenants [get]
func GetTenants(ctx *gin.Context) {
	db := database.DB

	params := query.ParseQueryParams(ctx)

	opts := query.Options{
		AllowedFilters: map[string]string{
			"status": "status",
			"type":   "type",
		},
		AllowedSortFields: map[string]string{
			"name":       "name",
			"slug":       "slug",
			"status":     "status",
			"type":       "type",
			"created_at": "created_at",
			"updated_at": "updated_at",
		},
		SearchFields: []string{"name", "slug"},
	}

	dbQuery := db.Model(&models.Tenant{}).Where("deleted_at IS NULL")
	dbQuery = query.Apply(dbQuery, params, opts)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to count tenants",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var tenants []models.Tenant
	if err := dbQuery.Find(&tenants).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve tenants",
			"message": err.Error(),
		})
		return
	}

	var items []TenantResponse
	for _, tenant := range tenants {
		items = append(items, toTenantResponse(tenant))
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

// GetTenant retrieves a single tenant by ID
// @Summary Get tenant by ID
// @Description Get detailed information about a specific tenant including settings
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Tenant data"
// @Failure 400 {object} map[string]string "Invalid tenant ID format"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{id} [get]
func GetTenant(ctx *gin.Context) {
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

	var tenant models.Tenant
	if err := database.DB.Preload("Settings").
		Where("id = ? AND deleted_at IS NULL", tenantUUID).
		First(&tenant).Error; err != nil {
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

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tenant":   toTenantResponse(tenant),
			"settings": tenant.Settings,
		},
	})
}

// CreateTenant creates a new tenant
// @Summary Create a new tenant
// @Description Create a new tenant in PENDING status
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body CreateTenantRequest true "Tenant information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created tenant"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /tenants [post]
func CreateTenant(ctx *gin.Context) {
	var req CreateTenantRequest
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

	if req.ContactEmail != "" {
		if err := utils.ValidateEmail(req.ContactEmail); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid contact email",
				"message": err.Error(),
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	if req.Type == "" {
		req.Type = models.TenantTypeFree
	}
	if !tenantutil.KnownPlan(req.Type) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Unknown plan type",
			"message": "Plan type must be one of FREE, BASIC, PROFESSIONAL, ENTERPRISE, CUSTOM",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	var existing models.Tenant
	if err := db.Where("slug = ? AND deleted_at IS NULL", req.Slug).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Slug already exists",
			"message": "A tenant with this slug already exists",
			"code":    "DUPLICATE",
		})
		return
	}

	actor := actorID(ctx)
	builder := auditinfo.NewBuilder()
	if actor != nil {
		builder = builder.WithCreatedBy(*actor)
	}

	tenant := models.Tenant{
		Name:         req.Name,
		Slug:         req.Slug,
		Type:         req.Type,
		Status:       models.TenantStatusPending,
		ContactEmail: req.ContactEmail,
		Info:         builder.Build(),
	}

	if err := db.Create(&tenant).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create tenant",
			"message": err.Error(),
		})
		return
	}

	eventStore().AppendAsync("tenant", events.StreamID("tenant", tenant.ID), &tenant.ID, events.Event{
		Type: "TenantCreated",
		Payload: gin.H{
			"name": tenant.Name,
			"slug": tenant.Slug,
			"type": tenant.Type,
		},
	})

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Tenant created successfully",
		"data":    toTenantResponse(tenant),
	})
}

// UpdateTenant updates an existing tenant with an optimistic version check
// @Summary Update a tenant
// @Description Update tenant fields; the request must carry the last-seen version
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Param tenant body UpdateTenantRequest true "Updated tenant information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated tenant"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 409 {object} map[string]string "Version conflict"
// @Router /tenants/{id} [put]
func UpdateTenant(ctx *gin.Context) {
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

	var req UpdateTenantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if req.Type != "" && !tenantutil.KnownPlan(req.Type) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Unknown plan type",
			"message": "Plan type must be one of FREE, BASIC, PROFESSIONAL, ENTERPRISE, CUSTOM",
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

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
		"version":    *req.Version + 1,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.ContactEmail != "" {
		updates["contact_email"] = req.ContactEmail
	}
	if actor := actorID(ctx); actor != nil {
		updates["updated_by"] = *actor
	}

	// The version predicate is the optimistic lock; a stale caller matches
	// zero rows.
	result := db.Model(&models.Tenant{}).
		Where("id = ? AND version = ? AND deleted_at IS NULL", tenantUUID, *req.Version).
		Updates(updates)
	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update tenant",
			"message": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Version conflict",
			"message": "Tenant was modified by another request, reload and retry",
			"code":    "CONCURRENCY_CONFLICT",
		})
		return
	}

	if err := db.Where("id = ?", tenantUUID).First(&tenant).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to reload tenant",
			"message": err.Error(),
		})
		return
	}

	eventStore().AppendAsync("tenant", events.StreamID("tenant", tenant.ID), &tenant.ID, events.Event{
		Type: "TenantUpdated",
		Payload: gin.H{
			"name": tenant.Name,
			"type": tenant.Type,
		},
	})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant updated successfully",
		"data":    toTenantResponse(tenant),
	})
}

// transitionTenant moves a tenant to the target status when the transition
// table allows it. The status predicate in the UPDATE keeps concurrent
// transitions from double-applying.
func transitionTenant(ctx *gin.Context, toStatus, eventType string) {
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

	if !status.CanTenantTransition(tenant.Status, toStatus) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "Invalid status transition",
			"message": "Cannot move tenant from " + tenant.Status + " to " + toStatus,
			"code":    "INVALID_STATUS_TRANSITION",
		})
		return
	}

	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now().UTC(),
		"version":    tenant.Version + 1,
	}
	if actor := actorID(ctx); actor != nil {
		updates["updated_by"] = *actor
	}

	result := db.Model(&models.Tenant{}).
		Where("id = ? AND status = ? AND deleted_at IS NULL", tenantUUID, tenant.Status).
		Updates(updates)
	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update tenant status",
			"message": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Version conflict",
			"message": "Tenant status changed concurrently, reload and retry",
			"code":    "CONCURRENCY_CONFLICT",
		})
		return
	}

	eventStore().AppendAsync("tenant", events.StreamID("tenant", tenant.ID), &tenant.ID, events.Event{
		Type: eventType,
		Payload: gin.H{
			"from": tenant.Status,
			"to":   toStatus,
		},
	})

	notifyLifecycleChange(tenant, tenant.Status, toStatus)

	tenant.Status = toStatus
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant status updated",
		"data":    toTenantResponse(tenant),
	})
}

// ActivateTenant moves a tenant to ACTIVE
// @Summary Activate a tenant
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /tenants/{id}/activate [post]
func ActivateTenant(ctx *gin.Context) {
	transitionTenant(ctx, models.TenantStatusActive, "TenantActivated")
}

// SuspendTenant moves a tenant to SUSPENDED
// @Summary Suspend a tenant
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /tenants/{id}/suspend [post]
func SuspendTenant(ctx *gin.Context) {
	transitionTenant(ctx, models.TenantStatusSuspended, "TenantSuspended")
}

// ArchiveTenant moves a tenant to ARCHIVED
// @Summary Archive a tenant
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /tenants/{id}/archive [post]
func ArchiveTenant(ctx *gin.Context) {
	transitionTenant(ctx, models.TenantStatusArchived, "TenantArchived")
}

// DeleteTenant soft deletes a tenant
// @Summary Delete a tenant
// @Description Soft delete a tenant; only allowed from PENDING or ARCHIVED status
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /tenants/{id} [delete]
func DeleteTenant(ctx *gin.Context) {
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

	if !status.CanTenantTransition(tenant.Status, models.TenantStatusDeleted) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "Invalid status transition",
			"message": "Cannot delete tenant in status " + tenant.Status,
			"code":    "INVALID_STATUS_TRANSITION",
		})
		return
	}

	actor := actorID(ctx)
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     models.TenantStatusDeleted,
		"deleted_at": now,
		"updated_at": now,
		"version":    tenant.Version + 1,
	}
	if actor != nil {
		updates["deleted_by"] = *actor
		updates["updated_by"] = *actor
	}

	result := db.Model(&models.Tenant{}).
		Where("id = ? AND version = ? AND deleted_at IS NULL", tenantUUID, tenant.Version).
		Updates(updates)
	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete tenant",
			"message": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Version conflict",
			"message": "Tenant was modified by another request, reload and retry",
			"code":    "CONCURRENCY_CONFLICT",
		})
		return
	}

	eventStore().AppendAsync("tenant", events.StreamID("tenant", tenant.ID), &tenant.ID, events.Event{
		Type: "TenantDeleted",
		Payload: gin.H{
			"from": tenant.Status,
		},
	})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant deleted successfully",
	})
}

// GetTenantQuota returns the resolved plan limits and current usage
// @Summary Get tenant quota
// @Description Get resolved plan limits (including CUSTOM overrides) and current usage
// @Tags tenants
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Quota data"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{id}/quota [get]
func GetTenantQuota(ctx *gin.Context) {
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
	if err := db.Preload("Settings").
		Where("id = ? AND deleted_at IS NULL", tenantUUID).
		First(&tenant).Error; err != nil {
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

	var maxUsers *int
	var maxStorageMB, maxAPICalls *int64
	if tenant.Settings != nil {
		maxUsers = tenant.Settings.MaxUsers
		maxStorageMB = tenant.Settings.MaxStorageMB
		maxAPICalls = tenant.Settings.MaxAPICallsPerDay
	}

	quota, ok := tenantutil.ResolveQuota(tenant.Type, maxUsers, maxStorageMB, maxAPICalls)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Unknown plan type",
			"message": "Tenant has an unrecognized plan type: " + tenant.Type,
		})
		return
	}

	var userCount int64
	db.Model(&models.User{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantUUID).
		Count(&userCount)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": TenantQuotaResponse{
			Plan:      tenant.Type,
			Limits:    quota,
			UserCount: userCount,
		},
	})
}
