package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saasgrid-backend/notification-service/services"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models/notification"
	"saasgrid-backend/shared/utils/query"
)

// @Summary Get notifications
// @Description Get notifications, optionally scoped by tenant and user
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Results per page (default: 10)"
// @Param filters[user_id] query string false "Filter by user ID"
// @Param filters[is_read] query boolean false "Filter by read state"
// @Param filters[level] query string false "Filter by level"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications [get]
func GetNotifications(c *gin.Context) {
	db := database.GetDB()

	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"user_id": "user_id",
		"is_read": "is_read",
		"level":   "level",
		"type":    "type",
	}

	allowedSortFields := map[string]string{
		"created_at": "created_at",
		"level":      "level",
	}

	dbQuery := db.Model(&notification.Notification{})

	// Tenant scope comes from the gateway header when present
	if header := c.GetHeader("X-Tenant-ID"); header != "" {
		tenantID, err := uuid.Parse(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid tenant scope",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		dbQuery = dbQuery.Where("tenant_id = ?", tenantID)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	dbQuery.Count(&total)

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var notifications []notification.Notification
	if err := dbQuery.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      notifications,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

// @Summary Get notification by ID
// @Description Get a specific notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id} [get]
func GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid notification ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var notif notification.Notification
	if err := database.GetDB().First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Notification not found",
			"code":    "NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": notif})
}

// @Summary Create notification
// @Description Create a notification and push it to connected clients
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body notification.Notification true "Notification data"
// @Success 201 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications [post]
func CreateNotification(c *gin.Context) {
	var notif notification.Notification

	if err := c.ShouldBindJSON(&notif); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if notif.Title == "" || notif.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Title and message are required",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if notif.Level == "" {
		notif.Level = notification.NotificationLevelInfo
	}

	db := database.GetDB()
	if err := db.Create(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create notification"})
		return
	}

	pushNotification(&notif)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": notif})
}

// pushNotification fans a stored notification out over WebSocket. A user
// target wins over a tenant target, no target means platform broadcast.
func pushNotification(notif *notification.Notification) {
	wsManager := services.GetWebSocketManager()

	message := &notification.WebSocketMessage{
		Type:      notif.Type,
		Level:     notif.Level,
		Title:     notif.Title,
		Message:   notif.Message,
		Timestamp: notification.GetCurrentTime(),
		Action:    notif.Action,
		EntityID:  notif.EntityID,
		Entity:    notif.Entity,
		TenantID:  notif.TenantID,
		UserID:    notif.UserID,
		Data:      notif.Data,
	}

	switch {
	case notif.UserID != nil:
		wsManager.SendToUser(notif.UserID.String(), message)
	case notif.TenantID != nil:
		wsManager.BroadcastToTenant(notif.TenantID.String(), message)
	default:
		wsManager.BroadcastToAll(message)
	}
}

// @Summary Mark notification as read
// @Description Mark a notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id}/read [put]
func MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid notification ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.GetDB()

	var notif notification.Notification
	if err := db.First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Notification not found",
			"code":    "NOT_FOUND",
		})
		return
	}

	now := time.Now().UTC()
	notif.IsRead = true
	notif.ReadAt = &now
	if err := db.Save(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": notif})
}

// @Summary Mark all notifications as read
// @Description Mark all unread notifications of a user as read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID" format(uuid)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /notifications/user/{user_id}/read-all [put]
func MarkAllAsRead(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid user ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	now := time.Now().UTC()
	result := database.GetDB().Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": result.RowsAffected,
	})
}

// @Summary Delete notification
// @Description Delete a notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Router /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid notification ID",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := database.GetDB().Delete(&notification.Notification{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
