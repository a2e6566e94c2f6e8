package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saasgrid-backend/notification-service/services"
	"saasgrid-backend/shared/database/models/notification"
	utils "saasgrid-backend/shared/utils/auth"
)

// @Summary WebSocket endpoint for real-time notifications
// @Description Upgrade to WebSocket. Authenticate with a JWT passed as the token query parameter.
// @Tags websocket
// @Param token query string true "JWT access token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} map[string]interface{}
// @Router /ws/notifications [get]
func HandleWebSocket(c *gin.Context) {
	// Browsers cannot set headers on WebSocket upgrades, so the token
	// travels as a query parameter
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Token required",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid or expired token",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	wsManager := services.GetWebSocketManager()
	wsManager.HandleWebSocketConnection(c, claims.UserID, claims.TenantID)
}

// SendMessageRequest pushes a message to connected clients without
// persisting a notification
type SendMessageRequest struct {
	UserID   string                       `json:"user_id,omitempty"`
	TenantID string                       `json:"tenant_id,omitempty"`
	Message  notification.WebSocketMessage `json:"message" binding:"required"`
}

// @Summary Send WebSocket message
// @Description Push a message to a user, a tenant, or everyone
// @Tags websocket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message to send"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /ws/send [post]
func SendWebSocketMessage(c *gin.Context) {
	var request SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if request.Message.Timestamp.IsZero() {
		request.Message.Timestamp = notification.GetCurrentTime()
	}

	wsManager := services.GetWebSocketManager()

	switch {
	case request.UserID != "":
		if err := wsManager.SendToUser(request.UserID, &request.Message); err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User is not connected",
				"code":    "NOT_FOUND",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "delivered": 1})
	case request.TenantID != "":
		delivered := wsManager.BroadcastToTenant(request.TenantID, &request.Message)
		c.JSON(http.StatusOK, gin.H{"success": true, "delivered": delivered})
	default:
		wsManager.BroadcastToAll(&request.Message)
		c.JSON(http.StatusOK, gin.H{"success": true, "delivered": wsManager.GetConnectionCount()})
	}
}

// @Summary Get WebSocket stats
// @Description Get currently connected users
// @Tags websocket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /ws/stats [get]
func GetWebSocketStats(c *gin.Context) {
	wsManager := services.GetWebSocketManager()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"connected_users": wsManager.GetConnectedUsers(),
			"connections":     wsManager.GetConnectionCount(),
		},
	})
}
