package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/database/models/auth"
	"saasgrid-backend/shared/utils/query"
)

// SessionResponse represents a user session in the response
type SessionResponse struct {
	ID               uuid.UUID `json:"id"`
	DeviceInfo       string    `json:"device_info"`
	IPAddress        string    `json:"ip_address"`
	LastUsedAt       time.Time `json:"last_used_at"`
	CreatedAt        time.Time `json:"created_at"`
	IsCurrentSession bool      `json:"is_current_session"`
}

// LoginHistoryResponse represents a login history entry in the response
type LoginHistoryResponse struct {
	ID          uuid.UUID `json:"id"`
	IPAddress   string    `json:"ip_address"`
	DeviceInfo  string    `json:"device_info"`
	Successful  bool      `json:"successful"`
	FailureType string    `json:"failure_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListSessions lists all active sessions for the authenticated user
// @Summary List user sessions
// @Description Get all active sessions for the currently authenticated user
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Success 200 {object} map[string]interface{} "List of user sessions"
// @Failure 401 {object} map[string]interface{} "User not authenticated"
// @Router /auth/sessions [get]
func (h *AuthHandler) ListSessions(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	params := query.ParseQueryParams(c)

	allowedSortFields := map[string]string{
		"created_at":   "created_at",
		"last_used_at": "updated_at",
	}

	currentTokenHash, _ := c.Get("tokenHash")

	dbQuery := h.db.Model(&auth.UserSession{}).Where("user_id = ? AND is_active = ?", userID, true)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count sessions"})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var sessions []auth.UserSession
	if err := dbQuery.Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve sessions"})
		return
	}

	var response []SessionResponse
	for _, session := range sessions {
		isCurrentSession := currentTokenHash != nil && session.TokenHash == currentTokenHash.(string)

		response = append(response, SessionResponse{
			ID:               session.ID,
			DeviceInfo:       parseUserAgent(session.UserAgent),
			IPAddress:        session.IPAddress,
			LastUsedAt:       session.UpdatedAt,
			CreatedAt:        session.CreatedAt,
			IsCurrentSession: isCurrentSession,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      response,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

// TerminateSession terminates a specific session
// @Summary Terminate session
// @Description Terminate a specific user session by ID
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID to terminate"
// @Success 200 {object} map[string]interface{} "Session terminated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid session ID"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /auth/sessions/{id} [delete]
func (h *AuthHandler) TerminateSession(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	sessionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid session ID format",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	currentTokenHash, _ := c.Get("tokenHash")

	var session auth.UserSession
	if err := h.db.Where("id = ? AND user_id = ?", sessionUUID, userID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Session not found",
			"code":    "NOT_FOUND",
		})
		return
	}

	if currentTokenHash != nil && session.TokenHash == currentTokenHash.(string) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Cannot terminate the current session",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := h.db.Model(&auth.UserSession{}).
		Where("id = ? AND user_id = ?", sessionUUID, userID).
		Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to terminate session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session terminated successfully",
	})
}

// TerminateAllSessions terminates all sessions except the current one
// @Summary Terminate all sessions
// @Description Terminate all active sessions for the current user except the current session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "All other sessions terminated successfully"
// @Failure 401 {object} map[string]interface{} "User not authenticated"
// @Router /auth/sessions/terminate-all [post]
func (h *AuthHandler) TerminateAllSessions(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	currentTokenHash, _ := c.Get("tokenHash")

	if err := h.db.Model(&auth.UserSession{}).
		Where("user_id = ? AND token_hash != ? AND is_active = ?", userID, currentTokenHash, true).
		Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to terminate sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All other sessions terminated successfully",
	})
}

// GetLoginHistory retrieves the login history for the authenticated user
// @Summary Get login history
// @Description Get login history for the currently authenticated user
// @Tags auth-security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[successful] query boolean false "Filter by login success"
// @Param filters[from_date] query string false "Filter by date from (YYYY-MM-DD)"
// @Param filters[to_date] query string false "Filter by date to (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "Login history list"
// @Failure 401 {object} map[string]interface{} "User not authenticated"
// @Router /auth/login-history [get]
func (h *AuthHandler) GetLoginHistory(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"successful": "successful",
	}

	allowedSortFields := map[string]string{
		"created_at": "created_at",
		"successful": "successful",
	}

	userEmail := getUserEmail(h.db, userID.(uuid.UUID))
	if userEmail == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get user email"})
		return
	}

	dbQuery := h.db.Model(&auth.LoginAttempt{}).Where("email = ?", userEmail)

	// Date range filters need comparisons, not equality
	if fromDate := c.Query("filters[from_date]"); fromDate != "" {
		if parsedFromDate, err := time.Parse("2006-01-02", fromDate); err == nil {
			dbQuery = dbQuery.Where("created_at >= ?", parsedFromDate)
		}
	}
	if toDate := c.Query("filters[to_date]"); toDate != "" {
		if parsedToDate, err := time.Parse("2006-01-02", toDate); err == nil {
			parsedToDate = parsedToDate.AddDate(0, 0, 1)
			dbQuery = dbQuery.Where("created_at < ?", parsedToDate)
		}
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count login history"})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var loginAttempts []auth.LoginAttempt
	if err := dbQuery.Find(&loginAttempts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve login history"})
		return
	}

	var response []LoginHistoryResponse
	for _, attempt := range loginAttempts {
		response = append(response, LoginHistoryResponse{
			ID:          attempt.ID,
			IPAddress:   attempt.IPAddress,
			DeviceInfo:  parseUserAgent(attempt.UserAgent),
			Successful:  attempt.Successful,
			FailureType: attempt.FailureType,
			CreatedAt:   attempt.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      response,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

// parseUserAgent extracts coarse device info from a user agent string
func parseUserAgent(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	if strings.Contains(userAgent, "iPhone") || strings.Contains(userAgent, "iPad") {
		return "iOS Device"
	} else if strings.Contains(userAgent, "Android") {
		return "Android Device"
	} else if strings.Contains(userAgent, "Windows") {
		return "Windows"
	} else if strings.Contains(userAgent, "Mac") {
		return "MacOS"
	} else if strings.Contains(userAgent, "Linux") {
		return "Linux"
	}

	return "Other"
}

func getUserEmail(db *gorm.DB, userID uuid.UUID) string {
	var user models.User
	if err := db.Select("email").Where("id = ?", userID).First(&user).Error; err != nil {
		return ""
	}
	return user.Email
}
