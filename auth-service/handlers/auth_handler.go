package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/database/models/auth"
	utils "saasgrid-backend/shared/utils/auth"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Login Request/Response structs
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required" example:"acme"`
	Email      string `json:"email" binding:"required,email" example:"admin@acme.com"`
	Password   string `json:"password" binding:"required" example:"admin123"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	User         UserInfo  `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserInfo struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	RoleID         *uuid.UUID `json:"role_id,omitempty"`
	RoleName       string     `json:"role_name,omitempty"`
	Status         string     `json:"status"`
}

// Refresh Request struct
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh Response struct
type RefreshResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Validate Request struct
type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

// Validate Response struct
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	TenantID  uuid.UUID `json:"tenant_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// POST /api/auth/login
// @Summary User login
// @Description Authenticate a user within a tenant and return JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Failure 429 {object} map[string]interface{} "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	clientIP := c.ClientIP()
	if h.isRateLimited(req.Email, clientIP) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "Too many login attempts. Please try again later.",
		})
		return
	}

	// Resolve the tenant first, credentials only exist within one
	var tenant models.Tenant
	if err := h.db.Where("slug = ? AND deleted_at IS NULL", req.TenantSlug).First(&tenant).Error; err != nil {
		h.recordFailedLogin(req.Email, clientIP, "tenant_not_found")
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid credentials",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	if tenant.Status != models.TenantStatusActive {
		h.recordFailedLogin(req.Email, clientIP, "tenant_inactive")
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Tenant is not active",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	var user models.User
	if err := h.db.Preload("Organization").Preload("Role").
		Where("tenant_id = ? AND email = ? AND deleted_at IS NULL", tenant.ID, req.Email).
		First(&user).Error; err != nil {
		h.recordFailedLogin(req.Email, clientIP, "user_not_found")
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid credentials",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	if user.Status != models.UserStatusActive {
		h.recordFailedLogin(req.Email, clientIP, "account_inactive")
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Account is inactive",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		h.recordFailedLogin(req.Email, clientIP, "wrong_password")
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid credentials",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.TenantID, user.OrganizationID, user.RoleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshJWT(user.ID, user.Email, user.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate refresh token"})
		return
	}

	sessionID, _ := utils.GenerateSessionID()
	expireDuration := utils.GetJWTExpireDuration()
	userSession := auth.UserSession{
		UserID:       user.ID,
		TenantID:     user.TenantID,
		SessionID:    sessionID,
		TokenHash:    utils.HashToken(token),
		RefreshToken: utils.HashToken(refreshToken),
		IPAddress:    clientIP,
		UserAgent:    c.GetHeader("User-Agent"),
		ExpiresAt:    time.Now().Add(expireDuration),
		IsActive:     true,
	}

	if err := h.db.Create(&userSession).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not create session"})
		return
	}

	h.recordSuccessfulLogin(user.Email, clientIP)

	var roleName string
	if user.Role != nil {
		roleName = user.Role.Name
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(expireDuration),
		User: UserInfo{
			ID:             user.ID,
			TenantID:       user.TenantID,
			Email:          user.Email,
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			OrganizationID: user.OrganizationID,
			RoleID:         user.RoleID,
			RoleName:       roleName,
			Status:         user.Status,
		},
	})
}

// POST /api/auth/logout
// @Summary User logout
// @Description Logout the currently authenticated user and revoke the token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Logged out successfully"
// @Failure 400 {object} map[string]interface{} "Token required"
// @Failure 401 {object} map[string]interface{} "Invalid token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Token required",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid token",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	userID, _ := uuid.Parse(claims.UserID)
	tokenHash := utils.HashToken(tokenString)

	// Revoke immediately, sessions alone expire too slowly
	var existingToken auth.BlacklistedToken
	if err := h.db.Where("user_id = ? AND token_hash = ?", userID, tokenHash).First(&existingToken).Error; err != nil {
		blacklistedToken := auth.BlacklistedToken{
			UserID:        userID,
			TokenHash:     tokenHash,
			ExpiresAt:     claims.ExpiresAt.Time,
			BlacklistedAt: time.Now(),
			Reason:        "logout",
		}
		if err := h.db.Create(&blacklistedToken).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not logout"})
			return
		}
	}

	if err := h.db.Model(&auth.UserSession{}).
		Where("user_id = ? AND token_hash = ? AND is_active = ?", userID, tokenHash, true).
		Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// POST /api/auth/refresh
// @Summary Refresh JWT token
// @Description Exchange a valid refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} handlers.RefreshResponse "Successfully refreshed tokens"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Failure 401 {object} map[string]interface{} "Invalid refresh token or user inactive"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	claims, err := utils.ValidateJWT(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid refresh token",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	userID, _ := uuid.Parse(claims.UserID)
	var userSession auth.UserSession
	if err := h.db.Where("user_id = ? AND refresh_token = ? AND is_active = ?",
		userID, utils.HashToken(req.RefreshToken), true).First(&userSession).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Refresh token not found or expired",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	var user models.User
	if err := h.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not found",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	if user.Status != models.UserStatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Account is inactive",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	// A suspended tenant takes its users' sessions down with it
	var tenant models.Tenant
	if err := h.db.Where("id = ? AND deleted_at IS NULL", user.TenantID).First(&tenant).Error; err != nil ||
		tenant.Status != models.TenantStatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Tenant is not active",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	newToken, err := utils.GenerateJWT(user.ID, user.Email, user.TenantID, user.OrganizationID, user.RoleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate token"})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshJWT(user.ID, user.Email, user.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate refresh token"})
		return
	}

	expireDuration := utils.GetJWTExpireDuration()
	now := time.Now()
	userSession.TokenHash = utils.HashToken(newToken)
	userSession.RefreshToken = utils.HashToken(newRefreshToken)
	userSession.ExpiresAt = now.Add(expireDuration)
	userSession.LastUsedAt = &now
	userSession.UpdatedAt = now

	if err := h.db.Save(&userSession).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not update session"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Token:        newToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(expireDuration),
	})
}

// POST /api/auth/validate
// @Summary Validate JWT token
// @Description Validate a JWT token against blacklist and active sessions
// @Tags auth
// @Accept json
// @Produce json
// @Param validate body ValidateRequest true "JWT token to validate"
// @Success 200 {object} handlers.ValidateResponse "Token validation result"
// @Failure 400 {object} map[string]interface{} "Invalid request format"
// @Router /auth/validate [post]
func (h *AuthHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	claims, err := utils.ValidateJWT(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	if claims.ExpiresAt.Time.Before(time.Now()) {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	userID, _ := uuid.Parse(claims.UserID)
	tenantID, _ := uuid.Parse(claims.TenantID)
	tokenHash := utils.HashToken(req.Token)

	var blacklistedToken auth.BlacklistedToken
	if err := h.db.Where("user_id = ? AND token_hash = ?", userID, tokenHash).First(&blacklistedToken).Error; err == nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	var userSession auth.UserSession
	if err := h.db.Where("user_id = ? AND token_hash = ? AND is_active = ?",
		userID, tokenHash, true).First(&userSession).Error; err != nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Valid:     true,
		UserID:    userID,
		TenantID:  tenantID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// GET /api/auth/me
// @Summary Current user
// @Description Return the profile of the authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserInfo "Current user"
// @Failure 401 {object} map[string]interface{} "Invalid token"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	tokenString := bearerToken(c)
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
			"error":   "Invalid token",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	userID, _ := uuid.Parse(claims.UserID)

	var user models.User
	if err := h.db.Preload("Organization").Preload("Department").Preload("Role").
		Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not found",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	var roleName string
	if user.Role != nil {
		roleName = user.Role.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": UserInfo{
			ID:             user.ID,
			TenantID:       user.TenantID,
			Email:          user.Email,
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			OrganizationID: user.OrganizationID,
			RoleID:         user.RoleID,
			RoleName:       roleName,
			Status:         user.Status,
		},
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// Rate limiting helpers backed by the login_attempts table

func (h *AuthHandler) isRateLimited(email, ipAddress string) bool {
	cfg := config.GetConfig()
	window := time.Duration(cfg.GetLoginRateLimitWindowSeconds()) * time.Second

	var count int64
	h.db.Model(&auth.LoginAttempt{}).
		Where("(email = ? OR ip_address = ?) AND successful = ? AND created_at > ?",
			email, ipAddress, false, time.Now().Add(-window)).
		Count(&count)

	return count >= int64(cfg.GetLoginRateLimitMaxAttempts())
}

func (h *AuthHandler) recordFailedLogin(email, ipAddress, failureType string) {
	cfg := config.GetConfig()
	now := time.Now()

	attempt := auth.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		Successful:  false,
		FailureType: failureType,
		Attempts:    1,
		LastAttempt: now,
	}

	// Stamp the block window once the attempt budget is spent
	var failures int64
	window := time.Duration(cfg.GetLoginRateLimitWindowSeconds()) * time.Second
	h.db.Model(&auth.LoginAttempt{}).
		Where("(email = ? OR ip_address = ?) AND successful = ? AND created_at > ?",
			email, ipAddress, false, now.Add(-window)).
		Count(&failures)
	if failures+1 >= int64(cfg.GetLoginRateLimitMaxAttempts()) {
		blockedUntil := now.Add(time.Duration(cfg.GetLoginRateLimitBlockMinutes()) * time.Minute)
		attempt.BlockedUntil = &blockedUntil
	}

	h.db.Create(&attempt)
}

func (h *AuthHandler) recordSuccessfulLogin(email, ipAddress string) {
	attempt := auth.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		Successful:  true,
		Attempts:    1,
		LastAttempt: time.Now(),
	}
	h.db.Create(&attempt)
}
