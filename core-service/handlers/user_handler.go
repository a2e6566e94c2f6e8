package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/clients"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/database/models/notification"
	utils "saasgrid-backend/shared/utils/auth"
	"saasgrid-backend/shared/utils/query"
	"saasgrid-backend/shared/utils/status"
	tenantutil "saasgrid-backend/shared/utils/tenant"
)

// UserResponse represents user data for API responses
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	DepartmentID   *uuid.UUID `json:"department_id"`
	RoleID         *uuid.UUID `json:"role_id"`
	Version        int64      `json:"version"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// CreateUserRequest represents request body for creating a user
type CreateUserRequest struct {
	Email          string     `json:"email" binding:"required"`
	Password       string     `json:"password" binding:"required,min=8"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          string     `json:"phone"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	DepartmentID   *uuid.UUID `json:"department_id"`
	RoleID         *uuid.UUID `json:"role_id"`
}

// UpdateUserRequest represents request body for updating a user
type UpdateUserRequest struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	DepartmentID   *uuid.UUID `json:"department_id"`
	RoleID         *uuid.UUID `json:"role_id"`
}

func toUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		TenantID:       user.TenantID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		Status:         user.Status,
		OrganizationID: user.OrganizationID,
		DepartmentID:   user.DepartmentID,
		RoleID:         user.RoleID,
		Version:        user.Version,
		CreatedAt:      user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GetUsers retrieves tenant users with pagination and filtering
// @Summary Get all users
// @Description Get tenant users with pagination, filtering, sorting and search
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across email and names"
// @Param filters[status] query string false "Filter by status"
// @Param filters[organization_id] query string false "Filter by organization ID"
// @Param filters[department_id] query string false "Filter by department ID"
// @Param filters[role_id] query string false "Filter by role ID"
// @Param sort[field] query string false "Sort field (email, first_name, last_name, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User list"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users [get]
func GetUsers(ctx *gin.Context) {
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
			"department_id":   "department_id",
			"role_id":         "role_id",
		},
		AllowedSortFields: map[string]string{
			"email":      "email",
			"first_name": "first_name",
			"last_name":  "last_name",
			"status":     "status",
			"created_at": "created_at",
			"updated_at": "updated_at",
		},
		SearchFields: []string{"email", "first_name", "last_name"},
	}

	dbQuery := query.ApplyTenantScope(db.Model(&models.User{}), tenant)
	dbQuery = query.Apply(dbQuery, params, opts)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to count users",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var users []models.User
	if err := dbQuery.Find(&users).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve users",
			"message": err.Error(),
		})
		return
	}

	var items []UserResponse
	for _, user := range users {
		items = append(items, toUserResponse(user))
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

// GetUser retrieves a single user by ID
// @Summary Get user by ID
// @Tags users
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func GetUser(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	userUUID, ok := parseIDParam(ctx, "user")
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.
		Preload("Organization").Preload("Department").Preload("Role").
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", userUUID, tenant).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User not found",
				"message": "User with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve user",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":         toUserResponse(user),
			"organization": user.Organization,
			"department":   user.Department,
			"role":         user.Role,
		},
	})
}

// CreateUser creates a new user
// @Summary Create a new user
// @Description Create a user in PENDING status; rejected when the tenant's user quota is reached
// @Tags users
// @Param user body CreateUserRequest true "User information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created user"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 422 {object} map[string]string "User quota exceeded"
// @Router /users [post]
func CreateUser(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	db := database.DB

	// Tenant must exist and carry a known plan for the quota check
	var tenantRecord models.Tenant
	if err := db.Preload("Settings").
		Where("id = ? AND deleted_at IS NULL", tenant).
		First(&tenantRecord).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Tenant not found",
			"message": "The tenant scope does not resolve to an existing tenant",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var maxUsers *int
	var maxStorageMB, maxAPICalls *int64
	if tenantRecord.Settings != nil {
		maxUsers = tenantRecord.Settings.MaxUsers
		maxStorageMB = tenantRecord.Settings.MaxStorageMB
		maxAPICalls = tenantRecord.Settings.MaxAPICallsPerDay
	}
	quota, quotaKnown := tenantutil.ResolveQuota(tenantRecord.Type, maxUsers, maxStorageMB, maxAPICalls)

	if quotaKnown {
		var userCount int64
		db.Model(&models.User{}).
			Where("tenant_id = ? AND deleted_at IS NULL", tenant).
			Count(&userCount)
		if userCount >= int64(quota.MaxUsers) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "User quota exceeded",
				"message": "The tenant's plan does not allow more users",
				"code":    "QUOTA_EXCEEDED",
			})
			return
		}
	}

	// Email is unique within the tenant
	var existingUser models.User
	if err := db.Where("tenant_id = ? AND email = ? AND deleted_at IS NULL", tenant, req.Email).
		First(&existingUser).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Email already exists",
			"message": "A user with this email already exists in this tenant",
			"code":    "DUPLICATE",
		})
		return
	}

	if req.OrganizationID != nil {
		var org models.Organization
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.OrganizationID, tenant).
			First(&org).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "The specified organization does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	if req.DepartmentID != nil {
		var dept models.Department
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.DepartmentID, tenant).
			First(&dept).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Department not found",
				"message": "The specified department does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	if req.RoleID != nil {
		var role models.Role
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.RoleID, tenant).
			First(&role).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Role not found",
				"message": "The specified role does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to hash password",
			"message": err.Error(),
		})
		return
	}

	user := models.User{
		TenantID:       tenant,
		Email:          req.Email,
		Password:       hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Status:         models.UserStatusPending,
		OrganizationID: req.OrganizationID,
		DepartmentID:   req.DepartmentID,
		RoleID:         req.RoleID,
		Info:           newAuditInfo(ctx),
	}

	if err := db.Create(&user).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create user",
			"message": err.Error(),
		})
		return
	}

	sendUserWelcome(user, tenantRecord)

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data":    toUserResponse(user),
	})
}

// sendUserWelcome emails the new user and notifies the tenant. Best effort.
func sendUserWelcome(user models.User, tenant models.Tenant) {
	nc := clients.NewNotificationClient()

	go func() {
		if err := nc.SendWelcomeEmail(clients.WelcomeEmailRequest{
			Email:      user.Email,
			Name:       user.FirstName + " " + user.LastName,
			TenantName: tenant.Name,
		}); err != nil {
			log.Printf("❌ Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()

	userID := user.ID
	tenantUUID := tenant.ID
	nc.NotifyAsync(clients.NotifyRequest{
		TenantID: &tenantUUID,
		Type:     "user_created",
		Level:    notification.NotificationLevelInfo,
		Title:    "New user added",
		Message:  user.FirstName + " " + user.LastName + " joined " + tenant.Name,
		Action:   "create",
		EntityID: &userID,
		Entity:   "user",
	})
}

// UpdateUser updates an existing user
// @Summary Update a user
// @Description Update user fields; status changes go through the transition table
// @Tags users
// @Param id path string true "User ID" format(uuid)
// @Param user body UpdateUserRequest true "Updated user information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /users/{id} [put]
func UpdateUser(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	userUUID, ok := parseIDParam(ctx, "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
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

	var user models.User
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", userUUID, tenant).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User not found",
				"message": "User with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve user",
			"message": err.Error(),
		})
		return
	}

	if req.Status != "" && req.Status != user.Status {
		if !status.CanUserTransition(user.Status, req.Status) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "Invalid status transition",
				"message": "Cannot move user from " + user.Status + " to " + req.Status,
				"code":    "INVALID_STATUS_TRANSITION",
			})
			return
		}
		user.Status = req.Status
	}

	if req.OrganizationID != nil {
		var org models.Organization
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.OrganizationID, tenant).
			First(&org).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Organization not found",
				"message": "The specified organization does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		user.OrganizationID = req.OrganizationID
	}

	if req.DepartmentID != nil {
		var dept models.Department
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.DepartmentID, tenant).
			First(&dept).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Department not found",
				"message": "The specified department does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		user.DepartmentID = req.DepartmentID
	}

	if req.RoleID != nil {
		var role models.Role
		if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", *req.RoleID, tenant).
			First(&role).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Role not found",
				"message": "The specified role does not exist in this tenant",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		user.RoleID = req.RoleID
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	user.Touch(actorID(ctx))

	if err := db.Save(&user).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update user",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    toUserResponse(user),
	})
}

// DeleteUser soft deletes a user
// @Summary Delete a user
// @Description Soft delete a user; DELETED is terminal
// @Tags users
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /users/{id} [delete]
func DeleteUser(ctx *gin.Context) {
	tenant, ok := tenantID(ctx)
	if !ok {
		return
	}
	userUUID, ok := parseIDParam(ctx, "user")
	if !ok {
		return
	}

	db := database.DB

	var user models.User
	if err := db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", userUUID, tenant).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User not found",
				"message": "User with the given ID does not exist",
				"code":    "NOT_FOUND",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve user",
			"message": err.Error(),
		})
		return
	}

	if !status.CanUserTransition(user.Status, models.UserStatusDeleted) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "Invalid status transition",
			"message": "Cannot delete user in status " + user.Status,
			"code":    "INVALID_STATUS_TRANSITION",
		})
		return
	}

	user.MarkDeleted(actorID(ctx))
	user.Status = models.UserStatusDeleted

	if err := db.Save(&user).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete user",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}
