package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saasgrid-backend/notification-service/services"
	"saasgrid-backend/shared/config"
)

// EmailHandler handles email related HTTP requests
type EmailHandler struct {
	emailService *services.EmailService
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(cfg *config.Config) *EmailHandler {
	return &EmailHandler{
		emailService: services.NewEmailService(cfg),
	}
}

// WelcomeEmailRequest greets a newly created user
type WelcomeEmailRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	TenantName string `json:"tenant_name" binding:"required"`
}

// LifecycleEmailRequest informs a tenant contact about a status change
type LifecycleEmailRequest struct {
	Email      string `json:"email" binding:"required,email"`
	TenantName string `json:"tenant_name" binding:"required"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status" binding:"required"`
	Timestamp  string `json:"timestamp"`
}

// @Summary Send email
// @Description Send an email immediately, optionally rendered from a template
// @Tags emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email body services.EmailRequest true "Email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/email/send [post]
func (eh *EmailHandler) SendEmail(c *gin.Context) {
	var request services.EmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	response, err := eh.emailService.SendEmail(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send email",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Send welcome email
// @Description Send a welcome email to a newly created user
// @Tags emails
// @Accept json
// @Produce json
// @Param request body WelcomeEmailRequest true "Welcome email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/email/welcome [post]
func (eh *EmailHandler) SendWelcomeEmail(c *gin.Context) {
	var request WelcomeEmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	response, err := eh.emailService.SendWelcomeEmail(request.Email, request.Name, request.TenantName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send welcome email",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Send tenant lifecycle email
// @Description Send a status change email to the tenant contact
// @Tags emails
// @Accept json
// @Produce json
// @Param request body LifecycleEmailRequest true "Lifecycle email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/email/lifecycle [post]
func (eh *EmailHandler) SendLifecycleEmail(c *gin.Context) {
	var request LifecycleEmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	response, err := eh.emailService.SendTenantLifecycleEmail(request.Email, request.TenantName, request.ToStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send lifecycle email",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
