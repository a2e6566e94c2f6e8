package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models/audit"
	"saasgrid-backend/shared/database/models/notification"
)

// UnifiedResponse is the envelope every gateway response is wrapped in
type UnifiedResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID     string `json:"request_id"`
	Timestamp     string `json:"timestamp"`
	ExecutionTime string `json:"execution_time"`
	Method        string `json:"method"`
	Path          string `json:"path"`
}

// responseWriter wraps gin.ResponseWriter to capture the proxied response
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// UnifiedResponseMiddleware transforms all service responses to the unified
// format and records an audit log entry per request
func UnifiedResponseMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		if shouldSkipUnifiedResponse(c) {
			defer func() {
				executionTime := time.Since(startTime)
				statusCode := c.Writer.Status()
				if statusCode == 0 {
					statusCode = http.StatusOK
				}
				go saveAuditLogAsync(c, statusCode, requestID, executionTime)
			}()
			c.Next()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			status:         http.StatusOK,
		}
		c.Writer = w

		c.Next()

		executionTime := time.Since(startTime)

		originalResponse := w.body.String()
		statusCode := w.status

		unified := transformToUnifiedResponse(c, originalResponse, statusCode, requestID, executionTime)

		w.ResponseWriter.Header().Set("Content-Type", "application/json")
		w.ResponseWriter.WriteHeader(statusCode)

		json.NewEncoder(w.ResponseWriter).Encode(unified)

		go saveAuditLogAsync(c, statusCode, requestID, executionTime)
		go sendNotificationAsync(c, unified)
	}
}

// transformToUnifiedResponse converts the original response to the unified format
func transformToUnifiedResponse(c *gin.Context, originalResponse string, statusCode int, requestID string, executionTime time.Duration) UnifiedResponse {
	isSuccess := statusCode >= 200 && statusCode < 300

	unified := UnifiedResponse{
		Success: isSuccess,
		Message: getAutoMessage(c.Request.Method, statusCode, isSuccess),
		Meta: &MetaInfo{
			RequestID:     requestID,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			ExecutionTime: fmt.Sprintf("%dms", executionTime.Milliseconds()),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
		},
	}

	if originalResponse == "" {
		return unified
	}

	var originalData interface{}
	if err := json.Unmarshal([]byte(originalResponse), &originalData); err != nil {
		return unified
	}

	if isSuccess {
		if dataMap, ok := originalData.(map[string]interface{}); ok {
			if data, exists := dataMap["data"]; exists {
				unified.Data = data
			} else {
				unified.Data = originalData
			}
			if msg, exists := dataMap["message"]; exists {
				if msgStr, ok := msg.(string); ok && msgStr != "" {
					unified.Message = msgStr
				}
			}
		} else {
			unified.Data = originalData
		}
		return unified
	}

	// Error responses keep the backend code when the service provided one
	code := getErrorCode(statusCode)
	details := originalResponse
	if errorMap, ok := originalData.(map[string]interface{}); ok {
		if backendCode, exists := errorMap["code"]; exists {
			if codeStr, ok := backendCode.(string); ok && codeStr != "" {
				code = codeStr
			}
		}
		if errMsg, exists := errorMap["error"]; exists {
			details = fmt.Sprintf("%v", errMsg)
		}
	}
	unified.Error = &ErrorInfo{Code: code, Details: details}

	return unified
}

// getAutoMessage generates appropriate success/error messages
func getAutoMessage(method string, statusCode int, isSuccess bool) string {
	if isSuccess {
		switch method {
		case "POST":
			return "Record created successfully"
		case "PUT", "PATCH":
			return "Record updated successfully"
		case "DELETE":
			return "Record deleted successfully"
		case "GET":
			return "Data retrieved successfully"
		default:
			return "Operation completed successfully"
		}
	}

	switch statusCode {
	case 400:
		return "Invalid request data"
	case 401:
		return "Authentication required"
	case 403:
		return "Permission denied"
	case 404:
		return "Resource not found"
	case 409:
		return "Conflicting resource state"
	case 422:
		return "Validation failed"
	case 429:
		return "Too many requests"
	case 500:
		return "Internal server error"
	default:
		return "Operation failed"
	}
}

// getErrorCode generates fallback error codes based on status
func getErrorCode(statusCode int) string {
	switch statusCode {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "PERMISSION_DENIED"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 422:
		return "VALIDATION_ERROR"
	case 429:
		return "RATE_LIMITED"
	case 500:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// saveAuditLogAsync records the request in audit_logs, fire and forget
func saveAuditLogAsync(c *gin.Context, statusCode int, requestID string, executionTime time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Audit log failed: %v", r)
		}
	}()

	userID := contextUUID(c, "user_id")
	tenantID := contextUUID(c, "tenant_id")

	auditLog := audit.AuditLog{
		TenantID:   tenantID,
		UserID:     userID,
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		StatusCode: statusCode,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Duration:   executionTime.Milliseconds(),
		RequestID:  requestID,
	}

	db := database.GetDB()
	if db == nil {
		if err := database.InitDatabase(); err != nil {
			log.Printf("❌ Failed to initialize database for audit logging: %v", err)
			return
		}
		db = database.GetDB()
	}

	if err := db.Create(&auditLog).Error; err != nil {
		log.Printf("❌ Failed to save audit log: %v", err)
	}
}

// contextUUID reads a UUID value from the gin context if present
func contextUUID(c *gin.Context, key string) *uuid.UUID {
	value, exists := c.Get(key)
	if !exists {
		return nil
	}
	if id, err := uuid.Parse(fmt.Sprintf("%v", value)); err == nil {
		return &id
	}
	return nil
}

// sendNotificationAsync pushes a real-time notification about the mutation
func sendNotificationAsync(c *gin.Context, unified UnifiedResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Notification send failed: %v", r)
		}
	}()

	// Reads do not notify
	if c.Request.Method == "GET" {
		return
	}

	userID := contextUUID(c, "user_id")
	if userID == nil {
		return
	}

	level := notification.NotificationLevelSuccess
	title := "Success"
	if !unified.Success {
		level = notification.NotificationLevelError
		title = "Error"
	}

	wsMessage := notification.WebSocketMessage{
		Type:      "notification",
		Level:     level,
		Title:     title,
		Message:   unified.Message,
		Timestamp: time.Now().UTC(),
		Action:    strings.ToLower(c.Request.Method),
		UserID:    userID,
	}

	sendToWebSocket(userID.String(), &wsMessage)
}

// sendToWebSocket forwards the message to the notification service
func sendToWebSocket(userID string, message *notification.WebSocketMessage) {
	cfg := config.GetConfig()
	url := cfg.NotificationServiceURL + "/ws/send"

	payload := map[string]interface{}{
		"user_id": userID,
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Error marshaling WebSocket message: %v", err)
		return
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("❌ Error sending WebSocket message: %v", err)
		return
	}
	defer resp.Body.Close()
}

// shouldSkipUnifiedResponse reports whether the path bypasses the envelope.
// Swagger assets and WebSocket upgrades must pass through untouched.
func shouldSkipUnifiedResponse(c *gin.Context) bool {
	path := c.Request.URL.Path

	excludePaths := []string{
		"/swagger",
		"/docs",
		"/health",
		"/metrics",
		"/ws/",
	}

	for _, excludePath := range excludePaths {
		if strings.HasPrefix(path, excludePath) {
			return true
		}
	}

	referer := c.Request.Header.Get("Referer")
	if strings.Contains(referer, "/swagger") || strings.Contains(referer, "/docs") {
		return true
	}

	userAgent := c.Request.Header.Get("User-Agent")
	return strings.Contains(userAgent, "swagger-ui")
}
