package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database/models/notification"
)

// NotificationClient handles communication with notification service
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient() *NotificationClient {
	cfg := config.GetConfig()
	return &NotificationClient{
		baseURL: cfg.NotificationServiceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NotifyRequest creates an in-app notification and pushes it over WebSocket
type NotifyRequest struct {
	TenantID *uuid.UUID                     `json:"tenant_id,omitempty"`
	UserID   *uuid.UUID                     `json:"user_id,omitempty"`
	Type     string                         `json:"type"`
	Level    notification.NotificationLevel `json:"level"`
	Title    string                         `json:"title"`
	Message  string                         `json:"message"`
	Action   string                         `json:"action,omitempty"`
	EntityID *uuid.UUID                     `json:"entity_id,omitempty"`
	Entity   string                         `json:"entity,omitempty"`
	Data     interface{}                    `json:"data,omitempty"`
}

// LifecycleEmailRequest notifies the tenant contact about a lifecycle change
type LifecycleEmailRequest struct {
	Email      string `json:"email"`
	TenantName string `json:"tenant_name"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Timestamp  string `json:"timestamp"`
}

// WelcomeEmailRequest notifies a newly created user
type WelcomeEmailRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	TenantName string `json:"tenant_name"`
}

// Notify creates an in-app notification via the notification service
func (nc *NotificationClient) Notify(req NotifyRequest) error {
	return nc.post("/api/notifications", req)
}

// NotifyAsync fires a notification without blocking the caller. Failures are
// logged and dropped; notifications are best effort.
func (nc *NotificationClient) NotifyAsync(req NotifyRequest) {
	go func() {
		if err := nc.Notify(req); err != nil {
			log.Printf("❌ Failed to send notification: %v", err)
		}
	}()
}

// SendLifecycleEmail sends a tenant lifecycle email
func (nc *NotificationClient) SendLifecycleEmail(req LifecycleEmailRequest) error {
	return nc.post("/api/notifications/email/lifecycle", req)
}

// SendWelcomeEmail sends a welcome email to a new user
func (nc *NotificationClient) SendWelcomeEmail(req WelcomeEmailRequest) error {
	return nc.post("/api/notifications/email/welcome", req)
}

// Generic sender
func (nc *NotificationClient) post(endpoint string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s%s", nc.baseURL, endpoint)
	resp, err := nc.httpClient.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("notification service returned status: %d", resp.StatusCode)
	}

	return nil
}
