package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"saasgrid-backend/shared/config"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.LoadConfig()
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return bytes.NewBuffer(data)
}

func runHandler(method, path string, body *bytes.Buffer, params gin.Params, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if body == nil {
		body = bytes.NewBuffer(nil)
	}
	c.Request = httptest.NewRequest(method, path, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	handler(c)
	return w
}

func TestGetNotificationRejectsMalformedID(t *testing.T) {
	w := runHandler(http.MethodGet, "/api/notifications/not-a-uuid", nil,
		gin.Params{{Key: "id", Value: "not-a-uuid"}}, GetNotification)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
}

func TestMarkAsReadRejectsMalformedID(t *testing.T) {
	w := runHandler(http.MethodPut, "/api/notifications/abc/read", nil,
		gin.Params{{Key: "id", Value: "abc"}}, MarkAsRead)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAllAsReadRejectsMalformedUserID(t *testing.T) {
	w := runHandler(http.MethodPut, "/api/notifications/user/abc/read-all", nil,
		gin.Params{{Key: "user_id", Value: "abc"}}, MarkAllAsRead)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
}

func TestDeleteNotificationRejectsMalformedID(t *testing.T) {
	w := runHandler(http.MethodDelete, "/api/notifications/xyz", nil,
		gin.Params{{Key: "id", Value: "xyz"}}, DeleteNotification)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNotificationRequiresTitleAndMessage(t *testing.T) {
	w := runHandler(http.MethodPost, "/api/notifications",
		jsonBody(t, map[string]interface{}{"type": "system"}),
		nil, CreateNotification)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
}

func TestCreateNotificationRejectsMalformedBody(t *testing.T) {
	w := runHandler(http.MethodPost, "/api/notifications",
		bytes.NewBufferString("{not json"), nil, CreateNotification)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendWelcomeEmailRequiresValidAddress(t *testing.T) {
	handler := NewEmailHandler(config.GetConfig())

	w := runHandler(http.MethodPost, "/api/notifications/email/welcome",
		jsonBody(t, map[string]interface{}{
			"email":       "not-an-email",
			"name":        "Ada",
			"tenant_name": "Acme",
		}), nil, handler.SendWelcomeEmail)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendLifecycleEmailRequiresToStatus(t *testing.T) {
	handler := NewEmailHandler(config.GetConfig())

	w := runHandler(http.MethodPost, "/api/notifications/email/lifecycle",
		jsonBody(t, map[string]interface{}{
			"email":       "owner@acme.test",
			"tenant_name": "Acme",
		}), nil, handler.SendLifecycleEmail)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
}

func TestSendEmailRejectsMissingSubject(t *testing.T) {
	handler := NewEmailHandler(config.GetConfig())

	w := runHandler(http.MethodPost, "/api/notifications/email/send",
		jsonBody(t, map[string]interface{}{
			"to":   []string{"someone@acme.test"},
			"body": "hello",
		}), nil, handler.SendEmail)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebSocketEndpointRequiresToken(t *testing.T) {
	w := runHandler(http.MethodGet, "/ws/notifications", nil, nil, HandleWebSocket)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "UNAUTHORIZED", response["code"])
}

func TestWebSocketEndpointRejectsGarbageToken(t *testing.T) {
	w := runHandler(http.MethodGet, "/ws/notifications?token=garbage", nil, nil, HandleWebSocket)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
