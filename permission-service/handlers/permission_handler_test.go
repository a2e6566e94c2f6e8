package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runHandler(handler gin.HandlerFunc, method, path string, params gin.Params, body interface{}) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	ctx.Request = httptest.NewRequest(method, path, &buf)
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Params = params

	handler(ctx)
	return recorder
}

func jsonBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestValidatePermissionTarget(t *testing.T) {
	userID := uuid.New()
	roleID := uuid.New()
	orgID := uuid.New()

	assert.NoError(t, validatePermissionTarget("USER", &userID, nil, nil))
	assert.NoError(t, validatePermissionTarget("ROLE", nil, &roleID, nil))
	assert.NoError(t, validatePermissionTarget("ORGANIZATION", nil, nil, &orgID))

	assert.Error(t, validatePermissionTarget("USER", nil, nil, nil))
	assert.Error(t, validatePermissionTarget("USER", &userID, &roleID, nil))
	assert.Error(t, validatePermissionTarget("ROLE", nil, nil, nil))
	assert.Error(t, validatePermissionTarget("ROLE", nil, &roleID, &orgID))
	assert.Error(t, validatePermissionTarget("ORGANIZATION", nil, nil, nil))
	assert.Error(t, validatePermissionTarget("ORGANIZATION", &userID, nil, &orgID))
	assert.Error(t, validatePermissionTarget("TEAM", &userID, nil, nil))
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "user-management", generateSlug("User Management"))
	assert.Equal(t, "audit-logs", generateSlug("audit_logs"))
	assert.Equal(t, "tenants", generateSlug("Tenants"))
}

func TestCheckPermissionRejectsMissingFields(t *testing.T) {
	recorder := runHandler(CheckPermission, http.MethodPost, "/api/permissions/check", nil,
		map[string]string{"user_id": uuid.NewString()})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestCheckPermissionRejectsMalformedUserID(t *testing.T) {
	recorder := runHandler(CheckPermission, http.MethodPost, "/api/permissions/check", nil,
		map[string]string{
			"user_id":       "not-a-uuid",
			"resource_slug": "tenants",
			"action_slug":   "read",
		})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "Invalid user ID", body["error"])
}

func TestBatchCheckRequiresChecks(t *testing.T) {
	recorder := runHandler(BatchCheckPermissions, http.MethodPost, "/api/permissions/batch-check", nil,
		map[string]interface{}{"user_id": uuid.NewString(), "checks": []interface{}{}})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreatePermissionRejectsUnknownTarget(t *testing.T) {
	recorder := runHandler(CreatePermission, http.MethodPost, "/api/permissions", nil,
		map[string]interface{}{
			"resource_id": uuid.NewString(),
			"target":      "TEAM",
			"action_ids":  []string{uuid.NewString()},
		})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestCreatePermissionRejectsMismatchedTargetIDs(t *testing.T) {
	recorder := runHandler(CreatePermission, http.MethodPost, "/api/permissions", nil,
		map[string]interface{}{
			"resource_id": uuid.NewString(),
			"target":      "ROLE",
			"user_id":     uuid.NewString(),
			"role_id":     uuid.NewString(),
			"action_ids":  []string{uuid.NewString()},
		})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "Invalid target configuration", body["error"])
}

func TestDeleteResourceRejectsMalformedID(t *testing.T) {
	recorder := runHandler(DeleteResource, http.MethodDelete, "/api/resources/bad",
		gin.Params{{Key: "id", Value: "bad"}}, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}
