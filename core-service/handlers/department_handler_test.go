package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "/eng", childPath("", "eng"))
	assert.Equal(t, "/eng/platform", childPath("/eng", "platform"))
	assert.Equal(t, "/eng/platform/sre", childPath("/eng/platform", "sre"))
}

func TestIsDescendantPath(t *testing.T) {
	assert.True(t, isDescendantPath("/eng", "/eng/platform"))
	assert.True(t, isDescendantPath("/eng", "/eng/platform/sre"))
	assert.False(t, isDescendantPath("/eng", "/eng"))
	assert.False(t, isDescendantPath("/eng", "/engineering"))
	assert.False(t, isDescendantPath("/eng/platform", "/eng"))
}

func runHandler(handler gin.HandlerFunc, method, path string, params gin.Params, headers map[string]string, body interface{}) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	ctx.Request = httptest.NewRequest(method, path, &buf)
	ctx.Request.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		ctx.Request.Header.Set(key, value)
	}
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

func TestHandlersRequireTenantScope(t *testing.T) {
	recorder := runHandler(GetDepartments, http.MethodGet, "/api/departments", nil, nil, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "Missing tenant scope", body["error"])
}

func TestHandlersRejectMalformedTenantScope(t *testing.T) {
	recorder := runHandler(GetDepartments, http.MethodGet, "/api/departments", nil,
		map[string]string{"X-Tenant-ID": "not-a-uuid"}, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "Invalid tenant scope", body["error"])
}

func TestCreateDepartmentRejectsBadCode(t *testing.T) {
	recorder := runHandler(CreateDepartment, http.MethodPost, "/api/departments", nil,
		map[string]string{"X-Tenant-ID": "5f6c2d7e-9a1b-4c3d-8e2f-0a1b2c3d4e5f"},
		map[string]string{
			"organization_id": "6a7b8c9d-0e1f-4a2b-8c3d-4e5f6a7b8c9d",
			"name":            "Engineering",
			"code":            "bad code!",
		})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "Invalid code", body["error"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestCreateDepartmentRequiresOrganization(t *testing.T) {
	recorder := runHandler(CreateDepartment, http.MethodPost, "/api/departments", nil,
		map[string]string{"X-Tenant-ID": "5f6c2d7e-9a1b-4c3d-8e2f-0a1b2c3d4e5f"},
		map[string]string{"name": "Engineering", "code": "eng"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestDeleteDepartmentRejectsMalformedID(t *testing.T) {
	recorder := runHandler(DeleteDepartment, http.MethodDelete, "/api/departments/bad",
		gin.Params{{Key: "id", Value: "bad"}},
		map[string]string{"X-Tenant-ID": "5f6c2d7e-9a1b-4c3d-8e2f-0a1b2c3d4e5f"}, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := jsonBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}
