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

func performRequest(handler gin.HandlerFunc, method, path string, params gin.Params, body interface{}) *httptest.ResponseRecorder {
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

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestGetTenantRejectsMalformedID(t *testing.T) {
	recorder := performRequest(GetTenant, http.MethodGet, "/api/tenants/nope",
		gin.Params{{Key: "id", Value: "nope"}}, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestCreateTenantRequiresNameAndSlug(t *testing.T) {
	recorder := performRequest(CreateTenant, http.MethodPost, "/api/tenants",
		nil, map[string]string{"name": "Acme"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestCreateTenantRejectsBadSlug(t *testing.T) {
	recorder := performRequest(CreateTenant, http.MethodPost, "/api/tenants",
		nil, map[string]string{"name": "Acme", "slug": "Not A Slug"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "Invalid slug", body["error"])
}

func TestCreateTenantRejectsUnknownPlan(t *testing.T) {
	recorder := performRequest(CreateTenant, http.MethodPost, "/api/tenants",
		nil, map[string]string{"name": "Acme", "slug": "acme", "type": "PLATINUM"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "Unknown plan type", body["error"])
}

func TestCreateTenantRejectsBadContactEmail(t *testing.T) {
	recorder := performRequest(CreateTenant, http.MethodPost, "/api/tenants",
		nil, map[string]string{"name": "Acme", "slug": "acme", "contact_email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "Invalid contact email", body["error"])
}

func TestUpdateTenantRequiresVersion(t *testing.T) {
	recorder := performRequest(UpdateTenant, http.MethodPut, "/api/tenants/x",
		gin.Params{{Key: "id", Value: "5f6c2d7e-9a1b-4c3d-8e2f-0a1b2c3d4e5f"}},
		map[string]string{"name": "Renamed"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestTransitionRejectsMalformedID(t *testing.T) {
	recorder := performRequest(ActivateTenant, http.MethodPost, "/api/tenants/bad/activate",
		gin.Params{{Key: "id", Value: "bad"}}, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestUpdateTenantSettingsRejectsNegativeOverride(t *testing.T) {
	negative := -5
	recorder := performRequest(UpdateTenantSettings, http.MethodPut, "/api/tenants/x/settings",
		gin.Params{{Key: "id", Value: "5f6c2d7e-9a1b-4c3d-8e2f-0a1b2c3d4e5f"}},
		map[string]interface{}{"max_users": negative})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "Invalid quota override", body["error"])
}
