package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	utils "saasgrid-backend/shared/utils/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func runHandler(handler gin.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	ctx.Request = httptest.NewRequest(method, path, &buf)
	ctx.Request.Header.Set("Content-Type", "application/json")

	handler(ctx)
	return recorder
}

func TestLoginRejectsMissingTenantSlug(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewAuthHandler(db)

	recorder := runHandler(h.Login, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "admin@acme.com", "password": "secret123"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewAuthHandler(db)

	recorder := runHandler(h.Login, http.MethodPost, "/api/auth/login",
		map[string]string{"tenant_slug": "acme", "email": "not-an-email", "password": "secret123"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLoginUnknownTenantReturnsUnauthorized(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewAuthHandler(db)

	// Rate limit check, then tenant lookup
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "login_attempts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tenants"`)).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "login_attempts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "login_attempts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	recorder := runHandler(h.Login, http.MethodPost, "/api/auth/login",
		map[string]string{"tenant_slug": "ghost", "email": "admin@acme.com", "password": "secret123"})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestValidateReturnsInvalidForGarbageToken(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewAuthHandler(db)

	recorder := runHandler(h.Validate, http.MethodPost, "/api/auth/validate",
		map[string]string{"token": "not-a-jwt"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
}

func TestLogoutRequiresToken(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewAuthHandler(db)

	recorder := runHandler(h.Logout, http.MethodPost, "/api/auth/logout", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestBearerTokenStripsPrefix(t *testing.T) {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	ctx.Request.Header.Set("Authorization", "Bearer abc.def.ghi")

	assert.Equal(t, "abc.def.ghi", bearerToken(ctx))
}

func TestParseUserAgent(t *testing.T) {
	assert.Equal(t, "Unknown", parseUserAgent(""))
	assert.Equal(t, "iOS Device", parseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)"))
	assert.Equal(t, "Windows", parseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64)"))
	assert.Equal(t, "Other", parseUserAgent("curl/8.5.0"))
}

func TestGeneratedTokenRoundTrips(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := utils.GenerateJWT(userID, "admin@acme.com", tenantID, nil, nil)
	require.NoError(t, err)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}
