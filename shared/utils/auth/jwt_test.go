package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	orgID := uuid.New()
	roleID := uuid.New()

	token, err := GenerateJWT(userID, "user@acme.test", tenantID, &orgID, &roleID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@acme.test", claims.Email)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, orgID.String(), claims.OrganizationID)
	assert.Equal(t, roleID.String(), claims.RoleID)
}

func TestJWTOptionalClaimsOmitted(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "user@acme.test", uuid.New(), nil, nil)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Empty(t, claims.OrganizationID)
	assert.Empty(t, claims.RoleID)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenCarriesTenant(t *testing.T) {
	tenantID := uuid.New()
	token, err := GenerateRefreshJWT(uuid.New(), "user@acme.test", tenantID)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("token-value")
	b := HashToken("token-value")
	c := HashToken("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("acme-corp"))
	assert.NoError(t, ValidateSlug("a1"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("Acme"))
	assert.Error(t, ValidateSlug("acme_corp"))
	assert.Error(t, ValidateSlug("-acme"))
}
