package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saasgrid-backend/shared/database/models"
)

func TestQuotaForPlanKnownPlans(t *testing.T) {
	free, ok := QuotaForPlan(models.TenantTypeFree)
	require.True(t, ok)
	assert.Equal(t, 5, free.MaxUsers)
	assert.Equal(t, int64(512), free.MaxStorageMB)

	enterprise, ok := QuotaForPlan(models.TenantTypeEnterprise)
	require.True(t, ok)
	assert.Equal(t, 1_000, enterprise.MaxUsers)
	assert.Contains(t, enterprise.Features, "audit")
}

func TestQuotaForPlanUnknownPlan(t *testing.T) {
	_, ok := QuotaForPlan("PLATINUM")
	assert.False(t, ok)
	assert.False(t, KnownPlan("PLATINUM"))
}

func TestQuotaForPlanReturnsFeatureCopy(t *testing.T) {
	first, _ := QuotaForPlan(models.TenantTypeBasic)
	first.Features[0] = "mutated"
	second, _ := QuotaForPlan(models.TenantTypeBasic)
	assert.Equal(t, "core", second.Features[0])
}

func TestResolveQuotaCustomOverrides(t *testing.T) {
	users := 42
	storage := int64(9_999)

	q, ok := ResolveQuota(models.TenantTypeCustom, &users, &storage, nil)
	require.True(t, ok)
	assert.Equal(t, 42, q.MaxUsers)
	assert.Equal(t, int64(9_999), q.MaxStorageMB)
	// Unset override keeps the baseline.
	assert.Equal(t, int64(1_000_000), q.MaxAPICallsPerDay)
}

func TestResolveQuotaIgnoresOverridesOnFixedPlans(t *testing.T) {
	users := 42

	q, ok := ResolveQuota(models.TenantTypeFree, &users, nil, nil)
	require.True(t, ok)
	assert.Equal(t, 5, q.MaxUsers)
}

func TestResolveQuotaIgnoresNonPositiveOverrides(t *testing.T) {
	users := 0
	storage := int64(-1)

	q, ok := ResolveQuota(models.TenantTypeCustom, &users, &storage, nil)
	require.True(t, ok)
	assert.Equal(t, 1_000, q.MaxUsers)
	assert.Equal(t, int64(512_000), q.MaxStorageMB)
}
