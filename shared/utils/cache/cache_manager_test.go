package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *CacheManager {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheManagerWithClient(client)
}

func TestPermissionCacheRoundTrip(t *testing.T) {
	cm := newTestManager(t)
	userID := uuid.New()

	err := cm.SetPermissionCache(userID, "tenants", "read", &PermissionCacheData{
		HasPermission: true,
		UserID:        userID,
		Resource:      "tenants",
		Action:        "read",
		FoundAt:       "role",
	})
	require.NoError(t, err)

	data, found := cm.GetPermissionCache(userID, "tenants", "read")
	require.True(t, found)
	assert.True(t, data.HasPermission)
	assert.Equal(t, "role", data.FoundAt)
	assert.Equal(t, userID, data.UserID)
}

func TestPermissionCacheMiss(t *testing.T) {
	cm := newTestManager(t)

	_, found := cm.GetPermissionCache(uuid.New(), "tenants", "read")
	assert.False(t, found)
}

func TestInvalidateUserPermissions(t *testing.T) {
	cm := newTestManager(t)
	userID := uuid.New()
	otherID := uuid.New()

	for _, action := range []string{"read", "update"} {
		require.NoError(t, cm.SetPermissionCache(userID, "tenants", action, &PermissionCacheData{
			HasPermission: true, UserID: userID, Resource: "tenants", Action: action, FoundAt: "user",
		}))
	}
	require.NoError(t, cm.SetPermissionCache(otherID, "tenants", "read", &PermissionCacheData{
		HasPermission: true, UserID: otherID, Resource: "tenants", Action: "read", FoundAt: "user",
	}))

	require.NoError(t, cm.InvalidateUserPermissions(userID))

	_, found := cm.GetPermissionCache(userID, "tenants", "read")
	assert.False(t, found)
	_, found = cm.GetPermissionCache(userID, "tenants", "update")
	assert.False(t, found)
	_, found = cm.GetPermissionCache(otherID, "tenants", "read")
	assert.True(t, found, "other user's cache must survive")
}

func TestTenantSnapshotRoundTripAndInvalidation(t *testing.T) {
	cm := newTestManager(t)
	tenantID := uuid.New()

	type snapshot struct {
		Name      string `json:"name"`
		UserCount int    `json:"user_count"`
	}

	require.NoError(t, cm.SetTenantSnapshot(tenantID, snapshot{Name: "Acme", UserCount: 7}))

	var out snapshot
	require.True(t, cm.GetTenantSnapshot(tenantID, &out))
	assert.Equal(t, snapshot{Name: "Acme", UserCount: 7}, out)

	require.NoError(t, cm.InvalidateTenant(tenantID))
	assert.False(t, cm.GetTenantSnapshot(tenantID, &out))
}

func TestSetEntryHonorsTTL(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()
	cm := NewCacheManagerWithClient(client)

	key, err := NewKey("tenant", "t-1", "snapshot", "")
	require.NoError(t, err)
	entry, err := NewEntry(key, "payload", time.Minute)
	require.NoError(t, err)

	require.NoError(t, cm.SetEntry(entry))
	_, found := cm.GetEntry(key)
	assert.True(t, found)

	server.FastForward(2 * time.Minute)
	_, found = cm.GetEntry(key)
	assert.False(t, found)
}

func TestTestConnection(t *testing.T) {
	cm := newTestManager(t)
	assert.NoError(t, cm.TestConnection())
}
