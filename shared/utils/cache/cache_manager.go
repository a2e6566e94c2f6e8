package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"saasgrid-backend/shared/config"
)

type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

// PermissionCacheData is a cached permission check result.
type PermissionCacheData struct {
	HasPermission bool                   `json:"has_permission"`
	UserID        uuid.UUID              `json:"user_id"`
	Resource      string                 `json:"resource"`
	Action        string                 `json:"action"`
	FoundAt       string                 `json:"found_at"` // "user", "role", "organization", "none"
	CachedAt      time.Time              `json:"cached_at"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

var (
	globalCacheManager *CacheManager
	DefaultTTL         = 30 * time.Minute
	UserPermissionTTL  = 15 * time.Minute
	RolePermissionTTL  = 1 * time.Hour
	OrgPermissionTTL   = 2 * time.Hour
	TenantSnapshotTTL  = 10 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// NewCacheManagerWithClient builds a manager around an existing client,
// used by tests against miniredis.
func NewCacheManagerWithClient(client *redis.Client) *CacheManager {
	return &CacheManager{client: client, ctx: context.Background()}
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// GeneratePermissionKey generates a cache key for a permission check
func GeneratePermissionKey(userID uuid.UUID, resource, action string) string {
	return fmt.Sprintf("perm:user:%s:res:%s:act:%s", userID, resource, action)
}

// GenerateUserPermissionsPattern matches all cached checks for a user
func GenerateUserPermissionsPattern(userID uuid.UUID) string {
	return fmt.Sprintf("perm:user:%s:*", userID)
}

// SetPermissionCache caches a permission check result
func (cm *CacheManager) SetPermissionCache(userID uuid.UUID, resource, action string, data *PermissionCacheData) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	key := GeneratePermissionKey(userID, resource, action)

	// TTL depends on where in the hierarchy the permission was found
	var ttl time.Duration
	switch data.FoundAt {
	case "user":
		ttl = UserPermissionTTL
	case "role":
		ttl = RolePermissionTTL
	case "organization":
		ttl = OrgPermissionTTL
	default:
		ttl = DefaultTTL
	}

	data.CachedAt = time.Now()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %v", err)
	}

	if err := cm.client.Set(cm.ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %v", err)
	}

	log.Printf("🔄 Permission cached: %s (TTL: %v, FoundAt: %s)", key, ttl, data.FoundAt)
	return nil
}

// GetPermissionCache retrieves a cached permission check result
func (cm *CacheManager) GetPermissionCache(userID uuid.UUID, resource, action string) (*PermissionCacheData, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}

	key := GeneratePermissionKey(userID, resource, action)

	result, err := cm.client.Get(cm.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false
		}
		log.Printf("❌ Cache error: %v", err)
		return nil, false
	}

	var data PermissionCacheData
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		log.Printf("❌ Failed to unmarshal cache data: %v", err)
		return nil, false
	}

	return &data, true
}

// SetEntry stores a prebuilt cache entry under its own key.
func (cm *CacheManager) SetEntry(entry *Entry) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	return cm.client.Set(cm.ctx, entry.Key().String(), entry.Payload(), entry.TTL()).Err()
}

// GetEntry loads a cache entry; the second return is false on a miss.
func (cm *CacheManager) GetEntry(key Key) (*Entry, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}
	payload, err := cm.client.Get(cm.ctx, key.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("❌ Cache error: %v", err)
		}
		return nil, false
	}
	return EntryFromPayload(key, payload), true
}

// SetTenantSnapshot caches a tenant aggregate view.
func (cm *CacheManager) SetTenantSnapshot(tenantID uuid.UUID, snapshot interface{}) error {
	key, err := NewKey("tenant", tenantID.String(), "snapshot", "")
	if err != nil {
		return err
	}
	entry, err := NewEntry(key, snapshot, TenantSnapshotTTL)
	if err != nil {
		return err
	}
	return cm.SetEntry(entry)
}

// GetTenantSnapshot loads a cached tenant aggregate view.
func (cm *CacheManager) GetTenantSnapshot(tenantID uuid.UUID, dest interface{}) bool {
	key, err := NewKey("tenant", tenantID.String(), "snapshot", "")
	if err != nil {
		return false
	}
	entry, found := cm.GetEntry(key)
	if !found {
		return false
	}
	if err := entry.Decode(dest); err != nil {
		log.Printf("❌ Failed to decode tenant snapshot: %v", err)
		return false
	}
	return true
}

// InvalidateTenant drops every cached value belonging to a tenant.
func (cm *CacheManager) InvalidateTenant(tenantID uuid.UUID) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	return cm.invalidateByPattern(fmt.Sprintf("tenant:%s:*", tenantID))
}

// InvalidateUserPermissions invalidates all cached checks for a user
func (cm *CacheManager) InvalidateUserPermissions(userID uuid.UUID) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	return cm.invalidateByPattern(GenerateUserPermissionsPattern(userID))
}

// InvalidateAllPermissions invalidates every cached permission check
func (cm *CacheManager) InvalidateAllPermissions() error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	return cm.invalidateByPattern("perm:*")
}

// InvalidateSpecificPermission invalidates one cached check
func (cm *CacheManager) InvalidateSpecificPermission(userID uuid.UUID, resource, action string) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	key := GeneratePermissionKey(userID, resource, action)
	if err := cm.client.Del(cm.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %v", key, err)
	}

	log.Printf("🗑️  Cache invalidated: %s", key)
	return nil
}

// invalidateByPattern invalidates cache entries matching a pattern
func (cm *CacheManager) invalidateByPattern(pattern string) error {
	iter := cm.client.Scan(cm.ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(cm.ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %v", err)
	}

	if len(keys) > 0 {
		if err := cm.client.Del(cm.ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %v", err)
		}
		log.Printf("🗑️  Cache invalidated: %d keys matching pattern '%s'", len(keys), pattern)
	}

	return nil
}

// GetCacheStats returns cache statistics
func (cm *CacheManager) GetCacheStats() (map[string]interface{}, error) {
	if cm == nil || cm.client == nil {
		return nil, fmt.Errorf("cache manager not initialized")
	}

	info, err := cm.client.Info(cm.ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis info: %v", err)
	}

	permissionKeys := 0
	iter := cm.client.Scan(cm.ctx, 0, "perm:*", 0).Iterator()
	for iter.Next(cm.ctx) {
		permissionKeys++
	}

	tenantKeys := 0
	iter = cm.client.Scan(cm.ctx, 0, "tenant:*", 0).Iterator()
	for iter.Next(cm.ctx) {
		tenantKeys++
	}

	stats := map[string]interface{}{
		"total_permission_keys": permissionKeys,
		"total_tenant_keys":     tenantKeys,
		"redis_info":            info,
		"cache_manager_active":  true,
	}

	return stats, nil
}

// TestConnection tests the Redis connection
func (cm *CacheManager) TestConnection() error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	testKey := "test:connection"
	testValue := "connection_test_ok"

	if err := cm.client.Set(cm.ctx, testKey, testValue, time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set test value: %v", err)
	}

	result, err := cm.client.Get(cm.ctx, testKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get test value: %v", err)
	}

	if result != testValue {
		return fmt.Errorf("test value mismatch: expected %s, got %s", testValue, result)
	}

	if err := cm.client.Del(cm.ctx, testKey).Err(); err != nil {
		return fmt.Errorf("failed to delete test value: %v", err)
	}

	return nil
}

// Close closes the cache manager connection
func (cm *CacheManager) Close() error {
	if cm != nil && cm.client != nil {
		return cm.client.Close()
	}
	return nil
}
