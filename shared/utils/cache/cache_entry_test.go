package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, prefix, tenantID, kind, id string) Key {
	t.Helper()
	key, err := NewKey(prefix, tenantID, kind, id)
	require.NoError(t, err)
	return key
}

func TestKeyString(t *testing.T) {
	key := mustKey(t, "tenant", "t-1", "snapshot", "abc")
	assert.Equal(t, "tenant:t-1:snapshot:abc", key.String())

	global := mustKey(t, "perm", "", "all", "")
	assert.Equal(t, "perm:all", global.String())

	assert.Equal(t, "tenant:t-1:*", key.TenantPattern())
}

func TestKeyValidation(t *testing.T) {
	_, err := NewKey("", "t-1", "snapshot", "")
	assert.ErrorIs(t, err, ErrEmptyKeyPart)

	_, err = NewKey("tenant", "t-1", "  ", "")
	assert.ErrorIs(t, err, ErrEmptyKeyPart)
}

func TestEntryRoundTripsJSONValues(t *testing.T) {
	key := mustKey(t, "tenant", "t-1", "snapshot", "")
	value := map[string]interface{}{
		"name":  "Acme",
		"users": float64(12),
		"tags":  []interface{}{"a", "b"},
	}

	entry, err := NewEntry(key, value, time.Minute)
	require.NoError(t, err)

	restored, err := entry.Value()
	require.NoError(t, err)
	assert.Equal(t, value, restored)
}

func TestEntryRestoresTaggedTimesAndBytes(t *testing.T) {
	key := mustKey(t, "tenant", "t-1", "snapshot", "")
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	value := map[string]interface{}{
		"exported_at": at,
		"checksum":    []byte{0x01, 0x02, 0xff},
		"nested": []interface{}{
			map[string]interface{}{"when": at},
		},
	}

	entry, err := NewEntry(key, value, time.Minute)
	require.NoError(t, err)

	restored, err := entry.Value()
	require.NoError(t, err)

	m, ok := restored.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, at, m["exported_at"])
	assert.Equal(t, []byte{0x01, 0x02, 0xff}, m["checksum"])

	nested := m["nested"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, at, nested["when"])
}

func TestEntryRejectsOversizedValues(t *testing.T) {
	key := mustKey(t, "tenant", "t-1", "blob", "")
	big := strings.Repeat("x", MaxValueSize+1)

	_, err := NewEntry(key, big, time.Minute)
	assert.ErrorIs(t, err, ErrValueTooLarge)
}

func TestEntryAcceptsValueAtLimitBoundary(t *testing.T) {
	key := mustKey(t, "tenant", "t-1", "blob", "")
	// Two quote characters are added by JSON encoding.
	fits := strings.Repeat("x", MaxValueSize-2)

	entry, err := NewEntry(key, fits, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, MaxValueSize, entry.Size())
}

func TestEntryRejectsExcessiveTTL(t *testing.T) {
	key := mustKey(t, "tenant", "t-1", "snapshot", "")

	_, err := NewEntry(key, "value", MaxTTLSeconds*time.Second+time.Second)
	assert.ErrorIs(t, err, ErrTTLTooLong)

	_, err = NewEntry(key, "value", -time.Second)
	assert.ErrorIs(t, err, ErrNegativeTTL)

	// Exactly 30 days is allowed.
	_, err = NewEntry(key, "value", MaxTTLSeconds*time.Second)
	assert.NoError(t, err)
}

func TestEntryDecodeTyped(t *testing.T) {
	type snapshot struct {
		Name  string `json:"name"`
		Users int    `json:"users"`
	}

	key := mustKey(t, "tenant", "t-1", "snapshot", "")
	entry, err := NewEntry(key, snapshot{Name: "Acme", Users: 3}, 0)
	require.NoError(t, err)

	var out snapshot
	require.NoError(t, entry.Decode(&out))
	assert.Equal(t, snapshot{Name: "Acme", Users: 3}, out)
}
