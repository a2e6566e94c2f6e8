package cache

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Hard limits on cached values.
const (
	MaxValueSize  = 1 << 20          // 1 MiB serialized
	MaxTTLSeconds = 30 * 24 * 60 * 60 // 2,592,000s (30 days)
)

var (
	ErrValueTooLarge = errors.New("cache value exceeds 1MiB limit")
	ErrTTLTooLong    = errors.New("cache TTL exceeds 30 day limit")
	ErrNegativeTTL   = errors.New("cache TTL must not be negative")
	ErrEmptyKeyPart  = errors.New("cache key prefix and kind are required")
)

// Key addresses one cached value as <prefix>:<tenant>:<kind>:<id>. TenantID
// and ID may be empty for global entries.
type Key struct {
	Prefix   string
	TenantID string
	Kind     string
	ID       string
}

// NewKey builds and validates a cache key.
func NewKey(prefix, tenantID, kind, id string) (Key, error) {
	if strings.TrimSpace(prefix) == "" || strings.TrimSpace(kind) == "" {
		return Key{}, ErrEmptyKeyPart
	}
	return Key{Prefix: prefix, TenantID: tenantID, Kind: kind, ID: id}, nil
}

// String renders the redis key.
func (k Key) String() string {
	parts := []string{k.Prefix}
	if k.TenantID != "" {
		parts = append(parts, k.TenantID)
	}
	parts = append(parts, k.Kind)
	if k.ID != "" {
		parts = append(parts, k.ID)
	}
	return strings.Join(parts, ":")
}

// TenantPattern returns the scan pattern covering every key of a tenant.
func (k Key) TenantPattern() string {
	return fmt.Sprintf("%s:%s:*", k.Prefix, k.TenantID)
}

// Entry is an immutable serialized cache value. JSON-representable values
// round-trip unchanged; time.Time and []byte survive inside maps and slices
// through type tags, which plain JSON would flatten into strings.
type Entry struct {
	key      Key
	payload  []byte
	ttl      time.Duration
	storedAt time.Time
}

type taggedValue struct {
	Type  string `json:"__type"`
	Value string `json:"value"`
}

// NewEntry serializes a value and validates it against the size and TTL
// limits. A zero TTL means no expiry.
func NewEntry(key Key, value interface{}, ttl time.Duration) (*Entry, error) {
	if ttl < 0 {
		return nil, ErrNegativeTTL
	}
	if ttl > MaxTTLSeconds*time.Second {
		return nil, ErrTTLTooLong
	}

	payload, err := json.Marshal(encodeValue(value))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cache value: %w", err)
	}
	if len(payload) > MaxValueSize {
		return nil, ErrValueTooLarge
	}

	return &Entry{
		key:      key,
		payload:  payload,
		ttl:      ttl,
		storedAt: time.Now().UTC(),
	}, nil
}

// EntryFromPayload rebuilds an entry from a raw redis payload.
func EntryFromPayload(key Key, payload []byte) *Entry {
	return &Entry{key: key, payload: payload}
}

// Key returns the entry's key.
func (e *Entry) Key() Key {
	return e.key
}

// TTL returns the entry's time to live.
func (e *Entry) TTL() time.Duration {
	return e.ttl
}

// Payload returns the serialized bytes.
func (e *Entry) Payload() []byte {
	return e.payload
}

// Size returns the serialized size in bytes.
func (e *Entry) Size() int {
	return len(e.payload)
}

// Value deserializes the entry, restoring tagged times and byte slices.
func (e *Entry) Value() (interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(e.payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to deserialize cache value: %w", err)
	}
	return decodeValue(raw), nil
}

// Decode unmarshals the entry payload into a typed destination. Tagged
// values are not restored on this path; use Value for tag-aware reads.
func (e *Entry) Decode(dest interface{}) error {
	return json.Unmarshal(e.payload, dest)
}

// encodeValue walks maps, slices, times and byte slices and replaces the
// non-JSON-native leaves with tagged wrappers. Other types pass through to
// the JSON encoder untouched.
func encodeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return taggedValue{Type: "time", Value: val.UTC().Format(time.RFC3339Nano)}
	case []byte:
		return taggedValue{Type: "bytes", Value: base64.StdEncoding.EncodeToString(val)}
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = encodeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = encodeValue(item)
		}
		return out
	default:
		return v
	}
}

func decodeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if tagged, ok := decodeTagged(val); ok {
			return tagged
		}
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = decodeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = decodeValue(item)
		}
		return out
	default:
		return v
	}
}

func decodeTagged(m map[string]interface{}) (interface{}, bool) {
	if len(m) != 2 {
		return nil, false
	}
	typeName, ok := m["__type"].(string)
	if !ok {
		return nil, false
	}
	raw, ok := m["value"].(string)
	if !ok {
		return nil, false
	}

	switch typeName {
	case "time":
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return parsed, true
		}
	case "bytes":
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			return decoded, true
		}
	}
	return nil, false
}
