package audit

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is one appended event in a stream. Version is the event's
// position within its stream; the unique (stream_id, version) index is what
// makes the event store's optimistic concurrency check safe under races.
type DomainEvent struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StreamID   string     `json:"stream_id" gorm:"type:varchar(200);not null;uniqueIndex:idx_event_stream_version"`
	StreamType string     `json:"stream_type" gorm:"type:varchar(100);not null;index"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	Version    int64      `json:"version" gorm:"not null;uniqueIndex:idx_event_stream_version"`
	EventType  string     `json:"event_type" gorm:"type:varchar(200);not null"`
	Payload    []byte     `json:"payload" gorm:"type:jsonb"`
	Metadata   []byte     `json:"metadata,omitempty" gorm:"type:jsonb"`
	RecordedAt time.Time  `json:"recorded_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for DomainEvent
func (DomainEvent) TableName() string {
	return "domain_events"
}
