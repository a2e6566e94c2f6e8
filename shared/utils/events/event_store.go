package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"saasgrid-backend/shared/database/models/audit"
)

// AnyVersion disables the expected-version check on Append.
const AnyVersion int64 = -1

// ErrVersionConflict is returned when the stream moved past the expected
// version between read and append.
var ErrVersionConflict = errors.New("event stream version conflict")

// Event is one domain fact to append.
type Event struct {
	Type     string
	Payload  interface{}
	Metadata map[string]string
}

// Store persists domain events as append-only streams. The optimistic check
// runs inside a transaction and is backed by the unique (stream_id, version)
// index, so concurrent appenders cannot both win.
type Store struct {
	db *gorm.DB
}

// NewStore creates an event store over the given database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// StreamID builds the canonical stream identifier for an aggregate.
func StreamID(streamType string, aggregateID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", streamType, aggregateID)
}

// Append writes events to a stream. When expectedVersion is AnyVersion the
// events are appended after whatever the current head is; otherwise the
// stream's current version must equal expectedVersion or ErrVersionConflict
// is returned. The new stream version is returned on success.
func (s *Store) Append(ctx context.Context, streamType, streamID string, tenantID *uuid.UUID, expectedVersion int64, events ...Event) (int64, error) {
	if len(events) == 0 {
		return 0, errors.New("no events to append")
	}

	var newVersion int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current int64
		if err := tx.Model(&audit.DomainEvent{}).
			Where("stream_id = ?", streamID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&current).Error; err != nil {
			return fmt.Errorf("failed to read stream version: %w", err)
		}

		if expectedVersion != AnyVersion && current != expectedVersion {
			return ErrVersionConflict
		}

		records := make([]audit.DomainEvent, 0, len(events))
		for i, event := range events {
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				return fmt.Errorf("failed to serialize event payload: %w", err)
			}

			var metadata []byte
			if len(event.Metadata) > 0 {
				if metadata, err = json.Marshal(event.Metadata); err != nil {
					return fmt.Errorf("failed to serialize event metadata: %w", err)
				}
			}

			records = append(records, audit.DomainEvent{
				StreamID:   streamID,
				StreamType: streamType,
				TenantID:   tenantID,
				Version:    current + int64(i) + 1,
				EventType:  event.Type,
				Payload:    payload,
				Metadata:   metadata,
			})
		}

		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to append events: %w", err)
		}

		newVersion = current + int64(len(events))
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newVersion, nil
}

// Load returns the events of a stream with version greater than fromVersion,
// ordered by version. Pass 0 to read the whole stream.
func (s *Store) Load(ctx context.Context, streamID string, fromVersion int64) ([]audit.DomainEvent, error) {
	var records []audit.DomainEvent
	err := s.db.WithContext(ctx).
		Where("stream_id = ? AND version > ?", streamID, fromVersion).
		Order("version ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stream %s: %w", streamID, err)
	}
	return records, nil
}

// StreamVersion returns the current head version of a stream, 0 if empty.
func (s *Store) StreamVersion(ctx context.Context, streamID string) (int64, error) {
	var current int64
	err := s.db.WithContext(ctx).Model(&audit.DomainEvent{}).
		Where("stream_id = ?", streamID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read stream version: %w", err)
	}
	return current, nil
}

// AppendAsync appends without blocking the caller. Failures are logged;
// callers that need the version or conflict detection use Append directly.
func (s *Store) AppendAsync(streamType, streamID string, tenantID *uuid.UUID, events ...Event) {
	go func() {
		if _, err := s.Append(context.Background(), streamType, streamID, tenantID, AnyVersion, events...); err != nil {
			log.Printf("❌ Failed to append events to %s: %v", streamID, err)
		}
	}()
}
