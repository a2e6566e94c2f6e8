package audit

import (
	"time"

	"github.com/google/uuid"
)

// Info carries who/when bookkeeping for every persisted record. It is
// embedded into the gorm models so the columns live on each table.
type Info struct {
	CreatedBy *uuid.UUID `json:"created_by,omitempty" gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty" gorm:"type:uuid"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
	Version   int64      `json:"version" gorm:"not null;default:1"`
}

// IsDeleted reports whether the record is soft deleted.
func (i Info) IsDeleted() bool {
	return i.DeletedAt != nil
}

// Touch stamps an update and bumps the optimistic lock version.
func (i *Info) Touch(by *uuid.UUID) {
	now := time.Now().UTC()
	i.UpdatedAt = now
	if by != nil {
		i.UpdatedBy = by
	}
	i.Version++
}

// MarkDeleted records a soft delete. Calling it twice keeps the original
// deletion stamp.
func (i *Info) MarkDeleted(by *uuid.UUID) {
	if i.DeletedAt != nil {
		return
	}
	now := time.Now().UTC()
	i.DeletedAt = &now
	i.DeletedBy = by
	i.Touch(by)
}

// Restore clears a soft delete.
func (i *Info) Restore(by *uuid.UUID) {
	if i.DeletedAt == nil {
		return
	}
	i.DeletedAt = nil
	i.DeletedBy = nil
	i.Touch(by)
}

// Builder assembles an Info for a freshly created record.
type Builder struct {
	createdBy *uuid.UUID
	updatedBy *uuid.UUID
	at        *time.Time
}

// NewBuilder returns an empty audit info builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithCreatedBy sets the creating actor.
func (b *Builder) WithCreatedBy(id uuid.UUID) *Builder {
	b.createdBy = &id
	return b
}

// WithUpdatedBy sets the updating actor. When unset, Build falls back to
// the creating actor.
func (b *Builder) WithUpdatedBy(id uuid.UUID) *Builder {
	b.updatedBy = &id
	return b
}

// WithTimestamp pins creation/update time, mainly for tests and imports.
func (b *Builder) WithTimestamp(at time.Time) *Builder {
	utc := at.UTC()
	b.at = &utc
	return b
}

// Build produces the Info. It does not mutate the builder, so repeated
// calls with the same configuration return equal values.
func (b *Builder) Build() Info {
	at := time.Now().UTC()
	if b.at != nil {
		at = *b.at
	}

	updatedBy := b.updatedBy
	if updatedBy == nil {
		updatedBy = b.createdBy
	}

	return Info{
		CreatedBy: b.createdBy,
		UpdatedBy: updatedBy,
		CreatedAt: at,
		UpdatedAt: at,
		Version:   1,
	}
}
