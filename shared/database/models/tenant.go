package models

import (
	"time"

	"github.com/google/uuid"

	"saasgrid-backend/shared/utils/audit"
)

// Tenant plan types
const (
	TenantTypeFree         = "FREE"
	TenantTypeBasic        = "BASIC"
	TenantTypeProfessional = "PROFESSIONAL"
	TenantTypeEnterprise   = "ENTERPRISE"
	TenantTypeCustom       = "CUSTOM"
)

// Tenant statuses
const (
	TenantStatusPending   = "PENDING"
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
	TenantStatusArchived  = "ARCHIVED"
	TenantStatusDeleted   = "DELETED"
)

// Tenant is the top-level isolation unit. Every other record carries its ID.
type Tenant struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	Slug         string    `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Type         string    `json:"type" gorm:"size:20;not null;default:'FREE'"`
	Status       string    `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	ContactEmail string    `json:"contact_email" gorm:"size:255"`
	audit.Info   `gorm:"embedded"`

	// Relations
	Settings *TenantSettings `json:"settings,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds per-tenant overrides: feature flags, custom quota
// limits (only honored for CUSTOM plans) and locale defaults.
type TenantSettings struct {
	ID                uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID   `json:"tenant_id" gorm:"type:uuid;uniqueIndex;not null"`
	MaxUsers          *int        `json:"max_users,omitempty"`
	MaxStorageMB      *int64      `json:"max_storage_mb,omitempty"`
	MaxAPICallsPerDay *int64      `json:"max_api_calls_per_day,omitempty"`
	Features          interface{} `json:"features,omitempty" gorm:"type:jsonb"`
	Locale            string      `json:"locale" gorm:"size:20;default:'en-US'"`
	Timezone          string      `json:"timezone" gorm:"size:50;default:'UTC'"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// TableName returns the table name for TenantSettings
func (TenantSettings) TableName() string {
	return "tenant_settings"
}
