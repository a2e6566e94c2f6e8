package models

import (
	"github.com/google/uuid"

	"saasgrid-backend/shared/utils/audit"
)

// Role groups permissions for users within a tenant. Roles may be global to
// the tenant or scoped to one organization.
type Role struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name           string     `json:"name" gorm:"size:100;not null"`
	Description    string     `json:"description" gorm:"type:text"`
	IsDefault      bool       `json:"is_default" gorm:"default:false"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid"`
	audit.Info     `gorm:"embedded"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

// TableName returns the table name for Role
func (Role) TableName() string {
	return "roles"
}
