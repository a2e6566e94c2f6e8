package models

import (
	"github.com/google/uuid"

	"saasgrid-backend/shared/utils/audit"
)

// Organization statuses
const (
	OrganizationStatusActive   = "ACTIVE"
	OrganizationStatusInactive = "INACTIVE"
	OrganizationStatusDeleted  = "DELETED"
)

// Organization is a business unit inside a tenant. Organizations may nest
// through ParentID; slugs are unique per tenant.
type Organization struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_org_tenant_slug;index"`
	Name       string     `json:"name" gorm:"size:200;not null"`
	Slug       string     `json:"slug" gorm:"size:100;not null;uniqueIndex:idx_org_tenant_slug"`
	Status     string     `json:"status" gorm:"size:20;not null;default:'ACTIVE'"`
	OwnerID    *uuid.UUID `json:"owner_id" gorm:"type:uuid"`
	ParentID   *uuid.UUID `json:"parent_id" gorm:"type:uuid"`
	audit.Info `gorm:"embedded"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
