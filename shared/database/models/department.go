package models

import (
	"github.com/google/uuid"

	"saasgrid-backend/shared/utils/audit"
)

// Department statuses
const (
	DepartmentStatusActive   = "ACTIVE"
	DepartmentStatusInactive = "INACTIVE"
	DepartmentStatusDeleted  = "DELETED"
)

// Department is a node in the org-chart tree under an organization. Path is
// the materialized slash-joined code path from the root ("/eng/platform"),
// Level its depth starting at 1. Code must be unique within the parent scope;
// both are enforced by the handlers.
type Department struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	ParentID       *uuid.UUID `json:"parent_id" gorm:"type:uuid"`
	Name           string     `json:"name" gorm:"size:200;not null"`
	Code           string     `json:"code" gorm:"size:50;not null"`
	Path           string     `json:"path" gorm:"size:500;not null;index"`
	Level          int        `json:"level" gorm:"not null;default:1"`
	Status         string     `json:"status" gorm:"size:20;not null;default:'ACTIVE'"`
	audit.Info     `gorm:"embedded"`
}

// TableName returns the table name for Department
func (Department) TableName() string {
	return "departments"
}
