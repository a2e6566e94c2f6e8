package models

import (
	"github.com/google/uuid"

	"saasgrid-backend/shared/utils/audit"
)

// User statuses
const (
	UserStatusPending  = "PENDING"
	UserStatusActive   = "ACTIVE"
	UserStatusDisabled = "DISABLED"
	UserStatusDeleted  = "DELETED"
)

// User is a tenant member. Email is unique within a tenant.
type User struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_tenant_email;index"`
	Email          string     `json:"email" gorm:"size:255;not null;uniqueIndex:idx_user_tenant_email"`
	Password       string     `json:"-" gorm:"not null"`
	FirstName      string     `json:"first_name" gorm:"size:100"`
	LastName       string     `json:"last_name" gorm:"size:100"`
	Phone          string     `json:"phone" gorm:"size:20"`
	Avatar         string     `json:"avatar"`
	Status         string     `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid"`
	DepartmentID   *uuid.UUID `json:"department_id" gorm:"type:uuid"`
	RoleID         *uuid.UUID `json:"role_id" gorm:"type:uuid"`
	audit.Info     `gorm:"embedded"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Department   *Department   `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Role         *Role         `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
