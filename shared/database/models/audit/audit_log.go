package audit

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is one gateway request record.
type AuditLog struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	UserID     *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Method     string     `json:"method" gorm:"type:varchar(10);not null"`
	Path       string     `json:"path" gorm:"type:varchar(500);not null"`
	StatusCode int        `json:"status_code" gorm:"not null;index"`
	IPAddress  string     `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent  string     `json:"user_agent" gorm:"type:text"`
	Duration   int64      `json:"duration_ms" gorm:"not null"` // milliseconds
	RequestID  string     `json:"request_id" gorm:"type:varchar(100);index"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
