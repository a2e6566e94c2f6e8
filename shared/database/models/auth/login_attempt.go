package auth

import (
	"time"

	"github.com/google/uuid"
)

// LoginAttempt records successes and failures per email+IP pair and backs
// the auth-service login rate limiter.
type LoginAttempt struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string     `json:"email" gorm:"size:255;not null;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:50;not null"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
	Successful   bool       `json:"successful" gorm:"default:false"`
	FailureType  string     `json:"failure_type" gorm:"size:100"` // wrong_password, user_not_found, account_inactive, tenant_inactive
	Attempts     int        `json:"attempts" gorm:"default:1"`
	LastAttempt  time.Time  `json:"last_attempt" gorm:"not null"`
	BlockedUntil *time.Time `json:"blocked_until"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
