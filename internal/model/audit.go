package model

import (
	"time"

	"github.com/google/uuid"
)

// Session audit actions
const (
	SessionActionLogin  = "LOGIN"
	SessionActionLogout = "LOGOUT"
)

// SessionAuditEvent tracks sign-in and sign-out of user sessions
type SessionAuditEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string    `gorm:"type:varchar(20);not null;index" json:"action"` // LOGIN, LOGOUT
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`       // Denormalized for display when the profile changes later
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
