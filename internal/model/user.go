package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// JobTitle enum constants (free-form set shown in the user-management screen)
const (
	JobTitleOperations = "Agent Opérationnel"
	JobTitleSecretary  = "Secrétaire"
	JobTitleAccountant = "Comptable"
	JobTitleManager    = "Manager"
	JobTitleOther      = "Autre"
)

// User represents an authenticated profile. Profiles are created at signup
// with role employee; emails configured as admins are promoted lazily.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName string         `gorm:"type:varchar(255);not null" json:"display_name"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role        string         `gorm:"type:varchar(20);not null;default:'employee'" json:"role"` // admin, employee
	JobTitle    string         `gorm:"type:varchar(50)" json:"job_title"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
