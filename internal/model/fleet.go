package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Truck represents a vehicle of the company fleet
type Truck struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Plate      string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"plate"`
	Brand      string         `gorm:"type:varchar(100)" json:"brand"`
	Model      string         `gorm:"type:varchar(100)" json:"model"`
	CapacityKg float64        `gorm:"default:0" json:"capacity_kg"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Driver represents a truck driver
type Driver struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	LicenseNumber string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Phone         string         `gorm:"type:varchar(50)" json:"phone"`
	HiredAt       *time.Time     `json:"hired_at"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
