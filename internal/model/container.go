package model

import (
	"time"

	"github.com/google/uuid"
)

// ContainerType enum constants
const (
	ContainerType20GP   = "20GP"
	ContainerType40GP   = "40GP"
	ContainerType40HC   = "40HC"
	ContainerTypeReefer = "REEFER"
	ContainerTypeOther  = "OTHER"
)

// Container represents a shipping container attached to a bill of lading
type Container struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BLID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"bl_id"`
	BL              *BillOfLading `gorm:"foreignKey:BLID" json:"bl,omitempty"`
	ContainerNumber string        `gorm:"type:varchar(20);not null" json:"container_number"`
	Type            string        `gorm:"type:varchar(10);not null;default:'OTHER'" json:"type"` // 20GP, 40GP, 40HC, REEFER, OTHER
	WeightKg        float64       `gorm:"default:0" json:"weight_kg"`
	Status          string        `gorm:"type:varchar(30)" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
