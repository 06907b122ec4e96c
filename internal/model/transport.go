package model

import (
	"time"

	"github.com/google/uuid"
)

// TransportStatus enum constants
const (
	TransportStatusPlanned    = "PLANNED"
	TransportStatusInProgress = "IN_PROGRESS"
	TransportStatusDone       = "DONE"
	TransportStatusCancelled  = "CANCELLED"
)

// Transport represents a trucking leg moving a container between two points
type Transport struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TruckID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"truck_id"`
	Truck       *Truck        `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	DriverID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"driver_id"`
	Driver      *Driver       `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	BLID        *uuid.UUID    `gorm:"type:uuid;index" json:"bl_id"`
	BL          *BillOfLading `gorm:"foreignKey:BLID" json:"bl,omitempty"`
	ContainerID *uuid.UUID    `gorm:"type:uuid;index" json:"container_id"`
	Origin      string        `gorm:"type:varchar(255)" json:"origin"`
	Destination string        `gorm:"type:varchar(255)" json:"destination"`
	ScheduledAt *time.Time    `json:"scheduled_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	Status      string        `gorm:"type:varchar(20);not null;default:'PLANNED';index" json:"status"` // PLANNED, IN_PROGRESS, DONE, CANCELLED
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
