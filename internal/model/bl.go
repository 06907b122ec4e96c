package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BLStatus enum constants
const (
	BLStatusOpen      = "OPEN"
	BLStatusInTransit = "IN_TRANSIT"
	BLStatusArrived   = "ARRIVED"
	BLStatusClosed    = "CLOSED"
)

// BillOfLading represents a shipment record with an allocated budget against
// which expenses are tracked
type BillOfLading struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BLNumber        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"bl_number"`
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	OriginPort      string          `gorm:"type:varchar(255)" json:"origin_port"`
	DestinationPort string          `gorm:"type:varchar(255)" json:"destination_port"`
	Vessel          string          `gorm:"type:varchar(255)" json:"vessel"`
	Status          string          `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"` // OPEN, IN_TRANSIT, ARRIVED, CLOSED
	Budget          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"budget"`
	Categories      string          `gorm:"type:jsonb" json:"categories"`     // JSON array of tags
	SubCategories   string          `gorm:"type:jsonb" json:"sub_categories"` // JSON array of tags
	Description     string          `gorm:"type:text" json:"description"`
	ArrivalDate     *time.Time      `json:"arrival_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
