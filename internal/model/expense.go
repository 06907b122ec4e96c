package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a cost entry, optionally charged against a BL budget
type Expense struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BLID       *uuid.UUID      `gorm:"type:uuid;index" json:"bl_id"`
	BL         *BillOfLading   `gorm:"foreignKey:BLID" json:"bl,omitempty"`
	WorkTypeID *uuid.UUID      `gorm:"type:uuid;index" json:"work_type_id"`
	WorkType   *WorkType       `gorm:"foreignKey:WorkTypeID" json:"work_type,omitempty"`
	Label      string          `gorm:"type:varchar(255);not null" json:"label"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Currency   string          `gorm:"type:varchar(10);not null;default:'XOF'" json:"currency"`
	Supplier   string          `gorm:"type:varchar(255)" json:"supplier"`
	IsPaid     bool            `gorm:"default:false" json:"is_paid"`
	ExpenseDate *time.Time     `json:"expense_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// WorkType represents a category of billable work expenses are tagged with
type WorkType struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
