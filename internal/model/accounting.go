package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountingEntry represents a journal line, optionally tied to a BL or client
type AccountingEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntryDate time.Time       `gorm:"not null;index" json:"entry_date"`
	Label     string          `gorm:"type:varchar(255);not null" json:"label"`
	BLID      *uuid.UUID      `gorm:"type:uuid;index" json:"bl_id"`
	ClientID  *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"debit"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit"`
	Reference string          `gorm:"type:varchar(100)" json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SecretaryDocument represents a filed administrative document
type SecretaryDocument struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	DocType   string     `gorm:"type:varchar(50)" json:"doc_type"`
	ClientID  *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	BLID      *uuid.UUID `gorm:"type:uuid;index" json:"bl_id"`
	FileURL   string     `gorm:"type:text" json:"file_url"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
