package model

import (
	"time"

	"github.com/google/uuid"
)

// Guarded entity types. Deleting or editing one of these requires an
// admin-approved request; the set is closed.
const (
	ApprovalEntityBL        = "bl"
	ApprovalEntityClient    = "client"
	ApprovalEntityWorkType  = "workType"
	ApprovalEntityExpense   = "expense"
	ApprovalEntityContainer = "container"
)

// Requestable actions
const (
	ApprovalActionEdit   = "edit"
	ApprovalActionDelete = "delete"
)

// Approval request lifecycle states
const (
	ApprovalPending   = "pending"
	ApprovalApproved  = "approved"
	ApprovalRejected  = "rejected"
	ApprovalPinIssued = "pin_issued"
	ApprovalCompleted = "completed"
)

// ApprovalRequest is an employee's petition to edit or delete a guarded
// entity. ParentID carries the owning BL for container targets, since a
// container can only be addressed through its dossier.
type ApprovalRequest struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestedByID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"requested_by_id"`
	RequestedByName   string     `gorm:"type:varchar(255);not null" json:"requested_by_name"` // Denormalized for display
	EntityType        string     `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"entity_id"`
	ParentID          *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	EntityDescription string     `gorm:"type:text" json:"entity_description"`
	ActionType        string     `gorm:"type:varchar(20);not null" json:"action_type"` // edit, delete
	Reason            string     `gorm:"type:text;not null" json:"reason"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes        string     `gorm:"type:text" json:"admin_notes"`
	PinCode           *string    `gorm:"type:varchar(6)" json:"-"` // never serialized; surfaced once at issuance
	PinExpiresAt      *time.Time `json:"pin_expires_at"`
	ProcessedByID     *uuid.UUID `gorm:"type:uuid" json:"processed_by_id"`
	ProcessedBy       *User      `gorm:"foreignKey:ProcessedByID" json:"processed_by,omitempty"`
	ProcessedAt       *time.Time `json:"processed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ValidApprovalEntityType reports whether t belongs to the guarded set.
func ValidApprovalEntityType(t string) bool {
	switch t {
	case ApprovalEntityBL, ApprovalEntityClient, ApprovalEntityWorkType, ApprovalEntityExpense, ApprovalEntityContainer:
		return true
	}
	return false
}

// ApprovalActive reports whether a request in the given status still blocks
// new requests for the same target.
func ApprovalActive(status string) bool {
	return status == ApprovalPending || status == ApprovalPinIssued
}
