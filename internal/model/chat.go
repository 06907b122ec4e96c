package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage represents one message in the office chat room
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName  string    `gorm:"type:varchar(255);not null" json:"user_name"` // Denormalized for display
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TodoItem represents a shared task on the team todo board
type TodoItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Done        bool       `gorm:"default:false" json:"done"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by_id"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
