package database

import (
	"log"

	"transitflow/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.SessionAuditEvent{},
		&model.Client{},
		&model.BillOfLading{},
		&model.Container{},
		&model.WorkType{},
		&model.Expense{},
		&model.Truck{},
		&model.Driver{},
		&model.Transport{},
		&model.AccountingEntry{},
		&model.SecretaryDocument{},
		&model.ChatMessage{},
		&model.TodoItem{},
		&model.ApprovalRequest{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
