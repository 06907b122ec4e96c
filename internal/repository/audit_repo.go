package repository

import (
	"context"

	"transitflow/internal/model"

	"gorm.io/gorm"
)

type SessionAuditRepository interface {
	Log(ctx context.Context, event *model.SessionAuditEvent) error
	List(ctx context.Context, page, limit int) ([]model.SessionAuditEvent, int64, error)
}

type sessionAuditRepository struct {
	db *gorm.DB
}

func NewSessionAuditRepository(db *gorm.DB) SessionAuditRepository {
	return &sessionAuditRepository{db: db}
}

func (r *sessionAuditRepository) Log(ctx context.Context, event *model.SessionAuditEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *sessionAuditRepository) List(ctx context.Context, page, limit int) ([]model.SessionAuditEvent, int64, error) {
	var events []model.SessionAuditEvent
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SessionAuditEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
