package repository

import (
	"context"
	"time"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountingFilter narrows journal listings
type AccountingFilter struct {
	BLID     *uuid.UUID
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

type AccountingRepository interface {
	Create(ctx context.Context, entry *model.AccountingEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AccountingEntry, error)
	List(ctx context.Context, filter AccountingFilter) ([]model.AccountingEntry, int64, error)
	Update(ctx context.Context, entry *model.AccountingEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountingRepository struct {
	db *gorm.DB
}

func NewAccountingRepository(db *gorm.DB) AccountingRepository {
	return &accountingRepository{db: db}
}

func (r *accountingRepository) Create(ctx context.Context, entry *model.AccountingEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *accountingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AccountingEntry, error) {
	var entry model.AccountingEntry
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *accountingRepository) List(ctx context.Context, filter AccountingFilter) ([]model.AccountingEntry, int64, error) {
	var entries []model.AccountingEntry
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.AccountingEntry{})
	if filter.BLID != nil {
		query = query.Where("bl_id = ?", *filter.BLID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		query = query.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("entry_date DESC").Offset(offset).Limit(filter.Limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *accountingRepository) Update(ctx context.Context, entry *model.AccountingEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *accountingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.AccountingEntry{}).Error
}
