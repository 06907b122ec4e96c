package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BLFilter narrows bill-of-lading listings
type BLFilter struct {
	ClientID *uuid.UUID
	Status   string
	Page     int
	Limit    int
}

type BLRepository interface {
	Create(ctx context.Context, bl *model.BillOfLading) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BillOfLading, error)
	FindByNumber(ctx context.Context, blNumber string) (*model.BillOfLading, error)
	List(ctx context.Context, filter BLFilter) ([]model.BillOfLading, int64, error)
	Update(ctx context.Context, bl *model.BillOfLading) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumExpenses(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

type blRepository struct {
	db *gorm.DB
}

func NewBLRepository(db *gorm.DB) BLRepository {
	return &blRepository{db: db}
}

func (r *blRepository) Create(ctx context.Context, bl *model.BillOfLading) error {
	return GetDB(ctx, r.db).Create(bl).Error
}

func (r *blRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BillOfLading, error) {
	var bl model.BillOfLading
	if err := GetDB(ctx, r.db).Preload("Client").First(&bl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bl, nil
}

func (r *blRepository) FindByNumber(ctx context.Context, blNumber string) (*model.BillOfLading, error) {
	var bl model.BillOfLading
	if err := GetDB(ctx, r.db).First(&bl, "bl_number = ?", blNumber).Error; err != nil {
		return nil, err
	}
	return &bl, nil
}

func (r *blRepository) List(ctx context.Context, filter BLFilter) ([]model.BillOfLading, int64, error) {
	var bls []model.BillOfLading
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BillOfLading{})
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Client").
		Order("created_at DESC").Offset(offset).Limit(filter.Limit).
		Find(&bls).Error; err != nil {
		return nil, 0, err
	}

	return bls, total, nil
}

func (r *blRepository) Update(ctx context.Context, bl *model.BillOfLading) error {
	return GetDB(ctx, r.db).Save(bl).Error
}

func (r *blRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BillOfLading{}).Error
}

// SumExpenses totals all expense amounts charged against a BL.
func (r *blRepository) SumExpenses(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Where("bl_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
