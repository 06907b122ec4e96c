package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	BLID       *uuid.UUID
	WorkTypeID *uuid.UUID
	Page       int
	Limit      int
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("WorkType").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Expense{})
	if filter.BLID != nil {
		query = query.Where("bl_id = ?", *filter.BLID)
	}
	if filter.WorkTypeID != nil {
		query = query.Where("work_type_id = ?", *filter.WorkTypeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("WorkType").
		Order("created_at DESC").Offset(offset).Limit(filter.Limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error
}
