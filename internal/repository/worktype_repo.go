package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkTypeRepository interface {
	Create(ctx context.Context, wt *model.WorkType) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkType, error)
	FindByName(ctx context.Context, name string) (*model.WorkType, error)
	List(ctx context.Context) ([]model.WorkType, error)
	Update(ctx context.Context, wt *model.WorkType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type workTypeRepository struct {
	db *gorm.DB
}

func NewWorkTypeRepository(db *gorm.DB) WorkTypeRepository {
	return &workTypeRepository{db: db}
}

func (r *workTypeRepository) Create(ctx context.Context, wt *model.WorkType) error {
	return GetDB(ctx, r.db).Create(wt).Error
}

func (r *workTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkType, error) {
	var wt model.WorkType
	if err := GetDB(ctx, r.db).First(&wt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *workTypeRepository) FindByName(ctx context.Context, name string) (*model.WorkType, error) {
	var wt model.WorkType
	if err := GetDB(ctx, r.db).First(&wt, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *workTypeRepository) List(ctx context.Context) ([]model.WorkType, error) {
	var wts []model.WorkType
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&wts).Error; err != nil {
		return nil, err
	}
	return wts, nil
}

func (r *workTypeRepository) Update(ctx context.Context, wt *model.WorkType) error {
	return GetDB(ctx, r.db).Save(wt).Error
}

func (r *workTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WorkType{}).Error
}
