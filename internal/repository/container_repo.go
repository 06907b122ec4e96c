package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContainerRepository interface {
	Create(ctx context.Context, container *model.Container) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Container, error)
	ListByBL(ctx context.Context, blID uuid.UUID) ([]model.Container, error)
	Update(ctx context.Context, container *model.Container) error
	// Delete removes a container scoped to its owning BL. The BL scope
	// guards against deleting a container through a stale reference.
	Delete(ctx context.Context, blID, id uuid.UUID) error
}

type containerRepository struct {
	db *gorm.DB
}

func NewContainerRepository(db *gorm.DB) ContainerRepository {
	return &containerRepository{db: db}
}

func (r *containerRepository) Create(ctx context.Context, container *model.Container) error {
	return GetDB(ctx, r.db).Create(container).Error
}

func (r *containerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Container, error) {
	var container model.Container
	if err := GetDB(ctx, r.db).First(&container, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &container, nil
}

func (r *containerRepository) ListByBL(ctx context.Context, blID uuid.UUID) ([]model.Container, error) {
	var containers []model.Container
	if err := GetDB(ctx, r.db).Where("bl_id = ?", blID).
		Order("container_number ASC").Find(&containers).Error; err != nil {
		return nil, err
	}
	return containers, nil
}

func (r *containerRepository) Update(ctx context.Context, container *model.Container) error {
	return GetDB(ctx, r.db).Save(container).Error
}

func (r *containerRepository) Delete(ctx context.Context, blID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND bl_id = ?", id, blID).Delete(&model.Container{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
