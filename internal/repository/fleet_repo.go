package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TruckRepository interface {
	Create(ctx context.Context, truck *model.Truck) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Truck, error)
	List(ctx context.Context, page, limit int) ([]model.Truck, int64, error)
	Update(ctx context.Context, truck *model.Truck) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DriverRepository interface {
	Create(ctx context.Context, driver *model.Driver) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	List(ctx context.Context, page, limit int) ([]model.Driver, int64, error)
	Update(ctx context.Context, driver *model.Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type truckRepository struct {
	db *gorm.DB
}

func NewTruckRepository(db *gorm.DB) TruckRepository {
	return &truckRepository{db: db}
}

func (r *truckRepository) Create(ctx context.Context, truck *model.Truck) error {
	return GetDB(ctx, r.db).Create(truck).Error
}

func (r *truckRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Truck, error) {
	var truck model.Truck
	if err := GetDB(ctx, r.db).First(&truck, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}

func (r *truckRepository) List(ctx context.Context, page, limit int) ([]model.Truck, int64, error) {
	var trucks []model.Truck
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Truck{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("plate ASC").Offset(offset).Limit(limit).Find(&trucks).Error; err != nil {
		return nil, 0, err
	}

	return trucks, total, nil
}

func (r *truckRepository) Update(ctx context.Context, truck *model.Truck) error {
	return GetDB(ctx, r.db).Save(truck).Error
}

func (r *truckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Truck{}).Error
}

type driverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) Create(ctx context.Context, driver *model.Driver) error {
	return GetDB(ctx, r.db).Create(driver).Error
}

func (r *driverRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	if err := GetDB(ctx, r.db).First(&driver, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepository) List(ctx context.Context, page, limit int) ([]model.Driver, int64, error) {
	var drivers []model.Driver
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Driver{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&drivers).Error; err != nil {
		return nil, 0, err
	}

	return drivers, total, nil
}

func (r *driverRepository) Update(ctx context.Context, driver *model.Driver) error {
	return GetDB(ctx, r.db).Save(driver).Error
}

func (r *driverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Driver{}).Error
}
