package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransportFilter narrows transport listings
type TransportFilter struct {
	TruckID  *uuid.UUID
	DriverID *uuid.UUID
	BLID     *uuid.UUID
	Status   string
	Page     int
	Limit    int
}

type TransportRepository interface {
	Create(ctx context.Context, transport *model.Transport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transport, error)
	List(ctx context.Context, filter TransportFilter) ([]model.Transport, int64, error)
	Update(ctx context.Context, transport *model.Transport) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type transportRepository struct {
	db *gorm.DB
}

func NewTransportRepository(db *gorm.DB) TransportRepository {
	return &transportRepository{db: db}
}

func (r *transportRepository) Create(ctx context.Context, transport *model.Transport) error {
	return GetDB(ctx, r.db).Create(transport).Error
}

func (r *transportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transport, error) {
	var transport model.Transport
	if err := GetDB(ctx, r.db).Preload("Truck").Preload("Driver").
		First(&transport, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transport, nil
}

func (r *transportRepository) List(ctx context.Context, filter TransportFilter) ([]model.Transport, int64, error) {
	var transports []model.Transport
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Transport{})
	if filter.TruckID != nil {
		query = query.Where("truck_id = ?", *filter.TruckID)
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.BLID != nil {
		query = query.Where("bl_id = ?", *filter.BLID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Truck").Preload("Driver").
		Order("scheduled_at DESC NULLS LAST, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&transports).Error; err != nil {
		return nil, 0, err
	}

	return transports, total, nil
}

func (r *transportRepository) Update(ctx context.Context, transport *model.Transport) error {
	return GetDB(ctx, r.db).Save(transport).Error
}

func (r *transportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Transport{}).Error
}
