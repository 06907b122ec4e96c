package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalFilter narrows approval listings
type ApprovalFilter struct {
	Status        string
	RequestedByID *uuid.UUID
	Page          int
	Limit         int
}

type ApprovalRepository interface {
	Create(ctx context.Context, req *model.ApprovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error)
	List(ctx context.Context, filter ApprovalFilter) ([]model.ApprovalRequest, int64, error)
	Update(ctx context.Context, req *model.ApprovalRequest) error
	CountActive(ctx context.Context, entityType string, entityID uuid.UUID, actionType string) (int64, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, req *model.ApprovalRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *approvalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	var req model.ApprovalRequest
	if err := GetDB(ctx, r.db).Preload("ProcessedBy").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *approvalRepository) List(ctx context.Context, filter ApprovalFilter) ([]model.ApprovalRequest, int64, error) {
	var requests []model.ApprovalRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.ApprovalRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RequestedByID != nil {
		query = query.Where("requested_by_id = ?", *filter.RequestedByID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("ProcessedBy").
		Order("created_at DESC").Offset(offset).Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *approvalRepository) Update(ctx context.Context, req *model.ApprovalRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

// CountActive counts pending or pin_issued requests for the same target and action.
func (r *approvalRepository) CountActive(ctx context.Context, entityType string, entityID uuid.UUID, actionType string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.ApprovalRequest{}).
		Where("entity_type = ? AND entity_id = ? AND action_type = ?", entityType, entityID, actionType).
		Where("status IN ?", []string{model.ApprovalPending, model.ApprovalPinIssued}).
		Count(&count).Error
	return count, err
}
