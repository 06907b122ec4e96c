package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SecretaryDocumentRepository interface {
	Create(ctx context.Context, doc *model.SecretaryDocument) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SecretaryDocument, error)
	List(ctx context.Context, clientID *uuid.UUID, page, limit int) ([]model.SecretaryDocument, int64, error)
	Update(ctx context.Context, doc *model.SecretaryDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type secretaryDocumentRepository struct {
	db *gorm.DB
}

func NewSecretaryDocumentRepository(db *gorm.DB) SecretaryDocumentRepository {
	return &secretaryDocumentRepository{db: db}
}

func (r *secretaryDocumentRepository) Create(ctx context.Context, doc *model.SecretaryDocument) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *secretaryDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SecretaryDocument, error) {
	var doc model.SecretaryDocument
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *secretaryDocumentRepository) List(ctx context.Context, clientID *uuid.UUID, page, limit int) ([]model.SecretaryDocument, int64, error) {
	var docs []model.SecretaryDocument
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.SecretaryDocument{})
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (r *secretaryDocumentRepository) Update(ctx context.Context, doc *model.SecretaryDocument) error {
	return GetDB(ctx, r.db).Save(doc).Error
}

func (r *secretaryDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SecretaryDocument{}).Error
}
