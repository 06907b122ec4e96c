package repository

import (
	"context"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

type TodoRepository interface {
	Create(ctx context.Context, item *model.TodoItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error)
	List(ctx context.Context) ([]model.TodoItem, error)
	Update(ctx context.Context, item *model.TodoItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

// ListRecent returns the latest messages in chronological order.
func (r *chatRepository) ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	if err := GetDB(ctx, r.db).Order("created_at DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	// Reverse so the oldest comes first
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, item *model.TodoItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *todoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error) {
	var item model.TodoItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *todoRepository) List(ctx context.Context) ([]model.TodoItem, error) {
	var items []model.TodoItem
	if err := GetDB(ctx, r.db).Order("done ASC, created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *todoRepository) Update(ctx context.Context, item *model.TodoItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TodoItem{}).Error
}
