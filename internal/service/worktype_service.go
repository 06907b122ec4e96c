package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateWorkTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateWorkTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type WorkTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

type WorkTypeService interface {
	CreateWorkType(ctx context.Context, req CreateWorkTypeRequest) (WorkTypeResponse, error)
	ListWorkTypes(ctx context.Context) ([]WorkTypeResponse, error)
	UpdateWorkType(ctx context.Context, id string, req UpdateWorkTypeRequest) (WorkTypeResponse, error)
	DeleteWorkType(ctx context.Context, id string) error
}

type workTypeService struct {
	repo repository.WorkTypeRepository
}

func NewWorkTypeService(repo repository.WorkTypeRepository) WorkTypeService {
	return &workTypeService{repo: repo}
}

func (s *workTypeService) CreateWorkType(ctx context.Context, req CreateWorkTypeRequest) (WorkTypeResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return WorkTypeResponse{}, errors.New("work type already exists")
	}

	wt := model.WorkType{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, &wt); err != nil {
		return WorkTypeResponse{}, fmt.Errorf("failed to create work type: %w", err)
	}

	return toWorkTypeResponse(wt), nil
}

func (s *workTypeService) ListWorkTypes(ctx context.Context) ([]WorkTypeResponse, error) {
	wts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch work types: %w", err)
	}

	res := make([]WorkTypeResponse, 0, len(wts))
	for _, wt := range wts {
		res = append(res, toWorkTypeResponse(wt))
	}
	return res, nil
}

func (s *workTypeService) UpdateWorkType(ctx context.Context, id string, req UpdateWorkTypeRequest) (WorkTypeResponse, error) {
	wtID, err := uuid.Parse(id)
	if err != nil {
		return WorkTypeResponse{}, fmt.Errorf("invalid work type id: %w", err)
	}

	wt, err := s.repo.FindByID(ctx, wtID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkTypeResponse{}, errors.New("work type not found")
		}
		return WorkTypeResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != "" && req.Name != wt.Name {
		if _, nameErr := s.repo.FindByName(ctx, req.Name); nameErr == nil {
			return WorkTypeResponse{}, errors.New("work type already exists")
		}
		wt.Name = req.Name
	}
	if req.Description != "" {
		wt.Description = req.Description
	}
	if req.IsActive != nil {
		wt.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, wt); err != nil {
		return WorkTypeResponse{}, fmt.Errorf("failed to update work type: %w", err)
	}

	return toWorkTypeResponse(*wt), nil
}

func (s *workTypeService) DeleteWorkType(ctx context.Context, id string) error {
	wtID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid work type id: %w", err)
	}
	if _, err := s.repo.FindByID(ctx, wtID); err != nil {
		return errors.New("work type not found")
	}
	return s.repo.Delete(ctx, wtID)
}

func toWorkTypeResponse(wt model.WorkType) WorkTypeResponse {
	return WorkTypeResponse{
		ID:          wt.ID.String(),
		Name:        wt.Name,
		Description: wt.Description,
		IsActive:    wt.IsActive,
		CreatedAt:   wt.CreatedAt.Format(time.RFC3339),
	}
}
