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

type CreateContainerRequest struct {
	BLID            string  `json:"bl_id"` // set from the route path by the handler
	ContainerNumber string  `json:"container_number" binding:"required"`
	Type            string  `json:"type" binding:"omitempty,oneof=20GP 40GP 40HC REEFER OTHER"`
	WeightKg        float64 `json:"weight_kg" binding:"omitempty,gte=0"`
	Status          string  `json:"status"`
}

type UpdateContainerRequest struct {
	ContainerNumber string   `json:"container_number"`
	Type            string   `json:"type" binding:"omitempty,oneof=20GP 40GP 40HC REEFER OTHER"`
	WeightKg        *float64 `json:"weight_kg" binding:"omitempty,gte=0"`
	Status          string   `json:"status"`
}

type ContainerResponse struct {
	ID              string  `json:"id"`
	BLID            string  `json:"bl_id"`
	ContainerNumber string  `json:"container_number"`
	Type            string  `json:"type"`
	WeightKg        float64 `json:"weight_kg"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

type ContainerService interface {
	CreateContainer(ctx context.Context, req CreateContainerRequest) (ContainerResponse, error)
	GetContainer(ctx context.Context, id string) (ContainerResponse, error)
	ListByBL(ctx context.Context, blID string) ([]ContainerResponse, error)
	UpdateContainer(ctx context.Context, id string, req UpdateContainerRequest) (ContainerResponse, error)
	DeleteContainer(ctx context.Context, blID, id string) error
}

type containerService struct {
	containerRepo repository.ContainerRepository
	blRepo        repository.BLRepository
}

func NewContainerService(containerRepo repository.ContainerRepository, blRepo repository.BLRepository) ContainerService {
	return &containerService{containerRepo: containerRepo, blRepo: blRepo}
}

func (s *containerService) CreateContainer(ctx context.Context, req CreateContainerRequest) (ContainerResponse, error) {
	blID, err := uuid.Parse(req.BLID)
	if err != nil {
		return ContainerResponse{}, fmt.Errorf("invalid BL id: %w", err)
	}

	if _, err := s.blRepo.FindByID(ctx, blID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContainerResponse{}, errors.New("BL not found")
		}
		return ContainerResponse{}, fmt.Errorf("database error: %w", err)
	}

	containerType := req.Type
	if containerType == "" {
		containerType = model.ContainerTypeOther
	}

	container := model.Container{
		BLID:            blID,
		ContainerNumber: req.ContainerNumber,
		Type:            containerType,
		WeightKg:        req.WeightKg,
		Status:          req.Status,
	}

	if err := s.containerRepo.Create(ctx, &container); err != nil {
		return ContainerResponse{}, fmt.Errorf("failed to create container: %w", err)
	}

	return toContainerResponse(container), nil
}

func (s *containerService) GetContainer(ctx context.Context, id string) (ContainerResponse, error) {
	containerID, err := uuid.Parse(id)
	if err != nil {
		return ContainerResponse{}, fmt.Errorf("invalid container id: %w", err)
	}

	container, err := s.containerRepo.FindByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContainerResponse{}, errors.New("container not found")
		}
		return ContainerResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toContainerResponse(*container), nil
}

func (s *containerService) ListByBL(ctx context.Context, blID string) ([]ContainerResponse, error) {
	parsed, err := uuid.Parse(blID)
	if err != nil {
		return nil, fmt.Errorf("invalid BL id: %w", err)
	}

	containers, err := s.containerRepo.ListByBL(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch containers: %w", err)
	}

	res := make([]ContainerResponse, 0, len(containers))
	for _, c := range containers {
		res = append(res, toContainerResponse(c))
	}
	return res, nil
}

func (s *containerService) UpdateContainer(ctx context.Context, id string, req UpdateContainerRequest) (ContainerResponse, error) {
	containerID, err := uuid.Parse(id)
	if err != nil {
		return ContainerResponse{}, fmt.Errorf("invalid container id: %w", err)
	}

	container, err := s.containerRepo.FindByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContainerResponse{}, errors.New("container not found")
		}
		return ContainerResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.ContainerNumber != "" {
		container.ContainerNumber = req.ContainerNumber
	}
	if req.Type != "" {
		container.Type = req.Type
	}
	if req.WeightKg != nil {
		container.WeightKg = *req.WeightKg
	}
	if req.Status != "" {
		container.Status = req.Status
	}

	if err := s.containerRepo.Update(ctx, container); err != nil {
		return ContainerResponse{}, fmt.Errorf("failed to update container: %w", err)
	}

	return toContainerResponse(*container), nil
}

func (s *containerService) DeleteContainer(ctx context.Context, blID, id string) error {
	parsedBL, err := uuid.Parse(blID)
	if err != nil {
		return fmt.Errorf("invalid BL id: %w", err)
	}
	containerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid container id: %w", err)
	}

	if err := s.containerRepo.Delete(ctx, parsedBL, containerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("container not found")
		}
		return fmt.Errorf("failed to delete container: %w", err)
	}
	return nil
}

func toContainerResponse(c model.Container) ContainerResponse {
	return ContainerResponse{
		ID:              c.ID.String(),
		BLID:            c.BLID.String(),
		ContainerNumber: c.ContainerNumber,
		Type:            c.Type,
		WeightKg:        c.WeightKg,
		Status:          c.Status,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}
