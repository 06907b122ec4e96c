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

type CreateClientRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
	TaxCode     string `json:"tax_code"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
}

type UpdateClientRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	TaxCode     string `json:"tax_code"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"is_active"`
}

type ClientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	TaxCode     string `json:"tax_code"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	GetClient(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, page, limit int) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	client := model.Client{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		TaxCode:     req.TaxCode,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, &client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to create client: %w", err)
	}

	return toClientResponse(client), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClientResponse{}, errors.New("client not found")
		}
		return ClientResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toClientResponse(*client), nil
}

func (s *clientService) ListClients(ctx context.Context, page, limit int) ([]ClientResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	clients, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	res := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		res = append(res, toClientResponse(c))
	}
	return res, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClientResponse{}, errors.New("client not found")
		}
		return ClientResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.CompanyName != "" {
		client.CompanyName = req.CompanyName
	}
	if req.TaxCode != "" {
		client.TaxCode = req.TaxCode
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.Address != "" {
		client.Address = req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to update client: %w", err)
	}

	return toClientResponse(*client), nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}
	if _, err := s.repo.FindByID(ctx, clientID); err != nil {
		return errors.New("client not found")
	}
	return s.repo.Delete(ctx, clientID)
}

func toClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		CompanyName: c.CompanyName,
		TaxCode:     c.TaxCode,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
