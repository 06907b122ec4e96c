package service

import (
	"context"
	"fmt"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"
)

type SessionEventResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Action    string `json:"action"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type AuditService interface {
	ListSessionEvents(ctx context.Context, page, limit int) ([]SessionEventResponse, int64, error)
}

type auditService struct {
	auditRepo repository.SessionAuditRepository
}

func NewAuditService(auditRepo repository.SessionAuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListSessionEvents(ctx context.Context, page, limit int) ([]SessionEventResponse, int64, error) {
	events, total, err := s.auditRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch session events: %w", err)
	}

	res := make([]SessionEventResponse, 0, len(events))
	for _, event := range events {
		res = append(res, toSessionEventResponse(event))
	}
	return res, total, nil
}

func toSessionEventResponse(event model.SessionAuditEvent) SessionEventResponse {
	res := SessionEventResponse{
		ID:        event.ID.String(),
		UserID:    event.UserID.String(),
		Action:    event.Action,
		Email:     event.Email,
		CreatedAt: event.CreatedAt.Format(time.RFC3339),
	}
	if event.User != nil {
		res.UserName = event.User.DisplayName
	}
	return res
}
