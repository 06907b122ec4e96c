package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"
	ws "transitflow/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTodoRequest struct {
	Title      string  `json:"title" binding:"required"`
	AssigneeID *string `json:"assignee_id"`
	DueDate    *string `json:"due_date"`
}

type UpdateTodoRequest struct {
	Title      string  `json:"title"`
	Done       *bool   `json:"done"`
	AssigneeID *string `json:"assignee_id"`
	DueDate    *string `json:"due_date"`
}

type TodoResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Done        bool    `json:"done"`
	CreatedByID string  `json:"created_by_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type TodoService interface {
	CreateTodo(ctx context.Context, userID string, req CreateTodoRequest) (TodoResponse, error)
	ListTodos(ctx context.Context) ([]TodoResponse, error)
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (TodoResponse, error)
	DeleteTodo(ctx context.Context, id string) error
}

type todoService struct {
	todoRepo repository.TodoRepository
	userRepo repository.UserRepository
	hub      *ws.Hub
}

func NewTodoService(todoRepo repository.TodoRepository, userRepo repository.UserRepository, hub *ws.Hub) TodoService {
	return &todoService{todoRepo: todoRepo, userRepo: userRepo, hub: hub}
}

func (s *todoService) CreateTodo(ctx context.Context, userID string, req CreateTodoRequest) (TodoResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return TodoResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	assigneeID, err := s.resolveAssignee(ctx, req.AssigneeID)
	if err != nil {
		return TodoResponse{}, err
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return TodoResponse{}, fmt.Errorf("invalid due_date: %w", err)
	}

	item := model.TodoItem{
		Title:       req.Title,
		CreatedByID: uid,
		AssigneeID:  assigneeID,
		DueDate:     dueDate,
	}

	if err := s.todoRepo.Create(ctx, &item); err != nil {
		return TodoResponse{}, fmt.Errorf("failed to create todo: %w", err)
	}

	res := toTodoResponse(item)
	s.publish("todo_created", res)
	return res, nil
}

func (s *todoService) ListTodos(ctx context.Context) ([]TodoResponse, error) {
	items, err := s.todoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todos: %w", err)
	}

	res := make([]TodoResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toTodoResponse(item))
	}
	return res, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (TodoResponse, error) {
	todoID, err := uuid.Parse(id)
	if err != nil {
		return TodoResponse{}, fmt.Errorf("invalid todo id: %w", err)
	}

	item, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TodoResponse{}, errors.New("todo not found")
		}
		return TodoResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Done != nil {
		item.Done = *req.Done
	}
	if req.AssigneeID != nil {
		assigneeID, assignErr := s.resolveAssignee(ctx, req.AssigneeID)
		if assignErr != nil {
			return TodoResponse{}, assignErr
		}
		item.AssigneeID = assigneeID
	}
	if req.DueDate != nil {
		dueDate, dateErr := parseOptionalDate(req.DueDate)
		if dateErr != nil {
			return TodoResponse{}, fmt.Errorf("invalid due_date: %w", dateErr)
		}
		item.DueDate = dueDate
	}

	if err := s.todoRepo.Update(ctx, item); err != nil {
		return TodoResponse{}, fmt.Errorf("failed to update todo: %w", err)
	}

	res := toTodoResponse(*item)
	s.publish("todo_updated", res)
	return res, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id string) error {
	todoID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid todo id: %w", err)
	}
	if _, err := s.todoRepo.FindByID(ctx, todoID); err != nil {
		return errors.New("todo not found")
	}
	if err := s.todoRepo.Delete(ctx, todoID); err != nil {
		return err
	}
	s.publish("todo_deleted", map[string]string{"id": id})
	return nil
}

func (s *todoService) resolveAssignee(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid assignee id: %w", err)
	}
	if _, err := s.userRepo.GetByID(ctx, parsed); err != nil {
		return nil, errors.New("assignee not found")
	}
	return &parsed, nil
}

func (s *todoService) publish(eventType string, data any) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(wsEvent{Type: eventType, Data: data})
	if err != nil {
		log.Printf("todo: failed to marshal %s event: %v", eventType, err)
		return
	}
	s.hub.Broadcast <- payload
}

func toTodoResponse(item model.TodoItem) TodoResponse {
	res := TodoResponse{
		ID:          item.ID.String(),
		Title:       item.Title,
		Done:        item.Done,
		CreatedByID: item.CreatedByID.String(),
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
	if item.AssigneeID != nil {
		assigneeID := item.AssigneeID.String()
		res.AssigneeID = &assigneeID
	}
	if item.DueDate != nil {
		due := item.DueDate.Format(time.RFC3339)
		res.DueDate = &due
	}
	return res
}
