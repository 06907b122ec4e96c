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
)

const chatHistoryLimit = 100

type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type ChatMessageResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// wsEvent is the envelope pushed to connected websocket clients.
type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type ChatService interface {
	PostMessage(ctx context.Context, userID string, req PostMessageRequest) (ChatMessageResponse, error)
	History(ctx context.Context) ([]ChatMessageResponse, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	hub      *ws.Hub
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, hub *ws.Hub) ChatService {
	return &chatService{chatRepo: chatRepo, userRepo: userRepo, hub: hub}
}

func (s *chatService) PostMessage(ctx context.Context, userID string, req PostMessageRequest) (ChatMessageResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ChatMessageResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return ChatMessageResponse{}, errors.New("user not found")
	}

	msg := model.ChatMessage{
		UserID:   uid,
		UserName: user.DisplayName,
		Body:     req.Body,
	}

	if err := s.chatRepo.Create(ctx, &msg); err != nil {
		return ChatMessageResponse{}, fmt.Errorf("failed to save message: %w", err)
	}

	res := toChatMessageResponse(msg)
	s.publish("chat_message", res)
	return res, nil
}

func (s *chatService) History(ctx context.Context) ([]ChatMessageResponse, error) {
	msgs, err := s.chatRepo.ListRecent(ctx, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %w", err)
	}

	res := make([]ChatMessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		res = append(res, toChatMessageResponse(msg))
	}
	return res, nil
}

func (s *chatService) publish(eventType string, data any) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(wsEvent{Type: eventType, Data: data})
	if err != nil {
		log.Printf("chat: failed to marshal %s event: %v", eventType, err)
		return
	}
	s.hub.Broadcast <- payload
}

func toChatMessageResponse(msg model.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        msg.ID.String(),
		UserID:    msg.UserID.String(),
		UserName:  msg.UserName,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
}
