package service

import (
	"context"
	"testing"
	"time"

	"transitflow/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChatRepo struct {
	messages []model.ChatMessage
}

func (r *fakeChatRepo) Create(_ context.Context, msg *model.ChatMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeChatRepo) ListRecent(_ context.Context, limit int) ([]model.ChatMessage, error) {
	if len(r.messages) > limit {
		return r.messages[len(r.messages)-limit:], nil
	}
	return r.messages, nil
}

type fakeTodoRepo struct {
	items map[uuid.UUID]*model.TodoItem
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{items: make(map[uuid.UUID]*model.TodoItem)}
}

func (r *fakeTodoRepo) Create(_ context.Context, item *model.TodoItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeTodoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TodoItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeTodoRepo) List(_ context.Context) ([]model.TodoItem, error) {
	var out []model.TodoItem
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeTodoRepo) Update(_ context.Context, item *model.TodoItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeTodoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

// --- Chat ---

func TestPostMessageDenormalizesUserName(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "emp@transitflow.test", DisplayName: "Employee", Role: model.RoleEmployee}
	chatRepo := &fakeChatRepo{}
	svc := NewChatService(chatRepo, newFakeUserRepo(user), nil)

	res, err := svc.PostMessage(context.Background(), user.ID.String(), PostMessageRequest{Body: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "Employee", res.UserName)
	assert.Equal(t, user.ID.String(), res.UserID)
	require.Len(t, chatRepo.messages, 1)
	assert.Equal(t, "hello", chatRepo.messages[0].Body)
}

func TestPostMessageUnknownUser(t *testing.T) {
	svc := NewChatService(&fakeChatRepo{}, newFakeUserRepo(), nil)

	_, err := svc.PostMessage(context.Background(), uuid.NewString(), PostMessageRequest{Body: "hello"})
	assert.EqualError(t, err, "user not found")
}

// --- Todos ---

func TestCreateTodoResolvesAssignee(t *testing.T) {
	creator := &model.User{ID: uuid.New(), Email: "emp@transitflow.test", DisplayName: "Employee", Role: model.RoleEmployee}
	assignee := &model.User{ID: uuid.New(), Email: "ops@transitflow.test", DisplayName: "Ops", Role: model.RoleEmployee}
	svc := NewTodoService(newFakeTodoRepo(), newFakeUserRepo(creator, assignee), nil)

	assigneeID := assignee.ID.String()
	res, err := svc.CreateTodo(context.Background(), creator.ID.String(), CreateTodoRequest{
		Title:      "book customs slot",
		AssigneeID: &assigneeID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.AssigneeID)
	assert.Equal(t, assigneeID, *res.AssigneeID)
}

func TestCreateTodoRejectsUnknownAssignee(t *testing.T) {
	creator := &model.User{ID: uuid.New(), Email: "emp@transitflow.test", DisplayName: "Employee", Role: model.RoleEmployee}
	svc := NewTodoService(newFakeTodoRepo(), newFakeUserRepo(creator), nil)

	missing := uuid.NewString()
	_, err := svc.CreateTodo(context.Background(), creator.ID.String(), CreateTodoRequest{
		Title:      "book customs slot",
		AssigneeID: &missing,
	})
	assert.EqualError(t, err, "assignee not found")
}
