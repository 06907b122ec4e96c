package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
	todoService service.TodoService
}

func NewChatHandler(chatService service.ChatService, todoService service.TodoService) *ChatHandler {
	return &ChatHandler{chatService: chatService, todoService: todoService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/api/chat", middleware.RequireAuth())
	{
		chat.GET("/messages", h.History)
		chat.POST("/messages", h.PostMessage)
	}

	todos := router.Group("/api/todos", middleware.RequireAuth())
	{
		todos.GET("", h.ListTodos)
		todos.POST("", h.CreateTodo)
		todos.PUT("/:id", h.UpdateTodo)
		todos.DELETE("/:id", h.DeleteTodo)
	}
}

// History returns the most recent chat messages, oldest first
func (h *ChatHandler) History(c *gin.Context) {
	msgs, err := h.chatService.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, msgs))
}

// PostMessage saves a message and pushes it to connected clients
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req service.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	msg, err := h.chatService.PostMessage(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, msg))
}

func (h *ChatHandler) ListTodos(c *gin.Context) {
	todos, err := h.todoService.ListTodos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, todos))
}

func (h *ChatHandler) CreateTodo(c *gin.Context) {
	var req service.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, todo))
}

func (h *ChatHandler) UpdateTodo(c *gin.Context) {
	var req service.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, todo))
}

func (h *ChatHandler) DeleteTodo(c *gin.Context) {
	if err := h.todoService.DeleteTodo(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "todo deleted"}))
}
