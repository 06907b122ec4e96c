package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenValidity  = 24 * time.Hour
	refreshTokenValidity = 7 * 24 * time.Hour
)

// DTOs for Request validation
type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	JobTitle    string `json:"job_title"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateUserRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JobTitle    string `json:"job_title"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JobTitle    string    `json:"job_title"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// UserService defines the interface for auth and profile management
type UserService interface {
	Signup(ctx context.Context, req SignupRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo        repository.UserRepository
	tokenRepo   repository.RefreshTokenRepository
	auditRepo   repository.SessionAuditRepository
	jwtSecret   []byte
	adminEmails map[string]bool
}

// NewUserService returns a new instance of UserService. adminEmails lists the
// accounts promoted to admin at signup or on their next login.
func NewUserService(
	repo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	auditRepo repository.SessionAuditRepository,
	jwtSecret []byte,
	adminEmails []string,
) UserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			admins[e] = true
		}
	}
	return &userService{
		repo:        repo,
		tokenRepo:   tokenRepo,
		auditRepo:   auditRepo,
		jwtSecret:   jwtSecret,
		adminEmails: admins,
	}
}

func validJobTitle(title string) bool {
	switch title {
	case "", model.JobTitleOperations, model.JobTitleSecretary,
		model.JobTitleAccountant, model.JobTitleManager, model.JobTitleOther:
		return true
	}
	return false
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		JobTitle:    user.JobTitle,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validJobTitle(req.JobTitle) {
		return nil, errors.New("invalid job title")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	// New profiles default to employee; configured admins are promoted here
	role := model.RoleEmployee
	if s.adminEmails[email] {
		role = model.RoleAdmin
	}

	jobTitle := req.JobTitle
	if jobTitle == "" {
		jobTitle = model.JobTitleOther
	}

	user := &model.User{
		Email:       email,
		DisplayName: req.DisplayName,
		Password:    string(hashedPassword),
		Role:        role,
		JobTitle:    jobTitle,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	// Lazy promotion: an email added to the admin list after signup becomes
	// admin on its next login
	if s.adminEmails[user.Email] && user.Role != model.RoleAdmin {
		user.Role = model.RoleAdmin
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to promote user: %w", err)
		}
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	// Session audit is best effort: a failed write never blocks the login
	audit := &model.SessionAuditEvent{
		UserID: user.ID,
		Action: model.SessionActionLogin,
		Email:  user.Email,
	}
	if auditErr := s.auditRepo.Log(ctx, audit); auditErr != nil {
		log.Println("WARNING: failed to record login event:", auditErr)
	}

	return tokens, nil
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.DeleteByToken(ctx, req.RefreshToken)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Rotate: the old token is burned before new ones are issued
	if err := s.tokenRepo.DeleteByToken(ctx, req.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return errors.New("user not found")
	}

	audit := &model.SessionAuditEvent{
		UserID: user.ID,
		Action: model.SessionActionLogout,
		Email:  user.Email,
	}
	if auditErr := s.auditRepo.Log(ctx, audit); auditErr != nil {
		log.Println("WARNING: failed to record logout event:", auditErr)
	}

	return nil
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenValidity).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, errors.New("failed to generate refresh token")
	}
	refreshToken := hex.EncodeToString(refreshBytes)

	rt := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(refreshTokenValidity),
	}
	if err := s.tokenRepo.Save(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refreshToken}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var responses []UserResponse
	for _, u := range users {
		responses = append(responses, *mapToResponse(&u))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Role != "" {
		if req.Role != model.RoleAdmin && req.Role != model.RoleEmployee {
			return nil, errors.New("invalid role: must be admin or employee")
		}
		user.Role = req.Role
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}

	if req.JobTitle != "" {
		if !validJobTitle(req.JobTitle) {
			return nil, errors.New("invalid job title")
		}
		user.JobTitle = req.JobTitle
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if _, err := s.repo.GetByID(ctx, uid); err != nil {
		return errors.New("user not found")
	}
	return s.repo.Delete(ctx, uid)
}
