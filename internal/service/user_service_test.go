package service

import (
	"context"
	"testing"
	"time"

	"transitflow/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTokenRepo struct {
	tokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (r *fakeTokenRepo) Save(_ context.Context, token *model.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) error { return nil }

type fakeAuditRepo struct {
	events []model.SessionAuditEvent
}

func (r *fakeAuditRepo) Log(_ context.Context, event *model.SessionAuditEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.SessionAuditEvent, int64, error) {
	return r.events, int64(len(r.events)), nil
}

type userFixture struct {
	svc    UserService
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	audit  *fakeAuditRepo
}

func newUserFixture(adminEmails ...string) *userFixture {
	f := &userFixture{
		users:  newFakeUserRepo(),
		tokens: newFakeTokenRepo(),
		audit:  &fakeAuditRepo{},
	}
	f.svc = NewUserService(f.users, f.tokens, f.audit, []byte("test-secret"), adminEmails)
	return f
}

func TestSignupDefaultsToEmployee(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Signup(context.Background(), SignupRequest{
		Email:       "Jane@TransitFlow.Test",
		DisplayName: "Jane",
		Password:    "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@transitflow.test", user.Email)
	assert.Equal(t, model.RoleEmployee, user.Role)
	assert.Equal(t, model.JobTitleOther, user.JobTitle)
}

func TestSignupPromotesConfiguredAdmin(t *testing.T) {
	f := newUserFixture("boss@transitflow.test")

	user, err := f.svc.Signup(context.Background(), SignupRequest{
		Email:       "boss@transitflow.test",
		DisplayName: "Boss",
		Password:    "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	f := newUserFixture()
	req := SignupRequest{Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123"}

	_, err := f.svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Signup(context.Background(), req)
	assert.ErrorContains(t, err, "already exists")
}

func TestSignupRejectsUnknownJobTitle(t *testing.T) {
	f := newUserFixture()
	_, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
		JobTitle: "Astronaute",
	})
	assert.ErrorContains(t, err, "invalid job title")
}

func TestLoginIssuesTokensAndAudits(t *testing.T) {
	f := newUserFixture()
	_, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	tokens, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "jane@transitflow.test", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	parsed, err := jwt.Parse(tokens.Token, func(_ *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, model.RoleEmployee, claims["role"])

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, model.SessionActionLogin, f.audit.events[0].Action)
	assert.Equal(t, "jane@transitflow.test", f.audit.events[0].Email)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newUserFixture()
	_, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Email: "jane@transitflow.test", Password: "wrong",
	})
	assert.ErrorContains(t, err, "invalid email or password")
	assert.Empty(t, f.audit.events)
}

func TestLoginLazilyPromotesAdmin(t *testing.T) {
	// Signed up before the email was added to the admin list.
	signup := newUserFixture()
	_, err := signup.svc.Signup(context.Background(), SignupRequest{
		Email: "late@transitflow.test", DisplayName: "Late", Password: "secret123",
	})
	require.NoError(t, err)

	promoted := &userFixture{users: signup.users, tokens: newFakeTokenRepo(), audit: &fakeAuditRepo{}}
	promoted.svc = NewUserService(promoted.users, promoted.tokens, promoted.audit, []byte("test-secret"), []string{"late@transitflow.test"})

	tokens, err := promoted.svc.Login(context.Background(), LoginRequest{
		Email: "late@transitflow.test", Password: "secret123",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokens.Token, func(_ *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, parsed.Claims.(jwt.MapClaims)["role"])
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newUserFixture()
	_, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	tokens, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "jane@transitflow.test", Password: "secret123",
	})
	require.NoError(t, err)

	fresh, err := f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// The old token is burned.
	_, err = f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorContains(t, err, "invalid refresh token")
}

func TestRefreshTokenExpired(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	f.tokens.tokens["stale"] = &model.RefreshToken{
		UserID:    user.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err = f.svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "stale"})
	assert.ErrorContains(t, err, "expired")
	assert.Empty(t, f.tokens.tokens)
}

func TestLogoutRecordsAuditEvent(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), user.ID.String()))
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, model.SessionActionLogout, f.audit.events[0].Action)
}

func TestUpdateUserValidatesRole(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Signup(context.Background(), SignupRequest{
		Email: "jane@transitflow.test", DisplayName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateUser(context.Background(), user.ID.String(), UpdateUserRequest{Role: "superuser"})
	assert.ErrorContains(t, err, "invalid role")

	updated, err := f.svc.UpdateUser(context.Background(), user.ID.String(), UpdateUserRequest{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
}
