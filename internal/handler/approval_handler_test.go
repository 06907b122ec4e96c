package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"transitflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubApprovalService returns canned results and records the arguments it
// was called with.
type stubApprovalService struct {
	submitErr     error
	processResult service.ProcessApprovalResult
	processErr    error
	consumeErr    error

	gotRequesterID string
	gotPin         string
}

func (s *stubApprovalService) Submit(_ context.Context, requesterID string, _ service.SubmitApprovalRequest) (service.ApprovalResponse, error) {
	s.gotRequesterID = requesterID
	if s.submitErr != nil {
		return service.ApprovalResponse{}, s.submitErr
	}
	return service.ApprovalResponse{ID: uuid.NewString(), Status: "pending"}, nil
}

func (s *stubApprovalService) Process(_ context.Context, _ string, _ string, _ service.ProcessApprovalRequest) (service.ProcessApprovalResult, error) {
	return s.processResult, s.processErr
}

func (s *stubApprovalService) ConsumePin(_ context.Context, _ string, _ string, pin string) (service.ConsumePinResult, error) {
	s.gotPin = pin
	if s.consumeErr != nil {
		return service.ConsumePinResult{}, s.consumeErr
	}
	return service.ConsumePinResult{Action: "delete"}, nil
}

func (s *stubApprovalService) ListForAdmin(_ context.Context, _ string, _, _ int) ([]service.ApprovalResponse, int64, error) {
	return []service.ApprovalResponse{{Status: "pending"}}, 1, nil
}

func (s *stubApprovalService) ListForUser(_ context.Context, _ string, _, _ int) ([]service.ApprovalResponse, int64, error) {
	return nil, 0, nil
}

func newApprovalRouter(stub *stubApprovalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewApprovalHandler(stub).RegisterRoutes(router.Group(""))
	return router
}

// bearerToken mints a token accepted by the auth middleware in test mode.
func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()
	t.Setenv("JWT_SECRET", "default_super_secret_key")
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("default_super_secret_key"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(router *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitRequiresAuth(t *testing.T) {
	router := newApprovalRouter(&stubApprovalService{})

	w := doJSON(router, http.MethodPost, "/api/approvals", "", service.SubmitApprovalRequest{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitPassesAuthenticatedUser(t *testing.T) {
	stub := &stubApprovalService{}
	router := newApprovalRouter(stub)
	userID := uuid.NewString()

	w := doJSON(router, http.MethodPost, "/api/approvals", bearerToken(t, userID, "employee"), service.SubmitApprovalRequest{
		EntityType: "client",
		EntityID:   uuid.NewString(),
		ActionType: "delete",
		Reason:     "cleanup",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, userID, stub.gotRequesterID)
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	router := newApprovalRouter(&stubApprovalService{})

	// oneof binding rejects unknown entity types before the service runs
	w := doJSON(router, http.MethodPost, "/api/approvals", bearerToken(t, uuid.NewString(), "employee"), map[string]string{
		"entity_type": "invoice",
		"entity_id":   uuid.NewString(),
		"action_type": "delete",
		"reason":      "cleanup",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitConflictOnActiveRequest(t *testing.T) {
	stub := &stubApprovalService{submitErr: service.ErrActiveRequestExists}
	router := newApprovalRouter(stub)

	w := doJSON(router, http.MethodPost, "/api/approvals", bearerToken(t, uuid.NewString(), "employee"), service.SubmitApprovalRequest{
		EntityType: "client",
		EntityID:   uuid.NewString(),
		ActionType: "delete",
		Reason:     "cleanup",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListApprovalsIsAdminOnly(t *testing.T) {
	router := newApprovalRouter(&stubApprovalService{})

	w := doJSON(router, http.MethodGet, "/api/approvals", bearerToken(t, uuid.NewString(), "employee"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodGet, "/api/approvals", bearerToken(t, uuid.NewString(), "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessSurfacesCleanupWarning(t *testing.T) {
	stub := &stubApprovalService{processResult: service.ProcessApprovalResult{
		Request:        service.ApprovalResponse{Status: "approved"},
		CleanupWarning: "request approved but entity deletion failed, manual cleanup needed: row locked",
	}}
	router := newApprovalRouter(stub)

	w := doJSON(router, http.MethodPut, "/api/approvals/"+uuid.NewString()+"/process", bearerToken(t, uuid.NewString(), "admin"), service.ProcessApprovalRequest{
		Decision: "approve",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status  string `json:"status"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Contains(t, body.Warning, "manual cleanup needed")
}

func TestProcessConflictWhenNotPending(t *testing.T) {
	stub := &stubApprovalService{processErr: service.ErrNotPending}
	router := newApprovalRouter(stub)

	w := doJSON(router, http.MethodPut, "/api/approvals/"+uuid.NewString()+"/process", bearerToken(t, uuid.NewString(), "admin"), service.ProcessApprovalRequest{
		Decision: "approve",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConsumePinStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrNotRequester, http.StatusForbidden},
		{service.ErrPinExpired, http.StatusGone},
		{service.ErrPinMismatch, http.StatusBadRequest},
		{service.ErrNoPinIssued, http.StatusBadRequest},
		{nil, http.StatusOK},
	}

	for _, tc := range cases {
		stub := &stubApprovalService{consumeErr: tc.err}
		router := newApprovalRouter(stub)

		w := doJSON(router, http.MethodPost, "/api/approvals/"+uuid.NewString()+"/consume-pin", bearerToken(t, uuid.NewString(), "employee"), map[string]string{
			"pin": "123456",
		})
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}

func TestConsumePinRequiresPinField(t *testing.T) {
	router := newApprovalRouter(&stubApprovalService{})

	w := doJSON(router, http.MethodPost, "/api/approvals/"+uuid.NewString()+"/consume-pin", bearerToken(t, uuid.NewString(), "employee"), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
