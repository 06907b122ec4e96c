package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeApprovalRepo struct {
	items map[uuid.UUID]*model.ApprovalRequest

	// updateFailure, when set, makes Update fail once updates exceeds
	// updateFailureAfter successful calls.
	updates            int
	updateFailure      error
	updateFailureAfter int
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{items: make(map[uuid.UUID]*model.ApprovalRequest)}
}

func (r *fakeApprovalRepo) Create(_ context.Context, req *model.ApprovalRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	cp := *req
	r.items[req.ID] = &cp
	return nil
}

func (r *fakeApprovalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	req, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeApprovalRepo) List(_ context.Context, filter repository.ApprovalFilter) ([]model.ApprovalRequest, int64, error) {
	var out []model.ApprovalRequest
	for _, req := range r.items {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequestedByID != nil && req.RequestedByID != *filter.RequestedByID {
			continue
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApprovalRepo) Update(_ context.Context, req *model.ApprovalRequest) error {
	r.updates++
	if r.updateFailure != nil && r.updates > r.updateFailureAfter {
		return r.updateFailure
	}
	if _, ok := r.items[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *req
	r.items[req.ID] = &cp
	return nil
}

func (r *fakeApprovalRepo) CountActive(_ context.Context, entityType string, entityID uuid.UUID, actionType string) (int64, error) {
	var n int64
	for _, req := range r.items {
		if req.EntityType == entityType && req.EntityID == entityID && req.ActionType == actionType && model.ApprovalActive(req.Status) {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

// fakeClientStore records deletions; the other methods are unused by the
// approval workflow.
type fakeClientStore struct {
	deleted []uuid.UUID
	failure error
}

func (s *fakeClientStore) Create(_ context.Context, _ *model.Client) error { return nil }
func (s *fakeClientStore) FindByID(_ context.Context, _ uuid.UUID) (*model.Client, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *fakeClientStore) List(_ context.Context, _, _ int) ([]model.Client, int64, error) {
	return nil, 0, nil
}
func (s *fakeClientStore) Update(_ context.Context, _ *model.Client) error { return nil }
func (s *fakeClientStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.failure != nil {
		return s.failure
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeContainerStore struct {
	deleted map[uuid.UUID]uuid.UUID // container id -> owning BL
}

func (s *fakeContainerStore) Create(_ context.Context, _ *model.Container) error { return nil }
func (s *fakeContainerStore) FindByID(_ context.Context, _ uuid.UUID) (*model.Container, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *fakeContainerStore) ListByBL(_ context.Context, _ uuid.UUID) ([]model.Container, error) {
	return nil, nil
}
func (s *fakeContainerStore) Update(_ context.Context, _ *model.Container) error { return nil }
func (s *fakeContainerStore) Delete(_ context.Context, blID, id uuid.UUID) error {
	if s.deleted == nil {
		s.deleted = make(map[uuid.UUID]uuid.UUID)
	}
	s.deleted[id] = blID
	return nil
}

// passthroughTxManager runs the callback directly, no transaction semantics.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- Fixture ---

type approvalFixture struct {
	svc        *approvalService
	repo       *fakeApprovalRepo
	clients    *fakeClientStore
	containers *fakeContainerStore
	employee   *model.User
	admin      *model.User
	clock      time.Time
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()

	employee := &model.User{ID: uuid.New(), Email: "emp@transitflow.test", DisplayName: "Employee", Role: model.RoleEmployee}
	admin := &model.User{ID: uuid.New(), Email: "admin@transitflow.test", DisplayName: "Admin", Role: model.RoleAdmin}

	f := &approvalFixture{
		repo:       newFakeApprovalRepo(),
		clients:    &fakeClientStore{},
		containers: &fakeContainerStore{},
		employee:   employee,
		admin:      admin,
		clock:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	svc := NewApprovalService(
		f.repo,
		newFakeUserRepo(employee, admin),
		EntityStores{Clients: f.clients, Containers: f.containers},
		passthroughTxManager{},
		[]byte("test-secret"),
	).(*approvalService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc
	return f
}

func (f *approvalFixture) submit(t *testing.T, req SubmitApprovalRequest) ApprovalResponse {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), f.employee.ID.String(), req)
	require.NoError(t, err)
	return res
}

func clientDeleteRequest(reason string) SubmitApprovalRequest {
	return SubmitApprovalRequest{
		EntityType: model.ApprovalEntityClient,
		EntityID:   uuid.NewString(),
		ActionType: model.ApprovalActionDelete,
		Reason:     reason,
	}
}

// --- Submit ---

func TestSubmitCreatesPendingRequest(t *testing.T) {
	f := newApprovalFixture(t)

	res := f.submit(t, clientDeleteRequest("duplicate record"))

	assert.Equal(t, model.ApprovalPending, res.Status)
	assert.Equal(t, f.employee.ID.String(), res.RequestedByID)
	assert.Equal(t, "Employee", res.RequestedByName)
	assert.Equal(t, model.ApprovalActionDelete, res.ActionType)
	assert.Empty(t, res.ProcessedByID)
}

func TestSubmitRejectsSecondActiveRequestForSameTarget(t *testing.T) {
	f := newApprovalFixture(t)
	req := clientDeleteRequest("first")
	f.submit(t, req)

	req.Reason = "second"
	_, err := f.svc.Submit(context.Background(), f.employee.ID.String(), req)
	assert.ErrorIs(t, err, ErrActiveRequestExists)
}

func TestSubmitAllowsNewRequestAfterRejection(t *testing.T) {
	f := newApprovalFixture(t)
	req := clientDeleteRequest("first try")
	res := f.submit(t, req)

	_, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "reject"})
	require.NoError(t, err)

	req.Reason = "second try"
	_, err = f.svc.Submit(context.Background(), f.employee.ID.String(), req)
	assert.NoError(t, err)
}

func TestSubmitDifferentActionsOnSameEntityCoexist(t *testing.T) {
	f := newApprovalFixture(t)
	entityID := uuid.NewString()

	f.submit(t, SubmitApprovalRequest{
		EntityType: model.ApprovalEntityClient, EntityID: entityID,
		ActionType: model.ApprovalActionDelete, Reason: "remove it",
	})
	_, err := f.svc.Submit(context.Background(), f.employee.ID.String(), SubmitApprovalRequest{
		EntityType: model.ApprovalEntityClient, EntityID: entityID,
		ActionType: model.ApprovalActionEdit, Reason: "fix the name",
	})
	assert.NoError(t, err)
}

func TestSubmitValidation(t *testing.T) {
	f := newApprovalFixture(t)
	base := clientDeleteRequest("valid reason")

	t.Run("unknown entity type", func(t *testing.T) {
		req := base
		req.EntityType = "invoice"
		_, err := f.svc.Submit(context.Background(), f.employee.ID.String(), req)
		assert.Error(t, err)
	})

	t.Run("unknown action", func(t *testing.T) {
		req := base
		req.ActionType = "archive"
		_, err := f.svc.Submit(context.Background(), f.employee.ID.String(), req)
		assert.Error(t, err)
	})

	t.Run("missing reason", func(t *testing.T) {
		req := base
		req.Reason = ""
		_, err := f.svc.Submit(context.Background(), f.employee.ID.String(), req)
		assert.Error(t, err)
	})

	t.Run("unknown requester", func(t *testing.T) {
		_, err := f.svc.Submit(context.Background(), uuid.NewString(), base)
		assert.Error(t, err)
	})
}

// --- Process ---

func TestProcessReject(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("mistake"))

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{
		Decision:   "reject",
		AdminNotes: "entity is still referenced",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalRejected, result.Request.Status)
	assert.Equal(t, "entity is still referenced", result.Request.AdminNotes)
	assert.Empty(t, result.Pin)
	assert.Empty(t, f.clients.deleted)
}

func TestProcessApproveDeleteExecutesImmediately(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("cleanup"))

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "approve"})
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalCompleted, result.Request.Status)
	assert.Empty(t, result.CleanupWarning)
	assert.Contains(t, result.Request.AdminNotes, "entity deleted on approval")
	require.Len(t, f.clients.deleted, 1)
	assert.Equal(t, res.EntityID, f.clients.deleted[0].String())
}

func TestProcessApproveDeleteFailureKeepsApprovalWithWarning(t *testing.T) {
	f := newApprovalFixture(t)
	f.clients.failure = errors.New("row locked")
	res := f.submit(t, clientDeleteRequest("cleanup"))

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "approve"})
	require.NoError(t, err)

	// The decision stands even though the cascade failed.
	assert.Equal(t, model.ApprovalApproved, result.Request.Status)
	assert.Contains(t, result.CleanupWarning, "manual cleanup needed")

	stored, err := f.repo.FindByID(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, stored.Status)
}

func TestProcessStatusUpdateFailureReportsStoredState(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("cleanup"))

	// The approved commit succeeds; the completion update after the delete fails.
	f.repo.updateFailure = errors.New("connection reset")
	f.repo.updateFailureAfter = 1

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "approve"})
	require.NoError(t, err)

	// The response mirrors the persisted row, not the attempted transition.
	assert.Equal(t, model.ApprovalApproved, result.Request.Status)
	assert.NotContains(t, result.Request.AdminNotes, "entity deleted on approval")
	assert.Contains(t, result.CleanupWarning, "status update failed")
	require.Len(t, f.clients.deleted, 1)

	stored, err := f.repo.FindByID(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, stored.Status)
}

func TestProcessApproveEditWithoutPin(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, SubmitApprovalRequest{
		EntityType: model.ApprovalEntityClient, EntityID: uuid.NewString(),
		ActionType: model.ApprovalActionEdit, Reason: "typo in name",
	})

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "approve"})
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalApproved, result.Request.Status)
	assert.Empty(t, result.Pin)
	assert.Empty(t, f.clients.deleted)
}

func TestProcessIssuePin(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("needs a pin"))

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{
		Decision: "approve",
		IssuePin: true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalPinIssued, result.Request.Status)
	assert.Regexp(t, `^\d{6}$`, result.Pin)
	require.NotNil(t, result.Request.PinExpiresAt)
	assert.Equal(t, f.clock.Add(24*time.Hour).Format(time.RFC3339), *result.Request.PinExpiresAt)

	// Nothing is deleted until the PIN is consumed.
	assert.Empty(t, f.clients.deleted)
}

func TestProcessIssueManualPin(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("needs a pin"))

	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{
		Decision:  "approve",
		IssuePin:  true,
		ManualPin: "421337",
	})
	require.NoError(t, err)
	assert.Equal(t, "421337", result.Pin)
}

func TestProcessRejectsBadManualPin(t *testing.T) {
	f := newApprovalFixture(t)

	for _, pin := range []string{"12345", "1234567", "12a456", "12 456"} {
		res := f.submit(t, clientDeleteRequest("pin "+pin))
		_, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{
			Decision:  "approve",
			IssuePin:  true,
			ManualPin: pin,
		})
		assert.ErrorIs(t, err, ErrInvalidManualPin, "pin %q", pin)
	}
}

func TestProcessNonPendingRequest(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("cleanup"))

	_, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "reject"})
	require.NoError(t, err)

	_, err = f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "approve"})
	assert.ErrorIs(t, err, ErrNotPending)
}

// --- ConsumePin ---

func (f *approvalFixture) issuePin(t *testing.T, req SubmitApprovalRequest) (string, string) {
	t.Helper()
	res := f.submit(t, req)
	result, err := f.svc.Process(context.Background(), res.ID, f.admin.ID.String(), ProcessApprovalRequest{
		Decision: "approve",
		IssuePin: true,
	})
	require.NoError(t, err)
	return res.ID, result.Pin
}

func TestConsumePinDelete(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, clientDeleteRequest("guarded delete"))

	result, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalActionDelete, result.Action)
	assert.Empty(t, result.EditToken)
	assert.Equal(t, model.ApprovalCompleted, result.Request.Status)
	assert.Len(t, f.clients.deleted, 1)
}

func TestConsumePinEditMintsToken(t *testing.T) {
	f := newApprovalFixture(t)
	entityID := uuid.NewString()
	id, pin := f.issuePin(t, SubmitApprovalRequest{
		EntityType: model.ApprovalEntityClient, EntityID: entityID,
		ActionType: model.ApprovalActionEdit, Reason: "guarded edit",
	})

	result, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalActionEdit, result.Action)
	assert.Empty(t, f.clients.deleted)

	token, err := jwt.Parse(result.EditToken, func(_ *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return f.clock }))
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, f.employee.ID.String(), claims["sub"])
	assert.Equal(t, "entity_edit", claims["scope"])
	assert.Equal(t, model.ApprovalEntityClient, claims["entity_type"])
	assert.Equal(t, entityID, claims["entity_id"])
	assert.Equal(t, id, claims["request_id"])
	assert.EqualValues(t, f.clock.Add(15*time.Minute).Unix(), claims["exp"])
}

func TestConsumePinIsSingleUse(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, clientDeleteRequest("one shot"))

	_, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	require.NoError(t, err)

	_, err = f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	assert.ErrorIs(t, err, ErrNoPinIssued)
}

func TestConsumePinOnlyRequesterMayUseIt(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, clientDeleteRequest("guarded"))

	_, err := f.svc.ConsumePin(context.Background(), id, f.admin.ID.String(), pin)
	assert.ErrorIs(t, err, ErrNotRequester)
}

func TestConsumePinWrongPin(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, clientDeleteRequest("guarded"))

	wrong := "000000"
	if wrong == pin {
		wrong = "000001"
	}
	_, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), wrong)
	assert.ErrorIs(t, err, ErrPinMismatch)

	// A failed attempt does not burn the PIN.
	_, err = f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	assert.NoError(t, err)
}

func TestConsumePinExpired(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, clientDeleteRequest("slow requester"))

	f.clock = f.clock.Add(24*time.Hour + time.Second)
	_, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	assert.ErrorIs(t, err, ErrPinExpired)
}

func TestConsumePinExpiryBoundary(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, clientDeleteRequest("at the wire"))

	// Exactly at the expiry instant the PIN is no longer valid.
	f.clock = f.clock.Add(24 * time.Hour)
	_, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	assert.ErrorIs(t, err, ErrPinExpired)
}

func TestConsumePinPendingRequestHasNoPin(t *testing.T) {
	f := newApprovalFixture(t)
	res := f.submit(t, clientDeleteRequest("not processed yet"))

	_, err := f.svc.ConsumePin(context.Background(), res.ID, f.employee.ID.String(), "123456")
	assert.ErrorIs(t, err, ErrNoPinIssued)
}

// --- Container dispatch ---

func TestContainerDeleteUsesParentScope(t *testing.T) {
	f := newApprovalFixture(t)
	parent := uuid.New()
	containerID := uuid.NewString()

	id, pin := f.issuePin(t, SubmitApprovalRequest{
		EntityType: model.ApprovalEntityContainer,
		EntityID:   containerID,
		ParentID:   parent.String(),
		ActionType: model.ApprovalActionDelete,
		Reason:     "double entry",
	})

	_, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	require.NoError(t, err)
	assert.Equal(t, parent, f.containers.deleted[uuid.MustParse(containerID)])
}

func TestContainerDeleteWithoutParentFails(t *testing.T) {
	f := newApprovalFixture(t)
	id, pin := f.issuePin(t, SubmitApprovalRequest{
		EntityType: model.ApprovalEntityContainer,
		EntityID:   uuid.NewString(),
		ActionType: model.ApprovalActionDelete,
		Reason:     "no dossier reference",
	})

	_, err := f.svc.ConsumePin(context.Background(), id, f.employee.ID.String(), pin)
	assert.ErrorIs(t, err, ErrMissingParentRef)
}

// --- Listing ---

func TestListForUserFiltersByRequester(t *testing.T) {
	f := newApprovalFixture(t)
	f.submit(t, clientDeleteRequest("mine"))

	other := &model.User{ID: uuid.New(), Email: "other@transitflow.test", DisplayName: "Other", Role: model.RoleEmployee}
	require.NoError(t, f.svc.userRepo.Create(context.Background(), other))
	_, err := f.svc.Submit(context.Background(), other.ID.String(), clientDeleteRequest("theirs"))
	require.NoError(t, err)

	mine, total, err := f.svc.ListForUser(context.Background(), f.employee.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Reason)
}

func TestListForAdminFiltersByStatus(t *testing.T) {
	f := newApprovalFixture(t)
	first := f.submit(t, clientDeleteRequest("will be rejected"))
	f.submit(t, clientDeleteRequest("stays pending"))

	_, err := f.svc.Process(context.Background(), first.ID, f.admin.ID.String(), ProcessApprovalRequest{Decision: "reject"})
	require.NoError(t, err)

	pending, total, err := f.svc.ListForAdmin(context.Background(), model.ApprovalPending, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, "stays pending", pending[0].Reason)
}

// --- PIN generation ---

func TestGeneratePinRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		pin, err := generatePin()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9]\d{5}$`, pin)
	}
}
