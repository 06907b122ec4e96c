package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	pinValidity       = 24 * time.Hour
	editTokenValidity = 15 * time.Minute
)

var pinPattern = regexp.MustCompile(`^\d{6}$`)

// Sentinel errors surfaced to callers without state change
var (
	ErrActiveRequestExists = errors.New("an active approval request already exists for this target")
	ErrNotPending          = errors.New("approval request is not pending")
	ErrNoPinIssued         = errors.New("no PIN has been issued for this request")
	ErrPinMismatch         = errors.New("incorrect PIN")
	ErrPinExpired          = errors.New("PIN has expired")
	ErrNotRequester        = errors.New("only the requester may use this PIN")
	ErrInvalidManualPin    = errors.New("manual PIN must be exactly 6 digits")
	ErrMissingParentRef    = errors.New("container request has no parent BL reference")
)

// --- DTOs ---

type SubmitApprovalRequest struct {
	EntityType        string `json:"entity_type" binding:"required,oneof=bl client workType expense container"`
	EntityID          string `json:"entity_id" binding:"required"`
	ParentID          string `json:"parent_id"` // owning BL id for container targets
	EntityDescription string `json:"entity_description"`
	ActionType        string `json:"action_type" binding:"required,oneof=edit delete"`
	Reason            string `json:"reason" binding:"required"`
}

type ProcessApprovalRequest struct {
	Decision   string `json:"decision" binding:"required,oneof=approve reject"`
	AdminNotes string `json:"admin_notes"`
	IssuePin   bool   `json:"issue_pin"`
	ManualPin  string `json:"manual_pin"`
}

type ApprovalResponse struct {
	ID                string  `json:"id"`
	RequestedByID     string  `json:"requested_by_id"`
	RequestedByName   string  `json:"requested_by_name"`
	EntityType        string  `json:"entity_type"`
	EntityID          string  `json:"entity_id"`
	ParentID          *string `json:"parent_id"`
	EntityDescription string  `json:"entity_description"`
	ActionType        string  `json:"action_type"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	AdminNotes        string  `json:"admin_notes"`
	PinExpiresAt      *string `json:"pin_expires_at"`
	ProcessedByID     *string `json:"processed_by_id"`
	ProcessedByName   string  `json:"processed_by_name"`
	ProcessedAt       *string `json:"processed_at"`
	CreatedAt         string  `json:"created_at"`
}

// ProcessApprovalResult is returned to the processing admin. Pin is populated
// exactly once, at issuance; it is never listed again afterwards.
type ProcessApprovalResult struct {
	Request        ApprovalResponse `json:"request"`
	Pin            string           `json:"pin,omitempty"`
	CleanupWarning string           `json:"cleanup_warning,omitempty"`
}

// ConsumePinResult carries the outcome of a successful PIN consumption:
// for delete actions the target is already gone; for edit actions EditToken
// authorizes the follow-up edit call.
type ConsumePinResult struct {
	Action    string           `json:"action"`
	EditToken string           `json:"edit_token,omitempty"`
	Request   ApprovalResponse `json:"request"`
}

// --- Interface ---

type ApprovalService interface {
	Submit(ctx context.Context, requesterID string, req SubmitApprovalRequest) (ApprovalResponse, error)
	Process(ctx context.Context, id string, adminID string, req ProcessApprovalRequest) (ProcessApprovalResult, error)
	ConsumePin(ctx context.Context, id string, userID string, pin string) (ConsumePinResult, error)
	ListForAdmin(ctx context.Context, status string, page, limit int) ([]ApprovalResponse, int64, error)
	ListForUser(ctx context.Context, userID string, page, limit int) ([]ApprovalResponse, int64, error)
}

// EntityStores bundles the strongly-typed delete capabilities the workflow
// dispatches to. One field per member of the closed entity set — adding an
// entity type means adding a field and a switch case, not a string.
type EntityStores struct {
	BLs        repository.BLRepository
	Clients    repository.ClientRepository
	WorkTypes  repository.WorkTypeRepository
	Expenses   repository.ExpenseRepository
	Containers repository.ContainerRepository
}

type approvalService struct {
	approvalRepo repository.ApprovalRepository
	userRepo     repository.UserRepository
	stores       EntityStores
	txManager    repository.TransactionManager
	jwtSecret    []byte
	now          func() time.Time
}

func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	userRepo repository.UserRepository,
	stores EntityStores,
	txManager repository.TransactionManager,
	jwtSecret []byte,
) ApprovalService {
	return &approvalService{
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
		stores:       stores,
		txManager:    txManager,
		jwtSecret:    jwtSecret,
		now:          time.Now,
	}
}

// --- Implementation ---

func (s *approvalService) Submit(ctx context.Context, requesterID string, req SubmitApprovalRequest) (ApprovalResponse, error) {
	uid, err := uuid.Parse(requesterID)
	if err != nil {
		return ApprovalResponse{}, fmt.Errorf("invalid requester id: %w", err)
	}

	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return ApprovalResponse{}, fmt.Errorf("invalid entity id: %w", err)
	}

	if !model.ValidApprovalEntityType(req.EntityType) {
		return ApprovalResponse{}, fmt.Errorf("unsupported entity type: %s", req.EntityType)
	}
	if req.ActionType != model.ApprovalActionEdit && req.ActionType != model.ApprovalActionDelete {
		return ApprovalResponse{}, fmt.Errorf("unsupported action type: %s", req.ActionType)
	}
	if req.Reason == "" {
		return ApprovalResponse{}, errors.New("reason is required")
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, parseErr := uuid.Parse(req.ParentID)
		if parseErr != nil {
			return ApprovalResponse{}, fmt.Errorf("invalid parent id: %w", parseErr)
		}
		parentID = &parsed
	}

	requester, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return ApprovalResponse{}, fmt.Errorf("requester not found: %w", err)
	}

	// One active request per (entityType, entityID, actionType)
	active, err := s.approvalRepo.CountActive(ctx, req.EntityType, entityID, req.ActionType)
	if err != nil {
		return ApprovalResponse{}, fmt.Errorf("failed to check active requests: %w", err)
	}
	if active > 0 {
		return ApprovalResponse{}, ErrActiveRequestExists
	}

	approval := model.ApprovalRequest{
		RequestedByID:     requester.ID,
		RequestedByName:   requester.DisplayName,
		EntityType:        req.EntityType,
		EntityID:          entityID,
		ParentID:          parentID,
		EntityDescription: req.EntityDescription,
		ActionType:        req.ActionType,
		Reason:            req.Reason,
		Status:            model.ApprovalPending,
	}

	if err := s.approvalRepo.Create(ctx, &approval); err != nil {
		return ApprovalResponse{}, fmt.Errorf("failed to create approval request: %w", err)
	}

	return toApprovalResponse(approval), nil
}

func (s *approvalService) Process(ctx context.Context, id string, adminID string, req ProcessApprovalRequest) (ProcessApprovalResult, error) {
	approvalID, err := uuid.Parse(id)
	if err != nil {
		return ProcessApprovalResult{}, fmt.Errorf("invalid approval request id: %w", err)
	}
	processorID, err := uuid.Parse(adminID)
	if err != nil {
		return ProcessApprovalResult{}, fmt.Errorf("invalid user id: %w", err)
	}

	approval, err := s.approvalRepo.FindByID(ctx, approvalID)
	if err != nil {
		return ProcessApprovalResult{}, fmt.Errorf("approval request not found: %w", err)
	}
	if approval.Status != model.ApprovalPending {
		return ProcessApprovalResult{}, fmt.Errorf("%w: already %s", ErrNotPending, approval.Status)
	}

	now := s.now()
	approval.ProcessedByID = &processorID
	approval.ProcessedAt = &now
	approval.AdminNotes = req.AdminNotes

	if req.Decision == "reject" {
		approval.Status = model.ApprovalRejected
		if err := s.approvalRepo.Update(ctx, approval); err != nil {
			return ProcessApprovalResult{}, fmt.Errorf("failed to update approval request: %w", err)
		}
		return ProcessApprovalResult{Request: toApprovalResponse(*approval)}, nil
	}

	if req.IssuePin {
		pin, pinErr := resolvePin(req.ManualPin)
		if pinErr != nil {
			return ProcessApprovalResult{}, pinErr
		}
		expiresAt := now.Add(pinValidity)
		approval.Status = model.ApprovalPinIssued
		approval.PinCode = &pin
		approval.PinExpiresAt = &expiresAt
		if err := s.approvalRepo.Update(ctx, approval); err != nil {
			return ProcessApprovalResult{}, fmt.Errorf("failed to update approval request: %w", err)
		}
		return ProcessApprovalResult{Request: toApprovalResponse(*approval), Pin: pin}, nil
	}

	// Plain approval. Commit the decision first: the cascading delete is a
	// separate step, and its failure must leave the request approved so the
	// admin can follow up manually.
	approval.Status = model.ApprovalApproved
	if err := s.approvalRepo.Update(ctx, approval); err != nil {
		return ProcessApprovalResult{}, fmt.Errorf("failed to update approval request: %w", err)
	}

	if approval.ActionType != model.ApprovalActionDelete {
		return ProcessApprovalResult{Request: toApprovalResponse(*approval)}, nil
	}

	if delErr := s.deleteTarget(ctx, approval); delErr != nil {
		return ProcessApprovalResult{
			Request:        toApprovalResponse(*approval),
			CleanupWarning: fmt.Sprintf("request approved but entity deletion failed, manual cleanup needed: %v", delErr),
		}, nil
	}

	committed := *approval
	approval.Status = model.ApprovalCompleted
	if approval.AdminNotes != "" {
		approval.AdminNotes += " — "
	}
	approval.AdminNotes += "entity deleted on approval"
	if err := s.approvalRepo.Update(ctx, approval); err != nil {
		// Report the state the store actually holds, not the attempted one.
		return ProcessApprovalResult{
			Request:        toApprovalResponse(committed),
			CleanupWarning: fmt.Sprintf("entity deleted but status update failed: %v", err),
		}, nil
	}

	return ProcessApprovalResult{Request: toApprovalResponse(*approval)}, nil
}

func (s *approvalService) ConsumePin(ctx context.Context, id string, userID string, pin string) (ConsumePinResult, error) {
	approvalID, err := uuid.Parse(id)
	if err != nil {
		return ConsumePinResult{}, fmt.Errorf("invalid approval request id: %w", err)
	}
	callerID, err := uuid.Parse(userID)
	if err != nil {
		return ConsumePinResult{}, fmt.Errorf("invalid user id: %w", err)
	}

	approval, err := s.approvalRepo.FindByID(ctx, approvalID)
	if err != nil {
		return ConsumePinResult{}, fmt.Errorf("approval request not found: %w", err)
	}

	if approval.Status != model.ApprovalPinIssued || approval.PinCode == nil || approval.PinExpiresAt == nil {
		return ConsumePinResult{}, ErrNoPinIssued
	}
	if approval.RequestedByID != callerID {
		return ConsumePinResult{}, ErrNotRequester
	}
	if pin != *approval.PinCode {
		return ConsumePinResult{}, ErrPinMismatch
	}
	if !s.now().Before(*approval.PinExpiresAt) {
		return ConsumePinResult{}, ErrPinExpired
	}

	result := ConsumePinResult{Action: approval.ActionType}

	// The PIN is single-use: edit or delete, consumption completes the request.
	switch approval.ActionType {
	case model.ApprovalActionDelete:
		// Deletion and completion commit together; a failed delete leaves
		// the PIN intact so the requester can retry.
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if delErr := s.deleteTarget(txCtx, approval); delErr != nil {
				return fmt.Errorf("entity deletion failed: %w", delErr)
			}
			approval.Status = model.ApprovalCompleted
			if updErr := s.approvalRepo.Update(txCtx, approval); updErr != nil {
				return fmt.Errorf("failed to update approval request: %w", updErr)
			}
			return nil
		})
		if err != nil {
			return ConsumePinResult{}, err
		}
	case model.ApprovalActionEdit:
		token, tokenErr := s.mintEditToken(approval, callerID)
		if tokenErr != nil {
			return ConsumePinResult{}, fmt.Errorf("failed to mint edit authorization: %w", tokenErr)
		}
		result.EditToken = token
		approval.Status = model.ApprovalCompleted
		if err := s.approvalRepo.Update(ctx, approval); err != nil {
			return ConsumePinResult{}, fmt.Errorf("failed to update approval request: %w", err)
		}
	default:
		return ConsumePinResult{}, fmt.Errorf("unsupported action type: %s", approval.ActionType)
	}

	result.Request = toApprovalResponse(*approval)
	return result, nil
}

func (s *approvalService) ListForAdmin(ctx context.Context, status string, page, limit int) ([]ApprovalResponse, int64, error) {
	return s.list(ctx, repository.ApprovalFilter{Status: status, Page: page, Limit: limit})
}

func (s *approvalService) ListForUser(ctx context.Context, userID string, page, limit int) ([]ApprovalResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}
	return s.list(ctx, repository.ApprovalFilter{RequestedByID: &uid, Page: page, Limit: limit})
}

func (s *approvalService) list(ctx context.Context, filter repository.ApprovalFilter) ([]ApprovalResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	approvals, total, err := s.approvalRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch approval requests: %w", err)
	}

	result := make([]ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		result = append(result, toApprovalResponse(a))
	}
	return result, total, nil
}

// deleteTarget dispatches the entity deletion to the matching typed store.
// The switch is closed over the model.ApprovalEntity* constants; an unknown
// type is an error, never a silent no-op.
func (s *approvalService) deleteTarget(ctx context.Context, approval *model.ApprovalRequest) error {
	switch approval.EntityType {
	case model.ApprovalEntityBL:
		return s.stores.BLs.Delete(ctx, approval.EntityID)
	case model.ApprovalEntityClient:
		return s.stores.Clients.Delete(ctx, approval.EntityID)
	case model.ApprovalEntityWorkType:
		return s.stores.WorkTypes.Delete(ctx, approval.EntityID)
	case model.ApprovalEntityExpense:
		return s.stores.Expenses.Delete(ctx, approval.EntityID)
	case model.ApprovalEntityContainer:
		if approval.ParentID == nil {
			return ErrMissingParentRef
		}
		return s.stores.Containers.Delete(ctx, *approval.ParentID, approval.EntityID)
	default:
		return fmt.Errorf("unsupported entity type: %s", approval.EntityType)
	}
}

// mintEditToken creates a short-lived authorization for editing the target
// entity, equivalent to "navigate to the edit form".
func (s *approvalService) mintEditToken(approval *model.ApprovalRequest, userID uuid.UUID) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         userID.String(),
		"scope":       "entity_edit",
		"entity_type": approval.EntityType,
		"entity_id":   approval.EntityID.String(),
		"request_id":  approval.ID.String(),
		"iat":         now.Unix(),
		"exp":         now.Add(editTokenValidity).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// resolvePin validates a manual PIN or draws a random 6-digit one.
func resolvePin(manual string) (string, error) {
	if manual != "" {
		if !pinPattern.MatchString(manual) {
			return "", ErrInvalidManualPin
		}
		return manual, nil
	}
	return generatePin()
}

// generatePin draws a random PIN in [100000, 999999].
func generatePin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate PIN: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// --- Helpers ---

func toApprovalResponse(a model.ApprovalRequest) ApprovalResponse {
	resp := ApprovalResponse{
		ID:                a.ID.String(),
		RequestedByID:     a.RequestedByID.String(),
		RequestedByName:   a.RequestedByName,
		EntityType:        a.EntityType,
		EntityID:          a.EntityID.String(),
		EntityDescription: a.EntityDescription,
		ActionType:        a.ActionType,
		Reason:            a.Reason,
		Status:            a.Status,
		AdminNotes:        a.AdminNotes,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}

	if a.ParentID != nil {
		s := a.ParentID.String()
		resp.ParentID = &s
	}
	if a.PinExpiresAt != nil {
		s := a.PinExpiresAt.Format(time.RFC3339)
		resp.PinExpiresAt = &s
	}
	if a.ProcessedByID != nil {
		s := a.ProcessedByID.String()
		resp.ProcessedByID = &s
	}
	if a.ProcessedBy != nil {
		resp.ProcessedByName = a.ProcessedBy.DisplayName
	}
	if a.ProcessedAt != nil {
		s := a.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &s
	}

	return resp
}
