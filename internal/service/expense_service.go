package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateExpenseRequest struct {
	BLID        string  `json:"bl_id"`
	WorkTypeID  string  `json:"work_type_id"`
	Label       string  `json:"label" binding:"required"`
	Amount      string  `json:"amount" binding:"required"` // decimal string
	Currency    string  `json:"currency"`
	Supplier    string  `json:"supplier"`
	IsPaid      bool    `json:"is_paid"`
	ExpenseDate *string `json:"expense_date"` // RFC3339
}

type UpdateExpenseRequest struct {
	Label       string  `json:"label"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Supplier    string  `json:"supplier"`
	IsPaid      *bool   `json:"is_paid"`
	ExpenseDate *string `json:"expense_date"`
}

type ExpenseResponse struct {
	ID           string  `json:"id"`
	BLID         *string `json:"bl_id"`
	WorkTypeID   *string `json:"work_type_id"`
	WorkTypeName string  `json:"work_type_name"`
	Label        string  `json:"label"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	Supplier     string  `json:"supplier"`
	IsPaid       bool    `json:"is_paid"`
	ExpenseDate  *string `json:"expense_date"`
	CreatedAt    string  `json:"created_at"`
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	GetExpense(ctx context.Context, id string) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, blID, workTypeID string, page, limit int) ([]ExpenseResponse, int64, error)
	UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
}

type expenseService struct {
	expenseRepo  repository.ExpenseRepository
	blRepo       repository.BLRepository
	workTypeRepo repository.WorkTypeRepository
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	blRepo repository.BLRepository,
	workTypeRepo repository.WorkTypeRepository,
) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, blRepo: blRepo, workTypeRepo: workTypeRepo}
}

func (s *expenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return ExpenseResponse{}, errors.New("amount cannot be negative")
	}

	expense := model.Expense{
		Label:    req.Label,
		Amount:   amount,
		Supplier: req.Supplier,
		IsPaid:   req.IsPaid,
	}

	if req.Currency != "" {
		expense.Currency = req.Currency
	} else {
		expense.Currency = "XOF"
	}

	if req.BLID != "" {
		blID, parseErr := uuid.Parse(req.BLID)
		if parseErr != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid BL id: %w", parseErr)
		}
		if _, findErr := s.blRepo.FindByID(ctx, blID); findErr != nil {
			return ExpenseResponse{}, errors.New("BL not found")
		}
		expense.BLID = &blID
	}

	if req.WorkTypeID != "" {
		wtID, parseErr := uuid.Parse(req.WorkTypeID)
		if parseErr != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid work type id: %w", parseErr)
		}
		if _, findErr := s.workTypeRepo.FindByID(ctx, wtID); findErr != nil {
			return ExpenseResponse{}, errors.New("work type not found")
		}
		expense.WorkTypeID = &wtID
	}

	expenseDate, err := parseOptionalDate(req.ExpenseDate)
	if err != nil {
		return ExpenseResponse{}, err
	}
	expense.ExpenseDate = expenseDate

	if err := s.expenseRepo.Create(ctx, &expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to create expense: %w", err)
	}

	return toExpenseResponse(expense), nil
}

func (s *expenseService) GetExpense(ctx context.Context, id string) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid expense id: %w", err)
	}

	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, errors.New("expense not found")
		}
		return ExpenseResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, blID, workTypeID string, page, limit int) ([]ExpenseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	filter := repository.ExpenseFilter{Page: page, Limit: limit}
	if blID != "" {
		parsed, err := uuid.Parse(blID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid BL id: %w", err)
		}
		filter.BLID = &parsed
	}
	if workTypeID != "" {
		parsed, err := uuid.Parse(workTypeID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid work type id: %w", err)
		}
		filter.WorkTypeID = &parsed
	}

	expenses, total, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	res := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		res = append(res, toExpenseResponse(e))
	}
	return res, total, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid expense id: %w", err)
	}

	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, errors.New("expense not found")
		}
		return ExpenseResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Label != "" {
		expense.Label = req.Label
	}
	if req.Amount != "" {
		amount, parseErr := decimal.NewFromString(req.Amount)
		if parseErr != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", parseErr)
		}
		if amount.IsNegative() {
			return ExpenseResponse{}, errors.New("amount cannot be negative")
		}
		expense.Amount = amount
	}
	if req.Currency != "" {
		expense.Currency = req.Currency
	}
	if req.Supplier != "" {
		expense.Supplier = req.Supplier
	}
	if req.IsPaid != nil {
		expense.IsPaid = *req.IsPaid
	}
	if req.ExpenseDate != nil {
		expenseDate, dateErr := parseOptionalDate(req.ExpenseDate)
		if dateErr != nil {
			return ExpenseResponse{}, dateErr
		}
		expense.ExpenseDate = expenseDate
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to update expense: %w", err)
	}

	return toExpenseResponse(*expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid expense id: %w", err)
	}
	if _, err := s.expenseRepo.FindByID(ctx, expenseID); err != nil {
		return errors.New("expense not found")
	}
	return s.expenseRepo.Delete(ctx, expenseID)
}

func toExpenseResponse(e model.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:        e.ID.String(),
		Label:     e.Label,
		Amount:    e.Amount.StringFixed(2),
		Currency:  e.Currency,
		Supplier:  e.Supplier,
		IsPaid:    e.IsPaid,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.BLID != nil {
		s := e.BLID.String()
		resp.BLID = &s
	}
	if e.WorkTypeID != nil {
		s := e.WorkTypeID.String()
		resp.WorkTypeID = &s
	}
	if e.WorkType != nil {
		resp.WorkTypeName = e.WorkType.Name
	}
	if e.ExpenseDate != nil {
		s := e.ExpenseDate.Format(time.RFC3339)
		resp.ExpenseDate = &s
	}
	return resp
}
