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

type CreateAccountingEntryRequest struct {
	EntryDate string  `json:"entry_date" binding:"required"`
	Label     string  `json:"label" binding:"required"`
	BLID      *string `json:"bl_id"`
	ClientID  *string `json:"client_id"`
	Debit     string  `json:"debit"`
	Credit    string  `json:"credit"`
	Reference string  `json:"reference"`
}

type UpdateAccountingEntryRequest struct {
	Label     string `json:"label"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Reference string `json:"reference"`
}

type AccountingEntryResponse struct {
	ID        string  `json:"id"`
	EntryDate string  `json:"entry_date"`
	Label     string  `json:"label"`
	BLID      *string `json:"bl_id,omitempty"`
	ClientID  *string `json:"client_id,omitempty"`
	Debit     string  `json:"debit"`
	Credit    string  `json:"credit"`
	Reference string  `json:"reference"`
	CreatedAt string  `json:"created_at"`
}

type AccountingService interface {
	CreateEntry(ctx context.Context, req CreateAccountingEntryRequest) (AccountingEntryResponse, error)
	GetEntry(ctx context.Context, id string) (AccountingEntryResponse, error)
	ListEntries(ctx context.Context, blID, clientID, from, to string, page, limit int) ([]AccountingEntryResponse, int64, error)
	UpdateEntry(ctx context.Context, id string, req UpdateAccountingEntryRequest) (AccountingEntryResponse, error)
	DeleteEntry(ctx context.Context, id string) error
}

type accountingService struct {
	accountingRepo repository.AccountingRepository
	blRepo         repository.BLRepository
	clientRepo     repository.ClientRepository
}

func NewAccountingService(
	accountingRepo repository.AccountingRepository,
	blRepo repository.BLRepository,
	clientRepo repository.ClientRepository,
) AccountingService {
	return &accountingService{
		accountingRepo: accountingRepo,
		blRepo:         blRepo,
		clientRepo:     clientRepo,
	}
}

func (s *accountingService) CreateEntry(ctx context.Context, req CreateAccountingEntryRequest) (AccountingEntryResponse, error) {
	entryDate, err := time.Parse(time.RFC3339, req.EntryDate)
	if err != nil {
		return AccountingEntryResponse{}, fmt.Errorf("invalid entry_date: %w", err)
	}

	debit, credit, err := parseJournalAmounts(req.Debit, req.Credit)
	if err != nil {
		return AccountingEntryResponse{}, err
	}

	var blID *uuid.UUID
	if req.BLID != nil && *req.BLID != "" {
		parsed, parseErr := uuid.Parse(*req.BLID)
		if parseErr != nil {
			return AccountingEntryResponse{}, fmt.Errorf("invalid bl id: %w", parseErr)
		}
		if _, blErr := s.blRepo.FindByID(ctx, parsed); blErr != nil {
			return AccountingEntryResponse{}, errors.New("bill of lading not found")
		}
		blID = &parsed
	}

	var clientID *uuid.UUID
	if req.ClientID != nil && *req.ClientID != "" {
		parsed, parseErr := uuid.Parse(*req.ClientID)
		if parseErr != nil {
			return AccountingEntryResponse{}, fmt.Errorf("invalid client id: %w", parseErr)
		}
		if _, clientErr := s.clientRepo.FindByID(ctx, parsed); clientErr != nil {
			return AccountingEntryResponse{}, errors.New("client not found")
		}
		clientID = &parsed
	}

	entry := model.AccountingEntry{
		EntryDate: entryDate,
		Label:     req.Label,
		BLID:      blID,
		ClientID:  clientID,
		Debit:     debit,
		Credit:    credit,
		Reference: req.Reference,
	}

	if err := s.accountingRepo.Create(ctx, &entry); err != nil {
		return AccountingEntryResponse{}, fmt.Errorf("failed to create accounting entry: %w", err)
	}

	return toAccountingEntryResponse(entry), nil
}

func (s *accountingService) GetEntry(ctx context.Context, id string) (AccountingEntryResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return AccountingEntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}

	entry, err := s.accountingRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountingEntryResponse{}, errors.New("accounting entry not found")
		}
		return AccountingEntryResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toAccountingEntryResponse(*entry), nil
}

func (s *accountingService) ListEntries(ctx context.Context, blID, clientID, from, to string, page, limit int) ([]AccountingEntryResponse, int64, error) {
	filter := repository.AccountingFilter{Page: page, Limit: limit}

	if blID != "" {
		parsed, err := uuid.Parse(blID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid bl id: %w", err)
		}
		filter.BLID = &parsed
	}
	if clientID != "" {
		parsed, err := uuid.Parse(clientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid client id: %w", err)
		}
		filter.ClientID = &parsed
	}
	if from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid from date: %w", err)
		}
		filter.From = &parsed
	}
	if to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid to date: %w", err)
		}
		filter.To = &parsed
	}

	entries, total, err := s.accountingRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch accounting entries: %w", err)
	}

	res := make([]AccountingEntryResponse, 0, len(entries))
	for _, entry := range entries {
		res = append(res, toAccountingEntryResponse(entry))
	}
	return res, total, nil
}

func (s *accountingService) UpdateEntry(ctx context.Context, id string, req UpdateAccountingEntryRequest) (AccountingEntryResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return AccountingEntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}

	entry, err := s.accountingRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountingEntryResponse{}, errors.New("accounting entry not found")
		}
		return AccountingEntryResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Label != "" {
		entry.Label = req.Label
	}
	if req.Reference != "" {
		entry.Reference = req.Reference
	}
	if req.Debit != "" || req.Credit != "" {
		debitRaw := req.Debit
		if debitRaw == "" {
			debitRaw = entry.Debit.String()
		}
		creditRaw := req.Credit
		if creditRaw == "" {
			creditRaw = entry.Credit.String()
		}
		debit, credit, amountErr := parseJournalAmounts(debitRaw, creditRaw)
		if amountErr != nil {
			return AccountingEntryResponse{}, amountErr
		}
		entry.Debit = debit
		entry.Credit = credit
	}

	if err := s.accountingRepo.Update(ctx, entry); err != nil {
		return AccountingEntryResponse{}, fmt.Errorf("failed to update accounting entry: %w", err)
	}

	return toAccountingEntryResponse(*entry), nil
}

func (s *accountingService) DeleteEntry(ctx context.Context, id string) error {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid entry id: %w", err)
	}
	if _, err := s.accountingRepo.FindByID(ctx, entryID); err != nil {
		return errors.New("accounting entry not found")
	}
	return s.accountingRepo.Delete(ctx, entryID)
}

// parseJournalAmounts enforces the single-sided rule: a line carries a
// debit or a credit, never both, and never negative values.
func parseJournalAmounts(debitRaw, creditRaw string) (decimal.Decimal, decimal.Decimal, error) {
	debit := decimal.Zero
	credit := decimal.Zero
	var err error

	if debitRaw != "" {
		debit, err = decimal.NewFromString(debitRaw)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("invalid debit amount: %w", err)
		}
	}
	if creditRaw != "" {
		credit, err = decimal.NewFromString(creditRaw)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("invalid credit amount: %w", err)
		}
	}

	if debit.IsNegative() || credit.IsNegative() {
		return decimal.Zero, decimal.Zero, errors.New("journal amounts cannot be negative")
	}
	if debit.IsPositive() && credit.IsPositive() {
		return decimal.Zero, decimal.Zero, errors.New("an entry cannot carry both a debit and a credit")
	}
	if debit.IsZero() && credit.IsZero() {
		return decimal.Zero, decimal.Zero, errors.New("an entry must carry a debit or a credit")
	}

	return debit, credit, nil
}

func toAccountingEntryResponse(entry model.AccountingEntry) AccountingEntryResponse {
	res := AccountingEntryResponse{
		ID:        entry.ID.String(),
		EntryDate: entry.EntryDate.Format(time.RFC3339),
		Label:     entry.Label,
		Debit:     entry.Debit.String(),
		Credit:    entry.Credit.String(),
		Reference: entry.Reference,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.BLID != nil {
		blID := entry.BLID.String()
		res.BLID = &blID
	}
	if entry.ClientID != nil {
		clientID := entry.ClientID.String()
		res.ClientID = &clientID
	}
	return res
}
