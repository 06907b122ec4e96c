package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"transitflow/internal/categorize"
	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBLRequest struct {
	BLNumber        string   `json:"bl_number" binding:"required"`
	ClientID        string   `json:"client_id" binding:"required"`
	OriginPort      string   `json:"origin_port"`
	DestinationPort string   `json:"destination_port"`
	Vessel          string   `json:"vessel"`
	Budget          string   `json:"budget"` // decimal string
	Categories      []string `json:"categories"`
	SubCategories   []string `json:"sub_categories"`
	Description     string   `json:"description"`
	ArrivalDate     *string  `json:"arrival_date"` // RFC3339
}

type UpdateBLRequest struct {
	OriginPort      string   `json:"origin_port"`
	DestinationPort string   `json:"destination_port"`
	Vessel          string   `json:"vessel"`
	Status          string   `json:"status" binding:"omitempty,oneof=OPEN IN_TRANSIT ARRIVED CLOSED"`
	Budget          string   `json:"budget"`
	Categories      []string `json:"categories"`
	SubCategories   []string `json:"sub_categories"`
	Description     string   `json:"description"`
	ArrivalDate     *string  `json:"arrival_date"`
}

type BLResponse struct {
	ID              string   `json:"id"`
	BLNumber        string   `json:"bl_number"`
	ClientID        string   `json:"client_id"`
	ClientName      string   `json:"client_name"`
	OriginPort      string   `json:"origin_port"`
	DestinationPort string   `json:"destination_port"`
	Vessel          string   `json:"vessel"`
	Status          string   `json:"status"`
	Budget          string   `json:"budget"`
	Categories      []string `json:"categories"`
	SubCategories   []string `json:"sub_categories"`
	Description     string   `json:"description"`
	ArrivalDate     *string  `json:"arrival_date"`
	CreatedAt       string   `json:"created_at"`
}

// BLBudgetSummary totals the expenses booked against a BL budget
type BLBudgetSummary struct {
	Budget    string `json:"budget"`
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
	OverSpent bool   `json:"over_spent"`
}

type BLDetailResponse struct {
	BLResponse
	BudgetSummary BLBudgetSummary `json:"budget_summary"`
}

// --- Interface ---

type BLService interface {
	CreateBL(ctx context.Context, req CreateBLRequest) (BLResponse, error)
	GetBL(ctx context.Context, id string) (BLDetailResponse, error)
	ListBLs(ctx context.Context, clientID, status string, page, limit int) ([]BLResponse, int64, error)
	UpdateBL(ctx context.Context, id string, req UpdateBLRequest) (BLResponse, error)
	DeleteBL(ctx context.Context, id string) error
	SuggestCategories(ctx context.Context, description string) categorize.Suggestion
}

type blService struct {
	blRepo      repository.BLRepository
	clientRepo  repository.ClientRepository
	categorizer categorize.Categorizer
}

func NewBLService(blRepo repository.BLRepository, clientRepo repository.ClientRepository, categorizer categorize.Categorizer) BLService {
	return &blService{blRepo: blRepo, clientRepo: clientRepo, categorizer: categorizer}
}

// --- Implementation ---

func (s *blService) CreateBL(ctx context.Context, req CreateBLRequest) (BLResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return BLResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BLResponse{}, errors.New("client not found")
		}
		return BLResponse{}, fmt.Errorf("database error: %w", err)
	}

	if _, err := s.blRepo.FindByNumber(ctx, req.BLNumber); err == nil {
		return BLResponse{}, errors.New("BL number already exists")
	}

	budget := decimal.Zero
	if req.Budget != "" {
		parsed, parseErr := decimal.NewFromString(req.Budget)
		if parseErr != nil {
			return BLResponse{}, fmt.Errorf("invalid budget: %w", parseErr)
		}
		if parsed.IsNegative() {
			return BLResponse{}, errors.New("budget cannot be negative")
		}
		budget = parsed
	}

	arrival, err := parseOptionalDate(req.ArrivalDate)
	if err != nil {
		return BLResponse{}, err
	}

	bl := model.BillOfLading{
		BLNumber:        req.BLNumber,
		ClientID:        client.ID,
		OriginPort:      req.OriginPort,
		DestinationPort: req.DestinationPort,
		Vessel:          req.Vessel,
		Status:          model.BLStatusOpen,
		Budget:          budget,
		Categories:      encodeTags(req.Categories),
		SubCategories:   encodeTags(req.SubCategories),
		Description:     req.Description,
		ArrivalDate:     arrival,
	}

	if err := s.blRepo.Create(ctx, &bl); err != nil {
		return BLResponse{}, fmt.Errorf("failed to create BL: %w", err)
	}

	bl.Client = client
	return toBLResponse(bl), nil
}

func (s *blService) GetBL(ctx context.Context, id string) (BLDetailResponse, error) {
	blID, err := uuid.Parse(id)
	if err != nil {
		return BLDetailResponse{}, fmt.Errorf("invalid BL id: %w", err)
	}

	bl, err := s.blRepo.FindByID(ctx, blID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BLDetailResponse{}, errors.New("BL not found")
		}
		return BLDetailResponse{}, fmt.Errorf("database error: %w", err)
	}

	spent, err := s.blRepo.SumExpenses(ctx, blID)
	if err != nil {
		return BLDetailResponse{}, fmt.Errorf("failed to total expenses: %w", err)
	}

	remaining := bl.Budget.Sub(spent)
	return BLDetailResponse{
		BLResponse: toBLResponse(*bl),
		BudgetSummary: BLBudgetSummary{
			Budget:    bl.Budget.StringFixed(2),
			Spent:     spent.StringFixed(2),
			Remaining: remaining.StringFixed(2),
			OverSpent: remaining.IsNegative(),
		},
	}, nil
}

func (s *blService) ListBLs(ctx context.Context, clientID, status string, page, limit int) ([]BLResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	filter := repository.BLFilter{Status: status, Page: page, Limit: limit}
	if clientID != "" {
		parsed, err := uuid.Parse(clientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid client id: %w", err)
		}
		filter.ClientID = &parsed
	}

	bls, total, err := s.blRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch BLs: %w", err)
	}

	res := make([]BLResponse, 0, len(bls))
	for _, bl := range bls {
		res = append(res, toBLResponse(bl))
	}
	return res, total, nil
}

func (s *blService) UpdateBL(ctx context.Context, id string, req UpdateBLRequest) (BLResponse, error) {
	blID, err := uuid.Parse(id)
	if err != nil {
		return BLResponse{}, fmt.Errorf("invalid BL id: %w", err)
	}

	bl, err := s.blRepo.FindByID(ctx, blID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BLResponse{}, errors.New("BL not found")
		}
		return BLResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.OriginPort != "" {
		bl.OriginPort = req.OriginPort
	}
	if req.DestinationPort != "" {
		bl.DestinationPort = req.DestinationPort
	}
	if req.Vessel != "" {
		bl.Vessel = req.Vessel
	}
	if req.Status != "" {
		bl.Status = req.Status
	}
	if req.Budget != "" {
		parsed, parseErr := decimal.NewFromString(req.Budget)
		if parseErr != nil {
			return BLResponse{}, fmt.Errorf("invalid budget: %w", parseErr)
		}
		if parsed.IsNegative() {
			return BLResponse{}, errors.New("budget cannot be negative")
		}
		bl.Budget = parsed
	}
	if req.Categories != nil {
		bl.Categories = encodeTags(req.Categories)
	}
	if req.SubCategories != nil {
		bl.SubCategories = encodeTags(req.SubCategories)
	}
	if req.Description != "" {
		bl.Description = req.Description
	}
	if req.ArrivalDate != nil {
		arrival, dateErr := parseOptionalDate(req.ArrivalDate)
		if dateErr != nil {
			return BLResponse{}, dateErr
		}
		bl.ArrivalDate = arrival
	}

	if err := s.blRepo.Update(ctx, bl); err != nil {
		return BLResponse{}, fmt.Errorf("failed to update BL: %w", err)
	}

	return toBLResponse(*bl), nil
}

func (s *blService) DeleteBL(ctx context.Context, id string) error {
	blID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid BL id: %w", err)
	}
	if _, err := s.blRepo.FindByID(ctx, blID); err != nil {
		return errors.New("BL not found")
	}
	return s.blRepo.Delete(ctx, blID)
}

// SuggestCategories queries the hosted categorization service. Failures
// degrade to empty suggestions so the form simply shows none.
func (s *blService) SuggestCategories(ctx context.Context, description string) categorize.Suggestion {
	suggestion, err := s.categorizer.Categorize(ctx, description)
	if err != nil {
		return categorize.Suggestion{Categories: []string{}, SubCategories: []string{}}
	}
	if suggestion.Categories == nil {
		suggestion.Categories = []string{}
	}
	if suggestion.SubCategories == nil {
		suggestion.SubCategories = []string{}
	}
	return suggestion
}

// --- Helpers ---

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	encoded, _ := json.Marshal(tags)
	return string(encoded)
}

func decodeTags(encoded string) []string {
	if encoded == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(encoded), &tags); err != nil {
		return []string{}
	}
	return tags
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *raw, err)
	}
	return &parsed, nil
}

func toBLResponse(bl model.BillOfLading) BLResponse {
	resp := BLResponse{
		ID:              bl.ID.String(),
		BLNumber:        bl.BLNumber,
		ClientID:        bl.ClientID.String(),
		OriginPort:      bl.OriginPort,
		DestinationPort: bl.DestinationPort,
		Vessel:          bl.Vessel,
		Status:          bl.Status,
		Budget:          bl.Budget.StringFixed(2),
		Categories:      decodeTags(bl.Categories),
		SubCategories:   decodeTags(bl.SubCategories),
		Description:     bl.Description,
		CreatedAt:       bl.CreatedAt.Format(time.RFC3339),
	}
	if bl.Client != nil {
		resp.ClientName = bl.Client.Name
	}
	if bl.ArrivalDate != nil {
		s := bl.ArrivalDate.Format(time.RFC3339)
		resp.ArrivalDate = &s
	}
	return resp
}
