package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validTransportTransitions = map[string][]string{
	model.TransportStatusPlanned:    {model.TransportStatusInProgress, model.TransportStatusCancelled},
	model.TransportStatusInProgress: {model.TransportStatusDone, model.TransportStatusCancelled},
}

type CreateTransportRequest struct {
	TruckID     string  `json:"truck_id" binding:"required,uuid"`
	DriverID    string  `json:"driver_id" binding:"required,uuid"`
	BLID        *string `json:"bl_id"`
	ContainerID *string `json:"container_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	ScheduledAt *string `json:"scheduled_at"`
}

type UpdateTransportRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	ScheduledAt *string `json:"scheduled_at"`
	Status      string  `json:"status" binding:"omitempty,oneof=PLANNED IN_PROGRESS DONE CANCELLED"`
}

type TransportResponse struct {
	ID          string  `json:"id"`
	TruckID     string  `json:"truck_id"`
	TruckPlate  string  `json:"truck_plate,omitempty"`
	DriverID    string  `json:"driver_id"`
	DriverName  string  `json:"driver_name,omitempty"`
	BLID        *string `json:"bl_id,omitempty"`
	ContainerID *string `json:"container_id,omitempty"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

type TransportService interface {
	CreateTransport(ctx context.Context, req CreateTransportRequest) (TransportResponse, error)
	GetTransport(ctx context.Context, id string) (TransportResponse, error)
	ListTransports(ctx context.Context, truckID, driverID, blID, status string, page, limit int) ([]TransportResponse, int64, error)
	UpdateTransport(ctx context.Context, id string, req UpdateTransportRequest) (TransportResponse, error)
	DeleteTransport(ctx context.Context, id string) error
}

type transportService struct {
	transportRepo repository.TransportRepository
	truckRepo     repository.TruckRepository
	driverRepo    repository.DriverRepository
	blRepo        repository.BLRepository
	now           func() time.Time
}

func NewTransportService(
	transportRepo repository.TransportRepository,
	truckRepo repository.TruckRepository,
	driverRepo repository.DriverRepository,
	blRepo repository.BLRepository,
) TransportService {
	return &transportService{
		transportRepo: transportRepo,
		truckRepo:     truckRepo,
		driverRepo:    driverRepo,
		blRepo:        blRepo,
		now:           time.Now,
	}
}

func (s *transportService) CreateTransport(ctx context.Context, req CreateTransportRequest) (TransportResponse, error) {
	truckID, err := uuid.Parse(req.TruckID)
	if err != nil {
		return TransportResponse{}, fmt.Errorf("invalid truck id: %w", err)
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return TransportResponse{}, fmt.Errorf("invalid driver id: %w", err)
	}

	truck, err := s.truckRepo.FindByID(ctx, truckID)
	if err != nil {
		return TransportResponse{}, errors.New("truck not found")
	}
	if !truck.IsActive {
		return TransportResponse{}, errors.New("truck is not active")
	}

	driver, err := s.driverRepo.FindByID(ctx, driverID)
	if err != nil {
		return TransportResponse{}, errors.New("driver not found")
	}
	if !driver.IsActive {
		return TransportResponse{}, errors.New("driver is not active")
	}

	var blID *uuid.UUID
	if req.BLID != nil && *req.BLID != "" {
		parsed, parseErr := uuid.Parse(*req.BLID)
		if parseErr != nil {
			return TransportResponse{}, fmt.Errorf("invalid bl id: %w", parseErr)
		}
		if _, blErr := s.blRepo.FindByID(ctx, parsed); blErr != nil {
			return TransportResponse{}, errors.New("bill of lading not found")
		}
		blID = &parsed
	}

	var containerID *uuid.UUID
	if req.ContainerID != nil && *req.ContainerID != "" {
		parsed, parseErr := uuid.Parse(*req.ContainerID)
		if parseErr != nil {
			return TransportResponse{}, fmt.Errorf("invalid container id: %w", parseErr)
		}
		containerID = &parsed
	}

	scheduledAt, err := parseOptionalDate(req.ScheduledAt)
	if err != nil {
		return TransportResponse{}, fmt.Errorf("invalid scheduled_at date: %w", err)
	}

	transport := model.Transport{
		TruckID:     truckID,
		DriverID:    driverID,
		BLID:        blID,
		ContainerID: containerID,
		Origin:      req.Origin,
		Destination: req.Destination,
		ScheduledAt: scheduledAt,
		Status:      model.TransportStatusPlanned,
	}

	if err := s.transportRepo.Create(ctx, &transport); err != nil {
		return TransportResponse{}, fmt.Errorf("failed to create transport: %w", err)
	}

	transport.Truck = truck
	transport.Driver = driver
	return toTransportResponse(transport), nil
}

func (s *transportService) GetTransport(ctx context.Context, id string) (TransportResponse, error) {
	transportID, err := uuid.Parse(id)
	if err != nil {
		return TransportResponse{}, fmt.Errorf("invalid transport id: %w", err)
	}

	transport, err := s.transportRepo.FindByID(ctx, transportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransportResponse{}, errors.New("transport not found")
		}
		return TransportResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toTransportResponse(*transport), nil
}

func (s *transportService) ListTransports(ctx context.Context, truckID, driverID, blID, status string, page, limit int) ([]TransportResponse, int64, error) {
	filter := repository.TransportFilter{Status: status, Page: page, Limit: limit}

	if truckID != "" {
		parsed, err := uuid.Parse(truckID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid truck id: %w", err)
		}
		filter.TruckID = &parsed
	}
	if driverID != "" {
		parsed, err := uuid.Parse(driverID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid driver id: %w", err)
		}
		filter.DriverID = &parsed
	}
	if blID != "" {
		parsed, err := uuid.Parse(blID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid bl id: %w", err)
		}
		filter.BLID = &parsed
	}

	transports, total, err := s.transportRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transports: %w", err)
	}

	res := make([]TransportResponse, 0, len(transports))
	for _, transport := range transports {
		res = append(res, toTransportResponse(transport))
	}
	return res, total, nil
}

func (s *transportService) UpdateTransport(ctx context.Context, id string, req UpdateTransportRequest) (TransportResponse, error) {
	transportID, err := uuid.Parse(id)
	if err != nil {
		return TransportResponse{}, fmt.Errorf("invalid transport id: %w", err)
	}

	transport, err := s.transportRepo.FindByID(ctx, transportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransportResponse{}, errors.New("transport not found")
		}
		return TransportResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Origin != "" {
		transport.Origin = req.Origin
	}
	if req.Destination != "" {
		transport.Destination = req.Destination
	}
	if req.ScheduledAt != nil {
		scheduledAt, dateErr := parseOptionalDate(req.ScheduledAt)
		if dateErr != nil {
			return TransportResponse{}, fmt.Errorf("invalid scheduled_at date: %w", dateErr)
		}
		transport.ScheduledAt = scheduledAt
	}
	if req.Status != "" && req.Status != transport.Status {
		if !transportTransitionAllowed(transport.Status, req.Status) {
			return TransportResponse{}, fmt.Errorf("cannot move transport from %s to %s", transport.Status, req.Status)
		}
		transport.Status = req.Status
		if req.Status == model.TransportStatusDone {
			done := s.now()
			transport.CompletedAt = &done
		}
	}

	if err := s.transportRepo.Update(ctx, transport); err != nil {
		return TransportResponse{}, fmt.Errorf("failed to update transport: %w", err)
	}

	return toTransportResponse(*transport), nil
}

func (s *transportService) DeleteTransport(ctx context.Context, id string) error {
	transportID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid transport id: %w", err)
	}

	transport, err := s.transportRepo.FindByID(ctx, transportID)
	if err != nil {
		return errors.New("transport not found")
	}
	if transport.Status == model.TransportStatusInProgress {
		return errors.New("cannot delete a transport in progress")
	}

	return s.transportRepo.Delete(ctx, transportID)
}

func transportTransitionAllowed(from, to string) bool {
	for _, next := range validTransportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func toTransportResponse(transport model.Transport) TransportResponse {
	res := TransportResponse{
		ID:          transport.ID.String(),
		TruckID:     transport.TruckID.String(),
		DriverID:    transport.DriverID.String(),
		Origin:      transport.Origin,
		Destination: transport.Destination,
		Status:      transport.Status,
		CreatedAt:   transport.CreatedAt.Format(time.RFC3339),
	}
	if transport.Truck != nil {
		res.TruckPlate = transport.Truck.Plate
	}
	if transport.Driver != nil {
		res.DriverName = transport.Driver.Name
	}
	if transport.BLID != nil {
		blID := transport.BLID.String()
		res.BLID = &blID
	}
	if transport.ContainerID != nil {
		containerID := transport.ContainerID.String()
		res.ContainerID = &containerID
	}
	if transport.ScheduledAt != nil {
		scheduled := transport.ScheduledAt.Format(time.RFC3339)
		res.ScheduledAt = &scheduled
	}
	if transport.CompletedAt != nil {
		completed := transport.CompletedAt.Format(time.RFC3339)
		res.CompletedAt = &completed
	}
	return res
}
