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

type CreateTruckRequest struct {
	Plate      string  `json:"plate" binding:"required"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	CapacityKg float64 `json:"capacity_kg"`
}

type UpdateTruckRequest struct {
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	CapacityKg *float64 `json:"capacity_kg"`
	IsActive   *bool    `json:"is_active"`
}

type TruckResponse struct {
	ID         string  `json:"id"`
	Plate      string  `json:"plate"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	CapacityKg float64 `json:"capacity_kg"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

type CreateDriverRequest struct {
	Name          string  `json:"name" binding:"required"`
	LicenseNumber string  `json:"license_number" binding:"required"`
	Phone         string  `json:"phone"`
	HiredAt       *string `json:"hired_at"`
}

type UpdateDriverRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

type DriverResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	LicenseNumber string  `json:"license_number"`
	Phone         string  `json:"phone"`
	HiredAt       *string `json:"hired_at"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
}

type FleetService interface {
	CreateTruck(ctx context.Context, req CreateTruckRequest) (TruckResponse, error)
	GetTruck(ctx context.Context, id string) (TruckResponse, error)
	ListTrucks(ctx context.Context, page, limit int) ([]TruckResponse, int64, error)
	UpdateTruck(ctx context.Context, id string, req UpdateTruckRequest) (TruckResponse, error)
	DeleteTruck(ctx context.Context, id string) error

	CreateDriver(ctx context.Context, req CreateDriverRequest) (DriverResponse, error)
	GetDriver(ctx context.Context, id string) (DriverResponse, error)
	ListDrivers(ctx context.Context, page, limit int) ([]DriverResponse, int64, error)
	UpdateDriver(ctx context.Context, id string, req UpdateDriverRequest) (DriverResponse, error)
	DeleteDriver(ctx context.Context, id string) error
}

type fleetService struct {
	truckRepo  repository.TruckRepository
	driverRepo repository.DriverRepository
}

func NewFleetService(truckRepo repository.TruckRepository, driverRepo repository.DriverRepository) FleetService {
	return &fleetService{truckRepo: truckRepo, driverRepo: driverRepo}
}

func (s *fleetService) CreateTruck(ctx context.Context, req CreateTruckRequest) (TruckResponse, error) {
	truck := model.Truck{
		Plate:      req.Plate,
		Brand:      req.Brand,
		Model:      req.Model,
		CapacityKg: req.CapacityKg,
		IsActive:   true,
	}

	if err := s.truckRepo.Create(ctx, &truck); err != nil {
		return TruckResponse{}, fmt.Errorf("failed to create truck: %w", err)
	}

	return toTruckResponse(truck), nil
}

func (s *fleetService) GetTruck(ctx context.Context, id string) (TruckResponse, error) {
	truckID, err := uuid.Parse(id)
	if err != nil {
		return TruckResponse{}, fmt.Errorf("invalid truck id: %w", err)
	}

	truck, err := s.truckRepo.FindByID(ctx, truckID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TruckResponse{}, errors.New("truck not found")
		}
		return TruckResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toTruckResponse(*truck), nil
}

func (s *fleetService) ListTrucks(ctx context.Context, page, limit int) ([]TruckResponse, int64, error) {
	trucks, total, err := s.truckRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch trucks: %w", err)
	}

	res := make([]TruckResponse, 0, len(trucks))
	for _, truck := range trucks {
		res = append(res, toTruckResponse(truck))
	}
	return res, total, nil
}

func (s *fleetService) UpdateTruck(ctx context.Context, id string, req UpdateTruckRequest) (TruckResponse, error) {
	truckID, err := uuid.Parse(id)
	if err != nil {
		return TruckResponse{}, fmt.Errorf("invalid truck id: %w", err)
	}

	truck, err := s.truckRepo.FindByID(ctx, truckID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TruckResponse{}, errors.New("truck not found")
		}
		return TruckResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Brand != "" {
		truck.Brand = req.Brand
	}
	if req.Model != "" {
		truck.Model = req.Model
	}
	if req.CapacityKg != nil {
		truck.CapacityKg = *req.CapacityKg
	}
	if req.IsActive != nil {
		truck.IsActive = *req.IsActive
	}

	if err := s.truckRepo.Update(ctx, truck); err != nil {
		return TruckResponse{}, fmt.Errorf("failed to update truck: %w", err)
	}

	return toTruckResponse(*truck), nil
}

func (s *fleetService) DeleteTruck(ctx context.Context, id string) error {
	truckID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid truck id: %w", err)
	}
	if _, err := s.truckRepo.FindByID(ctx, truckID); err != nil {
		return errors.New("truck not found")
	}
	return s.truckRepo.Delete(ctx, truckID)
}

func (s *fleetService) CreateDriver(ctx context.Context, req CreateDriverRequest) (DriverResponse, error) {
	hiredAt, err := parseOptionalDate(req.HiredAt)
	if err != nil {
		return DriverResponse{}, fmt.Errorf("invalid hired_at date: %w", err)
	}

	driver := model.Driver{
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		HiredAt:       hiredAt,
		IsActive:      true,
	}

	if err := s.driverRepo.Create(ctx, &driver); err != nil {
		return DriverResponse{}, fmt.Errorf("failed to create driver: %w", err)
	}

	return toDriverResponse(driver), nil
}

func (s *fleetService) GetDriver(ctx context.Context, id string) (DriverResponse, error) {
	driverID, err := uuid.Parse(id)
	if err != nil {
		return DriverResponse{}, fmt.Errorf("invalid driver id: %w", err)
	}

	driver, err := s.driverRepo.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DriverResponse{}, errors.New("driver not found")
		}
		return DriverResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toDriverResponse(*driver), nil
}

func (s *fleetService) ListDrivers(ctx context.Context, page, limit int) ([]DriverResponse, int64, error) {
	drivers, total, err := s.driverRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch drivers: %w", err)
	}

	res := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		res = append(res, toDriverResponse(driver))
	}
	return res, total, nil
}

func (s *fleetService) UpdateDriver(ctx context.Context, id string, req UpdateDriverRequest) (DriverResponse, error) {
	driverID, err := uuid.Parse(id)
	if err != nil {
		return DriverResponse{}, fmt.Errorf("invalid driver id: %w", err)
	}

	driver, err := s.driverRepo.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DriverResponse{}, errors.New("driver not found")
		}
		return DriverResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != "" {
		driver.Name = req.Name
	}
	if req.Phone != "" {
		driver.Phone = req.Phone
	}
	if req.IsActive != nil {
		driver.IsActive = *req.IsActive
	}

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return DriverResponse{}, fmt.Errorf("failed to update driver: %w", err)
	}

	return toDriverResponse(*driver), nil
}

func (s *fleetService) DeleteDriver(ctx context.Context, id string) error {
	driverID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid driver id: %w", err)
	}
	if _, err := s.driverRepo.FindByID(ctx, driverID); err != nil {
		return errors.New("driver not found")
	}
	return s.driverRepo.Delete(ctx, driverID)
}

func toTruckResponse(truck model.Truck) TruckResponse {
	return TruckResponse{
		ID:         truck.ID.String(),
		Plate:      truck.Plate,
		Brand:      truck.Brand,
		Model:      truck.Model,
		CapacityKg: truck.CapacityKg,
		IsActive:   truck.IsActive,
		CreatedAt:  truck.CreatedAt.Format(time.RFC3339),
	}
}

func toDriverResponse(driver model.Driver) DriverResponse {
	res := DriverResponse{
		ID:            driver.ID.String(),
		Name:          driver.Name,
		LicenseNumber: driver.LicenseNumber,
		Phone:         driver.Phone,
		IsActive:      driver.IsActive,
		CreatedAt:     driver.CreatedAt.Format(time.RFC3339),
	}
	if driver.HiredAt != nil {
		hired := driver.HiredAt.Format(time.RFC3339)
		res.HiredAt = &hired
	}
	return res
}
