package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	carDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/car"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

// CarRequest holds the data for creating or updating a car. The schedule is
// deliberately absent: blocking entries are written only by the booking
// lifecycle.
type CarRequest struct {
	Model              string    `json:"model" binding:"required"`
	RegistrationNumber string    `json:"registration_number" binding:"required"`
	ImageURL           string    `json:"image_url"`
	PriceCentsPerDay   int64     `json:"price_cents_per_day" binding:"required"`
	CategoryID         uuid.UUID `json:"category_id"`
	InvestorID         uuid.UUID `json:"investor_id"`
}

// CarDTO is the response representation of a car.
type CarDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Model              string           `json:"model"`
	RegistrationNumber string           `json:"registration_number"`
	ImageURL           string           `json:"image_url,omitempty"`
	PriceCentsPerDay   int64            `json:"price_cents_per_day"`
	CategoryID         uuid.UUID        `json:"category_id,omitempty"`
	InvestorID         uuid.UUID        `json:"investor_id,omitempty"`
	Schedule           []schedule.Entry `json:"schedule"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CarService handles the plain CRUD side of the fleet.
type CarService struct {
	cars   carDomain.Repository
	logger *zap.Logger
}

// NewCarService creates a new CarService.
func NewCarService(cars carDomain.Repository, logger *zap.Logger) *CarService {
	return &CarService{cars: cars, logger: logger}
}

// CreateCar registers a new car in the fleet.
func (s *CarService) CreateCar(ctx context.Context, req CarRequest) (*CarDTO, error) {
	c, err := carDomain.NewCar(req.Model, req.RegistrationNumber, req.ImageURL, req.PriceCentsPerDay, req.CategoryID, req.InvestorID)
	if err != nil {
		return nil, err
	}

	if err := s.cars.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save car: %w", err)
	}

	dto := toCarDTO(c)
	return &dto, nil
}

// GetCar retrieves a single car by ID.
func (s *CarService) GetCar(ctx context.Context, id uuid.UUID) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toCarDTO(c)
	return &dto, nil
}

// ListCars retrieves paginated cars, optionally filtered by category.
func (s *CarService) ListCars(ctx context.Context, categoryID *uuid.UUID, page, limit int) (*domain.PaginatedResult[CarDTO], error) {
	cars, total, err := s.cars.List(ctx, categoryID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateCar replaces the car's back-office fields, never its schedule.
func (s *CarService) UpdateCar(ctx context.Context, id uuid.UUID, req CarRequest) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateDetails(req.Model, req.RegistrationNumber, req.ImageURL, req.PriceCentsPerDay, req.CategoryID, req.InvestorID); err != nil {
		return nil, err
	}

	if err := s.cars.Update(ctx, c); err != nil {
		return nil, err
	}

	dto := toCarDTO(c)
	return &dto, nil
}

// DeleteCar removes a car from the fleet.
func (s *CarService) DeleteCar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.cars.FindByID(ctx, id); err != nil {
		return err
	}
	return s.cars.Delete(ctx, id)
}

func toCarDTO(c *carDomain.Car) CarDTO {
	return CarDTO{
		ID:                 c.ID(),
		Model:              c.Model(),
		RegistrationNumber: c.RegistrationNumber(),
		ImageURL:           c.ImageURL(),
		PriceCentsPerDay:   c.PriceCentsPerDay(),
		CategoryID:         c.CategoryID(),
		InvestorID:         c.InvestorID(),
		Schedule:           c.Schedule(),
		CreatedAt:          c.CreatedAt(),
		UpdatedAt:          c.UpdatedAt(),
	}
}
