package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	carDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/car"
	investorDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/investor"
)

// InvestorRequest holds the data for creating or updating an investor.
type InvestorRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
}

// InvestorDTO is the response representation of an investor.
type InvestorDTO struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	NationalID string    `json:"national_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InvestorService handles investor CRUD and the investor's fleet listing.
type InvestorService struct {
	investors investorDomain.Repository
	cars      carDomain.Repository
	logger    *zap.Logger
}

// NewInvestorService creates a new InvestorService.
func NewInvestorService(investors investorDomain.Repository, cars carDomain.Repository, logger *zap.Logger) *InvestorService {
	return &InvestorService{investors: investors, cars: cars, logger: logger}
}

// CreateInvestor registers a new investor.
func (s *InvestorService) CreateInvestor(ctx context.Context, req InvestorRequest) (*InvestorDTO, error) {
	inv, err := investorDomain.NewInvestor(req.FullName, req.Email, req.Phone, req.NationalID)
	if err != nil {
		return nil, err
	}
	if err := s.investors.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save investor: %w", err)
	}
	dto := toInvestorDTO(inv)
	return &dto, nil
}

// GetInvestor retrieves a single investor by ID.
func (s *InvestorService) GetInvestor(ctx context.Context, id uuid.UUID) (*InvestorDTO, error) {
	inv, err := s.investors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toInvestorDTO(inv)
	return &dto, nil
}

// ListInvestors retrieves paginated investors.
func (s *InvestorService) ListInvestors(ctx context.Context, page, limit int) (*domain.PaginatedResult[InvestorDTO], error) {
	investors, total, err := s.investors.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]InvestorDTO, len(investors))
	for i, inv := range investors {
		dtos[i] = toInvestorDTO(inv)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetInvestorCars lists the cars owned by the given investor.
func (s *InvestorService) GetInvestorCars(ctx context.Context, investorID uuid.UUID) ([]CarDTO, error) {
	if _, err := s.investors.FindByID(ctx, investorID); err != nil {
		return nil, err
	}

	cars, err := s.cars.FindByInvestorID(ctx, investorID)
	if err != nil {
		return nil, err
	}

	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c)
	}
	return dtos, nil
}

// UpdateInvestor replaces the investor's contact details.
func (s *InvestorService) UpdateInvestor(ctx context.Context, id uuid.UUID, req InvestorRequest) (*InvestorDTO, error) {
	inv, err := s.investors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateDetails(req.FullName, req.Email, req.Phone, req.NationalID); err != nil {
		return nil, err
	}
	if err := s.investors.Update(ctx, inv); err != nil {
		return nil, err
	}
	dto := toInvestorDTO(inv)
	return &dto, nil
}

// DeleteInvestor removes an investor.
func (s *InvestorService) DeleteInvestor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.investors.FindByID(ctx, id); err != nil {
		return err
	}
	return s.investors.Delete(ctx, id)
}

func toInvestorDTO(inv *investorDomain.Investor) InvestorDTO {
	return InvestorDTO{
		ID:         inv.ID(),
		FullName:   inv.FullName(),
		Email:      inv.Email(),
		Phone:      inv.Phone(),
		NationalID: inv.NationalID(),
		CreatedAt:  inv.CreatedAt(),
		UpdatedAt:  inv.UpdatedAt(),
	}
}
