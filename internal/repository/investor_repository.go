package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	investorDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/investor"
)

// InvestorModel is the GORM model for the investors table.
type InvestorModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string    `gorm:"not null;size:200"`
	Email      string    `gorm:"uniqueIndex;not null;size:200"`
	Phone      string    `gorm:"size:50"`
	NationalID string    `gorm:"size:50"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (InvestorModel) TableName() string {
	return "investors"
}

// GormInvestorRepository is the GORM-based implementation of investor.Repository.
type GormInvestorRepository struct {
	db *gorm.DB
}

// NewGormInvestorRepository creates a new GormInvestorRepository.
func NewGormInvestorRepository(db *gorm.DB) *GormInvestorRepository {
	return &GormInvestorRepository{db: db}
}

// FindByID retrieves an investor by its unique identifier.
func (r *GormInvestorRepository) FindByID(ctx context.Context, id uuid.UUID) (*investorDomain.Investor, error) {
	var model InvestorModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Investor", id.String())
		}
		return nil, fmt.Errorf("failed to find investor by ID: %w", err)
	}
	return toDomainInvestor(&model), nil
}

// List retrieves investors with pagination.
func (r *GormInvestorRepository) List(ctx context.Context, page, limit int) ([]*investorDomain.Investor, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&InvestorModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count investors: %w", err)
	}

	var models []InvestorModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list investors: %w", err)
	}

	investors := make([]*investorDomain.Investor, len(models))
	for i, m := range models {
		investors[i] = toDomainInvestor(&m)
	}
	return investors, total, nil
}

// Save persists a new investor.
func (r *GormInvestorRepository) Save(ctx context.Context, inv *investorDomain.Investor) error {
	if err := r.db.WithContext(ctx).Create(toInvestorModel(inv)).Error; err != nil {
		return fmt.Errorf("failed to save investor: %w", err)
	}
	return nil
}

// Update persists changes to an existing investor.
func (r *GormInvestorRepository) Update(ctx context.Context, inv *investorDomain.Investor) error {
	result := r.db.WithContext(ctx).
		Model(&InvestorModel{}).
		Where("id = ?", inv.ID()).
		Updates(map[string]interface{}{
			"full_name":   inv.FullName(),
			"email":       inv.Email(),
			"phone":       inv.Phone(),
			"national_id": inv.NationalID(),
			"updated_at":  inv.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update investor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Investor", inv.ID().String())
	}
	return nil
}

// Delete removes an investor.
func (r *GormInvestorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&InvestorModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete investor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Investor", id.String())
	}
	return nil
}

func toInvestorModel(inv *investorDomain.Investor) *InvestorModel {
	return &InvestorModel{
		ID:         inv.ID(),
		FullName:   inv.FullName(),
		Email:      inv.Email(),
		Phone:      inv.Phone(),
		NationalID: inv.NationalID(),
		CreatedAt:  inv.CreatedAt(),
		UpdatedAt:  inv.UpdatedAt(),
	}
}

func toDomainInvestor(m *InvestorModel) *investorDomain.Investor {
	return investorDomain.Reconstruct(m.ID, m.FullName, m.Email, m.Phone, m.NationalID, m.CreatedAt, m.UpdatedAt)
}
