package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	carDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/car"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Model              string         `gorm:"not null;size:200"`
	RegistrationNumber string         `gorm:"uniqueIndex;not null;size:32"`
	ImageURL           string         `gorm:"size:500"`
	PriceCentsPerDay   int64          `gorm:"not null"`
	CategoryID         uuid.UUID      `gorm:"type:uuid;index"`
	InvestorID         uuid.UUID      `gorm:"type:uuid;index"`
	Schedule           datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time      `gorm:"not null"`
	UpdatedAt          time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of car.Repository.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// FindByID retrieves a car by its unique identifier.
func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", id.String())
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return toDomainCar(&model)
}

// List retrieves cars with pagination, optionally filtered by category.
func (r *GormCarRepository) List(ctx context.Context, categoryID *uuid.UUID, page, limit int) ([]*carDomain.Car, int64, error) {
	query := r.db.WithContext(ctx).Model(&CarModel{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	var models []CarModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		c, err := toDomainCar(&m)
		if err != nil {
			return nil, 0, err
		}
		cars[i] = c
	}

	return cars, total, nil
}

// FindByInvestorID retrieves all cars owned by the given investor.
func (r *GormCarRepository) FindByInvestorID(ctx context.Context, investorID uuid.UUID) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find cars by investor: %w", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		c, err := toDomainCar(&m)
		if err != nil {
			return nil, err
		}
		cars[i] = c
	}
	return cars, nil
}

// Save persists a new car.
func (r *GormCarRepository) Save(ctx context.Context, c *carDomain.Car) error {
	model, err := toCarModel(c)
	if err != nil {
		return fmt.Errorf("failed to convert car to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save car: %w", err)
	}
	return nil
}

// Update persists changes to a car's back-office fields. The schedule column
// is deliberately excluded; only BlockDates/UnblockDates write it.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) error {
	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]interface{}{
			"model":               c.Model(),
			"registration_number": c.RegistrationNumber(),
			"image_url":           c.ImageURL(),
			"price_cents_per_day": c.PriceCentsPerDay(),
			"category_id":         c.CategoryID(),
			"investor_id":         c.InvestorID(),
			"updated_at":          c.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", c.ID().String())
	}
	return nil
}

// Delete removes a car.
func (r *GormCarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CarModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", id.String())
	}
	return nil
}

// BlockDates appends one blocking entry per date to the car's schedule.
func (r *GormCarRepository) BlockDates(ctx context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error {
	if len(dates) == 0 {
		return nil
	}
	return r.mutateSchedule(ctx, carID, func(c *carDomain.Car) {
		c.Block(bookingRef, dates)
	})
}

// UnblockDates removes the blocking entries the booking introduced for the
// given dates.
func (r *GormCarRepository) UnblockDates(ctx context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error {
	if len(dates) == 0 {
		return nil
	}
	return r.mutateSchedule(ctx, carID, func(c *carDomain.Car) {
		c.Unblock(bookingRef, dates)
	})
}

// mutateSchedule applies fn to the car's schedule under a row lock so that
// concurrent bookings completing on the same car cannot lose each other's
// entries. Callers run this inside their transaction.
func (r *GormCarRepository) mutateSchedule(ctx context.Context, carID uuid.UUID, fn func(c *carDomain.Car)) error {
	var model CarModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", carID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("Car", carID.String())
		}
		return fmt.Errorf("failed to lock car row: %w", err)
	}

	c, err := toDomainCar(&model)
	if err != nil {
		return err
	}
	fn(c)

	scheduleJSON, err := json.Marshal(c.Schedule())
	if err != nil {
		return fmt.Errorf("failed to marshal car schedule: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ?", carID).
		Updates(map[string]interface{}{
			"schedule":   datatypes.JSON(scheduleJSON),
			"updated_at": c.UpdatedAt(),
		}).Error; err != nil {
		return fmt.Errorf("failed to update car schedule: %w", err)
	}
	return nil
}

// --- Conversion helpers ---

func toCarModel(c *carDomain.Car) (*CarModel, error) {
	scheduleJSON, err := json.Marshal(c.Schedule())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal car schedule: %w", err)
	}

	return &CarModel{
		ID:                 c.ID(),
		Model:              c.Model(),
		RegistrationNumber: c.RegistrationNumber(),
		ImageURL:           c.ImageURL(),
		PriceCentsPerDay:   c.PriceCentsPerDay(),
		CategoryID:         c.CategoryID(),
		InvestorID:         c.InvestorID(),
		Schedule:           datatypes.JSON(scheduleJSON),
		CreatedAt:          c.CreatedAt(),
		UpdatedAt:          c.UpdatedAt(),
	}, nil
}

func toDomainCar(m *CarModel) (*carDomain.Car, error) {
	var entries []schedule.Entry
	if len(m.Schedule) > 0 {
		if err := json.Unmarshal(m.Schedule, &entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal car schedule: %w", err)
		}
	}

	return carDomain.Reconstruct(
		m.ID,
		m.Model,
		m.RegistrationNumber,
		m.ImageURL,
		m.PriceCentsPerDay,
		m.CategoryID,
		m.InvestorID,
		entries,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
