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

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	bookingDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/booking"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BookingNumber      string         `gorm:"uniqueIndex;not null;size:20"`
	CustomerName       string         `gorm:"not null;size:200"`
	CustomerEmail      string         `gorm:"not null;size:200"`
	CustomerPhone      string         `gorm:"not null;size:50"`
	CustomerNationalID string         `gorm:"size:50"`
	CarID              uuid.UUID      `gorm:"type:uuid;index;not null"`
	TotalCents         int64          `gorm:"not null"`
	Currency           string         `gorm:"not null;size:3;default:'USD'"`
	Status             string         `gorm:"not null;size:30;index"`
	SpecialRequest     string         `gorm:"size:1000"`
	Schedule           datatypes.JSON `gorm:"type:jsonb;not null"`
	CompletedAt        *time.Time     `gorm:""`
	CancelledAt        *time.Time     `gorm:""`
	Version            int64          `gorm:"not null;default:1"`
	CreatedAt          time.Time      `gorm:"not null"`
	UpdatedAt          time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// List retrieves bookings with pagination, optionally filtered by status.
func (r *GormBookingRepository) List(ctx context.Context, status *bookingDomain.Status, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// Two racing transitions on the same booking both read the same version;
// only the first commit matches it, the second gets a conflict.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// IncrementVersion was called before Update, so the stored row must
	// still be at version-1.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"special_request": model.SpecialRequest,
			"schedule":        model.Schedule,
			"completed_at":    model.CompletedAt,
			"cancelled_at":    model.CancelledAt,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	scheduleJSON, err := json.Marshal(bk.Schedule())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	customer := bk.Customer()
	return &BookingModel{
		ID:                 bk.ID(),
		BookingNumber:      bk.BookingNumber(),
		CustomerName:       customer.FullName,
		CustomerEmail:      customer.Email,
		CustomerPhone:      customer.Phone,
		CustomerNationalID: customer.NationalID,
		CarID:              bk.CarID(),
		TotalCents:         bk.TotalCents(),
		Currency:           bk.Currency(),
		Status:             string(bk.Status()),
		SpecialRequest:     bk.SpecialRequest(),
		Schedule:           datatypes.JSON(scheduleJSON),
		CompletedAt:        bk.CompletedAt(),
		CancelledAt:        bk.CancelledAt(),
		Version:            bk.Version(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var entries []schedule.Entry
	if len(m.Schedule) > 0 {
		if err := json.Unmarshal(m.Schedule, &entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
		}
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingNumber,
		bookingDomain.Customer{
			FullName:   m.CustomerName,
			Email:      m.CustomerEmail,
			Phone:      m.CustomerPhone,
			NationalID: m.CustomerNationalID,
		},
		m.CarID,
		m.TotalCents,
		m.Currency,
		status,
		m.SpecialRequest,
		entries,
		m.CompletedAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
