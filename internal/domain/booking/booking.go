package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Customer is the immutable snapshot of the renter captured at booking time.
type Customer struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id             uuid.UUID
	bookingNumber  string
	customer       Customer
	carID          uuid.UUID
	totalCents     int64
	currency       string
	status         Status
	specialRequest string
	entries        []schedule.Entry

	completedAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(
	customer Customer,
	carID uuid.UUID,
	totalCents int64,
	currency string,
	specialRequest string,
	dates []schedule.Date,
) (*Booking, error) {
	if customer.FullName == "" {
		return nil, domain.NewValidationError("customer full name is required")
	}
	if _, err := mail.ParseAddress(customer.Email); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid customer email: %s", customer.Email))
	}
	if customer.Phone == "" {
		return nil, domain.NewValidationError("customer phone is required")
	}
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if totalCents <= 0 {
		return nil, domain.NewValidationError("total amount must be positive")
	}
	if len(dates) == 0 {
		return nil, domain.NewValidationError("at least one rental date is required")
	}
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, dup := seen[d.String()]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("duplicate rental date: %s", d))
		}
		seen[d.String()] = struct{}{}
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		bookingNumber:  bookingNumber,
		customer:       customer,
		carID:          carID,
		totalCents:     totalCents,
		currency:       currency,
		status:         StatusPending,
		specialRequest: specialRequest,
		entries: []schedule.Entry{{
			Dates:        dates,
			Availability: schedule.AvailabilityOpen,
		}},
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingNumber string,
	customer Customer,
	carID uuid.UUID,
	totalCents int64,
	currency string,
	status Status,
	specialRequest string,
	entries []schedule.Entry,
	completedAt *time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		bookingNumber:  bookingNumber,
		customer:       customer,
		carID:          carID,
		totalCents:     totalCents,
		currency:       currency,
		status:         status,
		specialRequest: specialRequest,
		entries:        entries,
		completedAt:    completedAt,
		cancelledAt:    cancelledAt,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's storage identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Customer returns the customer snapshot.
func (b *Booking) Customer() Customer { return b.customer }

// CarID returns the identifier of the rented car.
func (b *Booking) CarID() uuid.UUID { return b.carID }

// TotalCents returns the total amount in cents.
func (b *Booking) TotalCents() int64 { return b.totalCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// SpecialRequest returns the optional free-text special request.
func (b *Booking) SpecialRequest() string { return b.specialRequest }

// Schedule returns the booking's schedule entries. The date set is immutable
// once the booking is created; transitions only ever touch the car's schedule.
func (b *Booking) Schedule() []schedule.Entry { return b.entries }

// CompletedAt returns the time the booking was completed.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// OccupiedDates returns the union of all dates this booking occupies on its car.
func (b *Booking) OccupiedDates() []schedule.Date {
	var dates []schedule.Date
	for _, e := range b.entries {
		for _, d := range e.Dates {
			duplicate := false
			for _, existing := range dates {
				if existing.Equal(d) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				dates = append(dates, d)
			}
		}
	}
	return dates
}

// --- Behavior ---

// Confirm transitions the booking to confirmed. Confirming an
// already-confirmed booking is a no-op.
func (b *Booking) Confirm() error {
	if b.status == StatusConfirmed {
		return nil
	}
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking to completed. The caller is responsible
// for blocking the occupied dates on the car in the same atomic unit.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled. The caller is responsible for
// unblocking any dates this booking had blocked on the car in the same atomic
// unit.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
