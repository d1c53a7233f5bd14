package car

import (
	"time"

	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
)

// Car is the aggregate root for the fleet domain. The booking lifecycle is
// the only writer of blocking entries in the schedule; everything else on the
// car is plain back-office data.
type Car struct {
	id                 uuid.UUID
	model              string
	registrationNumber string
	imageURL           string
	priceCentsPerDay   int64
	categoryID         uuid.UUID
	investorID         uuid.UUID
	entries            []schedule.Entry

	createdAt time.Time
	updatedAt time.Time
}

// NewCar creates a new Car with an empty schedule.
func NewCar(
	model string,
	registrationNumber string,
	imageURL string,
	priceCentsPerDay int64,
	categoryID uuid.UUID,
	investorID uuid.UUID,
) (*Car, error) {
	if model == "" {
		return nil, domain.NewValidationError("car model is required")
	}
	if registrationNumber == "" {
		return nil, domain.NewValidationError("registration number is required")
	}
	if priceCentsPerDay <= 0 {
		return nil, domain.NewValidationError("price per day must be positive")
	}

	now := time.Now().UTC()
	return &Car{
		id:                 uuid.New(),
		model:              model,
		registrationNumber: registrationNumber,
		imageURL:           imageURL,
		priceCentsPerDay:   priceCentsPerDay,
		categoryID:         categoryID,
		investorID:         investorID,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Car from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	model string,
	registrationNumber string,
	imageURL string,
	priceCentsPerDay int64,
	categoryID uuid.UUID,
	investorID uuid.UUID,
	entries []schedule.Entry,
	createdAt time.Time,
	updatedAt time.Time,
) *Car {
	return &Car{
		id:                 id,
		model:              model,
		registrationNumber: registrationNumber,
		imageURL:           imageURL,
		priceCentsPerDay:   priceCentsPerDay,
		categoryID:         categoryID,
		investorID:         investorID,
		entries:            entries,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

// ID returns the car's unique identifier.
func (c *Car) ID() uuid.UUID { return c.id }

// Model returns the car model name.
func (c *Car) Model() string { return c.model }

// RegistrationNumber returns the unique registration (plate) number.
func (c *Car) RegistrationNumber() string { return c.registrationNumber }

// ImageURL returns the URL of the car's photo.
func (c *Car) ImageURL() string { return c.imageURL }

// PriceCentsPerDay returns the daily rental price in cents.
func (c *Car) PriceCentsPerDay() int64 { return c.priceCentsPerDay }

// CategoryID returns the car's category reference.
func (c *Car) CategoryID() uuid.UUID { return c.categoryID }

// InvestorID returns the owning investor's reference.
func (c *Car) InvestorID() uuid.UUID { return c.investorID }

// Schedule returns the car's schedule entries.
func (c *Car) Schedule() []schedule.Entry { return c.entries }

// CreatedAt returns the creation timestamp.
func (c *Car) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }

// --- Behavior ---

// UpdateDetails replaces the car's back-office fields. The schedule is never
// touched here; only the booking lifecycle writes blocking entries.
func (c *Car) UpdateDetails(model, registrationNumber, imageURL string, priceCentsPerDay int64, categoryID, investorID uuid.UUID) error {
	if model == "" {
		return domain.NewValidationError("car model is required")
	}
	if registrationNumber == "" {
		return domain.NewValidationError("registration number is required")
	}
	if priceCentsPerDay <= 0 {
		return domain.NewValidationError("price per day must be positive")
	}
	c.model = model
	c.registrationNumber = registrationNumber
	c.imageURL = imageURL
	c.priceCentsPerDay = priceCentsPerDay
	c.categoryID = categoryID
	c.investorID = investorID
	c.updatedAt = time.Now().UTC()
	return nil
}

// Block appends one blocking entry per date, tagged with the booking number
// that introduced it. Dates already blocked by the same booking are skipped,
// so a blocking entry appears at most once per booking and date. An empty
// date set is a no-op.
func (c *Car) Block(bookingRef string, dates []schedule.Date) {
	for _, d := range dates {
		if c.hasBlockingEntry(bookingRef, d) {
			continue
		}
		c.entries = append(c.entries, schedule.Entry{
			Dates:        []schedule.Date{d},
			Availability: schedule.AvailabilityBlocked,
			BookingRef:   bookingRef,
		})
	}
	if len(dates) > 0 {
		c.updatedAt = time.Now().UTC()
	}
}

// Unblock removes exactly the blocking entries that the given booking
// introduced for any of the given dates. Entries blocked by other bookings,
// or entries with a different availability marker, are never touched. An
// empty date set is a no-op.
func (c *Car) Unblock(bookingRef string, dates []schedule.Date) {
	if len(dates) == 0 {
		return
	}
	kept := c.entries[:0]
	removed := false
	for _, e := range c.entries {
		if e.Availability == schedule.AvailabilityBlocked && e.BookingRef == bookingRef && e.ContainsAny(dates) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
	if removed {
		c.updatedAt = time.Now().UTC()
	}
}

// IsBlockedOn reports whether any blocking entry covers the given date.
func (c *Car) IsBlockedOn(date schedule.Date) bool {
	for _, e := range c.entries {
		if e.Availability == schedule.AvailabilityBlocked && e.Contains(date) {
			return true
		}
	}
	return false
}

func (c *Car) hasBlockingEntry(bookingRef string, date schedule.Date) bool {
	for _, e := range c.entries {
		if e.Availability == schedule.AvailabilityBlocked && e.BookingRef == bookingRef && e.Contains(date) {
			return true
		}
	}
	return false
}
