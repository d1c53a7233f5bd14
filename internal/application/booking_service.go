package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	bookingDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/booking"
	carDomain "github.com/Meridian-Car-Rental/service-backoffice/internal/domain/car"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/schedule"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/events"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/kafka"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/metrics"
)

const defaultCurrency = "USD"

// EventPublisher publishes CloudEvents to a topic. Satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	Customer       bookingDomain.Customer `json:"customer" binding:"required"`
	CarID          uuid.UUID              `json:"car_id" binding:"required"`
	TotalCents     int64                  `json:"total_cents" binding:"required"`
	Currency       string                 `json:"currency"`
	SpecialRequest string                 `json:"special_request"`
	Dates          []string               `json:"dates" binding:"required"`
}

// BookingDTO is the response representation of a booking. Car is populated on
// single-booking reads.
type BookingDTO struct {
	ID             uuid.UUID              `json:"id"`
	BookingNumber  string                 `json:"booking_number"`
	Customer       bookingDomain.Customer `json:"customer"`
	CarID          uuid.UUID              `json:"car_id"`
	Car            *CarDTO                `json:"car,omitempty"`
	TotalCents     int64                  `json:"total_cents"`
	Currency       string                 `json:"currency"`
	Status         string                 `json:"status"`
	SpecialRequest string                 `json:"special_request,omitempty"`
	Schedule       []schedule.Entry       `json:"schedule"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Version        int64                  `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// BookingStatsDTO holds booking counts for the dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating the booking
// lifecycle: creation, reads, and the status transitions that keep a car's
// availability schedule consistent with booking outcomes.
type BookingService struct {
	bookings bookingDomain.Repository
	cars     carDomain.Repository
	uow      UnitOfWork
	producer EventPublisher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService. producer and metrics may be
// nil, in which case publishing and instrumentation are skipped.
func NewBookingService(
	bookings bookingDomain.Repository,
	cars carDomain.Repository,
	uow UnitOfWork,
	producer EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		cars:     cars,
		uow:      uow,
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// CreateBooking creates a new pending booking for an existing car.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	dates := make([]schedule.Date, 0, len(req.Dates))
	for _, raw := range req.Dates {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		dates = append(dates, d)
	}

	if _, err := s.cars.FindByID(ctx, req.CarID); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	bk, err := bookingDomain.NewBooking(req.Customer, req.CarID, req.TotalCents, currency, req.SpecialRequest, dates)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreatedTotal.Inc()
	}
	s.publishLifecycleEvent(ctx, events.BookingCreated, bk, "")

	result := s.toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking with its car populated.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	dto := s.toBookingDTO(bk)
	c, err := s.cars.FindByID(ctx, bk.CarID())
	switch {
	case err == nil:
		carDTO := toCarDTO(c)
		dto.Car = &carDTO
	case domain.KindOf(err) == domain.KindNotFound:
		// The car was removed out from under the booking; the booking itself
		// is still a valid record.
		s.logger.Warn("booking references a missing car",
			zap.String("booking_id", bookingID.String()),
			zap.String("car_id", bk.CarID().String()),
		)
	default:
		return nil, err
	}

	return &dto, nil
}

// ListBookings retrieves paginated bookings, optionally filtered by status.
func (s *BookingService) ListBookings(ctx context.Context, statusFilter string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var status *bookingDomain.Status
	if statusFilter != "" {
		parsed, err := bookingDomain.ParseStatus(statusFilter)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		status = &parsed
	}

	bookings, total, err := s.bookings.List(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = s.toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking counts by status.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// UpdateStatus executes one booking transition. The booking status write and
// any car schedule mutation happen inside a single atomic unit; on success
// the booking is re-read with its car populated.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req StatusUpdateRequest) (*BookingDTO, error) {
	action, err := resolveAction(req)
	if err != nil {
		return nil, err
	}

	var (
		updated        *bookingDomain.Booking
		previousStatus bookingDomain.Status
	)
	err = s.uow.RunInTransaction(ctx, func(st Stores) error {
		bk, err := st.Bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		previousStatus = bk.Status()

		switch action {
		case ActionConfirm:
			if err := bk.Confirm(); err != nil {
				return err
			}
			updated = bk
			if previousStatus == bookingDomain.StatusConfirmed {
				// Idempotent re-confirm: nothing to write.
				return nil
			}
			bk.IncrementVersion()
			return st.Bookings.Update(ctx, bk)

		case ActionComplete:
			if err := bk.Complete(); err != nil {
				return err
			}
			updated = bk
			bk.IncrementVersion()
			if err := st.Bookings.Update(ctx, bk); err != nil {
				return err
			}
			return s.mutateCarSchedule(ctx, st, bk, st.Cars.BlockDates)

		case ActionCancel:
			if err := bk.Cancel(); err != nil {
				return err
			}
			updated = bk
			bk.IncrementVersion()
			if err := st.Bookings.Update(ctx, bk); err != nil {
				return err
			}
			return s.mutateCarSchedule(ctx, st, bk, st.Cars.UnblockDates)
		}
		return nil
	})

	if s.metrics != nil {
		s.metrics.ObserveTransition(string(action), err)
	}
	if err != nil {
		return nil, err
	}

	if previousStatus != updated.Status() {
		s.publishLifecycleEvent(ctx, lifecycleEventType(action), updated, string(previousStatus))
	}

	return s.GetBooking(ctx, bookingID)
}

// mutateCarSchedule applies a schedule mutation for the booking's occupied
// dates. A zero-date booking skips the car write entirely, and a missing car
// is a warning rather than a failure: the booking status write still commits.
func (s *BookingService) mutateCarSchedule(
	ctx context.Context,
	st Stores,
	bk *bookingDomain.Booking,
	mutate func(ctx context.Context, carID uuid.UUID, bookingRef string, dates []schedule.Date) error,
) error {
	dates := bk.OccupiedDates()
	if len(dates) == 0 {
		return nil
	}

	err := mutate(ctx, bk.CarID(), bk.BookingNumber(), dates)
	if err == nil {
		return nil
	}
	if domain.KindOf(err) == domain.KindNotFound {
		s.logger.Warn("car not found during schedule update; booking status committed without it",
			zap.String("booking_number", bk.BookingNumber()),
			zap.String("car_id", bk.CarID().String()),
		)
		return nil
	}
	return err
}

func lifecycleEventType(action Action) string {
	switch action {
	case ActionConfirm:
		return events.BookingConfirmed
	case ActionCancel:
		return events.BookingCancelled
	default:
		return events.BookingCompleted
	}
}

func (s *BookingService) publishLifecycleEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, previousStatus string) {
	if s.producer == nil {
		return
	}

	evt := events.BookingLifecycleEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		CarID:          bk.CarID(),
		PreviousStatus: previousStatus,
		Status:         string(bk.Status()),
		OccurredAt:     time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-backoffice", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func (s *BookingService) toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:             bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		Customer:       bk.Customer(),
		CarID:          bk.CarID(),
		TotalCents:     bk.TotalCents(),
		Currency:       bk.Currency(),
		Status:         string(bk.Status()),
		SpecialRequest: bk.SpecialRequest(),
		Schedule:       bk.Schedule(),
		CompletedAt:    bk.CompletedAt(),
		CancelledAt:    bk.CancelledAt(),
		Version:        bk.Version(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
	}
}
