package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

// --- Custom Service Errors for Booking ---
var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBoatNotAvailable     = errors.New("boat is not available for the requested time")
	ErrBoatNotBookable      = errors.New("boat is not accepting bookings")
	ErrInvalidBookingTime   = errors.New("invalid booking time")
	ErrBookingValidation    = errors.New("booking data validation error")
	ErrBookingStatusUpdate  = errors.New("invalid status transition")
	ErrPriceBoatMismatch    = errors.New("price does not belong to the requested boat")
	ErrInvalidOperationTime = errors.New("check-out time must be after check-in time")
)

// --- Booking DTOs ---

// CreateBookingRequest books a boat at one of its price tiers.
// The end time is derived from the tier's hours.
type CreateBookingRequest struct {
	BoatID      int64   `json:"boat_id" binding:"required"`
	BoatPriceID int64   `json:"boat_price_id" binding:"required"`
	StartTime   string  `json:"start_time" binding:"required"` // RFC3339
	Guests      int     `json:"guests" binding:"required,gt=0"`
	Notes       *string `json:"notes"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,booking_status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,payment_status"`
}

// UpdateOperationsRequest edits the on-the-day fields of a booking. Times are RFC3339.
type UpdateOperationsRequest struct {
	CheckInTime        *string `json:"check_in_time"`
	CheckOutTime       *string `json:"check_out_time"`
	ContractSigned     *bool   `json:"contract_signed"`
	InsuranceConfirmed *bool   `json:"insurance_confirmed"`
}

// --- BookingService Interface ---
type BookingService interface {
	GetBoatAvailability(ctx context.Context, boatID int64, start, end time.Time) (*models.Availability, error)
	CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*models.Booking, error)
	GetBookingByID(ctx context.Context, actor Actor, bookingID int64) (*models.Booking, error)
	GetMyBookings(ctx context.Context, actor Actor, filters models.BookingFilters) ([]models.Booking, int, error)
	CancelMyBooking(ctx context.Context, actor Actor, bookingID int64) (*models.Booking, error)

	GetOwnerBookings(ctx context.Context, actor Actor, filters models.BookingFilters) ([]models.Booking, int, error)
	UpdateOwnerBookingStatus(ctx context.Context, actor Actor, bookingID int64, status string) (*models.Booking, error)
	UpdateOperations(ctx context.Context, actor Actor, bookingID int64, req UpdateOperationsRequest) (*models.Booking, error)

	ListBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error)
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, bookingID int64, paymentStatus string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, bookingID int64) error

	ExpirePendingBookings(ctx context.Context, ttl time.Duration) (int64, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	boatRepo    repositories.BoatRepository
	priceRepo   repositories.PriceRepository
	db          *sql.DB
	now         func() time.Time
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(
	br repositories.BookingRepository,
	bt repositories.BoatRepository,
	pr repositories.PriceRepository,
	db *sql.DB,
) BookingService {
	return &bookingService{
		bookingRepo: br,
		boatRepo:    bt,
		priceRepo:   pr,
		db:          db,
		now:         time.Now,
	}
}

// ownerTransitions are the moves a boat owner may make on bookings of their boats.
// Administrators are not restricted.
var ownerTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCancelled, models.BookingStatusCompleted},
}

func canOwnerMove(from, to models.BookingStatus) bool {
	for _, allowed := range ownerTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *bookingService) GetBoatAvailability(ctx context.Context, boatID int64, start, end time.Time) (*models.Availability, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidBookingTime)
	}
	boat, err := s.boatRepo.GetBoatByID(ctx, boatID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBoatNotFound
		}
		return nil, fmt.Errorf("failed to find boat: %w", err)
	}

	conflicts, err := s.bookingRepo.FindConflicts(ctx, nil, boatID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check boat availability: %w", err)
	}

	availability := &models.Availability{
		BoatID:    boatID,
		Start:     start,
		End:       end,
		Available: len(conflicts) == 0 && boat.Status == models.BoatStatusAvailable,
		Conflicts: conflicts,
	}
	switch {
	case boat.Status != models.BoatStatusAvailable:
		availability.Reason = fmt.Sprintf("boat status is %s", boat.Status)
	case len(conflicts) > 0:
		availability.Reason = "overlapping bookings"
	}
	return availability, nil
}

// CreateBooking locks the boat row, validates the tier and checks for overlaps
// before inserting, all in one transaction, so concurrent requests cannot double-book.
func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*models.Booking, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be RFC3339: %v", ErrInvalidBookingTime, err)
	}
	if startTime.Before(s.now()) {
		return nil, fmt.Errorf("%w: booking start time cannot be in the past", ErrInvalidBookingTime)
	}
	if req.Guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive", ErrBookingValidation)
	}

	var created *models.Booking
	err = repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		boat, err := s.boatRepo.LockBoat(ctx, tx, req.BoatID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBoatNotFound
			}
			return err
		}
		if boat.Status != models.BoatStatusAvailable {
			return fmt.Errorf("%w: status is %s", ErrBoatNotBookable, boat.Status)
		}
		if req.Guests > boat.Capacity {
			return fmt.Errorf("%w: %d guests exceed capacity %d", ErrBookingValidation, req.Guests, boat.Capacity)
		}

		price, err := s.priceRepo.GetPriceByID(ctx, tx, req.BoatPriceID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPriceNotFound
			}
			return err
		}
		if price.BoatID != boat.ID {
			return ErrPriceBoatMismatch
		}
		if !price.ValidAt(startTime) {
			return ErrPriceNotActive
		}

		endTime := startTime.Add(time.Duration(price.Hours) * time.Hour)
		conflicts, err := s.bookingRepo.FindConflicts(ctx, tx, boat.ID, startTime, endTime, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrBoatNotAvailable
		}

		created, err = s.bookingRepo.CreateBooking(ctx, tx, &models.Booking{
			UserID:        actor.UserID,
			BoatID:        boat.ID,
			BoatPriceID:   price.ID,
			StartTime:     startTime,
			EndTime:       endTime,
			Guests:        req.Guests,
			Status:        models.BookingStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			TotalPrice:    price.Price,
			Notes:         req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.bookingRepo.GetBookingByID(ctx, created.ID)
}

func (s *bookingService) load(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	return booking, nil
}

func boatOwnerOf(b *models.Booking) int64 {
	if b.Boat == nil {
		return 0
	}
	return b.Boat.OwnerID
}

// GetBookingByID is visible to the renter, the boat owner and administrators.
func (s *bookingService) GetBookingByID(ctx context.Context, actor Actor, bookingID int64) (*models.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.UserID && !actor.canManageBoat(boatOwnerOf(booking)) {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) list(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
	filters.Page, filters.PageSize = normalizePage(filters.Page, filters.PageSize)
	if filters.Status != nil && !models.IsValidBookingStatus(*filters.Status) {
		return nil, 0, fmt.Errorf("%w: invalid status '%s'", ErrBookingValidation, *filters.Status)
	}
	if filters.PaymentStatus != nil && !models.IsValidPaymentStatus(*filters.PaymentStatus) {
		return nil, 0, fmt.Errorf("%w: invalid payment status '%s'", ErrBookingValidation, *filters.PaymentStatus)
	}
	bookings, total, err := s.bookingRepo.GetBookings(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, total, nil
}

func (s *bookingService) GetMyBookings(ctx context.Context, actor Actor, filters models.BookingFilters) ([]models.Booking, int, error) {
	filters.UserID = &actor.UserID
	filters.OwnerID = nil
	return s.list(ctx, filters)
}

func (s *bookingService) GetOwnerBookings(ctx context.Context, actor Actor, filters models.BookingFilters) ([]models.Booking, int, error) {
	filters.OwnerID = &actor.UserID
	return s.list(ctx, filters)
}

func (s *bookingService) ListBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
	return s.list(ctx, filters)
}

// CancelMyBooking lets a renter cancel a PENDING or CONFIRMED booking.
// A paid booking is marked REFUNDED; the refund itself happens at the payment provider.
func (s *bookingService) CancelMyBooking(ctx context.Context, actor Actor, bookingID int64) (*models.Booking, error) {
	return s.mutate(ctx, bookingID, func(tx *sql.Tx, booking *models.Booking) error {
		if booking.UserID != actor.UserID {
			return ErrForbidden
		}
		if !booking.Status.Blocks() {
			return fmt.Errorf("%w: cannot cancel a booking that is already '%s'", ErrBookingStatusUpdate, booking.Status)
		}
		booking.Status = models.BookingStatusCancelled
		if booking.PaymentStatus == models.PaymentStatusPaid {
			booking.PaymentStatus = models.PaymentStatusRefunded
		}
		return nil
	})
}

func (s *bookingService) UpdateOwnerBookingStatus(ctx context.Context, actor Actor, bookingID int64, status string) (*models.Booking, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: invalid status '%s'", ErrBookingValidation, status)
	}
	next := models.BookingStatus(status)
	return s.mutate(ctx, bookingID, func(tx *sql.Tx, booking *models.Booking) error {
		if !actor.canManageBoat(boatOwnerOf(booking)) {
			return ErrForbidden
		}
		if !actor.IsAdmin() && !canOwnerMove(booking.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrBookingStatusUpdate, booking.Status, next)
		}
		return s.setStatus(ctx, tx, booking, next)
	})
}

// UpdateBookingStatus is the administrator's raw status update: any valid status may be set.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID int64, status string) (*models.Booking, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: invalid status '%s'", ErrBookingValidation, status)
	}
	return s.mutate(ctx, bookingID, func(tx *sql.Tx, booking *models.Booking) error {
		return s.setStatus(ctx, tx, booking, models.BookingStatus(status))
	})
}

// setStatus re-checks overlaps when the booking starts holding the boat again.
func (s *bookingService) setStatus(ctx context.Context, tx *sql.Tx, booking *models.Booking, next models.BookingStatus) error {
	if next.Blocks() && !booking.Status.Blocks() {
		if _, err := s.boatRepo.LockBoat(ctx, tx, booking.BoatID); err != nil {
			return err
		}
		conflicts, err := s.bookingRepo.FindConflicts(ctx, tx, booking.BoatID, booking.StartTime, booking.EndTime, &booking.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrBoatNotAvailable
		}
	}
	booking.Status = next
	return nil
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, bookingID int64, paymentStatus string) (*models.Booking, error) {
	if !models.IsValidPaymentStatus(paymentStatus) {
		return nil, fmt.Errorf("%w: invalid payment status '%s'", ErrBookingValidation, paymentStatus)
	}
	return s.mutate(ctx, bookingID, func(tx *sql.Tx, booking *models.Booking) error {
		booking.PaymentStatus = models.PaymentStatus(paymentStatus)
		return nil
	})
}

func parseOptionalTime(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC3339: %v", ErrBookingValidation, field, err)
	}
	return &t, nil
}

func (s *bookingService) UpdateOperations(ctx context.Context, actor Actor, bookingID int64, req UpdateOperationsRequest) (*models.Booking, error) {
	checkIn, err := parseOptionalTime("check_in_time", req.CheckInTime)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseOptionalTime("check_out_time", req.CheckOutTime)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, bookingID, func(tx *sql.Tx, booking *models.Booking) error {
		if !actor.canManageBoat(boatOwnerOf(booking)) {
			return ErrForbidden
		}
		if checkIn != nil {
			booking.CheckInTime = checkIn
		}
		if checkOut != nil {
			booking.CheckOutTime = checkOut
		}
		if booking.CheckInTime != nil && booking.CheckOutTime != nil && !booking.CheckOutTime.After(*booking.CheckInTime) {
			return ErrInvalidOperationTime
		}
		if req.ContractSigned != nil {
			booking.ContractSigned = *req.ContractSigned
		}
		if req.InsuranceConfirmed != nil {
			booking.InsuranceConfirmed = *req.InsuranceConfirmed
		}
		return nil
	})
}

// mutate locks the booking row, lets apply change it and writes it back in one
// transaction, so every update starts from the committed state of the row.
func (s *bookingService) mutate(ctx context.Context, bookingID int64, apply func(tx *sql.Tx, booking *models.Booking) error) (*models.Booking, error) {
	err := repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		booking, err := s.bookingRepo.LockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := apply(tx, booking); err != nil {
			return err
		}
		_, err = s.bookingRepo.UpdateBooking(ctx, tx, booking)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return s.bookingRepo.GetBookingByID(ctx, bookingID)
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID int64) error {
	err := s.bookingRepo.DeleteBooking(ctx, s.db, bookingID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrBookingNotFound
	default:
		return fmt.Errorf("failed to delete booking: %w", err)
	}
}

// ExpirePendingBookings cancels unpaid PENDING bookings older than ttl.
func (s *bookingService) ExpirePendingBookings(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("%w: ttl must be positive", ErrValidation)
	}
	n, err := s.bookingRepo.ExpirePending(ctx, s.db, s.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending bookings: %w", err)
	}
	return n, nil
}
