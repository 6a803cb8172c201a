package models

import "time"

// BookingStatus defines the type for booking statuses
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// BlockingBookingStatuses occupy the boat for their time range.
var BlockingBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// IsValidBookingStatus checks if the provided status string is a valid BookingStatus.
func IsValidBookingStatus(status string) bool {
	switch BookingStatus(status) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// Blocks reports whether a booking in this status holds the boat.
func (s BookingStatus) Blocks() bool {
	for _, b := range BlockingBookingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

func IsValidPaymentStatus(status string) bool {
	switch PaymentStatus(status) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

// Booking represents a reservation of a boat at a specific price tier.
type Booking struct {
	ID                 int64         `json:"id" db:"id"`
	UserID             int64         `json:"user_id" db:"user_id"`
	BoatID             int64         `json:"boat_id" db:"boat_id"`
	BoatPriceID        int64         `json:"boat_price_id" db:"boat_price_id"`
	StartTime          time.Time     `json:"start_time" db:"start_time"`
	EndTime            time.Time     `json:"end_time" db:"end_time"`
	Guests             int           `json:"guests" db:"guests"`
	Status             BookingStatus `json:"status" db:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	TotalPrice         float64       `json:"total_price" db:"total_price"`
	Notes              *string       `json:"notes,omitempty" db:"notes"`
	CheckInTime        *time.Time    `json:"check_in_time,omitempty" db:"check_in_time"`
	CheckOutTime       *time.Time    `json:"check_out_time,omitempty" db:"check_out_time"`
	ContractSigned     bool          `json:"contract_signed" db:"contract_signed"`
	InsuranceConfirmed bool          `json:"insurance_confirmed" db:"insurance_confirmed"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
	Boat               *BoatSummary  `json:"boat,omitempty"`
	User               *UserSummary  `json:"user,omitempty"`
}

// BoatSummary is the slice of Boat joined into booking rows.
type BoatSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// UserSummary is the slice of User joined into booking rows.
type UserSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// BookingFilters defines the available filters for querying bookings.
type BookingFilters struct {
	UserID        *int64     `form:"user_id"`
	BoatID        *int64     `form:"boat_id"`
	OwnerID       *int64     `form:"-"` // bookings on boats owned by this user
	Status        *string    `form:"status"`
	PaymentStatus *string    `form:"payment_status"`
	DateFrom      *time.Time `form:"-"`
	DateTo        *time.Time `form:"-"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// Availability is the answer to "can this boat be booked for [Start, End)?".
type Availability struct {
	BoatID    int64     `json:"boat_id"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
	Conflicts []Booking `json:"conflicts"`
}
