package models

import "time"

// DashboardSummary holds key metrics for the admin dashboard.
type DashboardSummary struct {
	TotalUsers            int                   `json:"total_users"`
	TotalOwners           int                   `json:"total_owners"`
	TotalBoats            int                   `json:"total_boats"`
	AvailableBoats        int                   `json:"available_boats"`
	BookingsByStatus      map[BookingStatus]int `json:"bookings_by_status"`
	RevenueThisMonth      float64               `json:"revenue_this_month"`
	UpcomingBookingsCount int                   `json:"upcoming_bookings_count"` // confirmed, next 24 hours
	PendingPaymentsCount  int                   `json:"pending_payments_count"`
	GeneratedAt           time.Time             `json:"generated_at"`
}

// StatusCount is one row of a GROUP BY status query.
type StatusCount struct {
	Status BookingStatus `db:"status"`
	Count  int           `db:"count"`
}

// RevenueReportItem is one time bucket of paid booking revenue.
type RevenueReportItem struct {
	Period        string  `json:"period" db:"period"` // YYYY-MM-DD or YYYY-MM
	BookingsCount int     `json:"bookings_count" db:"bookings_count"`
	Revenue       float64 `json:"revenue" db:"revenue"`
}

// TopBoatReportItem ranks boats by booking volume.
type TopBoatReportItem struct {
	BoatID        int64   `json:"boat_id" db:"boat_id"`
	BoatName      string  `json:"boat_name" db:"boat_name"`
	BookingsCount int     `json:"bookings_count" db:"bookings_count"`
	Revenue       float64 `json:"revenue" db:"revenue"`
	TotalHours    float64 `json:"total_hours_booked" db:"total_hours"`
}

// OwnerEarningsItem is the paid revenue of one of the owner's boats.
type OwnerEarningsItem struct {
	BoatID            int64   `json:"boat_id" db:"boat_id"`
	BoatName          string  `json:"boat_name" db:"boat_name"`
	CompletedBookings int     `json:"completed_bookings" db:"completed_bookings"`
	PaidRevenue       float64 `json:"paid_revenue" db:"paid_revenue"`
}

// Report granularities.
const (
	GranularityDay   = "day"
	GranularityMonth = "month"
)

// ReportRequestParams holds common parameters for requesting reports.
type ReportRequestParams struct {
	StartDate   time.Time
	EndDate     time.Time
	Granularity string
	Limit       int
}
