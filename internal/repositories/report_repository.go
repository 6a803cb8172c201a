package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"yacht_charter_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the aggregate queries behind the admin dashboard and reports.
type ReportRepository interface {
	CountUsersByRole(ctx context.Context, role *models.Role) (int, error)
	CountBoats(ctx context.Context, status *models.BoatStatus) (int, error)
	CountBookingsByStatus(ctx context.Context) ([]models.StatusCount, error)
	CountUpcomingConfirmed(ctx context.Context, from, to time.Time) (int, error)
	CountPendingPayments(ctx context.Context) (int, error)
	PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
	RevenueReport(ctx context.Context, params models.ReportRequestParams) ([]models.RevenueReportItem, error)
	TopBoats(ctx context.Context, params models.ReportRequestParams) ([]models.TopBoatReportItem, error)
	OwnerEarnings(ctx context.Context, ownerID int64) ([]models.OwnerEarningsItem, error)
}

type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository wraps the shared pool with sqlx for struct scanning.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: sqlx.NewDb(db, "postgres")}
}

func (r *reportRepository) count(ctx context.Context, what string, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("%w: counting %s: %v", ErrDatabaseError, what, err)
	}
	return n, nil
}

func (r *reportRepository) CountUsersByRole(ctx context.Context, role *models.Role) (int, error) {
	if role == nil {
		return r.count(ctx, "users", `SELECT COUNT(*) FROM users`)
	}
	return r.count(ctx, "users", `SELECT COUNT(*) FROM users WHERE role = $1`, *role)
}

func (r *reportRepository) CountBoats(ctx context.Context, status *models.BoatStatus) (int, error) {
	if status == nil {
		return r.count(ctx, "boats", `SELECT COUNT(*) FROM boats`)
	}
	return r.count(ctx, "boats", `SELECT COUNT(*) FROM boats WHERE status = $1`, *status)
}

func (r *reportRepository) CountBookingsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	counts := []models.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, `SELECT status, COUNT(*) AS count FROM bookings GROUP BY status`); err != nil {
		return nil, fmt.Errorf("%w: counting bookings by status: %v", ErrDatabaseError, err)
	}
	return counts, nil
}

func (r *reportRepository) CountUpcomingConfirmed(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, "upcoming bookings",
		`SELECT COUNT(*) FROM bookings WHERE status = $1 AND start_time BETWEEN $2 AND $3`,
		models.BookingStatusConfirmed, from, to)
}

func (r *reportRepository) CountPendingPayments(ctx context.Context) (int, error) {
	return r.count(ctx, "pending payments",
		`SELECT COUNT(*) FROM bookings WHERE payment_status = $1 AND status IN ($2, $3)`,
		models.PaymentStatusPending, models.BookingStatusPending, models.BookingStatusConfirmed)
}

func (r *reportRepository) PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var revenue float64
	query := `SELECT COALESCE(SUM(total_price), 0)::float8 FROM bookings
	          WHERE payment_status = $1 AND start_time >= $2 AND start_time < $3`
	if err := r.db.GetContext(ctx, &revenue, query, models.PaymentStatusPaid, from, to); err != nil {
		return 0, fmt.Errorf("%w: summing revenue: %v", ErrDatabaseError, err)
	}
	return revenue, nil
}

// RevenueReport buckets paid revenue by day or month over [StartDate, EndDate).
func (r *reportRepository) RevenueReport(ctx context.Context, params models.ReportRequestParams) ([]models.RevenueReportItem, error) {
	trunc, format := "day", "YYYY-MM-DD"
	if params.Granularity == models.GranularityMonth {
		trunc, format = "month", "YYYY-MM"
	}
	query := fmt.Sprintf(`SELECT TO_CHAR(DATE_TRUNC('%s', start_time), '%s') AS period,
	                 COUNT(*) AS bookings_count,
	                 COALESCE(SUM(total_price), 0)::float8 AS revenue
	          FROM bookings
	          WHERE payment_status = $1 AND start_time >= $2 AND start_time < $3
	          GROUP BY period
	          ORDER BY period`, trunc, format)

	items := []models.RevenueReportItem{}
	if err := r.db.SelectContext(ctx, &items, query, models.PaymentStatusPaid, params.StartDate, params.EndDate); err != nil {
		return nil, fmt.Errorf("%w: building revenue report: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// TopBoats ranks boats by non-cancelled bookings starting in [StartDate, EndDate).
func (r *reportRepository) TopBoats(ctx context.Context, params models.ReportRequestParams) ([]models.TopBoatReportItem, error) {
	query := `SELECT bt.id AS boat_id, bt.name AS boat_name,
	                 COUNT(b.id) AS bookings_count,
	                 COALESCE(SUM(b.total_price) FILTER (WHERE b.payment_status = $1), 0)::float8 AS revenue,
	                 COALESCE(SUM(EXTRACT(EPOCH FROM (b.end_time - b.start_time)) / 3600), 0)::float8 AS total_hours
	          FROM bookings b
	          JOIN boats bt ON bt.id = b.boat_id
	          WHERE b.status != $2 AND b.start_time >= $3 AND b.start_time < $4
	          GROUP BY bt.id, bt.name
	          ORDER BY bookings_count DESC, revenue DESC
	          LIMIT $5`

	items := []models.TopBoatReportItem{}
	err := r.db.SelectContext(ctx, &items, query,
		models.PaymentStatusPaid, models.BookingStatusCancelled, params.StartDate, params.EndDate, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: building top boats report: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *reportRepository) OwnerEarnings(ctx context.Context, ownerID int64) ([]models.OwnerEarningsItem, error) {
	query := `SELECT bt.id AS boat_id, bt.name AS boat_name,
	                 COUNT(b.id) FILTER (WHERE b.status = $2) AS completed_bookings,
	                 COALESCE(SUM(b.total_price) FILTER (WHERE b.payment_status = $3), 0)::float8 AS paid_revenue
	          FROM boats bt
	          LEFT JOIN bookings b ON b.boat_id = bt.id
	          WHERE bt.owner_id = $1
	          GROUP BY bt.id, bt.name
	          ORDER BY bt.id`

	items := []models.OwnerEarningsItem{}
	if err := r.db.SelectContext(ctx, &items, query, ownerID, models.BookingStatusCompleted, models.PaymentStatusPaid); err != nil {
		return nil, fmt.Errorf("%w: building owner earnings: %v", ErrDatabaseError, err)
	}
	return items, nil
}
