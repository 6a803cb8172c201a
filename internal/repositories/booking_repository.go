package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yacht_charter_backend/internal/models"
)

// BookingRepository defines the interface for booking-related database operations.
type BookingRepository interface {
	CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) // joins boat and user summaries
	LockBooking(ctx context.Context, executor SQLExecutor, id int64) (*models.Booking, error)
	GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error)
	UpdateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	DeleteBooking(ctx context.Context, executor SQLExecutor, id int64) error
	FindConflicts(ctx context.Context, executor SQLExecutor, boatID int64, startTime, endTime time.Time, excludeBookingID *int64) ([]models.Booking, error)
	ExpirePending(ctx context.Context, executor SQLExecutor, createdBefore time.Time) (int64, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const selectBookingFields = `
	b.id, b.user_id, b.boat_id, b.boat_price_id, b.start_time, b.end_time, b.guests,
	b.status, b.payment_status, b.total_price, b.notes, b.check_in_time, b.check_out_time,
	b.contract_signed, b.insurance_confirmed, b.created_at, b.updated_at,
	bt.name, bt.owner_id, u.email, u.full_name
`

const getBookingJoins = `
	FROM bookings b
	JOIN boats bt ON b.boat_id = bt.id
	JOIN users u ON b.user_id = u.id
`

// scanBookingRow scans a booking row with its joined boat and user summaries.
func scanBookingRow(row scanner, isList bool) (*models.Booking, int, error) {
	var booking models.Booking
	boat := &models.BoatSummary{}
	user := &models.UserSummary{}
	var totalCount int

	scanDest := []interface{}{
		&booking.ID, &booking.UserID, &booking.BoatID, &booking.BoatPriceID, &booking.StartTime, &booking.EndTime,
		&booking.Guests, &booking.Status, &booking.PaymentStatus, &booking.TotalPrice, &booking.Notes,
		&booking.CheckInTime, &booking.CheckOutTime, &booking.ContractSigned, &booking.InsuranceConfirmed,
		&booking.CreatedAt, &booking.UpdatedAt,
		&boat.Name, &boat.OwnerID, &user.Email, &user.FullName,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	if err := row.Scan(scanDest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning booking with details: %v", ErrDatabaseError, err)
	}

	boat.ID = booking.BoatID
	user.ID = booking.UserID
	booking.Boat = boat
	booking.User = user
	return &booking, totalCount, nil
}

func (r *bookingRepository) CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	query := `INSERT INTO bookings
	            (user_id, boat_id, boat_price_id, start_time, end_time, guests, status, payment_status,
	             total_price, notes, contract_signed, insurance_confirmed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	booking.CreatedAt = currentTime
	booking.UpdatedAt = currentTime

	err := executor.QueryRowContext(ctx, query,
		booking.UserID, booking.BoatID, booking.BoatPriceID, booking.StartTime, booking.EndTime,
		booking.Guests, booking.Status, booking.PaymentStatus, booking.TotalPrice, booking.Notes,
		booking.ContractSigned, booking.InsuranceConfirmed, booking.CreatedAt, booking.UpdatedAt,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err, "creating booking")
	}
	return booking, nil
}

func (r *bookingRepository) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := "SELECT " + selectBookingFields + getBookingJoins + " WHERE b.id = $1"
	booking, _, err := scanBookingRow(r.db.QueryRowContext(ctx, query, id), false)
	return booking, err
}

// LockBooking reads a booking with FOR UPDATE so the caller's transaction
// sees the committed row and holds it until commit.
func (r *bookingRepository) LockBooking(ctx context.Context, executor SQLExecutor, id int64) (*models.Booking, error) {
	query := "SELECT " + selectBookingFields + getBookingJoins + " WHERE b.id = $1 FOR UPDATE OF b"
	booking, _, err := scanBookingRow(executor.QueryRowContext(ctx, query, id), false)
	return booking, err
}

func (r *bookingRepository) GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
	bookings := []models.Booking{}
	var totalCount int

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectBookingFields + ", COUNT(*) OVER() as total_count " + getBookingJoins)

	var conditions []string
	var args []interface{}
	argCount := 1

	add := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argCount))
		args = append(args, arg)
		argCount++
	}
	if filters.UserID != nil {
		add("b.user_id = $%d", *filters.UserID)
	}
	if filters.BoatID != nil {
		add("b.boat_id = $%d", *filters.BoatID)
	}
	if filters.OwnerID != nil {
		add("bt.owner_id = $%d", *filters.OwnerID)
	}
	if filters.Status != nil && *filters.Status != "" {
		add("b.status = $%d", *filters.Status)
	}
	if filters.PaymentStatus != nil && *filters.PaymentStatus != "" {
		add("b.payment_status = $%d", *filters.PaymentStatus)
	}
	if filters.DateFrom != nil {
		add("b.start_time >= $%d", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		add("b.end_time <= $%d", *filters.DateTo)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY b.start_time DESC")

	limit, offset := pageOffset(filters.Page, filters.PageSize)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying bookings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		booking, scannedTotalCount, scanErr := scanBookingRow(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		bookings = append(bookings, *booking)
		totalCount = scannedTotalCount // same on every row, from OVER()
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating booking rows: %v", ErrDatabaseError, err)
	}
	return bookings, totalCount, nil
}

// UpdateBooking writes the mutable booking fields. User, boat and price tier are fixed at creation.
func (r *bookingRepository) UpdateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	query := `UPDATE bookings SET
	            start_time = $1, end_time = $2, guests = $3, status = $4, payment_status = $5,
	            total_price = $6, notes = $7, check_in_time = $8, check_out_time = $9,
	            contract_signed = $10, insurance_confirmed = $11, updated_at = $12
	          WHERE id = $13
	          RETURNING updated_at`
	booking.UpdatedAt = time.Now()

	err := executor.QueryRowContext(ctx, query,
		booking.StartTime, booking.EndTime, booking.Guests, booking.Status, booking.PaymentStatus,
		booking.TotalPrice, booking.Notes, booking.CheckInTime, booking.CheckOutTime,
		booking.ContractSigned, booking.InsuranceConfirmed, booking.UpdatedAt, booking.ID,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating booking ID %d: %v", ErrDatabaseError, booking.ID, err)
	}
	return booking, nil
}

func (r *bookingRepository) DeleteBooking(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting booking ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindConflicts returns the blocking bookings of a boat that overlap [startTime, endTime).
func (r *bookingRepository) FindConflicts(ctx context.Context, executor SQLExecutor, boatID int64, startTime, endTime time.Time, excludeBookingID *int64) ([]models.Booking, error) {
	if executor == nil {
		executor = r.db
	}

	var statusPlaceholders []string
	args := []interface{}{boatID, startTime, endTime}
	argIdx := 4

	for _, status := range models.BlockingBookingStatuses {
		statusPlaceholders = append(statusPlaceholders, fmt.Sprintf("$%d", argIdx))
		args = append(args, status)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT id, user_id, boat_id, boat_price_id, start_time, end_time, status, payment_status
	          FROM bookings
	          WHERE boat_id = $1
	          AND status IN (%s)
	          AND start_time < $3 AND end_time > $2`, strings.Join(statusPlaceholders, ", "))

	if excludeBookingID != nil {
		query += fmt.Sprintf(" AND id != $%d", argIdx)
		args = append(args, *excludeBookingID)
	}
	query += " ORDER BY start_time"

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: checking boat availability: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	conflicts := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.BoatID, &b.BoatPriceID, &b.StartTime, &b.EndTime, &b.Status, &b.PaymentStatus); err != nil {
			return nil, fmt.Errorf("%w: scanning conflicting booking: %v", ErrDatabaseError, err)
		}
		conflicts = append(conflicts, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating conflicting bookings: %v", ErrDatabaseError, err)
	}
	return conflicts, nil
}

// ExpirePending cancels unpaid PENDING bookings created before the cutoff.
func (r *bookingRepository) ExpirePending(ctx context.Context, executor SQLExecutor, createdBefore time.Time) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE bookings
	          SET status = $1, updated_at = $2
	          WHERE status = $3 AND payment_status = $4 AND created_at < $5`
	result, err := executor.ExecContext(ctx, query,
		models.BookingStatusCancelled, time.Now(), models.BookingStatusPending, models.PaymentStatusPending, createdBefore)
	if err != nil {
		return 0, fmt.Errorf("%w: expiring pending bookings: %v", ErrDatabaseError, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
