package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

var fixedNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type bookingFixture struct {
	bookings *bookingRepoMock
	boats    *boatRepoMock
	prices   *priceRepoMock
	mock     sqlmock.Sqlmock
	svc      *bookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	db, mock := newMockDB(t)
	f := &bookingFixture{
		bookings: &bookingRepoMock{},
		boats:    &boatRepoMock{},
		prices:   &priceRepoMock{},
		mock:     mock,
	}
	f.svc = NewBookingService(f.bookings, f.boats, f.prices, db).(*bookingService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func availableBoat() *models.Boat {
	return &models.Boat{ID: 1, OwnerID: 7, Name: "Sea Breeze", Capacity: 8, Status: models.BoatStatusAvailable}
}

func fourHourPrice() *models.BoatPrice {
	return &models.BoatPrice{
		ID: 5, BoatID: 1, Hours: 4, Price: 1200,
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}

func validBookingRequest() CreateBookingRequest {
	return CreateBookingRequest{BoatID: 1, BoatPriceID: 5, StartTime: "2026-06-02T10:00:00Z", Guests: 6}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture(t)
	f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
	f.prices.getFn = func(ctx context.Context, id int64) (*models.BoatPrice, error) { return fourHourPrice(), nil }

	start := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)
	f.bookings.conflictsFn = func(ctx context.Context, boatID int64, s, e time.Time, exclude *int64) ([]models.Booking, error) {
		assert.Equal(t, int64(1), boatID)
		assert.True(t, s.Equal(start))
		assert.True(t, e.Equal(start.Add(4*time.Hour)))
		assert.Nil(t, exclude)
		return nil, nil
	}
	f.bookings.createFn = func(ctx context.Context, b *models.Booking) (*models.Booking, error) {
		assert.Equal(t, int64(42), b.UserID)
		assert.Equal(t, models.BookingStatusPending, b.Status)
		assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
		assert.Equal(t, 1200.0, b.TotalPrice)
		assert.True(t, b.EndTime.Equal(start.Add(4*time.Hour)))
		b.ID = 99
		return b, nil
	}
	f.bookings.getFn = func(ctx context.Context, id int64) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.BookingStatusPending}, nil
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	booking, err := f.svc.CreateBooking(context.Background(), Actor{UserID: 42, Role: models.RoleUser}, validBookingRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(99), booking.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateBooking_RejectsBeforeTransaction(t *testing.T) {
	f := newBookingFixture(t)
	actor := Actor{UserID: 42, Role: models.RoleUser}

	req := validBookingRequest()
	req.StartTime = "tomorrow at noon"
	_, err := f.svc.CreateBooking(context.Background(), actor, req)
	assert.ErrorIs(t, err, ErrInvalidBookingTime)

	req = validBookingRequest()
	req.StartTime = "2026-05-31T10:00:00Z"
	_, err = f.svc.CreateBooking(context.Background(), actor, req)
	assert.ErrorIs(t, err, ErrInvalidBookingTime)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateBooking_RollsBackOnRuleViolation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *bookingFixture)
		req     func() CreateBookingRequest
		wantErr error
	}{
		{
			name: "boat in maintenance",
			setup: func(f *bookingFixture) {
				f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) {
					b := availableBoat()
					b.Status = models.BoatStatusMaintenance
					return b, nil
				}
			},
			req:     validBookingRequest,
			wantErr: ErrBoatNotBookable,
		},
		{
			name: "too many guests",
			setup: func(f *bookingFixture) {
				f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
			},
			req: func() CreateBookingRequest {
				r := validBookingRequest()
				r.Guests = 9
				return r
			},
			wantErr: ErrBookingValidation,
		},
		{
			name: "unknown boat",
			setup: func(f *bookingFixture) {
				f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return nil, repositories.ErrNotFound }
			},
			req:     validBookingRequest,
			wantErr: ErrBoatNotFound,
		},
		{
			name: "price of another boat",
			setup: func(f *bookingFixture) {
				f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
				f.prices.getFn = func(ctx context.Context, id int64) (*models.BoatPrice, error) {
					p := fourHourPrice()
					p.BoatID = 2
					return p, nil
				}
			},
			req:     validBookingRequest,
			wantErr: ErrPriceBoatMismatch,
		},
		{
			name: "price expired before start",
			setup: func(f *bookingFixture) {
				f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
				f.prices.getFn = func(ctx context.Context, id int64) (*models.BoatPrice, error) {
					p := fourHourPrice()
					expiry := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
					p.ExpiryDate = &expiry
					return p, nil
				}
			},
			req:     validBookingRequest,
			wantErr: ErrPriceNotActive,
		},
		{
			name: "overlapping booking",
			setup: func(f *bookingFixture) {
				f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
				f.prices.getFn = func(ctx context.Context, id int64) (*models.BoatPrice, error) { return fourHourPrice(), nil }
				f.bookings.conflictsFn = func(ctx context.Context, boatID int64, s, e time.Time, exclude *int64) ([]models.Booking, error) {
					return []models.Booking{{ID: 3, Status: models.BookingStatusConfirmed}}, nil
				}
			},
			req:     validBookingRequest,
			wantErr: ErrBoatNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setup(f)
			f.mock.ExpectBegin()
			f.mock.ExpectRollback()

			_, err := f.svc.CreateBooking(context.Background(), Actor{UserID: 42, Role: models.RoleUser}, tt.req())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestGetBoatAvailability(t *testing.T) {
	f := newBookingFixture(t)
	start := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	f.boats.getFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
	availability, err := f.svc.GetBoatAvailability(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.True(t, availability.Available)
	assert.Empty(t, availability.Reason)

	f.bookings.conflictsFn = func(ctx context.Context, boatID int64, s, e time.Time, exclude *int64) ([]models.Booking, error) {
		return []models.Booking{{ID: 3}}, nil
	}
	availability, err = f.svc.GetBoatAvailability(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Len(t, availability.Conflicts, 1)

	f.bookings.conflictsFn = nil
	f.boats.getFn = func(ctx context.Context, id int64) (*models.Boat, error) {
		b := availableBoat()
		b.Status = models.BoatStatusUnavailable
		return b, nil
	}
	availability, err = f.svc.GetBoatAvailability(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Contains(t, availability.Reason, "UNAVAILABLE")

	_, err = f.svc.GetBoatAvailability(context.Background(), 1, end, start)
	assert.ErrorIs(t, err, ErrInvalidBookingTime)
}

func bookingOnBoatOwnedBy(ownerID int64, status models.BookingStatus, payment models.PaymentStatus) *models.Booking {
	return &models.Booking{
		ID: 10, UserID: 42, BoatID: 1, Status: status, PaymentStatus: payment,
		StartTime: time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC),
		Boat:      &models.BoatSummary{ID: 1, OwnerID: ownerID},
	}
}

// storeBooking serves b from both the locked read and the reload after commit,
// and keeps whatever UpdateBooking writes.
func (f *bookingFixture) storeBooking(b *models.Booking) **models.Booking {
	stored := &b
	read := func(ctx context.Context, id int64) (*models.Booking, error) {
		if id != (*stored).ID {
			return nil, repositories.ErrNotFound
		}
		cp := **stored
		return &cp, nil
	}
	f.bookings.lockFn = read
	f.bookings.getFn = read
	f.bookings.updateFn = func(ctx context.Context, b *models.Booking) (*models.Booking, error) {
		*stored = b
		return b, nil
	}
	return stored
}

func (f *bookingFixture) expectCommit()   { f.mock.ExpectBegin(); f.mock.ExpectCommit() }
func (f *bookingFixture) expectRollback() { f.mock.ExpectBegin(); f.mock.ExpectRollback() }

func TestCancelMyBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusConfirmed, models.PaymentStatusPaid))

	f.expectRollback()
	_, err := f.svc.CancelMyBooking(context.Background(), Actor{UserID: 43, Role: models.RoleUser}, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	f.expectCommit()
	booking, err := f.svc.CancelMyBooking(context.Background(), Actor{UserID: 42, Role: models.RoleUser}, 10)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.Equal(t, models.PaymentStatusRefunded, booking.PaymentStatus)

	f.expectRollback()
	_, err = f.svc.CancelMyBooking(context.Background(), Actor{UserID: 42, Role: models.RoleUser}, 10)
	assert.ErrorIs(t, err, ErrBookingStatusUpdate)

	f.expectRollback()
	_, err = f.svc.CancelMyBooking(context.Background(), Actor{UserID: 42, Role: models.RoleUser}, 11)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateOwnerBookingStatus(t *testing.T) {
	f := newBookingFixture(t)
	f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusPending, models.PaymentStatusPending))
	owner := Actor{UserID: 7, Role: models.RoleOwner}

	f.expectRollback()
	_, err := f.svc.UpdateOwnerBookingStatus(context.Background(), Actor{UserID: 8, Role: models.RoleOwner}, 10, "CONFIRMED")
	assert.ErrorIs(t, err, ErrForbidden)

	f.expectRollback()
	_, err = f.svc.UpdateOwnerBookingStatus(context.Background(), owner, 10, "COMPLETED")
	assert.ErrorIs(t, err, ErrBookingStatusUpdate)

	f.expectCommit()
	booking, err := f.svc.UpdateOwnerBookingStatus(context.Background(), owner, 10, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)

	f.expectCommit()
	booking, err = f.svc.UpdateOwnerBookingStatus(context.Background(), owner, 10, "COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, booking.Status)

	f.expectRollback()
	_, err = f.svc.UpdateOwnerBookingStatus(context.Background(), owner, 10, "PENDING")
	assert.ErrorIs(t, err, ErrBookingStatusUpdate)

	_, err = f.svc.UpdateOwnerBookingStatus(context.Background(), owner, 10, "LOST")
	assert.ErrorIs(t, err, ErrBookingValidation)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus_ReactivationChecksOverlap(t *testing.T) {
	f := newBookingFixture(t)
	f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusCancelled, models.PaymentStatusPending))
	f.boats.lockFn = func(ctx context.Context, id int64) (*models.Boat, error) { return availableBoat(), nil }
	f.bookings.conflictsFn = func(ctx context.Context, boatID int64, s, e time.Time, exclude *int64) ([]models.Booking, error) {
		require.NotNil(t, exclude)
		assert.Equal(t, int64(10), *exclude)
		return []models.Booking{{ID: 11}}, nil
	}
	f.expectRollback()

	_, err := f.svc.UpdateBookingStatus(context.Background(), 10, "CONFIRMED")
	assert.ErrorIs(t, err, ErrBoatNotAvailable)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus_AdminIsUnconstrained(t *testing.T) {
	f := newBookingFixture(t)
	f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusCompleted, models.PaymentStatusPaid))
	f.expectCommit()

	booking, err := f.svc.UpdateBookingStatus(context.Background(), 10, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus_KeepsCommittedStatus(t *testing.T) {
	f := newBookingFixture(t)
	stored := f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusPending, models.PaymentStatusPending))

	// the expiry sweep cancels the booking after the admin opened it but
	// before the payment update lands
	cancelled := *bookingOnBoatOwnedBy(7, models.BookingStatusCancelled, models.PaymentStatusPending)
	*stored = &cancelled
	f.expectCommit()

	booking, err := f.svc.UpdatePaymentStatus(context.Background(), 10, "PAID")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.Equal(t, models.BookingStatusCancelled, (*stored).Status)

	_, err = f.svc.UpdatePaymentStatus(context.Background(), 10, "SETTLED")
	assert.ErrorIs(t, err, ErrBookingValidation)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingMutations_ReadInsideTransaction(t *testing.T) {
	f := newBookingFixture(t)
	f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusPending, models.PaymentStatusPending))
	var locked int
	read := f.bookings.lockFn
	f.bookings.lockFn = func(ctx context.Context, id int64) (*models.Booking, error) {
		locked++
		return read(ctx, id)
	}
	f.expectCommit()

	_, err := f.svc.UpdatePaymentStatus(context.Background(), 10, "PAID")
	require.NoError(t, err)
	assert.Equal(t, 1, locked)

	f.bookings.lockFn = func(ctx context.Context, id int64) (*models.Booking, error) {
		return nil, errors.New("lock timeout")
	}
	f.expectRollback()
	_, err = f.svc.UpdatePaymentStatus(context.Background(), 10, "PAID")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateOperations(t *testing.T) {
	f := newBookingFixture(t)
	f.storeBooking(bookingOnBoatOwnedBy(7, models.BookingStatusConfirmed, models.PaymentStatusPaid))
	owner := Actor{UserID: 7, Role: models.RoleOwner}

	in, out := "2026-06-02T10:05:00Z", "2026-06-02T09:00:00Z"
	f.expectRollback()
	_, err := f.svc.UpdateOperations(context.Background(), owner, 10, UpdateOperationsRequest{CheckInTime: &in, CheckOutTime: &out})
	assert.ErrorIs(t, err, ErrInvalidOperationTime)

	signed := true
	f.expectCommit()
	booking, err := f.svc.UpdateOperations(context.Background(), owner, 10, UpdateOperationsRequest{CheckInTime: &in, ContractSigned: &signed})
	require.NoError(t, err)
	require.NotNil(t, booking.CheckInTime)
	assert.True(t, booking.ContractSigned)
	assert.False(t, booking.InsuranceConfirmed)

	f.expectRollback()
	_, err = f.svc.UpdateOperations(context.Background(), Actor{UserID: 42, Role: models.RoleUser}, 10, UpdateOperationsRequest{ContractSigned: &signed})
	assert.ErrorIs(t, err, ErrForbidden)

	bad := "soon"
	_, err = f.svc.UpdateOperations(context.Background(), owner, 10, UpdateOperationsRequest{CheckOutTime: &bad})
	assert.ErrorIs(t, err, ErrBookingValidation)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetBookingByID_Visibility(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.getFn = func(ctx context.Context, id int64) (*models.Booking, error) {
		return bookingOnBoatOwnedBy(7, models.BookingStatusPending, models.PaymentStatusPending), nil
	}

	for _, actor := range []Actor{
		{UserID: 42, Role: models.RoleUser},
		{UserID: 7, Role: models.RoleOwner},
		{UserID: 1, Role: models.RoleAdmin},
	} {
		_, err := f.svc.GetBookingByID(context.Background(), actor, 10)
		assert.NoError(t, err, "actor %+v", actor)
	}
	_, err := f.svc.GetBookingByID(context.Background(), Actor{UserID: 50, Role: models.RoleOwner}, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	f.bookings.getFn = func(ctx context.Context, id int64) (*models.Booking, error) { return nil, repositories.ErrNotFound }
	_, err = f.svc.GetBookingByID(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin}, 10)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListings_ScopeFilters(t *testing.T) {
	f := newBookingFixture(t)
	var got models.BookingFilters
	f.bookings.listFn = func(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
		got = filters
		return nil, 0, nil
	}
	other := int64(99)

	_, _, err := f.svc.GetMyBookings(context.Background(), Actor{UserID: 42}, models.BookingFilters{UserID: &other, OwnerID: &other})
	require.NoError(t, err)
	assert.Equal(t, int64(42), *got.UserID)
	assert.Nil(t, got.OwnerID)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.PageSize)

	_, _, err = f.svc.GetOwnerBookings(context.Background(), Actor{UserID: 7}, models.BookingFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(7), *got.OwnerID)
	assert.Equal(t, 100, got.PageSize)

	bad := "SHIPPED"
	_, _, err = f.svc.ListBookings(context.Background(), models.BookingFilters{Status: &bad})
	assert.ErrorIs(t, err, ErrBookingValidation)
}

func TestExpirePendingBookings(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.expireFn = func(ctx context.Context, before time.Time) (int64, error) {
		assert.True(t, before.Equal(fixedNow.Add(-30*time.Minute)))
		return 3, nil
	}

	n, err := f.svc.ExpirePendingBookings(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = f.svc.ExpirePendingBookings(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.deleteFn = func(ctx context.Context, id int64) error { return repositories.ErrNotFound }
	assert.ErrorIs(t, f.svc.DeleteBooking(context.Background(), 10), ErrBookingNotFound)

	f.bookings.deleteFn = func(ctx context.Context, id int64) error { return nil }
	assert.NoError(t, f.svc.DeleteBooking(context.Background(), 10))
}
