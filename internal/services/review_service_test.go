package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

func newReviewFixture(t *testing.T, booking *models.Booking) (ReviewService, *reviewRepoMock) {
	db, _ := newMockDB(t)
	reviews := &reviewRepoMock{
		createFn: func(ctx context.Context, r *models.Review) (int64, error) {
			r.ID = 11
			return 11, nil
		},
	}
	bookings := &bookingRepoMock{
		getFn: func(ctx context.Context, id int64) (*models.Booking, error) {
			if booking == nil || id != booking.ID {
				return nil, repositories.ErrNotFound
			}
			cp := *booking
			return &cp, nil
		},
	}
	boats := &boatRepoMock{
		getFn: func(ctx context.Context, id int64) (*models.Boat, error) {
			if id != 1 {
				return nil, repositories.ErrNotFound
			}
			return availableBoat(), nil
		},
	}
	return NewReviewService(reviews, bookings, boats, db), reviews
}

func TestCreateReview(t *testing.T) {
	booking := &models.Booking{ID: 20, UserID: 4, BoatID: 1, Status: models.BookingStatusCompleted}
	svc, _ := newReviewFixture(t, booking)

	review, err := svc.CreateReview(context.Background(), Actor{UserID: 4, Role: models.RoleUser}, CreateReviewRequest{BookingID: 20, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
	assert.Equal(t, int64(1), review.BoatID)
	assert.Equal(t, int64(4), review.UserID)
}

func TestCreateReview_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  models.BookingStatus
		actor   int64
		req     CreateReviewRequest
		dupe    bool
		wantErr error
	}{
		{"rating out of range", models.BookingStatusCompleted, 4, CreateReviewRequest{BookingID: 20, Rating: 6}, false, ErrInvalidReviewRating},
		{"unknown booking", models.BookingStatusCompleted, 4, CreateReviewRequest{BookingID: 99, Rating: 4}, false, ErrBookingNotFound},
		{"someone else's booking", models.BookingStatusCompleted, 8, CreateReviewRequest{BookingID: 20, Rating: 4}, false, ErrForbidden},
		{"booking not completed", models.BookingStatusConfirmed, 4, CreateReviewRequest{BookingID: 20, Rating: 4}, false, ErrReviewNotAllowed},
		{"already reviewed", models.BookingStatusCompleted, 4, CreateReviewRequest{BookingID: 20, Rating: 4}, true, ErrReviewExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reviews := newReviewFixture(t, &models.Booking{ID: 20, UserID: 4, BoatID: 1, Status: tt.status})
			if tt.dupe {
				reviews.createFn = func(ctx context.Context, r *models.Review) (int64, error) { return 0, repositories.ErrDuplicateKey }
			}
			_, err := svc.CreateReview(context.Background(), Actor{UserID: tt.actor, Role: models.RoleUser}, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetBoatReviews(t *testing.T) {
	svc, reviews := newReviewFixture(t, nil)
	reviews.listFn = func(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error) {
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, pageSize)
		return []models.Review{{ID: 1, BoatID: boatID, Rating: 4}}, 1, nil
	}

	list, total, err := svc.GetBoatReviews(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)

	_, _, err = svc.GetBoatReviews(context.Background(), 2, 1, 10)
	assert.ErrorIs(t, err, ErrBoatNotFound)
}

func TestDeleteReview(t *testing.T) {
	svc, reviews := newReviewFixture(t, nil)
	reviews.deleteFn = func(ctx context.Context, id int64) error {
		if id == 11 {
			return nil
		}
		return repositories.ErrNotFound
	}
	assert.NoError(t, svc.DeleteReview(context.Background(), 11))
	assert.ErrorIs(t, svc.DeleteReview(context.Background(), 12), ErrReviewNotFound)
}
